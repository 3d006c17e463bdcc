package handler

import (
	"github.com/gin-gonic/gin"

	"invoicecheck/internal/service"
)

// BatchHandler handles GSPPI batch and processed-log endpoints.
type BatchHandler struct {
	batchService service.BatchService
}

// NewBatchHandler creates a new BatchHandler.
func NewBatchHandler(batchService service.BatchService) *BatchHandler {
	return &BatchHandler{batchService: batchService}
}

// Run handles POST /api/v1/batches
// @Summary Run the GSPPI batch
// @Description Fetch the digital invoice list and process every entry synchronously
// @Tags batches
// @Produce json
// @Success 200 {object} Response{data=service.BatchResult} "Batch finished"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 502 {object} ErrorResponseBody "Invoice source unavailable"
// @Security BearerAuth
// @Router /batches [post]
func (h *BatchHandler) Run(c *gin.Context) {
	res, err := h.batchService.Run(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, res)
}

// GetBill handles GET /api/v1/bills/:bill_id
// @Summary Get a processed bill
// @Description Return the processed-log entry of a GSPPI bill
// @Tags batches
// @Produce json
// @Param bill_id path string true "GSPPI bill id"
// @Success 200 {object} Response{data=domain.ProcessedBill} "Processed-log entry"
// @Failure 404 {object} ErrorResponseBody "Bill not found"
// @Security BearerAuth
// @Router /bills/{bill_id} [get]
func (h *BatchHandler) GetBill(c *gin.Context) {
	bill, err := h.batchService.GetBill(c.Request.Context(), c.Param("bill_id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, bill)
}

// ListBills handles GET /api/v1/bills
// @Summary List processed bills
// @Tags batches
// @Produce json
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit" default(20)
// @Success 200 {object} PaginatedResponse{data=[]domain.ProcessedBill} "Processed log"
// @Security BearerAuth
// @Router /bills [get]
func (h *BatchHandler) ListBills(c *gin.Context) {
	offset, limit := parsePagination(c)

	bills, total, err := h.batchService.ListBills(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, bills, PagMeta{Total: total, Offset: offset, Limit: limit})
}
