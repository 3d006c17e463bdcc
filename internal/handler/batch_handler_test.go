package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"invoicecheck/internal/domain"
	"invoicecheck/internal/handler"
	"invoicecheck/internal/service"
	"invoicecheck/mocks"
)

func TestBatchHandler_Run_Success(t *testing.T) {
	svc := new(mocks.MockBatchService)
	h := handler.NewBatchHandler(svc)

	svc.On("Run", mock.Anything).Return(&service.BatchResult{
		Status:    "success",
		Timestamp: time.Now(),
		Summary:   domain.BatchSummary{TotalFetched: 2, Succeeded: 1, Failed: 1, FailedBills: []string{"B-2"}},
		Results: map[string]*service.BillResult{
			"B-1": {BillID: "B-1", Status: domain.BillStatusSuccess},
			"B-2": {BillID: "B-2", Status: domain.BillStatusFailed, Error: "download failed"},
		},
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/batches", http.NoBody)

	h.Run(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data service.BatchResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.Summary.TotalFetched)
	assert.Equal(t, "download failed", resp.Data.Results["B-2"].Error)
}

func TestBatchHandler_Run_SourceUnavailable(t *testing.T) {
	svc := new(mocks.MockBatchService)
	h := handler.NewBatchHandler(svc)
	svc.On("Run", mock.Anything).Return(nil, domain.ErrSourceUnavailable)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/batches", http.NoBody)

	h.Run(c)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "SOURCE_UNAVAILABLE")
}

func TestBatchHandler_GetBill(t *testing.T) {
	svc := new(mocks.MockBatchService)
	h := handler.NewBatchHandler(svc)
	svc.On("GetBill", mock.Anything, "B-1").Return(&domain.ProcessedBill{BillID: "B-1", Status: domain.BillStatusSuccess}, nil)
	svc.On("GetBill", mock.Anything, "B-404").Return(nil, domain.ErrBillNotFound)

	tests := []struct {
		name       string
		billID     string
		wantStatus int
	}{
		{"found", "B-1", http.StatusOK},
		{"not_found", "B-404", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/bills/"+tt.billID, http.NoBody)
			c.Params = gin.Params{{Key: "bill_id", Value: tt.billID}}

			h.GetBill(c)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestBatchHandler_ListBills_Pagination(t *testing.T) {
	svc := new(mocks.MockBatchService)
	h := handler.NewBatchHandler(svc)
	svc.On("ListBills", mock.Anything, 10, 20).Return([]domain.ProcessedBill{{BillID: "B-1"}}, 11, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/bills?offset=10&limit=500", http.NoBody)

	h.ListBills(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, &handler.PagMeta{Total: 11, Offset: 10, Limit: 20}, resp.Meta)
}
