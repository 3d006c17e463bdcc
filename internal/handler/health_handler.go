package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// HealthHandler handles the banner and health check endpoints.
type HealthHandler struct {
	db *sqlx.DB
}

// NewHealthHandler creates a new HealthHandler. db may be nil when the
// service runs without a database.
func NewHealthHandler(db *sqlx.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Root handles GET /
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "invoicecheck",
		"status":  "running",
		"endpoints": gin.H{
			"process": "POST /api/v1/invoices/process",
			"extract": "POST /api/v1/invoices/extract",
			"batch":   "POST /api/v1/batches",
			"bill":    "GET /api/v1/bills/:bill_id",
			"run":     "GET /api/v1/runs/:id",
			"report":  "GET /api/v1/runs/:id/report.xlsx",
			"export":  "GET /api/v1/runs/export.csv",
			"token":   "POST /api/v1/auth/token",
			"docs":    "GET /swagger/index.html",
		},
	})
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
func (h *HealthHandler) Readiness(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "disabled"})
		return
	}
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "database not reachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
