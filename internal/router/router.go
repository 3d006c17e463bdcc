package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"invoicecheck/internal/handler"
	"invoicecheck/internal/middleware"
	"invoicecheck/internal/service"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Auth    *handler.AuthHandler
	Invoice *handler.InvoiceHandler
	Batch   *handler.BatchHandler
	Run     *handler.RunHandler
	Health  *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware. A nil
// authSvc leaves the API routes open.
func Setup(
	logger *zap.Logger,
	allowedOrigins []string,
	authSvc service.AuthService,
	h Handlers,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(allowedOrigins))

	// Banner, health checks and docs
	r.GET("/", h.Health.Root)
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	if authSvc != nil {
		v1.POST("/auth/token", h.Auth.Token)
	}

	protected := v1.Group("")
	if authSvc != nil {
		protected.Use(middleware.AuthMiddleware(authSvc))
	}

	invoices := protected.Group("/invoices")
	invoices.POST("/process", h.Invoice.Process)
	invoices.POST("/extract", h.Invoice.Extract)

	protected.POST("/batches", h.Batch.Run)
	protected.GET("/bills", h.Batch.ListBills)
	protected.GET("/bills/:bill_id", h.Batch.GetBill)

	runs := protected.Group("/runs")
	runs.GET("", h.Run.List)
	runs.GET("/export.csv", h.Run.ExportCSV)
	runs.GET("/:id", h.Run.GetByID)
	runs.GET("/:id/report.xlsx", h.Run.ReportXLSX)

	return r
}
