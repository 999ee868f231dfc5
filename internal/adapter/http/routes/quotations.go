package routes

import (
	"brcargo_quotes/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathQuotations = "/quotations"
	PathDashboard  = "/dashboard"
	PathSync       = "/sync"
)

func addQuotationRoutes(rg *gin.RouterGroup, quotationHandler *handlers.QuotationHandler) {
	quotations := rg.Group(PathQuotations)
	{
		quotations.POST("", quotationHandler.CreateQuotation)
		quotations.GET("", quotationHandler.ListQuotations)
		quotations.GET("/:id", quotationHandler.GetQuotation)
		quotations.POST("/:id/submit", quotationHandler.SubmitQuotation)
		quotations.POST("/:id/responses/:company_id", quotationHandler.RecordResponse)
		quotations.POST("/:id/finalize", quotationHandler.FinalizeQuotation)
		quotations.POST("/:id/cancel", quotationHandler.CancelQuotation)
	}
}

func addDashboardRoutes(rg *gin.RouterGroup, dashboardHandler *handlers.DashboardHandler, syncHandler *handlers.SyncHandler) {
	dashboard := rg.Group(PathDashboard)
	{
		dashboard.GET("/metrics", dashboardHandler.GetMetrics)
		dashboard.GET("/status", dashboardHandler.GetTransportStatus)
		dashboard.GET("/history", dashboardHandler.GetHistory)
		dashboard.GET("/events", dashboardHandler.StreamEvents)
	}

	sync := rg.Group(PathSync)
	{
		sync.POST("/refresh", syncHandler.RefreshNow)
	}
}
