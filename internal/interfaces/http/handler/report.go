package handler

import (
	"github.com/bizdesk/erp/internal/application/report"
	"github.com/gin-gonic/gin"
)

// ReportHandler serves aggregated tenant reports
type ReportHandler struct {
	BaseHandler
	dashboardService *report.DashboardService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(dashboardService *report.DashboardService) *ReportHandler {
	return &ReportHandler{dashboardService: dashboardService}
}

// Dashboard returns receivables, counts, recent transactions and the
// monthly income/expense series
// GET /reports/dashboard
func (h *ReportHandler) Dashboard(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	dashboard, err := h.dashboardService.Dashboard(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dashboard)
}
