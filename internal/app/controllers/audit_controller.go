package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/leemrnda21/hau-kiosk-registar/internal/app/models/dto"
	"github.com/leemrnda21/hau-kiosk-registar/internal/app/services"
	"github.com/leemrnda21/hau-kiosk-registar/internal/middleware"
)

// AuditController exposes the admin action trail
type AuditController struct {
	auditService    *services.AuditService
	overviewService *services.OverviewService
}

// NewAuditController creates a new AuditController
func NewAuditController(auditService *services.AuditService, overviewService *services.OverviewService) *AuditController {
	return &AuditController{
		auditService:    auditService,
		overviewService: overviewService,
	}
}

// ListAuditLogs returns the most recent audit entries, newest first. An
// unparseable limit falls back to the default rather than failing.
// @Summary List audit entries
// @Description Returns the most recent admin actions, newest first
// @Tags audit
// @Produce json
// @Param limit query int false "Entry count, default 20, capped at 100"
// @Success 200 {object} dto.APIResponse "Audit entries"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /audit-logs [get]
func (c *AuditController) ListAuditLogs(ctx *gin.Context) {
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "0"))
	if err != nil {
		limit = 0
	}

	logs, err := c.auditService.List(ctx, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(logs))
}

// Overview returns the registrar dashboard counters and the latest
// submissions feed.
// @Summary Registrar dashboard overview
// @Description Returns queue counters and the five most recent submissions
// @Tags audit
// @Produce json
// @Success 200 {object} dto.APIResponse "Counters and recent requests"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /admin/overview [get]
func (c *AuditController) Overview(ctx *gin.Context) {
	stats, err := c.overviewService.Stats(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	recent, err := c.overviewService.RecentRequests(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(gin.H{
		"stats":          stats,
		"recentRequests": recent,
	}))
}
