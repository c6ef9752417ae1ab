package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leemrnda21/hau-kiosk-registar/internal/app/models/dto"
	"github.com/leemrnda21/hau-kiosk-registar/internal/app/services"
	"github.com/leemrnda21/hau-kiosk-registar/internal/middleware"
)

// RequestController handles document request endpoints
type RequestController struct {
	requestService *services.RequestService
}

// NewRequestController creates a new RequestController
func NewRequestController(requestService *services.RequestService) *RequestController {
	return &RequestController{
		requestService: requestService,
	}
}

// CreateRequest handles a kiosk submission. One request row is created per
// document line, all under the same payment reference.
// @Summary Submit document requests
// @Description Creates one pending request per document line in a single transaction
// @Tags requests
// @Accept json
// @Produce json
// @Param request body dto.CreateRequestRequest true "Submission details"
// @Success 201 {object} dto.APIResponse "Requests created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or unsupported document type"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /requests [post]
func (c *RequestController) CreateRequest(ctx *gin.Context) {
	var body dto.CreateRequestRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	requests, err := c.requestService.CreateRequests(ctx, body)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(requests))
}

// ListRequests returns the registrar queue, filtered by the query parameters
// @Summary List document requests
// @Description Returns the registrar queue newest first with the owning student joined in
// @Tags requests
// @Produce json
// @Param status query string false "Filter by lifecycle status"
// @Param requestId query string false "Filter by request id"
// @Param needsVerification query bool false "Only unverified paid requests"
// @Success 200 {object} dto.APIResponse "Request list"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /requests [get]
func (c *RequestController) ListRequests(ctx *gin.Context) {
	filter := dto.RequestListFilter{
		Status:            ctx.Query("status"),
		RequestID:         ctx.Query("requestId"),
		NeedsVerification: ctx.Query("needsVerification") == "true",
	}

	requests, err := c.requestService.List(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(requests))
}

// ApplyAction runs one registrar action against a request
// @Summary Apply a registrar action
// @Description Applies approve, reject, hold, release, verify-payment or mark-ready to a request
// @Tags requests
// @Accept json
// @Produce json
// @Param id path string true "Request id"
// @Param request body dto.RequestActionRequest true "Action and optional reason/holdUntil"
// @Success 200 {object} dto.APIResponse "Updated request"
// @Failure 400 {object} dto.ErrorResponse "Unknown action or invalid hold date"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Failure 500 {object} dto.ErrorResponse "Audit trail write failed or internal server error"
// @Security BearerAuth
// @Router /requests/{id} [patch]
func (c *RequestController) ApplyAction(ctx *gin.Context) {
	var body dto.RequestActionRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	updated, err := c.requestService.ApplyAction(ctx, ctx.Param("id"), middleware.ActorEmail(ctx), body)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(updated))
}

// StudentDashboard returns one student's requests and their per-status
// counts, optionally narrowed to a single reference number.
// @Summary Student dashboard view
// @Description Returns a student's requests newest first plus per-status counts
// @Tags requests
// @Produce json
// @Param studentNo query string true "Student number"
// @Param referenceNo query string false "Narrow to one reference number"
// @Success 200 {object} dto.APIResponse "Requests and counts"
// @Failure 400 {object} dto.ErrorResponse "Missing student number"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /dashboard/requests [get]
func (c *RequestController) StudentDashboard(ctx *gin.Context) {
	studentNo := ctx.Query("studentNo")
	if studentNo == "" {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "studentNo is required").WithField("studentNo")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	requests, err := c.requestService.ListForStudent(ctx, studentNo, ctx.Query("referenceNo"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	counts, err := c.requestService.StatusCountsForStudent(ctx, studentNo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(gin.H{
		"requests": requests,
		"counts":   counts,
	}))
}
