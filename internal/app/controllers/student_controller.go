package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leemrnda21/hau-kiosk-registar/internal/app/models/dto"
	"github.com/leemrnda21/hau-kiosk-registar/internal/app/services"
	"github.com/leemrnda21/hau-kiosk-registar/internal/middleware"
)

// StudentController handles student account endpoints for the registrar view
type StudentController struct {
	studentService *services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService *services.StudentService) *StudentController {
	return &StudentController{
		studentService: studentService,
	}
}

// ListStudents returns student accounts, filtered by the query parameters
// @Summary List student accounts
// @Description Returns student accounts newest first for the registrar view
// @Tags students
// @Produce json
// @Param status query string false "Filter by account status"
// @Param onHold query bool false "Only accounts on hold"
// @Param deactivated query bool false "Only deactivated accounts"
// @Success 200 {object} dto.APIResponse "Student list"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	filter := dto.StudentListFilter{
		Status:      ctx.Query("status"),
		OnHold:      ctx.Query("onHold") == "true",
		Deactivated: ctx.Query("deactivated") == "true",
	}

	students, err := c.studentService.List(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(students))
}

// ApplyAction runs one registrar action against a student account
// @Summary Apply a registrar action to a student
// @Description Applies approve, reject, hold, release-hold, deactivate or reactivate to an account
// @Tags students
// @Accept json
// @Produce json
// @Param id path string true "Student id"
// @Param request body dto.StudentActionRequest true "Action and optional reason/holdUntil"
// @Success 200 {object} dto.APIResponse "Updated student"
// @Failure 400 {object} dto.ErrorResponse "Unknown action or invalid hold date"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Audit trail write failed or internal server error"
// @Security BearerAuth
// @Router /students/{id} [patch]
func (c *StudentController) ApplyAction(ctx *gin.Context) {
	var body dto.StudentActionRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	updated, err := c.studentService.ApplyAction(ctx, ctx.Param("id"), middleware.ActorEmail(ctx), body)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(updated))
}
