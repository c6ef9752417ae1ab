package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/leemrnda21/hau-kiosk-registar/internal/app/controllers"
	"github.com/leemrnda21/hau-kiosk-registar/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	requestController *controllers.RequestController,
	studentController *controllers.StudentController,
	auditController *controllers.AuditController,
	eventsController *controllers.EventsController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/admin/login", authController.AdminLogin)
		auth.POST("/enrollment", authController.Enrollment)
		auth.POST("/forgot-password", authController.ForgotPassword)
		auth.POST("/reset-password", authController.ResetPassword)
	}

	// --- Kiosk and student-facing routes ---
	// The kiosk terminal and the student portal hit these without an admin
	// session; the SSE stream is shared by both sides.
	v1.POST("/requests", requestController.CreateRequest)
	v1.GET("/dashboard/requests", requestController.StudentDashboard)
	v1.GET("/events", eventsController.Stream)

	// --- Registrar admin routes ---
	admin := v1.Group("")
	admin.Use(authMiddleware.AdminAuth())
	{
		admin.GET("/requests", requestController.ListRequests)
		admin.PATCH("/requests/:id", requestController.ApplyAction)

		admin.GET("/students", studentController.ListStudents)
		admin.PATCH("/students/:id", studentController.ApplyAction)

		admin.GET("/audit-logs", auditController.ListAuditLogs)
		admin.GET("/admin/overview", auditController.Overview)
	}
}
