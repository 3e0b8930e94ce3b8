package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/choirdinated/backend/internal/app/controllers"
	"github.com/choirdinated/backend/internal/app/models"
	"github.com/choirdinated/backend/internal/app/models/dto"
	"github.com/choirdinated/backend/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	choirController *controllers.ChoirController,
	memberController *controllers.MemberController,
	eventController *controllers.EventController,
	lovController *controllers.ListOfValueController,
	importController *controllers.ImportController,
	registryController *controllers.RegistryController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.Refresh)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)
		authenticated.GET("/auth/me", authController.Me)

		// Register proxy (authenticated, not choir-scoped)
		registry := authenticated.Group("/registry")
		{
			registry.GET("/organizations", registryController.Search)
			registry.GET("/organizations/:orgNumber", registryController.Lookup)
		}

		choirs := authenticated.Group("/choirs")
		{
			choirs.POST("", choirController.CreateChoir)
			choirs.GET("", choirController.ListMyChoirs)
		}

		// Everything below requires the caller to be a member of :choirId.
		// RequireMembership resolves the caller's member row and pins the
		// choir ID from it, so handlers never trust a client-supplied choir.
		choir := choirs.Group("/:choirId")
		choir.Use(authMiddleware.RequireMembership())
		{
			choir.GET("", choirController.GetChoir)
			choir.GET("/holidays", choirController.ListHolidays)

			// Member and leave reads are open to all members
			members := choir.Group("/members")
			{
				members.GET("", memberController.ListMembers)
				members.GET("/:memberId", memberController.GetMember)
				members.POST("/:memberId/leaves", memberController.CreateLeave)
			}

			events := choir.Group("/events")
			{
				events.GET("", eventController.ListEvents)
				events.GET("/:eventId", eventController.GetEvent)
				events.GET("/:eventId/instances", eventController.ListInstances)
				events.PUT("/:eventId/attendance/intent", eventController.SetIntent)
				events.GET("/:eventId/attendance", eventController.ListAttendance)
				events.GET("/:eventId/attendance/summary", eventController.GetAttendanceSummary)
			}

			values := choir.Group("/list-of-values")
			{
				values.GET("/:category", lovController.ListByCategory)
			}

			// Management routes are restricted to admins and organizers
			managed := choir.Group("")
			managed.Use(authMiddleware.RoleRequired(models.RoleAdmin, models.RoleOrganizer))
			{
				managed.POST("/members", memberController.CreateMember)
				managed.PUT("/members/:memberId", memberController.UpdateMember)
				managed.DELETE("/members/:memberId", memberController.DeleteMember)
				managed.POST("/members/:memberId/periods", memberController.StartPeriod)
				managed.PUT("/members/:memberId/periods/end", memberController.EndPeriod)
				managed.PUT("/members/:memberId/leaves/:leaveId/approve", memberController.ApproveLeave)
				managed.PUT("/members/:memberId/leaves/:leaveId/reject", memberController.RejectLeave)

				managed.POST("/events", eventController.CreateEvent)
				managed.PUT("/events/:eventId", eventController.UpdateEvent)
				managed.DELETE("/events/:eventId", eventController.DeleteEvent)
				managed.PUT("/events/:eventId/attendance/:memberId/actual", eventController.RecordActual)

				managed.POST("/list-of-values", lovController.CreateValue)
				managed.GET("/list-of-values/diagnostics", lovController.Diagnostics)
				managed.PUT("/list-of-values/:valueId", lovController.UpdateValue)
				managed.DELETE("/list-of-values/:valueId", lovController.DeleteValue)

				managed.POST("/holidays", choirController.AddHoliday)
				managed.DELETE("/holidays/:holidayId", choirController.DeleteHoliday)
			}

			// Choir settings and imports are admin-only
			adminOnly := choir.Group("")
			adminOnly.Use(authMiddleware.RoleRequired(models.RoleAdmin))
			{
				adminOnly.PUT("", choirController.UpdateChoir)
				adminOnly.PUT("/settings", choirController.UpdateSettings)

				adminOnly.POST("/import/members/preview", importController.Preview)
				adminOnly.POST("/import/members", importController.Execute)
			}
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})
}
