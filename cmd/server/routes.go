package main

import (
	"github.com/fundloop/fundloop/backend/internal/handlers"
	"github.com/fundloop/fundloop/backend/internal/middleware"
	"github.com/fundloop/fundloop/backend/internal/models"
	"github.com/fundloop/fundloop/backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for unauthenticated routes
	publicLimiter := middleware.NewRateLimiter(10, 20)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "fundloop"})
	})

	db := models.GetDB()
	contactHandler := handlers.NewContactHandler(db)
	projectHandler := handlers.NewProjectHandler(db)
	paymentHandler := handlers.NewPaymentHandler(db, svc.cfg)
	invitationHandler := handlers.NewInvitationHandler(db)
	organizationHandler := handlers.NewOrganizationHandler(db)
	analyticsHandler := handlers.NewAnalyticsHandler(db)

	api := r.Group("/api")
	{
		// Auth routes (public, rate limited)
		auth := api.Group("/auth", publicLimiter.Middleware())
		{
			auth.POST("/signup", svc.authHandler.Signup)
			auth.POST("/login", svc.authHandler.Login)
			auth.POST("/refresh", svc.authHandler.Refresh)
		}

		// Invitation pre-check for the signup form (public, rate limited)
		api.GET("/invitations/:code/validate", publicLimiter.Middleware(), invitationHandler.Validate)

		// Public directory and dashboards
		api.GET("/projects", projectHandler.List)
		api.GET("/projects/:id", projectHandler.Get)
		api.GET("/projects/slug/:slug", projectHandler.GetBySlug)
		api.GET("/analytics/overview", analyticsHandler.Overview)
		api.GET("/analytics/monthly", analyticsHandler.MonthlyTrend)
		api.GET("/analytics/top-projects", analyticsHandler.TopProjects)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(), middleware.AuditLog())
		{
			// Auth
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)
			protected.POST("/auth/logout", svc.authHandler.Logout)
			protected.POST("/auth/change-password", svc.authHandler.ChangePassword)

			// Contact records: emails and wallets share one handler
			emails := protected.Group("/me/emails")
			{
				emails.GET("", contactHandler.List(models.ContactKindEmail))
				emails.POST("", contactHandler.Add(models.ContactKindEmail))
				emails.PUT("/:id", contactHandler.UpdateMetadata(models.ContactKindEmail))
				emails.PUT("/:id/primary", contactHandler.SetPrimary(models.ContactKindEmail))
				emails.DELETE("/:id", contactHandler.Remove(models.ContactKindEmail))
			}
			wallets := protected.Group("/me/wallets")
			{
				wallets.GET("", contactHandler.List(models.ContactKindWallet))
				wallets.POST("", contactHandler.Add(models.ContactKindWallet))
				wallets.PUT("/:id", contactHandler.UpdateMetadata(models.ContactKindWallet))
				wallets.PUT("/:id/primary", contactHandler.SetPrimary(models.ContactKindWallet))
				wallets.DELETE("/:id", contactHandler.Remove(models.ContactKindWallet))
			}

			// Invitation codes
			protected.GET("/me/invitation", invitationHandler.GetMine)
			protected.POST("/me/invitation", invitationHandler.Generate)

			// Projects (write operations check ownership in the handler)
			protected.POST("/projects", projectHandler.Create)
			protected.PUT("/projects/:id", projectHandler.Update)
			protected.DELETE("/projects/:id", projectHandler.Delete)

			// Payments
			protected.GET("/payments", paymentHandler.List)
			protected.GET("/payments/:id", paymentHandler.Get)
			protected.POST("/payments/:id/mark-paid", paymentHandler.MarkPaid)
			protected.GET("/projects/:id/payments/default-period", paymentHandler.DefaultPeriod)
			protected.POST("/projects/:id/payments", paymentHandler.Create)
			protected.POST("/projects/:id/payments/batch", paymentHandler.SubmitBatch)

			// Organizations
			protected.GET("/organizations", organizationHandler.List)
			protected.GET("/organizations/:id", organizationHandler.Get)
			protected.POST("/organizations", organizationHandler.Create)
			protected.GET("/organizations/:id/members", organizationHandler.Members)
			protected.POST("/organizations/:id/members", organizationHandler.AddMember)
			protected.DELETE("/organizations/:id/members/:userID", organizationHandler.RemoveMember)
		}

		// Admin only routes
		admin := api.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired(), middleware.AuditLog())
		{
			// Payment confirmation is an operator action
			admin.POST("/payments/:id/confirm", paymentHandler.Confirm)
			admin.POST("/payments/:id/fail", paymentHandler.Fail)

			// Users
			userHandler := handlers.NewUserHandler(db)
			admin.GET("/users", userHandler.List)
			admin.GET("/users/:id", userHandler.Get)
			admin.PUT("/users/:id", userHandler.Update)
			admin.DELETE("/users/:id", userHandler.Delete)

			// Audit Logs
			auditHandler := handlers.NewAuditHandler(db)
			admin.GET("/audit-logs", auditHandler.List)
		}
	}
}
