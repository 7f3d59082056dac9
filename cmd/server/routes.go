package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"tutorlink.backend/internal/domain/entities"
	"tutorlink.backend/internal/interfaces/http/handlers"
	"tutorlink.backend/internal/interfaces/http/middleware"
)

const (
	serviceName    = "tutorlink-backend"
	serviceVersion = "0.1.0"
)

type routeDeps struct {
	authHandler              *handlers.AuthHandler
	adminHandler             *handlers.AdminHandler
	profileHandler           *handlers.ProfileHandler
	verificationHandler      *handlers.VerificationHandler
	adminVerificationHandler *handlers.AdminVerificationHandler
	registrationHandler      *handlers.RegistrationHandler
	availabilityHandler      *handlers.AvailabilityHandler
	eventsHandler            *handlers.EventsHandler
	authMiddleware           gin.HandlerFunc
	idempotencyMiddleware    gin.HandlerFunc
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID, Idempotency-Key, X-Registration-Token")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID, X-Idempotency-Hit")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
			"version": serviceVersion,
		})
	})
}

func registerMetricsRoute(r *gin.Engine, g prometheus.Gatherer) {
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(g, promhttp.HandlerOpts{})))
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	idem := d.idempotencyMiddleware
	if idem == nil {
		idem = func(c *gin.Context) { c.Next() }
	}

	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.authHandler.Register)
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/refresh", d.authHandler.RefreshToken)
			auth.GET("/me", d.authMiddleware, d.authHandler.GetMe)
		}

		// Pre-registration drafts (public, keyed by email)
		registration := v1.Group("/registration")
		{
			registration.PUT("/pending", d.registrationHandler.SavePending)
			registration.GET("/pending", d.registrationHandler.GetPending)
			registration.DELETE("/pending", d.registrationHandler.DeletePending)
		}

		v1.GET("/profile/me", d.authMiddleware, d.profileHandler.GetMyProfile)

		// Tutor directory; /me routes need a signed-in tutor
		tutors := v1.Group("/tutors")
		{
			tutors.GET("", d.profileHandler.ListTutors)
			tutors.PUT("/me", d.authMiddleware, middleware.RequireRole(entities.UserRoleTutor), d.profileHandler.UpdateMyTutorProfile)
			tutors.PUT("/me/availability", d.authMiddleware, middleware.RequireRole(entities.UserRoleTutor), d.availabilityHandler.SetMyAvailability)
			tutors.GET("/:id", d.profileHandler.GetTutor)
			tutors.GET("/:id/availability", d.availabilityHandler.GetAvailability)
			tutors.GET("/:id/slots", d.availabilityHandler.GetSlots)
		}

		institutions := v1.Group("/institutions")
		{
			institutions.GET("", d.profileHandler.ListInstitutions)
			institutions.GET("/:id", d.profileHandler.GetInstitution)
		}

		v1.GET("/verification/document-slots", d.verificationHandler.GetDocumentSlots)

		// Verification routes (protected)
		verification := v1.Group("/verification")
		verification.Use(d.authMiddleware)
		{
			verification.GET("/me", d.verificationHandler.GetMyStatus)
			verification.GET("/events", d.eventsHandler.StreamMine)
			verification.POST("/requests", idem, d.verificationHandler.CreateRequest)
			verification.GET("/requests/latest", d.verificationHandler.GetLatestRequest)
			verification.GET("/requests/:id", d.verificationHandler.GetRequest)
			verification.POST("/requests/:id/documents", idem, d.verificationHandler.UploadDocument)
			verification.POST("/requests/:id/documents/batch", idem, d.verificationHandler.UploadBatch)
			verification.POST("/requests/:id/references", idem, d.verificationHandler.AddReference)
			verification.POST("/requests/:id/test-attempts", idem, d.verificationHandler.AddTestAttempt)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(d.authMiddleware, middleware.RequireAdmin())
		{
			admin.GET("/users", d.adminHandler.ListUsers)
			admin.POST("/users/:id/promote", d.adminHandler.PromoteUser)

			admin.GET("/verification/events", d.eventsHandler.StreamAdmin)
			admin.GET("/verification/requests", d.adminVerificationHandler.ListRequests)
			admin.GET("/verification/requests/:id", d.adminVerificationHandler.GetRequest)
			admin.PUT("/verification/requests/:id/status", d.adminVerificationHandler.UpdateStatus)
			admin.POST("/verification/requests/:id/approve", idem, d.adminVerificationHandler.Approve)
			admin.POST("/verification/requests/:id/reject", idem, d.adminVerificationHandler.Reject)
			admin.POST("/verification/requests/:id/reverify", idem, d.adminVerificationHandler.ReVerify)
			admin.PUT("/verification/references/:id/status", d.adminVerificationHandler.UpdateReferenceStatus)
		}
	}
}
