package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"tutorlink.backend/internal/interfaces/http/handlers"
)

func stubRouteDeps() routeDeps {
	return routeDeps{
		authHandler:              &handlers.AuthHandler{},
		adminHandler:             &handlers.AdminHandler{},
		profileHandler:           &handlers.ProfileHandler{},
		verificationHandler:      &handlers.VerificationHandler{},
		adminVerificationHandler: &handlers.AdminVerificationHandler{},
		registrationHandler:      &handlers.RegistrationHandler{},
		availabilityHandler:      &handlers.AvailabilityHandler{},
		eventsHandler:            &handlers.EventsHandler{},
		authMiddleware:           func(c *gin.Context) { c.Next() },
	}
}

func TestRegisterAPIV1Routes_RegistersKeyRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	registerAPIV1Routes(r, stubRouteDeps())

	routes := r.Routes()
	if len(routes) < 35 {
		t.Fatalf("expected many routes registered, got %d", len(routes))
	}

	expects := []struct {
		method string
		path   string
	}{
		{"POST", "/api/v1/auth/login"},
		{"GET", "/api/v1/auth/me"},
		{"PUT", "/api/v1/registration/pending"},
		{"GET", "/api/v1/tutors/:id/slots"},
		{"PUT", "/api/v1/tutors/me/availability"},
		{"GET", "/api/v1/verification/document-slots"},
		{"POST", "/api/v1/verification/requests"},
		{"GET", "/api/v1/verification/requests/latest"},
		{"POST", "/api/v1/verification/requests/:id/documents/batch"},
		{"GET", "/api/v1/verification/events"},
		{"GET", "/api/v1/admin/verification/requests"},
		{"POST", "/api/v1/admin/verification/requests/:id/approve"},
		{"PUT", "/api/v1/admin/verification/references/:id/status"},
		{"POST", "/api/v1/admin/users/:id/promote"},
	}

	for _, exp := range expects {
		found := false
		for _, route := range routes {
			if route.Method == exp.method && route.Path == exp.path {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("route %s %s not registered", exp.method, exp.path)
		}
	}
}

func TestRegisterAPIV1Routes_AdminRoutesNeedAdminRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	registerAPIV1Routes(r, stubRouteDeps())

	// the stub auth middleware sets no role
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/verification/requests", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRegisterAPIV1Routes_IdempotencyOnWrites(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	deps := stubRouteDeps()
	var hits int
	deps.idempotencyMiddleware = func(c *gin.Context) {
		hits++
		c.AbortWithStatus(http.StatusTeapot)
	}
	registerAPIV1Routes(r, deps)

	for _, path := range []string{
		"/api/v1/verification/requests",
		"/api/v1/verification/requests/abc/documents",
		"/api/v1/admin/verification/requests/abc/reject",
	} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if path == "/api/v1/admin/verification/requests/abc/reject" {
			// RequireAdmin runs first and rejects the role-less caller
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("%s: expected 401, got %d", path, rec.Code)
			}
			continue
		}
		if rec.Code != http.StatusTeapot {
			t.Fatalf("%s: expected idempotency middleware to run, got %d", path, rec.Code)
		}
	}
	if hits != 2 {
		t.Fatalf("expected 2 idempotency hits, got %d", hits)
	}
}
