package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"tutorlink.backend/internal/domain/entities"
	"tutorlink.backend/internal/infrastructure/metrics"
	"tutorlink.backend/internal/infrastructure/repositories/memory"
	"tutorlink.backend/internal/interfaces/http/middleware"
	"tutorlink.backend/internal/usecases"
	"tutorlink.backend/pkg/crypto"
	"tutorlink.backend/pkg/jwt"
)

func init() {
	crypto.SetHashCost(bcrypt.MinCost)
}

type apiFixture struct {
	router       *gin.Engine
	store        *memory.Store
	docs         *memory.DocumentStore
	publisher    *memory.Publisher
	pending      *memory.PendingRegistrationStore
	jwt          *jwt.JWTService
	verification *usecases.VerificationUsecase
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := memory.NewStore()
	f := &apiFixture{
		store:     s,
		docs:      memory.NewDocumentStore("http://files.test"),
		publisher: &memory.Publisher{},
		pending:   memory.NewPendingRegistrationStore(nil),
		jwt:       jwt.NewJWTService("handler-test-secret", time.Hour, 24*time.Hour),
	}
	f.verification = usecases.NewVerificationUsecase(
		s.UnitOfWork(), s.Users(), s.Profiles(), s.Requests(), s.Documents(), s.References(), s.TestAttempts(),
		f.docs, f.publisher, metrics.New(prometheus.NewRegistry()),
	)
	authUC := usecases.NewAuthUsecase(s.UnitOfWork(), s.Users(), s.Profiles(), f.pending, f.jwt)
	profileUC := usecases.NewProfileUsecase(s.Profiles())
	pendingUC := usecases.NewPendingRegistrationUsecase(f.pending, s.Users(), time.Hour)
	availabilityUC := usecases.NewAvailabilityUsecase(s.Availability(), s.Profiles())

	authH := NewAuthHandler(authUC)
	adminH := NewAdminHandler(authUC)
	profileH := NewProfileHandler(profileUC)
	verificationH := NewVerificationHandler(f.verification)
	reviewH := NewAdminVerificationHandler(f.verification)
	registrationH := NewRegistrationHandler(pendingUC)
	availabilityH := NewAvailabilityHandler(availabilityUC)
	eventsH := NewEventsHandler(f.publisher, 50*time.Millisecond)

	r := gin.New()
	api := r.Group("/api/v1")
	api.POST("/auth/register", authH.Register)
	api.POST("/auth/login", authH.Login)
	api.POST("/auth/refresh", authH.RefreshToken)
	api.GET("/tutors", profileH.ListTutors)
	api.GET("/tutors/:id", profileH.GetTutor)
	api.GET("/tutors/:id/availability", availabilityH.GetAvailability)
	api.GET("/tutors/:id/slots", availabilityH.GetSlots)
	api.GET("/institutions", profileH.ListInstitutions)
	api.GET("/institutions/:id", profileH.GetInstitution)
	api.PUT("/registration/pending", registrationH.SavePending)
	api.GET("/registration/pending", registrationH.GetPending)
	api.DELETE("/registration/pending", registrationH.DeletePending)
	api.GET("/verification/document-slots", verificationH.GetDocumentSlots)

	authed := api.Group("", middleware.AuthMiddleware(f.jwt))
	authed.GET("/auth/me", authH.GetMe)
	authed.GET("/profile/me", profileH.GetMyProfile)

	tutorOnly := authed.Group("", middleware.RequireRole(entities.UserRoleTutor))
	tutorOnly.PUT("/tutors/me", profileH.UpdateMyTutorProfile)
	tutorOnly.PUT("/tutors/me/availability", availabilityH.SetMyAvailability)

	v := authed.Group("/verification")
	v.GET("/me", verificationH.GetMyStatus)
	v.GET("/events", eventsH.StreamMine)
	v.POST("/requests", verificationH.CreateRequest)
	v.GET("/requests/latest", verificationH.GetLatestRequest)
	v.GET("/requests/:id", verificationH.GetRequest)
	v.POST("/requests/:id/documents", verificationH.UploadDocument)
	v.POST("/requests/:id/documents/batch", verificationH.UploadBatch)
	v.POST("/requests/:id/references", verificationH.AddReference)
	v.POST("/requests/:id/test-attempts", verificationH.AddTestAttempt)

	admin := authed.Group("/admin", middleware.RequireAdmin())
	admin.GET("/users", adminH.ListUsers)
	admin.POST("/users/:id/promote", adminH.PromoteUser)
	admin.GET("/verification/events", eventsH.StreamAdmin)
	admin.GET("/verification/requests", reviewH.ListRequests)
	admin.GET("/verification/requests/:id", reviewH.GetRequest)
	admin.PUT("/verification/requests/:id/status", reviewH.UpdateStatus)
	admin.POST("/verification/requests/:id/approve", reviewH.Approve)
	admin.POST("/verification/requests/:id/reject", reviewH.Reject)
	admin.POST("/verification/requests/:id/reverify", reviewH.ReVerify)
	admin.PUT("/verification/references/:id/status", reviewH.UpdateReferenceStatus)

	f.router = r
	return f
}

// seedUser inserts a user with the profile rows registration creates and returns a bearer token
func (f *apiFixture) seedUser(t *testing.T, role entities.UserRole) (uuid.UUID, string) {
	t.Helper()
	ctx := context.Background()
	id := uuid.New()
	email := id.String() + "@mail.com"
	now := time.Now().UTC()
	require.NoError(t, f.store.Users().Create(ctx, &entities.User{ID: id, Email: email, Name: "User " + string(role), Role: role, CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, f.store.Profiles().CreateProfile(ctx, &entities.Profile{UserID: id, FullName: "User", CreatedAt: now, UpdatedAt: now}))
	switch role {
	case entities.UserRoleTutor:
		require.NoError(t, f.store.Profiles().CreateTutorProfile(ctx, &entities.TutorProfile{ID: uuid.New(), UserID: id, Timezone: "UTC", CreatedAt: now}))
	case entities.UserRoleInstitute:
		require.NoError(t, f.store.Profiles().CreateInstitutionProfile(ctx, &entities.InstitutionProfile{ID: uuid.New(), UserID: id, InstitutionName: "Academy", CreatedAt: now}))
	}

	pair, err := f.jwt.GenerateTokenPair(id, email, string(role))
	require.NoError(t, err)
	return id, pair.AccessToken
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(middleware.AuthorizationHeader, middleware.BearerPrefix+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

type formFile struct {
	field       string
	name        string
	contentType string
	content     string
}

func (f *apiFixture) upload(t *testing.T, path, token string, values map[string][]string, files ...formFile) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, vals := range values {
		for _, v := range vals {
			require.NoError(t, mw.WriteField(key, v))
		}
	}
	for _, ff := range files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="`+ff.field+`"; filename="`+ff.name+`"`)
		if ff.contentType != "" {
			h.Set("Content-Type", ff.contentType)
		}
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte(ff.content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(middleware.AuthorizationHeader, middleware.BearerPrefix+token)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

// openRequest creates a request through the API and returns its id
func (f *apiFixture) openRequest(t *testing.T, token string, userType entities.UserType) string {
	t.Helper()
	w := f.do(t, http.MethodPost, "/api/v1/verification/requests", token, gin.H{"userType": userType})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var body struct {
		Request entities.VerificationRequest `json:"request"`
	}
	decode(t, w, &body)
	return body.Request.ID.String()
}
