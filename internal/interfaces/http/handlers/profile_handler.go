package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"tutorlink.backend/internal/domain/entities"
	domainerrors "tutorlink.backend/internal/domain/errors"
	"tutorlink.backend/internal/interfaces/http/response"
	"tutorlink.backend/internal/usecases"
)

// ProfileHandler serves tutor and institution profiles
type ProfileHandler struct {
	profileUsecase *usecases.ProfileUsecase
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileUsecase *usecases.ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{profileUsecase: profileUsecase}
}

// ListTutors lists tutors, verified first
// GET /api/v1/tutors?verified=true&subject=math
func (h *ProfileHandler) ListTutors(c *gin.Context) {
	tutors, meta, err := h.profileUsecase.ListTutors(
		c.Request.Context(),
		queryBool(c, "verified"),
		c.Query("subject"),
		queryInt(c, "page", 1),
		queryInt(c, "limit", 20),
	)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, "tutors", tutors, meta)
}

// GetTutor returns one tutor profile by user id
// GET /api/v1/tutors/:id
func (h *ProfileHandler) GetTutor(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	tutor, err := h.profileUsecase.GetTutor(c.Request.Context(), id)
	if err != nil {
		notFoundOr(c, err, "Tutor not found")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tutor": tutor})
}

// ListInstitutions lists institutions
// GET /api/v1/institutions?verified=true
func (h *ProfileHandler) ListInstitutions(c *gin.Context) {
	items, meta, err := h.profileUsecase.ListInstitutions(
		c.Request.Context(),
		queryBool(c, "verified"),
		queryInt(c, "page", 1),
		queryInt(c, "limit", 20),
	)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, "institutions", items, meta)
}

// GetInstitution returns one institution profile by user id
// GET /api/v1/institutions/:id
func (h *ProfileHandler) GetInstitution(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	item, err := h.profileUsecase.GetInstitution(c.Request.Context(), id)
	if err != nil {
		notFoundOr(c, err, "Institution not found")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"institution": item})
}

// GetMyProfile returns the caller's base profile
// GET /api/v1/profile/me
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileUsecase.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"profile": profile})
}

// UpdateMyTutorProfile edits the caller's tutor profile
// PUT /api/v1/tutors/me
func (h *ProfileHandler) UpdateMyTutorProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input entities.UpdateTutorProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	tutor, err := h.profileUsecase.UpdateTutorProfile(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tutor": tutor})
}
