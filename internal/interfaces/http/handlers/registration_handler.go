package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"tutorlink.backend/internal/domain/entities"
	domainerrors "tutorlink.backend/internal/domain/errors"
	"tutorlink.backend/internal/interfaces/http/response"
	"tutorlink.backend/internal/usecases"
)

// RegistrationHandler keeps a visitor's half finished sign-up between page loads
type RegistrationHandler struct {
	pendingUsecase *usecases.PendingRegistrationUsecase
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(pendingUsecase *usecases.PendingRegistrationUsecase) *RegistrationHandler {
	return &RegistrationHandler{pendingUsecase: pendingUsecase}
}

// SavePending stores the profile fields entered so far
// PUT /api/v1/registration/pending
func (h *RegistrationHandler) SavePending(c *gin.Context) {
	var input entities.SavePendingRegistrationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	pending, err := h.pendingUsecase.Save(c.Request.Context(), &input, registrationToken(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"pending": pending})
}

// registrationToken reads the claim token from the header, falling back to ?token=
func registrationToken(c *gin.Context) string {
	if token := c.GetHeader(entities.PendingRegistrationTokenHeader); token != "" {
		return token
	}
	return c.Query("token")
}

// GetPending returns the saved fields for ?email= to the holder of the claim token
// GET /api/v1/registration/pending
func (h *RegistrationHandler) GetPending(c *gin.Context) {
	email, token := c.Query("email"), registrationToken(c)
	if email == "" || token == "" {
		response.Error(c, domainerrors.BadRequest("email and registration token are required"))
		return
	}

	pending, err := h.pendingUsecase.Get(c.Request.Context(), email, token)
	if err != nil {
		notFoundOr(c, err, "No pending registration")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"pending": pending})
}

// DeletePending discards the saved fields for ?email=
// DELETE /api/v1/registration/pending
func (h *RegistrationHandler) DeletePending(c *gin.Context) {
	email, token := c.Query("email"), registrationToken(c)
	if email == "" || token == "" {
		response.Error(c, domainerrors.BadRequest("email and registration token are required"))
		return
	}

	if err := h.pendingUsecase.Delete(c.Request.Context(), email, token); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
