package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"tutorlink.backend/internal/domain/entities"
	domainerrors "tutorlink.backend/internal/domain/errors"
	"tutorlink.backend/internal/interfaces/http/response"
	"tutorlink.backend/internal/usecases"
)

// AvailabilityHandler serves tutor schedules and bookable slots
type AvailabilityHandler struct {
	availabilityUsecase *usecases.AvailabilityUsecase
}

// NewAvailabilityHandler creates a new availability handler
func NewAvailabilityHandler(availabilityUsecase *usecases.AvailabilityUsecase) *AvailabilityHandler {
	return &AvailabilityHandler{availabilityUsecase: availabilityUsecase}
}

// SetMyAvailability replaces the caller's weekly windows
// PUT /api/v1/tutors/me/availability
func (h *AvailabilityHandler) SetMyAvailability(c *gin.Context) {
	tutorID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input entities.SetAvailabilityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	windows, err := h.availabilityUsecase.SetAvailability(c.Request.Context(), tutorID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"availability": windows})
}

// GetAvailability lists a tutor's weekly windows
// GET /api/v1/tutors/:id/availability
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	tutorID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	windows, err := h.availabilityUsecase.ListAvailability(c.Request.Context(), tutorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"availability": windows})
}

// GetSlots lists upcoming hourly slots in the viewer's timezone
// GET /api/v1/tutors/:id/slots?tz=Europe/Berlin&days=14
func (h *AvailabilityHandler) GetSlots(c *gin.Context) {
	tutorID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	slots, err := h.availabilityUsecase.GetSlots(c.Request.Context(), tutorID, c.Query("tz"), queryInt(c, "days", entities.DefaultSlotHorizonDays))
	if err != nil {
		notFoundOr(c, err, "Tutor not found")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"slots": slots})
}
