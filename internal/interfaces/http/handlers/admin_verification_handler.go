package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"tutorlink.backend/internal/domain/entities"
	domainerrors "tutorlink.backend/internal/domain/errors"
	"tutorlink.backend/internal/interfaces/http/response"
	"tutorlink.backend/internal/usecases"
	"tutorlink.backend/pkg/utils"
)

// AdminVerificationHandler serves the review panel
type AdminVerificationHandler struct {
	verificationUsecase *usecases.VerificationUsecase
}

// NewAdminVerificationHandler creates a new admin verification handler
func NewAdminVerificationHandler(verificationUsecase *usecases.VerificationUsecase) *AdminVerificationHandler {
	return &AdminVerificationHandler{verificationUsecase: verificationUsecase}
}

// ListRequests returns the review queue, newest first
// GET /api/v1/admin/verification/requests?status=pending
func (h *AdminVerificationHandler) ListRequests(c *gin.Context) {
	params := utils.GetPaginationParams(queryInt(c, "page", 1), queryInt(c, "limit", 20))
	items, total, err := h.verificationUsecase.GetAllRequests(c.Request.Context(), entities.VerificationRequestFilter{
		Status: entities.VerificationStatus(c.Query("status")),
		Limit:  params.Limit,
		Offset: params.CalculateOffset(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, "requests", items, utils.CalculateMeta(total, params.Page, params.Limit))
}

// GetRequest returns the request detail and the actions allowed from its status
// GET /api/v1/admin/verification/requests/:id
func (h *AdminVerificationHandler) GetRequest(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	view, err := h.verificationUsecase.GetAdminRequestView(c.Request.Context(), id)
	if err != nil {
		notFoundOr(c, err, "Verification request not found")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"request": view})
}

// UpdateStatus applies {status, reason} to a pending request
// PUT /api/v1/admin/verification/requests/:id/status
func (h *AdminVerificationHandler) UpdateStatus(c *gin.Context) {
	var input struct {
		Status entities.VerificationStatus `json:"status" binding:"required"`
		Reason string                      `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	h.review(c, func(id uuid.UUID, adminID string) (*entities.VerificationRequest, error) {
		return h.verificationUsecase.UpdateStatus(c.Request.Context(), id, input.Status, input.Reason, adminID)
	})
}

// Approve marks a pending request verified
// POST /api/v1/admin/verification/requests/:id/approve
func (h *AdminVerificationHandler) Approve(c *gin.Context) {
	h.review(c, func(id uuid.UUID, adminID string) (*entities.VerificationRequest, error) {
		return h.verificationUsecase.Approve(c.Request.Context(), id, adminID)
	})
}

// Reject marks a pending request rejected. The reason is mandatory.
// POST /api/v1/admin/verification/requests/:id/reject
func (h *AdminVerificationHandler) Reject(c *gin.Context) {
	var input entities.RejectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	h.review(c, func(id uuid.UUID, adminID string) (*entities.VerificationRequest, error) {
		return h.verificationUsecase.Reject(c.Request.Context(), id, input.Reason, adminID)
	})
}

// ReVerify sends a verified or rejected request back to pending
// POST /api/v1/admin/verification/requests/:id/reverify
func (h *AdminVerificationHandler) ReVerify(c *gin.Context) {
	h.review(c, func(id uuid.UUID, adminID string) (*entities.VerificationRequest, error) {
		return h.verificationUsecase.TriggerReVerification(c.Request.Context(), id, adminID)
	})
}

// UpdateReferenceStatus records the reviewer's verdict on a reference
// PUT /api/v1/admin/verification/references/:id/status
func (h *AdminVerificationHandler) UpdateReferenceStatus(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var input entities.UpdateReferenceStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	ref, err := h.verificationUsecase.UpdateReferenceStatus(c.Request.Context(), id, input.Status)
	if err != nil {
		notFoundOr(c, err, "Reference not found")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reference": ref})
}

type reviewFunc func(id uuid.UUID, adminID string) (*entities.VerificationRequest, error)

// review runs one admin transition on the :id request and renders the result
func (h *AdminVerificationHandler) review(c *gin.Context, apply reviewFunc) {
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	req, err := apply(id, adminID.String())
	if err != nil {
		notFoundOr(c, err, "Verification request not found")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"request": req})
}
