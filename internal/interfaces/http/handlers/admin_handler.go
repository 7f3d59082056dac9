package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"tutorlink.backend/internal/interfaces/http/response"
	"tutorlink.backend/internal/usecases"
)

// AdminHandler handles admin user management endpoints
type AdminHandler struct {
	authUsecase *usecases.AuthUsecase
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(authUsecase *usecases.AuthUsecase) *AdminHandler {
	return &AdminHandler{authUsecase: authUsecase}
}

// ListUsers lists users matching ?search= on name or email
// GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, meta, err := h.authUsecase.ListUsers(
		c.Request.Context(),
		c.Query("search"),
		queryInt(c, "page", 1),
		queryInt(c, "limit", 20),
	)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, "users", users, meta)
}

// PromoteUser grants the admin role
// POST /api/v1/admin/users/:id/promote
func (h *AdminHandler) PromoteUser(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	user, err := h.authUsecase.PromoteAdmin(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}
