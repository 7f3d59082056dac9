package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	domainerrors "tutorlink.backend/internal/domain/errors"
	"tutorlink.backend/pkg/logger"
	"tutorlink.backend/pkg/utils"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Paginated sends a list page with its pagination meta
func Paginated(c *gin.Context, key string, items interface{}, meta utils.PaginationMeta) {
	c.JSON(http.StatusOK, gin.H{
		key:          items,
		"pagination": meta,
	})
}

// Error sends an error response. Domain sentinels keep their status, anything
// else is logged and reported as a generic 500.
func Error(c *gin.Context, err error) {
	appErr := domainerrors.FromError(err)
	if appErr.Status >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "Request failed",
			zap.String("path", c.FullPath()),
			zap.Int("status", appErr.Status),
			zap.Error(err),
		)
	}

	c.JSON(appErr.Status, gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}

// ErrorWithError sends an error response with a specific status and message
func ErrorWithError(c *gin.Context, status int, code string, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"code":    code,
		"message": message,
	})
}
