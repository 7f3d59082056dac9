package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	domainerrors "tutorlink.backend/internal/domain/errors"
	"tutorlink.backend/internal/interfaces/http/middleware"
	"tutorlink.backend/internal/interfaces/http/response"
)

// currentUserID reads the authenticated user, writing a 401 when absent
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetUserID(c)
	if !ok || id == uuid.Nil {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return uuid.Nil, false
	}
	return id, true
}

// uuidParam parses a path parameter, writing a 400 when malformed
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}

// queryBool returns nil when the parameter is absent or unparsable
func queryBool(c *gin.Context, key string) *bool {
	v, err := strconv.ParseBool(c.Query(key))
	if err != nil {
		return nil
	}
	return &v
}

// notFoundOr renders ErrNotFound with a resource specific message
func notFoundOr(c *gin.Context, err error, message string) {
	if errors.Is(err, domainerrors.ErrNotFound) {
		response.Error(c, domainerrors.NotFound(message))
		return
	}
	response.Error(c, err)
}
