package api

import (
	"net/http"

	"parking-reservation/internal/domain/user"
	"parking-reservation/internal/handler/httperr"
	"parking-reservation/internal/handler/middleware"
	"parking-reservation/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errUnauthenticated = errs.New("request is not authenticated")

func requireUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithCode(c, http.StatusUnauthorized, errUnauthenticated, "Unauthorized", "UNAUTHORIZED")
		return uuid.Nil, false
	}
	return userID, true
}

func requireActor(c *gin.Context) (uuid.UUID, user.Role, bool) {
	userID, ok := requireUserID(c)
	if !ok {
		return uuid.Nil, "", false
	}
	role, ok := middleware.GetUserRole(c)
	if !ok {
		httperr.AbortWithCode(c, http.StatusUnauthorized, errUnauthenticated, "Unauthorized", "UNAUTHORIZED")
		return uuid.Nil, "", false
	}
	return userID, role, true
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		abortInvalidRequest(c, err, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
