package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
)

// uuidParam reads a path parameter as a UUID, writing a 400 when it is not.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", name+" must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

func uuidQuery(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Query(name))
	if err != nil {
		httperr.BadRequest(c, "invalid_query", name+" must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// actor is the authenticated user; nil outside AuthMiddleware.
func actor(c *gin.Context) *uuid.UUID {
	id, ok := middleware.UserID(c)
	if !ok {
		return nil
	}
	return &id
}

func mustActor(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		httperr.Unauthorized(c, "unauthenticated", "authentication required")
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON decodes the body into req and reports binding failures as 400.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httperr.BadRequest(c, "invalid_request", describeBindError(err))
		return false
	}
	return true
}

func describeBindError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "malformed request body"
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}
