package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/szigetelo/backoffice/internal/modules/model"
	"github.com/szigetelo/backoffice/internal/modules/serializer"
	"github.com/szigetelo/backoffice/internal/modules/service"
)

// ContextUserKey is where the identify middleware stores the caller.
const ContextUserKey = "user"

func currentUser(c *gin.Context) *model.User {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*model.User)
	return u
}

func currentActor(c *gin.Context) *model.AuditUser {
	u := currentUser(c)
	if u == nil {
		return nil
	}
	return &model.AuditUser{Email: u.Email, Username: u.Username}
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid "+name, err))
		return uuid.Nil, false
	}
	return id, true
}

// writeServiceErr maps service sentinel errors onto HTTP statuses.
func writeServiceErr(c *gin.Context, err error) {
	var incomplete *service.ContractIncompleteError
	switch {
	case errors.As(err, &incomplete):
		res := serializer.Conflict(err.Error(), nil)
		res.Data = gin.H{"missing": incomplete.Missing}
		c.JSON(http.StatusConflict, res)
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, serializer.NotFound(err.Error()))
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, serializer.ParamErr(err.Error(), nil))
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, serializer.Conflict(err.Error(), nil))
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
	default:
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
	}
}
