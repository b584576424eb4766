package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/szigetelo/backoffice/internal/modules/serializer"
	"github.com/szigetelo/backoffice/internal/modules/service"
	"gorm.io/datatypes"
)

var errMatrixNotObject = errors.New("permission matrix must be a JSON object")

// PermissionMatrixBodyKind tells which of the accepted request shapes was sent.
type PermissionMatrixBodyKind uint8

const (
	// PermissionMatrixWrapped is {"data": {...}}.
	PermissionMatrixWrapped PermissionMatrixBodyKind = iota + 1
	// PermissionMatrixBare is the matrix object itself.
	PermissionMatrixBare
)

// PermissionMatrixBody accepts {"data": <object>} or a bare object. Anything
// else fails to decode, so invalid shapes never reach the service.
type PermissionMatrixBody struct {
	Kind   PermissionMatrixBodyKind
	Matrix datatypes.JSON
}

func (b *PermissionMatrixBody) UnmarshalJSON(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	var top map[string]json.RawMessage
	if err := sonic.Unmarshal(raw, &top); err != nil || top == nil {
		return errMatrixNotObject
	}

	// a missing or null data key means the body is the matrix
	data := bytes.TrimSpace(top["data"])
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*b = PermissionMatrixBody{Kind: PermissionMatrixBare, Matrix: datatypes.JSON(append([]byte(nil), raw...))}
		return nil
	}
	if !service.IsJSONObject(data) {
		return errMatrixNotObject
	}
	*b = PermissionMatrixBody{Kind: PermissionMatrixWrapped, Matrix: datatypes.JSON(append([]byte(nil), data...))}
	return nil
}

type PermissionMatrixHandler struct {
	svc service.PermissionMatrixService
}

func NewPermissionMatrixHandler(s service.PermissionMatrixService) *PermissionMatrixHandler {
	return &PermissionMatrixHandler{svc: s}
}

// GetPermissionMatrix godoc
//
//	@Summary		Get permission matrix
//	@Description	Return the stored permission matrix, or null when none was saved. The matrix is global; the company id is accepted for routing only.
//	@Tags			permission-matrix
//	@Produce		json
//	@Param			id	path	string	true	"Company ID"
//	@Success		200	{object}	serializer.Response{data=object}
//	@Failure		500	{object}	serializer.Response{}
//	@Router			/companies/{id}/permission-matrix [get]
func (h *PermissionMatrixHandler) GetPermissionMatrix(c *gin.Context) {
	matrix, err := h.svc.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, serializer.Opaque(http.StatusInternalServerError, "failed to load permission matrix", err))
		return
	}
	if matrix == nil {
		c.JSON(http.StatusOK, serializer.Response{Data: nil})
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: matrix})
}

// UpdatePermissionMatrix godoc
//
//	@Summary		Replace permission matrix
//	@Description	Overwrite the permission matrix. Accepts {"data": {...}} or the bare object. Last write wins.
//	@Tags			permission-matrix
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string	true	"Company ID"
//	@Param			payload	body	object	true	"Matrix object, optionally wrapped in data"
//	@Success		200		{object}	serializer.Response{data=object}
//	@Failure		400		{object}	serializer.Response{}
//	@Failure		500		{object}	serializer.Response{}
//	@Router			/companies/{id}/permission-matrix [put]
//	@Router			/companies/{id}/permission-matrix [post]
func (h *PermissionMatrixHandler) UpdatePermissionMatrix(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	var body PermissionMatrixBody
	if err := sonic.Unmarshal(raw, &body); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr(errMatrixNotObject.Error(), nil))
		return
	}

	saved, err := h.svc.Update(c.Request.Context(), body.Matrix)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, serializer.ParamErr(errMatrixNotObject.Error(), nil))
			return
		}
		c.JSON(http.StatusInternalServerError, serializer.Opaque(http.StatusInternalServerError, "failed to save permission matrix", err))
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: saved})
}
