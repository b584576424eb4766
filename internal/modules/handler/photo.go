package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/szigetelo/backoffice/internal/modules/serializer"
	"github.com/szigetelo/backoffice/internal/modules/service"
	"github.com/szigetelo/backoffice/internal/pkg/relation"
)

// maxPhotoBytes caps a single uploaded photo.
const maxPhotoBytes = 25 << 20

type PhotoHandler struct {
	svc service.PhotoService
}

func NewPhotoHandler(s service.PhotoService) *PhotoHandler {
	return &PhotoHandler{svc: s}
}

type CreatePhotoReq struct {
	// Project and Category take a raw id or a JSON relation object.
	Project  string `form:"project" json:"project" binding:"required" example:"1b4e28ba-2fa1-11d2-883f-0016d3cca427"`
	Category string `form:"category" json:"category" example:"{\"id\":\"6ba7b810-9dad-11d1-80b4-00c04fd430c8\"}"`
	Caption  string `form:"caption" json:"caption" example:"padlás előtte"`
}

// CreateWithRelations godoc
//
//	@Summary		Upload photo
//	@Description	Upload an image and attach it to a project and optional category. Creating the first photo starts the project.
//	@Tags			photo
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file		formData	file	true	"Image file"
//	@Param			project		formData	string	true	"Project relation: id or JSON object"
//	@Param			category	formData	string	false	"Category relation: id or JSON object"
//	@Param			caption		formData	string	false	"Caption"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=model.Photo}
//	@Failure		400	{object}	serializer.Response{}
//	@Failure		404	{object}	serializer.Response{}
//	@Router			/photos/create-with-relations [post]
func (h *PhotoHandler) CreateWithRelations(c *gin.Context) {
	req := CreatePhotoReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("file is required", err))
		return
	}
	if fh.Size > maxPhotoBytes {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errors.New("file too large")))
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	defer f.Close()
	body, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	in := service.CreatePhotoInput{
		Filename: fh.Filename,
		Body:     body,
		Project:  relation.ParseJSON([]byte(req.Project)),
		Caption:  req.Caption,
		Uploader: currentUser(c),
	}
	if req.Category != "" {
		in.Category = relation.ParseJSON([]byte(req.Category))
		if in.Category.IsZero() {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("", relation.ErrUnrecognized))
			return
		}
	}

	photo, err := h.svc.CreateWithRelations(c.Request.Context(), in)
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: photo})
}

// UpdateWithRelations godoc
//
//	@Summary		Update photo relations
//	@Description	Change project, category or caption. Omitted fields are kept; null clears a relation.
//	@Tags			photo
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string						true	"Photo ID"	Format(uuid)
//	@Param			payload	body	service.UpdatePhotoInput	true	"UpdateWithRelations payload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Photo}
//	@Failure		404	{object}	serializer.Response{}
//	@Router			/photos/{id}/update-with-relations [put]
func (h *PhotoHandler) UpdateWithRelations(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	in := service.UpdatePhotoInput{}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	photo, err := h.svc.UpdateWithRelations(c.Request.Context(), id, in)
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: photo})
}

// ListProjectPhotos godoc
//
//	@Summary		List project photos
//	@Tags			photo
//	@Produce		json
//	@Param			id	path	string	true	"Project ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]service.PhotoView}
//	@Router			/projects/{id}/photos [get]
func (h *PhotoHandler) ListProjectPhotos(c *gin.Context) {
	projectID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	photos, err := h.svc.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: photos})
}
