package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/szigetelo/backoffice/internal/modules/model"
	"github.com/szigetelo/backoffice/internal/modules/serializer"
	"github.com/szigetelo/backoffice/internal/modules/service"
)

type PhotoCategoryHandler struct {
	svc service.PhotoCategoryService
}

func NewPhotoCategoryHandler(s service.PhotoCategoryService) *PhotoCategoryHandler {
	return &PhotoCategoryHandler{svc: s}
}

// ListPhotoCategories godoc
//
//	@Summary		List photo categories
//	@Tags			photo-category
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]model.PhotoCategory}
//	@Router			/photo-categories [get]
func (h *PhotoCategoryHandler) ListPhotoCategories(c *gin.Context) {
	cats, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: cats})
}

type CreatePhotoCategoryReq struct {
	Name      string `json:"name" binding:"required" example:"Padlás előtte"`
	Slug      string `json:"slug" example:"padlas-elotte"`
	SortOrder int    `json:"sort_order" example:"1"`
}

// CreatePhotoCategory godoc
//
//	@Summary		Create photo category
//	@Description	The slug is derived from the name when not given.
//	@Tags			photo-category
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	handler.CreatePhotoCategoryReq	true	"CreatePhotoCategory payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=model.PhotoCategory}
//	@Router			/photo-categories [post]
func (h *PhotoCategoryHandler) CreatePhotoCategory(c *gin.Context) {
	req := CreatePhotoCategoryReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	cat, err := h.svc.Create(c.Request.Context(), &model.PhotoCategory{
		Name:      req.Name,
		Slug:      req.Slug,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: cat})
}

// UpdatePhotoCategory godoc
//
//	@Summary		Update photo category
//	@Description	Partial update. Renaming regenerates the slug unless the payload carries a slug key.
//	@Tags			photo-category
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string						true	"Photo category ID"	Format(uuid)
//	@Param			payload	body	model.PhotoCategoryPatch	true	"UpdatePhotoCategory payload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.PhotoCategory}
//	@Router			/photo-categories/{id} [put]
func (h *PhotoCategoryHandler) UpdatePhotoCategory(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	patch := model.PhotoCategoryPatch{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	cat, err := h.svc.Update(c.Request.Context(), id, &patch)
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: cat})
}
