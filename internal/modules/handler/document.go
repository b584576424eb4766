package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/szigetelo/backoffice/internal/modules/model"
	"github.com/szigetelo/backoffice/internal/modules/serializer"
	"github.com/szigetelo/backoffice/internal/modules/service"
	"github.com/szigetelo/backoffice/internal/pkg/relation"
)

type DocumentHandler struct {
	svc service.DocumentService
}

func NewDocumentHandler(s service.DocumentService) *DocumentHandler {
	return &DocumentHandler{svc: s}
}

type GenerateDocumentReq struct {
	// Project accepts an id or any wrapped relation shape.
	Project relation.Ref       `json:"project" swaggertype:"string" example:"1b4e28ba-2fa1-11d2-883f-0016d3cca427"`
	Type    model.DocumentType `json:"type" binding:"omitempty,oneof=contract other" example:"contract"`
	Title   string             `json:"title" example:"szerzodes-kiss-anna"`
}

// GenerateDocument godoc
//
//	@Summary		Generate document
//	@Description	Render the contract for a project, store it and create a Document record. Creating the first document starts the project.
//	@Tags			document
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	handler.GenerateDocumentReq	true	"GenerateDocument payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=model.Document}
//	@Failure		400	{object}	serializer.Response{}
//	@Failure		404	{object}	serializer.Response{}
//	@Router			/documents/generate [post]
func (h *DocumentHandler) GenerateDocument(c *gin.Context) {
	req := GenerateDocumentReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	doc, err := h.svc.Generate(c.Request.Context(), service.GenerateDocumentInput{
		Project: req.Project,
		Type:    req.Type,
		Title:   req.Title,
		Actor:   currentActor(c),
	})
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: doc})
}

type RegenerateWithSignatureReq struct {
	Document relation.Ref `json:"document" swaggertype:"string" example:"1b4e28ba-2fa1-11d2-883f-0016d3cca427"`
	// Signature is a data URL or bare base64 image.
	Signature string `json:"signature" binding:"required" example:"data:image/png;base64,iVBORw0KGgo..."`
}

// RegenerateWithSignature godoc
//
//	@Summary		Regenerate document with signature
//	@Description	Embed a signature image into the contract and store the result as a new signed document.
//	@Tags			document
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	handler.RegenerateWithSignatureReq	true	"RegenerateWithSignature payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=model.Document}
//	@Failure		400	{object}	serializer.Response{}
//	@Failure		404	{object}	serializer.Response{}
//	@Router			/documents/regenerate-with-signature [post]
func (h *DocumentHandler) RegenerateWithSignature(c *gin.Context) {
	req := RegenerateWithSignatureReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	doc, err := h.svc.RegenerateWithSignature(c.Request.Context(), service.RegenerateWithSignatureInput{
		Document:  req.Document,
		Signature: req.Signature,
		Actor:     currentActor(c),
	})
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: doc})
}

// ListProjectDocuments godoc
//
//	@Summary		List project documents
//	@Description	List documents of a project with presigned download URLs
//	@Tags			document
//	@Produce		json
//	@Param			id	path	string	true	"Project ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]service.DocumentView}
//	@Router			/projects/{id}/documents [get]
func (h *DocumentHandler) ListProjectDocuments(c *gin.Context) {
	projectID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	docs, err := h.svc.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: docs})
}
