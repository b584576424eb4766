package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/szigetelo/backoffice/internal/modules/model"
	"github.com/szigetelo/backoffice/internal/modules/serializer"
	"github.com/szigetelo/backoffice/internal/modules/service"
	"github.com/szigetelo/backoffice/internal/pkg/relation"
)

type InviteHandler struct {
	svc service.InviteService
}

func NewInviteHandler(s service.InviteService) *InviteHandler {
	return &InviteHandler{svc: s}
}

type InviteReq struct {
	Email    string         `json:"email" binding:"required,email" example:"worker@example.com"`
	Username string         `json:"username" example:"kovacs.peter"`
	Company  relation.Ref   `json:"company" swaggertype:"string" example:"1b4e28ba-2fa1-11d2-883f-0016d3cca427"`
	Role     model.UserRole `json:"role" binding:"omitempty,oneof=admin company_admin subcontractor worker" example:"subcontractor"`
}

// Invite godoc
//
//	@Summary		Invite user
//	@Description	Create or reuse an unconfirmed user and mail an invitation link
//	@Tags			invite
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	handler.InviteReq	true	"Invite payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=service.InviteOutput}
//	@Failure		409	{object}	serializer.Response{}
//	@Router			/invite [post]
func (h *InviteHandler) Invite(c *gin.Context) {
	req := InviteReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	out, err := h.svc.Invite(c.Request.Context(), service.InviteInput{
		Email:    req.Email,
		Username: req.Username,
		Company:  req.Company,
		Role:     req.Role,
	})
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: out})
}

type ConfirmInviteReq struct {
	Token string `json:"token" binding:"required"`
}

// ConfirmAndRequestReset godoc
//
//	@Summary		Confirm invitation
//	@Description	Confirm the invited user and mail a password reset link
//	@Tags			invite
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	handler.ConfirmInviteReq	true	"ConfirmAndRequestReset payload"
//	@Success		200	{object}	serializer.Response{data=service.InviteOutput}
//	@Failure		400	{object}	serializer.Response{}
//	@Router			/invite/confirm-and-request-reset [post]
func (h *InviteHandler) ConfirmAndRequestReset(c *gin.Context) {
	req := ConfirmInviteReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	out, err := h.svc.ConfirmAndRequestReset(c.Request.Context(), req.Token)
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

type ResendConfirmationReq struct {
	Email string `json:"email" binding:"required,email" example:"worker@example.com"`
}

// ResendConfirmation godoc
//
//	@Summary		Resend invitation
//	@Description	Issue a fresh invitation for a user that has not confirmed yet
//	@Tags			invite
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	handler.ResendConfirmationReq	true	"ResendConfirmation payload"
//	@Success		200	{object}	serializer.Response{data=service.InviteOutput}
//	@Failure		404	{object}	serializer.Response{}
//	@Failure		409	{object}	serializer.Response{}
//	@Router			/invite/resend-confirmation [post]
func (h *InviteHandler) ResendConfirmation(c *gin.Context) {
	req := ResendConfirmationReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	out, err := h.svc.ResendConfirmation(c.Request.Context(), req.Email)
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}
