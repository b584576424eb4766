package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/szigetelo/backoffice/internal/modules/model"
	"github.com/szigetelo/backoffice/internal/modules/serializer"
	"github.com/szigetelo/backoffice/internal/modules/service"
)

type CompanyHandler struct {
	svc service.CompanyService
}

func NewCompanyHandler(s service.CompanyService) *CompanyHandler {
	return &CompanyHandler{svc: s}
}

type CreateCompanyReq struct {
	Name      string `json:"name" binding:"required" example:"Szigetelő Kft."`
	TaxNumber string `json:"tax_number" example:"12345678-2-08"`
	Email     string `json:"email" binding:"omitempty,email" example:"iroda@szigetelo.hu"`
	Phone     string `json:"phone" example:"+36 30 123 4567"`
	Address   string `json:"address" example:"9021 Győr, Fő utca 1."`
}

// CreateCompany godoc
//
//	@Summary		Create company
//	@Tags			company
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	handler.CreateCompanyReq	true	"CreateCompany payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=model.Company}
//	@Router			/companies [post]
func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	req := CreateCompanyReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	company := &model.Company{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if req.TaxNumber != "" {
		company.TaxNumber = &req.TaxNumber
	}
	company, err := h.svc.Create(c.Request.Context(), company)
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: company})
}

// GetCompany godoc
//
//	@Summary		Get company
//	@Tags			company
//	@Produce		json
//	@Param			id	path	string	true	"Company ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Company}
//	@Failure		404	{object}	serializer.Response{}
//	@Router			/companies/{id} [get]
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	company, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: company})
}
