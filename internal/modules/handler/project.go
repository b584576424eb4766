package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/szigetelo/backoffice/internal/modules/model"
	"github.com/szigetelo/backoffice/internal/modules/serializer"
	"github.com/szigetelo/backoffice/internal/modules/service"
	"github.com/szigetelo/backoffice/internal/pkg/relation"
)

type ProjectHandler struct {
	svc   service.ProjectService
	audit service.ProjectAuditLogService
}

func NewProjectHandler(s service.ProjectService, audit service.ProjectAuditLogService) *ProjectHandler {
	return &ProjectHandler{svc: s, audit: audit}
}

// optionalUUID resolves a relation field off the raw body; absent is nil.
func optionalUUID(raw map[string]any, field string) (*uuid.UUID, error) {
	id, ok := relation.FieldID(raw, field)
	if !ok {
		return nil, nil
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.New(field + " is not a valid id")
	}
	return &parsed, nil
}

// CreateProject godoc
//
//	@Summary		Create project
//	@Description	Create a project. company and subcontractor accept an id or any wrapped relation shape; started_at is ignored.
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	model.Project	true	"CreateProject payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=model.Project}
//	@Failure		400	{object}	serializer.Response{}
//	@Router			/projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	var fields map[string]any
	if err := sonic.Unmarshal(raw, &fields); err != nil || fields == nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("body must be a JSON object", err))
		return
	}
	p := &model.Project{}
	if p.CompanyID, err = optionalUUID(fields, "company"); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	if p.SubcontractorID, err = optionalUUID(fields, "subcontractor"); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	companyID, subcontractorID := p.CompanyID, p.SubcontractorID

	// relations are resolved above; the remaining fields decode straight into the model
	for _, k := range []string{"company", "subcontractor", "id", "company_id", "subcontractor_id", "started_at"} {
		delete(fields, k)
	}
	cleaned, err := sonic.Marshal(fields)
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	if err := sonic.Unmarshal(cleaned, p); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	p.CompanyID, p.SubcontractorID = companyID, subcontractorID

	created, err := h.svc.Create(c.Request.Context(), p)
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: created})
}

type ListProjectsReq struct {
	Limit  int    `form:"limit,default=20" json:"limit" binding:"min=1,max=200" example:"20"`
	Cursor string `form:"cursor" json:"cursor"`
}

// ListProjects godoc
//
//	@Summary		List projects
//	@Description	Newest first, cursor paginated
//	@Tags			project
//	@Produce		json
//	@Param			limit	query	integer	false	"Page size, default 20, max 200"
//	@Param			cursor	query	string	false	"Cursor from the previous page"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.ListProjectsOutput}
//	@Router			/projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	req := ListProjectsReq{}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	out, err := h.svc.List(c.Request.Context(), service.ListProjectsInput{Limit: req.Limit, Cursor: req.Cursor})
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// GetProject godoc
//
//	@Summary		Get project
//	@Tags			project
//	@Produce		json
//	@Param			id	path	string	true	"Project ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Project}
//	@Failure		404	{object}	serializer.Response{}
//	@Router			/projects/{id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: p})
}

type UpdateProjectStatusReq struct {
	Status        model.ProjectStatus `json:"status" binding:"required,project_status" example:"scheduled"`
	ScheduledDate *time.Time          `json:"scheduled_date" example:"2026-11-03T08:00:00Z"`
}

// UpdateProjectStatus godoc
//
//	@Summary		Update project status
//	@Description	Moving a project to scheduled requires complete contract data; otherwise 409 lists the missing fields.
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string							true	"Project ID"	Format(uuid)
//	@Param			payload	body	handler.UpdateProjectStatusReq	true	"UpdateProjectStatus payload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Project}
//	@Failure		409	{object}	serializer.Response{data=object}
//	@Router			/projects/{id}/status [put]
func (h *ProjectHandler) UpdateProjectStatus(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	req := UpdateProjectStatusReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	p, err := h.svc.UpdateStatus(c.Request.Context(), service.UpdateProjectStatusInput{
		ID:            id,
		Status:        req.Status,
		ScheduledDate: req.ScheduledDate,
		Actor:         currentActor(c),
	})
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: p})
}

// GetContractStatus godoc
//
//	@Summary		Contract completeness
//	@Description	Report whether the project carries every field the contract needs, and which are missing
//	@Tags			project
//	@Produce		json
//	@Param			id	path	string	true	"Project ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.ContractStatus}
//	@Router			/projects/{id}/contract-status [get]
func (h *ProjectHandler) GetContractStatus(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	st, err := h.svc.ContractStatus(c.Request.Context(), id)
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: st})
}

// GetAuditLog godoc
//
//	@Summary		Project audit log
//	@Tags			project
//	@Produce		json
//	@Param			id	path	string	true	"Project ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]model.ProjectAuditLogEntry}
//	@Router			/projects/{id}/audit-log [get]
func (h *ProjectHandler) GetAuditLog(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	entries, err := h.audit.List(c.Request.Context(), id)
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: entries})
}

type BulkExportReq struct {
	IDs    []string `json:"ids" example:"1b4e28ba-2fa1-11d2-883f-0016d3cca427"`
	Format string   `json:"format" binding:"omitempty,oneof=csv json" example:"csv"`
}

// BulkExport godoc
//
//	@Summary		Export projects
//	@Description	Download the selected projects, or all when ids is empty, as CSV or JSON
//	@Tags			project
//	@Accept			json
//	@Produce		text/csv
//	@Produce		json
//	@Param			payload	body	handler.BulkExportReq	true	"BulkExport payload"
//	@Security		BearerAuth
//	@Success		200	{file}	file
//	@Router			/projects/bulk-export [post]
func (h *ProjectHandler) BulkExport(c *gin.Context) {
	req := BulkExportReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid id "+raw, err))
			return
		}
		ids = append(ids, id)
	}

	res, err := h.svc.Export(c.Request.Context(), ids, service.ExportFormat(req.Format))
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+res.Filename+`"`)
	c.Data(http.StatusOK, res.ContentType, res.Body)
}

type StartedForBillingReq struct {
	From    string `form:"from" binding:"required" example:"2026-10-01"`
	To      string `form:"to" binding:"required" example:"2026-11-01"`
	Company string `form:"company" example:"1b4e28ba-2fa1-11d2-883f-0016d3cca427"`
}

// parseBillingTime accepts RFC3339 or a bare date taken as UTC midnight.
func parseBillingTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}

// StartedForBilling godoc
//
//	@Summary		Projects started in a period
//	@Description	Projects whose started_at falls in [from, to), ordered by started_at. Dates are RFC3339 or YYYY-MM-DD.
//	@Tags			project
//	@Produce		json
//	@Param			from	query	string	true	"Period start (inclusive)"
//	@Param			to		query	string	true	"Period end (exclusive)"
//	@Param			company	query	string	false	"Company ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]model.Project}
//	@Router			/projects/started-for-billing [get]
func (h *ProjectHandler) StartedForBilling(c *gin.Context) {
	req := StartedForBillingReq{}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	from, err := parseBillingTime(req.From)
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid from", err))
		return
	}
	to, err := parseBillingTime(req.To)
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid to", err))
		return
	}
	var companyID *uuid.UUID
	if req.Company != "" {
		id, err := uuid.Parse(req.Company)
		if err != nil {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid company", err))
			return
		}
		companyID = &id
	}

	projects, err := h.svc.StartedForBilling(c.Request.Context(), from, to, companyID)
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: projects})
}
