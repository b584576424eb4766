package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/szigetelo/backoffice/internal/modules/model"
	"github.com/szigetelo/backoffice/internal/modules/repo"
	"github.com/szigetelo/backoffice/internal/pkg/paging"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProjectService interface {
	Create(ctx context.Context, p *model.Project) (*model.Project, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Project, error)
	List(ctx context.Context, in ListProjectsInput) (*ListProjectsOutput, error)
	UpdateStatus(ctx context.Context, in UpdateProjectStatusInput) (*model.Project, error)
	ContractStatus(ctx context.Context, id uuid.UUID) (*ContractStatus, error)
	Export(ctx context.Context, ids []uuid.UUID, format ExportFormat) (*ExportResult, error)
	StartedForBilling(ctx context.Context, from, to time.Time, companyID *uuid.UUID) ([]*model.Project, error)
}

type projectService struct {
	projects  repo.ProjectRepo
	companies repo.CompanyRepo
	audit     auditor
	log       *zap.Logger
}

func NewProjectService(projects repo.ProjectRepo, companies repo.CompanyRepo, logs repo.ProjectAuditLogRepo, log *zap.Logger) ProjectService {
	return &projectService{
		projects:  projects,
		companies: companies,
		audit:     newAuditor(logs, log),
		log:       log,
	}
}

func (s *projectService) Create(ctx context.Context, p *model.Project) (*model.Project, error) {
	if p.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if p.Status == "" {
		p.Status = model.ProjectStatusPending
	}
	if !p.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, p.Status)
	}
	// started_at belongs to the start trigger
	p.StartedAt = nil

	for field, id := range map[string]*uuid.UUID{"company": p.CompanyID, "subcontractor": p.SubcontractorID} {
		if id == nil {
			continue
		}
		if _, err := s.companies.Get(ctx, *id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: %s %s not found", ErrInvalidInput, field, id)
			}
			return nil, err
		}
	}

	if err := s.projects.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *projectService) Get(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	p, err := s.projects.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

type ListProjectsInput struct {
	Limit  int    `json:"limit"`
	Cursor string `json:"cursor"`
}

type ListProjectsOutput struct {
	Items      []*model.Project `json:"items"`
	NextCursor string           `json:"next_cursor,omitempty"`
	HasMore    bool             `json:"has_more"`
}

func (s *projectService) List(ctx context.Context, in ListProjectsInput) (*ListProjectsOutput, error) {
	if in.Limit <= 0 || in.Limit > 200 {
		in.Limit = 20
	}
	var afterT time.Time
	var afterID uuid.UUID
	if in.Cursor != "" {
		t, id, err := paging.DecodeCursor(in.Cursor)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		afterT, afterID = t, id
	}

	// Query limit+1 to know whether another page exists
	items, err := s.projects.List(ctx, afterT, afterID, in.Limit+1)
	if err != nil {
		return nil, err
	}

	out := &ListProjectsOutput{Items: items, HasMore: false}
	if len(items) > in.Limit {
		out.HasMore = true
		out.Items = items[:in.Limit]
		last := out.Items[len(out.Items)-1]
		out.NextCursor = paging.EncodeCursor(last.CreatedAt, last.ID)
	}
	return out, nil
}

type UpdateProjectStatusInput struct {
	ID            uuid.UUID
	Status        model.ProjectStatus
	ScheduledDate *time.Time
	Actor         *model.AuditUser
}

// UpdateStatus refuses to schedule a project whose contract data is incomplete.
func (s *projectService) UpdateStatus(ctx context.Context, in UpdateProjectStatusInput) (*model.Project, error) {
	if !in.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, in.Status)
	}
	p, err := s.Get(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if in.Status == model.ProjectStatusScheduled {
		if missing := model.MissingContractFields(p); len(missing) > 0 {
			return nil, &ContractIncompleteError{Missing: missing}
		}
	}

	from := p.Status
	if err := s.projects.UpdateStatus(ctx, in.ID, in.Status, in.ScheduledDate); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if from != in.Status {
		s.audit.record(ctx, in.ID, model.AuditActionStatusChanged, model.UIDProject, in.Actor, map[string]interface{}{
			"from": string(from),
			"to":   string(in.Status),
		})
	}
	return s.Get(ctx, in.ID)
}

type ContractStatus struct {
	Complete bool     `json:"complete"`
	Missing  []string `json:"missing"`
}

func (s *projectService) ContractStatus(ctx context.Context, id uuid.UUID) (*ContractStatus, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	missing := model.MissingContractFields(p)
	if missing == nil {
		missing = []string{}
	}
	return &ContractStatus{Complete: len(missing) == 0, Missing: missing}, nil
}

type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportJSON ExportFormat = "json"
)

type ExportResult struct {
	Filename    string
	ContentType string
	Body        []byte
}

var exportHeader = []string{
	"id", "title", "status", "company", "subcontractor", "client_name", "client_city",
	"property_city", "area_sqm", "floor_material", "contract_complete", "started_at", "created_at",
}

func (s *projectService) Export(ctx context.Context, ids []uuid.UUID, format ExportFormat) (*ExportResult, error) {
	if format == "" {
		format = ExportCSV
	}
	if format != ExportCSV && format != ExportJSON {
		return nil, fmt.Errorf("%w: unsupported export format %q", ErrInvalidInput, format)
	}

	projects, err := s.projects.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	stamp := time.Now().UTC().Format("20060102-150405")

	if format == ExportJSON {
		if projects == nil {
			projects = []*model.Project{}
		}
		body, err := sonic.Marshal(projects)
		if err != nil {
			return nil, err
		}
		return &ExportResult{Filename: "projects-" + stamp + ".json", ContentType: "application/json", Body: body}, nil
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, p := range projects {
		if err := w.Write(exportRow(p)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return &ExportResult{Filename: "projects-" + stamp + ".csv", ContentType: "text/csv; charset=utf-8", Body: buf.Bytes()}, nil
}

func exportRow(p *model.Project) []string {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	companyName := func(c *model.Company) string {
		if c == nil {
			return ""
		}
		return c.Name
	}
	area := ""
	if p.AreaSqm != nil {
		area = strconv.FormatFloat(*p.AreaSqm, 'f', -1, 64)
	}
	started := ""
	if p.StartedAt != nil {
		started = p.StartedAt.UTC().Format(time.RFC3339)
	}
	return []string{
		p.ID.String(),
		p.Title,
		string(p.Status),
		companyName(p.Company),
		companyName(p.Subcontractor),
		p.ClientName,
		deref(p.ClientCity),
		deref(p.PropertyCity),
		area,
		deref(p.FloorMaterial),
		strconv.FormatBool(model.IsContractComplete(p)),
		started,
		p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// StartedForBilling lists projects started within [from, to).
func (s *projectService) StartedForBilling(ctx context.Context, from, to time.Time, companyID *uuid.UUID) ([]*model.Project, error) {
	if !from.Before(to) {
		return nil, fmt.Errorf("%w: from must be before to", ErrInvalidInput)
	}
	projects, err := s.projects.ListStartedBetween(ctx, from.UTC(), to.UTC(), companyID)
	if err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []*model.Project{}
	}
	return projects, nil
}
