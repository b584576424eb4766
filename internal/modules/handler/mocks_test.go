package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/szigetelo/backoffice/internal/modules/model"
	"github.com/szigetelo/backoffice/internal/modules/service"
)

// ── Mock: ProjectService ──

type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) Create(ctx context.Context, p *model.Project) (*model.Project, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectService) Get(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectService) List(ctx context.Context, in service.ListProjectsInput) (*service.ListProjectsOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListProjectsOutput), args.Error(1)
}

func (m *MockProjectService) UpdateStatus(ctx context.Context, in service.UpdateProjectStatusInput) (*model.Project, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectService) ContractStatus(ctx context.Context, id uuid.UUID) (*service.ContractStatus, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ContractStatus), args.Error(1)
}

func (m *MockProjectService) Export(ctx context.Context, ids []uuid.UUID, format service.ExportFormat) (*service.ExportResult, error) {
	args := m.Called(ctx, ids, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportResult), args.Error(1)
}

func (m *MockProjectService) StartedForBilling(ctx context.Context, from, to time.Time, companyID *uuid.UUID) ([]*model.Project, error) {
	args := m.Called(ctx, from, to, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Project), args.Error(1)
}

// ── Mock: ProjectAuditLogService ──

type MockProjectAuditLogService struct {
	mock.Mock
}

func (m *MockProjectAuditLogService) List(ctx context.Context, projectID uuid.UUID) ([]model.ProjectAuditLogEntry, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProjectAuditLogEntry), args.Error(1)
}

// ── Mock: DocumentService ──

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Generate(ctx context.Context, in service.GenerateDocumentInput) (*model.Document, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) RegenerateWithSignature(ctx context.Context, in service.RegenerateWithSignatureInput) (*model.Document, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*service.DocumentView, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*service.DocumentView), args.Error(1)
}

// ── Mock: PhotoService ──

type MockPhotoService struct {
	mock.Mock
}

func (m *MockPhotoService) CreateWithRelations(ctx context.Context, in service.CreatePhotoInput) (*model.Photo, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Photo), args.Error(1)
}

func (m *MockPhotoService) UpdateWithRelations(ctx context.Context, id uuid.UUID, in service.UpdatePhotoInput) (*model.Photo, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Photo), args.Error(1)
}

func (m *MockPhotoService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*service.PhotoView, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*service.PhotoView), args.Error(1)
}

// ── Mock: PhotoCategoryService ──

type MockPhotoCategoryService struct {
	mock.Mock
}

func (m *MockPhotoCategoryService) List(ctx context.Context) ([]*model.PhotoCategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.PhotoCategory), args.Error(1)
}

func (m *MockPhotoCategoryService) Create(ctx context.Context, c *model.PhotoCategory) (*model.PhotoCategory, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PhotoCategory), args.Error(1)
}

func (m *MockPhotoCategoryService) Update(ctx context.Context, id uuid.UUID, patch *model.PhotoCategoryPatch) (*model.PhotoCategory, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PhotoCategory), args.Error(1)
}

// ── Mock: InviteService ──

type MockInviteService struct {
	mock.Mock
}

func (m *MockInviteService) Invite(ctx context.Context, in service.InviteInput) (*service.InviteOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.InviteOutput), args.Error(1)
}

func (m *MockInviteService) ConfirmAndRequestReset(ctx context.Context, token string) (*service.InviteOutput, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.InviteOutput), args.Error(1)
}

func (m *MockInviteService) ResendConfirmation(ctx context.Context, email string) (*service.InviteOutput, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.InviteOutput), args.Error(1)
}

// ── Mock: CompanyService ──

type MockCompanyService struct {
	mock.Mock
}

func (m *MockCompanyService) Create(ctx context.Context, c *model.Company) (*model.Company, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Company), args.Error(1)
}

func (m *MockCompanyService) Get(ctx context.Context, id uuid.UUID) (*model.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Company), args.Error(1)
}
