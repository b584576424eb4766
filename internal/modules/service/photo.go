package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/szigetelo/backoffice/internal/modules/model"
	"github.com/szigetelo/backoffice/internal/modules/repo"
	"github.com/szigetelo/backoffice/internal/pkg/lifecycle"
	"github.com/szigetelo/backoffice/internal/pkg/relation"
	"github.com/szigetelo/backoffice/internal/pkg/types"
	"github.com/szigetelo/backoffice/internal/pkg/utils/mime"
	"github.com/szigetelo/backoffice/internal/telemetry"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PhotoService interface {
	CreateWithRelations(ctx context.Context, in CreatePhotoInput) (*model.Photo, error)
	UpdateWithRelations(ctx context.Context, id uuid.UUID, in UpdatePhotoInput) (*model.Photo, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*PhotoView, error)
}

type photoService struct {
	photos        repo.PhotoRepo
	projects      repo.ProjectRepo
	categories    repo.PhotoCategoryRepo
	blob          BlobStore
	dispatcher    *lifecycle.Dispatcher
	audit         auditor
	presignExpire time.Duration
	log           *zap.Logger
}

func NewPhotoService(
	photos repo.PhotoRepo,
	projects repo.ProjectRepo,
	categories repo.PhotoCategoryRepo,
	logs repo.ProjectAuditLogRepo,
	blob BlobStore,
	dispatcher *lifecycle.Dispatcher,
	presignExpire time.Duration,
	log *zap.Logger,
) PhotoService {
	return &photoService{
		photos:        photos,
		projects:      projects,
		categories:    categories,
		blob:          blob,
		dispatcher:    dispatcher,
		audit:         newAuditor(logs, log),
		presignExpire: presignExpire,
		log:           log,
	}
}

type CreatePhotoInput struct {
	Filename string
	Body     []byte
	Project  relation.Ref
	Category relation.Ref
	Caption  string
	Uploader *model.User
}

// UpdatePhotoInput distinguishes absent fields from explicit nulls, which clear a relation.
type UpdatePhotoInput struct {
	Project  types.Optional[relation.Ref] `json:"project" swaggertype:"string"`
	Category types.Optional[relation.Ref] `json:"category" swaggertype:"string"`
	Caption  types.Optional[string]       `json:"caption" swaggertype:"string"`
}

type PhotoView struct {
	*model.Photo
	URL string `json:"url"`
}

func (s *photoService) ensureProject(ctx context.Context, ref relation.Ref) (uuid.UUID, error) {
	id, err := resolveUUID(ref, "project")
	if err != nil {
		return uuid.Nil, err
	}
	if _, err := s.projects.Get(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, fmt.Errorf("%w: project %s", ErrNotFound, id)
		}
		return uuid.Nil, err
	}
	return id, nil
}

func (s *photoService) ensureCategory(ctx context.Context, ref relation.Ref) (uuid.UUID, error) {
	id, err := resolveUUID(ref, "category")
	if err != nil {
		return uuid.Nil, err
	}
	if _, err := s.categories.Get(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, fmt.Errorf("%w: category %s", ErrNotFound, id)
		}
		return uuid.Nil, err
	}
	return id, nil
}

func (s *photoService) CreateWithRelations(ctx context.Context, in CreatePhotoInput) (*model.Photo, error) {
	if len(in.Body) == 0 {
		return nil, fmt.Errorf("%w: file is required", ErrInvalidInput)
	}
	contentType := mime.DetectMimeType(in.Body, in.Filename)
	if !mime.IsImage(contentType) {
		return nil, fmt.Errorf("%w: %s is not an image", ErrInvalidInput, contentType)
	}

	projectID, err := s.ensureProject(ctx, in.Project)
	if err != nil {
		return nil, err
	}
	photo := &model.Photo{
		ProjectID: &projectID,
		Caption:   in.Caption,
		Filename:  in.Filename,
	}
	if !in.Category.IsZero() {
		categoryID, err := s.ensureCategory(ctx, in.Category)
		if err != nil {
			return nil, err
		}
		photo.CategoryID = &categoryID
	}
	if in.Uploader != nil {
		photo.UploaderID = &in.Uploader.ID
	}

	meta, err := s.blob.UploadBytes(ctx, "photos/"+projectID.String(), in.Filename, in.Body, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload photo: %w", err)
	}
	photo.Bucket = meta.Bucket
	photo.S3Key = meta.Key
	photo.MIME = meta.MIME
	photo.SizeB = meta.SizeB
	photo.SHA256 = meta.SHA256

	if err := s.photos.Create(ctx, photo); err != nil {
		return nil, err
	}

	s.dispatcher.After(ctx, model.UIDPhoto, lifecycle.AfterCreate, photo)
	telemetry.RecordPhotoUploaded(ctx, photo.MIME, photo.SizeB)

	var actor *model.AuditUser
	if in.Uploader != nil {
		actor = &model.AuditUser{Email: in.Uploader.Email, Username: in.Uploader.Username}
	}
	s.audit.record(ctx, projectID, model.AuditActionPhotoUploaded, model.UIDPhoto, actor, map[string]interface{}{
		"photo_id": photo.ID.String(),
	})
	return photo, nil
}

func (s *photoService) UpdateWithRelations(ctx context.Context, id uuid.UUID, in UpdatePhotoInput) (*model.Photo, error) {
	if _, err := s.photos.Get(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Project.Set {
		if in.Project.Null {
			updates["project_id"] = nil
		} else {
			projectID, err := s.ensureProject(ctx, in.Project.Value)
			if err != nil {
				return nil, err
			}
			updates["project_id"] = projectID
		}
	}
	if in.Category.Set {
		if in.Category.Null {
			updates["category_id"] = nil
		} else {
			categoryID, err := s.ensureCategory(ctx, in.Category.Value)
			if err != nil {
				return nil, err
			}
			updates["category_id"] = categoryID
		}
	}
	if caption, ok := in.Caption.Get(); ok {
		updates["caption"] = caption
	} else if in.Caption.Null {
		updates["caption"] = ""
	}

	if err := s.photos.Update(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.photos.Get(ctx, id)
}

func (s *photoService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*PhotoView, error) {
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	photos, err := s.photos.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	out := make([]*PhotoView, 0, len(photos))
	for _, p := range photos {
		url, err := s.blob.PresignGet(ctx, p.S3Key, s.presignExpire)
		if err != nil {
			s.log.Warn("presign photo failed", zap.String("photo_id", p.ID.String()), zap.Error(err))
		}
		out = append(out, &PhotoView{Photo: p, URL: url})
	}
	return out, nil
}
