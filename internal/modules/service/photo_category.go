package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/szigetelo/backoffice/internal/modules/model"
	"github.com/szigetelo/backoffice/internal/modules/repo"
	"github.com/szigetelo/backoffice/internal/pkg/lifecycle"
	"gorm.io/gorm"
)

type PhotoCategoryService interface {
	List(ctx context.Context) ([]*model.PhotoCategory, error)
	Create(ctx context.Context, c *model.PhotoCategory) (*model.PhotoCategory, error)
	Update(ctx context.Context, id uuid.UUID, patch *model.PhotoCategoryPatch) (*model.PhotoCategory, error)
}

type photoCategoryService struct {
	repo       repo.PhotoCategoryRepo
	dispatcher *lifecycle.Dispatcher
}

func NewPhotoCategoryService(r repo.PhotoCategoryRepo, dispatcher *lifecycle.Dispatcher) PhotoCategoryService {
	return &photoCategoryService{repo: r, dispatcher: dispatcher}
}

func (s *photoCategoryService) List(ctx context.Context) ([]*model.PhotoCategory, error) {
	cats, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []*model.PhotoCategory{}
	}
	return cats, nil
}

func (s *photoCategoryService) Create(ctx context.Context, c *model.PhotoCategory) (*model.PhotoCategory, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if err := s.dispatcher.Before(ctx, model.UIDPhotoCategory, lifecycle.BeforeCreate, c); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.dispatcher.After(ctx, model.UIDPhotoCategory, lifecycle.AfterCreate, c)
	return c, nil
}

func (s *photoCategoryService) Update(ctx context.Context, id uuid.UUID, patch *model.PhotoCategoryPatch) (*model.PhotoCategory, error) {
	if name, ok := patch.Name.Get(); patch.Name.Set && (!ok || strings.TrimSpace(name) == "") {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
	}

	c, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.dispatcher.Before(ctx, model.UIDPhotoCategory, lifecycle.BeforeUpdate, patch); err != nil {
		return nil, err
	}
	patch.Apply(c)
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.dispatcher.After(ctx, model.UIDPhotoCategory, lifecycle.AfterUpdate, c)
	return c, nil
}
