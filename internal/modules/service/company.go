package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/szigetelo/backoffice/internal/modules/model"
	"github.com/szigetelo/backoffice/internal/modules/repo"
	"gorm.io/gorm"
)

type CompanyService interface {
	Create(ctx context.Context, c *model.Company) (*model.Company, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Company, error)
}

type companyService struct {
	repo repo.CompanyRepo
}

func NewCompanyService(r repo.CompanyRepo) CompanyService {
	return &companyService{repo: r}
}

func (s *companyService) Create(ctx context.Context, c *model.Company) (*model.Company, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *companyService) Get(ctx context.Context, id uuid.UUID) (*model.Company, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}
