package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/szigetelo/backoffice/internal/modules/repo"
	"gorm.io/datatypes"
)

const PermissionMatrixKey = "permission_matrix_v3"

// PermissionMatrixStoreKey is where the matrix lives in the settings store.
var PermissionMatrixStoreKey = repo.SettingsKey("plugin", "users-permissions", PermissionMatrixKey)

// PermissionMatrixService reads and overwrites one opaque JSON object.
// There is no versioning: concurrent updates are last-write-wins.
type PermissionMatrixService interface {
	// Get returns nil when no matrix was stored.
	Get(ctx context.Context) (datatypes.JSON, error)
	// Update replaces the stored matrix with matrix, which must be a JSON object.
	Update(ctx context.Context, matrix datatypes.JSON) (datatypes.JSON, error)
}

type permissionMatrixService struct {
	settings repo.SettingsRepo
}

func NewPermissionMatrixService(settings repo.SettingsRepo) PermissionMatrixService {
	return &permissionMatrixService{settings: settings}
}

func (s *permissionMatrixService) Get(ctx context.Context) (datatypes.JSON, error) {
	v, err := s.settings.Get(ctx, PermissionMatrixStoreKey)
	if err != nil {
		return nil, fmt.Errorf("read permission matrix: %w", err)
	}
	if v == nil || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		return nil, nil
	}
	return v, nil
}

func (s *permissionMatrixService) Update(ctx context.Context, matrix datatypes.JSON) (datatypes.JSON, error) {
	if !IsJSONObject(matrix) {
		return nil, fmt.Errorf("%w: permission matrix must be a JSON object", ErrInvalidInput)
	}
	if err := s.settings.Set(ctx, PermissionMatrixStoreKey, matrix); err != nil {
		return nil, fmt.Errorf("write permission matrix: %w", err)
	}
	return matrix, nil
}

// IsJSONObject reports whether raw is a syntactically valid JSON object.
func IsJSONObject(raw []byte) bool {
	var obj map[string]interface{}
	if err := sonic.Unmarshal(raw, &obj); err != nil {
		return false
	}
	return obj != nil
}
