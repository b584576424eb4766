package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"

	"github.com/szigetelo/backoffice/internal/modules/repo"
	"github.com/szigetelo/backoffice/internal/modules/service"
)

// SeedPermissionMatrix stores the matrix read from a YAML file when none is stored yet.
// An empty path is a no-op. An existing matrix is never overwritten.
func SeedPermissionMatrix(ctx context.Context, settings repo.SettingsRepo, path string, log *zap.Logger) error {
	if path == "" {
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read permission seed: %w", err)
	}
	matrix, err := parseMatrixYAML(raw)
	if err != nil {
		return fmt.Errorf("parse permission seed %s: %w", path, err)
	}

	written, err := settings.SetIfAbsent(ctx, service.PermissionMatrixStoreKey, matrix)
	if err != nil {
		return fmt.Errorf("seed permission matrix: %w", err)
	}
	if written {
		log.Info("permission matrix seeded", zap.String("file", path))
	} else {
		log.Debug("permission matrix already present, seed skipped")
	}
	return nil
}

func parseMatrixYAML(raw []byte) (datatypes.JSON, error) {
	var m map[string]any
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.New("seed must be a mapping")
	}
	b, err := sonic.Marshal(m)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
