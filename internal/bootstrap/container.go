package bootstrap

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/szigetelo/backoffice/internal/config"
	"github.com/szigetelo/backoffice/internal/infra/blob"
	"github.com/szigetelo/backoffice/internal/infra/cache"
	"github.com/szigetelo/backoffice/internal/infra/db"
	"github.com/szigetelo/backoffice/internal/infra/httpclient"
	"github.com/szigetelo/backoffice/internal/infra/logger"
	mq "github.com/szigetelo/backoffice/internal/infra/queue"
	"github.com/szigetelo/backoffice/internal/modules/handler"
	"github.com/szigetelo/backoffice/internal/modules/hooks"
	"github.com/szigetelo/backoffice/internal/modules/repo"
	"github.com/szigetelo/backoffice/internal/modules/service"
	"github.com/szigetelo/backoffice/internal/pkg/lifecycle"
	"github.com/szigetelo/backoffice/internal/pkg/utils/tokens"
	"github.com/szigetelo/backoffice/internal/router"
)

func presignExpire(cfg *config.Config) time.Duration {
	if cfg.S3.PresignExpireSec <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(cfg.S3.PresignExpireSec) * time.Second
}

func BuildContainer() *do.Injector {
	inj := do.New()

	// config
	do.Provide(inj, func(i *do.Injector) (*config.Config, error) {
		return config.Load()
	})

	// logger
	do.Provide(inj, func(i *do.Injector) (*zap.Logger, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return logger.New(cfg.Log.Level)
	})

	// DB
	do.Provide(inj, func(i *do.Injector) (*gorm.DB, error) {
		cfg := do.MustInvoke[*config.Config](i)
		log := do.MustInvoke[*zap.Logger](i)
		d, err := db.New(cfg, log)
		if err != nil {
			return nil, err
		}
		if cfg.Telemetry.Enabled {
			if err := db.RegisterOpenTelemetryPlugin(d); err != nil {
				log.Warn("gorm tracing plugin", zap.Error(err))
			}
		}
		// [optional] auto migrate
		if cfg.Database.AutoMigrate {
			if err := db.Migrate(d); err != nil {
				return nil, err
			}
		}
		return d, nil
	})

	// Redis, nil when not configured
	do.Provide(inj, func(i *do.Injector) (*redis.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if !cache.Enabled(cfg) {
			return nil, nil
		}
		rdb, err := cache.New(context.Background(), cfg)
		if err != nil {
			return nil, err
		}
		if cfg.Telemetry.Enabled {
			if err := cache.RegisterOpenTelemetryPlugin(rdb); err != nil {
				do.MustInvoke[*zap.Logger](i).Warn("redis tracing plugin", zap.Error(err))
			}
		}
		return rdb, nil
	})

	// RabbitMQ publisher, nil when not configured
	do.Provide(inj, func(i *do.Injector) (*mq.Publisher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if !mq.Enabled(cfg) {
			return nil, nil
		}
		conn, err := mq.Dial(cfg)
		if err != nil {
			return nil, err
		}
		return mq.NewPublisher(conn, do.MustInvoke[*zap.Logger](i), cfg)
	})
	do.Provide(inj, func(i *do.Injector) (service.MailPublisher, error) {
		if p := do.MustInvoke[*mq.Publisher](i); p != nil {
			return p, nil
		}
		return nil, nil
	})
	do.Provide(inj, func(i *do.Injector) (hooks.EventPublisher, error) {
		if p := do.MustInvoke[*mq.Publisher](i); p != nil {
			return p, nil
		}
		return nil, nil
	})

	// S3
	do.Provide(inj, func(i *do.Injector) (*blob.S3Deps, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return blob.NewS3(context.Background(), cfg)
	})

	// PDF renderer
	do.Provide(inj, func(i *do.Injector) (*httpclient.RendererClient, error) {
		return httpclient.NewRendererClient(
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	do.Provide(inj, func(i *do.Injector) (*tokens.Signer, error) {
		return tokens.NewSigner(do.MustInvoke[*config.Config](i).Auth.JWTSecret), nil
	})

	// Repo
	do.Provide(inj, func(i *do.Injector) (repo.SettingsRepo, error) {
		cfg := do.MustInvoke[*config.Config](i)
		settings := repo.NewSettingsRepo(do.MustInvoke[*gorm.DB](i))
		if rdb := do.MustInvoke[*redis.Client](i); rdb != nil {
			ttl := time.Duration(cfg.Redis.SettingsTTLSec) * time.Second
			return repo.NewCachedSettingsRepo(settings, rdb, ttl, do.MustInvoke[*zap.Logger](i)), nil
		}
		return settings, nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.CompanyRepo, error) {
		return repo.NewCompanyRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.UserRepo, error) {
		return repo.NewUserRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.ProjectRepo, error) {
		return repo.NewProjectRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.ProjectAuditLogRepo, error) {
		return repo.NewProjectAuditLogRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.DocumentRepo, error) {
		return repo.NewDocumentRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.PhotoRepo, error) {
		return repo.NewPhotoRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.PhotoCategoryRepo, error) {
		return repo.NewPhotoCategoryRepo(do.MustInvoke[*gorm.DB](i)), nil
	})

	// lifecycle hooks
	do.Provide(inj, func(i *do.Injector) (*lifecycle.Dispatcher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		log := do.MustInvoke[*zap.Logger](i)
		d := lifecycle.NewDispatcher(log)
		hooks.NewProjectStartTrigger(
			do.MustInvoke[repo.ProjectRepo](i),
			do.MustInvoke[repo.ProjectAuditLogRepo](i),
			do.MustInvoke[hooks.EventPublisher](i),
			cfg.RabbitMQ.RoutingKey.ProjectStarted,
			log,
		).Register(d)
		hooks.RegisterPhotoCategorySlug(d)
		return d, nil
	})

	// Service
	do.Provide(inj, func(i *do.Injector) (service.PermissionMatrixService, error) {
		return service.NewPermissionMatrixService(do.MustInvoke[repo.SettingsRepo](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.CompanyService, error) {
		return service.NewCompanyService(do.MustInvoke[repo.CompanyRepo](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.UserService, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return service.NewUserService(do.MustInvoke[repo.UserRepo](i), service.TokenConfig{
			Prefix:       cfg.Auth.APITokenPrefix,
			Pepper:       cfg.Auth.SecretPepper,
			VerifyArgon2: cfg.Auth.EnableArgon2Verify,
		}), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.InviteService, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return service.NewInviteService(
			do.MustInvoke[repo.UserRepo](i),
			do.MustInvoke[repo.CompanyRepo](i),
			do.MustInvoke[*tokens.Signer](i),
			do.MustInvoke[service.MailPublisher](i),
			service.InviteConfig{
				PublicURL: cfg.App.PublicURL,
				InviteTTL: time.Duration(cfg.Auth.InviteTTLHours) * time.Hour,
				ResetTTL:  time.Duration(cfg.Auth.ResetTTLMinutes) * time.Minute,
			},
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.ProjectService, error) {
		return service.NewProjectService(
			do.MustInvoke[repo.ProjectRepo](i),
			do.MustInvoke[repo.CompanyRepo](i),
			do.MustInvoke[repo.ProjectAuditLogRepo](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.ProjectAuditLogService, error) {
		return service.NewProjectAuditLogService(
			do.MustInvoke[repo.ProjectRepo](i),
			do.MustInvoke[repo.ProjectAuditLogRepo](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.DocumentService, error) {
		return service.NewDocumentService(
			do.MustInvoke[repo.DocumentRepo](i),
			do.MustInvoke[repo.ProjectRepo](i),
			do.MustInvoke[repo.ProjectAuditLogRepo](i),
			do.MustInvoke[*blob.S3Deps](i),
			do.MustInvoke[*httpclient.RendererClient](i),
			do.MustInvoke[*lifecycle.Dispatcher](i),
			presignExpire(do.MustInvoke[*config.Config](i)),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.PhotoService, error) {
		return service.NewPhotoService(
			do.MustInvoke[repo.PhotoRepo](i),
			do.MustInvoke[repo.ProjectRepo](i),
			do.MustInvoke[repo.PhotoCategoryRepo](i),
			do.MustInvoke[repo.ProjectAuditLogRepo](i),
			do.MustInvoke[*blob.S3Deps](i),
			do.MustInvoke[*lifecycle.Dispatcher](i),
			presignExpire(do.MustInvoke[*config.Config](i)),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.PhotoCategoryService, error) {
		return service.NewPhotoCategoryService(
			do.MustInvoke[repo.PhotoCategoryRepo](i),
			do.MustInvoke[*lifecycle.Dispatcher](i),
		), nil
	})

	// Handler
	do.Provide(inj, func(i *do.Injector) (*handler.PermissionMatrixHandler, error) {
		return handler.NewPermissionMatrixHandler(do.MustInvoke[service.PermissionMatrixService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.CompanyHandler, error) {
		return handler.NewCompanyHandler(do.MustInvoke[service.CompanyService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.InviteHandler, error) {
		return handler.NewInviteHandler(do.MustInvoke[service.InviteService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.ProjectHandler, error) {
		return handler.NewProjectHandler(
			do.MustInvoke[service.ProjectService](i),
			do.MustInvoke[service.ProjectAuditLogService](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.DocumentHandler, error) {
		return handler.NewDocumentHandler(do.MustInvoke[service.DocumentService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.PhotoHandler, error) {
		return handler.NewPhotoHandler(do.MustInvoke[service.PhotoService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.PhotoCategoryHandler, error) {
		return handler.NewPhotoCategoryHandler(do.MustInvoke[service.PhotoCategoryService](i)), nil
	})

	// Router
	do.Provide(inj, func(i *do.Injector) (*gin.Engine, error) {
		return router.NewRouter(router.RouterDeps{
			Config:                  do.MustInvoke[*config.Config](i),
			Log:                     do.MustInvoke[*zap.Logger](i),
			UserService:             do.MustInvoke[service.UserService](i),
			PermissionMatrixHandler: do.MustInvoke[*handler.PermissionMatrixHandler](i),
			CompanyHandler:          do.MustInvoke[*handler.CompanyHandler](i),
			DocumentHandler:         do.MustInvoke[*handler.DocumentHandler](i),
			InviteHandler:           do.MustInvoke[*handler.InviteHandler](i),
			PhotoHandler:            do.MustInvoke[*handler.PhotoHandler](i),
			PhotoCategoryHandler:    do.MustInvoke[*handler.PhotoCategoryHandler](i),
			ProjectHandler:          do.MustInvoke[*handler.ProjectHandler](i),
		})
	})

	return inj
}
