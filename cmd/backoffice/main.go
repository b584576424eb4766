// @title						Backoffice API
// @version					1.0
// @description				Back office for insulation contracting: projects, contracts, photos and invites.
// @BasePath					/api
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/szigetelo/backoffice/internal/bootstrap"
	"github.com/szigetelo/backoffice/internal/config"
	"github.com/szigetelo/backoffice/internal/infra/cache"
	"github.com/szigetelo/backoffice/internal/infra/db"
	"github.com/szigetelo/backoffice/internal/infra/logger"
	mq "github.com/szigetelo/backoffice/internal/infra/queue"
	"github.com/szigetelo/backoffice/internal/modules/repo"
	"github.com/szigetelo/backoffice/internal/modules/service"
	"github.com/szigetelo/backoffice/internal/telemetry"
)

var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "backoffice",
	Short:         "Back office API for insulation contracting",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	migrateCmd.Flags().Bool("rollback", false, "revert the most recent migration instead of applying pending ones")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(issueTokenCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("backoffice version %s\n", version)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		rollback, _ := cmd.Flags().GetBool("rollback")

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log, err := logger.New(cfg.Log.Level)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		gdb, err := db.New(cfg, log)
		if err != nil {
			return err
		}
		if rollback {
			if err := db.RollbackLast(gdb); err != nil {
				return err
			}
			log.Info("rolled back last migration")
			return nil
		}
		if err := db.Migrate(gdb); err != nil {
			return err
		}
		log.Info("migrations applied")
		return nil
	},
}

var issueTokenCmd = &cobra.Command{
	Use:   "issue-token <email>",
	Short: "Issue a bearer API token for an existing user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inj := bootstrap.BuildContainer()
		cfg := do.MustInvoke[*config.Config](inj)
		users := do.MustInvoke[repo.UserRepo](inj)

		u, err := users.GetByEmail(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("find user %s: %w", args[0], err)
		}
		token, err := service.IssueAPIToken(cmd.Context(), users, u, service.TokenConfig{
			Prefix:       cfg.Auth.APITokenPrefix,
			Pepper:       cfg.Auth.SecretPepper,
			VerifyArgon2: cfg.Auth.EnableArgon2Verify,
		})
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}

func serve(ctx context.Context) error {
	inj := bootstrap.BuildContainer()

	cfg := do.MustInvoke[*config.Config](inj)
	log := do.MustInvoke[*zap.Logger](inj)
	defer func() { _ = log.Sync() }()

	if cfg.App.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	// tracing first so the gorm and redis plugins see the provider
	if _, err := telemetry.SetupTracing(ctx, cfg); err != nil {
		log.Warn("tracing disabled", zap.Error(err))
	}
	if _, err := telemetry.SetupMetrics(ctx, cfg); err != nil {
		log.Warn("metrics disabled", zap.Error(err))
	}
	if err := telemetry.InitDomainMetrics(); err != nil {
		log.Warn("domain metrics", zap.Error(err))
	}

	engine, err := do.Invoke[*gin.Engine](inj)
	if err != nil {
		return err
	}

	if err := bootstrap.SeedPermissionMatrix(ctx, do.MustInvoke[repo.SettingsRepo](inj), cfg.Permissions.SeedFile, log); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.App.Host, strconv.Itoa(cfg.App.Port)),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", srv.Addr), zap.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		closeInfra(shutdownCtx, inj, log)
		return err
	})

	return g.Wait()
}

func closeInfra(ctx context.Context, inj *do.Injector, log *zap.Logger) {
	if p, err := do.Invoke[*mq.Publisher](inj); err == nil && p != nil {
		if err := p.Close(); err != nil {
			log.Warn("close rabbitmq channel", zap.Error(err))
		}
	}
	if rdb, err := do.Invoke[*redis.Client](inj); err == nil {
		if err := cache.Close(rdb); err != nil {
			log.Warn("close redis", zap.Error(err))
		}
	}
	if gdb, err := do.Invoke[*gorm.DB](inj); err == nil {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if err := telemetry.ShutdownMetrics(ctx); err != nil {
		log.Warn("shutdown metrics", zap.Error(err))
	}
	if err := telemetry.Shutdown(ctx); err != nil {
		log.Warn("shutdown tracing", zap.Error(err))
	}
}
