package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BACKOFFICE_AUTH_JWT_SECRET", "test-secret")
	t.Setenv("BACKOFFICE_APP_PORT", "9090")
	t.Setenv("BACKOFFICE_REDIS_ADDR", "localhost:6380")
	t.Setenv("BACKOFFICE_RABBITMQ_ROUTING_KEY_INVITE", "custom.invite")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "localhost:6380", cfg.Redis.Addr)
	assert.Equal(t, "custom.invite", cfg.RabbitMQ.RoutingKey.Invite)
	// defaults survive
	assert.Equal(t, "backoffice", cfg.App.Name)
	assert.Equal(t, 72, cfg.Auth.InviteTTLHours)
	assert.Equal(t, "mail.password_reset", cfg.RabbitMQ.RoutingKey.PasswordReset)
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	t.Setenv("BACKOFFICE_AUTH_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_secret")
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		App:      AppCfg{Port: 8029},
		Database: DatabaseCfg{DSN: "dsn"},
		Auth:     AuthCfg{JWTSecret: "s"},
	}
	assert.NoError(t, cfg.Validate())

	cfg.App.Port = 0
	assert.Error(t, cfg.Validate())
}
