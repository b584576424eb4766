package config

import (
	"errors"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AppCfg struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// PublicURL is used to build invitation links in outgoing mails.
	PublicURL string `mapstructure:"public_url"`
}

type LogCfg struct {
	Level string `mapstructure:"level"`
}

type DatabaseCfg struct {
	DSN         string `mapstructure:"dsn"`
	EnableTLS   bool   `mapstructure:"enable_tls"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxIdle     int    `mapstructure:"max_idle"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type RedisCfg struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	PoolSize  int    `mapstructure:"pool_size"`
	EnableTLS bool   `mapstructure:"enable_tls"`
	// SettingsTTLSec bounds how long a cached settings entry lives.
	SettingsTTLSec int `mapstructure:"settings_ttl_sec"`
}

type ExchangeName struct {
	Mail   string `mapstructure:"mail"`
	Events string `mapstructure:"events"`
}

type RoutingKey struct {
	Invite         string `mapstructure:"invite"`
	PasswordReset  string `mapstructure:"password_reset"`
	ProjectStarted string `mapstructure:"project_started"`
}

type RabbitMQCfg struct {
	URL          string       `mapstructure:"url"`
	EnableTLS    bool         `mapstructure:"enable_tls"`
	ExchangeName ExchangeName `mapstructure:"exchange_name"`
	RoutingKey   RoutingKey   `mapstructure:"routing_key"`
}

type S3Cfg struct {
	Endpoint         string `mapstructure:"endpoint"`
	Region           string `mapstructure:"region"`
	AccessKey        string `mapstructure:"access_key"`
	SecretKey        string `mapstructure:"secret_key"`
	Bucket           string `mapstructure:"bucket"`
	UsePathStyle     bool   `mapstructure:"use_path_style"`
	PresignExpireSec int    `mapstructure:"presign_expire_sec"`
}

type RendererCfg struct {
	// BaseURL of an HTML to PDF conversion service. Empty keeps generated documents as HTML.
	BaseURL    string `mapstructure:"base_url"`
	TimeoutSec int    `mapstructure:"timeout_sec"`
}

type AuthCfg struct {
	JWTSecret          string `mapstructure:"jwt_secret"`
	InviteTTLHours     int    `mapstructure:"invite_ttl_hours"`
	ResetTTLMinutes    int    `mapstructure:"reset_ttl_minutes"`
	APITokenPrefix     string `mapstructure:"api_token_prefix"`
	SecretPepper       string `mapstructure:"secret_pepper"`
	EnableArgon2Verify bool   `mapstructure:"enable_argon2_verify"`
}

type PermissionsCfg struct {
	SeedFile string `mapstructure:"seed_file"`
}

type TelemetryCfg struct {
	Enabled      bool    `mapstructure:"enabled"`
	OtlpEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

type Config struct {
	App         AppCfg         `mapstructure:"app"`
	Log         LogCfg         `mapstructure:"log"`
	Database    DatabaseCfg    `mapstructure:"database"`
	Redis       RedisCfg       `mapstructure:"redis"`
	RabbitMQ    RabbitMQCfg    `mapstructure:"rabbitmq"`
	S3          S3Cfg          `mapstructure:"s3"`
	Renderer    RendererCfg    `mapstructure:"renderer"`
	Auth        AuthCfg        `mapstructure:"auth"`
	Permissions PermissionsCfg `mapstructure:"permissions"`
	Telemetry   TelemetryCfg   `mapstructure:"telemetry"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "backoffice")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", 8029)
	v.SetDefault("app.public_url", "http://localhost:3000")

	v.SetDefault("log.level", "info")

	v.SetDefault("database.dsn", "host=localhost user=backoffice password=backoffice dbname=backoffice port=5432 sslmode=disable")
	v.SetDefault("database.max_open", 20)
	v.SetDefault("database.max_idle", 5)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.settings_ttl_sec", 300)

	v.SetDefault("rabbitmq.exchange_name.mail", "backoffice.mail")
	v.SetDefault("rabbitmq.exchange_name.events", "backoffice.events")
	v.SetDefault("rabbitmq.routing_key.invite", "mail.invite")
	v.SetDefault("rabbitmq.routing_key.password_reset", "mail.password_reset")
	v.SetDefault("rabbitmq.routing_key.project_started", "project.started")

	v.SetDefault("s3.region", "eu-central-1")
	v.SetDefault("s3.bucket", "backoffice")
	v.SetDefault("s3.presign_expire_sec", 900)

	v.SetDefault("renderer.timeout_sec", 60)

	v.SetDefault("auth.invite_ttl_hours", 72)
	v.SetDefault("auth.reset_ttl_minutes", 60)
	v.SetDefault("auth.api_token_prefix", "bo-")

	v.SetDefault("telemetry.sample_ratio", 1.0)

	// keys without a meaningful default still need registering so AutomaticEnv sees them on Unmarshal
	for _, k := range []string{
		"database.enable_tls",
		"redis.addr", "redis.password", "redis.db", "redis.enable_tls",
		"rabbitmq.url", "rabbitmq.enable_tls",
		"s3.endpoint", "s3.access_key", "s3.secret_key", "s3.use_path_style",
		"renderer.base_url",
		"auth.jwt_secret", "auth.secret_pepper", "auth.enable_argon2_verify",
		"permissions.seed_file",
		"telemetry.enabled", "telemetry.otlp_endpoint",
	} {
		v.SetDefault(k, nil)
	}
}

// Load reads config.yaml (optional) from the working directory or ./configs,
// then overlays BACKOFFICE_* environment variables. A .env file is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	v.SetEnvPrefix("BACKOFFICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return errors.New("database.dsn is required")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	if c.App.Port <= 0 {
		return errors.New("app.port must be positive")
	}
	return nil
}
