package conf

import (
	"errors"
	"fmt"
	"strings"
	"time"

	emailtypes "github.com/lk2023060901/workspace-backend/internal/email/types"
	"github.com/lk2023060901/workspace-backend/internal/pkg/database"
	"github.com/lk2023060901/workspace-backend/internal/pkg/logger"
	"github.com/lk2023060901/workspace-backend/internal/pkg/redis"
	"github.com/spf13/viper"
)

const envPrefix = "WORKSPACE"

// Config is the full service configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      logger.Config  `mapstructure:"log"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Email    EmailConfig    `mapstructure:"email"`
	Theme    ThemeConfig    `mapstructure:"theme"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // gin mode: debug, release, test
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns host:port for http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RedisConfig enables redis and wraps its client settings.
type RedisConfig struct {
	Enabled      bool `mapstructure:"enabled"`
	redis.Config `mapstructure:",squash"`
}

// DatabaseConfig enables postgres and wraps its client settings.
type DatabaseConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	database.Config `mapstructure:",squash"`
}

// EmailConfig sends email-method verification codes over SMTP when enabled.
type EmailConfig struct {
	Enabled                bool `mapstructure:"enabled"`
	emailtypes.EmailConfig `mapstructure:",squash"`
}

// AuthConfig tunes tokens and the sign-in flow.
type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	JWTIssuer      string        `mapstructure:"jwt_issuer"`
	TokenTTL       time.Duration `mapstructure:"token_ttl"`
	Simulate       bool          `mapstructure:"simulate"`
	TOTPIssuer     string        `mapstructure:"totp_issuer"`
	TOTPSeed       string        `mapstructure:"totp_seed"`
	PendingTTL     time.Duration `mapstructure:"pending_ttl"`
	ResendCooldown time.Duration `mapstructure:"resend_cooldown"`
	MaxAttempts    int           `mapstructure:"max_attempts"`
	QRTTL          time.Duration `mapstructure:"qr_ttl"`
	LoginRateLimit int           `mapstructure:"login_rate_limit"` // requests per minute per IP

	// DeliveryWorkers sends codes asynchronously when > 0.
	DeliveryWorkers int `mapstructure:"delivery_workers"`
}

// ThemeConfig selects the preference store and the default palette.
type ThemeConfig struct {
	Store   string `mapstructure:"store"` // memory, redis, postgres
	Default string `mapstructure:"default"`
}

// LoadConfig reads path (optional) and overlays WORKSPACE_* environment
// variables on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	lc := logger.DefaultConfig()
	v.SetDefault("log.level", lc.Level)
	v.SetDefault("log.format", lc.Format)
	v.SetDefault("log.output", lc.Output)
	v.SetDefault("log.enable_caller", lc.EnableCaller)
	v.SetDefault("log.enable_stacktrace", lc.EnableStacktrace)
	v.SetDefault("log.file.filename", lc.File.Filename)
	v.SetDefault("log.file.max_size", lc.File.MaxSize)
	v.SetDefault("log.file.max_age", lc.File.MaxAge)
	v.SetDefault("log.file.max_backups", lc.File.MaxBackups)
	v.SetDefault("log.file.compress", lc.File.Compress)

	rc := redis.DefaultConfig()
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.mode", string(rc.Mode))
	v.SetDefault("redis.addr", rc.Addr)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", rc.DB)
	v.SetDefault("redis.pool_size", rc.PoolSize)
	v.SetDefault("redis.min_idle_conns", rc.MinIdleConns)
	v.SetDefault("redis.dial_timeout", rc.DialTimeout)
	v.SetDefault("redis.read_timeout", rc.ReadTimeout)
	v.SetDefault("redis.write_timeout", rc.WriteTimeout)
	v.SetDefault("redis.pool_timeout", rc.PoolTimeout)
	v.SetDefault("redis.max_retries", rc.MaxRetries)
	v.SetDefault("redis.min_retry_backoff", rc.MinRetryBackoff)
	v.SetDefault("redis.max_retry_backoff", rc.MaxRetryBackoff)

	dc := database.DefaultConfig()
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", dc.Host)
	v.SetDefault("database.port", dc.Port)
	v.SetDefault("database.user", dc.User)
	v.SetDefault("database.password", dc.Password)
	v.SetDefault("database.dbname", dc.DBName)
	v.SetDefault("database.sslmode", dc.SSLMode)
	v.SetDefault("database.timezone", dc.Timezone)
	v.SetDefault("database.max_idle_conns", dc.MaxIdleConns)
	v.SetDefault("database.max_open_conns", dc.MaxOpenConns)
	v.SetDefault("database.conn_max_lifetime", dc.ConnMaxLifetime)
	v.SetDefault("database.conn_max_idle_time", dc.ConnMaxIdleTime)
	v.SetDefault("database.log_level", dc.LogLevel)
	v.SetDefault("database.slow_threshold", dc.SlowThreshold)
	v.SetDefault("database.prepare_stmt", dc.PrepareStmt)
	v.SetDefault("database.auto_migrate", dc.AutoMigrate)

	v.SetDefault("auth.jwt_secret", "change-me-in-production")
	v.SetDefault("auth.jwt_issuer", "workspace-backend")
	v.SetDefault("auth.token_ttl", 8*time.Hour)
	v.SetDefault("auth.simulate", true)
	v.SetDefault("auth.totp_issuer", "Accops Workspace")
	v.SetDefault("auth.totp_seed", "workspace-totp-seed")
	v.SetDefault("auth.pending_ttl", 5*time.Minute)
	v.SetDefault("auth.resend_cooldown", 30*time.Second)
	v.SetDefault("auth.max_attempts", 3)
	v.SetDefault("auth.qr_ttl", 24*time.Second)
	v.SetDefault("auth.login_rate_limit", 20)
	v.SetDefault("auth.delivery_workers", 4)

	v.SetDefault("email.enabled", false)
	v.SetDefault("email.smtp_host", "")
	v.SetDefault("email.smtp_port", 587)
	v.SetDefault("email.username", "")
	v.SetDefault("email.password", "")
	v.SetDefault("email.tls_policy", "mandatory")
	v.SetDefault("email.from_addr", "")
	v.SetDefault("email.from_name", "Accops Workspace")
	v.SetDefault("email.recipient_domain", "")
	v.SetDefault("email.max_retries", 3)
	v.SetDefault("email.retry_interval", 2*time.Second)
	v.SetDefault("email.connect_timeout", 10*time.Second)
	v.SetDefault("email.send_timeout", 30*time.Second)

	v.SetDefault("theme.store", "memory")
	v.SetDefault("theme.default", "blue")
}

// Validate rejects inconsistent settings.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("server.port must be between 1 and 65535")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("server.shutdown_timeout must be > 0")
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if c.Redis.Enabled {
		if err := c.Redis.Config.Validate(); err != nil {
			return err
		}
	}
	if c.Database.Enabled {
		if err := c.Database.Config.Validate(); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}

	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	if c.Auth.TokenTTL <= 0 || c.Auth.PendingTTL <= 0 || c.Auth.QRTTL <= 0 {
		return errors.New("auth ttl values must be > 0")
	}
	if c.Auth.ResendCooldown < 0 {
		return errors.New("auth.resend_cooldown must be >= 0")
	}
	if c.Auth.MaxAttempts <= 0 {
		return errors.New("auth.max_attempts must be > 0")
	}
	if c.Auth.DeliveryWorkers < 0 {
		return errors.New("auth.delivery_workers must be >= 0")
	}

	if c.Email.Enabled && (c.Email.SMTPHost == "" || c.Email.FromAddr == "") {
		return errors.New("email.smtp_host and email.from_addr are required when email.enabled")
	}

	switch c.Theme.Store {
	case "memory":
	case "redis":
		if !c.Redis.Enabled {
			return errors.New("theme.store=redis requires redis.enabled")
		}
	case "postgres":
		if !c.Database.Enabled {
			return errors.New("theme.store=postgres requires database.enabled")
		}
	default:
		return fmt.Errorf("theme.store %q must be one of: memory, redis, postgres", c.Theme.Store)
	}

	return nil
}
