// Package config handles application configuration loading and validation using Viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Progression ProgressionConfig `mapstructure:"progression"`
	Game        GameConfig        `mapstructure:"game"`
	Leaderboard LeaderboardConfig `mapstructure:"leaderboard"`
	Notify      NotifyConfig      `mapstructure:"notify"`
	Scheduler   SchedulerConfig   `mapstructure:"scheduler"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port        int    `mapstructure:"port"`
	Environment string `mapstructure:"environment"`
}

// DatabaseConfig contains database connection settings for PostgreSQL and Redis.
type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// PostgresConfig contains PostgreSQL database connection and pool settings.
type PostgresConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Database        string `mapstructure:"database"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"ssl_mode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

// RedisConfig contains Redis cache connection and pool settings.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	SessionTTLMinutes int `mapstructure:"session_ttl_minutes"`
	BcryptCost        int `mapstructure:"bcrypt_cost"`
}

// ProgressionConfig contains the rank ladder and point-award settings.
// The ladder collapses the two historical rank taxonomies into one table:
// names, thresholds over lifetime points, and point multipliers per tier.
type ProgressionConfig struct {
	Ranks []RankTierConfig `mapstructure:"ranks"`
}

// RankTierConfig represents a single rank tier.
type RankTierConfig struct {
	Name       string  `mapstructure:"name"`
	MinPoints  int     `mapstructure:"min_points"`
	Multiplier float64 `mapstructure:"multiplier"`
}

// GameConfig contains mini-game admission and scoring settings.
type GameConfig struct {
	CooldownMinutes int `mapstructure:"cooldown_minutes"`
	DailyPlayLimit  int `mapstructure:"daily_play_limit"`
	MaxScore        int `mapstructure:"max_score"`
}

// LeaderboardConfig contains leaderboard size and cache settings.
type LeaderboardConfig struct {
	Size            int `mapstructure:"size"`
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds"`
}

// NotifyConfig contains webhook notification settings for rank promotions.
type NotifyConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
	Channel    string `mapstructure:"channel"`
	Enabled    bool   `mapstructure:"enabled"`
}

// SchedulerConfig contains the leaderboard cache refresh scheduler settings.
type SchedulerConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Cron     string `mapstructure:"cron"`
	Timezone string `mapstructure:"timezone"`
}

// MetricsConfig contains Prometheus metrics exporter settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LoggingConfig contains application logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// Load reads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/recycle-rewards/")
	}

	// Bind specific environment variables (explicit bindings for 12-factor app compliance)
	_ = v.BindEnv("server.port", "SERVER_PORT")
	_ = v.BindEnv("server.environment", "SERVER_ENVIRONMENT")

	_ = v.BindEnv("database.postgres.host", "POSTGRES_HOST")
	_ = v.BindEnv("database.postgres.port", "POSTGRES_PORT")
	_ = v.BindEnv("database.postgres.database", "POSTGRES_DB")
	_ = v.BindEnv("database.postgres.user", "POSTGRES_USER")
	_ = v.BindEnv("database.postgres.password", "POSTGRES_PASSWORD")
	_ = v.BindEnv("database.postgres.ssl_mode", "POSTGRES_SSL_MODE")
	_ = v.BindEnv("database.postgres.max_open_conns", "POSTGRES_MAX_OPEN_CONNS")
	_ = v.BindEnv("database.postgres.max_idle_conns", "POSTGRES_MAX_IDLE_CONNS")
	_ = v.BindEnv("database.postgres.conn_max_lifetime", "POSTGRES_CONN_MAX_LIFETIME")

	_ = v.BindEnv("database.redis.host", "REDIS_HOST")
	_ = v.BindEnv("database.redis.port", "REDIS_PORT")
	_ = v.BindEnv("database.redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("database.redis.db", "REDIS_DB")
	_ = v.BindEnv("database.redis.pool_size", "REDIS_POOL_SIZE")

	_ = v.BindEnv("auth.session_ttl_minutes", "AUTH_SESSION_TTL_MINUTES")
	_ = v.BindEnv("auth.bcrypt_cost", "AUTH_BCRYPT_COST")

	_ = v.BindEnv("game.cooldown_minutes", "GAME_COOLDOWN_MINUTES")
	_ = v.BindEnv("game.daily_play_limit", "GAME_DAILY_PLAY_LIMIT")
	_ = v.BindEnv("game.max_score", "GAME_MAX_SCORE")

	_ = v.BindEnv("notify.webhook_url", "NOTIFY_WEBHOOK_URL")
	_ = v.BindEnv("notify.channel", "NOTIFY_CHANNEL")
	_ = v.BindEnv("notify.enabled", "NOTIFY_ENABLED")

	_ = v.BindEnv("scheduler.enabled", "SCHEDULER_ENABLED")
	_ = v.BindEnv("scheduler.cron", "SCHEDULER_CRON")
	_ = v.BindEnv("scheduler.timezone", "SCHEDULER_TIMEZONE")

	_ = v.BindEnv("logging.level", "LOG_LEVEL")
	_ = v.BindEnv("logging.format", "LOG_FORMAT")
	_ = v.BindEnv("logging.output", "LOG_OUTPUT")

	// Defaults for knobs that have sensible built-in values
	v.SetDefault("auth.session_ttl_minutes", 720)
	v.SetDefault("auth.bcrypt_cost", 12)
	v.SetDefault("game.cooldown_minutes", 120)
	v.SetDefault("game.daily_play_limit", 5)
	v.SetDefault("game.max_score", 120)
	v.SetDefault("leaderboard.size", 10)
	v.SetDefault("leaderboard.cache_ttl_seconds", 60)
	v.SetDefault("metrics.path", "/metrics")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Database.Postgres.Host == "" {
		return fmt.Errorf("database.postgres.host is required")
	}
	if c.Database.Postgres.Database == "" {
		return fmt.Errorf("database.postgres.database is required")
	}
	if c.Database.Postgres.User == "" {
		return fmt.Errorf("database.postgres.user is required")
	}
	if c.Database.Redis.Host == "" {
		return fmt.Errorf("database.redis.host is required")
	}
	if len(c.Progression.Ranks) == 0 {
		return fmt.Errorf("at least one rank tier must be configured")
	}
	for i := 1; i < len(c.Progression.Ranks); i++ {
		if c.Progression.Ranks[i].MinPoints <= c.Progression.Ranks[i-1].MinPoints {
			return fmt.Errorf("progression.ranks must have strictly ascending min_points")
		}
	}
	if c.Progression.Ranks[0].MinPoints != 0 {
		return fmt.Errorf("progression.ranks[0].min_points must be 0")
	}
	if c.Game.DailyPlayLimit < 1 {
		return fmt.Errorf("game.daily_play_limit must be at least 1")
	}
	if c.Game.MaxScore < 1 {
		return fmt.Errorf("game.max_score must be at least 1")
	}
	return nil
}

// Cooldown returns the mini-game admission cooldown as a duration.
func (c *GameConfig) Cooldown() time.Duration {
	return time.Duration(c.CooldownMinutes) * time.Minute
}

// SessionTTL returns the auth session lifetime as a duration.
func (c *AuthConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// CacheTTL returns the leaderboard cache lifetime as a duration.
func (c *LeaderboardConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// GetLocation returns the scheduler timezone location.
func (c *SchedulerConfig) GetLocation() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}
