package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Log       LogConfig
	Analytics AnalyticsConfig
}

type AppConfig struct {
	Name string
	Env  string
}

// HTTPConfig holds HTTP server settings
type HTTPConfig struct {
	Port             string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	ShutdownTimeout  time.Duration
	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int
	CORSAllowOrigins []string
	SwaggerEnabled   bool
}

// DatabaseConfig holds Postgres connection settings
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	QueryTimeout    time.Duration
	MigrateOnStart  bool
}

// RedisConfig holds settings for the low-stock alert log
type RedisConfig struct {
	Enabled      bool
	Addr         string
	Password     string
	DB           int
	AlertKey     string
	AlertChannel string
	AlertMaxLen  int64
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AnalyticsConfig carries the tunable analytics formulas.
type AnalyticsConfig struct {
	CriticalRatio             float64
	TopStores                 int
	DefaultTrendBuckets       int
	DefaultDailyRangeDays     int
	DeclineThreshold          float64
	GrowthThreshold           float64
	StockOutThreshold         float64
	RestockFrequencyThreshold float64
	PredictionWindowDays      int
	DefaultDaysOfSales        int
}

// Load reads configuration.
// Priority (highest to lowest):
// 1. Environment variables with IAPS_ prefix (e.g., IAPS_DATABASE_URL), .env files included
// 2. config.yaml in ., ./config or /etc/iaps
// 3. Built-in defaults
func Load() (*Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/iaps")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("IAPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// DATABASE_URL is what the compose files and older deployments set.
	_ = v.BindEnv("database.url", "IAPS_DATABASE_URL", "DATABASE_URL")

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		HTTP: HTTPConfig{
			Port:             v.GetString("http.port"),
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			ShutdownTimeout:  v.GetDuration("http.shutdown_timeout"),
			RateLimitEnabled: v.GetBool("http.rate_limit_enabled"),
			RateLimitRPS:     v.GetFloat64("http.rate_limit_rps"),
			RateLimitBurst:   v.GetInt("http.rate_limit_burst"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			SwaggerEnabled:   v.GetBool("http.swagger_enabled"),
		},
		Database: DatabaseConfig{
			URL:             v.GetString("database.url"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
			QueryTimeout:    v.GetDuration("database.query_timeout"),
			MigrateOnStart:  v.GetBool("database.migrate_on_start"),
		},
		Redis: RedisConfig{
			Enabled:      v.GetBool("redis.enabled"),
			Addr:         v.GetString("redis.addr"),
			Password:     v.GetString("redis.password"),
			DB:           v.GetInt("redis.db"),
			AlertKey:     v.GetString("redis.alert_key"),
			AlertChannel: v.GetString("redis.alert_channel"),
			AlertMaxLen:  v.GetInt64("redis.alert_max_len"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Analytics: AnalyticsConfig{
			CriticalRatio:             v.GetFloat64("analytics.critical_ratio"),
			TopStores:                 v.GetInt("analytics.top_stores"),
			DefaultTrendBuckets:       v.GetInt("analytics.default_trend_buckets"),
			DefaultDailyRangeDays:     v.GetInt("analytics.default_daily_range_days"),
			DeclineThreshold:          v.GetFloat64("analytics.decline_threshold"),
			GrowthThreshold:           v.GetFloat64("analytics.growth_threshold"),
			StockOutThreshold:         v.GetFloat64("analytics.stock_out_threshold"),
			RestockFrequencyThreshold: v.GetFloat64("analytics.restock_frequency_threshold"),
			PredictionWindowDays:      v.GetInt("analytics.prediction_window_days"),
			DefaultDaysOfSales:        v.GetInt("analytics.default_days_of_sales"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "inventory-analytics")
	v.SetDefault("app.env", "development")

	v.SetDefault("http.port", "8080")
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)
	v.SetDefault("http.shutdown_timeout", 5*time.Second)
	v.SetDefault("http.rate_limit_enabled", true)
	v.SetDefault("http.rate_limit_rps", 10.0)
	v.SetDefault("http.rate_limit_burst", 20)
	v.SetDefault("http.cors_allow_origins", []string{"http://localhost:5173"})
	v.SetDefault("http.swagger_enabled", true)

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("database.query_timeout", 3*time.Second)
	v.SetDefault("database.migrate_on_start", true)

	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.addr", "inventory-redis:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.alert_key", "inventory:alerts:low-stock")
	v.SetDefault("redis.alert_channel", "inventory.low-stock")
	v.SetDefault("redis.alert_max_len", 500)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("analytics.critical_ratio", 0.5)
	v.SetDefault("analytics.top_stores", 5)
	v.SetDefault("analytics.default_trend_buckets", 30)
	v.SetDefault("analytics.default_daily_range_days", 30)
	v.SetDefault("analytics.decline_threshold", 10.0)
	v.SetDefault("analytics.growth_threshold", 50.0)
	v.SetDefault("analytics.stock_out_threshold", 0.1)
	v.SetDefault("analytics.restock_frequency_threshold", 0.5)
	v.SetDefault("analytics.prediction_window_days", 30)
	v.SetDefault("analytics.default_days_of_sales", 30)
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.HTTP.Port == "" {
		return fmt.Errorf("http.port is required")
	}
	if c.HTTP.RateLimitEnabled && (c.HTTP.RateLimitRPS <= 0 || c.HTTP.RateLimitBurst <= 0) {
		return fmt.Errorf("http.rate_limit_rps and http.rate_limit_burst must be positive when rate limiting is enabled")
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 || c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) must be between 0 and database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Database.QueryTimeout <= 0 {
		return fmt.Errorf("database.query_timeout must be positive")
	}

	a := c.Analytics
	if a.CriticalRatio <= 0 || a.CriticalRatio > 1 {
		return fmt.Errorf("analytics.critical_ratio must be in (0, 1], got %v", a.CriticalRatio)
	}
	if a.TopStores <= 0 || a.DefaultTrendBuckets <= 0 || a.DefaultDailyRangeDays <= 0 ||
		a.PredictionWindowDays <= 0 || a.DefaultDaysOfSales <= 0 {
		return fmt.Errorf("analytics counts and windows must be positive")
	}
	if a.StockOutThreshold < 0 || a.StockOutThreshold > 1 {
		return fmt.Errorf("analytics.stock_out_threshold must be between 0 and 1, got %v", a.StockOutThreshold)
	}
	if a.RestockFrequencyThreshold < 0 || a.RestockFrequencyThreshold > 1 {
		return fmt.Errorf("analytics.restock_frequency_threshold must be between 0 and 1, got %v", a.RestockFrequencyThreshold)
	}

	if c.App.Env == "production" && c.Database.URL == "" {
		return fmt.Errorf("database.url is required in production")
	}
	return nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
