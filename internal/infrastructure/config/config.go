package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. BOS_DATABASE_HOST.
const EnvPrefix = "BOS"

// Config holds all configuration for the reporting backend
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Log       LogConfig       `mapstructure:"log"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Report    ReportConfig    `mapstructure:"report"`
}

// AppConfig holds application settings
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Env     string `mapstructure:"env"`
	Port    string `mapstructure:"port"`
	Version string `mapstructure:"version"`
}

// IsProduction reports whether the service runs in production mode.
func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Env, "production")
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	TimeFormat string `mapstructure:"time_format"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int           `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int           `mapstructure:"conn_max_idle_time"` // minutes
	LogLevel        string        `mapstructure:"log_level"`
	SlowThreshold   time.Duration `mapstructure:"slow_threshold"`
}

// DSN returns the PostgreSQL connection URL.
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   d.Host + ":" + strconv.Itoa(d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// RedisConfig holds Redis settings. When Enabled is false the snapshot claim
// store falls back to process memory.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// Addr returns host:port.
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes    int           `mapstructure:"max_header_bytes"`
	MaxBodySize       int64         `mapstructure:"max_body_size"`
	CORSAllowOrigins  []string      `mapstructure:"cors_allow_origins"`
	CORSAllowMethods  []string      `mapstructure:"cors_allow_methods"`
	CORSAllowHeaders  []string      `mapstructure:"cors_allow_headers"`
	CORSExposeHeaders []string      `mapstructure:"cors_expose_headers"`
	CORSMaxAge        int           `mapstructure:"cors_max_age"`
}

// SchedulerConfig controls the periodic snapshot job
type SchedulerConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	DailyCronSchedule string        `mapstructure:"daily_cron_schedule"`
	Periods           []string      `mapstructure:"periods"`
	MaxConcurrentJobs int           `mapstructure:"max_concurrent_jobs"`
	JobTimeout        time.Duration `mapstructure:"job_timeout"`
	RetryAttempts     int           `mapstructure:"retry_attempts"`
	RetryDelay        time.Duration `mapstructure:"retry_delay"`
}

// TelemetryConfig holds OpenTelemetry settings
type TelemetryConfig struct {
	Enabled               bool          `mapstructure:"enabled"`
	ServiceName           string        `mapstructure:"service_name"`
	CollectorEndpoint     string        `mapstructure:"collector_endpoint"`
	Insecure              bool          `mapstructure:"insecure"`
	SamplingRatio         float64       `mapstructure:"sampling_ratio"`
	MetricsEnabled        bool          `mapstructure:"metrics_enabled"`
	MetricsExportInterval time.Duration `mapstructure:"metrics_export_interval"`
	// LogsEnabled ships zap entries to the collector alongside stdout
	LogsEnabled bool `mapstructure:"logs_enabled"`
	// DBSlowQueryThreshold marks database spans slower than this; tracing
	// of queries follows Enabled
	DBSlowQueryThreshold time.Duration `mapstructure:"db_slow_query_threshold"`
	DBLogFullSQL         bool          `mapstructure:"db_log_full_sql"`
}

// ReportConfig holds tunables of the reporting endpoints
type ReportConfig struct {
	LowStockThreshold   int           `mapstructure:"low_stock_threshold"`
	LowStockLimit       int           `mapstructure:"low_stock_limit"`
	TopProductsLimit    int           `mapstructure:"top_products_limit"`
	MaxTopProductsLimit int           `mapstructure:"max_top_products_limit"`
	SnapshotClaimTTL    time.Duration `mapstructure:"snapshot_claim_ttl"`
	Timezone            string        `mapstructure:"timezone"`
	RequestTimeout      time.Duration `mapstructure:"request_timeout"`
}

// Location resolves Timezone, falling back to UTC.
func (r ReportConfig) Location() *time.Location {
	if r.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads config.toml (if present) and environment overrides.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "backoffice-reporting")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.version", "dev")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "backoffice")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 60)
	v.SetDefault("database.conn_max_idle_time", 30)
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.slow_threshold", 200*time.Millisecond)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.time_format", "")

	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 45*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)
	v.SetDefault("http.max_header_bytes", 1<<20)
	v.SetDefault("http.max_body_size", int64(1<<20))
	v.SetDefault("http.cors_allow_origins", []string{"http://localhost:3000"})
	v.SetDefault("http.cors_allow_methods", []string{"GET", "POST", "PATCH", "OPTIONS"})
	v.SetDefault("http.cors_allow_headers", []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"})
	v.SetDefault("http.cors_expose_headers", []string{"X-Request-ID"})
	v.SetDefault("http.cors_max_age", 86400)

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.daily_cron_schedule", "0 2 * * *")
	v.SetDefault("scheduler.periods", []string{"daily", "weekly", "monthly", "quarterly", "annual"})
	v.SetDefault("scheduler.max_concurrent_jobs", 3)
	v.SetDefault("scheduler.job_timeout", 30*time.Minute)
	v.SetDefault("scheduler.retry_attempts", 3)
	v.SetDefault("scheduler.retry_delay", 5*time.Minute)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "backoffice-reporting")
	v.SetDefault("telemetry.collector_endpoint", "localhost:4317")
	v.SetDefault("telemetry.insecure", true)
	v.SetDefault("telemetry.sampling_ratio", 1.0)
	v.SetDefault("telemetry.metrics_enabled", false)
	v.SetDefault("telemetry.metrics_export_interval", 60*time.Second)
	v.SetDefault("telemetry.logs_enabled", false)
	v.SetDefault("telemetry.db_slow_query_threshold", 200*time.Millisecond)
	v.SetDefault("telemetry.db_log_full_sql", false)

	v.SetDefault("report.low_stock_threshold", 10)
	v.SetDefault("report.low_stock_limit", 10)
	v.SetDefault("report.top_products_limit", 10)
	v.SetDefault("report.max_top_products_limit", 100)
	v.SetDefault("report.snapshot_claim_ttl", 2*time.Minute)
	v.SetDefault("report.timezone", "UTC")
	v.SetDefault("report.request_timeout", 30*time.Second)
}

func (c *Config) validate() error {
	if c.App.Port == "" {
		return errors.New("app.port is required")
	}
	if c.Telemetry.SamplingRatio < 0 || c.Telemetry.SamplingRatio > 1 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0 and 1, got %v", c.Telemetry.SamplingRatio)
	}
	if c.Report.TopProductsLimit <= 0 || c.Report.MaxTopProductsLimit < c.Report.TopProductsLimit {
		return fmt.Errorf("report.top_products_limit must be positive and not exceed report.max_top_products_limit")
	}
	if c.Report.LowStockThreshold < 0 || c.Report.LowStockLimit <= 0 {
		return errors.New("report.low_stock_threshold must be >= 0 and report.low_stock_limit > 0")
	}
	if _, err := time.LoadLocation(c.Report.Timezone); err != nil {
		return fmt.Errorf("report.timezone %q is invalid: %w", c.Report.Timezone, err)
	}
	if c.Scheduler.Enabled && c.Scheduler.MaxConcurrentJobs <= 0 {
		return errors.New("scheduler.max_concurrent_jobs must be positive")
	}

	if c.App.IsProduction() {
		if c.Database.Password == "" {
			return errors.New("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return errors.New("database.sslmode must not be 'disable' in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return errors.New("wildcard CORS origin is not allowed in production")
			}
		}
	}
	return nil
}
