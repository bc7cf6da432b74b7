package config

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

// envPrefix префикс переменных окружения, переопределяющих секреты
const envPrefix = "BOOKING"

var (
	// ErrReadConfig не удалось прочитать или разобрать файл конфигурации
	ErrReadConfig = errors.New("config: failed to read config file")

	// ErrEnvOverride не удалось применить переменные окружения
	ErrEnvOverride = errors.New("config: failed to apply env overrides")

	// ErrInvalidConfig конфигурация не прошла валидацию
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server       ServerConfig       `toml:"server"`
	Database     DatabaseConfig     `toml:"database"`
	Logs         LogsConfig         `toml:"logs"`
	Metrics      MetricsConfig      `toml:"metrics"`
	Redis        RedisConfig        `toml:"redis"`
	RabbitMQ     RabbitMQConfig     `toml:"rabbitmq"`
	Payments     PaymentsConfig     `toml:"payments"`
	Pricing      PricingConfig      `toml:"pricing"`
	Checkout     CheckoutConfig     `toml:"checkout"`
	CoachService CoachServiceConfig `toml:"coach_service"`
	Analytics    AnalyticsConfig    `toml:"analytics"`
}

type ServerConfig struct {
	Port            int    `toml:"port"`
	Environment     string `toml:"environment"`
	ReadTimeout     int    `toml:"read_timeout"`     // секунды
	WriteTimeout    int    `toml:"write_timeout"`    // секунды
	IdleTimeout     int    `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int    `toml:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	MigrationsPath  string `toml:"migrations_path"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	Level    string `toml:"level"`
	File     string `toml:"file"`
	Encoding string `toml:"encoding"` // json | console
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type RabbitMQConfig struct {
	Enabled  bool   `toml:"enabled"`
	URL      string `toml:"url"`
	Exchange string `toml:"exchange"`
}

type PaymentsConfig struct {
	DefaultCurrency      string `toml:"default_currency"`
	IdempotencyTTL       int    `toml:"idempotency_ttl"`         // секунды
	ProcessorTimeout     int    `toml:"processor_timeout"`       // секунды
	BreakerMaxFailures   uint32 `toml:"breaker_max_failures"`    // подряд, до размыкания
	BreakerOpenTimeout   int    `toml:"breaker_open_timeout"`    // секунды
	BreakerHalfOpenProbe uint32 `toml:"breaker_half_open_probe"` // запросов в half-open
}

type PricingConfig struct {
	DefaultSessionPrice float64 `toml:"default_session_price"`
	SetupFee            float64 `toml:"setup_fee"`
	TaxRate             float64 `toml:"tax_rate"`
	Currency            string  `toml:"currency"`
}

type CheckoutConfig struct {
	SessionTTL int `toml:"session_ttl"` // секунды
}

type CoachServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

type AnalyticsConfig struct {
	Provider string `toml:"provider"` // sample | sql
}

// envOverrides секреты, которые не должны храниться в config.toml
type envOverrides struct {
	DatabasePassword string `envconfig:"DATABASE_PASSWORD"`
	RedisPassword    string `envconfig:"REDIS_PASSWORD"`
	RabbitMQURL      string `envconfig:"RABBITMQ_URL"`
}

// Load читает конфигурацию из TOML файла, применяет переменные окружения и значения по умолчанию
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrEnvOverride, err)
	}

	if env.DatabasePassword != "" {
		c.Database.Password = env.DatabasePassword
	}
	if env.RedisPassword != "" {
		c.Redis.Password = env.RedisPassword
	}
	if env.RabbitMQURL != "" {
		c.RabbitMQ.URL = env.RabbitMQURL
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Environment == "" {
		c.Server.Environment = "development"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}

	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Logs.Encoding == "" {
		c.Logs.Encoding = "json"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "coach-booking-service"
	}

	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}

	if c.RabbitMQ.Exchange == "" {
		c.RabbitMQ.Exchange = "booking.events"
	}

	if c.Payments.DefaultCurrency == "" {
		c.Payments.DefaultCurrency = "usd"
	}
	if c.Payments.IdempotencyTTL == 0 {
		c.Payments.IdempotencyTTL = 24 * 60 * 60
	}
	if c.Payments.ProcessorTimeout == 0 {
		c.Payments.ProcessorTimeout = 10
	}
	if c.Payments.BreakerMaxFailures == 0 {
		c.Payments.BreakerMaxFailures = 5
	}
	if c.Payments.BreakerOpenTimeout == 0 {
		c.Payments.BreakerOpenTimeout = 30
	}
	if c.Payments.BreakerHalfOpenProbe == 0 {
		c.Payments.BreakerHalfOpenProbe = 1
	}

	if c.Pricing.DefaultSessionPrice == 0 {
		c.Pricing.DefaultSessionPrice = 75
	}
	if c.Pricing.SetupFee == 0 {
		c.Pricing.SetupFee = 25
	}
	if c.Pricing.TaxRate == 0 {
		c.Pricing.TaxRate = 0.08
	}
	if c.Pricing.Currency == "" {
		c.Pricing.Currency = c.Payments.DefaultCurrency
	}

	if c.Checkout.SessionTTL == 0 {
		c.Checkout.SessionTTL = 30 * 60
	}

	if c.CoachService.Timeout == 0 {
		c.CoachService.Timeout = 5
	}

	if c.Analytics.Provider == "" {
		c.Analytics.Provider = "sample"
	}
}

// Validate проверяет корректность значений
func (c *Config) Validate() error {
	switch {
	case c.Server.Port <= 0 || c.Server.Port > 65535:
		return fmt.Errorf("%w: server.port must be in 1..65535, got %d", ErrInvalidConfig, c.Server.Port)
	case c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.ShutdownTimeout < 0:
		return fmt.Errorf("%w: server timeouts must be positive", ErrInvalidConfig)
	case c.Database.Host == "":
		return fmt.Errorf("%w: database.host is required", ErrInvalidConfig)
	case c.Database.Port <= 0:
		return fmt.Errorf("%w: database.port must be positive", ErrInvalidConfig)
	case c.Pricing.TaxRate < 0 || c.Pricing.TaxRate >= 1:
		return fmt.Errorf("%w: pricing.tax_rate must be in [0, 1), got %v", ErrInvalidConfig, c.Pricing.TaxRate)
	case c.Pricing.SetupFee < 0 || c.Pricing.DefaultSessionPrice < 0:
		return fmt.Errorf("%w: pricing amounts must not be negative", ErrInvalidConfig)
	case c.Pricing.Currency == "":
		return fmt.Errorf("%w: pricing.currency is required", ErrInvalidConfig)
	case c.Checkout.SessionTTL <= 0:
		return fmt.Errorf("%w: checkout.session_ttl must be positive", ErrInvalidConfig)
	case c.Payments.IdempotencyTTL <= 0 || c.Payments.ProcessorTimeout <= 0:
		return fmt.Errorf("%w: payments timeouts must be positive", ErrInvalidConfig)
	case c.RabbitMQ.Enabled && c.RabbitMQ.URL == "":
		return fmt.Errorf("%w: rabbitmq.url is required when rabbitmq is enabled", ErrInvalidConfig)
	case c.Analytics.Provider != "sample" && c.Analytics.Provider != "sql":
		return fmt.Errorf("%w: analytics.provider must be sample or sql, got %q", ErrInvalidConfig, c.Analytics.Provider)
	}
	return nil
}
