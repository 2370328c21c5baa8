package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
)

// Backend хранилища удержаний слотов
const (
	HoldBackendPostgres = "postgres"
	HoldBackendRedis    = "redis"
)

var (
	// ErrInvalidConfig возвращается, когда конфигурация не проходит валидацию
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server       ServerConfig       `toml:"server"`
	Database     DatabaseConfig     `toml:"database"`
	Redis        RedisConfig        `toml:"redis"`
	RabbitMQ     RabbitMQConfig     `toml:"rabbitmq"`
	Logs         LogsConfig         `toml:"logs"`
	Metrics      MetricsConfig      `toml:"metrics"`
	Slots        SlotsConfig        `toml:"slots"`
	Availability AvailabilityConfig `toml:"availability"`
	Calendly     CalendlyConfig     `toml:"calendly"`
	Google       GoogleConfig       `toml:"google"`
	Security     SecurityConfig     `toml:"security"`
}

// ServerConfig параметры HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig параметры подключения к PostgreSQL
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
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// RedisConfig параметры Redis (используется при slots.backend = "redis")
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// RabbitMQConfig параметры публикации событий слотов
type RabbitMQConfig struct {
	Enabled  bool   `toml:"enabled"`
	URL      string `toml:"url"`
	Exchange string `toml:"exchange"`
}

// LogsConfig параметры логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig параметры prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// SlotsConfig параметры удержания слотов
type SlotsConfig struct {
	Backend            string `toml:"backend"`
	HoldWriteTimeoutMs int    `toml:"hold_write_timeout_ms"`
	HoldTTLMinutes     int    `toml:"hold_ttl_minutes"`
}

// HoldWriteTimeout таймаут записи одного удержания
func (s SlotsConfig) HoldWriteTimeout() time.Duration {
	return time.Duration(s.HoldWriteTimeoutMs) * time.Millisecond
}

// HoldTTL время жизни удержания
func (s SlotsConfig) HoldTTL() time.Duration {
	return time.Duration(s.HoldTTLMinutes) * time.Minute
}

// AvailabilityConfig параметры агрегации занятости
type AvailabilityConfig struct {
	LookaheadMinutes int `toml:"lookahead_minutes"`
	WindowDays       int `toml:"window_days"`
}

// Lookahead отступ первого окна от текущего момента
func (a AvailabilityConfig) Lookahead() time.Duration {
	return time.Duration(a.LookaheadMinutes) * time.Minute
}

// CalendlyConfig параметры клиента Calendly
type CalendlyConfig struct {
	BaseURL string `toml:"base_url"`
	Timeout int    `toml:"timeout"` // секунды
}

// GoogleConfig параметры клиента Google Calendar
type GoogleConfig struct {
	Endpoint string `toml:"endpoint"` // пусто - стандартный endpoint
	Timeout  int    `toml:"timeout"`  // секунды
}

// SecurityConfig секреты сервиса
type SecurityConfig struct {
	EncryptionKey string `toml:"encryption_key"` // 32 символа latin1, ключ AES-256 для учетных данных календарей
}

// Load читает конфигурацию из TOML файла, применяет значения по умолчанию,
// переменные окружения и проверяет результат
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default конфигурация по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		RabbitMQ: RabbitMQConfig{
			Exchange: "slots",
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "slot-service",
		},
		Slots: SlotsConfig{
			Backend:            HoldBackendPostgres,
			HoldWriteTimeoutMs: 5000,
			HoldTTLMinutes:     15,
		},
		Availability: AvailabilityConfig{
			LookaheadMinutes: 10,
			WindowDays:       6,
		},
		Calendly: CalendlyConfig{
			BaseURL: "https://api.calendly.com",
			Timeout: 10,
		},
		Google: GoogleConfig{
			Timeout: 10,
		},
	}
}

// applyEnv переопределяет секреты и адреса из переменных окружения
func applyEnv(cfg *Config) {
	setString(&cfg.Database.Host, "DB_HOST")
	setInt(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.DBName, "DB_NAME")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.RabbitMQ.URL, "RABBITMQ_URL")
	setString(&cfg.Logs.Level, "LOG_LEVEL")
	setString(&cfg.Security.EncryptionKey, "ENCRYPTION_KEY")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Validate проверяет конфигурацию
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in 1..65535", ErrInvalidConfig)
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("%w: database.dbname is required", ErrInvalidConfig)
	}
	switch c.Slots.Backend {
	case HoldBackendPostgres, HoldBackendRedis:
	default:
		return fmt.Errorf("%w: slots.backend must be %q or %q", ErrInvalidConfig, HoldBackendPostgres, HoldBackendRedis)
	}
	if c.Slots.HoldWriteTimeoutMs <= 0 {
		return fmt.Errorf("%w: slots.hold_write_timeout_ms must be positive", ErrInvalidConfig)
	}
	if c.Slots.HoldTTLMinutes <= 0 {
		return fmt.Errorf("%w: slots.hold_ttl_minutes must be positive", ErrInvalidConfig)
	}
	if c.Availability.WindowDays <= 0 {
		return fmt.Errorf("%w: availability.window_days must be positive", ErrInvalidConfig)
	}
	if c.RabbitMQ.Enabled && c.RabbitMQ.URL == "" {
		return fmt.Errorf("%w: rabbitmq.url is required when rabbitmq is enabled", ErrInvalidConfig)
	}
	if c.Security.EncryptionKey != "" && utf8.RuneCountInString(c.Security.EncryptionKey) != 32 {
		return fmt.Errorf("%w: security.encryption_key must be 32 characters", ErrInvalidConfig)
	}
	return nil
}
