package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config конфигурация приложения
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Redis         RedisConfig         `toml:"redis"`
	Storage       StorageConfig       `toml:"storage"`
	Booking       BookingConfig       `toml:"booking"`
	Studio        StudioConfig        `toml:"studio"`
	Calendar      CalendarConfig      `toml:"calendar"`
	Advisor       AdvisorConfig       `toml:"advisor"`
	Notifications NotificationsConfig `toml:"notifications"`
	RateLimit     RateLimitConfig     `toml:"rate_limit"`
	Completion    CompletionConfig    `toml:"completion"`
	Dispatcher    DispatcherConfig    `toml:"dispatcher"`
	CORS          CORSConfig          `toml:"cors"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
	AutoMigrate     bool   `toml:"auto_migrate"`
}

// DSN возвращает строку подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// URL возвращает строку подключения в формате postgres:// (для pgx)
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// RedisConfig настройки Redis
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	// CacheTTL время жизни кэша доступности в секундах
	CacheTTL int `toml:"cache_ttl"`
	// EventsChannel канал pub/sub для событий бронирований
	EventsChannel string `toml:"events_channel"`
}

// StorageConfig выбор хранилища: postgres или memory
type StorageConfig struct {
	Driver string `toml:"driver"`
}

// BookingConfig параметры движка бронирований
type BookingConfig struct {
	// LimitedThreshold доля занятого рабочего окна, начиная с которой день считается limited
	LimitedThreshold   float64 `toml:"limited_threshold"`
	DefaultGranularity int     `toml:"default_granularity"`
	MaxRangeDays       int     `toml:"max_range_days"`
	AlternativeDays    int     `toml:"alternative_days"`
	// Locker memory или redis
	Locker string `toml:"locker"`
	// LockTTL и LockWait в миллисекундах
	LockTTL  int `toml:"lock_ttl"`
	LockWait int `toml:"lock_wait"`
}

// StudioConfig настройки студии
type StudioConfig struct {
	Name     string `toml:"name"`
	Timezone string `toml:"timezone"`
}

// Location возвращает часовой пояс студии
func (c StudioConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// CalendarConfig настройки внешнего календаря
type CalendarConfig struct {
	// Mode memory или http
	Mode    string `toml:"mode"`
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// AdvisorConfig настройки текстового советника
type AdvisorConfig struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
	APIKey  string `toml:"api_key"`
}

// NotificationsConfig настройки уведомлений
type NotificationsConfig struct {
	TelegramToken string `toml:"telegram_token"`
}

// RateLimitConfig ограничение частоты запросов на изменяющие эндпоинты
type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// CompletionConfig настройки воркера завершения бронирований
type CompletionConfig struct {
	Enabled  bool `toml:"enabled"`
	Interval int  `toml:"interval"`
}

// DispatcherConfig настройки очереди побочных эффектов
type DispatcherConfig struct {
	Workers   int `toml:"workers"`
	QueueSize int `toml:"queue_size"`
	// TaskTimeout в секундах
	TaskTimeout int `toml:"task_timeout"`
}

// CORSConfig настройки CORS
type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
}

// Load загружает конфигурацию из toml файла.
// Перед разбором подгружается .env, переменные окружения перекрывают значения из файла.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config file %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Logs.Level = getEnv("LOG_LEVEL", c.Logs.Level)
	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getInt("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.DBName = getEnv("DB_NAME", c.Database.DBName)
	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Storage.Driver = getEnv("STORAGE_DRIVER", c.Storage.Driver)
	c.Notifications.TelegramToken = getEnv("TELEGRAM_BOT_TOKEN", c.Notifications.TelegramToken)
	c.Advisor.APIKey = getEnv("ADVISOR_API_KEY", c.Advisor.APIKey)
	c.Calendar.URL = getEnv("CALENDAR_URL", c.Calendar.URL)
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.HTTPPort, 8080)
	setDefault(&c.Server.ReadTimeout, 10)
	setDefault(&c.Server.WriteTimeout, 10)
	setDefault(&c.Server.IdleTimeout, 60)
	setDefault(&c.Server.ShutdownTimeout, 15)

	setDefault(&c.Database.Port, 5432)
	setDefault(&c.Database.SSLMode, "disable")
	setDefault(&c.Database.MaxOpenConns, 25)
	setDefault(&c.Database.MaxIdleConns, 5)
	setDefault(&c.Database.ConnMaxLifetime, 300)

	setDefault(&c.Logs.Level, "info")
	setDefault(&c.Metrics.Path, "/metrics")
	setDefault(&c.Metrics.ServiceName, "studio-booking")

	setDefault(&c.Redis.Addr, "127.0.0.1:6379")
	setDefault(&c.Redis.CacheTTL, 60)
	setDefault(&c.Redis.EventsChannel, "studio:v1:events")

	setDefault(&c.Storage.Driver, "postgres")

	setDefault(&c.Booking.LimitedThreshold, 0.5)
	setDefault(&c.Booking.DefaultGranularity, 30)
	setDefault(&c.Booking.MaxRangeDays, 62)
	setDefault(&c.Booking.AlternativeDays, 14)
	setDefault(&c.Booking.Locker, "memory")
	setDefault(&c.Booking.LockTTL, 5000)
	setDefault(&c.Booking.LockWait, 3000)

	setDefault(&c.Studio.Name, "Studio")
	setDefault(&c.Studio.Timezone, "UTC")

	setDefault(&c.Calendar.Mode, "memory")
	setDefault(&c.Calendar.Timeout, 5)
	setDefault(&c.Advisor.Timeout, 10)

	setDefault(&c.RateLimit.RequestsPerSecond, 5)
	setDefault(&c.RateLimit.Burst, 10)

	setDefault(&c.Completion.Interval, 60)

	setDefault(&c.Dispatcher.Workers, 4)
	setDefault(&c.Dispatcher.QueueSize, 256)
	setDefault(&c.Dispatcher.TaskTimeout, 15)
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	var errs []error

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("server.http_port must be in 1..65535, got %d", c.Server.HTTPPort))
	}

	switch c.Storage.Driver {
	case "postgres":
		if c.Database.Host == "" || c.Database.DBName == "" {
			errs = append(errs, errors.New("database.host and database.dbname are required for postgres storage"))
		}
	case "memory":
	default:
		errs = append(errs, fmt.Errorf("storage.driver must be postgres or memory, got %q", c.Storage.Driver))
	}

	if c.Booking.LimitedThreshold <= 0 || c.Booking.LimitedThreshold > 1 {
		errs = append(errs, fmt.Errorf("booking.limited_threshold must be in (0, 1], got %v", c.Booking.LimitedThreshold))
	}
	if c.Booking.DefaultGranularity <= 0 {
		errs = append(errs, fmt.Errorf("booking.default_granularity must be positive, got %d", c.Booking.DefaultGranularity))
	}

	switch c.Booking.Locker {
	case "memory":
	case "redis":
		if !c.Redis.Enabled {
			errs = append(errs, errors.New("booking.locker = redis requires redis.enabled"))
		}
	default:
		errs = append(errs, fmt.Errorf("booking.locker must be memory or redis, got %q", c.Booking.Locker))
	}

	switch c.Calendar.Mode {
	case "memory":
	case "http":
		if c.Calendar.URL == "" {
			errs = append(errs, errors.New("calendar.url is required for http calendar mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("calendar.mode must be memory or http, got %q", c.Calendar.Mode))
	}

	if c.Advisor.Enabled && c.Advisor.URL == "" {
		errs = append(errs, errors.New("advisor.url is required when advisor is enabled"))
	}

	if _, err := c.Studio.Location(); err != nil {
		errs = append(errs, fmt.Errorf("studio.timezone: %w", err))
	}

	return errors.Join(errs...)
}

func setDefault[T comparable](field *T, def T) {
	var zero T
	if *field == zero {
		*field = def
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		fmt.Fprintf(os.Stderr, "invalid integer for %s=%q, using %d\n", key, v, fallback)
	}
	return fallback
}
