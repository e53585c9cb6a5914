package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/Ramses120/Copper-Salon-sub000/internal/domain"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/types"
)

// Переменные окружения, которые перекрывают значения из файла
const (
	EnvDBPassword  = "SALON_DB_PASSWORD"
	EnvRedisAddr   = "SALON_REDIS_ADDR"
	EnvRabbitMQURL = "SALON_RABBITMQ_URL"
	EnvHTTPPort    = "SALON_HTTP_PORT"
)

// Config конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Redis     RedisConfig     `toml:"redis"`
	RabbitMQ  RabbitMQConfig  `toml:"rabbitmq"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Schedule  ScheduleConfig  `toml:"schedule"`
	Booking   BookingConfig   `toml:"booking"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
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
	MigrateOnStart  bool   `toml:"migrate_on_start"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	TTLSeconds int    `toml:"ttl_seconds"`
	KeyPrefix  string `toml:"key_prefix"`
}

// TTL время жизни записи кэша доступности
func (c RedisConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

type RabbitMQConfig struct {
	Enabled        bool   `toml:"enabled"`
	URL            string `toml:"url"`
	Queue          string `toml:"queue"`
	PublishTimeout int    `toml:"publish_timeout"` // секунды
	BufferSize     int    `toml:"buffer_size"`     // событий в очереди отправки
}

type RateLimitConfig struct {
	Enabled           bool     `toml:"enabled"`
	RequestsPerMinute float64  `toml:"requests_per_minute"`
	Burst             int      `toml:"burst"`
	TrustedProxies    []string `toml:"trusted_proxies"` // IP или CIDR; X-Forwarded-For читается только от них
}

// Proxies доверенные прокси в виде префиксов; одиночный IP становится /32 или /128
func (c RateLimitConfig) Proxies() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, raw := range c.TrustedProxies {
		raw = strings.TrimSpace(raw)
		if strings.Contains(raw, "/") {
			p, err := netip.ParsePrefix(raw)
			if err != nil {
				return nil, fmt.Errorf("rate_limit.trusted_proxies: %w", err)
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("rate_limit.trusted_proxies: %w", err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// ScheduleConfig рабочие часы салона: окно по умолчанию и переопределения по дням недели
type ScheduleConfig struct {
	Open        string               `toml:"open"`
	LastStart   string               `toml:"last_start"`
	SlotMinutes int                  `toml:"slot_minutes"`
	Days        map[string]DayConfig `toml:"days"` // ключ: monday ... sunday
}

// DayConfig переопределение одного дня недели; пустые поля берутся из окна по умолчанию
type DayConfig struct {
	Closed      bool   `toml:"closed"`
	Open        string `toml:"open"`
	LastStart   string `toml:"last_start"`
	SlotMinutes int    `toml:"slot_minutes"`
}

type BookingConfig struct {
	DurationPolicy string `toml:"duration_policy"` // snapshot | live
}

// Policy политика расчета длительности существующих бронирований
func (c BookingConfig) Policy() domain.DurationPolicy {
	return domain.DurationPolicy(c.DurationPolicy)
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Load читает .env (если есть) и TOML файл конфигурации.
// Ссылки вида ${VAR} в файле раскрываются из окружения.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	return Parse(os.ExpandEnv(string(data)))
}

// Parse разбирает TOML, применяет переменные окружения и значения по умолчанию
func Parse(data string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.applyEnv()
	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDBPassword); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv(EnvRabbitMQURL); v != "" {
		c.RabbitMQ.URL = v
	}
	if v := os.Getenv(EnvHTTPPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.HTTPPort = port
		}
	}
}

func (c *Config) setDefaults() {
	setInt(&c.Server.HTTPPort, 8080)
	setInt(&c.Server.ReadTimeout, 10)
	setInt(&c.Server.WriteTimeout, 10)
	setInt(&c.Server.IdleTimeout, 60)
	setInt(&c.Server.ShutdownTimeout, 10)

	setString(&c.Database.Host, "localhost")
	setInt(&c.Database.Port, 5432)
	setString(&c.Database.SSLMode, "disable")
	setInt(&c.Database.MaxOpenConns, 25)
	setInt(&c.Database.MaxIdleConns, 5)
	setInt(&c.Database.ConnMaxLifetime, 300)

	setString(&c.Logs.Level, "info")

	setString(&c.Metrics.Path, "/metrics")
	setString(&c.Metrics.ServiceName, "copper-salon")

	setString(&c.Redis.Addr, "localhost:6379")
	setInt(&c.Redis.TTLSeconds, 60)
	setString(&c.Redis.KeyPrefix, "salon")

	setString(&c.RabbitMQ.Queue, "salon.booking.events")
	setInt(&c.RabbitMQ.PublishTimeout, 5)
	setInt(&c.RabbitMQ.BufferSize, 256)

	if c.RateLimit.RequestsPerMinute == 0 {
		c.RateLimit.RequestsPerMinute = 30
	}
	setInt(&c.RateLimit.Burst, 5)

	setString(&c.Schedule.Open, domain.DefaultOpenTime)
	setString(&c.Schedule.LastStart, domain.DefaultLastStartTime)
	setInt(&c.Schedule.SlotMinutes, domain.DefaultSlotMinutes)

	setString(&c.Booking.DurationPolicy, string(domain.DurationSnapshot))
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port must be between 1 and 65535, got %d", c.Server.HTTPPort)
	}
	if c.Database.DBName == "" {
		return errors.New("database.dbname is required")
	}
	if c.Database.User == "" {
		return errors.New("database.user is required")
	}
	if !c.Booking.Policy().IsValid() {
		return fmt.Errorf("booking.duration_policy must be %q or %q, got %q",
			domain.DurationSnapshot, domain.DurationLive, c.Booking.DurationPolicy)
	}
	if c.RabbitMQ.Enabled && c.RabbitMQ.URL == "" {
		return errors.New("rabbitmq.url is required when rabbitmq is enabled")
	}
	if c.RateLimit.RequestsPerMinute < 0 || c.RateLimit.Burst < 0 {
		return errors.New("rate_limit values must not be negative")
	}
	if _, err := c.RateLimit.Proxies(); err != nil {
		return err
	}
	if _, err := c.SalonSchedule(); err != nil {
		return err
	}
	return nil
}

// SalonSchedule рабочие часы салона в виде доменной модели
func (c *Config) SalonSchedule() (domain.SalonSchedule, error) {
	def, err := c.window(c.Schedule.Open, c.Schedule.LastStart, c.Schedule.SlotMinutes)
	if err != nil {
		return domain.SalonSchedule{}, fmt.Errorf("schedule: %w", err)
	}

	schedule := domain.SalonSchedule{
		Default: def,
		Days:    make(map[time.Weekday]domain.SalonDay, len(c.Schedule.Days)),
	}

	for name, day := range c.Schedule.Days {
		weekday, ok := weekdays[strings.ToLower(name)]
		if !ok {
			return domain.SalonSchedule{}, fmt.Errorf("schedule.days: unknown weekday %q", name)
		}
		if day.Closed {
			schedule.Days[weekday] = domain.SalonDay{IsOpen: false}
			continue
		}

		open := firstNonEmpty(day.Open, c.Schedule.Open)
		lastStart := firstNonEmpty(day.LastStart, c.Schedule.LastStart)
		slotMinutes := day.SlotMinutes
		if slotMinutes == 0 {
			slotMinutes = c.Schedule.SlotMinutes
		}

		window, err := c.window(open, lastStart, slotMinutes)
		if err != nil {
			return domain.SalonSchedule{}, fmt.Errorf("schedule.days.%s: %w", name, err)
		}
		schedule.Days[weekday] = domain.SalonDay{IsOpen: true, Window: window}
	}

	return schedule, nil
}

func (c *Config) window(open, lastStart string, slotMinutes int) (domain.WorkingHoursWindow, error) {
	openTime, err := types.NewTimeStringFromString(open)
	if err != nil {
		return domain.WorkingHoursWindow{}, err
	}
	lastStartTime, err := types.NewTimeStringFromString(lastStart)
	if err != nil {
		return domain.WorkingHoursWindow{}, err
	}

	window := domain.WorkingHoursWindow{Open: openTime, LastStart: lastStartTime, SlotMinutes: slotMinutes}
	if err := window.Validate(); err != nil {
		return domain.WorkingHoursWindow{}, err
	}
	return window, nil
}

func setInt(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

func setString(v *string, def string) {
	if *v == "" {
		*v = def
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
