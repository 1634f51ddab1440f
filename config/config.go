package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageGorm     = "gorm"

	BusMemory = "memory"
	BusRedis  = "redis"
)

type Config struct {
	StorageType string         `validate:"oneof=memory postgres gorm"`
	Postgres    PostgresConfig `validate:"-"`
	Gorm        GormConfig     `validate:"-"`
	HTTP        HTTPConfig
	WS          WSConfig
	EventBus    string      `validate:"oneof=memory redis"`
	Redis       RedisConfig `validate:"-"`
	Kafka       KafkaConfig
	Auth        AuthConfig
	Log         LogConfig
	Page        PageConfig
}

type PostgresConfig struct {
	User     string `validate:"required"`
	Password string `validate:"required"`
	DB       string `validate:"required"`
	Host     string `validate:"required"`
	Port     int    `validate:"gt=0,lte=65535"`
	SSLMode  string `validate:"oneof=disable allow prefer require verify-ca verify-full"`
}

func (pc PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		pc.User,
		pc.Password,
		pc.Host,
		pc.Port,
		pc.DB,
		pc.SSLMode,
	)
}

type GormConfig struct {
	Dialect  string `validate:"oneof=postgres mysql"`
	MySQLDSN string `validate:"required_if=Dialect mysql"`
}

type HTTPConfig struct {
	Port       string `validate:"required,numeric"`
	Playground bool
}

type WSConfig struct {
	KeepAliveSeconds int `validate:"gte=0"`
}

func (wc WSConfig) KeepAlive() time.Duration {
	return time.Duration(wc.KeepAliveSeconds) * time.Second
}

type RedisConfig struct {
	Addr     string `validate:"required,hostname_port"`
	Password string
	DB       int    `validate:"gte=0"`
	Prefix   string `validate:"required"`
}

type KafkaConfig struct {
	// Empty disables the kafka mirror.
	Brokers []string `validate:"dive,hostname_port"`
	Topic   string   `validate:"required_with=Brokers"`
}

type AuthConfig struct {
	JWTSecret string `validate:"required,min=16"`
	TokenTTL  time.Duration
}

type LogConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string `validate:"oneof=text json"`
}

type PageConfig struct {
	DefaultSize int `validate:"gt=0,ltefield=MaxSize"`
	MaxSize     int `validate:"gt=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func defaults(v *viper.Viper) {
	v.SetDefault("storage_type", StorageMemory)
	v.SetDefault("http_port", "8080")
	v.SetDefault("http_playground", true)
	v.SetDefault("ws_keepalive_seconds", 10)
	v.SetDefault("postgres_port", 5432)
	v.SetDefault("postgres_sslmode", "disable")
	v.SetDefault("gorm_dialect", StoragePostgres)
	v.SetDefault("event_bus", BusMemory)
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_prefix", "postgraph:")
	v.SetDefault("kafka_topic", "post-created")
	v.SetDefault("jwt_ttl", 24*time.Hour)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("page_default_size", 50)
	v.SetDefault("page_max_size", 250)
}

// keys lists every setting so that env vars resolve even when no config
// file mentions them.
var keys = []string{
	"storage_type", "http_port", "http_playground", "ws_keepalive_seconds",
	"postgres_user", "postgres_password", "postgres_db", "postgres_host", "postgres_port", "postgres_sslmode",
	"gorm_dialect", "mysql_dsn",
	"event_bus", "redis_addr", "redis_password", "redis_db", "redis_prefix",
	"kafka_brokers", "kafka_topic",
	"jwt_secret", "jwt_ttl",
	"log_level", "log_format",
	"page_default_size", "page_max_size",
}

// LoadConfig reads settings from the environment (STORAGE_TYPE, HTTP_PORT, ...)
// and, when path is set, from that file first. Env vars win over the file.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	defaults(v)
	for _, k := range keys {
		if err := v.BindEnv(k, strings.ToUpper(k)); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", k, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := Config{
		StorageType: strings.ToLower(v.GetString("storage_type")),
		Postgres: PostgresConfig{
			User:     v.GetString("postgres_user"),
			Password: v.GetString("postgres_password"),
			DB:       v.GetString("postgres_db"),
			Host:     v.GetString("postgres_host"),
			Port:     v.GetInt("postgres_port"),
			SSLMode:  v.GetString("postgres_sslmode"),
		},
		Gorm: GormConfig{
			Dialect:  strings.ToLower(v.GetString("gorm_dialect")),
			MySQLDSN: v.GetString("mysql_dsn"),
		},
		HTTP: HTTPConfig{
			Port:       v.GetString("http_port"),
			Playground: v.GetBool("http_playground"),
		},
		WS: WSConfig{
			KeepAliveSeconds: v.GetInt("ws_keepalive_seconds"),
		},
		EventBus: strings.ToLower(v.GetString("event_bus")),
		Redis: RedisConfig{
			Addr:     v.GetString("redis_addr"),
			Password: v.GetString("redis_password"),
			DB:       v.GetInt("redis_db"),
			Prefix:   v.GetString("redis_prefix"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(v.GetString("kafka_brokers")),
			Topic:   v.GetString("kafka_topic"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("jwt_secret"),
			TokenTTL:  v.GetDuration("jwt_ttl"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("log_level")),
			Format: strings.ToLower(v.GetString("log_format")),
		},
		Page: PageConfig{
			DefaultSize: v.GetInt("page_default_size"),
			MaxSize:     v.GetInt("page_max_size"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings the chosen backends depend on.
func (c Config) Validate() error {
	errs := []error{validate.Struct(c)}

	if c.StorageType == StoragePostgres || (c.StorageType == StorageGorm && c.Gorm.Dialect == StoragePostgres) {
		errs = append(errs, prefixed("postgres", validate.Struct(c.Postgres)))
	}
	if c.StorageType == StorageGorm {
		errs = append(errs, prefixed("gorm", validate.Struct(c.Gorm)))
	}
	if c.EventBus == BusRedis {
		errs = append(errs, prefixed("redis", validate.Struct(c.Redis)))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func prefixed(section string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", section, err)
}

// splitList parses "a:9092, b:9092" into its items.
func splitList(s string) []string {
	return lo.Compact(lo.Map(strings.Split(s, ","), func(item string, _ int) string {
		return strings.TrimSpace(item)
	}))
}
