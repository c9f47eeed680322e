// Package config описывает настройки мессенджера и загружает их из YAML-файла
// с переопределением через переменные окружения.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string          `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string          `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING" env-required:"true"`
	MigrationsPath          string          `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	HTTPServer              HTTPServer      `yaml:"http_server"`
	RedisConnection         RedisConnection `yaml:"redis_connection"`
	Session                 Session         `yaml:"session"`
	RabbitMQ                RabbitMQ        `yaml:"rabbitmq"`
	Messaging               Messaging       `yaml:"messaging"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	Timeout     time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	Address     string        `yaml:"address" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password    string        `yaml:"password" env:"REDIS_PASSWORD"`
	User        string        `yaml:"user" env:"REDIS_USER"`
	DB          int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	MaxRetries  int           `yaml:"max_retries" env:"REDIS_MAX_RETRIES" env-default:"3"`
	DialTimeout time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
	Timeout     time.Duration `yaml:"timeout" env:"REDIS_TIMEOUT" env-default:"3s"`
}

// Session настройки cookie и сроков жизни сессии.
//
// IdleTTL продлевается каждым /api/ping, MaxAge ограничивает жизнь подписанного токена.
type Session struct {
	SecretKey    string        `yaml:"secret_key" env:"SESSION_SECRET_KEY" env-required:"true"`
	CookieName   string        `yaml:"cookie_name" env:"SESSION_COOKIE_NAME" env-default:"messenger_session"`
	CookieSecure bool          `yaml:"cookie_secure" env:"SESSION_COOKIE_SECURE" env-default:"false"`
	IdleTTL      time.Duration `yaml:"idle_ttl" env:"SESSION_IDLE_TTL" env-default:"24h"`
	MaxAge       time.Duration `yaml:"max_age" env:"SESSION_MAX_AGE" env-default:"720h"`
}

// RabbitMQ настройки публикации событий о сообщениях. Пустой URL отключает публикацию.
type RabbitMQ struct {
	URL        string        `yaml:"url" env:"RABBITMQ_URL"`
	Exchange   string        `yaml:"exchange" env:"RABBITMQ_EXCHANGE" env-default:"messenger"`
	Retries    int           `yaml:"retries" env:"RABBITMQ_RETRIES" env-default:"5"`
	RetryDelay time.Duration `yaml:"retry_delay" env:"RABBITMQ_RETRY_DELAY" env-default:"2s"`
}

// Messaging лимиты выборок и генерации идентификаторов.
type Messaging struct {
	GroupLimit     int `yaml:"group_limit" env:"MESSAGING_GROUP_LIMIT" env-default:"50"`
	SearchLimit    int `yaml:"search_limit" env:"MESSAGING_SEARCH_LIMIT" env-default:"20"`
	MaxUIDAttempts int `yaml:"max_uid_attempts" env:"MESSAGING_MAX_UID_ATTEMPTS" env-default:"10"`
}

// Load читает конфиг из файла path и проверяет значения.
func Load(path string) (*Config, error) {
	const op = "config.Load"
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad загружает конфиг по пути из CONFIG_PATH и завершает процесс при ошибке.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

func (c *Config) validate() error {
	switch {
	case c.Messaging.GroupLimit <= 0:
		return errors.New("messaging.group_limit must be positive")
	case c.Messaging.SearchLimit <= 0:
		return errors.New("messaging.search_limit must be positive")
	case c.Messaging.MaxUIDAttempts <= 0:
		return errors.New("messaging.max_uid_attempts must be positive")
	case c.Session.IdleTTL <= 0 || c.Session.MaxAge <= 0:
		return errors.New("session ttl values must be positive")
	case c.RabbitMQ.URL != "" && c.RabbitMQ.Retries <= 0:
		return errors.New("rabbitmq.retries must be positive when rabbitmq.url is set")
	}
	return nil
}

// String печатает конфиг без секретов.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"MigrationsPath: %s\n"+
			"HTTPServer: address=%s timeout=%s idle_timeout=%s\n"+
			"Redis: address=%s db=%d\n"+
			"Session: cookie=%s idle_ttl=%s max_age=%s\n"+
			"RabbitMQ: enabled=%t exchange=%s\n"+
			"Messaging: group_limit=%d search_limit=%d max_uid_attempts=%d",
		c.Env,
		c.MigrationsPath,
		c.HTTPServer.Address, c.HTTPServer.Timeout, c.HTTPServer.IdleTimeout,
		c.RedisConnection.Address, c.RedisConnection.DB,
		c.Session.CookieName, c.Session.IdleTTL, c.Session.MaxAge,
		c.RabbitMQ.URL != "", c.RabbitMQ.Exchange,
		c.Messaging.GroupLimit, c.Messaging.SearchLimit, c.Messaging.MaxUIDAttempts,
	)
}
