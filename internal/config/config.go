// Package config загружает настройки клиента fishlog из YAML файла и переменных окружения
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/iudanet/fishlog/internal/crypto"
)

// Типы хранилища сессии
const (
	StorageBoltDB = "boltdb"
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

// StorageKinds перечисляет поддерживаемые хранилища
var StorageKinds = []string{StorageBoltDB, StorageSQLite, StorageRedis, StorageMemory}

// Config общая структура для хранения настроек
type Config struct {
	ServerURL       string        `yaml:"server_url" env:"FISHLOG_SERVER_URL" env-default:"http://localhost:8080"`
	LogLevel        string        `yaml:"log_level" env:"FISHLOG_LOG_LEVEL" env-default:"warn"`
	MetricsTextfile string        `yaml:"metrics_textfile" env:"FISHLOG_METRICS_TEXTFILE"`
	Storage         Storage       `yaml:"storage"`
	HTTPTimeout     time.Duration `yaml:"http_timeout" env:"FISHLOG_HTTP_TIMEOUT" env-default:"30s"`
}

// Storage - настройки хранилища сессии
type Storage struct {
	Kind       string `yaml:"kind" env:"FISHLOG_STORAGE" env-default:"boltdb"`
	Path       string `yaml:"path" env:"FISHLOG_DB_PATH" env-default:"fishlog-session.db"`
	Passphrase string `yaml:"passphrase" env:"FISHLOG_STORAGE_PASSPHRASE"`
	Salt       string `yaml:"salt" env:"FISHLOG_STORAGE_SALT" env-default:"fishlog-session-salt"`
	Redis      Redis  `yaml:"redis"`
}

// Redis - настройки подключения к redis
type Redis struct {
	Addr        string        `yaml:"addr" env:"FISHLOG_REDIS_ADDR" env-default:"localhost:6379"`
	Username    string        `yaml:"username" env:"FISHLOG_REDIS_USERNAME"`
	Password    string        `yaml:"password" env:"FISHLOG_REDIS_PASSWORD"`
	Prefix      string        `yaml:"prefix" env:"FISHLOG_REDIS_PREFIX" env-default:"fishlog:session"`
	DB          int           `yaml:"db" env:"FISHLOG_REDIS_DB" env-default:"0"`
	DialTimeout time.Duration `yaml:"dial_timeout" env:"FISHLOG_REDIS_DIAL_TIMEOUT" env-default:"5s"`
}

// Load читает конфиг. Пустой path означает только переменные окружения.
// Переменные окружения перекрывают значения из файла.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("cannot read config from env: %w", err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	if _, err := c.ServerOrigin(); err != nil {
		return err
	}

	if !slices.Contains(StorageKinds, c.Storage.Kind) {
		return fmt.Errorf("unknown storage kind %q, expected one of: %s", c.Storage.Kind, strings.Join(StorageKinds, ", "))
	}
	if (c.Storage.Kind == StorageBoltDB || c.Storage.Kind == StorageSQLite) && c.Storage.Path == "" {
		return fmt.Errorf("storage path is required for %s", c.Storage.Kind)
	}
	if c.Storage.Kind == StorageRedis && c.Storage.Redis.Addr == "" {
		return fmt.Errorf("redis addr is required")
	}
	if c.Storage.Passphrase != "" && len(c.Storage.Salt) < crypto.MinSaltSize {
		return fmt.Errorf("storage salt must be at least %d bytes", crypto.MinSaltSize)
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("http_timeout must not be negative")
	}

	return nil
}

// ServerOrigin разбирает server_url.
// Путь допускается и считается префиксом API, например http://host/fishlog.
func (c *Config) ServerOrigin() (*url.URL, error) {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid server_url %q: expected http(s)://host[:port][/prefix]", c.ServerURL)
	}
	if u.User != nil || u.RawQuery != "" || u.Fragment != "" {
		return nil, fmt.Errorf("invalid server_url %q: credentials, query and fragment are not allowed", c.ServerURL)
	}
	return u, nil
}

// SlogLevel разбирает log_level (debug, info, warn, error)
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

func (c *Config) String() string {
	passphrase := "<not set>"
	if c.Storage.Passphrase != "" {
		passphrase = "<set>"
	}
	return fmt.Sprintf(
		"ServerURL: %s\n"+
			"HTTPTimeout: %s\n"+
			"LogLevel: %s\n"+
			"Storage:\n"+
			"  Kind: %s\n"+
			"  Path: %s\n"+
			"  Passphrase: %s\n"+
			"  Redis: %s db=%d prefix=%s\n",
		c.ServerURL,
		c.HTTPTimeout,
		c.LogLevel,
		c.Storage.Kind,
		c.Storage.Path,
		passphrase,
		c.Storage.Redis.Addr,
		c.Storage.Redis.DB,
		c.Storage.Redis.Prefix,
	)
}
