package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	"gopkg.in/yaml.v3"
)

const (
	DefaultServerPort    = 8080
	DefaultRequestPeriod = 5
	DefaultNewsCount     = 10
	DefaultLoaderTimeout = 10 * time.Second
	DefaultWorkers       = 5
	DefaultQueue         = "rss_feeds"

	maxNewsCount = 100
)

// Config хранит настройки приложения. Значения из файла перекрываются
// переменными окружения из тегов env.
type Config struct {
	DatabaseURL   string   `json:"database_url" yaml:"database_url" env:"DATABASE_URL"`
	RSS           []string `json:"rss" yaml:"rss"`
	RequestPeriod int      `json:"request_period" yaml:"request_period" env:"REQUEST_PERIOD"` // минуты
	ServerPort    int      `json:"server_port" yaml:"server_port" env:"SERVER_PORT"`

	// NewsCount - сколько новостей выводится на странице.
	NewsCount int `json:"news_count" yaml:"news_count" env:"NEWS_COUNT"`
	// LoaderBaseURL - адрес API, к которому обращается страница.
	// По умолчанию http://localhost:<server_port>.
	LoaderBaseURL string `json:"loader_base_url" yaml:"loader_base_url" env:"LOADER_BASE_URL"`
	// LoaderTimeout - таймаут запроса страницы к API ("10s"), "0" - без таймаута.
	LoaderTimeout string `json:"loader_timeout" yaml:"loader_timeout" env:"LOADER_TIMEOUT"`

	RabbitMQURL   string `json:"rabbitmq_url" yaml:"rabbitmq_url" env:"RABBITMQ_URL"`
	RabbitMQQueue string `json:"rabbitmq_queue" yaml:"rabbitmq_queue" env:"RABBITMQ_QUEUE"`
	Workers       int    `json:"workers" yaml:"workers" env:"WORKERS"`
}

// PollInterval возвращает период опроса лент.
func (cfg *Config) PollInterval() time.Duration {
	return time.Duration(cfg.RequestPeriod) * time.Minute
}

// LoaderTimeoutDuration возвращает таймаут запроса страницы к API.
// Значение должно пройти Validate.
func (cfg *Config) LoaderTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(cfg.LoaderTimeout)
	return d
}

// Validate проверяет диапазоны значений и адреса.
func (cfg *Config) Validate() error {
	if cfg.RequestPeriod < 1 {
		return errors.New("request period must be ≥ 1 minute")
	}
	for _, u := range cfg.RSS {
		if _, err := url.ParseRequestURI(u); err != nil {
			return fmt.Errorf("invalid RSS URL: %s", u)
		}
	}
	if cfg.ServerPort < 1 || cfg.ServerPort > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.ServerPort)
	}
	if cfg.NewsCount < 1 || cfg.NewsCount > maxNewsCount {
		return fmt.Errorf("news count must be between 1 and %d", maxNewsCount)
	}
	if _, err := url.ParseRequestURI(cfg.LoaderBaseURL); err != nil {
		return fmt.Errorf("invalid loader base URL: %s", cfg.LoaderBaseURL)
	}
	if d, err := time.ParseDuration(cfg.LoaderTimeout); err != nil {
		return fmt.Errorf("invalid loader timeout: %s", cfg.LoaderTimeout)
	} else if d < 0 {
		return errors.New("loader timeout must be ≥ 0")
	}
	if cfg.Workers < 1 {
		return errors.New("workers must be ≥ 1")
	}
	return nil
}

// LoadConfig читает файл path (JSON, либо YAML для .yaml/.yml), применяет
// переменные окружения и значения по умолчанию.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := env.Unmarshal(environ(), &cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	cfg.setDefaults()
	return &cfg, nil
}

// environ возвращает переменные окружения без пустых значений: пустая
// переменная не перекрывает значение из файла.
func environ() env.EnvSet {
	es, err := env.EnvironToEnvSet(os.Environ())
	if err != nil {
		return env.EnvSet{}
	}
	for k, v := range es {
		if v == "" {
			delete(es, k)
		}
	}
	return es
}

func (cfg *Config) setDefaults() {
	if cfg.ServerPort == 0 {
		cfg.ServerPort = DefaultServerPort
	}
	if cfg.RequestPeriod == 0 {
		cfg.RequestPeriod = DefaultRequestPeriod
	}
	if cfg.NewsCount == 0 {
		cfg.NewsCount = DefaultNewsCount
	}
	if cfg.LoaderBaseURL == "" {
		cfg.LoaderBaseURL = fmt.Sprintf("http://localhost:%d", cfg.ServerPort)
	}
	if cfg.LoaderTimeout == "" {
		cfg.LoaderTimeout = DefaultLoaderTimeout.String()
	}
	if cfg.RabbitMQQueue == "" {
		cfg.RabbitMQQueue = DefaultQueue
	}
	if cfg.Workers == 0 {
		cfg.Workers = DefaultWorkers
	}
}
