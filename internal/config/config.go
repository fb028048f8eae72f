package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	DB       DBConfig       `mapstructure:"db"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Events   EventsConfig   `mapstructure:"events"`
	Session  SessionConfig  `mapstructure:"session"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type DBConfig struct {
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"maxOpenConns"`
}

// StorageConfig selects where the cart key is persisted ("memory" or "mysql").
type StorageConfig struct {
	Backend string `mapstructure:"backend"`
}

type TelegramConfig struct {
	BotToken        string        `mapstructure:"bot_token"`
	BotTokenEnv     string        `mapstructure:"bot_token_env"`
	BotUsername     string        `mapstructure:"bot_username"`
	ProviderToken   string        `mapstructure:"provider_token"`
	Currency        string        `mapstructure:"currency"`
	InvoiceProvider string        `mapstructure:"invoice_provider"`
	InitDataMaxAge  time.Duration `mapstructure:"init_data_max_age"`
	APIBaseURL      string        `mapstructure:"api_base_url"`
	// AllowUnverified lets the server run on persistent storage without a
	// bot token, trusting whatever user id the init data claims.
	AllowUnverified bool `mapstructure:"allow_unverified_init_data"`
}

// Token returns the bot token, preferring the inline value over the env var.
func (t TelegramConfig) Token() string {
	if t.BotToken != "" {
		return t.BotToken
	}
	if t.BotTokenEnv != "" {
		return os.Getenv(t.BotTokenEnv)
	}
	return ""
}

type EventsConfig struct {
	Provider string `mapstructure:"provider"`
	AMQPURL  string `mapstructure:"amqp_url"`
	Queue    string `mapstructure:"queue"`
}

// SessionConfig bounds the in-memory owner sessions held by the shop.
type SessionConfig struct {
	CacheSize int           `mapstructure:"cache_size"`
	TTL       time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("db.maxOpenConns", 10)
	v.SetDefault("storage.backend", "memory")
	v.SetDefault("telegram.bot_token_env", "TELEGRAM_BOT_TOKEN")
	v.SetDefault("telegram.bot_username", "your_bot")
	v.SetDefault("telegram.currency", "USD")
	v.SetDefault("telegram.invoice_provider", "stub")
	v.SetDefault("telegram.init_data_max_age", 24*time.Hour)
	v.SetDefault("telegram.api_base_url", "https://api.telegram.org")
	v.SetDefault("events.provider", "nop")
	v.SetDefault("events.queue", "checkouts")
	v.SetDefault("session.cache_size", 10000)
	v.SetDefault("session.ttl", 30*time.Minute)
	v.SetDefault("log.level", "info")
}

// LoadConfig loads configuration from config.yaml and environment variables.
// The config file is optional; defaults cover a local in-memory shop.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./deploy/")
	v.AddConfigPath("./")
	v.AddConfigPath("$HOME/.eashop/")
	v.AddConfigPath("/etc/eashop/")

	return load(v)
}

// LoadConfigFile loads configuration from an explicit file path.
func LoadConfigFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	// EASHOP_TELEGRAM_BOT_USERNAME overrides telegram.bot_username
	v.SetEnvPrefix("EASHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
