package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type DBConfig struct {
	DSN string `mapstructure:"dsn"`
}

type Env string

const (
	EnvDev  Env = "dev"
	EnvProd Env = "prod"
)

type Config struct {
	Env         Env              `mapstructure:"env"`
	Server      ServerConfig     `mapstructure:"server"`
	Database    DBConfig         `mapstructure:"database"`
	Capitalist  CapitalistConfig `mapstructure:"capitalist"`
	Webhook     WebhookConfig    `mapstructure:"webhook"`
	Admin       AdminConfig      `mapstructure:"admin"`
	Telegram    TelegramConfig   `mapstructure:"telegram"`
	Kafka       KafkaConfig      `mapstructure:"kafka"`
	CORS        CORSConfig       `mapstructure:"cors"`
	MetricsAddr string           `mapstructure:"metrics_addr"`
}

// CapitalistConfig holds merchant credentials. SecretKey is only ever read by
// server-side code.
type CapitalistConfig struct {
	MerchantAddress string `mapstructure:"merchant_address"`
	SecretKey       string `mapstructure:"secret_key"`
	SiteURL         string `mapstructure:"site_url"`
	PayURL          string `mapstructure:"pay_url"`
	InteractionURL  string `mapstructure:"interaction_url"`
	DefaultLang     string `mapstructure:"default_lang"`
}

type WebhookConfig struct {
	// PersistTimeout bounds the order update; on expiry the webhook is not acknowledged.
	PersistTimeout time.Duration `mapstructure:"persist_timeout"`
	// SideEffectTimeout bounds the event publish and notification that run
	// after the acknowledgement.
	SideEffectTimeout time.Duration `mapstructure:"side_effect_timeout"`
}

type AdminConfig struct {
	// PasswordHash is the lowercase hex SHA-256 of the admin password.
	PasswordHash string        `mapstructure:"password_hash"`
	JWTSecret    string        `mapstructure:"jwt_secret"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`
}

func (a AdminConfig) Enabled() bool {
	return a.PasswordHash != "" && a.JWTSecret != ""
}

type TelegramConfig struct {
	BotToken string        `mapstructure:"bot_token"`
	ChatID   string        `mapstructure:"chat_id"`
	APIBase  string        `mapstructure:"api_base"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// Validate fails fast on missing credentials instead of degrading to insecure defaults.
func (c *Config) Validate() error {
	var errs []error
	if c.Capitalist.MerchantAddress == "" {
		errs = append(errs, errors.New("capitalist.merchant_address is required"))
	}
	if c.Capitalist.SecretKey == "" {
		errs = append(errs, errors.New("capitalist.secret_key is required"))
	}
	if c.Capitalist.SiteURL == "" {
		errs = append(errs, errors.New("capitalist.site_url is required"))
	}
	if c.Capitalist.PayURL == "" {
		errs = append(errs, errors.New("capitalist.pay_url is required"))
	}
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("database.dsn is required"))
	}
	if c.Webhook.PersistTimeout <= 0 {
		errs = append(errs, errors.New("webhook.persist_timeout must be positive"))
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		errs = append(errs, errors.New("kafka.topic is required when kafka.brokers is set"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// WebhookURL is the interaction address sent to the gateway with every payment request.
func (c CapitalistConfig) WebhookURL() string {
	if c.InteractionURL != "" {
		return c.InteractionURL
	}
	return strings.TrimRight(c.SiteURL, "/") + "/api/capitalist-webhook"
}

func newViper() *viper.Viper {
	v := viper.New()
	// Allow overriding config file via env:
	// - APP_CONFIG_FILE: absolute or relative file path (e.g., /etc/app/prod.yaml)
	// - APP_CONFIG_NAME: config base name without extension (default: "config")
	if file := os.Getenv("APP_CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
	} else {
		cfgName := os.Getenv("APP_CONFIG_NAME")
		if cfgName == "" {
			cfgName = "config"
		}
		v.SetConfigName(cfgName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("env", "dev")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8888)
	v.SetDefault("database.dsn", "")
	v.SetDefault("metrics_addr", ":90")
	v.SetDefault("capitalist.merchant_address", "")
	v.SetDefault("capitalist.secret_key", "")
	v.SetDefault("capitalist.site_url", "")
	v.SetDefault("capitalist.pay_url", "https://capitalist.net/merchant/payGate/createorder")
	v.SetDefault("capitalist.interaction_url", "")
	v.SetDefault("capitalist.default_lang", "ru")
	v.SetDefault("webhook.persist_timeout", "10s")
	v.SetDefault("webhook.side_effect_timeout", "15s")
	v.SetDefault("admin.password_hash", "")
	v.SetDefault("admin.jwt_secret", "")
	v.SetDefault("admin.token_ttl", "12h")
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
	v.SetDefault("telegram.api_base", "https://api.telegram.org")
	v.SetDefault("telegram.timeout", "5s")
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "")
	v.SetDefault("cors.allow_origins", []string{"*"})
	return v
}

func load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func New() (*Config, error) {
	// .env is optional; real environment variables take precedence.
	_ = godotenv.Load()
	return load(newViper())
}

var Module = fx.Options(
	fx.Provide(New),
)
