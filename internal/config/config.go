package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppCfg struct {
	Name        string `mapstructure:"name"`
	Port        string `mapstructure:"port"`
	Development bool   `mapstructure:"development"`
	PublicURL   string `mapstructure:"public_url"`
}

type MongoCfg struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type RedisCfg struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type JWTCfg struct {
	Secret      string `mapstructure:"secret"`
	ExpiryHours int    `mapstructure:"expiry_hours"`
}

type WSCfg struct {
	PingIntervalSeconds int   `mapstructure:"ping_interval_seconds"`
	WriteTimeoutSeconds int   `mapstructure:"write_timeout_seconds"`
	MaxMessageBytes     int64 `mapstructure:"max_message_bytes"`
}

type KafkaCfg struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type S3Cfg struct {
	Enabled bool   `mapstructure:"enabled"`
	Region  string `mapstructure:"region"`
	Bucket  string `mapstructure:"bucket"`
}

type PushCfg struct {
	Enabled    bool   `mapstructure:"enabled"`
	GatewayURL string `mapstructure:"gateway_url"`
	APIKey     string `mapstructure:"api_key"`
}

type RateLimitCfg struct {
	PublicLimit  int `mapstructure:"public_limit"`
	PublicWindow int `mapstructure:"public_window_seconds"`
}

type Config struct {
	App       AppCfg       `mapstructure:"app"`
	Mongo     MongoCfg     `mapstructure:"mongo"`
	Redis     RedisCfg     `mapstructure:"redis"`
	JWT       JWTCfg       `mapstructure:"jwt"`
	WS        WSCfg        `mapstructure:"ws"`
	Kafka     KafkaCfg     `mapstructure:"kafka"`
	S3        S3Cfg        `mapstructure:"s3"`
	Push      PushCfg      `mapstructure:"push"`
	RateLimit RateLimitCfg `mapstructure:"rate_limit"`

	// Derived
	PingInterval time.Duration
	WriteTimeout time.Duration
	JWTExpiry    time.Duration
}

// Load reads the YAML config at path with APP_* env overrides
// (APP_MONGO_URI, APP_JWT_SECRET, ...). The Mongo URI and JWT secret are
// required: the change-stream subscription cannot exist without the former,
// so startup fails fast rather than running without realtime delivery.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Mongo.URI == "" {
		return nil, fmt.Errorf("mongo.uri is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt.secret is required")
	}

	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = "dealerdesk"
	}
	if cfg.JWT.ExpiryHours == 0 {
		cfg.JWT.ExpiryHours = 24
	}
	if cfg.WS.PingIntervalSeconds == 0 {
		cfg.WS.PingIntervalSeconds = 30
	}
	if cfg.WS.WriteTimeoutSeconds == 0 {
		cfg.WS.WriteTimeoutSeconds = 10
	}
	if cfg.WS.MaxMessageBytes == 0 {
		cfg.WS.MaxMessageBytes = 64 * 1024
	}
	if cfg.RateLimit.PublicLimit == 0 {
		cfg.RateLimit.PublicLimit = 30
	}
	if cfg.RateLimit.PublicWindow == 0 {
		cfg.RateLimit.PublicWindow = 60
	}
	if cfg.Redis.Prefix == "" {
		cfg.Redis.Prefix = "crm"
	}

	cfg.PingInterval = time.Duration(cfg.WS.PingIntervalSeconds) * time.Second
	cfg.WriteTimeout = time.Duration(cfg.WS.WriteTimeoutSeconds) * time.Second
	cfg.JWTExpiry = time.Duration(cfg.JWT.ExpiryHours) * time.Hour
	return &cfg, nil
}
