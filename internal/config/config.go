package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Host string `mapstructure:"host"`
		Port int    `mapstructure:"port"`
		Mode string `mapstructure:"mode"`
	} `mapstructure:"server"`

	Mongo struct {
		URI            string        `mapstructure:"uri"`
		Database       string        `mapstructure:"database"`
		MaxPoolSize    uint64        `mapstructure:"max_pool_size"`
		MinPoolSize    uint64        `mapstructure:"min_pool_size"`
		ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	} `mapstructure:"mongo"`

	Auth struct {
		JWTSecret   string        `mapstructure:"jwt_secret"`
		TokenExpiry time.Duration `mapstructure:"token_expiry"`
	} `mapstructure:"auth"`

	Cloudinary struct {
		BaseURL      string `mapstructure:"base_url"`
		CloudName    string `mapstructure:"cloud_name"`
		UploadPreset string `mapstructure:"upload_preset"`
	} `mapstructure:"cloudinary"`

	Elasticsearch struct {
		URL      string `mapstructure:"url"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
	} `mapstructure:"elasticsearch"`

	RateLimit struct {
		RequestsPerSecond float64 `mapstructure:"requests_per_second"`
		Burst             int     `mapstructure:"burst"`
	} `mapstructure:"rate_limit"`
}

// Load reads configs/config.yaml and applies HOSPITAL_* environment
// overrides (e.g. HOSPITAL_MONGO_URI, HOSPITAL_AUTH_JWT_SECRET).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("/etc/hospital-portal")

	v.SetEnvPrefix("HOSPITAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file is optional when everything comes from the environment.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth.jwt_secret is required")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")

	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "hospital_portal")
	v.SetDefault("mongo.max_pool_size", 10)
	v.SetDefault("mongo.min_pool_size", 1)
	v.SetDefault("mongo.connect_timeout", 10*time.Second)

	// Empty defaults register the keys so AutomaticEnv can fill them
	// when no config file is present.
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_expiry", 24*time.Hour)

	v.SetDefault("cloudinary.base_url", "https://api.cloudinary.com")
	v.SetDefault("cloudinary.cloud_name", "")
	v.SetDefault("cloudinary.upload_preset", "")

	v.SetDefault("elasticsearch.url", "")
	v.SetDefault("elasticsearch.username", "")
	v.SetDefault("elasticsearch.password", "")

	v.SetDefault("rate_limit.requests_per_second", 30)
	v.SetDefault("rate_limit.burst", 30)
}

// Addr returns the server listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
