// Package config loads application settings from config.yml, .env and the
// environment. Environment variables win; keys map as TRAVELMIND_LLM_API_KEY
// for llm.api_key.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Speech    SpeechConfig    `mapstructure:"speech"`
	Maps      MapsConfig      `mapstructure:"maps"`
	Storage   StorageConfig   `mapstructure:"storage"`
}

type AppConfig struct {
	Env            string        `mapstructure:"env"`
	Port           string        `mapstructure:"port"`
	CORSOrigins    []string      `mapstructure:"cors_origins"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type DatabaseConfig struct {
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Audience  string `mapstructure:"audience"`
	Issuer    string `mapstructure:"issuer"`
}

type LLMConfig struct {
	Provider      string        `mapstructure:"provider"`
	APIKey        string        `mapstructure:"api_key"`
	BaseURL       string        `mapstructure:"base_url"`
	Model         string        `mapstructure:"model"`
	Temperature   float32       `mapstructure:"temperature"`
	MaxTokens     int           `mapstructure:"max_tokens"`
	Timeout       time.Duration `mapstructure:"timeout"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
	RatePerMinute int           `mapstructure:"rate_per_minute"`
}

type EmbeddingConfig struct {
	Provider   string `mapstructure:"provider"`
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	Model      string `mapstructure:"model"`
	Dimensions int    `mapstructure:"dimensions"`
}

type SpeechConfig struct {
	AppID     string        `mapstructure:"app_id"`
	APIKey    string        `mapstructure:"api_key"`
	APISecret string        `mapstructure:"api_secret"`
	Host      string        `mapstructure:"host"`
	Path      string        `mapstructure:"path"`
	Language  string        `mapstructure:"language"`
	Accent    string        `mapstructure:"accent"`
	FrameSize int           `mapstructure:"frame_size"`
	Interval  time.Duration `mapstructure:"frame_interval"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type MapsConfig struct {
	Key      string        `mapstructure:"key"`
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type StorageConfig struct {
	URL          string `mapstructure:"url"`
	ServiceKey   string `mapstructure:"service_key"`
	AvatarBucket string `mapstructure:"avatar_bucket"`
	MaxBytes     int64  `mapstructure:"max_bytes"`
}

// EmbeddingDimensions is the width of the trips.embedding vector column.
const EmbeddingDimensions = 256

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.cors_origins", []string{"http://localhost:5173"})
	v.SetDefault("app.request_timeout", 90*time.Second)

	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.audience", "authenticated")
	v.SetDefault("auth.issuer", "")

	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_tokens", 4096)
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("llm.cache_ttl", time.Hour)
	v.SetDefault("llm.rate_per_minute", 30)

	v.SetDefault("embedding.provider", "local")
	v.SetDefault("embedding.api_key", "")
	v.SetDefault("embedding.base_url", "")
	v.SetDefault("embedding.model", "text-embedding-3-small")
	v.SetDefault("embedding.dimensions", EmbeddingDimensions)

	v.SetDefault("speech.app_id", "")
	v.SetDefault("speech.api_key", "")
	v.SetDefault("speech.api_secret", "")
	v.SetDefault("speech.host", "iat-api.xfyun.cn")
	v.SetDefault("speech.path", "/v2/iat")
	v.SetDefault("speech.language", "zh_cn")
	v.SetDefault("speech.accent", "mandarin")
	v.SetDefault("speech.frame_size", 1280)
	v.SetDefault("speech.frame_interval", 40*time.Millisecond)
	v.SetDefault("speech.timeout", 30*time.Second)

	v.SetDefault("maps.key", "")
	v.SetDefault("maps.base_url", "https://restapi.amap.com")
	v.SetDefault("maps.timeout", 10*time.Second)
	v.SetDefault("maps.cache_ttl", 30*time.Minute)

	v.SetDefault("storage.url", "")
	v.SetDefault("storage.service_key", "")
	v.SetDefault("storage.avatar_bucket", "avatars")
	v.SetDefault("storage.max_bytes", 2<<20)
}

// Load reads .env (if present), then config.yml (if present), then the
// environment, and validates the result.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file loaded", slog.Any("error", err))
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	v.SetEnvPrefix("TRAVELMIND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate lists every missing required key at once.
func (c Config) Validate() error {
	var missing []string
	if c.Database.DSN == "" {
		missing = append(missing, "database.dsn")
	}
	if c.Auth.JWTSecret == "" {
		missing = append(missing, "auth.jwt_secret")
	}
	if c.LLM.APIKey == "" {
		missing = append(missing, "llm.api_key")
	}
	if len(missing) > 0 {
		return fmt.Errorf("required config keys not set: %s", strings.Join(missing, ", "))
	}

	switch strings.ToLower(c.LLM.Provider) {
	case "openai", "gemini":
	default:
		return fmt.Errorf("unsupported llm.provider %q", c.LLM.Provider)
	}
	if c.Embedding.Dimensions != EmbeddingDimensions {
		return fmt.Errorf("embedding.dimensions must be %d to match the trips.embedding column, got %d",
			EmbeddingDimensions, c.Embedding.Dimensions)
	}
	if c.Speech.FrameSize <= 0 {
		return errors.New("speech.frame_size must be positive")
	}
	return nil
}

// SpeechEnabled reports whether voice transcription credentials are present.
func (c Config) SpeechEnabled() bool {
	return c.Speech.AppID != "" && c.Speech.APIKey != "" && c.Speech.APISecret != ""
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}
