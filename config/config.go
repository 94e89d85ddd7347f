package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the report service
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Server    ServerConfig    `mapstructure:"server"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Sources   SourcesConfig   `mapstructure:"sources"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Speech    SpeechConfig    `mapstructure:"speech"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Storage   StorageConfig   `mapstructure:"storage"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Address         string        `mapstructure:"address"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns the listen address. An explicit address wins over the port.
func (s ServerConfig) Addr() string {
	if strings.TrimSpace(s.Address) != "" {
		return s.Address
	}
	port := strings.TrimSpace(s.Port)
	if port == "" {
		port = "3000"
	}
	if port[0] != ':' {
		port = ":" + port
	}
	return port
}

// CacheConfig controls the report response cache
type CacheConfig struct {
	Type          string        `mapstructure:"type"` // inmemory, redis
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	SingleFlight  bool          `mapstructure:"single_flight"`
	KeyPrefix     string        `mapstructure:"key_prefix"`
}

func (c CacheConfig) Validate() error {
	switch c.Type {
	case "inmemory", "redis":
	default:
		return fmt.Errorf("cache.type must be inmemory or redis, got %q", c.Type)
	}
	if c.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be > 0")
	}
	return nil
}

// SourcesConfig contains news source configurations
type SourcesConfig struct {
	NewsAPI NewsAPIConfig `mapstructure:"newsapi"`
}

// NewsAPIConfig contains NewsAPI settings
type NewsAPIConfig struct {
	APIKey          string        `mapstructure:"api_key"`
	Endpoint        string        `mapstructure:"endpoint"`
	Language        string        `mapstructure:"language"`
	MaxResults      int           `mapstructure:"max_results"`
	SummaryMaxChars int           `mapstructure:"summary_max_chars"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

func (n NewsAPIConfig) Validate() error {
	if strings.TrimSpace(n.Endpoint) == "" {
		return fmt.Errorf("sources.newsapi.endpoint required")
	}
	if n.MaxResults <= 0 {
		return fmt.Errorf("sources.newsapi.max_results must be > 0")
	}
	return nil
}

// LLMConfig contains the text generation provider configuration
type LLMConfig struct {
	Provider    string        `mapstructure:"provider"` // mistral, openai
	APIKey      string        `mapstructure:"api_key"`
	Endpoint    string        `mapstructure:"endpoint"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	MaxWords    int           `mapstructure:"max_words"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

func (l LLMConfig) Validate() error {
	if strings.TrimSpace(l.Endpoint) == "" {
		return fmt.Errorf("llm.endpoint required")
	}
	if strings.TrimSpace(l.Model) == "" {
		return fmt.Errorf("llm.model required")
	}
	if l.MaxWords <= 0 {
		return fmt.Errorf("llm.max_words must be > 0")
	}
	return nil
}

// SpeechConfig contains text-to-speech settings
type SpeechConfig struct {
	Provider         string        `mapstructure:"provider"` // fal
	APIKey           string        `mapstructure:"api_key"`
	SingleEndpoint   string        `mapstructure:"single_endpoint"`
	DialogEndpoint   string        `mapstructure:"dialog_endpoint"`
	Voice            string        `mapstructure:"voice"`
	DebateVoices     []string      `mapstructure:"debate_voices"` // one per debate speaker, in turn order
	FallbackAudioURL string        `mapstructure:"fallback_audio_url"`
	Timeout          time.Duration `mapstructure:"timeout"`
}

func (s SpeechConfig) Validate() error {
	if strings.TrimSpace(s.SingleEndpoint) == "" || strings.TrimSpace(s.DialogEndpoint) == "" {
		return fmt.Errorf("speech.single_endpoint and speech.dialog_endpoint required")
	}
	if len(s.DebateVoices) != 2 {
		return fmt.Errorf("speech.debate_voices must list exactly two voices, got %d", len(s.DebateVoices))
	}
	return nil
}

// TelemetryConfig contains telemetry and monitoring settings
type TelemetryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	ServiceName  string `mapstructure:"service_name"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

// StorageConfig contains external storage settings
type StorageConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

func (r RedisConfig) Validate() error {
	if strings.TrimSpace(r.Host) == "" {
		return fmt.Errorf("storage.redis.host required")
	}
	if strings.TrimSpace(r.Port) == "" {
		return fmt.Errorf("storage.redis.port required")
	}
	return nil
}

// Addr joins host and port.
func (r RedisConfig) Addr() string { return fmt.Sprintf("%s:%s", r.Host, r.Port) }

// setDefaults registers every knob so environment variables resolve through Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("general.debug", false)
	v.SetDefault("general.log_level", "info")

	v.SetDefault("server.port", "3000")
	v.SetDefault("server.address", "")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("cache.type", "inmemory")
	v.SetDefault("cache.ttl", time.Hour)
	v.SetDefault("cache.sweep_interval", 5*time.Minute)
	v.SetDefault("cache.single_flight", false)
	v.SetDefault("cache.key_prefix", "news_report:")

	v.SetDefault("sources.newsapi.api_key", "")
	v.SetDefault("sources.newsapi.endpoint", "https://newsapi.org/v2/everything")
	v.SetDefault("sources.newsapi.language", "en")
	v.SetDefault("sources.newsapi.max_results", 5)
	v.SetDefault("sources.newsapi.summary_max_chars", 500)
	v.SetDefault("sources.newsapi.timeout", 10*time.Second)

	v.SetDefault("llm.provider", "mistral")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.endpoint", "https://api.mistral.ai/v1/chat/completions")
	v.SetDefault("llm.model", "mistral-tiny")
	v.SetDefault("llm.temperature", 0.0)
	v.SetDefault("llm.max_tokens", 0)
	v.SetDefault("llm.max_words", 450)
	v.SetDefault("llm.timeout", 60*time.Second)

	v.SetDefault("speech.provider", "fal")
	v.SetDefault("speech.api_key", "")
	v.SetDefault("speech.single_endpoint", "https://fal.run/fal-ai/playai/tts/v3")
	v.SetDefault("speech.dialog_endpoint", "https://fal.run/fal-ai/playai/tts/dialog")
	v.SetDefault("speech.voice", "Jennifer (English (US)/American)")
	v.SetDefault("speech.debate_voices", []string{"Jennifer (English (US)/American)", "Furio (English (IT)/Italian)"})
	v.SetDefault("speech.fallback_audio_url", "https://example.com/audio.mp3")
	v.SetDefault("speech.timeout", 120*time.Second)

	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("telemetry.service_name", "newscast")
	v.SetDefault("telemetry.otlp_endpoint", "")

	v.SetDefault("storage.redis.host", "localhost")
	v.SetDefault("storage.redis.port", "6379")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.timeout", 5*time.Second)
}

// legacyEnv maps the plain environment variable names operators already use.
var legacyEnv = map[string]string{
	"sources.newsapi.api_key": "NEWS_API_KEY",
	"llm.api_key":             "MISTRAL_API_KEY",
	"speech.api_key":          "FAL_API_KEY",
	"server.port":             "PORT",
}

// LoadConfig builds the configuration from defaults, an optional JSON file and the
// environment. Environment variables use the NEWSCAST_ prefix (NEWSCAST_CACHE_TTL=30m);
// API keys and the port also accept their unprefixed names.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix("NEWSCAST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		prefixed := "NEWSCAST_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.warnMissingKeys()
	return &cfg, nil
}

// Validate checks every section that has invariants.
func (c *Config) Validate() error {
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	if c.Cache.Type == "redis" {
		if err := c.Storage.Redis.Validate(); err != nil {
			return err
		}
	}
	if err := c.Sources.NewsAPI.Validate(); err != nil {
		return err
	}
	if err := c.LLM.Validate(); err != nil {
		return err
	}
	return c.Speech.Validate()
}

// Missing keys do not stop the server; the affected stage fails per request instead.
func (c *Config) warnMissingKeys() {
	if c.Sources.NewsAPI.APIKey == "" {
		log.Printf("config: NEWS_API_KEY not set, news fetches will be rejected upstream")
	}
	if c.LLM.APIKey == "" {
		log.Printf("config: MISTRAL_API_KEY not set, report generation will be rejected upstream")
	}
	if c.Speech.APIKey == "" {
		log.Printf("config: FAL_API_KEY not set, audio will fall back to the placeholder")
	}
}
