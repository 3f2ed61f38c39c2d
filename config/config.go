package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// LINE Messaging API
	Line LineConfig

	// Gemini LLM
	Gemini GeminiConfig

	// Google Calendar & Tasks
	Google GoogleConfig

	// Command interpretation
	Interpreter InterpreterConfig

	// Reminder pushes
	Notifier NotifierConfig

	// Training signal collection
	Reward RewardConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port                     int
	Mode                     string
	WebhookRequestsPerMinute int
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type LineConfig struct {
	ChannelAccessToken string
	ChannelSecret      string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type GoogleConfig struct {
	CredentialsPath string
	CalendarID      string
	Timezone        string
}

type InterpreterConfig struct {
	// FallbackEnabled routes to the pattern parser when the LLM is down.
	FallbackEnabled bool
}

type NotifierConfig struct {
	Enabled  bool
	Interval time.Duration
}

type RewardConfig struct {
	// CollectorURL is the training collector base URL. Empty disables recording.
	CollectorURL string
}

// Load loads configuration using Viper.
// Config file name: config.yaml — searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.HTTPServer.WebhookRequestsPerMinute = viper.GetInt("http_server.webhook_requests_per_minute")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// LINE Messaging API
	cfg.Line.ChannelAccessToken = viper.GetString("line.channel_access_token")
	cfg.Line.ChannelSecret = viper.GetString("line.channel_secret")
	if token := viper.GetString("line_channel_access_token"); token != "" {
		cfg.Line.ChannelAccessToken = token
	}
	if secret := viper.GetString("line_channel_secret"); secret != "" {
		cfg.Line.ChannelSecret = secret
	}

	// Gemini
	cfg.Gemini.APIKey = viper.GetString("gemini.api_key")
	cfg.Gemini.Model = viper.GetString("gemini.model")
	if key := viper.GetString("gemini_api_key"); key != "" {
		cfg.Gemini.APIKey = key
	}

	// Google Calendar & Tasks
	cfg.Google.CredentialsPath = viper.GetString("google.credentials_path")
	cfg.Google.CalendarID = viper.GetString("google.calendar_id")
	cfg.Google.Timezone = viper.GetString("google.timezone")
	if creds := viper.GetString("google_credentials"); creds != "" {
		cfg.Google.CredentialsPath = creds
	}

	// Interpreter
	cfg.Interpreter.FallbackEnabled = viper.GetBool("interpreter.fallback_enabled")

	// Notifier
	cfg.Notifier.Enabled = viper.GetBool("notifier.enabled")
	cfg.Notifier.Interval = viper.GetDuration("notifier.interval")

	// Reward collector
	cfg.Reward.CollectorURL = viper.GetString("reward.collector_url")
	if collectorURL := viper.GetString("reward_collector_url"); collectorURL != "" {
		cfg.Reward.CollectorURL = collectorURL
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.Line.ChannelAccessToken == "" {
		return fmt.Errorf("line.channel_access_token is required")
	}
	if cfg.Line.ChannelSecret == "" {
		return fmt.Errorf("line.channel_secret is required")
	}
	if cfg.Gemini.APIKey == "" {
		return fmt.Errorf("gemini.api_key is required")
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("http_server.webhook_requests_per_minute", 120)
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)
	viper.SetDefault("gemini.model", "gemini-2.0-flash")
	viper.SetDefault("google.calendar_id", "primary")
	viper.SetDefault("google.timezone", "Asia/Tokyo")
	viper.SetDefault("interpreter.fallback_enabled", true)
	viper.SetDefault("notifier.enabled", true)
	viper.SetDefault("notifier.interval", "15m")
}
