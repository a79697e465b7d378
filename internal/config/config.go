package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	S3        S3Config        `mapstructure:"s3"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Push      PushConfig      `mapstructure:"push"`
	Extractor ExtractorConfig `mapstructure:"extractor"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// PushConfig selects and configures the push transport.
// Provider is "http" (hosted group-push gateway), "apns", or "none".
type PushConfig struct {
	Provider string `mapstructure:"provider"`

	GatewayURL      string `mapstructure:"gateway_url"`
	GatewayAppID    int    `mapstructure:"gateway_app_id"`
	GatewayAppToken string `mapstructure:"gateway_app_token"`

	APNSAuthKeyPath string `mapstructure:"apns_auth_key_path"`
	APNSKeyID       string `mapstructure:"apns_key_id"`
	APNSTeamID      string `mapstructure:"apns_team_id"`
	APNSTopic       string `mapstructure:"apns_topic"`
	APNSProduction  bool   `mapstructure:"apns_production"`
}

// ExtractorConfig points at the hosted text-extraction service.
type ExtractorConfig struct {
	URL     string        `mapstructure:"url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SchedulerConfig controls the daily background jobs.
type SchedulerConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Cron specs, five-field format. Defaults run the reminder at 08:00
	// and the auto-complete sweep at 23:59 server time.
	ReminderSpec     string `mapstructure:"reminder_spec"`
	AutoCompleteSpec string `mapstructure:"auto_complete_spec"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()
	// Nested keys via env, e.g. database.uri -> DATABASE_URI
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("database.uri", "mongodb://localhost:27017")
	viper.SetDefault("database.name", "gymbuddy")
	viper.SetDefault("s3.use_ssl", true)
	viper.SetDefault("jwt.expiration", "24h")
	viper.SetDefault("push.provider", "none")
	viper.SetDefault("extractor.timeout", "30s")
	viper.SetDefault("scheduler.enabled", true)
	viper.SetDefault("scheduler.reminder_spec", "0 8 * * *")
	viper.SetDefault("scheduler.auto_complete_spec", "59 23 * * *")

	err = viper.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// Config file is optional; env vars and defaults may be enough.
		err = nil
	} else if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
