package config

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	sslModeDisable = "disable"
	sslModeRequire = "require"
)

type (
	Config struct {
		Host       string `mapstructure:"HOST"`
		Port       string `mapstructure:"PORT"`
		DBHost     string `mapstructure:"DB_HOST"`
		DBPort     string `mapstructure:"DB_PORT"`
		DBUser     string `mapstructure:"DB_USER"`
		DBPassword string `mapstructure:"DB_PASSWORD"`
		DBName     string `mapstructure:"DB_NAME"`
		DBSSLMode  string `mapstructure:"DB_SSL_MODE"`

		OllamaURL      string `mapstructure:"OLLAMA_URL"`
		OllamaModel    string `mapstructure:"OLLAMA_MODEL"`
		TranslateModel string `mapstructure:"TRANSLATE_MODEL"`
		SummaryModels  string `mapstructure:"SUMMARY_MODELS"`
		SummaryWorkers int    `mapstructure:"SUMMARY_WORKERS"`

		DuplicateURLCheck bool `mapstructure:"DUPLICATE_URL_CHECK"`
	}
)

func NewConfig() (*Config, error) {
	viper.SetEnvPrefix("LINKDIGEST")

	viper.SetDefault("HOST", "0.0.0.0")
	viper.SetDefault("PORT", "1323")
	viper.SetDefault("DB_HOST", "0.0.0.0")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "db")
	viper.SetDefault("DB_SSL_MODE", sslModeDisable)
	viper.SetDefault("OLLAMA_URL", "http://localhost:11434/api/chat")
	viper.SetDefault("OLLAMA_MODEL", "gpt-oss:120b-cloud")
	viper.SetDefault("TRANSLATE_MODEL", "translategemma:4b")
	viper.SetDefault("SUMMARY_MODELS", "gpt-oss:120b-cloud")
	viper.SetDefault("SUMMARY_WORKERS", 3)
	viper.SetDefault("DUPLICATE_URL_CHECK", true)

	envs := []string{
		"HOST", "PORT",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSL_MODE",
		"OLLAMA_URL", "OLLAMA_MODEL", "TRANSLATE_MODEL", "SUMMARY_MODELS", "SUMMARY_WORKERS",
		"DUPLICATE_URL_CHECK",
	}
	for _, key := range envs {
		if err := viper.BindEnv(key); err != nil {
			return nil, err
		}
	}

	cfg := Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// SummaryModelList is the allow-list of models a client may request for
// summarization. Requests outside the list fall back to OllamaModel.
func (c *Config) SummaryModelList() []string {
	parts := strings.Split(c.SummaryModels, ",")
	models := make([]string, 0, len(parts))
	for _, p := range parts {
		if m := strings.TrimSpace(p); m != "" {
			models = append(models, m)
		}
	}
	return models
}

func validate(cfg *Config) error {
	validSSLValues := []string{sslModeDisable, sslModeRequire}
	valid := false
	for _, validValue := range validSSLValues {
		if cfg.DBSSLMode == validValue {
			valid = true
			break
		}
	}
	if !valid {
		return errors.New(fmt.Sprintf("DB SSL mode is invalid: %s", cfg.DBSSLMode))
	}
	if cfg.SummaryWorkers < 1 {
		return errors.New(fmt.Sprintf("summary worker count is invalid: %d", cfg.SummaryWorkers))
	}
	return nil
}
