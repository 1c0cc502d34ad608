// Package config loads and validates caseflow's client configuration.
package config

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"
)

// Config is everything the client needs to talk to the backend. Credentials
// are resolved once here and injected into the HTTP client; nothing reads
// tokens from ambient state afterwards.
type Config struct {
	BaseURL  string
	Token    string
	Timeout  time.Duration
	LogLevel string
	LogFile  string
}

// Load reads the config from viper's merged sources (flags, env, file).
func Load() Config {
	return Config{
		BaseURL:  viper.GetString("api.base_url"),
		Token:    viper.GetString("api.token"),
		Timeout:  viper.GetDuration("api.timeout"),
		LogLevel: viper.GetString("log.level"),
		LogFile:  viper.GetString("log.file"),
	}
}

// Validate checks the fields required to reach the backend.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.Token, validation.Required),
	)
}
