package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v9"
	"github.com/go-playground/validator/v10"

	"voxrelay/internal/asr"
	"voxrelay/internal/events"
	"voxrelay/internal/storage"
)

const EnvironmentPrefix = "VOXRELAY_"

// Settings is loaded once at startup and never mutated afterwards.
type Settings struct {
	Port     string `env:"PORT" envDefault:"8181" validate:"required,numeric"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	UIDir    string `env:"UI_DIR" envDefault:"ui"`

	ASR      asr.ClientOptions `envPrefix:"ASR_"`
	Storage  storage.Options   `envPrefix:"STORAGE_"`
	Supabase SupabaseOptions   `envPrefix:"SUPABASE_"`
	Kafka    events.Options    `envPrefix:"KAFKA_"`
}

// Load reads settings from the process environment.
func Load() (*Settings, error) {
	return Parse(nil)
}

// Parse reads settings from environment, or from the process environment
// when environment is nil.
func Parse(environment map[string]string) (*Settings, error) {
	s := &Settings{}
	if err := env.ParseWithOptions(s, env.Options{
		Prefix:      EnvironmentPrefix,
		Environment: environment,
	}); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks field constraints and the credentials each storage
// backend needs.
func (s *Settings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	switch s.Storage.Backend {
	case storage.BackendMinio:
		if s.Storage.AccessKey == "" || s.Storage.SecretKey == "" {
			return errors.New("invalid configuration: minio storage needs STORAGE_ACCESS_KEY and STORAGE_SECRET_KEY")
		}
	case storage.BackendSupabase:
		if s.Supabase.URL == "" || s.Supabase.Key == "" {
			return errors.New("invalid configuration: supabase storage needs SUPABASE_URL and SUPABASE_KEY")
		}
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (s *Settings) Addr() string {
	return ":" + s.Port
}
