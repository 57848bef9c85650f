package config

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	supa "github.com/supabase-community/supabase-go"

	"voxrelay/internal/storage"
)

type SupabaseOptions struct {
	URL string `env:"URL" validate:"omitempty,url"`
	// Key should be a service key; an anon key only works with public buckets.
	Key string `env:"KEY"`
}

// NewSupabaseClient initializes the Supabase client used by the storage backend.
func NewSupabaseClient(opts SupabaseOptions, logger *logrus.Logger) (*supa.Client, error) {
	if opts.URL == "" || opts.Key == "" {
		return nil, errors.New("supabase url and key are required")
	}

	client, err := supa.NewClient(opts.URL, opts.Key, nil)
	if err != nil {
		return nil, fmt.Errorf("initializing supabase client: %w", err)
	}

	logger.WithField("url", opts.URL).Info("Supabase client initialized")
	return client, nil
}

// NewObjectStore builds the backend selected by settings.
func NewObjectStore(s *Settings, logger *logrus.Logger) (storage.ObjectStore, error) {
	switch s.Storage.Backend {
	case storage.BackendSupabase:
		client, err := NewSupabaseClient(s.Supabase, logger)
		if err != nil {
			return nil, err
		}
		return storage.NewSupabaseStore(client), nil
	case storage.BackendMinio, "":
		store, err := storage.NewMinioStore(s.Storage)
		if err != nil {
			return nil, err
		}
		logger.WithFields(logrus.Fields{
			"endpoint": s.Storage.BaseURL,
			"secure":   s.Storage.Secure,
		}).Info("MinIO client initialized")
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", s.Storage.Backend)
	}
}
