// Package storage validates inbound files and moves them into object
// storage through a staged, pooled transfer.
package storage

import (
	"context"
	"strings"
)

// Storage backends selectable through Options.Backend.
const (
	BackendMinio    = "minio"
	BackendSupabase = "supabase"
)

// ObjectStore places the file at path into bucket under key.
type ObjectStore interface {
	Put(ctx context.Context, bucket, key, path, contentType string) error
}

type Options struct {
	Backend string `env:"BACKEND" envDefault:"minio" validate:"oneof=minio supabase"`

	// BaseURL is the storage host (and optional path prefix) without scheme.
	// Public object URLs are built as https://{BaseURL}/{bucket}/{key}.
	BaseURL   string `env:"BASE_URL,required" validate:"required"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Secure    bool   `env:"SECURE" envDefault:"true"`

	DefaultBucket     string   `env:"DEFAULT_BUCKET" envDefault:"voices" validate:"required"`
	MaxUploadBytes    int64    `env:"MAX_UPLOAD_BYTES" envDefault:"10000000" validate:"gt=0"`
	StagingDir        string   `env:"STAGING_DIR"`
	AllowedExtensions []string `env:"ALLOWED_EXTENSIONS" envSeparator:","`

	Workers   int `env:"WORKERS" envDefault:"4" validate:"gte=1"`
	QueueSize int `env:"QUEUE_SIZE" envDefault:"64" validate:"gte=1"`
}

// PublicURL returns the address clients use to fetch the object.
func PublicURL(baseURL, bucket, key string) string {
	base := strings.TrimPrefix(baseURL, "https://")
	base = strings.TrimPrefix(base, "http://")
	base = strings.TrimRight(base, "/")
	return "https://" + base + "/" + bucket + "/" + key
}
