package storage

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore writes objects to an S3-compatible server.
type MinioStore struct {
	client *minio.Client
}

func NewMinioStore(opts Options) (*MinioStore, error) {
	client, err := minio.New(opts.BaseURL, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client: %w", err)
	}
	return &MinioStore{client: client}, nil
}

func (s *MinioStore) Put(ctx context.Context, bucket, key, path, contentType string) error {
	_, err := s.client.FPutObject(ctx, bucket, key, path, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code != "" {
			return fmt.Errorf("minio %s: %s: %w", resp.Code, resp.Message, err)
		}
		return fmt.Errorf("putting object to minio: %w", err)
	}
	return nil
}
