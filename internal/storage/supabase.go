package storage

import (
	"context"
	"fmt"
	"os"

	storage_go "github.com/supabase-community/storage-go"
	supa "github.com/supabase-community/supabase-go"
)

// SupabaseStore writes objects to Supabase Storage.
type SupabaseStore struct {
	client *supa.Client
}

func NewSupabaseStore(client *supa.Client) *SupabaseStore {
	return &SupabaseStore{client: client}
}

// Put uploads the staged file. The storage client takes no context, so ctx
// is only checked before the upload starts.
func (s *SupabaseStore) Put(ctx context.Context, bucket, key, path, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening staged file: %w", err)
	}
	defer f.Close()

	_, err = s.client.Storage.UploadFile(bucket, key, f, storage_go.FileOptions{
		ContentType: &contentType,
	})
	if err != nil {
		return fmt.Errorf("uploading to supabase storage: %w", err)
	}
	return nil
}
