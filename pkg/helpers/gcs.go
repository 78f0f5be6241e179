package helpers

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// NewGCSClient builds a storage client. credFile may be empty, in which
// case default application credentials are used.
func NewGCSClient(ctx context.Context, credFile string) (*storage.Client, error) {
	var opts []option.ClientOption
	if credFile != "" {
		opts = append(opts, option.WithCredentialsFile(credFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs client: %w", err)
	}
	return client, nil
}
