package repository

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"social_messaging_service/pkg/database"

	"github.com/google/uuid"
)

// MediaRepository definition message attachment store
type MediaRepository interface {
	// Upload store the stream, return the object name to keep on the message
	Upload(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, error)
	// PresignURL short-lived download URL for an object
	PresignURL(ctx context.Context, objectName string) (string, error)
}

type minioMediaRepository struct {
	client *database.MinIOClient
	expiry time.Duration
}

// NewMinIOMediaRepository create a MediaRepository on minio
func NewMinIOMediaRepository(client *database.MinIOClient) MediaRepository {
	return &minioMediaRepository{
		client: client,
		expiry: 15 * time.Minute,
	}
}

func (r *minioMediaRepository) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	objectName := fmt.Sprintf("messages/%s%s", uuid.New().String(), filepath.Ext(filename))
	if err := r.client.Upload(ctx, objectName, reader, size, contentType); err != nil {
		return "", err
	}
	return objectName, nil
}

func (r *minioMediaRepository) PresignURL(ctx context.Context, objectName string) (string, error) {
	return r.client.PresignGetURL(ctx, objectName, r.expiry)
}
