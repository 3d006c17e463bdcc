package port

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// UploadInput encapsulates the parameters needed to upload an object.
type UploadInput struct {
	Bucket      string
	Key         string
	Body        io.Reader
	ContentType string
	Size        int64
}

// UploadOutput contains the result of a successful upload.
type UploadOutput struct {
	Location string
	ETag     string
}

// ObjectStorage archives processed documents and their reports.
type ObjectStorage interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
	Delete(ctx context.Context, bucket, key string) error
	GetPresignedURL(ctx context.Context, bucket, key string, expirySeconds int64) (string, error)
}

// RunObjectKey is the archive key of a file belonging to a validation run.
func RunObjectKey(runID uuid.UUID, name string) string {
	return fmt.Sprintf("runs/%s/%s", runID, name)
}
