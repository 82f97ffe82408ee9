package helpers

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// NewGCSClient creates a Google Cloud Storage client. credsJSON takes
// precedence over credsPath; with neither, ADC is used.
func NewGCSClient(ctx context.Context, credsPath, credsJSON string) (*storage.Client, error) {
	switch {
	case credsJSON != "":
		return storage.NewClient(ctx, option.WithCredentialsJSON([]byte(credsJSON)))
	case credsPath != "":
		return storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
	default:
		return storage.NewClient(ctx)
	}
}

// UploadObject uploads bytes from r into bucket/objectPath with the provided contentType
// and returns the gs:// URI of the object.
func UploadObject(ctx context.Context, client *storage.Client, bucket, objectPath, contentType string, r io.Reader) (string, error) {
	wc := client.Bucket(bucket).Object(objectPath).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // small objects, single request
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return ObjectURI(bucket, objectPath), nil
}

func ObjectURI(bucket, objectPath string) string {
	return fmt.Sprintf("gs://%s/%s", bucket, objectPath)
}
