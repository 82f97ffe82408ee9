package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"

	gcs "cloud.google.com/go/storage"

	"github.com/oksasatya/go-ddd-auth/internal/domain/event"
	"github.com/oksasatya/go-ddd-auth/pkg/helpers"
)

type uploadFunc func(ctx context.Context, bucket, objectPath, contentType string, r io.Reader) (string, error)

// EventArchive stores every event envelope as one JSON object in a GCS bucket,
// laid out as <prefix>/yyyy/mm/dd/<event>-<user id>-<unix nanos>.json.
type EventArchive struct {
	bucket string
	prefix string
	upload uploadFunc
}

func NewEventArchive(client *gcs.Client, bucket, prefix string) *EventArchive {
	return &EventArchive{
		bucket: bucket,
		prefix: prefix,
		upload: func(ctx context.Context, bucket, objectPath, contentType string, r io.Reader) (string, error) {
			return helpers.UploadObject(ctx, client, bucket, objectPath, contentType, r)
		},
	}
}

// Archive returns the gs:// URI of the stored object.
func (a *EventArchive) Archive(ctx context.Context, env event.Envelope) (string, error) {
	body, err := json.Marshal(env)
	if err != nil {
		return "", err
	}
	return a.upload(ctx, a.bucket, a.objectPath(env), "application/json", bytes.NewReader(body))
}

func (a *EventArchive) objectPath(env event.Envelope) string {
	ts := env.OccurredAt.UTC()
	name := fmt.Sprintf("%s-%s-%d.json", env.Name, env.AggregateID, ts.UnixNano())
	return path.Join(a.prefix, ts.Format("2006/01/02"), name)
}
