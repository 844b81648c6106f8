package s3

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/imamik/nodeforge/internal/config"
	"github.com/imamik/nodeforge/internal/provisioning"
	"github.com/imamik/nodeforge/internal/util/naming"
)

// ErrNoTrail is returned when a service has no archived trail.
var ErrNoTrail = errors.New("no archived trail")

// Archiver stores task trails in a bucket.
type Archiver struct {
	client *Client
	bucket string
	now    func() time.Time
}

// NewArchiver returns an Archiver writing to bucket.
func NewArchiver(client *Client, bucket string) *Archiver {
	return &Archiver{client: client, bucket: bucket, now: time.Now}
}

// NewArchiverFromConfig builds a client and archiver from the archive section
// of the configuration.
func NewArchiverFromConfig(ctx context.Context, cfg config.ArchiveConfig) (*Archiver, error) {
	if !cfg.Enabled() {
		return nil, errors.New("archive bucket is not configured")
	}
	client, err := NewClient(ctx, cfg.Endpoint, cfg.Region, cfg.AccessKey, cfg.SecretKey, cfg.UsePathStyle)
	if err != nil {
		return nil, err
	}
	return NewArchiver(client, cfg.Bucket), nil
}

// EnsureBucket creates the bucket if it does not exist.
func (a *Archiver) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return a.client.CreateBucket(ctx, a.bucket)
}

// Archive uploads the records of a service as one JSON document and returns
// the object key.
func (a *Archiver) Archive(ctx context.Context, service string, records []provisioning.TaskStatusRecord) (string, error) {
	if err := a.EnsureBucket(ctx); err != nil {
		return "", err
	}

	if records == nil {
		records = []provisioning.TaskStatusRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode trail of %s: %w", service, err)
	}

	key := naming.TrailObject(service, a.now().UTC().Format(time.RFC3339))
	if err := a.client.PutObject(ctx, a.bucket, key, "application/json", data); err != nil {
		return "", err
	}
	return key, nil
}

// Latest downloads the most recent archived trail of a service.
func (a *Archiver) Latest(ctx context.Context, service string) ([]provisioning.TaskStatusRecord, error) {
	prefix := naming.TrailPrefix(service)
	keys, err := a.client.ListObjects(ctx, a.bucket, prefix)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w for service %s", ErrNoTrail, service)
	}

	// RFC3339 UTC stamps sort lexically
	slices.Sort(keys)
	data, err := a.client.GetObject(ctx, a.bucket, keys[len(keys)-1])
	if err != nil {
		return nil, err
	}

	var records []provisioning.TaskStatusRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode trail %s: %w", keys[len(keys)-1], err)
	}
	return records, nil
}
