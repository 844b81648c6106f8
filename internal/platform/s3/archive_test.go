package s3

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/nodeforge/internal/config"
	"github.com/imamik/nodeforge/internal/provisioning"
)

// fakeBucket is a minimal in-memory S3 endpoint for path-style requests.
type fakeBucket struct {
	mu      sync.Mutex
	exists  bool
	created int
	objects map[string][]byte
	types   map[string]string
}

func newFakeBucket(exists bool) *fakeBucket {
	return &fakeBucket{exists: exists, objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// path-style: /<bucket>[/<key>]
	parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}

	switch {
	case r.Method == http.MethodHead && key == "":
		if !f.exists {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut && key == "":
		f.exists = true
		f.created++
		xmlResponse(w, http.StatusOK, `<?xml version="1.0" encoding="UTF-8"?><CreateBucketResult/>`)
	case r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[key] = body
		f.types[key] = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodGet && key == "":
		prefix := r.URL.Query().Get("prefix")
		var b strings.Builder
		b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><ListBucketResult><IsTruncated>false</IsTruncated>`)
		for k := range f.objects {
			if strings.HasPrefix(k, prefix) {
				b.WriteString("<Contents><Key>" + k + "</Key></Contents>")
			}
		}
		b.WriteString("</ListBucketResult>")
		xmlResponse(w, http.StatusOK, b.String())
	case r.Method == http.MethodGet:
		body, ok := f.objects[key]
		if !ok {
			xmlResponse(w, http.StatusNotFound, errorXML("NoSuchKey"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func records(service string, messages ...string) []provisioning.TaskStatusRecord {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	out := make([]provisioning.TaskStatusRecord, 0, len(messages))
	for i, m := range messages {
		out = append(out, provisioning.TaskStatusRecord{
			ID:          "id-" + m,
			ServiceName: service,
			Message:     m,
			Timestamp:   base.Add(time.Duration(i) * time.Second),
		})
	}
	return out
}

func TestArchiver_Archive(t *testing.T) {
	t.Parallel()

	bucket := newFakeBucket(false)
	archiver := NewArchiver(testClient(t, bucket), "trails")
	archiver.now = func() time.Time { return time.Date(2026, 3, 1, 12, 30, 0, 0, time.FixedZone("CET", 3600)) }

	trail := records("billing", "Creating VM billing-worker-0", "Provisioned VM billing-worker-0 with status Active")
	key, err := archiver.Archive(context.Background(), "billing", trail)
	require.NoError(t, err)

	assert.Equal(t, "tasks/billing/2026-03-01T11:30:00Z.json", key)
	assert.Equal(t, 1, bucket.created)
	assert.Equal(t, "application/json", bucket.types[key])

	var stored []provisioning.TaskStatusRecord
	require.NoError(t, json.Unmarshal(bucket.objects[key], &stored))
	assert.Equal(t, trail, stored)
}

func TestArchiver_ArchiveExistingBucket(t *testing.T) {
	t.Parallel()

	bucket := newFakeBucket(true)
	archiver := NewArchiver(testClient(t, bucket), "trails")

	_, err := archiver.Archive(context.Background(), "billing", nil)
	require.NoError(t, err)
	assert.Zero(t, bucket.created)

	for _, body := range bucket.objects {
		assert.JSONEq(t, "[]", string(body))
	}
}

func TestArchiver_Latest(t *testing.T) {
	t.Parallel()

	bucket := newFakeBucket(true)
	archiver := NewArchiver(testClient(t, bucket), "trails")

	stamps := []time.Time{
		time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	}
	for i, stamp := range stamps {
		archiver.now = func() time.Time { return stamp }
		msg := "run-" + string(rune('a'+i))
		_, err := archiver.Archive(context.Background(), "billing", records("billing", msg))
		require.NoError(t, err)
	}

	got, err := archiver.Latest(context.Background(), "billing")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "run-b", got[0].Message)
}

func TestArchiver_LatestNoTrail(t *testing.T) {
	t.Parallel()

	archiver := NewArchiver(testClient(t, newFakeBucket(true)), "trails")
	_, err := archiver.Latest(context.Background(), "billing")
	require.ErrorIs(t, err, ErrNoTrail)
}

func TestNewArchiverFromConfig(t *testing.T) {
	t.Parallel()

	_, err := NewArchiverFromConfig(context.Background(), config.ArchiveConfig{})
	require.Error(t, err)

	archiver, err := NewArchiverFromConfig(context.Background(), config.ArchiveConfig{
		Bucket:    "trails",
		Region:    "fsn1",
		Endpoint:  "https://fsn1.your-objectstorage.com",
		AccessKey: "key",
		SecretKey: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "trails", archiver.bucket)
}
