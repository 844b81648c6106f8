package taskstore

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/imamik/nodeforge/internal/provisioning"
)

// badgerClient implements DBClient with Badger DB.
type badgerClient struct {
	db *badger.DB
}

func openBadger(dir, name string) (*badgerClient, error) {
	opts := badger.DefaultOptions(filepath.Clean(filepath.Join(dir, name)))
	opts.Logger = nil
	opts = opts.WithValueLogFileSize(1 << 20)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("taskstore: failed to open badger database: %w", err)
	}
	return &badgerClient{db: db}, nil
}

func servicePrefix(service string) []byte {
	return []byte("task:" + service + ":")
}

// recordKey orders records of a service by time; the zero-padded timestamp
// keeps lexical and chronological order aligned.
func recordKey(rec provisioning.TaskStatusRecord) []byte {
	return []byte(fmt.Sprintf("task:%s:%020d:%s", rec.ServiceName, rec.Timestamp.UnixNano(), rec.ID))
}

func (c *badgerClient) AppendTaskStatus(_ context.Context, rec provisioning.TaskStatusRecord) error {
	rec, err := normalize(rec)
	if err != nil {
		return err
	}
	return c.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return txn.Set(recordKey(rec), data)
	})
}

func (c *badgerClient) ListTaskStatus(ctx context.Context, serviceName string) ([]provisioning.TaskStatusRecord, error) {
	var records []provisioning.TaskStatusRecord
	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = servicePrefix(serviceName)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var rec provisioning.TaskStatusRecord
			if err := it.Item().Value(func(v []byte) error {
				return json.Unmarshal(v, &rec)
			}); err != nil {
				return err
			}
			// service names containing ':' can share a prefix
			if rec.ServiceName != serviceName {
				continue
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("taskstore: list failed: %w", err)
	}
	return records, nil
}

func (c *badgerClient) Close() error {
	return c.db.Close()
}
