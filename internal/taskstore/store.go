package taskstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/imamik/nodeforge/internal/config"
	"github.com/imamik/nodeforge/internal/provisioning"
)

// ErrUnknownDriver is returned for a driver name no Factory supports.
var ErrUnknownDriver = errors.New("unknown task store driver")

// DBClient stores and lists task status records.
type DBClient interface {
	provisioning.TaskSink

	// ListTaskStatus returns every record of a service, oldest first.
	ListTaskStatus(ctx context.Context, serviceName string) ([]provisioning.TaskStatusRecord, error)

	// Close releases the underlying database.
	Close() error
}

// Factory opens DBClients for one driver.
type Factory struct {
	Driver string
}

// NewFactory returns a Factory for driver.
func NewFactory(driver string) (*Factory, error) {
	switch driver {
	case config.DriverSQLite, config.DriverBadger:
		return &Factory{Driver: driver}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

// Create opens the database dbName on server. For the embedded drivers server
// is a directory and port must be zero or positive.
func (f *Factory) Create(server string, port int, dbName string) (DBClient, error) {
	if server == "" {
		return nil, errors.New("task store server is required")
	}
	if port < 0 {
		return nil, fmt.Errorf("task store port must not be negative, got %d", port)
	}
	if dbName == "" || strings.ContainsAny(dbName, `/\`) || dbName == "." || dbName == ".." {
		return nil, fmt.Errorf("invalid task store database name %q", dbName)
	}

	switch f.Driver {
	case config.DriverSQLite:
		return openSQLite(server, dbName)
	case config.DriverBadger:
		return openBadger(server, dbName)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, f.Driver)
	}
}

// OpenFromConfig opens the task store described by the store section of the
// configuration.
func OpenFromConfig(cfg config.StoreConfig) (DBClient, error) {
	f, err := NewFactory(cfg.Driver)
	if err != nil {
		return nil, err
	}
	return f.Create(cfg.Server, cfg.Port, cfg.Database)
}

// normalize fills in a missing ID and timestamp and checks the service name.
func normalize(rec provisioning.TaskStatusRecord) (provisioning.TaskStatusRecord, error) {
	if rec.ServiceName == "" {
		return rec, errors.New("task status record has no service name")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	rec.Timestamp = rec.Timestamp.UTC()
	return rec, nil
}
