package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"

	"github.com/imamik/nodeforge/internal/config"
	"github.com/imamik/nodeforge/internal/platform/hcloud"
	"github.com/imamik/nodeforge/internal/platform/nats"
	"github.com/imamik/nodeforge/internal/platform/s3"
	"github.com/imamik/nodeforge/internal/provisioning"
	"github.com/imamik/nodeforge/internal/taskstore"
)

// ProvisionOptions are the inputs of the provision command.
type ProvisionOptions struct {
	RequestPath string
	ConfigPath  string
	Verbose     bool
}

// TrailArchiver uploads the trail of a service.
type TrailArchiver interface {
	Archive(ctx context.Context, service string, records []provisioning.TaskStatusRecord) (string, error)
}

// EventSink is a task sink holding a connection.
type EventSink interface {
	provisioning.TaskSink
	Close() error
}

// Factory function variables for provision - can be replaced in tests.
var (
	loadRequest = config.LoadRequest

	newCloudFactory = func(cfg *config.Config) provisioning.CloudFactory {
		return hcloud.NewCloudFactory(appVersion,
			hcloud.WithTimeouts(cfg.Timeouts),
			hcloud.WithNetworkDefaults(cfg.Network),
			hcloud.WithLocation(cfg.Location),
		)
	}

	openTaskStore = taskstore.OpenFromConfig

	newEventSink = func(cfg config.EventsConfig, log logr.Logger) (EventSink, error) {
		return nats.Connect(cfg.URL, cfg.Subject, nats.WithLogger(log))
	}

	newArchiver = func(ctx context.Context, cfg config.ArchiveConfig) (TrailArchiver, error) {
		return s3.NewArchiverFromConfig(ctx, cfg)
	}

	logOutput io.Writer = os.Stderr
)

// Provision handles the provision command.
//
// It runs the workflow for the request and, when an archive is configured,
// uploads the resulting trail. Archive failures are logged but do not change
// the outcome of the run.
func Provision(ctx context.Context, opts ProvisionOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	req, err := loadRequest(opts.RequestPath)
	if err != nil {
		return err
	}

	log := newLogger(logOutput, opts.Verbose).WithName("nodeforge")

	if cfg.MetricsAddr != "" {
		stop := serveMetrics(cfg.MetricsAddr, log)
		defer stop()
	}

	store, err := openTaskStore(cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to open task store: %w", err)
	}
	defer func() { _ = store.Close() }()

	sinks := []provisioning.TaskSink{store}
	if cfg.Events.Enabled() {
		events, err := newEventSink(cfg.Events, log.WithName("events"))
		if err != nil {
			return err
		}
		defer func() { _ = events.Close() }()
		sinks = append(sinks, events)
	}

	workflow := provisioning.NewWorkflow(newCloudFactory(cfg),
		provisioning.WithObserver(provisioning.NewLogObserver(log)),
		provisioning.WithSinks(sinks...),
		provisioning.WithPollPolicy(cfg.Timeouts.PollInterval, cfg.Timeouts.PollMaxAttempts),
		provisioning.WithDeleteTimeout(cfg.Timeouts.Delete),
	)

	log.Info("provisioning service", "service", req.ServiceName, "vm", req.VMName())
	runErr := workflow.Run(ctx, req)

	if cfg.Archive.Enabled() {
		archiveTrail(context.WithoutCancel(ctx), cfg.Archive, store, req.ServiceName, log)
	}

	if runErr != nil {
		return fmt.Errorf("provisioning failed: %w", runErr)
	}
	log.Info("service provisioned", "service", req.ServiceName)
	return nil
}

func archiveTrail(ctx context.Context, cfg config.ArchiveConfig, store taskstore.DBClient, service string, log logr.Logger) {
	records, err := store.ListTaskStatus(ctx, service)
	if err != nil {
		log.Error(err, "failed to read trail for archiving", "service", service)
		return
	}
	archiver, err := newArchiver(ctx, cfg)
	if err != nil {
		log.Error(err, "failed to create archiver")
		return
	}
	key, err := archiver.Archive(ctx, service, records)
	if err != nil {
		log.Error(err, "failed to archive trail", "service", service)
		return
	}
	log.Info("trail archived", "bucket", cfg.Bucket, "key", key)
}
