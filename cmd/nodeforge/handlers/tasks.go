package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/imamik/nodeforge/internal/config"
	"github.com/imamik/nodeforge/internal/platform/s3"
	"github.com/imamik/nodeforge/internal/provisioning"
)

// TasksOptions are the inputs of the tasks command.
type TasksOptions struct {
	ConfigPath string
	Service    string
	Output     string
	Archived   bool
}

// TrailReader reads back an archived trail.
type TrailReader interface {
	Latest(ctx context.Context, service string) ([]provisioning.TaskStatusRecord, error)
}

var newTrailReader = func(ctx context.Context, cfg config.ArchiveConfig) (TrailReader, error) {
	return s3.NewArchiverFromConfig(ctx, cfg)
}

// Tasks handles the tasks command.
func Tasks(ctx context.Context, opts TasksOptions, w io.Writer) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	records, err := readTrail(ctx, cfg, opts)
	if err != nil {
		return err
	}

	if opts.Output == "json" {
		if records == nil {
			records = []provisioning.TaskStatusRecord{}
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(records)
	}

	if len(records) == 0 {
		fmt.Fprintf(w, "No task notes found for service %s.\n", opts.Service)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tMESSAGE")
	fmt.Fprintln(tw, "----\t-------")
	for _, rec := range records {
		fmt.Fprintf(tw, "%s\t%s\n", rec.Timestamp.Local().Format("2006-01-02 15:04:05"), rec.Message)
	}
	return tw.Flush()
}

func readTrail(ctx context.Context, cfg *config.Config, opts TasksOptions) ([]provisioning.TaskStatusRecord, error) {
	if opts.Archived {
		if !cfg.Archive.Enabled() {
			return nil, fmt.Errorf("no archive configured")
		}
		reader, err := newTrailReader(ctx, cfg.Archive)
		if err != nil {
			return nil, err
		}
		return reader.Latest(ctx, opts.Service)
	}

	store, err := openTaskStore(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open task store: %w", err)
	}
	defer func() { _ = store.Close() }()
	return store.ListTaskStatus(ctx, opts.Service)
}
