package handlers

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/go-logr/logr"

	"github.com/imamik/nodeforge/internal/config"
	"github.com/imamik/nodeforge/internal/provisioning"
)

// fakeCloud is a minimal provisioning.Cloud for handler tests.
type fakeCloud struct {
	mu          sync.Mutex
	startErr    error
	startStatus string
	deleted     []string
}

func (f *fakeCloud) GetFlavorByName(_ context.Context, name string) (*provisioning.ResourceHandle, error) {
	return &provisioning.ResourceHandle{ID: "22", Name: name, Kind: provisioning.KindFlavor}, nil
}

func (f *fakeCloud) GetImageByName(_ context.Context, name string) (*provisioning.ResourceHandle, error) {
	return &provisioning.ResourceHandle{ID: "7", Name: name, Kind: provisioning.KindImage}, nil
}

func (f *fakeCloud) GetNetworkByName(_ context.Context, name string) (*provisioning.ResourceHandle, error) {
	return &provisioning.ResourceHandle{ID: "5", Name: name, Kind: provisioning.KindNetwork}, nil
}

func (f *fakeCloud) CreateNetwork(_ context.Context, name string) (*provisioning.ResourceHandle, error) {
	return &provisioning.ResourceHandle{ID: "6", Name: name, Kind: provisioning.KindNetwork}, nil
}

func (f *fakeCloud) StartVM(_ context.Context, spec provisioning.ServerSpec) (*provisioning.ResourceHandle, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	status := f.startStatus
	if status == "" {
		status = "ACTIVE"
	}
	return &provisioning.ResourceHandle{ID: "42", Name: spec.Name, Kind: provisioning.KindServer, Status: status}, nil
}

func (f *fakeCloud) GetServerByName(_ context.Context, name string) (*provisioning.ResourceHandle, error) {
	return &provisioning.ResourceHandle{ID: "42", Name: name, Kind: provisioning.KindServer, Status: "ACTIVE"}, nil
}

func (f *fakeCloud) DeleteService(_ context.Context, serviceName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, serviceName)
	return nil
}

// fakeArchiver records archived trails.
type fakeArchiver struct {
	service string
	records []provisioning.TaskStatusRecord
	latest  []provisioning.TaskStatusRecord
}

func (f *fakeArchiver) Archive(_ context.Context, service string, records []provisioning.TaskStatusRecord) (string, error) {
	f.service = service
	f.records = records
	return "tasks/" + service + "/stamp.json", nil
}

func (f *fakeArchiver) Latest(_ context.Context, _ string) ([]provisioning.TaskStatusRecord, error) {
	return f.latest, nil
}

// fakeEvents captures published notes.
type fakeEvents struct {
	mu      sync.Mutex
	records []provisioning.TaskStatusRecord
	closed  bool
}

func (f *fakeEvents) AppendTaskStatus(_ context.Context, rec provisioning.TaskStatusRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeEvents) Close() error {
	f.closed = true
	return nil
}

func testRequest() provisioning.Request {
	return provisioning.Request{
		ServiceName: "billing",
		Credentials: provisioning.Credentials{Password: "token", Tenant: "acme"},
		Node:        provisioning.NodeSpec{FlavorName: "cx22", ImageName: "ubuntu-24.04", NodeType: "worker"},
		NetworkName: "billing-net",
	}
}

// testConfig returns a configuration with a sqlite store in a temp dir.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Store.Server = t.TempDir()
	cfg.Timeouts = config.TestTimeouts()
	return cfg
}

// stubCollaborators replaces the package-level constructors for one test
// and restores them afterwards.
func stubCollaborators(t *testing.T, cfg *config.Config, cloud provisioning.Cloud) {
	t.Helper()

	origDefault := defaultConfig
	origLoadRequest := loadRequest
	origCloud := newCloudFactory
	origEvents := newEventSink
	origArchiver := newArchiver
	origReader := newTrailReader
	origOutput := logOutput
	t.Cleanup(func() {
		defaultConfig = origDefault
		loadRequest = origLoadRequest
		newCloudFactory = origCloud
		newEventSink = origEvents
		newArchiver = origArchiver
		newTrailReader = origReader
		logOutput = origOutput
	})

	defaultConfig = func() *config.Config { return cfg }
	loadRequest = func(_ string) (provisioning.Request, error) { return testRequest(), nil }
	newCloudFactory = func(_ *config.Config) provisioning.CloudFactory {
		return func(_ context.Context, _ provisioning.Credentials) (provisioning.Cloud, error) {
			return cloud, nil
		}
	}
	newEventSink = func(_ config.EventsConfig, _ logr.Logger) (EventSink, error) {
		t.Fatal("events are not configured")
		return nil, nil
	}
	logOutput = io.Discard
}
