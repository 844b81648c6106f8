package provisioning

import (
	"context"
	"errors"
	"sync"
	"time"
)

// mockCloud implements Cloud. Every method falls back to a happy-path
// default when its Func field is nil.
type mockCloud struct {
	mu    sync.Mutex
	calls map[string]int

	GetFlavorByNameFunc  func(ctx context.Context, name string) (*ResourceHandle, error)
	GetImageByNameFunc   func(ctx context.Context, name string) (*ResourceHandle, error)
	GetNetworkByNameFunc func(ctx context.Context, name string) (*ResourceHandle, error)
	CreateNetworkFunc    func(ctx context.Context, name string) (*ResourceHandle, error)
	StartVMFunc          func(ctx context.Context, spec ServerSpec) (*ResourceHandle, error)
	GetServerByNameFunc  func(ctx context.Context, name string) (*ResourceHandle, error)
	DeleteServiceFunc    func(ctx context.Context, serviceName string) error
}

func (m *mockCloud) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = map[string]int{}
	}
	m.calls[method]++
}

func (m *mockCloud) count(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func (m *mockCloud) total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		n += c
	}
	return n
}

func (m *mockCloud) GetFlavorByName(ctx context.Context, name string) (*ResourceHandle, error) {
	m.record("GetFlavorByName")
	if m.GetFlavorByNameFunc != nil {
		return m.GetFlavorByNameFunc(ctx, name)
	}
	return &ResourceHandle{ID: "flavor-1", Name: name}, nil
}

func (m *mockCloud) GetImageByName(ctx context.Context, name string) (*ResourceHandle, error) {
	m.record("GetImageByName")
	if m.GetImageByNameFunc != nil {
		return m.GetImageByNameFunc(ctx, name)
	}
	return &ResourceHandle{ID: "image-1", Name: name}, nil
}

func (m *mockCloud) GetNetworkByName(ctx context.Context, name string) (*ResourceHandle, error) {
	m.record("GetNetworkByName")
	if m.GetNetworkByNameFunc != nil {
		return m.GetNetworkByNameFunc(ctx, name)
	}
	return &ResourceHandle{ID: "network-1", Name: name}, nil
}

func (m *mockCloud) CreateNetwork(ctx context.Context, name string) (*ResourceHandle, error) {
	m.record("CreateNetwork")
	if m.CreateNetworkFunc != nil {
		return m.CreateNetworkFunc(ctx, name)
	}
	return &ResourceHandle{ID: "network-new", Name: name}, nil
}

func (m *mockCloud) StartVM(ctx context.Context, spec ServerSpec) (*ResourceHandle, error) {
	m.record("StartVM")
	if m.StartVMFunc != nil {
		return m.StartVMFunc(ctx, spec)
	}
	return &ResourceHandle{ID: "server-1", Name: spec.Name, Status: "BUILD"}, nil
}

func (m *mockCloud) GetServerByName(ctx context.Context, name string) (*ResourceHandle, error) {
	m.record("GetServerByName")
	if m.GetServerByNameFunc != nil {
		return m.GetServerByNameFunc(ctx, name)
	}
	return &ResourceHandle{ID: "server-1", Name: name, Status: "ACTIVE"}, nil
}

func (m *mockCloud) DeleteService(ctx context.Context, serviceName string) error {
	m.record("DeleteService")
	if m.DeleteServiceFunc != nil {
		return m.DeleteServiceFunc(ctx, serviceName)
	}
	return nil
}

// factoryFor returns a CloudFactory that always hands out cloud.
func factoryFor(cloud Cloud) CloudFactory {
	return func(context.Context, Credentials) (Cloud, error) {
		return cloud, nil
	}
}

// serverStatuses makes GetServerByName return the given statuses in order,
// repeating the last one.
func serverStatuses(statuses ...string) func(context.Context, string) (*ResourceHandle, error) {
	var mu sync.Mutex
	i := 0
	return func(_ context.Context, name string) (*ResourceHandle, error) {
		mu.Lock()
		defer mu.Unlock()
		s := statuses[min(i, len(statuses)-1)]
		i++
		return &ResourceHandle{ID: "server-1", Name: name, Status: s}, nil
	}
}

// fakeClock advances instantly on Sleep.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

func (c *fakeClock) sleepCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sleeps)
}

// memorySink stores records in memory. err, when set, is returned instead.
type memorySink struct {
	mu      sync.Mutex
	records []TaskStatusRecord
	err     error
}

func (s *memorySink) AppendTaskStatus(_ context.Context, rec TaskStatusRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, rec)
	return nil
}

func (s *memorySink) messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.records))
	for i, r := range s.records {
		out[i] = r.Message
	}
	return out
}

func (s *memorySink) last() string {
	msgs := s.messages()
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1]
}

var errBoom = errors.New("boom")

func validRequest() Request {
	return Request{
		ServiceName: "billing",
		Credentials: Credentials{User: "admin", Password: "secret", Tenant: "acme"},
		Node:        NodeSpec{FlavorName: "m1.small", ImageName: "ubuntu-24.04", NodeType: "worker"},
		NetworkName: "net1",
	}
}
