package provisioning

import (
	"context"
	"time"
)

// ServerSpec is what the launcher asks the cloud to start.
type ServerSpec struct {
	Name        string
	FlavorID    string
	ImageID     string
	NetworkID   string
	ServiceName string
	NodeType    string
	Tenant      string
}

// Cloud is the set of provider operations the workflow needs.
//
// Lookups return (nil, nil) when the named resource does not exist; an error
// means the lookup itself failed. Implementations must be safe for concurrent
// use by independent runs.
type Cloud interface {
	GetFlavorByName(ctx context.Context, name string) (*ResourceHandle, error)
	GetImageByName(ctx context.Context, name string) (*ResourceHandle, error)
	GetNetworkByName(ctx context.Context, name string) (*ResourceHandle, error)
	CreateNetwork(ctx context.Context, name string) (*ResourceHandle, error)
	StartVM(ctx context.Context, spec ServerSpec) (*ResourceHandle, error)
	GetServerByName(ctx context.Context, name string) (*ResourceHandle, error)

	// DeleteService removes every server that belongs to the service.
	DeleteService(ctx context.Context, serviceName string) error
}

// CloudFactory builds a Cloud for a set of credentials.
type CloudFactory func(ctx context.Context, creds Credentials) (Cloud, error)

// TaskStatusRecord is one append-only progress note.
type TaskStatusRecord struct {
	ID          string    `json:"id"`
	ServiceName string    `json:"serviceName"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
}

// TaskSink receives progress notes. The task store is one; an event
// publisher may be another.
type TaskSink interface {
	AppendTaskStatus(ctx context.Context, rec TaskStatusRecord) error
}
