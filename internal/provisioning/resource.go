package provisioning

import "strings"

// ResourceKind identifies what a ResourceHandle refers to.
type ResourceKind string

const (
	KindFlavor  ResourceKind = "flavor"
	KindImage   ResourceKind = "image"
	KindNetwork ResourceKind = "network"
	KindServer  ResourceKind = "server"
)

// ResourceHandle is an opaque reference returned by the cloud provider.
// The workflow passes ID back to the provider and never interprets it.
type ResourceHandle struct {
	ID   string
	Name string
	Kind ResourceKind

	// Status is the raw provider status string. Only set for servers.
	Status string

	// Detail carries the provider's error explanation for failed servers.
	Detail string
}

// ServerStatus is the provider-neutral state of a server.
type ServerStatus int

const (
	StatusUnknown ServerStatus = iota
	StatusBuilding
	StatusActive
	StatusError
)

func (s ServerStatus) String() string {
	switch s {
	case StatusBuilding:
		return "Building"
	case StatusActive:
		return "Active"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// ParseServerStatus maps a raw provider status to a ServerStatus.
// Matching is case-insensitive. Empty or unrecognised values count as
// building, so a server whose status cannot be read keeps being polled.
func ParseServerStatus(raw string) ServerStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "active":
		return StatusActive
	case "error":
		return StatusError
	case "unknown":
		return StatusUnknown
	default:
		return StatusBuilding
	}
}

// ServerStatus returns the parsed status of a server handle.
func (h *ResourceHandle) ServerStatus() ServerStatus {
	if h == nil {
		return StatusBuilding
	}
	return ParseServerStatus(h.Status)
}
