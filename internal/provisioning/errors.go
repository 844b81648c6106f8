package provisioning

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for the provisioning error taxonomy. Callers branch on
// them with errors.Is.
var (
	// ErrResourceNotFound means a named flavor or image does not exist.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrNetworkCreation means a missing network could not be created.
	ErrNetworkCreation = errors.New("network creation failed")

	// ErrLaunch means the server was not created or reached the error state.
	ErrLaunch = errors.New("launch failed")

	// ErrTimeout means the server was still building when polling stopped.
	ErrTimeout = errors.New("timed out waiting for server")

	// ErrTransientLookup means a status refresh failed mid-poll. The launcher
	// absorbs it and keeps the last known server handle.
	ErrTransientLookup = errors.New("transient lookup failure")
)

// TimeoutError is returned when the poll ceiling is reached while the
// server is still building.
type TimeoutError struct {
	Retries int
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("failed to create server in %v after %d status checks: timed out", e.Elapsed, e.Retries)
}

// Is reports whether target is ErrTimeout.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// LaunchError is returned when a server could not be started or ended up
// in the error state.
type LaunchError struct {
	VMName string
	Detail string
	Err    error
}

func (e *LaunchError) Error() string {
	msg := fmt.Sprintf("failed to launch server %s", e.VMName)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrLaunch.
func (e *LaunchError) Is(target error) bool {
	return target == ErrLaunch
}

// ProvisioningError is the single error a failed run returns. It carries
// the service and server names and unwraps to the error that caused the
// failure, never to a rollback error.
type ProvisioningError struct {
	ServiceName string
	VMName      string
	Err         error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("provisioning service %s (server %s): %v", e.ServiceName, e.VMName, e.Err)
}

func (e *ProvisioningError) Unwrap() error {
	return e.Err
}

// Error kinds used as metric label values.
const (
	KindNone            = "none"
	KindInvalidRequest  = "invalid_request"
	KindNotFound        = "not_found"
	KindNetworkCreation = "network_creation"
	KindLaunch          = "launch"
	KindTimeout         = "timeout"
	KindCanceled        = "canceled"
	KindTransientLookup = "transient_lookup"
	KindUnexpected      = "unexpected"
)

// errInvalidRequest marks request validation failures.
var errInvalidRequest = errors.New("invalid request")

// ErrorKind classifies err into one of the Kind* values.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, errInvalidRequest):
		return KindInvalidRequest
	case errors.Is(err, ErrResourceNotFound):
		return KindNotFound
	case errors.Is(err, ErrNetworkCreation):
		return KindNetworkCreation
	case errors.Is(err, ErrLaunch):
		return KindLaunch
	case errors.Is(err, ErrTimeout):
		return KindTimeout
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	case errors.Is(err, ErrTransientLookup):
		return KindTransientLookup
	default:
		return KindUnexpected
	}
}
