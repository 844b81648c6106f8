package hcloud

import (
	"context"
	"fmt"
	"reflect"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/nodeforge/internal/util/retry"
)

// DeleteOperation encapsulates deletion logic for any hcloud resource.
//
// Usage example:
//
//	return (&DeleteOperation[*hcloud.Server]{
//	    Name:         name,
//	    ResourceType: "server",
//	    Get:          c.client.Server.GetByName,
//	    Delete:       deleteServer,
//	}).Execute(ctx, c)
type DeleteOperation[T any] struct {
	Name         string
	ResourceType string

	// Get retrieves the resource by name
	Get func(ctx context.Context, name string) (T, *hcloud.Response, error)

	// Delete removes the resource
	Delete func(ctx context.Context, resource T) (*hcloud.Response, error)
}

// Execute performs the delete operation with retry logic and timeout handling.
// The operation is idempotent: it succeeds if the resource doesn't exist.
// Locked resources are retried with exponential backoff.
func (op *DeleteOperation[T]) Execute(ctx context.Context, client *RealClient) error {
	ctx, cancel := context.WithTimeout(ctx, client.timeouts.Delete)
	defer cancel()

	return retry.WithExponentialBackoff(ctx, func() error {
		resource, _, err := op.Get(ctx, op.Name)
		if err != nil {
			return retry.Fatal(fmt.Errorf("failed to get %s: %w", op.ResourceType, err))
		}

		if reflect.ValueOf(resource).IsNil() {
			return nil
		}

		_, err = op.Delete(ctx, resource)
		if err != nil {
			if isResourceLocked(err) {
				return err
			}
			return retry.Fatal(err)
		}
		return nil
	},
		retry.WithMaxRetries(client.timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(client.timeouts.RetryInitialDelay))
}

// EnsureOperation encapsulates get-or-create logic for any hcloud resource.
//
// Usage example:
//
//	return (&EnsureOperation[*hcloud.Network, hcloud.NetworkCreateOpts]{
//	    Name:             name,
//	    ResourceType:     "network",
//	    Get:              c.client.Network.GetByName,
//	    Create:           c.client.Network.Create,
//	    CreateOptsMapper: func() hcloud.NetworkCreateOpts { ... },
//	}).Execute(ctx)
type EnsureOperation[T any, CreateOpts any] struct {
	Name         string
	ResourceType string

	// Get retrieves the resource by name
	Get func(ctx context.Context, name string) (T, *hcloud.Response, error)

	// Create creates the resource with the given options
	Create func(ctx context.Context, opts CreateOpts) (T, *hcloud.Response, error)

	// Validate checks if an existing resource matches the desired state (optional)
	Validate func(resource T) error

	// CreateOptsMapper builds the create options
	CreateOptsMapper func() (CreateOpts, error)
}

// Execute returns the existing resource or creates it.
func (op *EnsureOperation[T, CreateOpts]) Execute(ctx context.Context) (T, error) {
	var zero T

	resource, _, err := op.Get(ctx, op.Name)
	if err != nil {
		return zero, fmt.Errorf("failed to get %s: %w", op.ResourceType, err)
	}

	if !reflect.ValueOf(resource).IsNil() {
		if op.Validate != nil {
			if err := op.Validate(resource); err != nil {
				return zero, err
			}
		}
		return resource, nil
	}

	opts, err := op.CreateOptsMapper()
	if err != nil {
		return zero, fmt.Errorf("invalid %s options: %w", op.ResourceType, err)
	}
	created, _, err := op.Create(ctx, opts)
	if err != nil {
		return zero, fmt.Errorf("failed to create %s: %w", op.ResourceType, err)
	}
	return created, nil
}
