package provisioning

import (
	"context"
	"fmt"
)

// Resources are the handles a launch needs.
type Resources struct {
	Flavor  *ResourceHandle
	Image   *ResourceHandle
	Network *ResourceHandle

	// NetworkCreated is true when the network did not exist and was created
	// by this resolution.
	NetworkCreated bool
}

// Resolver looks up the named resources of a request.
type Resolver struct {
	cloud    Cloud
	observer Observer
}

// NewResolver creates a resolver over cloud.
func NewResolver(cloud Cloud, observer Observer) *Resolver {
	return &Resolver{cloud: cloud, observer: observer}
}

// Resolve returns the flavor, image and network with the given names.
// Flavors and images must exist. A missing network is created once; a later
// call that finds it does not create it again.
func (r *Resolver) Resolve(ctx context.Context, flavorName, imageName, networkName string) (*Resources, error) {
	flavor, err := r.lookup(ctx, KindFlavor, flavorName, r.cloud.GetFlavorByName)
	if err != nil {
		return nil, err
	}
	image, err := r.lookup(ctx, KindImage, imageName, r.cloud.GetImageByName)
	if err != nil {
		return nil, err
	}
	network, created, err := r.ensureNetwork(ctx, networkName)
	if err != nil {
		return nil, err
	}

	return &Resources{
		Flavor:         flavor,
		Image:          image,
		Network:        network,
		NetworkCreated: created,
	}, nil
}

func (r *Resolver) lookup(ctx context.Context, kind ResourceKind, name string, get func(context.Context, string) (*ResourceHandle, error)) (*ResourceHandle, error) {
	h, err := get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s %q: %w", kind, name, err)
	}
	if h == nil {
		return nil, fmt.Errorf("%w: %s %q", ErrResourceNotFound, kind, name)
	}
	h.Kind = kind
	LogResourceExists(r.observer, PhaseResolve, h)
	return h, nil
}

func (r *Resolver) ensureNetwork(ctx context.Context, name string) (*ResourceHandle, bool, error) {
	existing, err := r.cloud.GetNetworkByName(ctx, name)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up network %q: %w", name, err)
	}
	if existing != nil {
		existing.Kind = KindNetwork
		LogResourceExists(r.observer, PhaseResolve, existing)
		return existing, false, nil
	}

	r.observer.Event(Event{
		Type:     EventResourceCreating,
		Phase:    PhaseResolve,
		Resource: name,
		Message:  fmt.Sprintf("Could not find network %s. Attempting to create the network.", name),
		Fields:   map[string]string{"kind": string(KindNetwork)},
	})

	created, err := r.cloud.CreateNetwork(ctx, name)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s: %w", ErrNetworkCreation, name, err)
	}
	if created == nil {
		return nil, false, fmt.Errorf("%w: %s: provider returned no network", ErrNetworkCreation, name)
	}
	created.Kind = KindNetwork
	LogResourceCreated(r.observer, PhaseResolve, created)
	return created, true, nil
}
