package labels

import "strings"

// Standard label keys.
const (
	// KeyService identifies which service a resource belongs to
	KeyService = "nodeforge.io/service"

	// KeyNodeType identifies the node type of a server
	KeyNodeType = "nodeforge.io/node-type"

	// KeyTenant identifies the tenant that requested the resource
	KeyTenant = "nodeforge.io/tenant"

	// KeyManagedBy identifies the management system
	KeyManagedBy = "nodeforge.io/managed-by"
)

// ManagedByNodeforge is the value of KeyManagedBy for resources created here.
const ManagedByNodeforge = "nodeforge"

// LabelBuilder provides a fluent interface for building resource labels.
type LabelBuilder struct {
	labels map[string]string
}

// NewLabelBuilder creates a new label builder with the service name pre-set.
func NewLabelBuilder(service string) *LabelBuilder {
	return &LabelBuilder{
		labels: map[string]string{
			KeyService:   Value(service),
			KeyManagedBy: ManagedByNodeforge,
		},
	}
}

// WithNodeType adds a node type label.
func (lb *LabelBuilder) WithNodeType(nodeType string) *LabelBuilder {
	if nodeType != "" {
		lb.labels[KeyNodeType] = Value(nodeType)
	}
	return lb
}

// WithTenantIfSet adds a tenant label only if tenant is non-empty.
func (lb *LabelBuilder) WithTenantIfSet(tenant string) *LabelBuilder {
	if tenant != "" {
		lb.labels[KeyTenant] = Value(tenant)
	}
	return lb
}

// Merge adds all labels from the provided map.
func (lb *LabelBuilder) Merge(extra map[string]string) *LabelBuilder {
	for k, v := range extra {
		lb.labels[k] = v
	}
	return lb
}

// Build returns a copy of the labels map.
func (lb *LabelBuilder) Build() map[string]string {
	result := make(map[string]string, len(lb.labels))
	for k, v := range lb.labels {
		result[k] = v
	}
	return result
}

// SelectorForService returns a label selector matching every resource of a service.
func SelectorForService(service string) string {
	return KeyService + "=" + Value(service)
}

// Value normalises s into a valid label value: at most 63 characters of
// [a-zA-Z0-9._-], starting and ending with an alphanumeric character.
func Value(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	v := b.String()
	if len(v) > 63 {
		v = v[:63]
	}
	return strings.Trim(v, "._-")
}
