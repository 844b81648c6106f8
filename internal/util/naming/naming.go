package naming

import (
	"fmt"
	"strings"
)

// DefaultNodeType is used when a request does not name a node type.
const DefaultNodeType = "node"

// maxHostnameLength is the longest label a hostname may carry.
const maxHostnameLength = 63

// VM returns the server name for the node of a service.
func VM(service, nodeType string, ordinal int) string {
	if strings.TrimSpace(nodeType) == "" {
		nodeType = DefaultNodeType
	}
	name := fmt.Sprintf("%s-%s-%d", sanitize(service), sanitize(nodeType), ordinal)
	if len(name) > maxHostnameLength {
		name = strings.TrimRight(name[:maxHostnameLength], "-")
	}
	return name
}

// Network returns the network name used when a request omits one.
func Network(service string) string {
	return sanitize(service) + "-net"
}

// TrailPrefix returns the archive key prefix under which a service's task
// trails are stored.
func TrailPrefix(service string) string {
	return "tasks/" + sanitize(service) + "/"
}

// TrailObject returns the archive object key for a service's task trail.
func TrailObject(service, stamp string) string {
	return TrailPrefix(service) + stamp + ".json"
}

// sanitize lowercases s and replaces every character outside [a-z0-9-]
// with '-'. Leading and trailing dashes are trimmed.
func sanitize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
