// Package naming provides consistent naming functions for cloud resources.
//
// Servers follow the pattern {service}-{nodetype}-{ordinal}. Names are
// lowercased and stripped of characters that are not valid in a hostname,
// so the same request always yields the same server name.
package naming
