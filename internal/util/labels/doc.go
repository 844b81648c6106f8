// Package labels provides consistent labeling for provisioned cloud resources.
//
// All labels use the nodeforge.io domain prefix. Servers carry the service,
// node type and tenant they were provisioned for, so a rollback can find
// every server of a service with a single selector.
package labels
