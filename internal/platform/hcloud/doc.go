// Package hcloud implements the provisioning cloud port on top of the
// Hetzner Cloud API.
//
// Flavors are server types, images are resolved by name, networks are
// created with a single cloud subnet, and servers are labelled with the
// service they belong to so a rollback can delete them by label selector.
//
// # Generic Operations
//
// DeleteOperation provides idempotent deletion with retry on locked
// resources. EnsureOperation provides get-or-create semantics with an
// optional validation of an existing resource.
//
// # Server Status
//
// Hetzner server states are folded into the provider-neutral strings the
// workflow understands: BUILD while the server is initializing, off,
// starting, migrating or rebuilding; ACTIVE once it is running; ERROR when it
// is stopping or being deleted; UNKNOWN otherwise. A server created with
// StartAfterCreate can briefly report off, so off keeps the launch polling.
package hcloud
