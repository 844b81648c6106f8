// Package handlers implements the business logic for CLI commands.
//
// Handlers load configuration, wire the cloud adapter, task store, event
// publisher and archive together and run the provisioning workflow.
// Collaborator constructors are package variables so tests can replace them.
package handlers
