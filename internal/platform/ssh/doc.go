// Package ssh runs commands on remote servers over SSH.
//
// It backs the exec command of the CLI and lets operators run a command on a
// freshly provisioned server. Password and key authentication are supported.
// Every call opens its own connection and session and closes both before
// returning.
package ssh
