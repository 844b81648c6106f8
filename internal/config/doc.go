// Package config defines the runtime configuration of nodeforge.
//
// A [Config] is read from a YAML file and names the task store, the optional
// trail archive and event subject, and the defaults used when a network has
// to be created. Timeouts come from the environment, see [LoadTimeouts].
// Provisioning requests are YAML files as well, see [LoadRequest].
package config
