package config

import "github.com/imamik/nodeforge/internal/util/naming"

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverBadger = "badger"
)

// Config holds the application configuration.
type Config struct {
	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
	Archive ArchiveConfig `mapstructure:"archive" yaml:"archive"`
	Events  EventsConfig  `mapstructure:"events" yaml:"events"`
	Network NetworkConfig `mapstructure:"network" yaml:"network"`

	// Location is the datacenter location servers are placed in.
	// Empty lets the provider choose.
	Location string `mapstructure:"location" yaml:"location"`

	// MetricsAddr enables the Prometheus endpoint when set (e.g. ":9090").
	MetricsAddr string `mapstructure:"metrics_addr" yaml:"metrics_addr"`

	Timeouts *Timeouts `mapstructure:"-" yaml:"-"`
}

// StoreConfig selects where task progress is persisted.
type StoreConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver"`

	// Server is the data directory for the embedded drivers.
	Server   string `mapstructure:"server" yaml:"server"`
	Port     int    `mapstructure:"port" yaml:"port"`
	Database string `mapstructure:"database" yaml:"database"`
}

// ArchiveConfig configures the S3-compatible bucket that receives task trails.
type ArchiveConfig struct {
	// URL is a Hetzner Object Storage URL (bucket.region.your-objectstorage.com).
	// When set, Bucket, Region and Endpoint are derived from it.
	URL string `mapstructure:"url" yaml:"url"`

	Bucket       string `mapstructure:"bucket" yaml:"bucket"`
	Region       string `mapstructure:"region" yaml:"region"`
	Endpoint     string `mapstructure:"endpoint" yaml:"endpoint"`
	UsePathStyle bool   `mapstructure:"use_path_style" yaml:"use_path_style"`
	AccessKey    string `mapstructure:"access_key" yaml:"access_key"`
	SecretKey    string `mapstructure:"secret_key" yaml:"secret_key"`
}

// Enabled reports whether trails should be archived.
func (a ArchiveConfig) Enabled() bool {
	return a.Bucket != ""
}

// EventsConfig configures the NATS subject progress notes are published to.
type EventsConfig struct {
	URL     string `mapstructure:"url" yaml:"url"`
	Subject string `mapstructure:"subject" yaml:"subject"`
}

// Enabled reports whether progress events should be published.
func (e EventsConfig) Enabled() bool {
	return e.URL != ""
}

// NetworkConfig holds the settings used when a missing network is created.
type NetworkConfig struct {
	IPv4CIDR string `mapstructure:"ipv4_cidr" yaml:"ipv4_cidr"`
	Zone     string `mapstructure:"zone" yaml:"zone"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.Timeouts = LoadTimeouts()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Store.Driver == "" {
		c.Store.Driver = DriverSQLite
	}
	if c.Store.Server == "" {
		c.Store.Server = ".nodeforge"
	}
	if c.Store.Database == "" {
		c.Store.Database = "tasks"
	}
	if c.Network.IPv4CIDR == "" {
		c.Network.IPv4CIDR = "10.0.0.0/16"
	}
	if c.Network.Zone == "" {
		c.Network.Zone = "eu-central"
	}
	if c.Events.Enabled() && c.Events.Subject == "" {
		c.Events.Subject = "nodeforge.tasks"
	}
	if c.Archive.URL != "" {
		applyObjectStorageDefaults(&c.Archive)
	}
}

// DefaultNetworkName is used when a request does not name a network.
func DefaultNetworkName(service string) string {
	return naming.Network(service)
}
