package config

import (
	"errors"
	"fmt"
	"net"
)

// ValidNetworkZones contains all valid Hetzner Cloud network zones.
// https://docs.hetzner.com/cloud/networks/overview/
var ValidNetworkZones = map[string]bool{
	"eu-central":   true,
	"us-east":      true,
	"us-west":      true,
	"ap-southeast": true,
}

// ValidLocations contains all valid Hetzner Cloud datacenter locations.
var ValidLocations = map[string]bool{
	"nbg1": true,
	"fsn1": true,
	"hel1": true,
	"ash":  true,
	"hil":  true,
	"sin":  true,
}

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Driver {
	case DriverSQLite, DriverBadger:
	default:
		errs = append(errs, fmt.Errorf("store.driver %q is not supported (use %s or %s)", c.Store.Driver, DriverSQLite, DriverBadger))
	}
	if c.Store.Port < 0 {
		errs = append(errs, fmt.Errorf("store.port must not be negative, got %d", c.Store.Port))
	}
	if c.Store.Database == "" {
		errs = append(errs, errors.New("store.database is required"))
	}

	if _, _, err := net.ParseCIDR(c.Network.IPv4CIDR); err != nil {
		errs = append(errs, fmt.Errorf("network.ipv4_cidr %q is invalid: %w", c.Network.IPv4CIDR, err))
	}
	if !ValidNetworkZones[c.Network.Zone] {
		errs = append(errs, fmt.Errorf("network.zone %q is not a valid network zone", c.Network.Zone))
	}
	if c.Location != "" && !ValidLocations[c.Location] {
		errs = append(errs, fmt.Errorf("location %q is not a valid location", c.Location))
	}

	if c.Archive.URL != "" && c.Archive.Bucket == "" {
		errs = append(errs, fmt.Errorf("archive.url %q is not an object storage URL", c.Archive.URL))
	}

	return errors.Join(errs...)
}
