package configs

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

var validProbeKinds = map[string]bool{
	ProbeKindRelational: true,
	ProbeKindCache:      true,
}

var validDBDrivers = map[string]bool{
	"postgres": true,
	"sqlite":   true,
}

// Validate checks the loaded configuration and reports every problem at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Status.OverallDeadline <= 0 {
		result = multierror.Append(result, fmt.Errorf("status: overall deadline must be positive, got %s", c.Status.OverallDeadline))
	}
	if c.Status.GracePeriod < 0 {
		result = multierror.Append(result, fmt.Errorf("status: grace period must not be negative, got %s", c.Status.GracePeriod))
	}
	if c.Status.SlowThreshold < 0 {
		result = multierror.Append(result, fmt.Errorf("status: slow threshold must not be negative, got %s", c.Status.SlowThreshold))
	}

	names := make(map[string]bool, len(c.Status.Probes))
	for i, p := range c.Status.Probes {
		if strings.TrimSpace(p.Name) == "" {
			result = multierror.Append(result, fmt.Errorf("probe[%d]: name is required", i))
		} else if names[p.Name] {
			result = multierror.Append(result, fmt.Errorf("probe %q: duplicate name", p.Name))
		}
		names[p.Name] = true
		if !validProbeKinds[p.Kind] {
			result = multierror.Append(result, fmt.Errorf("probe %q: invalid kind %q (must be relational or cache)", p.Name, p.Kind))
		}
		if p.Timeout < 0 {
			result = multierror.Append(result, fmt.Errorf("probe %q: timeout must not be negative, got %s", p.Name, p.Timeout))
		}
	}

	if c.Status.NeedsKind(ProbeKindRelational) {
		if !validDBDrivers[c.Database.Driver] {
			result = multierror.Append(result, fmt.Errorf("database: unsupported driver %q (must be postgres or sqlite)", c.Database.Driver))
		}
		if c.Database.DSN == "" {
			result = multierror.Append(result, fmt.Errorf("database: dsn is empty"))
		}
	}

	return result.ErrorOrNil()
}
