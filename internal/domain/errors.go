package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrMetricsNotAvailable = errors.New("metrics server not available")

// ConfigError reports an unrecognized selector or setting. It is raised before
// any collection runs.
type ConfigError struct {
	Field   string
	Value   string
	Allowed []string
}

func (e *ConfigError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
	}
	return fmt.Sprintf("invalid %s %q (allowed: %s)", e.Field, e.Value, strings.Join(e.Allowed, ", "))
}
