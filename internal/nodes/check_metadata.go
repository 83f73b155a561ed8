package nodes

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/repoflow/repoflow/internal/core/engine"
)

// MetadataCheck passes when a named comment-marker value from the issue/PR
// body matches a pattern.
type MetadataCheck struct {
	field   string
	pattern *regexp.Regexp
}

// NewMetadataCheck builds the check from a mapping with required keys
// "name" (the marker name) and "value" (a regular expression).
func NewMetadataCheck(params *yaml.Node, _ *engine.Dependencies) (engine.Node, error) {
	m, err := engine.MappingParam(params)
	if err != nil {
		return nil, err
	}
	field, ok := m["name"]
	if !ok || field == "" {
		return nil, fmt.Errorf("%w: check-metadata requires a \"name\" key", engine.ErrConfiguration)
	}
	value, ok := m["value"]
	if !ok {
		return nil, fmt.Errorf("%w: check-metadata requires a \"value\" key", engine.ErrConfiguration)
	}
	pattern, err := regexp.Compile(value)
	if err != nil {
		return nil, fmt.Errorf("%w: check-metadata value %q is not a valid pattern: %v", engine.ErrConfiguration, value, err)
	}
	return &MetadataCheck{field: strings.ToLower(field), pattern: pattern}, nil
}

// Name returns the step name.
func (c *MetadataCheck) Name() string { return "check-metadata" }

// Evaluate reports whether the marker exists and its value matches the
// configured pattern. A missing marker fails the check, not the run.
func (c *MetadataCheck) Evaluate(rc *engine.Context) (bool, error) {
	value, ok := rc.Metadata[c.field]
	if !ok {
		return false, nil
	}
	return c.pattern.MatchString(value), nil
}
