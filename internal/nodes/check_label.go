package nodes

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/repoflow/repoflow/internal/core/engine"
)

// LabelCheck passes when the issue or pull request carries at least one of
// the configured labels.
type LabelCheck struct {
	labels []string
}

// NewLabelCheck builds the check from a scalar label name or a sequence of
// names.
func NewLabelCheck(params *yaml.Node, _ *engine.Dependencies) (engine.Node, error) {
	labels, err := engine.StringListParam(params)
	if err != nil {
		return nil, err
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: check-label requires at least one label name", engine.ErrConfiguration)
	}
	return &LabelCheck{labels: labels}, nil
}

// Name returns the step name.
func (c *LabelCheck) Name() string { return "check-label" }

// Evaluate reports whether any configured label is present on the event.
func (c *LabelCheck) Evaluate(rc *engine.Context) (bool, error) {
	for _, label := range c.labels {
		if rc.HasLabel(label) {
			return true, nil
		}
	}
	return false, nil
}
