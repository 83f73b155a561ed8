package nodes

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/repoflow/repoflow/internal/core/engine"
)

// LabelsAction queues labels for pooled addition or removal after the rule
// sequence completes.
type LabelsAction struct {
	subtype engine.Subtype
	labels  []string
}

// NewLabelsAction returns a factory bound to the given subtype. Parameters
// are a scalar label name or a sequence of names; token placeholders are
// expanded at execution time.
func NewLabelsAction(subtype engine.Subtype) engine.NodeFactory {
	return func(params *yaml.Node, _ *engine.Dependencies) (engine.Node, error) {
		switch subtype {
		case engine.SubtypeAdd, engine.SubtypeRemove:
		default:
			return nil, fmt.Errorf("%w: labels action does not support subtype %s", engine.ErrConfiguration, subtype)
		}
		labels, err := engine.StringListParam(params)
		if err != nil {
			return nil, err
		}
		if len(labels) == 0 {
			return nil, fmt.Errorf("%w: labels-%s requires at least one label name", engine.ErrConfiguration, subtype)
		}
		return &LabelsAction{subtype: subtype, labels: labels}, nil
	}
}

// Name returns the step name.
func (a *LabelsAction) Name() string { return "labels-" + a.subtype.String() }

// Execute queues each label into the pooled batch.
func (a *LabelsAction) Execute(rc *engine.Context) error {
	for _, label := range a.labels {
		name := expandTokens(rc, label)
		switch a.subtype {
		case engine.SubtypeAdd:
			rc.Pooled.AddLabel(name)
		case engine.SubtypeRemove:
			rc.Pooled.RemoveLabel(name)
		}
	}
	return nil
}
