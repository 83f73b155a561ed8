package engine

import (
	"fmt"
	"log"

	"gopkg.in/yaml.v3"
)

// StepObserver receives step lifecycle notifications. Status is one of
// "started", "pass", "fail", "success", "error". Observation is a side
// collaborator for display; it plays no part in control flow.
type StepObserver func(step, status, message string)

// Runner interprets a dispatched step sequence: it builds each node from
// the name→constructor table and executes the nodes in order. A check that
// evaluates false halts every remaining step in the sequence; gating is
// scoped to the whole list, not just the next element.
type Runner struct {
	registry *Registry
	deps     *Dependencies

	// Observer, when set, is notified of each step's outcome.
	Observer StepObserver
}

// NewRunner creates a runner over a registry and its node dependencies.
func NewRunner(registry *Registry, deps *Dependencies) *Runner {
	return &Runner{registry: registry, deps: deps}
}

// Run executes the steps of seq against rc, in order, synchronously. A
// false check is a normal outcome and returns nil; configuration faults
// and external failures abort with an error.
func (r *Runner) Run(rc *Context, seq *yaml.Node) error {
	specs, err := stepSpecs(seq)
	if err != nil {
		return err
	}

	// Build everything up front so an authoring mistake anywhere in the
	// sequence fails the run before the first step executes.
	nodes := make([]Node, len(specs))
	for i, spec := range specs {
		node, err := r.build(spec)
		if err != nil {
			r.notify(spec.name, "error", err.Error())
			return err
		}
		nodes[i] = node
	}

	for i, spec := range specs {
		node := nodes[i]

		log.Printf("[runner] step %q on %s/%s#%d", spec.name, rc.Event.Org, rc.Event.Repo, rc.Event.Number)
		r.notify(spec.name, "started", "")
		rc.Result.StepsRun = append(rc.Result.StepsRun, spec.name)

		switch n := node.(type) {
		case Check:
			ok, err := n.Evaluate(rc)
			if err != nil {
				r.notify(spec.name, "error", err.Error())
				return fmt.Errorf("check %q failed: %w", spec.name, err)
			}
			if !ok {
				log.Printf("[runner] check %q: fail, stopping sequence", spec.name)
				rc.Result.FailedCheck = spec.name
				r.notify(spec.name, "fail", "check evaluated false")
				return nil
			}
			log.Printf("[runner] check %q: pass", spec.name)
			r.notify(spec.name, "pass", "")
		case Action:
			if err := n.Execute(rc); err != nil {
				r.notify(spec.name, "error", err.Error())
				return fmt.Errorf("action %q failed: %w", spec.name, err)
			}
			r.notify(spec.name, "success", "")
		default:
			return fmt.Errorf("%w: step %q is neither a check nor an action", ErrConfiguration, spec.name)
		}
	}
	return nil
}

// build constructs the node for one step spec via the registry.
func (r *Runner) build(spec stepSpec) (Node, error) {
	factory, ok := r.registry.Get(spec.name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown step %q", ErrConfiguration, spec.name)
	}
	node, err := factory(spec.params, r.deps)
	if err != nil {
		return nil, fmt.Errorf("step %q: %w", spec.name, err)
	}
	return node, nil
}

func (r *Runner) notify(step, status, message string) {
	if r.Observer != nil {
		r.Observer(step, status, message)
	}
}

// stepSpec is one position in the rule tree: the step name selecting the
// node variant plus the sub-node supplying its parameters.
type stepSpec struct {
	name   string
	params *yaml.Node
}

// stepSpecs validates the shape of a dispatched sequence: every element
// must be a mapping with exactly one step-name key.
func stepSpecs(seq *yaml.Node) ([]stepSpec, error) {
	if seq == nil || seq.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: expected a step sequence, got %s", ErrConfiguration, kindName(seq))
	}
	specs := make([]stepSpec, 0, len(seq.Content))
	for i, item := range seq.Content {
		if item.Kind != yaml.MappingNode || len(item.Content) != 2 {
			return nil, fmt.Errorf("%w: step %d must be a single-key mapping, got %s", ErrConfiguration, i, kindName(item))
		}
		key := item.Content[0]
		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: step %d has a non-scalar name", ErrConfiguration, i)
		}
		specs = append(specs, stepSpec{name: key.Value, params: item.Content[1]})
	}
	return specs, nil
}

// StepNames lists the step names of a dispatched sequence without building
// any node. Used for progress display.
func StepNames(seq *yaml.Node) ([]string, error) {
	specs, err := stepSpecs(seq)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(specs))
	for i, spec := range specs {
		names[i] = spec.name
	}
	return names, nil
}

// ValidateDocument walks every (event-type, event-action) pair of a
// document, resolves remaps, and constructs every node, so a rules file
// can be linted without executing anything.
func ValidateDocument(doc *RuleDocument, registry *Registry, deps *Dependencies) error {
	runner := NewRunner(registry, deps)
	for _, eventType := range doc.EventTypes() {
		actions := doc.actions(eventType)
		for i := 0; i+1 < len(actions.Content); i += 2 {
			action := actions.Content[i].Value
			dispatch, err := doc.Resolve(eventType, action)
			if err != nil {
				return err
			}
			if dispatch.Unmapped {
				continue
			}
			specs, err := stepSpecs(dispatch.Sequence)
			if err != nil {
				return fmt.Errorf("%s.%s: %w", eventType, action, err)
			}
			for _, spec := range specs {
				if _, err := runner.build(spec); err != nil {
					return fmt.Errorf("%s.%s: %w", eventType, action, err)
				}
			}
		}
	}
	return nil
}
