package engine

import (
	"fmt"
	"log"

	"gopkg.in/yaml.v3"
)

// dispatchState enumerates the outcomes of one lookup round during
// resolution of an (event-type, event-action) pair.
type dispatchState int

const (
	// stateResolved: a step sequence was found for the action.
	stateResolved dispatchState = iota
	// stateRemap: a scalar was found; the action name aliases another.
	stateRemap
	// stateUnmapped: the document has no entry for the pair; the run is
	// a no-op.
	stateUnmapped
	// stateError: malformed node kind, self-remap, or a second remap.
	stateError
)

// Dispatch holds the outcome of resolving an event against a document.
type Dispatch struct {
	// Sequence is the step sequence to run; nil when Unmapped.
	Sequence *yaml.Node

	// FinalAction is the action name the sequence was found under. It
	// differs from the delivered action when a remap occurred.
	FinalAction string

	// Remapped is true when one remap hop was taken.
	Remapped bool

	// Unmapped is true when the document has no handling for the pair.
	Unmapped bool
}

// Resolve selects the step sequence for (eventType, action). A scalar entry
// remaps the action name to another entry under the same event type; at
// most one hop is permitted, so a self-remap or a remap chain fails with a
// configuration error before any step executes. The loop is structurally
// bounded: it runs at most twice.
func (d *RuleDocument) Resolve(eventType, action string) (*Dispatch, error) {
	actions := d.actions(eventType)
	if actions == nil {
		return &Dispatch{Unmapped: true}, nil
	}

	current := action
	remapped := false
	for hop := 0; hop <= 1; hop++ {
		node := findKey(actions, current)

		state := stateUnmapped
		switch {
		case node == nil:
			state = stateUnmapped
		case node.Kind == yaml.SequenceNode:
			state = stateResolved
		case node.Kind == yaml.ScalarNode:
			state = stateRemap
		default:
			state = stateError
		}

		switch state {
		case stateUnmapped:
			return &Dispatch{Unmapped: true, Remapped: remapped}, nil
		case stateResolved:
			return &Dispatch{Sequence: node, FinalAction: current, Remapped: remapped}, nil
		case stateError:
			return nil, fmt.Errorf("%w: %s.%s must be a step sequence or a remap target, got %s",
				ErrConfiguration, eventType, current, kindName(node))
		case stateRemap:
			target := node.Value
			if target == current {
				return nil, fmt.Errorf("%w: %s.%s remaps to itself", ErrConfiguration, eventType, current)
			}
			if remapped {
				return nil, fmt.Errorf("%w: %s.%s remaps to %q after an earlier remap; only one hop is allowed",
					ErrConfiguration, eventType, current, target)
			}
			log.Printf("[dispatch] remapping %s.%s -> %s", eventType, current, target)
			current = target
			remapped = true
		}
	}

	// Unreachable: every state on the second iteration returns above.
	return nil, fmt.Errorf("%w: remap resolution did not terminate for %s.%s", ErrConfiguration, eventType, action)
}
