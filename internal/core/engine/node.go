// Package engine implements the declarative rule engine: the rule document
// model, event dispatch with remapping, the step runner, and the pooled
// operation batcher. Concrete checks and actions live in internal/nodes.
package engine

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Node is the contract shared by all rule-tree steps.
type Node interface {
	// Name returns the step name the node was registered under.
	Name() string
}

// Check evaluates a boolean predicate against the run state.
// A check must not mutate the Context (logging aside). A false result is
// not an error; it halts the remaining steps in the dispatched sequence.
type Check interface {
	Node
	Evaluate(rc *Context) (bool, error)
}

// Action performs a side-effecting step: queueing a pooled operation or
// calling an external collaborator directly.
type Action interface {
	Node
	Execute(rc *Context) error
}

// Subtype discriminates collection actions (add vs. remove members).
type Subtype int

const (
	SubtypeAdd Subtype = iota
	SubtypeRemove
)

// String returns the lowercase subtype name.
func (s Subtype) String() string {
	switch s {
	case SubtypeAdd:
		return "add"
	case SubtypeRemove:
		return "remove"
	default:
		return fmt.Sprintf("subtype(%d)", int(s))
	}
}

// RepositoryClient is the capability interface actions use to reach the
// source tracker. Implemented by internal/integrations/github.
type RepositoryClient interface {
	AddLabels(ctx context.Context, org, repo string, number int, labels []string) error
	RemoveLabel(ctx context.Context, org, repo string, number int, label string) error
	AddAssignees(ctx context.Context, org, repo string, number int, assignees []string) error
	CreateComment(ctx context.Context, org, repo string, number int, body string) error
	SetIssueState(ctx context.Context, org, repo string, number int, state string) error
}

// Identity is an organizational identity resolved from a tracker login.
type Identity struct {
	Alias string
	Email string
	FTE   bool
}

// IdentityResolver maps a source-tracker login to an organizational
// identity. The second return is false when the login is unknown.
type IdentityResolver interface {
	Resolve(ctx context.Context, login string) (Identity, bool, error)
}

// Dependencies holds the collaborators injected into node constructors.
type Dependencies struct {
	Repo     RepositoryClient
	Identity IdentityResolver

	// DryRun makes direct actions and the pooled flush log instead of
	// calling the tracker API.
	DryRun bool
}

// ScalarParam returns the value of a scalar parameter node.
func ScalarParam(node *yaml.Node) (string, error) {
	if node == nil || node.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("%w: expected a scalar parameter, got %s", ErrConfiguration, kindName(node))
	}
	return node.Value, nil
}

// StringListParam returns the values of a parameter node that is either a
// single scalar or a sequence of scalars.
func StringListParam(node *yaml.Node) ([]string, error) {
	if node == nil {
		return nil, fmt.Errorf("%w: missing parameter node", ErrConfiguration)
	}
	switch node.Kind {
	case yaml.ScalarNode:
		return []string{node.Value}, nil
	case yaml.SequenceNode:
		values := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("%w: expected scalar sequence items, got %s", ErrConfiguration, kindName(item))
			}
			values = append(values, item.Value)
		}
		return values, nil
	default:
		return nil, fmt.Errorf("%w: expected a scalar or sequence parameter, got %s", ErrConfiguration, kindName(node))
	}
}

// MappingParam returns the key/value pairs of a mapping parameter node as a
// map of scalar values.
func MappingParam(node *yaml.Node) (map[string]string, error) {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: expected a mapping parameter, got %s", ErrConfiguration, kindName(node))
	}
	params := make(map[string]string, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if key.Kind != yaml.ScalarNode || value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: expected scalar mapping entries, got %s: %s", ErrConfiguration, kindName(key), kindName(value))
		}
		params[key.Value] = value.Value
	}
	return params, nil
}

// kindName renders a yaml node kind for error messages.
func kindName(node *yaml.Node) string {
	if node == nil {
		return "nothing"
	}
	switch node.Kind {
	case yaml.DocumentNode:
		return "a document"
	case yaml.MappingNode:
		return "a mapping"
	case yaml.SequenceNode:
		return "a sequence"
	case yaml.ScalarNode:
		return "a scalar"
	case yaml.AliasNode:
		return "an alias"
	default:
		return "an unknown node"
	}
}
