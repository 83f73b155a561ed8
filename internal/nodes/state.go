package nodes

import (
	"fmt"
	"log"

	"gopkg.in/yaml.v3"

	"github.com/repoflow/repoflow/internal/core/engine"
)

// StateAction closes or reopens the issue or pull request directly.
type StateAction struct {
	state string // "closed" or "open"

	repo   engine.RepositoryClient
	dryRun bool
}

// NewStateAction returns a factory for the given target state. The
// parameter node must be empty (a null scalar); close/reopen take none.
func NewStateAction(state string) engine.NodeFactory {
	return func(params *yaml.Node, deps *engine.Dependencies) (engine.Node, error) {
		if params != nil && !(params.Kind == yaml.ScalarNode && params.Value == "") {
			return nil, fmt.Errorf("%w: the %s step takes no parameters", engine.ErrConfiguration, stateStepName(state))
		}
		return &StateAction{state: state, repo: deps.Repo, dryRun: deps.DryRun}, nil
	}
}

// Name returns the step name.
func (a *StateAction) Name() string { return stateStepName(a.state) }

// Execute sets the issue state.
func (a *StateAction) Execute(rc *engine.Context) error {
	ev := rc.Event
	if a.dryRun {
		log.Printf("[%s] DRY RUN: would set %s/%s#%d to %q", a.Name(), ev.Org, ev.Repo, ev.Number, a.state)
		return nil
	}
	if a.repo == nil {
		return fmt.Errorf("%s requires a repository client", a.Name())
	}
	return a.repo.SetIssueState(rc.Ctx, ev.Org, ev.Repo, ev.Number, a.state)
}

func stateStepName(state string) string {
	if state == "closed" {
		return "close"
	}
	return "reopen"
}
