package nodes

import (
	"fmt"
	"log"

	"gopkg.in/yaml.v3"

	"github.com/repoflow/repoflow/internal/core/engine"
)

// AssigneesAction queues assignee logins for pooled addition. When an
// identity resolver is configured, logins that do not resolve to a
// full-time organizational identity are dropped rather than assigned.
type AssigneesAction struct {
	logins []string

	identity engine.IdentityResolver
}

// NewAssigneesAction returns a factory bound to the given subtype. Only
// addition is supported; an unsupported subtype fails construction so the
// mistake surfaces when the rule file is built, not mid-run.
func NewAssigneesAction(subtype engine.Subtype) engine.NodeFactory {
	return func(params *yaml.Node, deps *engine.Dependencies) (engine.Node, error) {
		if subtype != engine.SubtypeAdd {
			return nil, fmt.Errorf("%w: assignees action does not support subtype %s", engine.ErrConfiguration, subtype)
		}
		logins, err := engine.StringListParam(params)
		if err != nil {
			return nil, err
		}
		if len(logins) == 0 {
			return nil, fmt.Errorf("%w: assignees-add requires at least one login", engine.ErrConfiguration)
		}
		return &AssigneesAction{logins: logins, identity: deps.Identity}, nil
	}
}

// Name returns the step name.
func (a *AssigneesAction) Name() string { return "assignees-add" }

// Execute queues each eligible login into the pooled batch.
func (a *AssigneesAction) Execute(rc *engine.Context) error {
	for _, login := range a.logins {
		login = expandTokens(rc, login)
		if login == "" {
			continue
		}
		if a.identity != nil {
			id, ok, err := a.identity.Resolve(rc.Ctx, login)
			if err != nil {
				return fmt.Errorf("resolve identity for %q: %w", login, err)
			}
			if !ok || !id.FTE {
				log.Printf("[assignees-add] skipping %q: not an FTE identity", login)
				continue
			}
		}
		rc.Pooled.AddAssignee(login)
	}
	return nil
}
