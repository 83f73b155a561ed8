package nodes

import (
	"fmt"
	"log"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/repoflow/repoflow/internal/core/engine"
)

// AuthorCheck passes when the event author is one of the configured logins,
// or, in FTE mode, when the author resolves to a full-time organizational
// identity through the identity resolver.
type AuthorCheck struct {
	logins []string
	fte    bool

	identity engine.IdentityResolver
}

// NewAuthorCheck builds the check. Parameters are either a scalar/sequence
// of logins, or a mapping with "fte: true" to gate on organizational
// membership instead.
func NewAuthorCheck(params *yaml.Node, deps *engine.Dependencies) (engine.Node, error) {
	if params != nil && params.Kind == yaml.MappingNode {
		m, err := engine.MappingParam(params)
		if err != nil {
			return nil, err
		}
		if m["fte"] != "true" {
			return nil, fmt.Errorf("%w: check-author mapping form requires \"fte: true\"", engine.ErrConfiguration)
		}
		return &AuthorCheck{fte: true, identity: deps.Identity}, nil
	}

	logins, err := engine.StringListParam(params)
	if err != nil {
		return nil, err
	}
	if len(logins) == 0 {
		return nil, fmt.Errorf("%w: check-author requires at least one login", engine.ErrConfiguration)
	}
	return &AuthorCheck{logins: logins}, nil
}

// Name returns the step name.
func (c *AuthorCheck) Name() string { return "check-author" }

// Evaluate applies the login list or the FTE lookup to the event author.
func (c *AuthorCheck) Evaluate(rc *engine.Context) (bool, error) {
	author := rc.Event.Author
	if c.fte {
		if c.identity == nil {
			log.Printf("[check-author] no identity resolver configured, failing FTE check for %q", author)
			return false, nil
		}
		id, ok, err := c.identity.Resolve(rc.Ctx, author)
		if err != nil {
			return false, fmt.Errorf("resolve identity for %q: %w", author, err)
		}
		return ok && id.FTE, nil
	}

	for _, login := range c.logins {
		if strings.EqualFold(login, author) {
			return true, nil
		}
	}
	return false, nil
}
