package nodes

import (
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/repoflow/repoflow/internal/core/engine"
)

// CommentCheck passes when the triggering comment body matches a pattern.
// On deliveries that carry no comment it always fails.
type CommentCheck struct {
	pattern *regexp.Regexp
}

// NewCommentCheck builds the check from a scalar regular expression.
func NewCommentCheck(params *yaml.Node, _ *engine.Dependencies) (engine.Node, error) {
	value, err := engine.ScalarParam(params)
	if err != nil {
		return nil, err
	}
	pattern, err := regexp.Compile(value)
	if err != nil {
		return nil, fmt.Errorf("%w: check-comment pattern %q is invalid: %v", engine.ErrConfiguration, value, err)
	}
	return &CommentCheck{pattern: pattern}, nil
}

// Name returns the step name.
func (c *CommentCheck) Name() string { return "check-comment" }

// Evaluate matches the pattern against the comment body.
func (c *CommentCheck) Evaluate(rc *engine.Context) (bool, error) {
	if rc.Event.CommentBody == "" {
		return false, nil
	}
	return c.pattern.MatchString(rc.Event.CommentBody), nil
}
