package nodes

import (
	"fmt"
	"log"

	"gopkg.in/yaml.v3"

	"github.com/repoflow/repoflow/internal/core/engine"
)

// CommentAction posts a comment on the issue or pull request. Comments are
// not pooled; the body is token-expanded and posted immediately.
type CommentAction struct {
	body string

	repo   engine.RepositoryClient
	dryRun bool
}

// NewCommentAction builds the action from a scalar comment body template.
func NewCommentAction(params *yaml.Node, deps *engine.Dependencies) (engine.Node, error) {
	body, err := engine.ScalarParam(params)
	if err != nil {
		return nil, err
	}
	if body == "" {
		return nil, fmt.Errorf("%w: comment requires a non-empty body", engine.ErrConfiguration)
	}
	return &CommentAction{body: body, repo: deps.Repo, dryRun: deps.DryRun}, nil
}

// Name returns the step name.
func (a *CommentAction) Name() string { return "comment" }

// Execute posts the expanded comment body.
func (a *CommentAction) Execute(rc *engine.Context) error {
	body := expandTokens(rc, a.body)
	ev := rc.Event

	if a.dryRun {
		log.Printf("[comment] DRY RUN: would comment on %s/%s#%d:\n%s", ev.Org, ev.Repo, ev.Number, body)
		rc.Result.CommentsPosted++
		return nil
	}
	if a.repo == nil {
		return fmt.Errorf("comment action requires a repository client")
	}
	if err := a.repo.CreateComment(rc.Ctx, ev.Org, ev.Repo, ev.Number, body); err != nil {
		return err
	}
	rc.Result.CommentsPosted++
	return nil
}
