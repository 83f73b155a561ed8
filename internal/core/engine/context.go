package engine

import (
	"context"
	"strings"

	"github.com/repoflow/repoflow/internal/core/config"
	"github.com/repoflow/repoflow/internal/utils/markers"
)

// Event is the normalized webhook event a run operates on.
type Event struct {
	// Type is the webhook event type ("issues", "pull_request",
	// "issue_comment").
	Type string `json:"type"`

	// Action is the current event action. Dispatch overwrites it when a
	// remap resolves to another action name.
	Action string `json:"action"`

	Org    string `json:"org"`
	Repo   string `json:"repo"`
	Number int    `json:"number"`

	Title  string   `json:"title"`
	Body   string   `json:"body"`
	State  string   `json:"state"` // "open" or "closed"
	Labels []string `json:"labels"`
	Author string   `json:"author"`

	// Comment fields are set for issue_comment deliveries only.
	CommentBody   string `json:"comment_body,omitempty"`
	CommentAuthor string `json:"comment_author,omitempty"`
}

// Result accumulates what a run did, for reporting and auditing.
type Result struct {
	RunID          string
	FinalAction    string
	Remapped       bool
	StepsRun       []string
	FailedCheck    string
	LabelsAdded    []string
	LabelsRemoved  []string
	AssigneesAdded []string
	CommentsPosted int
}

// Context is the mutable state threaded through every check and action of
// one delivery. It is created at the start of a run, discarded at the end,
// and never shared across deliveries, so it needs no locking.
type Context struct {
	// Ctx is the Go context for cancellation and timeouts.
	Ctx context.Context

	// Event is the delivery being processed.
	Event *Event

	// Config is the loaded bot configuration.
	Config *config.Config

	// RuleConfig is the config section of the rule document.
	RuleConfig map[string]string

	// Metadata maps comment-marker names to their captured values,
	// extracted from the issue/PR body at context creation.
	Metadata map[string]string

	// Pooled accumulates deferred label and assignee operations.
	Pooled *PooledOperations

	// Result accumulates the run outcome.
	Result *Result
}

// NewContext creates the run state for one delivery. Comment-marker
// metadata is extracted from the event body up front so checks can read it
// without further I/O.
func NewContext(ctx context.Context, event *Event, cfg *config.Config) *Context {
	return &Context{
		Ctx:      ctx,
		Event:    event,
		Config:   cfg,
		Metadata: markers.Extract(event.Body),
		Pooled:   NewPooledOperations(),
		Result:   &Result{FinalAction: event.Action},
	}
}

// HasLabel reports whether the event's issue carries the given label,
// compared case-insensitively.
func (rc *Context) HasLabel(name string) bool {
	for _, l := range rc.Event.Labels {
		if strings.EqualFold(l, name) {
			return true
		}
	}
	return false
}
