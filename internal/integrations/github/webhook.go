package github

import (
	"fmt"
	"net/http"

	"github.com/google/go-github/v60/github"

	"github.com/repoflow/repoflow/internal/core/engine"
)

// ParseWebhook validates the delivery signature against secret and
// normalizes the payload into an engine.Event. It returns the delivery ID
// GitHub assigned, which may be empty. Event types other than issues,
// pull_request and issue_comment return a nil event.
func ParseWebhook(r *http.Request, secret []byte) (*engine.Event, string, error) {
	payload, err := github.ValidatePayload(r, secret)
	if err != nil {
		return nil, "", fmt.Errorf("invalid webhook payload: %w", err)
	}

	webhookType := github.WebHookType(r)
	delivery := github.DeliveryID(r)

	raw, err := github.ParseWebHook(webhookType, payload)
	if err != nil {
		return nil, delivery, fmt.Errorf("failed to parse %q payload: %w", webhookType, err)
	}

	switch ev := raw.(type) {
	case *github.IssuesEvent:
		event := eventFromIssue(ev.GetIssue())
		event.Type = "issues"
		event.Action = ev.GetAction()
		event.Org = ev.GetRepo().GetOwner().GetLogin()
		event.Repo = ev.GetRepo().GetName()
		return event, delivery, nil

	case *github.PullRequestEvent:
		pr := ev.GetPullRequest()
		event := &engine.Event{
			Type:   "pull_request",
			Action: ev.GetAction(),
			Org:    ev.GetRepo().GetOwner().GetLogin(),
			Repo:   ev.GetRepo().GetName(),
			Number: pr.GetNumber(),
			Title:  pr.GetTitle(),
			Body:   pr.GetBody(),
			State:  pr.GetState(),
			Author: pr.GetUser().GetLogin(),
		}
		for _, l := range pr.Labels {
			event.Labels = append(event.Labels, l.GetName())
		}
		return event, delivery, nil

	case *github.IssueCommentEvent:
		event := eventFromIssue(ev.GetIssue())
		event.Type = "issue_comment"
		event.Action = ev.GetAction()
		event.Org = ev.GetRepo().GetOwner().GetLogin()
		event.Repo = ev.GetRepo().GetName()
		event.CommentBody = ev.GetComment().GetBody()
		event.CommentAuthor = ev.GetComment().GetUser().GetLogin()
		return event, delivery, nil

	default:
		return nil, delivery, nil
	}
}

func eventFromIssue(issue *github.Issue) *engine.Event {
	event := &engine.Event{
		Number: issue.GetNumber(),
		Title:  issue.GetTitle(),
		Body:   issue.GetBody(),
		State:  issue.GetState(),
		Author: issue.GetUser().GetLogin(),
	}
	for _, l := range issue.Labels {
		event.Labels = append(event.Labels, l.GetName())
	}
	return event
}
