// Package github wraps the GitHub API for the rule engine: issue reads,
// the consolidated label/assignee writes the pooled batcher flushes, and
// rules-file retrieval.
package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v60/github"
)

// Client wraps the GitHub API client.
type Client struct {
	client *github.Client
}

// GetIssue fetches issue details.
func (c *Client) GetIssue(ctx context.Context, org, repo string, number int) (*github.Issue, error) {
	issue, _, err := c.client.Issues.Get(ctx, org, repo, number)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch issue: %w", err)
	}

	return issue, nil
}

// CreateComment posts a comment on an issue.
func (c *Client) CreateComment(ctx context.Context, org, repo string, number int, body string) error {
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("comment body cannot be empty")
	}

	comment := &github.IssueComment{
		Body: github.String(body),
	}
	_, _, err := c.client.Issues.CreateComment(ctx, org, repo, number, comment)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// AddLabels adds labels to an issue.
func (c *Client) AddLabels(ctx context.Context, org, repo string, number int, labels []string) error {
	if len(labels) == 0 {
		return fmt.Errorf("labels cannot be empty")
	}

	_, _, err := c.client.Issues.AddLabelsToIssue(ctx, org, repo, number, labels)
	if err != nil {
		return fmt.Errorf("failed to add labels: %w", err)
	}
	return nil
}

// RemoveLabel removes a single label from an issue. A label that is not
// present is not an error; the flush must stay idempotent.
func (c *Client) RemoveLabel(ctx context.Context, org, repo string, number int, label string) error {
	resp, err := c.client.Issues.RemoveLabelForIssue(ctx, org, repo, number, label)
	if err != nil {
		if resp != nil && resp.StatusCode == 404 {
			return nil
		}
		return fmt.Errorf("failed to remove label %q: %w", label, err)
	}
	return nil
}

// AddAssignees assigns the given logins to an issue.
func (c *Client) AddAssignees(ctx context.Context, org, repo string, number int, assignees []string) error {
	if len(assignees) == 0 {
		return fmt.Errorf("assignees cannot be empty")
	}

	_, _, err := c.client.Issues.AddAssignees(ctx, org, repo, number, assignees)
	if err != nil {
		return fmt.Errorf("failed to add assignees: %w", err)
	}
	return nil
}

// SetIssueState closes or reopens an issue. state is "open" or "closed".
func (c *Client) SetIssueState(ctx context.Context, org, repo string, number int, state string) error {
	if state != "open" && state != "closed" {
		return fmt.Errorf("invalid issue state %q", state)
	}

	req := &github.IssueRequest{State: github.String(state)}
	_, _, err := c.client.Issues.Edit(ctx, org, repo, number, req)
	if err != nil {
		return fmt.Errorf("failed to set issue state: %w", err)
	}
	return nil
}

// GetFileContent fetches a file from a repository. ref may be empty for the
// default branch. Used to load rules files and remote configs.
func (c *Client) GetFileContent(ctx context.Context, org, repo, path, ref string) ([]byte, error) {
	opts := &github.RepositoryContentGetOptions{}
	if ref != "" {
		opts.Ref = ref
	}

	file, _, _, err := c.client.Repositories.GetContents(ctx, org, repo, path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s/%s:%s: %w", org, repo, path, err)
	}
	if file == nil {
		return nil, fmt.Errorf("%s/%s:%s is a directory, not a file", org, repo, path)
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s/%s:%s: %w", org, repo, path, err)
	}
	return []byte(content), nil
}
