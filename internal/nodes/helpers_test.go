package nodes

import (
	"context"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/repoflow/repoflow/internal/core/engine"
)

// paramsFromYAML parses a YAML fragment into a parameter node.
func paramsFromYAML(t *testing.T, s string) *yaml.Node {
	t.Helper()
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(s), &root); err != nil {
		t.Fatalf("yaml parse failed: %v", err)
	}
	if len(root.Content) == 0 {
		t.Fatal("empty parameter fragment")
	}
	return root.Content[0]
}

func testContext(event *engine.Event) *engine.Context {
	return engine.NewContext(context.Background(), event, nil)
}

// fakeRepo records direct action calls.
type fakeRepo struct {
	comments []string
	states   []string
}

func (f *fakeRepo) AddLabels(_ context.Context, _, _ string, _ int, _ []string) error { return nil }
func (f *fakeRepo) RemoveLabel(_ context.Context, _, _ string, _ int, _ string) error { return nil }
func (f *fakeRepo) AddAssignees(_ context.Context, _, _ string, _ int, _ []string) error {
	return nil
}
func (f *fakeRepo) CreateComment(_ context.Context, _, _ string, _ int, body string) error {
	f.comments = append(f.comments, body)
	return nil
}
func (f *fakeRepo) SetIssueState(_ context.Context, _, _ string, _ int, state string) error {
	f.states = append(f.states, state)
	return nil
}

// fakeIdentity resolves a fixed login table.
type fakeIdentity struct {
	fte map[string]bool
}

func (f *fakeIdentity) Resolve(_ context.Context, login string) (engine.Identity, bool, error) {
	fte, ok := f.fte[login]
	if !ok {
		return engine.Identity{}, false, nil
	}
	return engine.Identity{Alias: login, FTE: fte}, true, nil
}
