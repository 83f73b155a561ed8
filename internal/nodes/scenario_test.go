package nodes

import (
	"testing"

	"github.com/repoflow/repoflow/internal/core/engine"
)

const triageRules = `
schema-version: 1
issues:
  labeled:
    - check-label: trigger-label
    - assignees-add: "{author}"
`

func runScenario(t *testing.T, rules string, event *engine.Event) *engine.Context {
	t.Helper()

	doc, err := engine.LoadDocument([]byte(rules), 1)
	if err != nil {
		t.Fatalf("LoadDocument failed: %v", err)
	}
	dispatch, err := doc.Resolve(event.Type, event.Action)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if dispatch.Unmapped {
		t.Fatal("expected a resolved dispatch")
	}
	event.Action = dispatch.FinalAction

	registry := engine.NewRegistry()
	RegisterAll(registry)

	rc := testContext(event)
	runner := engine.NewRunner(registry, &engine.Dependencies{})
	if err := runner.Run(rc, dispatch.Sequence); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return rc
}

// An issue carrying the trigger label gets its author queued for
// assignment; nothing is flushed yet.
func TestTriggerLabelAssignsAuthor(t *testing.T) {
	rc := runScenario(t, triageRules, &engine.Event{
		Type: "issues", Action: "labeled",
		Org: "acme", Repo: "widgets", Number: 7,
		Author: "alice",
		Labels: []string{"trigger-label"},
	})

	if got := rc.Pooled.AssigneeAdds(); len(got) != 1 || got[0] != "alice" {
		t.Errorf("AssigneeAdds = %v, want [alice]", got)
	}
}

// Without the trigger label the check gates the action and the pooled
// operations stay empty.
func TestMissingTriggerLabelLeavesPoolEmpty(t *testing.T) {
	rc := runScenario(t, triageRules, &engine.Event{
		Type: "issues", Action: "labeled",
		Org: "acme", Repo: "widgets", Number: 7,
		Author: "alice",
		Labels: []string{"unrelated"},
	})

	if !rc.Pooled.Empty() {
		t.Errorf("pooled operations not empty: assignees=%v labels=%v/%v",
			rc.Pooled.AssigneeAdds(), rc.Pooled.LabelAdds(), rc.Pooled.LabelRemoves())
	}
	if rc.Result.FailedCheck != "check-label" {
		t.Errorf("FailedCheck = %q, want %q", rc.Result.FailedCheck, "check-label")
	}
}

// A remapped action executes the target's sequence exactly once.
func TestRemappedActionRunsTargetOnce(t *testing.T) {
	rules := `
schema-version: 1
pull_request:
  rerun-action-size: size
  size:
    - labels-add: sized
`
	rc := runScenario(t, rules, &engine.Event{
		Type: "pull_request", Action: "rerun-action-size",
		Org: "acme", Repo: "widgets", Number: 3,
		Author: "bob",
	})

	if got := rc.Pooled.LabelAdds(); len(got) != 1 || got[0] != "sized" {
		t.Errorf("LabelAdds = %v, want [sized]", got)
	}
	if len(rc.Result.StepsRun) != 1 {
		t.Errorf("StepsRun = %v, want exactly one step", rc.Result.StepsRun)
	}
}

// Every registered step name constructs from a representative rules file,
// so the registry table and the node constructors stay in sync.
func TestValidateDocumentCoversAllSteps(t *testing.T) {
	rules := `
schema-version: 1
issues:
  opened:
    - check-label: bug
    - check-metadata: {name: ms.author, value: '.+'}
    - check-author: [alice]
    - labels-add: triaged
    - labels-remove: needs-triage
    - assignees-add: alice
    - comment: hello
    - close:
    - reopen:
  reopened: opened
issue_comment:
  created:
    - check-comment: '#rerun'
    - labels-add: rerun
`
	doc, err := engine.LoadDocument([]byte(rules), 1)
	if err != nil {
		t.Fatalf("LoadDocument failed: %v", err)
	}

	registry := engine.NewRegistry()
	RegisterAll(registry)

	if err := engine.ValidateDocument(doc, registry, &engine.Dependencies{}); err != nil {
		t.Fatalf("ValidateDocument failed: %v", err)
	}
}

// assignees-remove is registered so it fails validation loudly rather than
// being silently unknown.
func TestValidateDocumentRejectsAssigneeRemoval(t *testing.T) {
	rules := `
schema-version: 1
issues:
  closed:
    - assignees-remove: alice
`
	doc, err := engine.LoadDocument([]byte(rules), 1)
	if err != nil {
		t.Fatalf("LoadDocument failed: %v", err)
	}

	registry := engine.NewRegistry()
	RegisterAll(registry)

	err = engine.ValidateDocument(doc, registry, &engine.Dependencies{})
	if err == nil || !engine.IsConfiguration(err) {
		t.Fatalf("expected a configuration error, got %v", err)
	}
}
