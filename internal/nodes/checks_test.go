package nodes

import (
	"errors"
	"testing"

	"github.com/repoflow/repoflow/internal/core/engine"
)

func TestLabelCheck(t *testing.T) {
	tests := []struct {
		name   string
		params string
		labels []string
		want   bool
	}{
		{"single label present", "trigger-label", []string{"trigger-label"}, true},
		{"single label absent", "trigger-label", []string{"other"}, false},
		{"case insensitive", "Bug", []string{"bug"}, true},
		{"any of a sequence", "[a, b]", []string{"b"}, true},
		{"none of a sequence", "[a, b]", []string{"c"}, false},
		{"no labels at all", "bug", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := NewLabelCheck(paramsFromYAML(t, tt.params), &engine.Dependencies{})
			if err != nil {
				t.Fatalf("construction failed: %v", err)
			}
			rc := testContext(&engine.Event{Labels: tt.labels})
			got, err := node.(engine.Check).Evaluate(rc)
			if err != nil {
				t.Fatalf("Evaluate failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Evaluate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLabelCheckRejectsMapping(t *testing.T) {
	_, err := NewLabelCheck(paramsFromYAML(t, "name: bug"), &engine.Dependencies{})
	if !errors.Is(err, engine.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestMetadataCheck(t *testing.T) {
	body := "Intro text.\n<!-- ms.author: alice -->\n<!-- area: networking -->"

	tests := []struct {
		name   string
		params string
		want   bool
	}{
		{"value matches", "{name: ms.author, value: '^[a-z]+$'}", true},
		{"value does not match", "{name: ms.author, value: '^[0-9]+$'}", false},
		{"marker missing", "{name: priority, value: '.*'}", false},
		{"substring match", "{name: area, value: 'network'}", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := NewMetadataCheck(paramsFromYAML(t, tt.params), &engine.Dependencies{})
			if err != nil {
				t.Fatalf("construction failed: %v", err)
			}
			rc := testContext(&engine.Event{Body: body})
			got, err := node.(engine.Check).Evaluate(rc)
			if err != nil {
				t.Fatalf("Evaluate failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Evaluate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMetadataCheckConstructionErrors(t *testing.T) {
	tests := []struct {
		name   string
		params string
	}{
		{"scalar instead of mapping", "ms.author"},
		{"missing name key", "{value: '.*'}"},
		{"missing value key", "{name: ms.author}"},
		{"invalid pattern", "{name: ms.author, value: '['}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMetadataCheck(paramsFromYAML(t, tt.params), &engine.Dependencies{})
			if !errors.Is(err, engine.ErrConfiguration) {
				t.Errorf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}

func TestCommentCheck(t *testing.T) {
	node, err := NewCommentCheck(paramsFromYAML(t, "'#please-review'"), &engine.Dependencies{})
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}
	check := node.(engine.Check)

	rc := testContext(&engine.Event{CommentBody: "ping #please-review thanks"})
	if got, _ := check.Evaluate(rc); !got {
		t.Error("expected a match on the comment body")
	}

	rc = testContext(&engine.Event{CommentBody: "unrelated"})
	if got, _ := check.Evaluate(rc); got {
		t.Error("expected no match")
	}

	// No comment on the delivery: the check fails, it does not error.
	rc = testContext(&engine.Event{})
	if got, err := check.Evaluate(rc); err != nil || got {
		t.Errorf("no-comment delivery: got (%v, %v), want (false, nil)", got, err)
	}
}

func TestAuthorCheckLogins(t *testing.T) {
	node, err := NewAuthorCheck(paramsFromYAML(t, "[alice, bob]"), &engine.Dependencies{})
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}
	check := node.(engine.Check)

	rc := testContext(&engine.Event{Author: "Alice"})
	if got, _ := check.Evaluate(rc); !got {
		t.Error("expected login list match (case insensitive)")
	}

	rc = testContext(&engine.Event{Author: "mallory"})
	if got, _ := check.Evaluate(rc); got {
		t.Error("expected no match for unlisted author")
	}
}

func TestAuthorCheckFTE(t *testing.T) {
	deps := &engine.Dependencies{Identity: &fakeIdentity{fte: map[string]bool{
		"alice": true,
		"carol": false,
	}}}

	node, err := NewAuthorCheck(paramsFromYAML(t, "{fte: \"true\"}"), deps)
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}
	check := node.(engine.Check)

	tests := []struct {
		author string
		want   bool
	}{
		{"alice", true},
		{"carol", false},
		{"unknown", false},
	}
	for _, tt := range tests {
		rc := testContext(&engine.Event{Author: tt.author})
		got, err := check.Evaluate(rc)
		if err != nil {
			t.Fatalf("Evaluate(%s) failed: %v", tt.author, err)
		}
		if got != tt.want {
			t.Errorf("Evaluate(%s) = %v, want %v", tt.author, got, tt.want)
		}
	}
}
