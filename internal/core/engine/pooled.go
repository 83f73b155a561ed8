package engine

import (
	"fmt"
	"log"
	"sort"
)

// PooledOperations collects side effects queued by actions during a run so
// they flush as consolidated API calls after the whole rule sequence
// finishes. Accumulation is idempotent: queueing the same value twice has
// the same effect as queueing it once, which keeps a host-level retry of a
// delivery from duplicating additive effects.
type PooledOperations struct {
	labelAdds    map[string]struct{}
	labelRemoves map[string]struct{}
	assigneeAdds map[string]struct{}
}

// NewPooledOperations returns an empty batch.
func NewPooledOperations() *PooledOperations {
	return &PooledOperations{
		labelAdds:    make(map[string]struct{}),
		labelRemoves: make(map[string]struct{}),
		assigneeAdds: make(map[string]struct{}),
	}
}

// AddLabel queues a label for addition.
func (p *PooledOperations) AddLabel(name string) {
	p.labelAdds[name] = struct{}{}
}

// RemoveLabel queues a label for removal.
func (p *PooledOperations) RemoveLabel(name string) {
	p.labelRemoves[name] = struct{}{}
}

// AddAssignee queues an assignee login for addition.
func (p *PooledOperations) AddAssignee(login string) {
	p.assigneeAdds[login] = struct{}{}
}

// LabelAdds returns the queued label additions, sorted.
func (p *PooledOperations) LabelAdds() []string { return sorted(p.labelAdds) }

// LabelRemoves returns the queued label removals, sorted.
func (p *PooledOperations) LabelRemoves() []string { return sorted(p.labelRemoves) }

// AssigneeAdds returns the queued assignee additions, sorted.
func (p *PooledOperations) AssigneeAdds() []string { return sorted(p.assigneeAdds) }

// Empty reports whether nothing has been queued.
func (p *PooledOperations) Empty() bool {
	return len(p.labelAdds) == 0 && len(p.labelRemoves) == 0 && len(p.assigneeAdds) == 0
}

// Flush issues the consolidated API calls and clears the accumulated state.
// Label additions are issued before removals, so a label queued for both
// ends up removed (remove wins). Called exactly once after the rule
// sequence completes; a failed run never reaches Flush, so its accumulated
// operations are simply discarded.
func (p *PooledOperations) Flush(rc *Context, client RepositoryClient, dryRun bool) error {
	if client == nil && !dryRun && !p.Empty() {
		return fmt.Errorf("flush: no repository client configured")
	}
	ev := rc.Event

	if adds := p.LabelAdds(); len(adds) > 0 {
		if dryRun {
			log.Printf("[pooled] DRY RUN: would add labels %v to %s/%s#%d", adds, ev.Org, ev.Repo, ev.Number)
		} else {
			if err := client.AddLabels(rc.Ctx, ev.Org, ev.Repo, ev.Number, adds); err != nil {
				return fmt.Errorf("flush label additions: %w", err)
			}
		}
		rc.Result.LabelsAdded = adds
	}

	if removes := p.LabelRemoves(); len(removes) > 0 {
		for _, name := range removes {
			if dryRun {
				log.Printf("[pooled] DRY RUN: would remove label %q from %s/%s#%d", name, ev.Org, ev.Repo, ev.Number)
				continue
			}
			if err := client.RemoveLabel(rc.Ctx, ev.Org, ev.Repo, ev.Number, name); err != nil {
				return fmt.Errorf("flush label removal %q: %w", name, err)
			}
		}
		rc.Result.LabelsRemoved = removes
	}

	if assignees := p.AssigneeAdds(); len(assignees) > 0 {
		if dryRun {
			log.Printf("[pooled] DRY RUN: would assign %v on %s/%s#%d", assignees, ev.Org, ev.Repo, ev.Number)
		} else {
			if err := client.AddAssignees(rc.Ctx, ev.Org, ev.Repo, ev.Number, assignees); err != nil {
				return fmt.Errorf("flush assignee additions: %w", err)
			}
		}
		rc.Result.AssigneesAdded = assignees
	}

	p.labelAdds = make(map[string]struct{})
	p.labelRemoves = make(map[string]struct{})
	p.assigneeAdds = make(map[string]struct{})
	return nil
}

func sorted(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
