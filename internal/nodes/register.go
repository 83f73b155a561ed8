package nodes

import (
	"github.com/repoflow/repoflow/internal/core/engine"
)

// RegisterAll registers every built-in check and action with the registry.
// The assignees-remove entry exists so rule files that ask for it fail with
// a configuration error at build time instead of silently doing nothing.
func RegisterAll(r *engine.Registry) {
	r.Register("check-label", NewLabelCheck)
	r.Register("check-metadata", NewMetadataCheck)
	r.Register("check-comment", NewCommentCheck)
	r.Register("check-author", NewAuthorCheck)

	r.Register("labels-add", NewLabelsAction(engine.SubtypeAdd))
	r.Register("labels-remove", NewLabelsAction(engine.SubtypeRemove))
	r.Register("assignees-add", NewAssigneesAction(engine.SubtypeAdd))
	r.Register("assignees-remove", NewAssigneesAction(engine.SubtypeRemove))
	r.Register("comment", NewCommentAction)
	r.Register("close", NewStateAction("closed"))
	r.Register("reopen", NewStateAction("open"))
}
