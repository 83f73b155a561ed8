package webhook

import (
	"strings"

	"github.com/repoflow/repoflow/internal/core/engine"
)

// triggerAuthor returns the login whose activity caused the delivery: the
// comment author for comment events, the issue/PR author otherwise.
func triggerAuthor(event *engine.Event) string {
	if event.CommentAuthor != "" {
		return event.CommentAuthor
	}
	return event.Author
}

// isBotAuthor returns true if the given username matches a known bot
// pattern or is in the user-configured bot_users list.
func isBotAuthor(author string, configBotUsers []string) bool {
	if author == "" {
		return false
	}
	if strings.HasSuffix(author, "[bot]") || strings.EqualFold(author, "repoflow") {
		return true
	}
	for _, u := range configBotUsers {
		if strings.EqualFold(author, u) {
			return true
		}
	}
	return false
}
