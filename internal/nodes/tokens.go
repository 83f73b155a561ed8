// Package nodes contains the concrete checks and actions the rule engine
// builds from step specifications. Each node binds its parsed parameters at
// construction and holds no other state between runs.
package nodes

import (
	"strconv"
	"strings"

	"github.com/repoflow/repoflow/internal/core/engine"
)

// expandTokens substitutes {token} placeholders in an action parameter with
// values from the run state. Known tokens are author, org, repo, number and
// action; any other token name is looked up in the comment-marker metadata.
// Unknown tokens are left in place.
func expandTokens(rc *engine.Context, s string) string {
	if !strings.Contains(s, "{") {
		return s
	}
	var sb strings.Builder
	for {
		open := strings.IndexByte(s, '{')
		if open < 0 {
			sb.WriteString(s)
			break
		}
		close := strings.IndexByte(s[open:], '}')
		if close < 0 {
			sb.WriteString(s)
			break
		}
		close += open
		sb.WriteString(s[:open])
		token := s[open+1 : close]
		if value, ok := tokenValue(rc, token); ok {
			sb.WriteString(value)
		} else {
			sb.WriteString(s[open : close+1])
		}
		s = s[close+1:]
	}
	return sb.String()
}

func tokenValue(rc *engine.Context, token string) (string, bool) {
	switch token {
	case "author":
		return rc.Event.Author, true
	case "org":
		return rc.Event.Org, true
	case "repo":
		return rc.Event.Repo, true
	case "number":
		return strconv.Itoa(rc.Event.Number), true
	case "action":
		return rc.Event.Action, true
	}
	value, ok := rc.Metadata[strings.ToLower(token)]
	return value, ok
}
