// Package markers extracts structured comment markers from issue and
// pull-request bodies. Markers are HTML comments of the form
// <!-- name: value --> and carry machine-readable metadata that authoring
// templates embed in the body text.
package markers

import (
	"regexp"
	"strings"
)

var markerPattern = regexp.MustCompile(`<!--\s*([A-Za-z0-9_.-]+)\s*:\s*(.*?)\s*-->`)

// Extract scans body for comment markers and returns a name→value map.
// The last occurrence of a repeated marker name wins.
func Extract(body string) map[string]string {
	meta := make(map[string]string)
	for _, match := range markerPattern.FindAllStringSubmatch(body, -1) {
		name := strings.ToLower(match[1])
		meta[name] = match[2]
	}
	return meta
}
