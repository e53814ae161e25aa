// Package match provides glob matching for channel names.
package match

import (
	"path/filepath"
	"strings"

	"github.com/slack-go/slack"
)

// Channels narrows a channel list by include and exclude globs matched
// against channel names and IDs. Nil include keeps everything; exclude
// wins over include. Order is preserved.
func Channels(channels []slack.Channel, include, exclude []string) []slack.Channel {
	out := make([]slack.Channel, 0, len(channels))
	for _, ch := range channels {
		if len(include) > 0 && !Any(include, ch.Name) && !Any(include, ch.ID) {
			continue
		}
		if Any(exclude, ch.Name) || Any(exclude, ch.ID) {
			continue
		}
		out = append(out, ch)
	}
	return out
}

// Any reports whether value matches at least one pattern. An empty
// pattern list matches nothing.
func Any(patterns []string, value string) bool {
	for _, pattern := range patterns {
		if Pattern(pattern, value) {
			return true
		}
	}
	return false
}

// Pattern matches value against a glob pattern (* matches any sequence,
// ? matches a single character). Matching is case-insensitive. Invalid
// patterns match nothing.
func Pattern(pattern, value string) bool {
	matched, err := filepath.Match(pattern, value)
	if err != nil {
		return false
	}
	if matched {
		return true
	}
	matched, _ = filepath.Match(strings.ToLower(pattern), strings.ToLower(value))
	return matched
}
