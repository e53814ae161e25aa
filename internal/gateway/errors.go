package gateway

import (
	"errors"
	"strings"

	"github.com/slack-go/slack"
)

// ErrNoCredential is returned when no token source yields a usable
// credential: no end-user token, no partner bot token, and no global bot
// token configured.
var ErrNoCredential = errors.New("no slack credential available")

// apiErrorCode extracts the Slack API error code ("missing_scope",
// "already_reacted", ...) from an error, falling back to the error text.
func apiErrorCode(err error) string {
	var resp slack.SlackErrorResponse
	if errors.As(err, &resp) {
		return resp.Err
	}
	return err.Error()
}

// isScopeError reports whether the error indicates the credential lacks an
// OAuth scope for the requested resource type.
func isScopeError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(apiErrorCode(err), "missing_scope")
}

// isAlreadyReacted reports whether the error is the idempotent-conflict
// response from reactions.add.
func isAlreadyReacted(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(apiErrorCode(err), "already_reacted")
}
