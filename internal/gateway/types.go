// Package gateway is a credential-resolving façade over the Slack Web API.
// It resolves which token to act with per request (end-user OAuth token,
// partner bot token, or the global bot token), paginates directory listings,
// enriches message history with file metadata, and memoizes directory
// fetches in a short-lived in-memory cache.
package gateway

import (
	"io"

	"github.com/slack-go/slack"
)

// CredentialKind distinguishes the two classes of Slack API credential.
type CredentialKind string

const (
	// KindUser is an end-user OAuth token acting as a specific human.
	KindUser CredentialKind = "user"
	// KindBot is an application identity token.
	KindBot CredentialKind = "bot"
)

// Credential is a resolved Slack API token and its kind. Credentials are
// resolved fresh per call and never stored by the gateway.
type Credential struct {
	Token string
	Kind  CredentialKind
}

// Identity is the Slack identity of the acting end user.
type Identity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// History is one page of channel message history.
type History struct {
	Messages   []slack.Message `json:"messages"`
	HasMore    bool            `json:"has_more"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

// SendOptions customizes an outbound message. Username and IconURL apply
// only when posting as a bot; a user credential already carries a real
// identity and the overrides are ignored.
type SendOptions struct {
	Username string
	IconURL  string
	ThreadTS string
}

// SendResult reports the outcome of SendMessage without raising an error.
type SendResult struct {
	OK    bool   `json:"success"`
	TS    string `json:"ts,omitempty"`
	Error string `json:"error,omitempty"`
}

// Upload describes a file to push to Slack.
type Upload struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

// UploadResult reports the outcome of UploadFile. File carries the enriched
// metadata when the post-upload lookup succeeded; ID and Name are always set
// on success.
type UploadResult struct {
	OK    bool        `json:"success"`
	ID    string      `json:"id,omitempty"`
	Name  string      `json:"name,omitempty"`
	File  *slack.File `json:"file,omitempty"`
	Error string      `json:"error,omitempty"`
}

// defaultKey is the cache key used when no partner id is supplied.
const defaultKey = "default"

func cacheKey(partnerID string) string {
	if partnerID == "" {
		return defaultKey
	}
	return partnerID
}
