package gateway

import (
	"context"
	"fmt"
	"slices"

	"github.com/slack-go/slack"

	"github.com/chrisedwards/slack-gateway/internal/store"
)

// SendMessage posts text to a channel or thread. With a bot credential the
// optional username/icon overrides are applied; with a user credential the
// message is posted as that user and overrides are ignored. Failures are
// reported in the result, never raised.
func (g *Gateway) SendMessage(ctx context.Context, partnerID, channelID, text string, opts SendOptions) SendResult {
	cred, err := g.ResolveCredential(ctx, partnerID)
	if err != nil {
		return SendResult{Error: err.Error()}
	}

	msgOpts := []slack.MsgOption{slack.MsgOptionText(text, false)}
	if opts.ThreadTS != "" {
		msgOpts = append(msgOpts, slack.MsgOptionTS(opts.ThreadTS))
	}
	if cred.Kind == KindUser {
		msgOpts = append(msgOpts, slack.MsgOptionAsUser(true))
	} else {
		if opts.Username != "" {
			msgOpts = append(msgOpts, slack.MsgOptionUsername(opts.Username))
		}
		if opts.IconURL != "" {
			msgOpts = append(msgOpts, slack.MsgOptionIconURL(opts.IconURL))
		}
	}

	_, ts, err := g.newClient(cred.Token).PostMessageContext(ctx, channelID, msgOpts...)
	if err != nil {
		g.logger.Error("send message failed", "channel", channelID, "error", err)
		return SendResult{Error: err.Error()}
	}
	return SendResult{OK: true, TS: ts}
}

// maxUploadBytes is Slack's per-file size ceiling. Rejecting above it also
// keeps the int64 size safe to narrow for the upload parameters.
const maxUploadBytes = 1 << 30

// UploadFile pushes a file to a channel (optionally threaded) using Slack's
// external upload protocol: request an upload slot, transfer the bytes,
// then complete the upload against the channel. After completion the full
// file metadata is re-fetched best-effort; when that lookup fails the
// result still succeeds with the basic id/name summary.
func (g *Gateway) UploadFile(ctx context.Context, partnerID, channelID string, up Upload, threadTS string) UploadResult {
	if up.Size > maxUploadBytes {
		return UploadResult{Error: fmt.Sprintf("file %s exceeds the %d byte upload limit", up.Filename, maxUploadBytes)}
	}

	cred, err := g.ResolveCredential(ctx, partnerID)
	if err != nil {
		return UploadResult{Error: err.Error()}
	}
	api := g.newClient(cred.Token)

	summary, err := api.UploadFileV2Context(ctx, slack.UploadFileV2Parameters{
		Reader:          up.Reader,
		FileSize:        int(up.Size),
		Filename:        up.Filename,
		Channel:         channelID,
		ThreadTimestamp: threadTS,
	})
	if err != nil {
		g.logger.Error("file upload failed", "channel", channelID, "filename", up.Filename, "error", err)
		return UploadResult{Error: err.Error()}
	}

	result := UploadResult{OK: true, ID: summary.ID, Name: up.Filename}
	full, _, _, err := api.GetFileInfoContext(ctx, summary.ID, 0, 0)
	if err != nil {
		g.logger.Debug("post-upload metadata fetch failed, returning summary",
			"file", summary.ID, "error", err)
		return result
	}
	result.File = full
	return result
}

// CreateChannel creates a channel and invites the given users to it. The
// acting identity is excluded from the invite list since a creator joins
// automatically. Invite failures are logged but do not undo a successful
// creation. The partner's channel-list cache entry is invalidated.
func (g *Gateway) CreateChannel(ctx context.Context, partnerID, name string, private bool, userIDs []string) (*slack.Channel, error) {
	cred, err := g.ResolveCredential(ctx, partnerID)
	if err != nil {
		return nil, fmt.Errorf("create channel %q: %w", name, err)
	}
	api := g.newClient(cred.Token)

	selfID := ""
	if auth, err := api.AuthTestContext(ctx); err != nil {
		g.logger.Warn("auth.test failed, inviting without creator exclusion", "error", err)
	} else {
		selfID = auth.UserID
	}

	ch, err := api.CreateConversationContext(ctx, slack.CreateConversationParams{
		ChannelName: name,
		IsPrivate:   private,
	})
	if err != nil {
		return nil, fmt.Errorf("create channel %q: %w", name, err)
	}

	invitees := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		if id != "" && id != selfID && !slices.Contains(invitees, id) {
			invitees = append(invitees, id)
		}
	}
	if len(invitees) > 0 {
		if _, err := api.InviteUsersToConversationContext(ctx, ch.ID, invitees...); err != nil {
			g.logger.Warn("invite after channel creation failed",
				"channel", ch.ID, "invitees", len(invitees), "error", err)
		}
	}

	g.channels.Delete(cacheKey(partnerID))
	return ch, nil
}

// AddReaction adds an emoji reaction to a message. The already_reacted
// response is success: the reaction is present either way.
func (g *Gateway) AddReaction(ctx context.Context, partnerID, channelID, timestamp, emoji string) error {
	cred, err := g.ResolveCredential(ctx, partnerID)
	if err != nil {
		return fmt.Errorf("add reaction: %w", err)
	}

	err = g.newClient(cred.Token).AddReactionContext(ctx, emoji, slack.NewRefToMessage(channelID, timestamp))
	if err != nil {
		if isAlreadyReacted(err) {
			g.logger.Debug("reaction already present", "channel", channelID, "ts", timestamp, "emoji", emoji)
			return nil
		}
		return fmt.Errorf("add reaction %s: %w", emoji, err)
	}
	return nil
}

// Identity returns the Slack identity of the acting end user, or nil when
// credential resolution fell back to any bot token. The UI treats nil as
// "Slack not connected" and shows its connect prompt.
func (g *Gateway) Identity(ctx context.Context, partnerID string) *Identity {
	cred, err := g.ResolveCredential(ctx, partnerID)
	if err != nil || cred.Kind != KindUser {
		return nil
	}

	resp, err := g.newClient(cred.Token).AuthTestContext(ctx)
	if err != nil {
		g.logger.Warn("auth.test failed for user credential", "error", err)
		return nil
	}
	return &Identity{ID: resp.UserID, Name: resp.User}
}

// IsConnectedInDB reports whether the session's profile holds a Slack user
// token, without calling the Slack API.
func (g *Gateway) IsConnectedInDB(ctx context.Context) bool {
	sess, ok := store.SessionFrom(ctx)
	if !ok {
		return false
	}
	connected, err := g.profiles.HasUserToken(ctx, sess.UserID, sess.Email)
	if err != nil {
		g.logger.Warn("profile connectivity check failed", "user", sess.UserID, "error", err)
		return false
	}
	return connected
}
