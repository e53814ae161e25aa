package gateway

import (
	"context"

	"github.com/slack-go/slack"
)

// GetChannelHistory fetches one page of a channel's message history and
// enriches file attachments with full metadata. A file whose metadata
// lookup fails stays in the message as the original un-enriched object.
// Any top-level failure yields an empty page, never an error.
func (g *Gateway) GetChannelHistory(ctx context.Context, partnerID, channelID, cursor string, limit int) History {
	empty := History{Messages: []slack.Message{}}
	if limit <= 0 {
		limit = g.historySize
	}

	cred, err := g.ResolveCredential(ctx, partnerID)
	if err != nil {
		g.logger.Warn("history fetch skipped", "channel", channelID, "error", err)
		return empty
	}
	api := g.newClient(cred.Token)

	resp, err := api.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
		ChannelID: channelID,
		Cursor:    cursor,
		Limit:     limit,
	})
	if err != nil {
		g.logger.Error("history fetch failed", "channel", channelID, "error", err)
		return empty
	}

	g.enrichFiles(ctx, api, resp.Messages)

	return History{
		Messages:   resp.Messages,
		HasMore:    resp.HasMore,
		NextCursor: resp.ResponseMetaData.NextCursor,
	}
}

// GetMessage fetches a single message by timestamp via an inclusive
// replies lookup. Lookup errors and empty results both yield nil.
func (g *Gateway) GetMessage(ctx context.Context, channelID, ts, partnerID string) *slack.Message {
	cred, err := g.ResolveCredential(ctx, partnerID)
	if err != nil {
		g.logger.Warn("message fetch skipped", "channel", channelID, "ts", ts, "error", err)
		return nil
	}

	msgs, _, _, err := g.newClient(cred.Token).GetConversationRepliesContext(ctx, &slack.GetConversationRepliesParameters{
		ChannelID: channelID,
		Timestamp: ts,
		Inclusive: true,
		Limit:     1,
	})
	if err != nil {
		g.logger.Error("message fetch failed", "channel", channelID, "ts", ts, "error", err)
		return nil
	}
	if len(msgs) == 0 {
		return nil
	}
	return &msgs[0]
}

// GetThreadReplies fetches every reply in a thread, following cursors up to
// the page ceiling.
func (g *Gateway) GetThreadReplies(ctx context.Context, partnerID, channelID, threadTS string) ([]slack.Message, error) {
	cred, err := g.ResolveCredential(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	api := g.newClient(cred.Token)

	var all []slack.Message
	cursor := ""
	for page := 0; ; page++ {
		if page >= g.pageCeiling {
			g.logger.Warn("thread pagination hit page ceiling, stopping",
				"channel", channelID, "ts", threadTS, "accumulated", len(all))
			break
		}

		msgs, hasMore, next, err := api.GetConversationRepliesContext(ctx, &slack.GetConversationRepliesParameters{
			ChannelID: channelID,
			Timestamp: threadTS,
			Cursor:    cursor,
			Limit:     conversationsPageSize,
		})
		if err != nil {
			return nil, err
		}

		all = append(all, msgs...)
		if !hasMore || next == "" {
			break
		}
		cursor = next
	}
	return all, nil
}

// ChannelLastMessageTS returns the most recent message timestamp for each
// channel, for unread tracking. Channels whose probe fails are omitted from
// the result rather than failing the batch.
func (g *Gateway) ChannelLastMessageTS(ctx context.Context, partnerID string, channelIDs []string) map[string]string {
	result := make(map[string]string, len(channelIDs))

	cred, err := g.ResolveCredential(ctx, partnerID)
	if err != nil {
		g.logger.Warn("last-message probe skipped", "partner", partnerID, "error", err)
		return result
	}
	api := g.newClient(cred.Token)

	latest := make([]string, len(channelIDs))
	errs := settle(ctx, len(channelIDs), func(ctx context.Context, i int) error {
		resp, err := api.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
			ChannelID: channelIDs[i],
			Limit:     1,
		})
		if err != nil {
			return err
		}
		if len(resp.Messages) > 0 {
			latest[i] = resp.Messages[0].Timestamp
		}
		return nil
	})

	for i, id := range channelIDs {
		if errs[i] != nil {
			g.logger.Debug("last-message probe failed, omitting channel",
				"channel", id, "error", errs[i])
			continue
		}
		if latest[i] != "" {
			result[id] = latest[i]
		}
	}
	return result
}

// enrichFiles replaces each message's partial file references with full
// files.info metadata, fanning out one call per file. A failed lookup
// keeps the original file object.
func (g *Gateway) enrichFiles(ctx context.Context, api SlackAPI, msgs []slack.Message) {
	type ref struct{ msg, file int }
	var refs []ref
	for i := range msgs {
		for j := range msgs[i].Files {
			refs = append(refs, ref{msg: i, file: j})
		}
	}
	if len(refs) == 0 {
		return
	}

	settle(ctx, len(refs), func(ctx context.Context, i int) error {
		r := refs[i]
		original := &msgs[r.msg].Files[r.file]
		full, _, _, err := api.GetFileInfoContext(ctx, original.ID, 0, 0)
		if err != nil {
			g.logger.Debug("file enrichment failed, keeping partial metadata",
				"file", original.ID, "error", err)
			return nil
		}
		*original = *full
		return nil
	})
}
