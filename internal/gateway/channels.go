package gateway

import (
	"context"

	"github.com/slack-go/slack"
)

// conversationsPageSize is the per-request limit for conversations.list.
const conversationsPageSize = 200

var channelTypes = []string{"public_channel", "private_channel", "mpim"}

// ListChannels returns every channel visible to the resolved credential:
// public, private, and group DMs. Results are cached per partner key for
// the configured TTL. Errors never propagate; the worst case is an empty
// slice.
//
// When the combined-types request fails with a missing OAuth scope, the
// listing restarts clean with public channels only.
func (g *Gateway) ListChannels(ctx context.Context, partnerID string) []slack.Channel {
	key := cacheKey(partnerID)
	if cached, ok := g.channels.Get(key); ok {
		return cached
	}

	cred, err := g.ResolveCredential(ctx, partnerID)
	if err != nil {
		g.logger.Warn("channel listing skipped", "partner", partnerID, "error", err)
		return []slack.Channel{}
	}
	api := g.newClient(cred.Token)

	chs, err := g.paginateConversations(ctx, api, channelTypes)
	if err != nil && isScopeError(err) {
		g.logger.Warn("missing scope for private channel types, retrying public only",
			"partner", partnerID, "error", err)
		chs, err = g.paginateConversations(ctx, api, []string{"public_channel"})
	}
	if err != nil {
		g.logger.Error("channel listing failed", "partner", partnerID, "error", err)
		return []slack.Channel{}
	}

	g.channels.Set(key, chs)
	return chs
}

// ListDirectMessages returns the credential's open DM conversations.
// DM listings are not cached; there is no scope fallback for the im type.
func (g *Gateway) ListDirectMessages(ctx context.Context, partnerID string) []slack.Channel {
	cred, err := g.ResolveCredential(ctx, partnerID)
	if err != nil {
		g.logger.Warn("dm listing skipped", "partner", partnerID, "error", err)
		return []slack.Channel{}
	}

	dms, err := g.paginateConversations(ctx, g.newClient(cred.Token), []string{"im"})
	if err != nil {
		g.logger.Error("dm listing failed", "partner", partnerID, "error", err)
		return []slack.Channel{}
	}
	return dms
}

// GetUsers returns the workspace member directory, cached per partner key.
// The client paginates users.list internally, so the page ceiling that
// bounds the conversation loops does not apply here.
func (g *Gateway) GetUsers(ctx context.Context, partnerID string) []slack.User {
	key := cacheKey(partnerID)
	if cached, ok := g.users.Get(key); ok {
		return cached
	}

	cred, err := g.ResolveCredential(ctx, partnerID)
	if err != nil {
		g.logger.Warn("user listing skipped", "partner", partnerID, "error", err)
		return []slack.User{}
	}

	users, err := g.newClient(cred.Token).GetUsersContext(ctx, slack.GetUsersOptionLimit(conversationsPageSize))
	if err != nil {
		g.logger.Error("user listing failed", "partner", partnerID, "error", err)
		return []slack.User{}
	}

	g.users.Set(key, users)
	return users
}

// paginateConversations accumulates conversations.list pages until the API
// stops returning a cursor or the page ceiling is reached. Hitting the
// ceiling is logged and returns what was accumulated; any page error
// discards the accumulation.
func (g *Gateway) paginateConversations(ctx context.Context, api SlackAPI, types []string) ([]slack.Channel, error) {
	all := make([]slack.Channel, 0, conversationsPageSize)
	cursor := ""

	for page := 0; ; page++ {
		if page >= g.pageCeiling {
			g.logger.Warn("conversation pagination hit page ceiling, stopping",
				"ceiling", g.pageCeiling, "accumulated", len(all))
			break
		}

		chs, next, err := api.GetConversationsContext(ctx, &slack.GetConversationsParameters{
			Types:           types,
			Limit:           conversationsPageSize,
			Cursor:          cursor,
			ExcludeArchived: true,
		})
		if err != nil {
			return nil, err
		}

		all = append(all, chs...)
		if next == "" {
			break
		}
		cursor = next
	}
	return all, nil
}
