package gateway

import (
	"context"
	"log/slog"

	"github.com/slack-go/slack"
	"golang.org/x/time/rate"
)

// SlackAPI abstracts the subset of slack.Client methods used by the gateway.
// This allows tests to substitute a mock implementation without a live Slack
// connection.
type SlackAPI interface {
	AuthTestContext(ctx context.Context) (*slack.AuthTestResponse, error)

	// Conversations
	GetConversationsContext(ctx context.Context, params *slack.GetConversationsParameters) ([]slack.Channel, string, error)
	GetConversationHistoryContext(ctx context.Context, params *slack.GetConversationHistoryParameters) (*slack.GetConversationHistoryResponse, error)
	GetConversationRepliesContext(ctx context.Context, params *slack.GetConversationRepliesParameters) ([]slack.Message, bool, string, error)
	CreateConversationContext(ctx context.Context, params slack.CreateConversationParams) (*slack.Channel, error)
	InviteUsersToConversationContext(ctx context.Context, channelID string, users ...string) (*slack.Channel, error)

	// Messaging
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	AddReactionContext(ctx context.Context, name string, item slack.ItemRef) error

	// Files
	UploadFileV2Context(ctx context.Context, params slack.UploadFileV2Parameters) (*slack.FileSummary, error)
	GetFileInfoContext(ctx context.Context, fileID string, count, page int) (*slack.File, []slack.Comment, *slack.Paging, error)

	// Users
	GetUsersContext(ctx context.Context, options ...slack.GetUsersOption) ([]slack.User, error)
}

// apiClient wraps slack.Client with a shared rate limiter and debug logging.
// The limiter is shared across all tokens so the process stays within one
// Slack API budget.
type apiClient struct {
	sdk     *slack.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

func newAPIClient(token string, limiter *rate.Limiter, logger *slog.Logger) SlackAPI {
	return &apiClient{
		sdk:     slack.New(token),
		limiter: limiter,
		logger:  logger,
	}
}

func (c *apiClient) wait(ctx context.Context, method string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		c.logger.Debug("rate limiter wait aborted", "method", method, "error", err)
		return err
	}
	return nil
}

func (c *apiClient) AuthTestContext(ctx context.Context) (*slack.AuthTestResponse, error) {
	if err := c.wait(ctx, "auth.test"); err != nil {
		return nil, err
	}
	return c.sdk.AuthTestContext(ctx)
}

func (c *apiClient) GetConversationsContext(ctx context.Context, params *slack.GetConversationsParameters) ([]slack.Channel, string, error) {
	if err := c.wait(ctx, "conversations.list"); err != nil {
		return nil, "", err
	}
	c.logger.Debug("calling conversations.list", "types", params.Types, "cursor", params.Cursor)
	return c.sdk.GetConversationsContext(ctx, params)
}

func (c *apiClient) GetConversationHistoryContext(ctx context.Context, params *slack.GetConversationHistoryParameters) (*slack.GetConversationHistoryResponse, error) {
	if err := c.wait(ctx, "conversations.history"); err != nil {
		return nil, err
	}
	c.logger.Debug("calling conversations.history", "channel", params.ChannelID, "cursor", params.Cursor, "limit", params.Limit)
	return c.sdk.GetConversationHistoryContext(ctx, params)
}

func (c *apiClient) GetConversationRepliesContext(ctx context.Context, params *slack.GetConversationRepliesParameters) ([]slack.Message, bool, string, error) {
	if err := c.wait(ctx, "conversations.replies"); err != nil {
		return nil, false, "", err
	}
	c.logger.Debug("calling conversations.replies", "channel", params.ChannelID, "ts", params.Timestamp)
	return c.sdk.GetConversationRepliesContext(ctx, params)
}

func (c *apiClient) CreateConversationContext(ctx context.Context, params slack.CreateConversationParams) (*slack.Channel, error) {
	if err := c.wait(ctx, "conversations.create"); err != nil {
		return nil, err
	}
	c.logger.Debug("calling conversations.create", "name", params.ChannelName, "private", params.IsPrivate)
	return c.sdk.CreateConversationContext(ctx, params)
}

func (c *apiClient) InviteUsersToConversationContext(ctx context.Context, channelID string, users ...string) (*slack.Channel, error) {
	if err := c.wait(ctx, "conversations.invite"); err != nil {
		return nil, err
	}
	c.logger.Debug("calling conversations.invite", "channel", channelID, "users", len(users))
	return c.sdk.InviteUsersToConversationContext(ctx, channelID, users...)
}

func (c *apiClient) PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
	if err := c.wait(ctx, "chat.postMessage"); err != nil {
		return "", "", err
	}
	c.logger.Debug("calling chat.postMessage", "channel", channelID)
	return c.sdk.PostMessageContext(ctx, channelID, options...)
}

func (c *apiClient) AddReactionContext(ctx context.Context, name string, item slack.ItemRef) error {
	if err := c.wait(ctx, "reactions.add"); err != nil {
		return err
	}
	c.logger.Debug("calling reactions.add", "channel", item.Channel, "ts", item.Timestamp, "emoji", name)
	return c.sdk.AddReactionContext(ctx, name, item)
}

func (c *apiClient) UploadFileV2Context(ctx context.Context, params slack.UploadFileV2Parameters) (*slack.FileSummary, error) {
	if err := c.wait(ctx, "files.uploadV2"); err != nil {
		return nil, err
	}
	c.logger.Debug("calling files.uploadV2", "channel", params.Channel, "filename", params.Filename, "size", params.FileSize)
	return c.sdk.UploadFileV2Context(ctx, params)
}

func (c *apiClient) GetFileInfoContext(ctx context.Context, fileID string, count, page int) (*slack.File, []slack.Comment, *slack.Paging, error) {
	if err := c.wait(ctx, "files.info"); err != nil {
		return nil, nil, nil, err
	}
	c.logger.Debug("calling files.info", "file", fileID)
	return c.sdk.GetFileInfoContext(ctx, fileID, count, page)
}

func (c *apiClient) GetUsersContext(ctx context.Context, options ...slack.GetUsersOption) ([]slack.User, error) {
	if err := c.wait(ctx, "users.list"); err != nil {
		return nil, err
	}
	c.logger.Debug("calling users.list")
	return c.sdk.GetUsersContext(ctx, options...)
}
