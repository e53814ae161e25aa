package gateway

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/slack-go/slack"

	"github.com/chrisedwards/slack-gateway/internal/store"
)

// fakeProfiles implements store.ProfileReader for testing.
type fakeProfiles struct {
	byID    map[string]string
	byEmail map[string]string
	err     error
}

func (f *fakeProfiles) UserTokenByID(_ context.Context, id string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.byID[id], nil
}

func (f *fakeProfiles) UserTokenByEmail(_ context.Context, email string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.byEmail[email], nil
}

func (f *fakeProfiles) HasUserToken(ctx context.Context, id, email string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.byID[id] != "" || f.byEmail[email] != "", nil
}

// fakePartners implements store.PartnerReader for testing.
type fakePartners struct {
	tokens map[string]string
	err    error
}

func (f *fakePartners) BotToken(_ context.Context, partnerID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.tokens[partnerID], nil
}

// mockAPI implements SlackAPI with overridable behaviors and call recording.
type mockAPI struct {
	mu sync.Mutex

	authTestFn         func() (*slack.AuthTestResponse, error)
	getConversationsFn func(params *slack.GetConversationsParameters) ([]slack.Channel, string, error)
	historyFn          func(params *slack.GetConversationHistoryParameters) (*slack.GetConversationHistoryResponse, error)
	repliesFn          func(params *slack.GetConversationRepliesParameters) ([]slack.Message, bool, string, error)
	createFn           func(params slack.CreateConversationParams) (*slack.Channel, error)
	inviteFn           func(channelID string, users []string) (*slack.Channel, error)
	postMessageFn      func(channelID string, options []slack.MsgOption) (string, string, error)
	addReactionFn      func(name string, item slack.ItemRef) error
	uploadFn           func(params slack.UploadFileV2Parameters) (*slack.FileSummary, error)
	fileInfoFn         func(fileID string) (*slack.File, error)
	getUsersFn         func() ([]slack.User, error)

	conversationsCalls int
	historyCalls       []string
	fileInfoCalls      []string
	inviteCalls        [][]string
	usersCalls         int
}

func (m *mockAPI) AuthTestContext(context.Context) (*slack.AuthTestResponse, error) {
	if m.authTestFn == nil {
		return nil, errors.New("auth.test not stubbed")
	}
	return m.authTestFn()
}

func (m *mockAPI) GetConversationsContext(_ context.Context, params *slack.GetConversationsParameters) ([]slack.Channel, string, error) {
	m.mu.Lock()
	m.conversationsCalls++
	m.mu.Unlock()
	if m.getConversationsFn == nil {
		return nil, "", errors.New("conversations.list not stubbed")
	}
	return m.getConversationsFn(params)
}

func (m *mockAPI) GetConversationHistoryContext(_ context.Context, params *slack.GetConversationHistoryParameters) (*slack.GetConversationHistoryResponse, error) {
	m.mu.Lock()
	m.historyCalls = append(m.historyCalls, params.ChannelID)
	m.mu.Unlock()
	if m.historyFn == nil {
		return nil, errors.New("conversations.history not stubbed")
	}
	return m.historyFn(params)
}

func (m *mockAPI) GetConversationRepliesContext(_ context.Context, params *slack.GetConversationRepliesParameters) ([]slack.Message, bool, string, error) {
	if m.repliesFn == nil {
		return nil, false, "", errors.New("conversations.replies not stubbed")
	}
	return m.repliesFn(params)
}

func (m *mockAPI) CreateConversationContext(_ context.Context, params slack.CreateConversationParams) (*slack.Channel, error) {
	if m.createFn == nil {
		return nil, errors.New("conversations.create not stubbed")
	}
	return m.createFn(params)
}

func (m *mockAPI) InviteUsersToConversationContext(_ context.Context, channelID string, users ...string) (*slack.Channel, error) {
	m.mu.Lock()
	m.inviteCalls = append(m.inviteCalls, users)
	m.mu.Unlock()
	if m.inviteFn == nil {
		return nil, nil
	}
	return m.inviteFn(channelID, users)
}

func (m *mockAPI) PostMessageContext(_ context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
	if m.postMessageFn == nil {
		return "", "", errors.New("chat.postMessage not stubbed")
	}
	return m.postMessageFn(channelID, options)
}

func (m *mockAPI) AddReactionContext(_ context.Context, name string, item slack.ItemRef) error {
	if m.addReactionFn == nil {
		return errors.New("reactions.add not stubbed")
	}
	return m.addReactionFn(name, item)
}

func (m *mockAPI) UploadFileV2Context(_ context.Context, params slack.UploadFileV2Parameters) (*slack.FileSummary, error) {
	if m.uploadFn == nil {
		return nil, errors.New("files.uploadV2 not stubbed")
	}
	return m.uploadFn(params)
}

func (m *mockAPI) GetFileInfoContext(_ context.Context, fileID string, _, _ int) (*slack.File, []slack.Comment, *slack.Paging, error) {
	m.mu.Lock()
	m.fileInfoCalls = append(m.fileInfoCalls, fileID)
	m.mu.Unlock()
	if m.fileInfoFn == nil {
		return nil, nil, nil, errors.New("files.info not stubbed")
	}
	f, err := m.fileInfoFn(fileID)
	return f, nil, nil, err
}

func (m *mockAPI) GetUsersContext(context.Context, ...slack.GetUsersOption) ([]slack.User, error) {
	m.mu.Lock()
	m.usersCalls++
	m.mu.Unlock()
	if m.getUsersFn == nil {
		return nil, errors.New("users.list not stubbed")
	}
	return m.getUsersFn()
}

// testEnv bundles a gateway wired to fakes with a controllable clock.
type testEnv struct {
	gw       *Gateway
	api      *mockAPI
	profiles *fakeProfiles
	partners *fakePartners
	tokens   []string // tokens the gateway constructed clients for
	advance  func(d time.Duration)
}

func newTestEnv(globalBot string) *testEnv {
	env := &testEnv{
		api:      &mockAPI{},
		profiles: &fakeProfiles{byID: map[string]string{}, byEmail: map[string]string{}},
		partners: &fakePartners{tokens: map[string]string{}},
	}
	current := time.Unix(1700000000, 0)
	env.advance = func(d time.Duration) { current = current.Add(d) }

	env.gw = New(env.profiles, env.partners, Options{
		GlobalBotToken: globalBot,
		Clock:          func() time.Time { return current },
		NewClient: func(token string) SlackAPI {
			env.tokens = append(env.tokens, token)
			return env.api
		},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return env
}

func sessionCtx(userID, email string) context.Context {
	return store.WithSession(context.Background(), store.Session{UserID: userID, Email: email})
}
