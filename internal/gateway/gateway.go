package gateway

import (
	"log/slog"
	"time"

	"github.com/slack-go/slack"
	"golang.org/x/time/rate"

	"github.com/chrisedwards/slack-gateway/internal/cache"
	"github.com/chrisedwards/slack-gateway/internal/config"
	"github.com/chrisedwards/slack-gateway/internal/store"
)

// Gateway exposes the Slack operations consumed by the admin portal.
// All state it owns is the pair of directory caches; everything else is
// resolved per call.
type Gateway struct {
	sources  []credentialSource
	profiles store.ProfileReader

	channels *cache.Store[[]slack.Channel]
	users    *cache.Store[[]slack.User]

	pageCeiling int
	historySize int

	newClient func(token string) SlackAPI
	logger    *slog.Logger
}

// Options configures a Gateway beyond its required collaborators.
type Options struct {
	// GlobalBotToken is the last-resort credential. Empty disables the
	// global fallback.
	GlobalBotToken string

	// CacheTTL bounds how long directory listings are served from memory.
	CacheTTL time.Duration

	// PageCeiling caps pagination loops against malformed cursor chains.
	PageCeiling int

	// HistoryPageSize is the default conversations.history page size.
	HistoryPageSize int

	// APIRateLimit is the shared requests-per-second budget across all
	// resolved tokens. Zero disables limiting.
	APIRateLimit float64

	// Clock overrides the cache clock, for TTL tests.
	Clock func() time.Time

	// NewClient overrides the Slack client factory, for tests.
	NewClient func(token string) SlackAPI

	Logger *slog.Logger
}

// New creates a Gateway backed by the given credential stores.
func New(profiles store.ProfileReader, partners store.PartnerReader, opts Options) *Gateway {
	if opts.PageCeiling <= 0 {
		opts.PageCeiling = 50
	}
	if opts.HistoryPageSize <= 0 {
		opts.HistoryPageSize = 30
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	g := &Gateway{
		sources: []credentialSource{
			&userTokenSource{profiles: profiles},
			&partnerBotSource{partners: partners},
			&globalBotSource{token: opts.GlobalBotToken},
		},
		profiles:    profiles,
		channels:    cache.NewWithClock[[]slack.Channel](opts.CacheTTL, opts.Clock),
		users:       cache.NewWithClock[[]slack.User](opts.CacheTTL, opts.Clock),
		pageCeiling: opts.PageCeiling,
		historySize: opts.HistoryPageSize,
		newClient:   opts.NewClient,
		logger:      opts.Logger,
	}

	if g.newClient == nil {
		limiter := rate.NewLimiter(rate.Inf, 1)
		if opts.APIRateLimit > 0 {
			limiter = rate.NewLimiter(rate.Limit(opts.APIRateLimit), int(opts.APIRateLimit)+1)
		}
		g.newClient = func(token string) SlackAPI {
			return newAPIClient(token, limiter, g.logger)
		}
	}
	return g
}

// FromConfig creates a Gateway using the loaded application configuration.
func FromConfig(cfg *config.Config, profiles store.ProfileReader, partners store.PartnerReader, logger *slog.Logger) *Gateway {
	return New(profiles, partners, Options{
		GlobalBotToken:  cfg.BotToken,
		CacheTTL:        cfg.CacheTTL,
		PageCeiling:     cfg.PageCeiling,
		HistoryPageSize: cfg.HistoryPageSize,
		APIRateLimit:    cfg.APIRateLimit,
		Logger:          logger,
	})
}

// ClearCache drops both directory cache entries for the partner key,
// forcing fresh fetches on the next reads.
func (g *Gateway) ClearCache(partnerID string) {
	key := cacheKey(partnerID)
	g.channels.Delete(key)
	g.users.Delete(key)
	g.logger.Debug("cleared directory caches", "key", key)
}
