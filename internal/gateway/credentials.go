package gateway

import (
	"context"
	"fmt"

	"github.com/chrisedwards/slack-gateway/internal/store"
)

// credentialSource yields a credential for a request, or nil when this
// source has nothing to offer. Source errors are logged by the resolver and
// never abort the chain.
type credentialSource interface {
	Name() string
	Resolve(ctx context.Context, partnerID string) (*Credential, error)
}

// userTokenSource resolves the authenticated end user's OAuth token from the
// profile store, by id first and by email when the id lookup comes back
// empty. No session on the context is a miss, not an error.
type userTokenSource struct {
	profiles store.ProfileReader
}

func (s *userTokenSource) Name() string { return "user-token" }

func (s *userTokenSource) Resolve(ctx context.Context, _ string) (*Credential, error) {
	sess, ok := store.SessionFrom(ctx)
	if !ok {
		return nil, nil
	}

	token, err := s.profiles.UserTokenByID(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("profile lookup by id %s: %w", sess.UserID, err)
	}
	if token == "" && sess.Email != "" {
		token, err = s.profiles.UserTokenByEmail(ctx, sess.Email)
		if err != nil {
			return nil, fmt.Errorf("profile lookup by email: %w", err)
		}
	}
	if token == "" {
		return nil, nil
	}
	return &Credential{Token: token, Kind: KindUser}, nil
}

// partnerBotSource resolves a partner-scoped bot token.
type partnerBotSource struct {
	partners store.PartnerReader
}

func (s *partnerBotSource) Name() string { return "partner-bot" }

func (s *partnerBotSource) Resolve(ctx context.Context, partnerID string) (*Credential, error) {
	if partnerID == "" {
		return nil, nil
	}
	token, err := s.partners.BotToken(ctx, partnerID)
	if err != nil {
		return nil, fmt.Errorf("partner lookup %s: %w", partnerID, err)
	}
	if token == "" {
		return nil, nil
	}
	return &Credential{Token: token, Kind: KindBot}, nil
}

// globalBotSource resolves the process-wide fallback bot token.
type globalBotSource struct {
	token string
}

func (s *globalBotSource) Name() string { return "global-bot" }

func (s *globalBotSource) Resolve(context.Context, string) (*Credential, error) {
	if s.token == "" {
		return nil, nil
	}
	return &Credential{Token: s.token, Kind: KindBot}, nil
}

// ResolveCredential walks the credential sources in precedence order
// (end-user token, partner bot token, global bot token) and returns the
// first available credential. Individual source failures are logged and
// skipped; only a fully empty chain yields ErrNoCredential.
func (g *Gateway) ResolveCredential(ctx context.Context, partnerID string) (Credential, error) {
	for _, src := range g.sources {
		cred, err := src.Resolve(ctx, partnerID)
		if err != nil {
			g.logger.Debug("credential source failed, trying next",
				"source", src.Name(), "partner", partnerID, "error", err)
			continue
		}
		if cred != nil {
			return *cred, nil
		}
	}
	return Credential{}, ErrNoCredential
}
