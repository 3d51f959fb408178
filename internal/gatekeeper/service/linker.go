package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/estopia/gatekeeper/internal/gatekeeper/discord"
	"github.com/estopia/gatekeeper/internal/gatekeeper/domain"
	"github.com/estopia/gatekeeper/internal/gatekeeper/store"
	"github.com/estopia/gatekeeper/pkg/slogx"
)

// IdentityProvider is the OAuth2 provider side of account linking.
// *discord.Provider satisfies it.
type IdentityProvider interface {
	Exchange(ctx context.Context, code string) (discord.Token, error)
	FetchProfile(ctx context.Context, accessToken string) (discord.Profile, error)
}

// LinkService records which Discord account completed the OAuth flow.
type LinkService struct {
	Store    store.Store
	Provider IdentityProvider
}

// Link exchanges code, loads the caller's profile and upserts the link. The
// provider tokens are stored, never returned to the caller.
func (s *LinkService) Link(ctx context.Context, code string) (domain.DiscordLink, error) {
	l := slogx.FromContext(ctx)

	if code == "" {
		return domain.DiscordLink{}, ErrInvalidRequest
	}

	tok, err := s.Provider.Exchange(ctx, code)
	if err != nil {
		return domain.DiscordLink{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	profile, err := s.Provider.FetchProfile(ctx, tok.AccessToken)
	if err != nil {
		return domain.DiscordLink{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	link := domain.DiscordLink{
		UserID:       profile.ID,
		Username:     profile.Username,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
	}
	if err := s.Store.DiscordLinks().UpsertDiscordLink(ctx, link); err != nil {
		return domain.DiscordLink{}, fmt.Errorf("%w: upsert link: %w", ErrStorage, err)
	}

	l.Info("discord account linked",
		slog.String("discord_user_id", link.UserID),
		slog.String("discord_username", link.Username),
	)
	return link, nil
}
