package store

import (
	"context"
	"errors"
	"time"

	"github.com/estopia/gatekeeper/internal/gatekeeper/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite) implement
// it and expose one sub-repository per record type. Every method is a single
// statement, so each write is atomic on its own; callers never need a
// transaction.
type Store interface {
	DiscordLinks() DiscordLinks
	WebAccounts() WebAccounts

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type DiscordLinks interface {
	// UpsertDiscordLink inserts the link or, when the Discord user id already
	// exists, overwrites username and both tokens. created_at is preserved.
	UpsertDiscordLink(ctx context.Context, l domain.DiscordLink) error

	// GetDiscordLinkByUserID returns the link for a Discord user id.
	GetDiscordLinkByUserID(ctx context.Context, userID string) (domain.DiscordLink, error)
}

type WebAccounts interface {
	// CreateWebAccount inserts a new account (id is provided by app via ULID).
	// Returns ErrAlreadyExists when the username is taken.
	CreateWebAccount(ctx context.Context, a domain.WebAccount) error

	// GetWebAccountByUsername matches the username exactly (case-sensitive).
	GetWebAccountByUsername(ctx context.Context, username string) (domain.WebAccount, error)

	// GetWebAccountByToken finds the account currently holding token,
	// regardless of expiry.
	GetWebAccountByToken(ctx context.Context, token string) (domain.WebAccount, error)

	// UpdateWebToken replaces the account's session token and expiry.
	// Returns ErrNotFound if no account has the id.
	UpdateWebToken(ctx context.Context, accountID, token string, expire time.Time) error
}
