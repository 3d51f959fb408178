package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/estopia/gatekeeper/internal/gatekeeper/domain"
	"github.com/estopia/gatekeeper/internal/gatekeeper/store"
	"github.com/estopia/gatekeeper/pkg/cryptox"
	"github.com/estopia/gatekeeper/pkg/idx"
	"github.com/estopia/gatekeeper/pkg/slogx"
)

const DefaultSessionTTL = 24 * time.Hour

// Session is a freshly issued web panel token.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// SessionService issues and checks web panel session tokens. Each account
// holds a single token; logging in again replaces it.
type SessionService struct {
	Store store.Store
	TTL   time.Duration
	Now   func() time.Time
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *SessionService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultSessionTTL
}

// Login checks the password for username and rotates the account's token.
func (s *SessionService) Login(ctx context.Context, username, password string) (Session, error) {
	l := slogx.FromContext(ctx)

	if username == "" || password == "" {
		return Session{}, ErrInvalidRequest
	}

	acct, err := s.Store.WebAccounts().GetWebAccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Session{}, ErrUserNotFound
		}
		return Session{}, fmt.Errorf("%w: get account: %w", ErrStorage, err)
	}

	if err := cryptox.VerifyPassword(password, acct.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			l.Info("login rejected", slog.String("account_id", acct.ID))
			return Session{}, ErrInvalidPassword
		}
		return Session{}, fmt.Errorf("verify password: %w", err)
	}

	sess, err := s.newSession()
	if err != nil {
		return Session{}, err
	}

	if err := s.Store.WebAccounts().UpdateWebToken(ctx, acct.ID, sess.Token, sess.ExpiresAt); err != nil {
		return Session{}, fmt.Errorf("%w: update token: %w", ErrStorage, err)
	}

	l.Info("session issued",
		slog.String("account_id", acct.ID),
		slog.String("token_fp", cryptox.FingerprintToken(sess.Token)),
	)
	return sess, nil
}

// Register creates an account and opens its first session.
func (s *SessionService) Register(ctx context.Context, username, password, email string) (Session, error) {
	l := slogx.FromContext(ctx)

	if username == "" || password == "" || email == "" {
		return Session{}, ErrInvalidRequest
	}

	_, err := s.Store.WebAccounts().GetWebAccountByUsername(ctx, username)
	switch {
	case err == nil:
		return Session{}, ErrUsernameTaken
	case !errors.Is(err, store.ErrNotFound):
		return Session{}, fmt.Errorf("%w: get account: %w", ErrStorage, err)
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		if errors.Is(err, cryptox.ErrPasswordTooLong) {
			return Session{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	sess, err := s.newSession()
	if err != nil {
		return Session{}, err
	}

	acct := domain.WebAccount{
		ID:             idx.New().String(),
		Username:       username,
		PasswordHash:   hash,
		Email:          email,
		WebToken:       &sess.Token,
		WebTokenExpire: &sess.ExpiresAt,
	}

	if err := s.Store.WebAccounts().CreateWebAccount(ctx, acct); err != nil {
		// Lost a race with a concurrent registration of the same name.
		if errors.Is(err, store.ErrAlreadyExists) {
			return Session{}, ErrUsernameTaken
		}
		return Session{}, fmt.Errorf("%w: create account: %w", ErrStorage, err)
	}

	l.Info("account registered",
		slog.String("account_id", acct.ID),
		slog.String("token_fp", cryptox.FingerprintToken(sess.Token)),
	)
	return sess, nil
}

// VerifyToken reports whether token is the live session of some account.
// It never writes.
func (s *SessionService) VerifyToken(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, ErrInvalidRequest
	}

	acct, err := s.Store.WebAccounts().GetWebAccountByToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, ErrTokenNotFound
		}
		return false, fmt.Errorf("%w: get account by token: %w", ErrStorage, err)
	}

	if !acct.SessionActive(s.now()) {
		return false, ErrTokenExpired
	}
	return true, nil
}

func (s *SessionService) newSession() (Session, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return Session{}, fmt.Errorf("generate token: %w", err)
	}
	return Session{
		Token:     token,
		ExpiresAt: s.now().Add(s.ttl()),
	}, nil
}
