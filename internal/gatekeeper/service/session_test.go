package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/estopia/gatekeeper/internal/gatekeeper/store/drivers/sqlite"
	"github.com/estopia/gatekeeper/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

var tokenPattern = regexp.MustCompile(`^[0-9a-f]{32}$`)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newSQLiteSessions(t *testing.T) (*SessionService, *sqlite.Store, *testClock) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	clock := newTestClock()
	return &SessionService{Store: st, TTL: DefaultSessionTTL, Now: clock.Now}, st, clock
}

func TestLoginUnknownUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, _ := newSQLiteSessions(t)

	_, err := svc.Register(ctx, "known", "hunter2", "known@example.com")
	require.NoError(t, err)

	for _, password := range []string{"hunter2", "wrong", "x", strings.Repeat("p", 100)} {
		_, err := svc.Login(ctx, "unknown", password)
		require.ErrorIs(t, err, ErrUserNotFound, "password %q", password)
	}
}

func TestLoginWrongPasswordKeepsToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, st, _ := newSQLiteSessions(t)

	issued, err := svc.Register(ctx, "alice", "correct horse", "alice@example.com")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice", "battery staple")
	require.ErrorIs(t, err, ErrInvalidPassword)

	acct, err := st.WebAccounts().GetWebAccountByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, issued.Token, *acct.WebToken)
	require.True(t, issued.ExpiresAt.Equal(*acct.WebTokenExpire))
}

func TestSessionTokenRotation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, clock := newSQLiteSessions(t)

	registered, err := svc.Register(ctx, "alice", "pw", "alice@example.com")
	require.NoError(t, err)
	require.Regexp(t, tokenPattern, registered.Token)
	require.Equal(t, clock.Now().Add(24*time.Hour), registered.ExpiresAt)

	clock.Advance(time.Minute)
	first, err := svc.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	require.Regexp(t, tokenPattern, first.Token)
	require.Equal(t, clock.Now().Add(24*time.Hour), first.ExpiresAt)

	second, err := svc.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	require.NotEqual(t, first.Token, second.Token)

	_, err = svc.VerifyToken(ctx, registered.Token)
	require.ErrorIs(t, err, ErrTokenNotFound)
	_, err = svc.VerifyToken(ctx, first.Token)
	require.ErrorIs(t, err, ErrTokenNotFound)

	valid, err := svc.VerifyToken(ctx, second.Token)
	require.NoError(t, err)
	require.True(t, valid)
}

func TestVerifyTokenIsReadOnly(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, st, clock := newSQLiteSessions(t)

	sess, err := svc.Register(ctx, "alice", "pw", "alice@example.com")
	require.NoError(t, err)

	for range 5 {
		clock.Advance(time.Hour)
		valid, err := svc.VerifyToken(ctx, sess.Token)
		require.NoError(t, err)
		require.True(t, valid)
	}

	acct, err := st.WebAccounts().GetWebAccountByToken(ctx, sess.Token)
	require.NoError(t, err)
	require.True(t, sess.ExpiresAt.Equal(*acct.WebTokenExpire))
}

func TestVerifyTokenExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, clock := newSQLiteSessions(t)

	sess, err := svc.Register(ctx, "alice", "pw", "alice@example.com")
	require.NoError(t, err)

	clock.Advance(24 * time.Hour)
	valid, err := svc.VerifyToken(ctx, sess.Token)
	require.NoError(t, err, "a token is still valid at its exact expiry")
	require.True(t, valid)

	clock.Advance(time.Millisecond)
	valid, err = svc.VerifyToken(ctx, sess.Token)
	require.ErrorIs(t, err, ErrTokenExpired)
	require.False(t, valid)

	_, err = svc.VerifyToken(ctx, cryptox.MustGenerateToken(cryptox.TokenSize128))
	require.ErrorIs(t, err, ErrTokenNotFound)
	require.False(t, errors.Is(err, ErrTokenExpired))

	// Logging in again revives the account.
	renewed, err := svc.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	valid, err = svc.VerifyToken(ctx, renewed.Token)
	require.NoError(t, err)
	require.True(t, valid)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, _ := newSQLiteSessions(t)

	_, err := svc.Register(ctx, "alice", "pw", "alice@example.com")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "other", "other@example.com")
	require.ErrorIs(t, err, ErrUsernameTaken)

	// Usernames are case-sensitive.
	_, err = svc.Register(ctx, "Alice", "pw", "alice2@example.com")
	require.NoError(t, err)
}

func TestRegisterLostRace(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fs := newFakeStore()
	svc := &SessionService{Store: racingStore{fs}}

	_, err := svc.Register(ctx, "alice", "pw", "alice@example.com")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "pw", "alice@example.com")
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestMissingFieldsSkipStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fs := newFakeStore()
	svc := &SessionService{Store: fs}

	cases := []struct {
		name string
		call func() error
	}{
		{"login without username", func() error { _, err := svc.Login(ctx, "", "pw"); return err }},
		{"login without password", func() error { _, err := svc.Login(ctx, "alice", ""); return err }},
		{"register without username", func() error { _, err := svc.Register(ctx, "", "pw", "a@example.com"); return err }},
		{"register without password", func() error { _, err := svc.Register(ctx, "alice", "", "a@example.com"); return err }},
		{"register without email", func() error { _, err := svc.Register(ctx, "alice", "pw", ""); return err }},
		{"verify without token", func() error { _, err := svc.VerifyToken(ctx, ""); return err }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, tc.call(), ErrInvalidRequest)
		})
	}
	require.Zero(t, fs.Calls())
}

func TestRegisterPasswordTooLong(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fs := newFakeStore()
	svc := &SessionService{Store: fs}

	_, err := svc.Register(ctx, "alice", strings.Repeat("a", 73), "alice@example.com")
	require.ErrorIs(t, err, ErrInvalidRequest)
	require.ErrorIs(t, err, cryptox.ErrPasswordTooLong)

	_, err = fs.WebAccounts().GetWebAccountByUsername(ctx, "alice")
	require.Error(t, err)
}

func TestStorageFailures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	boom := errors.New("database is locked")

	fs := newFakeStore()
	fs.failWith = boom
	svc := &SessionService{Store: fs}

	_, err := svc.Login(ctx, "alice", "pw")
	require.ErrorIs(t, err, ErrStorage)
	require.ErrorIs(t, err, boom)

	_, err = svc.Register(ctx, "alice", "pw", "alice@example.com")
	require.ErrorIs(t, err, ErrStorage)

	_, err = svc.VerifyToken(ctx, "abc")
	require.ErrorIs(t, err, ErrStorage)
}
