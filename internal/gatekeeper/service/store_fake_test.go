package service

import (
	"context"
	"sync"
	"time"

	"github.com/estopia/gatekeeper/internal/gatekeeper/domain"
	"github.com/estopia/gatekeeper/internal/gatekeeper/store"
)

// fakeStore is an in-memory store.Store that counts every repository call
// and can be told to fail.
type fakeStore struct {
	mu sync.Mutex

	calls    int
	links    map[string]domain.DiscordLink
	accounts map[string]domain.WebAccount // keyed by id

	failWith error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		links:    map[string]domain.DiscordLink{},
		accounts: map[string]domain.WebAccount{},
	}
}

func (f *fakeStore) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeStore) DiscordLinks() store.DiscordLinks { return (*fakeLinks)(f) }
func (f *fakeStore) WebAccounts() store.WebAccounts   { return (*fakeAccounts)(f) }
func (f *fakeStore) ApplyMigrations() error           { return nil }
func (f *fakeStore) Close() error                     { return nil }
func (f *fakeStore) Ping(context.Context) error       { return nil }

func (f *fakeStore) enter() error {
	f.calls++
	return f.failWith
}

type fakeLinks fakeStore

func (r *fakeLinks) UpsertDiscordLink(_ context.Context, l domain.DiscordLink) error {
	f := (*fakeStore)(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(); err != nil {
		return err
	}
	if prev, ok := f.links[l.UserID]; ok {
		l.CreatedAt = prev.CreatedAt
	}
	f.links[l.UserID] = l
	return nil
}

func (r *fakeLinks) GetDiscordLinkByUserID(_ context.Context, userID string) (domain.DiscordLink, error) {
	f := (*fakeStore)(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(); err != nil {
		return domain.DiscordLink{}, err
	}
	l, ok := f.links[userID]
	if !ok {
		return domain.DiscordLink{}, store.ErrNotFound
	}
	return l, nil
}

type fakeAccounts fakeStore

func (r *fakeAccounts) CreateWebAccount(_ context.Context, a domain.WebAccount) error {
	f := (*fakeStore)(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(); err != nil {
		return err
	}
	for _, existing := range f.accounts {
		if existing.Username == a.Username {
			return store.ErrAlreadyExists
		}
	}
	f.accounts[a.ID] = a
	return nil
}

func (r *fakeAccounts) GetWebAccountByUsername(_ context.Context, username string) (domain.WebAccount, error) {
	f := (*fakeStore)(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(); err != nil {
		return domain.WebAccount{}, err
	}
	for _, a := range f.accounts {
		if a.Username == username {
			return a, nil
		}
	}
	return domain.WebAccount{}, store.ErrNotFound
}

func (r *fakeAccounts) GetWebAccountByToken(_ context.Context, token string) (domain.WebAccount, error) {
	f := (*fakeStore)(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(); err != nil {
		return domain.WebAccount{}, err
	}
	for _, a := range f.accounts {
		if a.WebToken != nil && *a.WebToken == token {
			return a, nil
		}
	}
	return domain.WebAccount{}, store.ErrNotFound
}

func (r *fakeAccounts) UpdateWebToken(_ context.Context, accountID, token string, expire time.Time) error {
	f := (*fakeStore)(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(); err != nil {
		return err
	}
	a, ok := f.accounts[accountID]
	if !ok {
		return store.ErrNotFound
	}
	a.WebToken = &token
	a.WebTokenExpire = &expire
	f.accounts[accountID] = a
	return nil
}

// racingStore hides existing usernames from the pre-check, as if another
// registration committed between the lookup and the insert.
type racingStore struct{ *fakeStore }

func (s racingStore) WebAccounts() store.WebAccounts {
	return racingAccounts{(*fakeAccounts)(s.fakeStore)}
}

type racingAccounts struct{ *fakeAccounts }

func (racingAccounts) GetWebAccountByUsername(context.Context, string) (domain.WebAccount, error) {
	return domain.WebAccount{}, store.ErrNotFound
}
