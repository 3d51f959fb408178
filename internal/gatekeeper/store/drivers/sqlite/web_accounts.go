package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/estopia/gatekeeper/internal/gatekeeper/domain"
	"github.com/estopia/gatekeeper/internal/gatekeeper/store"
)

const webAccountColumns = `id, username, password_hash, email, web_token, web_token_expire, created_at, updated_at`

const createWebAccount = `
INSERT INTO web_accounts (` + webAccountColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

const getWebAccountByUsername = `SELECT ` + webAccountColumns + ` FROM web_accounts WHERE username = ?`

const getWebAccountByToken = `SELECT ` + webAccountColumns + ` FROM web_accounts WHERE web_token = ?`

const updateWebToken = `
UPDATE web_accounts
SET web_token = ?, web_token_expire = ?, updated_at = ?
WHERE id = ?`

type webAccountsRepo struct {
	db  DBTX
	now func() time.Time
}

func (r *webAccountsRepo) CreateWebAccount(ctx context.Context, a domain.WebAccount) error {
	now := toMillis(r.now())

	var token sql.NullString
	if a.WebToken != nil {
		token = sql.NullString{String: *a.WebToken, Valid: true}
	}
	var expire sql.NullInt64
	if a.WebTokenExpire != nil {
		expire = sql.NullInt64{Int64: toMillis(*a.WebTokenExpire), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, createWebAccount,
		a.ID,
		a.Username,
		a.PasswordHash,
		a.Email,
		token,
		expire,
		now,
		now,
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *webAccountsRepo) GetWebAccountByUsername(ctx context.Context, username string) (domain.WebAccount, error) {
	return scanWebAccount(r.db.QueryRowContext(ctx, getWebAccountByUsername, username))
}

func (r *webAccountsRepo) GetWebAccountByToken(ctx context.Context, token string) (domain.WebAccount, error) {
	return scanWebAccount(r.db.QueryRowContext(ctx, getWebAccountByToken, token))
}

func (r *webAccountsRepo) UpdateWebToken(ctx context.Context, accountID, token string, expire time.Time) error {
	res, err := r.db.ExecContext(ctx, updateWebToken,
		token,
		toMillis(expire),
		toMillis(r.now()),
		accountID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanWebAccount(row *sql.Row) (domain.WebAccount, error) {
	var (
		a                  domain.WebAccount
		token              sql.NullString
		expire             sql.NullInt64
		created, updatedAt int64
	)
	err := row.Scan(
		&a.ID,
		&a.Username,
		&a.PasswordHash,
		&a.Email,
		&token,
		&expire,
		&created,
		&updatedAt,
	)
	if err != nil {
		return domain.WebAccount{}, mapNotFound(err)
	}
	a.WebToken = mapNullString(token)
	a.WebTokenExpire = mapNullMillis(expire)
	a.CreatedAt = fromMillis(created)
	a.UpdatedAt = fromMillis(updatedAt)
	return a, nil
}
