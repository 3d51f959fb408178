package sqlite

import (
	"context"
	"time"

	"github.com/estopia/gatekeeper/internal/gatekeeper/domain"
)

const upsertDiscordLink = `
INSERT INTO discord_links (user_id, username, access_token, refresh_token, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (user_id) DO UPDATE SET
    username      = excluded.username,
    access_token  = excluded.access_token,
    refresh_token = excluded.refresh_token,
    updated_at    = excluded.updated_at`

const getDiscordLinkByUserID = `
SELECT user_id, username, access_token, refresh_token, created_at, updated_at
FROM discord_links
WHERE user_id = ?`

type discordLinksRepo struct {
	db  DBTX
	now func() time.Time
}

func (r *discordLinksRepo) UpsertDiscordLink(ctx context.Context, l domain.DiscordLink) error {
	now := toMillis(r.now())
	_, err := r.db.ExecContext(ctx, upsertDiscordLink,
		l.UserID,
		l.Username,
		l.AccessToken,
		l.RefreshToken,
		now,
		now,
	)
	return err
}

func (r *discordLinksRepo) GetDiscordLinkByUserID(ctx context.Context, userID string) (domain.DiscordLink, error) {
	var (
		l                  domain.DiscordLink
		created, updatedAt int64
	)
	err := r.db.QueryRowContext(ctx, getDiscordLinkByUserID, userID).Scan(
		&l.UserID,
		&l.Username,
		&l.AccessToken,
		&l.RefreshToken,
		&created,
		&updatedAt,
	)
	if err != nil {
		return domain.DiscordLink{}, mapNotFound(err)
	}
	l.CreatedAt = fromMillis(created)
	l.UpdatedAt = fromMillis(updatedAt)
	return l, nil
}
