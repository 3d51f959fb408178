package domain

import "time"

// DiscordLink ties a Discord account to the provider tokens issued for it.
// UserID is Discord's snowflake id; re-linking overwrites every other field.
type DiscordLink struct {
	UserID       string
	Username     string
	AccessToken  string
	RefreshToken string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
