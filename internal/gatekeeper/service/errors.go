package service

import "errors"

var (
	ErrInvalidRequest  = errors.New("invalid_request")
	ErrUserNotFound    = errors.New("user_not_found")
	ErrInvalidPassword = errors.New("invalid_password")
	ErrUsernameTaken   = errors.New("username_taken")
	ErrTokenNotFound   = errors.New("invalid_token")
	ErrTokenExpired    = errors.New("token_expired")

	// Upstream and storage failures wrap the underlying cause. Handlers log
	// the detail and answer with a generic message.
	ErrUpstream = errors.New("upstream_error")
	ErrStorage  = errors.New("storage_error")
)
