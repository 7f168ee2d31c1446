package service

import "errors"

var (
	ErrUnauthenticated = errors.New("sign in required")
	ErrForbidden       = errors.New("not allowed")
	ErrNotFound        = errors.New("not found")
	ErrRelayFailed     = errors.New("failed to send message")
)
