package redis

import "errors"

var (
	ErrEmptyConnectionURL = errors.New("redis: empty connection url")
	ErrUnsupportedScheme  = errors.New("redis: connection url must use redis:// or rediss://")
	ErrInvalidURL         = errors.New("redis: invalid connection url")
	ErrNotReady           = errors.New("redis: server did not answer ping")
	ErrHealthcheckFailed  = errors.New("redis: healthcheck failed")
)
