package sqlite

import "errors"

var (
	ErrEmptyPath         = errors.New("empty sqlite path, use SQLITE_PATH env var")
	ErrFailedToOpenDB    = errors.New("failed to open sqlite database")
	ErrHealthcheckFailed = errors.New("sqlite healthcheck failed")
)
