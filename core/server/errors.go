package server

import "errors"

var (
	ErrMissingAddress = errors.New("server: listen address is empty")
	ErrAlreadyRunning = errors.New("server: already running")
	ErrLoadCert       = errors.New("server: cannot load tls key pair")
)
