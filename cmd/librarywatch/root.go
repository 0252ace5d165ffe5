package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/bookshelf/app/library"
	"github.com/dmitrymomot/bookshelf/app/library/client"
	"github.com/dmitrymomot/bookshelf/core/logger"
)

type options struct {
	baseURL string
	wsURL   string
	mode    string
	timeout time.Duration
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "librarywatch",
		Short:         "Follow and edit the library catalog",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "REST API base URL")
	root.PersistentFlags().StringVar(&opts.wsURL, "ws-url", "ws://localhost:3000", "WebSocket URL")
	root.PersistentFlags().StringVar(&opts.mode, "mode", "http", "transport: http|sse|websocket|ws")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 5*time.Second, "wait for connection and replies")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log connection events to stderr")

	root.AddCommand(
		newWatchCmd(opts),
		newListCmd(opts),
		newAddCmd(opts),
		newUpdateCmd(opts),
		newRemoveCmd(opts),
	)
	return root
}

// session holds both services behind a Manager.
type session struct {
	opts    *options
	manager *client.Manager
	http    *client.HTTPService
	ws      *client.WSService
}

func newSession(cmd *cobra.Command, opts *options) (*session, error) {
	mode, err := client.ParseMode(opts.mode)
	if err != nil {
		return nil, err
	}

	log := logger.Noop()
	if opts.verbose {
		log = logger.New(logger.WithOutput(cmd.ErrOrStderr()), logger.WithTextFormatter())
	}

	s := &session{
		opts: opts,
		http: client.NewHTTPService(opts.baseURL),
		ws:   client.NewWSService(opts.wsURL),
	}
	s.manager = client.NewManager(s.http, s.ws, mode, client.WithLogger(log))
	return s, nil
}

func (s *session) state() *client.SyncState {
	return s.manager.Current().State()
}

// connect starts following the catalog when the current mode needs a live
// connection for commands. The returned function stops it.
func (s *session) connect(ctx context.Context) (func(), error) {
	if s.manager.Mode() != client.ModeWebSocket {
		return func() {}, nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.manager.Run(runCtx)
	}()
	stop := func() {
		cancel()
		<-done
	}

	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(s.opts.timeout)
	for s.ws.ConnState() != library.StateOpen {
		select {
		case <-ticker.C:
		case <-deadline:
			stop()
			return nil, fmt.Errorf("connect %s: %w", s.opts.wsURL, client.ErrNotConnected)
		case <-ctx.Done():
			stop()
			return nil, ctx.Err()
		}
	}
	return stop, nil
}

// perform runs op and returns the result message it produced. Over
// WebSocket the outcome arrives asynchronously, so it waits for the next
// result or the timeout.
func (s *session) perform(ctx context.Context, op func(context.Context) error) (client.ResultMessage, error) {
	stop, err := s.connect(ctx)
	if err != nil {
		return client.ResultMessage{}, err
	}
	defer stop()

	results := s.state().Result()
	if s.manager.Mode() == client.ModeHTTP {
		err := op(ctx)
		return results.Get(), err
	}

	waitCtx, cancel := context.WithTimeout(ctx, s.opts.timeout)
	defer cancel()
	updates := results.Subscribe(waitCtx)
	<-updates

	if err := op(ctx); err != nil {
		return results.Get(), err
	}
	select {
	case msg, ok := <-updates:
		if ok {
			return msg, nil
		}
	case <-waitCtx.Done():
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return client.ResultMessage{}, ctx.Err()
	}
	return results.Get(), nil
}

// snapshot returns the current catalog. Over WebSocket it waits for the
// first snapshot after connecting; an empty catalog ends the wait at the
// timeout.
func (s *session) snapshot(ctx context.Context) ([]library.Book, error) {
	if s.manager.Mode() == client.ModeHTTP {
		if err := s.manager.Refresh(ctx); err != nil {
			return nil, err
		}
		return s.state().Books().Get(), nil
	}

	waitCtx, cancel := context.WithTimeout(ctx, s.opts.timeout)
	defer cancel()
	books := s.state().Books()
	updates := books.Subscribe(waitCtx)
	<-updates

	stop, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer stop()

	select {
	case b, ok := <-updates:
		if ok {
			return b, nil
		}
	case <-waitCtx.Done():
	}
	return books.Get(), ctx.Err()
}
