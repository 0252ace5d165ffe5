// Command library serves the library catalog over REST, SSE and WebSocket.
// Configuration is read from the environment and an optional .env file.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/bookshelf/app/bookshelf"
	"github.com/dmitrymomot/bookshelf/core/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("library backend failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	app, err := bookshelf.NewApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()
	logger.SetAsDefault(app.Logger())

	return app.Run(ctx)
}
