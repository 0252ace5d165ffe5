// Command librarywatch follows the library catalog over HTTP+SSE or
// WebSocket and edits it.
//
//	librarywatch watch --mode ws
//	librarywatch add --title Dune --author "Frank Herbert" --year 1965
//	librarywatch update 3 --genre Classic
//	librarywatch remove 3
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
