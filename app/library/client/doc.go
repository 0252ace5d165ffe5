// Package client keeps a local copy of the catalog in sync with a bookshelf
// server over either transport.
//
// HTTPService uses the REST endpoints for writes and follows the event
// stream for updates; WSService does both over a single WebSocket. Manager
// holds one of each and switches between them at runtime:
//
//	m := client.NewManager(
//		client.NewHTTPService("http://localhost:5000"),
//		client.NewWSService("ws://localhost:3000"),
//		client.ModeHTTP,
//	)
//	go m.Run(ctx)
//
//	for books := range m.Current().State().Books().Subscribe(ctx) {
//		render(books)
//	}
//
// Every service publishes what it learns through a SyncState: the last
// catalog snapshot and a ResultMessage describing the outcome of the most
// recent operation.
package client
