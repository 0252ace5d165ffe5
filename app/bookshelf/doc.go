// Package bookshelf assembles the library backend: configuration, logging,
// storage selection, the REST and SSE API, and the WebSocket hub on its own
// listener.
//
//	app, err := bookshelf.NewApp(ctx)
//	if err != nil {
//		return err
//	}
//	defer app.Close()
//	return app.Run(ctx)
//
// Routes on SERVER_ADDR:
//
//	GET    /             API info
//	GET    /books        list
//	POST   /books        add
//	GET    /books/events SSE snapshots
//	GET    /books/{id}   get
//	PUT    /books/{id}   update
//	DELETE /books/{id}   remove
//	GET    /health       storage status and book count
//	GET    /ws           WebSocket
//
// WS_ADDR serves the WebSocket protocol at "/".
package bookshelf
