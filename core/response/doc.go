// Package response builds handler.Response values: plain text, JSON,
// structured HTTP errors, Server-Sent Events streams and WebSocket upgrades.
//
//	func getBook(ctx *router.Context) handler.Response {
//		book, ok, err := store.Get(ctx, id)
//		switch {
//		case err != nil:
//			return response.Error(err)
//		case !ok:
//			return response.Error(response.ErrNotFound.WithMessage("book not found"))
//		}
//		return response.JSON(book)
//	}
//
// # Errors
//
// HTTPError carries a status, a machine readable code, a message and optional
// details. JSONErrorHandler and ErrorHandler are router error handlers that
// convert any error with AsHTTPError: HTTPError values pass through, errors
// implementing StatusCode() int map to the predefined error for that status,
// anything else becomes a 500 with the cause in details.
//
// # Server-Sent Events
//
// SSE streams values from a channel until it closes or the client goes away.
// Non-string values are JSON encoded into a single data line:
//
//	events := make(chan any, 1)
//	events <- books
//	return response.SSE(events, response.WithKeepAlive(15*time.Second))
//
// # WebSocket
//
// WebSocket upgrades the connection and hands it to a message loop. Lifecycle
// hooks observe connect, disconnect and errors:
//
//	return response.WebSocket(loop,
//		response.WithWSAllowAnyOrigin(),
//		response.WithWSOnDisconnect(cleanup),
//	)
package response
