// Package handler defines the request processing contract shared by the router,
// the response helpers and the middleware packages.
//
// A handler receives a typed request context and returns a Response, a deferred
// rendering function. Separating the decision (which response) from the rendering
// (writing bytes) lets middleware decorate the response before anything reaches
// the wire:
//
//	func listBooks(ctx *router.Context) handler.Response {
//		books, err := store.List(ctx)
//		if err != nil {
//			return response.Error(err)
//		}
//		return response.JSON(books)
//	}
//
// Middleware composes with Chain, the first middleware being the outermost:
//
//	h := handler.Chain(listBooks, middleware.RequestID[*router.Context]())
//
// Errors returned by a Response are routed to the ErrorHandler configured on the
// router, which turns them into HTTP error payloads.
package handler
