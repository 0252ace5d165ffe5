// Package router provides a generic HTTP router with typed request contexts,
// middleware composition, route groups and sub-router mounting.
//
// Routing is delegated to net/http.ServeMux method and wildcard patterns, so
// path parameters use the standard library syntax:
//
//	r := router.New[*router.Context]()
//	r.Get("/books", listBooks)
//	r.Get("/books/{id}", getBook)
//	r.Post("/books", createBook)
//
//	func getBook(ctx *router.Context) handler.Response {
//		id := ctx.Param("id")
//		// ...
//	}
//
// The pattern "/" is reserved for the router's not found handling; register the
// site root with "/{$}".
//
// # Middleware
//
// Middleware registered with Use on the root router wraps every request,
// including 404 and 405 responses, which lets CORS preflight handling work for
// paths without an OPTIONS route. Groups created with With, Group or Route
// apply their middleware only to the routes registered through them:
//
//	r.Use(middleware.RequestID[*router.Context]())
//	r.Route("/admin", func(r router.Router[*router.Context]) {
//		r.Use(requireToken)
//		r.Delete("/books/{id}", deleteBook)
//	})
//
// # Errors
//
// Errors returned by a handler's Response, unmatched routes and recovered panics
// reach the ErrorHandler set with WithErrorHandler. Recovered panics arrive as
// *PanicError. Errors exposing StatusCode() int choose their own status.
//
// # Custom contexts
//
// Applications with their own context type pass a factory:
//
//	r := router.New(router.WithContextFactory(newAppContext))
package router
