// Package middleware provides the HTTP middleware shared by the catalog
// listeners: request IDs, access logging, CORS, security headers and
// request body limits.
//
// All middleware is generic over the handler context type and comes in a
// default form and a WithConfig form:
//
//	r := router.New[*router.Context](
//		router.WithMiddleware(
//			middleware.RequestID[*router.Context](),
//			middleware.LoggingWithLogger[*router.Context](log),
//			middleware.CORS[*router.Context](),
//		),
//	)
//
// RequestIDExtractor plugs the request ID into logger.New so that every
// record written with the request context carries it.
package middleware
