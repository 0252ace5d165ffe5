// Package httpapi exposes a library.Store over REST and streams catalog
// snapshots to browsers with Server-Sent Events.
//
// Routes:
//
//	GET    /               API description
//	GET    /books          full catalog
//	GET    /books/{id}     one book
//	POST   /books          create, 201 with Location
//	PUT    /books/{id}     replace
//	DELETE /books/{id}     remove, 204
//	GET    /books/events   text/event-stream of catalog snapshots
//	GET    /health         storage status and book count
//	GET    /health/live    liveness probe
//	GET    /health/ready   readiness probe
//
// Each snapshot on the event stream is a bare JSON array of books:
//
//	data: [{"id":1,"title":"1984","author":"George Orwell","year":"1949","genre":"Dystopian"}]
//
// Errors are JSON objects with code, message and details. Register
// ErrorHandler on the router so catalog errors map to the right status.
package httpapi
