// Package wsapi serves the catalog over WebSocket.
//
// Clients send JSON frames of the form {"type":..., "data":...}:
//
//	{"type":"getBooks"}
//	{"type":"addBook","data":{"title":"Dune","author":"Frank Herbert","year":"1965","genre":"Sci-Fi"}}
//	{"type":"updateBook","data":{"id":8,"title":"Dune","author":"Frank Herbert","year":"1965","genre":"Classic"}}
//	{"type":"removeBook","data":{"id":8}}
//
// A connection receives the full catalog right after the handshake and
// again after every successful mutation, whoever made it:
//
//	{"type":"books","data":[...]}
//
// getBooks answers the requester only. Malformed frames, unknown types and
// rejected mutations produce {"type":"error","data":"..."} for the sender
// alone and leave the connection open.
package wsapi
