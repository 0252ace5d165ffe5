// Package broadcast keeps a registry of live observers and fans messages
// out to them.
//
// Observers are anything that can Send a message and report whether it is
// still Open: an SSE stream, a WebSocket connection, a test double.
//
//	reg := broadcast.NewRegistry[library.Message](broadcast.WithLogger[library.Message](log))
//	h := reg.Register(conn)
//	defer reg.Unregister(h)
//
//	n := reg.Broadcast(ctx, snapshot) // number of observers reached
//
// Broadcast never fails as a whole. An observer whose Send returns an error
// is logged, removed, and skipped; the rest still receive the message.
// Closed observers stay registered until unregistered but are skipped.
//
// All methods are safe for concurrent use. The registry mutex is held for
// the whole delivery loop, so Register and Unregister calls made during a
// broadcast take effect before or after it, never in the middle.
package broadcast
