// Package library implements the book catalog: the Book model and its
// validation, the Store that owns the authoritative collection, and the
// message protocol used to push catalog snapshots to connected observers.
//
// Every successful mutation made through a Store results in exactly one
// snapshot of the full collection being delivered to every subscribed
// observer, in mutation order:
//
//	store := library.NewStore(library.NewMemoryRepository(library.SeedBooks()...))
//	h, err := store.Subscribe(ctx, obs) // obs receives the current catalog
//	if err != nil {
//		return err
//	}
//	defer store.Unsubscribe(h)
//
//	book, err := store.Add(ctx, library.Book{Title: "Animal Farm", Author: "George Orwell", Year: "1945"})
//
// Transports live in the httpapi (REST and Server-Sent Events) and wsapi
// (WebSocket) subpackages. The client subpackage keeps a local copy of the
// catalog in sync over either of them.
package library
