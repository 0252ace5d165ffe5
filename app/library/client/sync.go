package client

import (
	"sync"

	"github.com/dmitrymomot/bookshelf/app/library"
)

// ResultType classifies a ResultMessage.
type ResultType string

const (
	ResultSuccess ResultType = "success"
	ResultError   ResultType = "error"
	ResultInfo    ResultType = "info"
	ResultWarning ResultType = "warning"
)

// ResultMessage reports the outcome of the latest operation to the user.
type ResultMessage struct {
	Type    ResultType `json:"type"`
	Message string     `json:"message"`
}

// DefaultUpdateMessage is published when a snapshot changes a non-empty cache.
const DefaultUpdateMessage = "The library has been updated."

// SyncState caches the last catalog snapshot a client received.
type SyncState struct {
	mu            sync.Mutex
	books         *Value[[]library.Book]
	result        *Value[ResultMessage]
	updateMessage string
}

// NewSyncState creates an empty state. updateMessage replaces
// DefaultUpdateMessage when non-empty.
func NewSyncState(updateMessage string) *SyncState {
	if updateMessage == "" {
		updateMessage = DefaultUpdateMessage
	}
	return &SyncState{
		books:         NewValue([]library.Book{}),
		result:        NewValue(ResultMessage{}),
		updateMessage: updateMessage,
	}
}

// Books is the cached catalog.
func (s *SyncState) Books() *Value[[]library.Book] { return s.books }

// Result is the latest result message.
func (s *SyncState) Result() *Value[ResultMessage] { return s.result }

// ApplySnapshot replaces the cache with books if they differ from it and
// reports whether they did. A change to a non-empty cache also publishes a
// success message; the first snapshot never does.
func (s *SyncState) ApplySnapshot(books []library.Book) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.books.Get()
	if library.SameBooks(current, books) {
		return false
	}

	s.books.Set(library.CloneBooks(books))
	if len(current) > 0 {
		s.result.Set(ResultMessage{Type: ResultSuccess, Message: s.updateMessage})
	}
	return true
}

// ApplyError publishes an error message.
func (s *SyncState) ApplyError(text string) {
	s.Notify(ResultError, text)
}

// Notify publishes a result message.
func (s *SyncState) Notify(t ResultType, text string) {
	s.result.Set(ResultMessage{Type: t, Message: text})
}

// Find returns the cached book with id.
func (s *SyncState) Find(id int64) (library.Book, bool) {
	for _, b := range s.books.Get() {
		if b.ID == id {
			return b, true
		}
	}
	return library.Book{}, false
}
