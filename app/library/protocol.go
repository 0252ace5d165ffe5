package library

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrymomot/bookshelf/core/binder"
)

// MessageType is the "type" field of a protocol frame.
type MessageType string

// Inbound message types.
const (
	TypeGetBooks   MessageType = "getBooks"
	TypeAddBook    MessageType = "addBook"
	TypeUpdateBook MessageType = "updateBook"
	TypeRemoveBook MessageType = "removeBook"
)

// Outbound message types.
const (
	TypeBooks MessageType = "books"
	TypeError MessageType = "error"
)

// Message is an outbound frame: a full catalog snapshot or an error notice.
// It encodes as {"type":"books","data":[...]} or {"type":"error","data":"..."}.
type Message struct {
	Type  MessageType
	Books []Book
	Error string
}

// Snapshot builds a books message holding a copy of books.
func Snapshot(books []Book) Message {
	return Message{Type: TypeBooks, Books: CloneBooks(books)}
}

// ErrorNotice builds an error message with text.
func ErrorNotice(text string) Message {
	return Message{Type: TypeError, Error: text}
}

type wireMessage struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

func (m Message) MarshalJSON() ([]byte, error) {
	var data any
	switch m.Type {
	case TypeBooks:
		data = CloneBooks(m.Books)
	case TypeError:
		data = m.Error
	default:
		return nil, fmt.Errorf("library: cannot encode message type %q", m.Type)
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireMessage{Type: m.Type, Data: raw})
}

func (m *Message) UnmarshalJSON(b []byte) error {
	var w wireMessage
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	*m = Message{Type: w.Type}
	switch w.Type {
	case TypeBooks:
		m.Books = []Book{}
		if len(w.Data) > 0 {
			return json.Unmarshal(w.Data, &m.Books)
		}
	case TypeError:
		if len(w.Data) > 0 {
			return json.Unmarshal(w.Data, &m.Error)
		}
	default:
		return fmt.Errorf("library: unknown message type %q", w.Type)
	}
	return nil
}

// Request is an inbound frame.
type Request struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// RemoveData is the payload of a removeBook request.
type RemoveData struct {
	ID int64 `json:"id"`
}

// NewRequest encodes data as the payload of a request of type t.
func NewRequest(t MessageType, data any) (Request, error) {
	req := Request{Type: t}
	if data == nil {
		return req, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return Request{}, err
	}
	req.Data = raw
	return req, nil
}

// DecodeRequest parses an inbound frame. Failures are *TransportError.
func DecodeRequest(frame []byte) (Request, error) {
	var req Request
	if err := binder.Decode(frame, &req); err != nil {
		return Request{}, &TransportError{Err: err}
	}
	if req.Type == "" {
		return Request{}, &TransportError{Err: fmt.Errorf("missing message type")}
	}
	return req, nil
}

// BookData decodes the payload of an addBook or updateBook request.
func (r Request) BookData() (Book, error) {
	var b Book
	if err := binder.Decode(r.Data, &b); err != nil {
		return Book{}, &TransportError{Err: fmt.Errorf("%s payload: %w", r.Type, err)}
	}
	return b, nil
}

// RemoveData decodes the payload of a removeBook request.
func (r Request) RemoveData() (RemoveData, error) {
	var d RemoveData
	if err := binder.Decode(r.Data, &d); err != nil {
		return RemoveData{}, &TransportError{Err: fmt.Errorf("%s payload: %w", r.Type, err)}
	}
	return d, nil
}
