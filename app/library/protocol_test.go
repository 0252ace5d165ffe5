package library_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bookshelf/app/library"
)

func TestMessageEncoding(t *testing.T) {
	t.Parallel()

	t.Run("snapshot", func(t *testing.T) {
		t.Parallel()
		raw, err := json.Marshal(library.Snapshot([]library.Book{
			{ID: 1, Title: "1984", Author: "George Orwell", Year: "1949", Genre: "Dystopian"},
		}))
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"books","data":[{"id":1,"title":"1984","author":"George Orwell","year":"1949","genre":"Dystopian"}]}`, string(raw))
	})

	t.Run("empty snapshot", func(t *testing.T) {
		t.Parallel()
		raw, err := json.Marshal(library.Snapshot(nil))
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"books","data":[]}`, string(raw))
	})

	t.Run("error notice", func(t *testing.T) {
		t.Parallel()
		raw, err := json.Marshal(library.ErrorNotice("Unknown message type"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"error","data":"Unknown message type"}`, string(raw))
	})

	t.Run("unknown type", func(t *testing.T) {
		t.Parallel()
		_, err := json.Marshal(library.Message{Type: "bogus"})
		assert.Error(t, err)
	})
}

func TestMessageDecoding(t *testing.T) {
	t.Parallel()

	var msg library.Message
	require.NoError(t, json.Unmarshal([]byte(`{"type":"books","data":[{"id":2,"title":"Emma","author":"Jane Austen","year":"1815","genre":""}]}`), &msg))
	assert.Equal(t, library.TypeBooks, msg.Type)
	require.Len(t, msg.Books, 1)
	assert.Equal(t, "Emma", msg.Books[0].Title)

	require.NoError(t, json.Unmarshal([]byte(`{"type":"error","data":"boom"}`), &msg))
	assert.Equal(t, library.TypeError, msg.Type)
	assert.Equal(t, "boom", msg.Error)
	assert.Nil(t, msg.Books)

	assert.Error(t, json.Unmarshal([]byte(`{"type":"bogus"}`), &msg))
}

func TestDecodeRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		frame   string
		want    library.MessageType
		wantErr bool
	}{
		{name: "get books", frame: `{"type":"getBooks"}`, want: library.TypeGetBooks},
		{name: "add book", frame: `{"type":"addBook","data":{"title":"Dune"}}`, want: library.TypeAddBook},
		{name: "unknown type passes through", frame: `{"type":"bogus"}`, want: "bogus"},
		{name: "invalid json", frame: `{"type":`, wantErr: true},
		{name: "missing type", frame: `{"data":{}}`, wantErr: true},
		{name: "unknown field", frame: `{"type":"getBooks","extra":1}`, wantErr: true},
		{name: "empty frame", frame: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req, err := library.DecodeRequest([]byte(tt.frame))
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, library.ErrTransport)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.Type)
		})
	}
}

func TestRequestPayloads(t *testing.T) {
	t.Parallel()

	req, err := library.NewRequest(library.TypeAddBook, library.Book{Title: "  Dune ", Author: "Frank Herbert", Year: "1965"})
	require.NoError(t, err)
	book, err := req.BookData()
	require.NoError(t, err)
	assert.Equal(t, "Dune", book.Title)

	req, err = library.NewRequest(library.TypeRemoveBook, library.RemoveData{ID: 4})
	require.NoError(t, err)
	data, err := req.RemoveData()
	require.NoError(t, err)
	assert.Equal(t, int64(4), data.ID)

	req, err = library.DecodeRequest([]byte(`{"type":"removeBook"}`))
	require.NoError(t, err)
	_, err = req.RemoveData()
	assert.ErrorIs(t, err, library.ErrTransport)

	req, err = library.NewRequest(library.TypeGetBooks, nil)
	require.NoError(t, err)
	assert.Empty(t, req.Data)
}
