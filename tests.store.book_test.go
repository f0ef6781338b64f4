package main

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// inMemoryBlob is a trivial in-memory blob backend recording each save.
type inMemoryBlob struct {
	mu    sync.Mutex
	data  map[string][]byte
	saves int
}

func newInMemoryBlob() *inMemoryBlob {
	return &inMemoryBlob{data: make(map[string][]byte)}
}

func (b *inMemoryBlob) Fetch(_ context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.data[key]
	if !ok {
		return nil, ErrBlobNotFound
	}
	return data, nil
}

func (b *inMemoryBlob) Save(_ context.Context, key string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = data
	b.saves++
	return nil
}

func newTestBookStore(t *testing.T, blob BlobStorage) *BookStore {
	t.Helper()
	bs, err := NewBookStore(context.TODO(), zap.NewNop(), blob, "test.books.json", NewIDsHandler())
	require.NoError(t, err, "failed in creating a test book store")
	return bs
}

// TestNewBookStore ensures the store hydrates from the books document
// and starts empty when that document does not exist yet.
func TestNewBookStore(t *testing.T) {
	t.Run("missing document", func(t *testing.T) {
		bs := newTestBookStore(t, newInMemoryBlob())
		assert.Empty(t, bs.GetAll(context.TODO()))
	})

	t.Run("existing document", func(t *testing.T) {
		blob := newInMemoryBlob()
		doc := `[{"name":"Dune","genre":"fiction","price":9.99,"book_id":"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"},
			{"name":"Emma","genre":"romance","price":5,"book_id":"bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"}]`
		err := blob.Save(context.TODO(), "test.books.json", []byte(doc))
		require.NoError(t, err)

		bs := newTestBookStore(t, blob)
		books := bs.GetAll(context.TODO())
		require.Len(t, books, 2)
		assert.Equal(t, "Dune", books[0].Name)
		assert.Equal(t, "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", books[0].ID)
		assert.Equal(t, "Emma", books[1].Name)
	})

	t.Run("corrupted document", func(t *testing.T) {
		blob := newInMemoryBlob()
		err := blob.Save(context.TODO(), "test.books.json", []byte(`{"not":"an array"}`))
		require.NoError(t, err)

		bs, err := NewBookStore(context.TODO(), zap.NewNop(), blob, "test.books.json", NewIDsHandler())
		assert.Error(t, err)
		assert.Nil(t, bs)
	})

	t.Run("backend failure", func(t *testing.T) {
		blob := &MockBlobStorage{
			FetchFunc: func(ctx context.Context, key string) ([]byte, error) {
				return nil, errors.New("backend unreachable")
			},
		}
		bs, err := NewBookStore(context.TODO(), zap.NewNop(), blob, "test.books.json", NewIDsHandler())
		assert.Error(t, err)
		assert.Nil(t, bs)
	})
}

// TestBookStore_Add ensures each insertion gets a fresh 32 hex chars id,
// ignores any caller supplied id and rewrites the persisted document.
func TestBookStore_Add(t *testing.T) {
	blob := newInMemoryBlob()
	bs := newTestBookStore(t, blob)

	book := Book{Name: "Dune", Genre: "fiction", Price: 9.99, ID: "should-be-ignored"}
	id, err := bs.Add(context.TODO(), book)
	require.NoError(t, err)
	assert.True(t, NewIDsHandler().IsValidHex(id))
	assert.NotEqual(t, "should-be-ignored", id)

	stored, err := bs.GetByID(context.TODO(), id)
	require.NoError(t, err)
	assert.Equal(t, "Dune", stored.Name)
	assert.Equal(t, "fiction", stored.Genre)
	assert.Equal(t, 9.99, stored.Price)
	assert.Equal(t, id, stored.ID)

	otherID, err := bs.Add(context.TODO(), Book{Name: "Emma", Genre: "romance", Price: 5})
	require.NoError(t, err)
	assert.NotEqual(t, id, otherID)
	assert.Len(t, bs.GetAll(context.TODO()), 2)
	assert.Equal(t, 2, blob.saves)

	// The persisted document holds the full ordered collection.
	data, err := blob.Fetch(context.TODO(), "test.books.json")
	require.NoError(t, err)
	var records []Book
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 2)
	assert.Equal(t, id, records[0].ID)
	assert.Equal(t, otherID, records[1].ID)
}

// TestBookStore_GetByIndex ensures index lookups follow insertion order
// and out of bounds lookups fail with a range error.
func TestBookStore_GetByIndex(t *testing.T) {
	bs := newTestBookStore(t, newInMemoryBlob())
	first, err := bs.Add(context.TODO(), Book{Name: "Dune", Genre: "fiction", Price: 9.99})
	require.NoError(t, err)
	second, err := bs.Add(context.TODO(), Book{Name: "Emma", Genre: "romance", Price: 5})
	require.NoError(t, err)

	book, err := bs.GetByIndex(context.TODO(), 0)
	require.NoError(t, err)
	assert.Equal(t, first, book.ID)

	book, err = bs.GetByIndex(context.TODO(), 1)
	require.NoError(t, err)
	assert.Equal(t, second, book.ID)

	for _, index := range []int{-1, 2, 100} {
		_, err = bs.GetByIndex(context.TODO(), index)
		var outOfRange *IndexOutOfRangeError
		require.ErrorAs(t, err, &outOfRange)
		assert.Equal(t, index, outOfRange.Index)
		assert.Equal(t, 2, outOfRange.Count)
	}
}

// TestBookStore_Random ensures picking from an empty store fails and
// picking from a filled store returns a stored book.
func TestBookStore_Random(t *testing.T) {
	bs := newTestBookStore(t, newInMemoryBlob())
	_, err := bs.Random(context.TODO())
	assert.ErrorIs(t, err, ErrEmptyStore)

	id, err := bs.Add(context.TODO(), Book{Name: "Dune", Genre: "fiction", Price: 9.99})
	require.NoError(t, err)
	book, err := bs.Random(context.TODO())
	require.NoError(t, err)
	assert.Equal(t, id, book.ID)
}

// TestBookStore_Update ensures a wholesale replace keeps the lookup id
// even when the payload carries a different one.
func TestBookStore_Update(t *testing.T) {
	bs := newTestBookStore(t, newInMemoryBlob())
	id, err := bs.Add(context.TODO(), Book{Name: "Dune", Genre: "fiction", Price: 9.99})
	require.NoError(t, err)

	t.Run("existing book", func(t *testing.T) {
		updated, err := bs.Update(context.TODO(), id, Book{Name: "Dune Messiah", Genre: "fiction", Price: 12.50, ID: "some-other-id"})
		require.NoError(t, err)
		assert.Equal(t, id, updated.ID)
		assert.Equal(t, "Dune Messiah", updated.Name)

		stored, err := bs.GetByID(context.TODO(), id)
		require.NoError(t, err)
		assert.Equal(t, updated, stored)
	})

	t.Run("missing book", func(t *testing.T) {
		_, err := bs.Update(context.TODO(), "ffffffffffffffffffffffffffffffff", Book{Name: "Ghost", Genre: "drama", Price: 1})
		assert.ErrorIs(t, err, ErrBookNotFound)
	})
}

// TestBookStore_Delete ensures a removal shifts later indexes down
// and a missing id fails.
func TestBookStore_Delete(t *testing.T) {
	bs := newTestBookStore(t, newInMemoryBlob())
	first, err := bs.Add(context.TODO(), Book{Name: "Dune", Genre: "fiction", Price: 9.99})
	require.NoError(t, err)
	second, err := bs.Add(context.TODO(), Book{Name: "Emma", Genre: "romance", Price: 5})
	require.NoError(t, err)

	require.NoError(t, bs.Delete(context.TODO(), first))
	_, err = bs.GetByID(context.TODO(), first)
	assert.ErrorIs(t, err, ErrBookNotFound)

	// The remaining book moved to index 0.
	book, err := bs.GetByIndex(context.TODO(), 0)
	require.NoError(t, err)
	assert.Equal(t, second, book.ID)

	assert.ErrorIs(t, bs.Delete(context.TODO(), first), ErrBookNotFound)
}

// TestBookStore_PersistFailureRollback ensures a failed document rewrite
// leaves the in-memory collection exactly as before the mutation.
func TestBookStore_PersistFailureRollback(t *testing.T) {
	memory := newInMemoryBlob()
	failing := false
	blob := &MockBlobStorage{
		FetchFunc: memory.Fetch,
		SaveFunc: func(ctx context.Context, key string, data []byte) error {
			if failing {
				return errors.New("backend unreachable")
			}
			return memory.Save(ctx, key, data)
		},
	}
	bs := newTestBookStore(t, blob)
	id, err := bs.Add(context.TODO(), Book{Name: "Dune", Genre: "fiction", Price: 9.99})
	require.NoError(t, err)
	failing = true

	t.Run("add rolls back", func(t *testing.T) {
		_, err := bs.Add(context.TODO(), Book{Name: "Emma", Genre: "romance", Price: 5})
		assert.Error(t, err)
		assert.Len(t, bs.GetAll(context.TODO()), 1)
	})

	t.Run("update rolls back", func(t *testing.T) {
		_, err := bs.Update(context.TODO(), id, Book{Name: "Dune Messiah", Genre: "fiction", Price: 12.50})
		assert.Error(t, err)
		stored, err := bs.GetByID(context.TODO(), id)
		require.NoError(t, err)
		assert.Equal(t, "Dune", stored.Name)
	})

	t.Run("delete rolls back", func(t *testing.T) {
		assert.Error(t, bs.Delete(context.TODO(), id))
		book, err := bs.GetByIndex(context.TODO(), 0)
		require.NoError(t, err)
		assert.Equal(t, id, book.ID)
	})
}

// TestBookStore_RoundTrip ensures a fresh store hydrated from the same
// document serves the same collection in the same order.
func TestBookStore_RoundTrip(t *testing.T) {
	blob := newInMemoryBlob()
	bs := newTestBookStore(t, blob)
	first, err := bs.Add(context.TODO(), Book{Name: "Dune", Genre: "fiction", Price: 9.99})
	require.NoError(t, err)
	second, err := bs.Add(context.TODO(), Book{Name: "Emma", Genre: "romance", Price: 5})
	require.NoError(t, err)

	reloaded := newTestBookStore(t, blob)
	books := reloaded.GetAll(context.TODO())
	require.Len(t, books, 2)
	assert.Equal(t, first, books[0].ID)
	assert.Equal(t, second, books[1].ID)
	assert.Equal(t, bs.GetAll(context.TODO()), books)
}
