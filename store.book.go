package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"go.uber.org/zap"
)

// BookStoreProvider defines possible operations on the books collection.
type BookStoreProvider interface {
	GetAll(ctx context.Context) []Book
	GetByID(ctx context.Context, id string) (Book, error)
	GetByIndex(ctx context.Context, index int) (Book, error)
	Random(ctx context.Context) (Book, error)
	Add(ctx context.Context, book Book) (string, error)
	Update(ctx context.Context, id string, book Book) (Book, error)
	Delete(ctx context.Context, id string) error
}

// BookStore owns the in-memory books mapping hydrated from a single
// JSON document on the blob backend. Every mutation rewrites the full
// document. The mutex serializes each mutate+persist pair so that two
// concurrent requests cannot overwrite each other's write.
type BookStore struct {
	logger *zap.Logger
	blob   BlobStorage
	key    string
	ids    UIDHandler
	mu     sync.Mutex
	books  map[string]Book
	order  []string
}

// NewBookStore hydrates a store from the books document at key. A missing
// document is not an error and yields an empty store. Any other fetch or
// parse failure is fatal since the store cannot come up in a known state.
// Persisted ids are kept as-is, they are only generated on Add.
func NewBookStore(ctx context.Context, logger *zap.Logger, blob BlobStorage, key string, ids UIDHandler) (*BookStore, error) {
	bs := &BookStore{
		logger: logger,
		blob:   blob,
		key:    key,
		ids:    ids,
		books:  make(map[string]Book),
	}

	data, err := blob.Fetch(ctx, key)
	if errors.Is(err, ErrBlobNotFound) {
		logger.Info("store: books document does not exist yet, starting empty", zap.String("store.key", key))
		return bs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load books document %q: %w", key, err)
	}

	var records []Book
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse books document %q: %w", key, err)
	}

	for _, record := range records {
		book, err := NewBook(record.Name, record.Genre, record.Price, record.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid book record in document %q: %w", key, err)
		}
		if _, exists := bs.books[book.ID]; !exists {
			bs.order = append(bs.order, book.ID)
		}
		bs.books[book.ID] = book
	}
	logger.Info("store: books document loaded", zap.String("store.key", key), zap.Int("store.count", len(bs.order)))
	return bs, nil
}

// GetAll returns all books in insertion order. It always succeeds.
func (bs *BookStore) GetAll(_ context.Context) []Book {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	return bs.snapshot()
}

// GetByID returns the book stored under id.
func (bs *BookStore) GetByID(_ context.Context, id string) (Book, error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	book, ok := bs.books[id]
	if !ok {
		return Book{}, ErrBookNotFound
	}
	return book, nil
}

// GetByIndex returns the book at the given position in insertion order.
func (bs *BookStore) GetByIndex(_ context.Context, index int) (Book, error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	if index < 0 || index >= len(bs.order) {
		return Book{}, &IndexOutOfRangeError{Index: index, Count: len(bs.order)}
	}
	return bs.books[bs.order[index]], nil
}

// Random returns a uniformly picked book from the current collection.
func (bs *BookStore) Random(_ context.Context) (Book, error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	if len(bs.order) == 0 {
		return Book{}, ErrEmptyStore
	}
	return bs.books[bs.order[rand.Intn(len(bs.order))]], nil
}

// Add inserts a book under a freshly generated id, any caller supplied id
// is overwritten, then rewrites the whole document. On a persist failure
// the insertion is rolled back so memory and document stay aligned.
func (bs *BookStore) Add(ctx context.Context, book Book) (string, error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	book.ID = bs.ids.GenerateHex()
	bs.books[book.ID] = book
	bs.order = append(bs.order, book.ID)

	if err := bs.persist(ctx); err != nil {
		delete(bs.books, book.ID)
		bs.order = bs.order[:len(bs.order)-1]
		return "", err
	}
	return book.ID, nil
}

// Update replaces the book stored under id wholesale. The stored record id
// is forced to match the lookup key so key and record cannot diverge.
func (bs *BookStore) Update(ctx context.Context, id string, book Book) (Book, error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	previous, ok := bs.books[id]
	if !ok {
		return Book{}, ErrBookNotFound
	}

	book.ID = id
	bs.books[id] = book

	if err := bs.persist(ctx); err != nil {
		bs.books[id] = previous
		return Book{}, err
	}
	return book, nil
}

// Delete removes the book stored under id then rewrites the whole document.
func (bs *BookStore) Delete(ctx context.Context, id string) error {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	book, ok := bs.books[id]
	if !ok {
		return ErrBookNotFound
	}

	index := 0
	for i, key := range bs.order {
		if key == id {
			index = i
			break
		}
	}
	delete(bs.books, id)
	bs.order = append(bs.order[:index], bs.order[index+1:]...)

	if err := bs.persist(ctx); err != nil {
		bs.books[id] = book
		tail := append([]string{id}, bs.order[index:]...)
		bs.order = append(bs.order[:index], tail...)
		return err
	}
	return nil
}

// persist serializes the collection in insertion order as a JSON array and
// overwrites the document on the blob backend. Callers must hold the mutex.
func (bs *BookStore) persist(ctx context.Context) error {
	data, err := json.Marshal(bs.snapshot())
	if err != nil {
		return fmt.Errorf("failed to serialize books document: %w", err)
	}
	if err := bs.blob.Save(ctx, bs.key, data); err != nil {
		return fmt.Errorf("failed to save books document %q: %w", bs.key, err)
	}
	return nil
}

// snapshot builds the ordered list of books. Callers must hold the mutex.
func (bs *BookStore) snapshot() []Book {
	books := make([]Book, 0, len(bs.order))
	for _, id := range bs.order {
		books = append(books, bs.books[id])
	}
	return books
}
