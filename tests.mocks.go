package main

import (
	"context"
	"fmt"
	"time"
)

// This file contains mocks definitions needed to perform unit tests.

// MockBlobStorage implements a fake BlobStorage.
type MockBlobStorage struct {
	FetchFunc func(ctx context.Context, key string) ([]byte, error)
	SaveFunc  func(ctx context.Context, key string, data []byte) error
}

// Fetch mocks the behavior of retrieving the document from the backend.
func (m *MockBlobStorage) Fetch(ctx context.Context, key string) ([]byte, error) {
	return m.FetchFunc(ctx, key)
}

// Save mocks the behavior of overwriting the document on the backend.
func (m *MockBlobStorage) Save(ctx context.Context, key string, data []byte) error {
	return m.SaveFunc(ctx, key, data)
}

// MockBookStore implements a fake BookStoreProvider.
type MockBookStore struct {
	GetAllFunc     func(ctx context.Context) []Book
	GetByIDFunc    func(ctx context.Context, id string) (Book, error)
	GetByIndexFunc func(ctx context.Context, index int) (Book, error)
	RandomFunc     func(ctx context.Context) (Book, error)
	AddFunc        func(ctx context.Context, book Book) (string, error)
	UpdateFunc     func(ctx context.Context, id string, book Book) (Book, error)
	DeleteFunc     func(ctx context.Context, id string) error
}

// GetAll mocks the behavior of listing all books from the store.
func (m *MockBookStore) GetAll(ctx context.Context) []Book {
	return m.GetAllFunc(ctx)
}

// GetByID mocks the behavior of retrieving a book by its id.
func (m *MockBookStore) GetByID(ctx context.Context, id string) (Book, error) {
	return m.GetByIDFunc(ctx, id)
}

// GetByIndex mocks the behavior of retrieving a book by its position.
func (m *MockBookStore) GetByIndex(ctx context.Context, index int) (Book, error) {
	return m.GetByIndexFunc(ctx, index)
}

// Random mocks the behavior of picking a random book from the store.
func (m *MockBookStore) Random(ctx context.Context) (Book, error) {
	return m.RandomFunc(ctx)
}

// Add mocks the behavior of inserting a book into the store.
func (m *MockBookStore) Add(ctx context.Context, book Book) (string, error) {
	return m.AddFunc(ctx, book)
}

// Update mocks the behavior of replacing a book in the store.
func (m *MockBookStore) Update(ctx context.Context, id string, book Book) (Book, error) {
	return m.UpdateFunc(ctx, id, book)
}

// Delete mocks the behavior of removing a book from the store.
func (m *MockBookStore) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

// MockClocker implements a fake Clocker.
type MockClocker struct {
	MockNow time.Time
}

// NewMockClocker returns a mocked instance with fixed time.
func NewMockClocker() *MockClocker {
	return &MockClocker{time.Date(2023, 0o7, 0o2, 0o0, 0o0, 0o0, 0o00000000, time.UTC)}
}

// Now returns an already defined time to be used as mock. This
// equals to `Sun, 02 Jul 2023 00:00:00 UTC` in time.RFC1123 format.
// equals to `2023-07-02 00:00:00 +0000 UTC` in String format.
func (mck *MockClocker) Now() time.Time {
	return mck.MockNow
}

// MockUIDHandler implements a fake UIDHandler.
type MockUIDHandler struct {
	MockedUID string
	Valid     bool
	sequence  int
}

// NewMockUIDHandler returns a mocked instance with predictable id.
func NewMockUIDHandler(id string, valid bool) *MockUIDHandler {
	return &MockUIDHandler{MockedUID: id, Valid: valid}
}

// Generate constructs a predictable id to be used as mock.
func (muid *MockUIDHandler) Generate(prefix string) string {
	return prefix + ":" + muid.MockedUID
}

// GenerateHex constructs a predictable sequence of distinct ids to be
// used as mock, so successive insertions never collide.
func (muid *MockUIDHandler) GenerateHex() string {
	muid.sequence++
	return fmt.Sprintf("%s%026d", muid.MockedUID, muid.sequence)
}

// IsValidHex mocks IsValidHex behavior by providing configured status.
func (muid *MockUIDHandler) IsValidHex(_ string) bool {
	return muid.Valid
}
