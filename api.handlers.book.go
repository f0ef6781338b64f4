package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// HelloWorld returns a simple greeting message.
func (api *APIHandler) HelloWorld(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	if err := WriteResponse(w, http.StatusOK, map[string]string{"messages": "HELLO World!"}); err != nil {
		api.logger.Error("failed to send hello world response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// Index welcomes public users on the root endpoint.
func (api *APIHandler) Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	if err := WriteResponse(w, http.StatusOK, map[string]string{"messages": "Welcome to the bookstore"}); err != nil {
		api.logger.Error("failed to send index response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// RandomBook serves a uniformly picked book from the current collection.
func (api *APIHandler) RandomBook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	book, err := api.store.Random(r.Context())
	if errors.Is(err, ErrEmptyStore) {
		api.logger.Error("no book to pick from", zap.String("request.id", requestID))
		if err = WriteErrorResponse(w, http.StatusNotFound, NewAPIError("no books in the store")); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err != nil {
		api.logger.Error("failed to pick a random book", zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrorResponse(w, http.StatusInternalServerError, NewAPIError("failed to pick a random book")); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err = WriteResponse(w, http.StatusOK, book); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetAllBooks serves the full collection in insertion order.
func (api *APIHandler) GetAllBooks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	books := api.store.GetAll(r.Context())
	api.logger.Info("success to get all books", zap.String("request.id", requestID), zap.Int("books.count", len(books)))
	if err := WriteResponse(w, http.StatusOK, books); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetBookByIndex serves the book at a given position in insertion order.
func (api *APIHandler) GetBookByIndex(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	index, err := strconv.Atoi(ps.ByName("index"))
	if err != nil {
		api.logger.Error("book index provided is not valid", zap.String("book.index", ps.ByName("index")), zap.String("request.id", requestID))
		if err = WriteErrorResponse(w, http.StatusUnprocessableEntity, NewAPIError("index must be an integer")); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	book, err := api.store.GetByIndex(r.Context(), index)
	var outOfRange *IndexOutOfRangeError
	if errors.As(err, &outOfRange) {
		api.logger.Error("book index out of range", zap.Int("book.index", index), zap.String("request.id", requestID))
		if err = WriteErrorResponse(w, http.StatusNotFound, NewAPIError(outOfRange.Error())); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err != nil {
		api.logger.Error("failed to get book by index", zap.Int("book.index", index), zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrorResponse(w, http.StatusInternalServerError, NewAPIError("failed to get the book")); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to get book by index", zap.Int("book.index", index), zap.String("request.id", requestID))
	if err = WriteResponse(w, http.StatusOK, book); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// CreateBook validates the submitted payload then inserts the book under a
// store generated id. Any id present in the payload is ignored.
func (api *APIHandler) CreateBook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	payload := BookPayload{}
	err := DecodeBookPayload(r, &payload)
	if err != nil {
		api.logger.Error("failed to create book", zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrorResponse(w, http.StatusUnprocessableEntity, NewAPIError("invalid book payload")); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	err = ValidateBookPayload(&payload)
	if err != nil {
		api.logger.Error("failed to create book", zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrorResponse(w, http.StatusUnprocessableEntity, NewAPIError(err.Error())); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	book, err := NewBook(payload.Name, payload.Genre, *payload.Price, payload.ID)
	if err != nil {
		api.logger.Error("failed to create book", zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrorResponse(w, http.StatusUnprocessableEntity, NewAPIError(err.Error())); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	id, err := api.store.Add(r.Context(), book)
	if err != nil {
		api.logger.Error("failed to create book", zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrorResponse(w, http.StatusInternalServerError, NewAPIError("failed to create the book")); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to create book", zap.String("book.id", id), zap.String("request.id", requestID))
	if err = WriteResponse(w, http.StatusOK, map[string]string{"book-id": id}); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// UpdateBook validates the submitted payload then replaces the book stored
// under the path id wholesale.
func (api *APIHandler) UpdateBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	id := ps.ByName("book_id")
	payload := BookPayload{}
	err := DecodeBookPayload(r, &payload)
	if err != nil {
		api.logger.Error("failed to update book", zap.String("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrorResponse(w, http.StatusUnprocessableEntity, NewAPIError("invalid book payload")); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	err = ValidateBookPayload(&payload)
	if err != nil {
		api.logger.Error("failed to update book", zap.String("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrorResponse(w, http.StatusUnprocessableEntity, NewAPIError(err.Error())); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	book, err := NewBook(payload.Name, payload.Genre, *payload.Price, payload.ID)
	if err != nil {
		api.logger.Error("failed to update book", zap.String("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrorResponse(w, http.StatusUnprocessableEntity, NewAPIError(err.Error())); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	book, err = api.store.Update(r.Context(), id, book)
	if errors.Is(err, ErrBookNotFound) {
		api.logger.Error("book does not exist", zap.String("book.id", id), zap.String("request.id", requestID))
		if err = WriteErrorResponse(w, http.StatusNotFound, NewAPIError(fmt.Sprintf("Book ID %s not found in database.", id))); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err != nil {
		api.logger.Error("failed to update book", zap.String("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrorResponse(w, http.StatusInternalServerError, NewAPIError("failed to update the book")); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to update book", zap.String("book.id", id), zap.String("request.id", requestID))
	if err = WriteResponse(w, http.StatusOK, map[string]interface{}{"book": book, "book-id": id}); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetBookByID serves the book stored under the id passed as query parameter.
func (api *APIHandler) GetBookByID(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	id := r.URL.Query().Get("book_id")
	if len(id) == 0 {
		api.logger.Error("book id query parameter is missing", zap.String("request.id", requestID))
		if err := WriteErrorResponse(w, http.StatusUnprocessableEntity, NewAPIError("book_id query parameter is required")); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	book, err := api.store.GetByID(r.Context(), id)
	if errors.Is(err, ErrBookNotFound) {
		api.logger.Error("book does not exist", zap.String("book.id", id), zap.String("request.id", requestID))
		if err = WriteErrorResponse(w, http.StatusNotFound, NewAPIError(fmt.Sprintf("Book ID %s not found in database.", id))); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err != nil {
		api.logger.Error("failed to get book", zap.String("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrorResponse(w, http.StatusInternalServerError, NewAPIError("failed to get the book")); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to get book", zap.String("book.id", id), zap.String("request.id", requestID))
	if err = WriteResponse(w, http.StatusOK, book); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// DeleteBook removes the book stored under the id passed as query parameter.
func (api *APIHandler) DeleteBook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	id := r.URL.Query().Get("book_id")
	if len(id) == 0 {
		api.logger.Error("book id query parameter is missing", zap.String("request.id", requestID))
		if err := WriteErrorResponse(w, http.StatusUnprocessableEntity, NewAPIError("book_id query parameter is required")); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	err := api.store.Delete(r.Context(), id)
	if errors.Is(err, ErrBookNotFound) {
		api.logger.Error("book does not exist", zap.String("book.id", id), zap.String("request.id", requestID))
		if err = WriteErrorResponse(w, http.StatusNotFound, NewAPIError(fmt.Sprintf("Book ID %s not found in database.", id))); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err != nil {
		api.logger.Error("failed to delete book", zap.String("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrorResponse(w, http.StatusInternalServerError, NewAPIError("failed to delete the book")); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to delete book", zap.String("book.id", id), zap.String("request.id", requestID))
	if err = WriteResponse(w, http.StatusOK, map[string]string{"message": "The book has been deleted"}); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}
