package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
)

var (
	// ErrBookNotFound means the requested book id is not a key of the store mapping.
	ErrBookNotFound = errors.New("book not found")
	// ErrBlobNotFound means the books document does not exist yet on the backend.
	ErrBlobNotFound = errors.New("blob not found")
	// ErrEmptyStore means an operation needing at least one book ran on an empty store.
	ErrEmptyStore = errors.New("no books in the store")
)

type (
	ContextKey        string
	missingFieldError string
)

const (
	RequestIDPrefix         string     = "r"
	RequestIDContextKey     ContextKey = "request.id"
	RequestNumberContextKey ContextKey = "request.number"
)

func (m missingFieldError) Error() string {
	return string(m) + " is required"
}

// IndexOutOfRangeError reports an index lookup outside the
// current bounds of the books collection.
type IndexOutOfRangeError struct {
	Index int
	Count int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("book index %d out of range (%d)", e.Index, e.Count)
}

// GetValueFromContext returns the value of a given key in the context
// if this key is not available, it returns an empty string.
func GetValueFromContext(ctx context.Context, contextKey ContextKey) string {
	if val := ctx.Value(contextKey); val != nil {
		return val.(string)
	}
	return ""
}

// GetRequestNumberFromContext returns the request number set in
// the context. if not previously set then it returns 0.
func GetRequestNumberFromContext(ctx context.Context) uint64 {
	if val := ctx.Value(RequestNumberContextKey); val != nil {
		return val.(uint64)
	}
	return 0
}

// DecodeBookPayload is a helper function to read the content of a book creation or update request.
func DecodeBookPayload(r *http.Request, payload *BookPayload) error {
	if r.Body == nil {
		return errors.New("invalid book request body")
	}
	return json.NewDecoder(r.Body).Decode(payload)
}

// ValidateBookPayload is a helper function to check if the content of a book
// creation or update request is valid. It enforces the closed genres list.
func ValidateBookPayload(payload *BookPayload) error {
	if len(payload.Name) == 0 {
		return missingFieldError("name")
	}

	if len(payload.Genre) == 0 {
		return missingFieldError("genre")
	}

	if !IsValidGenre(payload.Genre) {
		return fmt.Errorf("genre must be one of: %s", strings.Join(Genres, ", "))
	}

	if payload.Price == nil {
		return missingFieldError("price")
	}

	return nil
}

// GetRequestSourceIP helps find the source IP of the caller.
func GetRequestSourceIP(r *http.Request) string {
	// Get IP from the X-REAL-IP header
	ip := r.Header.Get("X-REAL-IP")
	netIP := net.ParseIP(ip)
	if netIP != nil {
		return ip
	}

	// Get IP from X-FORWARDED-FOR header
	ips := r.Header.Get("X-FORWARDED-FOR")
	splitIps := strings.Split(ips, ",")
	for _, ip := range splitIps {
		netIP = net.ParseIP(ip)
		if netIP != nil {
			return ip
		}
	}

	// Get IP from RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return ""
	}
	netIP = net.ParseIP(ip)
	if netIP != nil {
		return ip
	}
	return ""
}

// IsAppRunningInDocker checks the existence of the .dockerenv
// file at the root directory and returns a boolean result. This
// helps know if the App is running in a docker container or not.
func IsAppRunningInDocker() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	return false
}
