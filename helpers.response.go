package main

import (
	"encoding/json"
	"net/http"
)

// APIError is the data model sent when an error occurred during
// request processing. The single detail field keeps the wire shape
// identical for not-found, validation and storage failures.
type APIError struct {
	Detail string `json:"detail"`
}

func NewAPIError(detail string) *APIError {
	return &APIError{Detail: detail}
}

// WriteErrorResponse is used to send error response to client.
func WriteErrorResponse(w http.ResponseWriter, status int, errResp *APIError) error {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(errResp)
}

// WriteResponse is used to send success api response to client.
func WriteResponse(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}
