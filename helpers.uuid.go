package main

import (
	"encoding/hex"

	"github.com/gofrs/uuid"
)

var _ UIDHandler = (*IDsHandler)(nil) // ensure IDsHandler implements UIDHandler.

// UIDHandler is an interface for getting unique identifiers.
type UIDHandler interface {
	Generate(prefix string) string
	GenerateHex() string
	IsValidHex(id string) bool
}

// IDsHandler implements the UIDHandler interface.
type IDsHandler struct{}

// NewIDsHandler returns a ready to use IDsHandler.
func NewIDsHandler() *IDsHandler {
	return &IDsHandler{}
}

// Generate provides a prefixed random unique identifier, used for request ids.
func (idh *IDsHandler) Generate(prefix string) string {
	id, _ := uuid.NewV4()
	return prefix + ":" + id.String()
}

// GenerateHex provides a 32 hex characters random token, used for book ids.
func (idh *IDsHandler) GenerateHex() string {
	id, _ := uuid.NewV4()
	return hex.EncodeToString(id.Bytes())
}

// IsValidHex checks if a given string is a valid dash-less hex encoded uuid.
func (idh *IDsHandler) IsValidHex(id string) bool {
	if len(id) != 32 {
		return false
	}
	return uuid.FromStringOrNil(id) != uuid.Nil
}
