package handler

import (
	"errors"
	"strings"
)

const maxAddressLength = 256

// ScreenRequest is the HTTP request body for POST /api/screen.
type ScreenRequest struct {
	Address string `json:"address"`
}

// Validate trims surrounding whitespace and checks the address is present
// and bounded. Address format is left to the screening service.
func (r *ScreenRequest) Validate() error {
	r.Address = strings.TrimSpace(r.Address)
	if r.Address == "" {
		return errors.New("address is required")
	}
	if len(r.Address) > maxAddressLength {
		return errors.New("address must be at most 256 characters")
	}
	return nil
}
