package scryfall

import (
	"errors"
	"fmt"

	"github.com/ramonehamilton/card-binder/internal/card"
)

// List represents a paginated list object returned by search and prints endpoints.
type List struct {
	Object     string      `json:"object"`
	TotalCards int         `json:"total_cards"`
	HasMore    bool        `json:"has_more"`
	NextPage   string      `json:"next_page,omitempty"`
	Data       []card.Card `json:"data"`
	Warnings   []string    `json:"warnings,omitempty"`
}

// APIError represents an error response from the Scryfall API.
type APIError struct {
	Object   string   `json:"object"`
	Code     string   `json:"code"`
	Status   int      `json:"status"`
	Details  string   `json:"details"`
	Type     string   `json:"type,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Error implements the error interface for APIError.
func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("Scryfall API error (HTTP %d): %s", e.Status, e.Details)
	}
	return fmt.Sprintf("Scryfall API error (HTTP %d): %s", e.Status, e.Code)
}

// NotFoundError represents a 404 error from the API.
type NotFoundError struct {
	URL string
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.URL)
}

// IsNotFound reports whether err is, or wraps, a NotFoundError or an
// API error with code "not_found".
func IsNotFound(err error) bool {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == "not_found"
}
