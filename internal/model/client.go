package model

import (
	"strings"
	"time"

	gigerr "github.com/amterp/gig/internal/errors"
)

// Client is a customer record.
type Client struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	IsArchived bool      `json:"isArchived"`
}

// Validate rejects clients that could not have come from a validated entry point.
func (c Client) Validate() error {
	if c.ID == "" {
		return gigerr.InvalidField("client id", "cannot be empty")
	}
	if strings.TrimSpace(c.Name) == "" {
		return gigerr.InvalidField("client name", "cannot be empty")
	}
	if c.CreatedAt.IsZero() {
		return gigerr.InvalidField("client createdAt", "must be set")
	}
	return nil
}
