package siteaudit

import (
	"context"
	"time"
)

// Tier is the manual priority assigned to a page by an override.
type Tier string

// Override tiers, highest priority first.
const (
	Tier1 Tier = "Tier1"
	Tier2 Tier = "Tier2"
	Tier3 Tier = "Tier3"
)

// Valid reports whether t is one of the known tiers.
func (t Tier) Valid() bool {
	switch t {
	case Tier1, Tier2, Tier3:
		return true
	}
	return false
}

// Override re-weights the importance of one page of a finished audit.
// A user holds at most one override per audit and page URL.
type Override struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	AuditID   string    `json:"auditId"`
	PageURL   string    `json:"pageUrl"`
	Priority  Tier      `json:"priority"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate returns an error if the override contains invalid fields.
func (o *Override) Validate() error {
	if o.UserID == "" {
		return Errorf(EINVALID, "override user ID required")
	}
	if o.AuditID == "" {
		return Errorf(EINVALID, "override audit ID required")
	}
	if o.PageURL == "" {
		return Errorf(EINVALID, "override page URL required")
	}
	if !o.Priority.Valid() {
		return Errorf(EINVALID, "invalid override priority: %q", o.Priority)
	}
	return nil
}

// OverrideService manages page priority overrides.
type OverrideService interface {
	// CreateOverride creates a new override.
	// Returns ECONFLICT if the user already has an override for the page.
	CreateOverride(ctx context.Context, override *Override) error

	// UpdateOverride updates an existing override.
	// Returns ENOTFOUND if the override does not exist.
	UpdateOverride(ctx context.Context, id string, upd OverrideUpdate) (*Override, error)

	// DeleteOverride permanently removes an override.
	// Returns ENOTFOUND if the override does not exist.
	DeleteOverride(ctx context.Context, id string) error

	// FindOverridesByAuditID returns all overrides of an audit.
	FindOverridesByAuditID(ctx context.Context, auditID string) ([]*Override, error)

	// FindOverridesByUserID returns all overrides created by a user.
	FindOverridesByUserID(ctx context.Context, userID string) ([]*Override, error)

	// UpsertOverride creates the override or replaces the priority and
	// reason of the existing one for the same user, audit and page.
	UpsertOverride(ctx context.Context, override *Override) error

	// DeleteOverridesByAuditID removes every override of an audit and
	// returns the number removed.
	DeleteOverridesByAuditID(ctx context.Context, auditID string) (int, error)
}

// OverrideUpdate represents fields that can be updated on an override.
type OverrideUpdate struct {
	Priority *Tier   `json:"priority"`
	Reason   *string `json:"reason"`
}
