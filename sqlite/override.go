package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fwojciec/siteaudit"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ siteaudit.OverrideService = (*OverrideService)(nil)

const overrideColumns = "id, user_id, audit_id, page_url, priority, reason, created_at, updated_at"

// OverrideService implements siteaudit.OverrideService using SQLite.
type OverrideService struct {
	db *DB
}

// NewOverrideService creates a new OverrideService.
func NewOverrideService(db *DB) *OverrideService {
	return &OverrideService{db: db}
}

// CreateOverride creates a new override with a generated ID.
func (s *OverrideService) CreateOverride(ctx context.Context, override *siteaudit.Override) error {
	if err := override.Validate(); err != nil {
		return err
	}

	override.ID = uuid.New().String()
	now := time.Now().UTC()
	override.CreatedAt = now
	override.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO overrides (`+overrideColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, override.ID, override.UserID, override.AuditID, override.PageURL, string(override.Priority),
		override.Reason, formatTime(override.CreatedAt), formatTime(override.UpdatedAt))
	if isUniqueViolation(err) {
		return siteaudit.Errorf(siteaudit.ECONFLICT, "override for %s already exists", override.PageURL)
	}
	return err
}

// FindOverrideByID retrieves an override by ID.
func (s *OverrideService) FindOverrideByID(ctx context.Context, id string) (*siteaudit.Override, error) {
	o, err := scanOverride(s.db.QueryRowContext(ctx, `
		SELECT `+overrideColumns+`
		FROM overrides
		WHERE id = ?
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, siteaudit.Errorf(siteaudit.ENOTFOUND, "override not found")
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// UpdateOverride updates the priority and reason of an existing override.
func (s *OverrideService) UpdateOverride(ctx context.Context, id string, upd siteaudit.OverrideUpdate) (*siteaudit.Override, error) {
	override, err := s.FindOverrideByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Priority != nil {
		override.Priority = *upd.Priority
	}
	if upd.Reason != nil {
		override.Reason = *upd.Reason
	}

	if err := override.Validate(); err != nil {
		return nil, err
	}

	override.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE overrides
		SET priority = ?, reason = ?, updated_at = ?
		WHERE id = ?
	`, string(override.Priority), override.Reason, formatTime(override.UpdatedAt), id)
	if err != nil {
		return nil, err
	}

	return override, nil
}

// DeleteOverride permanently removes an override.
func (s *OverrideService) DeleteOverride(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM overrides WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return siteaudit.Errorf(siteaudit.ENOTFOUND, "override not found")
	}

	return nil
}

// FindOverridesByAuditID returns all overrides of an audit, oldest first.
func (s *OverrideService) FindOverridesByAuditID(ctx context.Context, auditID string) ([]*siteaudit.Override, error) {
	return s.find(ctx, "audit_id", auditID)
}

// FindOverridesByUserID returns all overrides created by a user, oldest first.
func (s *OverrideService) FindOverridesByUserID(ctx context.Context, userID string) ([]*siteaudit.Override, error) {
	return s.find(ctx, "user_id", userID)
}

// UpsertOverride creates the override, or replaces the priority and reason
// of the user's existing override for the same audit and page. The stored
// ID and timestamps are written back to override.
func (s *OverrideService) UpsertOverride(ctx context.Context, override *siteaudit.Override) error {
	if err := override.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	var createdAt, updatedAt string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO overrides (`+overrideColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, audit_id, page_url) DO UPDATE SET
			priority = excluded.priority,
			reason = excluded.reason,
			updated_at = excluded.updated_at
		RETURNING id, created_at, updated_at
	`, uuid.New().String(), override.UserID, override.AuditID, override.PageURL, string(override.Priority),
		override.Reason, formatTime(now), formatTime(now)).Scan(&override.ID, &createdAt, &updatedAt)
	if err != nil {
		return err
	}

	if override.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return err
	}
	if override.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return err
	}
	return nil
}

// DeleteOverridesByAuditID removes every override of an audit and returns
// the number removed.
func (s *OverrideService) DeleteOverridesByAuditID(ctx context.Context, auditID string) (int, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM overrides WHERE audit_id = ?", auditID)
	if err != nil {
		return 0, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rows), nil
}

// find returns overrides whose column equals value. column is never user input.
func (s *OverrideService) find(ctx context.Context, column, value string) ([]*siteaudit.Override, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+overrideColumns+`
		FROM overrides
		WHERE `+column+` = ?
		ORDER BY created_at, id
	`, value)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	overrides := []*siteaudit.Override{}
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, err
		}
		overrides = append(overrides, o)
	}
	return overrides, rows.Err()
}
