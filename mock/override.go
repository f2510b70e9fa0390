package mock

import (
	"context"

	"github.com/fwojciec/siteaudit"
)

var _ siteaudit.OverrideService = (*OverrideService)(nil)

// OverrideService is a mock implementation of siteaudit.OverrideService.
type OverrideService struct {
	CreateOverrideFn           func(ctx context.Context, override *siteaudit.Override) error
	UpdateOverrideFn           func(ctx context.Context, id string, upd siteaudit.OverrideUpdate) (*siteaudit.Override, error)
	DeleteOverrideFn           func(ctx context.Context, id string) error
	FindOverridesByAuditIDFn   func(ctx context.Context, auditID string) ([]*siteaudit.Override, error)
	FindOverridesByUserIDFn    func(ctx context.Context, userID string) ([]*siteaudit.Override, error)
	UpsertOverrideFn           func(ctx context.Context, override *siteaudit.Override) error
	DeleteOverridesByAuditIDFn func(ctx context.Context, auditID string) (int, error)
}

func (s *OverrideService) CreateOverride(ctx context.Context, override *siteaudit.Override) error {
	return s.CreateOverrideFn(ctx, override)
}

func (s *OverrideService) UpdateOverride(ctx context.Context, id string, upd siteaudit.OverrideUpdate) (*siteaudit.Override, error) {
	return s.UpdateOverrideFn(ctx, id, upd)
}

func (s *OverrideService) DeleteOverride(ctx context.Context, id string) error {
	return s.DeleteOverrideFn(ctx, id)
}

func (s *OverrideService) FindOverridesByAuditID(ctx context.Context, auditID string) ([]*siteaudit.Override, error) {
	return s.FindOverridesByAuditIDFn(ctx, auditID)
}

func (s *OverrideService) FindOverridesByUserID(ctx context.Context, userID string) ([]*siteaudit.Override, error) {
	return s.FindOverridesByUserIDFn(ctx, userID)
}

func (s *OverrideService) UpsertOverride(ctx context.Context, override *siteaudit.Override) error {
	return s.UpsertOverrideFn(ctx, override)
}

func (s *OverrideService) DeleteOverridesByAuditID(ctx context.Context, auditID string) (int, error) {
	return s.DeleteOverridesByAuditIDFn(ctx, auditID)
}
