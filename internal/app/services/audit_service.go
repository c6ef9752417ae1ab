package services

import (
	"context"

	"github.com/leemrnda21/hau-kiosk-registar/internal/app/models"
)

const (
	defaultAuditLimit = 20
	maxAuditLimit     = 100
)

// AuditService exposes the append-only action trail for the admin view.
// Writing entries happens inside the request and student action transactions,
// not here.
type AuditService struct {
	auditRepo auditStore
}

// NewAuditService creates a new AuditService
func NewAuditService(auditRepo auditStore) *AuditService {
	return &AuditService{
		auditRepo: auditRepo,
	}
}

// List retrieves the most recent audit entries. A non-positive limit falls
// back to the default and the limit is capped.
func (s *AuditService) List(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}
	return s.auditRepo.List(ctx, limit)
}
