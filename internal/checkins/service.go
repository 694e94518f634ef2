package checkins

import (
	"context"

	"github.com/google/uuid"

	"github.com/beanpass/beanpass-backend/internal/identity"
	"github.com/beanpass/beanpass-backend/pkg/db/models"
	pkgerrors "github.com/beanpass/beanpass-backend/pkg/errors"
)

// StatsInvalidator drops a user's cached derived stats after a write.
type StatsInvalidator interface {
	InvalidateStats(ctx context.Context, userID uuid.UUID)
}

// ServiceParams groups dependencies for the visit ledger.
type ServiceParams struct {
	VisitRepo    *Repository
	IdentityRepo identity.Service
	Stats        StatsInvalidator
}

// Service exposes the check-in ledger operations.
type Service interface {
	RecordVisit(ctx context.Context, operatorShopID uuid.UUID, code string) (CheckinResult, error)
	ListVisitsForUser(ctx context.Context, userID uuid.UUID, cursor string, limit int) (VisitsPageDTO, error)
	CountVisits(ctx context.Context, userID uuid.UUID) (int64, error)
	TopShopsForUser(ctx context.Context, userID uuid.UUID, limit int) ([]TopShopDTO, error)
}

type service struct {
	repo     *Repository
	registry identity.Service
	stats    StatsInvalidator
}

// NewService builds the visit ledger service.
func NewService(params ServiceParams) (Service, error) {
	if params.VisitRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "visit repo is required")
	}
	if params.IdentityRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "identity registry is required")
	}
	return &service{
		repo:     params.VisitRepo,
		registry: params.IdentityRepo,
		stats:    params.Stats,
	}, nil
}

// RecordVisit resolves the scanned code and appends a ledger entry. The visit
// is always attributed to the operator's own shop, never to a shop claimed by
// the code holder, so a stray code cannot register visits elsewhere.
// Same-day duplicates are welcome: stamp-card mechanics depend on them.
func (s *service) RecordVisit(ctx context.Context, operatorShopID uuid.UUID, code string) (CheckinResult, error) {
	if operatorShopID == uuid.Nil {
		return CheckinResult{}, pkgerrors.New(pkgerrors.CodeForbidden, "check-in requires an operator shop")
	}
	if code == "" {
		return CheckinResult{}, pkgerrors.New(pkgerrors.CodeInvalidCode, "check-in code is required")
	}

	user, err := s.registry.ResolveByCode(ctx, code)
	if err != nil {
		if pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
			return CheckinResult{}, pkgerrors.New(pkgerrors.CodeInvalidCode, "check-in code not recognized")
		}
		return CheckinResult{}, err
	}

	visit := &models.Visit{
		ID:     uuid.New(),
		UserID: user.ID,
		ShopID: operatorShopID,
	}
	if err := s.repo.Append(ctx, visit); err != nil {
		return CheckinResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append visit")
	}

	if s.stats != nil {
		s.stats.InvalidateStats(ctx, user.ID)
	}

	return CheckinResult{
		VisitID:   visit.ID,
		UserID:    user.ID,
		UserName:  user.DisplayName,
		VisitedAt: visit.VisitedAt,
	}, nil
}

// ListVisitsForUser returns the user's ledger entries newest-first.
func (s *service) ListVisitsForUser(ctx context.Context, userID uuid.UUID, cursor string, limit int) (VisitsPageDTO, error) {
	if userID == uuid.Nil {
		return VisitsPageDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "visit history requires an identity")
	}
	page, err := s.repo.ListForUser(ctx, userID, cursor, limit)
	if err != nil {
		return VisitsPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list visits")
	}
	return page, nil
}

// CountVisits returns the user's ledger row count.
func (s *service) CountVisits(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.repo.CountForUser(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count visits")
	}
	return count, nil
}

// TopShopsForUser ranks the user's most-visited shops.
func (s *service) TopShopsForUser(ctx context.Context, userID uuid.UUID, limit int) ([]TopShopDTO, error) {
	rows, err := s.repo.TopShopsForUser(ctx, userID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rank visited shops")
	}
	return rows, nil
}
