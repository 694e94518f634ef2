package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/beanpass/beanpass-backend/pkg/db/models"
	pkgerrors "github.com/beanpass/beanpass-backend/pkg/errors"
)

// maxCodeAttempts bounds collision retries when issuing a fresh code. With a
// 32-character alphabet and 8 positions, collisions are vanishingly rare.
const maxCodeAttempts = 5

// Service is the check-in code registry. It resolves codes to users and
// issues new unique codes at account creation. It is not a credential store.
type Service interface {
	ResolveByCode(ctx context.Context, code string) (*models.User, error)
	CodeOf(ctx context.Context, userID uuid.UUID) (string, error)
	IssueCode(ctx context.Context) (string, error)
}

type service struct {
	repo *Repository
}

// NewService builds the identity registry service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "identity repo is required")
	}
	return &service{repo: repo}, nil
}

// ResolveByCode maps a scanned code to its owning user. A miss is NOT_FOUND;
// role checks are the caller's concern.
func (s *service) ResolveByCode(ctx context.Context, code string) (*models.User, error) {
	user, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no user with that code")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve code")
	}
	return user, nil
}

// CodeOf returns the user's check-in code, stable for the account lifetime.
func (s *service) CodeOf(ctx context.Context, userID uuid.UUID) (string, error) {
	if userID == uuid.Nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user.CheckinCode, nil
}

// IssueCode generates a code not yet bound to any user. Account tooling
// inserts it together with the new user row; the unique index is the final
// arbiter under concurrent creation.
func (s *service) IssueCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := GenerateCode()
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate code")
		}
		taken, err := s.repo.CodeExists(ctx, code)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check code uniqueness")
		}
		if !taken {
			return code, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeInternal, "could not issue a unique code")
}
