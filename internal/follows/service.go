package follows

import (
	"context"

	"github.com/google/uuid"

	"github.com/beanpass/beanpass-backend/pkg/db"
	pkgerrors "github.com/beanpass/beanpass-backend/pkg/errors"
)

// Notifier delivers a best-effort notification. Implementations must never
// propagate delivery failures to the caller.
type Notifier interface {
	Notify(ctx context.Context, targetUserID uuid.UUID, title, body string, data map[string]string)
}

// StatsInvalidator drops a user's cached derived stats after a write.
type StatsInvalidator interface {
	InvalidateStats(ctx context.Context, userID uuid.UUID)
}

// ServiceParams groups dependencies for the follow graph.
type ServiceParams struct {
	FollowRepo *Repository
	Notifier   Notifier
	Stats      StatsInvalidator
}

// Service exposes the follow graph operations.
type Service interface {
	ToggleUserFollow(ctx context.Context, followerID, targetID uuid.UUID) (ToggleResult, error)
	ToggleShopFollow(ctx context.Context, userID, shopID uuid.UUID) (ToggleResult, error)
	IsFollowing(ctx context.Context, followerID, targetID uuid.UUID) (bool, error)
	IsFollowingShop(ctx context.Context, userID, shopID uuid.UUID) (bool, error)
	Followers(ctx context.Context, userID uuid.UUID) ([]UserSummary, error)
	Following(ctx context.Context, userID uuid.UUID) ([]UserSummary, error)
	FollowedShops(ctx context.Context, userID uuid.UUID) ([]FollowedShopDTO, error)
	Counts(ctx context.Context, userID uuid.UUID) (CountsDTO, error)
}

type service struct {
	repo     *Repository
	notifier Notifier
	stats    StatsInvalidator
}

// NewService builds a follow graph service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.FollowRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "follow repo is required")
	}
	return &service{
		repo:     params.FollowRepo,
		notifier: params.Notifier,
		stats:    params.Stats,
	}, nil
}

// ToggleUserFollow flips the follower->target edge. The insert tolerates a
// concurrent duplicate and the delete tolerates a concurrent removal, so two
// racing toggles converge on one of the two valid states.
func (s *service) ToggleUserFollow(ctx context.Context, followerID, targetID uuid.UUID) (ToggleResult, error) {
	if followerID == uuid.Nil {
		return ToggleResult{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "follow requires an identity")
	}
	if targetID == uuid.Nil {
		return ToggleResult{}, pkgerrors.New(pkgerrors.CodeValidation, "target user id is required")
	}
	if followerID == targetID {
		return ToggleResult{}, pkgerrors.New(pkgerrors.CodeSelfFollow, "cannot follow yourself")
	}

	exists, err := s.repo.UserFollowExists(ctx, followerID, targetID)
	if err != nil {
		return ToggleResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check follow edge")
	}

	if exists {
		if err := s.repo.RemoveUserFollow(ctx, followerID, targetID); err != nil {
			return ToggleResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove follow edge")
		}
		s.invalidate(ctx, followerID, targetID)
		return ToggleResult{Following: false}, nil
	}

	if err := s.repo.AddUserFollow(ctx, followerID, targetID); err != nil {
		if db.IsUniqueViolation(err, "user_follows_pair_key") {
			// Lost the race against an identical toggle; already following.
			return ToggleResult{Following: true}, nil
		}
		return ToggleResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert follow edge")
	}
	s.invalidate(ctx, followerID, targetID)

	if s.notifier != nil {
		s.notifier.Notify(ctx, targetID, "New follower", "Someone started following you", map[string]string{
			"follower_id": followerID.String(),
		})
	}

	return ToggleResult{Following: true}, nil
}

// ToggleShopFollow flips the user->shop edge with the same tolerance rules.
func (s *service) ToggleShopFollow(ctx context.Context, userID, shopID uuid.UUID) (ToggleResult, error) {
	if userID == uuid.Nil {
		return ToggleResult{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "follow requires an identity")
	}
	if shopID == uuid.Nil {
		return ToggleResult{}, pkgerrors.New(pkgerrors.CodeValidation, "shop id is required")
	}

	exists, err := s.repo.ShopFollowExists(ctx, userID, shopID)
	if err != nil {
		return ToggleResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check shop follow edge")
	}

	if exists {
		if err := s.repo.RemoveShopFollow(ctx, userID, shopID); err != nil {
			return ToggleResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove shop follow edge")
		}
		s.invalidate(ctx, userID)
		return ToggleResult{Following: false}, nil
	}

	if err := s.repo.AddShopFollow(ctx, userID, shopID); err != nil {
		if db.IsUniqueViolation(err, "shop_follows_pair_key") {
			return ToggleResult{Following: true}, nil
		}
		return ToggleResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert shop follow edge")
	}
	s.invalidate(ctx, userID)

	return ToggleResult{Following: true}, nil
}

// IsFollowing reports the current edge state. Nonexistent endpoints simply
// have no edge, so the answer is false, not an error.
func (s *service) IsFollowing(ctx context.Context, followerID, targetID uuid.UUID) (bool, error) {
	if followerID == uuid.Nil || targetID == uuid.Nil {
		return false, nil
	}
	exists, err := s.repo.UserFollowExists(ctx, followerID, targetID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check follow edge")
	}
	return exists, nil
}

// IsFollowingShop reports whether the user follows the shop.
func (s *service) IsFollowingShop(ctx context.Context, userID, shopID uuid.UUID) (bool, error) {
	if userID == uuid.Nil || shopID == uuid.Nil {
		return false, nil
	}
	exists, err := s.repo.ShopFollowExists(ctx, userID, shopID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check shop follow edge")
	}
	return exists, nil
}

func (s *service) Followers(ctx context.Context, userID uuid.UUID) ([]UserSummary, error) {
	summaries, err := s.repo.Followers(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list followers")
	}
	return summaries, nil
}

func (s *service) Following(ctx context.Context, userID uuid.UUID) ([]UserSummary, error) {
	summaries, err := s.repo.Following(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list following")
	}
	return summaries, nil
}

func (s *service) FollowedShops(ctx context.Context, userID uuid.UUID) ([]FollowedShopDTO, error) {
	shops, err := s.repo.FollowedShops(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list followed shops")
	}
	return shops, nil
}

func (s *service) Counts(ctx context.Context, userID uuid.UUID) (CountsDTO, error) {
	counts, err := s.repo.Counts(ctx, userID)
	if err != nil {
		return CountsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count follow edges")
	}
	return counts, nil
}

func (s *service) invalidate(ctx context.Context, userIDs ...uuid.UUID) {
	if s.stats == nil {
		return
	}
	for _, id := range userIDs {
		s.stats.InvalidateStats(ctx, id)
	}
}
