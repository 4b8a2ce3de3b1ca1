package follows

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ForYouPage-Org/saturn-api-sub000/internal/core/actors"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/core/authz"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/notify"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type followService struct {
	manager  *Manager
	repo     Repository
	resolver ActorResolver
	notifier notify.Notifier
	logger   *slog.Logger
}

// NewService creates the follow orchestration service on top of the graph
// manager.
func NewService(manager *Manager, repo Repository, resolver ActorResolver, notifier notify.Notifier, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &followService{
		manager:  manager,
		repo:     repo,
		resolver: resolver,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *followService) Follow(ctx context.Context, principal authz.Principal, targetRef string) (bool, error) {
	target, err := s.resolveTarget(ctx, targetRef)
	if err != nil {
		return false, err
	}

	// Self-follow is rejected here, not in the graph manager
	if principal.ActorID == target.ID {
		return false, ErrSelfFollow
	}

	changed, err := s.manager.Follow(ctx, principal.ActorID, target.ID)
	if err != nil {
		return false, err
	}

	if changed && s.notifier != nil {
		event := notify.Event{
			Recipient: target.ID,
			Actor:     principal.ActorID,
			Kind:      notify.KindFollow,
			TargetRef: target.URI,
		}
		if notifyErr := s.notifier.Notify(ctx, event); notifyErr != nil {
			s.logger.Warn("follow notification failed",
				"follower", principal.ActorID,
				"followee", target.ID,
				"error", notifyErr)
		}
	}

	return changed, nil
}

func (s *followService) Unfollow(ctx context.Context, principal authz.Principal, targetRef string) (bool, error) {
	target, err := s.resolveTarget(ctx, targetRef)
	if err != nil {
		return false, err
	}

	if principal.ActorID == target.ID {
		return false, ErrSelfFollow
	}

	return s.manager.Unfollow(ctx, principal.ActorID, target.ID)
}

func (s *followService) Followers(ctx context.Context, ref string, page, limit int) ([]*actors.Actor, error) {
	actor, err := s.resolver.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	limit, offset := pageBounds(page, limit)
	return s.repo.ListFollowers(ctx, actor.ID, limit, offset)
}

func (s *followService) Following(ctx context.Context, ref string, page, limit int) ([]*actors.Actor, error) {
	actor, err := s.resolver.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	limit, offset := pageBounds(page, limit)
	return s.repo.ListFollowing(ctx, actor.ID, limit, offset)
}

func (s *followService) resolveTarget(ctx context.Context, ref string) (*actors.Actor, error) {
	target, err := s.resolver.Resolve(ctx, ref)
	if err != nil {
		if errors.Is(err, actors.ErrNotFound) {
			return nil, ErrFolloweeNotFound
		}
		return nil, err
	}
	return target, nil
}

func pageBounds(page, limit int) (int, int) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if page < 1 {
		page = 1
	}
	return limit, (page - 1) * limit
}
