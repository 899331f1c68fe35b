package service

import (
	"context"
	"errors"

	"pixelpost/internal/media"
	"pixelpost/internal/middleware"
	"pixelpost/internal/models"
	"pixelpost/internal/observability"
	"pixelpost/internal/repository"
)

// AccountService owns account lifecycle operations that span several
// aggregates, chiefly the deletion cascade.
type AccountService struct {
	userRepo   repository.UserRepository
	postRepo   repository.PostRepository
	followRepo repository.FollowRepository
	store      media.Store
}

// NewAccountService returns a new AccountService.
func NewAccountService(userRepo repository.UserRepository, postRepo repository.PostRepository, followRepo repository.FollowRepository, store media.Store) *AccountService {
	return &AccountService{
		userRepo:   userRepo,
		postRepo:   postRepo,
		followRepo: followRepo,
		store:      store,
	}
}

// DeleteAccount removes userID and everything attached to it: the
// avatar asset, every owned post (with its stored images, likes and
// comments), all follow edges in both directions, and likes and
// comments the user left on other posts.
//
// Each step commits independently and tolerates already-removed state,
// so a run interrupted midway can simply be retried. Storage failures
// are logged and counted but do not stop the cascade; rows are always
// scrubbed even when an asset lingers.
func (s *AccountService) DeleteAccount(ctx context.Context, userID uint) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		var appErr *models.AppError
		if !errors.As(err, &appErr) || appErr.Code != models.CodeNotFound {
			return err
		}
		// Row already gone; keep going so a retried cascade still
		// scrubs posts, edges and interactions.
		user = nil
	}

	if user != nil && user.AvatarPublicID != "" {
		if err := s.store.Destroy(ctx, user.AvatarPublicID); err != nil {
			observability.CascadeStepFailures.WithLabelValues("avatar_destroy").Inc()
			middleware.Logger.WarnContext(ctx, "account cascade: avatar destroy failed, continuing",
				"user_id", userID, "public_id", user.AvatarPublicID, "error", err)
		}
	}

	posts, err := s.postRepo.GetByOwner(ctx, userID)
	if err != nil {
		return err
	}
	for _, post := range posts {
		if post.ImagePublicID != "" {
			if err := s.store.Destroy(ctx, post.ImagePublicID); err != nil {
				observability.CascadeStepFailures.WithLabelValues("post_image_destroy").Inc()
				middleware.Logger.WarnContext(ctx, "account cascade: post image destroy failed, continuing",
					"user_id", userID, "post_id", post.ID, "public_id", post.ImagePublicID, "error", err)
			}
		}
		if err := s.postRepo.Delete(ctx, post.ID); err != nil {
			return err
		}
	}

	if err := s.followRepo.RemoveAllFor(ctx, userID); err != nil {
		return err
	}

	if err := s.postRepo.RemoveUserInteractions(ctx, userID); err != nil {
		return err
	}

	if user != nil {
		if err := s.userRepo.Delete(ctx, userID); err != nil {
			return err
		}
	}

	middleware.Logger.InfoContext(ctx, "account deleted", "user_id", userID, "posts_removed", len(posts))
	return nil
}
