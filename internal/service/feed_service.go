package service

import (
	"context"

	"pixelpost/internal/cache"
	"pixelpost/internal/models"
	"pixelpost/internal/repository"
)

// FeedService composes read-only post lists: the home feed of followed
// users and per-user post pages.
type FeedService struct {
	postRepo   repository.PostRepository
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// NewFeedService returns a new FeedService.
func NewFeedService(
	postRepo repository.PostRepository,
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
) *FeedService {
	return &FeedService{
		postRepo:   postRepo,
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// FollowingFeed returns posts by everyone the caller follows, with
// owners, likers and comment authors resolved, most recent first.
func (s *FeedService) FollowingFeed(ctx context.Context, userID uint) ([]models.Post, error) {
	var posts []models.Post
	key := cache.FeedKey(userID)

	err := cache.Aside(ctx, key, &posts, cache.FeedTTL, func() error {
		ids, err := s.followRepo.FollowingIDs(ctx, userID)
		if err != nil {
			return err
		}
		posts, err = s.postRepo.GetByOwners(ctx, ids)
		return err
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// UserPosts returns all posts owned by userID in original chronological
// order. Fails with NotFound when the user does not exist.
func (s *FeedService) UserPosts(ctx context.Context, userID uint) ([]models.Post, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.postRepo.GetByOwner(ctx, userID)
}
