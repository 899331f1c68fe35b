// Package service contains the business logic layered over the
// repositories.
package service

import (
	"context"

	"pixelpost/internal/models"
	"pixelpost/internal/repository"
)

// Follow toggle outcomes.
const (
	FollowResultFollowed   = "User followed"
	FollowResultUnfollowed = "User unfollowed"
)

// FollowService maintains the social graph. Edges are stored once, so
// "target in actor's following iff actor in target's followers" holds
// after every successful call by construction.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// NewFollowService returns a new FollowService.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// Toggle follows targetID on behalf of actorID, or unfollows if the
// edge already exists. Returns the outcome message.
func (s *FollowService) Toggle(ctx context.Context, actorID, targetID uint) (string, error) {
	if actorID == targetID {
		return "", models.NewValidationError("You cannot follow yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return "", err
	}

	exists, err := s.followRepo.Exists(ctx, actorID, targetID)
	if err != nil {
		return "", err
	}

	if exists {
		if err := s.followRepo.Delete(ctx, actorID, targetID); err != nil {
			return "", err
		}
		return FollowResultUnfollowed, nil
	}

	if err := s.followRepo.Create(ctx, actorID, targetID); err != nil {
		return "", err
	}
	return FollowResultFollowed, nil
}

// Followers returns the users following userID.
func (s *FollowService) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	return s.followRepo.Followers(ctx, userID)
}

// Following returns the users userID follows.
func (s *FollowService) Following(ctx context.Context, userID uint) ([]models.User, error) {
	return s.followRepo.Following(ctx, userID)
}
