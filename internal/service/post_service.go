package service

import (
	"context"
	"strings"

	"pixelpost/internal/media"
	"pixelpost/internal/models"
	"pixelpost/internal/repository"
)

// Post interaction outcomes.
const (
	LikeResultLiked      = "Post liked"
	LikeResultUnliked    = "Post unliked"
	CommentResultAdded   = "Comment added"
	CommentResultUpdated = "Comment updated"
)

const maxCaptionLen = 2200

// PostService owns post CRUD and the like/comment interaction rules.
type PostService struct {
	postRepo repository.PostRepository
	store    media.Store
}

// CreatePostInput carries a new post's caption and base64 image payload.
type CreatePostInput struct {
	OwnerID uint
	Caption string
	Image   string
}

// NewPostService returns a new PostService.
func NewPostService(postRepo repository.PostRepository, store media.Store) *PostService {
	return &PostService{
		postRepo: postRepo,
		store:    store,
	}
}

// Create uploads the image through the object store and persists the post.
func (s *PostService) Create(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if len(in.Caption) > maxCaptionLen {
		return nil, models.NewValidationError("Caption too long (max 2200 characters)")
	}

	data, err := media.DecodeDataURI(in.Image)
	if err != nil {
		return nil, models.NewValidationError("A valid image is required")
	}

	asset, err := s.store.Upload(ctx, "posts", data)
	if err != nil {
		return nil, models.NewDependencyError("image storage", err)
	}

	post := &models.Post{
		Caption:       in.Caption,
		ImagePublicID: asset.PublicID,
		ImageURL:      asset.URL,
		OwnerID:       in.OwnerID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByIDResolved(ctx, post.ID)
}

// Get returns a post with owner, likers and comment authors resolved.
func (s *PostService) Get(ctx context.Context, postID uint) (*models.Post, error) {
	return s.postRepo.GetByIDResolved(ctx, postID)
}

// UpdateCaption replaces the caption. Only the owner may edit.
func (s *PostService) UpdateCaption(ctx context.Context, postID, actorID uint, caption string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.OwnerID != actorID {
		return nil, models.NewUnauthorizedError("You can only update your own posts")
	}
	if strings.TrimSpace(caption) == "" {
		return nil, models.NewValidationError("Caption is required")
	}
	if len(caption) > maxCaptionLen {
		return nil, models.NewValidationError("Caption too long (max 2200 characters)")
	}

	post.Caption = caption
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes the post and its stored image. Only the owner may delete.
func (s *PostService) Delete(ctx context.Context, postID, actorID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.OwnerID != actorID {
		return models.NewUnauthorizedError("You can only delete your own posts")
	}

	if err := s.store.Destroy(ctx, post.ImagePublicID); err != nil {
		return models.NewDependencyError("image storage", err)
	}

	return s.postRepo.Delete(ctx, postID)
}

// ToggleLike flips the actor's membership in the post's likes set and
// reports the outcome. Repeated calls never error; two calls restore
// the original set.
func (s *PostService) ToggleLike(ctx context.Context, postID, actorID uint) (string, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return "", err
	}

	liked, err := s.postRepo.IsLiked(ctx, actorID, postID)
	if err != nil {
		return "", err
	}

	if liked {
		if err := s.postRepo.Unlike(ctx, actorID, postID); err != nil {
			return "", err
		}
		return LikeResultUnliked, nil
	}

	if err := s.postRepo.Like(ctx, actorID, postID); err != nil {
		return "", err
	}
	return LikeResultLiked, nil
}

// Comment upserts the actor's comment on the post: an existing comment
// by the same author has its text replaced, otherwise a new comment is
// appended. A post never holds more than one comment per author.
func (s *PostService) Comment(ctx context.Context, postID, actorID uint, text string) (string, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", models.NewValidationError("Comment text is required")
	}

	existing, err := s.postRepo.GetCommentByAuthor(ctx, postID, actorID)
	if err != nil {
		return "", err
	}

	if existing != nil {
		existing.Content = text
		if err := s.postRepo.SaveComment(ctx, existing); err != nil {
			return "", err
		}
		return CommentResultUpdated, nil
	}

	comment := &models.Comment{
		Content:  text,
		AuthorID: actorID,
		PostID:   postID,
	}
	if err := s.postRepo.SaveComment(ctx, comment); err != nil {
		return "", err
	}
	return CommentResultAdded, nil
}

// DeleteComment removes comments from a post. The post owner deletes
// any comment by id (the id is required on that path); other actors
// delete their own comments and need no id. All matching comments are
// removed in one filtered pass; removal of an absent comment is a
// no-op, not an error.
func (s *PostService) DeleteComment(ctx context.Context, postID, actorID uint, commentID *uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	if post.OwnerID == actorID {
		if commentID == nil {
			return models.NewValidationError("Comment ID is required")
		}
		return s.postRepo.DeleteCommentByID(ctx, postID, *commentID)
	}

	return s.postRepo.DeleteCommentsByAuthor(ctx, postID, actorID)
}
