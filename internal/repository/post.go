package repository

import (
	"context"
	"errors"

	"pixelpost/internal/cache"
	"pixelpost/internal/models"
	"pixelpost/internal/observability"

	"gorm.io/gorm"
)

// PostRepository defines persistence operations for posts and their
// embedded likes and comments. Likes and comments live here rather
// than in their own repositories because the post owns them: they are
// created, queried and destroyed only through their post.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetByIDResolved(ctx context.Context, id uint) (*models.Post, error)
	GetByOwner(ctx context.Context, ownerID uint) ([]models.Post, error)
	GetByOwners(ctx context.Context, ownerIDs []uint) ([]models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error

	IsLiked(ctx context.Context, userID, postID uint) (bool, error)
	Like(ctx context.Context, userID, postID uint) error
	Unlike(ctx context.Context, userID, postID uint) error

	GetCommentByAuthor(ctx context.Context, postID, authorID uint) (*models.Comment, error)
	SaveComment(ctx context.Context, comment *models.Comment) error
	DeleteCommentByID(ctx context.Context, postID, commentID uint) error
	DeleteCommentsByAuthor(ctx context.Context, postID, authorID uint) error

	RemoveUserInteractions(ctx context.Context, userID uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	// Only the owner's cached views are invalidated. Followers' cached
	// feeds pick the post up when their entry expires, at most FeedTTL
	// later; a per-follower invalidation would fan out on every upload.
	cache.InvalidateUser(ctx, post.OwnerID)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// GetByIDResolved loads a post with its owner, likers and comment
// authors resolved for display.
func (r *postRepository) GetByIDResolved(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	key := cache.PostKey(id)

	err := cache.Aside(ctx, key, &post, cache.PostTTL, func() error {
		defer observability.TrackQuery("select_resolved", "posts")()
		if err := r.resolved(ctx).First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetByOwner returns a user's posts in original chronological order.
func (r *postRepository) GetByOwner(ctx context.Context, ownerID uint) ([]models.Post, error) {
	var posts []models.Post
	if err := r.resolved(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// GetByOwners returns posts by any of the given owners, most recent
// first, for the following feed.
func (r *postRepository) GetByOwners(ctx context.Context, ownerIDs []uint) ([]models.Post, error) {
	if len(ownerIDs) == 0 {
		return nil, nil
	}
	defer observability.TrackQuery("select_feed", "posts")()
	var posts []models.Post
	if err := r.resolved(ctx).
		Where("owner_id IN ?", ownerIDs).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

// Delete removes the post together with its likes and comments in one
// transaction: the post is the sole keeper of both.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

func (r *postRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	var like models.Like
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&like).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, models.NewInternalError(err)
	}
	return true, nil
}

func (r *postRepository) Like(ctx context.Context, userID, postID uint) error {
	like := &models.Like{UserID: userID, PostID: postID}
	if err := r.db.WithContext(ctx).Create(like).Error; err != nil {
		// The unique pair index absorbs a concurrent double-like.
		if isUniqueConstraintError(err) {
			return nil
		}
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

func (r *postRepository) Unlike(ctx context.Context, userID, postID uint) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

func (r *postRepository) GetCommentByAuthor(ctx context.Context, postID, authorID uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND author_id = ?", postID, authorID).
		First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

// SaveComment creates or updates a comment row.
func (r *postRepository) SaveComment(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Save(comment).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Comment by this author already exists")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, comment.PostID)
	return nil
}

// DeleteCommentByID removes the comment with the given id from the
// post. Deleting an absent comment is a no-op.
func (r *postRepository) DeleteCommentByID(ctx context.Context, postID, commentID uint) error {
	if err := r.db.WithContext(ctx).
		Where("post_id = ? AND id = ?", postID, commentID).
		Delete(&models.Comment{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

// DeleteCommentsByAuthor removes every comment by authorID on the post
// in a single filtered pass.
func (r *postRepository) DeleteCommentsByAuthor(ctx context.Context, postID, authorID uint) error {
	if err := r.db.WithContext(ctx).
		Where("post_id = ? AND author_id = ?", postID, authorID).
		Delete(&models.Comment{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

// RemoveUserInteractions scrubs the user's likes and comments from
// every remaining post. Used by the account deletion cascade; both
// deletes are no-ops when nothing matches.
func (r *postRepository) RemoveUserInteractions(ctx context.Context, userID uint) error {
	// Resolved posts are cached with their liker and commenter rows
	// embedded, so every post the user touched has to drop out of the
	// cache along with the rows.
	var touched []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Distinct("post_id").
		Where("author_id = ?", userID).
		Pluck("post_id", &touched).Error; err != nil {
		return models.NewInternalError(err)
	}
	var liked []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Distinct("post_id").
		Where("user_id = ?", userID).
		Pluck("post_id", &liked).Error; err != nil {
		return models.NewInternalError(err)
	}

	if err := r.db.WithContext(ctx).
		Where("author_id = ?", userID).
		Delete(&models.Comment{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.Like{}).Error; err != nil {
		return models.NewInternalError(err)
	}

	for _, postID := range append(touched, liked...) {
		cache.InvalidatePost(ctx, postID)
	}
	return nil
}

func (r *postRepository) resolved(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Likes.User").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Comments.Author")
}
