package repository

import (
	"context"
	"testing"
	"time"

	"pixelpost/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostGetByIDNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)

	_, err := repo.GetByID(context.Background(), 99)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestPostGetByOwnersOrdering(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	old := createTestPost(t, db, alice.ID, "old")
	require.NoError(t, db.Model(old).Update("created_at", time.Now().Add(-2*time.Hour)).Error)
	newer := createTestPost(t, db, bob.ID, "newer")

	posts, err := repo.GetByOwners(ctx, []uint{alice.ID, bob.ID})
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, newer.ID, posts[0].ID, "feed is most recent first")
	assert.Equal(t, old.ID, posts[1].ID)

	// No owners means an empty feed, not an unfiltered query.
	posts, err = repo.GetByOwners(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostLikeSetSemantics(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	post := createTestPost(t, db, alice.ID, "pic")

	liked, err := repo.IsLiked(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	require.NoError(t, repo.Like(ctx, alice.ID, post.ID))
	// A duplicate like is absorbed, not an error.
	require.NoError(t, repo.Like(ctx, alice.ID, post.ID))

	var count int64
	require.NoError(t, db.Model(&models.Like{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	require.NoError(t, repo.Unlike(ctx, alice.ID, post.ID))
	liked, err = repo.IsLiked(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	// Unliking again stays a no-op.
	require.NoError(t, repo.Unlike(ctx, alice.ID, post.ID))
}

func TestCommentSaveAndLookupByAuthor(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	post := createTestPost(t, db, alice.ID, "pic")

	got, err := repo.GetCommentByAuthor(ctx, post.ID, bob.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	comment := &models.Comment{PostID: post.ID, AuthorID: bob.ID, Content: "x"}
	require.NoError(t, repo.SaveComment(ctx, comment))

	got, err = repo.GetCommentByAuthor(ctx, post.ID, bob.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "x", got.Content)

	// Updating through Save keeps a single row per author.
	got.Content = "y"
	require.NoError(t, repo.SaveComment(ctx, got))

	var count int64
	require.NoError(t, db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDeleteCommentsByAuthorRemovesAllMatching(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")
	post := createTestPost(t, db, alice.ID, "pic")

	require.NoError(t, repo.SaveComment(ctx, &models.Comment{PostID: post.ID, AuthorID: bob.ID, Content: "b"}))
	require.NoError(t, repo.SaveComment(ctx, &models.Comment{PostID: post.ID, AuthorID: carol.ID, Content: "c"}))

	require.NoError(t, repo.DeleteCommentsByAuthor(ctx, post.ID, bob.ID))

	var count int64
	require.NoError(t, db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count, "only the other author's comment survives")

	// Absent comments delete as a no-op.
	require.NoError(t, repo.DeleteCommentsByAuthor(ctx, post.ID, bob.ID))
	require.NoError(t, repo.DeleteCommentByID(ctx, post.ID, 9999))
}

func TestPostDeleteRemovesInteractions(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	post := createTestPost(t, db, alice.ID, "pic")

	require.NoError(t, repo.Like(ctx, bob.ID, post.ID))
	require.NoError(t, repo.SaveComment(ctx, &models.Comment{PostID: post.ID, AuthorID: bob.ID, Content: "hi"}))

	require.NoError(t, repo.Delete(ctx, post.ID))

	_, err := repo.GetByID(ctx, post.ID)
	require.Error(t, err)

	var likes, comments int64
	require.NoError(t, db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&likes).Error)
	require.NoError(t, db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&comments).Error)
	assert.Zero(t, likes)
	assert.Zero(t, comments)
}

func TestRemoveUserInteractions(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	p1 := createTestPost(t, db, alice.ID, "p1")
	p2 := createTestPost(t, db, alice.ID, "p2")

	require.NoError(t, repo.Like(ctx, bob.ID, p1.ID))
	require.NoError(t, repo.Like(ctx, bob.ID, p2.ID))
	require.NoError(t, repo.Like(ctx, alice.ID, p1.ID))
	require.NoError(t, repo.SaveComment(ctx, &models.Comment{PostID: p1.ID, AuthorID: bob.ID, Content: "1"}))
	require.NoError(t, repo.SaveComment(ctx, &models.Comment{PostID: p2.ID, AuthorID: bob.ID, Content: "2"}))

	require.NoError(t, repo.RemoveUserInteractions(ctx, bob.ID))

	var likes, comments int64
	require.NoError(t, db.Model(&models.Like{}).Where("user_id = ?", bob.ID).Count(&likes).Error)
	require.NoError(t, db.Model(&models.Comment{}).Where("author_id = ?", bob.ID).Count(&comments).Error)
	assert.Zero(t, likes)
	assert.Zero(t, comments)

	// Other users' interactions are untouched.
	require.NoError(t, db.Model(&models.Like{}).Where("user_id = ?", alice.ID).Count(&likes).Error)
	assert.Equal(t, int64(1), likes)
}

func TestGetByIDResolvedPreloads(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	post := createTestPost(t, db, alice.ID, "pic")

	require.NoError(t, repo.Like(ctx, bob.ID, post.ID))
	require.NoError(t, repo.SaveComment(ctx, &models.Comment{PostID: post.ID, AuthorID: bob.ID, Content: "hi"}))

	got, err := repo.GetByIDResolved(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.Owner.ID)
	require.Len(t, got.Likes, 1)
	assert.Equal(t, bob.ID, got.Likes[0].User.ID)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, bob.ID, got.Comments[0].Author.ID)
}

func TestRemoveUserInteractionsDropsCachedPosts(t *testing.T) {
	withTestCache(t)
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	post := createTestPost(t, db, alice.ID, "pic")

	require.NoError(t, repo.Like(ctx, bob.ID, post.ID))
	require.NoError(t, repo.SaveComment(ctx, &models.Comment{PostID: post.ID, AuthorID: bob.ID, Content: "hi"}))

	// Warm the resolved-post cache with bob's like and comment on it.
	warm, err := repo.GetByIDResolved(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, warm.Likes, 1)
	require.Len(t, warm.Comments, 1)

	require.NoError(t, repo.RemoveUserInteractions(ctx, bob.ID))

	// The scrub must not keep being served from the cached copy.
	after, err := repo.GetByIDResolved(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, after.Likes)
	assert.Empty(t, after.Comments)
}
