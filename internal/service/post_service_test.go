package service

import (
	"context"
	"fmt"
	"testing"

	"pixelpost/internal/media"
	"pixelpost/internal/models"
)

type postRepoStub struct {
	createFn                 func(context.Context, *models.Post) error
	getByIDFn                func(context.Context, uint) (*models.Post, error)
	getByIDResolvedFn        func(context.Context, uint) (*models.Post, error)
	getByOwnerFn             func(context.Context, uint) ([]models.Post, error)
	getByOwnersFn            func(context.Context, []uint) ([]models.Post, error)
	updateFn                 func(context.Context, *models.Post) error
	deleteFn                 func(context.Context, uint) error
	isLikedFn                func(context.Context, uint, uint) (bool, error)
	likeFn                   func(context.Context, uint, uint) error
	unlikeFn                 func(context.Context, uint, uint) error
	getCommentByAuthorFn     func(context.Context, uint, uint) (*models.Comment, error)
	saveCommentFn            func(context.Context, *models.Comment) error
	deleteCommentByIDFn      func(context.Context, uint, uint) error
	deleteCommentsByAuthorFn func(context.Context, uint, uint) error
	removeUserInteractionsFn func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) GetByIDResolved(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDResolvedFn(ctx, id)
}
func (s *postRepoStub) GetByOwner(ctx context.Context, ownerID uint) ([]models.Post, error) {
	return s.getByOwnerFn(ctx, ownerID)
}
func (s *postRepoStub) GetByOwners(ctx context.Context, ownerIDs []uint) ([]models.Post, error) {
	return s.getByOwnersFn(ctx, ownerIDs)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, postID)
}
func (s *postRepoStub) Like(ctx context.Context, userID, postID uint) error {
	return s.likeFn(ctx, userID, postID)
}
func (s *postRepoStub) Unlike(ctx context.Context, userID, postID uint) error {
	return s.unlikeFn(ctx, userID, postID)
}
func (s *postRepoStub) GetCommentByAuthor(ctx context.Context, postID, authorID uint) (*models.Comment, error) {
	return s.getCommentByAuthorFn(ctx, postID, authorID)
}
func (s *postRepoStub) SaveComment(ctx context.Context, comment *models.Comment) error {
	return s.saveCommentFn(ctx, comment)
}
func (s *postRepoStub) DeleteCommentByID(ctx context.Context, postID, commentID uint) error {
	return s.deleteCommentByIDFn(ctx, postID, commentID)
}
func (s *postRepoStub) DeleteCommentsByAuthor(ctx context.Context, postID, authorID uint) error {
	return s.deleteCommentsByAuthorFn(ctx, postID, authorID)
}
func (s *postRepoStub) RemoveUserInteractions(ctx context.Context, userID uint) error {
	return s.removeUserInteractionsFn(ctx, userID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(context.Context, *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, OwnerID: 1}, nil
		},
		getByIDResolvedFn: func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, OwnerID: 1}, nil
		},
		getByOwnerFn:             func(context.Context, uint) ([]models.Post, error) { return nil, nil },
		getByOwnersFn:            func(context.Context, []uint) ([]models.Post, error) { return nil, nil },
		updateFn:                 func(context.Context, *models.Post) error { return nil },
		deleteFn:                 func(context.Context, uint) error { return nil },
		isLikedFn:                func(context.Context, uint, uint) (bool, error) { return false, nil },
		likeFn:                   func(context.Context, uint, uint) error { return nil },
		unlikeFn:                 func(context.Context, uint, uint) error { return nil },
		getCommentByAuthorFn:     func(context.Context, uint, uint) (*models.Comment, error) { return nil, nil },
		saveCommentFn:            func(context.Context, *models.Comment) error { return nil },
		deleteCommentByIDFn:      func(context.Context, uint, uint) error { return nil },
		deleteCommentsByAuthorFn: func(context.Context, uint, uint) error { return nil },
		removeUserInteractionsFn: func(context.Context, uint) error { return nil },
	}
}

// storeStub is an in-memory media.Store.
type storeStub struct {
	uploadFn  func(context.Context, string, []byte) (media.Asset, error)
	destroyFn func(context.Context, string) error
}

func (s *storeStub) Upload(ctx context.Context, folder string, data []byte) (media.Asset, error) {
	if s.uploadFn != nil {
		return s.uploadFn(ctx, folder, data)
	}
	return media.Asset{PublicID: folder + "/fake", URL: "/media/" + folder + "/fake.jpg"}, nil
}

func (s *storeStub) Destroy(ctx context.Context, publicID string) error {
	if s.destroyFn != nil {
		return s.destroyFn(ctx, publicID)
	}
	return nil
}

func TestPostCreateInvalidImage(t *testing.T) {
	svc := NewPostService(noopPostRepo(), &storeStub{})
	_, err := svc.Create(context.Background(), CreatePostInput{OwnerID: 1, Image: ""})
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func TestPostCreateStorageDown(t *testing.T) {
	store := &storeStub{
		uploadFn: func(context.Context, string, []byte) (media.Asset, error) {
			return media.Asset{}, fmt.Errorf("disk full")
		},
	}
	svc := NewPostService(noopPostRepo(), store)
	_, err := svc.Create(context.Background(), CreatePostInput{
		OwnerID: 1,
		Image:   "aGVsbG8=", // bare base64 payload
	})
	assertAppErrorCode(t, err, "DEPENDENCY_FAILURE")
}

func TestToggleLikeRoundTrip(t *testing.T) {
	liked := map[[2]uint]bool{}
	repo := noopPostRepo()
	repo.isLikedFn = func(_ context.Context, userID, postID uint) (bool, error) {
		return liked[[2]uint{userID, postID}], nil
	}
	repo.likeFn = func(_ context.Context, userID, postID uint) error {
		liked[[2]uint{userID, postID}] = true
		return nil
	}
	repo.unlikeFn = func(_ context.Context, userID, postID uint) error {
		delete(liked, [2]uint{userID, postID})
		return nil
	}

	svc := NewPostService(repo, &storeStub{})

	result, err := svc.ToggleLike(context.Background(), 7, 2)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if result != LikeResultLiked {
		t.Fatalf("expected %q, got %q", LikeResultLiked, result)
	}

	result, err = svc.ToggleLike(context.Background(), 7, 2)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if result != LikeResultUnliked {
		t.Fatalf("expected %q, got %q", LikeResultUnliked, result)
	}
	if len(liked) != 0 {
		t.Fatal("expected like set restored after double toggle")
	}
}

func TestToggleLikeMissingPost(t *testing.T) {
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post", id)
	}

	svc := NewPostService(repo, &storeStub{})
	_, err := svc.ToggleLike(context.Background(), 7, 2)
	assertAppErrorCode(t, err, "NOT_FOUND")
}

func TestCommentUpsertByAuthor(t *testing.T) {
	// A second comment by the same author replaces the first; the post
	// ends with exactly one comment for that author.
	comments := map[uint]*models.Comment{}
	repo := noopPostRepo()
	repo.getCommentByAuthorFn = func(_ context.Context, _, authorID uint) (*models.Comment, error) {
		return comments[authorID], nil
	}
	repo.saveCommentFn = func(_ context.Context, c *models.Comment) error {
		comments[c.AuthorID] = c
		return nil
	}

	svc := NewPostService(repo, &storeStub{})

	result, err := svc.Comment(context.Background(), 5, 9, "x")
	if err != nil {
		t.Fatalf("first comment: %v", err)
	}
	if result != CommentResultAdded {
		t.Fatalf("expected %q, got %q", CommentResultAdded, result)
	}

	result, err = svc.Comment(context.Background(), 5, 9, "y")
	if err != nil {
		t.Fatalf("second comment: %v", err)
	}
	if result != CommentResultUpdated {
		t.Fatalf("expected %q, got %q", CommentResultUpdated, result)
	}

	if len(comments) != 1 {
		t.Fatalf("expected one comment, got %d", len(comments))
	}
	if comments[9].Content != "y" {
		t.Fatalf("expected content %q, got %q", "y", comments[9].Content)
	}
}

func TestCommentEmptyText(t *testing.T) {
	svc := NewPostService(noopPostRepo(), &storeStub{})
	_, err := svc.Comment(context.Background(), 5, 9, "   ")
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func TestDeleteCommentOwnerNeedsID(t *testing.T) {
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, OwnerID: 1}, nil
	}

	svc := NewPostService(repo, &storeStub{})
	err := svc.DeleteComment(context.Background(), 5, 1, nil)
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func TestDeleteCommentOwnerByID(t *testing.T) {
	var deletedID uint
	repo := noopPostRepo()
	repo.deleteCommentByIDFn = func(_ context.Context, _, commentID uint) error {
		deletedID = commentID
		return nil
	}

	svc := NewPostService(repo, &storeStub{})
	commentID := uint(42)
	if err := svc.DeleteComment(context.Background(), 5, 1, &commentID); err != nil {
		t.Fatalf("DeleteComment: %v", err)
	}
	if deletedID != 42 {
		t.Fatalf("expected comment 42 deleted, got %d", deletedID)
	}
}

func TestDeleteCommentNonOwnerRemovesOwn(t *testing.T) {
	var removedAuthor uint
	repo := noopPostRepo()
	repo.deleteCommentsByAuthorFn = func(_ context.Context, _, authorID uint) error {
		removedAuthor = authorID
		return nil
	}

	svc := NewPostService(repo, &storeStub{})
	// Actor 8 is not the owner (owner is 1); comment id in the body is
	// ignored on this path.
	commentID := uint(42)
	if err := svc.DeleteComment(context.Background(), 5, 8, &commentID); err != nil {
		t.Fatalf("DeleteComment: %v", err)
	}
	if removedAuthor != 8 {
		t.Fatalf("expected author 8 comments removed, got %d", removedAuthor)
	}
}

func TestUpdateCaptionNotOwner(t *testing.T) {
	svc := NewPostService(noopPostRepo(), &storeStub{})
	_, err := svc.UpdateCaption(context.Background(), 5, 99, "new caption")
	assertAppErrorCode(t, err, "UNAUTHORIZED")
}

func TestUpdateCaptionEmpty(t *testing.T) {
	svc := NewPostService(noopPostRepo(), &storeStub{})
	_, err := svc.UpdateCaption(context.Background(), 5, 1, "  ")
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func TestDeletePostNotOwner(t *testing.T) {
	svc := NewPostService(noopPostRepo(), &storeStub{})
	err := svc.Delete(context.Background(), 5, 99)
	assertAppErrorCode(t, err, "UNAUTHORIZED")
}

func TestDeletePostStorageDown(t *testing.T) {
	store := &storeStub{
		destroyFn: func(context.Context, string) error { return fmt.Errorf("unreachable") },
	}
	svc := NewPostService(noopPostRepo(), store)
	err := svc.Delete(context.Background(), 5, 1)
	assertAppErrorCode(t, err, "DEPENDENCY_FAILURE")
}
