package server

import (
	"pixelpost/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AddComment handles PUT /api/post/comment/:id. A user commenting on a
// post they already commented on replaces their earlier comment.
func (s *Server) AddComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	result, err := s.postService.Comment(c.Context(), postID, currentUserID(c), req.Text)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": result,
	})
}

// DeleteComment handles DELETE /api/post/comment/:id. The post owner
// must name the comment to remove; other users remove their own
// comments on the post.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		CommentID *uint `json:"commentId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.postService.DeleteComment(c.Context(), postID, currentUserID(c), req.CommentID); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Comment deleted",
	})
}
