package server

import (
	"pixelpost/internal/models"
	"pixelpost/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/upload. The image arrives as a base64
// data URI in the JSON body.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Caption string `json:"caption"`
		Image   string `json:"image"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.Create(c.Context(), service.CreatePostInput{
		OwnerID: currentUserID(c),
		Caption: req.Caption,
		Image:   req.Image,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"post":    post,
	})
}

// GetPost handles GET /api/post/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.Get(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"post":    post,
	})
}

// GetMyPosts handles GET /api/my/posts
func (s *Server) GetMyPosts(c *fiber.Ctx) error {
	posts, err := s.feedService.UserPosts(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"posts":   posts,
	})
}

// GetUserPosts handles GET /api/userposts/:id
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	posts, err := s.feedService.UserPosts(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"posts":   posts,
	})
}

// GetFeed handles GET /api/posts: posts from followed users, newest
// first.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	posts, err := s.feedService.FollowingFeed(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"posts":   posts,
	})
}

// ToggleLike handles GET /api/upload/:id. Liking an already liked post
// removes the like.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.postService.ToggleLike(c.Context(), id, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": result,
	})
}

// UpdateCaption handles PUT /api/upload/:id
func (s *Server) UpdateCaption(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Caption string `json:"caption"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdateCaption(c.Context(), id, currentUserID(c), req.Caption)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"post":    post,
	})
}

// DeletePost handles DELETE /api/upload/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.Delete(c.Context(), id, currentUserID(c)); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Post deleted",
	})
}
