package server

import (
	"pixelpost/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ToggleFollow handles GET /api/follow/:id. Following an already
// followed user unfollows them.
func (s *Server) ToggleFollow(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.followService.Toggle(c.Context(), currentUserID(c), targetID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": result,
	})
}
