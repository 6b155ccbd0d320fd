package server

import (
	"ripple/internal/models"
	"ripple/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts?q=...
func (s *Server) GetPosts(c *fiber.Ctx) error {
	views, err := s.postService.ListPosts(c.UserContext(), service.ListPostsInput{
		Token:  bearerToken(c),
		Filter: c.Query("q"),
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(views)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	view, err := s.postService.GetPost(c.UserContext(), bearerToken(c), c.Params("id"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(view)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	view, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		Token:   bearerToken(c),
		Content: req.Content,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// EditPost handles PUT /api/posts/:id
func (s *Server) EditPost(c *fiber.Ctx) error {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	view, err := s.postService.EditPost(c.UserContext(), service.EditPostInput{
		Token:   bearerToken(c),
		PostID:  c.Params("id"),
		Content: req.Content,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(view)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	err := s.postService.DeletePost(c.UserContext(), service.DeletePostInput{
		Token:  bearerToken(c),
		PostID: c.Params("id"),
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ReactToPost handles POST /api/posts/:id/react
func (s *Server) ReactToPost(c *fiber.Ctx) error {
	var req struct {
		Like *bool `json:"like"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}
	if req.Like == nil {
		return models.RespondWithError(c, models.NewValidationError("like must be a boolean"))
	}

	view, err := s.postService.ReactToPost(c.UserContext(), service.ReactInput{
		Token:  bearerToken(c),
		PostID: c.Params("id"),
		Like:   *req.Like,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(view)
}
