package server

import (
	"ripple/internal/models"
	"ripple/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
}

// GetPosts returns the global feed, newest first. The liked annotation is
// scoped to the requesting user when a valid token is presented.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 50)
	posts, total, err := s.postService.ListPosts(c.UserContext(), s.userID(c), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.NewPaged(posts, total, p.Page, p.Limit))
}

// GetUserPosts returns one author's posts, newest first.
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	userID, err := s.parseUUID(c, "userId")
	if err != nil {
		return nil
	}

	p := parsePagination(c, 50)
	posts, total, err := s.postService.ListUserPosts(c.UserContext(), userID, s.userID(c), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.NewPaged(posts, total, p.Page, p.Limit))
}

// GetPost returns a single post with live counts.
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := s.parseUUID(c, "postId")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), postID, s.userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// CreatePost creates a post for the authenticated user, extracting hashtags
// from the content.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req createPostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:   s.userID(c),
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// DeletePost deletes the caller's own post and everything attached to it.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseUUID(c, "postId")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), service.DeletePostInput{
		UserID: s.userID(c),
		PostID: postID,
	}); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}
