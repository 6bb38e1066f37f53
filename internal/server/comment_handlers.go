package server

import (
	"ripple/internal/models"
	"ripple/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createCommentRequest struct {
	PostID  string `json:"post_id"`
	Content string `json:"content"`
}

type updateCommentRequest struct {
	Content string `json:"content"`
}

// GetComments returns a post's comments, newest first, page size 10.
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseUUID(c, "postId")
	if err != nil {
		return nil
	}

	p := parsePagination(c, 10)
	comments, total, err := s.commentService.ListComments(c.UserContext(), postID, p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.NewPaged(comments, total, p.Page, p.Limit))
}

// CreateComment adds a comment to a post, notifying the post author.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req createCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.PostID == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("post_id is required"))
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		UserID:  s.userID(c),
		PostID:  req.PostID,
		Content: req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// UpdateComment edits the caller's own comment.
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	commentID, err := s.parseUUID(c, "commentId")
	if err != nil {
		return nil
	}

	var req updateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.UpdateComment(c.UserContext(), service.UpdateCommentInput{
		UserID:    s.userID(c),
		CommentID: commentID,
		Content:   req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment removes the caller's own comment.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := s.parseUUID(c, "commentId")
	if err != nil {
		return nil
	}

	if err := s.commentService.DeleteComment(c.UserContext(), service.DeleteCommentInput{
		UserID:    s.userID(c),
		CommentID: commentID,
	}); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted"})
}
