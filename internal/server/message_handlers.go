package server

import (
	"ripple/internal/models"
	"ripple/internal/service"

	"github.com/gofiber/fiber/v2"
)

type sendMessageRequest struct {
	RecipientID string `json:"recipient_id"`
	Content     string `json:"content"`
}

// GetConversations lists the caller's conversations: one row per
// correspondent with the latest message and the unread count, page size 20.
func (s *Server) GetConversations(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	conversations, total, err := s.messageService.Conversations(c.UserContext(), s.userID(c), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.NewPaged(conversations, total, p.Page, p.Limit))
}

// GetChat returns one page of the thread with another user in chronological
// order, page size 30. Fetching the thread marks that correspondent's unread
// messages as read.
func (s *Server) GetChat(c *fiber.Ctx) error {
	otherID, err := s.parseUUID(c, "otherUserId")
	if err != nil {
		return nil
	}

	p := parsePagination(c, 30)
	messages, total, err := s.messageService.Chat(c.UserContext(), s.userID(c), otherID, p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.NewPaged(messages, total, p.Page, p.Limit))
}

// SendMessage sends a direct message, notifying the recipient.
func (s *Server) SendMessage(c *fiber.Ctx) error {
	var req sendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	message, err := s.messageService.SendMessage(c.UserContext(), service.SendMessageInput{
		SenderID:    s.userID(c),
		RecipientID: req.RecipientID,
		Content:     req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}

// GetUnreadMessageCount returns the caller's total unread message count.
func (s *Server) GetUnreadMessageCount(c *fiber.Ctx) error {
	count, err := s.messageService.UnreadCount(c.UserContext(), s.userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}
