package server

import (
	"ripple/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetNotifications lists the caller's notifications, newest first, page
// size 20, with the acting user and referenced post content attached.
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	notifications, total, err := s.notificationRepo.ListByUser(c.UserContext(), s.userID(c), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.NewPaged(notifications, total, p.Page, p.Limit))
}

// GetUnreadNotificationCount returns the caller's unread notification count.
func (s *Server) GetUnreadNotificationCount(c *fiber.Ctx) error {
	count, err := s.notificationRepo.UnreadCount(c.UserContext(), s.userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}

// MarkNotificationRead marks one of the caller's notifications as read.
func (s *Server) MarkNotificationRead(c *fiber.Ctx) error {
	id, err := s.parseUUID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.notificationRepo.MarkRead(c.UserContext(), id, s.userID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Notification marked as read"})
}

// MarkAllNotificationsRead marks all of the caller's notifications as read.
func (s *Server) MarkAllNotificationsRead(c *fiber.Ctx) error {
	if err := s.notificationRepo.MarkAllRead(c.UserContext(), s.userID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "All notifications marked as read"})
}

// DeleteNotification removes one of the caller's notifications.
func (s *Server) DeleteNotification(c *fiber.Ctx) error {
	id, err := s.parseUUID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.notificationRepo.Delete(c.UserContext(), id, s.userID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Notification deleted"})
}
