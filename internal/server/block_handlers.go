package server

import (
	"ripple/internal/models"

	"github.com/gofiber/fiber/v2"
)

// BlockUser blocks another user and severs any follow relationship between
// the two in the same transaction.
func (s *Server) BlockUser(c *fiber.Ctx) error {
	targetID, err := s.parseUUID(c, "userId")
	if err != nil {
		return nil
	}
	if targetID == s.userID(c) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Cannot block yourself"))
	}

	if err := s.userRepo.Block(c.UserContext(), s.userID(c), targetID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User blocked"})
}

// UnblockUser removes the block edge, idempotently.
func (s *Server) UnblockUser(c *fiber.Ctx) error {
	targetID, err := s.parseUUID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.userRepo.Unblock(c.UserContext(), s.userID(c), targetID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User unblocked"})
}
