package server

import (
	"strings"

	"ripple/internal/models"

	"github.com/gofiber/fiber/v2"
)

type updateProfileRequest struct {
	Name     *string `json:"name"`
	Username *string `json:"username"`
	Bio      *string `json:"bio"`
	Image    *string `json:"image"`
}

// GetUserProfile returns a user's profile with live follower, following and
// post counts.
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	userID, err := s.parseUUID(c, "userId")
	if err != nil {
		return nil
	}

	user, err := s.userRepo.GetProfile(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile updates the caller's own profile fields. Only the fields
// present in the body are changed.
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userRepo.GetByID(c.UserContext(), s.userID(c))
	if err != nil {
		return respondError(c, err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Name cannot be empty"))
		}
		user.Name = name
	}
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Username cannot be empty"))
		}
		user.Username = username
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Image != nil {
		user.Image = *req.Image
	}

	if err := s.userRepo.Update(c.UserContext(), user); err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}
