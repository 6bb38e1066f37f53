package server

import (
	"ripple/internal/models"

	"github.com/gofiber/fiber/v2"
)

// FollowUser follows another user. Self-follows and duplicate follows are
// rejected with a validation error.
func (s *Server) FollowUser(c *fiber.Ctx) error {
	targetID, err := s.parseUUID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.followRepo.Follow(c.UserContext(), s.userID(c), targetID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Followed"})
}

// UnfollowUser removes the follow edge. Unfollowing someone you do not follow
// succeeds without effect.
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	targetID, err := s.parseUUID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.followRepo.Unfollow(c.UserContext(), s.userID(c), targetID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Unfollowed"})
}

// GetFollowStatus reports whether the caller follows the given user.
func (s *Server) GetFollowStatus(c *fiber.Ctx) error {
	targetID, err := s.parseUUID(c, "userId")
	if err != nil {
		return nil
	}

	following, err := s.followRepo.IsFollowing(c.UserContext(), s.userID(c), targetID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"is_following": following})
}

// GetFollowers lists a user's followers, most recent first.
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	targetID, err := s.parseUUID(c, "userId")
	if err != nil {
		return nil
	}

	p := parsePagination(c, 50)
	users, total, err := s.followRepo.Followers(c.UserContext(), targetID, p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.NewPaged(users, total, p.Page, p.Limit))
}

// GetFollowing lists the users someone follows, most recent first.
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	targetID, err := s.parseUUID(c, "userId")
	if err != nil {
		return nil
	}

	p := parsePagination(c, 50)
	users, total, err := s.followRepo.Following(c.UserContext(), targetID, p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.NewPaged(users, total, p.Page, p.Limit))
}
