package server

import (
	"github.com/gofiber/fiber/v2"
)

// LikePost likes a post for the authenticated user. Liking twice is rejected
// and the like count is unchanged.
func (s *Server) LikePost(c *fiber.Ctx) error {
	postID, err := s.parseUUID(c, "postId")
	if err != nil {
		return nil
	}

	if err := s.postRepo.Like(c.UserContext(), s.userID(c), postID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post liked"})
}

// UnlikePost removes the authenticated user's like. Unliking a post that was
// never liked succeeds.
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	postID, err := s.parseUUID(c, "postId")
	if err != nil {
		return nil
	}

	if err := s.postRepo.Unlike(c.UserContext(), s.userID(c), postID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post unliked"})
}
