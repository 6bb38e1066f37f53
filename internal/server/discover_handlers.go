package server

import (
	"ripple/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetTrendingHashtags returns hashtags ordered by post count, default 10.
func (s *Server) GetTrendingHashtags(c *fiber.Ctx) error {
	p := parsePagination(c, 10)
	hashtags, err := s.hashtagRepo.Trending(c.UserContext(), p.Limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": hashtags})
}

// GetTrendingPosts returns posts ranked by engagement score, default 20.
func (s *Server) GetTrendingPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	posts, err := s.postRepo.Trending(c.UserContext(), p.Limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": posts})
}

// GetSuggestedUsers returns users the caller might follow: not themselves,
// not already followed, not blocked; most followed first, default 10.
func (s *Server) GetSuggestedUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 10)
	users, err := s.userRepo.Suggested(c.UserContext(), s.userID(c), p.Limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": users})
}

// GetExplore returns posts from users the caller does not follow, newest
// first, 20 per page.
func (s *Server) GetExplore(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	posts, total, err := s.postRepo.Explore(c.UserContext(), s.userID(c), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.NewPaged(posts, total, p.Page, p.Limit))
}
