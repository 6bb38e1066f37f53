package server

import (
	"strings"

	"ripple/internal/models"

	"github.com/gofiber/fiber/v2"
)

const searchResultLimit = 20

// Search runs a combined search over users, posts and hashtags. The query
// must be at least 2 characters; type narrows the result set.
func (s *Server) Search(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if len(query) < 2 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Search query must be at least 2 characters"))
	}

	searchType := c.Query("type", "all")
	switch searchType {
	case "all", "users", "posts", "hashtags":
	default:
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid search type"))
	}

	ctx := c.UserContext()
	result := fiber.Map{}

	if searchType == "all" || searchType == "users" {
		users, err := s.userRepo.Search(ctx, query, searchResultLimit)
		if err != nil {
			return respondError(c, err)
		}
		result["users"] = users
	}
	if searchType == "all" || searchType == "posts" {
		posts, err := s.postRepo.Search(ctx, query, s.userID(c), searchResultLimit)
		if err != nil {
			return respondError(c, err)
		}
		result["posts"] = posts
	}
	if searchType == "all" || searchType == "hashtags" {
		hashtags, err := s.hashtagRepo.Search(ctx, query, searchResultLimit)
		if err != nil {
			return respondError(c, err)
		}
		result["hashtags"] = hashtags
	}

	return c.JSON(result)
}

// GetPostsByHashtag lists posts carrying a tag, newest first, 20 per page.
func (s *Server) GetPostsByHashtag(c *fiber.Ctx) error {
	tag := strings.ToLower(strings.TrimSpace(c.Params("tag")))
	if tag == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Hashtag is required"))
	}

	p := parsePagination(c, 20)
	posts, total, err := s.hashtagRepo.PostsByTag(c.UserContext(), tag, s.userID(c), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.NewPaged(posts, total, p.Page, p.Limit))
}
