// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"ripple/internal/models"
	"ripple/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeder populates the database with a connected social mesh of fake users,
// posts, comments, likes, follows and messages.
type Seeder struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewSeeder creates a new Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll truncates all application tables in dependency order.
func (s *Seeder) ClearAll() error {
	tables := []string{
		"notifications", "messages", "post_hashtags", "hashtags",
		"likes", "comments", "blocks", "follows", "posts", "users",
	}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	log.Println("Database cleared")
	return nil
}

// CreateUser constructs and persists a sample user. All seeded users share
// the password "password123".
func (s *Seeder) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		Name:     gofakeit.Name(),
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Password: string(hashed),
		Bio:      gofakeit.Sentence(10),
		Image:    fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}
	for _, override := range overrides {
		override(user)
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// topics are sprinkled into seeded posts so trending hashtags have content.
var topics = []string{"golang", "coffee", "music", "travel", "photography", "gamedev", "cooking"}

// CreatePost persists a post with a realistic created_at spread over the last
// 90 days and an occasional hashtag.
func (s *Seeder) CreatePost(user *models.User) (*models.Post, error) {
	content := gofakeit.Paragraph(1, 3, 8, " ")
	if s.rng.Intn(3) == 0 {
		content += " #" + topics[s.rng.Intn(len(topics))]
	}

	post := &models.Post{
		UserID:    user.ID,
		Content:   content,
		CreatedAt: time.Now().Add(-time.Duration(s.rng.Intn(90*24)) * time.Hour),
	}
	if s.rng.Intn(2) == 0 {
		post.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
	}
	if err := s.db.Create(post).Error; err != nil {
		return nil, err
	}

	for _, tag := range service.ExtractHashtags(post.Content) {
		var hashtagID string
		if err := s.db.Raw(`
			INSERT INTO hashtags (id, tag, post_count, created_at)
			VALUES (gen_random_uuid(), ?, 1, NOW())
			ON CONFLICT (tag) DO UPDATE SET post_count = hashtags.post_count + 1
			RETURNING id`, tag,
		).Scan(&hashtagID).Error; err != nil {
			return nil, err
		}
		link := &models.PostHashtag{PostID: post.ID, HashtagID: hashtagID}
		if err := s.db.Create(link).Error; err != nil {
			return nil, err
		}
	}
	return post, nil
}

// SeedSocialMesh creates users, posts and a web of follows, likes, comments
// and messages between them.
func (s *Seeder) SeedSocialMesh(numUsers, numPosts int) error {
	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user, err := s.CreateUser()
		if err != nil {
			return fmt.Errorf("seeding user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("Seeded %d users", len(users))

	posts := make([]*models.Post, 0, numPosts)
	for i := 0; i < numPosts; i++ {
		post, err := s.CreatePost(users[s.rng.Intn(len(users))])
		if err != nil {
			return fmt.Errorf("seeding post: %w", err)
		}
		posts = append(posts, post)
	}
	log.Printf("Seeded %d posts", len(posts))

	// Follows: each user follows a handful of others.
	for _, u := range users {
		for i := 0; i < s.rng.Intn(8)+2; i++ {
			target := users[s.rng.Intn(len(users))]
			if target.ID == u.ID {
				continue
			}
			s.db.Exec(`INSERT INTO follows (id, follower_id, following_id, created_at)
				VALUES (gen_random_uuid(), ?, ?, NOW())
				ON CONFLICT (follower_id, following_id) DO NOTHING`, u.ID, target.ID)
		}
	}

	// Likes and comments.
	for _, p := range posts {
		for i := 0; i < s.rng.Intn(10); i++ {
			liker := users[s.rng.Intn(len(users))]
			s.db.Exec(`INSERT INTO likes (id, user_id, post_id, created_at)
				VALUES (gen_random_uuid(), ?, ?, NOW())
				ON CONFLICT (user_id, post_id) DO NOTHING`, liker.ID, p.ID)
		}
		for i := 0; i < s.rng.Intn(4); i++ {
			comment := &models.Comment{
				UserID:  users[s.rng.Intn(len(users))].ID,
				PostID:  p.ID,
				Content: gofakeit.Sentence(12),
			}
			if err := s.db.Create(comment).Error; err != nil {
				return fmt.Errorf("seeding comment: %w", err)
			}
		}
	}

	// A few message threads.
	for i := 0; i < numUsers*3; i++ {
		from := users[s.rng.Intn(len(users))]
		to := users[s.rng.Intn(len(users))]
		if from.ID == to.ID {
			continue
		}
		message := &models.Message{
			SenderID:    from.ID,
			RecipientID: to.ID,
			Content:     gofakeit.Sentence(8),
		}
		if err := s.db.Create(message).Error; err != nil {
			return fmt.Errorf("seeding message: %w", err)
		}
	}

	log.Println("Social mesh seeded")
	return nil
}
