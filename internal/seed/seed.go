// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"ripple/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Seeder populates the database with fake users, posts, and reactions.
type Seeder struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewSeeder creates a Seeder bound to the given database.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded data. Engagement rows go first so foreign
// references never dangle mid-cleanup.
func (s *Seeder) ClearAll() error {
	log.Println("Cleaning database...")
	for _, stmt := range []string{
		"DELETE FROM engagements",
		"DELETE FROM posts",
		"DELETE FROM users",
	} {
		if err := s.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("cleanup failed on %q: %w", stmt, err)
		}
	}
	return nil
}

// SeedUsers creates n accounts, all sharing the password "password123", plus
// one admin account (admin@ripple.dev).
func (s *Seeder) SeedUsers(n int) ([]*models.User, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n+1)
	admin := &models.User{
		ID:       uuid.New().String(),
		Name:     "admin",
		Email:    "admin@ripple.dev",
		Password: string(digest),
		Role:     models.RoleAdmin,
	}
	users = append(users, admin)

	for i := 0; i < n; i++ {
		users = append(users, &models.User{
			ID:       uuid.New().String(),
			Name:     gofakeit.Username(),
			Email:    fmt.Sprintf("%d.%s", i, gofakeit.Email()),
			Password: string(digest),
			Role:     models.RoleNormal,
		})
	}

	if err := s.db.CreateInBatches(users, 100).Error; err != nil {
		return nil, fmt.Errorf("user seeding failed: %w", err)
	}
	log.Printf("Created %d users (1 admin)", len(users))
	return users, nil
}

// SeedPosts creates n posts with random creators and staggered timestamps.
func (s *Seeder) SeedPosts(users []*models.User, n int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, n)
	now := time.Now()

	for i := 0; i < n; i++ {
		creator := users[s.rng.Intn(len(users))]
		created := now.Add(-time.Duration(s.rng.Intn(30*24)) * time.Hour)
		posts = append(posts, &models.Post{
			ID:        uuid.New().String(),
			Content:   gofakeit.Paragraph(1, 3, 8, "\n"),
			CreatorID: creator.ID,
			CreatedAt: created,
			UpdatedAt: created,
		})
	}

	if err := s.db.CreateInBatches(posts, 100).Error; err != nil {
		return nil, fmt.Errorf("post seeding failed: %w", err)
	}
	log.Printf("Created %d posts", len(posts))
	return posts, nil
}

// SeedEngagements sprinkles likes and dislikes over the posts. Counters are
// written to match the engagement rows exactly.
func (s *Seeder) SeedEngagements(users []*models.User, posts []*models.Post) error {
	var engagements []*models.Engagement

	for _, post := range posts {
		likes, dislikes := 0, 0
		for _, user := range users {
			if user.ID == post.CreatorID {
				continue
			}
			switch s.rng.Intn(10) {
			case 0, 1, 2:
				engagements = append(engagements, &models.Engagement{
					UserID: user.ID, PostID: post.ID, Kind: models.ReactionLike,
				})
				likes++
			case 3:
				engagements = append(engagements, &models.Engagement{
					UserID: user.ID, PostID: post.ID, Kind: models.ReactionDislike,
				})
				dislikes++
			}
		}
		if err := s.db.Model(&models.Post{}).Where("id = ?", post.ID).
			Updates(map[string]interface{}{"likes": likes, "dislikes": dislikes}).Error; err != nil {
			return fmt.Errorf("counter update failed: %w", err)
		}
	}

	if len(engagements) > 0 {
		if err := s.db.CreateInBatches(engagements, 200).Error; err != nil {
			return fmt.Errorf("engagement seeding failed: %w", err)
		}
	}
	log.Printf("Created %d engagements", len(engagements))
	return nil
}

// Run executes the full seeding pipeline.
func (s *Seeder) Run(opts Options) error {
	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	users, err := s.SeedUsers(opts.NumUsers)
	if err != nil {
		return err
	}
	posts, err := s.SeedPosts(users, opts.NumPosts)
	if err != nil {
		return err
	}
	return s.SeedEngagements(users, posts)
}
