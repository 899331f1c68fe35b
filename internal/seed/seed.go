// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"pixelpost/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configures a seeding run.
type Options struct {
	NumUsers int
	NumPosts int
	// SkipBcrypt stores a plaintext sentinel password instead of a
	// bcrypt hash; useful for fast local iteration only.
	SkipBcrypt bool
}

// Seeder populates the database with fake users, posts, follows, likes
// and comments.
type Seeder struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:   db,
		opts: opts,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded rows. Order respects foreign keys.
func (s *Seeder) ClearAll() error {
	tables := []string{"likes", "comments", "follows", "posts", "users"}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	log.Println("Cleared existing data")
	return nil
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (s *Seeder) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Name:      gofakeit.Name(),
		Email:     gofakeit.Email(),
		AvatarURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	if s.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost constructs and persists a sample post for the given owner
// with a realistic created_at spread over the last 90 days.
func (s *Seeder) CreatePost(owner *models.User) (*models.Post, error) {
	publicID := "posts/" + gofakeit.UUID()
	post := &models.Post{
		OwnerID:       owner.ID,
		Caption:       gofakeit.Sentence(8),
		ImagePublicID: publicID,
		ImageURL:      fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID()),
	}

	daysBack := s.rng.Intn(90)
	hoursBack := s.rng.Intn(24)
	post.CreatedAt = time.Now().
		Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	if err := s.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// SeedSocialGraph creates users and a mesh of follow edges between
// them. Roughly a fifth of all ordered user pairs get an edge.
func (s *Seeder) SeedSocialGraph() ([]*models.User, error) {
	n := s.opts.NumUsers
	if n <= 0 {
		n = 50
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user, err := s.CreateUser()
		if err != nil {
			return nil, fmt.Errorf("create user %d: %w", i, err)
		}
		users = append(users, user)
	}
	log.Printf("Created %d users", len(users))

	edges := 0
	for _, follower := range users {
		for _, followee := range users {
			if follower.ID == followee.ID || s.rng.Intn(5) != 0 {
				continue
			}
			edge := &models.Follow{FollowerID: follower.ID, FolloweeID: followee.ID}
			if err := s.db.Create(edge).Error; err != nil {
				return nil, fmt.Errorf("create follow edge: %w", err)
			}
			edges++
		}
	}
	log.Printf("Created %d follow edges", edges)
	return users, nil
}

// SeedEngagement creates posts for the given users plus likes and
// comments from random other users.
func (s *Seeder) SeedEngagement(users []*models.User) error {
	n := s.opts.NumPosts
	if n <= 0 {
		n = 200
	}
	if len(users) == 0 {
		return fmt.Errorf("no users to seed posts for")
	}

	likes, comments := 0, 0
	for i := 0; i < n; i++ {
		owner := users[s.rng.Intn(len(users))]
		post, err := s.CreatePost(owner)
		if err != nil {
			return fmt.Errorf("create post %d: %w", i, err)
		}

		for _, user := range users {
			if s.rng.Intn(4) == 0 {
				like := &models.Like{UserID: user.ID, PostID: post.ID}
				if err := s.db.Create(like).Error; err != nil {
					return fmt.Errorf("create like: %w", err)
				}
				likes++
			}
			// One comment per author per post, matching the unique index.
			if s.rng.Intn(8) == 0 {
				comment := &models.Comment{
					PostID:   post.ID,
					AuthorID: user.ID,
					Content:  gofakeit.Sentence(6),
				}
				if err := s.db.Create(comment).Error; err != nil {
					return fmt.Errorf("create comment: %w", err)
				}
				comments++
			}
		}
	}
	log.Printf("Created %d posts, %d likes, %d comments", n, likes, comments)
	return nil
}
