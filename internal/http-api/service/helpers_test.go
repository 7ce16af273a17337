package service

import (
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"reviewhub/internal/http-api/models"
)

// newTestDB opens a per-test in-memory sqlite database with foreign keys
// enforced and the full schema migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Genre{},
		&models.Title{},
		&models.Review{},
		&models.Comment{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// seedUser inserts a user with the given role and returns it.
func seedUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()
	u := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

// seedGenre inserts a genre and returns it.
func seedGenre(t *testing.T, db *gorm.DB, name, slug string) *models.Genre {
	t.Helper()
	g := &models.Genre{Name: name, Slug: slug}
	if err := db.Create(g).Error; err != nil {
		t.Fatalf("seed genre %s: %v", slug, err)
	}
	return g
}

// seedCategory inserts a category and returns it.
func seedCategory(t *testing.T, db *gorm.DB, name, slug string) *models.Category {
	t.Helper()
	c := &models.Category{Name: name, Slug: slug}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("seed category %s: %v", slug, err)
	}
	return c
}

// seedTitle inserts a title with the given genres.
func seedTitle(t *testing.T, db *gorm.DB, name string, year int, genres ...models.Genre) *models.Title {
	t.Helper()
	title := &models.Title{Name: name, Year: year, Genres: genres}
	if err := db.Create(title).Error; err != nil {
		t.Fatalf("seed title %s: %v", name, err)
	}
	return title
}

// seedReview inserts a review directly.
func seedReview(t *testing.T, db *gorm.DB, titleID int64, authorID string, score int) *models.Review {
	t.Helper()
	r := &models.Review{TitleID: titleID, AuthorID: authorID, Text: "seeded", Score: score}
	if err := db.Create(r).Error; err != nil {
		t.Fatalf("seed review: %v", err)
	}
	return r
}
