package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"

	"gorm.io/gorm"
)

func newCommentService(db *gorm.DB) CommentService {
	return NewCommentService(
		repository.NewCommentRepo(db),
		repository.NewReviewRepository(db),
		repository.NewUserRepository(db),
	)
}

// commentFixture seeds a title, its author's review, and returns both plus
// the author.
func commentFixture(t *testing.T, db *gorm.DB) (*models.Title, *models.Review, *models.User) {
	t.Helper()
	g := seedGenre(t, db, "Drama", "drama")
	title := seedTitle(t, db, "Stalker", 1979, *g)
	author := seedUser(t, db, "alice", "user")
	review := seedReview(t, db, title.ID, author.ID, 8)
	return title, review, author
}

func TestCommentCreate_Success(t *testing.T) {
	db := newTestDB(t)
	title, review, author := commentFixture(t, db)
	svc := newCommentService(db)

	comment, err := svc.Create(context.Background(), title.ID, review.ID, author.ID, dto.CreateCommentDTO{
		Text: "agreed",
	})
	require.NoError(t, err)
	assert.Equal(t, "agreed", comment.Text)
	assert.Equal(t, "alice", comment.Author)
	assert.Equal(t, review.ID, comment.ReviewID)
	assert.False(t, comment.PubDate.IsZero())
}

func TestCommentCreate_ReviewMustBelongToRoutedTitle(t *testing.T) {
	db := newTestDB(t)
	_, review, author := commentFixture(t, db)
	g := models.Genre{Name: "Horror", Slug: "horror"}
	require.NoError(t, db.Create(&g).Error)
	other := seedTitle(t, db, "Mirror", 1975, g)
	svc := newCommentService(db)

	_, err := svc.Create(context.Background(), other.ID, review.ID, author.ID, dto.CreateCommentDTO{Text: "x"})
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestCommentUpdate_ActorPolicy(t *testing.T) {
	db := newTestDB(t)
	title, review, author := commentFixture(t, db)
	stranger := seedUser(t, db, "bob", "user")
	admin := seedUser(t, db, "root", "admin")
	svc := newCommentService(db)

	comment, err := svc.Create(context.Background(), title.ID, review.ID, author.ID, dto.CreateCommentDTO{Text: "v1"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), title.ID, review.ID, comment.ID, stranger.ID, dto.UpdateCommentDTO{Text: "hijack"})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.Update(context.Background(), title.ID, review.ID, comment.ID, admin.ID, dto.UpdateCommentDTO{Text: "moderated"})
	require.NoError(t, err)
	assert.Equal(t, "moderated", updated.Text)
}

func TestCommentDelete_ByAuthor(t *testing.T) {
	db := newTestDB(t)
	title, review, author := commentFixture(t, db)
	svc := newCommentService(db)

	comment, err := svc.Create(context.Background(), title.ID, review.ID, author.ID, dto.CreateCommentDTO{Text: "v1"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), title.ID, review.ID, comment.ID, author.ID))

	_, err = svc.Get(context.Background(), title.ID, review.ID, comment.ID)
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestCommentList_Pagination(t *testing.T) {
	db := newTestDB(t)
	title, review, author := commentFixture(t, db)
	svc := newCommentService(db)

	for _, text := range []string{"one", "two", "three"} {
		_, err := svc.Create(context.Background(), title.ID, review.ID, author.ID, dto.CreateCommentDTO{Text: text})
		require.NoError(t, err)
	}

	resp, err := svc.List(context.Background(), title.ID, review.ID, 1, 2)
	require.NoError(t, err)
	assert.Len(t, resp.Data, 2)
	assert.EqualValues(t, 3, resp.Total)
	assert.Equal(t, 2, resp.TotalPages)
}
