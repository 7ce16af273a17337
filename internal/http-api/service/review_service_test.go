package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/repository"

	"gorm.io/gorm"
)

func newReviewService(db *gorm.DB) ReviewService {
	return NewReviewService(
		repository.NewReviewRepository(db),
		repository.NewTitleRepo(db),
		repository.NewUserRepository(db),
	)
}

func TestReviewCreate_Success(t *testing.T) {
	db := newTestDB(t)
	g := seedGenre(t, db, "Drama", "drama")
	title := seedTitle(t, db, "Stalker", 1979, *g)
	u := seedUser(t, db, "alice", "user")
	svc := newReviewService(db)

	review, err := svc.Create(context.Background(), title.ID, u.ID, dto.CreateReviewDTO{
		Text:  "slow but rewarding",
		Score: 9,
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", review.Author)
	assert.Equal(t, 9, review.Score)
	assert.Equal(t, title.ID, review.TitleID)
	assert.False(t, review.PubDate.IsZero())
}

func TestReviewCreate_ScoreBounds(t *testing.T) {
	db := newTestDB(t)
	g := seedGenre(t, db, "Drama", "drama")
	title := seedTitle(t, db, "Stalker", 1979, *g)
	u := seedUser(t, db, "alice", "user")
	svc := newReviewService(db)

	for _, score := range []int{0, 11, -1} {
		_, err := svc.Create(context.Background(), title.ID, u.ID, dto.CreateReviewDTO{
			Text:  "x",
			Score: score,
		})
		assert.ErrorIs(t, err, ErrScoreOutOfRange, "score %d", score)
	}

	for _, score := range []int{1, 10} {
		u2 := seedUser(t, db, fmt.Sprintf("user%d", score), "user")
		_, err := svc.Create(context.Background(), title.ID, u2.ID, dto.CreateReviewDTO{
			Text:  "x",
			Score: score,
		})
		assert.NoError(t, err, "score %d", score)
	}
}

func TestReviewCreate_OnePerUserPerTitle(t *testing.T) {
	db := newTestDB(t)
	g := seedGenre(t, db, "Drama", "drama")
	title := seedTitle(t, db, "Stalker", 1979, *g)
	other := seedTitle(t, db, "Mirror", 1975, *g)
	u := seedUser(t, db, "alice", "user")
	svc := newReviewService(db)

	_, err := svc.Create(context.Background(), title.ID, u.ID, dto.CreateReviewDTO{Text: "first", Score: 7})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), title.ID, u.ID, dto.CreateReviewDTO{Text: "second", Score: 8})
	assert.ErrorIs(t, err, ErrDuplicateReview)

	// The same user can still review a different title
	_, err = svc.Create(context.Background(), other.ID, u.ID, dto.CreateReviewDTO{Text: "ok", Score: 8})
	assert.NoError(t, err)
}

func TestReviewUpdate_SamePairAllowed(t *testing.T) {
	db := newTestDB(t)
	g := seedGenre(t, db, "Drama", "drama")
	title := seedTitle(t, db, "Stalker", 1979, *g)
	u := seedUser(t, db, "alice", "user")
	svc := newReviewService(db)

	created, err := svc.Create(context.Background(), title.ID, u.ID, dto.CreateReviewDTO{Text: "v1", Score: 5})
	require.NoError(t, err)

	// Editing an existing review must not trip the one-per-title rule
	updated, err := svc.Update(context.Background(), title.ID, created.ID, u.ID, dto.UpdateReviewDTO{
		Text:  strptr("v2"),
		Score: intptr(6),
	})
	require.NoError(t, err)
	assert.Equal(t, "v2", updated.Text)
	assert.Equal(t, 6, updated.Score)
	assert.WithinDuration(t, created.PubDate, updated.PubDate, 0)
}

func TestReviewUpdate_ScoreValidated(t *testing.T) {
	db := newTestDB(t)
	g := seedGenre(t, db, "Drama", "drama")
	title := seedTitle(t, db, "Stalker", 1979, *g)
	u := seedUser(t, db, "alice", "user")
	svc := newReviewService(db)

	created, err := svc.Create(context.Background(), title.ID, u.ID, dto.CreateReviewDTO{Text: "v1", Score: 5})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), title.ID, created.ID, u.ID, dto.UpdateReviewDTO{Score: intptr(11)})
	assert.ErrorIs(t, err, ErrScoreOutOfRange)
}

func TestReviewUpdate_ActorPolicy(t *testing.T) {
	db := newTestDB(t)
	g := seedGenre(t, db, "Drama", "drama")
	title := seedTitle(t, db, "Stalker", 1979, *g)
	author := seedUser(t, db, "alice", "user")
	stranger := seedUser(t, db, "bob", "user")
	mod := seedUser(t, db, "mina", "moderator")
	svc := newReviewService(db)

	created, err := svc.Create(context.Background(), title.ID, author.ID, dto.CreateReviewDTO{Text: "v1", Score: 5})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), title.ID, created.ID, stranger.ID, dto.UpdateReviewDTO{Text: strptr("hijack")})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Update(context.Background(), title.ID, created.ID, mod.ID, dto.UpdateReviewDTO{Text: strptr("moderated")})
	assert.NoError(t, err)
}

func TestReviewDelete_CascadesComments(t *testing.T) {
	db := newTestDB(t)
	g := seedGenre(t, db, "Drama", "drama")
	title := seedTitle(t, db, "Stalker", 1979, *g)
	author := seedUser(t, db, "alice", "user")
	svc := newReviewService(db)
	comments := NewCommentService(
		repository.NewCommentRepo(db),
		repository.NewReviewRepository(db),
		repository.NewUserRepository(db),
	)

	created, err := svc.Create(context.Background(), title.ID, author.ID, dto.CreateReviewDTO{Text: "v1", Score: 5})
	require.NoError(t, err)
	_, err = comments.Create(context.Background(), title.ID, created.ID, author.ID, dto.CreateCommentDTO{Text: "note"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), title.ID, created.ID, author.ID))

	var count int64
	db.Table("comments").Where("review_id = ?", created.ID).Count(&count)
	assert.Zero(t, count)
}

func TestReviewGet_WrongTitleIsNotFound(t *testing.T) {
	db := newTestDB(t)
	g := seedGenre(t, db, "Drama", "drama")
	title := seedTitle(t, db, "Stalker", 1979, *g)
	other := seedTitle(t, db, "Mirror", 1975, *g)
	u := seedUser(t, db, "alice", "user")
	svc := newReviewService(db)

	created, err := svc.Create(context.Background(), title.ID, u.ID, dto.CreateReviewDTO{Text: "v1", Score: 5})
	require.NoError(t, err)

	// Route says one title, review belongs to another
	_, err = svc.Get(context.Background(), other.ID, created.ID)
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestReviewList_UnknownTitle(t *testing.T) {
	db := newTestDB(t)
	svc := newReviewService(db)

	_, err := svc.List(context.Background(), 9999, 1, 20)
	assert.ErrorIs(t, err, ErrTitleNotFound)
}
