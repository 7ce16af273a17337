package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/repository"
)

func TestCategoryCreate_DuplicateSlugRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewCategoryService(repository.NewCategoryRepo(db))

	_, err := svc.Create(context.Background(), dto.CreateCategoryDTO{Name: "Movies", Slug: "movies"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), dto.CreateCategoryDTO{Name: "Also Movies", Slug: "movies"})
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestCategoryDelete_UnsetsTitleCategory(t *testing.T) {
	db := newTestDB(t)
	g := seedGenre(t, db, "Drama", "drama")
	c := seedCategory(t, db, "Movies", "movies")
	title := seedTitle(t, db, "Alpha", 1999, *g)
	require.NoError(t, db.Model(title).Update("category_id", c.ID).Error)

	svc := NewCategoryService(repository.NewCategoryRepo(db))
	require.NoError(t, svc.DeleteBySlug(context.Background(), "movies"))

	// The title survives with its category unset
	titles := NewTitleService(
		repository.NewTitleRepo(db),
		repository.NewCategoryRepo(db),
		repository.NewGenreRepo(db),
		repository.NewReviewRepository(db),
	)
	resp, err := titles.Get(context.Background(), title.ID)
	require.NoError(t, err)
	assert.Nil(t, resp.Category)
}

func TestCategoryDelete_Unknown(t *testing.T) {
	db := newTestDB(t)
	svc := NewCategoryService(repository.NewCategoryRepo(db))

	err := svc.DeleteBySlug(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCategoryList_OrderedByName(t *testing.T) {
	db := newTestDB(t)
	seedCategory(t, db, "Zeta", "zeta")
	seedCategory(t, db, "Alpha", "alpha")
	svc := NewCategoryService(repository.NewCategoryRepo(db))

	resp, err := svc.List(context.Background(), 1, 20)
	require.NoError(t, err)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "Alpha", resp.Data[0].Name)
	assert.Equal(t, "Zeta", resp.Data[1].Name)
}

func TestGenreCreate_DuplicateSlugRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewGenreService(repository.NewGenreRepo(db))

	_, err := svc.Create(context.Background(), dto.CreateGenreDTO{Name: "Drama", Slug: "drama"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), dto.CreateGenreDTO{Name: "More Drama", Slug: "drama"})
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestGenreDelete_Unknown(t *testing.T) {
	db := newTestDB(t)
	svc := NewGenreService(repository.NewGenreRepo(db))

	err := svc.DeleteBySlug(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrGenreNotFound)
}
