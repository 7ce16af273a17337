package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"reviewhub/internal/http-api/service"
)

func testCtx(t *testing.T, target string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func TestRespondError_Mapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{service.ErrUsernameTaken, http.StatusConflict},
		{service.ErrEmailTaken, http.StatusConflict},
		{service.ErrSlugTaken, http.StatusConflict},
		{service.ErrTitleExists, http.StatusConflict},
		{service.ErrScoreOutOfRange, http.StatusBadRequest},
		{service.ErrYearInFuture, http.StatusBadRequest},
		{service.ErrReservedUsername, http.StatusBadRequest},
		{service.ErrDuplicateReview, http.StatusBadRequest},
		{service.ErrInvalidCode, http.StatusBadRequest},
		{service.ErrTitleNotFound, http.StatusNotFound},
		{service.ErrReviewNotFound, http.StatusNotFound},
		{service.ErrCommentNotFound, http.StatusNotFound},
		{service.ErrUserNotFound, http.StatusNotFound},
		{service.ErrForbidden, http.StatusForbidden},
		{service.ErrInvalidToken, http.StatusUnauthorized},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		c, w := testCtx(t, "/")
		respondError(c, tc.err)
		assert.Equal(t, tc.code, w.Code, "error %v", tc.err)
	}
}

func TestRespondWriteError_SlugResolutionIsBadRequest(t *testing.T) {
	c, w := testCtx(t, "/")
	respondWriteError(c, service.ErrGenreNotFound)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = testCtx(t, "/")
	respondWriteError(c, service.ErrCategoryNotFound)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Everything else keeps the shared mapping
	c, w = testCtx(t, "/")
	respondWriteError(c, service.ErrTitleExists)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPagination_Defaults(t *testing.T) {
	c, _ := testCtx(t, "/?page=3&page_size=50")
	page, size := pagination(c)
	assert.Equal(t, 3, page)
	assert.Equal(t, 50, size)

	c, _ = testCtx(t, "/")
	page, size = pagination(c)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, size)

	c, _ = testCtx(t, "/?page=-2&page_size=9999")
	page, size = pagination(c)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, size)

	c, _ = testCtx(t, "/?page=abc&page_size=xyz")
	page, size = pagination(c)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, size)
}

func TestParseIDParam(t *testing.T) {
	c, _ := testCtx(t, "/")
	c.Params = gin.Params{{Key: "title_id", Value: "42"}}
	id, ok := parseIDParam(c, "title_id")
	assert.True(t, ok)
	assert.EqualValues(t, 42, id)

	c, w := testCtx(t, "/")
	c.Params = gin.Params{{Key: "title_id", Value: "abc"}}
	_, ok = parseIDParam(c, "title_id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
