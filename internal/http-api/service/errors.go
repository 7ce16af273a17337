package service

import "errors"

// Service-level sentinel errors. Handlers translate these into HTTP statuses;
// repositories never return them directly.
var (
	// Uniqueness violations
	ErrUsernameTaken = errors.New("username already in use")
	ErrEmailTaken    = errors.New("email already in use")
	ErrSlugTaken     = errors.New("slug already in use")
	ErrTitleExists   = errors.New("a title with this name and year already exists")

	// Range violations
	ErrScoreOutOfRange = errors.New("score must be between 1 and 10")
	ErrYearInFuture    = errors.New("year must not be in the future")

	// Reserved values
	ErrReservedUsername = errors.New("this username is reserved")

	// Reference resolution failures
	ErrCategoryNotFound = errors.New("category not found")
	ErrGenreNotFound    = errors.New("genre not found")
	ErrTitleNotFound    = errors.New("title not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrReviewNotFound   = errors.New("review not found")
	ErrCommentNotFound  = errors.New("comment not found")

	// Duplicate submission
	ErrDuplicateReview = errors.New("a user may submit only one review per title")

	// Authentication / authorization
	ErrInvalidCode  = errors.New("invalid confirmation code")
	ErrInvalidToken = errors.New("invalid token")
	ErrForbidden    = errors.New("insufficient permissions")
)
