package service

import (
	"context"
	"errors"

	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"

	"gorm.io/gorm"
)

type ReviewService interface {
	List(ctx context.Context, titleID int64, page, pageSize int) (*dto.PaginatedReviewResponse, error)
	Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error)
	Create(ctx context.Context, titleID int64, authorID string, in dto.CreateReviewDTO) (*dto.ReviewResponse, error)
	Update(ctx context.Context, titleID, reviewID int64, actorID string, in dto.UpdateReviewDTO) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, titleID, reviewID int64, actorID string) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  *repository.TitleRepo
	userRepo   repository.UserRepository
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	titleRepo *repository.TitleRepo,
	userRepo repository.UserRepository,
) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		titleRepo:  titleRepo,
		userRepo:   userRepo,
	}
}

func (s *reviewService) List(ctx context.Context, titleID int64, page, pageSize int) (*dto.PaginatedReviewResponse, error) {
	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}

	reviews, total, err := s.reviewRepo.GetByTitle(titleID, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, *dto.FromModelToReviewResponse(&reviews[i]))
	}
	resp := dto.NewPaginatedReviewResponse(responses, page, pageSize, total)
	return &resp, nil
}

func (s *reviewService) Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error) {
	review, err := s.getOwnedReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

// Create submits a new review. The acting user and the target title both come
// from outside the body (identity and route respectively) and must exist; a
// second review by the same author for the same title is rejected. The
// pre-check is racy under concurrent submissions - the unique index on
// (title_id, author_id) is the authoritative guard.
func (s *reviewService) Create(ctx context.Context, titleID int64, authorID string, in dto.CreateReviewDTO) (*dto.ReviewResponse, error) {
	author, err := s.userRepo.FindByID(authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}

	if err := validateScore(in.Score); err != nil {
		return nil, err
	}

	if _, err := s.reviewRepo.GetByTitleAndAuthor(titleID, authorID); err == nil {
		return nil, ErrDuplicateReview
	}

	review := &models.Review{
		TitleID:  titleID,
		AuthorID: authorID,
		Text:     in.Text,
		Score:    in.Score,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}
	review.Author = *author

	return dto.FromModelToReviewResponse(review), nil
}

// Update edits an existing review. The one-review-per-title check is skipped
// here: re-validating a review against itself would always fail.
func (s *reviewService) Update(ctx context.Context, titleID, reviewID int64, actorID string, in dto.UpdateReviewDTO) (*dto.ReviewResponse, error) {
	review, err := s.getOwnedReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := s.checkActor(review.AuthorID, actorID); err != nil {
		return nil, err
	}

	if in.Text != nil {
		review.Text = *in.Text
	}
	if in.Score != nil {
		if err := validateScore(*in.Score); err != nil {
			return nil, err
		}
		review.Score = *in.Score
	}

	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) Delete(ctx context.Context, titleID, reviewID int64, actorID string) error {
	review, err := s.getOwnedReview(ctx, titleID, reviewID)
	if err != nil {
		return err
	}
	if err := s.checkActor(review.AuthorID, actorID); err != nil {
		return err
	}
	return s.reviewRepo.Delete(reviewID)
}

// getOwnedReview loads a review and verifies it belongs to the routed title.
func (s *reviewService) getOwnedReview(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if review.TitleID != titleID {
		return nil, ErrReviewNotFound
	}
	return review, nil
}

// checkActor allows the author plus moderators and admins.
func (s *reviewService) checkActor(authorID, actorID string) error {
	if authorID == actorID {
		return nil
	}
	actor, err := s.userRepo.FindByID(actorID)
	if err != nil {
		return ErrForbidden
	}
	if actor.IsAdmin() || actor.IsModerator() {
		return nil
	}
	return ErrForbidden
}

func validateScore(score int) error {
	if score < 1 || score > 10 {
		return ErrScoreOutOfRange
	}
	return nil
}
