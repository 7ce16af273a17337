package service

import (
	"context"
	"errors"
	"strings"

	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"

	"gorm.io/gorm"
)

type CategoryService interface {
	List(ctx context.Context, page, pageSize int) (*dto.PaginatedCategoryResponse, error)
	Create(ctx context.Context, in dto.CreateCategoryDTO) (*dto.CategoryResponse, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type categoryService struct {
	repo *repository.CategoryRepo
}

func NewCategoryService(r *repository.CategoryRepo) CategoryService {
	return &categoryService{repo: r}
}

func (s *categoryService) List(ctx context.Context, page, pageSize int) (*dto.PaginatedCategoryResponse, error) {
	list, total, err := s.repo.GetAll(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		responses = append(responses, dto.CategoryFromModel(c))
	}
	resp := dto.NewPaginatedCategoryResponse(responses, page, pageSize, total)
	return &resp, nil
}

func (s *categoryService) Create(ctx context.Context, in dto.CreateCategoryDTO) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	slug := strings.TrimSpace(in.Slug)

	if _, err := s.repo.GetBySlug(ctx, slug); err == nil {
		return nil, ErrSlugTaken
	}

	c := models.Category{Name: name, Slug: slug}
	if err := s.repo.Create(ctx, &c); err != nil {
		return nil, err
	}
	resp := dto.CategoryFromModel(c)
	return &resp, nil
}

func (s *categoryService) DeleteBySlug(ctx context.Context, slug string) error {
	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}
