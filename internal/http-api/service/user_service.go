package service

import (
	"errors"

	"reviewhub/internal/config"
	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"

	"gorm.io/gorm"
)

type UserService interface {
	List(page, pageSize int) (*dto.PaginatedUserResponse, error)
	Create(in dto.CreateUserDTO) (*dto.UserResponse, error)
	GetByUsername(username string) (*dto.UserResponse, error)
	UpdateByUsername(username string, in dto.UpdateUserDTO) (*dto.UserResponse, error)
	DeleteByUsername(username string) error
	GetProfile(userID string) (*dto.UserResponse, error)
	UpdateProfile(userID string, in dto.UpdateProfileDTO) (*dto.UserResponse, error)
}

type userService struct {
	userRepo     repository.UserRepository
	reservedName string
}

func NewUserService(userRepo repository.UserRepository, cfg *config.Config) UserService {
	return &userService{
		userRepo:     userRepo,
		reservedName: cfg.ReservedUsername,
	}
}

func (s *userService) List(page, pageSize int) (*dto.PaginatedUserResponse, error) {
	users, total, err := s.userRepo.GetAll(page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *dto.FromModelToUserResponse(&users[i]))
	}
	resp := dto.NewPaginatedUserResponse(responses, page, pageSize, total)
	return &resp, nil
}

// Create is the admin projection: role is writable.
func (s *userService) Create(in dto.CreateUserDTO) (*dto.UserResponse, error) {
	if err := validateUsername(in.Username, s.reservedName); err != nil {
		return nil, err
	}
	if err := s.checkUnique(in.Username, in.Email, ""); err != nil {
		return nil, err
	}

	user := &models.User{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Bio:       in.Bio,
		Role:      in.Role,
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) GetByUsername(username string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) UpdateByUsername(username string, in dto.UpdateUserDTO) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.applyProfileChanges(user, in.Username, in.Email, in.FirstName, in.LastName, in.Bio); err != nil {
		return nil, err
	}
	if in.Role != nil {
		user.Role = *in.Role
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) DeleteByUsername(username string) error {
	if err := s.userRepo.Delete(username); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *userService) GetProfile(userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

// UpdateProfile is the self-edit projection: the role can never change here,
// the DTO simply has no role field.
func (s *userService) UpdateProfile(userID string, in dto.UpdateProfileDTO) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.applyProfileChanges(user, in.Username, in.Email, in.FirstName, in.LastName, in.Bio); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

// applyProfileChanges applies the fields shared by both update projections,
// revalidating username and uniqueness when they change.
func (s *userService) applyProfileChanges(user *models.User, username, email, firstName, lastName, bio *string) error {
	newUsername := user.Username
	newEmail := user.Email
	if username != nil {
		newUsername = *username
	}
	if email != nil {
		newEmail = *email
	}

	if newUsername != user.Username {
		if err := validateUsername(newUsername, s.reservedName); err != nil {
			return err
		}
	}
	if newUsername != user.Username || newEmail != user.Email {
		if err := s.checkUnique(newUsername, newEmail, user.ID); err != nil {
			return err
		}
	}

	user.Username = newUsername
	user.Email = newEmail
	if firstName != nil {
		user.FirstName = *firstName
	}
	if lastName != nil {
		user.LastName = *lastName
	}
	if bio != nil {
		user.Bio = bio
	}
	return nil
}

// checkUnique pre-checks username/email uniqueness, ignoring the user with
// selfID (so an update does not collide with itself). The database unique
// indexes remain the authoritative guard.
func (s *userService) checkUnique(username, email, selfID string) error {
	if existing, err := s.userRepo.FindByUsername(username); err == nil && existing.ID != selfID {
		return ErrUsernameTaken
	}
	if existing, err := s.userRepo.FindByEmail(email); err == nil && existing.ID != selfID {
		return ErrEmailTaken
	}
	return nil
}
