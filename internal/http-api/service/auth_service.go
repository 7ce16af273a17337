package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"reviewhub/internal/auth"
	"reviewhub/internal/config"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Claims is the JWT payload carried by access tokens.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Signup(ctx context.Context, username, email string) (*models.User, error)
	IssueToken(ctx context.Context, username, code string) (token string, expiresIn int64, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo       repository.UserRepository
	codes          *repository.ConfirmationStore
	logger         *slog.Logger
	jwtSecret      string
	accessTokenTTL time.Duration
	reservedName   string
}

func NewAuthService(
	userRepo repository.UserRepository,
	codes *repository.ConfirmationStore,
	cfg *config.Config,
	logger *slog.Logger,
) AuthService {
	return &authService{
		userRepo:       userRepo,
		codes:          codes,
		logger:         logger,
		jwtSecret:      cfg.JWTSecret,
		accessTokenTTL: cfg.AccessTokenTTL,
		reservedName:   cfg.ReservedUsername,
	}
}

// Signup registers a user (or re-issues a code for an existing username+email
// pair) and stores a fresh confirmation code: bcrypt hash on the user row,
// plaintext in redis with a TTL. Email delivery is handled outside this
// service; the issued code is logged for the delivery pipeline.
func (s *authService) Signup(ctx context.Context, username, email string) (*models.User, error) {
	if err := validateUsername(username, s.reservedName); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByUsername(username)
	switch {
	case err == nil:
		// Existing user may request a new code, but only with their own email
		if user.Email != email {
			return nil, ErrUsernameTaken
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if existing, err := s.userRepo.FindByEmail(email); err == nil && existing != nil {
			return nil, ErrEmailTaken
		}
		user = &models.User{
			Username: username,
			Email:    email,
			Role:     models.RoleUser,
		}
		if err := s.userRepo.Create(user); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	code := auth.NewConfirmationCode()
	hash, err := auth.HashCode(code)
	if err != nil {
		return nil, err
	}
	user.ConfirmationCode = hash
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	// Redis fast path is best effort; the bcrypt hash is the durable copy
	if err := s.codes.Save(ctx, username, code); err != nil {
		s.logger.Warn("failed to cache confirmation code", "username", username, "error", err)
	}

	s.logger.Info("confirmation code issued", "username", username, "email", email, "code", code)
	return user, nil
}

// IssueToken exchanges a confirmation code for a signed JWT. The redis copy
// is checked first; when it is gone (expired or redis restarted) we fall back
// to the bcrypt hash on the user row.
func (s *authService) IssueToken(ctx context.Context, username, code string) (string, int64, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", 0, ErrUserNotFound
		}
		return "", 0, err
	}

	cached, err := s.codes.Get(ctx, username)
	if err != nil && !errors.Is(err, redis.Nil) {
		s.logger.Warn("confirmation code cache lookup failed", "username", username, "error", err)
	}

	valid := err == nil && cached == code
	if !valid {
		if user.ConfirmationCode == "" {
			return "", 0, ErrInvalidCode
		}
		if verr := auth.VerifyCode(user.ConfirmationCode, code); verr != nil {
			return "", 0, ErrInvalidCode
		}
	}

	// Single use: drop the cached copy and invalidate the durable hash
	if err := s.codes.Delete(ctx, username); err != nil {
		s.logger.Warn("failed to evict confirmation code", "username", username, "error", err)
	}
	user.ConfirmationCode = ""
	if err := s.userRepo.Update(user); err != nil {
		return "", 0, err
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return "", 0, err
	}
	return token, int64(s.accessTokenTTL.Seconds()), nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// validateUsername rejects the reserved self-reference sentinel. The sentinel
// comes from configuration (VALIDATE_NAME) and is compared case-insensitively.
func validateUsername(value, reserved string) error {
	if strings.EqualFold(value, reserved) {
		return ErrReservedUsername
	}
	return nil
}
