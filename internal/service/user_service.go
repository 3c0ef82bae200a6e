package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/crowthreads/storefront/internal/apperror"
	"github.com/crowthreads/storefront/internal/config"
	"github.com/crowthreads/storefront/internal/domain"
	"github.com/crowthreads/storefront/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 10

	// VerificationCodeTTL is how long an emailed verification code stays valid
	VerificationCodeTTL = 10 * time.Minute
)

// UserService defines the interface for account business logic
type UserService interface {
	Register(ctx context.Context, email, username, password string) (*domain.User, error)
	Verify(ctx context.Context, email, code string) error
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, user *domain.User, err error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken string, err error)
	ValidateToken(tokenString string) (*Claims, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// Claims represents the JWT claims
type Claims struct {
	UserID   uuid.UUID `json:"user_id"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
	jwt.RegisteredClaims
}

type userService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	codeSender       CodeSender
	jwtCfg           config.JWTConfig
}

// NewUserService creates a new instance of UserService
func NewUserService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	codeSender CodeSender,
	jwtCfg config.JWTConfig,
) UserService {
	return &userService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		codeSender:       codeSender,
		jwtCfg:           jwtCfg,
	}
}

// Register creates an unverified account and emails a verification code.
// Re-registering an unverified email replaces the password and re-issues
// the code; a verified email is a conflict.
func (s *userService) Register(ctx context.Context, email, username, password string) (*domain.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperror.Wrap(apperror.Unexpected, err, "failed to check existing user")
	}

	if existing != nil && existing.IsVerified {
		return nil, apperror.New(apperror.Conflict, "this email is already registered and verified")
	}

	hashedPassword, err := s.hashPassword(password)
	if err != nil {
		return nil, apperror.Wrap(apperror.Unexpected, err, "failed to hash password")
	}

	code := newVerificationCode()
	expires := time.Now().Add(VerificationCodeTTL)

	var user *domain.User
	if existing != nil {
		existing.PasswordHash = hashedPassword
		existing.VerificationCode = code
		existing.VerificationExpires = expires
		existing.UpdatedAt = time.Now()
		if err := s.userRepo.Update(ctx, existing); err != nil {
			return nil, apperror.Wrap(apperror.Unexpected, err, "failed to update user")
		}
		user = existing
	} else {
		user = &domain.User{
			ID:                  uuid.New(),
			Email:               email,
			Username:            username,
			PasswordHash:        hashedPassword,
			Role:                "user",
			VerificationCode:    code,
			VerificationExpires: expires,
			CreatedAt:           time.Now(),
			UpdatedAt:           time.Now(),
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrUserAlreadyExists) {
				return nil, apperror.New(apperror.Conflict, "this email is already registered and verified")
			}
			return nil, apperror.Wrap(apperror.Unexpected, err, "failed to create user")
		}
	}

	if err := s.codeSender.SendVerificationCode(ctx, user.Email, code); err != nil {
		// The account was saved; the user can retry verification later.
		return nil, apperror.Wrap(apperror.Unexpected, err, "failed to send verification email")
	}

	return user, nil
}

// Verify confirms the emailed code and marks the account verified
func (s *userService) Verify(ctx context.Context, email, code string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperror.New(apperror.NotFound, "user not found, please register first")
		}
		return apperror.Wrap(apperror.Unexpected, err, "failed to find user")
	}

	if user.VerificationCode == "" || user.VerificationCode != code {
		return apperror.New(apperror.Validation, "invalid verification code")
	}

	if time.Now().After(user.VerificationExpires) {
		return apperror.New(apperror.Validation, "verification code has expired, please register again")
	}

	user.IsVerified = true
	user.VerificationCode = ""
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return apperror.Wrap(apperror.Unexpected, err, "failed to update user")
	}

	return nil
}

// Login authenticates a user and returns JWT tokens
func (s *userService) Login(ctx context.Context, email, password string) (accessToken, refreshToken string, user *domain.User, err error) {
	user, err = s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", "", nil, apperror.New(apperror.Unauthorized, "invalid credentials")
		}
		return "", "", nil, apperror.Wrap(apperror.Unexpected, err, "failed to find user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", nil, apperror.New(apperror.Unauthorized, "invalid credentials")
	}

	accessToken, err = s.generateAccessToken(user)
	if err != nil {
		return "", "", nil, apperror.Wrap(apperror.Unexpected, err, "failed to generate access token")
	}

	refreshToken, err = s.generateRefreshToken(ctx, user)
	if err != nil {
		return "", "", nil, apperror.Wrap(apperror.Unexpected, err, "failed to generate refresh token")
	}

	return accessToken, refreshToken, user, nil
}

// Logout invalidates the refresh token
func (s *userService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.refreshTokenRepo.Revoke(ctx, refreshToken); err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			// Already logged out
			return nil
		}
		return apperror.Wrap(apperror.Unexpected, err, "failed to revoke refresh token")
	}
	return nil
}

// RefreshToken generates a new access token using a valid refresh token
func (s *userService) RefreshToken(ctx context.Context, refreshTokenString string) (string, error) {
	refreshToken, err := s.refreshTokenRepo.FindByToken(ctx, refreshTokenString)
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) || errors.Is(err, repository.ErrRefreshTokenRevoked) {
			return "", apperror.New(apperror.Unauthorized, "invalid refresh token")
		}
		return "", apperror.Wrap(apperror.Unexpected, err, "failed to find refresh token")
	}

	if time.Now().After(refreshToken.ExpiresAt) {
		return "", apperror.New(apperror.Unauthorized, "refresh token expired")
	}

	user, err := s.userRepo.FindByID(ctx, refreshToken.UserID)
	if err != nil {
		return "", apperror.Wrap(apperror.Unexpected, err, "failed to find user")
	}

	newAccessToken, err := s.generateAccessToken(user)
	if err != nil {
		return "", apperror.Wrap(apperror.Unexpected, err, "failed to generate access token")
	}

	return newAccessToken, nil
}

// ValidateToken validates a JWT token and returns the claims
func (s *userService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtCfg.Secret), nil
	})

	if err != nil {
		return nil, apperror.Wrap(apperror.Unauthorized, err, "invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperror.New(apperror.Unauthorized, "invalid token")
	}

	return claims, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.New(apperror.NotFound, "user not found")
		}
		return nil, apperror.Wrap(apperror.Unexpected, err, "failed to get user")
	}
	return user, nil
}

func (s *userService) hashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *userService) generateAccessToken(user *domain.User) (string, error) {
	expirationTime := time.Now().Add(time.Duration(s.jwtCfg.AccessExpiry) * time.Minute)
	claims := &Claims{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtCfg.Secret))
}

func (s *userService) generateRefreshToken(ctx context.Context, user *domain.User) (string, error) {
	tokenString := uuid.New().String()

	refreshToken := &domain.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     tokenString,
		ExpiresAt: time.Now().Add(time.Duration(s.jwtCfg.RefreshExpiry) * 24 * time.Hour),
		CreatedAt: time.Now(),
		Revoked:   false,
	}

	if err := s.refreshTokenRepo.Create(ctx, refreshToken); err != nil {
		return "", err
	}

	return tokenString, nil
}

func newVerificationCode() string {
	return fmt.Sprintf("%06d", rand.IntN(1000000))
}
