package services

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"peerlink_backend/internal/auth"
	"peerlink_backend/internal/email"
	"peerlink_backend/internal/logger"
	"peerlink_backend/internal/models"
	"peerlink_backend/internal/repositories"
	"peerlink_backend/internal/services/dto"
	"peerlink_backend/pkg/apperrors"
)

type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	VerifyEmail(ctx context.Context, token string) error
}

type authService struct {
	userRepo      repositories.UserRepository
	emailProvider email.Provider
}

func NewAuthService(userRepo repositories.UserRepository, emailProvider email.Provider) AuthService {
	return &authService{
		userRepo:      userRepo,
		emailProvider: emailProvider,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ValidationError(map[string]string{"password": err.Error()})
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:             req.Email,
		PasswordHash:      hash,
		Name:              req.Name,
		VerificationToken: uuid.NewString(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrAlreadyExists(err, "auth", "A user with this email already exists")
		}
		return nil, apperrors.InternalError(err)
	}

	// Verification mail is best effort; registration already succeeded.
	if err := s.emailProvider.SendVerification(user.Email, user.Name, user.VerificationToken); err != nil {
		logger.CtxWarn(ctx, "failed to send verification email", "email", user.Email, "error", err)
	}

	return s.buildAuthResponse(user)
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, invalidCredentials()
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, invalidCredentials()
	}

	return s.buildAuthResponse(user)
}

func (s *authService) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.userRepo.FindByVerificationToken(ctx, token)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.New(apperrors.CodeInvalidToken, "auth", "Unknown verification token", http.StatusBadRequest)
		}
		return apperrors.InternalError(err)
	}

	if err := s.userRepo.VerifyUser(ctx, user.ID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *authService) buildAuthResponse(user *models.User) (*dto.AuthResponse, error) {
	token, err := auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{
		AccessToken: token,
		User: &dto.ProfileResponse{
			ID:         user.ID,
			Email:      user.Email,
			Name:       user.Name,
			Headline:   user.Headline,
			PictureURL: user.PictureURL,
			Interests:  user.Interests,
			IsVerified: user.IsVerified,
			JoinedAt:   user.CreatedAt,
		},
	}, nil
}

func invalidCredentials() *apperrors.AppError {
	return apperrors.New(apperrors.CodeInvalidCredentials, "auth", "Invalid email or password", http.StatusUnauthorized)
}
