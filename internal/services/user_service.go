package services

import (
	"context"
	"io"
	"net/http"

	"peerlink_backend/internal/models"
	"peerlink_backend/internal/repositories"
	"peerlink_backend/internal/services/dto"
	"peerlink_backend/internal/storage"
	"peerlink_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

const profilePictureKeyPrefix = "profile-pictures/"

var allowedPictureTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

type UserService interface {
	GetProfile(ctx context.Context, targetUserID string) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)

	// UploadPicture stores the image and, only after a confirmed store,
	// updates the profile picture URL.
	UploadPicture(ctx context.Context, userID string, reader io.Reader, contentType string) (*dto.UploadPictureResponse, error)

	SearchUsers(ctx context.Context, req *dto.SearchUsersRequest) (*dto.SearchUsersResponse, error)
	LinkSocialAccount(ctx context.Context, targetUserID string, req *dto.LinkSocialAccountRequest) (*dto.SocialAccountResponse, error)
}

type userService struct {
	userRepo   repositories.UserRepository
	reviewRepo repositories.ReviewRepository
	socialRepo repositories.SocialAccountRepository
	storage    storage.Storage
}

func NewUserService(
	userRepo repositories.UserRepository,
	reviewRepo repositories.ReviewRepository,
	socialRepo repositories.SocialAccountRepository,
	storageInstance storage.Storage,
) UserService {
	return &userService{
		userRepo:   userRepo,
		reviewRepo: reviewRepo,
		socialRepo: socialRepo,
		storage:    storageInstance,
	}
}

func (s *userService) GetProfile(ctx context.Context, targetUserID string) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(ctx, targetUserID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err, "users", "User not found")
		}
		return nil, apperrors.InternalError(err)
	}

	return s.buildProfileResponse(ctx, user)
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err, "users", "User not found")
		}
		return nil, apperrors.InternalError(err)
	}

	// Only name, headline and interests are mutable.
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Headline != nil {
		user.Headline = *req.Headline
	}
	if req.Interests != nil {
		user.Interests = *req.Interests
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.buildProfileResponse(ctx, user)
}

func (s *userService) UploadPicture(ctx context.Context, userID string, reader io.Reader, contentType string) (*dto.UploadPictureResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err, "users", "User not found")
		}
		return nil, apperrors.InternalError(err)
	}

	if !allowedPictureTypes[contentType] {
		return nil, apperrors.ErrInvalidFileType
	}

	key := profilePictureKeyPrefix + user.ID

	// Store first; the database row is only touched after the provider
	// confirmed the write, so a storage failure leaves no partial state.
	if err := s.storage.Save(ctx, key, reader, contentType); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeExternalServiceError, "uploads",
			"Failed to store profile picture", http.StatusInternalServerError)
	}

	url, err := s.storage.GetURL(ctx, key)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.userRepo.UpdatePictureURL(ctx, user.ID, url); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.UploadPictureResponse{PictureURL: url}, nil
}

func (s *userService) SearchUsers(ctx context.Context, req *dto.SearchUsersRequest) (*dto.SearchUsersResponse, error) {
	if req.Query == "" {
		return nil, apperrors.ErrMissingSearchTerm
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	users, total, err := s.userRepo.Search(ctx, req.Query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	summaries := make([]*dto.UserSummary, 0, len(users))
	for i := range users {
		user := &users[i]

		ratingCount, err := s.reviewRepo.CountByRecipient(ctx, user.ID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		connectionCount, err := s.socialRepo.CountByUser(ctx, user.ID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}

		summaries = append(summaries, &dto.UserSummary{
			ID:              user.ID,
			Name:            user.Name,
			Email:           user.Email,
			Headline:        user.Headline,
			PictureURL:      user.PictureURL,
			RatingCount:     ratingCount,
			ConnectionCount: connectionCount,
		})
	}

	return &dto.SearchUsersResponse{
		Users:      summaries,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: calculateTotalPages(total, pageSize),
	}, nil
}

func (s *userService) LinkSocialAccount(ctx context.Context, targetUserID string, req *dto.LinkSocialAccountRequest) (*dto.SocialAccountResponse, error) {
	exists, err := s.userRepo.Exists(ctx, targetUserID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !exists {
		return nil, apperrors.ErrNotFound(repositories.ErrUserNotFound, "social_accounts", "User not found")
	}

	// The external account's email must not belong to a different user,
	// neither through an existing link nor as a registered address.
	if existing, err := s.socialRepo.FindByEmail(ctx, req.Email); err == nil {
		if existing.UserID != targetUserID {
			return nil, apperrors.ErrSocialAccountTaken
		}
	} else if !apperrors.Is(err, repositories.ErrSocialAccountNotFound) {
		return nil, apperrors.InternalError(err)
	}

	if owner, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		if owner.ID != targetUserID {
			return nil, apperrors.ErrSocialAccountTaken
		}
	} else if !apperrors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperrors.InternalError(err)
	}

	account := &models.SocialAccount{
		UserID:     targetUserID,
		Provider:   req.Provider,
		ExternalID: req.ExternalID,
		Email:      req.Email,
	}
	if len(req.Profile) > 0 {
		account.Profile = datatypes.JSON(req.Profile)
	}

	if err := s.socialRepo.Create(ctx, account); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.SocialAccountResponse{
		ID:         account.ID,
		Provider:   account.Provider,
		ExternalID: account.ExternalID,
		Email:      account.Email,
		LinkedAt:   account.CreatedAt,
	}, nil
}

func (s *userService) buildProfileResponse(ctx context.Context, user *models.User) (*dto.ProfileResponse, error) {
	ratingCount, err := s.reviewRepo.CountByRecipient(ctx, user.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	connectionCount, err := s.socialRepo.CountByUser(ctx, user.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.ProfileResponse{
		ID:              user.ID,
		Email:           user.Email,
		Name:            user.Name,
		Headline:        user.Headline,
		PictureURL:      user.PictureURL,
		Interests:       user.Interests,
		IsVerified:      user.IsVerified,
		JoinedAt:        user.CreatedAt,
		RatingCount:     ratingCount,
		ConnectionCount: connectionCount,
	}, nil
}

func calculateTotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		pages++
	}
	return pages
}
