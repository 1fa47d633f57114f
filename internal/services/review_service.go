package services

import (
	"context"

	"peerlink_backend/internal/cache"
	"peerlink_backend/internal/logger"
	"peerlink_backend/internal/models"
	"peerlink_backend/internal/repositories"
	"peerlink_backend/internal/services/dto"
	"peerlink_backend/pkg/apperrors"
)

type ReviewService interface {
	// SubmitReview persists a new review for the recipient and refreshes
	// the recipient's cached rating aggregate.
	SubmitReview(ctx context.Context, actingUserID, recipientID string, req *dto.SubmitReviewRequest) (*dto.ReviewResponse, error)

	// GetUserReviews returns all reviews received by the user, newest
	// first, shaped with respect to the acting user.
	GetUserReviews(ctx context.Context, actingUserID, recipientID string) (*dto.ReviewListResponse, error)

	// GetAverageRating returns the cached aggregate for the user,
	// recomputing it from review rows on a miss.
	GetAverageRating(ctx context.Context, recipientID string) (*dto.AverageRatingResponse, error)

	FavoriteReview(ctx context.Context, actingUserID, reviewID string) (*dto.ReviewResponse, error)
	UnfavoriteReview(ctx context.Context, actingUserID, reviewID string) (*dto.ReviewResponse, error)
}

type reviewService struct {
	reviewRepo   repositories.ReviewRepository
	userRepo     repositories.UserRepository
	favoriteRepo repositories.FavoriteRepository
	ratingsCache cache.RatingsCache
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	userRepo repositories.UserRepository,
	favoriteRepo repositories.FavoriteRepository,
	ratingsCache cache.RatingsCache,
) ReviewService {
	return &reviewService{
		reviewRepo:   reviewRepo,
		userRepo:     userRepo,
		favoriteRepo: favoriteRepo,
		ratingsCache: ratingsCache,
	}
}

func (s *reviewService) SubmitReview(ctx context.Context, actingUserID, recipientID string, req *dto.SubmitReviewRequest) (*dto.ReviewResponse, error) {
	// Existence is checked before the self-review rule so that a
	// non-existent self id reports NotFound, not a validation failure.
	exists, err := s.userRepo.Exists(ctx, recipientID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !exists {
		return nil, apperrors.ErrNotFound(repositories.ErrUserNotFound, "reviews", "Recipient user not found")
	}

	if actingUserID == recipientID {
		return nil, apperrors.ErrSelfReview
	}

	author := models.IdentifiedAuthor(actingUserID)
	if req.Anonymous {
		// The author id is nulled at write time no matter what the
		// caller supplied.
		author = models.AnonymousAuthor()
	}

	review := &models.Review{
		RecipientID:     recipientID,
		AuthorID:        author.ColumnValue(),
		Professionalism: req.Professionalism,
		Reliability:     req.Reliability,
		Communication:   req.Communication,
		Comment:         req.Comment,
		Anonymous:       req.Anonymous,
		Status:          models.ReviewStatusVisible,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Write-through: overwrite the cached aggregate so readers see the
	// new review without waiting for a miss. The review row is already
	// durable; a cache failure only widens the staleness window, so it
	// is logged and swallowed.
	s.refreshAggregate(ctx, recipientID)

	resp := s.shapeReview(review, actingUserID, false)
	// The caller just wrote this review, anonymous or not.
	resp.IsOwnReview = true
	return resp, nil
}

func (s *reviewService) GetUserReviews(ctx context.Context, actingUserID, recipientID string) (*dto.ReviewListResponse, error) {
	exists, err := s.userRepo.Exists(ctx, recipientID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !exists {
		return nil, apperrors.ErrNotFound(repositories.ErrUserNotFound, "reviews", "User not found")
	}

	reviews, err := s.reviewRepo.FindByRecipient(ctx, recipientID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	reviewIDs := make([]string, len(reviews))
	for i := range reviews {
		reviewIDs[i] = reviews[i].ID
	}
	favorited, err := s.favoriteRepo.FavoritedReviewIDs(ctx, actingUserID, reviewIDs)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	shaped := make([]*dto.ReviewResponse, len(reviews))
	for i := range reviews {
		shaped[i] = s.shapeReview(&reviews[i], actingUserID, favorited[reviews[i].ID])
	}

	return &dto.ReviewListResponse{
		Reviews: shaped,
		Total:   int64(len(shaped)),
	}, nil
}

func (s *reviewService) GetAverageRating(ctx context.Context, recipientID string) (*dto.AverageRatingResponse, error) {
	// Cache-aside. A present key is a hit even when the stored aggregate
	// is all zeros; only the cache's own failures fall through to a
	// recompute.
	agg, found, err := s.ratingsCache.Get(ctx, recipientID)
	if err != nil {
		logger.CtxWarn(ctx, "rating cache read failed, recomputing", "recipient_id", recipientID, "error", err)
	}
	if found && err == nil {
		return aggregateResponse(recipientID, agg), nil
	}

	agg, err = s.reviewRepo.ComputeAggregate(ctx, recipientID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Concurrent misses may both land here and both write. The recompute
	// is a pure function of current rows, so the duplicate overwrite is
	// harmless.
	if err := s.ratingsCache.Set(ctx, recipientID, agg, cache.RatingsTTL); err != nil {
		logger.CtxWarn(ctx, "rating cache write failed", "recipient_id", recipientID, "error", err)
	}

	return aggregateResponse(recipientID, agg), nil
}

func (s *reviewService) FavoriteReview(ctx context.Context, actingUserID, reviewID string) (*dto.ReviewResponse, error) {
	// The review is fetched up front so favoriting a non-existent review
	// reports NotFound instead of shaping a missing record.
	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrReviewNotFound) {
			return nil, apperrors.ErrNotFound(err, "favorites", "Review not found")
		}
		return nil, apperrors.InternalError(err)
	}

	if err := s.favoriteRepo.Upsert(ctx, actingUserID, reviewID); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.shapeReview(review, actingUserID, true), nil
}

func (s *reviewService) UnfavoriteReview(ctx context.Context, actingUserID, reviewID string) (*dto.ReviewResponse, error) {
	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrReviewNotFound) {
			return nil, apperrors.ErrNotFound(err, "favorites", "Review not found")
		}
		return nil, apperrors.InternalError(err)
	}

	// Deliberately strict: removing a favorite that was never set is an
	// error, unlike the upsert-based create.
	if err := s.favoriteRepo.Delete(ctx, actingUserID, reviewID); err != nil {
		if apperrors.Is(err, repositories.ErrFavoriteNotFound) {
			return nil, apperrors.ErrNotFound(err, "favorites", "Review is not favorited")
		}
		return nil, apperrors.InternalError(err)
	}

	return s.shapeReview(review, actingUserID, false), nil
}

// refreshAggregate recomputes the recipient's aggregate and overwrites the
// cache entry. Best effort only; the database remains the source of truth.
func (s *reviewService) refreshAggregate(ctx context.Context, recipientID string) {
	agg, err := s.reviewRepo.ComputeAggregate(ctx, recipientID)
	if err != nil {
		logger.CtxWarn(ctx, "aggregate recompute failed after review write", "recipient_id", recipientID, "error", err)
		return
	}
	if err := s.ratingsCache.Set(ctx, recipientID, agg, cache.RatingsTTL); err != nil {
		logger.CtxWarn(ctx, "rating cache overwrite failed after review write", "recipient_id", recipientID, "error", err)
	}
}

// shapeReview maps a stored review row to its caller-facing shape. Anonymous
// reviews omit the author block regardless of what the row holds; ownership
// is computed from the raw stored author id.
func (s *reviewService) shapeReview(review *models.Review, actingUserID string, isFavorite bool) *dto.ReviewResponse {
	resp := &dto.ReviewResponse{
		ID:              review.ID,
		RecipientID:     review.RecipientID,
		Professionalism: review.Professionalism,
		Reliability:     review.Reliability,
		Communication:   review.Communication,
		Comment:         review.Comment,
		Anonymous:       review.Anonymous,
		CreatedAt:       review.CreatedAt,
		IsFavorite:      isFavorite,
	}

	author := models.AuthorOf(review)
	if authorID, ok := author.UserID(); ok {
		resp.IsOwnReview = authorID == actingUserID
		if !review.Anonymous {
			resp.Author = &dto.ReviewAuthorInfo{ID: authorID}
			if review.Author != nil {
				resp.Author.Name = review.Author.Name
				resp.Author.PictureURL = review.Author.PictureURL
			}
		}
	}

	return resp
}

func aggregateResponse(userID string, agg *models.RatingAggregate) *dto.AverageRatingResponse {
	return &dto.AverageRatingResponse{
		UserID:          userID,
		Professionalism: agg.Professionalism,
		Reliability:     agg.Reliability,
		Communication:   agg.Communication,
		Overall:         agg.Overall,
		TotalReviews:    agg.TotalReviews,
	}
}
