package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"peerlink_backend/internal/middleware"
	"peerlink_backend/internal/services"
	"peerlink_backend/internal/services/dto"
	"peerlink_backend/pkg/apperrors"
)

type ReviewHandler struct {
	*BaseHandler
	reviewService services.ReviewService
}

func NewReviewHandler(base *BaseHandler, reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler:   base,
		reviewService: reviewService,
	}
}

func (h *ReviewHandler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.POST("/:userId/reviews", h.SubmitReview)
		users.GET("/:userId/reviews", h.GetUserReviews)
		users.GET("/:userId/rating", h.GetAverageRating)
	}

	reviews := r.Group("/reviews")
	reviews.Use(middleware.AuthMiddleware())
	{
		reviews.POST("/:reviewId/favorite", h.FavoriteReview)
		reviews.DELETE("/:reviewId/favorite", h.UnfavoriteReview)
	}
}

// SubmitReview godoc
// @Summary  Submit a review for a user
// @Tags     reviews
// @Param    userId path string true "Recipient user ID"
// @Success  201 {object} dto.ReviewResponse
// @Router   /api/v1/users/{userId}/reviews [post]
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	actingUserID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authentication required"))
		return
	}

	var req dto.SubmitReviewRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	review, err := h.reviewService.SubmitReview(c.Request.Context(), actingUserID, c.Param("userId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

// GetUserReviews godoc
// @Summary  List reviews received by a user, newest first
// @Tags     reviews
// @Param    userId path string true "Recipient user ID"
// @Success  200 {object} dto.ReviewListResponse
// @Router   /api/v1/users/{userId}/reviews [get]
func (h *ReviewHandler) GetUserReviews(c *gin.Context) {
	actingUserID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authentication required"))
		return
	}

	reviews, err := h.reviewService.GetUserReviews(c.Request.Context(), actingUserID, c.Param("userId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// GetAverageRating godoc
// @Summary  Get a user's average rating aggregate
// @Tags     reviews
// @Param    userId path string true "User ID"
// @Success  200 {object} dto.AverageRatingResponse
// @Router   /api/v1/users/{userId}/rating [get]
func (h *ReviewHandler) GetAverageRating(c *gin.Context) {
	rating, err := h.reviewService.GetAverageRating(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, rating)
}

// FavoriteReview godoc
// @Summary  Mark a review as favorite (idempotent)
// @Tags     reviews
// @Param    reviewId path string true "Review ID"
// @Success  200 {object} dto.ReviewResponse
// @Router   /api/v1/reviews/{reviewId}/favorite [post]
func (h *ReviewHandler) FavoriteReview(c *gin.Context) {
	actingUserID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authentication required"))
		return
	}

	review, err := h.reviewService.FavoriteReview(c.Request.Context(), actingUserID, c.Param("reviewId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// UnfavoriteReview godoc
// @Summary  Remove a review from favorites
// @Tags     reviews
// @Param    reviewId path string true "Review ID"
// @Success  200 {object} dto.ReviewResponse
// @Router   /api/v1/reviews/{reviewId}/favorite [delete]
func (h *ReviewHandler) UnfavoriteReview(c *gin.Context) {
	actingUserID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authentication required"))
		return
	}

	review, err := h.reviewService.UnfavoriteReview(c.Request.Context(), actingUserID, c.Param("reviewId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}
