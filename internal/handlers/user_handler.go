package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"peerlink_backend/internal/config"
	"peerlink_backend/internal/middleware"
	"peerlink_backend/internal/services"
	"peerlink_backend/internal/services/dto"
	"peerlink_backend/pkg/apperrors"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
	}
}

func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("/me", h.GetOwnProfile)
		users.PATCH("/me", h.UpdateProfile)
		users.POST("/me/picture", h.UploadPicture)
		users.POST("/me/social-accounts", h.LinkSocialAccount)
		users.GET("/search", h.SearchUsers)
		users.GET("/:userId", h.GetProfile)
	}
}

// GetOwnProfile godoc
// @Summary  Get the caller's profile
// @Tags     users
// @Success  200 {object} dto.ProfileResponse
// @Router   /api/v1/users/me [get]
func (h *UserHandler) GetOwnProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authentication required"))
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetProfile godoc
// @Summary  Get another user's profile
// @Tags     users
// @Param    userId path string true "User ID"
// @Success  200 {object} dto.ProfileResponse
// @Router   /api/v1/users/{userId} [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	profile, err := h.userService.GetProfile(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary  Update the caller's profile (name, headline, interests)
// @Tags     users
// @Success  200 {object} dto.ProfileResponse
// @Router   /api/v1/users/me [patch]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authentication required"))
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	profile, err := h.userService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UploadPicture godoc
// @Summary  Upload a profile picture (jpeg/jpg/png)
// @Tags     users
// @Accept   multipart/form-data
// @Param    file formData file true "Picture file"
// @Success  200 {object} dto.UploadPictureResponse
// @Router   /api/v1/users/me/picture [post]
func (h *UserHandler) UploadPicture(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authentication required"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("A 'file' form field is required"))
		return
	}

	if fileHeader.Size > config.GetConfig().Upload.MaxSize {
		apperrors.HandleError(c, apperrors.NewBadRequestError("File exceeds the maximum allowed size"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apperrors.HandleError(c, apperrors.InternalError(err))
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")

	resp, err := h.userService.UploadPicture(c.Request.Context(), userID, file, contentType)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SearchUsers godoc
// @Summary  Search users by name or email substring
// @Tags     users
// @Param    q query string true "Search term"
// @Success  200 {object} dto.SearchUsersResponse
// @Router   /api/v1/users/search [get]
func (h *UserHandler) SearchUsers(c *gin.Context) {
	var req dto.SearchUsersRequest
	if !h.BindAndValidateQuery(c, &req) {
		return
	}

	results, err := h.userService.SearchUsers(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// LinkSocialAccount godoc
// @Summary  Link an external social account to the caller
// @Tags     users
// @Success  201 {object} dto.SocialAccountResponse
// @Router   /api/v1/users/me/social-accounts [post]
func (h *UserHandler) LinkSocialAccount(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authentication required"))
		return
	}

	var req dto.LinkSocialAccountRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	account, err := h.userService.LinkSocialAccount(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, account)
}
