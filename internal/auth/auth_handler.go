package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	autherrors "github.com/regtech-horizon/regtech-backend/internal/auth/errors"
	"github.com/regtech-horizon/regtech-backend/internal/shared/apperror"
	"github.com/regtech-horizon/regtech-backend/internal/shared/response"
)

// refreshCookieMaxAge keeps the cookie's lifetime equal to the refresh
// token's TTL so the cookie never outlives the token it carries.
func refreshCookieMaxAge() int {
	return int(refreshTTL().Seconds())
}

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func clientInfoFrom(c *gin.Context) ClientInfo {
	return ClientInfo{
		IPAddress:  c.ClientIP(),
		DeviceInfo: c.GetHeader("User-Agent"),
	}
}

// setRefreshCookie keeps the cookie expiry in sync with the token's own
// expiry. SameSite=None because the browser client lives on another origin.
func setRefreshCookie(c *gin.Context, token string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Failure(c, apperror.MapValidationError(err))
		return
	}

	resp, access, refresh, err := h.service.Register(c.Request.Context(), req, clientInfoFrom(c))
	if err != nil {
		response.Failure(c, err)
		return
	}

	setRefreshCookie(c, refresh, refreshCookieMaxAge())
	response.Auth(c, http.StatusCreated, "Registration successful", access, gin.H{"user": resp})
}

func (h *Handler) RegisterAdmin(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Failure(c, apperror.MapValidationError(err))
		return
	}

	resp, access, refresh, err := h.service.RegisterAdmin(c.Request.Context(), req, clientInfoFrom(c))
	if err != nil {
		response.Failure(c, err)
		return
	}

	setRefreshCookie(c, refresh, refreshCookieMaxAge())
	response.Auth(c, http.StatusCreated, "Admin registration successful", access, gin.H{"user": resp})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Failure(c, apperror.MapValidationError(err))
		return
	}

	resp, access, refresh, err := h.service.Login(c.Request.Context(), req.Email, req.Password, clientInfoFrom(c))
	if err != nil {
		response.Failure(c, err)
		return
	}

	setRefreshCookie(c, refresh, refreshCookieMaxAge())
	response.Auth(c, http.StatusOK, "Login successful", access, gin.H{"user": resp})
}

func (h *Handler) RefreshToken(c *gin.Context) {
	refreshToken, err := c.Cookie("refresh_token")
	if err != nil || refreshToken == "" {
		var req struct {
			RefreshToken string `json:"refresh_token" binding:"required"`
		}
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
			response.Failure(c, autherrors.ErrInvalidRefreshToken)
			return
		}
		refreshToken = req.RefreshToken
	}

	resp, access, refresh, err := h.service.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		response.Failure(c, err)
		return
	}

	setRefreshCookie(c, refresh, refreshCookieMaxAge())
	response.Auth(c, http.StatusOK, "Token refreshed", access, gin.H{"user": resp})
}

func (h *Handler) Me(c *gin.Context) {
	userID := c.GetString("user_id")
	resp, err := h.service.GetMe(c.Request.Context(), userID)
	if err != nil {
		response.Failure(c, err)
		return
	}
	response.Success(c, http.StatusOK, "User retrieved", resp)
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Failure(c, apperror.MapValidationError(err))
		return
	}

	userID := c.GetString("user_id")
	if err := h.service.ChangePassword(c.Request.Context(), userID, req); err != nil {
		response.Failure(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Password updated", nil)
}

func (h *Handler) Logout(c *gin.Context) {
	setRefreshCookie(c, "", -1)
	response.Success(c, http.StatusOK, "Logout successful", nil)
}
