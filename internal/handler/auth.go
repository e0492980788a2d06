package handler

import (
	"net/http"

	"github.com/Payphone-Digital/shortlink/internal/constants"
	"github.com/Payphone-Digital/shortlink/internal/dto"
	"github.com/Payphone-Digital/shortlink/internal/middleware"
	"github.com/Payphone-Digital/shortlink/internal/service"
	ctxutil "github.com/Payphone-Digital/shortlink/pkg/context"
	"github.com/Payphone-Digital/shortlink/pkg/logger"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *service.AuthService
	tokens      *service.TokenService
	cookies     *middleware.Cookies
}

func NewAuthHandler(authService *service.AuthService, tokens *service.TokenService, cookies *middleware.Cookies) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		tokens:      tokens,
		cookies:     cookies,
	}
}

// Register creates an account. The body is validated by ValidationMiddleware.
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Register")

	req, ok := middleware.ValidatedBody[dto.RegisterRequest](c)
	if !ok {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, nil))
		return
	}

	user, err := h.authService.Register(ctx, req)
	if err != nil {
		respondError(ctx, c, "Registration failed", err)
		return
	}

	c.JSON(http.StatusCreated, constants.BuildUserResponse(constants.MsgUserRegistered, user))
}

// Login sets the access and refresh cookies on success.
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Login")

	req, ok := middleware.ValidatedBody[dto.LoginRequest](c)
	if !ok {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, nil))
		return
	}

	result, err := h.authService.Login(ctx, req)
	if err != nil {
		respondError(ctx, c, "Login failed", err)
		return
	}

	h.cookies.SetRefreshToken(c, result.RefreshToken, h.tokens.RefreshTTL())
	h.cookies.SetAccessToken(c, result.AccessToken, h.tokens.AccessTTL())

	logger.InfoWithContext(ctx, "User logged in").
		Uint("user_id", result.User.ID).
		Log()

	c.JSON(http.StatusOK, constants.BuildUserResponse(constants.MsgLoginSuccessful, result.User))
}

// RefreshToken mints a new access cookie from the refresh cookie.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "RefreshToken")

	accessToken, err := h.authService.Refresh(ctx, h.cookies.RefreshToken(c))
	if err != nil {
		respondError(ctx, c, "Token refresh failed", err)
		return
	}

	h.cookies.SetAccessToken(c, accessToken, h.tokens.AccessTTL())
	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgTokenRefreshed))
}

// Logout revokes the refresh session. Both routes that reach it guarantee a
// user is known; a refresh token is revoked only when one was presented.
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Logout")

	refreshToken := c.GetString(constants.GinKeyRefreshToken)
	if refreshToken == "" {
		refreshToken = h.cookies.RefreshToken(c)
	}

	if err := h.authService.Logout(ctx, refreshToken); err != nil {
		respondError(ctx, c, "Logout failed", err)
		return
	}

	h.cookies.Clear(c)

	if userID, ok := ctxutil.GetUserIDUint(ctx); ok {
		logger.LogAuth(userID, "logout", true)
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgLoggedOut))
}
