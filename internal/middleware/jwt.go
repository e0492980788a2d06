package middleware

import (
	"errors"
	"net/http"

	"github.com/Payphone-Digital/shortlink/internal/constants"
	apperrors "github.com/Payphone-Digital/shortlink/internal/errors"
	"github.com/Payphone-Digital/shortlink/internal/service"
	ctxutil "github.com/Payphone-Digital/shortlink/pkg/context"
	"github.com/Payphone-Digital/shortlink/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type JWTMiddleware struct {
	tokens  *service.TokenService
	auth    *service.AuthService
	cookies *Cookies
}

func NewJWTMiddleware(tokens *service.TokenService, auth *service.AuthService, cookies *Cookies) *JWTMiddleware {
	return &JWTMiddleware{
		tokens:  tokens,
		auth:    auth,
		cookies: cookies,
	}
}

// RequireAuth verifies the access token cookie and stores the user id in the
// request context.
func (m *JWTMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.cookies.AccessToken(c)
		if token == "" {
			logger.GetLogger().Debug("Missing access token cookie",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			c.AbortWithStatusJSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgNoToken, nil))
			return
		}

		userID, err := m.tokens.VerifyAccessToken(token)
		if err != nil {
			logger.GetLogger().Debug("Access token rejected",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.Error(err))
			c.AbortWithStatusJSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
			return
		}

		setUser(c, userID)
		c.Next()
	}
}

// RequireRefreshSession gates routes on a live refresh session. Any failure is
// a forced logout: cookies are cleared and the client is told to log in again.
func (m *JWTMiddleware) RequireRefreshSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.cookies.RefreshToken(c)

		userID, err := m.auth.ValidateRefreshSession(c.Request.Context(), token)
		if err != nil {
			message := constants.MsgRefreshSessionGone
			switch {
			case errors.Is(err, apperrors.ErrRefreshTokenMissing):
				message = constants.MsgNoRefreshToken
			case !errors.Is(err, apperrors.ErrInvalidRefreshToken):
				logger.GetLogger().Error("Refresh session lookup failed",
					zap.String("path", c.Request.URL.Path),
					zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, constants.BuildErrorResponse(constants.MsgInternalError, nil))
				return
			}

			m.cookies.Clear(c)
			c.AbortWithStatusJSON(http.StatusUnauthorized, constants.BuildForcedLogoutResponse(message))
			return
		}

		setUser(c, userID)
		c.Set(constants.GinKeyRefreshToken, token)
		c.Next()
	}
}

func setUser(c *gin.Context, userID uint) {
	c.Set(constants.GinKeyUserID, userID)
	c.Request = c.Request.WithContext(ctxutil.WithUserID(c.Request.Context(), userID))
}
