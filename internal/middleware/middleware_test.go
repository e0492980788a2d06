package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Payphone-Digital/shortlink/config"
	"github.com/Payphone-Digital/shortlink/internal/dto"
	"github.com/Payphone-Digital/shortlink/internal/service"
	ctxutil "github.com/Payphone-Digital/shortlink/pkg/context"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestValidateRequestBody(t *testing.T) {
	r := gin.New()
	r.POST("/register",
		NewValidationMiddleware().ValidateRequestBody(func() interface{} { return &dto.RegisterRequest{} }),
		func(c *gin.Context) {
			req, ok := ValidatedBody[dto.RegisterRequest](c)
			require.True(t, ok)
			c.JSON(http.StatusOK, gin.H{"phone": string(req.PhoneNumber)})
		})

	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"malformed json", `{"name":`, http.StatusBadRequest, MsgInvalidJSON},
		{"empty body", ``, http.StatusBadRequest, "Name is required"},
		{"bad email", `{"name":"A","email":"nope","password":"secret1","phoneNumber":"1"}`, http.StatusBadRequest, "Email must be a valid email address"},
		{"short password", `{"name":"A","email":"a@x.com","password":"123","phoneNumber":"1"}`, http.StatusBadRequest, "Password must be at least 6 characters"},
		{"numeric phone", `{"name":"A","email":"a@x.com","password":"secret1","phoneNumber":628123}`, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(tt.body))
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			body := decode(t, w)
			if tt.message != "" {
				assert.Equal(t, false, body["success"])
				assert.Equal(t, tt.message, body["message"])
			} else {
				assert.Equal(t, "628123", body["phone"])
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	tokens := service.NewTokenService(config.JWTConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})
	cookies := NewCookies(config.CookieConfig{AccessName: "accessToken", RefreshName: "refreshToken", Path: "/"})
	mw := NewJWTMiddleware(tokens, nil, cookies)

	r := gin.New()
	r.GET("/me", mw.RequireAuth(), func(c *gin.Context) {
		userID, ok := ctxutil.GetUserIDUint(c.Request.Context())
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": userID})
	})

	valid, _, err := tokens.IssueAccessToken(9)
	require.NoError(t, err)

	tests := []struct {
		name    string
		cookie  string
		status  int
		message string
	}{
		{"no cookie", "", http.StatusUnauthorized, "Access denied. No token provided."},
		{"tampered", valid + "x", http.StatusUnauthorized, "Invalid token"},
		{"valid", valid, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "accessToken", Value: tt.cookie})
			}
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			body := decode(t, w)
			if tt.message != "" {
				assert.Equal(t, tt.message, body["message"])
			} else {
				assert.Equal(t, float64(9), body["id"])
			}
		})
	}
}
