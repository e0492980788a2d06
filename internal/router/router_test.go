package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/Payphone-Digital/shortlink/config"
	"github.com/Payphone-Digital/shortlink/internal/handler"
	"github.com/Payphone-Digital/shortlink/internal/middleware"
	"github.com/Payphone-Digital/shortlink/internal/repository"
	"github.com/Payphone-Digital/shortlink/internal/service"
	"github.com/Payphone-Digital/shortlink/internal/testutil"
	"github.com/Payphone-Digital/shortlink/pkg/redis"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "shortlink-test", Environment: "test", Timeout: 5 * time.Second},
		JWT: config.JWTConfig{
			AccessSecret:  "access-secret",
			RefreshSecret: "refresh-secret",
			AccessTTL:     2 * time.Minute,
			RefreshTTL:    7 * 24 * time.Hour,
		},
		Cookie: config.CookieConfig{
			AccessName:  "accessToken",
			RefreshName: "refreshToken",
			Path:        "/",
			HTTPOnly:    true,
			SameSite:    http.SameSiteLaxMode,
		},
		Link:  config.LinkConfig{BaseURL: "http://sho.rt/api/user", CodeLength: 6, MaxAllocations: 10},
		CORS:  config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Redis: config.RedisConfig{Enabled: false},
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testConfig()
	db := testutil.NewDB(t)

	redisClient, err := redis.NewClient(cfg)
	require.NoError(t, err)

	users := repository.NewUserRepository(db)
	sessions := repository.NewSessionRepository(db)
	links := repository.NewLinkRepository(db)

	linkCache := service.NewTieredLinkCache(redisClient, time.Minute)
	t.Cleanup(linkCache.Close)

	tokens := service.NewTokenService(cfg.JWT)
	auth := service.NewAuthService(users, sessions, tokens, service.NewBcryptHasher(bcrypt.MinCost))
	linkService := service.NewLinkService(links, service.NewRandomCodeGenerator(cfg.Link.CodeLength), linkCache, cfg.Link.BaseURL, cfg.Link.MaxAllocations)
	redirectService := service.NewRedirectService(links, linkCache)

	cookies := middleware.NewCookies(cfg.Cookie)
	r := NewRouter(
		handler.NewAuthHandler(auth, tokens, cookies),
		handler.NewLinkHandler(linkService, redirectService),
		handler.NewHealthHandler(db, redisClient, "test"),
		middleware.NewValidationMiddleware(),
		middleware.NewJWTMiddleware(tokens, auth, cookies),
		cfg,
	)

	srv := httptest.NewServer(r.SetupRoutes())
	t.Cleanup(srv.Close)
	return srv
}

type apiClient struct {
	t    *testing.T
	base string
	http *http.Client
}

func newClient(t *testing.T, srv *httptest.Server) *apiClient {
	return newClientFor(t, srv.URL)
}

func newClientFor(t *testing.T, base string) *apiClient {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &apiClient{
		t:    t,
		base: base,
		http: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (c *apiClient) do(method, path string, body any) (*http.Response, map[string]any) {
	c.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.base+path, reader)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var envelope map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&envelope)
	return resp, envelope
}

func (c *apiClient) registerAndLogin(name, email string) {
	c.t.Helper()
	resp, _ := c.do(http.MethodPost, "/api/auth/register", map[string]any{
		"name": name, "email": email, "password": "secret123", "phoneNumber": 628123456,
	})
	require.Equal(c.t, http.StatusCreated, resp.StatusCode)

	resp, _ = c.do(http.MethodPost, "/api/auth/login", map[string]any{"email": email, "password": "secret123"})
	require.Equal(c.t, http.StatusOK, resp.StatusCode)
}

func (c *apiClient) shorten(longURL, custom string) (*http.Response, map[string]any) {
	body := map[string]any{"longUrl": longURL}
	if custom != "" {
		body["customUrl"] = custom
	}
	return c.do(http.MethodPost, "/api/user/shorten", body)
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func cookieNames(resp *http.Response) map[string]*http.Cookie {
	out := make(map[string]*http.Cookie)
	for _, ck := range resp.Cookies() {
		out[ck.Name] = ck
	}
	return out
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	c := newClient(t, newTestServer(t))

	resp, body := c.do(http.MethodPost, "/api/auth/register", map[string]any{
		"name": "A", "email": "a@x.com", "password": "secret123", "phoneNumber": "628123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "a@x.com", user["email"])
	assert.NotContains(t, user, "password")

	resp, body = c.do(http.MethodPost, "/api/auth/register", map[string]any{
		"name": "B", "email": "a@x.com", "password": "secret123", "phoneNumber": "628123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "User already exists", body["message"])
}

func TestRegisterValidation(t *testing.T) {
	c := newClient(t, newTestServer(t))

	resp, body := c.do(http.MethodPost, "/api/auth/register", map[string]any{
		"name": "A", "password": "secret123", "phoneNumber": "628123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Email is required", body["message"])
	assert.Len(t, body["details"], 1)
}

func TestLoginSetsCookies(t *testing.T) {
	c := newClient(t, newTestServer(t))
	c.do(http.MethodPost, "/api/auth/register", map[string]any{
		"name": "A", "email": "a@x.com", "password": "secret123", "phoneNumber": "628123",
	})

	resp, body := c.do(http.MethodPost, "/api/auth/login", map[string]any{"email": "a@x.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Login successful", body["message"])
	assert.Equal(t, "a@x.com", body["user"].(map[string]any)["email"])

	cookies := cookieNames(resp)
	require.Contains(t, cookies, "accessToken")
	require.Contains(t, cookies, "refreshToken")
	assert.True(t, cookies["accessToken"].HttpOnly)
	assert.Equal(t, 120, cookies["accessToken"].MaxAge)
	assert.Equal(t, 7*24*3600, cookies["refreshToken"].MaxAge)

	resp, body = c.do(http.MethodPost, "/api/auth/login", map[string]any{"email": "a@x.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid email or password", body["message"])
}

func TestShortenAndRedirect(t *testing.T) {
	c := newClient(t, newTestServer(t))
	c.registerAndLogin("A", "a@x.com")

	resp, body := c.shorten("example.com/page", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	link := body["data"].(map[string]any)
	assert.Equal(t, "https://example.com/page", link["longUrl"])
	assert.Equal(t, float64(0), link["totalClicks"])
	code := link["shortCode"].(string)
	assert.Equal(t, "http://sho.rt/api/user/"+code, link["shortUrl"])

	anon := newClientFor(t, c.base)
	resp, _ = anon.do(http.MethodGet, "/api/user/"+code, nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "https://example.com/page", resp.Header.Get("Location"))

	resp, body = c.do(http.MethodGet, "/api/user/urls", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := body["data"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, float64(1), list[0].(map[string]any)["totalClicks"])
	assert.NotNil(t, list[0].(map[string]any)["lastClicked"])

	resp, body = c.shorten("https://example.com/page", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "You have already shorten this url", body["message"])
}

func TestShortenFailures(t *testing.T) {
	srv := newTestServer(t)
	anon := newClient(t, srv)

	resp, body := anon.shorten("example.com", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Access denied. No token provided.", body["message"])

	c := newClient(t, srv)
	c.registerAndLogin("A", "a@x.com")

	resp, body = c.do(http.MethodPost, "/api/user/shorten", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "URL is required", body["message"])

	resp, body = c.shorten("not a url", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid URL format", body["message"])

	resp, _ = anon.do(http.MethodGet, "/api/user/nosuchcode", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCustomCodeIsGloballyUnique(t *testing.T) {
	srv := newTestServer(t)
	alice := newClient(t, srv)
	alice.registerAndLogin("A", "a@x.com")
	bob := newClient(t, srv)
	bob.registerAndLogin("B", "b@x.com")

	resp, body := alice.shorten("example.com/a", "promo")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "promo", body["data"].(map[string]any)["shortCode"])

	resp, body = bob.shorten("example.com/b", "promo")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Custom URL already exists", body["message"])

	resp, _ = alice.shorten("example.com/c", "promo")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteEnforcesOwnership(t *testing.T) {
	srv := newTestServer(t)
	alice := newClient(t, srv)
	alice.registerAndLogin("A", "a@x.com")
	bob := newClient(t, srv)
	bob.registerAndLogin("B", "b@x.com")

	_, body := alice.shorten("example.com/a", "")
	link := body["data"].(map[string]any)
	path := fmt.Sprintf("/api/user/urls/%d", int(link["id"].(float64)))

	resp, body := bob.do(http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Short URL not found", body["message"])

	resp, _ = bob.do(http.MethodDelete, "/api/user/urls/abc", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = alice.do(http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "URL deleted successfully", body["message"])

	resp, _ = alice.do(http.MethodGet, "/api/user/"+link["shortCode"].(string), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRefreshAndLogout(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)
	c.registerAndLogin("A", "a@x.com")

	resp, body := c.do(http.MethodGet, "/api/auth/refresh-token", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Access token refreshed", body["message"])
	assert.Contains(t, cookieNames(resp), "accessToken")

	// keep the refresh token to replay it after logout
	stale := newClient(t, srv)
	for _, ck := range c.http.Jar.Cookies(mustURL(t, srv.URL)) {
		if ck.Name == "refreshToken" {
			stale.http.Jar.SetCookies(mustURL(t, srv.URL), []*http.Cookie{ck})
		}
	}

	resp, body = c.do(http.MethodGet, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Logged out successfully", body["message"])

	resp, body = stale.do(http.MethodGet, "/api/auth/refresh-token", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Refresh token invalid or expired", body["message"])

	resp, body = stale.do(http.MethodGet, "/api/auth/logout", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, true, body["loggedOut"])
	assert.Equal(t, "Invalid or expired refresh token", body["message"])

	resp, body = c.do(http.MethodGet, "/api/auth/refresh-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Refresh token missing", body["message"])

	resp, body = c.do(http.MethodGet, "/api/auth/logout", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "No refresh token provided", body["message"])
}

func TestUserLogoutClearsCookies(t *testing.T) {
	c := newClient(t, newTestServer(t))
	c.registerAndLogin("A", "a@x.com")

	resp, _ := c.do(http.MethodPost, "/api/user/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	for _, ck := range resp.Cookies() {
		assert.Empty(t, ck.Value)
		assert.Less(t, ck.MaxAge, 0)
	}

	resp, _ = c.do(http.MethodGet, "/api/user/urls", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHealthAndNoRoute(t *testing.T) {
	c := newClient(t, newTestServer(t))

	resp, body := c.do(http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "disabled", body["checks"].(map[string]any)["redis"].(map[string]any)["status"])

	resp, body = c.do(http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestCORSAllowList(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/user/shorten", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))

	req.Header.Set("Origin", "http://evil.example")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}
