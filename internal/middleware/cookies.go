package middleware

import (
	"time"

	"github.com/Payphone-Digital/shortlink/config"
	"github.com/gin-gonic/gin"
)

// Cookies writes and clears the token cookies with the configured attributes.
type Cookies struct {
	cfg config.CookieConfig
}

func NewCookies(cfg config.CookieConfig) *Cookies {
	return &Cookies{cfg: cfg}
}

func (k *Cookies) AccessToken(c *gin.Context) string {
	token, _ := c.Cookie(k.cfg.AccessName)
	return token
}

func (k *Cookies) RefreshToken(c *gin.Context) string {
	token, _ := c.Cookie(k.cfg.RefreshName)
	return token
}

func (k *Cookies) SetAccessToken(c *gin.Context, token string, ttl time.Duration) {
	k.set(c, k.cfg.AccessName, token, int(ttl.Seconds()))
}

func (k *Cookies) SetRefreshToken(c *gin.Context, token string, ttl time.Duration) {
	k.set(c, k.cfg.RefreshName, token, int(ttl.Seconds()))
}

// Clear expires both token cookies.
func (k *Cookies) Clear(c *gin.Context) {
	k.set(c, k.cfg.AccessName, "", -1)
	k.set(c, k.cfg.RefreshName, "", -1)
}

func (k *Cookies) set(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(k.cfg.SameSite)
	c.SetCookie(name, value, maxAge, k.cfg.Path, k.cfg.Domain, k.cfg.Secure, k.cfg.HTTPOnly)
}
