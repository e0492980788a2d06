package service

import (
	"errors"
	"strconv"
	"time"

	"github.com/Payphone-Digital/shortlink/config"
	apperrors "github.com/Payphone-Digital/shortlink/internal/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries the user id under "_id"; every token also gets a random jti.
type Claims struct {
	UserID string `json:"_id"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 access and refresh tokens. It keeps no state.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenService(cfg config.JWTConfig) *TokenService {
	return &TokenService{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           time.Now,
	}
}

func (s *TokenService) AccessTTL() time.Duration  { return s.accessTTL }
func (s *TokenService) RefreshTTL() time.Duration { return s.refreshTTL }

// IssueAccessToken returns a short-lived token for userID and its expiry.
func (s *TokenService) IssueAccessToken(userID uint) (string, time.Time, error) {
	return s.issue(userID, s.accessSecret, s.accessTTL)
}

// IssueRefreshToken returns a long-lived token for userID and its expiry.
func (s *TokenService) IssueRefreshToken(userID uint) (string, time.Time, error) {
	return s.issue(userID, s.refreshSecret, s.refreshTTL)
}

func (s *TokenService) issue(userID uint, secret []byte, ttl time.Duration) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(ttl)

	claims := Claims{
		UserID: strconv.FormatUint(uint64(userID), 10),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	// NumericDate truncates to seconds; report what the token actually says
	return signed, claims.ExpiresAt.Time, nil
}

// VerifyAccessToken returns the user id, ErrTokenExpired or ErrInvalidToken.
func (s *TokenService) VerifyAccessToken(token string) (uint, error) {
	userID, err := s.verify(token, s.accessSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, apperrors.WrapError(apperrors.ErrTokenExpired, err)
		}
		return 0, apperrors.WrapError(apperrors.ErrInvalidToken, err)
	}
	return userID, nil
}

// VerifyRefreshToken returns the user id or ErrInvalidRefreshToken; expiry is not distinguished.
func (s *TokenService) VerifyRefreshToken(token string) (uint, error) {
	userID, err := s.verify(token, s.refreshSecret)
	if err != nil {
		return 0, apperrors.WrapError(apperrors.ErrInvalidRefreshToken, err)
	}
	return userID, nil
}

var errMissingSubject = errors.New("token has no user id")

func (s *TokenService) verify(token string, secret []byte) (uint, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return 0, err
	}

	id, err := strconv.ParseUint(claims.UserID, 10, 64)
	if err != nil || id == 0 {
		return 0, errMissingSubject
	}
	return uint(id), nil
}
