package service

import (
	"context"
	"strings"
	"time"

	"github.com/Payphone-Digital/shortlink/internal/dto"
	apperrors "github.com/Payphone-Digital/shortlink/internal/errors"
	"github.com/Payphone-Digital/shortlink/internal/model"
	"github.com/Payphone-Digital/shortlink/internal/repository"
	ctxutil "github.com/Payphone-Digital/shortlink/pkg/context"
	"github.com/Payphone-Digital/shortlink/pkg/logger"
)

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type SessionStore interface {
	Create(ctx context.Context, session *model.RefreshToken) error
	FindByToken(ctx context.Context, token string) (*model.RefreshToken, error)
	DeleteByToken(ctx context.Context, token string) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type AuthService struct {
	users    UserStore
	sessions SessionStore
	tokens   *TokenService
	hasher   PasswordHasher
	now      func() time.Time
}

func NewAuthService(users UserStore, sessions SessionStore, tokens *TokenService, hasher PasswordHasher) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		hasher:   hasher,
		now:      time.Now,
	}
}

func toUserResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
	}
}

// Register creates a user. A taken email yields ErrEmailExists whether the
// pre-check or the unique index catches it.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Register")

	email := strings.TrimSpace(req.Email)

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if exists {
		logger.InfoWithContext(ctx, "Registration rejected, email taken").
			String("email", email).
			Log()
		return nil, apperrors.ErrEmailExists
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to hash password").
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user := &model.User{
		Name:        strings.TrimSpace(req.Name),
		Email:       email,
		PhoneNumber: string(req.PhoneNumber),
		Password:    hashed,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, apperrors.WrapError(apperrors.ErrEmailExists, err)
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User registered").
		Uint("new_user_id", user.ID).
		Log()

	resp := toUserResponse(user)
	return &resp, nil
}

// Login verifies credentials, issues both tokens and records a new session.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResult, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Login")

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if repository.IsNotFound(err) {
			logger.LogAuth(0, "login", false)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !s.hasher.Compare(user.Password, req.Password) {
		logger.LogAuth(user.ID, "login", false)
		return nil, apperrors.ErrInvalidCredentials
	}

	accessToken, _, err := s.tokens.IssueAccessToken(user.ID)
	if err != nil {
		return nil, err
	}
	refreshToken, refreshExpiry, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	session := &model.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: refreshExpiry.UTC(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.LogAuth(user.ID, "login", true)

	return &dto.LoginResult{
		User:         toUserResponse(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// ValidateRefreshSession enforces the double gate: a valid signature and a
// live row in the session store. It returns the session's user id.
func (s *AuthService) ValidateRefreshSession(ctx context.Context, refreshToken string) (uint, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "ValidateRefreshSession")

	if refreshToken == "" {
		return 0, apperrors.ErrRefreshTokenMissing
	}

	userID, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		logger.WarnWithContext(ctx, "Refresh token failed verification").
			Err(err).
			Log()
		return 0, err
	}

	session, err := s.sessions.FindByToken(ctx, refreshToken)
	if err != nil {
		if repository.IsNotFound(err) {
			logger.WarnWithContext(ctx, "Refresh token not in session store").
				Uint("token_user_id", userID).
				Log()
			return 0, apperrors.ErrInvalidRefreshToken
		}
		return 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !session.ExpiresAt.After(s.now()) || session.UserID != userID {
		return 0, apperrors.ErrInvalidRefreshToken
	}

	return userID, nil
}

// Refresh mints a new access token from a live refresh session.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.ValidateRefreshSession(ctx, refreshToken)
	if err != nil {
		return "", err
	}

	accessToken, _, err := s.tokens.IssueAccessToken(userID)
	if err != nil {
		return "", err
	}

	logger.LogAuth(userID, "refresh", true)
	return accessToken, nil
}

// Logout revokes the given refresh session. An unknown token is not an error.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	ctx = ctxutil.WithOperation(ctx, "service", "Logout")

	if refreshToken == "" {
		return nil
	}

	revoked, err := s.sessions.DeleteByToken(ctx, refreshToken)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Session revoked").
		Int64("revoked", revoked).
		Log()
	return nil
}

// PruneExpiredSessions deletes sessions that can no longer be honored.
func (s *AuthService) PruneExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx, s.now().UTC())
}
