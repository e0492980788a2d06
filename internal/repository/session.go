package repository

import (
	"context"
	"time"

	"github.com/Payphone-Digital/shortlink/internal/model"
	ctxutil "github.com/Payphone-Digital/shortlink/pkg/context"
	"github.com/Payphone-Digital/shortlink/pkg/logger"
	"gorm.io/gorm"
)

// SessionRepository stores issued refresh tokens.
type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create records a new session. Existing sessions of the same user are left alone.
func (r *SessionRepository) Create(ctx context.Context, session *model.RefreshToken) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "CreateSession")

	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to store refresh token").
			Uint("session_user_id", session.UserID).
			Err(err).
			Log()
		return err
	}
	return nil
}

func (r *SessionRepository) FindByToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	var session model.RefreshToken
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteByToken revokes one session. Deleting a missing token is not an error.
func (r *SessionRepository) DeleteByToken(ctx context.Context, token string) (int64, error) {
	result := r.db.WithContext(ctx).Where("token = ?", token).Delete(&model.RefreshToken{})
	return result.RowsAffected, result.Error
}

func (r *SessionRepository) DeleteByUser(ctx context.Context, userID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.RefreshToken{})
	return result.RowsAffected, result.Error
}

// DeleteExpired removes sessions whose expiry is not after now.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "DeleteExpiredSessions")

	start := time.Now()
	result := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&model.RefreshToken{})
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to delete expired sessions").
			Err(result.Error).
			Log()
		return 0, result.Error
	}

	logger.DebugWithContext(ctx, "Expired sessions deleted").
		Int64("deleted", result.RowsAffected).
		Duration(time.Since(start)).
		Log()
	return result.RowsAffected, nil
}
