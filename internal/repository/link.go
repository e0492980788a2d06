package repository

import (
	"context"
	"time"

	"github.com/Payphone-Digital/shortlink/internal/model"
	ctxutil "github.com/Payphone-Digital/shortlink/pkg/context"
	"github.com/Payphone-Digital/shortlink/pkg/logger"
	"gorm.io/gorm"
)

type LinkRepository struct {
	db *gorm.DB
}

func NewLinkRepository(db *gorm.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

func (r *LinkRepository) ExistsByShortCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Link{}).Where("short_code = ?", code).Count(&count).Error
	return count > 0, err
}

// ExistsForUser reports whether userID already shortened longURL.
func (r *LinkRepository) ExistsForUser(ctx context.Context, userID uint, longURL string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Link{}).
		Where("user_id = ? AND long_url = ?", userID, longURL).
		Count(&count).Error
	return count > 0, err
}

// Create inserts a link. Unique indexes on short_code and (user_id, long_url) reject conflicts.
func (r *LinkRepository) Create(ctx context.Context, link *model.Link) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "CreateLink")

	start := time.Now()
	err := r.db.WithContext(ctx).Create(link).Error
	duration := time.Since(start)

	if err != nil {
		if IsDuplicateKey(err) {
			logger.DebugWithContext(ctx, "Link insert hit unique index").
				String("short_code", link.ShortCode).
				Duration(duration).
				Log()
		} else {
			logger.ErrorWithContext(ctx, "Failed to create link").
				String("short_code", link.ShortCode).
				Duration(duration).
				Err(err).
				Log()
		}
		return err
	}

	logger.DebugWithContext(ctx, "Link created").
		Uint("link_id", link.ID).
		String("short_code", link.ShortCode).
		Duration(duration).
		Log()
	return nil
}

func (r *LinkRepository) GetByShortCode(ctx context.Context, code string) (*model.Link, error) {
	var link model.Link
	if err := r.db.WithContext(ctx).Where("short_code = ?", code).First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// ListByUser returns the user's links newest first.
func (r *LinkRepository) ListByUser(ctx context.Context, userID uint) ([]model.Link, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "ListByUser")

	start := time.Now()
	var links []model.Link
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&links).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to list links").
			Err(err).
			Log()
		return nil, err
	}

	logger.DebugWithContext(ctx, "Links listed").
		Int("count", len(links)).
		Duration(time.Since(start)).
		Log()
	return links, nil
}

// DeleteOwned removes a link and its click history when userID owns it.
// It returns gorm.ErrRecordNotFound when the link is missing or owned by someone else.
func (r *LinkRepository) DeleteOwned(ctx context.Context, userID, linkID uint) (*model.Link, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "DeleteOwned")

	var link model.Link
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", linkID, userID).First(&link).Error; err != nil {
			return err
		}
		if err := tx.Where("link_id = ?", link.ID).Delete(&model.ClickEvent{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ? AND user_id = ?", link.ID, userID).Delete(&model.Link{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if !IsNotFound(err) {
			logger.ErrorWithContext(ctx, "Failed to delete link").
				Uint("link_id", linkID).
				Err(err).
				Log()
		}
		return nil, err
	}

	return &link, nil
}

// RecordClick bumps the counters and appends the click event in one transaction.
// It returns gorm.ErrRecordNotFound when the link no longer exists.
func (r *LinkRepository) RecordClick(ctx context.Context, click *model.ClickEvent) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "RecordClick")

	start := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Link{}).
			Where("id = ?", click.LinkID).
			UpdateColumns(map[string]interface{}{
				"total_clicks": gorm.Expr("total_clicks + ?", 1),
				"last_clicked": gorm.Expr(
					"CASE WHEN last_clicked IS NULL OR last_clicked < ? THEN ? ELSE last_clicked END",
					click.Timestamp, click.Timestamp,
				),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(click).Error
	})
	if err != nil {
		if !IsNotFound(err) {
			logger.ErrorWithContext(ctx, "Failed to record click").
				Uint("link_id", click.LinkID).
				Duration(time.Since(start)).
				Err(err).
				Log()
		}
		return err
	}

	return nil
}

// Clicks returns the recorded click events of a link, oldest first.
func (r *LinkRepository) Clicks(ctx context.Context, linkID uint) ([]model.ClickEvent, error) {
	var clicks []model.ClickEvent
	err := r.db.WithContext(ctx).Where("link_id = ?", linkID).Order("timestamp ASC").Order("id ASC").Find(&clicks).Error
	return clicks, err
}
