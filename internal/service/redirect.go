package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Payphone-Digital/shortlink/internal/dto"
	apperrors "github.com/Payphone-Digital/shortlink/internal/errors"
	"github.com/Payphone-Digital/shortlink/internal/model"
	"github.com/Payphone-Digital/shortlink/internal/repository"
	ctxutil "github.com/Payphone-Digital/shortlink/pkg/context"
	"github.com/Payphone-Digital/shortlink/pkg/logger"
)

// RedirectService resolves short codes and records each visit.
type RedirectService struct {
	links LinkStore
	cache LinkCache
	now   func() time.Time
}

func NewRedirectService(links LinkStore, cache LinkCache) *RedirectService {
	return &RedirectService{
		links: links,
		cache: cache,
		now:   time.Now,
	}
}

// Resolve looks the code up in the cache, then the store. The bool reports a cache hit.
func (s *RedirectService) Resolve(ctx context.Context, code string) (CachedLink, bool, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return CachedLink{}, false, apperrors.ErrURLNotFound
	}

	if link, ok := s.cache.Get(ctx, code); ok {
		return link, true, nil
	}

	link, err := s.links.GetByShortCode(ctx, code)
	if err != nil {
		if repository.IsNotFound(err) {
			return CachedLink{}, false, apperrors.ErrURLNotFound
		}
		return CachedLink{}, false, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	resolved := CachedLink{ID: link.ID, LongURL: link.LongURL}
	s.cache.Set(ctx, code, resolved)
	return resolved, false, nil
}

// RedirectTarget re-checks a stored destination before the client is sent there.
func (s *RedirectService) RedirectTarget(longURL string) (string, error) {
	target := EnsureScheme(strings.TrimSpace(longURL))
	if err := ValidateDestination(target); err != nil {
		return "", err
	}
	return target, nil
}

// RecordVisit increments the link's counters and appends a click event atomically.
func (s *RedirectService) RecordVisit(ctx context.Context, linkID uint, visit dto.Visit) error {
	click := &model.ClickEvent{
		LinkID:    linkID,
		Timestamp: s.now().UTC(),
		Referrer:  visit.Referrer,
		UserAgent: visit.UserAgent,
		IP:        visit.IP,
		Country:   visit.Country,
	}

	if err := s.links.RecordClick(ctx, click); err != nil {
		if repository.IsNotFound(err) {
			return apperrors.ErrURLNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return nil
}

// Visit resolves code, validates the destination and records the click.
// It returns the URL to redirect to.
func (s *RedirectService) Visit(ctx context.Context, code string, visit dto.Visit) (string, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Visit")

	link, cached, err := s.Resolve(ctx, code)
	if err != nil {
		return "", err
	}

	target, err := s.RedirectTarget(link.LongURL)
	if err != nil {
		logger.WarnWithContext(ctx, "Stored destination failed validation").
			String("short_code", code).
			Uint("link_id", link.ID).
			Log()
		return "", err
	}

	err = s.RecordVisit(ctx, link.ID, visit)
	if err != nil && cached && errors.Is(err, apperrors.ErrURLNotFound) {
		// the cached entry outlived its link; retry against the store once
		s.cache.Delete(ctx, code)
		return s.visitUncached(ctx, code, visit)
	}
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to record visit").
			String("short_code", code).
			Err(err).
			Log()
		return "", err
	}

	logger.DebugWithContext(ctx, "Visit recorded").
		String("short_code", code).
		Uint("link_id", link.ID).
		Bool("cache_hit", cached).
		Log()
	return target, nil
}

func (s *RedirectService) visitUncached(ctx context.Context, code string, visit dto.Visit) (string, error) {
	link, err := s.links.GetByShortCode(ctx, code)
	if err != nil {
		if repository.IsNotFound(err) {
			return "", apperrors.ErrURLNotFound
		}
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	target, err := s.RedirectTarget(link.LongURL)
	if err != nil {
		return "", err
	}
	if err := s.RecordVisit(ctx, link.ID, visit); err != nil {
		return "", err
	}
	s.cache.Set(ctx, code, CachedLink{ID: link.ID, LongURL: link.LongURL})
	return target, nil
}
