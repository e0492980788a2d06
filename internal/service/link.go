package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/Payphone-Digital/shortlink/internal/constants"
	"github.com/Payphone-Digital/shortlink/internal/dto"
	apperrors "github.com/Payphone-Digital/shortlink/internal/errors"
	"github.com/Payphone-Digital/shortlink/internal/model"
	"github.com/Payphone-Digital/shortlink/internal/repository"
	ctxutil "github.com/Payphone-Digital/shortlink/pkg/context"
	"github.com/Payphone-Digital/shortlink/pkg/logger"
)

type LinkStore interface {
	ExistsByShortCode(ctx context.Context, code string) (bool, error)
	ExistsForUser(ctx context.Context, userID uint, longURL string) (bool, error)
	Create(ctx context.Context, link *model.Link) error
	GetByShortCode(ctx context.Context, code string) (*model.Link, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Link, error)
	DeleteOwned(ctx context.Context, userID, linkID uint) (*model.Link, error)
	RecordClick(ctx context.Context, click *model.ClickEvent) error
}

var errCodeSpaceExhausted = errors.New(constants.MsgCodeSpaceExhausted)

type LinkService struct {
	links       LinkStore
	generator   CodeGenerator
	cache       LinkCache
	baseURL     string
	maxAttempts int
}

func NewLinkService(links LinkStore, generator CodeGenerator, cache LinkCache, baseURL string, maxAttempts int) *LinkService {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &LinkService{
		links:       links,
		generator:   generator,
		cache:       cache,
		baseURL:     strings.TrimRight(baseURL, "/"),
		maxAttempts: maxAttempts,
	}
}

func (s *LinkService) toResponse(link *model.Link) dto.LinkResponse {
	return dto.LinkResponse{
		ID:          link.ID,
		ShortURL:    s.baseURL + "/" + link.ShortCode,
		LongURL:     link.LongURL,
		ShortCode:   link.ShortCode,
		CustomURL:   link.CustomURL,
		CreatedAt:   link.CreatedAt,
		TotalClicks: link.TotalClicks,
		LastClicked: link.LastClicked,
	}
}

// CreateLink validates the destination, allocates a code and stores the link.
// Checks run in order: missing URL, malformed URL, taken custom code, duplicate link.
func (s *LinkService) CreateLink(ctx context.Context, userID uint, req *dto.ShortenRequest) (*dto.LinkResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "CreateLink")

	raw := strings.TrimSpace(req.LongURL)
	if raw == "" {
		return nil, apperrors.ErrMissingParameters
	}

	longURL, err := NormalizeDestination(raw)
	if err != nil {
		logger.DebugWithContext(ctx, "Rejected destination").
			String("long_url", raw).
			Log()
		return nil, err
	}

	custom := strings.TrimSpace(req.CustomURL)
	if custom != "" {
		if err := ValidateCustomCode(custom); err != nil {
			return nil, err
		}
		taken, err := s.links.ExistsByShortCode(ctx, custom)
		if err != nil {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
		if taken {
			return nil, apperrors.ErrCustomURLExists
		}
	}

	duplicate, err := s.links.ExistsForUser(ctx, userID, longURL)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if duplicate {
		return nil, apperrors.ErrDuplicateLink
	}

	link, err := s.allocate(ctx, userID, longURL, custom)
	if err != nil {
		return nil, err
	}

	logger.InfoWithContext(ctx, "Link created").
		Uint("link_id", link.ID).
		String("short_code", link.ShortCode).
		Bool("custom", custom != "").
		Log()

	resp := s.toResponse(link)
	return &resp, nil
}

// allocate inserts the link, retrying random codes that collide. The unique
// indexes are the final arbiter; pre-checks only keep retries rare.
func (s *LinkService) allocate(ctx context.Context, userID uint, longURL, custom string) (*model.Link, error) {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		code := custom
		if code == "" {
			generated, err := s.generator.Generate()
			if err != nil {
				return nil, apperrors.WrapError(apperrors.ErrInternal, err)
			}
			taken, err := s.links.ExistsByShortCode(ctx, generated)
			if err != nil {
				return nil, apperrors.WrapError(apperrors.ErrInternal, err)
			}
			if taken {
				logger.DebugWithContext(ctx, "Generated code already in use").
					String("short_code", generated).
					Int("attempt", attempt).
					Log()
				continue
			}
			code = generated
		}

		link := &model.Link{
			ShortCode: code,
			LongURL:   longURL,
			UserID:    userID,
			CreatedAt: time.Now().UTC(),
		}
		if custom != "" {
			c := custom
			link.CustomURL = &c
		}

		err := s.links.Create(ctx, link)
		if err == nil {
			return link, nil
		}
		if !repository.IsDuplicateKey(err) {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}

		// lost a race; find out which unique index fired
		duplicate, checkErr := s.links.ExistsForUser(ctx, userID, longURL)
		if checkErr != nil {
			return nil, apperrors.WrapError(apperrors.ErrInternal, checkErr)
		}
		if duplicate {
			return nil, apperrors.WrapError(apperrors.ErrDuplicateLink, err)
		}
		if custom != "" {
			return nil, apperrors.WrapError(apperrors.ErrCustomURLExists, err)
		}
	}

	logger.ErrorWithContext(ctx, "Short code allocation exhausted").
		Int("attempts", s.maxAttempts).
		Log()
	return nil, apperrors.WrapError(apperrors.ErrInternal, errCodeSpaceExhausted)
}

// ListLinks returns the caller's links, newest first.
func (s *LinkService) ListLinks(ctx context.Context, userID uint) ([]dto.LinkResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "ListLinks")

	links, err := s.links.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	resp := make([]dto.LinkResponse, 0, len(links))
	for i := range links {
		resp = append(resp, s.toResponse(&links[i]))
	}
	return resp, nil
}

// DeleteLink removes a link the caller owns. Missing, foreign and malformed ids all read as not found.
func (s *LinkService) DeleteLink(ctx context.Context, userID uint, rawID string) error {
	ctx = ctxutil.WithOperation(ctx, "service", "DeleteLink")

	id, err := strconv.ParseUint(strings.TrimSpace(rawID), 10, 64)
	if err != nil || id == 0 {
		return apperrors.ErrShortURLNotFound
	}

	link, err := s.links.DeleteOwned(ctx, userID, uint(id))
	if err != nil {
		if repository.IsNotFound(err) {
			logger.InfoWithContext(ctx, "Delete rejected, link missing or not owned").
				Uint("link_id", uint(id)).
				Log()
			return apperrors.ErrShortURLNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.cache.Delete(ctx, link.ShortCode)

	logger.InfoWithContext(ctx, "Link deleted").
		Uint("link_id", link.ID).
		String("short_code", link.ShortCode).
		Log()
	return nil
}
