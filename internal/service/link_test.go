package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"testing"

	"github.com/Payphone-Digital/shortlink/internal/dto"
	apperrors "github.com/Payphone-Digital/shortlink/internal/errors"
	"github.com/Payphone-Digital/shortlink/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomCodeGenerator(t *testing.T) {
	for _, length := range []int{4, 5, 6, 7, 10} {
		gen := NewRandomCodeGenerator(length)
		code, err := gen.Generate()
		require.NoError(t, err)
		assert.Len(t, code, length)
		assert.Regexp(t, `^[A-Za-z0-9_-]+$`, code)
	}
}

func TestCreateLinkRandomCode(t *testing.T) {
	env := newTestEnv(t)
	svc := env.linkService(NewRandomCodeGenerator(6), 10)

	link, err := svc.CreateLink(context.Background(), 1, &dto.ShortenRequest{LongURL: "example.com/page"})
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/page", link.LongURL)
	assert.Len(t, link.ShortCode, 6)
	assert.Equal(t, "http://sho.rt/api/user/"+link.ShortCode, link.ShortURL)
	assert.Nil(t, link.CustomURL)
	assert.Zero(t, link.TotalClicks)
	assert.Nil(t, link.LastClicked)
}

func TestCreateLinkRetriesOnCollision(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.links.Create(ctx, &model.Link{ShortCode: "aaaaaa", LongURL: "https://a.example.com", UserID: 9}))
	require.NoError(t, env.links.Create(ctx, &model.Link{ShortCode: "bbbbbb", LongURL: "https://b.example.com", UserID: 9}))

	gen := &sequenceGenerator{codes: []string{"aaaaaa", "bbbbbb", "cccccc"}}
	link, err := env.linkService(gen, 5).CreateLink(ctx, 1, &dto.ShortenRequest{LongURL: "https://new.example.com"})
	require.NoError(t, err)
	assert.Equal(t, "cccccc", link.ShortCode)
	assert.Equal(t, 3, gen.calls)
}

func TestCreateLinkRetriesWhenUniqueIndexFires(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.links.Create(ctx, &model.Link{ShortCode: "taken1", LongURL: "https://a.example.com", UserID: 9}))

	gen := &sequenceGenerator{codes: []string{"taken1", "fresh1"}}
	svc := NewLinkService(blindLinkStore{env.links}, gen, env.cache, "http://sho.rt", 5)

	link, err := svc.CreateLink(ctx, 1, &dto.ShortenRequest{LongURL: "https://new.example.com"})
	require.NoError(t, err)
	assert.Equal(t, "fresh1", link.ShortCode)
}

func TestCreateLinkGivesUpAfterMaxAttempts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.links.Create(ctx, &model.Link{ShortCode: "stuck1", LongURL: "https://a.example.com", UserID: 9}))

	gen := &sequenceGenerator{codes: []string{"stuck1"}}
	_, err := env.linkService(gen, 3).CreateLink(ctx, 1, &dto.ShortenRequest{LongURL: "https://new.example.com"})
	assert.ErrorIs(t, err, apperrors.ErrInternal)
	assert.Equal(t, 3, gen.calls)
	assert.EqualValues(t, 1, env.countLinks(t))
}

func TestCreateLinkConcurrentCodesAreUnique(t *testing.T) {
	env := newTestEnv(t)
	svc := env.linkService(NewRandomCodeGenerator(6), 10)

	const n = 20
	var wg sync.WaitGroup
	codes := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			link, err := svc.CreateLink(context.Background(), 1, &dto.ShortenRequest{LongURL: fmt.Sprintf("https://example.com/%d", i)})
			if assert.NoError(t, err) {
				codes <- link.ShortCode
			}
		}(i)
	}
	wg.Wait()
	close(codes)

	seen := map[string]bool{}
	for code := range codes {
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
	assert.Len(t, seen, n)
}

func TestCreateLinkCustomCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.linkService(NewRandomCodeGenerator(6), 10)

	link, err := svc.CreateLink(ctx, 1, &dto.ShortenRequest{LongURL: "https://example.com", CustomURL: "promo"})
	require.NoError(t, err)
	assert.Equal(t, "promo", link.ShortCode)
	require.NotNil(t, link.CustomURL)
	assert.Equal(t, "promo", *link.CustomURL)

	_, err = svc.CreateLink(ctx, 2, &dto.ShortenRequest{LongURL: "https://other.example.com", CustomURL: "promo"})
	assert.ErrorIs(t, err, apperrors.ErrCustomURLExists)
	assert.EqualValues(t, 1, env.countLinks(t))
}

func TestCreateLinkCustomCodeRaceMapsToExists(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.links.Create(ctx, &model.Link{ShortCode: "promo", LongURL: "https://a.example.com", UserID: 9}))

	svc := NewLinkService(blindLinkStore{env.links}, NewRandomCodeGenerator(6), env.cache, "http://sho.rt", 5)
	_, err := svc.CreateLink(ctx, 1, &dto.ShortenRequest{LongURL: "https://b.example.com", CustomURL: "promo"})
	assert.ErrorIs(t, err, apperrors.ErrCustomURLExists)
}

func TestCreateLinkValidationOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.linkService(NewRandomCodeGenerator(6), 10)

	_, err := svc.CreateLink(ctx, 1, &dto.ShortenRequest{LongURL: "  ", CustomURL: "bad code"})
	assert.ErrorIs(t, err, apperrors.ErrMissingParameters)

	_, err = svc.CreateLink(ctx, 1, &dto.ShortenRequest{LongURL: "not a url"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.CreateLink(ctx, 1, &dto.ShortenRequest{LongURL: "https://example.com", CustomURL: "urls"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.CreateLink(ctx, 1, &dto.ShortenRequest{LongURL: "https://example.com", CustomURL: "first"})
	require.NoError(t, err)

	// custom availability is checked before the duplicate-link rule
	_, err = svc.CreateLink(ctx, 1, &dto.ShortenRequest{LongURL: "https://example.com", CustomURL: "first"})
	assert.ErrorIs(t, err, apperrors.ErrCustomURLExists)

	_, err = svc.CreateLink(ctx, 1, &dto.ShortenRequest{LongURL: "example.com"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateLink)

	// another user may shorten the same destination
	_, err = svc.CreateLink(ctx, 2, &dto.ShortenRequest{LongURL: "example.com"})
	assert.NoError(t, err)
}

func TestListAndDeleteLinks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.linkService(NewRandomCodeGenerator(6), 10)

	first, err := svc.CreateLink(ctx, 1, &dto.ShortenRequest{LongURL: "https://one.example.com"})
	require.NoError(t, err)
	second, err := svc.CreateLink(ctx, 1, &dto.ShortenRequest{LongURL: "https://two.example.com"})
	require.NoError(t, err)
	_, err = svc.CreateLink(ctx, 2, &dto.ShortenRequest{LongURL: "https://three.example.com"})
	require.NoError(t, err)

	links, err := svc.ListLinks(ctx, 1)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, second.ID, links[0].ID)
	assert.Equal(t, first.ID, links[1].ID)

	firstID := strconv.FormatUint(uint64(first.ID), 10)
	assert.ErrorIs(t, svc.DeleteLink(ctx, 2, firstID), apperrors.ErrShortURLNotFound)
	assert.ErrorIs(t, svc.DeleteLink(ctx, 1, "abc"), apperrors.ErrShortURLNotFound)
	assert.ErrorIs(t, svc.DeleteLink(ctx, 1, "99999"), apperrors.ErrShortURLNotFound)

	require.NoError(t, svc.DeleteLink(ctx, 1, firstID))
	assert.ErrorIs(t, svc.DeleteLink(ctx, 1, firstID), apperrors.ErrShortURLNotFound)

	links, err = svc.ListLinks(ctx, 1)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, second.ID, links[0].ID)

	empty, err := svc.ListLinks(ctx, 42)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
