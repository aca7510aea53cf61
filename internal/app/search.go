package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"booking_search/internal/adapters/observability"
	"booking_search/internal/domain"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100

	// CacheKeyPrefix namespaces cached search pages.
	CacheKeyPrefix = "search:v1:"

	// SharedSearchTimeout bounds a deduplicated search, which no longer
	// follows any caller's context.
	SharedSearchTimeout = 10 * time.Second
)

// SearchStore is everything the engine reads.
type SearchStore interface {
	domain.EstablishmentStore
	domain.RoomStore
	domain.ReservationStore
}

type SearchService struct {
	store        SearchStore
	cache        domain.Cache
	cacheTTL     time.Duration
	defaultLimit int
	flight       singleflight.Group
}

// NewSearchService builds the engine. cache may be nil; a ttl under one
// second disables caching.
func NewSearchService(s SearchStore, c domain.Cache, ttl time.Duration, defaultLimit int) *SearchService {
	if defaultLimit <= 0 || defaultLimit > MaxLimit {
		defaultLimit = DefaultLimit
	}
	return &SearchService{store: s, cache: c, cacheTTL: ttl, defaultLimit: defaultLimit}
}

// SearchGlobal validates raw, then returns one ranked page of establishments
// and rooms. Errors are *domain.ValidationError or *domain.SearchError.
func (s *SearchService) SearchGlobal(ctx context.Context, raw map[string]any, opts domain.SearchOptions) (domain.SearchPage, error) {
	start := time.Now()
	page, err := s.searchGlobal(ctx, raw, opts)
	observability.ObserveSearch(outcome(err), time.Since(start), len(page.Results))
	return page, err
}

func (s *SearchService) searchGlobal(ctx context.Context, raw map[string]any, opts domain.SearchOptions) (domain.SearchPage, error) {
	q, err := ValidateQuery(raw)
	if err != nil {
		return domain.SearchPage{}, err
	}
	limit, err := s.limit(opts.Limit)
	if err != nil {
		return domain.SearchPage{}, err
	}
	cur, err := parseCursor(opts.Cursor)
	if err != nil {
		return domain.SearchPage{}, err
	}

	if s.cache == nil || s.cacheTTL < time.Second {
		return s.search(ctx, q, cur, limit)
	}

	key := cacheKey(q, cur, limit)
	var cached domain.SearchPage
	if ok, cerr := s.cache.Get(ctx, key, &cached); cerr != nil {
		log.Warn().Err(cerr).Str("key", key).Msg("search cache read failed")
	} else if ok {
		return cached, nil
	}

	// The shared call outlives any single caller; each caller stops waiting
	// when its own context ends.
	ch := s.flight.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), SharedSearchTimeout)
		defer cancel()
		page, err := s.search(fctx, q, cur, limit)
		if err != nil {
			return domain.SearchPage{}, err
		}
		if serr := s.cache.Set(fctx, key, page, s.cacheTTL); serr != nil {
			log.Warn().Err(serr).Str("key", key).Msg("search cache write failed")
		}
		return page, nil
	})
	select {
	case <-ctx.Done():
		return domain.SearchPage{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return domain.SearchPage{}, res.Err
		}
		return res.Val.(domain.SearchPage), nil
	}
}

func (s *SearchService) limit(n int) (int, error) {
	switch {
	case n < 0:
		return 0, domain.NewValidationError(domain.OutOfRange, "limit", "must not be negative")
	case n == 0:
		return s.defaultLimit, nil
	case n > MaxLimit:
		return MaxLimit, nil
	}
	return n, nil
}

// search runs availability first, then both fetchers concurrently. Either
// fetch failing fails the page.
func (s *SearchService) search(ctx context.Context, q domain.Query, cur cursor, limit int) (domain.SearchPage, error) {
	estTags, roomTags := SplitServiceTags(q.Services)

	var reserved []int64
	if q.HasStay() {
		ids, err := s.store.ReservedRoomIDs(ctx, *q.CheckIn, *q.CheckOut)
		if err != nil {
			return domain.SearchPage{}, s.storageFailure(ctx, "availability", err)
		}
		reserved = ids
	}
	ef := EstablishmentFilterFor(q, estTags)
	rf := RoomFilterFor(q, roomTags, reserved)

	var (
		ests  []domain.EstablishmentResult
		rooms []domain.RoomResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ests, err = s.store.FindEstablishments(gctx, ef, domain.Keyset{After: cur.establishment, Limit: limit})
		return err
	})
	g.Go(func() error {
		var err error
		rooms, err = s.store.FindRooms(gctx, rf, domain.Keyset{After: cur.room, Limit: limit})
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.SearchPage{}, s.storageFailure(ctx, "fetch", err)
	}

	return mergePage(ests, rooms, q, limit, cur), nil
}

// storageFailure maps a failed read. A read cut short by the caller's own
// context is not a store failure and surfaces as the context error.
func (s *SearchService) storageFailure(ctx context.Context, stage string, err error) error {
	if cerr := ctx.Err(); cerr != nil {
		log.Debug().Err(err).Str("stage", stage).Msg("search abandoned")
		return cerr
	}
	log.Error().Err(err).Str("stage", stage).Msg("search store read failed")
	return domain.NewStorageError(err)
}

func cacheKey(q domain.Query, cur cursor, limit int) string {
	b, _ := json.Marshal(struct {
		Q      domain.Query `json:"q"`
		Cursor string       `json:"c"`
		Limit  int          `json:"l"`
	}{q, cur.String(), limit})
	sum := sha1.Sum(b)
	return CacheKeyPrefix + hex.EncodeToString(sum[:])
}

func outcome(err error) string {
	var ve *domain.ValidationError
	var se *domain.SearchError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &ve):
		return "invalid"
	case errors.As(err, &se):
		return "unavailable"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	}
	return "error"
}
