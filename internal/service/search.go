package service

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hello2026ai/skytrips-admin-sub003/internal/cache"
	"github.com/hello2026ai/skytrips-admin-sub003/internal/database"
	"github.com/hello2026ai/skytrips-admin-sub003/internal/events"
	"github.com/hello2026ai/skytrips-admin-sub003/internal/provider"
	"github.com/hello2026ai/skytrips-admin-sub003/internal/search"
	"github.com/hello2026ai/skytrips-admin-sub003/shared/models"
	"golang.org/x/sync/singleflight"
)

var (
	ErrSearchExpired = errors.New("search expired")
	ErrOfferNotFound = errors.New("offer not found")
)

// SearchService defines the flight search service interface
type SearchService interface {
	Search(ctx context.Context, q models.SearchQuery, view search.Query) (*models.SearchResult, error)
	Results(ctx context.Context, token string, view search.Query) (*models.SearchResult, error)
	Offer(ctx context.Context, token, offerID string) (*models.OfferDetail, error)
	RecentSearches(ctx context.Context, limit int) ([]database.SearchRecord, error)
}

// SearchProvider fetches raw offers from the upstream API
type SearchProvider interface {
	Search(ctx context.Context, q models.SearchQuery) (*models.SearchPayload, error)
}

// PayloadCache keeps raw payloads between requests of one results view
type PayloadCache interface {
	Store(ctx context.Context, key, token string, payload *models.SearchPayload) error
	Payload(ctx context.Context, token string) (*models.SearchPayload, error)
	Token(ctx context.Context, key string) (string, error)
}

// SearchRecorder persists the search audit trail
type SearchRecorder interface {
	RecordSearch(ctx context.Context, rec *database.SearchRecord) error
	RecentSearches(ctx context.Context, limit int) ([]database.SearchRecord, error)
}

// searchServiceImpl implements SearchService
type searchServiceImpl struct {
	provider   SearchProvider
	cache      PayloadCache
	recorder   SearchRecorder
	publisher  events.Publisher
	normalizer *search.Normalizer
	group      singleflight.Group
	newToken   func() string
}

// NewSearchService creates a new SearchService
func NewSearchService(p SearchProvider, c PayloadCache, r SearchRecorder, pub events.Publisher, n *search.Normalizer) SearchService {
	if pub == nil {
		pub = events.Noop{}
	}
	if n == nil {
		n = &search.Normalizer{}
	}
	return &searchServiceImpl{
		provider:   p,
		cache:      c,
		recorder:   r,
		publisher:  pub,
		normalizer: n,
		newToken:   func() string { return uuid.New().String() },
	}
}

// fetched is what one upstream call (or cache hit) yields for a key
type fetched struct {
	token   string
	payload *models.SearchPayload
	cached  bool
	failed  bool
}

func (s *searchServiceImpl) Search(ctx context.Context, q models.SearchQuery, view search.Query) (*models.SearchResult, error) {
	if q.Token != "" {
		payload, err := s.cache.Payload(ctx, q.Token)
		if err != nil {
			if !errors.Is(err, cache.ErrMiss) {
				log.Printf("Failed to load cached search %s: %v", q.Token, err)
			}
			return s.render(q.Token, &models.SearchPayload{}, false, view), nil
		}
		return s.render(q.Token, payload, true, view), nil
	}

	key := CacheKey(q)
	v, _, _ := s.group.Do(key, func() (interface{}, error) {
		return s.fetch(context.WithoutCancel(ctx), key, q), nil
	})
	f := v.(*fetched)

	return s.render(f.token, f.payload, f.cached, view), nil
}

// fetch resolves a derived key to a payload: cache first, then the provider.
// It never fails; upstream errors yield an empty payload.
func (s *searchServiceImpl) fetch(ctx context.Context, key string, q models.SearchQuery) *fetched {
	if token, err := s.cache.Token(ctx, key); err == nil {
		if payload, err := s.cache.Payload(ctx, token); err == nil {
			f := &fetched{token: token, payload: payload, cached: true}
			s.record(ctx, key, q, f)
			return f
		}
	} else if !errors.Is(err, cache.ErrMiss) {
		log.Printf("Failed to read search cache for %s: %v", key, err)
	}

	f := &fetched{token: s.newToken()}
	payload, err := s.provider.Search(ctx, q)
	if err != nil {
		if apiErr, ok := provider.AsAPIError(err); ok {
			log.Printf("Flight search failed for %s: status %d: %s", key, apiErr.StatusCode, apiErr.Body)
		} else {
			log.Printf("Flight search failed for %s: %v", key, err)
		}
		f.payload = &models.SearchPayload{Data: []models.RawOffer{}}
		f.failed = true
		s.record(ctx, key, q, f)
		return f
	}

	f.payload = payload
	if err := s.cache.Store(ctx, key, f.token, payload); err != nil {
		log.Printf("Failed to cache search %s: %v", key, err)
	}
	s.record(ctx, key, q, f)
	return f
}

// record writes the audit row and publishes the event; failures are only logged
func (s *searchServiceImpl) record(ctx context.Context, key string, q models.SearchQuery, f *fetched) {
	count := len(f.payload.Data)

	if s.recorder != nil {
		rec := &database.SearchRecord{
			Token:         f.token,
			SearchKey:     key,
			Origin:        provider.ParseIATA(q.Origin),
			Destination:   provider.ParseIATA(q.Destination),
			DepartureDate: provider.DateOnly(q.DepartureDate),
			ReturnDate:    provider.DateOnly(q.ReturnDate),
			Adults:        q.Adults,
			Children:      q.Children,
			Infants:       q.Infants,
			TravelClass:   provider.TravelClass(q.TravelClass),
			TripType:      q.TripType,
			OfferCount:    count,
			Cached:        f.cached,
			Failed:        f.failed,
		}
		if err := s.recorder.RecordSearch(ctx, rec); err != nil {
			log.Printf("Failed to record search %s: %v", f.token, err)
		}
	}

	event := models.SearchEvent{
		Token:       f.token,
		Origin:      provider.ParseIATA(q.Origin),
		Destination: provider.ParseIATA(q.Destination),
		Departure:   provider.DateOnly(q.DepartureDate),
		OfferCount:  count,
		Cached:      f.cached,
		Failed:      f.failed,
		Timestamp:   time.Now().UTC(),
	}
	if err := s.publisher.PublishSearch(ctx, event); err != nil {
		log.Printf("Failed to publish search event %s: %v", f.token, err)
	}
}

func (s *searchServiceImpl) Results(ctx context.Context, token string, view search.Query) (*models.SearchResult, error) {
	payload, err := s.payload(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.render(token, payload, true, view), nil
}

func (s *searchServiceImpl) Offer(ctx context.Context, token, offerID string) (*models.OfferDetail, error) {
	payload, err := s.payload(ctx, token)
	if err != nil {
		return nil, err
	}

	offers, index := s.normalizer.Normalize(payload.Data, payload.Dictionaries)
	raw, ok := index[offerID]
	if !ok {
		return nil, ErrOfferNotFound
	}
	for _, o := range offers {
		if o.ID == offerID {
			return &models.OfferDetail{Token: token, Offer: o, Raw: raw}, nil
		}
	}
	return nil, ErrOfferNotFound
}

func (s *searchServiceImpl) RecentSearches(ctx context.Context, limit int) ([]database.SearchRecord, error) {
	if s.recorder == nil {
		return []database.SearchRecord{}, nil
	}
	return s.recorder.RecentSearches(ctx, limit)
}

func (s *searchServiceImpl) payload(ctx context.Context, token string) (*models.SearchPayload, error) {
	payload, err := s.cache.Payload(ctx, token)
	if errors.Is(err, cache.ErrMiss) {
		return nil, ErrSearchExpired
	}
	return payload, err
}

func (s *searchServiceImpl) render(token string, payload *models.SearchPayload, cached bool, view search.Query) *models.SearchResult {
	v := s.normalizer.Run(*payload, view)
	result := &models.SearchResult{
		Token:        token,
		Offers:       v.Offers,
		Total:        v.Total,
		Visible:      view.Count,
		HasMore:      v.HasMore,
		Cached:       cached,
		Dictionaries: payload.Dictionaries,
	}
	if v.HasMore {
		result.NextCount = search.NextCount(view.Count)
	}
	return result
}

// CacheKey derives the dedup and cache key of a search. Equivalent inputs
// ("Sydney (SYD)" and "SYD", dates with or without a time) share a key.
func CacheKey(q models.SearchQuery) string {
	tripType := q.TripType
	if tripType == "" {
		tripType = models.TripTypeRoundTrip
	}
	parts := []string{
		provider.ParseIATA(q.Origin),
		provider.ParseIATA(q.Destination),
		provider.DateOnly(q.DepartureDate),
		provider.DateOnly(q.ReturnDate),
		strconv.Itoa(q.Adults),
		strconv.Itoa(q.Children),
		strconv.Itoa(q.Infants),
		provider.TravelClass(q.TravelClass),
		tripType,
		strconv.FormatBool(q.NonStop),
	}
	return strings.Join(parts, "|")
}
