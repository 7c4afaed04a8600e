package feed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bilgisen/feedview/internal/cache"
	"github.com/bilgisen/feedview/internal/logger"
	"github.com/bilgisen/feedview/internal/models"
	"github.com/bilgisen/feedview/internal/utils"
	"github.com/go-resty/resty/v2"
)

// LatestPath is the backend endpoint listing the newest items
const LatestPath = "/api/latest"

// Endpoint joins the backend base URL with LatestPath
func Endpoint(baseURL string) string {
	return baseURL + LatestPath
}

type Fetcher struct {
	client *resty.Client
	parser *Parser
	cache  cache.Store
}

// NewFetcher creates a fetcher. store may be nil, in which case every policy behaves as NoStore.
func NewFetcher(timeout time.Duration, store cache.Store) *Fetcher {
	return &Fetcher{
		client: resty.New().
			SetTimeout(timeout).
			SetRetryCount(0),
		parser: NewParser(),
		cache:  store,
	}
}

// Fetch retrieves the latest items from the backend at baseURL. It either
// returns the complete validated list or a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, baseURL string, policy CachePolicy) ([]models.FeedItem, error) {
	endpoint := Endpoint(baseURL)
	key := utils.CacheKey("latest", endpoint)
	useCache := policy.Cacheable() && f.cache != nil

	if useCache {
		if items, ok := f.cached(ctx, key); ok {
			logger.Get().Debug().
				Str("endpoint", endpoint).
				Int("items", len(items)).
				Msg("Serving feed from cache")
			return items, nil
		}
	}

	req := f.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json")
	if !policy.Cacheable() {
		req.SetHeader("Cache-Control", "no-cache")
	}

	resp, err := req.Get(endpoint)
	if err != nil {
		return nil, &FetchError{Kind: FailureTransport, Endpoint: endpoint, Err: err}
	}

	if !resp.IsSuccess() {
		return nil, &FetchError{Kind: FailureStatus, Endpoint: endpoint, Status: resp.StatusCode()}
	}

	items, err := f.parser.Parse(resp.Body())
	if err != nil {
		return nil, &FetchError{Kind: FailurePayload, Endpoint: endpoint, Err: err}
	}

	if useCache {
		f.store(ctx, key, items, policy.Revalidate)
	}

	return items, nil
}

func (f *Fetcher) cached(ctx context.Context, key string) ([]models.FeedItem, bool) {
	log := logger.Get()

	data, ok, err := f.cache.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Feed cache lookup failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var items []models.FeedItem
	if err := json.Unmarshal(data, &items); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Discarding unreadable cache entry")
		return nil, false
	}
	return items, true
}

func (f *Fetcher) store(ctx context.Context, key string, items []models.FeedItem, ttl time.Duration) {
	data, err := json.Marshal(items)
	if err != nil {
		logger.Get().Warn().Err(err).Msg("Failed to encode feed for cache")
		return
	}
	if err := f.cache.Set(ctx, key, data, ttl); err != nil {
		logger.Get().Warn().Err(err).Str("key", key).Msg("Failed to cache feed")
	}
}
