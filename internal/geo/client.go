package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"streamcap/internal/config"
	"streamcap/internal/constants"
	"streamcap/internal/logger"
	"streamcap/pkg/circuitbreaker"
	"streamcap/pkg/metrics"
)

// HTTPPlaceSearcher queries a geocoding endpoint for candidate places. The
// endpoint is expected to answer GET <search_url>?query=<name> with a JSON
// body of the form {"places": [{...}]}.
type HTTPPlaceSearcher struct {
	client    *http.Client
	searchURL string
	breaker   *circuitbreaker.Wrapper
	logger    logger.Logger
}

type placeSearchResponse struct {
	Places []placePayload `json:"places"`
}

type placePayload struct {
	ID          string    `json:"id"`
	FullName    string    `json:"full_name"`
	URL         string    `json:"url"`
	BoundingBox []float64 `json:"bounding_box"`
}

func NewHTTPPlaceSearcher(cfg config.GeoConfig, log logger.Logger) *HTTPPlaceSearcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultHTTPTimeout
	}

	breakerCfg := circuitbreaker.DefaultConfig("place-search")
	if cfg.Breaker.MaxRequests > 0 {
		breakerCfg.MaxRequests = cfg.Breaker.MaxRequests
	}
	if cfg.Breaker.Interval > 0 {
		breakerCfg.Interval = cfg.Breaker.Interval
	}
	if cfg.Breaker.Timeout > 0 {
		breakerCfg.Timeout = cfg.Breaker.Timeout
	}

	return &HTTPPlaceSearcher{
		client:    &http.Client{Timeout: timeout},
		searchURL: cfg.SearchURL,
		breaker:   circuitbreaker.NewWrapper(breakerCfg),
		logger:    log,
	}
}

func (s *HTTPPlaceSearcher) Search(ctx context.Context, query string) ([]Place, error) {
	result, err := s.breaker.ExecuteWithContext(ctx, func() (interface{}, error) {
		return s.search(ctx, query)
	})
	if err != nil {
		s.breaker.RecordRequest(false)
		metrics.PlaceLookupsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	s.breaker.RecordRequest(true)
	metrics.PlaceLookupsTotal.WithLabelValues("ok").Inc()
	return result.([]Place), nil
}

func (s *HTTPPlaceSearcher) search(ctx context.Context, query string) ([]Place, error) {
	u, err := url.Parse(s.searchURL)
	if err != nil {
		return nil, fmt.Errorf("malformed place search URL: %w", err)
	}
	q := u.Query()
	q.Set("query", query)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("place search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("place search returned status: %d", resp.StatusCode)
	}

	var payload placeSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode place search response: %w", err)
	}

	places := make([]Place, 0, len(payload.Places))
	for _, p := range payload.Places {
		place := Place{ID: p.ID, FullName: p.FullName, URL: p.URL}
		if len(p.BoundingBox) == 4 {
			box, err := FromCoords(p.BoundingBox)
			if err == nil {
				place.BoundingBox = &box
			}
		}
		places = append(places, place)
	}
	return places, nil
}
