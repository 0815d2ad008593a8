package geo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"streamcap/internal/logger"
	"streamcap/pkg/retry"
)

var (
	ErrPlaceNotFound = errors.New("no such place")
	ErrNoBoundingBox = errors.New("place does not have a bounding box")
)

// Place is one candidate returned by a remote place search.
type Place struct {
	ID          string
	FullName    string
	URL         string
	BoundingBox *BoundingBox
}

// PlaceSearcher is the remote place-search collaborator.
type PlaceSearcher interface {
	Search(ctx context.Context, query string) ([]Place, error)
}

type Resolver struct {
	searcher PlaceSearcher
	policy   retry.Policy
	logger   logger.Logger
}

func NewResolver(searcher PlaceSearcher, log logger.Logger) *Resolver {
	return &Resolver{
		searcher: searcher,
		policy:   retry.DefaultPolicy(),
		logger:   log,
	}
}

// Resolve turns a named location query into a bounding box: alias table
// first, remote search second. Candidate place names are compared exactly
// after whitespace normalization and case folding.
func (r *Resolver) Resolve(ctx context.Context, query string) (BoundingBox, error) {
	box, ok, err := LookupAlias(query)
	if err != nil {
		return BoundingBox{}, err
	}
	if ok {
		return box, nil
	}

	var places []Place
	err = retry.Retry(ctx, r.policy, func() error {
		var searchErr error
		places, searchErr = r.searcher.Search(ctx, query)
		return searchErr
	})
	if err != nil {
		return BoundingBox{}, fmt.Errorf("place search for %q: %w", query, err)
	}

	want := normalizePlaceName(query)
	for _, place := range places {
		r.logger.Debugw("considering place", "full_name", place.FullName)
		if normalizePlaceName(place.FullName) != want {
			continue
		}

		r.logger.Infow("found matching place",
			"full_name", place.FullName,
			"id", place.ID,
			"url", place.URL,
		)
		if place.BoundingBox == nil {
			return BoundingBox{}, fmt.Errorf("%w: %q", ErrNoBoundingBox, place.FullName)
		}
		r.logger.Infow("resolved location box", "box", place.BoundingBox.String())
		return *place.BoundingBox, nil
	}

	return BoundingBox{}, fmt.Errorf("%w: %q", ErrPlaceNotFound, query)
}

func normalizePlaceName(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", ""))
}
