// Package batch fetches several BreweryDB records in parallel.
//
// A brewerydb.Client is not safe for concurrent use, so every fetch gets its
// own client from the ClientFactory.
package batch

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/brewdb/brewerydb"
)

const (
	// DefaultConcurrency is used when Fetcher is given a non-positive limit
	DefaultConcurrency = 5
	// MaxConcurrency caps the number of requests in flight
	MaxConcurrency = 20
)

// ClientFactory returns a fresh client for a single fetch
type ClientFactory func() (*brewerydb.Client, error)

// Item is the outcome of fetching one brewery
type Item struct {
	ID       int
	URI      string // apikey redacted
	Response any
	Err      error
}

// Result holds the items in the order the IDs were given
type Result struct {
	Items []Item
}

// Successful returns the items fetched without error
func (r Result) Successful() []Item {
	var items []Item
	for _, item := range r.Items {
		if item.Err == nil {
			items = append(items, item)
		}
	}
	return items
}

// Failed returns the items that could not be fetched
func (r Result) Failed() []Item {
	var items []Item
	for _, item := range r.Items {
		if item.Err != nil {
			items = append(items, item)
		}
	}
	return items
}

// Fetcher fetches breweries concurrently
type Fetcher struct {
	newClient   ClientFactory
	concurrency int
	logger      zerolog.Logger
}

// NewFetcher creates a fetcher running at most concurrency requests at once
func NewFetcher(newClient ClientFactory, concurrency int, logger zerolog.Logger) *Fetcher {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if concurrency > MaxConcurrency {
		concurrency = MaxConcurrency
	}
	return &Fetcher{
		newClient:   newClient,
		concurrency: concurrency,
		logger:      logger,
	}
}

// FetchBreweries calls GetBrewery for every id. Individual failures are
// recorded on their Item and do not stop the other fetches.
func (f *Fetcher) FetchBreweries(ctx context.Context, ids []int, metadata bool) Result {
	result := Result{Items: make([]Item, len(ids))}
	if len(ids) == 0 {
		return result
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)

	for i, id := range ids {
		g.Go(func() error {
			// each goroutine writes only its own slot
			result.Items[i] = f.fetchBrewery(ctx, id, metadata)
			return nil
		})
	}

	// fetches record their own errors and never fail the group
	_ = g.Wait()

	f.logger.Debug().
		Int("requested", len(ids)).
		Int("failed", len(result.Failed())).
		Msg("Batch fetch finished")

	return result
}

func (f *Fetcher) fetchBrewery(ctx context.Context, id int, metadata bool) Item {
	item := Item{ID: id}

	client, err := f.newClient()
	if err != nil {
		item.Err = fmt.Errorf("failed to create client: %w", err)
		return item
	}

	item.Response, item.Err = client.GetBrewery(ctx, id, metadata)
	if uri, ok := client.LastRequestURI(); ok {
		item.URI = brewerydb.RedactURI(uri)
	}

	if item.Err != nil {
		f.logger.Warn().
			Err(item.Err).
			Int("brewery_id", id).
			Msg("Failed to fetch brewery")
	}

	return item
}
