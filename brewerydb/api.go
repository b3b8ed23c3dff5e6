package brewerydb

import (
	"context"
)

// API defines the BreweryDB endpoints exposed by Client
type API interface {
	ListBreweries(ctx context.Context, params ListBreweriesParams) (any, error)
	GetBrewery(ctx context.Context, id int, metadata bool) (any, error)
	ListBeersForBrewery(ctx context.Context, breweryID int, params PageParams) (any, error)
	ListAllBeers(ctx context.Context, params PageParams) (any, error)
	ListAllStyles(ctx context.Context) (any, error)
	GetStyle(ctx context.Context, id int) (any, error)
	ListAllCategories(ctx context.Context) (any, error)
	GetCategory(ctx context.Context, id int) (any, error)
	ListAllGlassware(ctx context.Context) (any, error)
	GetGlassware(ctx context.Context, id int) (any, error)
	Search(ctx context.Context, params SearchParams) (any, error)
}

// Inspector exposes the state left behind by the most recent call
type Inspector interface {
	LastRequestURI() (string, bool)
	LastRawResponse() (string, bool)
	LastParsedResponse() any
	DecodeLast(v any) error
}

var (
	_ API       = (*Client)(nil)
	_ Inspector = (*Client)(nil)
)
