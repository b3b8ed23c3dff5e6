package brewerydb

import (
	"context"
	"strconv"
	"strings"
)

// Search types accepted by Search
const (
	SearchTypeAny     = ""
	SearchTypeBeer    = "beer"
	SearchTypeBrewery = "brewery"
)

const (
	defaultPage   = 1
	defaultRadius = 50
	defaultUnits  = "miles"
)

// Bool returns a pointer to b
func Bool(b bool) *bool {
	return &b
}

// Float returns a pointer to f
func Float(f float64) *float64 {
	return &f
}

// PageParams are the paging arguments shared by the list endpoints
type PageParams struct {
	// Page defaults to 1. Results come back 50 at a time.
	Page int
	// Metadata defaults to true when nil
	Metadata *bool
	// Since limits results to records created on or after a UTC date (YYYY-MM-DD)
	Since string
}

func (p PageParams) args() Args {
	args := Args{
		"page":     pageOrDefault(p.Page),
		"metadata": metadataOrDefault(p.Metadata),
	}
	if p.Since != "" {
		args["since"] = p.Since
	}
	return args
}

// ListBreweriesParams are the arguments of ListBreweries
type ListBreweriesParams struct {
	PageParams

	// Geo enables a radius search around Lat/Lng, both of which are then required
	Geo    bool
	Lat    *float64
	Lng    *float64
	Radius int    // defaults to 50
	Units  string // defaults to "miles"
}

// SearchParams are the arguments of Search
type SearchParams struct {
	Query    string
	Type     string // "", "beer" or "brewery"
	Metadata *bool
	Page     int
}

func pageOrDefault(page int) int {
	if page <= 0 {
		return defaultPage
	}
	return page
}

func metadataOrDefault(metadata *bool) bool {
	if metadata == nil {
		return true
	}
	return *metadata
}

// ListBreweries returns a page of breweries, optionally around a location
func (c *Client) ListBreweries(ctx context.Context, params ListBreweriesParams) (any, error) {
	if params.Geo && (params.Lat == nil || params.Lng == nil) {
		return nil, &ValidationError{
			Field:  "geo",
			Reason: "lat and lng are required for a geo search",
		}
	}

	args := params.args()

	if params.Geo {
		radius := params.Radius
		if radius <= 0 {
			radius = defaultRadius
		}
		units := params.Units
		if units == "" {
			units = defaultUnits
		}

		args["geo"] = 1
		args["lat"] = *params.Lat
		args["lng"] = *params.Lng
		args["radius"] = radius
		args["units"] = units
	}

	return c.request(ctx, "breweries", args)
}

// GetBrewery returns a single brewery
func (c *Client) GetBrewery(ctx context.Context, id int, metadata bool) (any, error) {
	return c.request(ctx, "breweries/"+strconv.Itoa(id), Args{"metadata": metadata})
}

// ListBeersForBrewery returns the beers brewed by breweryID
func (c *Client) ListBeersForBrewery(ctx context.Context, breweryID int, params PageParams) (any, error) {
	args := params.args()
	args["brewery_id"] = breweryID
	return c.request(ctx, "beers", args)
}

// ListAllBeers returns a page of beers
func (c *Client) ListAllBeers(ctx context.Context, params PageParams) (any, error) {
	return c.request(ctx, "beers", params.args())
}

// ListAllStyles returns every beer style
func (c *Client) ListAllStyles(ctx context.Context) (any, error) {
	return c.request(ctx, "styles", Args{})
}

// GetStyle returns a single beer style
func (c *Client) GetStyle(ctx context.Context, id int) (any, error) {
	return c.request(ctx, "styles/"+strconv.Itoa(id), Args{})
}

// ListAllCategories returns every beer category
func (c *Client) ListAllCategories(ctx context.Context) (any, error) {
	return c.request(ctx, "categories", Args{})
}

// GetCategory returns a single beer category
func (c *Client) GetCategory(ctx context.Context, id int) (any, error) {
	return c.request(ctx, "categories/"+strconv.Itoa(id), Args{})
}

// ListAllGlassware returns every type of glassware
func (c *Client) ListAllGlassware(ctx context.Context) (any, error) {
	return c.request(ctx, "glassware", Args{})
}

// GetGlassware returns a single type of glassware
func (c *Client) GetGlassware(ctx context.Context, id int) (any, error) {
	return c.request(ctx, "glassware/"+strconv.Itoa(id), Args{})
}

// Search queries beers and breweries. Type is matched case-insensitively.
func (c *Client) Search(ctx context.Context, params SearchParams) (any, error) {
	searchType := strings.ToLower(params.Type)
	switch searchType {
	case SearchTypeAny, SearchTypeBeer, SearchTypeBrewery:
	default:
		return nil, &ValidationError{
			Field:  "type",
			Reason: `must be "beer", "brewery", or empty`,
		}
	}

	args := Args{
		"q":        params.Query,
		"page":     pageOrDefault(params.Page),
		"metadata": metadataOrDefault(params.Metadata),
	}
	if searchType != SearchTypeAny {
		args["type"] = searchType
	}

	return c.request(ctx, "search", args)
}
