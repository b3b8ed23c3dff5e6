package brewerydb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Number decodes a JSON number that may also be sent as a quoted string
type Number float64

// UnmarshalJSON accepts 5.2, "5.2", "" and null
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid number %q: %w", data, err)
	}
	*n = Number(f)
	return nil
}

// Images holds the image URLs of a brewery or beer
type Images struct {
	Icon   string `json:"icon,omitempty"`
	Medium string `json:"medium,omitempty"`
	Large  string `json:"large,omitempty"`
}

// Brewery represents a brewery
type Brewery struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Website     string  `json:"website,omitempty"`
	Established string  `json:"established,omitempty"`
	Images      *Images `json:"images,omitempty"`
	CreateDate  string  `json:"createDate,omitempty"`
	UpdateDate  string  `json:"updateDate,omitempty"`
	Latitude    Number  `json:"latitude,omitempty"`
	Longitude   Number  `json:"longitude,omitempty"`
	Distance    Number  `json:"distance,omitempty"`
}

// Beer represents a beer
type Beer struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ABV         Number    `json:"abv,omitempty"`
	IBU         Number    `json:"ibu,omitempty"`
	StyleID     int       `json:"styleId,omitempty"`
	GlasswareID int       `json:"glasswareId,omitempty"`
	Style       *Style    `json:"style,omitempty"`
	Glass       *Glass    `json:"glass,omitempty"`
	Breweries   []Brewery `json:"breweries,omitempty"`
	Images      *Images   `json:"images,omitempty"`
	IsOrganic   string    `json:"isOrganic,omitempty"`
	CreateDate  string    `json:"createDate,omitempty"`
	UpdateDate  string    `json:"updateDate,omitempty"`
}

// Style represents a beer style
type Style struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CategoryID  int       `json:"categoryId,omitempty"`
	Category    *Category `json:"category,omitempty"`
	ABVMin      Number    `json:"abvMin,omitempty"`
	ABVMax      Number    `json:"abvMax,omitempty"`
	IBUMin      Number    `json:"ibuMin,omitempty"`
	IBUMax      Number    `json:"ibuMax,omitempty"`
}

// Category represents a beer category
type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Glass represents a type of glassware
type Glass struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// SearchResult is a search hit. Type tells which of the fields are meaningful.
type SearchResult struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	ABV         Number `json:"abv,omitempty"`
	Website     string `json:"website,omitempty"`
}

// ListResponse is the paginated envelope of the list endpoints
type ListResponse[T any] struct {
	CurrentPage   int    `json:"currentPage"`
	NumberOfPages int    `json:"numberOfPages"`
	TotalResults  int    `json:"totalResults"`
	Data          []T    `json:"data"`
	Status        string `json:"status"`
}

// HasMorePages checks if there are more pages to fetch
func (r *ListResponse[T]) HasMorePages() bool {
	return r.CurrentPage < r.NumberOfPages
}

// ItemResponse is the envelope of the single-record endpoints
type ItemResponse[T any] struct {
	Data   T      `json:"data"`
	Status string `json:"status"`
}

// Envelopes returned by the endpoint methods, for use with DecodeLast
type (
	BreweriesResponse  = ListResponse[Brewery]
	BreweryResponse    = ItemResponse[Brewery]
	BeersResponse      = ListResponse[Beer]
	StylesResponse     = ListResponse[Style]
	StyleResponse      = ItemResponse[Style]
	CategoriesResponse = ListResponse[Category]
	CategoryResponse   = ItemResponse[Category]
	GlasswareResponse  = ListResponse[Glass]
	GlassResponse      = ItemResponse[Glass]
	SearchResponse     = ListResponse[SearchResult]
)

var _ json.Unmarshaler = (*Number)(nil)
