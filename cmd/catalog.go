package cmd

import (
	"github.com/spf13/cobra"

	"github.com/s0up4200/brewdb/brewerydb"
)

var (
	page       int
	noMetadata bool
	since      string

	geo       bool
	lat       float64
	lng       float64
	radius    int
	units     string
	breweryID int
	searchTyp string
)

func addPageFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&page, "page", 1, "page number (results are returned 50 at a time)")
	cmd.Flags().BoolVar(&noMetadata, "no-metadata", false, "omit extended metadata")
}

func addSinceFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&since, "since", "", "only records created since a UTC date (YYYY-MM-DD)")
}

func pageParams() brewerydb.PageParams {
	return brewerydb.PageParams{
		Page:     page,
		Metadata: brewerydb.Bool(!noMetadata),
		Since:    since,
	}
}

// breweriesCmd represents the breweries command
var breweriesCmd = &cobra.Command{
	Use:   "breweries",
	Short: "List breweries, optionally around a location",
	Args:  cobra.NoArgs,
	RunE:  runBreweries,
}

func init() {
	addPageFlags(breweriesCmd)
	addSinceFlag(breweriesCmd)
	breweriesCmd.Flags().BoolVar(&geo, "geo", false, "search around --lat/--lng")
	breweriesCmd.Flags().Float64Var(&lat, "lat", 0, "latitude for a geo search")
	breweriesCmd.Flags().Float64Var(&lng, "lng", 0, "longitude for a geo search")
	breweriesCmd.Flags().IntVar(&radius, "radius", 50, "radius for a geo search")
	breweriesCmd.Flags().StringVar(&units, "units", "miles", "radius units (miles or km)")
}

func runBreweries(cmd *cobra.Command, args []string) error {
	params := brewerydb.ListBreweriesParams{
		PageParams: pageParams(),
		Geo:        geo,
		Radius:     radius,
		Units:      units,
	}
	// unset flags stay nil so the client can reject an incomplete geo search
	if cmd.Flags().Changed("lat") {
		params.Lat = brewerydb.Float(lat)
	}
	if cmd.Flags().Changed("lng") {
		params.Lng = brewerydb.Float(lng)
	}

	logger.Debug().Bool("geo", geo).Int("page", page).Msg("Listing breweries")

	parsed, err := client.ListBreweries(cmd.Context(), params)
	return respond(cmd, client, parsed, err)
}

// breweryCmd represents the brewery command
var breweryCmd = &cobra.Command{
	Use:   "brewery <id>",
	Short: "Show a single brewery",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		parsed, err := client.GetBrewery(cmd.Context(), id, !noMetadata)
		return respond(cmd, client, parsed, err)
	},
}

func init() {
	breweryCmd.Flags().BoolVar(&noMetadata, "no-metadata", false, "omit extended metadata")
}

// beersCmd represents the beers command
var beersCmd = &cobra.Command{
	Use:   "beers",
	Short: "List beers, optionally for a single brewery",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			parsed any
			err    error
		)
		if breweryID > 0 {
			parsed, err = client.ListBeersForBrewery(cmd.Context(), breweryID, pageParams())
		} else {
			parsed, err = client.ListAllBeers(cmd.Context(), pageParams())
		}
		return respond(cmd, client, parsed, err)
	},
}

func init() {
	addPageFlags(beersCmd)
	addSinceFlag(beersCmd)
	beersCmd.Flags().IntVar(&breweryID, "brewery", 0, "only beers brewed by this brewery id")
}

// lookupCommand builds a "<name> [id]" command that lists every record
// or shows one of them
func lookupCommand(use, short string, list func(*cobra.Command) (any, error), get func(*cobra.Command, int) (any, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [id]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				parsed any
				err    error
			)
			if len(args) == 1 {
				id, perr := parseID(args[0])
				if perr != nil {
					return perr
				}
				parsed, err = get(cmd, id)
			} else {
				parsed, err = list(cmd)
			}
			return respond(cmd, client, parsed, err)
		},
	}
}

var stylesCmd = lookupCommand("styles", "List beer styles or show one",
	func(cmd *cobra.Command) (any, error) { return client.ListAllStyles(cmd.Context()) },
	func(cmd *cobra.Command, id int) (any, error) { return client.GetStyle(cmd.Context(), id) },
)

var categoriesCmd = lookupCommand("categories", "List beer categories or show one",
	func(cmd *cobra.Command) (any, error) { return client.ListAllCategories(cmd.Context()) },
	func(cmd *cobra.Command, id int) (any, error) { return client.GetCategory(cmd.Context(), id) },
)

var glasswareCmd = lookupCommand("glassware", "List glassware or show one",
	func(cmd *cobra.Command) (any, error) { return client.ListAllGlassware(cmd.Context()) },
	func(cmd *cobra.Command, id int) (any, error) { return client.GetGlassware(cmd.Context(), id) },
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search beers and breweries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parsed, err := client.Search(cmd.Context(), brewerydb.SearchParams{
			Query:    args[0],
			Type:     searchTyp,
			Metadata: brewerydb.Bool(!noMetadata),
			Page:     page,
		})
		return respond(cmd, client, parsed, err)
	},
}

func init() {
	addPageFlags(searchCmd)
	searchCmd.Flags().StringVarP(&searchTyp, "type", "t", "", `restrict to "beer" or "brewery"`)
}
