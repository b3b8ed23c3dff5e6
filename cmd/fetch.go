package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/brewdb/batch"
	"github.com/s0up4200/brewdb/filter"
)

var concurrency int

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch <id>...",
	Short: "Fetch several breweries in parallel",
	Long: `Fetch several breweries by id at once. Each request uses its own client,
at most --concurrency (default batch.concurrency from config) at a time.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "maximum parallel requests")
	fetchCmd.Flags().BoolVar(&noMetadata, "no-metadata", false, "omit extended metadata")
}

type fetchOutput struct {
	ID       int    `json:"id"`
	URI      string `json:"uri,omitempty"`
	Response any    `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

func runFetch(cmd *cobra.Command, args []string) error {
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	limit := cfg.Batch.Concurrency
	if cmd.Flags().Changed("concurrency") {
		limit = concurrency
	}

	expr, err := getFilterExpression()
	if err != nil {
		return err
	}
	var f *filter.Filter
	if expr != "" {
		if f, err = filter.Compile(expr); err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
	}

	logger.Info().Int("breweries", len(ids)).Int("concurrency", limit).Msg("Fetching breweries")

	fetcher := batch.NewFetcher(newClient, limit, logger)
	result := fetcher.FetchBreweries(cmd.Context(), ids, !noMetadata)

	out := make([]fetchOutput, 0, len(result.Items))
	for _, item := range result.Items {
		entry := fetchOutput{ID: item.ID, URI: item.URI, Response: item.Response}
		if item.Err != nil {
			entry.Error = item.Err.Error()
		} else if f != nil {
			if _, matches := f.Apply(item.Response); matches == 0 {
				continue
			}
		}
		if !showURI {
			entry.URI = ""
		}
		out = append(out, entry)
	}

	if err := writeJSON(cmd.OutOrStdout(), out); err != nil {
		return err
	}

	if failed := len(result.Failed()); failed > 0 {
		return fmt.Errorf("%d of %d breweries could not be fetched", failed, len(ids))
	}
	return nil
}
