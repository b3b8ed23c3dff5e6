package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/s0up4200/brewdb/brewerydb"
	"github.com/s0up4200/brewdb/filter"
)

// printResponse writes the outcome of the last call to stdout. Raw output
// is used when requested or when the body could not be parsed.
func printResponse(cmd *cobra.Command, last brewerydb.Inspector, parsed any) error {
	printURI(cmd, last)

	expr, err := getFilterExpression()
	if err != nil {
		return err
	}

	if expr == "" && (rawOutput || parsed == nil) {
		raw, _ := last.LastRawResponse()
		fmt.Fprintln(cmd.OutOrStdout(), raw)
		return nil
	}

	if expr != "" {
		if parsed == nil {
			return fmt.Errorf("cannot filter a response that is not JSON")
		}
		parsed, err = applyFilter(expr, parsed)
		if err != nil {
			return err
		}
	}

	return writeJSON(cmd.OutOrStdout(), parsed)
}

// respond prints the outcome of a call. Failed calls still report their URI
// with --show-uri.
func respond(cmd *cobra.Command, last brewerydb.Inspector, parsed any, err error) error {
	if err != nil {
		printURI(cmd, last)
		return err
	}
	return printResponse(cmd, last, parsed)
}

func printURI(cmd *cobra.Command, last brewerydb.Inspector) {
	if !showURI {
		return
	}
	if uri, ok := last.LastRequestURI(); ok {
		fmt.Fprintln(cmd.ErrOrStderr(), brewerydb.RedactURI(uri))
	}
}

func applyFilter(expr string, parsed any) (any, error) {
	f, err := filter.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}

	filtered, matches := f.Apply(parsed)
	logger.Info().Str("filter", expr).Int("matches", matches).Msg("Applied filter")

	return filtered, nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format response: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
