package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/tabular"
)

var exportCmd = &cobra.Command{
	Use:   "export <file.csv|file.xlsx>",
	Short: "Export search history to CSV or XLSX",
	Long: `Writes recorded searches to a spreadsheet. By default one row is written
per search. With --results and a single --kind of companies, employees or
email_guess, the stored results are expanded one row per record instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		filter, err := filterFromFlags(cmd, time.Now())
		if err != nil {
			return err
		}
		results, _ := cmd.Flags().GetBool("results")
		if results && filter.Kind == "" {
			return eris.New("export: --results needs --kind")
		}

		st, err := requireStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		recs, err := st.ListSearches(ctx, filter)
		if err != nil {
			return eris.Wrap(err, "export")
		}

		table := tabular.Searches(recs)
		if results {
			table, err = resultsTable(filter.Kind, recs)
			if err != nil {
				return err
			}
		}
		if err := tabular.WriteFile(args[0], table); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %d rows to %s.\n", len(table.Rows), args[0])
		return nil
	},
}

// resultsTable expands the stored results of recs into one table.
func resultsTable(kind model.SearchKind, recs []model.SearchRecord) (tabular.Table, error) {
	switch kind {
	case model.KindCompanies:
		all, err := collect[model.Company](recs)
		return tabular.Companies(all), err
	case model.KindEmployees:
		all, err := collect[model.Employee](recs)
		return tabular.Employees(all), err
	case model.KindEmailGuess:
		all, err := collect[model.EmailGuess](recs)
		return tabular.EmailGuesses(all), err
	default:
		return tabular.Table{}, eris.Errorf("export: --results does not support kind %q", kind)
	}
}

func collect[T any](recs []model.SearchRecord) ([]T, error) {
	var all []T
	for _, r := range recs {
		if len(r.Result) == 0 {
			continue
		}
		var items []T
		if err := json.Unmarshal(r.Result, &items); err != nil {
			return nil, eris.Wrapf(err, "export: decode results of %s", r.ID)
		}
		all = append(all, items...)
	}
	return all, nil
}

func init() {
	addFilterFlags(exportCmd)
	exportCmd.Flags().Bool("results", false, "expand stored results instead of one row per search")
	rootCmd.AddCommand(exportCmd)
}
