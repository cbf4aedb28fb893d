package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/store"
)

var searchesCmd = &cobra.Command{
	Use:   "searches",
	Short: "Inspect search history",
	Long:  "Commands for listing, viewing, importing and pruning recorded searches.",
}

// -- searches list --

var searchesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded searches",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		filter, err := filterFromFlags(cmd, time.Now())
		if err != nil {
			return err
		}
		asJSON, _ := cmd.Flags().GetBool("json")

		st, err := requireStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		recs, err := st.ListSearches(ctx, filter)
		if err != nil {
			return eris.Wrap(err, "searches list")
		}
		if asJSON {
			if recs == nil {
				recs = []model.SearchRecord{}
			}
			return printJSON(os.Stdout, recs)
		}
		if len(recs) == 0 {
			fmt.Fprintln(os.Stderr, "No searches found.")
			return nil
		}
		formatSearchesList(os.Stdout, recs)
		return nil
	},
}

// -- searches show --

var searchesShowCmd = &cobra.Command{
	Use:   "show <search-id>",
	Short: "Show a recorded search with its criteria and results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := requireStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		rec, err := st.GetSearch(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(os.Stdout, rec)
	},
}

// -- searches import --

var searchesImportCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import searches from a JSON array, replacing records with the same id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		recs, err := readSearchRecords(args[0])
		if err != nil {
			return err
		}

		st, err := requireStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		n, err := st.ImportSearches(ctx, recs)
		if err != nil {
			return eris.Wrap(err, "searches import")
		}
		fmt.Fprintf(os.Stderr, "Imported %d searches.\n", n)
		return nil
	},
}

// -- searches prune --

var searchesPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete searches older than a cutoff",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		olderThan, _ := cmd.Flags().GetDuration("older-than")
		if olderThan <= 0 {
			return eris.New("searches prune: --older-than must be positive")
		}

		st, err := requireStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		n, err := st.PruneSearches(ctx, time.Now().Add(-olderThan))
		if err != nil {
			return eris.Wrap(err, "searches prune")
		}
		fmt.Fprintf(os.Stderr, "Deleted %d searches.\n", n)
		return nil
	},
}

// filterFromFlags reads --kind, --since, --limit and --offset.
func filterFromFlags(cmd *cobra.Command, now time.Time) (store.SearchFilter, error) {
	f := cmd.Flags()
	var filter store.SearchFilter

	if k, _ := f.GetString("kind"); k != "" {
		kind, err := model.ParseSearchKind(k)
		if err != nil {
			return filter, err
		}
		filter.Kind = kind
	}
	if s, _ := f.GetString("since"); s != "" {
		t, err := parseSince(s, now)
		if err != nil {
			return filter, err
		}
		filter.Since = t
	}
	filter.Limit, _ = f.GetInt("limit")
	filter.Offset, _ = f.GetInt("offset")
	return filter, nil
}

// parseSince accepts a duration back from now ("24h"), a date
// ("2026-01-31") or an RFC 3339 timestamp.
func parseSince(s string, now time.Time) (time.Time, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return now.Add(-d), nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, eris.Errorf("invalid --since %q (want a duration, YYYY-MM-DD or RFC 3339)", s)
}

func readSearchRecords(path string) ([]model.SearchRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read %s", path)
	}
	var recs []model.SearchRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, eris.Wrapf(err, "parse %s", path)
	}
	for i, r := range recs {
		if _, err := model.ParseSearchKind(string(r.Kind)); err != nil {
			return nil, eris.Wrapf(err, "record %d", i)
		}
	}
	return recs, nil
}

// formatSearchesList writes a tabular list of searches to out.
func formatSearchesList(out io.Writer, recs []model.SearchRecord) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tKIND\tCRITERIA\tRESULTS\tWEB\tCREATED\tERROR")
	_, _ = fmt.Fprintln(w, "--\t----\t--------\t-------\t---\t-------\t-----")

	for _, r := range recs {
		web := "no"
		if r.UsedWebSearch {
			web = "yes"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			truncateID(r.ID),
			r.Kind,
			summarizeCriteria(r.Criteria),
			r.ResultCount,
			web,
			r.CreatedAt.Format("2006-01-02 15:04"),
			truncate(r.Error, 40),
		)
	}
	_ = w.Flush()
}

// summarizeCriteria picks the identifying fields of a criteria document.
func summarizeCriteria(raw json.RawMessage) string {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return ""
	}
	var parts []string
	for _, key := range []string{"jobTitle", "company", "fullName", "recipientName", "companyName", "location"} {
		if v, ok := m[key].(string); ok && v != "" {
			parts = append(parts, v)
		}
	}
	return truncate(strings.Join(parts, " / "), 40)
}

func truncate(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n-3]) + "..."
	}
	return s
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func addFilterFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("kind", "", "filter by kind: companies, employees, email_guess, email_content or linkedin")
	f.String("since", "", "only searches after this time (24h, 2026-01-31 or RFC 3339)")
	f.Int("limit", 50, "maximum number of searches")
	f.Int("offset", 0, "number of searches to skip")
}

func init() {
	addFilterFlags(searchesListCmd)
	searchesListCmd.Flags().Bool("json", false, "print JSON instead of a table")
	searchesPruneCmd.Flags().Duration("older-than", 90*24*time.Hour, "delete searches older than this")

	searchesCmd.AddCommand(searchesListCmd, searchesShowCmd, searchesImportCmd, searchesPruneCmd)
	rootCmd.AddCommand(searchesCmd)
}
