package main

import (
	"context"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/outreach"
	"github.com/sells-group/outreach-cli/internal/tabular"
)

var employeesCmd = &cobra.Command{
	Use:   "employees",
	Short: "Find people to contact at a company",
	Long: `Searches the web for employees of a company matching a job title.

With --file, every row of a CSV or XLSX file is searched. The file needs a
header row with "company" and "title" (or "job title") columns and may add
"location" and "max".`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		f := cmd.Flags()
		file, _ := f.GetString("file")
		out, _ := f.GetString("out")

		var single outreach.EmployeeQuery
		if file == "" {
			single.Company, _ = f.GetString("company")
			single.JobTitle, _ = f.GetString("title")
			single.Location, _ = f.GetString("location")
			single.Max, _ = f.GetInt("max")
			if single.Company == "" || single.JobTitle == "" {
				return eris.New("employees: --company and --title are required without --file")
			}
		}

		env, err := initService(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if file == "" {
			single.Mode = outreach.Mode(flagMode)
			res, err := env.Service.SearchEmployees(ctx, single)
			if err != nil {
				return err
			}
			if err := exportEmployees(out, res.Data); err != nil {
				return err
			}
			return printJSON(os.Stdout, res)
		}

		queries, err := readEmployeeQueries(ctx, file)
		if err != nil {
			return err
		}
		concurrency, _ := f.GetInt("concurrency")
		zap.L().Info("employees: batch search",
			zap.String("file", file),
			zap.Int("queries", len(queries)),
			zap.Int("concurrency", concurrency),
		)
		results, err := env.Service.SearchEmployeesBatch(ctx, queries, concurrency)
		if err != nil {
			return err
		}

		var all []model.Employee
		for _, r := range results {
			if r.Envelope != nil {
				all = append(all, r.Envelope.Data...)
			}
		}
		if err := exportEmployees(out, all); err != nil {
			return err
		}
		return printJSON(os.Stdout, results)
	},
}

func exportEmployees(path string, es []model.Employee) error {
	if path == "" {
		return nil
	}
	return eris.Wrap(tabular.WriteFile(path, tabular.Employees(es)), "employees: export")
}

// readEmployeeQueries loads batch queries from a CSV or XLSX file.
func readEmployeeQueries(ctx context.Context, path string) ([]outreach.EmployeeQuery, error) {
	rows, err := tabular.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	queries, err := queriesFromRecords(tabular.Records(rows))
	if err != nil {
		return nil, eris.Wrapf(err, "employees: %s", path)
	}
	return queries, nil
}

func queriesFromRecords(recs []map[string]string) ([]outreach.EmployeeQuery, error) {
	if len(recs) == 0 {
		return nil, eris.New("no queries found")
	}
	mode := outreach.Mode(flagMode)
	queries := make([]outreach.EmployeeQuery, 0, len(recs))
	for i, rec := range recs {
		q := outreach.EmployeeQuery{
			Company:  firstOf(rec, "company", "companyname"),
			JobTitle: firstOf(rec, "title", "jobtitle", "role"),
			Location: firstOf(rec, "location", "city"),
			Mode:     mode,
		}
		if v := rec["max"]; v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, eris.Errorf("row %d: max %q is not a number", i+2, v)
			}
			q.Max = n
		}
		queries = append(queries, q)
	}
	return queries, nil
}

func firstOf(rec map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := rec[k]; v != "" {
			return v
		}
	}
	return ""
}

func init() {
	f := employeesCmd.Flags()
	f.String("company", "", "company to search")
	f.String("title", "", "job title or team to look for")
	f.String("location", "", "location hint")
	f.Int("max", 0, "maximum contacts per company (default from config)")
	f.String("file", "", "CSV or XLSX file of companies to search in batch")
	f.Int("concurrency", 0, "batch concurrency (default from config)")
	f.String("out", "", "also write the contacts to a .csv or .xlsx file")
	rootCmd.AddCommand(employeesCmd)
}
