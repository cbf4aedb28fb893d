package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/outreach"
	"github.com/sells-group/outreach-cli/internal/tabular"
)

var companiesCmd = &cobra.Command{
	Use:   "companies",
	Short: "Suggest companies hiring for a job title",
	Long:  "Asks the provider for companies matching the search criteria, using live web search when available. Prints the result envelope as JSON.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		criteria := criteriaFromFlags(cmd)
		out, _ := cmd.Flags().GetString("out")

		env, err := initService(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		res, err := env.Service.SearchCompanies(ctx, criteria, outreach.Mode(flagMode))
		if err != nil {
			return err
		}
		if out != "" {
			if err := tabular.WriteFile(out, tabular.Companies(res.Data)); err != nil {
				return eris.Wrap(err, "companies: export")
			}
		}
		return printJSON(os.Stdout, res)
	},
}

// criteriaFromFlags reads the search criteria flags.
func criteriaFromFlags(cmd *cobra.Command) model.SearchCriteria {
	f := cmd.Flags()
	var c model.SearchCriteria
	c.JobTitle, _ = f.GetString("title")
	c.Location, _ = f.GetString("location")
	c.JobType, _ = f.GetString("job-type")
	c.Industry, _ = f.GetString("industry")
	c.CompanySize, _ = f.GetString("size")
	c.ExperienceLevel, _ = f.GetString("experience")
	c.Keywords, _ = f.GetStringSlice("keywords")
	c.Language, _ = f.GetString("language")
	c.ExpectedSalary, _ = f.GetString("salary")
	c.Exclusions, _ = f.GetStringSlice("exclude")
	return c
}

func init() {
	f := companiesCmd.Flags()
	f.String("title", "", "job title to search for (required)")
	f.String("location", "", "city or region, e.g. \"Austin, TX\"")
	f.String("job-type", "", "full-time, part-time, contract, ...")
	f.String("industry", "", "industry filter")
	f.String("size", "", "company size, e.g. 50-200")
	f.String("experience", "", "experience level")
	f.StringSlice("keywords", nil, "comma-separated keywords")
	f.String("language", "", "working language")
	f.String("salary", "", "expected salary")
	f.StringSlice("exclude", nil, "company names to exclude")
	f.String("out", "", "also write the companies to a .csv or .xlsx file")
	_ = companiesCmd.MarkFlagRequired("title")
	rootCmd.AddCommand(companiesCmd)
}
