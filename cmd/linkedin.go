package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sells-group/outreach-cli/internal/outreach"
)

var linkedinCmd = &cobra.Command{
	Use:   "linkedin",
	Short: "Build a LinkedIn people-search URL for a company",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		f := cmd.Flags()

		var q outreach.LinkedInQuery
		q.Company, _ = f.GetString("company")
		q.JobTitle, _ = f.GetString("title")
		q.Location, _ = f.GetString("location")
		q.Mode = outreach.Mode(flagMode)

		env, err := initService(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		res, err := env.Service.LinkedInURL(ctx, q)
		if err != nil {
			return err
		}
		return printJSON(os.Stdout, res)
	},
}

func init() {
	f := linkedinCmd.Flags()
	f.String("company", "", "company name (required)")
	f.String("title", "", "job title keywords")
	f.String("location", "", "city used for the geo filter")
	_ = linkedinCmd.MarkFlagRequired("company")
	rootCmd.AddCommand(linkedinCmd)
}
