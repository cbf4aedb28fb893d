package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sells-group/outreach-cli/internal/outreach"
)

var emailCmd = &cobra.Command{
	Use:   "email",
	Short: "Guess work emails and draft outreach emails",
}

// -- email guess --

var emailGuessCmd = &cobra.Command{
	Use:   "guess",
	Short: "Guess a person's work email address",
	Long:  "Asks the provider for the most likely address and alternatives. When the provider cannot answer, a first.last@company pattern guess is returned.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		f := cmd.Flags()

		var q outreach.EmailQuery
		q.FullName, _ = f.GetString("name")
		q.Company, _ = f.GetString("company")
		q.Domain, _ = f.GetString("domain")
		q.Title, _ = f.GetString("title")
		q.Mode = outreach.Mode(flagMode)

		env, err := initService(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		res, err := env.Service.GuessEmail(ctx, q)
		if err != nil {
			return err
		}
		return printJSON(os.Stdout, res)
	},
}

// -- email draft --

var emailDraftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Draft a personalized outreach email",
	Long:  "Writes a subject and body addressed to the recipient. Drafts that come back malformed or too short are replaced by a canned template in the requested language.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		f := cmd.Flags()

		var r outreach.DraftRequest
		r.RecipientName, _ = f.GetString("recipient")
		r.RecipientTitle, _ = f.GetString("recipient-title")
		r.CompanyName, _ = f.GetString("company")
		r.JobTitle, _ = f.GetString("job")
		r.SenderName, _ = f.GetString("sender")
		r.SenderBackground, _ = f.GetString("background")
		r.Language, _ = f.GetString("language")
		r.Tone, _ = f.GetString("tone")

		env, err := initService(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		res, err := env.Service.GenerateEmail(ctx, r)
		if err != nil {
			return err
		}
		return printJSON(os.Stdout, res)
	},
}

func init() {
	g := emailGuessCmd.Flags()
	g.String("name", "", "full name of the person (required)")
	g.String("company", "", "company name (required)")
	g.String("domain", "", "company email domain, if known")
	g.String("title", "", "the person's job title")
	_ = emailGuessCmd.MarkFlagRequired("name")
	_ = emailGuessCmd.MarkFlagRequired("company")

	d := emailDraftCmd.Flags()
	d.String("recipient", "", "recipient name (required)")
	d.String("recipient-title", "", "recipient job title")
	d.String("company", "", "recipient's company (required)")
	d.String("job", "", "job title you are interested in")
	d.String("sender", "", "your name")
	d.String("background", "", "a sentence about your background")
	d.String("language", "en", "email language: en, fr, es or de")
	d.String("tone", "professional", "tone of the email")
	_ = emailDraftCmd.MarkFlagRequired("recipient")
	_ = emailDraftCmd.MarkFlagRequired("company")

	emailCmd.AddCommand(emailGuessCmd, emailDraftCmd)
	rootCmd.AddCommand(emailCmd)
}
