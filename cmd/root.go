package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/config"
)

var cfg *config.Config

var (
	flagProvider string
	flagMode     string
	flagStore    string
)

var rootCmd = &cobra.Command{
	Use:          "outreach",
	Short:        "AI-assisted job search outreach",
	Long:         "Suggests target companies, finds contacts, guesses work emails, drafts outreach emails and builds LinkedIn people-search links using a web-search capable AI provider.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if flagProvider != "" {
			c.Provider.Name = flagProvider
		}
		if flagMode != "" {
			c.Provider.Mode = flagMode
		}
		if flagStore != "" {
			c.Store.Driver = flagStore
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagProvider, "provider", "", "AI provider: openai, anthropic, perplexity or gemini (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagMode, "mode", "", "call mode: auto, web_search or standard (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagStore, "store", "", "search history driver: sqlite, postgres or none (default from config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
