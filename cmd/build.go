package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/explorer-docs/docaug/internal/site"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render the markdown docs directory into a static site",
	Long: `Renders every markdown file of the docs directory to an HTML page in the
site directory. Trace and guardrail fences become marked code blocks that
"docaug augment" and "docaug serve" pick up. Other files are copied as is.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().String("docs", "", "docs directory (overrides config)")
	buildCmd.Flags().String("output", "", "site directory (overrides config)")
	buildCmd.Flags().Bool("augment", false, "augment the built site afterwards")
	buildCmd.Flags().Bool("strict", false, "with --augment, exit with an error when the explorer is unreachable")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if docs, _ := cmd.Flags().GetString("docs"); docs != "" {
		cfg.DocsDir = docs
	}
	if out, _ := cmd.Flags().GetString("output"); out != "" {
		cfg.SiteDir = out
	}
	if _, err := os.Stat(cfg.DocsDir); os.IsNotExist(err) {
		return fmt.Errorf("docs directory not found at %s", cfg.DocsDir)
	}

	b := &site.Builder{DocsDir: cfg.DocsDir, OutputDir: cfg.SiteDir, SiteName: siteName(), Log: log}
	res, err := b.Build()
	if err != nil {
		return fmt.Errorf("building site: %w", err)
	}
	fmt.Printf("Static site generated: %s (%d pages, %d assets)\n", cfg.SiteDir, res.Pages, res.Assets)

	if withAugment, _ := cmd.Flags().GetBool("augment"); !withAugment {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	strict, _ := cmd.Flags().GetBool("strict")
	summary, err := augmentSite(ctx, cfg, false)
	return augmentOutcome(cmd.OutOrStdout(), cfg.SiteDir, summary, err, strict, false)
}
