package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/explorer-docs/docaug/internal/augment"
	"github.com/explorer-docs/docaug/internal/config"
	"github.com/explorer-docs/docaug/internal/progress"
	"github.com/explorer-docs/docaug/internal/site"
)

var augmentCmd = &cobra.Command{
	Use:   "augment [site-dir]",
	Short: "Augment the code examples of a rendered site in place",
	Long: `Probes the explorer once and, if it is reachable, rewrites every HTML page
of the site directory: guardrail examples get "Open In Playground" and
"Add to Agent" links, trace examples are replaced by embedded explorer frames.
When the explorer cannot be reached the site is left untouched.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAugment,
}

func init() {
	augmentCmd.Flags().Bool("dry-run", false, "report what would change without writing files")
	augmentCmd.Flags().String("host", "", "host the site is published under (overrides config)")
	augmentCmd.Flags().Bool("strict", false, "exit with an error when the explorer is unreachable")
	rootCmd.AddCommand(augmentCmd)
}

func runAugment(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.SiteDir = args[0]
	}
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.Host = host
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	strict, _ := cmd.Flags().GetBool("strict")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := augmentSite(ctx, cfg, dryRun)
	return augmentOutcome(cmd.OutOrStdout(), cfg.SiteDir, summary, err, strict, dryRun)
}

// augmentOutcome prints the result of augmentSite and turns it into the
// command's exit status. An unreachable explorer fails only under strict;
// pages that could not be processed always fail.
func augmentOutcome(w io.Writer, dir string, summary *site.Summary, err error, strict, dryRun bool) error {
	if errors.Is(err, augment.ErrProbeUnreachable) && !strict {
		fmt.Fprintf(w, "Explorer unreachable, %s left unchanged\n", dir)
		return nil
	}
	if err != nil {
		return err
	}

	verb := "Augmented"
	if dryRun {
		verb = "Would augment"
	}
	fmt.Fprintf(w, "%s %d of %d pages in %s (%d links, %d frames, %d skipped)\n",
		verb, summary.Changed, summary.Pages, dir, summary.Links, summary.Frames, summary.Skipped)
	if n := len(summary.Failed); n > 0 {
		return fmt.Errorf("%d pages could not be processed", n)
	}
	return nil
}

// augmentSite runs the site processor over cfg.SiteDir.
func augmentSite(ctx context.Context, cfg *config.Config, dryRun bool) (*site.Summary, error) {
	baseURL := cfg.Explorer.ResolveBaseURL(cfg.Host)
	a, err := augment.New(augment.OptionsFromConfig(cfg, baseURL, log))
	if err != nil {
		return nil, err
	}
	p := &site.Processor{
		Dir:         cfg.SiteDir,
		Include:     cfg.Include,
		Exclude:     cfg.Exclude,
		Concurrency: cfg.MaxConcurrency,
		DryRun:      dryRun,
		Augmenter:   a,
		Checker:     augment.NewProber(cfg.Explorer.ProbePath, cfg.Explorer.ProbeTimeout),
		Reporter:    progress.NewReporter("Augmenting pages"),
		Log:         log,
	}
	return p.Run(ctx)
}
