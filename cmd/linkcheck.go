package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/explorer-docs/docaug/internal/db"
	"github.com/explorer-docs/docaug/internal/linkcheck"
)

var linkcheckCmd = &cobra.Command{
	Use:   "linkcheck [base-url]",
	Short: "Crawl a running site and report broken pages, links and images",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		opts := linkcheck.Options{
			BaseURL:      cfg.LinkCheck.BaseURL,
			VisitedFile:  cfg.LinkCheck.VisitedFile,
			BrokenFile:   cfg.LinkCheck.BrokenFile,
			ContentsFile: cfg.LinkCheck.ContentsFile,
			Timeout:      cfg.LinkCheck.Timeout,
			Logger:       log,
		}
		if len(args) == 1 {
			opts.BaseURL = args[0]
		}
		checker, err := linkcheck.New(opts)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		historyFile := cfg.LinkCheck.HistoryFile
		if cmd.Flags().Changed("history") {
			historyFile, _ = cmd.Flags().GetString("history")
		}

		started := time.Now()
		report, err := checker.Check(ctx)
		if err != nil {
			return err
		}
		for _, f := range report.Findings {
			fmt.Println(f)
		}
		fmt.Printf("Visited %d pages, found %d problems\n", len(report.Visited), len(report.Findings))

		if historyFile != "" {
			if err := recordHistory(ctx, historyFile, checker.BaseURL(), started, report); err != nil {
				return err
			}
		}
		if failOnBroken, _ := cmd.Flags().GetBool("fail"); failOnBroken && len(report.Findings) > 0 {
			return fmt.Errorf("%d broken references", len(report.Findings))
		}
		return nil
	},
}

// recordHistory prints what changed since the previous run against baseURL
// and stores this run.
func recordHistory(ctx context.Context, path, baseURL string, started time.Time, report *linkcheck.Report) error {
	database, err := db.Open(path)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer database.Close()

	history := linkcheck.NewHistory(database)
	previous, ok, err := history.Last(ctx, baseURL)
	if err != nil {
		return err
	}
	if ok {
		diff := linkcheck.Compare(previous, report.Findings)
		for _, line := range diff.New {
			fmt.Printf("new:   %s\n", line)
		}
		for _, line := range diff.Fixed {
			fmt.Printf("fixed: %s\n", line)
		}
		fmt.Printf("Since last run: %d new, %d fixed\n", len(diff.New), len(diff.Fixed))
	}
	if _, err := history.Record(ctx, baseURL, started, time.Now(), report); err != nil {
		return err
	}
	log.WithField("history", path).Debug("Recorded link check run")
	return nil
}

func init() {
	linkcheckCmd.Flags().String("history", "", "SQLite file to record runs in and compare against (overrides config)")
	linkcheckCmd.Flags().Bool("fail", false, "exit with an error when anything is broken")
	rootCmd.AddCommand(linkcheckCmd)
}
