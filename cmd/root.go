package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	log     = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "docaug",
	Short: "Link documentation code examples to the guardrails explorer",
	Long: `docaug post-processes a documentation site so that trace and guardrail
code examples link to, or embed, the explorer playground. It runs as a
build step over a rendered site, as a dev server that augments pages as
they are served, and ships the markdown, frontmatter and link checking
tools the documentation is maintained with.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".docaug.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// setupLogging applies the configured level; --verbose forces debug.
func setupLogging(level string) error {
	if verbose {
		log.SetLevel(logrus.DebugLevel)
		return nil
	}
	if level == "" {
		return nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	log.SetLevel(lvl)
	return nil
}
