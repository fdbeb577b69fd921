package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/explorer-docs/docaug/internal/frontmatter"
)

var frontmatterCmd = &cobra.Command{
	Use:   "frontmatter",
	Short: "Collect or generate markdown frontmatter",
}

var frontmatterCollectCmd = &cobra.Command{
	Use:   "collect [docs-dir]",
	Short: "Print the title and description of every page as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := docsDirArg(args)
		if err != nil {
			return err
		}
		data, err := frontmatter.Collect(dir, log)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	},
}

var frontmatterGenerateCmd = &cobra.Command{
	Use:   "generate [docs-dir]",
	Short: "Insert frontmatter into pages that lack it",
	Long: `Adds a title and description block to every markdown page without one,
taking the title from the first "# " heading and the description from the
<div class='subtitle'> element. Pages missing either are skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := docsDirArg(args)
		if err != nil {
			return err
		}
		res, err := frontmatter.Generate(dir, log)
		if err != nil {
			return err
		}
		fmt.Printf("Inserted frontmatter into %d files, skipped %d\n", len(res.Inserted), len(res.Skipped))
		return nil
	},
}

func docsDirArg(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	return cfg.DocsDir, nil
}

func init() {
	frontmatterCmd.AddCommand(frontmatterCollectCmd, frontmatterGenerateCmd)
	rootCmd.AddCommand(frontmatterCmd)
}
