package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/explorer-docs/docaug/internal/markdown"
)

var fencesCmd = &cobra.Command{
	Use:   "fences [file...]",
	Short: "Rewrite trace and guardrail fences into highlightable, marked fences",
	Long: "Rewrites ```trace, ```guardrail and ```example-trace fence openers to\n" +
		"```json {.language-trace} and friends. Reads stdin when no file is given.",
	RunE: func(cmd *cobra.Command, args []string) error {
		write, _ := cmd.Flags().GetBool("write")
		if len(args) == 0 {
			src, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), markdown.RewriteFences(string(src)))
			return err
		}
		for _, path := range args {
			src, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			out := markdown.RewriteFences(string(src))
			if !write {
				if _, err := io.WriteString(cmd.OutOrStdout(), out); err != nil {
					return err
				}
				continue
			}
			if out == string(src) {
				continue
			}
			if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			log.WithField("file", path).Info("Rewrote fences")
		}
		return nil
	},
}

func init() {
	fencesCmd.Flags().BoolP("write", "w", false, "rewrite files in place instead of printing")
	rootCmd.AddCommand(fencesCmd)
}
