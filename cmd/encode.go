package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/explorer-docs/docaug/internal/encoder"
)

var encodeCmd = &cobra.Command{
	Use:   "encode [text]",
	Short: "Encode text into an explorer link token",
	Long:  `Encodes the argument, or stdin when none is given, the way code examples are encoded into playground and frame links.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := argOrStdin(cmd, args)
		if err != nil {
			return err
		}
		token, err := encoder.Encode(text)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode [token]",
	Short: "Decode an explorer link token back into text",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := argOrStdin(cmd, args)
		if err != nil {
			return err
		}
		text, err := encoder.Decode(strings.TrimSpace(token))
		if err != nil {
			return err
		}
		_, err = io.WriteString(cmd.OutOrStdout(), text)
		return err
	},
}

func argOrStdin(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func init() {
	rootCmd.AddCommand(encodeCmd, decodeCmd)
}
