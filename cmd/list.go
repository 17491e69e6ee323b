package cmd

import (
	"fmt"

	"github.com/bnema/padwatch/internal/config"
	"github.com/bnema/padwatch/internal/ui"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List controllers seen by every detection source",
	RunE: func(cmd *cobra.Command, args []string) error {
		src := buildSources(config.Get())
		defer src.teardown()

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.FormatHeader("Controllers"))

		found := src.detector.Enumerate()
		for _, a := range src.detector.Adapters() {
			ids := found[a.Source()]
			fmt.Fprintln(out, ui.FormatSourceHeader(a.Source(), a.Available(), len(ids)))
			for _, id := range ids {
				fmt.Fprintln(out, ui.FormatDevice(id))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
