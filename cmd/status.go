package cmd

import (
	"fmt"

	"github.com/bnema/padwatch/internal/config"
	"github.com/bnema/padwatch/internal/tracker"
	"github.com/bnema/padwatch/internal/ui"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether a controller is connected right now",
	Long: `Run a single unified query across the enabled sources and print the
answer the engine would act on, along with what each tier reported.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		src := buildSources(cfg)
		defer src.teardown()

		out := cmd.OutOrStdout()
		if !src.detector.AnyAvailable() {
			fmt.Fprintln(out, ui.FormatWarning("No controller detection source is available on this system"))
			return nil
		}

		opts := cfg.EngineOptions()
		includeEnumerated := opts.TriggerMode.IncludesEnumerated() || opts.TriggerMode == tracker.ModeDisabled
		tiers := src.detector.QuerySources(includeEnumerated)

		fmt.Fprintln(out, ui.FormatHeader("Status"))
		fmt.Fprintln(out, ui.FormatState(tiers.Best()))
		fmt.Fprintln(out)
		fmt.Fprintln(out, ui.FormatKV("Trigger mode", opts.TriggerMode))
		fmt.Fprintln(out, ui.FormatKV("Hotkey", opts.Hotkey.Combination))
		fmt.Fprintln(out, ui.FormatKV("Fast tier", connectedLabel(tiers.Fast.IsConnected)))
		if includeEnumerated {
			fmt.Fprintln(out, ui.FormatKV("Enumeration tier", connectedLabel(tiers.Enumerated.IsConnected)))
		}
		if snap, ok := src.detector.Snapshot(); ok {
			fmt.Fprintln(out, ui.FormatKV("Buttons held", snap.Buttons))
		}
		return nil
	},
}

func connectedLabel(connected bool) string {
	if connected {
		return "connected"
	}
	return "not connected"
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
