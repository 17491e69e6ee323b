package cmd

import (
	"fmt"
	"time"

	"github.com/bnema/padwatch/internal/config"
	"github.com/bnema/padwatch/internal/hotkey"
	"github.com/bnema/padwatch/internal/logger"
	"github.com/bnema/padwatch/internal/ui"
	"github.com/bnema/padwatch/internal/virtualpad"
	"github.com/spf13/cobra"
)

const virtualPadName = "Padwatch Virtual Pad"

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Create a virtual gamepad and press the hotkey on it",
	Long: `Create a virtual gamepad through /dev/uinput, wait for the system to pick
it up, hold the configured hotkey combination and remove the pad again.
Run it next to "padwatch run" to check detection and hotkey settings end to
end. Requires write access to /dev/uinput.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get().HotkeySnapshot()

		combo := cfg.Combination
		if name, _ := cmd.Flags().GetString("combo"); name != "" {
			parsed, err := hotkey.ParseCombination(name)
			if err != nil {
				return err
			}
			combo = parsed
		}

		hold, _ := cmd.Flags().GetDuration("hold")
		if hold <= 0 {
			hold = cfg.PollInterval * 3
			if cfg.RequireLongPress {
				hold += cfg.LongPressDuration
			}
		}
		settle, _ := cmd.Flags().GetDuration("settle")

		pad, err := virtualpad.Create(virtualPadName, logger.Component("virtualpad"))
		if err != nil {
			return fmt.Errorf("failed to create virtual gamepad: %w", err)
		}
		defer pad.Close()

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.FormatSuccess("Virtual gamepad connected"))

		ctx := cmd.Context()
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(settle):
		}

		fmt.Fprintf(out, "Holding %s for %s\n", ui.ComboStyle.Render(combo.String()), hold)
		if err := pad.Hold(ctx, combo.Mask(), hold); err != nil {
			return fmt.Errorf("failed to press %s: %w", combo, err)
		}
		fmt.Fprintln(out, ui.FormatSuccess("Released"))
		return nil
	},
}

func init() {
	simulateCmd.Flags().String("combo", "", "combination to press (default: configured hotkey)")
	simulateCmd.Flags().Duration("hold", 0, "how long to hold the buttons (default: enough to fire)")
	simulateCmd.Flags().Duration("settle", 2*time.Second, "wait after creating the pad before pressing")
	rootCmd.AddCommand(simulateCmd)
}
