package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bnema/padwatch/internal/config"
	"github.com/bnema/padwatch/internal/ipc"
	"github.com/bnema/padwatch/internal/ui"
	"github.com/spf13/cobra"
	"google.golang.org/protobuf/types/known/structpb"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the event stream of a running padwatch",
	Long: `Connect to the event socket of a "padwatch run" started with IPC enabled
and print every event it publishes until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		socketPath, _ := cmd.Flags().GetString("socket")
		if socketPath == "" {
			var err error
			if socketPath, err = config.Get().SocketPath(); err != nil {
				return err
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		return ipc.NewClient(socketPath).Listen(ctx, func(msg *structpb.Struct) {
			fmt.Fprintln(out, formatFrame(msg))
		})
	},
}

func init() {
	watchCmd.Flags().String("socket", "", "socket path (default from config)")
	rootCmd.AddCommand(watchCmd)
}

// formatFrame renders one event frame the way run prints events
func formatFrame(msg *structpb.Struct) string {
	fields := msg.GetFields()
	str := func(s *structpb.Struct, key string) string {
		return s.GetFields()[key].GetStringValue()
	}

	ts := str(msg, "time")
	if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
		ts = t.Local().Format(time.TimeOnly)
	}
	ts = ui.SubtleStyle.Render(ts)

	switch kind := str(msg, "kind"); kind {
	case ipc.KindHello:
		return ts + " " + ui.FormatSuccess("Connected to padwatch "+str(msg, "version"))
	case "connection_detected":
		id := fields["identity"].GetStructValue()
		return fmt.Sprintf("%s %s %s %s", ts,
			ui.SuccessStyle.Render(ui.IconPad+" connected"),
			ui.BoldStyle.Render(str(id, "name")),
			ui.SubtleStyle.Render("via "+str(msg, "source")+", "+str(id, "connection")))
	case "hotkey_fired":
		return fmt.Sprintf("%s %s %s", ts,
			ui.WarningStyle.Render(ui.IconHotkey+" hotkey"),
			ui.ComboStyle.Render(str(msg, "combination")))
	default:
		return ts + " " + kind
	}
}
