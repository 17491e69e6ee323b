package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bnema/padwatch/internal/config"
	"github.com/bnema/padwatch/internal/engine"
	"github.com/bnema/padwatch/internal/input"
	"github.com/bnema/padwatch/internal/ipc"
	"github.com/bnema/padwatch/internal/logger"
	"github.com/bnema/padwatch/internal/notify"
	"github.com/bnema/padwatch/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Watch for controllers and hotkey presses",
	Long: `Start the detection engine. Connection and hotkey events are printed as
they happen and, depending on configuration, shown as desktop notifications
and streamed to the event socket. Configuration file edits apply live.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runEngine(ctx, cmd)
	},
}

func init() {
	runCmd.Flags().String("mode", "", "trigger mode (disabled, xinput, any, startup-xinput, startup-any)")
	runCmd.Flags().String("combo", "", "hotkey combination (back+start, guide, lb+rb, l3+r3, back+guide, lb+rb+start)")
	runCmd.Flags().Bool("ipc", false, "stream events on the local socket")
	runCmd.Flags().Bool("notify", false, "show desktop notifications")

	_ = viper.BindPFlag("detection.trigger_mode", runCmd.Flags().Lookup("mode"))
	_ = viper.BindPFlag("hotkey.combination", runCmd.Flags().Lookup("combo"))
	_ = viper.BindPFlag("ipc.enabled", runCmd.Flags().Lookup("ipc"))
	_ = viper.BindPFlag("notify.desktop", runCmd.Flags().Lookup("notify"))

	rootCmd.AddCommand(runCmd)
}

func runEngine(ctx context.Context, cmd *cobra.Command) error {
	cfg := config.Get()
	if err := cfg.Validate(); err != nil {
		logger.Warn("Invalid configuration values replaced by defaults", "err", err)
	}

	src := buildSources(cfg)
	defer src.teardown()

	eng := engine.New(src.detector, cfg.EngineOptions(), logger.Component("engine"),
		engine.WithLockTimeouts(src.lockTimeouts))

	out := cmd.OutOrStdout()
	eng.Subscribe(func(ev engine.Event) {
		fmt.Fprintln(out, ui.FormatEvent(ev))
	})

	notifier := notify.New(cfg.Notify.Desktop, cfg.Notify.Sound, logger.Component("notify"))
	if notifier.Enabled() {
		eng.Subscribe(notifier.Handle)
	}

	if cfg.IPC.Enabled {
		socketPath, err := cfg.SocketPath()
		if err != nil {
			return err
		}
		server := ipc.NewServer(socketPath, Version, logger.Component("ipc"))
		if err := server.Start(); err != nil {
			return fmt.Errorf("failed to start event socket: %w", err)
		}
		defer server.Stop()
		eng.Subscribe(server.Handle)
	}

	config.Watch(func(c *config.Config) {
		eng.UpdateOptions(c.EngineOptions())
		if c.Logging.LogLevel != "" {
			logger.SetLevel(c.Logging.LogLevel)
		}
		logger.Info("Configuration reloaded", "mode", c.Detection.TriggerMode, "combo", c.Hotkey.Combination)
	}, func(err error) {
		logger.Warn("Ignoring invalid configuration change", "err", err)
	})

	// Device hotplug invalidates the enumeration cache
	monitor := input.NewDeviceMonitor(logger.Component("monitor"))
	if err := monitor.Start(ctx, func(input.DeviceChange) { src.detector.Invalidate() }); err != nil {
		logger.Debug("Device hotplug monitor not started", "err", err)
	} else {
		defer monitor.Stop()
	}

	if err := eng.Start(ctx); err != nil {
		if errors.Is(err, engine.ErrNoSources) {
			fmt.Fprintln(out, ui.FormatWarning("No controller detection source is available on this system"))
		}
		return err
	}

	opts := eng.Options()
	fmt.Fprintln(out, ui.FormatSuccess(fmt.Sprintf("Watching for controllers (mode %s, hotkey %s)",
		opts.TriggerMode, opts.Hotkey.Combination)))

	<-ctx.Done()
	eng.Stop()

	printSummary(cmd, eng.Status())
	return nil
}

func printSummary(cmd *cobra.Command, st engine.Status) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, ui.FormatHeader("Session"))
	fmt.Fprintln(out, ui.FormatKV("Connections", st.Connections))
	fmt.Fprintln(out, ui.FormatKV("Hotkeys", st.Hotkeys))
	fmt.Fprintln(out, ui.FormatKV("Enumerations", st.Detector.Enumerations))
	fmt.Fprintln(out, ui.FormatKV("Cache hits", st.Detector.CacheHits))
	fmt.Fprintln(out, ui.FormatKV("Missed reads", st.MissedSnapshots))
	fmt.Fprintln(out, ui.FormatKV("Lock timeouts", st.LockTimeouts))
	if st.DroppedEvents > 0 {
		fmt.Fprintln(out, ui.FormatKV("Dropped events", st.DroppedEvents))
	}
	if st.Panics > 0 || st.AbandonedLoops > 0 {
		fmt.Fprintln(out, ui.FormatWarning(fmt.Sprintf("%d recovered panics, %d abandoned loops", st.Panics, st.AbandonedLoops)))
	}
}
