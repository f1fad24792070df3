package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/rileyhilliard/litemon/internal/config"
	"github.com/rileyhilliard/litemon/internal/logger"
	"github.com/rileyhilliard/litemon/internal/metrics"
	"github.com/rileyhilliard/litemon/internal/monitor"
	"github.com/rileyhilliard/litemon/internal/provider"
	"github.com/rileyhilliard/litemon/internal/termui"
)

// cfgFile is the --config flag.
var cfgFile string

// rootCmd runs the dashboard.
var rootCmd = &cobra.Command{
	Use:   "litemon",
	Short: "Lightweight terminal system monitor",
	Long: `litemon shows live CPU, memory, disk, network and GPU usage in the terminal.

Metrics refresh on a fixed interval. Each category is read independently, so a
failing sensor only hides its own panel.

Examples:
  litemon
  litemon -i 2
  litemon --interval 500ms --gpu=false
  litemon snapshot --json`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand(cmd)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default ~/.config/litemon/config.yaml)")
	pf.String("color", config.DefaultColor, "color output: auto, always or never")

	addCategoryFlags(pf)

	f := rootCmd.Flags()
	f.StringP("interval", "i", "1", `refresh interval in seconds ("2") or as a duration ("500ms")`)
	f.Int("history", config.DefaultHistorySize, "samples kept per sparkline")
	f.Duration("poll-timeout", config.DefaultPollTimeout, "longest wait for keyboard input")
	f.Duration("scroll-debounce", config.DefaultScrollDebounce, "minimum gap between scroll steps")
	f.Duration("gpu-interval", config.DefaultGPUInterval, "how often the GPU is re-read")
	f.String("log-file", "", "write the debug log to this file while the dashboard runs")
}

// addCategoryFlags registers the category toggles shared by the dashboard
// and snapshot.
func addCategoryFlags(fs *pflag.FlagSet) {
	fs.Bool("cpu", true, "show CPU usage")
	fs.Bool("memory", true, "show memory usage")
	fs.Bool("disk", true, "show disk usage")
	fs.Bool("network", true, "show network throughput")
	fs.Bool("gpu", true, "show GPU usage")
}

// Execute runs the root command and prints any error.
func Execute() int {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// loadConfig resolves the effective config for cmd and applies the color
// mode.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := termui.ApplyColor(cfg.Color); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newEngine wires the host provider and GPU probe into a metrics engine.
func newEngine(cfg *config.Config) *metrics.Engine {
	return metrics.NewEngine(provider.NewHost(), provider.NewNvidiaSMI(),
		metrics.WithCategories(categories(cfg)),
		metrics.WithHistorySize(cfg.HistorySize),
		metrics.WithGPUInterval(cfg.GPUInterval),
		metrics.WithLogger(logger.NewEnvLogger("[engine]")),
	)
}

func categories(cfg *config.Config) metrics.Categories {
	return metrics.Categories{
		CPU:     cfg.CPU,
		Memory:  cfg.Memory,
		Disk:    cfg.Disk,
		Network: cfg.Network,
		GPU:     cfg.GPU,
	}
}

func loopConfig(cfg *config.Config, hostname string) monitor.LoopConfig {
	return monitor.LoopConfig{
		TickInterval:   cfg.Interval,
		PollTimeout:    cfg.PollTimeout,
		ScrollDebounce: cfg.ScrollDebounce,
		Hostname:       hostname,
	}
}

// signalContext cancels on SIGINT or SIGTERM. Bubble Tea's own handler is
// off, so this is what stops the loop when a signal arrives.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

// dashboardCommand runs the live dashboard until the user quits.
func dashboardCommand(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	sys := provider.ReadSystem(ctx)
	engine := newEngine(cfg)

	logs, err := termui.RedirectLog(cfg.LogFile)
	if err != nil {
		return err
	}
	defer logs.Close()

	screen, err := termui.Open(termui.Options{AltScreen: true})
	if err != nil {
		return err
	}
	defer screen.Close()

	loop := monitor.NewLoop(engine, screen, loopConfig(cfg, sys.Hostname),
		monitor.WithLoopLogger(logger.NewEnvLogger("[loop]")),
	)
	return loop.Run(ctx)
}
