package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/fervag/x708ctl/internal/battery"
	"codeberg.org/fervag/x708ctl/internal/config"
	"codeberg.org/fervag/x708ctl/internal/display"
	"codeberg.org/fervag/x708ctl/internal/gpio"
	"codeberg.org/fervag/x708ctl/internal/i2c"
	"codeberg.org/fervag/x708ctl/internal/logger"
	"codeberg.org/fervag/x708ctl/internal/monitor"
	"codeberg.org/fervag/x708ctl/internal/pid"
	"codeberg.org/fervag/x708ctl/internal/power"
	"codeberg.org/fervag/x708ctl/internal/telemetry"
)

const (
	exitOK      = 0
	exitFailure = -1

	lowVoltageWarning = 3.0
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return exitFailure
	}

	logger.Init(cfg.Debug, cfg.Verbose, logger.IsService())
	cfg.ApplyLogLevel()
	logger.Debug().Msg("Config loaded")

	if cfg.Watch && cfg.Quiet {
		logger.Info().Msg("Both --watch and --quiet flags are set. Nothing to do.")
		return exitOK
	}

	if os.Geteuid() != 0 {
		logger.Error().Msg("Root privileges are needed to run x708ctl.")
		return exitFailure
	}

	if err := pid.Write(); err != nil {
		logger.Error().Err(err).Msg("Failed to write PID file")
		return exitFailure
	}
	defer pid.Remove()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	bus, err := i2c.Open(battery.DefaultBus, battery.DefaultAddr)
	if err != nil {
		logger.ErrorWithCode(err).Msg("Failed to open fuel gauge bus")
		return exitFailure
	}
	defer bus.Close()

	device := battery.New(bus, battery.ThermalZonePath)
	defer device.Close()

	ctl := power.NewController()

	if !cfg.Watch {
		if err := startEventWatchers(ctx, ctl); err != nil {
			logger.ErrorWithCode(err).Msg("Failed to set up GPIO event watchers")
			return exitFailure
		}

		if cfg.MinVoltage < lowVoltageWarning {
			logger.Warn().Float64("min_voltage", cfg.MinVoltage).Msg("Minimum voltage is below 3V")
		}
	}

	collector, err := telemetry.NewService(telemetryConfig(cfg))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize telemetry")
		return exitFailure
	}
	defer collector.Close()

	interval := time.Duration(cfg.Interval * float64(time.Second))

	sink, quit, restore, err := setupDisplay(cfg, interval)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize display")
		return exitFailure
	}
	defer restore()
	defer sink.Close()

	m := monitor.New(monitor.Options{
		Interval:   interval,
		MinVoltage: cfg.MinVoltage,
		WatchOnly:  cfg.Watch,
		Quiet:      cfg.Quiet,
		Quit:       quit,
	}, device, ctl, sink, collector)

	if err := m.Run(ctx); err != nil {
		logger.ErrorWithCode(err).Msg("Error in monitor loop")
		return exitFailure
	}

	logger.Info().Msg("Exiting...")
	return exitOK
}

// startEventWatchers claims the three control lines, raises the
// power-enable output and starts the button/AC event consumers. The
// power-enable line stays high for the whole process lifetime.
func startEventWatchers(ctx context.Context, ctl power.Controller) error {
	enable, err := gpio.RequestOutput(gpio.PinPowerEnable)
	if err != nil {
		return err
	}
	if err := enable.Set(true); err != nil {
		return err
	}

	button, err := gpio.RequestInput(gpio.PinPowerButton)
	if err != nil {
		return err
	}

	ac, err := gpio.RequestInput(gpio.PinACLost)
	if err != nil {
		return err
	}

	watcher, err := gpio.NewWatcher(button, ac, gpio.HoldThreshold)
	if err != nil {
		return err
	}
	watcher.Run(ctx)

	go monitor.NewClassifier().Run(ctx, watcher.ButtonEvents(), ctl)
	go monitor.NewACDetector().Run(ctx, watcher.ACEvents())

	return nil
}

// setupDisplay picks the presentation sink. The quit key only exists
// in the full-screen view; the line-oriented view leaves the terminal
// untouched and stops via interrupt.
func setupDisplay(cfg *config.Config, interval time.Duration) (display.Sink, <-chan struct{}, func(), error) {
	if cfg.Quiet {
		return display.NopSink{}, nil, func() {}, nil
	}

	if !cfg.Ncurses {
		return display.NewConsoleSink(os.Stdout), nil, func() {}, nil
	}

	quit, restore, err := display.WatchQuit()
	if err != nil {
		return nil, nil, func() {}, err
	}

	return display.NewScreenSink(os.Stdout, interval), quit, restore, nil
}

func telemetryConfig(cfg *config.Config) telemetry.Config {
	tcfg := telemetry.DefaultConfig()
	tcfg.Enabled = cfg.Telemetry
	if cfg.TelemetryDB != "" {
		tcfg.DBPath = cfg.TelemetryDB
	}
	return tcfg
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}
