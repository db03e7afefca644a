// Pin Logic Core - GPIO Component Runtime
//
// This is the main entry point for the Pin Logic daemon. It wires the
// configured GPIO backend into a small demonstration rig:
//   - A clock component ticking on its own goroutine
//   - A four-digit seven-segment display showing the tick count
//   - An LED toggled on every tick
//   - A push button, polled each tick, driving an active buzzer
//
// Every device is a component: state changes commit through one lock and
// fan out to registered observers, so the wiring below is all observer
// registrations rather than polling loops.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/nerrad567/pin-logic-core/migrations"

	"github.com/nerrad567/pin-logic-core/internal/component"
	"github.com/nerrad567/pin-logic-core/internal/devices"
	"github.com/nerrad567/pin-logic-core/internal/hal"
	"github.com/nerrad567/pin-logic-core/internal/hal/rpihal"
	"github.com/nerrad567/pin-logic-core/internal/history"
	"github.com/nerrad567/pin-logic-core/internal/infrastructure/config"
	"github.com/nerrad567/pin-logic-core/internal/infrastructure/database"
	"github.com/nerrad567/pin-logic-core/internal/infrastructure/logging"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Pin Logic Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, cfg.Service.Name, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open the state-history recorder (optional)
	var recorder history.Recorder
	if cfg.History.Enabled {
		db, dbErr := database.Open(database.Config{
			Path:        cfg.History.Database.Path,
			WALMode:     cfg.History.Database.WALMode,
			BusyTimeout: cfg.History.Database.BusyTimeout,
		})
		if dbErr != nil {
			return fmt.Errorf("opening history database: %w", dbErr)
		}
		defer func() {
			log.Info("closing history database")
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing history database", "error", closeErr)
			}
		}()

		if migrateErr := db.Migrate(ctx); migrateErr != nil {
			return fmt.Errorf("running migrations: %w", migrateErr)
		}
		log.Info("history database ready", "path", db.Path())

		recorder = history.NewSQLiteRecorder(db.DB)
	} else {
		log.Info("state history disabled")
	}

	// Open the GPIO backend
	io, closeBackend, err := openBackend(cfg)
	if err != nil {
		return fmt.Errorf("opening gpio backend: %w", err)
	}
	defer func() {
		log.Info("closing gpio backend")
		if closeErr := closeBackend(); closeErr != nil {
			log.Error("error closing gpio backend", "error", closeErr)
		}
	}()
	log.Info("gpio backend opened", "backend", cfg.GPIO.Backend)

	// Build the display: a shift register feeding four multiplexed digits
	register, err := hal.NewSN74HC595(io,
		hal.Line(cfg.Display.DataLine),
		hal.Line(cfg.Display.ClockLine),
		hal.Line(cfg.Display.LatchLine),
		8,
	)
	if err != nil {
		return fmt.Errorf("configuring shift register: %w", err)
	}

	var digitLines [devices.DigitCount]hal.Line
	for i, line := range cfg.Display.DigitLines {
		digitLines[i] = hal.Line(line)
	}
	display, err := devices.NewFourDigitDisplay(io, register, digitLines, cfg.DisplayHold())
	if err != nil {
		return fmt.Errorf("configuring display: %w", err)
	}
	display.SetDisplayLogger(log)
	defer func() {
		log.Info("stopping display")
		display.Close()
	}()

	// Build the remaining devices
	led, err := devices.NewLED(io, hal.Line(cfg.Devices.LEDLine))
	if err != nil {
		return fmt.Errorf("configuring led: %w", err)
	}

	buzzer, err := devices.NewActiveBuzzer(io, hal.Line(cfg.Devices.BuzzerLine))
	if err != nil {
		return fmt.Errorf("configuring buzzer: %w", err)
	}

	button, err := devices.NewButton(io, hal.Line(cfg.Devices.ButtonLine), cfg.ButtonBounce())
	if err != nil {
		return fmt.Errorf("configuring button: %w", err)
	}

	// The button sounds the buzzer while held
	button.OnState(func(s component.State) {
		pressed := s.(devices.ButtonState).Pressed
		var actErr error
		if pressed {
			actErr = buzzer.Buzz()
		} else {
			actErr = buzzer.Silence()
		}
		if actErr != nil {
			log.Error("driving buzzer", "pressed", pressed, "error", actErr)
		}
	})

	// The clock drives everything else: each tick updates the display,
	// toggles the LED and samples the button.
	clock := component.NewClock(cfg.TickInterval())
	clock.SetLogger(log)
	clock.OnState(func(s component.State) {
		cs := s.(component.ClockState)
		if !cs.Running {
			return
		}
		if dispErr := display.Display(fmt.Sprintf("%4d", cs.Tick%10000)); dispErr != nil {
			log.Error("updating display", "tick", cs.Tick, "error", dispErr)
		}
		if ledErr := led.SetState(devices.LEDState{On: cs.Tick%2 == 0}); ledErr != nil {
			log.Error("toggling led", "tick", cs.Tick, "error", ledErr)
		}
		if pollErr := button.Poll(); pollErr != nil {
			log.Error("polling button", "error", pollErr)
		}
	})

	// Record state transitions when history is enabled
	if recorder != nil {
		history.Attach(recorder, "clock", clock, history.SourceLoop, log)
		history.Attach(recorder, "led", led, history.SourceLoop, log)
		history.Attach(recorder, "button", button, history.SourceLoop, log)
	}

	clock.Start()
	defer func() {
		log.Info("stopping clock")
		clock.Stop()
	}()

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred calls run in reverse order:
	// 1. Clock (stops ticking before the devices it drives go away)
	// 2. Display refresh loop
	// 3. GPIO backend
	// 4. History database (if enabled)

	log.Info("Pin Logic Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses PINLOGIC_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("PINLOGIC_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// openBackend opens the configured GPIO backend and returns it along with a
// close function. The memory backend needs no teardown.
func openBackend(cfg *config.Config) (hal.DigitalIO, func() error, error) {
	switch cfg.GPIO.Backend {
	case "rpio":
		backend, err := rpihal.Open()
		if err != nil {
			return nil, nil, err
		}
		return backend, backend.Close, nil
	default:
		return hal.NewMemory(), func() error { return nil }, nil
	}
}
