package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"sessionprobe/internal/config"
	"sessionprobe/internal/database"
	"sessionprobe/internal/models"
	"sessionprobe/internal/recorder"
	"sessionprobe/internal/reporter"
	"sessionprobe/pkg/bus"
	"sessionprobe/pkg/logger"
	"sessionprobe/pkg/login"
)

var (
	version = "0.1.0"
	commit  = "unknown"
	date    = "unknown"
)

const appName = "sessionprobe"

// configErrorCode is the exit status for usage and configuration faults,
// whatever the exit-code mode.
const configErrorCode = 1

// busClient is an open bus connection as seen by the command.
type busClient interface {
	login.Caller
	Close() error
}

type dialFunc func(opts bus.Options) (busClient, error)

func connectBus(opts bus.Options) (busClient, error) {
	conn, err := bus.Connect(opts)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

// flagValues holds command-line overrides of the environment configuration.
type flagValues struct {
	json       bool
	strictExit bool
	busAddress string
	timeout    time.Duration
	logLevel   string
	historyDB  string
}

type app struct {
	stdout io.Writer
	stderr io.Writer
	dial   dialFunc
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	a := &app{stdout: os.Stdout, stderr: os.Stderr, dial: connectBus}
	code := a.run(ctx, os.Args[1:])

	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit status.
func (a *app) run(ctx context.Context, args []string) int {
	code := 0
	cmd := a.newRootCmd(&code)
	cmd.SetArgs(args)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(a.stderr, "error: %v\n", err)
		var ue *usageError
		if errors.As(err, &ue) {
			fmt.Fprintf(a.stderr, "Usage: %s\n", cmd.UseLine())
		}
		return configErrorCode
	}
	return code
}

func (a *app) newRootCmd(code *int) *cobra.Command {
	var flags flagValues

	cmd := &cobra.Command{
		Use:   appName + " <username>",
		Short: "Report whether a user has an active graphical login session",
		Long: `sessionprobe asks systemd-logind on the system bus whether the given user
owns a live x11 or wayland session and prints the answer on one line.

Environment Variables:
  SESSIONPROBE_BUS_ADDRESS          Bus address (default: system bus)
  SESSIONPROBE_BUS_CALL_TIMEOUT     Per-call timeout, e.g. 5s (default: none)
  SESSIONPROBE_OUTPUT_JSON          Print JSON instead of text (true/false)
  SESSIONPROBE_OUTPUT_STRICT_EXIT   Exit 1 when no session is found (true/false)
  SESSIONPROBE_HISTORY_DB_PATH      Record checks in this SQLite file
  SESSIONPROBE_HISTORY_RETENTION    How long recorded checks are kept
  SESSIONPROBE_LOG_LEVEL            Diagnostic log level (default: warn)
  SESSIONPROBE_LOG_FILE             Also write diagnostics to this file`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				return &usageError{err: err}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			*code = a.check(cmd.Context(), cfg, args[0])
			return nil
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	f := cmd.Flags()
	f.BoolVar(&flags.json, "json", false, "print the result as a JSON object")
	f.BoolVar(&flags.strictExit, "strict-exit", false, "exit 0 when found, 1 when not found, 2 on error")
	f.StringVar(&flags.busAddress, "bus-address", "", "bus address to query instead of the system bus")
	f.DurationVar(&flags.timeout, "timeout", 0, "timeout for each bus call (0 waits indefinitely)")
	f.StringVar(&flags.logLevel, "log-level", "", "diagnostic log level (debug, info, warn, error)")
	f.StringVar(&flags.historyDB, "history-db", "", "record the check in this SQLite file")

	return cmd
}

// loadConfig reads the environment and applies any flags the user set.
func loadConfig(cmd *cobra.Command, flags flagValues) (*config.Config, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("json") {
		cfg.Output.JSON = flags.json
	}
	if changed("strict-exit") {
		cfg.Output.StrictExit = flags.strictExit
	}
	if changed("bus-address") {
		cfg.Bus.Address = flags.busAddress
	}
	if changed("timeout") {
		cfg.Bus.CallTimeout = flags.timeout
	}
	if changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if changed("history-db") {
		cfg.History.DBPath = flags.historyDB
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// check runs one query for user and returns the exit status.
func (a *app) check(ctx context.Context, cfg *config.Config, user string) int {
	rep := reporter.New(cfg)

	lg, err := logger.New(
		logger.WithLevel(cfg.Log.Level),
		logger.WithWriter(a.stderr),
		logger.WithFile(cfg.Log.File),
	)
	if err != nil {
		fmt.Fprintf(a.stderr, "error: invalid configuration: %v\n", err)
		return configErrorCode
	}
	defer lg.Close()
	log := lg.Zerolog()

	log.Debug().Msgf("%s", cfg.String())

	history, closeHistory := openHistory(cfg, log)
	defer closeHistory()

	conn, err := a.dial(cfg.BusOptions())
	if err != nil {
		fmt.Fprintf(a.stderr, "error: %v\n", err)
		if history != nil {
			_ = history.StoreError(user, models.StageConnect, err)
		}
		return rep.ExitCode(nil, err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close bus connection")
		}
	}()

	start := time.Now()
	result, err := login.NewDetector(conn, log).HasGraphicalSession(ctx, user)
	if err != nil {
		fmt.Fprintf(a.stderr, "error: %v\n", err)
		if history != nil {
			_ = history.StoreError(user, models.StageQuery, err)
		}
		return rep.ExitCode(nil, err)
	}
	elapsed := time.Since(start)

	out, err := rep.Format(result)
	if err != nil {
		fmt.Fprintf(a.stderr, "error: %v\n", err)
		return rep.ExitCode(nil, err)
	}
	fmt.Fprintln(a.stdout, out)

	if history != nil {
		_ = history.Record(result, elapsed)
	}

	return rep.ExitCode(result, nil)
}

// openHistory opens the check history store when one is configured. A store
// that cannot be opened is logged and skipped.
func openHistory(cfg *config.Config, log zerolog.Logger) (*recorder.Service, func()) {
	noop := func() {}
	if !cfg.HistoryEnabled() {
		return nil, noop
	}

	db, err := database.Connect(cfg.History.DBPath)
	if err != nil {
		log.Warn().Err(err).Msg("check history unavailable")
		return nil, noop
	}
	if err := db.Initialize(); err != nil {
		log.Warn().Err(err).Msg("check history unavailable")
		db.Close()
		return nil, noop
	}

	closeDB := func() {
		if err := db.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close history database")
		}
	}
	return recorder.NewService(cfg, database.NewRepository(db), log), closeDB
}
