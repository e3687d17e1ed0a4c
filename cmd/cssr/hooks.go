package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"cssr/config"
	"cssr/misc"
	"cssr/state"
)

// before runs after command line has been parsed and prepares environment:
// configuration, optional debug report and logging.
func before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.NArg() == 0 {
		// help will be shown, nothing to prepare
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)

	cfgFile := cmd.String("config")
	cfg, err := config.LoadConfiguration(cfgFile)
	if err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	env.Cfg = cfg

	if cmd.Bool("debug") {
		if env.Rpt, err = cfg.Reporting.Prepare(); err != nil {
			return ctx, fmt.Errorf("unable to prepare debug reporter: %w", err)
		}
		storeConfiguration(env.Rpt, cfg, cfgFile)
	}

	if env.Log, err = cfg.Logging.Prepare(env.Rpt); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	if err := env.ApplyConfig(cfg); err != nil {
		return ctx, fmt.Errorf("unable to apply configuration: %w", err)
	}

	env.Log.Debug("Program started",
		zap.Strings("args", os.Args), zap.String("ver", misc.GetVersion()), zap.String("runtime", runtime.Version()), zap.String("hash", misc.GetGitHash()))
	if env.Rpt != nil {
		env.Log.Info("Creating debug report", zap.String("location", env.Rpt.Name()))
	}
	if len(cfgFile) == 0 {
		env.Log.Info("Using defaults (no configuration file)")
	}
	return ctx, nil
}

// storeConfiguration puts configuration file as given and effective
// configuration into report.
func storeConfiguration(rpt *config.Report, cfg *config.Config, file string) {
	if len(file) != 0 {
		rpt.Store("config/"+filepath.Base(file), file)
	}
	if data, err := config.Dump(cfg); err == nil {
		rpt.StoreData("config/effective.yaml", data)
	}
}

// after tears environment down. Logging is closed first so the log can get
// into debug report, errors after that are returned and printed to stderr.
func after(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("args", cmd.Args().Slice()))
	}
	env.RestoreStdLog()

	if er := env.Rpt.Close(); er != nil {
		err = multierr.Append(err, fmt.Errorf("unable to close debug report: %w", er))
	}
	if env.Cfg != nil {
		err = multierr.Append(err, removeEmptyPanicLog(env.Cfg.Logging.FileLogger.Destination))
	}
	return err
}

// removeEmptyPanicLog stops crash output and removes panic log created next
// to log file when nothing has been written into it.
func removeEmptyPanicLog(logFile string) error {
	if len(logFile) == 0 {
		return nil
	}
	debug.SetCrashOutput(nil, debug.CrashOptions{})

	name := filepath.Join(filepath.Dir(logFile), misc.GetAppName()+"-panic.log")
	if fi, err := os.Stat(name); err != nil || fi.Size() != 0 {
		return nil
	}
	if err := os.Remove(name); err != nil {
		return fmt.Errorf("unable to remove empty panic log file '%s': %w", name, err)
	}
	return nil
}

// errReported is set when failure has been logged already, so main does
// not print it again.
var errReported bool

// onExitErr replaces urfave/cli exit handling: actions return regular errors
// and they are logged here, before environment is destroyed.
func onExitErr(ctx context.Context, _ *cli.Command, err error) {
	if env := state.EnvFromContext(ctx); env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errReported = true
	}
}

// onUsageErr passes error through, it is reported by onExitErr or by main.
func onUsageErr(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func onCommandNotFound(ctx context.Context, _ *cli.Command, name string) {
	if env := state.EnvFromContext(ctx); env.Log != nil {
		env.Log.Warn("Unknown command, nothing to do", zap.String("command", name))
	}
}
