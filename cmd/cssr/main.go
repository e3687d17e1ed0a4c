package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"cssr/config"
	"cssr/misc"
	"cssr/process"
	"cssr/state"
)

func main() {
	// cancel processing on interrupt, sources already written stay
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	err := newApp().Run(ctx, os.Args)
	stop()

	if err != nil {
		// log is either not ready yet (argument parsing) or closed already
		if !errReported {
			fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "expands and contracts CSS shorthand properties",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          before,
		After:           after,
		OnUsageError:    onUsageErr,
		ExitErrHandler:  onExitErr,
		CommandNotFound: onCommandNotFound,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "changes program behavior to help troubleshooting, produces report archive"},
		},
		Commands: []*cli.Command{
			transformCommand("expand", "Replaces shorthand properties with their longhand equivalents"),
			transformCommand("contract", "Folds complete sets of longhand properties into shorthands"),
			transformCommand("roundtrip", "Expands shorthands and folds results back (normalizes declarations)"),
			dumpCommand(),
			dumpConfigCommand(),
		},
	}
}

func transformCommand(name, usage string) *cli.Command {
	return &cli.Command{
		Name:         name,
		Usage:        usage,
		OnUsageError: onUsageErr,
		Action:       process.Run,
		Flags:        process.Flags(),
		ArgsUsage:    "SOURCE [DESTINATION]",
		CustomHelpTemplate: cli.CommandHelpTemplate + `
SOURCE:
    style source(s) to process, following forms are supported:
        path to a file: "[path_to_file]site.css" or "[path_to_file]index.html"
        path to a directory: "[path_to_directory]directory" - recursively process all files with known extensions
        path to zip archive or EPUB book: "[path_to_archive]book.epub" - process all entries with known extensions
        "-" - read STDIN (CSS unless --format says otherwise)

    File extensions are mapped to formats by "input" configuration section.

DESTINATION:
    for a single file or STDIN - output file or existing directory, if absent - STDOUT
    for a directory - directory to mirror results to, if absent - results are written
        next to sources with configured suffix
    for an archive - directory to extract results to, if absent - current working directory,
        with --repack - file or existing directory for modified copy, if absent - copy is
        written next to the archive with configured suffix
`,
	}
}

func dumpCommand() *cli.Command {
	return &cli.Command{
		Name:         "dump",
		Usage:        "Prints parsed structure of stylesheet(s): rule sets, specificity, declarations",
		OnUsageError: onUsageErr,
		Action:       process.Dump,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "expand", Usage: "expand shorthands before printing"},
			&cli.BoolFlag{Name: "contract", Usage: "create shorthands before printing (after expansion if both requested)"},
			&cli.StringFlag{Name: "encoding", Aliases: []string{"e"}, Usage: "decode sources from `CHARSET` (IANA name)"},
		},
		ArgsUsage: "SOURCE...",
		CustomHelpTemplate: cli.CommandHelpTemplate + `
SOURCE:
    path to CSS file, "-" reads STDIN
`,
	}
}

func dumpConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "dumpconfig",
		Usage: "Dumps either default or actual configuration (YAML)",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
		},
		OnUsageError: onUsageErr,
		Action:       dumpConfig,
		ArgsUsage:    "DESTINATION",
		CustomHelpTemplate: cli.CommandHelpTemplate + `
DESTINATION:
    file name to write configuration to, if absent - STDOUT

Produces file with actual "active" configuration values which is composition of
default values and values specified in configuration file. To see default
configuration embedded into the program use --default flag.
`,
	}
}

func dumpConfig(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	var (
		data  []byte
		which = "actual"
	)
	if cmd.Bool("default") {
		which = "default"
		data, err = config.Prepare()
	} else {
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	fname := cmd.Args().Get(0)
	if len(fname) == 0 {
		env.Log.Info("Outputting configuration", zap.String("state", which), zap.String("file", "STDOUT"))
		_, err = os.Stdout.Write(data)
		return err
	}

	env.Log.Info("Outputting configuration", zap.String("state", which), zap.String("file", fname))
	if err := os.WriteFile(fname, data, 0644); err != nil {
		return fmt.Errorf("unable to write configuration to '%s': %w", fname, err)
	}
	return nil
}
