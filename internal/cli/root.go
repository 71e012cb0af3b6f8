// Package cli implements the program command line.
package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/confprogram/internal/config"
	"github.com/JonMunkholm/confprogram/internal/core"
	"github.com/JonMunkholm/confprogram/internal/logging"
	"github.com/JonMunkholm/confprogram/internal/sheet"
	"github.com/JonMunkholm/confprogram/internal/web"
)

var version = "dev"

// SetVersion sets the string printed by --version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// app is the state shared by the subcommands once configuration is loaded.
type app struct {
	cfg    *config.Config
	logger *slog.Logger

	// flags
	verbose bool
	sheet   string
}

// NewRootCommand builds the command tree. Each call returns a fresh tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:     "program",
		Version: version,
		Short:   "Build a conference program from a submission spreadsheet",
		Long: `program reads the spreadsheet export of a conference submission form,
sorts talks into the schedule and posters by number, and reports data
problems the organizers should fix.

Configuration comes from the environment (and a .env file); see EVENT_DAYS,
PROGRAM_INPUT and friends.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log build progress and diagnostics to stderr")
	root.PersistentFlags().StringVar(&a.sheet, "sheet", "", "Worksheet to read from .xlsx input (default: first sheet)")

	root.AddGroup(
		&cobra.Group{ID: "program", Title: "Program:"},
		&cobra.Group{ID: "server", Title: "Server:"},
	)
	root.AddCommand(
		newBuildCmd(a),
		newCheckCmd(a),
		newDaysCmd(a),
		newServeCmd(a),
	)
	return root
}

// Execute runs the command line with ctx.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// setup loads and validates configuration. Logs go to stderr so that
// stdout stays clean for --json and -o -.
func (a *app) setup(stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.sheet != "" {
		cfg.Input.Sheet = a.sheet
	}
	a.cfg = cfg
	a.logger = logging.New(stderr, cfg.Logging.Level, cfg.Logging.Format)
	return nil
}

// buildLogger is the logger handed to the service for one-shot builds.
// Diagnostics are printed by the Printer, so the log only shows errors
// unless --verbose is given.
func (a *app) buildLogger(stderr io.Writer) *slog.Logger {
	if a.verbose {
		return a.logger
	}
	return logging.New(stderr, "error", a.cfg.Logging.Format)
}

func (a *app) newService(logger *slog.Logger, opts ...core.ServiceOption) (*core.Service, error) {
	days, err := a.cfg.DayTable()
	if err != nil {
		return nil, err
	}
	opts = append([]core.ServiceOption{core.WithLogger(logger)}, opts...)
	return core.NewService(days, a.cfg.Event.Name, opts...), nil
}

func (a *app) sheetOptions() sheet.Options {
	return sheet.Options{Sheet: a.cfg.Input.Sheet, MaxBytes: a.cfg.Input.MaxFileSize}
}

// inputPath prefers the positional argument over PROGRAM_INPUT.
func (a *app) inputPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return a.cfg.Input.Path
}

// buildProgram loads the input and classifies it once.
func (a *app) buildProgram(cmd *cobra.Command, args []string) (*core.Program, error) {
	service, err := a.newService(a.buildLogger(cmd.ErrOrStderr()))
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	table, source, err := web.FileLoader(a.inputPath(args), a.sheetOptions())(ctx)
	if err != nil {
		return nil, err
	}
	return service.Build(ctx, table, source)
}
