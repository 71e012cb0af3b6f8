package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/confprogram/internal/core"
	"github.com/JonMunkholm/confprogram/internal/render"
)

func newBuildCmd(a *app) *cobra.Command {
	var (
		output          string
		showDiagnostics bool
	)

	cmd := &cobra.Command{
		Use:   "build [file]",
		Short: "Render the program as a standalone HTML page",
		Long: `Load the spreadsheet (the argument, or PROGRAM_INPUT), classify it and
write the program page. Diagnostics are printed to stderr; they do not stop
the build.`,
		Args:    cobra.MaximumNArgs(1),
		GroupID: "program",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.buildProgram(cmd, args)
			if err != nil {
				return err
			}

			printer := NewPrinter(cmd.ErrOrStderr())
			printer.Diagnostics(p.Diagnostics)

			opts := render.Options{ShowDiagnostics: showDiagnostics}
			if output == "-" {
				return render.WriteHTML(cmd.Context(), cmd.OutOrStdout(), p, opts)
			}
			if err := writePage(cmd.Context(), output, p, opts); err != nil {
				return err
			}
			printer.Success(fmt.Sprintf("Wrote %s (%s)", output, summary(p)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "program.html", "Output file, - for stdout")
	cmd.Flags().BoolVar(&showDiagnostics, "show-diagnostics", false, "List data problems at the top of the page")
	return cmd
}

// writePage renders into a temp file next to path and renames it into
// place, so a browser never sees a half-written page.
func writePage(ctx context.Context, path string, p *core.Program, opts render.Options) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".program-*.html")
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if err := render.WriteHTML(ctx, f, p, opts); err != nil {
		f.Close()
		return fmt.Errorf("render page: %w", err)
	}
	if err := f.Chmod(0o644); err != nil {
		f.Close()
		return fmt.Errorf("chmod output: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func summary(p *core.Program) string {
	return fmt.Sprintf("%d talks, %d posters, %d diagnostics", len(p.Talks), len(p.Posters), len(p.Diagnostics))
}
