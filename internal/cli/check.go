package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// ErrDiagnostics is returned by check --strict when the input has data
// problems.
var ErrDiagnostics = errors.New("diagnostics reported")

func newCheckCmd(a *app) *cobra.Command {
	var (
		asJSON bool
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Classify the spreadsheet and report data problems",
		Long: `Load and classify the spreadsheet without writing a page. Unclassified
rows, duplicate poster numbers and non-integer poster numbers are listed.

Exits non-zero when the spreadsheet cannot be read or a talk cannot be
scheduled, and with --strict also when any problem was reported.`,
		Args:    cobra.MaximumNArgs(1),
		GroupID: "program",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.buildProgram(cmd, args)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(p); err != nil {
					return fmt.Errorf("encode program: %w", err)
				}
			} else {
				printer := NewPrinter(cmd.OutOrStdout())
				printer.Diagnostics(p.Diagnostics)
				printer.Summary(p)
			}

			if strict && len(p.Diagnostics) > 0 {
				return fmt.Errorf("%w: %d", ErrDiagnostics, len(p.Diagnostics))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the classified program as JSON")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when any diagnostic is reported")
	return cmd
}
