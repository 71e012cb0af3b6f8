package cli

import (
	"github.com/spf13/cobra"
)

func newDaysCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "days",
		Short: "Show the configured day table",
		Long: `List the day codes talks may use and the date each maps to. Blank and
TBA day cells land on the unassigned day.`,
		Args:    cobra.NoArgs,
		GroupID: "program",
		RunE: func(cmd *cobra.Command, args []string) error {
			days, err := a.cfg.DayTable()
			if err != nil {
				return err
			}

			printer := NewPrinter(cmd.OutOrStdout())
			printer.Section(a.cfg.Event.Name + " (" + days.Location().String() + ")")
			for _, code := range days.Codes() {
				date, err := days.Lookup(code)
				if err != nil {
					return err
				}
				label := code
				if code == "" {
					label = "(blank)"
				}
				at := date.At(0, 0, days.Location())
				printer.LabelValue(label, date.String()+" "+at.Weekday().String())
			}
			return nil
		},
	}
}
