package main

import (
	"github.com/spf13/cobra"

	"github.com/okian/checkin/internal/domain/roster"
)

type replayOptions struct {
	rosterPath string
	scansPath  string
	sheet      string
	reportPath string
	logLevel   string
	timezone   string
	timeLayout string
	truncate   int
	listSheets bool
	columns    map[roster.Role]*string
}

func (o *replayOptions) mapping() *roster.ColumnMapping {
	var m roster.ColumnMapping
	for _, role := range roster.Roles {
		if v := o.columns[role]; v != nil && *v != "" {
			m = m.With(role, *v)
		}
	}
	if m.IsZero() {
		return nil
	}
	return &m
}

func newRootCommand() *cobra.Command {
	opts := &replayOptions{columns: make(map[roster.Role]*string, len(roster.Roles))}

	rootCmd := &cobra.Command{
		Use:           "replay",
		Short:         "Replay scanned codes against a roster and export attendance",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&opts.rosterPath, "roster", "", "Roster workbook (.xlsx)")
	flags.StringVar(&opts.scansPath, "scans", "", "File with one scanned code per line, or - for stdin")
	flags.StringVar(&opts.sheet, "sheet", "", "Worksheet name (defaults to the first sheet)")
	flags.StringVar(&opts.reportPath, "report", "", "Report output path (defaults to <roster>_Attendance.xlsx)")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	flags.StringVar(&opts.timezone, "timezone", "Local", "Time zone for check-in times")
	flags.StringVar(&opts.timeLayout, "time-layout", "2006-01-02 15:04:05", "Layout for check-in times")
	flags.IntVar(&opts.truncate, "display-truncate", 30, "Runes of an unmatched scan to display")
	flags.BoolVar(&opts.listSheets, "list-sheets", false, "Print the roster's worksheet names and exit")
	for _, role := range roster.Roles {
		opts.columns[role] = flags.String(string(role)+"-column", "", "Column holding the "+string(role)+" role")
	}

	_ = rootCmd.MarkFlagRequired("roster")

	return rootCmd
}
