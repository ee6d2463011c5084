package cli

import (
	"fmt"
	"time"

	"horario/internal/export"
	"horario/internal/model"
)

func exportCommand(now func() time.Time) command {
	return command{
		use:   "export",
		short: "Export the schedule and its calendar to an XLSX workbook",
		flags: []flag{
			fileFlag,
			{name: "out", usage: "workbook path", required: true},
			dateOption("from", "first calendar date, default today"),
			dateOption("to", "last calendar date, default 30 days after --from"),
		},
		run: func(in input) error {
			from, to, err := in.span(model.DateOf(now()), 29)
			if err != nil {
				return err
			}
			s, err := in.schedule()
			if err != nil {
				return err
			}
			out := in.str("out")
			if err := export.WriteFile(out, s, from, to); err != nil {
				return err
			}
			_, err = fmt.Fprintf(in.stdout(), "Exported %d days to %s\n", from.DaysUntil(to)+1, out)
			return err
		},
	}
}
