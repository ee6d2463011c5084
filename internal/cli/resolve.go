package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"horario/internal/document"
	"horario/internal/model"
	"horario/internal/schedule"
)

// maxCalendarDays matches the limit of the HTTP calendar endpoint.
const maxCalendarDays = 90

func resolveCommand(now func() time.Time) command {
	return command{
		use:   "resolve",
		short: "Show the effective schedule of one date",
		flags: []flag{
			fileFlag,
			dateOption("date", "date to resolve, default today"),
			{name: "json", usage: "print the resolved day as JSON", boolean: true},
		},
		run: func(in input) error {
			date, err := in.date("date", model.DateOf(now()))
			if err != nil {
				return err
			}
			s, err := in.schedule()
			if err != nil {
				return err
			}
			day := schedule.ResolveSchedule(s, date)
			if in.on("json") {
				return writeJSON(in.stdout(), document.FromEffectiveDay(day))
			}
			_, err = fmt.Fprintln(in.stdout(), formatDay(day))
			return err
		},
	}
}

func calendarCommand(now func() time.Time) command {
	return command{
		use:   "calendar",
		short: "Show the effective schedule of a range of dates",
		flags: []flag{
			fileFlag,
			dateOption("from", "first date, default today"),
			dateOption("to", "last date, default a week after --from"),
		},
		run: func(in input) error {
			from, to, err := in.span(model.DateOf(now()), 6)
			if err != nil {
				return err
			}
			if from.DaysUntil(to) > maxCalendarDays {
				return fmt.Errorf("range exceeds %d days", maxCalendarDays)
			}
			s, err := in.schedule()
			if err != nil {
				return err
			}
			for _, day := range schedule.ResolveRange(s, from, to) {
				if _, err := fmt.Fprintln(in.stdout(), formatDay(day)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// formatDay renders one line: date, weekday, status, shifts and the special
// day that changed it.
func formatDay(day model.EffectiveDay) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %-9s ", day.Date, day.Date.Weekday().Title())
	if !day.IsOpen {
		b.WriteString("closed")
	} else if len(day.Shifts) == 0 {
		b.WriteString("open, no shifts")
	} else {
		parts := make([]string, len(day.Shifts))
		for i, s := range day.Shifts {
			parts[i] = fmt.Sprintf("%s %s", s.Name, s.Range)
		}
		b.WriteString(strings.Join(parts, ", "))
	}
	if day.Reason != nil {
		fmt.Fprintf(&b, " [%s: %s]", day.Reason.Type, day.Reason.Name)
	}
	return b.String()
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
