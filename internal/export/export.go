// Package export renders a schedule and its resolved calendar as an XLSX
// workbook.
package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"horario/internal/model"
	"horario/internal/schedule"
)

// Sheet names, in workbook order.
const (
	WeekSheet        = "Week"
	SpecialDaysSheet = "Special days"
	CalendarSheet    = "Calendar"
)

// Write renders s to out: the weekly plan, the special days and the
// effective calendar for from..to.
func Write(out io.Writer, s model.Schedule, from, to model.Date) error {
	w, err := newSheetWriter()
	if err != nil {
		return err
	}
	defer w.close()

	if err := writeWeek(w, s.Week); err != nil {
		return fmt.Errorf("week sheet: %w", err)
	}
	if err := writeSpecialDays(w, s.SpecialDays); err != nil {
		return fmt.Errorf("special days sheet: %w", err)
	}
	if err := writeCalendar(w, schedule.ResolveRange(s, from, to)); err != nil {
		return fmt.Errorf("calendar sheet: %w", err)
	}
	return w.save(out)
}

// WriteFile is Write to a file at path.
func WriteFile(path string, s model.Schedule, from, to model.Date) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, s, from, to); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writeWeek(w *sheetWriter, week model.WeekPlan) error {
	if err := w.addSheet(WeekSheet, []string{"Weekday", "Status", "Venue hours", "Shifts"}, []float64{14, 10, 14, 60}); err != nil {
		return err
	}
	for _, wd := range model.AllWeekdays {
		day := week[wd]
		status := "Closed"
		if day.Enabled {
			status = "Open"
		}
		venue := ""
		if day.Venue != nil {
			venue = day.Venue.String()
		}
		if err := w.writeRow([]any{wd.Title(), status, venue, describeShifts(day.Shifts)}, !day.Enabled); err != nil {
			return err
		}
	}
	return w.writeRow([]any{"", "", "", schedule.Summarize(week)}, false)
}

func writeSpecialDays(w *sheetWriter, days []model.SpecialDay) error {
	if err := w.addSheet(SpecialDaysSheet, []string{"Date", "Name", "Type", "Hours", "Shifts"}, []float64{12, 24, 14, 14, 50}); err != nil {
		return err
	}
	for _, sd := range days {
		hours := ""
		if sd.Hours != nil {
			hours = sd.Hours.String()
		}
		row := []any{sd.Date.String(), sd.Name, string(sd.Type), hours, describeShifts(sd.OverrideShifts)}
		if err := w.writeRow(row, sd.Type == model.SpecialClosed); err != nil {
			return err
		}
	}
	return nil
}

func writeCalendar(w *sheetWriter, days []model.EffectiveDay) error {
	if err := w.addSheet(CalendarSheet, []string{"Date", "Weekday", "Open", "Shifts", "Reason"}, []float64{12, 12, 8, 60, 24}); err != nil {
		return err
	}
	for _, d := range days {
		open := "No"
		if d.IsOpen {
			open = "Yes"
		}
		reason := ""
		if d.Reason != nil {
			reason = fmt.Sprintf("%s (%s)", d.Reason.Name, d.Reason.Type)
		}
		row := []any{d.Date.String(), d.Date.Weekday().Title(), open, describeShifts(d.Shifts), reason}
		if err := w.writeRow(row, !d.Bookable()); err != nil {
			return err
		}
	}
	return nil
}

func describeShifts(shifts []model.Shift) string {
	parts := make([]string, len(shifts))
	for i, s := range shifts {
		parts[i] = strings.TrimSpace(fmt.Sprintf("%s %s %s", s.Label, s.Name, s.Range))
	}
	return strings.Join(parts, ", ")
}
