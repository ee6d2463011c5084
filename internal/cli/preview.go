package cli

import (
	"fmt"

	"horario/internal/schedule"
)

func previewCommand() command {
	return command{
		use:   "preview",
		short: "Describe the weekly opening hours in one sentence",
		flags: []flag{fileFlag},
		run: func(in input) error {
			s, err := in.schedule()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(in.stdout(), schedule.Summarize(s.Week))
			return err
		},
	}
}
