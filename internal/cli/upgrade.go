package cli

import (
	"fmt"
	"os"

	"horario/internal/document"
)

func upgradeCommand() command {
	return command{
		use:   "upgrade",
		short: "Rewrite legacy weekday strings in structured form",
		flags: []flag{
			fileFlag,
			{name: "out", usage: "write the upgraded document here instead of stdout"},
			{name: "in-place", usage: "overwrite --file", boolean: true},
		},
		run: func(in input) error {
			path, out := in.str("file"), in.str("out")
			if in.on("in-place") {
				if out != "" {
					return fmt.Errorf("--out and --in-place are mutually exclusive")
				}
				out = path
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			if !document.HasLegacyDays(data) {
				_, _ = fmt.Fprintln(in.stderr(), "no legacy weekdays found; document is rewritten unchanged")
			}
			upgraded, err := document.Upgrade(data)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			if out == "" {
				_, err = fmt.Fprintln(in.stdout(), string(upgraded))
				return err
			}
			if err := os.WriteFile(out, append(upgraded, '\n'), 0o644); err != nil {
				return err
			}
			_, err = fmt.Fprintf(in.stdout(), "Upgraded schedule written to %s\n", out)
			return err
		},
	}
}
