// Package cli implements horarioctl, the operator tool for schedule
// document files.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"horario/internal/document"
	"horario/internal/model"
)

// flag is one option of a subcommand. Options are strings unless boolean.
type flag struct {
	name     string
	usage    string
	boolean  bool
	required bool
}

var fileFlag = flag{name: "file", usage: "schedule document (JSON)", required: true}

func dateOption(name, usage string) flag {
	return flag{name: name, usage: usage + " (YYYY-MM-DD)"}
}

// command declares a subcommand that takes no positional arguments.
type command struct {
	use   string
	short string
	flags []flag
	run   func(in input) error
}

func (c command) build() *cobra.Command {
	cmd := &cobra.Command{
		Use:   c.use,
		Short: c.short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.run(input{cmd: cmd})
		},
	}
	fs := cmd.Flags()
	for _, f := range c.flags {
		if f.boolean {
			fs.Bool(f.name, false, f.usage)
		} else {
			fs.String(f.name, "", f.usage)
		}
		if f.required {
			_ = cmd.MarkFlagRequired(f.name)
		}
	}
	return cmd
}

// input reads the parsed flags of a running command.
type input struct {
	cmd *cobra.Command
}

func (in input) str(name string) string {
	v, _ := in.cmd.Flags().GetString(name)
	return v
}

func (in input) on(name string) bool {
	v, _ := in.cmd.Flags().GetBool(name)
	return v
}

// date parses a YYYY-MM-DD flag, falling back to def when unset.
func (in input) date(name string, def model.Date) (model.Date, error) {
	v := in.str(name)
	if v == "" {
		return def, nil
	}
	d, err := model.ParseDate(v)
	if err != nil {
		return model.Date{}, fmt.Errorf("--%s: %w", name, err)
	}
	return d, nil
}

// span reads a from/to pair. to defaults to days after from.
func (in input) span(today model.Date, days int) (model.Date, model.Date, error) {
	from, err := in.date("from", today)
	if err != nil {
		return model.Date{}, model.Date{}, err
	}
	to, err := in.date("to", from.AddDays(days))
	if err != nil {
		return model.Date{}, model.Date{}, err
	}
	if from.After(to) {
		return model.Date{}, model.Date{}, fmt.Errorf("--from must not be after --to")
	}
	return from, to, nil
}

// schedule loads the document named by --file.
func (in input) schedule() (model.Schedule, error) {
	path := in.str("file")
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Schedule{}, err
	}
	s, err := document.Decode(data)
	if err != nil {
		return model.Schedule{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func (in input) stdout() io.Writer { return in.cmd.OutOrStdout() }
func (in input) stderr() io.Writer { return in.cmd.ErrOrStderr() }
