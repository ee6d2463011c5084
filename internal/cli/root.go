package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree. now supplies "today" for commands
// whose dates are optional.
func NewRootCmd(now func() time.Time) *cobra.Command {
	root := &cobra.Command{
		Use:           "horarioctl",
		Short:         "Inspect and convert restaurant schedule documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	for _, c := range []command{
		resolveCommand(now),
		calendarCommand(now),
		previewCommand(),
		upgradeCommand(),
		exportCommand(now),
	} {
		root.AddCommand(c.build())
	}
	return root
}

func Execute() error {
	root := NewRootCmd(time.Now)
	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		return err
	}
	return nil
}
