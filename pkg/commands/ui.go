package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/bricks/pkg/tui"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the text-based user interface",
		Example: `
bricks ui
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !stdoutIsTerminal() {
				return errors.New("ui needs a terminal; try bricks list")
			}
			svc, done, err := openService(cmd.Context(), serviceOptions{interactive: true})
			if err != nil {
				return err
			}
			defer done()
			return tui.Run(cmd.Context(), svc)
		},
	}

	topLevel.AddCommand(cmd)
}
