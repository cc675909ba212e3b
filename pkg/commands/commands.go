package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "bricks",
		Short: base.Wrap80("Keep track of your brick sets, their missing parts and figures, on the command line."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addList(topLevel)
	addSummary(topLevel)
	addShow(topLevel)
	addAdd(topLevel)
	addRemove(topLevel)
	addEdit(topLevel)
	addMissing(topLevel)
	addNotes(topLevel)
	addColors(topLevel)
	addMCP(topLevel)
	addVersion(topLevel)
}
