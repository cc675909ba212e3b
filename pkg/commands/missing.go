package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/bricks/pkg/commands/options"
	"tableflip.dev/bricks/pkg/runner/mcp"
)

func addMissing(topLevel *cobra.Command) {
	mo := &options.MissingOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "missing [number]",
		Short: "record missing parts and figures, or print the shopping list",
		Long: `Without a set number, print every missing part and figure across the
collection. With a set number, add or remove one missing line of that set.`,
		Example: `
bricks missing
bricks missing 7140 --part 3001 --color Red --qty 2
bricks missing 7140 --fig sw0001
bricks missing 7140 --part 3001 --remove
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output(cmd, oo)
			if len(args) == 1 {
				if err := mo.Validate(); err != nil {
					return err
				}
			}
			svc, done, err := openService(cmd.Context(), serviceOptions{stderr: cmd.ErrOrStderr()})
			if err != nil {
				return out.HandleError(err)
			}
			defer done()

			if len(args) == 0 {
				if oo.JSON {
					list, err := mcp.NewService(svc).Missing(cmd.Context())
					if err != nil {
						return out.HandleError(err)
					}
					return out.PrintJSON(list)
				}
				printer(cmd).Missing(svc.Catalog(), svc.Missing())
				return nil
			}

			if err := svc.Select(cmd.Context(), args[0]); err != nil {
				return err
			}
			b := svc.Buffers()
			switch {
			case mo.Part != "" && mo.Remove:
				err = b.RemovePart(mo.Part)
			case mo.Part != "":
				b.AddPart(mo.Part)
				last := len(b.Parts) - 1
				err = b.SetPartQuantity(last, mo.Quantity)
				if err == nil && mo.Color != "" {
					err = b.SetPartColor(last, mo.Color)
				}
			case mo.Remove:
				err = b.RemoveFig(mo.Fig)
			default:
				b.AddFig(mo.Fig)
				err = b.SetFigQuantity(len(b.Figs)-1, mo.Quantity)
			}
			if err != nil {
				return err
			}
			// Save validates the lines and refuses bad colors or quantities.
			if err := svc.Save(cmd.Context()); err != nil {
				return err
			}

			row, _ := svc.Row(args[0])
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d missing parts, %d missing figs\n",
				row.Number, row.MissingPartsTotal, row.MissingFigsTotal)
			return nil
		},
	}
	options.AddMissingArgs(cmd, mo)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
