package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/bricks/pkg/app"
	"tableflip.dev/bricks/pkg/collection/viewmodel"
	"tableflip.dev/bricks/pkg/commands/options"
	"tableflip.dev/bricks/pkg/printers"
	"tableflip.dev/bricks/pkg/runner/mcp"
)

func printer(cmd *cobra.Command) *printers.PrettyPrint {
	return &printers.PrettyPrint{Out: cmd.OutOrStdout(), Swatches: stdoutIsTerminal() && !color.NoColor}
}

func output(cmd *cobra.Command, oo *options.OutputOptions) *options.OutputOptions {
	oo.Out = cmd.OutOrStdout()
	return oo
}

func addList(topLevel *cobra.Command) {
	fo := &options.FilterOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "list owned sets grouped by theme",
		Example: `
bricks list
bricks list --theme "Star Wars"
bricks list --search 3001 --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := output(cmd, oo)
			svc, done, err := openService(cmd.Context(), serviceOptions{stderr: cmd.ErrOrStderr()})
			if err != nil {
				return out.HandleError(err)
			}
			defer done()

			var rows []viewmodel.Row
			for _, r := range svc.Search(fo.Search) {
				if fo.MatchesTheme(r.ThemeLabel) {
					rows = append(rows, r)
				}
			}
			if oo.JSON {
				sets := make([]mcp.SetDTO, 0, len(rows))
				for _, r := range rows {
					sets = append(sets, mcp.ToSetDTO(r))
				}
				return out.PrintJSON(sets)
			}
			printer(cmd).Rows(viewmodel.Groups(rows))
			return nil
		},
	}
	options.AddFilterArgs(cmd, fo)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

func addSummary(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "show collection totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := output(cmd, oo)
			svc, done, err := openService(cmd.Context(), serviceOptions{stderr: cmd.ErrOrStderr()})
			if err != nil {
				return out.HandleError(err)
			}
			defer done()

			if oo.JSON {
				summary, err := mcp.NewService(svc).Summary(cmd.Context())
				if err != nil {
					return out.HandleError(err)
				}
				return out.PrintJSON(summary)
			}
			printer(cmd).Summary(svc.Totals())
			return nil
		},
	}
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

func addShow(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "show <number>",
		Short: "show one set with its missing parts, figures and notes",
		Example: `
bricks show 7140
bricks show 7140-1 --json
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output(cmd, oo)
			svc, done, err := openService(cmd.Context(), serviceOptions{stderr: cmd.ErrOrStderr()})
			if err != nil {
				return out.HandleError(err)
			}
			defer done()

			if oo.JSON {
				set, err := mcp.NewService(svc).GetSet(cmd.Context(), args[0])
				if err != nil {
					return out.HandleError(err)
				}
				return out.PrintJSON(set)
			}
			row, ok := svc.Row(args[0])
			if !ok {
				return fmt.Errorf("set %s is not in the collection", args[0])
			}
			rec, err := svc.Record(row.Number)
			if err != nil {
				return err
			}
			printer(cmd).Detail(row, rec, svc.Catalog())
			return nil
		},
	}
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

func addAdd(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "add <number>...",
		Short: "add sets to the collection",
		Long: `Add one copy of each set. A number without a variant suffix means -1.
The set weight is looked up online unless fetching is disabled.`,
		Example: `
bricks add 7140
bricks add 6081-1 10179
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := openService(cmd.Context(), serviceOptions{stderr: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}
			defer done()

			// Every number is checked before the collection changes.
			numbers := make([]string, 0, len(args))
			seen := make(map[string]bool, len(args))
			for _, raw := range args {
				number, err := svc.CheckNew(cmd.Context(), raw)
				if err != nil {
					return err
				}
				if seen[number] {
					return fmt.Errorf("set %s is given twice", number)
				}
				seen[number] = true
				numbers = append(numbers, number)
			}

			for _, number := range numbers {
				row, err := svc.AddSet(cmd.Context(), number)
				if err != nil {
					return errors.Join(err, svc.Save(cmd.Context()))
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s %s (%s)\n", row.Number, row.Name, printers.Weight(row.WeightGrams))
			}
			return svc.Save(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}

func addRemove(topLevel *cobra.Command) {
	var yes bool

	cmd := &cobra.Command{
		Use:     "remove <number>...",
		Aliases: []string{"rm"},
		Short:   "remove sets from the collection",
		Long: `Remove sets together with their missing parts, figures and notes.
On a terminal each removal is confirmed unless --yes is given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := openService(cmd.Context(), serviceOptions{stderr: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}
			defer done()

			rows := make([]viewmodel.Row, 0, len(args))
			seen := make(map[string]bool, len(args))
			for _, number := range args {
				row, ok := svc.Row(number)
				if !ok {
					return fmt.Errorf("set %s is not in the collection", number)
				}
				if seen[row.Number] {
					return fmt.Errorf("set %s is given twice", row.Number)
				}
				seen[row.Number] = true
				rows = append(rows, row)
			}

			removed := 0
			for _, row := range rows {
				if !yes && stdinIsTerminal() && stdoutIsTerminal() {
					if !confirm(cmd, fmt.Sprintf("Remove %s %s", row.Number, row.Name)) {
						continue
					}
				}
				if err := svc.RemoveSet(cmd.Context(), row.Number); err != nil {
					if removed == 0 {
						return err
					}
					return errors.Join(err, svc.Save(cmd.Context()))
				}
				removed++
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", row.Number)
			}
			if removed == 0 {
				return nil
			}
			return svc.Save(cmd.Context())
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation.")

	topLevel.AddCommand(cmd)
}

func addEdit(topLevel *cobra.Command) {
	fo := &options.FieldOptions{}

	cmd := &cobra.Command{
		Use:   "edit <number>",
		Short: "change the quantity, boxes, instructions or weight of a set",
		Example: `
bricks edit 7140 --qty 2
bricks edit 7140 --boxes 1 --instructions 1
bricks edit 7140 --weight 0
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			edits := []struct {
				field app.Field
				value string
			}{
				{app.FieldQuantity, fo.Quantity},
				{app.FieldBoxes, fo.Boxes},
				{app.FieldInstructions, fo.Instructions},
				{app.FieldWeight, fo.Weight},
			}
			svc, done, err := openService(cmd.Context(), serviceOptions{stderr: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}
			defer done()

			changed := false
			for _, e := range edits {
				if e.value == "" {
					continue
				}
				if _, err := svc.EditField(cmd.Context(), args[0], e.field, e.value); err != nil {
					return err
				}
				changed = true
			}
			if !changed {
				return fmt.Errorf("nothing to change; use one of --qty, --boxes, --instructions or --weight")
			}
			return svc.Save(cmd.Context())
		},
	}
	options.AddFieldArgs(cmd, fo)

	topLevel.AddCommand(cmd)
}

func addNotes(topLevel *cobra.Command) {
	var appendText bool

	cmd := &cobra.Command{
		Use:   "notes <number> [text...]",
		Short: "show or replace the notes of a set",
		Example: `
bricks notes 7140
bricks notes 7140 stickers applied, box damaged
bricks notes 7140 --append bag 3 is sealed
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := openService(cmd.Context(), serviceOptions{stderr: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}
			defer done()

			if err := svc.Select(cmd.Context(), args[0]); err != nil {
				return err
			}
			b := svc.Buffers()
			if len(args) == 1 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), b.Notes)
				return nil
			}
			text := strings.Join(args[1:], " ")
			if appendText && b.Notes != "" {
				text = b.Notes + "\n" + text
			}
			b.SetNotes(text)
			return svc.Save(cmd.Context())
		},
	}
	cmd.Flags().BoolVarP(&appendText, "append", "a", false, "Add a line instead of replacing the notes.")

	topLevel.AddCommand(cmd)
}

func addColors(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "colors",
		Short: "list the color palette by group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := output(cmd, oo)
			svc, done, err := openService(cmd.Context(), serviceOptions{stderr: cmd.ErrOrStderr()})
			if err != nil {
				return out.HandleError(err)
			}
			defer done()

			if oo.JSON {
				groups, err := mcp.NewService(svc).Colors(cmd.Context())
				if err != nil {
					return out.HandleError(err)
				}
				return out.PrintJSON(groups)
			}
			printer(cmd).Colors(svc.Catalog().GroupedColors())
			return nil
		},
	}
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
