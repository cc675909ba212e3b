// Package options defines shared flag helpers for CLI commands.
package options

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

// FilterOptions narrows a set listing.
type FilterOptions struct {
	Theme  string
	Search string
}

func AddFilterArgs(cmd *cobra.Command, o *FilterOptions) {
	cmd.Flags().StringVarP(&o.Theme, "theme", "t", "",
		"Only sets whose theme label contains this text.")
	cmd.Flags().StringVarP(&o.Search, "search", "s", "",
		"Only sets matching this text in number, name, theme or missing lines.")
}

// MatchesTheme reports whether label passes the theme filter.
func (o *FilterOptions) MatchesTheme(label string) bool {
	if o.Theme == "" {
		return true
	}
	return strings.Contains(strings.ToLower(label), strings.ToLower(o.Theme))
}

// FieldOptions holds the numeric columns to change on a set. Empty strings
// are left alone.
type FieldOptions struct {
	Quantity     string
	Boxes        string
	Instructions string
	Weight       string
}

func AddFieldArgs(cmd *cobra.Command, o *FieldOptions) {
	cmd.Flags().StringVar(&o.Quantity, "qty", "",
		"Copies owned, at least 1.")
	cmd.Flags().StringVar(&o.Boxes, "boxes", "",
		"Boxes kept.")
	cmd.Flags().StringVar(&o.Instructions, "instructions", "",
		"Instruction booklets kept.")
	cmd.Flags().StringVar(&o.Weight, "weight", "",
		`Weight in grams, "0" for unknown.`)
}

// MissingOptions describes one missing part or figure line.
type MissingOptions struct {
	Part     string
	Color    string
	Fig      string
	Quantity string
	Remove   bool
}

func AddMissingArgs(cmd *cobra.Command, o *MissingOptions) {
	cmd.Flags().StringVar(&o.Part, "part", "",
		"Part number of a missing part.")
	cmd.Flags().StringVar(&o.Color, "color", "",
		"Color name of the missing part, defaults to Black.")
	cmd.Flags().StringVar(&o.Fig, "fig", "",
		"Figure number of a missing minifigure.")
	cmd.Flags().StringVar(&o.Quantity, "qty", "1",
		"How many are missing.")
	cmd.Flags().BoolVar(&o.Remove, "remove", false,
		"Remove the line instead of adding it.")
}

// Validate checks that exactly one of --part and --fig was given.
func (o *MissingOptions) Validate() error {
	switch {
	case o.Part == "" && o.Fig == "":
		return errors.New("one of --part or --fig is required")
	case o.Part != "" && o.Fig != "":
		return errors.New("--part and --fig are mutually exclusive")
	case o.Fig != "" && o.Color != "":
		return errors.New("--color only applies to --part")
	}
	return nil
}
