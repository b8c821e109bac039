package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/MusicFlow-app/HandFlow/pkg/handpan"
)

// scalesCommand creates the scales command listing supported drum layouts.
func (c *CLI) scalesCommand() *cobra.Command {
	var notes int

	cmd := &cobra.Command{
		Use:   "scales",
		Short: "List supported handpan scales",
		Long: `List supported handpan scales.

Every scale family is built in several sizes. A layout names the ding and
the tone circle from lowest to highest; the compiler maps score notes onto
it after transposition. Pass a layout to 'handflow compile --scale' by its
family name.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScales(notes)
		},
	}

	cmd.Flags().IntVarP(&notes, "notes", "n", 0, "only show layouts of this size (9-13)")

	return cmd
}

// runScales prints the registry contents as a table.
func runScales(notes int) error {
	reg := handpan.Default()

	layouts := reg.Layouts()
	if notes > 0 {
		layouts = reg.LayoutsWithCount(notes)
	}
	if len(layouts) == 0 {
		printError("No layouts with %d notes", notes)
		return fmt.Errorf("no layouts with %d notes", notes)
	}

	fmt.Println(StyleTitle.Render("Handpan Scales"))
	printDetail("%d layouts across %d scale families", len(layouts), len(reg.Families()))
	printNewline()

	rows := make([][]string, len(layouts))
	for i, l := range layouts {
		rows[i] = []string{
			l.Name,
			strconv.Itoa(l.NoteCount),
			strings.Join(l.NoteNames(), " "),
		}
	}

	t := newTable("Scale", "Notes", "Layout").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleTableHeader
			case col == 0:
				return StyleValue
			case col == 1:
				return StyleNumber
			default:
				return StyleDim
			}
		})

	fmt.Println(t.Render())

	return nil
}
