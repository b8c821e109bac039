package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/MusicFlow-app/HandFlow/pkg/pipeline"
)

// partsCommand creates the parts command for inspecting a score.
func (c *CLI) partsCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "parts [score.mscz]",
		Short: "List the parts of a MuseScore file",
		Long: `List the parts of a MuseScore file.

Each staff becomes one selectable part. Piano-style parts with two staves
are split into "(Treble)" and "(Bass)" entries. Pass the part index to
'handflow compile --part' to skip the interactive picker.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runParts(cmd.Context(), args[0], noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "skip the on-disk cache")

	return cmd
}

// runParts decodes the score and prints its metadata and part table.
func (c *CLI) runParts(ctx context.Context, input string, noCache bool) error {
	archive, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read score %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	ctx = withLogger(ctx, c.Logger)

	spinner := newSpinner(ctx, fmt.Sprintf("Reading %s...", filepath.Base(input)))
	spinner.Start()
	doc, err := decodeScore(ctx, runner, pipeline.Options{Archive: archive})
	if err != nil {
		spinner.StopWithError("Unreadable score")
		return fmt.Errorf("decode %s: %w", input, err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	title := doc.Meta.Title
	if title == "" {
		title = filepath.Base(input)
	}

	fmt.Println(StyleTitle.Render(title))
	if doc.Meta.Composer != "" {
		printKeyValue("Composer", doc.Meta.Composer)
	}
	printKeyValue("Arranger", doc.Meta.Arranger)
	if doc.Degraded > 0 {
		printWarning("%d unsupported events became rests", doc.Degraded)
	}
	printNewline()

	rows := make([][]string, len(doc.Parts))
	for i, p := range doc.Parts {
		rows[i] = []string{
			strconv.Itoa(i),
			p.Name,
			strconv.Itoa(p.StaffID),
			strconv.Itoa(len(p.Measures)),
			strconv.Itoa(countNotes(p)),
		}
	}

	t := newTable("#", "Part", "Staff", "Measures", "Notes").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleTableHeader
			case col == 0:
				return StyleNumber
			case col == 1:
				return StyleValue
			default:
				return StyleDim
			}
		})

	fmt.Println(t.Render())
	printNewline()
	printNextStep("Compile", fmt.Sprintf("handflow compile %s --part 0", input))

	return nil
}
