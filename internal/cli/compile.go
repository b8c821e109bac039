package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/MusicFlow-app/HandFlow/pkg/pipeline"
	"github.com/MusicFlow-app/HandFlow/pkg/transpose"
)

// compileCommand creates the compile command for producing tablature.
func (c *CLI) compileCommand() *cobra.Command {
	var (
		output  string
		formats string
		auto    bool
		noCache bool
	)
	opts := pipeline.Options{
		Scale: pipeline.DefaultScale,
		Notes: pipeline.DefaultNotes,
	}

	cmd := &cobra.Command{
		Use:   "compile [score.mscz]",
		Short: "Compile a MuseScore file into handpan tablature",
		Long: `Compile a MuseScore file into handpan tablature.

The compiler reads the archive, picks a part, finds the transposition that
puts the most notes onto the chosen drum, and writes color-coded tablature.

Without --transpose the offset is searched automatically across the full
±24 semitone range. With --transpose the given offset is applied as-is;
add --auto to ignore it and search anyway.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Mode = string(transpose.ModeAuto)
			if cmd.Flags().Changed("transpose") && !auto {
				opts.Mode = string(transpose.ModeManual)
			}
			opts.Formats = parseFormats(formats)
			partChosen := cmd.Flags().Changed("part")
			return c.runCompile(cmd.Context(), args[0], opts, output, noCache, partChosen)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>, - for stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "skip the on-disk cache")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached")

	// Selection flags
	cmd.Flags().IntVarP(&opts.Part, "part", "p", 0, "part index (default: ask when the score has several)")
	cmd.Flags().IntVar(&opts.Voice, "voice", 0, "voice within the part (0-3)")

	// Resolution flags
	cmd.Flags().StringVarP(&opts.Scale, "scale", "s", opts.Scale, "target drum scale")
	cmd.Flags().IntVarP(&opts.Notes, "notes", "n", opts.Notes, "notes on the drum (9-13)")
	cmd.Flags().IntVarP(&opts.Offset, "transpose", "t", 0, "manual transposition offset in semitones")
	cmd.Flags().BoolVar(&auto, "auto", false, "search the offset automatically even with --transpose")
	cmd.Flags().BoolVar(&opts.PlayOnlyInScale, "play-only-inscale", false, "render notes off the drum as rests")

	// Render flags
	cmd.Flags().StringVarP(&formats, "format", "f", pipeline.FormatHTML, "output formats, comma-separated: html (default), json")

	return cmd
}

// runCompile decodes the score, resolves the selection, and writes output.
func (c *CLI) runCompile(ctx context.Context, input string, opts pipeline.Options, output string, noCache, partChosen bool) error {
	paths, err := outputPaths(input, output, opts.Formats)
	if err != nil {
		return err
	}

	archive, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read score %s: %w", input, err)
	}
	opts.Archive = archive

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	ctx = withLogger(ctx, c.Logger)
	opts.Logger = c.Logger

	spinner := newSpinner(ctx, fmt.Sprintf("Reading %s...", filepath.Base(input)))
	spinner.Start()
	doc, err := decodeScore(ctx, runner, opts)
	if err != nil {
		spinner.StopWithError("Unreadable score")
		return fmt.Errorf("decode %s: %w", input, err)
	}
	spinner.Stop()

	if !partChosen && len(doc.Parts) > 1 {
		title := doc.Meta.Title
		if title == "" {
			title = filepath.Base(input)
		}
		printInfo("%s has %d parts", StyleHighlight.Render(title), len(doc.Parts))
		printNewline()

		m := NewPartListModel(doc.Parts)
		p := tea.NewProgram(m)
		finalModel, err := p.Run()
		if err != nil {
			return err
		}

		fm, ok := finalModel.(PartListModel)
		if !ok || fm.Selected < 0 {
			printDetail("No selection made")
			return nil
		}
		opts.Part = fm.Selected
	}

	spinner = newSpinner(ctx, fmt.Sprintf("Compiling for %s (%d notes)...", opts.Scale, opts.Notes))
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		// No error banner when the user interrupted the run.
		if spinner.Cancelled() {
			spinner.Stop()
			return err
		}
		spinner.StopWithError("Compile failed")
		return fmt.Errorf("compile tablature: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if output == "-" {
		if _, err := os.Stdout.Write(result.Outputs[opts.Formats[0]]); err != nil {
			return fmt.Errorf("write stdout: %w", err)
		}
		return nil
	}

	for _, f := range opts.Formats {
		if err := os.WriteFile(paths[f], result.Outputs[f], 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", paths[f], err)
		}
	}

	tab := result.Tablature
	in, total := tab.InScaleCount()
	cached := result.CacheInfo.TablatureHit && result.CacheInfo.RenderHit

	printSuccess("Compiled %s", StyleHighlight.Render(tab.Part))
	for _, f := range opts.Formats {
		printFile(paths[f])
	}
	printStats(result.Stats.Measures, result.Stats.Events, cached)

	mode := ""
	if tab.Auto {
		mode = " (auto)"
	}
	printDetail("%s, %+d semitones%s, %d/%d notes on the drum", tab.Layout.String(), tab.Offset, mode, in, total)
	if result.Stats.Degraded > 0 {
		printWarning("%d unsupported events became rests", result.Stats.Degraded)
	}

	if htmlPath, ok := paths[pipeline.FormatHTML]; ok {
		printNewline()
		printNextStep("View", "open "+htmlPath)
	}

	return nil
}

// outputPaths maps each requested format to its destination file.
func outputPaths(input, output string, formats []string) (map[string]string, error) {
	if output == "-" {
		if len(formats) > 1 {
			return nil, fmt.Errorf("stdout output supports a single format, got %d", len(formats))
		}
		return map[string]string{formats[0]: "-"}, nil
	}

	base := strings.TrimSuffix(input, filepath.Ext(input))
	if output != "" {
		if len(formats) == 1 {
			return map[string]string{formats[0]: output}, nil
		}
		base = strings.TrimSuffix(output, filepath.Ext(output))
	}

	paths := make(map[string]string, len(formats))
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths, nil
}
