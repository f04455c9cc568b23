package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/slidesmith/pkg/compose"
	"github.com/matzehuels/slidesmith/pkg/errors"
	"github.com/matzehuels/slidesmith/pkg/layout"
	"github.com/matzehuels/slidesmith/pkg/pipeline"
	"github.com/matzehuels/slidesmith/pkg/render/zorder"
)

// inspectOpts holds the inspect command's flags.
type inspectOpts struct {
	settings    settingsFlags
	inputFormat string
	fontsDir    string
	slide       int
	dot         bool
	overlaps    bool
	output      string
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	opts := inspectOpts{}

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print the layout plans of a deck",
		Long: `Inspect composes a deck without rendering and prints what each slide
contains. With --slide it lists every element of one slide in draw order.

With --dot it prints the slide's draw order as a Graphviz graph instead;
an output path ending in .svg renders the graph.`,
		Example: `  slidesmith inspect talk.yaml
  slidesmith inspect talk.yaml --slide 3
  slidesmith inspect talk.yaml --slide 3 --dot --overlaps -o slide3.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd, args[0], opts)
		},
	}

	addSettingsFlags(cmd, &opts.settings)
	cmd.Flags().StringVar(&opts.inputFormat, "input-format", "", "input format: json, yaml or outline (default: from extension)")
	cmd.Flags().StringVar(&opts.fontsDir, "fonts-dir", "", "additional directory to search for fonts")
	cmd.Flags().IntVarP(&opts.slide, "slide", "s", 0, "slide number to inspect (1-based)")
	cmd.Flags().BoolVar(&opts.dot, "dot", false, "print the draw order graph of --slide")
	cmd.Flags().BoolVar(&opts.overlaps, "overlaps", false, "mark overlapping elements in the graph")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write to file instead of stdout")

	return cmd
}

func (c *CLI) runInspect(cmd *cobra.Command, path string, opts inspectOpts) error {
	ctx := cmd.Context()

	in, err := readDeck(path, opts.inputFormat, cmd.InOrStdin(), &opts.settings)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, true, opts.fontsDir)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := runner.Compose(ctx, in, pipeline.Options{Logger: loggerFromContext(ctx)})
	if err != nil {
		return err
	}

	if opts.slide == 0 {
		if opts.dot {
			return errors.New(errors.ErrCodeInvalidInput, "--dot requires --slide")
		}
		fmt.Fprintln(stdout, planTable(res))
		printFailures(res.Failures)
		return nil
	}

	plan, ok := findPlan(res, opts.slide-1)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "slide %d has no plan", opts.slide)
	}
	if !opts.dot {
		fmt.Fprintln(stdout, elementTable(plan))
		return nil
	}

	dot := zorder.ToDOT(plan, zorder.Options{Detailed: true, Overlaps: opts.overlaps})
	if opts.output == "" {
		fmt.Fprint(stdout, dot)
		return nil
	}
	data := []byte(dot)
	if strings.EqualFold(filepath.Ext(opts.output), ".svg") {
		if data, err = zorder.RenderSVG(ctx, dot); err != nil {
			return err
		}
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printFile(opts.output)
	return nil
}

func findPlan(res *compose.Result, index int) (layout.Plan, bool) {
	for _, p := range res.Plans {
		if p.Index == index {
			return p, true
		}
	}
	return layout.Plan{}, false
}

// planTable summarises every plan of a run, one row per slide.
func planTable(res *compose.Result) string {
	rows := make([][]string, 0, len(res.Plans))
	for _, p := range res.Plans {
		variant := p.Variant
		if variant == "" {
			variant = "-"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", p.Index+1),
			string(p.Type),
			variant,
			fmt.Sprintf("%d", len(p.Elements)),
			firstText(p),
		})
	}
	return styledTable([]string{"#", "Type", "Variant", "Elements", "Text"}, rows)
}

// elementTable lists the elements of one plan in draw order.
func elementTable(p layout.Plan) string {
	rows := make([][]string, len(p.Elements))
	for i, e := range p.Elements {
		fill := ""
		if e.Fill != nil {
			fill = e.Fill.Color.Hex()
		}
		rows[i] = []string{
			fmt.Sprintf("%d", i),
			string(e.Role),
			string(e.Kind),
			fmt.Sprintf("%.0f,%.0f", e.X, e.Y),
			fmt.Sprintf("%.0fx%.0f", e.Width, e.Height),
			fill,
			elementText(e),
		}
	}
	return styledTable([]string{"#", "Role", "Kind", "Position", "Size", "Fill", "Text"}, rows)
}

func styledTable(headers []string, rows [][]string) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == len(headers)-1 {
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// firstText returns the first line of the plan's first text element.
func firstText(p layout.Plan) string {
	for _, e := range p.Elements {
		if s := elementText(e); s != "" {
			return s
		}
	}
	return ""
}

func elementText(e layout.Element) string {
	if e.Text == nil || len(e.Text.Lines) == 0 {
		return ""
	}
	s := e.Text.Lines[0]
	if len(e.Text.Lines) > 1 {
		s += fmt.Sprintf(" (+%d)", len(e.Text.Lines)-1)
	}
	return truncate(s, 40)
}

// truncate shortens s to n runes with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
