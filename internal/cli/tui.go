package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/slidesmith/pkg/compose"
	"github.com/matzehuels/slidesmith/pkg/layout"
	"github.com/matzehuels/slidesmith/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listFailedStyle   = lipgloss.NewStyle().Foreground(colorRed)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// previewCommand - Interactive plan browser
// =============================================================================

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		settings    settingsFlags
		inputFormat string
		fontsDir    string
	)

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Browse a deck's layout plans interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			in, err := readDeck(args[0], inputFormat, cmd.InOrStdin(), &settings)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, true, fontsDir)
			if err != nil {
				return err
			}
			defer runner.Close()

			res, err := runner.Compose(ctx, in, pipeline.Options{Logger: loggerFromContext(ctx)})
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(NewPreviewModel(res), tea.WithContext(ctx), tea.WithAltScreen()).Run()
			return err
		},
	}

	addSettingsFlags(cmd, &settings)
	cmd.Flags().StringVar(&inputFormat, "input-format", "", "input format: json, yaml or outline (default: from extension)")
	cmd.Flags().StringVar(&fontsDir, "fonts-dir", "", "additional directory to search for fonts")

	return cmd
}

// =============================================================================
// PreviewModel - Slide list with element detail
// =============================================================================

// previewRow is one slide of the list: a plan, or the failure that
// replaced it.
type previewRow struct {
	index   int
	plan    *layout.Plan
	failure *compose.Failure
}

// PreviewModel is the bubbletea model for browsing a composition result.
type PreviewModel struct {
	Result *compose.Result
	Cursor int
	Height int
	Offset int

	// Detail shows the selected slide's elements instead of the list.
	Detail bool

	rows []previewRow
}

// NewPreviewModel creates a preview model listing every slide of res,
// planned or failed, in slide order.
func NewPreviewModel(res *compose.Result) PreviewModel {
	byIndex := map[int]previewRow{}
	for i := range res.Plans {
		byIndex[res.Plans[i].Index] = previewRow{index: res.Plans[i].Index, plan: &res.Plans[i]}
	}
	for i := range res.Failures {
		byIndex[res.Failures[i].Index] = previewRow{index: res.Failures[i].Index, failure: &res.Failures[i]}
	}
	rows := make([]previewRow, 0, len(byIndex))
	for i := 0; i < res.Summary.SlideCount; i++ {
		if r, ok := byIndex[i]; ok {
			rows = append(rows, r)
		}
	}
	return PreviewModel{Result: res, Height: 15, rows: rows}
}

func (m PreviewModel) Init() tea.Cmd {
	return nil
}

func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if !m.Detail {
				return m, tea.Quit
			}
			m.Detail = false
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", "tab":
			if len(m.rows) > 0 && m.rows[m.Cursor].plan != nil {
				m.Detail = !m.Detail
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m PreviewModel) View() string {
	if m.Detail && len(m.rows) > 0 && m.rows[m.Cursor].plan != nil {
		return m.detailView(*m.rows[m.Cursor].plan)
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render(fmt.Sprintf("Slides · %s", m.Result.Theme)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ elements  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.rows))
	for i := m.Offset; i < end; i++ {
		r := m.rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		var line string
		style := listNormalStyle
		if r.failure != nil {
			line = fmt.Sprintf("%s%02d  %-8s %s", cursor, r.index+1, r.failure.Type, r.failure.Reason)
			style = listFailedStyle
		} else {
			variant := r.plan.Variant
			if variant == "" {
				variant = "-"
			}
			line = fmt.Sprintf("%s%02d  %-8s %-8s %3d elements  %s",
				cursor, r.index+1, r.plan.Type, variant, len(r.plan.Elements), firstText(*r.plan))
		}
		if i == m.Cursor {
			style = listSelectedStyle
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d planned  %d failed",
		m.Cursor+1, len(m.rows), m.Result.Summary.Created, m.Result.Summary.Failed)))
	return b.String()
}

func (m PreviewModel) detailView(p layout.Plan) string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(fmt.Sprintf("Slide %d · %s", p.Index+1, p.Type)))
	if p.Variant != "" {
		b.WriteString(listDimStyle.Render(" · " + p.Variant))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("esc back  q quit"))
	b.WriteString("\n\n")

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	rows := make([][]string, len(p.Elements))
	for i, e := range p.Elements {
		rows[i] = []string{
			fmt.Sprintf("%d", i),
			string(e.Role),
			string(e.Kind),
			fmt.Sprintf("%.0f,%.0f %.0fx%.0f", e.X, e.Y, e.Width, e.Height),
			elementText(e),
		}
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Role", "Kind", "Box", "Text").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < len(p.Elements) && p.Elements[row].Kind == layout.KindText {
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		})
	b.WriteString(t.Render())
	return b.String()
}
