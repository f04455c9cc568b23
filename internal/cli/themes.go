package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/slidesmith/pkg/deck"
	"github.com/matzehuels/slidesmith/pkg/errors"
)

// themesCommand creates the themes command.
func (c *CLI) themesCommand() *cobra.Command {
	var files []string

	cmd := &cobra.Command{
		Use:   "themes",
		Short: "List available themes",
		Long: `List the built-in themes, plus any TOML theme files given with --file.

A theme file may extend a registered theme and override some of its keys:

  name = "midnight"
  extends = "glass"
  title_align = "left"

  [palette]
  accent = "#22d3ee"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadThemeFiles(files); err != nil {
				return err
			}
			fmt.Fprintln(stdout, themeTable(deck.Themes()))
			return nil
		},
	}
	cmd.PersistentFlags().StringSliceVar(&files, "file", nil, "TOML theme files to load")

	cmd.AddCommand(&cobra.Command{
		Use:   "show <name>",
		Short: "Show a theme's palette and decoration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadThemeFiles(files); err != nil {
				return err
			}
			theme, ok := deck.LookupTheme(args[0])
			if !ok {
				return errors.New(errors.ErrCodeInvalidTheme, "unknown theme %q", args[0])
			}
			printTheme(theme)
			return nil
		},
	})

	return cmd
}

func loadThemeFiles(files []string) error {
	for _, f := range files {
		if _, err := deck.LoadTheme(f); err != nil {
			return err
		}
	}
	return nil
}

// themeTable renders themes with a swatch of their accent color.
func themeTable(themes []deck.Theme) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, len(themes))
	for i, t := range themes {
		rows[i] = []string{t.Name, swatch(t.Palette.Accent), string(t.Decor), string(t.TitleAlign), t.Description}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Theme", "Accent", "Decor", "Align", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorCyan)
			case col == 4:
				return lipgloss.NewStyle().Foreground(colorGray)
			default:
				return lipgloss.NewStyle()
			}
		}).
		Render()
}

func printTheme(t deck.Theme) {
	fmt.Fprintln(stdout, StyleTitle.Render(t.Name))
	if t.Description != "" {
		printDetail("%s", t.Description)
	}
	printNewline()
	printKeyValue("Decor", string(t.Decor))
	background := "plain"
	if t.HasBackground() {
		background = string(t.Background)
	}
	printKeyValue("Background", background)
	printKeyValue("Title align", string(t.TitleAlign))
	printKeyValue("Glass card", fmt.Sprintf("%t", t.GlassCard))
	printNewline()

	p := t.Palette
	for _, role := range []struct {
		name string
		c    deck.Color
	}{
		{"titleBg", p.TitleBg},
		{"contentBg", p.ContentBg},
		{"closingBg", p.ClosingBg},
		{"accent", p.Accent},
		{"titleText", p.TitleText},
		{"bodyText", p.BodyText},
		{"subtitleText", p.SubtitleText},
	} {
		printKeyValue(role.name, swatch(role.c)+" "+role.c.Hex())
	}
	for i, h := range t.Highlights {
		printKeyValue(fmt.Sprintf("highlight %d", i+1), swatch(h)+" "+h.Hex())
	}
}

// swatch renders a small block of color c.
func swatch(c deck.Color) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(c.Hex()[:7])).Render("    ")
}
