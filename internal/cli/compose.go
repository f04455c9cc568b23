package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/slidesmith/pkg/compose"
	"github.com/matzehuels/slidesmith/pkg/pipeline"
	"github.com/matzehuels/slidesmith/pkg/render"
)

// composeOpts holds the compose command's flags.
type composeOpts struct {
	settings    settingsFlags
	output      string
	formats     string
	inputFormat string
	fontsDir    string
	embedFonts  bool
	overlaps    bool
	noCache     bool
	refresh     bool
}

// composeCommand creates the compose command.
func (c *CLI) composeCommand() *cobra.Command {
	opts := composeOpts{}

	cmd := &cobra.Command{
		Use:   "compose <file>",
		Short: "Compose a deck and render it",
		Long: `Compose plans every slide of a deck and writes the requested formats.

The input may be JSON, YAML or a slide outline (.deck). Use "-" to read JSON
from standard input.

Formats: svg (one file per slide), pdf (one file per deck), png (one file per
slide), json (plans and summary), dot (draw order graph per slide).`,
		Example: `  slidesmith compose talk.yaml
  slidesmith compose talk.deck -f pdf,png -o build/talk
  slidesmith compose talk.json --theme glass --brand-color "#0ea5e9"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCompose(cmd, args[0], opts)
		},
	}

	addSettingsFlags(cmd, &opts.settings)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path prefix (default: input name)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "comma-separated formats: svg,pdf,png,json,dot (default svg)")
	cmd.Flags().StringVar(&opts.inputFormat, "input-format", "", "input format: json, yaml or outline (default: from extension)")
	cmd.Flags().StringVar(&opts.fontsDir, "fonts-dir", "", "additional directory to search for fonts")
	cmd.Flags().BoolVar(&opts.embedFonts, "embed-fonts", false, "embed resolved fonts in SVG output")
	cmd.Flags().BoolVar(&opts.overlaps, "overlaps", false, "mark overlapping elements in DOT output")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompose even when cached")
	registerFormatCompletion(cmd)

	return cmd
}

// addSettingsFlags registers the settings overrides on cmd.
func addSettingsFlags(cmd *cobra.Command, f *settingsFlags) {
	cmd.Flags().StringVarP(&f.theme, "theme", "t", "", "theme name (see 'slidesmith themes')")
	cmd.Flags().StringVar(&f.themeFile, "theme-file", "", "load and use a TOML theme file")
	cmd.Flags().StringVarP(&f.layout, "layout", "l", "", "content layout: mixed, classic, split or card")
	cmd.Flags().StringVar(&f.fontStyle, "font-style", "", "font style: modern, classic or handwritten")
	cmd.Flags().StringVar(&f.brandColor, "brand-color", "", "accent color override, e.g. #0ea5e9")
	cmd.Flags().StringVar(&f.logo, "logo", "", "brand logo image drawn on every slide")
	cmd.Flags().StringVar(&f.sourceURL, "source-url", "", "URL shown as a QR code on closing slides")
	cmd.Flags().Float64Var(&f.width, "width", 0, "slide width in canvas units")
	cmd.Flags().Float64Var(&f.height, "height", 0, "slide height in canvas units")
	registerSettingsCompletions(cmd)
}

func (c *CLI) runCompose(cmd *cobra.Command, path string, opts composeOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	in, err := readDeck(path, opts.inputFormat, cmd.InOrStdin(), &opts.settings)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache, opts.fontsDir)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	spin := newSpinner(ctx, os.Stderr, fmt.Sprintf("Composing %d slides...", len(in.Slides)))
	spin.run()
	result, err := runner.Execute(ctx, in, pipeline.Options{
		Formats:    parseFormats(opts.formats),
		EmbedFonts: opts.embedFonts,
		Overlaps:   opts.overlaps,
		Refresh:    opts.refresh,
		Logger:     logger,
	})
	if err != nil {
		spin.stop()
		return err
	}

	spin.setMessage(fmt.Sprintf("Writing %d files...", len(result.Artifacts)))
	files, err := writeArtifacts(outputBase(path, opts.output), result.Artifacts)
	spin.stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Wrote %d files", len(files)), "run", result.Compose.RunID)

	printSummary(result.Compose, result.CacheInfo.ComposeHit)
	for _, f := range files {
		printFile(f)
	}
	printFailures(result.Compose.Failures)
	if !result.Compose.OK() {
		printNewline()
		printNextStep("Inspect failing slides", "slidesmith preview "+path)
	}
	return nil
}

// writeArtifacts writes every artifact next to base and returns the paths.
func writeArtifacts(base string, arts []render.Artifact) ([]string, error) {
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	files := make([]string, 0, len(arts))
	for _, a := range arts {
		name := a.Name(base)
		if err := os.WriteFile(name, a.Data, 0o644); err != nil {
			return files, fmt.Errorf("write %s: %w", name, err)
		}
		files = append(files, name)
	}
	return files, nil
}

// outputBase returns the prefix artifact names are built from.
func outputBase(input, output string) string {
	if output != "" {
		return output
	}
	if input == stdinPath {
		return "slides"
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}

// printSummary prints the run's headline.
func printSummary(res *compose.Result, cached bool) {
	msg := fmt.Sprintf("Composed %d of %d slides with theme %s",
		res.Summary.Created, res.Summary.SlideCount, StyleHighlight.Render(res.Theme))
	if res.OK() {
		printSuccess("%s", msg)
	} else {
		printWarning("%s", msg)
	}
	printStats(res.Summary.Created, res.Summary.Failed, cached)
}

// printFailures lists the slides that produced no plan.
func printFailures(failures []compose.Failure) {
	for _, f := range failures {
		printError("slide %d (%s): %s", f.Index+1, f.Type, f.Reason)
	}
}
