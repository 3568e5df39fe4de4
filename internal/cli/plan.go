package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blockplan/pkg/errors"
	docio "github.com/matzehuels/blockplan/pkg/io"
	"github.com/matzehuels/blockplan/pkg/pipeline"
)

// formatExt maps render formats to output file suffixes. JSON plans get a
// compound suffix so the default output never overwrites a JSON input.
var formatExt = map[string]string{
	pipeline.FormatJSON: ".plan.json",
	pipeline.FormatHTML: ".html",
	pipeline.FormatDOT:  ".dot",
	pipeline.FormatSVG:  ".svg",
}

// planCommand creates the plan command.
func (c *CLI) planCommand() *cobra.Command {
	var (
		formatsStr  string
		breakoutStr string
		output      string
		noCache     bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "plan [file]",
		Short: "Build a render plan and write it as JSON, HTML, DOT or SVG",
		Long: `Build a render plan and write it as JSON, HTML, DOT or SVG.

The document is segmented at its title markers and form anchor, each section
is partitioned into boxed and breakout groups, and layout columns get their
text alignment. The plan is then rendered to every requested format:

  json  the plan itself
  html  a preview page (use --standalone for a full document)
  dot   a Graphviz outline of sections and groups
  svg   the outline rendered by Graphviz

Plans and rendered outputs are cached by content hash.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base := c.pipelineOptions()
			if opts.Anchor == "" {
				opts.Anchor = base.Anchor
			}
			if cmd.Flags().Changed("breakout") {
				opts.Breakout = append([]string{}, parseList(breakoutStr)...)
			} else {
				opts.Breakout = base.Breakout
			}
			opts.Formats = parseFormats(formatsStr)
			opts.Logger = c.Logger
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if output == docio.Stdin && len(opts.Formats) > 1 {
				return errors.New(errors.ErrCodeInvalidInput, "cannot write %d formats to stdout", len(opts.Formats))
			}
			return c.runPlan(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple); - for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), html, dot, svg (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached results")

	cmd.Flags().StringVar(&opts.Source, "source", "", "document format: json, markdown (default: from extension)")
	cmd.Flags().StringVar(&opts.Anchor, "anchor", "", "anchor component name (default from config, \"form\")")
	cmd.Flags().StringVar(&breakoutStr, "breakout", "", "breakout component names, comma-separated (empty disables)")
	cmd.Flags().BoolVar(&opts.RequireAnchor, "require-anchor", false, "fail when the document has no anchor")

	cmd.Flags().BoolVar(&opts.Standalone, "standalone", false, "wrap HTML in a full page with default styles")
	cmd.Flags().StringVar(&opts.Title, "title", "", "page title for standalone HTML")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "list block kinds in the outline (dot, svg)")

	completeDocuments(cmd)
	return cmd
}

func (c *CLI) runPlan(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	src, err := docio.ReadSource(input)
	if err != nil {
		return err
	}
	if opts.Source == "" && input != docio.Stdin {
		opts.Source = string(docio.DetectFormat(input))
	}
	if opts.Title == "" && input != docio.Stdin {
		opts.Title = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	toStdout := output == docio.Stdin || (output == "" && input == docio.Stdin)

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Planning %s...", input))
	spinner.Start()

	result, err := runner.Execute(ctx, src, opts)
	if err != nil {
		spinner.Stop()
		if !toStdout {
			printError("Planning failed")
		}
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Planned %s", input))

	if toStdout {
		_, err := os.Stdout.Write(result.Artifacts[opts.Formats[0]])
		return err
	}

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
	})
	if err != nil {
		return err
	}

	printSuccess("Planned %s", input)
	printPlanStats(result.Stats.Sections, result.Stats.Groups, result.Stats.Blocks, result.CacheInfo.PlanHit)
	for _, p := range paths {
		printFile(p)
	}
	if !result.Plan.HasAnchor() {
		printWarning("No %q component found; every section is a preview", opts.Anchor)
	}
	printNewline()
	printNextStep("Browse the sections", fmt.Sprintf("%s browse %s", appName, input))
	return nil
}

// =============================================================================
// Artifact Output
// =============================================================================

type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
}

// writeArtifacts writes each rendered format and returns the paths written.
// A single format goes to output verbatim when set; otherwise file names are
// derived from the base path and the format suffix.
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	var paths []string
	for _, format := range p.formats {
		path := artifactPath(p.output, p.input, format, len(p.formats))
		if err := os.WriteFile(path, p.artifacts[format], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func artifactPath(output, input, format string, count int) string {
	if output != "" && count == 1 {
		return output
	}
	return basePath(output, input) + formatExt[format]
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. Known format
// suffixes are stripped from output.
func basePath(output, input string) string {
	if output == "" {
		if input == docio.Stdin {
			return "plan"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	for _, ext := range formatExt {
		if strings.HasSuffix(output, ext) {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}
