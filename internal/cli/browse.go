package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blockplan/pkg/align"
	"github.com/matzehuels/blockplan/pkg/block"
	docio "github.com/matzehuels/blockplan/pkg/io"
	"github.com/matzehuels/blockplan/pkg/partition"
	"github.com/matzehuels/blockplan/pkg/pipeline"
	"github.com/matzehuels/blockplan/pkg/plan"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listAnchorStyle   = lipgloss.NewStyle().Foreground(colorGreen)
	listBreakoutStyle = lipgloss.NewStyle().Foreground(colorYellow)
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		source  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "browse [file]",
		Short: "Explore a document's sections interactively",
		Long: `Explore a document's sections interactively.

Sections are listed in document order with the form anchor between the
preview and detail sections. Expand a section to see its render groups.

A file ending in .plan.json is read as a saved plan instead of a document.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := docio.ParseFormat(source)
			if err != nil {
				return err
			}
			return c.runBrowse(cmd.Context(), args[0], format, noCache)
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "document format: json, markdown (default: from extension)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	completeDocuments(cmd)
	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, input string, format docio.Format, noCache bool) error {
	p, err := c.loadPlan(ctx, input, format, noCache)
	if err != nil {
		return err
	}
	if len(p.Sections()) == 0 {
		printInfo("No sections in %s", input)
		return nil
	}

	_, err = tea.NewProgram(NewBrowseModel(input, p), tea.WithContext(ctx)).Run()
	return err
}

// loadPlan reads a saved plan as-is, or plans the document at input.
func (c *CLI) loadPlan(ctx context.Context, input string, format docio.Format, noCache bool) (*plan.Plan, error) {
	if isPlanFile(input) {
		return docio.ImportPlan(input)
	}

	doc, _, err := docio.ImportDocument(input, format)
	if err != nil {
		return nil, err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	return runner.Plan(ctx, doc, c.pipelineOptions())
}

func isPlanFile(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), formatExt[pipeline.FormatJSON])
}

// =============================================================================
// BrowseModel - Collapsible section browser
// =============================================================================

// browseRow is one selectable line: a section, or the anchor marker.
type browseRow struct {
	section *plan.Section
	region  string
	anchor  *block.Component
}

// BrowseModel is the bubbletea model for the section browser.
type BrowseModel struct {
	Name   string
	Rows   []browseRow
	Open   map[int]bool
	Cursor int
	Height int
	Offset int
}

// NewBrowseModel creates a browser over the sections of p.
func NewBrowseModel(name string, p *plan.Plan) BrowseModel {
	var rows []browseRow
	for i := range p.Pre {
		rows = append(rows, browseRow{section: &p.Pre[i], region: "pre"})
	}
	if p.Anchor != nil {
		rows = append(rows, browseRow{anchor: p.Anchor})
	}
	for i := range p.Post {
		rows = append(rows, browseRow{section: &p.Post[i], region: "post"})
	}
	return BrowseModel{
		Name:   name,
		Rows:   rows,
		Open:   make(map[int]bool),
		Height: 15,
	}
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", " ":
			if m.Rows[m.Cursor].section != nil {
				m.Open[m.Cursor] = !m.Open[m.Cursor]
			}
		case "a":
			expand := !m.allOpen()
			for i, r := range m.Rows {
				if r.section != nil {
					m.Open[i] = expand
				}
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

func (m BrowseModel) allOpen() bool {
	for i, r := range m.Rows {
		if r.section != nil && !m.Open[i] {
			return false
		}
	}
	return true
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Name))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ expand  a all  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Rows))
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		if r.anchor != nil {
			line := fmt.Sprintf("%s── %s ──", cursor, r.anchor.Name)
			b.WriteString(listAnchorStyle.Render(line))
			b.WriteString("\n")
			continue
		}

		marker := "+"
		if m.Open[i] {
			marker = "-"
		}
		line := fmt.Sprintf("%s%s %-4s %s", cursor, marker, r.region, sectionLabel(*r.section))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  %s", plural(len(r.section.Groups), "group"))))
		b.WriteString("\n")

		if m.Open[i] {
			for _, g := range r.section.Groups {
				b.WriteString(groupLine(g))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

func sectionLabel(s plan.Section) string {
	if s.Title != "" {
		return s.Title
	}
	return "#" + s.ID
}

// groupLine summarizes a render group as one indented line.
func groupLine(g plan.Group) string {
	kinds := make([]string, len(g.Blocks))
	for i, blk := range g.Blocks {
		if name, ok := block.ComponentName(blk); ok {
			kinds[i] = name
		} else {
			kinds[i] = string(blk.Kind())
		}
	}
	line := fmt.Sprintf("      %-8s %s", g.Kind, strings.Join(kinds, ", "))
	if len(g.Columns) > 0 {
		line += " " + columnSummary(g.Columns)
	}
	if text := preview(g.Blocks); text != "" {
		line += listDimStyle.Render("  " + text)
	}
	if g.Kind == partition.Breakout {
		return listBreakoutStyle.Render(line)
	}
	return line
}

func columnSummary(cols []align.Alignment) string {
	parts := make([]string, len(cols))
	for i, a := range cols {
		parts[i] = string(a)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
