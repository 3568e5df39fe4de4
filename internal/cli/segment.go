package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blockplan/pkg/block"
	"github.com/matzehuels/blockplan/pkg/errors"
	docio "github.com/matzehuels/blockplan/pkg/io"
	"github.com/matzehuels/blockplan/pkg/segment"
)

// previewWidth caps the text preview column of the section table.
const previewWidth = 40

// segmentCommand creates the segment command.
func (c *CLI) segmentCommand() *cobra.Command {
	var (
		anchor string
		source string
	)

	cmd := &cobra.Command{
		Use:   "segment [file]",
		Short: "Show how a document splits into sections",
		Long: `Show how a document splits into sections.

Prints one row per section: whether it comes before (pre) or after (post)
the form anchor, its title or id, the number of content blocks and a short
text preview. Use "-" to read the document from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if anchor == "" {
				anchor = c.Config.Segment.Anchor
			}
			if err := errors.ValidateComponentName(anchor); err != nil {
				return err
			}
			format, err := docio.ParseFormat(source)
			if err != nil {
				return err
			}
			return c.runSegment(args[0], format, anchor)
		},
	}

	cmd.Flags().StringVar(&anchor, "anchor", "", "anchor component name (default from config, \"form\")")
	cmd.Flags().StringVar(&source, "source", "", "document format: json, markdown (default: from extension)")

	completeDocuments(cmd)
	return cmd
}

func (c *CLI) runSegment(input string, format docio.Format, anchor string) error {
	doc, _, err := docio.ImportDocument(input, format)
	if err != nil {
		return err
	}
	res := segment.Segment(doc, segment.Options{AnchorComponent: anchor})
	c.Logger.Debug("segmented document", "blocks", len(doc), "sections", len(res.Pre)+len(res.Post))

	printSuccess("Segmented %s", input)
	rows := sectionRows(res)
	if len(rows) > 0 {
		fmt.Println(sectionTable(rows))
	}

	if res.HasAnchor() {
		printKeyValue("anchor", res.Anchor.Name)
	} else {
		printWarning("No %q component found; every section is a preview", anchor)
	}
	printKeyValue("sections", fmt.Sprintf("%d pre, %d post", len(res.Pre), len(res.Post)))
	printKeyValue("blocks", fmt.Sprintf("%d of %d in sections", res.ContentCount(), len(doc)))
	if res.Stats.Discarded > 0 {
		printKeyValue("discarded", strconv.Itoa(res.Stats.Discarded))
	}
	return nil
}

// sectionRows returns one table row per section in document order.
func sectionRows(res segment.Result) [][]string {
	var rows [][]string
	add := func(region string, sections []segment.Section) {
		for i, s := range sections {
			label := s.Title
			if label == "" {
				label = "#" + s.ID
			}
			rows = append(rows, []string{
				region,
				strconv.Itoa(i + 1),
				label,
				strconv.Itoa(len(s.Content)),
				preview(s.Content),
			})
		}
	}
	add("pre", res.Pre)
	add("post", res.Post)
	return rows
}

// preview returns the first non-empty text in blocks, truncated.
func preview(blocks []block.Block) string {
	for _, b := range blocks {
		text := strings.Join(strings.Fields(block.Text(b)), " ")
		if text == "" {
			continue
		}
		if r := []rune(text); len(r) > previewWidth {
			return string(r[:previewWidth-1]) + "…"
		}
		return text
	}
	return ""
}

func sectionTable(rows [][]string) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Region", "#", "Section", "Blocks", "Preview").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 2:
				return StyleHighlight
			case col == 4:
				return StyleDim
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
