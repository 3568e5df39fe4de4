package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blockplan/pkg/align"
	"github.com/matzehuels/blockplan/pkg/errors"
)

// alignCommand creates the align command.
func (c *CLI) alignCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "align [weight...]",
		Short: "Resolve text alignment for layout column weights",
		Long: `Resolve text alignment for layout column weights.

Weights may be given as separate arguments or comma-separated:

  blockplan align 1 2 1
  blockplan align 2,1,1

Equal weights spread from left to right. Otherwise the widest column
anchors its side and the others align away from it.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			weights, err := parseWeights(args)
			if err != nil {
				return err
			}
			for i, a := range align.Resolve(weights) {
				printKeyValue(fmt.Sprintf("column %d", i+1),
					StyleNumber.Render(strconv.FormatFloat(weights[i], 'g', -1, 64))+"  "+StyleHighlight.Render(string(a)))
			}
			return nil
		},
	}
}

// parseWeights parses column weights from arguments, each of which may hold
// a comma-separated list.
func parseWeights(args []string) ([]float64, error) {
	var weights []float64
	for _, arg := range args {
		for _, field := range strings.Split(arg, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			w, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, errors.New(errors.ErrCodeInvalidColumns, "weight %q is not a number", field)
			}
			weights = append(weights, w)
		}
	}
	if err := errors.ValidateColumns(weights); err != nil {
		return nil, err
	}
	return weights, nil
}
