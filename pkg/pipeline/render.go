package pipeline

import (
	"context"

	"github.com/matzehuels/blockplan/pkg/errors"
	"github.com/matzehuels/blockplan/pkg/plan"
	"github.com/matzehuels/blockplan/pkg/render/htmlsink"
	"github.com/matzehuels/blockplan/pkg/render/outline"
)

// Render paints p in one output format.
func Render(ctx context.Context, p *plan.Plan, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		return plan.Marshal(p)
	case FormatHTML:
		var hopts []htmlsink.Option
		if opts.Standalone {
			hopts = append(hopts, htmlsink.WithStandalone(opts.Title), htmlsink.WithOpenFirst())
		}
		return htmlsink.Render(p, hopts...)
	case FormatDOT:
		return []byte(outline.ToDOT(p, outline.Options{Detailed: opts.Detailed})), nil
	case FormatSVG:
		return outline.RenderSVG(ctx, outline.ToDOT(p, outline.Options{Detailed: opts.Detailed}))
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", format)
	}
}
