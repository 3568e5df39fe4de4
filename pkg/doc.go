// Package pkg provides the core libraries for Blockplan document planning.
//
// # Overview
//
// Blockplan takes a page document made of typed content blocks and turns it
// into a rendering plan: the blocks are split around an anchor component
// (typically a form) into titled sections, each section's content is grouped
// into boxed and breakout runs, and multi-column layouts get a text alignment
// per column. The pkg directory is organized into three areas:
//
//  1. Domain logic ([block], [segment], [partition], [align], [plan])
//  2. Orchestration and infrastructure ([pipeline], [cache], [config], [errors], [observability])
//  3. Output ([render/htmlsink], [render/outline])
//
// # Architecture
//
// The typical data flow:
//
//	JSON or Markdown document
//	         ↓
//	    [block] package (decode into the block model)
//	         ↓
//	    [segment] package (pre-anchor sections, anchor, post-anchor sections)
//	         ↓
//	    [partition] + [align] packages (render groups, column alignment)
//	         ↓
//	    [plan] package (serializable plan)
//	         ↓
//	    JSON / HTML / DOT / SVG output
//
// # Quick Start
//
//	doc, _ := block.Unmarshal(data)
//	res := segment.Segment(doc, segment.Options{})
//	p := plan.Build(res, partition.Default())
//	out, _ := htmlsink.Render(p, htmlsink.WithStandalone("Landing"))
//
// The [pipeline] package wraps the same steps with caching and is shared by
// the CLI and the HTTP server.
//
// # Main Packages
//
// [block] - The block model: a closed set of block kinds, a JSON codec and a
// Markdown importer built on goldmark.
//
// [segment] - Single pass over the document that splits it at the first
// anchor component. Title markers open sections before the anchor; dividers
// followed by a marker open them after it.
//
// [partition] - Groups a section's content into maximal boxed runs and
// isolated breakout components.
//
// [align] - Resolves a text alignment for each column of a layout from its
// column weights.
//
// [plan] - The plan IR and its JSON form.
//
// [pipeline] - decode → segment → partition → render, with content-hash
// caching of plans and rendered artifacts.
//
// [cache] - Cache backends: file, Redis, MongoDB and a null cache.
//
// [render/htmlsink] - HTML rendering of a plan.
//
// [render/outline] - Graphviz outline of a plan as DOT or SVG.
//
// # Testing
//
//	go test ./pkg/...                # All tests
//	go test ./pkg/segment/...        # Specific package
//	go test -run Example ./pkg/...   # Examples only
//
// [block]: https://pkg.go.dev/github.com/matzehuels/blockplan/pkg/block
// [segment]: https://pkg.go.dev/github.com/matzehuels/blockplan/pkg/segment
// [partition]: https://pkg.go.dev/github.com/matzehuels/blockplan/pkg/partition
// [align]: https://pkg.go.dev/github.com/matzehuels/blockplan/pkg/align
// [plan]: https://pkg.go.dev/github.com/matzehuels/blockplan/pkg/plan
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/blockplan/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/blockplan/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/blockplan/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/blockplan/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/blockplan/pkg/observability
// [render/htmlsink]: https://pkg.go.dev/github.com/matzehuels/blockplan/pkg/render/htmlsink
// [render/outline]: https://pkg.go.dev/github.com/matzehuels/blockplan/pkg/render/outline
package pkg
