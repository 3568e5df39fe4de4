// Package pipeline runs the decode → segment → partition → render sequence
// shared by the CLI and the HTTP server.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, src, pipeline.Options{
//	    Source:  "markdown",
//	    Formats: []string{"html"},
//	})
//	html := result.Artifacts["html"]
//
// Plans are cached under a hash of the canonical block JSON, so the same
// document authored in Markdown or exported as editor JSON shares an entry.
// Rendered artifacts are cached under a hash of the plan.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/blockplan/pkg/cache"
	"github.com/matzehuels/blockplan/pkg/errors"
	"github.com/matzehuels/blockplan/pkg/partition"
	"github.com/matzehuels/blockplan/pkg/plan"
	"github.com/matzehuels/blockplan/pkg/segment"
)

// =============================================================================
// Formats
// =============================================================================

// Output formats.
const (
	FormatJSON = "json"
	FormatHTML = "html"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// Formats lists every output format in display order.
var Formats = []string{FormatJSON, FormatHTML, FormatDOT, FormatSVG}

// ValidateFormat checks that format is a supported output format.
func ValidateFormat(format string) error {
	return errors.ValidateFormat(format, Formats...)
}

// ValidateFormats checks every format in formats.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline run. The JSON form is the API request body
// minus the document itself.
type Options struct {
	// Source is the document format: "json", "markdown", or empty for JSON.
	Source string `json:"source,omitempty"`

	// Segmentation
	Anchor        string   `json:"anchor,omitempty"`
	Breakout      []string `json:"breakout,omitempty"`
	RequireAnchor bool     `json:"require_anchor,omitempty"`

	// Rendering
	Formats    []string `json:"formats,omitempty"`
	Standalone bool     `json:"standalone,omitempty"`
	Title      string   `json:"title,omitempty"`
	Detailed   bool     `json:"detailed,omitempty"`

	// Refresh skips cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// SetDefaults fills empty fields. Breakout is only defaulted when nil, so an
// explicit empty list disables breakout components.
func (o *Options) SetDefaults() {
	if o.Anchor == "" {
		o.Anchor = segment.DefaultAnchorComponent
	}
	if o.Breakout == nil {
		o.Breakout = append([]string(nil), partition.DefaultBreakout...)
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks field values. Call after SetDefaults.
func (o *Options) Validate() error {
	switch o.Source {
	case "", "json", "markdown", "md":
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown source format %q", o.Source)
	}
	if err := errors.ValidateComponentName(o.Anchor); err != nil {
		return err
	}
	if err := errors.ValidateComponentNames(o.Breakout); err != nil {
		return err
	}
	return ValidateFormats(o.Formats)
}

// ValidateAndSetDefaults applies defaults then validates. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// Classifier returns the breakout classifier for these options.
func (o *Options) Classifier() partition.Classifier {
	return partition.NewComponentSet(o.Breakout...)
}

// SegmentOptions returns the segmenter options.
func (o *Options) SegmentOptions() segment.Options {
	return segment.Options{AnchorComponent: o.Anchor}
}

// PlanKeyOpts returns the cache key options for the plan stage.
func (o *Options) PlanKeyOpts() cache.PlanKeyOpts {
	return cache.PlanKeyOpts{Anchor: o.Anchor, Breakout: o.Breakout}
}

// ArtifactKeyOpts returns the cache key options for one output format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatHTML:
		k.Standalone, k.Title = o.Standalone, o.Title
	case FormatDOT, FormatSVG:
		k.Detailed = o.Detailed
	}
	return k
}

// =============================================================================
// Result
// =============================================================================

// Result is the output of [Runner.Execute].
type Result struct {
	Plan      *plan.Plan
	DocHash   string
	PlanHash  string
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats records sizes and stage timings.
type Stats struct {
	Blocks     int
	Sections   int
	Groups     int
	Discarded  int
	DecodeTime time.Duration
	PlanTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo reports which stages were served from cache.
type CacheInfo struct {
	PlanHit   bool
	RenderHit bool
}
