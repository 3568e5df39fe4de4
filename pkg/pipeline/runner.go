package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/blockplan/pkg/block"
	"github.com/matzehuels/blockplan/pkg/cache"
	"github.com/matzehuels/blockplan/pkg/errors"
	docio "github.com/matzehuels/blockplan/pkg/io"
	"github.com/matzehuels/blockplan/pkg/observability"
	"github.com/matzehuels/blockplan/pkg/plan"
	"github.com/matzehuels/blockplan/pkg/segment"
)

// Runner executes the pipeline against a cache. It holds no per-run state, so
// one Runner may serve concurrent requests.
type Runner struct {
	Cache     cache.Cache
	Keyer     cache.Keyer
	Logger    *log.Logger
	PlanTTL   time.Duration
	RenderTTL time.Duration
}

// NewRunner returns a runner. A nil cache disables caching, a nil keyer uses
// [cache.DefaultKeyer], and a nil logger uses log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:     c,
		Keyer:     keyer,
		Logger:    logger,
		PlanTTL:   cache.PlanTTL,
		RenderTTL: cache.ArtifactTTL,
	}
}

// Execute decodes src, plans it, and renders every requested format.
func (r *Runner) Execute(ctx context.Context, src []byte, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	decodeStart := time.Now()
	doc, err := Decode(src, opts.Source)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	result := &Result{}
	result.Stats.DecodeTime = time.Since(decodeStart)
	result.Stats.Blocks = len(doc)

	p, hit, err := r.PlanWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Plan = p
	result.CacheInfo.PlanHit = hit
	result.Stats.PlanTime = time.Since(decodeStart) - result.Stats.DecodeTime
	result.Stats.Sections = p.Stats.Sections
	result.Stats.Groups = p.Stats.Boxed + p.Stats.Breakout
	result.Stats.Discarded = p.Stats.Segment.Discarded
	if canon, err := block.Marshal(doc); err == nil {
		result.DocHash = cache.Hash(canon)
	}
	if data, err := plan.Marshal(p); err == nil {
		result.PlanHash = cache.Hash(data)
	}

	opts.Logger.Info("planned document",
		"blocks", len(doc),
		"sections", result.Stats.Sections,
		"groups", result.Stats.Groups,
		"cached", hit,
		"duration", result.Stats.PlanTime)

	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, p, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = hit
	result.Stats.RenderTime = time.Since(renderStart)

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Decode parses src as a document in the named source format.
func Decode(src []byte, source string) ([]block.Block, error) {
	f, err := docio.ParseFormat(source)
	if err != nil {
		return nil, err
	}
	return docio.ParseDocument(src, f)
}

// PlanWithCacheInfo segments and partitions doc, consulting the cache first.
// It reports whether the plan came from cache.
func (r *Runner) PlanWithCacheInfo(ctx context.Context, doc []block.Block, opts Options) (*plan.Plan, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, fmt.Errorf("invalid options: %w", err)
	}

	canon, err := block.Marshal(doc)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInvalidDocument, err, "hash document")
	}
	key := r.Keyer.PlanKey(cache.Hash(canon), opts.PlanKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err != nil {
			opts.Logger.Warn("plan cache read failed", "err", err)
		} else if hit {
			if p, err := plan.Unmarshal(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "plan")
				return p, true, r.check(p, opts)
			}
		}
		observability.Cache().OnCacheMiss(ctx, "plan")
	}

	if err := ctx.Err(); err != nil {
		return nil, false, fmt.Errorf("plan: %w", err)
	}
	start := time.Now()
	res := segment.Segment(doc, opts.SegmentOptions())
	observability.Pipeline().OnSegmentComplete(ctx, len(doc), len(res.Pre)+len(res.Post), res.Stats.Discarded, time.Since(start))

	p := plan.Build(res, opts.Classifier())
	err = r.check(p, opts)
	observability.Pipeline().OnPlanComplete(ctx, p.Stats.Boxed+p.Stats.Breakout, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := plan.Marshal(p); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.PlanTTL); err != nil {
			opts.Logger.Warn("plan cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "plan", len(data))
		}
	}
	return p, false, nil
}

// Plan is PlanWithCacheInfo without the cache flag.
func (r *Runner) Plan(ctx context.Context, doc []block.Block, opts Options) (*plan.Plan, error) {
	p, _, err := r.PlanWithCacheInfo(ctx, doc, opts)
	return p, err
}

// check enforces strict-anchor mode and logs suspicious segmentation.
func (r *Runner) check(p *plan.Plan, opts Options) error {
	if !p.HasAnchor() {
		if opts.RequireAnchor {
			return errors.New(errors.ErrCodeNoAnchor, "document has no %q component", opts.Anchor)
		}
		opts.Logger.Warn("no anchor component found; every section is a preview", "anchor", opts.Anchor)
	}
	// One leading empty paragraph is expected from the editor. Anything more
	// is authored content that appeared before the first title marker.
	if n := p.Stats.Segment.Discarded; n > 1 {
		opts.Logger.Warn("discarded blocks outside any section", "count", n)
	}
	return nil
}

// RenderWithCacheInfo renders p in every requested format. It reports a hit
// only when all formats came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, p *plan.Plan, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, fmt.Errorf("invalid options: %w", err)
	}

	planData, err := plan.Marshal(p)
	if err != nil {
		return nil, false, fmt.Errorf("hash plan: %w", err)
	}
	planHash := cache.Hash(planData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	allHit := true
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(planHash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		allHit = false

		if err := ctx.Err(); err != nil {
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		start := time.Now()
		data, err := Render(ctx, p, format, opts)
		observability.Pipeline().OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data

		if err := r.Cache.Set(ctx, key, data, r.RenderTTL); err != nil {
			opts.Logger.Warn("artifact cache write failed", "format", format, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return artifacts, allHit, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
