package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level, except failures
// and slow requests which are logged as warnings.
type LogHooks struct {
	Logger *log.Logger
	// Slow marks API responses above this duration as warnings. Zero disables.
	Slow time.Duration
}

// NewLogHooks returns hooks that log to l.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{Logger: l, Slow: 2 * time.Second}
}

func (h *LogHooks) OnSegmentComplete(_ context.Context, blocks, sections, discarded int, d time.Duration) {
	h.Logger.Debug("segmented", "blocks", blocks, "sections", sections, "discarded", discarded, "took", d)
}

func (h *LogHooks) OnPlanComplete(_ context.Context, groups int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("plan failed", "err", err, "took", d)
		return
	}
	h.Logger.Debug("planned", "groups", groups, "took", d)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("render failed", "format", format, "err", err)
		return
	}
	h.Logger.Debug("rendered", "format", format, "bytes", size, "took", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, id, method, path string) {
	h.Logger.Debug("request", "id", id, "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, id, method, path string, status int, d time.Duration) {
	kv := []any{"id", id, "method", method, "path", path, "status", status, "took", d.Round(time.Microsecond)}
	switch {
	case status >= 500:
		h.Logger.Error("response", kv...)
	case h.Slow > 0 && d > h.Slow:
		h.Logger.Warn("slow response", kv...)
	default:
		h.Logger.Info("response", kv...)
	}
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
