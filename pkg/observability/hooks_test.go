package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

type countingHooks struct {
	NoopPipelineHooks
	mu       sync.Mutex
	segments int
}

func (c *countingHooks) OnSegmentComplete(context.Context, int, int, int, time.Duration) {
	c.mu.Lock()
	c.segments++
	c.mu.Unlock()
}

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnSegmentComplete(ctx, 10, 2, 1, time.Millisecond)
	p.OnPlanComplete(ctx, 3, time.Millisecond, nil)
	p.OnRenderComplete(ctx, "html", 100, time.Millisecond, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "plan")
	c.OnCacheMiss(ctx, "plan")
	c.OnCacheSet(ctx, "artifact", 10)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "id", "POST", "/v1/plan")
	h.OnResponse(ctx, "id", "POST", "/v1/plan", 200, time.Millisecond)
}

func TestRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() default is not noop")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() default is not noop")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() default is not noop")
	}

	custom := &countingHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)
	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) replaced registered hooks")
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Pipeline().OnSegmentComplete(context.Background(), 1, 1, 0, 0)
		}()
	}
	wg.Wait()
	if custom.segments != 8 {
		t.Errorf("segments = %d, want 8", custom.segments)
	}

	lh := NewLogHooks(log.New(&bytes.Buffer{}))
	SetCacheHooks(lh)
	SetHTTPHooks(lh)
	if Cache() != CacheHooks(lh) || HTTP() != HTTPHooks(lh) {
		t.Error("Set*Hooks did not register LogHooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() did not restore noop")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	l := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	h := NewLogHooks(l)
	h.Slow = time.Second
	ctx := context.Background()

	h.OnSegmentComplete(ctx, 12, 3, 1, time.Millisecond)
	h.OnPlanComplete(ctx, 0, 0, errors.New("boom"))
	h.OnCacheHit(ctx, "plan")
	h.OnResponse(ctx, "abc", "POST", "/v1/plan", 200, 2*time.Second)
	h.OnResponse(ctx, "def", "POST", "/v1/plan", 503, time.Millisecond)

	out := buf.String()
	for _, want := range []string{
		"segmented", "sections=3",
		"WARN", "plan failed", "err=boom",
		"cache hit", "type=plan",
		"slow response", "id=abc",
		"ERRO", "status=503",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q\n%s", want, out)
		}
	}
}
