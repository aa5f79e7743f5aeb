package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnAspectsStart(ctx, 2)
	p.OnAspectsComplete(ctx, 3, 40, time.Second, nil)
	p.OnWheelStart(ctx, "natal", 4)
	p.OnWheelComplete(ctx, "natal", 60, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "aspects")
	c.OnCacheMiss(ctx, "wheel")
	c.OnCacheSet(ctx, "wheel", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/wheels")
	h.OnResponse(ctx, "POST", "/v1/wheels", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	hooks := NewLogHooks(nil)
	SetPipelineHooks(hooks)
	SetCacheHooks(hooks)
	SetHTTPHooks(hooks)
	if Pipeline() != PipelineHooks(hooks) || Cache() != CacheHooks(hooks) || HTTP() != HTTPHooks(hooks) {
		t.Error("Set*Hooks should register custom hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	h := NewLogHooks(logger)
	ctx := context.Background()

	h.OnWheelStart(ctx, "transit", 6)
	h.OnWheelComplete(ctx, "transit", 0, time.Millisecond, errors.New("circle too small"))
	h.OnCacheHit(ctx, "aspects")

	out := buf.String()
	for _, want := range []string{"wheel start", "template=transit", "wheel failed", "circle too small", "cache hit", "stage=aspects"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

type testPipelineHooks struct{ NoopPipelineHooks }
