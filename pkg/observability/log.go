package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a structured logger at debug level.
// Failed stages are logged at warn level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log through logger. A nil logger uses
// log.Default().
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnAspectsStart(_ context.Context, layerCount int) {
	h.logger.Debug("aspects start", "layers", layerCount)
}

func (h *LogHooks) OnAspectsComplete(_ context.Context, setCount, pairCount int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("aspects failed", "duration", d, "err", err)
		return
	}
	h.logger.Debug("aspects done", "sets", setCount, "pairs", pairCount, "duration", d)
}

func (h *LogHooks) OnWheelStart(_ context.Context, templateID string, ringCount int) {
	h.logger.Debug("wheel start", "template", templateID, "rings", ringCount)
}

func (h *LogHooks) OnWheelComplete(_ context.Context, templateID string, itemCount int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("wheel failed", "template", templateID, "duration", d, "err", err)
		return
	}
	h.logger.Debug("wheel done", "template", templateID, "items", itemCount, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "stage", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "stage", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "stage", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "route", route, "status", status, "duration", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
