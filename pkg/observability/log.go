package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event to a logger at debug level, except failures,
// which are warnings.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks creates hooks that write to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger.WithPrefix("obs")}
}

func (h *LogHooks) OnLayoutStart(_ context.Context, nodeCount, edgeCount int) {
	h.logger.Debug("layout start", "nodes", nodeCount, "edges", edgeCount)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, rankCount int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("layout failed", "duration", d, "err", err)
		return
	}
	h.logger.Debug("layout done", "ranks", rankCount, "duration", d)
}

func (h *LogHooks) OnDependencyCheck(_ context.Context, from, to string, err error) {
	h.logger.Debug("dependency check", "from", from, "to", to, "ok", err == nil)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnCacheError(_ context.Context, keyType string, err error) {
	h.logger.Warn("cache error", "type", keyType, "err", err)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "route", route, "status", status, "duration", d)
}

var (
	_ LayoutHooks = (*LogHooks)(nil)
	_ CacheHooks  = (*LogHooks)(nil)
	_ HTTPHooks   = (*LogHooks)(nil)
)
