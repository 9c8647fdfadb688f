package jellyfin

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Playstate is the server side of playback reporting.
type Playstate interface {
	ReportPlaybackStart(ctx context.Context, itemID string, positionTicks int64) error
	ReportPlaybackStopped(ctx context.Context, itemID string, positionTicks int64) error
}

// Reporter tells the server when a library-backed session gains or loses the
// device. Sessions that were not resolved from an item ID are not reported.
type Reporter struct {
	ps    Playstate
	items map[string]string
	log   *slog.Logger
	wg    sync.WaitGroup
}

// NewReporter reports for the sessions named in items (session name to item ID).
func NewReporter(ps Playstate, items map[string]string, log *slog.Logger) *Reporter {
	return &Reporter{ps: ps, items: items, log: log}
}

// Handoff reports from as stopped at fromPos and to as started at toPos.
// Requests run in the background.
func (r *Reporter) Handoff(from string, fromPos time.Duration, to string, toPos time.Duration) {
	if id, ok := r.items[from]; ok {
		r.run("stopped", id, func(ctx context.Context) error {
			return r.ps.ReportPlaybackStopped(ctx, id, Ticks(fromPos))
		})
	}
	if id, ok := r.items[to]; ok {
		r.run("start", id, func(ctx context.Context) error {
			return r.ps.ReportPlaybackStart(ctx, id, Ticks(toPos))
		})
	}
}

func (r *Reporter) run(what, itemID string, fn func(context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := fn(context.Background()); err != nil {
			r.log.Warn("playstate report failed", "report", what, "item", itemID, "error", err)
		}
	}()
}

// Wait blocks until every report in flight has finished.
func (r *Reporter) Wait() {
	r.wg.Wait()
}
