package progress

import (
	"context"
	"sync"
	"time"

	"github.com/viant/weaver/internal/clock"
)

// Delta represents an incremental counter change.
type Delta struct {
	Total     int
	Completed int
	Failed    int
	Running   int
}

// Progress keeps aggregated node counters. It is safe for concurrent use.
type Progress struct {
	GraphID   string
	StartedAt time.Time

	TotalNodes     int
	CompletedNodes int
	FailedNodes    int
	RunningNodes   int

	sync.Mutex
	onChange func(Progress)
}

// Update applies the supplied delta. The onChange callback, when present,
// receives a copy outside the critical section.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}
	p.Lock()
	p.TotalNodes += d.Total
	p.CompletedNodes += d.Completed
	p.FailedNodes += d.Failed
	p.RunningNodes += d.Running
	snapshot := p.copy()
	cb := p.onChange
	p.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the tracker suitable for read-only inspection.
func (p *Progress) Snapshot() Progress {
	if p == nil {
		return Progress{}
	}
	p.Lock()
	defer p.Unlock()
	return p.copy()
}

func (p *Progress) copy() Progress {
	return Progress{
		GraphID:        p.GraphID,
		StartedAt:      p.StartedAt,
		TotalNodes:     p.TotalNodes,
		CompletedNodes: p.CompletedNodes,
		FailedNodes:    p.FailedNodes,
		RunningNodes:   p.RunningNodes,
	}
}

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithNewTracker creates a tracker, embeds it in a derived context and returns both.
func WithNewTracker(ctx context.Context, graphID string, onChange func(Progress)) (context.Context, *Progress) {
	if ctx == nil {
		ctx = context.Background()
	}
	tr := &Progress{
		GraphID:   graphID,
		StartedAt: clock.Now(),
		onChange:  onChange,
	}
	return context.WithValue(ctx, trackerKey, tr), tr
}

// FromContext extracts the tracker from ctx.
func FromContext(ctx context.Context) (*Progress, bool) {
	if ctx == nil {
		return nil, false
	}
	tr, ok := ctx.Value(trackerKey).(*Progress)
	return tr, ok
}

// UpdateCtx applies delta to the tracker found in ctx, if any.
func UpdateCtx(ctx context.Context, d Delta) {
	if tr, ok := FromContext(ctx); ok {
		tr.Update(d)
	}
}
