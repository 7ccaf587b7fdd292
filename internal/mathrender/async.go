package mathrender

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/dshills/draftsmith/internal/renderer/overlay"
)

// DefaultWorkers bounds concurrent renders when no limit is given.
const DefaultWorkers = 2

// Async runs a Renderer off the caller's goroutine. Submit never blocks
// and never calls back into the submitter; results arrive on Results.
// A request superseded by a newer revision for the same overlay before it
// starts rendering is dropped.
type Async struct {
	renderer overlay.Renderer
	sem      *semaphore.Weighted
	results  chan overlay.RenderResult

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	latest map[string]*revisionMark
	closed bool
}

// revisionMark is the newest revision submitted for an overlay and the
// number of its requests not yet finished. The mark is kept until every
// request for the overlay has finished.
type revisionMark struct {
	revision uint64
	pending  int
}

// NewAsync wraps r with at most workers concurrent renders.
func NewAsync(r overlay.Renderer, workers int) *Async {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Async{
		renderer: r,
		sem:      semaphore.NewWeighted(int64(workers)),
		results:  make(chan overlay.RenderResult, 4*workers),
		ctx:      ctx,
		cancel:   cancel,
		latest:   make(map[string]*revisionMark),
	}
}

// Submit implements overlay.AsyncRenderer.
func (a *Async) Submit(req overlay.RenderRequest) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	mark, ok := a.latest[req.OverlayID]
	if !ok {
		mark = &revisionMark{}
		a.latest[req.OverlayID] = mark
	}
	mark.revision = max(mark.revision, req.Revision)
	mark.pending++
	a.wg.Add(1)
	go a.run(req)
}

// Results returns the channel on which completed renders are delivered.
func (a *Async) Results() <-chan overlay.RenderResult {
	return a.results
}

// Close stops accepting work, abandons queued requests and waits for
// in-flight renders to finish. The results channel is not closed.
func (a *Async) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	a.mu.Unlock()

	a.cancel()
	a.wg.Wait()
}

func (a *Async) run(req overlay.RenderRequest) {
	defer a.wg.Done()
	defer a.done(req)

	if err := a.sem.Acquire(a.ctx, 1); err != nil {
		return
	}
	defer a.sem.Release(1)

	if a.superseded(req) {
		return
	}

	res := overlay.RenderResult{OverlayID: req.OverlayID, Revision: req.Revision}
	res.Rendered, res.Err = a.render(req)

	select {
	case a.results <- res:
	case <-a.ctx.Done():
	}
}

func (a *Async) superseded(req overlay.RenderRequest) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return req.Revision < a.latest[req.OverlayID].revision
}

func (a *Async) done(req overlay.RenderRequest) {
	a.mu.Lock()
	defer a.mu.Unlock()
	mark := a.latest[req.OverlayID]
	if mark.pending--; mark.pending == 0 {
		delete(a.latest, req.OverlayID)
	}
}

// tracked reports the number of overlays with unfinished requests.
func (a *Async) tracked() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.latest)
}

func (a *Async) render(req overlay.RenderRequest) (r overlay.Rendered, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("render %s: %w", req.OverlayID, &overlay.PanicError{Value: v})
		}
	}()
	return a.renderer.Render(req.Source, req.Kind, req.Theme)
}
