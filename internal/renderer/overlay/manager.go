package overlay

import (
	"fmt"
	"sync"

	"github.com/dshills/draftsmith/internal/event"
	"github.com/dshills/draftsmith/internal/mathspan"
)

// policy is the strategy a Manager delegates overlay decisions to.
type policy interface {
	// handle reacts to one host event.
	handle(ev event.Event)

	// rerender re-renders every live overlay without re-extracting.
	rerender()

	// teardown destroys every overlay the policy owns.
	teardown()

	// overlays returns the live overlays in span order.
	overlays() []*Overlay
}

// Manager drives overlay lifecycle for one host editor.
//
// All work happens synchronously inside HandleEvent and Deliver. The
// mutex only serializes callers; it is never held while calling back into
// code that could re-enter the manager.
type Manager struct {
	mu sync.Mutex

	host       HostEditor
	renderer   Renderer
	async      AsyncRenderer
	extractor  *mathspan.Extractor
	positioner Positioner
	limits     Limits
	theme      Theme
	logger     Logger
	debug      bool
	reuse      bool
	enabled    bool

	kind   Policy
	policy policy

	// spans is the latest extraction.
	spans []mathspan.Span

	sub      event.Subscription
	disposed bool
	stats    Stats
}

// Option configures a Manager.
type Option func(*Manager)

// WithPolicy sets the initial policy. The default is PolicyCursorFollow.
func WithPolicy(p Policy) Option {
	return func(m *Manager) {
		m.kind = p
	}
}

// WithTheme sets the initial theme.
func WithTheme(t Theme) Option {
	return func(m *Manager) {
		m.theme = t
	}
}

// WithLimits sets overlay size limits.
func WithLimits(l Limits) Option {
	return func(m *Manager) {
		m.limits = l
	}
}

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithDebug makes contract violations panic instead of being logged.
func WithDebug(debug bool) Option {
	return func(m *Manager) {
		m.debug = debug
	}
}

// WithReuse makes the all-spans policy reuse overlays whose span kind and
// text are unchanged instead of rebuilding every overlay on each event.
func WithReuse(reuse bool) Option {
	return func(m *Manager) {
		m.reuse = reuse
	}
}

// WithEnabled sets whether the all-spans policy starts enabled.
func WithEnabled(enabled bool) Option {
	return func(m *Manager) {
		m.enabled = enabled
	}
}

// WithAsync routes render requests to an asynchronous renderer. Results
// must be passed back through Deliver.
func WithAsync(r AsyncRenderer) Option {
	return func(m *Manager) {
		m.async = r
	}
}

// WithExtractor replaces the default span extractor.
func WithExtractor(e *mathspan.Extractor) Option {
	return func(m *Manager) {
		if e != nil {
			m.extractor = e
		}
	}
}

// NewManager attaches a manager to host and computes the initial overlays.
// renderer may be nil when WithAsync is given.
func NewManager(host HostEditor, renderer Renderer, opts ...Option) *Manager {
	m := &Manager{
		host:      host,
		renderer:  renderer,
		extractor: mathspan.NewExtractor(0),
		limits:    DefaultLimits(),
		logger:    nopLogger{},
		enabled:   true,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.policy = m.newPolicy(m.kind)
	m.sub = host.Subscribe(m.HandleEvent)
	m.Refresh()
	return m
}

func (m *Manager) newPolicy(p Policy) policy {
	switch p {
	case PolicyAllSpans:
		return &allSpans{m: m, enabled: m.enabled}
	default:
		return &cursorFollow{m: m}
	}
}

// HandleEvent processes one host event. It is subscribed to the host by
// NewManager and may also be called directly.
func (m *Manager) HandleEvent(ev event.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disposed {
		return
	}
	m.logger.Debug("overlay event %s policy=%s", ev, m.kind)
	m.policy.handle(ev)
}

// Refresh recomputes overlays as if the document text had changed.
func (m *Manager) Refresh() {
	m.HandleEvent(event.New(event.TypeTextChanged, 0, m.host.CursorOffset()))
}

// Policy returns the active policy.
func (m *Manager) Policy() Policy {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.kind
}

// SetPolicy switches policy, tearing down the old policy's overlays and
// computing the new policy's overlays immediately.
func (m *Manager) SetPolicy(p Policy) {
	m.mu.Lock()
	if m.disposed || p == m.kind {
		m.mu.Unlock()
		return
	}
	m.policy.teardown()
	m.kind = p
	m.policy = m.newPolicy(p)
	m.mu.Unlock()

	m.Refresh()
}

// SetEnabled toggles the all-spans policy. Disabling tears down every
// overlay; enabling rebuilds them. It returns ErrUnsupported under any
// other policy.
func (m *Manager) SetEnabled(enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disposed {
		return ErrDisposed
	}
	p, ok := m.policy.(*allSpans)
	if !ok {
		return fmt.Errorf("set enabled under %s: %w", m.kind, ErrUnsupported)
	}
	m.enabled = enabled
	p.setEnabled(enabled)
	return nil
}

// Enabled reports whether the all-spans policy is enabled.
func (m *Manager) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled
}

// Theme returns the current theme.
func (m *Manager) Theme() Theme {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.theme
}

// SetTheme changes the theme and re-renders live overlays. Spans are not
// re-extracted.
func (m *Manager) SetTheme(t Theme) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disposed || t == m.theme {
		return
	}
	m.theme = t
	m.policy.rerender()
}

// Deliver applies an asynchronous render result. Results for overlays that
// no longer exist, or for superseded revisions, are dropped.
func (m *Manager) Deliver(res RenderResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disposed {
		return
	}
	for _, o := range m.policy.overlays() {
		if o.id != res.OverlayID {
			continue
		}
		m.applyResult(o, res)
		if o.pending {
			return
		}
		m.place(o)
		return
	}
	m.stats.StaleResults++
	m.logger.Debug("dropping render result for unknown overlay %s rev=%d", res.OverlayID, res.Revision)
}

// Overlays returns the live overlays in span order.
func (m *Manager) Overlays() []*Overlay {
	m.mu.Lock()
	defer m.mu.Unlock()

	live := m.policy.overlays()
	out := make([]*Overlay, len(live))
	copy(out, live)
	return out
}

// Visible returns the overlays currently shown.
func (m *Manager) Visible() []*Overlay {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*Overlay
	for _, o := range m.policy.overlays() {
		if o.visible {
			out = append(out, o)
		}
	}
	return out
}

// Spans returns the latest extraction.
func (m *Manager) Spans() []mathspan.Span {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]mathspan.Span, len(m.spans))
	copy(out, m.spans)
	return out
}

// Stats returns activity counters.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// Dispose tears down all overlays and detaches from the host. Further
// events and results are ignored. Dispose is idempotent.
func (m *Manager) Dispose() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disposed {
		return
	}
	m.policy.teardown()
	m.disposed = true
	m.spans = nil
	if m.sub != nil {
		m.sub.Cancel()
	}
}

// Disposed reports whether Dispose was called.
func (m *Manager) Disposed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.disposed
}

// The helpers below are called by policies with m.mu held.

func (m *Manager) extract() []mathspan.Span {
	m.spans = m.extractor.Extract(m.host.Text())
	m.stats.Extractions++
	return m.spans
}

func (m *Manager) create(span mathspan.Span) *Overlay {
	o := newOverlay(span, m.limits)
	m.stats.Created++
	return o
}

// render requests fresh content for o. Synchronous renderers are called
// inline; their failures and panics stop here.
func (m *Manager) render(o *Overlay) {
	req := o.nextRequest(m.theme)
	m.stats.Renders++

	if m.async != nil {
		m.async.Submit(req)
		return
	}

	res := RenderResult{OverlayID: req.OverlayID, Revision: req.Revision}
	res.Rendered, res.Err = m.renderSync(req)
	m.applyResult(o, res)
}

func (m *Manager) renderSync(req RenderRequest) (rendered Rendered, err error) {
	if m.renderer == nil {
		return Rendered{}, ErrNoRenderer
	}
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return m.renderer.Render(req.Source, req.Kind, req.Theme)
}

func (m *Manager) applyResult(o *Overlay, res RenderResult) {
	if !o.apply(res) {
		m.stats.StaleResults++
		m.logger.Debug("dropping stale render result for %s rev=%d (latest %d)", o.id, res.Revision, o.revision)
		return
	}
	if res.Err != nil {
		m.stats.RenderFailures++
		m.logger.Warn("rendering %s %s failed: %v", o.span.Kind, o.span, res.Err)
	}
}

// place positions o against the current viewport, showing or hiding it.
func (m *Manager) place(o *Overlay) {
	m.check(mathspan.Index(m.spans, o.span) >= 0, "place", "span %s is not in the latest extraction", o.span)

	m.stats.Placements++
	rect, ok := m.positioner.Place(o.span, m.host, m.host.Viewport(), o.Size())
	if !ok {
		if o.visible {
			m.stats.Hides++
		}
		o.hide()
		return
	}
	if !o.visible {
		m.stats.Shows++
	}
	o.show(rect)
}

// destroy hides o and drops its content.
func (m *Manager) destroy(o *Overlay) {
	if o.visible {
		m.stats.Hides++
	}
	o.discard()
	m.stats.Destroyed++
}

// check reports a contract violation: a panic in debug mode, a warning
// otherwise.
func (m *Manager) check(ok bool, op, format string, args ...any) {
	if ok {
		return
	}
	err := &InvariantError{Op: op, Detail: fmt.Sprintf(format, args...)}
	if m.debug {
		panic(err)
	}
	m.logger.Warn("%v", err)
}
