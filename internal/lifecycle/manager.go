// Package lifecycle owns the single shared generative-model slot. The
// Manager loads the model on demand, serializes generation, and reclaims
// the model's memory after a configurable idle period.
package lifecycle

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pathshala/pathshala/internal/domain"
	"github.com/pathshala/pathshala/internal/llm"
	"github.com/pathshala/pathshala/internal/logging"
)

const unloadGrace = 30 * time.Second

// Manager guards zero-or-one loaded model instance. All state
// transitions happen under its lock; the raw runtime handle never leaves
// this package.
type Manager struct {
	rt   llm.Runtime
	spec llm.ModelSpec

	mu           sync.Mutex
	state        domain.ModelState
	handle       llm.Handle
	lastAccess   time.Time
	idleTimeout  time.Duration
	queueTimeout time.Duration
	loadDone     chan struct{}
	unloadDone   chan struct{} // non-nil while a runtime unload is in flight

	// generation slot: busy plus an ordered queue of waiting tickets
	genBusy  bool
	genQueue []chan struct{}

	now func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithIdleTimeout sets the idle duration after which a ready model is
// unloaded.
func WithIdleTimeout(d time.Duration) Option {
	return func(m *Manager) { m.idleTimeout = d }
}

// WithQueueTimeout bounds how long a Generate call waits behind other
// callers. Zero waits indefinitely.
func WithQueueTimeout(d time.Duration) Option {
	return func(m *Manager) { m.queueTimeout = d }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// New returns an unloaded Manager for the given runtime and model.
func New(rt llm.Runtime, spec llm.ModelSpec, opts ...Option) *Manager {
	m := &Manager{
		rt:          rt,
		spec:        spec,
		state:       domain.StateUnloaded,
		idleTimeout: 10 * time.Minute,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetIdleTimeout updates the idle timeout; it applies from the next idle
// check onward.
func (m *Manager) SetIdleTimeout(d time.Duration) {
	m.mu.Lock()
	m.idleTimeout = d
	m.mu.Unlock()
}

// SetQueueTimeout updates the generation-queue wait bound for future
// Generate calls.
func (m *Manager) SetQueueTimeout(d time.Duration) {
	m.mu.Lock()
	m.queueTimeout = d
	m.mu.Unlock()
}

// Status returns a read-only snapshot. Safe in any state.
func (m *Manager) Status() domain.ModelStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.ModelStatus{
		State:       m.state,
		LastAccess:  m.lastAccess,
		IdleTimeout: m.idleTimeout,
	}
}

// EnsureLoaded brings the model to Ready. If another caller is already
// loading, this call waits for that load instead of starting a second
// one. A failed load reverts to Unloaded and returns ModelLoadError.
func (m *Manager) EnsureLoaded(ctx context.Context) error {
	for {
		m.mu.Lock()
		switch m.state {
		case domain.StateReady, domain.StateGenerating:
			// Counts as an access: keep the idle reaper away from a model
			// a caller is about to use.
			m.lastAccess = m.now()
			m.mu.Unlock()
			return nil

		case domain.StateLoading:
			done := m.loadDone
			m.mu.Unlock()
			select {
			case <-done:
				// Re-check: the load may have failed, in which case this
				// caller starts a fresh attempt.
				continue
			case <-ctx.Done():
				return ctx.Err()
			}

		case domain.StateUnloaded:
			// An eviction may still be in flight; starting a load now could
			// see the new model evicted underneath it. Wait it out.
			if gate := m.unloadDone; gate != nil {
				m.mu.Unlock()
				select {
				case <-gate:
					continue
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			m.loadDone = make(chan struct{})
			m.state = domain.StateLoading
			done := m.loadDone
			m.mu.Unlock()

			logging.Info("loading model", zap.String("model", m.spec.Model))
			start := m.now()
			handle, err := m.rt.Load(ctx, m.spec)

			m.mu.Lock()
			if err != nil {
				m.state = domain.StateUnloaded
			} else {
				m.state = domain.StateReady
				m.handle = handle
				m.lastAccess = m.now()
			}
			close(done)
			m.mu.Unlock()

			if err != nil {
				logging.Error("model load failed", zap.String("model", m.spec.Model), zap.Error(err))
				return &domain.ModelLoadError{Model: m.spec.Model, Err: err}
			}
			logging.Info("model loaded",
				zap.String("model", m.spec.Model),
				zap.Duration("took", m.now().Sub(start)))
			return nil
		}
	}
}

// Generate produces text for the prompt. Concurrent callers queue in
// arrival order for the single generation slot; at most one generation
// is ever in flight. The wait is bounded by the caller's context and the
// configured queue timeout.
func (m *Manager) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if err := m.acquireGenerationSlot(ctx); err != nil {
		return "", err
	}
	defer m.releaseGenerationSlot()

	var handle llm.Handle
	for {
		if err := m.EnsureLoaded(ctx); err != nil {
			return "", err
		}

		m.mu.Lock()
		if m.state != domain.StateReady {
			// The idle reaper unloaded between EnsureLoaded returning and
			// this transition; load again rather than generating against a
			// dead handle.
			m.mu.Unlock()
			continue
		}
		m.state = domain.StateGenerating
		m.lastAccess = m.now()
		handle = m.handle
		m.mu.Unlock()
		break
	}

	text, err := m.rt.Infer(ctx, handle, prompt, maxTokens)

	fatal := err != nil && llm.IsFatal(err)
	m.mu.Lock()
	if fatal {
		// The runtime is gone; the handle is no longer valid.
		m.state = domain.StateUnloaded
		m.handle = llm.Handle{}
	} else {
		m.state = domain.StateReady
	}
	m.lastAccess = m.now()
	m.mu.Unlock()

	if err != nil {
		logging.Error("generation failed", zap.Bool("fatal", fatal), zap.Error(err))
		return "", &domain.GenerationError{Fatal: fatal, Err: err}
	}
	return text, nil
}

// Unload releases the model if it is Ready. It never interrupts an
// in-flight load or generation.
func (m *Manager) Unload() {
	m.unload(func(last time.Time) bool { return true })
}

// CheckIdle unloads the model when it has been Ready and untouched for
// longer than the idle timeout. Returns true when an unload happened.
func (m *Manager) CheckIdle() bool {
	m.mu.Lock()
	timeout := m.idleTimeout
	m.mu.Unlock()
	return m.unload(func(last time.Time) bool {
		return m.now().Sub(last) > timeout
	})
}

// unload performs the Ready -> Unloaded transition when shouldUnload
// approves it. The decision and the transition happen under one lock
// acquisition so it can never race a load past its decision point, and
// unloadDone holds new loads back until the runtime eviction has
// actually completed.
func (m *Manager) unload(shouldUnload func(lastAccess time.Time) bool) bool {
	m.mu.Lock()
	if m.state != domain.StateReady || !shouldUnload(m.lastAccess) {
		m.mu.Unlock()
		return false
	}
	handle := m.handle
	m.state = domain.StateUnloaded
	m.handle = llm.Handle{}
	gate := make(chan struct{})
	m.unloadDone = gate
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), unloadGrace)
	defer cancel()
	if err := m.rt.Unload(ctx, handle); err != nil {
		// State already reflects Unloaded; the runtime reclaims the
		// memory on its own schedule.
		logging.Warn("runtime unload failed", zap.String("model", handle.Model), zap.Error(err))
	} else {
		logging.Info("model unloaded", zap.String("model", handle.Model))
	}

	m.mu.Lock()
	m.unloadDone = nil
	m.mu.Unlock()
	close(gate)
	return true
}

// RunIdleReaper periodically unloads the model after idle expiry. It is
// the only unloader that acts without an explicit caller request. Blocks
// until ctx is done.
func (m *Manager) RunIdleReaper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CheckIdle()
		}
	}
}

// acquireGenerationSlot claims the single generation slot, queueing
// FIFO behind earlier callers.
func (m *Manager) acquireGenerationSlot(ctx context.Context) error {
	m.mu.Lock()
	if !m.genBusy {
		m.genBusy = true
		m.mu.Unlock()
		return nil
	}
	ticket := make(chan struct{})
	m.genQueue = append(m.genQueue, ticket)
	queueTimeout := m.queueTimeout
	m.mu.Unlock()

	var timeout <-chan time.Time
	if queueTimeout > 0 {
		t := time.NewTimer(queueTimeout)
		defer t.Stop()
		timeout = t.C
	}

	select {
	case <-ticket:
		return nil
	case <-ctx.Done():
		m.abandonTicket(ticket)
		return ctx.Err()
	case <-timeout:
		m.abandonTicket(ticket)
		return domain.ErrQueueTimeout
	}
}

// abandonTicket removes a waiter from the queue. If the ticket was
// already granted in the meantime, the slot is handed to the next
// waiter so it is never leaked.
func (m *Manager) abandonTicket(ticket chan struct{}) {
	m.mu.Lock()
	for i, t := range m.genQueue {
		if t == ticket {
			m.genQueue = append(m.genQueue[:i], m.genQueue[i+1:]...)
			m.mu.Unlock()
			return
		}
	}
	m.mu.Unlock()
	m.releaseGenerationSlot()
}

// releaseGenerationSlot hands the slot to the oldest waiter, or frees it.
func (m *Manager) releaseGenerationSlot() {
	m.mu.Lock()
	if len(m.genQueue) > 0 {
		next := m.genQueue[0]
		m.genQueue = m.genQueue[1:]
		m.mu.Unlock()
		close(next)
		return
	}
	m.genBusy = false
	m.mu.Unlock()
}
