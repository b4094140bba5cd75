// Package health runs the recurring reachability probe of the remote service.
//
// A Monitor probes once when started and then on every tick of a fixed
// interval. At most one probe is outstanding: a tick that arrives while a
// probe is still running is skipped, not queued. Results are independent of
// the session and never touch credentials. Stop is deterministic: when it
// returns no probe is scheduled or running and no further result is
// published.
package health

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/jwtclient/internal/client/client"
	"github.com/dmitrijs2005/jwtclient/internal/logging"
)

const (
	DefaultInterval = 10 * time.Second
	DefaultTimeout  = 5 * time.Second
)

var (
	ErrAlreadyStarted = errors.New("health monitor already started")
	ErrStopped        = errors.New("health monitor stopped")
)

type Status string

const (
	StatusOK    Status = "OK"
	StatusError Status = "ERROR"
)

// Result is the outcome of one probe.
type Result struct {
	Status     Status
	ObservedAt time.Time
	Detail     string
	Err        error
}

// Prober performs one unauthenticated health request.
type Prober interface {
	Health(ctx context.Context) ([]byte, error)
}

// Recorder counts probe outcomes ("ok", "error", "skipped").
type Recorder interface {
	ObserveProbe(status string)
}

// Ticker abstracts time.Ticker so tests can drive ticks by hand.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ t *time.Ticker }

func (tt timeTicker) C() <-chan time.Time { return tt.t.C }
func (tt timeTicker) Stop()               { tt.t.Stop() }

func newTimeTicker(d time.Duration) Ticker { return timeTicker{t: time.NewTicker(d)} }

type Monitor struct {
	prober    Prober
	interval  time.Duration
	timeout   time.Duration
	newTicker func(time.Duration) Ticker
	now       func() time.Time
	logger    logging.Logger
	recorder  Recorder
	onResult  func(Result)

	inFlight atomic.Bool
	last     atomic.Pointer[Result]
	probes   sync.WaitGroup
	seq      uint64 // owned by the loop goroutine

	mu        sync.Mutex // guards the fields below and publication of results
	started   bool
	stopped   bool
	published uint64
	cancel    context.CancelFunc
	done      chan struct{}
}

type Option func(*Monitor)

func WithInterval(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithTimeout bounds each probe.
func WithTimeout(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.timeout = d
		}
	}
}

func WithTicker(factory func(time.Duration) Ticker) Option {
	return func(m *Monitor) { m.newTicker = factory }
}

func WithClock(now func() time.Time) Option {
	return func(m *Monitor) { m.now = now }
}

func WithLogger(l logging.Logger) Option {
	return func(m *Monitor) { m.logger = l.With("module", "health") }
}

func WithRecorder(r Recorder) Option {
	return func(m *Monitor) { m.recorder = r }
}

// WithOnResult registers fn to receive every published result. fn runs on
// the probe goroutine and should return quickly.
func WithOnResult(fn func(Result)) Option {
	return func(m *Monitor) { m.onResult = fn }
}

func NewMonitor(p Prober, opts ...Option) *Monitor {
	m := &Monitor{
		prober:    p,
		interval:  DefaultInterval,
		timeout:   DefaultTimeout,
		newTicker: newTimeTicker,
		now:       time.Now,
		logger:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start launches the probe loop. The first probe is issued immediately.
// The loop runs until Stop is called or ctx is done.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case m.stopped:
		return ErrStopped
	case m.started:
		return ErrAlreadyStarted
	}
	m.started = true

	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	ticker := m.newTicker(m.interval)

	go m.loop(ctx, ticker)
	m.logger.Info(ctx, "health monitor started", "interval", m.interval)
	return nil
}

func (m *Monitor) loop(ctx context.Context, ticker Ticker) {
	defer close(m.done)
	defer ticker.Stop()

	m.tryProbe(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			m.tryProbe(ctx)
		}
	}
}

// tryProbe starts a probe unless one is outstanding.
func (m *Monitor) tryProbe(ctx context.Context) bool {
	if !m.inFlight.CompareAndSwap(false, true) {
		m.record("skipped")
		m.logger.Debug(ctx, "probe skipped, previous still in flight")
		return false
	}

	m.seq++
	seq := m.seq
	m.probes.Add(1)
	go func() {
		defer m.probes.Done()
		res := m.probe(ctx)
		// Cleared before publish so a slow OnResult cannot cause the
		// following tick to be skipped.
		m.inFlight.Store(false)
		m.publish(ctx, seq, res)
	}()
	return true
}

func (m *Monitor) probe(ctx context.Context) Result {
	pctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	body, err := m.prober.Health(pctx)
	if err != nil {
		return Result{Status: StatusError, ObservedAt: m.now(), Detail: client.Describe(err), Err: err}
	}
	return Result{Status: StatusOK, ObservedAt: m.now(), Detail: summarize(body)}
}

// publish stores res unless a result with a higher seq was published first.
func (m *Monitor) publish(ctx context.Context, seq uint64, res Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped || ctx.Err() != nil || seq < m.published {
		return
	}
	m.published = seq

	prev := m.last.Swap(&res)
	if prev == nil || prev.Status != res.Status {
		if res.Status == StatusOK {
			m.logger.Info(ctx, "server reachable", "detail", res.Detail)
		} else {
			m.logger.Warn(ctx, "server unreachable", "detail", res.Detail, "error", res.Err)
		}
	}

	if res.Status == StatusOK {
		m.record("ok")
	} else {
		m.record("error")
	}
	if m.onResult != nil {
		m.onResult(res)
	}
}

func (m *Monitor) record(status string) {
	if m.recorder != nil {
		m.recorder.ObserveProbe(status)
	}
}

// Last returns the most recent result, or false before the first one.
func (m *Monitor) Last() (Result, bool) {
	r := m.last.Load()
	if r == nil {
		return Result{}, false
	}
	return *r, true
}

// Stop ends the loop and waits for it and any outstanding probe to return.
// Results of a probe interrupted by Stop are discarded. Stop is idempotent.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	cancel, done := m.cancel, m.done
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	m.probes.Wait()
	m.logger.Info(context.Background(), "health monitor stopped")
}

func summarize(body []byte) string {
	const max = 120
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		s = s[:max] + "..."
	}
	return s
}
