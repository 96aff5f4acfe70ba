package health

import (
	"context"
	"sync"
	"time"

	"github.com/powercore-shop/storefront/pkg/logger"
	"github.com/powercore-shop/storefront/pkg/metrics"
)

type Status int

const (
	StatusUnknown Status = iota
	StatusOnline
	StatusOffline
)

func (s Status) String() string {
	switch s {
	case StatusOnline:
		return "online"
	case StatusOffline:
		return "offline"
	}
	return "unknown"
}

// Snapshot is the last observed backend availability.
type Snapshot struct {
	Status    Status
	CheckedAt time.Time
	LastError string
}

// Pinger is the single gateway call the poller exercises.
type Pinger interface {
	Health(ctx context.Context) error
}

// Poller probes the backend health endpoint on a fixed interval and fans the
// observed status out to subscribers. Transitions are logged once; repeated
// identical observations only refresh the timestamp.
type Poller struct {
	pinger   Pinger
	interval time.Duration
	logg     *logger.Logger
	metrics  *metrics.ClientMetrics

	mu   sync.Mutex
	snap Snapshot

	subMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int
}

func NewPoller(pinger Pinger, interval time.Duration, logg *logger.Logger, m *metrics.ClientMetrics) *Poller {
	return &Poller{
		pinger:   pinger,
		interval: interval,
		logg:     logg,
		metrics:  m,
		subs:     map[int]func(Snapshot){},
	}
}

// Run probes immediately, then on every tick until the context is cancelled.
func (p *Poller) Run(ctx context.Context) {
	p.probe(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.probe(ctx)
		}
	}
}

func (p *Poller) probe(ctx context.Context) {
	err := p.pinger.Health(ctx)
	if ctx.Err() != nil {
		return
	}

	next := Snapshot{Status: StatusOnline, CheckedAt: time.Now()}
	if err != nil {
		next.Status = StatusOffline
		next.LastError = err.Error()
	}

	p.metrics.SetBackendUp(err == nil)
	p.metrics.IncPollerRun("health", err == nil)

	p.mu.Lock()
	prev := p.snap.Status
	p.snap = next
	p.mu.Unlock()

	if prev != next.Status && p.logg != nil {
		if next.Status == StatusOnline {
			p.logg.Info(ctx, "backend reachable")
		} else {
			p.logg.Warn(p.logg.WithField(ctx, "reason", next.LastError), "backend unreachable")
		}
	}
	p.notify(next)
}

// Current returns the last observation. Before the first probe completes the
// status is StatusUnknown.
func (p *Poller) Current() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap
}

// Subscribe registers a listener for every probe result; the returned
// function cancels it.
func (p *Poller) Subscribe(fn func(Snapshot)) func() {
	p.subMu.Lock()
	defer p.subMu.Unlock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	return func() {
		p.subMu.Lock()
		defer p.subMu.Unlock()
		delete(p.subs, id)
	}
}

func (p *Poller) notify(snap Snapshot) {
	p.subMu.Lock()
	subs := make([]func(Snapshot), 0, len(p.subs))
	for _, fn := range p.subs {
		subs = append(subs, fn)
	}
	p.subMu.Unlock()
	for _, fn := range subs {
		fn(snap)
	}
}
