package adminstats

import (
	"context"
	"sync"
	"time"

	"github.com/powercore-shop/storefront/internal/gateway"
	"github.com/powercore-shop/storefront/pkg/logger"
	"github.com/powercore-shop/storefront/pkg/metrics"
)

// StatsAPI is the slice of the gateway the poller refreshes from.
type StatsAPI interface {
	AdminStats(ctx context.Context) (gateway.AdminStats, error)
}

// Session gates polling: stats are an admin-only surface, so the poller
// idles while nobody with the admin claim is signed in.
type Session interface {
	IsAdmin() bool
}

// Snapshot is a dashboard refresh with its provenance.
type Snapshot struct {
	Stats     gateway.AdminStats
	FetchedAt time.Time
	Stale     bool
	LastError string
}

// Poller refreshes the admin dashboard snapshot on a fixed interval. A
// failed refresh keeps the previous stats and marks the snapshot stale
// rather than blanking the dashboard.
type Poller struct {
	api      StatsAPI
	session  Session
	interval time.Duration
	logg     *logger.Logger
	metrics  *metrics.ClientMetrics

	mu      sync.Mutex
	snap    Snapshot
	fetched bool

	subMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int
}

func NewPoller(api StatsAPI, session Session, interval time.Duration, logg *logger.Logger, m *metrics.ClientMetrics) *Poller {
	return &Poller{
		api:      api,
		session:  session,
		interval: interval,
		logg:     logg,
		metrics:  m,
		subs:     map[int]func(Snapshot){},
	}
}

// Run refreshes immediately, then on every tick until the context is
// cancelled.
func (p *Poller) Run(ctx context.Context) {
	p.refresh(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}

func (p *Poller) refresh(ctx context.Context) {
	if p.session != nil && !p.session.IsAdmin() {
		return
	}

	stats, err := p.api.AdminStats(ctx)
	if ctx.Err() != nil {
		return
	}

	p.metrics.IncPollerRun("admin_stats", err == nil)

	p.mu.Lock()
	if err != nil {
		p.snap.Stale = true
		p.snap.LastError = err.Error()
	} else {
		p.snap = Snapshot{Stats: stats, FetchedAt: time.Now()}
		p.fetched = true
	}
	snap := p.snap
	p.mu.Unlock()

	if err != nil && p.logg != nil {
		p.logg.Warn(p.logg.WithField(ctx, "poller", "admin_stats"), "stats refresh failed")
	}
	p.notify(snap)
}

// Current returns the latest snapshot and whether any refresh has succeeded
// yet.
func (p *Poller) Current() (Snapshot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap, p.fetched
}

// Refresh forces an immediate fetch outside the tick schedule.
func (p *Poller) Refresh(ctx context.Context) {
	p.refresh(ctx)
}

// Subscribe registers a listener for every refresh outcome; the returned
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
