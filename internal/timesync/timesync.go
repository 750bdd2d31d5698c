// Package timesync measures the offset between the local clock and the
// SyncPlay server's reference clock (spec §4.A), and exposes conversion
// helpers used by the scheduler in internal/playbackcore.
//
// The sampling loop is modeled on internal/tail.Watcher's ticker-driven
// poll-and-diff shape: a ticker issues probes, each response is folded into
// a bounded ring of samples, and a change big enough to matter is pushed
// out as an event.
package timesync

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/nilsen-dev/syncplay/internal/syncmodel"
)

// SampleCount is the size of the rolling sample ring (spec: "size >= 8").
const SampleCount = 8

// LostAfterProbes is the number of consecutive missed probes after which
// TimeSync declares the connection lost.
const LostAfterProbes = 10

// DefaultDeadBand is the minimum change in the best sample's offset that
// triggers an Update event.
const DefaultDeadBand = 50 * time.Millisecond

// DefaultInterval is the default probe interval.
const DefaultInterval = 10 * time.Second

var errNoProbe = errors.New("timesync: no probe function configured")

// ProbeFunc sends a timestamped probe to the server and returns the remote
// instant the server observed it at.
type ProbeFunc func(ctx context.Context, probeID uuid.UUID) (syncmodel.RemoteTime, error)

// Sample is one round-trip measurement.
type Sample struct {
	ID             uuid.UUID
	LocalSendAt    syncmodel.LocalTime
	RemoteAt       syncmodel.RemoteTime
	LocalReceiveAt syncmodel.LocalTime
}

// RTT returns the sample's round-trip time.
func (s Sample) RTT() time.Duration {
	return s.LocalReceiveAt.Sub(s.LocalSendAt)
}

// Offset returns the sample's estimated remote-minus-local clock offset.
func (s Sample) Offset() time.Duration {
	mid := time.Time(s.LocalSendAt).Add(s.LocalReceiveAt.Sub(s.LocalSendAt) / 2)
	return time.Time(s.RemoteAt).Sub(mid)
}

// Update describes a change in the chosen best sample.
type Update struct {
	Offset time.Duration
	Ping   time.Duration
}

// TimeSync tracks the offset between the local clock and the server's
// reference clock via a rolling window of round-trip samples.
type TimeSync struct {
	probe    ProbeFunc
	interval time.Duration
	deadBand time.Duration
	limiter  *rate.Limiter

	onUpdate func(Update)
	onLost   func()

	mu          sync.Mutex
	samples     []Sample
	bestOffset  time.Duration
	bestPing    time.Duration
	haveSample  bool
	missedCount int

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures a TimeSync.
type Option func(*TimeSync)

// WithInterval overrides the probe interval (spec: 5-30s).
func WithInterval(d time.Duration) Option {
	return func(t *TimeSync) { t.interval = d }
}

// WithDeadBand overrides the minimum offset delta that triggers an update.
func WithDeadBand(d time.Duration) Option {
	return func(t *TimeSync) { t.deadBand = d }
}

// WithOnUpdate registers a callback invoked whenever the best sample
// changes by more than the dead-band.
func WithOnUpdate(fn func(Update)) Option {
	return func(t *TimeSync) { t.onUpdate = fn }
}

// WithOnLost registers a callback invoked when no sample arrives within
// LostAfterProbes probe intervals.
func WithOnLost(fn func()) Option {
	return func(t *TimeSync) { t.onLost = fn }
}

// New creates a TimeSync that issues probes via probe.
func New(probe ProbeFunc, opts ...Option) *TimeSync {
	t := &TimeSync{
		probe:    probe,
		interval: DefaultInterval,
		deadBand: DefaultDeadBand,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.limiter = rate.NewLimiter(rate.Every(t.interval/2), 1)
	return t
}

// Offset returns the current best offset estimate (remote - local). Until
// the first sample arrives it is 0.
func (t *TimeSync) Offset() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bestOffset
}

// Ping returns the RTT of the currently chosen sample. Until the first
// sample arrives it is time.Duration(math.MaxInt64) (treated as infinite).
func (t *TimeSync) Ping() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.haveSample {
		return time.Duration(1<<63 - 1)
	}
	return t.bestPing
}

// Ready reports whether at least one sample has been collected.
func (t *TimeSync) Ready() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.haveSample
}

// LocalToRemote converts a local instant to the estimated remote instant.
func (t *TimeSync) LocalToRemote(l syncmodel.LocalTime) syncmodel.RemoteTime {
	return syncmodel.RemoteTime(time.Time(l).Add(t.Offset()))
}

// RemoteToLocal converts a remote instant to the estimated local instant.
func (t *TimeSync) RemoteToLocal(r syncmodel.RemoteTime) syncmodel.LocalTime {
	return syncmodel.LocalTime(time.Time(r).Add(-t.Offset()))
}

// Start begins background sampling. It is safe to call Start again after
// Stop.
func (t *TimeSync) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.run(ctx)
}

// Stop halts background sampling.
func (t *TimeSync) Stop() {
	if t.cancel != nil {
		t.cancel()
	}
	t.wg.Wait()
}

// ForceUpdate discards all collected samples and restarts collection.
func (t *TimeSync) ForceUpdate(ctx context.Context) {
	t.mu.Lock()
	t.samples = nil
	t.haveSample = false
	t.missedCount = 0
	t.mu.Unlock()

	go t.sampleOnce(ctx)
}

func (t *TimeSync) run(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.sampleOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.sampleOnce(ctx)
		}
	}
}

func (t *TimeSync) sampleOnce(ctx context.Context) {
	if t.probe == nil {
		return
	}
	if err := t.limiter.Wait(ctx); err != nil {
		return
	}

	id := uuid.New()
	sendAt := syncmodel.Now()

	remoteAt, err := t.probe(ctx, id)
	if err != nil {
		t.recordMiss()
		return
	}

	receiveAt := syncmodel.Now()
	sample := Sample{ID: id, LocalSendAt: sendAt, RemoteAt: remoteAt, LocalReceiveAt: receiveAt}

	t.recordSample(sample)
}

func (t *TimeSync) recordMiss() {
	t.mu.Lock()
	t.missedCount++
	lost := t.missedCount >= LostAfterProbes
	if lost {
		t.haveSample = false
		t.samples = nil
	}
	cb := t.onLost
	t.mu.Unlock()

	if lost && cb != nil {
		cb()
	}
}

func (t *TimeSync) recordSample(s Sample) {
	t.mu.Lock()
	t.missedCount = 0
	t.samples = append(t.samples, s)
	if len(t.samples) > SampleCount {
		t.samples = t.samples[len(t.samples)-SampleCount:]
	}

	best := bestOf(t.samples)
	prevOffset := t.bestOffset
	prevHad := t.haveSample

	t.bestOffset = best.Offset()
	t.bestPing = best.RTT()
	t.haveSample = true

	changed := !prevHad || absDuration(t.bestOffset-prevOffset) > t.deadBand
	cb := t.onUpdate
	update := Update{Offset: t.bestOffset, Ping: t.bestPing}
	t.mu.Unlock()

	if changed && cb != nil {
		cb(update)
	}
}

// bestOf returns the sample with the smallest RTT.
func bestOf(samples []Sample) Sample {
	best := samples[0]
	for _, s := range samples[1:] {
		if s.RTT() < best.RTT() {
			best = s
		}
	}
	return best
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// sortedByRTT is exposed for tests that want to inspect ring ordering.
func sortedByRTT(samples []Sample) []Sample {
	out := make([]Sample, len(samples))
	copy(out, samples)
	sort.Slice(out, func(i, j int) bool { return out[i].RTT() < out[j].RTT() })
	return out
}
