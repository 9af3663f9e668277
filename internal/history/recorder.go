package history

// recorder.go — bounded, replayable time series of scanner output.
//
// Snapshots live in a fixed-size ring: once capacity is reached each new
// snapshot overwrites the oldest one. Index 0 is always the oldest surviving
// snapshot; the playback cursor is expressed in the same logical indices.

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/alejandrodnm/geoarb/internal/domain"
	"github.com/google/uuid"
)

// DefaultCapacity keeps 10 minutes at one snapshot per second.
const DefaultCapacity = 600

// Recorder owns the snapshot buffer and the playback cursor.
type Recorder struct {
	mu      sync.Mutex
	now     func() time.Time
	buf     []domain.OpportunitySnapshot
	head    int // physical index of the oldest snapshot
	size    int
	cursor  int
	playing bool
}

// New creates a recorder. capacity <= 0 uses DefaultCapacity; a nil clock means time.Now.
func New(capacity int, clock func() time.Time) *Recorder {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if clock == nil {
		clock = time.Now
	}
	return &Recorder{
		now: clock,
		buf: make([]domain.OpportunitySnapshot, capacity),
	}
}

// Record appends a snapshot of opps, evicting the oldest one when full.
func (r *Recorder) Record(opps []domain.ArbitrageOpportunity) domain.OpportunitySnapshot {
	snap := newSnapshot(r.now(), opps)

	r.mu.Lock()
	defer r.mu.Unlock()

	capacity := len(r.buf)
	if r.size < capacity {
		r.buf[(r.head+r.size)%capacity] = snap
		r.size++
		return snap
	}

	r.buf[r.head] = snap
	r.head = (r.head + 1) % capacity
	slog.Debug("history full, oldest snapshot evicted", "capacity", capacity)
	return snap
}

// newSnapshot copies opps and derives the per-snapshot aggregates.
func newSnapshot(at time.Time, opps []domain.ArbitrageOpportunity) domain.OpportunitySnapshot {
	snap := domain.OpportunitySnapshot{
		ID:            uuid.New().String(),
		Timestamp:     at.UnixMilli(),
		Opportunities: append([]domain.ArbitrageOpportunity(nil), opps...),
		TotalCount:    len(opps),
	}
	if len(opps) == 0 {
		return snap
	}

	snap.MaxProfit = math.Inf(-1)
	for _, opp := range opps {
		if opp.IsExecutable {
			snap.ExecutableCount++
		}
		snap.AvgProfit += opp.NetProfit
		snap.MaxProfit = math.Max(snap.MaxProfit, opp.NetProfit)
	}
	snap.AvgProfit /= float64(len(opps))
	return snap
}

// Len returns the number of stored snapshots.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

// Capacity returns the maximum number of snapshots kept.
func (r *Recorder) Capacity() int {
	return len(r.buf)
}

// At returns the snapshot at logical index i (0 = oldest).
func (r *Recorder) At(i int) (domain.OpportunitySnapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i < 0 || i >= r.size {
		return domain.OpportunitySnapshot{}, false
	}
	return r.at(i), true
}

// Snapshots returns all stored snapshots, oldest first.
func (r *Recorder) Snapshots() []domain.OpportunitySnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.OpportunitySnapshot, r.size)
	for i := range out {
		out[i] = r.at(i)
	}
	return out
}

func (r *Recorder) at(i int) domain.OpportunitySnapshot {
	return r.buf[(r.head+i)%len(r.buf)]
}

// --- playback ---

// Start sets the playing flag. The cursor is left where it is.
func (r *Recorder) Start() {
	r.mu.Lock()
	r.playing = true
	r.mu.Unlock()
}

// Stop clears the playing flag.
func (r *Recorder) Stop() {
	r.mu.Lock()
	r.playing = false
	r.mu.Unlock()
}

// IsPlaying reports whether playback is active.
func (r *Recorder) IsPlaying() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.playing
}

// Cursor returns the index of the next frame.
func (r *Recorder) Cursor() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cursor
}

// NextFrame returns the snapshot at the cursor and advances it, wrapping to 0
// past the newest snapshot. Returns false when not playing or empty.
func (r *Recorder) NextFrame() (domain.OpportunitySnapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.playing || r.size == 0 {
		return domain.OpportunitySnapshot{}, false
	}
	if r.cursor >= r.size {
		r.cursor = 0
	}
	snap := r.at(r.cursor)
	r.cursor = (r.cursor + 1) % r.size
	return snap, true
}

// Seek moves the cursor to index. Out-of-range requests are ignored.
func (r *Recorder) Seek(index int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if index >= 0 && index < r.size {
		r.cursor = index
	}
}

// WindowStats aggregates the most recent lastN snapshots (or fewer if the
// history is shorter). MostActiveIndex is a logical buffer index.
func (r *Recorder) WindowStats(lastN int) domain.WindowStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	var stats domain.WindowStats
	count := min(lastN, r.size)
	if count <= 0 {
		return stats
	}

	start := r.size - count
	stats.Snapshots = count
	stats.MostActiveIndex = start
	maxOpps := -1
	for i := start; i < r.size; i++ {
		snap := r.at(i)
		stats.TotalOpportunities += snap.TotalCount
		stats.AvgProfit += snap.AvgProfit
		stats.TotalPotentialProfit += snap.MaxProfit
		if snap.TotalCount > maxOpps {
			maxOpps = snap.TotalCount
			stats.MostActiveIndex = i
		}
	}

	stats.AvgOpportunitiesPerSnapshot = float64(stats.TotalOpportunities) / float64(count)
	stats.AvgProfit /= float64(count)
	return stats
}

// Clear drops all snapshots, resets the cursor and stops playback.
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.buf)
	r.head, r.size, r.cursor = 0, 0, 0
	r.playing = false
}
