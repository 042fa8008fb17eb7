// FILE: livefeed.go
// Package replay – LiveFeed: the degenerate "live" feed variant required
// only to give the feed capability set a second arm (spec.md §4.2, §9). It
// produces no data and has no ordering responsibilities; it simply blocks
// the caller of Run until Stop is called.
package replay

import (
	"sync/atomic"

	"github.com/chidi150c/backtestcore/internal/timestamp"
)

// LiveFeed satisfies the Feed capability without replaying historical data.
type LiveFeed struct {
	running atomic.Bool
	stopCh  chan struct{}
	current timestamp.Timestamp
}

// NewLiveFeed returns a LiveFeed. Subscribe is a no-op beyond bookkeeping:
// there is no historical data to load.
func NewLiveFeed() *LiveFeed {
	return &LiveFeed{stopCh: make(chan struct{})}
}

// Subscribe exists to satisfy the Feed capability; LiveFeed has no data
// source to wire callbacks to, so the handlers are accepted and ignored.
func (f *LiveFeed) Subscribe(_ []string, _, _ timestamp.Timestamp, _ TickHandler, _ BarHandler) {}

// Run blocks until Stop is called.
func (f *LiveFeed) Run() {
	f.running.Store(true)
	<-f.stopCh
	f.running.Store(false)
}

// Stop unblocks Run. A Stop that comes before Run makes Run return at once.
func (f *LiveFeed) Stop() {
	select {
	case <-f.stopCh:
	default:
		close(f.stopCh)
	}
}

// CurrentTime is always the zero timestamp: LiveFeed tracks no replay
// position.
func (f *LiveFeed) CurrentTime() timestamp.Timestamp { return f.current }

// IsLive is always true.
func (f *LiveFeed) IsLive() bool { return true }

// Feed is the capability set shared by ReplayFeed and LiveFeed (spec.md §9):
// subscribe, run, stop, current_time, is_live. History loading is not part
// of it: ticks come from PartitionedTickStore.LoadTicks and bars from
// ReplayFeed.LoadHistoryBars, which LiveFeed does not have.
type Feed interface {
	Subscribe(symbols []string, start, end timestamp.Timestamp, onTick TickHandler, onBar BarHandler)
	Run()
	Stop()
	CurrentTime() timestamp.Timestamp
	IsLive() bool
}

var (
	_ Feed = (*ReplayFeed)(nil)
	_ Feed = (*LiveFeed)(nil)
)
