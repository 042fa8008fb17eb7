// FILE: feed.go
// Package replay – ReplayFeed: wraps a PartitionedTickStore, drains a
// time-ordered priority queue, and delivers ticks (and bars) to a
// subscriber. Purely CPU-bound: no suspension points in the dispatch loop,
// and Stop() is the sole cooperative-termination signal, honored between
// events (spec.md §5).
package replay

import (
	"container/heap"
	"sync/atomic"

	"github.com/chidi150c/backtestcore/internal/model"
	"github.com/chidi150c/backtestcore/internal/store"
	"github.com/chidi150c/backtestcore/internal/timestamp"
)

// TickHandler is invoked for each dispatched Tick.
type TickHandler func(model.Tick)

// BarHandler is invoked for each dispatched Bar.
type BarHandler func(model.Bar)

// ReplayFeed exposes a subscribe/run/stop lifecycle over a
// PartitionedTickStore. The zero value is not usable; construct with New.
type ReplayFeed struct {
	store     *store.PartitionedTickStore
	onTick    TickHandler
	onBar     BarHandler
	queue     eventHeap
	seq       uint64
	running   atomic.Bool
	startTime timestamp.Timestamp
	current   timestamp.Timestamp
}

// New returns a ReplayFeed over store, with current_time initialized to
// startTime until the first event is dispatched.
func New(s *store.PartitionedTickStore, startTime timestamp.Timestamp) *ReplayFeed {
	return &ReplayFeed{store: s, startTime: startTime, current: startTime}
}

// Subscribe replaces the feed's callbacks and loads ticks for each symbol
// (an empty symbol list loads all, signaled to the store as "") between
// start and end, inserting them into the time-ordered queue. Insertion
// order (stable by partition then by within-partition order, per symbol in
// the order given) breaks ties on equal timestamps.
func (f *ReplayFeed) Subscribe(symbols []string, start, end timestamp.Timestamp, onTick TickHandler, onBar BarHandler) {
	f.onTick = onTick
	f.onBar = onBar
	f.queue = nil
	f.seq = 0

	if len(symbols) == 0 {
		symbols = []string{""}
	}
	for _, sym := range symbols {
		for _, t := range f.store.LoadTicks(sym, start, end) {
			f.pushTick(t)
		}
	}
	heap.Init(&f.queue)
}

// SubscribeBars queues pre-built bars alongside whatever ticks have already
// been subscribed, preserving the {Tick, Bar} discriminated-union queue
// described in spec.md §9.
func (f *ReplayFeed) SubscribeBars(bars []model.Bar) {
	for _, b := range bars {
		f.pushBar(b)
	}
	heap.Init(&f.queue)
}

func (f *ReplayFeed) pushTick(t model.Tick) {
	heap.Push(&f.queue, event{tsNs: t.TsNs, seq: f.nextSeq(), kind: kindTick, tick: t})
}

func (f *ReplayFeed) pushBar(b model.Bar) {
	heap.Push(&f.queue, event{tsNs: b.TsNs, seq: f.nextSeq(), kind: kindBar, bar: b})
}

func (f *ReplayFeed) nextSeq() uint64 {
	f.seq++
	return f.seq
}

// Run sets running=true and pops events until the queue is empty or Stop()
// has been called; each popped event updates current_time and invokes its
// matching callback.
func (f *ReplayFeed) Run() {
	f.running.Store(true)
	for f.running.Load() && f.queue.Len() > 0 {
		ev := heap.Pop(&f.queue).(event)
		f.current = ev.tsNs
		switch ev.kind {
		case kindTick:
			if f.onTick != nil {
				f.onTick(ev.tick)
			}
		case kindBar:
			if f.onBar != nil {
				f.onBar(ev.bar)
			}
		}
	}
	f.running.Store(false)
}

// Stop requests termination; honored between events, not mid-callback. Safe
// to call from the dispatch callback or from another goroutine.
func (f *ReplayFeed) Stop() {
	f.running.Store(false)
}

// CurrentTime is the timestamp of the last dispatched event, or the feed's
// start time before the first dispatch.
func (f *ReplayFeed) CurrentTime() timestamp.Timestamp {
	return f.current
}

// IsLive is always false for ReplayFeed.
func (f *ReplayFeed) IsLive() bool { return false }
