// Package sequencer implements a fake in-process total-order sequencer,
// standing in for the teacher's cmd/test_server (an HTTP harness wrapping
// repm.Dispatch so integration tests don't need a live diff-server). This
// package plays the same "test harness without a network" role for
// synctree's sequencer contract (spec.md §6.2): every submitted commit is
// immediately assigned the next sequence number and broadcast, in
// submission order, to every subscribed peer -- including back to its own
// originator, so editmgr's local-echo path has something to receive.
package sequencer

import (
	"sync"

	"github.com/emirpasic/gods/maps/treemap"

	"github.com/synctreeio/synctree/rebase"
)

// Callback is the shape spec.md §6.2 requires: a commit, its assigned
// sequence number, the trunk position it was composed against, the
// originating session, and whether this particular recipient IS that
// originator (editmgr's local-echo vs. peer-commit distinction).
type Callback[C any] func(commit rebase.TaggedChange[C], seq, referenceSeq int64, originatorSessionID string, isLocal bool)

// Fake is a single-process sequencer good for tests and the
// cmd/synctreectl demo: no network, no persistence, one total order.
type Fake[C any] struct {
	mu          sync.Mutex
	nextSeq     int64
	subscribers *treemap.Map // sessionID (string) -> Callback[C]
}

// New constructs an empty Fake sequencer. Sequence numbers start at 1, so
// Head() returns 0 before anything has been submitted -- matching
// editmgr's convention that the trunk root occupies sequence number 0.
func New[C any]() *Fake[C] {
	return &Fake[C]{nextSeq: 1, subscribers: treemap.NewWithStringComparator()}
}

// Subscribe registers sessionID to receive every future broadcast,
// including ones it originates itself (with isLocal=true). Returns an
// unsubscribe function.
func (f *Fake[C]) Subscribe(sessionID string, cb Callback[C]) func() {
	f.mu.Lock()
	f.subscribers.Put(sessionID, cb)
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		f.subscribers.Remove(sessionID)
		f.mu.Unlock()
	}
}

// Submit assigns the next sequence number to commit and broadcasts it
// synchronously to every subscriber, referencing referenceSeq as the
// trunk position the submitter composed it against. Returns the assigned
// sequence number.
func (f *Fake[C]) Submit(originatorSessionID string, commit rebase.TaggedChange[C], referenceSeq int64) int64 {
	f.mu.Lock()
	seq := f.nextSeq
	f.nextSeq++
	subs := f.subscribers
	f.mu.Unlock()

	it := subs.Iterator()
	for it.Next() {
		sessionID := it.Key().(string)
		cb := it.Value().(Callback[C])
		cb(commit, seq, referenceSeq, originatorSessionID, sessionID == originatorSessionID)
	}
	return seq
}

// Head returns the sequence number that would be assigned to the next
// submitted commit, minus one -- i.e. the current trunk tip's position,
// useful as referenceSeq for a caller about to Submit.
func (f *Fake[C]) Head() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nextSeq - 1
}
