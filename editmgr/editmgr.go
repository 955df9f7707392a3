// Package editmgr implements EditManager[C] (spec.md §4.6): the
// trunk/local/peer-branch protocol that applies sequenced commits and
// keeps the local branch rebased forward as peers' work lands. The
// teacher's closest analogue is db/sync.go + db/push.go + db/pull.go
// (reconnect protocol against a single upstream), generalized here to
// arbitrary peers and an opaque changeset type, with peer branches kept
// in a github.com/emirpasic/gods/maps/treemap for deterministic
// iteration during pruning, and stale peer session ids collected through
// a github.com/emirpasic/gods/stacks/linkedliststack before eviction
// (SPEC_FULL.md §3).
package editmgr

import (
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/stacks/linkedliststack"

	"github.com/synctreeio/synctree/branch"
	"github.com/synctreeio/synctree/graph"
	"github.com/synctreeio/synctree/internal/rlog"
	"github.com/synctreeio/synctree/rebase"
	"github.com/synctreeio/synctree/revtag"
)

// SequenceNumber identifies a commit's position in the trunk's total
// order, as assigned by the sequencer (spec.md §6.2).
type SequenceNumber int64

// trunkEntry pairs a sequenced commit with its position.
type trunkEntry[C any] struct {
	seq    SequenceNumber
	commit *graph.Commit[C]
}

// peerState tracks one remote session's outstanding branch.
type peerState[C any] struct {
	branch  *branch.Branch[C]
	lastSeq SequenceNumber
}

// EditManager is EditManager[C].
type EditManager[C any] struct {
	r rebase.Rebaser[C]

	trunkHead   *graph.Commit[C]
	trunkByKey  *treemap.Map // SequenceNumber -> *graph.Commit[C]
	trunkOrder  []trunkEntry[C]
	localBranch *branch.Branch[C]

	localSessionID        string
	minimumSequenceNumber SequenceNumber
	peers                 *treemap.Map // sessionID -> *peerState[C]
}

// New constructs an EditManager rooted at root, for the given local
// session id (used to distinguish echoed-back local commits from peer
// commits in AddSequencedChange).
func New[C any](r rebase.Rebaser[C], root *graph.Commit[C], localSessionID string) *EditManager[C] {
	em := &EditManager[C]{
		r:              r,
		trunkHead:      root,
		trunkByKey:     treemap.NewWith(sequenceComparator),
		localBranch:    branch.New[C](r, root),
		localSessionID: localSessionID,
		peers:          treemap.NewWithStringComparator(),
	}
	em.trunkByKey.Put(SequenceNumber(0), root)
	return em
}

func sequenceComparator(a, b interface{}) int {
	sa, sb := a.(SequenceNumber), b.(SequenceNumber)
	switch {
	case sa < sb:
		return -1
	case sa > sb:
		return 1
	default:
		return 0
	}
}

// TrunkHead returns the trunk's current tip.
func (em *EditManager[C]) TrunkHead() *graph.Commit[C] { return em.trunkHead }

// LocalBranch returns the manager's local branch (spec.md §4.6).
func (em *EditManager[C]) LocalBranch() *branch.Branch[C] { return em.localBranch }

// GetTrunkChanges returns the trunk's sequenced commits in order.
func (em *EditManager[C]) GetTrunkChanges() []*graph.Commit[C] {
	out := make([]*graph.Commit[C], len(em.trunkOrder))
	for i, e := range em.trunkOrder {
		out[i] = e.commit
	}
	return out
}

// SubmitLocalChange appends a locally authored change to the local
// branch, to be later submitted to the sequencer by the host.
func (em *EditManager[C]) SubmitLocalChange(change C) (*graph.Commit[C], error) {
	return em.localBranch.Apply(change, revtag.New())
}

func (em *EditManager[C]) trunkView() *branch.Branch[C] {
	return branch.New[C](em.r, em.trunkHead)
}

func (em *EditManager[C]) trunkCommitAt(seq SequenceNumber) (*graph.Commit[C], bool) {
	v, found := em.trunkByKey.Get(seq)
	if !found {
		return nil, false
	}
	return v.(*graph.Commit[C]), true
}

func (em *EditManager[C]) appendTrunk(seq SequenceNumber, commit *graph.Commit[C]) {
	em.trunkHead = commit
	em.trunkByKey.Put(seq, commit)
	em.trunkOrder = append(em.trunkOrder, trunkEntry[C]{seq: seq, commit: commit})
}

// AddSequencedChange is EditManager.addSequencedChange (spec.md §4.6):
// applies one commit the sequencer has placed at seq, referencing trunk
// position referenceSeq, and updates minimumSeq-based retention.
//
// Receiving one peer commit rebased over T trunk commits and L local
// commits costs O(T) rebase calls to land the peer commit plus O(L) to
// reintegrate the local branch -- within the O(T·L) contract spec.md
// §4.6 sets as an upper bound.
func (em *EditManager[C]) AddSequencedChange(
	commit rebase.TaggedChange[C],
	seq SequenceNumber,
	referenceSeq SequenceNumber,
	minimumSeq SequenceNumber,
	originatorSessionID string,
	isLocal bool,
) error {
	log := rlog.For(nil)

	if isLocal {
		// Step 3: our own commit came back; the echoed commit always
		// lands on trunk exactly as authored (trunk only ever grows
		// from the sequencer's total order, so no peer work could have
		// preceded it relative to referenceSeq for our own op).
		newCommit := graph.New(commit.Change, commit.Revision, em.trunkHead)
		em.appendTrunk(seq, newCommit)
	} else {
		refCommit, ok := em.trunkCommitAt(referenceSeq)
		if !ok {
			return ErrUnknownReferenceSequenceNumber
		}

		peer := em.peerBranch(originatorSessionID, refCommit)
		// Bring the peer branch up to the position it referenced, then
		// append the raw incoming commit on top of that position.
		if err := peer.branch.RebaseOnto(em.trunkView(), refCommit); err != nil {
			return err
		}
		if _, err := peer.branch.Apply(commit.Change, commit.Revision); err != nil {
			return err
		}
		// Rebase the peer's new tip across whatever has landed on trunk
		// since referenceSeq, producing the commit as it must apply atop
		// the current trunk tip.
		if err := peer.branch.RebaseOnto(em.trunkView(), nil); err != nil {
			return err
		}
		em.appendTrunk(seq, peer.branch.GetHead())
		peer.lastSeq = seq
		em.peers.Put(originatorSessionID, peer)

		log.WithFields(map[string]interface{}{
			"originator": originatorSessionID,
			"sequence":   seq,
		}).Debug("editmgr: integrated peer commit")
	}

	// Step 2 (tail)/3: reintegrate the local branch over the commit that
	// just landed (sandwich: roll back local's pending commits, apply the
	// new trunk commit, replay local's commits over it). Commit reuse
	// inside graph.RebaseBranch elides this entirely when the echoed
	// commit IS the local branch's own frontmost commit (step 1).
	if err := em.localBranch.RebaseOnto(em.trunkView(), nil); err != nil {
		return err
	}

	em.minimumSequenceNumber = minimumSeq
	em.pruneBefore(minimumSeq)
	return nil
}

func (em *EditManager[C]) peerBranch(sessionID string, refCommit *graph.Commit[C]) *peerState[C] {
	if v, ok := em.peers.Get(sessionID); ok {
		return v.(*peerState[C])
	}
	ps := &peerState[C]{branch: branch.New[C](em.r, refCommit)}
	em.peers.Put(sessionID, ps)
	return ps
}

// pruneBefore discards peer branches whose last-known position lies
// strictly before minimumSeq: the core no longer needs to remember them
// (spec.md §4.6 step 4).
func (em *EditManager[C]) pruneBefore(minimumSeq SequenceNumber) {
	stale := linkedliststack.New()
	it := em.peers.Iterator()
	for it.Next() {
		ps := it.Value().(*peerState[C])
		if ps.lastSeq < minimumSeq {
			stale.Push(it.Key())
		}
	}
	for !stale.Empty() {
		k, _ := stale.Pop()
		em.peers.Remove(k)
	}
}
