// Package resubmit implements ResubmitMachine[C] (spec.md §4.8): tracking
// of outstanding submitted commits across a reconnect, producing the
// minimal ordered sequence that still needs resubmitting -- skipping
// already-sequenced commits and re-enriching only the ones a peer commit
// has since rebased. It generalizes the teacher's single-upstream
// push/pull reconnect protocol (db/sync.go, db/push.go, db/pull.go,
// db/request_sync.go) to the core's peer-oblivious replay contract, and
// supplements it with the teacher's per-mutation outcome reporting and
// progress callback (SPEC_FULL.md §4).
package resubmit

import (
	"fmt"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"

	"github.com/synctreeio/synctree/enrich"
	"github.com/synctreeio/synctree/graph"
	"github.com/synctreeio/synctree/internal/assert"
	"github.com/synctreeio/synctree/rebase"
	"github.com/synctreeio/synctree/revtag"
)

// ResupplyFunc resolves the current, post-rebase commit for a revision
// the Machine still considers outstanding. Hosts implement this against
// their local branch (spec.md §4.8: "obtain the fresh, rebased commit
// chain").
type ResupplyFunc[C any] func(revision revtag.Tag) (*graph.Commit[C], error)

// Status of one resubmitted commit, mirroring the teacher's
// MutationInfo/BatchPushResponse shape (SPEC_FULL.md §4).
type Status int

const (
	// Accepted means the commit was handed to the caller for resubmission.
	Accepted Status = iota
	// Rejected means the commit was skipped because it is already
	// sequenced.
	Rejected
	// Errored means resupply or enrichment failed for this commit.
	Errored
)

func (s Status) String() string {
	switch s {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// MutationInfo reports the outcome for one outstanding commit.
type MutationInfo struct {
	Revision revtag.Tag
	Status   Status
	Error    string
}

// Outcome is the result of one Resubmit call.
type Outcome[C any] struct {
	Commits          []*graph.Commit[C]
	MutationInfos    []MutationInfo
	EnrichmentCalls  int
	CheckoutsCreated int
}

type outstanding[C any] struct {
	revision  revtag.Tag
	enriched  rebase.TaggedChange[C]
	sequenced bool
	rebased   bool
}

// Machine is ResubmitMachine[C].
type Machine[C any] struct {
	enrich enrich.EnrichFunc[C]

	mu          sync.Mutex
	outstanding []*outstanding[C]
	byRevision  map[revtag.Tag]*outstanding[C]
}

// New constructs a Machine that uses fn to re-enrich rebased commits.
func New[C any](fn enrich.EnrichFunc[C]) *Machine[C] {
	return &Machine[C]{enrich: fn, byRevision: make(map[revtag.Tag]*outstanding[C])}
}

// OnCommitSubmitted records a newly submitted commit along with the
// enriched form it was submitted with (spec.md §4.8).
func (m *Machine[C]) OnCommitSubmitted(revision revtag.Tag, enriched rebase.TaggedChange[C]) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o := &outstanding[C]{revision: revision, enriched: enriched}
	m.outstanding = append(m.outstanding, o)
	m.byRevision[revision] = o
}

// OnSequencedCommitApplied marks the frontmost outstanding commit as
// sequenced, dropping it from resubmit duty, if its revision matches;
// later outstanding commits are not searched for a match. If the
// applied commit did not originate locally, every remaining outstanding
// commit is marked rebased, since a peer commit landing ahead of them
// means every one of them will need to be rebased onto it (spec.md §4.8).
func (m *Machine[C]) OnSequencedCommitApplied(revision revtag.Tag, isLocal bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.outstanding) > 0 && m.outstanding[0].revision.Equal(revision) {
		front := m.outstanding[0]
		front.sequenced = true
		delete(m.byRevision, front.revision)
		m.outstanding = m.outstanding[1:]
	}

	if !isLocal {
		for _, o := range m.outstanding {
			o.rebased = true
		}
	}
}

// Outstanding returns the number of commits still awaiting resubmission.
func (m *Machine[C]) Outstanding() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.outstanding)
}

// Resubmit produces the minimal ordered sequence of enriched commits the
// host must resend: already-sequenced commits are skipped, unrebased
// commits are returned with their original enrichment untouched, and
// rebased commits are re-enriched against resupply -- using exactly one
// shared checkout for the whole call regardless of how many commits need
// re-enrichment (spec.md §4.8 performance contract, R3). progress, if
// non-nil, is invoked after every commit is resolved.
func (m *Machine[C]) Resubmit(resupply ResupplyFunc[C], progress func(done, total int)) (Outcome[C], error) {
	m.mu.Lock()
	snapshot := append([]*outstanding[C](nil), m.outstanding...)
	m.mu.Unlock()

	var out Outcome[C]
	var checkout billy.Filesystem

	for i, o := range snapshot {
		info := MutationInfo{Revision: o.revision}

		if o.sequenced {
			info.Status = Rejected
			out.MutationInfos = append(out.MutationInfos, info)
			if progress != nil {
				progress(i+1, len(snapshot))
			}
			continue
		}

		if !o.rebased {
			commit := graph.New(o.enriched.Change, o.enriched.Revision, nil)
			out.Commits = append(out.Commits, commit)
			info.Status = Accepted
			out.MutationInfos = append(out.MutationInfos, info)
			if progress != nil {
				progress(i+1, len(snapshot))
			}
			continue
		}

		fresh, err := resupply(o.revision)
		if err != nil {
			info.Status = Errored
			info.Error = fmt.Errorf("%w: %v", ErrResupplyFailed, err).Error()
			out.MutationInfos = append(out.MutationInfos, info)
			if progress != nil {
				progress(i+1, len(snapshot))
			}
			continue
		}

		if checkout == nil {
			checkout = memfs.New()
			out.CheckoutsCreated++
		}
		enriched, err := m.enrich(fresh, checkout)
		if err != nil {
			info.Status = Errored
			info.Error = err.Error()
			out.MutationInfos = append(out.MutationInfos, info)
			if progress != nil {
				progress(i+1, len(snapshot))
			}
			continue
		}
		out.EnrichmentCalls++

		m.mu.Lock()
		if cur, ok := m.byRevision[o.revision]; ok {
			cur.enriched = enriched
			cur.rebased = false
		}
		m.mu.Unlock()

		commit := graph.New(enriched.Change, enriched.Revision, nil)
		out.Commits = append(out.Commits, commit)
		info.Status = Accepted
		out.MutationInfos = append(out.MutationInfos, info)
		if progress != nil {
			progress(i+1, len(snapshot))
		}
	}

	assert.True(len(out.MutationInfos) == len(snapshot), "resubmit: every outstanding commit must be reported exactly once")
	return out, nil
}
