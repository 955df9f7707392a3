// Package enrich implements BranchCommitEnricher[C] (spec.md §4.7): the
// local-branch append path is wrapped so every newly appended commit can
// be lazily rewritten with refreshed context before it is ever handed to
// the sequencer, without paying that cost for commits that get aborted
// inside a transaction. The teacher has no rewrite-on-submit step (a noms
// commit is final the moment db.Put appends it), so this package borrows
// its shape from two different corners of the pack instead: ristretto
// caching (antgroup-hugescm) memoizes enrichment per revision so a commit
// is never enriched twice, and a go-billy memfs "checkout" (the git
// worktree idiom surfacing throughout other_examples/) stands in for the
// refreshed tree snapshot a real field-kind enricher would embed.
package enrich

import (
	"sync"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"

	"github.com/synctreeio/synctree/branch"
	"github.com/synctreeio/synctree/graph"
	"github.com/synctreeio/synctree/internal/assert"
	"github.com/synctreeio/synctree/rebase"
	"github.com/synctreeio/synctree/revtag"
)

// EnrichFunc rewrites a queued commit with refreshed context, given a
// fresh checkout filesystem scoped to that commit. Implementations are
// supplied by the host (spec.md §9: the core consumes an already-composed
// rebaser/enricher, it does not know the concrete field kind).
type EnrichFunc[C any] func(commit *graph.Commit[C], checkout billy.Filesystem) (rebase.TaggedChange[C], error)

// Enricher is BranchCommitEnricher[C].
type Enricher[C any] struct {
	enrich EnrichFunc[C]
	root   billy.Filesystem

	mu       sync.Mutex
	cache    *ristretto.Cache[revtag.Tag, rebase.TaggedChange[C]]
	queued   []*graph.Commit[C]
	txDepth  int
	txQueued [][]*graph.Commit[C] // per nesting level, accumulated via addTransactionCommits
}

// New constructs an Enricher backed by fn, caching up to approxCommits
// enrichment results.
func New[C any](fn EnrichFunc[C], approxCommits int64) (*Enricher[C], error) {
	cache, err := ristretto.NewCache(&ristretto.Config[revtag.Tag, rebase.TaggedChange[C]]{
		NumCounters: approxCommits * 10,
		MaxCost:     approxCommits,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Enricher[C]{enrich: fn, root: memfs.New(), cache: cache}, nil
}

// ProcessChange is processChange(event): called on every local-branch
// append/rebase/remove. Append and Rebase queue their new commits for
// enrichment; Remove drops any queued commit it discards, so an aborted
// or superseded commit is never enriched (spec.md §4.7 invariant).
func (e *Enricher[C]) ProcessChange(ch branch.Change[C]) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch ch.Kind {
	case branch.Append, branch.Rebase:
		if e.txDepth > 0 {
			top := len(e.txQueued) - 1
			e.txQueued[top] = append(e.txQueued[top], ch.Commits...)
			return
		}
		e.queued = append(e.queued, ch.Commits...)
	case branch.Remove:
		removed := make(map[revtag.Tag]bool, len(ch.Commits))
		for _, c := range ch.Commits {
			removed[c.Revision()] = true
		}
		e.queued = filterOut(e.queued, removed)
		for i := range e.txQueued {
			e.txQueued[i] = filterOut(e.txQueued[i], removed)
		}
	}
}

func filterOut[C any](commits []*graph.Commit[C], drop map[revtag.Tag]bool) []*graph.Commit[C] {
	out := commits[:0:0]
	for _, c := range commits {
		if !drop[c.Revision()] {
			out = append(out, c)
		}
	}
	return out
}

// StartTransaction begins a nestable transaction: commits queued while a
// transaction is open do not become externally visible until the
// outermost transaction commits (spec.md §4.7).
func (e *Enricher[C]) StartTransaction() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.txDepth++
	e.txQueued = append(e.txQueued, nil)
}

// AddTransactionCommits incorporates commits into the current (innermost)
// transaction scope; used when a caller builds up commits outside the
// normal branch event path (spec.md §4.7).
func (e *Enricher[C]) AddTransactionCommits(commits []*graph.Commit[C]) {
	e.mu.Lock()
	defer e.mu.Unlock()
	assert.True(e.txDepth > 0, "AddTransactionCommits outside a transaction")
	top := len(e.txQueued) - 1
	e.txQueued[top] = append(e.txQueued[top], commits...)
}

// CommitTransaction closes the innermost transaction. On the outermost
// commit, every accumulated commit becomes visible to Enrich.
func (e *Enricher[C]) CommitTransaction() {
	e.mu.Lock()
	defer e.mu.Unlock()
	assert.True(e.txDepth > 0, "CommitTransaction without a matching StartTransaction")
	inner := e.txQueued[len(e.txQueued)-1]
	e.txQueued = e.txQueued[:len(e.txQueued)-1]
	e.txDepth--
	if e.txDepth > 0 {
		top := len(e.txQueued) - 1
		e.txQueued[top] = append(e.txQueued[top], inner...)
		return
	}
	e.queued = append(e.queued, inner...)
}

// AbortTransaction discards the innermost transaction's accumulated
// commits; none of them are ever passed to Enrich (spec.md §4.7, §9
// transaction-scoped resources).
func (e *Enricher[C]) AbortTransaction() {
	e.mu.Lock()
	defer e.mu.Unlock()
	assert.True(e.txDepth > 0, "AbortTransaction without a matching StartTransaction")
	e.txQueued = e.txQueued[:len(e.txQueued)-1]
	e.txDepth--
}

// Enrich returns the enriched form of commit, computing it at most once:
// subsequent calls for the same revision return the cached result
// without invoking the underlying EnrichFunc again (spec.md §4.7, §4.8
// performance contract).
func (e *Enricher[C]) Enrich(commit *graph.Commit[C]) (rebase.TaggedChange[C], error) {
	if cached, ok := e.cache.Get(commit.Revision()); ok {
		return cached, nil
	}
	checkoutPath := commit.Revision().String()
	checkout, err := e.root.Chroot(checkoutPath)
	if err != nil {
		return rebase.TaggedChange[C]{}, err
	}
	result, err := e.enrich(commit, checkout)
	if err != nil {
		return rebase.TaggedChange[C]{}, err
	}
	e.cache.Set(commit.Revision(), result, 1)
	e.cache.Wait()
	return result, nil
}

// Queued returns the commits currently queued for enrichment outside any
// open transaction (read view for resubmit.Machine and tests).
func (e *Enricher[C]) Queued() []*graph.Commit[C] {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*graph.Commit[C](nil), e.queued...)
}

// InTransaction reports whether a transaction is currently open.
func (e *Enricher[C]) InTransaction() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.txDepth > 0
}
