// Package branch implements SharedTreeBranch[C] (spec.md §4.5): a mutable
// head pointer over a graph.Commit[C] chain, with the apply/fork/
// rebaseOnto/merge/removeAfter/dispose operations and their
// beforeChange/afterChange/fork/dispose event surface (spec.md §6.3). The
// teacher has no equivalent (a single noms dataset head, mutated directly,
// with no fork/listener surface), so this package is new code in the
// teacher's error-handling idiom (sentinel errors, internal/assert for
// invariant violations) built directly from spec.md's operation list.
package branch

import (
	"sync"

	"github.com/synctreeio/synctree/graph"
	"github.com/synctreeio/synctree/rebase"
	"github.com/synctreeio/synctree/revtag"
)

// forkRegistry is shared by pointer across a branch and every descendant
// produced by Fork, so that OnFork/unsubscribe affects the whole lineage
// rather than a snapshot taken at fork time (spec.md §4.5's "transitive
// fork subscription" post-condition, scenario 6).
type forkRegistry[C any] struct {
	mu        sync.Mutex
	listeners []func(child *Branch[C])
}

func (r *forkRegistry[C]) subscribe(fn func(child *Branch[C])) func() {
	r.mu.Lock()
	idx := len(r.listeners)
	r.listeners = append(r.listeners, fn)
	r.mu.Unlock()
	return func() {
		r.mu.Lock()
		r.listeners[idx] = nil
		r.mu.Unlock()
	}
}

func (r *forkRegistry[C]) snapshot() []func(child *Branch[C]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]func(child *Branch[C]), 0, len(r.listeners))
	for _, l := range r.listeners {
		if l != nil {
			out = append(out, l)
		}
	}
	return out
}

// Branch is SharedTreeBranch[C].
type Branch[C any] struct {
	r rebase.Rebaser[C]

	mu       sync.Mutex
	head     *graph.Commit[C]
	disposed bool

	forkReg *forkRegistry[C]

	beforeChange []func(Change[C])
	afterChange  []func(Change[C])
	disposeFns   []func()
}

// New constructs a branch rooted at head.
func New[C any](r rebase.Rebaser[C], head *graph.Commit[C]) *Branch[C] {
	return &Branch[C]{r: r, head: head, forkReg: &forkRegistry[C]{}}
}

// GetHead returns the branch's current head commit in constant time.
func (b *Branch[C]) GetHead() *graph.Commit[C] {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.head
}

func (b *Branch[C]) emit(listeners *[]func(Change[C]), ch Change[C]) {
	for _, l := range *listeners {
		if l != nil {
			l(ch)
		}
	}
}

// OnBeforeChange subscribes to beforeChange events; returns an unsubscribe
// function.
func (b *Branch[C]) OnBeforeChange(fn func(Change[C])) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	idx := len(b.beforeChange)
	b.beforeChange = append(b.beforeChange, fn)
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.beforeChange[idx] = nil
	}
}

// OnAfterChange subscribes to afterChange events; returns an unsubscribe
// function.
func (b *Branch[C]) OnAfterChange(fn func(Change[C])) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	idx := len(b.afterChange)
	b.afterChange = append(b.afterChange, fn)
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.afterChange[idx] = nil
	}
}

// OnFork subscribes to fork events, transitively across every descendant
// of b (spec.md §4.5). Returns an unsubscribe function.
func (b *Branch[C]) OnFork(fn func(child *Branch[C])) func() {
	return b.forkReg.subscribe(fn)
}

// OnDispose subscribes to the dispose event.
func (b *Branch[C]) OnDispose(fn func()) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	idx := len(b.disposeFns)
	b.disposeFns = append(b.disposeFns, fn)
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.disposeFns[idx] = nil
	}
}

func compactCopy[T any](s []func(T)) []func(T) {
	out := make([]func(T), 0, len(s))
	for _, f := range s {
		if f != nil {
			out = append(out, f)
		}
	}
	return out
}

func compactCopyNoArg(s []func()) []func() {
	out := make([]func(), 0, len(s))
	for _, f := range s {
		if f != nil {
			out = append(out, f)
		}
	}
	return out
}

// Apply appends a commit carrying change at revision (spec.md §4.5).
func (b *Branch[C]) Apply(change C, revision revtag.Tag) (*graph.Commit[C], error) {
	b.mu.Lock()
	if b.disposed {
		b.mu.Unlock()
		return nil, ErrBranchDisposed
	}
	head := b.head
	b.mu.Unlock()

	newCommit := graph.New(change, revision, head)
	ch := Change[C]{Kind: Append, Commits: []*graph.Commit[C]{newCommit}}

	b.mu.Lock()
	b.emit(&b.beforeChange, ch) // head guaranteed unchanged during beforeChange
	b.head = newCommit
	before := compactCopy(b.afterChange)
	b.mu.Unlock()
	for _, l := range before {
		l(ch)
	}
	return newCommit, nil
}

// Fork creates a child branch sharing b's current head (spec.md §4.5);
// emits fork(child) to every listener registered anywhere in b's fork
// lineage.
func (b *Branch[C]) Fork() *Branch[C] {
	b.mu.Lock()
	head := b.head
	b.mu.Unlock()

	child := &Branch[C]{r: b.r, head: head, forkReg: b.forkReg}
	for _, l := range b.forkReg.snapshot() {
		l(child)
	}
	return child
}

// RebaseOnto rebases b's head onto other's head (or upTo, if given),
// replacing b's head (spec.md §4.5). Emits a Rebase change event whenever
// the head moves (commits rebased, dropped by commit reuse, or a plain
// fast-forward); a call that leaves the head where it was emits nothing.
func (b *Branch[C]) RebaseOnto(other *Branch[C], upTo *graph.Commit[C]) error {
	b.mu.Lock()
	if b.disposed {
		b.mu.Unlock()
		return ErrBranchDisposed
	}
	source := b.head
	b.mu.Unlock()

	target := upTo
	if target == nil {
		target = other.GetHead()
	}

	result, err := graph.RebaseBranch[C](b.r, source, target, target, graph.DefaultOptions())
	if err != nil {
		return err
	}
	if result.NewSourceHead == source {
		// Head unchanged: true no-op, no event (spec.md §4.5
		// post-condition, scenario 5).
		return nil
	}

	ch := Change[C]{Kind: Rebase, Commits: result.SourceCommits}
	b.mu.Lock()
	b.emit(&b.beforeChange, ch)
	b.head = result.NewSourceHead
	after := compactCopy(b.afterChange)
	b.mu.Unlock()
	for _, l := range after {
		l(ch)
	}
	return nil
}

// Merge rebases other's head onto b's head and appends the rebased
// commits onto b (spec.md §4.5); emits Append.
func (b *Branch[C]) Merge(other *Branch[C]) error {
	b.mu.Lock()
	if b.disposed {
		b.mu.Unlock()
		return ErrBranchDisposed
	}
	target := b.head
	b.mu.Unlock()

	result, err := graph.RebaseBranch[C](b.r, other.GetHead(), target, target, graph.DefaultOptions())
	if err != nil {
		return err
	}
	if len(result.SourceCommits) == 0 {
		b.mu.Lock()
		b.head = result.NewSourceHead
		b.mu.Unlock()
		return nil
	}

	ch := Change[C]{Kind: Append, Commits: result.SourceCommits}
	b.mu.Lock()
	b.emit(&b.beforeChange, ch)
	b.head = result.NewSourceHead
	after := compactCopy(b.afterChange)
	b.mu.Unlock()
	for _, l := range after {
		l(ch)
	}
	return nil
}

// RemoveAfter truncates the branch back to commit, discarding every
// commit after it (spec.md §4.5); emits Remove with the discarded
// commits.
func (b *Branch[C]) RemoveAfter(commit *graph.Commit[C]) error {
	b.mu.Lock()
	if b.disposed {
		b.mu.Unlock()
		return ErrBranchDisposed
	}
	head := b.head
	b.mu.Unlock()

	var removed []*graph.Commit[C]
	for n := head; n != nil && n != commit; n = n.Parent() {
		removed = append([]*graph.Commit[C]{n}, removed...)
	}
	if len(removed) == 0 {
		return nil
	}

	ch := Change[C]{Kind: Remove, Commits: removed}
	b.mu.Lock()
	b.emit(&b.beforeChange, ch)
	b.head = commit
	after := compactCopy(b.afterChange)
	b.mu.Unlock()
	for _, l := range after {
		l(ch)
	}
	return nil
}

// Dispose forbids further mutation; GetHead remains legal. Emits dispose.
func (b *Branch[C]) Dispose() {
	b.mu.Lock()
	if b.disposed {
		b.mu.Unlock()
		return
	}
	b.disposed = true
	fns := compactCopyNoArg(b.disposeFns)
	b.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Disposed reports whether Dispose has been called.
func (b *Branch[C]) Disposed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.disposed
}
