package branch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synctreeio/synctree/branch"
	"github.com/synctreeio/synctree/counterfield"
	"github.com/synctreeio/synctree/graph"
	"github.com/synctreeio/synctree/revtag"
)

func newRootBranch() *branch.Branch[counterfield.Change] {
	root := graph.NewRoot[counterfield.Change](0)
	return branch.New[counterfield.Change](counterfield.Rebaser{}, root)
}

func TestApplyEmitsBeforeThenAfter(t *testing.T) {
	b := newRootBranch()
	var order []string
	b.OnBeforeChange(func(ch branch.Change[counterfield.Change]) {
		order = append(order, "before")
		assert.Equal(t, branch.Append, ch.Kind)
	})
	b.OnAfterChange(func(ch branch.Change[counterfield.Change]) {
		order = append(order, "after")
	})

	headBefore := b.GetHead()
	commit, err := b.Apply(5, revtag.New())
	require.NoError(t, err)

	assert.Equal(t, []string{"before", "after"}, order)
	assert.Same(t, commit, b.GetHead())
	assert.Same(t, headBefore, commit.Parent())
}

func TestDisposeForbidsMutation(t *testing.T) {
	b := newRootBranch()
	var disposed bool
	b.OnDispose(func() { disposed = true })

	b.Dispose()
	assert.True(t, disposed)
	assert.True(t, b.Disposed())

	_, err := b.Apply(1, revtag.New())
	assert.ErrorIs(t, err, branch.ErrBranchDisposed)

	// GetHead remains legal after dispose.
	assert.NotNil(t, b.GetHead())
}

// TestRebaseOntoNoOpEmitsNoEvent is spec.md §8 scenario 5: parent has one
// commit, a child forked from that same head has nothing further applied
// to either side, so child.rebaseOnto(parent) has nothing to rebase.
func TestRebaseOntoNoOpEmitsNoEvent(t *testing.T) {
	parent := newRootBranch()
	_, err := parent.Apply(1, revtag.New())
	require.NoError(t, err)

	child := parent.Fork()

	fired := false
	child.OnAfterChange(func(branch.Change[counterfield.Change]) { fired = true })

	err = child.RebaseOnto(parent, nil)
	require.NoError(t, err)
	assert.False(t, fired, "rebaseOnto with nothing to rebase must not emit afterChange")
}

func TestRebaseOntoEmitsWhenCommitsRebased(t *testing.T) {
	parent := newRootBranch()
	child := parent.Fork()

	_, err := parent.Apply(1, revtag.New())
	require.NoError(t, err)
	_, err = child.Apply(2, revtag.New())
	require.NoError(t, err)

	var fired int
	child.OnAfterChange(func(ch branch.Change[counterfield.Change]) {
		fired++
		assert.Equal(t, branch.Rebase, ch.Kind)
	})

	err = child.RebaseOnto(parent, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, fired)
	assert.Same(t, parent.GetHead(), child.GetHead().Parent())
}

func TestRemoveAfterEmitsRemove(t *testing.T) {
	b := newRootBranch()
	first, err := b.Apply(1, revtag.New())
	require.NoError(t, err)
	_, err = b.Apply(2, revtag.New())
	require.NoError(t, err)

	var removed []int
	b.OnAfterChange(func(ch branch.Change[counterfield.Change]) {
		assert.Equal(t, branch.Remove, ch.Kind)
		for _, c := range ch.Commits {
			removed = append(removed, int(c.Change()))
		}
	})

	err = b.RemoveAfter(first)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, removed)
	assert.Same(t, first, b.GetHead())
}

// TestTransitiveForkListener is spec.md §8 scenario 6.
func TestTransitiveForkListener(t *testing.T) {
	b := newRootBranch()

	calls := 0
	unsubscribe := b.OnFork(func(*branch.Branch[counterfield.Change]) { calls++ })

	b.Fork()
	f := b.Fork()
	f.Fork()
	f.Fork().Fork()

	assert.Equal(t, 5, calls)

	unsubscribe()

	b.Fork()
	f2 := b.Fork()
	f2.Fork()
	f2.Fork().Fork()

	assert.Equal(t, 5, calls, "no additional invocations after unsubscribing")
}

func TestForkListenerSeesForksCreatedInsideItself(t *testing.T) {
	b := newRootBranch()

	var depth int
	const maxDepth = 3
	calls := 0
	b.OnFork(func(child *branch.Branch[counterfield.Change]) {
		calls++
		if depth < maxDepth {
			depth++
			child.Fork()
		}
	})

	b.Fork()
	assert.Equal(t, maxDepth+1, calls)
}
