package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synctreeio/synctree/counterfield"
	"github.com/synctreeio/synctree/graph"
	"github.com/synctreeio/synctree/revtag"
)

type ch = counterfield.Change

// TestRebaseBranchSimpleReorder is spec.md §8 scenario 1: trunk 1-2-3-4,
// local 1-2'-3'-5 where 2' and 3' share revisions with 2 and 3. Rebasing
// the local branch onto trunk's tip should drop the two reused commits
// and mint one fresh commit for "5", parented directly on "4".
func TestRebaseBranchSimpleReorder(t *testing.T) {
	root := graph.NewRoot[ch](0)
	r2, r3, r4 := revtag.New(), revtag.New(), revtag.New()

	c2 := graph.New[ch](2, r2, root)
	c3 := graph.New[ch](3, r3, c2)
	c4 := graph.New[ch](4, r4, c3)

	c2p := graph.New[ch](20, r2, root) // same intention as c2, different content label
	c3p := graph.New[ch](30, r3, c2p)
	c5 := graph.New[ch](5, revtag.New(), c3p)

	result, err := graph.RebaseBranch[ch](counterfield.Rebaser{}, c5, c4, nil, graph.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 2, result.CountDropped)
	assert.Equal(t, 3, result.SourceBranchLength)
	assert.Equal(t, 3, result.RebaseDistance)
	assert.Equal(t, []*graph.Commit[ch]{c2, c3, c4}, result.TargetCommits)
	assert.ElementsMatch(t, []*graph.Commit[ch]{c2p, c3p, c5}, result.DeletedSourceCommits)

	require.Len(t, result.SourceCommits, 1)
	newHead := result.SourceCommits[0]
	assert.Same(t, c4, newHead.Parent())
	assert.Equal(t, ch(5), newHead.Change())
	assert.Same(t, newHead, result.NewSourceHead)
}

// TestRebaseBranchLeapPastNewBase is spec.md §8 scenario 2: trunk
// 1-2-3-4-5, local branches directly off 1 and carries 3'-4'-6 where 3'
// and 4' share revisions with 3 and 4. Rebasing with newBase=2,
// targetHead=5 should recognize 3'/4' as already present on trunk,
// skip re-rebasing them, and mint a single fresh commit for "6" whose
// content only needs to account for "5" (the one trunk commit with no
// local counterpart).
func TestRebaseBranchLeapPastNewBase(t *testing.T) {
	root := graph.NewRoot[ch](0)
	r2, r3, r4, r5 := revtag.New(), revtag.New(), revtag.New(), revtag.New()

	c2 := graph.New[ch](2, r2, root)
	c3 := graph.New[ch](3, r3, c2)
	c4 := graph.New[ch](4, r4, c3)
	c5 := graph.New[ch](5, r5, c4)

	c3p := graph.New[ch](30, r3, root)
	c4p := graph.New[ch](40, r4, c3p)
	c6 := graph.New[ch](6, revtag.New(), c4p)

	result, err := graph.RebaseBranch[ch](counterfield.Rebaser{}, c6, c2, c5, graph.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 2, result.CountDropped)
	assert.Equal(t, 3, result.SourceBranchLength)
	assert.Equal(t, 4, result.RebaseDistance)

	require.Len(t, result.SourceCommits, 1)
	newHead := result.SourceCommits[0]
	assert.Same(t, c5, newHead.Parent(), "rebased commit should leap past newBase all the way to targetHead")
	assert.Equal(t, ch(6), newHead.Change())
}

// TestRebaseBranchFastForwardsWhenSourceHasNoCommitsOfItsOwn covers
// sourceHead being a strict ancestor of newBase with nothing of its own to
// replay: there is no rebase work to do (HasSourceChange stays false,
// nothing minted or dropped), but the branch still needs to advance to
// targetHead -- a branch with no pending commits that never moved forward
// when trunk did would never again parent a fresh local commit on the
// current trunk tip. See DESIGN.md's note on spec.md §4.4 step 6.
func TestRebaseBranchFastForwardsWhenSourceHasNoCommitsOfItsOwn(t *testing.T) {
	root := graph.NewRoot[ch](0)
	c1 := graph.New[ch](1, revtag.New(), root)
	c2 := graph.New[ch](2, revtag.New(), c1)

	result, err := graph.RebaseBranch[ch](counterfield.Rebaser{}, c1, c2, nil, graph.DefaultOptions())
	require.NoError(t, err)

	assert.Same(t, c2, result.NewSourceHead)
	assert.False(t, result.HasSourceChange)
	assert.Empty(t, result.SourceCommits)
	assert.Empty(t, result.DeletedSourceCommits)
}

// TestRebaseBranchTrueNoOpWhenAlreadyAtTarget is the degenerate case
// spec.md §8 scenario 5 exercises via branch.RebaseOnto: sourceHead already
// equals targetHead, so fast-forwarding is a literal identity assignment.
func TestRebaseBranchTrueNoOpWhenAlreadyAtTarget(t *testing.T) {
	root := graph.NewRoot[ch](0)
	c1 := graph.New[ch](1, revtag.New(), root)

	result, err := graph.RebaseBranch[ch](counterfield.Rebaser{}, c1, c1, nil, graph.DefaultOptions())
	require.NoError(t, err)

	assert.Same(t, c1, result.NewSourceHead)
	assert.False(t, result.HasSourceChange)
}

func TestRebaseBranchFastForwardsWhenFullyReused(t *testing.T) {
	root := graph.NewRoot[ch](0)
	r1 := revtag.New()
	trunk1 := graph.New[ch](1, r1, root)
	local1 := graph.New[ch](10, r1, root)

	result, err := graph.RebaseBranch[ch](counterfield.Rebaser{}, local1, trunk1, nil, graph.DefaultOptions())
	require.NoError(t, err)

	assert.Same(t, trunk1, result.NewSourceHead)
	assert.False(t, result.HasSourceChange)
	assert.Empty(t, result.SourceCommits)
	assert.Equal(t, 1, result.CountDropped)
}

func TestRebaseBranchUnrelatedBranches(t *testing.T) {
	rootA := graph.NewRoot[ch](0)
	rootB := graph.NewRoot[ch](0)
	a := graph.New[ch](1, revtag.New(), rootA)
	b := graph.New[ch](2, revtag.New(), rootB)

	_, err := graph.RebaseBranch[ch](counterfield.Rebaser{}, a, b, nil, graph.DefaultOptions())
	assert.ErrorIs(t, err, graph.ErrUnrelatedBranches)
}
