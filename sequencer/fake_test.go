package sequencer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synctreeio/synctree/counterfield"
	"github.com/synctreeio/synctree/editmgr"
	"github.com/synctreeio/synctree/graph"
	"github.com/synctreeio/synctree/rebase"
	"github.com/synctreeio/synctree/revtag"
	"github.com/synctreeio/synctree/sequencer"
)

func TestFakeSequencerAssignsMonotonicSequenceNumbers(t *testing.T) {
	seq := sequencer.New[counterfield.Change]()
	assert.Equal(t, int64(0), seq.Head())

	var received []int64
	seq.Subscribe("s1", func(_ rebase.TaggedChange[counterfield.Change], n, _ int64, _ string, _ bool) {
		received = append(received, n)
	})

	n1 := seq.Submit("s1", rebase.Tagged(revtag.New(), counterfield.Change(1)), 0)
	n2 := seq.Submit("s1", rebase.Tagged(revtag.New(), counterfield.Change(2)), n1)

	assert.Equal(t, []int64{1, 2}, received)
	assert.Equal(t, int64(2), n2)
	assert.Equal(t, int64(2), seq.Head())
}

func TestFakeSequencerMarksLocalVsPeer(t *testing.T) {
	seq := sequencer.New[counterfield.Change]()

	var s1Local, s2Local bool
	seq.Subscribe("s1", func(_ rebase.TaggedChange[counterfield.Change], _, _ int64, _ string, isLocal bool) {
		s1Local = isLocal
	})
	seq.Subscribe("s2", func(_ rebase.TaggedChange[counterfield.Change], _, _ int64, _ string, isLocal bool) {
		s2Local = isLocal
	})

	seq.Submit("s1", rebase.Tagged(revtag.New(), counterfield.Change(1)), 0)
	assert.True(t, s1Local)
	assert.False(t, s2Local)
}

// TestTwoEditManagersConvergeThroughFakeSequencer wires sequencer, editmgr
// and counterfield together end to end: two sessions each submit a local
// change, and both EditManagers must land on the same trunk content.
func TestTwoEditManagersConvergeThroughFakeSequencer(t *testing.T) {
	root := graph.NewRoot[counterfield.Change](0)
	emA := editmgr.New[counterfield.Change](counterfield.Rebaser{}, root, "A")
	emB := editmgr.New[counterfield.Change](counterfield.Rebaser{}, root, "B")

	seq := sequencer.New[counterfield.Change]()
	seq.Subscribe("A", func(commit rebase.TaggedChange[counterfield.Change], n, ref int64, originator string, isLocal bool) {
		require.NoError(t, emA.AddSequencedChange(commit, editmgr.SequenceNumber(n), editmgr.SequenceNumber(ref), 0, originator, isLocal))
	})
	seq.Subscribe("B", func(commit rebase.TaggedChange[counterfield.Change], n, ref int64, originator string, isLocal bool) {
		require.NoError(t, emB.AddSequencedChange(commit, editmgr.SequenceNumber(n), editmgr.SequenceNumber(ref), 0, originator, isLocal))
	})

	cA, err := emA.SubmitLocalChange(10)
	require.NoError(t, err)
	seq.Submit("A", cA.Tagged(), int64(0))

	cB, err := emB.SubmitLocalChange(5)
	require.NoError(t, err)
	seq.Submit("B", cB.Tagged(), int64(0))

	trunkA := emA.GetTrunkChanges()
	trunkB := emB.GetTrunkChanges()
	require.Len(t, trunkA, 2)
	require.Len(t, trunkB, 2)

	var sumA, sumB counterfield.Change
	for _, c := range trunkA {
		sumA += c.Change()
	}
	for _, c := range trunkB {
		sumB += c.Change()
	}
	assert.Equal(t, sumA, sumB)
	assert.Equal(t, counterfield.Change(15), sumA)
}
