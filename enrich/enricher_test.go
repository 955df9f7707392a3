package enrich_test

import (
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synctreeio/synctree/branch"
	"github.com/synctreeio/synctree/counterfield"
	"github.com/synctreeio/synctree/enrich"
	"github.com/synctreeio/synctree/graph"
	"github.com/synctreeio/synctree/rebase"
	"github.com/synctreeio/synctree/revtag"
)

func countingEnricher(t *testing.T, calls *int) enrich.EnrichFunc[counterfield.Change] {
	return func(commit *graph.Commit[counterfield.Change], checkout billy.Filesystem) (rebase.TaggedChange[counterfield.Change], error) {
		*calls++
		require.NotNil(t, checkout)
		return rebase.Tagged(commit.Revision(), commit.Change()*2), nil
	}
}

func TestEnrichIsIdempotentPerCommit(t *testing.T) {
	var calls int
	e, err := enrich.New[counterfield.Change](countingEnricher(t, &calls), 16)
	require.NoError(t, err)

	root := graph.NewRoot[counterfield.Change](0)
	c := graph.New[counterfield.Change](5, revtag.New(), root)

	out1, err := e.Enrich(c)
	require.NoError(t, err)
	out2, err := e.Enrich(c)
	require.NoError(t, err)

	assert.Equal(t, counterfield.Change(10), out1.Change)
	assert.Equal(t, out1, out2)
	assert.Equal(t, 1, calls)
}

func TestProcessChangeQueuesAppendAndDropsRemoved(t *testing.T) {
	var calls int
	e, err := enrich.New[counterfield.Change](countingEnricher(t, &calls), 16)
	require.NoError(t, err)

	root := graph.NewRoot[counterfield.Change](0)
	c1 := graph.New[counterfield.Change](1, revtag.New(), root)
	c2 := graph.New[counterfield.Change](2, revtag.New(), c1)

	e.ProcessChange(branch.Change[counterfield.Change]{Kind: branch.Append, Commits: []*graph.Commit[counterfield.Change]{c1, c2}})
	assert.Len(t, e.Queued(), 2)

	e.ProcessChange(branch.Change[counterfield.Change]{Kind: branch.Remove, Commits: []*graph.Commit[counterfield.Change]{c2}})
	queued := e.Queued()
	require.Len(t, queued, 1)
	assert.Equal(t, c1.Revision(), queued[0].Revision())
}

func TestAbortedTransactionNeverEnriches(t *testing.T) {
	var calls int
	e, err := enrich.New[counterfield.Change](countingEnricher(t, &calls), 16)
	require.NoError(t, err)

	root := graph.NewRoot[counterfield.Change](0)
	c1 := graph.New[counterfield.Change](1, revtag.New(), root)

	e.StartTransaction()
	e.ProcessChange(branch.Change[counterfield.Change]{Kind: branch.Append, Commits: []*graph.Commit[counterfield.Change]{c1}})
	assert.Empty(t, e.Queued(), "commits inside an open transaction must not be externally visible yet")
	e.AbortTransaction()

	assert.Empty(t, e.Queued())
	assert.False(t, e.InTransaction())
}

func TestNestedTransactionOnlyCommitsOnOutermostClose(t *testing.T) {
	var calls int
	e, err := enrich.New[counterfield.Change](countingEnricher(t, &calls), 16)
	require.NoError(t, err)

	root := graph.NewRoot[counterfield.Change](0)
	c1 := graph.New[counterfield.Change](1, revtag.New(), root)
	c2 := graph.New[counterfield.Change](2, revtag.New(), c1)

	e.StartTransaction()
	e.ProcessChange(branch.Change[counterfield.Change]{Kind: branch.Append, Commits: []*graph.Commit[counterfield.Change]{c1}})

	e.StartTransaction()
	e.ProcessChange(branch.Change[counterfield.Change]{Kind: branch.Append, Commits: []*graph.Commit[counterfield.Change]{c2}})
	e.CommitTransaction() // inner commit: still invisible, folded into outer scope
	assert.Empty(t, e.Queued())

	e.CommitTransaction() // outer commit: both c1 and c2 become visible
	assert.Len(t, e.Queued(), 2)
}
