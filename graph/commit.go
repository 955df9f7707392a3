// Package graph implements GraphCommit and the graph algorithms that
// operate on the commit DAG the rest of synctree is built on (spec.md §3.3
// and §4.3-§4.4): ancestor walks, common-ancestor search, and the
// commit-reuse branch rebase. It is grounded directly on the teacher's
// db/commit.go (immutable commit struct with a single parent ref) and
// db/rebase.go (forkpoint-based recursive rebase), generalized from a
// noms-specific commit shape to a type parameter C.
package graph

import (
	"github.com/synctreeio/synctree/rebase"
	"github.com/synctreeio/synctree/revtag"
)

// Commit is an immutable node in the commit DAG: a change, its revision
// identity, and an optional parent. Its parent link is set once at
// construction and never mutated (spec.md §3.3); commits are freely
// shared by reference across any number of branches.
type Commit[C any] struct {
	change   C
	revision revtag.Tag
	parent   *Commit[C]
}

// New constructs a commit on top of parent. parent is nil only for the
// root commit of a freshly created document.
func New[C any](change C, revision revtag.Tag, parent *Commit[C]) *Commit[C] {
	return &Commit[C]{change: change, revision: revision, parent: parent}
}

// NewRoot constructs the sentinel root commit: revtag.Root, no parent.
func NewRoot[C any](empty C) *Commit[C] {
	return &Commit[C]{change: empty, revision: revtag.Root}
}

// Change returns the commit's changeset.
func (c *Commit[C]) Change() C { return c.change }

// Revision returns the commit's identity.
func (c *Commit[C]) Revision() revtag.Tag { return c.revision }

// Parent returns the commit's parent, or nil if c is the root.
func (c *Commit[C]) Parent() *Commit[C] { return c.parent }

// IsRoot reports whether c has no parent.
func (c *Commit[C]) IsRoot() bool { return c.parent == nil }

// Tagged returns c as a rebase.TaggedChange, the shape the algebra
// consumes.
func (c *Commit[C]) Tagged() rebase.TaggedChange[C] {
	return rebase.Tagged(c.revision, c.change)
}

// Depth returns the number of ancestors between c and the root,
// inclusive of neither endpoint being counted twice: the root has depth
// 0.
func (c *Commit[C]) Depth() int {
	d := 0
	for p := c.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// Path collects the chain from the root to c, inclusive, in root-to-tip
// order. Intended for small chains (tests, CLI printing); editmgr and
// graph.RebaseBranch never materialize the full path, only the segment
// between two commits.
func Path[C any](c *Commit[C]) []*Commit[C] {
	var rev []*Commit[C]
	for n := c; n != nil; n = n.parent {
		rev = append(rev, n)
	}
	path := make([]*Commit[C], len(rev))
	for i, n := range rev {
		path[len(rev)-1-i] = n
	}
	return path
}
