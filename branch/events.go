package branch

import "github.com/synctreeio/synctree/graph"

// ChangeKind discriminates the cases of SharedTreeBranchChange
// (spec.md §6.3).
type ChangeKind int

const (
	Append ChangeKind = iota
	Remove
	Rebase
)

func (k ChangeKind) String() string {
	switch k {
	case Append:
		return "append"
	case Remove:
		return "remove"
	case Rebase:
		return "rebase"
	default:
		return "unknown"
	}
}

// Change is the tagged variant a branch emits via beforeChange/afterChange
// (spec.md §6.3): Append carries the newly appended commits, Remove the
// discarded ones, Rebase the newly minted rebased commits.
type Change[C any] struct {
	Kind    ChangeKind
	Commits []*graph.Commit[C]
}
