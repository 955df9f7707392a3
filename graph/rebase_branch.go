package graph

import (
	"errors"

	"github.com/synctreeio/synctree/internal/assert"
	"github.com/synctreeio/synctree/rebase"
	"github.com/synctreeio/synctree/revtag"
)

// ErrUnrelatedBranches is returned by RebaseBranch when sourceHead and
// targetHead share no common ancestor (spec.md §7). The check may be
// disabled via Options.RequireRelated for performance; when disabled the
// precondition (that the branches DO share history) becomes the host's
// responsibility, per spec.md §9's open question.
var ErrUnrelatedBranches = errors.New("graph: rebaseBranch: branches share no common ancestor")

// Options tunes RebaseBranch's optional precondition checking.
type Options struct {
	// RequireRelated, when true (the default via DefaultOptions),
	// verifies sourceHead and targetHead share an ancestor before doing
	// any work. The teacher's lineage carried this check disabled in
	// its hot path; this module defaults it to enabled and lets a host
	// opt out.
	RequireRelated bool
}

// DefaultOptions enables the UnrelatedBranches precondition check.
func DefaultOptions() Options { return Options{RequireRelated: true} }

// RebaseResult is everything RebaseBranch reports back (spec.md §4.4.5).
type RebaseResult[C any] struct {
	NewSourceHead *Commit[C]
	// SourceChange is the composition of every newly minted (rebased)
	// source commit's change; the zero value (HasSourceChange==false) if
	// no commit was rebased.
	SourceChange    C
	HasSourceChange bool

	SourceCommits        []*Commit[C] // newly minted commits, in order
	TargetCommits        []*Commit[C] // full path walked from the common ancestor to targetHead
	DeletedSourceCommits []*Commit[C] // every original source-branch commit this call discarded

	SourceBranchLength int // len(original source path from common ancestor)
	RebaseDistance     int // len(TargetCommits)
	CountDropped       int // commits elided via commit reuse (spec.md §4.4 step 3)
}

// RebaseBranch rebases sourceHead onto targetHead, or onto newBase when
// targetHead is nil (spec.md §4.4): the hard core of
// branch/SharedTreeBranch.RebaseOnto and editmgr's sandwich protocol.
// newBase only bounds how many unmatched target commits the commit-reuse
// scan may step over; the rebased commits are always parented on
// targetHead, and are not placed on newBase when targetHead lies beyond
// it. It is grounded directly on the teacher's db/rebase.go, which
// performs the same forkpoint-then-replay recursion against
// attic-labs/noms commits; this version generalizes it to an opaque
// changeset type, adds the commit-reuse scan (§4.4 step 3) the teacher's
// single-client lineage never needed, and reports the telemetry fields
// spec.md §4.4.5 requires.
func RebaseBranch[C any](r rebase.Rebaser[C], sourceHead, newBase *Commit[C], targetHead *Commit[C], opts Options) (RebaseResult[C], error) {
	if targetHead == nil {
		targetHead = newBase
	}

	var sourcePath, targetPath []*Commit[C]
	commonAncestor := FindCommonAncestor(sourceHead, targetHead, &sourcePath, &targetPath)
	if commonAncestor == nil {
		if opts.RequireRelated {
			return RebaseResult[C]{}, ErrUnrelatedBranches
		}
		assert.Fail("RebaseBranch: unrelated branches with precondition checking disabled")
	}

	newBaseIdx := -1
	for i, c := range targetPath {
		if c == newBase {
			newBaseIdx = i
			break
		}
	}
	assert.True(newBase == commonAncestor || newBaseIdx >= 0, "RebaseBranch: newBase is not on the path from the common ancestor to targetHead")

	result := RebaseResult[C]{
		TargetCommits:      targetPath,
		SourceBranchLength: len(sourcePath),
		RebaseDistance:     len(targetPath),
	}

	if len(sourcePath) == 0 {
		// sourceHead has no commits of its own beyond the common ancestor:
		// nothing to replay, so the branch simply fast-forwards onto
		// targetHead (spec.md §4.4 step 6). When sourceHead and targetHead
		// already coincide this is a true no-op (NewSourceHead == sourceHead
		// either way); when sourceHead is a strict ancestor of targetHead
		// this is what actually advances a branch with no pending commits
		// of its own past trunk movement it had no stake in.
		result.NewSourceHead = targetHead
		return result, nil
	}

	si, ti := 0, 0
	var pendingOver []*Commit[C]
	for si < len(sourcePath) {
		matched := ti < len(targetPath) && sourcePath[si].Revision().Equal(targetPath[ti].Revision())
		if matched {
			result.DeletedSourceCommits = append(result.DeletedSourceCommits, sourcePath[si])
			result.CountDropped++
			si++
			ti++
			pendingOver = nil
			continue
		}
		if ti <= newBaseIdx && ti < len(targetPath) {
			pendingOver = append(pendingOver, targetPath[ti])
			ti++
			continue
		}
		break
	}

	if si >= len(sourcePath) {
		// Every source commit was reused: the branch fast-forwards
		// completely onto targetHead.
		result.NewSourceHead = targetHead
		return result, nil
	}

	overBase := append(append([]*Commit[C]{}, pendingOver...), targetPath[ti:]...)
	remaining := sourcePath[si:]
	result.DeletedSourceCommits = append(result.DeletedSourceCommits, remaining...)

	metadataSeed := append(append([]rebase.TaggedChange[C]{}, taggedAll(overBase)...), taggedAll(remaining)...)
	metadata := rebase.NewMetadata(metadataSeed)

	baseTag := targetHead.Revision()
	baseChange, err := rebase.ComposeAll(r, taggedAll(overBase))
	if err != nil {
		return RebaseResult[C]{}, err
	}
	currentBase := rebase.Tagged(baseTag, baseChange)

	parent := targetHead
	var mintedTagged []rebase.TaggedChange[C]
	for _, orig := range remaining {
		origTagged := orig.Tagged()

		rebasedChange, err := r.Rebase(origTagged, currentBase, metadata)
		if err != nil {
			return RebaseResult[C]{}, err
		}
		newTag := revtag.New()
		rebasedChange = r.ChangeRevision(rebasedChange, newTag, revtag.Tag{}, false)

		newCommit := New(rebasedChange, newTag, parent)
		result.SourceCommits = append(result.SourceCommits, newCommit)
		mintedTagged = append(mintedTagged, newCommit.Tagged())
		parent = newCommit

		invOrig, err := rebase.InvertRollback(r, origTagged, metadata)
		if err != nil {
			return RebaseResult[C]{}, err
		}
		nextBase, err := rebase.ComposeAll(r, []rebase.TaggedChange[C]{invOrig, currentBase, newCommit.Tagged()})
		if err != nil {
			return RebaseResult[C]{}, err
		}
		currentBase = rebase.Tagged(newTag, nextBase)
	}

	result.NewSourceHead = parent
	if len(mintedTagged) > 0 {
		change, err := rebase.ComposeAll(r, mintedTagged)
		if err != nil {
			return RebaseResult[C]{}, err
		}
		result.SourceChange = change
		result.HasSourceChange = true
	}
	return result, nil
}

func taggedAll[C any](commits []*Commit[C]) []rebase.TaggedChange[C] {
	out := make([]rebase.TaggedChange[C], len(commits))
	for i, c := range commits {
		out[i] = c.Tagged()
	}
	return out
}
