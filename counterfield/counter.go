// Package counterfield implements the simplest possible ChangeRebaser: an
// integer counter where compose sums, invert negates, and rebase is the
// identity on the incoming change. spec.md §8 uses exactly this rebaser
// for its literal end-to-end scenarios (3 and 4); this package gives the
// rest of the test suite, the fuzz harness, and the cmd/synctreectl demo
// a concrete, trivially-correct field kind to exercise against.
package counterfield

import (
	"github.com/synctreeio/synctree/rebase"
	"github.com/synctreeio/synctree/revtag"
)

// Change is the changeset: the signed delta to add to the counter.
type Change int

// Rebaser implements rebase.Rebaser[Change].
type Rebaser struct{}

var _ rebase.Rebaser[Change] = Rebaser{}

// Compose sums the deltas left to right. Sum happens to be commutative,
// but the implementation still walks in order, as spec.md §4.1 requires
// of any Compose.
func (Rebaser) Compose(changes []rebase.TaggedChange[Change], _ rebase.Metadata) (Change, error) {
	var total Change
	for _, c := range changes {
		total += c.Change
	}
	return total, nil
}

// Invert negates the delta. isRollback carries no weight for a counter:
// negation is its own undo whether or not peers ever observed it.
func (Rebaser) Invert(change rebase.TaggedChange[Change], _ bool, _ revtag.Tag, _ rebase.Metadata) (Change, error) {
	return -change.Change, nil
}

// Rebase is the identity: a counter delta means the same thing no matter
// what else happened concurrently, which is exactly the property spec.md
// §8 scenario 3 exploits to demonstrate left-distributivity with trivial
// arithmetic.
func (Rebaser) Rebase(change rebase.TaggedChange[Change], _ rebase.TaggedChange[Change], _ rebase.Metadata) (Change, error) {
	return change.Change, nil
}

func (Rebaser) RebaseAnchors(_ any, _ rebase.TaggedChange[Change]) {}

func (Rebaser) ChangeRevision(change Change, _ revtag.Tag, _ revtag.Tag, _ bool) Change {
	return change
}

func (Rebaser) Empty() Change { return 0 }

func (Rebaser) IsEmpty(change Change) bool { return change == 0 }
