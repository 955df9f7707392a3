package rebase

import "github.com/synctreeio/synctree/revtag"

// Axioms packages the nine algebra laws from spec.md §4.1 as a single
// reusable checker, so that every field kind's test suite (counterfield
// today, any future field kind tomorrow) can assert L1-L9 against its own
// Rebaser without duplicating the wiring. Fields that know their own
// equivalence relation pass it as equal; fields with none can pass
// reflect.DeepEqual equivalents.
type Axioms[C any] struct {
	R     Rebaser[C]
	Equal func(a, b C) bool
}

func (ax Axioms[C]) compose(changes ...TaggedChange[C]) (C, error) {
	return ComposeAll(ax.R, changes)
}

func (ax Axioms[C]) tag(c C) TaggedChange[C] {
	return Tagged(revtag.New(), c)
}

// Associative checks L1: (A∘B)∘C ≡ A∘(B∘C).
func (ax Axioms[C]) Associative(a, b, c C) (bool, error) {
	ta, tb, tc := ax.tag(a), ax.tag(b), ax.tag(c)
	ab, err := ax.compose(ta, tb)
	if err != nil {
		return false, err
	}
	left, err := ax.compose(ax.tag(ab), tc)
	if err != nil {
		return false, err
	}
	bc, err := ax.compose(tb, tc)
	if err != nil {
		return false, err
	}
	right, err := ax.compose(ta, ax.tag(bc))
	if err != nil {
		return false, err
	}
	return ax.Equal(left, right), nil
}

// Identity checks L2: compose([A, ε]) ≡ compose([ε, A]) ≡ A.
func (ax Axioms[C]) Identity(a C) (bool, error) {
	ta := ax.tag(a)
	withTrailingEmpty, err := ax.compose(ta, ax.tag(ax.R.Empty()))
	if err != nil {
		return false, err
	}
	withLeadingEmpty, err := ax.compose(ax.tag(ax.R.Empty()), ta)
	if err != nil {
		return false, err
	}
	return ax.Equal(withTrailingEmpty, a) && ax.Equal(withLeadingEmpty, a), nil
}

// Inverse checks L3: compose([A, A⁻¹]) is empty.
func (ax Axioms[C]) Inverse(a C) (bool, error) {
	ta := ax.tag(a)
	inv, err := InvertRollback(ax.R, ta, NewMetadata([]TaggedChange[C]{ta}))
	if err != nil {
		return false, err
	}
	total, err := ax.compose(ta, inv)
	if err != nil {
		return false, err
	}
	return ax.R.IsEmpty(total), nil
}

// RebaseOverEmpty checks L4: A ↷ ε ≡ A.
func (ax Axioms[C]) RebaseOverEmpty(a C) (bool, error) {
	ta := ax.tag(a)
	empty := ax.tag(ax.R.Empty())
	result, err := ax.R.Rebase(ta, empty, NewMetadata([]TaggedChange[C]{empty}))
	if err != nil {
		return false, err
	}
	return ax.Equal(result, a), nil
}

// RebaseEmpty checks L5: ε ↷ A is empty.
func (ax Axioms[C]) RebaseEmpty(a C) (bool, error) {
	ta := ax.tag(a)
	empty := ax.tag(ax.R.Empty())
	result, err := ax.R.Rebase(empty, ta, NewMetadata([]TaggedChange[C]{ta}))
	if err != nil {
		return false, err
	}
	return ax.R.IsEmpty(result), nil
}

// DoUndo checks L6: (A ↷ B) ↷ B⁻¹ ≡ A.
func (ax Axioms[C]) DoUndo(a, b C) (bool, error) {
	ta, tb := ax.tag(a), ax.tag(b)
	md := NewMetadata([]TaggedChange[C]{ta, tb})
	aOverB, err := ax.R.Rebase(ta, tb, md)
	if err != nil {
		return false, err
	}
	bInv, err := InvertRollback(ax.R, tb, md)
	if err != nil {
		return false, err
	}
	result, err := ax.R.Rebase(ax.tag(aOverB), bInv, md)
	if err != nil {
		return false, err
	}
	return ax.Equal(result, a), nil
}

// UndoRedo checks L7: ((A ↷ B) ↷ B⁻¹) ↷ B ≡ A ↷ B.
func (ax Axioms[C]) UndoRedo(a, b C) (bool, error) {
	ta, tb := ax.tag(a), ax.tag(b)
	md := NewMetadata([]TaggedChange[C]{ta, tb})
	aOverB, err := ax.R.Rebase(ta, tb, md)
	if err != nil {
		return false, err
	}
	bInv, err := InvertRollback(ax.R, tb, md)
	if err != nil {
		return false, err
	}
	undone, err := ax.R.Rebase(ax.tag(aOverB), bInv, md)
	if err != nil {
		return false, err
	}
	redone, err := ax.R.Rebase(ax.tag(undone), tb, md)
	if err != nil {
		return false, err
	}
	return ax.Equal(redone, aOverB), nil
}

// LeftDistributive checks L8: A ↷ (B∘C) ≡ (A ↷ B) ↷ C.
func (ax Axioms[C]) LeftDistributive(a, b, c C) (bool, error) {
	ta, tb, tc := ax.tag(a), ax.tag(b), ax.tag(c)
	md := NewMetadata([]TaggedChange[C]{ta, tb, tc})
	bc, err := ax.compose(tb, tc)
	if err != nil {
		return false, err
	}
	left, err := ax.R.Rebase(ta, ax.tag(bc), md)
	if err != nil {
		return false, err
	}
	aOverB, err := ax.R.Rebase(ta, tb, md)
	if err != nil {
		return false, err
	}
	right, err := ax.R.Rebase(ax.tag(aOverB), tc, md)
	if err != nil {
		return false, err
	}
	return ax.Equal(left, right), nil
}

// RightDistributive checks L9:
// (A∘B) ↷ C ≡ (A↷C) ∘ (B ↷ (A⁻¹ ∘ C ∘ (A↷C))).
func (ax Axioms[C]) RightDistributive(a, b, c C) (bool, error) {
	ta, tb, tc := ax.tag(a), ax.tag(b), ax.tag(c)
	md := NewMetadata([]TaggedChange[C]{ta, tb, tc})

	ab, err := ax.compose(ta, tb)
	if err != nil {
		return false, err
	}
	left, err := ax.R.Rebase(ax.tag(ab), tc, md)
	if err != nil {
		return false, err
	}

	aOverC, err := ax.R.Rebase(ta, tc, md)
	if err != nil {
		return false, err
	}
	aInv, err := InvertRollback(ax.R, ta, md)
	if err != nil {
		return false, err
	}
	inner, err := ax.compose(aInv, tc, ax.tag(aOverC))
	if err != nil {
		return false, err
	}
	bOverInner, err := ax.R.Rebase(tb, ax.tag(inner), md)
	if err != nil {
		return false, err
	}
	right, err := ax.compose(ax.tag(aOverC), ax.tag(bOverInner))
	if err != nil {
		return false, err
	}
	return ax.Equal(left, right), nil
}
