package graph

// FindAncestor walks parent links from start and returns the nearest
// ancestor (inclusive of start itself) satisfying predicate, or nil if no
// ancestor does (spec.md §4.3, G1). If path is non-nil, it is appended
// with every strictly descendant commit visited before the match, in
// root-to-tip order (i.e. reversed relative to the walk direction), the
// shape the sandwich-rebase machinery in RebaseBranch needs to replay
// commits in application order.
func FindAncestor[C any](start *Commit[C], predicate func(*Commit[C]) bool, path *[]*Commit[C]) *Commit[C] {
	var visited []*Commit[C]
	for n := start; n != nil; n = n.parent {
		if predicate(n) {
			if path != nil {
				for i := len(visited) - 1; i >= 0; i-- {
					*path = append(*path, visited[i])
				}
			}
			return n
		}
		visited = append(visited, n)
	}
	return nil
}

// FindCommonAncestor returns the nearest commit reachable from both a and
// b, or nil if their histories are disjoint (spec.md §4.3, G2). It runs in
// O(depth(a)+depth(b)) by a two-pointer walk: first equalizing depth by
// advancing the deeper side, then stepping both in lockstep comparing
// node identity -- never by building a set of ancestors. If pathA/pathB
// are non-nil, they are populated (root-to-tip order, exclusive of the
// common ancestor) with the commits unique to each side.
func FindCommonAncestor[C any](a, b *Commit[C], pathA, pathB *[]*Commit[C]) *Commit[C] {
	if a == nil || b == nil {
		return nil
	}
	da, db := a.Depth(), b.Depth()

	var skippedA, skippedB []*Commit[C]
	for da > db {
		skippedA = append(skippedA, a)
		a = a.parent
		da--
	}
	for db > da {
		skippedB = append(skippedB, b)
		b = b.parent
		db--
	}

	for a != b {
		if a == nil || b == nil {
			return nil
		}
		skippedA = append(skippedA, a)
		skippedB = append(skippedB, b)
		a = a.parent
		b = b.parent
	}

	if pathA != nil {
		for i := len(skippedA) - 1; i >= 0; i-- {
			*pathA = append(*pathA, skippedA[i])
		}
	}
	if pathB != nil {
		for i := len(skippedB) - 1; i >= 0; i-- {
			*pathB = append(*pathB, skippedB[i])
		}
	}
	return a
}
