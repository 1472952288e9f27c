package typegraph

// partition is one way of discharging a goal set at a CFG position:
// removed is the goals that were justified by an origin at that position,
// remaining is everything left over that still needs a route further back.
type partition struct {
	removed   goalSet
	remaining goalSet
}

// branch is the work-list entry resolveFinishedGoals forks per source-set.
type branch struct {
	toRemove []*Binding
	seen     goalSet
	removed  goalSet
	remaining goalSet
}

// resolveFinishedGoals enumerates every way to discharge the goals that
// have an origin at pos, honoring the disjunction-of-conjunctions
// structure of origins: a goal with an origin at pos is "removed" (it
// holds here), but doing so forks one branch per source-set of that
// origin, since any one of those conjunctions of other bindings is enough
// to justify it and each must be pursued as its own possibility. A goal
// is processed at most once per branch, so cycles among origins (e.g. two
// bindings that are each other's source) terminate instead of looping.
func resolveFinishedGoals(pos *CFGNode, goals goalSet) []partition {
	start := branch{
		toRemove:  goals.slice(),
		seen:      make(goalSet),
		removed:   make(goalSet),
		remaining: make(goalSet),
	}
	work := []branch{start}
	var results []partition

	for len(work) > 0 {
		b := work[len(work)-1]
		work = work[:len(work)-1]

		if len(b.toRemove) == 0 {
			results = append(results, partition{removed: b.removed, remaining: b.remaining})
			continue
		}

		goal := b.toRemove[0]
		rest := b.toRemove[1:]

		if b.seen.has(goal) {
			work = append(work, branch{toRemove: rest, seen: b.seen, removed: b.removed, remaining: b.remaining})
			continue
		}

		seen := b.seen.with(goal)
		origin := goal.findOrigin(pos)
		if origin == nil {
			work = append(work, branch{
				toRemove:  rest,
				seen:      seen,
				removed:   b.removed,
				remaining: b.remaining.with(goal),
			})
			continue
		}

		removed := b.removed.with(goal)
		for _, ss := range origin.sourceSets {
			nextToRemove := append(append([]*Binding(nil), rest...), ss.slice()...)
			work = append(work, branch{
				toRemove:  nextToRemove,
				seen:      seen,
				removed:   removed,
				remaining: b.remaining,
			})
		}
	}
	return results
}
