package engine

import "sort"

// buildQueue orders plans by priority tag, then effective speed descending,
// then slot ascending.
func buildQueue(s State, plans []Plan) []Plan {
	queue := append([]Plan(nil), plans...)
	sort.SliceStable(queue, func(i, j int) bool {
		a, b := queue[i], queue[j]
		if pa, pb := a.Move.Prioritized(), b.Move.Prioritized(); pa != pb {
			return pa
		}
		sa := s.Fighters[a.Intent.Actor].EffectiveSpeed()
		sb := s.Fighters[b.Intent.Actor].EffectiveSpeed()
		if sa != sb {
			return sa > sb
		}
		return a.Intent.Actor < b.Intent.Actor
	})
	return queue
}
