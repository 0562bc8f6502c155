package engine

import "fmt"

// checkInvariants clamps corrupt values back into range. Builds tagged
// skirmishdebug panic instead so tests catch the engine bug.
func checkInvariants(s *State) {
	for side := range s.Pools {
		for c, v := range s.Pools[side] {
			if v < 0 {
				violation("side %s pool %d is %d", Side(side), c, v)
				s.Pools[side][c] = 0
			}
		}
	}
	for slot := range s.Fighters {
		f := &s.Fighters[slot]
		if f.Health < 0 {
			violation("%s health is %d", f.ID, f.Health)
			f.Health = 0
		}
		if f.Health > f.MaxHealth {
			violation("%s health %d exceeds %d", f.ID, f.Health, f.MaxHealth)
			f.Health = f.MaxHealth
		}
		for i, cd := range f.Cooldowns {
			if cd < 0 {
				violation("%s cooldown %d is %d", f.ID, i, cd)
				f.Cooldowns[i] = 0
			}
		}
		for i := range f.Effects {
			if f.Effects[i].Remaining < 0 {
				violation("%s effect %s has remaining %d", f.ID, f.Effects[i].Kind, f.Effects[i].Remaining)
				f.Effects[i].Remaining = 0
			}
		}
	}
}

func violation(format string, args ...any) {
	if debugInvariants {
		panic("engine invariant: " + fmt.Sprintf(format, args...))
	}
}
