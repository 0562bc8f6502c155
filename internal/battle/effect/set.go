package effect

// Set is a fighter's active effects in application order.
type Set []Effect

// Clone returns an independent copy.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	out := make(Set, len(s))
	copy(out, s)
	return out
}

// Apply merges e into the set. Stackable kinds append a new instance; other
// kinds keep a single instance per (kind, tag) holding the larger duration
// and the larger magnitude.
func (s Set) Apply(e Effect) Set {
	if e.Remaining < 0 {
		e.Remaining = 0
	}
	out := s.Clone()
	if !e.Kind.Stackable() {
		kind, tag := e.key()
		for i := range out {
			k, t := out[i].key()
			if k != kind || t != tag {
				continue
			}
			out[i].Remaining = max(out[i].Remaining, e.Remaining)
			out[i].Magnitude = max(out[i].Magnitude, e.Magnitude)
			out[i].Source = e.Source
			return out
		}
	}
	return append(out, e)
}

// Has reports whether any instance of kind is active.
func (s Set) Has(kind Kind) bool {
	for _, e := range s {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// Sum adds the magnitudes of every instance of kind.
func (s Set) Sum(kind Kind) int {
	total := 0
	for _, e := range s {
		if e.Kind == kind {
			total += e.Magnitude
		}
	}
	return total
}

// Max returns the largest magnitude of kind, or 0.
func (s Set) Max(kind Kind) int {
	best := 0
	for _, e := range s {
		if e.Kind == kind && e.Magnitude > best {
			best = e.Magnitude
		}
	}
	return best
}

// Count returns the number of instances of kind.
func (s Set) Count(kind Kind) int {
	n := 0
	for _, e := range s {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Remove splits the set into kept and removed instances.
func (s Set) Remove(match func(Effect) bool) (kept, removed Set) {
	for _, e := range s {
		if match(e) {
			removed = append(removed, e)
			continue
		}
		kept = append(kept, e)
	}
	return kept, removed
}

// Modifiers derives stat modifiers from the active effects.
func (s Set) Modifiers() StatModifiers {
	return StatModifiers{
		Attack:  s.Sum(Strengthen) - s.Sum(Weaken),
		Defense: s.Sum(Reduce),
		Speed:   s.Sum(Haste) - s.Sum(Slow),
	}
}

// TickResult describes one end-of-turn tick.
type TickResult struct {
	// Heals and Damages list the ticking instances, heals first.
	Heals   []Effect
	Damages []Effect
	Expired []Effect
}

// Tick collects periodic heals and damage, then decrements durations and
// drops instances that run out.
func (s Set) Tick() (Set, TickResult) {
	var result TickResult
	for _, e := range s {
		if e.Kind == Heal && e.Magnitude > 0 {
			result.Heals = append(result.Heals, e)
		}
	}
	for _, e := range s {
		if (e.Kind == Afflict || e.Kind == Bleed) && e.Magnitude > 0 {
			result.Damages = append(result.Damages, e)
		}
	}

	var next Set
	for _, e := range s {
		if e.Remaining <= 1 {
			e.Remaining = 0
			result.Expired = append(result.Expired, e)
			continue
		}
		e.Remaining--
		next = append(next, e)
	}
	return next, result
}
