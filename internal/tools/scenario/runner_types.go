package scenario

import "github.com/louisbranch/skirmish/internal/battle/engine"

// snapshot is the observable battle state expectations are checked against.
type snapshot struct {
	Turn    int
	Victory engine.Victory
	Health  [engine.SlotCount]int
	Energy  [2]int
}

type turnResult struct {
	Events    []engine.Event
	Narration []string
}

type scenarioState struct {
	sideA      []string
	sideB      []string
	started    bool
	turns      int
	lastEvents []engine.Event
}
