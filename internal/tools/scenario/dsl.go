package scenario

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Shopify/go-lua"
)

const scenarioTypeName = "scenario"

// Scenario is a scripted battle: two rosters, a sequence of turns, and the
// expectations checked between them.
type Scenario struct {
	Name  string
	Seed  uint64
	Steps []Step
}

// Step is one scripted instruction.
type Step struct {
	Kind string
	Args map[string]any
}

// LoadScenarioFromFile runs a Lua script and returns the Scenario it builds.
func LoadScenarioFromFile(path string) (*Scenario, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)

	registerLuaTypes(state)

	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}

	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, fmt.Errorf("scenario script must return Scenario")
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	scenario, ok := ud.(*Scenario)
	if !ok || scenario == nil {
		return nil, fmt.Errorf("scenario script returned invalid Scenario")
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return scenario, nil
}

func registerLuaTypes(state *lua.State) {
	lua.NewMetaTable(state, scenarioTypeName)
	state.NewTable()
	lua.SetFunctions(state, scenarioMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)

	state.NewTable()
	lua.SetFunctions(state, scenarioConstructor, 0)
	state.SetGlobal("Scenario")
}

var scenarioConstructor = []lua.RegistryFunction{
	{Name: "new", Function: scenarioNew},
}

var scenarioMethods = []lua.RegistryFunction{
	{Name: "side_a", Function: scenarioSideA},
	{Name: "side_b", Function: scenarioSideB},
	{Name: "turn", Function: scenarioTurn},
	{Name: "expect_health", Function: scenarioExpectHealth},
	{Name: "expect_victory", Function: scenarioExpectVictory},
	{Name: "expect_event", Function: scenarioExpectEvent},
	{Name: "expect_energy", Function: scenarioExpectEnergy},
}

// scenarioNew accepts the seed as a number or, for values past 2^53, as a
// decimal string.
func scenarioNew(state *lua.State) int {
	name := lua.OptString(state, 1, "")
	scenario := &Scenario{Name: name}
	switch state.TypeOf(2) {
	case lua.TypeNone, lua.TypeNil:
	case lua.TypeString:
		raw, _ := state.ToString(2)
		seed, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			lua.ArgumentError(state, 2, "seed must be an unsigned integer")
			return 0
		}
		scenario.Seed = seed
	case lua.TypeNumber:
		value, _ := state.ToNumber(2)
		if value < 0 || math.Mod(value, 1) != 0 {
			lua.ArgumentError(state, 2, "seed must be an unsigned integer")
			return 0
		}
		scenario.Seed = uint64(value)
	default:
		lua.ArgumentError(state, 2, "seed must be a number or string")
		return 0
	}
	state.PushUserData(scenario)
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

func scenarioSideA(state *lua.State) int {
	return scenarioSide(state, "side_a")
}

func scenarioSideB(state *lua.State) int {
	return scenarioSide(state, "side_b")
}

func scenarioSide(state *lua.State, kind string) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	creatures, _ := tableToGo(state, 2).([]any)
	appendStep(scenario, kind, map[string]any{"creatures": creatures})
	return 0
}

func scenarioTurn(state *lua.State) int {
	scenario := checkScenario(state)
	data := optionalTable(state, 2)
	appendStep(scenario, "turn", data)
	return 0
}

func scenarioExpectHealth(state *lua.State) int {
	scenario := checkScenario(state)
	slot := lua.CheckInteger(state, 2)
	health := lua.CheckInteger(state, 3)
	appendStep(scenario, "expect_health", map[string]any{"slot": slot, "health": health})
	return 0
}

func scenarioExpectVictory(state *lua.State) int {
	scenario := checkScenario(state)
	outcome := lua.CheckString(state, 2)
	appendStep(scenario, "expect_victory", map[string]any{"victory": outcome})
	return 0
}

func scenarioExpectEvent(state *lua.State) int {
	scenario := checkScenario(state)
	kind := lua.CheckString(state, 2)
	count := lua.OptInteger(state, 3, 1)
	appendStep(scenario, "expect_event", map[string]any{"kind": kind, "count": count})
	return 0
}

func scenarioExpectEnergy(state *lua.State) int {
	scenario := checkScenario(state)
	side := lua.CheckString(state, 2)
	total := lua.CheckInteger(state, 3)
	appendStep(scenario, "expect_energy", map[string]any{"side": side, "total": total})
	return 0
}

func checkScenario(state *lua.State) *Scenario {
	ud := lua.CheckUserData(state, 1, scenarioTypeName)
	if scenario, ok := ud.(*Scenario); ok && scenario != nil {
		return scenario
	}
	lua.ArgumentError(state, 1, "scenario expected")
	return nil
}

func appendStep(scenario *Scenario, kind string, data map[string]any) int {
	if scenario == nil {
		return -1
	}
	if data == nil {
		data = map[string]any{}
	}
	scenario.Steps = append(scenario.Steps, Step{Kind: kind, Args: data})
	return len(scenario.Steps) - 1
}

func optionalTable(state *lua.State, index int) map[string]any {
	if state.IsNoneOrNil(index) || state.TypeOf(index) != lua.TypeTable {
		return map[string]any{}
	}
	return tableToMap(state, index)
}

func tableToMap(state *lua.State, index int) map[string]any {
	output := map[string]any{}
	if state.TypeOf(index) != lua.TypeTable {
		return output
	}

	index = state.AbsIndex(index)
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			output[key] = luaToGo(state, -1)
		}
		state.Pop(1)
	}
	return output
}

func luaToGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToGo(state, index)
	default:
		return nil
	}
}

// tableToGo returns a []any for sequences and a map for everything else.
// An empty table is an empty []any.
func tableToGo(state *lua.State, index int) any {
	if state.TypeOf(index) != lua.TypeTable {
		return nil
	}

	index = state.AbsIndex(index)
	isArray := true
	maxIndex := 0
	count := 0
	state.PushNil()
	for state.Next(index) {
		if isArray {
			if state.TypeOf(-2) != lua.TypeNumber {
				isArray = false
			} else if idx, ok := state.ToInteger(-2); ok && idx > 0 {
				count++
				if idx > maxIndex {
					maxIndex = idx
				}
			} else {
				isArray = false
			}
		}
		state.Pop(1)
	}

	if isArray && maxIndex == count {
		result := make([]any, 0, maxIndex)
		for i := 1; i <= maxIndex; i++ {
			state.RawGetInt(index, i)
			result = append(result, luaToGo(state, -1))
			state.Pop(1)
		}
		return result
	}

	return tableToMap(state, index)
}

func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 {
		return int(value)
	}
	return value
}
