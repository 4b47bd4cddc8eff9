// Package story defines the plain data types that make up a parsed test
// scenario: Story, Action, Assertion and TestResult. None of these types
// carry behavior beyond small helpers; execution lives in
// internal/orchestrator.
package story

import "strconv"

// BackendKind selects which backend a Story targets.
type BackendKind string

const (
	// BackendConsole targets the console-only backend (server-plane only).
	BackendConsole BackendKind = "console"
	// BackendPlayerSim targets the player-sim backend (server + client plane).
	BackendPlayerSim BackendKind = "playersim"
)

// Story is a named, optionally-described scenario with four ordered
// sections: setup, steps, assertions and cleanup.
type Story struct {
	Name        string
	Description string
	Backend     BackendKind

	Setup      []Action
	Steps      []Action
	Assertions []Assertion
	Cleanup    []Action

	// SourceFile is the path the story was parsed from, used in reports.
	SourceFile string
}

// ActionKind is one entry from the closed enumeration in spec.md §6.
type ActionKind string

// The closed set of normalized action kinds.
const (
	ActionExecuteRconCommand     ActionKind = "execute_rcon_command"
	ActionExecuteRconWithCapture ActionKind = "execute_rcon_with_capture"
	ActionExecuteRconRaw         ActionKind = "execute_rcon_raw"
	ActionExecutePlayerCommand   ActionKind = "execute_player_command"
	ActionExecutePlayerRaw       ActionKind = "execute_player_raw"
	ActionMakeOperator           ActionKind = "make_operator"
	ActionGiveItem               ActionKind = "give_item"
	ActionEquipItem              ActionKind = "equip_item"
	ActionRemoveItem             ActionKind = "remove_item"
	ActionClearInventory         ActionKind = "clear_inventory"
	ActionSetSpawnPoint          ActionKind = "set_spawn_point"
	ActionTeleportPlayer         ActionKind = "teleport_player"
	ActionGamemodeChange         ActionKind = "gamemode_change"
	ActionKillPlayer             ActionKind = "kill_player"
	ActionHealPlayer             ActionKind = "heal_player"
	ActionSetPlayerHealth        ActionKind = "set_player_health"
	ActionSpawnEntity            ActionKind = "spawn_entity"
	ActionKillEntity             ActionKind = "kill_entity"
	ActionSetEntityHealth        ActionKind = "set_entity_health"
	ActionGetEntityHealth        ActionKind = "get_entity_health"
	ActionDamageEntity           ActionKind = "damage_entity"
	ActionRemoveEntities         ActionKind = "remove_entities"
	ActionSetWeather             ActionKind = "set_weather"
	ActionSetTime                ActionKind = "set_time"
	ActionGetWorldTime           ActionKind = "get_world_time"
	ActionGetWeather             ActionKind = "get_weather"
	ActionConnectPlayer          ActionKind = "connect_player"
	ActionDisconnectPlayer       ActionKind = "disconnect_player"
	ActionSendChatMessage        ActionKind = "send_chat_message"
	ActionMovePlayer             ActionKind = "move_player"
	ActionGetPlayerPosition      ActionKind = "get_player_position"
	ActionGetPlayerHealth        ActionKind = "get_player_health"
	ActionGetPlayerInventory     ActionKind = "get_player_inventory"
	ActionGetPlayerEquipment     ActionKind = "get_player_equipment"
	ActionGetEntities            ActionKind = "get_entities"
	ActionGetEntitiesInView      ActionKind = "get_entities_in_view"
	ActionGetEntityByName        ActionKind = "get_entity_by_name"
	ActionWait                   ActionKind = "wait"
	ActionWaitForEntitySpawn     ActionKind = "wait_for_entity_spawn"
	ActionWaitForChatMessage     ActionKind = "wait_for_chat_message"
	ActionCheckServiceHealth     ActionKind = "check_service_health"
	ActionStoreState             ActionKind = "store_state"
	ActionPrintStoredState       ActionKind = "print_stored_state"
	ActionCompareStates          ActionKind = "compare_states"
	ActionPrintStateComparison   ActionKind = "print_state_comparison"
	ActionExtractWithJSONPath    ActionKind = "extract_with_jsonpath"
	ActionFilterEntities         ActionKind = "filter_entities"
)

// AssertionKind is one entry from the assertion vocabulary in spec.md §4.4.
type AssertionKind string

const (
	AssertEntityHealth      AssertionKind = "entity_health"
	AssertEntityExistsCheck AssertionKind = "entity_exists"
	AssertPlayerInventory   AssertionKind = "player_inventory"
	AssertEntityMissing     AssertionKind = "assert_entity_missing"
	AssertEntityExists      AssertionKind = "assert_entity_exists"
	AssertPlayerHasItem     AssertionKind = "assert_player_has_item"
	AssertResponseContains  AssertionKind = "assert_response_contains"
	AssertLogContains       AssertionKind = "assert_log_contains"
	AssertJSONEquals        AssertionKind = "assert_json_equals"
	AssertCondition         AssertionKind = "assert_condition"
)

// Condition is the comparison operator used by entity_health assertions.
type Condition string

const (
	CondEQ Condition = "EQ"
	CondNE Condition = "NE"
	CondLT Condition = "LT"
	CondLE Condition = "LE"
	CondGT Condition = "GT"
	CondGE Condition = "GE"
)

// Location is a three-float world position.
type Location struct {
	X, Y, Z float64
}

// Action is a tagged record; the Kind selects which fields are meaningful.
// All fields beyond Kind are optional, matching spec.md §3.
type Action struct {
	Kind ActionKind

	// Core fields every Action may carry.
	Name    string
	StepID  string
	StoreAs string

	// Action-specific parameters. Unused fields for a given Kind are left
	// at the zero value; the parser validates the required subset per Kind.
	Player         string
	Entity         string
	EntityType     string
	Item           string
	Slot           string
	Command        string
	Args           []string
	Location       *Location
	Count          int
	Duration       int64 // milliseconds
	Value          float64
	Message        string
	Pattern        string
	Weather        string
	Mode           string
	Source         string
	Contains       string
	State1         string
	State2         string
	SourceVariable string
	JSONPath       string
	FilterType     string
	FilterValue    string

	Expected          *bool
	ExpectContains    string
	ExpectMatches     string
	ExpectNotContains string

	FailOnError *bool

	// Condition holds an action's parsed condition field, in the assertion
	// comparator vocabulary. No action executor reads it.
	Condition Condition

	// Raw carries any unknown-but-preserved fields verbatim (spec.md §6:
	// "unknown action fields are warnings (preserved, ignored)").
	Raw map[string]any

	// Loc is the source location the action was parsed from, used to
	// decorate ParseError and report evidence.
	Loc SourceLocation
}

// FailOnErrorOrDefault returns the effective fail-on-error policy for this
// action: explicit value if set, else isAssertion ? true : false per
// spec.md §4.4 step 4.
func (a *Action) FailOnErrorOrDefault(isAssertion bool) bool {
	if a.FailOnError != nil {
		return *a.FailOnError
	}
	return isAssertion
}

// ExpectedOrDefault returns Expected if set, else the given default
// (spec.md §4.4: "entity_exists ... default expected=true").
func (a *Action) ExpectedOrDefault(def bool) bool {
	if a.Expected != nil {
		return *a.Expected
	}
	return def
}

// Assertion evaluates to {passed, message, details}. Tagged like Action.
type Assertion struct {
	Kind AssertionKind

	Name   string
	StepID string

	Player       string
	Entity       string
	Item         string
	Slot         string
	Condition    Condition
	Value        float64
	Source       string
	Contains     string
	Expected     *bool
	ExpectedJSON string
	Expression   string

	Raw map[string]any
	Loc SourceLocation
}

// ExpectedOrDefault returns Expected if set, else def.
func (a *Assertion) ExpectedOrDefault(def bool) bool {
	if a.Expected != nil {
		return *a.Expected
	}
	return def
}

// AssertionResult is the outcome of evaluating one Assertion.
type AssertionResult struct {
	Name    string
	Kind    AssertionKind
	Passed  bool
	Message string
	Details string
}

// TestResult aggregates the outcome of running one Story.
type TestResult struct {
	StoryName        string
	Success          bool
	ExecutionTimeMs  int64
	ActionsExecuted  int
	AssertionsPassed int
	AssertionsFailed int
	Logs             []string
	AssertionResults []AssertionResult
	Error            string
}

// SourceLocation is a 1-based line/column position in the parsed YAML file,
// used for ParseError messages and report evidence.
type SourceLocation struct {
	File   string
	Line   int
	Column int
}

// IsKnown reports whether the location carries real line information.
func (s SourceLocation) IsKnown() bool { return s.Line > 0 }

func (s SourceLocation) String() string {
	if !s.IsKnown() {
		if s.File != "" {
			return s.File
		}
		return "<unknown>"
	}
	if s.File != "" {
		return s.File + ":" + strconv.Itoa(s.Line) + ":" + strconv.Itoa(s.Column)
	}
	return strconv.Itoa(s.Line) + ":" + strconv.Itoa(s.Column)
}
