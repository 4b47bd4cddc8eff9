package parser

import (
	"strings"

	"mctest/internal/story"
)

// canonicalActionKinds is the closed enumeration from spec.md §6.
var canonicalActionKinds = map[string]story.ActionKind{
	"execute_rcon_command":      story.ActionExecuteRconCommand,
	"execute_rcon_with_capture": story.ActionExecuteRconWithCapture,
	"execute_rcon_raw":          story.ActionExecuteRconRaw,
	"execute_player_command":    story.ActionExecutePlayerCommand,
	"execute_player_raw":        story.ActionExecutePlayerRaw,
	"make_operator":             story.ActionMakeOperator,
	"give_item":                 story.ActionGiveItem,
	"equip_item":                story.ActionEquipItem,
	"remove_item":               story.ActionRemoveItem,
	"clear_inventory":           story.ActionClearInventory,
	"set_spawn_point":           story.ActionSetSpawnPoint,
	"teleport_player":           story.ActionTeleportPlayer,
	"gamemode_change":           story.ActionGamemodeChange,
	"kill_player":               story.ActionKillPlayer,
	"heal_player":               story.ActionHealPlayer,
	"set_player_health":         story.ActionSetPlayerHealth,
	"spawn_entity":              story.ActionSpawnEntity,
	"kill_entity":               story.ActionKillEntity,
	"set_entity_health":         story.ActionSetEntityHealth,
	"get_entity_health":         story.ActionGetEntityHealth,
	"damage_entity":             story.ActionDamageEntity,
	"remove_entities":           story.ActionRemoveEntities,
	"set_weather":               story.ActionSetWeather,
	"set_time":                  story.ActionSetTime,
	"get_world_time":            story.ActionGetWorldTime,
	"get_weather":               story.ActionGetWeather,
	"connect_player":            story.ActionConnectPlayer,
	"disconnect_player":         story.ActionDisconnectPlayer,
	"send_chat_message":         story.ActionSendChatMessage,
	"move_player":               story.ActionMovePlayer,
	"get_player_position":       story.ActionGetPlayerPosition,
	"get_player_health":         story.ActionGetPlayerHealth,
	"get_player_inventory":      story.ActionGetPlayerInventory,
	"get_player_equipment":      story.ActionGetPlayerEquipment,
	"get_entities":              story.ActionGetEntities,
	"get_entities_in_view":      story.ActionGetEntitiesInView,
	"get_entity_by_name":        story.ActionGetEntityByName,
	"wait":                      story.ActionWait,
	"wait_for_entity_spawn":     story.ActionWaitForEntitySpawn,
	"wait_for_chat_message":     story.ActionWaitForChatMessage,
	"check_service_health":      story.ActionCheckServiceHealth,
	"store_state":               story.ActionStoreState,
	"print_stored_state":        story.ActionPrintStoredState,
	"compare_states":            story.ActionCompareStates,
	"print_state_comparison":    story.ActionPrintStateComparison,
	"extract_with_jsonpath":     story.ActionExtractWithJSONPath,
	"filter_entities":           story.ActionFilterEntities,
}

// legacyActionAliases resolves the unspecified legacy tokens named in
// spec.md §9 Open Questions to their canonical replacements. Per the
// SPEC_FULL.md decision, these normalize silently to the canonical kind;
// callers that want to flag usage can inspect Action.Raw["_legacyToken"].
var legacyActionAliases = map[string]string{
	"player_command": "execute_player_command",
	"server_command": "execute_rcon_command",
}

var canonicalAssertionKinds = map[string]story.AssertionKind{
	"entity_health":            story.AssertEntityHealth,
	"entity_exists":            story.AssertEntityExistsCheck,
	"player_inventory":         story.AssertPlayerInventory,
	"assert_entity_missing":    story.AssertEntityMissing,
	"assert_entity_exists":     story.AssertEntityExists,
	"assert_player_has_item":   story.AssertPlayerHasItem,
	"assert_response_contains": story.AssertResponseContains,
	"assert_log_contains":      story.AssertLogContains,
	"assert_json_equals":       story.AssertJSONEquals,
	"assert_condition":         story.AssertCondition,
}

// normalizeToken lower-cases a token and maps any '-' separator to '_',
// per spec.md §4.1: "accepted in any case and with - or _ separators".
func normalizeToken(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

// normalizeActionKind resolves a raw action token to its canonical kind.
// The second return value is the legacy alias token used, if any.
func normalizeActionKind(raw string) (story.ActionKind, string, bool) {
	tok := normalizeToken(raw)
	if canon, ok := legacyActionAliases[tok]; ok {
		if k, ok := canonicalActionKinds[canon]; ok {
			return k, tok, true
		}
	}
	if k, ok := canonicalActionKinds[tok]; ok {
		return k, "", true
	}
	return "", "", false
}

func normalizeAssertionKind(raw string) (story.AssertionKind, bool) {
	tok := normalizeToken(raw)
	k, ok := canonicalAssertionKinds[tok]
	return k, ok
}

func normalizeBackendKind(raw string) (story.BackendKind, bool) {
	switch normalizeToken(raw) {
	case "", "console":
		return story.BackendConsole, true
	case "playersim", "player_sim":
		return story.BackendPlayerSim, true
	default:
		return "", false
	}
}

func normalizeCondition(raw string) (story.Condition, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "EQ":
		return story.CondEQ, true
	case "NE":
		return story.CondNE, true
	case "LT":
		return story.CondLT, true
	case "LE":
		return story.CondLE, true
	case "GT":
		return story.CondGT, true
	case "GE":
		return story.CondGE, true
	default:
		return "", false
	}
}
