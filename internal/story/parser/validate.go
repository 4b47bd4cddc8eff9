package parser

import "mctest/internal/story"

// validateAction enforces the per-kind required-field tables of spec.md
// §4.1, e.g. "execute_rcon_command requires command; spawn_entity requires
// entityType and location; compare_states requires state1 and state2".
func validateAction(a *story.Action) error {
	missing := func(field string) error {
		return newParseError(a.Loc, "action %q is missing required field %q", a.Kind, field)
	}

	switch a.Kind {
	case story.ActionExecuteRconCommand, story.ActionExecuteRconWithCapture:
		if a.Command == "" {
			return missing("command")
		}
	case story.ActionExecuteRconRaw, story.ActionExecutePlayerRaw:
		if a.Command == "" {
			return missing("command")
		}
	case story.ActionExecutePlayerCommand:
		if a.Player == "" {
			return missing("player")
		}
		if a.Command == "" {
			return missing("command")
		}
	case story.ActionMakeOperator, story.ActionClearInventory, story.ActionKillPlayer,
		story.ActionConnectPlayer, story.ActionDisconnectPlayer,
		story.ActionGetPlayerPosition, story.ActionGetPlayerHealth,
		story.ActionGetPlayerInventory, story.ActionGetPlayerEquipment,
		story.ActionGetEntities, story.ActionGetEntitiesInView:
		if a.Player == "" {
			return missing("player")
		}
	case story.ActionGiveItem, story.ActionRemoveItem:
		if a.Player == "" {
			return missing("player")
		}
		if a.Item == "" {
			return missing("item")
		}
	case story.ActionEquipItem:
		if a.Player == "" {
			return missing("player")
		}
		if a.Item == "" {
			return missing("item")
		}
		if a.Slot == "" {
			return missing("slot")
		}
	case story.ActionSetSpawnPoint, story.ActionTeleportPlayer:
		if a.Player == "" {
			return missing("player")
		}
		if a.Location == nil {
			return missing("location")
		}
	case story.ActionGamemodeChange:
		if a.Player == "" {
			return missing("player")
		}
		if a.Mode == "" {
			return missing("mode")
		}
	case story.ActionHealPlayer, story.ActionSetPlayerHealth:
		if a.Player == "" {
			return missing("player")
		}
	case story.ActionSpawnEntity:
		if a.EntityType == "" {
			return missing("entityType")
		}
		if a.Location == nil {
			return missing("location")
		}
	case story.ActionKillEntity, story.ActionSetEntityHealth, story.ActionGetEntityHealth,
		story.ActionDamageEntity, story.ActionGetEntityByName:
		if a.Entity == "" {
			return missing("entity")
		}
	case story.ActionRemoveEntities:
		// no required fields: removes all test entities by default.
	case story.ActionSetWeather:
		if a.Weather == "" {
			return missing("weather")
		}
	case story.ActionSetTime:
		if a.Value == 0 && a.Count == 0 {
			return missing("value")
		}
	case story.ActionGetWorldTime, story.ActionGetWeather, story.ActionCheckServiceHealth:
		// no required fields.
	case story.ActionSendChatMessage:
		if a.Player == "" {
			return missing("player")
		}
		if a.Message == "" {
			return missing("message")
		}
	case story.ActionMovePlayer:
		if a.Player == "" {
			return missing("player")
		}
		if a.Location == nil {
			return missing("location")
		}
	case story.ActionWait:
		// duration defaults to an implementation tick; no required field.
	case story.ActionWaitForEntitySpawn:
		if a.EntityType == "" && a.Entity == "" {
			return missing("entityType")
		}
	case story.ActionWaitForChatMessage:
		if a.Pattern == "" {
			return missing("pattern")
		}
	case story.ActionStoreState, story.ActionPrintStoredState:
		if a.StoreAs == "" && a.SourceVariable == "" {
			return missing("store_as")
		}
	case story.ActionCompareStates, story.ActionPrintStateComparison:
		if a.State1 == "" {
			return missing("state1")
		}
		if a.State2 == "" {
			return missing("state2")
		}
	case story.ActionExtractWithJSONPath:
		if a.SourceVariable == "" && a.Source == "" {
			return missing("sourceVariable")
		}
		if a.JSONPath == "" {
			return missing("jsonPath")
		}
	case story.ActionFilterEntities:
		if a.SourceVariable == "" && a.Source == "" {
			return missing("sourceVariable")
		}
		if a.FilterType == "" {
			return missing("filterType")
		}
		if a.FilterValue == "" {
			return missing("filterValue")
		}
	}
	return nil
}

// validateAssertion enforces spec.md §4.1's "any assert_* requires its
// respective comparator field" rule.
func validateAssertion(a *story.Assertion) error {
	missing := func(field string) error {
		return newParseError(a.Loc, "assertion %q is missing required field %q", a.Kind, field)
	}

	switch a.Kind {
	case story.AssertEntityHealth:
		if a.Entity == "" {
			return missing("entity")
		}
		if a.Condition == "" {
			return missing("condition")
		}
	case story.AssertEntityExistsCheck, story.AssertEntityMissing, story.AssertEntityExists:
		if a.Entity == "" {
			return missing("entity")
		}
	case story.AssertPlayerInventory, story.AssertPlayerHasItem:
		if a.Player == "" {
			return missing("player")
		}
		if a.Item == "" {
			return missing("item")
		}
	case story.AssertResponseContains:
		if a.Source == "" {
			return missing("source")
		}
		if a.Contains == "" {
			return missing("contains")
		}
	case story.AssertLogContains:
		if a.Contains == "" {
			return missing("contains")
		}
	case story.AssertJSONEquals:
		if a.Source == "" {
			return missing("source")
		}
		if a.ExpectedJSON == "" {
			return missing("expectedJson")
		}
	case story.AssertCondition:
		if a.Expression == "" {
			return missing("expression")
		}
	}
	return nil
}
