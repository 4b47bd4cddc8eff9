package orchestrator

import (
	"context"
	"fmt"
	"time"

	"mctest/internal/backend"
	"mctest/internal/koerr"
	"mctest/internal/story"
)

// resolveAction returns a copy of a with every reference expression in
// its string fields substituted via r.resolver, per spec.md §4.4's eager
// pre-resolution rule.
func (r *Runner) resolveAction(a *story.Action) (story.Action, error) {
	out := *a
	fields := []*string{
		&out.Player, &out.Entity, &out.EntityType, &out.Item, &out.Slot, &out.Command,
		&out.Message, &out.Pattern, &out.Weather, &out.Source, &out.Contains,
		&out.State1, &out.State2, &out.SourceVariable, &out.JSONPath,
		&out.FilterType, &out.FilterValue, &out.Mode,
	}
	for _, f := range fields {
		resolved, err := r.resolver.ResolveString(*f)
		if err != nil {
			return out, err
		}
		*f = resolved
	}
	args := make([]string, len(out.Args))
	for i, arg := range out.Args {
		resolved, err := r.resolver.ResolveString(arg)
		if err != nil {
			return out, err
		}
		args[i] = resolved
	}
	out.Args = args
	return out, nil
}

// dispatch runs one resolved Action against the backend and returns its
// bindable output, the evidence lines to fold into the combined log, and
// an error if the action failed.
func (r *Runner) dispatch(ctx context.Context, a *story.Action) (any, []string, error) {
	b := r.backend

	switch a.Kind {
	case story.ActionExecuteRconCommand, story.ActionExecuteRconWithCapture:
		out, err := b.ExecuteConsole(ctx, a.Command, a.Args)
		return out, []string{out}, wrapAction(err, a.Kind)

	case story.ActionExecuteRconRaw:
		out, err := b.ExecuteConsoleRaw(ctx, a.Command)
		return out, []string{out}, wrapAction(err, a.Kind)

	case story.ActionExecutePlayerCommand:
		err := b.ExecutePlayerCommand(ctx, a.Player, a.Command)
		return nil, nil, wrapAction(err, a.Kind)

	case story.ActionExecutePlayerRaw:
		err := b.ExecutePlayerCommand(ctx, a.Player, a.Command)
		return nil, nil, wrapAction(err, a.Kind)

	case story.ActionMakeOperator:
		return nil, nil, wrapAction(b.MakeOperator(ctx, a.Player), a.Kind)

	case story.ActionGiveItem:
		return nil, nil, wrapAction(b.GiveItem(ctx, a.Player, a.Item, a.Count), a.Kind)

	case story.ActionEquipItem:
		return nil, nil, wrapAction(b.Equip(ctx, a.Player, a.Item, a.Slot), a.Kind)

	case story.ActionRemoveItem:
		return nil, nil, wrapAction(b.RemoveItem(ctx, a.Player, a.Item, a.Count), a.Kind)

	case story.ActionClearInventory:
		return nil, nil, wrapAction(b.ClearInventory(ctx, a.Player), a.Kind)

	case story.ActionSetSpawnPoint:
		cmd := fmt.Sprintf("spawnpoint %s %s", a.Player, fmtLoc(a.Location))
		out, err := b.ExecuteConsole(ctx, cmd, nil)
		return out, []string{out}, wrapAction(err, a.Kind)

	case story.ActionTeleportPlayer:
		err := b.Teleport(ctx, a.Player, a.Location.X, a.Location.Y, a.Location.Z)
		return nil, nil, wrapAction(err, a.Kind)

	case story.ActionGamemodeChange:
		return nil, nil, wrapAction(b.Gamemode(ctx, a.Player, a.Mode), a.Kind)

	case story.ActionKillPlayer:
		return nil, nil, wrapAction(b.SetEntityHealth(ctx, a.Player, 0), a.Kind)

	case story.ActionHealPlayer:
		health, err := b.GetHealth(ctx, a.Player)
		if err != nil {
			return nil, nil, wrapAction(err, a.Kind)
		}
		err = b.SetEntityHealth(ctx, a.Player, health.MaxHealth)
		return nil, nil, wrapAction(err, a.Kind)

	case story.ActionSetPlayerHealth:
		return nil, nil, wrapAction(b.SetEntityHealth(ctx, a.Player, a.Value), a.Kind)

	case story.ActionSpawnEntity:
		loc := backend.Location{}
		if a.Location != nil {
			loc = backend.Location{X: a.Location.X, Y: a.Location.Y, Z: a.Location.Z}
		}
		err := b.SpawnEntity(ctx, a.Entity, a.EntityType, loc, nil)
		return nil, nil, wrapAction(err, a.Kind)

	case story.ActionKillEntity:
		return nil, nil, wrapAction(b.SetEntityHealth(ctx, a.Entity, 0), a.Kind)

	case story.ActionSetEntityHealth:
		return nil, nil, wrapAction(b.SetEntityHealth(ctx, a.Entity, a.Value), a.Kind)

	case story.ActionGetEntityHealth:
		v, err := b.GetEntityHealth(ctx, a.Entity)
		return v, nil, wrapAction(err, a.Kind)

	case story.ActionDamageEntity:
		cur, err := b.GetEntityHealth(ctx, a.Entity)
		if err != nil {
			return nil, nil, wrapAction(err, a.Kind)
		}
		err = b.SetEntityHealth(ctx, a.Entity, cur-a.Value)
		return nil, nil, wrapAction(err, a.Kind)

	case story.ActionRemoveEntities:
		return nil, nil, wrapAction(b.RemoveAllTestEntities(ctx), a.Kind)

	case story.ActionSetWeather:
		return nil, nil, wrapAction(b.SetWeather(ctx, a.Weather, int(a.Duration/1000)), a.Kind)

	case story.ActionSetTime:
		ticks := int64(a.Value)
		if ticks == 0 {
			ticks = int64(a.Count)
		}
		return nil, nil, wrapAction(b.SetTime(ctx, ticks), a.Kind)

	case story.ActionGetWorldTime:
		v, err := b.GetWorldTime(ctx)
		return v, nil, wrapAction(err, a.Kind)

	case story.ActionGetWeather:
		v, err := b.GetWeather(ctx)
		return v, nil, wrapAction(err, a.Kind)

	case story.ActionConnectPlayer:
		return nil, nil, wrapAction(b.ConnectPlayer(ctx, a.Player), a.Kind)

	case story.ActionDisconnectPlayer:
		return nil, nil, wrapAction(b.DisconnectPlayer(ctx, a.Player), a.Kind)

	case story.ActionSendChatMessage:
		return nil, []string{a.Message}, wrapAction(b.SendChat(ctx, a.Player, a.Message), a.Kind)

	case story.ActionMovePlayer:
		err := b.Move(ctx, a.Player, a.Location.X, a.Location.Y, a.Location.Z)
		return nil, nil, wrapAction(err, a.Kind)

	case story.ActionGetPlayerPosition:
		v, err := b.GetPosition(ctx, a.Player)
		return v, nil, wrapAction(err, a.Kind)

	case story.ActionGetPlayerHealth:
		v, err := b.GetHealth(ctx, a.Player)
		return v, nil, wrapAction(err, a.Kind)

	case story.ActionGetPlayerInventory:
		v, err := b.GetInventory(ctx, a.Player)
		return v, nil, wrapAction(err, a.Kind)

	case story.ActionGetPlayerEquipment:
		v, err := b.GetEquipment(ctx, a.Player)
		return v, nil, wrapAction(err, a.Kind)

	case story.ActionGetEntities, story.ActionGetEntitiesInView:
		v, err := b.GetEntities(ctx, a.Player)
		return v, nil, wrapAction(err, a.Kind)

	case story.ActionGetEntityByName:
		ents, err := b.GetEntities(ctx, a.Player)
		if err != nil {
			return nil, nil, wrapAction(err, a.Kind)
		}
		for _, e := range ents.Entities {
			if e.Name == a.Entity {
				return e, nil, nil
			}
		}
		return nil, nil, koerr.New(koerr.KindReferenceUnbound, "entity %q not found", a.Entity).WithAction(string(a.Kind))

	case story.ActionWait:
		return r.doWait(ctx, a)

	case story.ActionWaitForEntitySpawn:
		return r.doWaitForEntitySpawn(ctx, a)

	case story.ActionWaitForChatMessage:
		return r.doWaitForChatMessage(ctx, a)

	case story.ActionCheckServiceHealth:
		return r.doCheckServiceHealth(ctx, a)

	case story.ActionStoreState:
		v, ok := r.store.Var(a.SourceVariable)
		if !ok {
			return nil, nil, koerr.New(koerr.KindReferenceUnbound, "store_state: unbound variable %q", a.SourceVariable)
		}
		return v, nil, nil

	case story.ActionPrintStoredState:
		v, ok := r.store.Var(a.SourceVariable)
		if !ok {
			return nil, nil, koerr.New(koerr.KindReferenceUnbound, "print_stored_state: unbound variable %q", a.SourceVariable)
		}
		line := fmt.Sprintf("%s = %v", a.SourceVariable, v)
		return v, []string{line}, nil

	case story.ActionCompareStates, story.ActionPrintStateComparison:
		return r.doCompareStates(a)

	case story.ActionExtractWithJSONPath:
		return r.doExtractJSONPath(a)

	case story.ActionFilterEntities:
		return r.doFilterEntities(a)
	}

	return nil, nil, koerr.New(koerr.KindParse, "no executor registered for action kind %q", a.Kind)
}

func wrapAction(err error, kind story.ActionKind) error {
	if err == nil {
		return nil
	}
	if kerr, ok := err.(*koerr.Error); ok {
		return kerr.WithAction(string(kind))
	}
	return koerr.Wrap(koerr.KindBackendTransport, err, "action %s failed", kind).WithAction(string(kind))
}

func fmtLoc(loc *story.Location) string {
	if loc == nil {
		return "~ ~ ~"
	}
	return fmt.Sprintf("%g %g %g", loc.X, loc.Y, loc.Z)
}

func (r *Runner) doWait(ctx context.Context, a *story.Action) (any, []string, error) {
	d := time.Duration(a.Duration) * time.Millisecond
	if d <= 0 {
		d = time.Second
	}
	select {
	case <-ctx.Done():
		return nil, nil, koerr.Wrap(koerr.KindCancelled, ctx.Err(), "wait cancelled")
	case <-time.After(d):
		return nil, nil, nil
	}
}

func (r *Runner) doWaitForEntitySpawn(ctx context.Context, a *story.Action) (any, []string, error) {
	tag := a.Entity
	if tag == "" {
		tag = a.EntityType
	}
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for {
		exists, err := r.backend.EntityExists(ctx, tag)
		if err == nil && exists {
			return true, nil, nil
		}
		select {
		case <-ctx.Done():
			return nil, nil, koerr.New(koerr.KindTimeout, "entity %q did not spawn before timeout", tag).WithAction(string(a.Kind))
		case <-ticker.C:
		}
	}
}

func (r *Runner) doWaitForChatMessage(ctx context.Context, a *story.Action) (any, []string, error) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		if r.matchedLogLine(a.Pattern) {
			return true, nil, nil
		}
		select {
		case <-ctx.Done():
			return nil, nil, koerr.New(koerr.KindTimeout, "no log line matched pattern %q before timeout", a.Pattern).WithAction(string(a.Kind))
		case <-ticker.C:
		}
	}
}

// doCheckServiceHealth probes liveness via a console round trip: both
// backend kinds can always answer a console command, so this is the one
// health signal available regardless of backend kind.
func (r *Runner) doCheckServiceHealth(ctx context.Context, a *story.Action) (any, []string, error) {
	_, err := r.backend.ExecuteConsoleRaw(ctx, "list")
	return err == nil, nil, wrapAction(err, a.Kind)
}

func (r *Runner) doCompareStates(a *story.Action) (any, []string, error) {
	v1, ok := r.store.Var(a.State1)
	if !ok {
		return nil, nil, koerr.New(koerr.KindReferenceUnbound, "compare_states: unbound variable %q", a.State1)
	}
	v2, ok := r.store.Var(a.State2)
	if !ok {
		return nil, nil, koerr.New(koerr.KindReferenceUnbound, "compare_states: unbound variable %q", a.State2)
	}
	diff := DiffStates(v1, v2)
	var evidence []string
	if a.Kind == story.ActionPrintStateComparison {
		evidence = append(evidence, fmt.Sprintf("compare %s vs %s: equal=%v added=%d removed=%d changed=%d",
			a.State1, a.State2, diff.Equal, len(diff.Added), len(diff.Removed), len(diff.Changed)))
	}
	return diff, evidence, nil
}

func (r *Runner) doExtractJSONPath(a *story.Action) (any, []string, error) {
	srcName := a.SourceVariable
	if srcName == "" {
		srcName = a.Source
	}
	v, ok := r.store.Var(srcName)
	if !ok {
		return nil, nil, koerr.New(koerr.KindReferenceUnbound, "extract_with_jsonpath: unbound variable %q", srcName)
	}
	out, err := extractJSONPath(v, a.JSONPath)
	return out, nil, err
}

func (r *Runner) doFilterEntities(a *story.Action) (any, []string, error) {
	srcName := a.SourceVariable
	if srcName == "" {
		srcName = a.Source
	}
	v, ok := r.store.Var(srcName)
	if !ok {
		return nil, nil, koerr.New(koerr.KindReferenceUnbound, "filter_entities: unbound variable %q", srcName)
	}
	list, ok := asSlice(toGeneric(v))
	if !ok {
		if m, isMap := asMap(toGeneric(v)); isMap {
			if entities, hasEntities := m["entities"]; hasEntities {
				list, ok = asSlice(entities)
			}
		}
	}
	if !ok {
		return nil, nil, koerr.New(koerr.KindParse, "filter_entities: %q is not a list of entities", srcName)
	}
	filtered, err := filterEntities(list, a.FilterType, a.FilterValue)
	return filtered, nil, err
}
