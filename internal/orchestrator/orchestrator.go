package orchestrator

import (
	"context"
	"strings"
	"sync"
	"time"

	"mctest/internal/backend"
	"mctest/internal/koerr"
	"mctest/internal/story"
	"mctest/pkg/logging"
)

// defaultActionDeadline is the per-action timeout applied when an action
// does not specify its own duration/timeout (spec.md §4.4).
const defaultActionDeadline = 30 * time.Second

// Runner executes exactly one Story against one Backend. A Runner and
// its Store are never shared across stories, per the design note that
// variable/step-output state is explicitly per-Story context rather than
// a global singleton.
type Runner struct {
	backend  backend.Backend
	store    *Store
	resolver *Resolver
	log      *logging.Logger

	logMu    sync.Mutex
	logLines []string
}

// NewRunner constructs a Runner bound to b, with vars seeding the
// variable store (e.g. suite-level globals).
func NewRunner(b backend.Backend, vars map[string]any, log *logging.Logger) *Runner {
	if log == nil {
		log = logging.Nop()
	}
	store := NewStore(vars)
	return &Runner{
		backend:  b,
		store:    store,
		resolver: NewResolver(store),
		log:      log,
	}
}

// Run executes setup, steps, assertions and cleanup in order and returns
// the full evidence trail plus the aggregate TestResult.
func (r *Runner) Run(ctx context.Context, s *story.Story) StoryRecord {
	start := time.Now()
	rec := StoryRecord{Story: s}

	rec.SetupSteps = r.runActions(ctx, s.Setup)
	if !allSucceeded(rec.SetupSteps) {
		rec.CleanupSteps = r.runActions(ctx, s.Cleanup)
		rec.Result = r.summarize(s, rec, start, "setup failed")
		return rec
	}

	rec.Steps = r.runActions(ctx, s.Steps)
	stepsOK := allSucceeded(rec.Steps)

	rec.Assertions = r.runAssertions(ctx, s.Assertions)

	rec.CleanupSteps = r.runActions(ctx, s.Cleanup)

	errMsg := ""
	if !stepsOK {
		errMsg = "one or more steps failed"
	}
	rec.Result = r.summarize(s, rec, start, errMsg)
	return rec
}

func allSucceeded(steps []StepRecord) bool {
	for _, s := range steps {
		if !s.Success && !s.Skipped {
			return false
		}
	}
	return true
}

func (r *Runner) summarize(s *story.Story, rec StoryRecord, start time.Time, errMsg string) story.TestResult {
	passed, failed := 0, 0
	for _, a := range rec.Assertions {
		if a.Passed {
			passed++
		} else {
			failed++
		}
	}
	success := errMsg == "" && failed == 0
	return story.TestResult{
		StoryName:        s.Name,
		Success:          success,
		ExecutionTimeMs:  time.Since(start).Milliseconds(),
		ActionsExecuted:  len(rec.SetupSteps) + len(rec.Steps) + len(rec.CleanupSteps),
		AssertionsPassed: passed,
		AssertionsFailed: failed,
		Logs:             r.snapshotLogs(),
		AssertionResults: rec.Assertions,
		Error:            errMsg,
	}
}

func (r *Runner) runActions(ctx context.Context, actions []story.Action) []StepRecord {
	out := make([]StepRecord, 0, len(actions))
	skipRest := false
	for i := range actions {
		a := &actions[i]
		if skipRest {
			out = append(out, StepRecord{StepID: a.StepID, Name: a.Name, Kind: a.Kind, Skipped: true, Loc: a.Loc})
			continue
		}
		rec := r.runOneAction(ctx, a)
		out = append(out, rec)
		if !rec.Success && a.FailOnErrorOrDefault(false) {
			skipRest = true
		}
	}
	return out
}

func (r *Runner) runOneAction(ctx context.Context, a *story.Action) StepRecord {
	start := time.Now()
	rec := StepRecord{StepID: a.StepID, Name: a.Name, Kind: a.Kind, Channel: classifyChannel(a.Kind), Loc: a.Loc}

	resolved, err := r.resolveAction(a)
	if err != nil {
		return r.failRecord(rec, start, err)
	}

	deadline := defaultActionDeadline
	if resolved.Duration > 0 {
		deadline = time.Duration(resolved.Duration) * time.Millisecond
	}
	actionCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	before := r.snapshotBefore(actionCtx, &resolved)

	output, evidence, err := r.dispatch(actionCtx, &resolved)
	rec.Before = before
	rec.After = r.snapshotAfter(actionCtx, &resolved)
	rec.Evidence = evidence
	rec.DurationMs = time.Since(start).Milliseconds()

	if err != nil {
		return r.failRecord(rec, start, err)
	}

	rec.Success = true
	rec.Output = output
	if a.StoreAs != "" {
		r.store.SetVar(a.StoreAs, output)
	}
	if a.StepID != "" {
		r.store.SetStepOutput(a.StepID, map[string]any{"result": toGeneric(output)})
	}
	for _, line := range evidence {
		r.appendLog(line)
	}
	return rec
}

func (r *Runner) failRecord(rec StepRecord, start time.Time, err error) StepRecord {
	rec.Success = false
	rec.DurationMs = time.Since(start).Milliseconds()
	if kind, ok := koerr.KindOf(err); ok {
		rec.ErrorKind = string(kind)
	}
	rec.ErrorMsg = err.Error()
	r.appendLog(rec.ErrorMsg)
	return rec
}

// snapshotBefore captures before-state for state-affecting actions so the
// HTML report can render a before/after diff (spec.md §7). Actions that
// only read state have nothing meaningful to snapshot.
func (r *Runner) snapshotBefore(ctx context.Context, a *story.Action) any {
	if !isStateAffecting(a.Kind) {
		return nil
	}
	return r.captureRelevantState(ctx, a)
}

func (r *Runner) snapshotAfter(ctx context.Context, a *story.Action) any {
	if !isStateAffecting(a.Kind) {
		return nil
	}
	return r.captureRelevantState(ctx, a)
}

// captureRelevantState reads a coarse snapshot relevant to the action's
// subject (a player or entity), best-effort: a failed snapshot read never
// fails the action itself.
func (r *Runner) captureRelevantState(ctx context.Context, a *story.Action) any {
	switch {
	case a.Player != "":
		if health, err := r.backend.GetHealth(ctx, a.Player); err == nil {
			return health
		}
	case a.Entity != "":
		if health, err := r.backend.GetEntityHealth(ctx, a.Entity); err == nil {
			return health
		}
	}
	return nil
}

func isStateAffecting(kind story.ActionKind) bool {
	switch kind {
	case story.ActionGiveItem, story.ActionRemoveItem, story.ActionClearInventory,
		story.ActionTeleportPlayer, story.ActionGamemodeChange, story.ActionKillPlayer,
		story.ActionHealPlayer, story.ActionSetPlayerHealth, story.ActionSpawnEntity,
		story.ActionKillEntity, story.ActionSetEntityHealth, story.ActionDamageEntity,
		story.ActionRemoveEntities, story.ActionSetWeather, story.ActionSetTime,
		story.ActionMovePlayer, story.ActionEquipItem:
		return true
	default:
		return false
	}
}

func (r *Runner) appendLog(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	r.logMu.Lock()
	defer r.logMu.Unlock()
	r.logLines = append(r.logLines, line)
}

func (r *Runner) snapshotLogs() []string {
	r.logMu.Lock()
	defer r.logMu.Unlock()
	out := make([]string, len(r.logLines))
	copy(out, r.logLines)
	return out
}

func (r *Runner) matchedLogLine(pattern string) bool {
	r.logMu.Lock()
	defer r.logMu.Unlock()
	for _, line := range r.logLines {
		if strings.Contains(line, pattern) {
			return true
		}
	}
	return false
}
