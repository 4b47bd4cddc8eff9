// Package report implements the report aggregator (spec §4.5, component G):
// an append-only in-memory collection of suite/story/step records built from
// orchestrator.StoryRecord, plus text/JSON/JUnit-XML/HTML renderers.
package report

import (
	"time"

	"github.com/google/uuid"

	"mctest/internal/koerr"
	"mctest/internal/orchestrator"
	"mctest/internal/story"
)

// Channel mirrors orchestrator.Channel without importing it as the
// presentation-facing vocabulary of spec §4.5.
type Channel string

const (
	ChannelServer     Channel = "server"
	ChannelClient     Channel = "client"
	ChannelOp         Channel = "op"
	ChannelMineflayer Channel = "mineflayer"
	ChannelOther      Channel = "other"
)

// Step is one recorded action or assertion, shaped per spec §4.5: "name,
// action, actionChannel, expected, actual, passed, evidence[], stateBefore,
// stateAfter, startTime, endTime".
type Step struct {
	Name        string    `json:"name"`
	Action      string    `json:"action"`
	Channel     Channel   `json:"actionChannel"`
	Expected    string    `json:"expected,omitempty"`
	Actual      string    `json:"actual,omitempty"`
	Passed      bool      `json:"passed"`
	Skipped     bool      `json:"skipped,omitempty"`
	ErrorKind   string    `json:"errorKind,omitempty"`
	Evidence    []string  `json:"evidence,omitempty"`
	StateBefore any       `json:"stateBefore,omitempty"`
	StateAfter  any       `json:"stateAfter,omitempty"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
}

// Story is one Story run's full set of steps (setup, steps, assertions and
// cleanup flattened into a single ordered list, in that order) plus its
// pass/fail verdict.
type Story struct {
	Name      string    `json:"name"`
	Passed    bool      `json:"passed"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Steps     []Step    `json:"steps"`
}

// Suite is the top-level aggregate: suite name, run id, start/end
// timestamps, the ordered list of Stories, and the combined server/client
// log streams (append-only strings in the order steps were added; the
// entries carry no timestamps).
type Suite struct {
	RunID     string    `json:"runId"`
	Name      string    `json:"name"`
	Passed    bool      `json:"passed"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Stories   []Story   `json:"stories"`
	ServerLog []string  `json:"serverLog,omitempty"`
	ClientLog []string  `json:"clientLog,omitempty"`
}

// Aggregator accumulates Stories into a Suite as the orchestrator runs
// them. It is append-only from the orchestrator's perspective: renderers
// run only once the suite has finished (spec §5 "Shared-resource policy").
type Aggregator struct {
	suite Suite
}

// NewAggregator starts a new Suite aggregate named name.
func NewAggregator(name string) *Aggregator {
	return &Aggregator{suite: Suite{
		RunID:     uuid.NewString(),
		Name:      name,
		StartTime: time.Now(),
		Passed:    true,
	}}
}

// AddStory converts one orchestrator.StoryRecord into a Story and appends
// it to the suite, updating the suite's server/client log streams and its
// running pass/fail verdict (spec §4.5: "A suite is passed iff every Story
// is passed").
func (ag *Aggregator) AddStory(rec orchestrator.StoryRecord) {
	s := Story{
		Name:   rec.Story.Name,
		Passed: rec.Result.Success,
	}

	appendStep := func(sr orchestrator.StepRecord) {
		step := stepFromRecord(sr)
		s.Steps = append(s.Steps, step)
		switch step.Channel {
		case ChannelServer, ChannelOp:
			ag.suite.ServerLog = append(ag.suite.ServerLog, step.Evidence...)
		case ChannelClient, ChannelMineflayer:
			ag.suite.ClientLog = append(ag.suite.ClientLog, step.Evidence...)
		}
		if step.StartTime.Before(s.StartTime) || s.StartTime.IsZero() {
			s.StartTime = step.StartTime
		}
		if step.EndTime.After(s.EndTime) {
			s.EndTime = step.EndTime
		}
	}

	for _, sr := range rec.SetupSteps {
		appendStep(sr)
	}
	for _, sr := range rec.Steps {
		appendStep(sr)
	}
	for _, ar := range rec.Assertions {
		s.Steps = append(s.Steps, stepFromAssertion(ar))
	}
	for _, sr := range rec.CleanupSteps {
		appendStep(sr)
	}

	if s.StartTime.IsZero() {
		s.StartTime = time.Now()
	}
	if s.EndTime.IsZero() {
		s.EndTime = s.StartTime
	}

	ag.suite.Stories = append(ag.suite.Stories, s)
	if !s.Passed {
		ag.suite.Passed = false
	}
}

// Finish stamps the suite's end time and returns the completed Suite.
// Renderers operate on this value.
func (ag *Aggregator) Finish() Suite {
	ag.suite.EndTime = time.Now()
	return ag.suite
}

func stepFromRecord(sr orchestrator.StepRecord) Step {
	name := sr.Name
	if name == "" {
		name = sr.StepID
	}
	if name == "" {
		name = string(sr.Kind)
	}
	end := time.Now()
	start := end.Add(-time.Duration(sr.DurationMs) * time.Millisecond)
	return Step{
		Name:        name,
		Action:      string(sr.Kind),
		Channel:     channelFromOrchestrator(sr.Channel),
		Actual:      sr.ErrorMsg,
		Passed:      sr.Success,
		Skipped:     sr.Skipped,
		ErrorKind:   sr.ErrorKind,
		Evidence:    sr.Evidence,
		StateBefore: sr.Before,
		StateAfter:  sr.After,
		StartTime:   start,
		EndTime:     end,
	}
}

func stepFromAssertion(ar story.AssertionResult) Step {
	now := time.Now()
	return Step{
		Name:      ar.Name,
		Action:    string(ar.Kind),
		Channel:   ChannelOther,
		Expected:  "true",
		Actual:    ar.Message,
		Passed:    ar.Passed,
		Evidence:  evidenceFor(ar),
		StartTime: now,
		EndTime:   now,
	}
}

func evidenceFor(ar story.AssertionResult) []string {
	if ar.Details == "" {
		return nil
	}
	return []string{ar.Details}
}

func channelFromOrchestrator(c orchestrator.Channel) Channel {
	switch c {
	case orchestrator.ChannelServer:
		return ChannelServer
	case orchestrator.ChannelClient:
		return ChannelClient
	case orchestrator.ChannelOp:
		return ChannelOp
	case orchestrator.ChannelMineflayer:
		return ChannelMineflayer
	default:
		return ChannelOther
	}
}

// KindOf is a small re-export so renderers can surface a machine-readable
// error kind without importing koerr directly for the common case.
func KindOf(err error) string {
	if k, ok := koerr.KindOf(err); ok {
		return string(k)
	}
	return ""
}
