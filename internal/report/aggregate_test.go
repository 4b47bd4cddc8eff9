package report

import (
	"testing"

	"mctest/internal/orchestrator"
	"mctest/internal/story"
)

func sampleStoryRecord(pass bool) orchestrator.StoryRecord {
	s := &story.Story{Name: "zombie-damage"}
	result := story.TestResult{StoryName: s.Name, Success: pass}
	rec := orchestrator.StoryRecord{
		Story: s,
		Steps: []orchestrator.StepRecord{
			{StepID: "s1", Name: "spawn zombie", Kind: story.ActionSpawnEntity, Channel: orchestrator.ChannelServer, Success: true, Evidence: []string{"spawned"}},
		},
		Result: result,
	}
	if !pass {
		rec.Steps = append(rec.Steps, orchestrator.StepRecord{StepID: "s2", Name: "damage zombie", Kind: story.ActionDamageEntity, Channel: orchestrator.ChannelServer, Success: false, ErrorKind: "BackendTransport", Evidence: []string{"timed out"}})
	}
	return rec
}

func TestAggregator_AddStory_SuitePassesWhenAllStoriesPass(t *testing.T) {
	ag := NewAggregator("suite-a")
	ag.AddStory(sampleStoryRecord(true))
	suite := ag.Finish()
	if !suite.Passed {
		t.Fatal("expected suite to pass")
	}
	if len(suite.Stories) != 1 {
		t.Fatalf("len(Stories) = %d", len(suite.Stories))
	}
	if len(suite.ServerLog) != 1 || suite.ServerLog[0] != "spawned" {
		t.Fatalf("ServerLog = %v", suite.ServerLog)
	}
}

func TestAggregator_AddStory_SuiteFailsWhenAnyStoryFails(t *testing.T) {
	ag := NewAggregator("suite-b")
	ag.AddStory(sampleStoryRecord(true))
	ag.AddStory(sampleStoryRecord(false))
	suite := ag.Finish()
	if suite.Passed {
		t.Fatal("expected suite to fail")
	}
}

func TestAggregator_AssertionsBecomeSteps(t *testing.T) {
	ag := NewAggregator("suite-c")
	rec := sampleStoryRecord(true)
	rec.Assertions = []story.AssertionResult{
		{Name: "health check", Kind: story.AssertEntityHealth, Passed: true, Message: "entity health 10 LT 20"},
	}
	ag.AddStory(rec)
	suite := ag.Finish()
	steps := suite.Stories[0].Steps
	if len(steps) != 2 {
		t.Fatalf("len(Steps) = %d, want 2", len(steps))
	}
	if steps[1].Channel != ChannelOther {
		t.Fatalf("assertion step channel = %v", steps[1].Channel)
	}
}
