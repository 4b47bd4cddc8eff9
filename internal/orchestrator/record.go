package orchestrator

import "mctest/internal/story"

// Channel classifies where an action's traffic went, used by the report
// aggregator to group evidence (spec.md §7: server/client/op/mineflayer/other).
type Channel string

const (
	ChannelServer     Channel = "server"
	ChannelClient     Channel = "client"
	ChannelOp         Channel = "op"
	ChannelMineflayer Channel = "mineflayer"
	ChannelOther      Channel = "other"
)

// classifyChannel assigns a Channel to an ActionKind. Pure console
// commands are "server", bridge-mediated simulated-player operations are
// "client", connect/disconnect and make_operator are "op" since they
// change session/permission state rather than game state, and
// diagnostic/book-keeping actions fall to "other".
func classifyChannel(kind story.ActionKind) Channel {
	switch kind {
	case story.ActionConnectPlayer, story.ActionDisconnectPlayer, story.ActionMakeOperator:
		return ChannelOp
	case story.ActionExecutePlayerCommand, story.ActionExecutePlayerRaw, story.ActionSendChatMessage,
		story.ActionMovePlayer, story.ActionEquipItem, story.ActionGetPlayerPosition,
		story.ActionGetPlayerHealth, story.ActionGetPlayerInventory, story.ActionGetPlayerEquipment,
		story.ActionGetEntitiesInView:
		return ChannelClient
	case story.ActionWait, story.ActionWaitForEntitySpawn, story.ActionWaitForChatMessage,
		story.ActionCheckServiceHealth, story.ActionStoreState, story.ActionPrintStoredState,
		story.ActionCompareStates, story.ActionPrintStateComparison,
		story.ActionExtractWithJSONPath, story.ActionFilterEntities:
		return ChannelOther
	default:
		return ChannelServer
	}
}

// StepRecord is one executed action's full evidence trail, consumed by
// the report aggregator (component G).
type StepRecord struct {
	StepID     string
	Name       string
	Kind       story.ActionKind
	Channel    Channel
	Success    bool
	Skipped    bool
	ErrorKind  string
	ErrorMsg   string
	Before     any
	After      any
	Output     any
	DurationMs int64
	Evidence   []string
	Loc        story.SourceLocation
}

// StoryRecord is the full evidence trail of one Story run: every setup,
// step, assertion and cleanup record plus the aggregate TestResult.
type StoryRecord struct {
	Story        *story.Story
	SetupSteps   []StepRecord
	Steps        []StepRecord
	Assertions   []story.AssertionResult
	CleanupSteps []StepRecord
	Result       story.TestResult
}
