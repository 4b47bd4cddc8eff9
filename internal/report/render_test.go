package report

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildSampleSuite() Suite {
	ag := NewAggregator("zombie-suite")
	ag.AddStory(sampleStoryRecord(true))
	ag.AddStory(sampleStoryRecord(false))
	return ag.Finish()
}

func TestRenderText_ContainsStoryAndStepLines(t *testing.T) {
	out := RenderText(buildSampleSuite())
	require.Contains(t, out, "Suite zombie-suite")
	require.Contains(t, out, "spawn zombie")
	require.Contains(t, out, "damage zombie")
}

func TestRenderText_StripsColorCodes(t *testing.T) {
	out := stripColorCodes("§aHello §cWorld")
	require.Equal(t, "Hello World", out)
}

func TestRenderJSON_RoundTrips(t *testing.T) {
	body, err := RenderJSON(buildSampleSuite())
	require.NoError(t, err)

	var decoded Suite
	require.NoError(t, json.Unmarshal(body, &decoded))
	require.Equal(t, "zombie-suite", decoded.Name)
	require.Len(t, decoded.Stories, 2)
}

func TestRenderJUnit_OneTestcasePerStep(t *testing.T) {
	body, err := RenderJUnit(buildSampleSuite())
	require.NoError(t, err)
	out := string(body)
	require.True(t, strings.HasPrefix(out, "<?xml"))
	require.Contains(t, out, "<testsuite")
	require.Contains(t, out, "<failure")
}

func TestRenderHTML_IncludesDiffAndColor(t *testing.T) {
	suite := buildSampleSuite()
	suite.Stories[0].Steps[0].StateBefore = map[string]any{"health": 20.0}
	suite.Stories[0].Steps[0].StateAfter = map[string]any{"health": 14.0}
	suite.Stories[0].Steps[0].Evidence = []string{"§aHealthy§r"}

	body, err := RenderHTML(suite)
	require.NoError(t, err)
	out := string(body)
	require.Contains(t, out, "<!DOCTYPE html>")
	require.Contains(t, out, "diff-changed")
	require.Contains(t, out, `style="color:#55FF55"`)
}

func TestDiffPath_BracketsNumericSegments(t *testing.T) {
	require.Equal(t, "entities[0].name", diffPath("/entities/0/name"))
}

func TestSanitizeFilename_ReplacesNonAlnum(t *testing.T) {
	require.Equal(t, "my_suite_1", SanitizeFilename("my suite#1"))
}
