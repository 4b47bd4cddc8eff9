package report

import (
	"fmt"
	"strings"
)

// RenderText formats a Suite as one line per Story and one block per Step
// with bulleted evidence, per spec §4.5.
func RenderText(s Suite) string {
	var b strings.Builder
	status := "PASS"
	if !s.Passed {
		status = "FAIL"
	}
	fmt.Fprintf(&b, "Suite %s [%s] run=%s\n", s.Name, status, s.RunID)
	fmt.Fprintf(&b, "  started=%s ended=%s\n\n", s.StartTime.Format(timeFormat), s.EndTime.Format(timeFormat))

	for _, story := range s.Stories {
		storyStatus := "PASS"
		if !story.Passed {
			storyStatus = "FAIL"
		}
		fmt.Fprintf(&b, "Story: %s [%s]\n", story.Name, storyStatus)
		for _, step := range story.Steps {
			stepStatus := "pass"
			switch {
			case step.Skipped:
				stepStatus = "skip"
			case !step.Passed:
				stepStatus = "FAIL"
			}
			fmt.Fprintf(&b, "  - [%s] %s (%s, channel=%s)\n", stepStatus, step.Name, step.Action, step.Channel)
			if step.Actual != "" {
				fmt.Fprintf(&b, "      actual: %s\n", step.Actual)
			}
			for _, ev := range step.Evidence {
				fmt.Fprintf(&b, "      * %s\n", stripColorCodes(ev))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

const timeFormat = "2006-01-02T15:04:05Z07:00"
