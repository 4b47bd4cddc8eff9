package report

import (
	"bytes"
	"fmt"
	"html/template"

	"mctest/internal/orchestrator"
)

// htmlStep is the template-facing view of a Step, augmented with a
// precomputed diff summary when both before/after snapshots are present.
type htmlStep struct {
	Step
	HasDiff  bool
	Diff     orchestrator.StateDiff
	Evidence []template.HTML
}

type htmlStory struct {
	Story
	Steps []htmlStep
}

type htmlView struct {
	Suite
	Stories []htmlStory
}

// RenderHTML renders the suite as a single self-contained HTML page. Per
// spec §4.5: for each step with both stateBefore and stateAfter, renders a
// semantic JSON diff; classifies action into a channel; formats Minecraft
// colour-code markers into the evidence stream.
func RenderHTML(s Suite) ([]byte, error) {
	view := htmlView{Suite: s}
	for _, story := range s.Stories {
		hs := htmlStory{Story: story}
		for _, step := range story.Steps {
			hstep := htmlStep{Step: step}
			if step.StateBefore != nil && step.StateAfter != nil {
				hstep.Diff = orchestrator.DiffStates(step.StateBefore, step.StateAfter)
				hstep.HasDiff = true
			}
			for _, ev := range step.Evidence {
				hstep.Evidence = append(hstep.Evidence, template.HTML(colorizeHTML(ev)))
			}
			hs.Steps = append(hs.Steps, hstep)
		}
		view.Stories = append(view.Stories, hs)
	}

	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"statusClass": statusClass,
		"diffPath":    diffPath,
	}).Parse(htmlTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing html report template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("rendering html report: %w", err)
	}
	return buf.Bytes(), nil
}

func statusClass(passed, skipped bool) string {
	if skipped {
		return "skip"
	}
	if passed {
		return "pass"
	}
	return "fail"
}

// diffPath renders a JSON-pointer-style path (e.g. "/entities/0/name") in
// the bracketed form spec §4.5 calls for ("entities[0].name").
func diffPath(path string) string {
	out := ""
	seg := ""
	flush := func() {
		if seg == "" {
			return
		}
		if isDigits(seg) {
			out += "[" + seg + "]"
		} else if out == "" {
			out = seg
		} else {
			out += "." + seg
		}
		seg = ""
	}
	for _, r := range path {
		if r == '/' {
			flush()
			continue
		}
		seg += string(r)
	}
	flush()
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Name}} report</title>
<style>
body { font-family: sans-serif; background: #1e1e1e; color: #ddd; margin: 2em; }
h1, h2 { color: #fff; }
.suite-pass { color: #55FF55; }
.suite-fail { color: #FF5555; }
.story { border: 1px solid #444; margin-bottom: 1em; padding: 0.5em 1em; border-radius: 4px; }
.step { margin: 0.5em 0; padding: 0.4em; border-left: 3px solid #666; }
.step.pass { border-color: #55FF55; }
.step.fail { border-color: #FF5555; }
.step.skip { border-color: #AAAAAA; color: #999; }
.channel { font-size: 0.8em; color: #999; }
.evidence { font-family: monospace; font-size: 0.9em; white-space: pre-wrap; }
table.diff { border-collapse: collapse; margin-top: 0.3em; }
table.diff td { border: 1px solid #444; padding: 2px 6px; font-family: monospace; font-size: 0.85em; }
.diff-added { color: #55FF55; }
.diff-removed { color: #FF5555; }
.diff-changed { color: #FFAA00; }
</style>
</head>
<body>
<h1>{{.Name}} <span class="{{if .Passed}}suite-pass{{else}}suite-fail{{end}}">{{if .Passed}}PASS{{else}}FAIL{{end}}</span></h1>
<p>run {{.RunID}} &middot; {{.StartTime}} &ndash; {{.EndTime}}</p>

{{range .Stories}}
<div class="story">
<h2>{{.Name}} <span class="{{if .Passed}}suite-pass{{else}}suite-fail{{end}}">{{if .Passed}}PASS{{else}}FAIL{{end}}</span></h2>
{{range .Steps}}
<div class="step {{statusClass .Passed .Skipped}}">
  <strong>{{.Name}}</strong> <span class="channel">({{.Action}}, channel={{.Channel}})</span>
  {{if .Actual}}<div class="evidence">{{.Actual}}</div>{{end}}
  {{range .Evidence}}<div class="evidence">{{.}}</div>{{end}}
  {{if .HasDiff}}
  <table class="diff">
  {{range .Diff.Added}}<tr class="diff-added"><td>+ {{diffPath .Path}}</td><td>{{.NewValue}}</td></tr>{{end}}
  {{range .Diff.Removed}}<tr class="diff-removed"><td>- {{diffPath .Path}}</td><td>{{.OldValue}}</td></tr>{{end}}
  {{range .Diff.Changed}}<tr class="diff-changed"><td>~ {{diffPath .Path}}</td><td>{{.OldValue}} &rarr; {{.NewValue}}</td></tr>{{end}}
  </table>
  {{end}}
</div>
{{end}}
</div>
{{end}}
</body>
</html>
`
