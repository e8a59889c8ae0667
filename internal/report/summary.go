package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/aidanlsb/mobrename/internal/ui"
)

// Summary is the result of a finished run.
type Summary struct {
	NewName   string          `json:"new_name"`
	DryRun    bool            `json:"dry_run"`
	Staged    bool            `json:"staged"`
	Entries   []Entry         `json:"entries"`
	Totals    map[Outcome]int `json:"totals"`
	FollowUps []string        `json:"follow_ups"`

	// Planned lists the journaled operations of a dry run.
	Planned  []string `json:"planned,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// NewSummary snapshots the sink.
func NewSummary(newName string, sink *Sink) *Summary {
	entries := sink.Entries()
	return &Summary{
		NewName: newName,
		Entries: entries,
		Totals:  Totals(entries),
	}
}

// Failed reports whether any unit ended in ERROR.
func (s *Summary) Failed() bool { return s.Totals[Error] > 0 }

// FollowUpOptions describe what a run changed.
type FollowUpOptions struct {
	PathsRenamed         bool
	IOSBundleChanged     bool
	AndroidBundleChanged bool
	FlavorKeys           bool
}

// FollowUps returns the manual steps left after a run, as markdown list
// items.
func FollowUps(o FollowUpOptions) []string {
	out := []string{
		"Delete stale Xcode derived data: `rm -rf ~/Library/Developer/Xcode/DerivedData`",
		"Reinstall pods: `cd ios && pod install`",
		"Clean Gradle caches: `cd android && ./gradlew clean`",
	}
	if o.PathsRenamed {
		out = append(out, "Remove any leftover files under `ios/` that still carry the old project name")
	}
	if o.IOSBundleChanged || o.AndroidBundleChanged {
		out = append(out, "Re-check services bound to the bundle identifier: signing and provisioning, push credentials, `GoogleService-Info.plist` and `google-services.json`")
	}
	if o.FlavorKeys {
		out = append(out, "Confirm the new SDK keys in the Branch, CodePush and Bugsnag dashboards")
	}
	return out
}

// Markdown renders the follow-ups section.
func (s *Summary) Markdown() string {
	var b strings.Builder
	b.WriteString("## Next steps\n\n")
	for _, f := range s.FollowUps {
		b.WriteString("- ")
		b.WriteString(f)
		b.WriteString("\n")
	}
	return b.String()
}

const (
	lineIndent   = 2
	outcomeWidth = len("NOT_RENAMED")
)

// WriteText renders the report grouped by step, a totals line, and the
// follow-ups.
func WriteText(w io.Writer, s *Summary, dc *ui.DisplayContext) error {
	var b strings.Builder
	step := ""
	for _, e := range s.Entries {
		if e.Step != step {
			if step != "" {
				b.WriteString("\n")
			}
			step = e.Step
			b.WriteString(ui.Header(StepTitle(step)))
			b.WriteString("\n")
		}
		b.WriteString(formatEntry(e, dc.TermWidth))
		b.WriteString("\n")
	}

	if s.DryRun && len(s.Planned) > 0 {
		b.WriteString("\n")
		b.WriteString(ui.Header("Planned changes"))
		b.WriteString("\n")
		for _, p := range s.Planned {
			fmt.Fprintf(&b, "%s%s\n", strings.Repeat(" ", lineIndent), ui.Hint(p))
		}
	}

	for _, warn := range s.Warnings {
		b.WriteString("\n")
		b.WriteString(ui.Warning(warn))
	}
	if len(s.Warnings) > 0 {
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(totalsLine(s))
	b.WriteString("\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}
	if len(s.FollowUps) == 0 || s.DryRun {
		return nil
	}
	md, err := ui.RenderMarkdown(s.Markdown(), dc.AvailableWidth(ui.MarkdownRenderMargin))
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, md)
	return err
}

func formatEntry(e Entry, width int) string {
	used := lineIndent + 2 + outcomeWidth + 1
	if e.Detail != "" {
		used += len(e.Detail) + 1
	}
	pathWidth := width - used
	if pathWidth < 20 {
		pathWidth = 20
	}

	line := fmt.Sprintf("%s%s %-*s %s",
		strings.Repeat(" ", lineIndent),
		symbol(e.Outcome),
		outcomeWidth, string(e.Outcome),
		pathStyle(e.Outcome, ui.TruncatePath(e.Path, pathWidth)),
	)
	if e.Detail != "" {
		line += " " + ui.Hint(e.Detail)
	}
	return line
}

func symbol(o Outcome) string {
	switch {
	case o == Error:
		return ui.SymbolError
	case o == NotFound:
		return ui.SymbolWarning
	case o.Changed():
		return ui.SymbolSuccess
	}
	return ui.SymbolSkip
}

func pathStyle(o Outcome, p string) string {
	if o.Changed() {
		return ui.FilePath(p)
	}
	return ui.Hint(p)
}

func totalsLine(s *Summary) string {
	var parts []string
	for _, o := range Outcomes {
		if n := s.Totals[o]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, strings.ToLower(strings.ReplaceAll(string(o), "_", " "))))
		}
	}
	counts := strings.Join(parts, ", ")

	switch {
	case s.Failed():
		return ui.Errorf("Rename to %s finished with errors: %s", s.NewName, counts)
	case s.DryRun:
		return ui.Info(fmt.Sprintf("Dry run for %s, nothing was written: %s", s.NewName, counts))
	}
	return ui.Check(fmt.Sprintf("Renamed to %s: %s", s.NewName, counts))
}
