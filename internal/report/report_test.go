package report

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aidanlsb/mobrename/internal/ui"
)

func TestSinkConcurrentReports(t *testing.T) {
	sink := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sink.Report("UpdatingIosContent", fmt.Sprintf("file%02d", i), Updated, "1 match")
		}(i)
	}
	wg.Wait()

	entries := sink.Entries()
	if len(entries) != 50 {
		t.Fatalf("len(entries) = %d, want 50", len(entries))
	}
	for i, e := range entries {
		if want := fmt.Sprintf("file%02d", i); e.Path != want {
			t.Fatalf("entries[%d].Path = %s, want %s", i, e.Path, want)
		}
	}
}

func TestEntriesGroupedByStepOrder(t *testing.T) {
	sink := New()
	sink.Report("RenamingIosPaths", "ios/b", Renamed, "")
	sink.Report("UpdatingIosContent", "ios/Podfile", Updated, "2 matches")
	sink.Report("RenamingIosPaths", "ios/a", NotRenamed, "")

	var got []string
	for _, e := range sink.Entries() {
		got = append(got, e.Step+":"+e.Path)
	}
	want := []string{"RenamingIosPaths:ios/a", "RenamingIosPaths:ios/b", "UpdatingIosContent:ios/Podfile"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	sink := New()
	sink.Report("S", "p", Updated, "")
	entries := sink.Entries()
	entries[0].Outcome = Error
	if sink.Entries()[0].Outcome != Updated {
		t.Fatal("Entries() exposed internal state")
	}
}

func TestOnReport(t *testing.T) {
	sink := New()
	var seen []Outcome
	sink.OnReport(func(e Entry) { seen = append(seen, e.Outcome) })
	sink.Report("S", "a", NotFound, "")
	sink.Report("S", "b", Error, "boom")
	if diff := cmp.Diff([]Outcome{NotFound, Error}, seen); diff != "" {
		t.Fatalf("hook mismatch (-want +got):\n%s", diff)
	}
}

func TestStepTitle(t *testing.T) {
	tests := map[string]string{
		"RenamingIosPaths":               "Renaming iOS paths",
		"UpdatingAndroidBundleIDContent": "Updating android bundle ID content",
		"Reporting":                      "Reporting",
		"":                               "",
	}
	for in, want := range tests {
		if got := StepTitle(in); got != want {
			t.Fatalf("StepTitle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteText(t *testing.T) {
	sink := New()
	sink.Report("RenamingIosPaths", "ios/MyApp", Renamed, "ios/NewApp")
	sink.Report("UpdatingIosContent", "ios/Podfile", Updated, "2 matches")
	sink.Report("UpdatingIosContent", "ios/MyApp-tvOS", NotFound, "")

	s := NewSummary("NewApp", sink)
	s.FollowUps = FollowUps(FollowUpOptions{PathsRenamed: true})

	var buf bytes.Buffer
	if err := WriteText(&buf, s, ui.NewDisplayContextWithWidth(100)); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Renaming iOS paths",
		"RENAMED",
		"ios/MyApp",
		"2 matches",
		"NOT_FOUND",
		"Renamed to NewApp: 1 renamed, 1 updated, 1 not found",
		"pod install",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteTextDryRunAndErrors(t *testing.T) {
	sink := New()
	sink.Report("UpdatingIosContent", "ios/Podfile", Error, "permission denied")
	s := NewSummary("NewApp", sink)
	s.DryRun = true
	s.Planned = []string{"write ios/Podfile"}

	var buf bytes.Buffer
	if err := WriteText(&buf, s, ui.NewDisplayContextWithWidth(80)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Planned changes") || !strings.Contains(out, "write ios/Podfile") {
		t.Fatalf("dry run output missing plan:\n%s", out)
	}
	if !strings.Contains(out, "finished with errors") {
		t.Fatalf("expected error totals line:\n%s", out)
	}
	if strings.Contains(out, "Next steps") {
		t.Fatalf("dry run should not print follow-ups:\n%s", out)
	}
}

func TestFollowUps(t *testing.T) {
	base := FollowUps(FollowUpOptions{})
	all := FollowUps(FollowUpOptions{PathsRenamed: true, AndroidBundleChanged: true, FlavorKeys: true})
	if len(base) != 3 || len(all) != 6 {
		t.Fatalf("len(base) = %d, len(all) = %d", len(base), len(all))
	}
}
