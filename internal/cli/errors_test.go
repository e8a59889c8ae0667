package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aidanlsb/mobrename/internal/engine"
)

func TestClassify(t *testing.T) {
	dirty := &engine.PreconditionError{
		Kind:    engine.KindDirtyWorktree,
		Err:     errors.New("the working tree has uncommitted changes"),
		Remedy:  "commit",
		Details: []string{"app.json"},
	}

	tests := []struct {
		name     string
		err      error
		wantCode string
		wantExit int
	}{
		{"dirty tree", dirty, string(engine.KindDirtyWorktree), ExitDirtyWorktree},
		{"wrapped precondition", fmt.Errorf("prepare: %w", dirty), string(engine.KindDirtyWorktree), ExitDirtyWorktree},
		{"ambiguous path", &engine.PreconditionError{Kind: engine.KindAmbiguousPath, Err: errors.New("two matches")}, string(engine.KindAmbiguousPath), ExitInvalidStructure},
		{"not a repository", &engine.PreconditionError{Kind: engine.KindNotRepository, Err: errors.New("no git")}, string(engine.KindNotRepository), ExitNotRepository},
		{"invalid name", &engine.PreconditionError{Kind: engine.KindInvalidName, Err: errors.New("empty")}, string(engine.KindInvalidName), ExitInvalidInput},
		{"input error", inputError(ErrConfigInvalid, errors.New("bad toml"), ""), ErrConfigInvalid, ExitInvalidInput},
		{"cancelled", fmt.Errorf("run: %w", context.Canceled), ErrCancelled, ExitUnexpected},
		{"anything else", errors.New("disk on fire"), ErrInternal, ExitUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ce := classify(tt.err)
			if ce.code != tt.wantCode || ce.exit != tt.wantExit {
				t.Fatalf("classify() = %s/%d, want %s/%d", ce.code, ce.exit, tt.wantCode, tt.wantExit)
			}
		})
	}

	if ce := classify(dirty); ce.suggestion != "commit" || !cmp.Equal(ce.details, []string{"app.json"}) {
		t.Fatalf("precondition remedy and details were dropped: %+v", ce)
	}
}

func TestPrintErrorJSON(t *testing.T) {
	var out bytes.Buffer
	a := &app{out: &out, opts: options{jsonOutput: true}}
	a.printError(classify(&engine.PreconditionError{
		Kind:    engine.KindDirtyWorktree,
		Err:     errors.New("the working tree has uncommitted changes"),
		Remedy:  "commit or stash your changes",
		Details: []string{"app.json", "ios/Podfile"},
	}))

	var resp Response
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out.String())
	}
	want := &ErrorInfo{
		Code:       "DIRTY_WORKTREE",
		Message:    "the working tree has uncommitted changes",
		Details:    []string{"app.json", "ios/Podfile"},
		Suggestion: "commit or stash your changes",
	}
	if resp.OK {
		t.Fatal("ok = true for an error")
	}
	if diff := cmp.Diff(want, resp.Error); diff != "" {
		t.Fatalf("error mismatch (-want +got):\n%s", diff)
	}
}

func TestPrintErrorText(t *testing.T) {
	var out bytes.Buffer
	a := &app{out: &out}
	a.printError(inputError(ErrInvalidInput, errors.New("--flavor needs --flavor-file"), "pass --flavor-file"))

	got := out.String()
	if !strings.Contains(got, "--flavor needs --flavor-file") || !strings.Contains(got, "pass --flavor-file") {
		t.Fatalf("unexpected output:\n%s", got)
	}
}

func TestNormalizeFlag(t *testing.T) {
	tests := map[string]string{
		"bundleID":           "bundle-id",
		"bundleId":           "bundle-id",
		"pathContentStr":     "path-content-str",
		"skipGitStatusCheck": "skip-git-status-check",
		"flavorFile":         "flavor-file",
		"dry-run":            "dry-run",
	}
	for in, want := range tests {
		if got := string(normalizeFlag(nil, in)); got != want {
			t.Errorf("normalizeFlag(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWantsJSON(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"NewApp", "--colour", "--json"}, true},
		{[]string{"--json=true", "NewApp"}, true},
		{[]string{"--json", "--json=false"}, false},
		{[]string{"NewApp", "--", "--json"}, false},
		{[]string{"-json"}, false},
		{[]string{"NewApp"}, false},
	}
	for _, tt := range tests {
		if got := wantsJSON(tt.args); got != tt.want {
			t.Errorf("wantsJSON(%q) = %v, want %v", tt.args, got, tt.want)
		}
	}
}
