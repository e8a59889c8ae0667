package cli

import (
	"testing"

	"github.com/aidanlsb/mobrename/internal/engine"
	"github.com/aidanlsb/mobrename/internal/testutil"
)

func TestBinaryRenameAndRerun(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	p := testutil.NewTestProject(t).WithReactNative("MyApp", "com.old.app").WithGit().Build()

	first := p.RunCLI("NewApp", "-b", "com.new.app").MustSucceed(t)
	if first.DataString("new_name") != "NewApp" || !first.DataBool("staged") {
		t.Fatalf("unexpected data: %v", first.Data)
	}
	if len(first.DataList("entries")) == 0 {
		t.Fatal("no entries reported")
	}
	p.AssertDirExists("ios/NewApp")
	p.AssertFileExists("android/app/src/main/java/com/new/app/MainActivity.kt")

	// The staged rename leaves the tree dirty until it is committed.
	p.RunCLI("NewApp", "-b", "com.new.app").
		MustFailWithMessage(t, "--skip-git-status-check").
		MustFail(t, string(engine.KindDirtyWorktree), ExitDirtyWorktree)

	again := p.RunCLI("NewApp", "-b", "com.new.app", "--skip-git-status-check", "--no-stage").MustSucceed(t)
	for _, e := range again.DataList("entries") {
		entry, _ := e.(map[string]interface{})
		switch entry["outcome"] {
		case "NOT_RENAMED", "NOT_UPDATED", "NOT_FOUND":
		default:
			t.Errorf("second run changed %v: %v", entry["path"], entry["outcome"])
		}
	}
}

func TestBinaryReportsNotRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	p := testutil.NewTestProject(t).WithReactNative("MyApp", "com.old.app").Build()
	p.RunCLI("NewApp").MustFail(t, string(engine.KindNotRepository), ExitNotRepository)
	p.AssertDirExists("ios/MyApp")
}
