// Package engine runs a rename. Prepare checks every precondition and
// builds the ordered steps before anything is touched; Run executes each
// step as a group of concurrent tasks and records every outcome in a
// report sink.
package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/aidanlsb/mobrename/internal/catalog"
	"github.com/aidanlsb/mobrename/internal/fileops"
	"github.com/aidanlsb/mobrename/internal/flavor"
	"github.com/aidanlsb/mobrename/internal/report"
)

// Step names one stage of a run. Steps always run in the order below;
// the conditional ones are skipped when there is nothing for them to do.
type Step string

const (
	StepRenamingIosPaths               Step = "RenamingIosPaths"
	StepUpdatingIosContent             Step = "UpdatingIosContent"
	StepUpdatingIosBundleID            Step = "UpdatingIosBundleID"
	StepUpdatingIosDisplayName         Step = "UpdatingIosDisplayName"
	StepRenamingAndroidBundlePaths     Step = "RenamingAndroidBundlePaths"
	StepUpdatingAndroidContent         Step = "UpdatingAndroidContent"
	StepUpdatingAndroidBundleIDContent Step = "UpdatingAndroidBundleIDContent"
	StepUpdatingAndroidDisplayName     Step = "UpdatingAndroidDisplayName"
	StepUpdatingCrossPlatformContent   Step = "UpdatingCrossPlatformContent"
	StepApplyingFlavorKeys             Step = "ApplyingFlavorKeys"
	StepCopyingFlavorFiles             Step = "CopyingFlavorFiles"
	StepCleaningBuildArtifacts         Step = "CleaningBuildArtifacts"
	StepStagingChanges                 Step = "StagingChanges"
	StepReporting                      Step = "Reporting"
)

// Request is a validated rename invocation.
type Request struct {
	NewName string
	// PathContentOverride replaces the cleaned name as the path token.
	PathContentOverride string

	// BundleID applies to both platforms; the per-platform values win.
	BundleID        string
	IOSBundleID     string
	AndroidBundleID string

	Flavor         *flavor.Spec
	UpdateBranch   bool
	UpdateCodePush bool
	UpdateBugsnag  bool

	SkipStatusCheck bool
	DryRun          bool
	Stage           bool
}

func (r Request) keyOptions() catalog.KeyOptions {
	return catalog.KeyOptions{
		Branch:   r.UpdateBranch,
		CodePush: r.UpdateCodePush,
		Bugsnag:  r.UpdateBugsnag,
	}
}

// RepoStatus is the version-control collaborator of a run.
type RepoStatus interface {
	IsClean() (bool, error)
	Dirty() ([]string, error)
	StageAll() error
}

// Deps are the collaborators and tuning knobs of an Engine.
type Deps struct {
	// Files performs mutations. Nil means fileops.OS.
	Files fileops.FileOps
	// Repo answers status questions. Nil means the git repository
	// containing the project root, opened during Prepare.
	Repo   RepoStatus
	Report *report.Sink
	Logger *zap.Logger

	// Stagger delays task i of a step by i × Stagger.
	Stagger time.Duration
	// Limit caps concurrent tasks per step; zero is unlimited.
	Limit int

	FlavorPolicy flavor.Policy
	MinKeyLength int
}

// Engine renames the project at one root.
type Engine struct {
	root string
	deps Deps
	log  *zap.Logger
}

// New returns an engine for the project at root, an absolute directory.
func New(root string, deps Deps) *Engine {
	if deps.Files == nil {
		deps.Files = fileops.OS{}
	}
	if deps.Report == nil {
		deps.Report = report.New()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.FlavorPolicy == "" {
		deps.FlavorPolicy = flavor.PolicyWarn
	}
	return &Engine{root: root, deps: deps, log: deps.Logger.Named("engine")}
}

// Report returns the sink outcomes are recorded in.
func (e *Engine) Report() *report.Sink { return e.deps.Report }
