package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/aidanlsb/mobrename/internal/catalog"
	"github.com/aidanlsb/mobrename/internal/flavor"
	"github.com/aidanlsb/mobrename/internal/identifier"
	"github.com/aidanlsb/mobrename/internal/paths"
	"github.com/aidanlsb/mobrename/internal/project"
	"github.com/aidanlsb/mobrename/internal/repo"
)

// Plan is a checked request with every step resolved against the current
// tree. It is only valid until the tree changes.
type Plan struct {
	Project   *project.Project
	Identity  project.Identity
	Names     catalog.Names
	BundleIDs catalog.BundleIDs
	Request   Request
	// Warnings are non-fatal findings, such as flavor problems under the
	// warn policy.
	Warnings []string

	repo  RepoStatus
	steps []step
}

// Steps returns the steps the plan will run, ending with StepReporting.
func (p *Plan) Steps() []Step {
	out := make([]Step, 0, len(p.steps)+1)
	for _, s := range p.steps {
		out = append(out, s.name)
	}
	return append(out, StepReporting)
}

// Prepare runs every precondition in order and builds the plan. Nothing
// on disk changes; a failed precondition is returned as *PreconditionError.
func (e *Engine) Prepare(ctx context.Context, req Request) (*Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rs, err := e.repoStatus()
	if err != nil {
		return nil, err
	}
	if !req.SkipStatusCheck {
		if err := checkClean(rs); err != nil {
			return nil, err
		}
	}

	proj, err := project.Open(e.root)
	if err != nil {
		var re *paths.ResolveError
		if errors.As(err, &re) && !re.Missing() {
			return nil, precondition(KindAmbiguousPath, err,
				"keep exactly one .xcodeproj folder under ios/", re.Matches...)
		}
		return nil, precondition(KindInvalidStructure, err,
			"run from the project root or pass --project <dir>")
	}
	ident, err := proj.ReadIdentity()
	if err != nil {
		return nil, precondition(KindInvalidStructure, err,
			"check that the iOS and Android projects are complete")
	}
	e.log.Debug("current identity",
		zap.String("iosDisplayName", ident.IOSDisplayName),
		zap.String("iosProject", ident.IOSProjectPathName),
		zap.String("iosBundleID", ident.IOSBundleID),
		zap.String("androidAppName", ident.AndroidAppName),
		zap.String("androidBundleID", ident.AndroidBundleID),
		zap.String("moduleName", ident.ModuleName),
	)

	if err := identifier.ValidateName(req.NewName, req.PathContentOverride); err != nil {
		return nil, precondition(KindInvalidName, err, nameRemedy(err))
	}

	plan := &Plan{
		Project:  proj,
		Identity: ident,
		Request:  req,
		repo:     rs,
	}
	plan.Names = names(ident, req)

	ids, warnings, err := bundleIDs(ident, req)
	if err != nil {
		return nil, err
	}
	plan.BundleIDs = ids
	plan.Warnings = append(plan.Warnings, warnings...)

	if err := e.checkFlavor(plan); err != nil {
		return nil, err
	}

	if err := e.buildSteps(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (e *Engine) repoStatus() (RepoStatus, error) {
	if e.deps.Repo != nil {
		return e.deps.Repo, nil
	}
	r, err := repo.Open(e.root)
	if err != nil {
		if errors.Is(err, repo.ErrNotRepository) {
			return nil, precondition(KindNotRepository, err,
				"put the project under git and commit it first, so the rename can be reviewed and reverted")
		}
		return nil, err
	}
	return r, nil
}

func checkClean(rs RepoStatus) error {
	clean, err := rs.IsClean()
	if err != nil {
		return fmt.Errorf("check working tree: %w", err)
	}
	if clean {
		return nil
	}
	dirty, err := rs.Dirty()
	if err != nil {
		return fmt.Errorf("check working tree: %w", err)
	}
	return precondition(KindDirtyWorktree,
		errors.New("the working tree has uncommitted changes"),
		"commit or stash your changes, or pass --skip-git-status-check",
		dirty...)
}

func nameRemedy(err error) string {
	switch {
	case errors.Is(err, identifier.ErrNameTooShort):
		return "pass --path-content-str with at least 3 letters or digits"
	case errors.Is(err, identifier.ErrInvalidPathContent):
		return "use only letters and digits in --path-content-str"
	}
	return fmt.Sprintf("choose a name of 1 to %d characters", identifier.MaxNameLength)
}

func names(ident project.Identity, req Request) catalog.Names {
	current := ident.IOSDisplayName
	if current == "" {
		current = ident.AndroidAppName
	}
	token := identifier.PathContent(req.NewName, req.PathContentOverride)
	return catalog.Names{
		CurrentName:        current,
		NewName:            req.NewName,
		CurrentPathContent: ident.IOSProjectPathName,
		NewPathContent:     token,
		CurrentModuleName:  ident.ModuleName,
		NewModuleName:      token,
	}
}

// bundleIDs picks the new identifier per platform: the platform flag,
// then --bundle-id, then the flavor.
func bundleIDs(ident project.Identity, req Request) (catalog.BundleIDs, []string, error) {
	pick := func(p identifier.Platform, explicit string) string {
		if explicit != "" {
			return explicit
		}
		if req.BundleID != "" {
			return req.BundleID
		}
		return req.Flavor.BundleIDFor(p)
	}
	ids := catalog.BundleIDs{
		CurrentAndroid: ident.AndroidBundleID,
		NewAndroid:     pick(identifier.Android, req.AndroidBundleID),
		CurrentIOS:     ident.IOSBundleID,
		NewIOS:         pick(identifier.IOS, req.IOSBundleID),
	}

	var failed *identifier.BundleIDError
	check := func(p identifier.Platform, id string) {
		if id == "" || identifier.ValidateBundleID(id, p) == nil {
			return
		}
		if failed == nil {
			failed = &identifier.BundleIDError{ID: id}
		}
		failed.Platforms = append(failed.Platforms, p)
	}
	check(identifier.IOS, ids.NewIOS)
	check(identifier.Android, ids.NewAndroid)
	if failed != nil {
		return ids, nil, precondition(KindInvalidBundleID, failed, bundleRemedy(failed))
	}

	var warnings []string
	if ids.NewIOS != "" && ids.CurrentIOS == "" {
		warnings = append(warnings, "no iOS bundle identifier found in project.pbxproj; PRODUCT_BUNDLE_IDENTIFIER is left unchanged")
	}
	if ids.NewAndroid != "" && ids.CurrentAndroid == "" {
		warnings = append(warnings, "no Android application ID found; Android packages are left unchanged")
	}
	return ids, warnings, nil
}

func bundleRemedy(err *identifier.BundleIDError) string {
	var flags []string
	if err.Has(identifier.IOS) {
		flags = append(flags, "--ios-bundle-id (letters, digits, '.' and '-')")
	}
	if err.Has(identifier.Android) {
		flags = append(flags, "--android-bundle-id (letters, digits, '.' and '_')")
	}
	return "pass a valid identifier with at least two segments via " + strings.Join(flags, " and ")
}

func (e *Engine) checkFlavor(plan *Plan) error {
	req := plan.Request
	if req.Flavor == nil {
		if req.keyOptions().Any() {
			return precondition(KindInvalidFlavor,
				errors.New("--branch, --codepush and --bugsnag need a flavor"),
				"pass --flavor-file and --flavor")
		}
		return nil
	}
	if e.deps.FlavorPolicy == flavor.PolicyOff {
		return nil
	}

	keys := req.keyOptions()
	problems := flavor.Validate(req.Flavor, flavor.Options{
		Branch:       keys.Branch,
		CodePush:     keys.CodePush,
		Bugsnag:      keys.Bugsnag,
		MinKeyLength: e.deps.MinKeyLength,
	})
	if len(problems) == 0 {
		return nil
	}
	details := make([]string, len(problems))
	for i, p := range problems {
		details[i] = p.String()
	}
	if e.deps.FlavorPolicy == flavor.PolicyStrict {
		return precondition(KindInvalidFlavor,
			fmt.Errorf("flavor %q has %d problems", req.Flavor.Name, len(problems)),
			"fix the flavor file or set flavor_validation = \"warn\"",
			details...)
	}
	for _, d := range details {
		plan.Warnings = append(plan.Warnings, "flavor "+d)
	}
	return nil
}

// buildSteps resolves every table against the tree as it is now. Android
// bundle-ID sources are globbed here, before the folder move, and mapped
// to where the move puts them.
func (e *Engine) buildSteps(plan *Plan) error {
	n, ids, req := plan.Names, plan.BundleIDs, plan.Request
	root := plan.Project.Root
	add := func(name Step, tasks []task) {
		plan.steps = append(plan.steps, step{name: name, tasks: tasks})
	}

	add(StepRenamingIosPaths, pathTasks(catalog.IOSPaths(n)))
	add(StepUpdatingIosContent, contentTasks(catalog.IOSContent(n)))
	if ids.IOSChanged() {
		add(StepUpdatingIosBundleID, contentTasks(catalog.IOSBundleIDContent(ids, n)))
	}

	display := xmlTasks(catalog.IOSDisplayName(n))
	if e.usesDisplayNameSetting(plan.Project) {
		display = append(display, contentTasks([]catalog.ContentEntry{catalog.IOSDisplayNameSetting(n)})...)
	}
	add(StepUpdatingIosDisplayName, display)

	if ids.AndroidChanged() {
		moves, err := catalog.AndroidBundlePaths(root, ids)
		if err != nil {
			return fmt.Errorf("find android package folders: %w", err)
		}
		add(StepRenamingAndroidBundlePaths, pathTasks(moves))
	}
	add(StepUpdatingAndroidContent, contentTasks(catalog.AndroidContent(n, ids)))
	if ids.AndroidChanged() {
		content, err := catalog.AndroidBundleIDContent(root, ids)
		if err != nil {
			return fmt.Errorf("find android sources: %w", err)
		}
		add(StepUpdatingAndroidBundleIDContent, contentTasks(content))
	}
	add(StepUpdatingAndroidDisplayName, xmlTasks(catalog.AndroidDisplayName(n)))
	add(StepUpdatingCrossPlatformContent, contentTasks(catalog.CrossPlatformContent(n, plan.Identity)))

	if keys := req.keyOptions(); keys.Any() && req.Flavor != nil {
		entries := catalog.FlavorKeys(req.Flavor, keys, catalog.Layout{PathContent: n.NewPathContent})
		add(StepApplyingFlavorKeys, xmlTasks(entries...))
	}
	if req.Flavor != nil && len(req.Flavor.Files) > 0 {
		add(StepCopyingFlavorFiles, copyTasks(req.Flavor))
	}
	add(StepCleaningBuildArtifacts, removeTasks(catalog.BuildArtifacts()))
	if req.Stage && !req.DryRun {
		add(StepStagingChanges, []task{stageTask()})
	}

	for _, s := range plan.steps {
		e.log.Debug("planned step", zap.String("step", string(s.name)), zap.Int("tasks", len(s.tasks)))
	}
	return nil
}

// usesDisplayNameSetting reports whether the project sets the display
// name through an Xcode build setting.
func (e *Engine) usesDisplayNameSetting(p *project.Project) bool {
	data, err := e.deps.Files.ReadFile(p.Abs(p.PBXProj()))
	return err == nil && strings.Contains(string(data), "INFOPLIST_KEY_CFBundleDisplayName")
}
