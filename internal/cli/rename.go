package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/aidanlsb/mobrename/internal/config"
	"github.com/aidanlsb/mobrename/internal/engine"
	"github.com/aidanlsb/mobrename/internal/flavor"
	"github.com/aidanlsb/mobrename/internal/logging"
	"github.com/aidanlsb/mobrename/internal/project"
	"github.com/aidanlsb/mobrename/internal/report"
	"github.com/aidanlsb/mobrename/internal/ui"
)

// rename resolves the project and configuration, runs the engine, and
// writes the report.
func (a *app) rename(ctx context.Context, newName string) error {
	start := time.Now()

	root, err := project.ResolveRoot(a.opts.projectDir)
	if err != nil {
		return err
	}
	cfg, err := config.Load(a.opts.configPath, root)
	if err != nil {
		return inputError(ErrConfigInvalid, err, "fix the config file or pass --config with another one")
	}
	ui.ConfigureTheme(cfg.UI.Accent)

	logger := logging.New(cfg.Log, zapcore.Lock(os.Stderr), a.opts.verbose)
	defer func() { _ = logger.Sync() }()
	logger.Debug("starting rename",
		zap.String("root", root),
		zap.String("new_name", newName),
		zap.Bool("dry_run", a.opts.dryRun),
	)

	spec, err := a.loadFlavor()
	if err != nil {
		return err
	}

	eng := engine.New(root, engine.Deps{
		Logger:       logger,
		Stagger:      cfg.Stagger(),
		Limit:        cfg.Concurrency,
		FlavorPolicy: cfg.FlavorPolicy(),
		MinKeyLength: cfg.MinKeyLength,
	})
	req := a.request(newName, spec, cfg)

	var spinner *ui.Spinner
	if !a.opts.jsonOutput {
		spinner = ui.NewSpinner(os.Stderr, "Inspecting project")
		spinner.Start()
	}
	plan, err := eng.Prepare(ctx, req)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	summary, runErr := eng.Run(ctx, plan)
	logger.Info("rename finished",
		zap.Int("entries", len(summary.Entries)),
		zap.Int("errors", summary.Totals[report.Error]),
		zap.Duration("elapsed", time.Since(start)),
	)

	failure := runFailure(summary, runErr)
	if err := a.writeSummary(summary, failure, time.Since(start)); err != nil {
		return err
	}
	if failure != nil {
		failure.reported = true
		return failure
	}
	return nil
}

func (a *app) request(newName string, spec *flavor.Spec, cfg *config.Config) engine.Request {
	return engine.Request{
		NewName:             newName,
		PathContentOverride: a.opts.pathContent,
		BundleID:            a.opts.bundleID,
		IOSBundleID:         a.opts.iosBundleID,
		AndroidBundleID:     a.opts.androidBundleID,
		Flavor:              spec,
		UpdateBranch:        a.opts.branch,
		UpdateCodePush:      a.opts.codePush,
		UpdateBugsnag:       a.opts.bugsnag,
		SkipStatusCheck:     a.opts.skipStatusCheck,
		DryRun:              a.opts.dryRun,
		Stage:               cfg.StageChanges && !a.opts.noStage,
	}
}

// loadFlavor reads the selected flavor; nil when no flavor was asked for.
func (a *app) loadFlavor() (*flavor.Spec, error) {
	file, name := a.opts.flavorFile, a.opts.flavorName
	switch {
	case file == "" && name == "":
		return nil, nil
	case file == "":
		return nil, inputError(ErrInvalidInput, errors.New("--flavor needs --flavor-file"),
			"pass the JSON or YAML file that defines the flavor with --flavor-file")
	case name == "":
		return nil, inputError(ErrInvalidInput, errors.New("--flavor-file needs --flavor"),
			"pick one of the flavors in the file with -f/--flavor")
	}

	path, err := homedir.Expand(file)
	if err != nil {
		return nil, inputError(ErrInvalidInput, err, "pass the flavor file as a plain path")
	}
	spec, err := flavor.Load(path, name)
	if err != nil {
		if errors.Is(err, flavor.ErrFlavorNotFound) {
			return nil, inputError(ErrFlavorNotFound, err, "check the flavor name against the file")
		}
		return nil, inputError(string(engine.KindInvalidFlavor), err, "check that the flavor file is valid JSON or YAML")
	}
	return spec, nil
}

// runFailure describes a run that was cancelled or had failing units.
func runFailure(s *report.Summary, runErr error) *cliError {
	if runErr != nil {
		return classify(runErr)
	}
	if s.Failed() {
		return &cliError{
			code:       ErrRunFailed,
			exit:       ExitUnexpected,
			err:        fmt.Errorf("%s failed", ui.Count(s.Totals[report.Error], "unit", "units")),
			suggestion: "fix the errors above and run again; completed changes are already applied",
		}
	}
	return nil
}

func (a *app) writeSummary(s *report.Summary, failure *cliError, elapsed time.Duration) error {
	if a.opts.jsonOutput {
		resp := Response{
			OK:       failure == nil,
			Data:     s,
			Warnings: warningsFrom(s.Warnings),
			Meta:     &Meta{Count: len(s.Entries), DurationMs: elapsed.Milliseconds()},
		}
		if failure != nil {
			resp.Error = &ErrorInfo{
				Code:       failure.code,
				Message:    failure.err.Error(),
				Suggestion: failure.suggestion,
			}
		}
		return outputJSON(a.out, resp)
	}

	if err := report.WriteText(a.out, s, displayContext(a.out)); err != nil {
		return err
	}
	if failure != nil && failure.code != ErrRunFailed {
		a.printError(failure)
	}
	return nil
}

func displayContext(w io.Writer) *ui.DisplayContext {
	if f, ok := w.(*os.File); ok {
		return ui.NewDisplayContext(f)
	}
	return ui.NewDisplayContextWithWidth(ui.DefaultTermWidth)
}
