package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aidanlsb/mobrename/internal/fileops"
	"github.com/aidanlsb/mobrename/internal/paths"
	"github.com/aidanlsb/mobrename/internal/report"
)

type step struct {
	name  Step
	tasks []task
}

// reporter records one outcome for the step a task belongs to.
type reporter func(path string, outcome report.Outcome, detail string)

// task is one independent unit of a step. Tasks of the same step touch
// disjoint paths. An error or panic is reported against path.
type task struct {
	path string
	run  func(r *runner, rep reporter) error
}

// Run executes the plan's steps in order. Each step waits for all of its
// tasks; a failed task is reported and never stops its siblings or later
// steps. Cancellation is checked between steps, and the summary reflects
// whatever ran.
func (e *Engine) Run(ctx context.Context, plan *Plan) (*report.Summary, error) {
	files := e.deps.Files
	var dry *fileops.DryRun
	if plan.Request.DryRun {
		dry = fileops.NewDryRun()
		files = dry
	}
	r := &runner{root: plan.Project.Root, files: files, repo: plan.repo}

	var runErr error
	staged := false
	for _, s := range plan.steps {
		if err := ctx.Err(); err != nil {
			e.log.Warn("run cancelled", zap.String("before", string(s.name)))
			runErr = err
			break
		}
		e.runStep(r, s)
		if s.name == StepStagingChanges {
			staged = true
		}
	}

	summary := report.NewSummary(plan.Names.NewName, e.deps.Report)
	summary.DryRun = plan.Request.DryRun
	summary.Warnings = plan.Warnings
	summary.Staged = staged && !stepFailed(summary.Entries, StepStagingChanges)
	summary.FollowUps = report.FollowUps(report.FollowUpOptions{
		PathsRenamed:         plan.Names.Renamed(),
		IOSBundleChanged:     plan.BundleIDs.IOSChanged(),
		AndroidBundleChanged: plan.BundleIDs.AndroidChanged(),
		FlavorKeys:           plan.Request.Flavor != nil && plan.Request.keyOptions().Any(),
	})
	if dry != nil {
		for _, en := range dry.Journal() {
			summary.Planned = append(summary.Planned, planned(r.root, en))
		}
	}
	return summary, runErr
}

func (e *Engine) runStep(r *runner, s step) {
	log := e.log.With(zap.String("step", string(s.name)))
	start := time.Now()
	log.Debug("step started", zap.Int("tasks", len(s.tasks)))

	rep := func(path string, outcome report.Outcome, detail string) {
		e.deps.Report.Report(string(s.name), path, outcome, detail)
	}

	var g errgroup.Group
	if e.deps.Limit > 0 {
		g.SetLimit(e.deps.Limit)
	}
	for i, t := range s.tasks {
		t := t
		delay := time.Duration(i) * e.deps.Stagger
		g.Go(func() error {
			if delay > 0 {
				time.Sleep(delay)
			}
			if err := runTask(r, t, rep); err != nil {
				log.Warn("task failed", zap.String("path", t.path), zap.Error(err))
				rep(t.path, report.Error, err.Error())
			}
			return nil
		})
	}
	_ = g.Wait()

	log.Debug("step finished", zap.Duration("elapsed", time.Since(start)))
}

// runTask turns a panic into an error so the step's join still completes.
func runTask(r *runner, t task, rep reporter) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return t.run(r, rep)
}

func stepFailed(entries []report.Entry, name Step) bool {
	for _, en := range entries {
		if en.Step == string(name) && en.Outcome == report.Error {
			return true
		}
	}
	return false
}

// planned renders a journal entry with project-relative paths.
func planned(root string, en fileops.Entry) string {
	rel := func(p string) string {
		if filepath.IsAbs(p) {
			return paths.Rel(root, p)
		}
		return p
	}
	if en.Dest != "" {
		return fmt.Sprintf("%s %s -> %s", en.Op, rel(en.Path), rel(en.Dest))
	}
	return fmt.Sprintf("%s %s", en.Op, rel(en.Path))
}
