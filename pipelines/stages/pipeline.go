// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package stages

import (
	"context"
	"log"
	"time"

	"github.com/mdhender/visrpt/model"
	"github.com/mdhender/visrpt/renderer"
	"github.com/spf13/afero"
)

// RunConfig holds the input and output paths for one pipeline run.
type RunConfig struct {
	MembersPath string
	VisitsPath  string
	OutputPath  string
	SummaryPath string
	TopN        int
}

// DefaultRunConfig returns the conventional paths under the data directory.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		MembersPath: "data/members.csv",
		VisitsPath:  "data/visits.csv",
		OutputPath:  "data/output.csv",
		SummaryPath: "data/summary.json",
		TopN:        5,
	}
}

// RunResult is what a completed run produced.
type RunResult struct {
	Summary model.Summary
	Grouped model.Grouped
	Defects []model.Defect
}

// Runner executes the whole pipeline as one blocking unit of work:
// load both sources, join and validate, aggregate, render both outputs.
// A run either fully succeeds or fails outright; every run recomputes
// and overwrites its outputs. Callers that allow concurrent triggers
// must serialize runs against the same output paths themselves.
type Runner struct {
	fs     afero.Fs
	logger *log.Logger
}

// NewRunner creates a Runner against the OS filesystem, logging row
// defects through the given logger (nil collects defects silently).
func NewRunner(logger *log.Logger) *Runner {
	return &Runner{
		fs:     afero.NewOsFs(),
		logger: logger,
	}
}

// SetFS sets the filesystem for testing.
func (r *Runner) SetFS(fs afero.Fs) {
	r.fs = fs
}

// Run executes the pipeline. The loaders are order-independent; both must
// succeed before the join runs.
func (r *Runner) Run(ctx context.Context, cfg RunConfig) (*RunResult, error) {
	defects := NewCollector(r.logger)

	members, err := LoadMembers(r.fs, cfg.MembersPath, defects)
	if err != nil {
		return nil, err
	}
	visits, err := LoadVisits(r.fs, cfg.VisitsPath, defects)
	if err != nil {
		return nil, err
	}

	grouped, walkIns := ValidateAndGroup(members, visits, defects)
	summary := BuildSummary(grouped, walkIns, cfg.TopN, time.Now())

	if err := renderer.WriteReport(r.fs, cfg.OutputPath, grouped); err != nil {
		return nil, err
	}
	if err := renderer.WriteSummary(r.fs, cfg.SummaryPath, summary); err != nil {
		return nil, err
	}

	return &RunResult{
		Summary: summary,
		Grouped: grouped,
		Defects: defects.Defects(),
	}, nil
}
