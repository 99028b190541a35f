// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package runner executes evaluation suites over an aligned record set.
//
// Each test runs with its own assertion recorder, so tests are isolated and
// can run in parallel. A run produces one [modeleval.RunResult], optionally
// persisted to a configured store.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"google.golang.org/modeleval"
	"google.golang.org/modeleval/expect"
	"google.golang.org/modeleval/storage"
)

const tracerName = "google.golang.org/modeleval/runner"

// Test is one named evaluation function. The function records assertions on
// the Eval it is given; returning an error marks the test as errored rather
// than failed.
type Test struct {
	Name string
	Fn   func(ctx context.Context, ev *expect.Eval) error
}

// Suite is a named collection of tests run against one aligned record set.
type Suite struct {
	Name  string
	Tests []Test
}

// Config configures a Runner.
type Config struct {
	// Storage persists completed run results when set.
	Storage storage.Storage

	// Parallelism bounds the number of tests running concurrently.
	// Values below 1 run tests serially.
	Parallelism int
}

// Runner executes suites against a fixed aligned record set.
type Runner struct {
	cfg     Config
	records []modeleval.AlignedRecord
}

// New creates a runner over the aligned record set.
func New(records []modeleval.AlignedRecord, cfg Config) *Runner {
	if cfg.Parallelism < 1 {
		cfg.Parallelism = 1
	}
	return &Runner{cfg: cfg, records: records}
}

// Run executes every test in the suite and returns the aggregated result.
// Test failures do not make Run fail; the returned result carries them. Run
// returns an error only for infrastructure problems, e.g. persistence.
func (r *Runner) Run(ctx context.Context, suite Suite) (*modeleval.RunResult, error) {
	runID := uuid.NewString()
	tracer := otel.Tracer(tracerName)

	ctx, span := tracer.Start(ctx, "modeleval.run")
	defer span.End()
	span.SetAttributes(
		attribute.String("modeleval.run_id", runID),
		attribute.String("modeleval.suite", suite.Name),
		attribute.Int("modeleval.tests", len(suite.Tests)),
	)

	log.Info().
		Str("run_id", runID).
		Str("suite", suite.Name).
		Int("tests", len(suite.Tests)).
		Int("records", len(r.records)).
		Msg("starting evaluation run")

	result := &modeleval.RunResult{
		RunID:     runID,
		Suite:     suite.Name,
		CreatedAt: time.Now().UTC(),
		Tests:     make([]modeleval.TestResult, len(suite.Tests)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Parallelism)
	for i, test := range suite.Tests {
		g.Go(func() error {
			result.Tests[i] = r.runTest(gctx, tracer, test)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result.CompletedAt = time.Now().UTC()
	result.Status = overallStatus(result.Tests)
	result.OverallScore = overallScore(result)
	if result.Status != modeleval.StatusPassed {
		span.SetStatus(codes.Error, string(result.Status))
	}

	total, passed := result.AssertionCounts()
	log.Info().
		Str("run_id", runID).
		Str("status", string(result.Status)).
		Int("assertions", total).
		Int("passed", passed).
		Dur("duration", result.CompletedAt.Sub(result.CreatedAt)).
		Msg("evaluation run finished")

	if r.cfg.Storage != nil {
		if err := r.cfg.Storage.Save(ctx, result); err != nil {
			return nil, fmt.Errorf("persist run %q: %w", runID, err)
		}
	}
	return result, nil
}

func (r *Runner) runTest(ctx context.Context, tracer trace.Tracer, test Test) modeleval.TestResult {
	ctx, span := tracer.Start(ctx, "modeleval.test")
	defer span.End()
	span.SetAttributes(attribute.String("modeleval.test", test.Name))

	recorder := expect.NewRecorder()
	ctx = expect.NewContext(ctx, recorder)
	ev := expect.New(r.records, expect.WithRecorder(recorder))

	start := time.Now()
	err := test.Fn(ctx, ev)
	duration := time.Since(start)

	tr := modeleval.TestResult{
		Name:         test.Name,
		Assertions:   recorder.Assertions(),
		FieldMetrics: recorder.FieldMetrics(),
		DurationMs:   duration.Milliseconds(),
	}

	switch {
	case err != nil:
		tr.Status = modeleval.StatusError
		tr.ErrorMessage = err.Error()
		span.SetStatus(codes.Error, err.Error())
		log.Error().Err(err).Str("test", test.Name).Msg("test errored")
	case recorder.Err() != nil:
		tr.Status = modeleval.StatusFailed
		span.SetStatus(codes.Error, "assertions failed")
		log.Warn().Str("test", test.Name).Dur("duration", duration).Msg("test failed")
	default:
		tr.Status = modeleval.StatusPassed
		log.Debug().Str("test", test.Name).Dur("duration", duration).Msg("test passed")
	}
	return tr
}

func overallStatus(tests []modeleval.TestResult) modeleval.Status {
	status := modeleval.StatusPassed
	for _, t := range tests {
		switch t.Status {
		case modeleval.StatusError:
			return modeleval.StatusError
		case modeleval.StatusFailed:
			status = modeleval.StatusFailed
		}
	}
	return status
}

func overallScore(result *modeleval.RunResult) float64 {
	total, passed := result.AssertionCounts()
	if total == 0 {
		return 1.0
	}
	return float64(passed) / float64(total)
}
