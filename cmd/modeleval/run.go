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

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"google.golang.org/modeleval"
	"google.golang.org/modeleval/align"
	"google.golang.org/modeleval/dataset"
	"google.golang.org/modeleval/report"
	"google.golang.org/modeleval/runner"
	"google.golang.org/modeleval/telemetry"
)

type runFlags struct {
	predictions string
	groundTruth string
	checks      string
	schema      string

	idField            string
	predictionIDField  string
	groundTruthIDField string
	strictAlign        bool

	output      string
	parallelism int
	failOnError bool
	otel        bool
}

var runFlagValues runFlags

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Runs the checks in a suite against predictions and ground truth.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFlagValues.run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlagValues.predictions, "predictions", "p", "", "Prediction records file (.json, .ndjson, .jsonl, .yaml)")
	runCmd.Flags().StringVarP(&runFlagValues.groundTruth, "ground-truth", "g", "", "Ground-truth records file")
	runCmd.Flags().StringVarP(&runFlagValues.checks, "checks", "c", "", "Declarative checks file (YAML)")
	runCmd.Flags().StringVar(&runFlagValues.schema, "schema", "", "JSON schema file validating every record")

	runCmd.Flags().StringVar(&runFlagValues.idField, "id-field", "", "Identifier field for both record sets")
	runCmd.Flags().StringVar(&runFlagValues.predictionIDField, "prediction-id-field", "", "Identifier field for prediction records")
	runCmd.Flags().StringVar(&runFlagValues.groundTruthIDField, "ground-truth-id-field", "", "Identifier field for ground-truth records")
	runCmd.Flags().BoolVar(&runFlagValues.strictAlign, "strict-align", false, "Fail when a prediction has no ground-truth match")

	runCmd.Flags().StringVarP(&runFlagValues.output, "output", "o", "console", "Report format: console or json")
	runCmd.Flags().IntVar(&runFlagValues.parallelism, "parallelism", 1, "Number of tests run concurrently")
	runCmd.Flags().BoolVar(&runFlagValues.failOnError, "fail-on-error", true, "Exit non-zero when the run did not pass")
	runCmd.Flags().BoolVar(&runFlagValues.otel, "otel", false, "Enable OpenTelemetry export (OTLP HTTP)")

	for _, flag := range []string{"predictions", "ground-truth", "checks"} {
		if err := runCmd.MarkFlagRequired(flag); err != nil {
			panic(err)
		}
	}
}

func (f *runFlags) run(ctx context.Context) error {
	if f.otel {
		svc, err := telemetry.New(ctx)
		if err != nil {
			return fmt.Errorf("initialize telemetry: %w", err)
		}
		svc.SetGlobalOtelProviders()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := svc.Shutdown(shutdownCtx); err != nil {
				log.Warn().Err(err).Msg("telemetry shutdown failed")
			}
		}()
	}

	records, err := f.loadAndAlign()
	if err != nil {
		return err
	}

	checksData, err := os.ReadFile(f.checks)
	if err != nil {
		return err
	}
	cfg, err := runner.ParseChecks(checksData)
	if err != nil {
		return err
	}
	suite, err := runner.FromChecks(cfg)
	if err != nil {
		return err
	}

	store, err := rootFlagValues.openStorage(false)
	if err != nil {
		return err
	}

	result, err := runner.New(records, runner.Config{
		Storage:     store,
		Parallelism: f.parallelism,
	}).Run(ctx, suite)
	if err != nil {
		return err
	}

	if err := f.render(result); err != nil {
		return err
	}
	if f.failOnError && !result.Passed() {
		return fmt.Errorf("run %s finished with status %s", result.RunID, result.Status)
	}
	return nil
}

func (f *runFlags) loadAndAlign() ([]modeleval.AlignedRecord, error) {
	var loadOpts []dataset.Option
	if f.schema != "" {
		schema, err := dataset.LoadSchema(f.schema)
		if err != nil {
			return nil, err
		}
		loadOpts = append(loadOpts, dataset.WithSchema(schema))
	}

	predictions, err := dataset.LoadRecords(f.predictions, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load predictions: %w", err)
	}
	groundTruth, err := dataset.LoadRecords(f.groundTruth, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load ground truth: %w", err)
	}
	log.Info().
		Int("predictions", len(predictions)).
		Int("ground_truth", len(groundTruth)).
		Msg("datasets loaded")

	var alignOpts []align.Option
	if f.idField != "" {
		alignOpts = append(alignOpts, align.WithIDField(f.idField))
	}
	if f.predictionIDField != "" {
		alignOpts = append(alignOpts, align.WithPredictionIDField(f.predictionIDField))
	}
	if f.groundTruthIDField != "" {
		alignOpts = append(alignOpts, align.WithGroundTruthIDField(f.groundTruthIDField))
	}
	if f.strictAlign {
		alignOpts = append(alignOpts, align.WithStrict(true))
	}
	return align.Align(predictions, groundTruth, alignOpts...)
}

func (f *runFlags) render(result *modeleval.RunResult) error {
	switch f.output {
	case "console":
		return report.NewConsole(os.Stdout).Render(result)
	case "json":
		return report.NewJSON(os.Stdout).Render(result)
	}
	return fmt.Errorf("%w: unknown output format %q", modeleval.ErrInvalidInput, f.output)
}
