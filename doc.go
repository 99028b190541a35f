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

// Package modeleval provides the core data model for statistical evaluation
// of model outputs against ground truth.
//
// The library aligns prediction records with ground-truth records by
// identifier, computes classification, regression, calibration, and
// distributional metrics over the aligned set, and records pass/fail
// assertion outcomes through a fluent matcher chain.
//
// # Core Concepts
//
// Record: a key-value map describing one prediction or one ground-truth row,
// carrying an identifier field.
//
// AlignedRecord: one (id, actual fields, expected fields) triple produced by
// the align package. It is the sole input to every metric computation and is
// immutable once created.
//
// AssertionResult: one recorded pass/fail outcome per matcher invocation.
//
// FieldMetricResult: classification metrics attached to a field for later
// rendering, produced by non-assertive display operations.
//
// # Package Layout
//
//   - align: pairs predictions with ground truth by identifier
//   - metrics: confusion matrices, classification, regression, calibration,
//     distribution percentages, and score binarization
//   - expect: the fluent selector/matcher assertion chain
//   - dataset: JSON, NDJSON, and YAML record loading
//   - runner: suite execution with per-test result recording
//   - report: console and JSON rendering of run results
//   - storage: in-memory, file, and SQLite persistence of run results
//
// # Example Usage
//
//	records, err := align.Align(predictions, groundTruth)
//	if err != nil {
//		return err
//	}
//
//	ev := expect.New(records)
//	ev.Field("sentiment").
//		Accuracy().ToBeAtLeast(0.9).
//		F1("positive").ToBeAbove(0.8)
//
//	for _, res := range ev.Results() {
//		fmt.Println(res.Message)
//	}
//
// All metric computation is synchronous, CPU-bound, and free of I/O. Metric
// values are recomputed from the aligned set on every accessor call; only
// assertion recording carries state, and that state is scoped to an explicit
// per-test recorder rather than a process-wide slot.
package modeleval
