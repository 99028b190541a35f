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

package modeleval

import (
	"time"

	"google.golang.org/modeleval/metrics"
)

// Status represents a test or run outcome.
type Status string

const (
	StatusPassed Status = "PASSED"
	StatusFailed Status = "FAILED"
	StatusError  Status = "ERROR"
)

// AssertionResult is one recorded matcher outcome. Exactly one is appended
// per matcher invocation, in invocation order. It is immutable once recorded.
type AssertionResult struct {
	// Type names the metric that was asserted, e.g. "accuracy" or "f1".
	Type string `json:"type"`

	Passed  bool   `json:"passed"`
	Message string `json:"message"`

	// Expected is the asserted threshold; Actual the computed metric value.
	// Both are absent when the assertion failed before a value could be
	// computed, e.g. on missing ground truth.
	Expected *float64 `json:"expected,omitempty"`
	Actual   *float64 `json:"actual,omitempty"`

	Field string `json:"field,omitempty"`
	Class string `json:"class,omitempty"`
}

// FieldMetricResult attaches classification metrics to a field for later
// rendering. It is produced by display operations and never fails a test.
type FieldMetricResult struct {
	Field             string                        `json:"field"`
	Metrics           metrics.ClassificationMetrics `json:"metrics"`
	Binarized         bool                          `json:"binarized"`
	BinarizeThreshold *float64                      `json:"binarize_threshold,omitempty"`
}

// TestResult aggregates everything recorded within one test bracket.
type TestResult struct {
	Name         string              `json:"name"`
	Status       Status              `json:"status"`
	Assertions   []AssertionResult   `json:"assertions"`
	FieldMetrics []FieldMetricResult `json:"field_metrics,omitempty"`

	// ErrorMessage is set when the test function itself returned an error,
	// as opposed to recording failed assertions.
	ErrorMessage string `json:"error_message,omitempty"`

	DurationMs int64 `json:"duration_ms,omitempty"`
}

// RunResult aggregates the outcomes of a complete suite run.
type RunResult struct {
	RunID string `json:"run_id"`
	Suite string `json:"suite"`

	Status Status `json:"status"`

	// OverallScore is the fraction of recorded assertions that passed,
	// 1.0 when nothing was recorded.
	OverallScore float64 `json:"overall_score"`

	Tests []TestResult `json:"tests"`

	CreatedAt   time.Time `json:"creation_timestamp"`
	CompletedAt time.Time `json:"completed_timestamp"`
}

// Passed reports whether every test in the run passed.
func (r *RunResult) Passed() bool {
	return r.Status == StatusPassed
}

// AssertionCounts returns the number of recorded assertions and how many of
// them passed, across all tests.
func (r *RunResult) AssertionCounts() (total, passed int) {
	for _, t := range r.Tests {
		for _, a := range t.Assertions {
			total++
			if a.Passed {
				passed++
			}
		}
	}
	return total, passed
}
