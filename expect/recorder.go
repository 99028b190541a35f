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

package expect

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/modeleval"
)

// Recorder accumulates assertion outcomes for one test bracket. A test
// runner creates one Recorder per test and binds it to the Evals running
// inside; results recorded outside any bracket simply stay on the Eval.
// Recorder is safe for concurrent use.
type Recorder struct {
	mu           sync.Mutex
	assertions   []modeleval.AssertionResult
	fieldMetrics []modeleval.FieldMetricResult
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends one assertion outcome.
func (r *Recorder) Record(res modeleval.AssertionResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assertions = append(r.assertions, res)
}

// RecordFieldMetric appends one field metric display entry.
func (r *Recorder) RecordFieldMetric(fm modeleval.FieldMetricResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fieldMetrics = append(r.fieldMetrics, fm)
}

// Assertions returns the recorded assertion outcomes in recording order.
func (r *Recorder) Assertions() []modeleval.AssertionResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]modeleval.AssertionResult, len(r.assertions))
	copy(out, r.assertions)
	return out
}

// FieldMetrics returns the recorded field metric entries in recording order.
func (r *Recorder) FieldMetrics() []modeleval.FieldMetricResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]modeleval.FieldMetricResult, len(r.fieldMetrics))
	copy(out, r.fieldMetrics)
	return out
}

// Reset discards everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assertions = nil
	r.fieldMetrics = nil
}

// Err returns nil when every recorded assertion passed, and otherwise an
// error listing each failure. It is the strict form of the record-and-
// continue contract: callers who want failures to abort check Err at the
// end of a batch.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var failures []string
	for _, a := range r.assertions {
		if !a.Passed {
			failures = append(failures, a.Message)
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return fmt.Errorf("%d assertion(s) failed:\n%s",
		len(failures), strings.Join(failures, "\n"))
}

type recorderKey struct{}

// NewContext returns a context carrying the recorder, scoping a test bracket
// to one execution context instead of a process-wide slot.
func NewContext(ctx context.Context, r *Recorder) context.Context {
	return context.WithValue(ctx, recorderKey{}, r)
}

// FromContext returns the recorder carried by the context, if any.
func FromContext(ctx context.Context) (*Recorder, bool) {
	r, ok := ctx.Value(recorderKey{}).(*Recorder)
	return r, ok
}
