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
	"errors"

	"google.golang.org/modeleval"
)

// Eval binds an aligned record set to an assertion result list. The record
// set is never mutated; an Eval is cheap and usually lives for one test.
type Eval struct {
	records  []modeleval.AlignedRecord
	recorder *Recorder

	results      []modeleval.AssertionResult
	fieldMetrics []modeleval.FieldMetricResult
	errs         []error
}

// Option configures an Eval.
type Option func(*Eval)

// WithRecorder binds the Eval to a test-bracket recorder. Every recorded
// assertion then lands both on the Eval and on the recorder.
func WithRecorder(r *Recorder) Option {
	return func(e *Eval) { e.recorder = r }
}

// WithContext binds the Eval to the recorder carried by the context, when
// one is present. It is a no-op outside a test bracket.
func WithContext(ctx context.Context) Option {
	return func(e *Eval) {
		if r, ok := FromContext(ctx); ok {
			e.recorder = r
		}
	}
}

// New creates an Eval over the aligned record set.
func New(records []modeleval.AlignedRecord, opts ...Option) *Eval {
	e := &Eval{records: records}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Field starts a chain on the named field.
func (e *Eval) Field(name string) *Selector {
	return &Selector{eval: e, field: name}
}

// Results returns the assertion outcomes recorded on this Eval, in order.
func (e *Eval) Results() []modeleval.AssertionResult {
	out := make([]modeleval.AssertionResult, len(e.results))
	copy(out, e.results)
	return out
}

// FieldMetrics returns the field metric display entries recorded on this
// Eval, in order.
func (e *Eval) FieldMetrics() []modeleval.FieldMetricResult {
	out := make([]modeleval.FieldMetricResult, len(e.fieldMetrics))
	copy(out, e.fieldMetrics)
	return out
}

// Err returns the metric computation errors encountered so far, joined.
// Failed threshold comparisons are not errors; only metrics that could not
// be computed at all (missing ground truth, unknown class, no numeric
// values) appear here. Each such error also recorded a failed assertion, so
// the rest of the chain kept running.
func (e *Eval) Err() error {
	return errors.Join(e.errs...)
}

func (e *Eval) record(res modeleval.AssertionResult) {
	e.results = append(e.results, res)
	if e.recorder != nil {
		e.recorder.Record(res)
	}
}

func (e *Eval) recordFieldMetric(fm modeleval.FieldMetricResult) {
	e.fieldMetrics = append(e.fieldMetrics, fm)
	if e.recorder != nil {
		e.recorder.RecordFieldMetric(fm)
	}
}

func (e *Eval) fail(err error) {
	e.errs = append(e.errs, err)
}
