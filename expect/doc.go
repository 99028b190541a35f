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

// Package expect implements the fluent assertion chain over an aligned
// record set.
//
// An [Eval] binds the aligned records to a result list. [Eval.Field] selects
// a field, optionally rebased through [Selector.Binarize]. Metric accessors
// (Accuracy, Precision, Recall, F1, MAE, R2, ECE, PercentBelowOrEqual, ...)
// produce a [Matcher] bound to one scalar; threshold comparators on the
// matcher record exactly one [modeleval.AssertionResult] and return the
// originating selector so chains keep flowing:
//
//	ev := expect.New(records)
//	ev.Field("sentiment").
//		Accuracy().ToBeAtLeast(0.9).
//		Precision("positive").ToBeAbove(0.8).
//		ShowConfusionMatrix()
//
// Matchers record and continue: a failed comparison, or a metric that could
// not be computed at all (no ground truth on the field, unknown class, no
// numeric values), becomes a failed AssertionResult and never aborts the
// chain. Computation errors are additionally collected on the Eval and
// surfaced by [Eval.Err]; callers wanting throw-on-failure semantics check
// [Recorder.Err] after a batch.
//
// Metric values are recomputed from the aligned set on every accessor call.
// The only state is the recorded result list: the Eval's own, plus the
// per-test [Recorder] when one is bound, either directly or through a
// context (see [NewContext]). There is no process-global accumulator, so
// concurrent tests stay isolated as long as each uses its own recorder.
package expect
