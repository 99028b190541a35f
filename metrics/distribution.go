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

package metrics

import "math"

// FilterNumeric keeps the numeric, non-NaN entries of a raw value sequence,
// silently discarding everything else. Callers compare the filtered length
// against the original to build descriptive emptiness errors.
func FilterNumeric(values []any) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if f, ok := ValueOf(v).Float(); ok && !math.IsNaN(f) {
			out = append(out, f)
		}
	}
	return out
}

// PercentageBelowOrEqual returns the fraction of values <= threshold.
// The empty-input fallback of 0 is defensive only: the assertion layer
// rejects empty filtered sets with a descriptive error before calling here.
func PercentageBelowOrEqual(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, v := range values {
		if v <= threshold {
			count++
		}
	}
	return float64(count) / float64(len(values))
}

// PercentageStrictlyAbove returns the fraction of values > threshold, with
// the same defensive empty-input fallback as [PercentageBelowOrEqual].
func PercentageStrictlyAbove(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, v := range values {
		if v > threshold {
			count++
		}
	}
	return float64(count) / float64(len(values))
}
