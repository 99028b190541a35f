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

// Binarize converts continuous or mixed values into "true"/"false" label
// strings at a threshold. A numeric value maps to "true" iff it is >= the
// threshold (inclusive). Booleans stringify directly and any other value
// uses its canonical label, so pre-labeled "true"/"false" ground truth
// passes through unchanged. Missing values stay missing, preserving the
// pair-dropping behavior of [BuildConfusionMatrix].
func Binarize(values []any, threshold float64) []any {
	out := make([]any, len(values))
	for i, raw := range values {
		v := ValueOf(raw)
		if v.IsMissing() {
			out[i] = nil
			continue
		}
		if f, ok := v.Float(); ok {
			if f >= threshold {
				out[i] = "true"
			} else {
				out[i] = "false"
			}
			continue
		}
		out[i] = v.Label()
	}
	return out
}
