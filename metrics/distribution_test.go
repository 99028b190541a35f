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

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFilterNumeric(t *testing.T) {
	values := []any{0.1, "text", nil, 2, true, math.NaN(), 0.9}
	got := FilterNumeric(values)

	want := []float64{0.1, 2, 0.9}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FilterNumeric() mismatch (-want +got):\n%s", diff)
	}
}

func TestPercentages(t *testing.T) {
	values := []float64{0.1, 0.2, 0.3, 0.8, 0.9}

	if got, want := PercentageBelowOrEqual(values, 0.5), 0.6; !approxEqual(got, want) {
		t.Errorf("PercentageBelowOrEqual() = %v, want %v", got, want)
	}
	if got, want := PercentageStrictlyAbove(values, 0.5), 0.4; !approxEqual(got, want) {
		t.Errorf("PercentageStrictlyAbove() = %v, want %v", got, want)
	}

	// The threshold itself counts as below-or-equal, not above.
	if got := PercentageBelowOrEqual([]float64{0.5}, 0.5); !approxEqual(got, 1) {
		t.Errorf("PercentageBelowOrEqual(0.5 at 0.5) = %v, want 1", got)
	}
	if got := PercentageStrictlyAbove([]float64{0.5}, 0.5); got != 0 {
		t.Errorf("PercentageStrictlyAbove(0.5 at 0.5) = %v, want 0", got)
	}
}

func TestPercentagesEmptyFallback(t *testing.T) {
	if got := PercentageBelowOrEqual(nil, 0.5); got != 0 {
		t.Errorf("PercentageBelowOrEqual(nil) = %v, want 0", got)
	}
	if got := PercentageStrictlyAbove(nil, 0.5); got != 0 {
		t.Errorf("PercentageStrictlyAbove(nil) = %v, want 0", got)
	}
}
