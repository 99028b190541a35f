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
	"errors"
	"fmt"
	"math"
)

// ErrLengthMismatch indicates that the actual and expected sequences passed
// to a paired metric differ in length. Mismatched inputs are never silently
// truncated.
var ErrLengthMismatch = errors.New("metrics: actual and expected lengths differ")

// RegressionMetrics holds error metrics over paired numeric sequences.
type RegressionMetrics struct {
	MAE  float64 `json:"mae"`
	MSE  float64 `json:"mse"`
	RMSE float64 `json:"rmse"`
	R2   float64 `json:"r2"`
}

// Regression computes MAE, MSE, RMSE, and R² over equal-length numeric
// sequences of predictions (actual) and ground truth (expected).
//
// R² is 1 - SS_res/SS_tot. When the target is constant (SS_tot = 0), R² is
// defined as 1 for a perfect match (SS_res = 0 too) and 0 otherwise; the
// result is never a division by zero or -Inf. Empty input yields all zeros.
func Regression(actual, expected []float64) (RegressionMetrics, error) {
	if len(actual) != len(expected) {
		return RegressionMetrics{}, fmt.Errorf("%w: %d actual vs %d expected",
			ErrLengthMismatch, len(actual), len(expected))
	}

	n := len(actual)
	if n == 0 {
		return RegressionMetrics{}, nil
	}

	var absSum, sqSum, expSum float64
	for i := range actual {
		diff := actual[i] - expected[i]
		absSum += math.Abs(diff)
		sqSum += diff * diff
		expSum += expected[i]
	}

	mae := absSum / float64(n)
	mse := sqSum / float64(n)

	expMean := expSum / float64(n)
	var ssTot float64
	for _, e := range expected {
		d := e - expMean
		ssTot += d * d
	}
	ssRes := sqSum

	var r2 float64
	switch {
	case ssTot != 0:
		r2 = 1 - ssRes/ssTot
	case ssRes == 0:
		r2 = 1
	default:
		r2 = 0
	}

	return RegressionMetrics{
		MAE:  mae,
		MSE:  mse,
		RMSE: math.Sqrt(mse),
		R2:   r2,
	}, nil
}
