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

// DefaultCalibrationBins is used when a non-positive bin count is requested.
const DefaultCalibrationBins = 10

// CalibrationBin summarizes the predictions falling into one probability
// interval. Bins are half-open [BinStart, BinEnd), the last bin closed at 1.
type CalibrationBin struct {
	BinStart      float64 `json:"bin_start"`
	BinEnd        float64 `json:"bin_end"`
	AvgPrediction float64 `json:"avg_prediction"`
	AvgActual     float64 `json:"avg_actual"`
	Count         int     `json:"count"`
}

// CalibrationResult holds calibration quality over probability/outcome pairs.
type CalibrationResult struct {
	// ExpectedCalibrationError is the support-weighted mean gap between
	// predicted probability and observed frequency over non-empty bins;
	// MaxCalibrationError is the maximum of the same weighted term.
	ExpectedCalibrationError float64 `json:"expected_calibration_error"`
	MaxCalibrationError      float64 `json:"max_calibration_error"`

	BrierScore float64 `json:"brier_score"`

	Bins []CalibrationBin `json:"bins,omitempty"`
}

// Calibration bins predictions over [0,1] into numBins equal-width bins and
// measures how predicted probabilities track the binary outcomes. An empty
// bin reports its midpoint as AvgPrediction and 0 as AvgActual, and
// contributes nothing to ECE or MCE. Empty input yields a zero result with
// no bins. Sequences are truncated to the shorter length; callers validate
// pairing before calling.
func Calibration(predictions, outcomes []float64, numBins int) CalibrationResult {
	if numBins <= 0 {
		numBins = DefaultCalibrationBins
	}

	n := len(predictions)
	if len(outcomes) < n {
		n = len(outcomes)
	}
	if n == 0 {
		return CalibrationResult{}
	}

	width := 1.0 / float64(numBins)
	predSums := make([]float64, numBins)
	actSums := make([]float64, numBins)
	counts := make([]int, numBins)

	var brierSum float64
	for i := 0; i < n; i++ {
		p := predictions[i]
		idx := int(p / width)
		if idx < 0 {
			idx = 0
		}
		if idx >= numBins {
			idx = numBins - 1 // p == 1 lands in the closed last bin
		}
		predSums[idx] += p
		actSums[idx] += outcomes[i]
		counts[idx]++

		d := p - outcomes[i]
		brierSum += d * d
	}

	result := CalibrationResult{
		BrierScore: brierSum / float64(n),
		Bins:       make([]CalibrationBin, 0, numBins),
	}

	for b := 0; b < numBins; b++ {
		bin := CalibrationBin{
			BinStart: float64(b) * width,
			BinEnd:   float64(b+1) * width,
			Count:    counts[b],
		}
		if counts[b] == 0 {
			bin.AvgPrediction = bin.BinStart + width/2
		} else {
			bin.AvgPrediction = predSums[b] / float64(counts[b])
			bin.AvgActual = actSums[b] / float64(counts[b])

			weight := float64(counts[b]) / float64(n)
			gap := bin.AvgPrediction - bin.AvgActual
			if gap < 0 {
				gap = -gap
			}
			term := weight * gap
			result.ExpectedCalibrationError += term
			if term > result.MaxCalibrationError {
				result.MaxCalibrationError = term
			}
		}
		result.Bins = append(result.Bins, bin)
	}

	return result
}
