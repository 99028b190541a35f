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

// Package metrics implements the statistical evaluation primitives:
// confusion matrices, classification metrics (accuracy, per-class
// precision/recall/F1 with macro and weighted averages), regression metrics
// (MAE, MSE, RMSE, R²), calibration metrics (ECE, MCE, Brier score),
// distributional percentage checks, and score binarization.
//
// Every function in this package is pure: no I/O, no shared state, and
// deterministic output for a given input. Numeric edge cases follow one
// rule throughout: a ratio whose denominator is zero is defined as zero
// rather than NaN or infinity, with the single documented exception of R²
// on a constant target (see [Regression]).
//
// Raw values are canonicalized through the [Value] tagged variant, which
// centralizes the conversion rules for label identity: booleans become
// "true"/"false", numbers use shortest round-trip formatting, strings pass
// through unchanged, and nil is Missing.
package metrics
