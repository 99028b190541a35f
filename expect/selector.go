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
	"fmt"

	"google.golang.org/modeleval"
	"google.golang.org/modeleval/metrics"
)

// Selector binds an Eval to one field and, optionally, a binarize threshold.
// Selectors are immutable; Binarize returns a new one.
type Selector struct {
	eval     *Eval
	field    string
	binarize *float64
}

// Binarize rebases the field's values into "true"/"false" labels at the
// threshold before any classification metric is computed. Numeric values
// map to "true" iff >= threshold; booleans and pre-labeled strings pass
// through their canonical labels.
func (s *Selector) Binarize(threshold float64) *Selector {
	t := threshold
	return &Selector{eval: s.eval, field: s.field, binarize: &t}
}

// Accuracy selects overall accuracy on the field.
func (s *Selector) Accuracy() *Matcher {
	m, err := s.classification("accuracy")
	if err != nil {
		return s.failed("accuracy", "", err)
	}
	return s.matcher("accuracy", "", m.Accuracy)
}

// Precision selects precision, for one class when given, and otherwise the
// macro average across classes.
func (s *Selector) Precision(class ...string) *Matcher {
	return s.perClass("precision", class,
		func(c metrics.ClassMetrics) float64 { return c.Precision },
		func(m metrics.ClassificationMetrics) float64 { return m.MacroAvg.Precision })
}

// Recall selects recall, for one class when given, and otherwise the macro
// average across classes.
func (s *Selector) Recall(class ...string) *Matcher {
	return s.perClass("recall", class,
		func(c metrics.ClassMetrics) float64 { return c.Recall },
		func(m metrics.ClassificationMetrics) float64 { return m.MacroAvg.Recall })
}

// F1 selects F1, for one class when given, and otherwise the macro average
// across classes.
func (s *Selector) F1(class ...string) *Matcher {
	return s.perClass("f1", class,
		func(c metrics.ClassMetrics) float64 { return c.F1 },
		func(m metrics.ClassificationMetrics) float64 { return m.MacroAvg.F1 })
}

// MAE selects the mean absolute error between the field's numeric
// predictions and ground truth.
func (s *Selector) MAE() *Matcher {
	return s.regressionMatcher("mae", func(r metrics.RegressionMetrics) float64 { return r.MAE })
}

// MSE selects the mean squared error.
func (s *Selector) MSE() *Matcher {
	return s.regressionMatcher("mse", func(r metrics.RegressionMetrics) float64 { return r.MSE })
}

// RMSE selects the root mean squared error.
func (s *Selector) RMSE() *Matcher {
	return s.regressionMatcher("rmse", func(r metrics.RegressionMetrics) float64 { return r.RMSE })
}

// R2 selects the coefficient of determination.
func (s *Selector) R2() *Matcher {
	return s.regressionMatcher("r2", func(r metrics.RegressionMetrics) float64 { return r.R2 })
}

// ECE selects the expected calibration error over numBins probability bins;
// non-positive numBins uses the default of 10.
func (s *Selector) ECE(numBins int) *Matcher {
	return s.calibrationMatcher("ece", numBins,
		func(c metrics.CalibrationResult) float64 { return c.ExpectedCalibrationError })
}

// MCE selects the maximum calibration error over numBins probability bins.
func (s *Selector) MCE(numBins int) *Matcher {
	return s.calibrationMatcher("mce", numBins,
		func(c metrics.CalibrationResult) float64 { return c.MaxCalibrationError })
}

// Brier selects the Brier score of the field's probability predictions.
func (s *Selector) Brier() *Matcher {
	return s.calibrationMatcher("brier", 0,
		func(c metrics.CalibrationResult) float64 { return c.BrierScore })
}

// PercentBelowOrEqual selects the fraction of the field's numeric prediction
// values that are <= value. No ground truth is consulted.
func (s *Selector) PercentBelowOrEqual(value float64) *Matcher {
	return s.distributionMatcher("percent_below_or_equal",
		fmt.Sprintf("percentage of values <= %v", value),
		func(vs []float64) float64 { return metrics.PercentageBelowOrEqual(vs, value) })
}

// PercentAbove selects the fraction of the field's numeric prediction values
// that are strictly > value. No ground truth is consulted.
func (s *Selector) PercentAbove(value float64) *Matcher {
	return s.distributionMatcher("percent_above",
		fmt.Sprintf("percentage of values > %v", value),
		func(vs []float64) float64 { return metrics.PercentageStrictlyAbove(vs, value) })
}

// ShowConfusionMatrix attaches the field's classification metrics for later
// rendering. It never records a pass/fail outcome; a field whose metrics
// cannot be computed surfaces through [Eval.Err] only.
func (s *Selector) ShowConfusionMatrix() *Selector {
	m, err := s.classification("confusion matrix")
	if err != nil {
		s.eval.fail(err)
		return s
	}
	s.eval.recordFieldMetric(modeleval.FieldMetricResult{
		Field:             s.field,
		Metrics:           m,
		Binarized:         s.binarize != nil,
		BinarizeThreshold: s.binarize,
	})
	return s
}

// columns extracts the field's parallel actual/expected value sequences in
// record order. Absent fields read as nil.
func (s *Selector) columns() (actual, expected []any) {
	actual = make([]any, len(s.eval.records))
	expected = make([]any, len(s.eval.records))
	for i, r := range s.eval.records {
		actual[i] = r.Actual[s.field]
		expected[i] = r.Expected[s.field]
	}
	return actual, expected
}

// classification computes classification metrics for the field, applying
// binarization first when configured. A field whose ground-truth side is
// entirely missing fails with a validation error naming the field and
// counts; it never silently reports 0.
func (s *Selector) classification(metric string) (metrics.ClassificationMetrics, error) {
	actual, expected := s.columns()

	usable := 0
	for _, v := range expected {
		if !metrics.ValueOf(v).IsMissing() {
			usable++
		}
	}
	if usable == 0 {
		return metrics.ClassificationMetrics{}, &modeleval.ValidationError{
			Field:  s.field,
			Metric: metric,
			Reason: "no ground truth present on the field",
			Total:  len(expected),
			Usable: 0,
		}
	}

	if s.binarize != nil {
		actual = metrics.Binarize(actual, *s.binarize)
		expected = metrics.Binarize(expected, *s.binarize)
	}
	return metrics.ClassificationFor(actual, expected), nil
}

func (s *Selector) perClass(typ string, class []string,
	pick func(metrics.ClassMetrics) float64,
	avg func(metrics.ClassificationMetrics) float64) *Matcher {

	requested := ""
	if len(class) > 0 {
		requested = class[0]
	}

	m, err := s.classification(typ)
	if err != nil {
		return s.failed(typ, requested, err)
	}

	if requested == "" {
		return s.matcher(typ, "", avg(m))
	}

	c, ok := m.PerClass[requested]
	if !ok {
		return s.failed(typ, requested, &modeleval.UnknownClassError{
			Field:     s.field,
			Class:     requested,
			Available: m.ConfusionMatrix.Labels,
		})
	}
	return s.matcher(typ, requested, pick(c))
}

// regression computes regression metrics over the field's numeric pairs.
// Each side is filtered to numeric values independently; zero numeric values
// on either side, or differing filtered lengths, are validation errors.
func (s *Selector) regression(metric string) (metrics.RegressionMetrics, error) {
	actualRaw, expectedRaw := s.columns()
	actual := metrics.FilterNumeric(actualRaw)
	expected := metrics.FilterNumeric(expectedRaw)

	if len(actual) == 0 {
		return metrics.RegressionMetrics{}, &modeleval.ValidationError{
			Field: s.field, Metric: metric,
			Reason: "no numeric prediction values",
			Total:  len(actualRaw), Usable: 0,
		}
	}
	if len(expected) == 0 {
		return metrics.RegressionMetrics{}, &modeleval.ValidationError{
			Field: s.field, Metric: metric,
			Reason: "no numeric ground-truth values",
			Total:  len(expectedRaw), Usable: 0,
		}
	}
	if len(actual) != len(expected) {
		return metrics.RegressionMetrics{}, &modeleval.ValidationError{
			Field: s.field, Metric: metric,
			Reason: fmt.Sprintf("numeric value counts differ: %d predictions vs %d ground truth",
				len(actual), len(expected)),
			Total:  len(actualRaw),
			Usable: len(actual),
		}
	}

	return metrics.Regression(actual, expected)
}

func (s *Selector) regressionMatcher(typ string, pick func(metrics.RegressionMetrics) float64) *Matcher {
	r, err := s.regression(typ)
	if err != nil {
		return s.failed(typ, "", err)
	}
	return s.matcher(typ, "", pick(r))
}

// calibrationPairs extracts (probability, binary outcome) pairs: records
// whose prediction is numeric and whose ground truth converts to a binary
// outcome (number, boolean, or "true"/"false" label).
func (s *Selector) calibrationPairs(metric string) (predictions, outcomes []float64, err error) {
	for _, r := range s.eval.records {
		p, ok := metrics.ValueOf(r.Actual[s.field]).Float()
		if !ok {
			continue
		}
		o, ok := outcomeValue(metrics.ValueOf(r.Expected[s.field]))
		if !ok {
			continue
		}
		predictions = append(predictions, p)
		outcomes = append(outcomes, o)
	}
	if len(predictions) == 0 {
		return nil, nil, &modeleval.ValidationError{
			Field: s.field, Metric: metric,
			Reason: "no probability/outcome pairs",
			Total:  len(s.eval.records), Usable: 0,
		}
	}
	return predictions, outcomes, nil
}

func (s *Selector) calibrationMatcher(typ string, numBins int, pick func(metrics.CalibrationResult) float64) *Matcher {
	predictions, outcomes, err := s.calibrationPairs(typ)
	if err != nil {
		return s.failed(typ, "", err)
	}
	return s.matcher(typ, "", pick(metrics.Calibration(predictions, outcomes, numBins)))
}

func (s *Selector) distributionMatcher(typ, label string, compute func([]float64) float64) *Matcher {
	actual, _ := s.columns()
	filtered := metrics.FilterNumeric(actual)
	if len(filtered) == 0 {
		return s.failed(typ, "", &modeleval.ValidationError{
			Field: s.field, Metric: typ,
			Reason: "no numeric values",
			Total:  len(actual), Usable: 0,
		})
	}
	m := s.matcher(typ, "", compute(filtered))
	m.label = label
	return m
}

func outcomeValue(v metrics.Value) (float64, bool) {
	if f, ok := v.Float(); ok {
		return f, true
	}
	if b, ok := v.Bool(); ok {
		if b {
			return 1, true
		}
		return 0, true
	}
	switch v.Label() {
	case "true":
		return 1, true
	case "false":
		return 0, true
	}
	return 0, false
}
