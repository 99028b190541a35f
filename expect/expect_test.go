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
	"math"
	"strings"
	"testing"

	"google.golang.org/modeleval"
)

func classificationRecords() []modeleval.AlignedRecord {
	// Four of five sentiment predictions match.
	labels := [][2]string{
		{"pos", "pos"},
		{"neg", "neg"},
		{"pos", "neg"},
		{"pos", "pos"},
		{"neg", "neg"},
	}
	records := make([]modeleval.AlignedRecord, len(labels))
	for i, l := range labels {
		records[i] = modeleval.AlignedRecord{
			ID:       string(rune('1' + i)),
			Actual:   map[string]any{"sentiment": l[0]},
			Expected: map[string]any{"sentiment": l[1]},
		}
	}
	return records
}

func TestAccuracyChain(t *testing.T) {
	ev := New(classificationRecords())

	ev.Field("sentiment").
		Accuracy().ToBeAtLeast(0.8).
		Accuracy().ToBeAtLeast(0.9)

	results := ev.Results()
	if len(results) != 2 {
		t.Fatalf("recorded %d results, want 2", len(results))
	}
	if !results[0].Passed {
		t.Errorf("first assertion failed: %s", results[0].Message)
	}
	if results[1].Passed {
		t.Errorf("second assertion passed, want failure: %s", results[1].Message)
	}
	if *results[1].Actual != 0.8 || *results[1].Expected != 0.9 {
		t.Errorf("actual/expected = %v/%v, want 0.8/0.9",
			*results[1].Actual, *results[1].Expected)
	}
	if err := ev.Err(); err != nil {
		t.Errorf("Err() = %v, want nil for a plain failed comparison", err)
	}
}

func TestComparators(t *testing.T) {
	tests := []struct {
		name       string
		assert     func(m *Matcher) *Selector
		wantPassed bool
	}{
		{name: "at least equal passes", assert: func(m *Matcher) *Selector { return m.ToBeAtLeast(0.8) }, wantPassed: true},
		{name: "above equal fails", assert: func(m *Matcher) *Selector { return m.ToBeAbove(0.8) }, wantPassed: false},
		{name: "at most equal passes", assert: func(m *Matcher) *Selector { return m.ToBeAtMost(0.8) }, wantPassed: true},
		{name: "below equal fails", assert: func(m *Matcher) *Selector { return m.ToBeBelow(0.8) }, wantPassed: false},
		{name: "above lower passes", assert: func(m *Matcher) *Selector { return m.ToBeAbove(0.7) }, wantPassed: true},
		{name: "below higher passes", assert: func(m *Matcher) *Selector { return m.ToBeBelow(0.9) }, wantPassed: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ev := New(classificationRecords())
			tc.assert(ev.Field("sentiment").Accuracy())

			results := ev.Results()
			if len(results) != 1 {
				t.Fatalf("recorded %d results, want 1", len(results))
			}
			got := results[0]
			if got.Passed != tc.wantPassed {
				t.Errorf("Passed = %v, want %v (%s)", got.Passed, tc.wantPassed, got.Message)
			}

			// The recorded outcome must be reproducible from its own fields.
			if got.Actual == nil || got.Expected == nil {
				t.Fatal("recorded result is missing actual/expected")
			}
		})
	}
}

func TestPerClassMetrics(t *testing.T) {
	ev := New(classificationRecords())

	// pos: tp=2, fp=1, fn=0; neg: tp=2, fp=0, fn=1
	value, err := ev.Field("sentiment").Precision("pos").Value()
	if err != nil {
		t.Fatalf("Precision(pos) error: %v", err)
	}
	if want := 2.0 / 3.0; math.Abs(value-want) > 1e-9 {
		t.Errorf("Precision(pos) = %v, want %v", value, want)
	}

	value, err = ev.Field("sentiment").Recall("neg").Value()
	if err != nil {
		t.Fatalf("Recall(neg) error: %v", err)
	}
	if want := 2.0 / 3.0; math.Abs(value-want) > 1e-9 {
		t.Errorf("Recall(neg) = %v, want %v", value, want)
	}
}

func TestUnknownClass(t *testing.T) {
	ev := New(classificationRecords())

	ev.Field("sentiment").F1("neutral").ToBeAtLeast(0.5)

	results := ev.Results()
	if len(results) != 1 || results[0].Passed {
		t.Fatalf("results = %+v, want one failed assertion", results)
	}

	var classErr *modeleval.UnknownClassError
	if err := ev.Err(); !errors.As(err, &classErr) {
		t.Fatalf("Err() = %v, want UnknownClassError", err)
	}
	if classErr.Class != "neutral" {
		t.Errorf("Class = %q, want neutral", classErr.Class)
	}
	for _, available := range []string{"neg", "pos"} {
		if !strings.Contains(classErr.Error(), available) {
			t.Errorf("error %q does not name available class %q", classErr, available)
		}
	}
}

func TestMissingGroundTruth(t *testing.T) {
	records := []modeleval.AlignedRecord{
		{ID: "1", Actual: map[string]any{"score": 0.4}, Expected: map[string]any{}},
		{ID: "2", Actual: map[string]any{"score": 0.9}, Expected: map[string]any{}},
	}
	ev := New(records)

	assertions := []func(s *Selector) *Matcher{
		func(s *Selector) *Matcher { return s.Accuracy() },
		func(s *Selector) *Matcher { return s.Precision() },
		func(s *Selector) *Matcher { return s.Recall() },
		func(s *Selector) *Matcher { return s.F1() },
	}
	for _, access := range assertions {
		access(ev.Field("score")).ToBeAtLeast(0.5)
	}

	results := ev.Results()
	if len(results) != len(assertions) {
		t.Fatalf("recorded %d results, want %d", len(results), len(assertions))
	}
	for _, r := range results {
		if r.Passed {
			t.Errorf("%s: passed without ground truth", r.Type)
		}
		if !strings.Contains(r.Message, "score") {
			t.Errorf("%s: message %q does not name the field", r.Type, r.Message)
		}
	}

	var valErr *modeleval.ValidationError
	if err := ev.Err(); !errors.As(err, &valErr) {
		t.Fatalf("Err() = %v, want ValidationError", err)
	}
}

func TestChainSurvivesErrors(t *testing.T) {
	ev := New(classificationRecords())

	// A failing lookup must not poison the assertions that follow.
	ev.Field("sentiment").
		F1("nope").ToBeAtLeast(0.5).
		Accuracy().ToBeAtLeast(0.5)

	results := ev.Results()
	if len(results) != 2 {
		t.Fatalf("recorded %d results, want 2", len(results))
	}
	if results[0].Passed {
		t.Error("unknown-class assertion passed")
	}
	if !results[1].Passed {
		t.Errorf("follow-up accuracy assertion failed: %s", results[1].Message)
	}
}

func TestBinarizedChain(t *testing.T) {
	records := []modeleval.AlignedRecord{
		{ID: "1", Actual: map[string]any{"score": 0.9}, Expected: map[string]any{"score": true}},
		{ID: "2", Actual: map[string]any{"score": 0.3}, Expected: map[string]any{"score": false}},
		{ID: "3", Actual: map[string]any{"score": 0.7}, Expected: map[string]any{"score": true}},
		{ID: "4", Actual: map[string]any{"score": 0.1}, Expected: map[string]any{"score": false}},
	}

	ev := New(records)
	value, err := ev.Field("score").Binarize(0.5).Accuracy().Value()
	if err != nil {
		t.Fatalf("binarized accuracy error: %v", err)
	}
	if value != 1.0 {
		t.Errorf("accuracy at 0.5 = %v, want 1.0", value)
	}

	value, err = ev.Field("score").Binarize(0.8).Accuracy().Value()
	if err != nil {
		t.Fatalf("binarized accuracy error: %v", err)
	}
	if value != 0.75 {
		t.Errorf("accuracy at 0.8 = %v, want 0.75", value)
	}
}

func TestRegressionChain(t *testing.T) {
	records := []modeleval.AlignedRecord{
		{ID: "1", Actual: map[string]any{"rating": 4.0}, Expected: map[string]any{"rating": 5.0}},
		{ID: "2", Actual: map[string]any{"rating": 2.0}, Expected: map[string]any{"rating": 2.0}},
		{ID: "3", Actual: map[string]any{"rating": 3.0}, Expected: map[string]any{"rating": 2.0}},
	}
	ev := New(records)

	mae, err := ev.Field("rating").MAE().Value()
	if err != nil {
		t.Fatalf("MAE error: %v", err)
	}
	if want := 2.0 / 3.0; math.Abs(mae-want) > 1e-9 {
		t.Errorf("MAE = %v, want %v", mae, want)
	}

	r2, err := ev.Field("rating").R2().Value()
	if err != nil {
		t.Fatalf("R2 error: %v", err)
	}
	if r2 > 1 {
		t.Errorf("R2 = %v, want <= 1", r2)
	}
}

func TestRegressionValidation(t *testing.T) {
	records := []modeleval.AlignedRecord{
		{ID: "1", Actual: map[string]any{"rating": "high"}, Expected: map[string]any{"rating": 5.0}},
	}
	ev := New(records)

	_, err := ev.Field("rating").MAE().Value()
	var valErr *modeleval.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("MAE error = %v, want ValidationError", err)
	}
	if valErr.Field != "rating" || valErr.Usable != 0 {
		t.Errorf("ValidationError = %+v, want field rating with 0 usable", valErr)
	}

	// Mismatched numeric counts: one side drops a non-numeric value.
	records = []modeleval.AlignedRecord{
		{ID: "1", Actual: map[string]any{"rating": 4.0}, Expected: map[string]any{"rating": 5.0}},
		{ID: "2", Actual: map[string]any{"rating": "n/a"}, Expected: map[string]any{"rating": 2.0}},
	}
	_, err = New(records).Field("rating").MAE().Value()
	if !errors.As(err, &valErr) {
		t.Fatalf("MAE error = %v, want ValidationError for mismatched counts", err)
	}
}

func TestDistributionChain(t *testing.T) {
	records := make([]modeleval.AlignedRecord, 0, 5)
	for _, v := range []float64{0.1, 0.2, 0.3, 0.8, 0.9} {
		records = append(records, modeleval.AlignedRecord{
			Actual:   map[string]any{"confidence": v},
			Expected: map[string]any{},
		})
	}
	ev := New(records)

	value, err := ev.Field("confidence").PercentBelowOrEqual(0.5).Value()
	if err != nil {
		t.Fatalf("PercentBelowOrEqual error: %v", err)
	}
	if math.Abs(value-0.6) > 1e-9 {
		t.Errorf("PercentBelowOrEqual(0.5) = %v, want 0.6", value)
	}

	value, err = ev.Field("confidence").PercentAbove(0.5).Value()
	if err != nil {
		t.Fatalf("PercentAbove error: %v", err)
	}
	if math.Abs(value-0.4) > 1e-9 {
		t.Errorf("PercentAbove(0.5) = %v, want 0.4", value)
	}
}

func TestDistributionEmptyRejected(t *testing.T) {
	records := []modeleval.AlignedRecord{
		{Actual: map[string]any{"confidence": "low"}, Expected: map[string]any{}},
	}
	ev := New(records)

	ev.Field("confidence").PercentAbove(0.5).ToBeAtLeast(0.1)

	var valErr *modeleval.ValidationError
	if err := ev.Err(); !errors.As(err, &valErr) {
		t.Fatalf("Err() = %v, want ValidationError", err)
	}
	if valErr.Total != 1 || valErr.Usable != 0 {
		t.Errorf("counts = %d/%d, want 1 original, 0 filtered", valErr.Total, valErr.Usable)
	}
}

func TestCalibrationChain(t *testing.T) {
	records := []modeleval.AlignedRecord{
		{Actual: map[string]any{"p": 0.8}, Expected: map[string]any{"p": true}},
		{Actual: map[string]any{"p": 0.4}, Expected: map[string]any{"p": false}},
	}
	ev := New(records)

	brier, err := ev.Field("p").Brier().Value()
	if err != nil {
		t.Fatalf("Brier error: %v", err)
	}
	if math.Abs(brier-0.1) > 1e-9 {
		t.Errorf("Brier = %v, want 0.1", brier)
	}

	if _, err := ev.Field("p").ECE(10).Value(); err != nil {
		t.Errorf("ECE error: %v", err)
	}
}

func TestShowConfusionMatrix(t *testing.T) {
	ev := New(classificationRecords())

	ev.Field("sentiment").ShowConfusionMatrix()

	fms := ev.FieldMetrics()
	if len(fms) != 1 {
		t.Fatalf("recorded %d field metrics, want 1", len(fms))
	}
	if fms[0].Field != "sentiment" || fms[0].Binarized {
		t.Errorf("FieldMetricResult = %+v, want sentiment, not binarized", fms[0])
	}
	if len(ev.Results()) != 0 {
		t.Errorf("display op recorded %d assertions, want 0", len(ev.Results()))
	}

	ev.Field("sentiment").Binarize(0.5).ShowConfusionMatrix()
	fms = ev.FieldMetrics()
	if len(fms) != 2 || !fms[1].Binarized || *fms[1].BinarizeThreshold != 0.5 {
		t.Errorf("binarized FieldMetricResult = %+v", fms[len(fms)-1])
	}
}

func TestRecorderBracket(t *testing.T) {
	rec := NewRecorder()
	ctx := NewContext(context.Background(), rec)

	ev := New(classificationRecords(), WithContext(ctx))
	ev.Field("sentiment").Accuracy().ToBeAtLeast(0.5)

	if got := rec.Assertions(); len(got) != 1 {
		t.Fatalf("recorder has %d assertions, want 1", len(got))
	}

	// Without a bracket, recording is local to the Eval only.
	loose := New(classificationRecords(), WithContext(context.Background()))
	loose.Field("sentiment").Accuracy().ToBeAtLeast(0.5)
	if got := rec.Assertions(); len(got) != 1 {
		t.Errorf("loose eval leaked into recorder: %d assertions", len(got))
	}
}

func TestRecorderErr(t *testing.T) {
	rec := NewRecorder()
	ev := New(classificationRecords(), WithRecorder(rec))

	ev.Field("sentiment").Accuracy().ToBeAtLeast(0.5)
	if err := rec.Err(); err != nil {
		t.Fatalf("Err() = %v after a passing batch", err)
	}

	ev.Field("sentiment").Accuracy().ToBeAtLeast(0.99)
	err := rec.Err()
	if err == nil {
		t.Fatal("Err() = nil after a failed assertion")
	}
	if !strings.Contains(err.Error(), "accuracy") {
		t.Errorf("Err() = %q, does not name the failed metric", err)
	}

	rec.Reset()
	if err := rec.Err(); err != nil {
		t.Errorf("Err() = %v after Reset", err)
	}
}

func TestEveryInvocationRecordsExactlyOne(t *testing.T) {
	ev := New(classificationRecords())

	ev.Field("sentiment").
		Accuracy().ToBeAtLeast(0.1).
		Precision("pos").ToBeAbove(0.1).
		Recall("neg").ToBeAtMost(1.0).
		F1().ToBeBelow(1.1)

	results := ev.Results()
	if len(results) != 4 {
		t.Fatalf("recorded %d results, want 4", len(results))
	}
	wantTypes := []string{"accuracy", "precision", "recall", "f1"}
	for i, r := range results {
		if r.Type != wantTypes[i] {
			t.Errorf("results[%d].Type = %q, want %q", i, r.Type, wantTypes[i])
		}
		if !r.Passed {
			t.Errorf("%s: failed: %s", r.Type, r.Message)
		}
		if r.Actual == nil || r.Expected == nil {
			t.Errorf("%s: missing recorded values", r.Type)
		}
	}
}
