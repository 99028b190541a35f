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
)

const epsilon = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestClassificationPerfectPredictions(t *testing.T) {
	actual := []any{"pos", "neg", "pos", "neu"}
	expected := []any{"pos", "neg", "pos", "neu"}

	m := ClassificationFor(actual, expected)

	if !approxEqual(m.Accuracy, 1.0) {
		t.Errorf("Accuracy = %v, want 1.0", m.Accuracy)
	}
	for label, c := range m.PerClass {
		if !approxEqual(c.Precision, 1.0) || !approxEqual(c.Recall, 1.0) || !approxEqual(c.F1, 1.0) {
			t.Errorf("PerClass[%q] = %+v, want all 1.0", label, c)
		}
	}
}

func TestClassificationPerClass(t *testing.T) {
	// expected: a a a b b, actual: a a b b a
	actual := []any{"a", "a", "b", "b", "a"}
	expected := []any{"a", "a", "a", "b", "b"}

	m := ClassificationFor(actual, expected)

	// accuracy: 3 of 5 on the diagonal
	if want := 3.0 / 5.0; !approxEqual(m.Accuracy, want) {
		t.Errorf("Accuracy = %v, want %v", m.Accuracy, want)
	}

	// class a: tp=2, fp=1 (b predicted as a), fn=1 (a predicted as b)
	a := m.PerClass["a"]
	if want := 2.0 / 3.0; !approxEqual(a.Precision, want) {
		t.Errorf("a.Precision = %v, want %v", a.Precision, want)
	}
	if want := 2.0 / 3.0; !approxEqual(a.Recall, want) {
		t.Errorf("a.Recall = %v, want %v", a.Recall, want)
	}
	if a.Support != 3 {
		t.Errorf("a.Support = %d, want 3", a.Support)
	}

	// class b: tp=1, fp=1, fn=1
	b := m.PerClass["b"]
	if want := 0.5; !approxEqual(b.Precision, want) {
		t.Errorf("b.Precision = %v, want %v", b.Precision, want)
	}
	if want := 0.5; !approxEqual(b.Recall, want) {
		t.Errorf("b.Recall = %v, want %v", b.Recall, want)
	}
	if b.Support != 2 {
		t.Errorf("b.Support = %d, want 2", b.Support)
	}
}

func TestClassificationAverages(t *testing.T) {
	actual := []any{"a", "a", "b", "b", "a"}
	expected := []any{"a", "a", "a", "b", "b"}

	m := ClassificationFor(actual, expected)

	var macroP, weightedP float64
	totalSupport := 0
	for _, c := range m.PerClass {
		macroP += c.Precision
		weightedP += c.Precision * float64(c.Support)
		totalSupport += c.Support
	}
	macroP /= float64(len(m.PerClass))
	weightedP /= float64(totalSupport)

	if !approxEqual(m.MacroAvg.Precision, macroP) {
		t.Errorf("MacroAvg.Precision = %v, want %v", m.MacroAvg.Precision, macroP)
	}
	if !approxEqual(m.WeightedAvg.Precision, weightedP) {
		t.Errorf("WeightedAvg.Precision = %v, want %v", m.WeightedAvg.Precision, weightedP)
	}
	if m.MacroAvg.Support != totalSupport || m.WeightedAvg.Support != totalSupport {
		t.Errorf("average Support = %d/%d, want %d",
			m.MacroAvg.Support, m.WeightedAvg.Support, totalSupport)
	}
}

func TestClassificationZeroDivision(t *testing.T) {
	// Label "b" is never predicted, so its precision denominator is 0.
	actual := []any{"a", "a", "a"}
	expected := []any{"a", "b", "b"}

	m := ClassificationFor(actual, expected)

	b := m.PerClass["b"]
	if b.Precision != 0 || b.Recall != 0 || b.F1 != 0 {
		t.Errorf("PerClass[b] = %+v, want all zeros", b)
	}

	// f1 = 0 exactly when precision+recall = 0
	for label, c := range m.PerClass {
		zeroPR := c.Precision+c.Recall == 0
		if zeroPR != (c.F1 == 0) {
			t.Errorf("PerClass[%q]: f1 = %v with precision+recall = %v",
				label, c.F1, c.Precision+c.Recall)
		}
	}
}

func TestClassificationRatiosInRange(t *testing.T) {
	actual := []any{"x", "y", "z", "x", "y", "z", "x"}
	expected := []any{"y", "y", "x", "x", "z", "z", "x"}

	m := ClassificationFor(actual, expected)
	for label, c := range m.PerClass {
		for name, v := range map[string]float64{"precision": c.Precision, "recall": c.Recall, "f1": c.F1} {
			if v < 0 || v > 1 {
				t.Errorf("PerClass[%q].%s = %v, out of [0,1]", label, name, v)
			}
		}
	}
}

func TestClassificationEmpty(t *testing.T) {
	m := ClassificationFor(nil, nil)

	if m.Accuracy != 0 {
		t.Errorf("Accuracy = %v, want 0", m.Accuracy)
	}
	if len(m.PerClass) != 0 {
		t.Errorf("PerClass has %d entries, want 0", len(m.PerClass))
	}
	if m.MacroAvg.Precision != 0 || m.WeightedAvg.Precision != 0 {
		t.Errorf("averages = %+v / %+v, want zeros", m.MacroAvg, m.WeightedAvg)
	}
}

func TestClassificationSingleLabel(t *testing.T) {
	m := ClassificationFor([]any{"only", "only"}, []any{"only", "only"})

	if !approxEqual(m.Accuracy, 1.0) {
		t.Errorf("Accuracy = %v, want 1.0", m.Accuracy)
	}
	c := m.PerClass["only"]
	if !approxEqual(c.Precision, 1.0) || !approxEqual(c.Recall, 1.0) || c.Support != 2 {
		t.Errorf("PerClass[only] = %+v, want precision/recall 1.0 support 2", c)
	}
	if !approxEqual(m.MacroAvg.F1, 1.0) || !approxEqual(m.WeightedAvg.F1, 1.0) {
		t.Errorf("average F1 = %v / %v, want 1.0", m.MacroAvg.F1, m.WeightedAvg.F1)
	}
}
