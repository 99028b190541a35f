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

// ClassMetrics holds the per-label classification ratios. Each ratio is in
// [0,1]; Support is the count of ground-truth instances of the label.
type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// ClassificationMetrics aggregates classification quality over a confusion
// matrix: overall accuracy, per-class metrics, and macro/weighted averages.
type ClassificationMetrics struct {
	Accuracy float64                 `json:"accuracy"`
	PerClass map[string]ClassMetrics `json:"per_class"`

	// MacroAvg is the unweighted mean of each per-class metric over all
	// labels. WeightedAvg weights each label's metric by its support.
	// Their Support fields both carry the total support.
	MacroAvg    ClassMetrics `json:"macro_avg"`
	WeightedAvg ClassMetrics `json:"weighted_avg"`

	ConfusionMatrix ConfusionMatrix `json:"confusion_matrix"`
}

// Classification derives classification metrics from a confusion matrix.
//
// For label L: tp is the diagonal cell, fp the rest of L's column, fn the
// rest of L's row. precision = tp/(tp+fp) and recall = tp/(tp+fn), both 0
// when their denominator is 0; f1 = 2pr/(p+r), 0 when p+r is 0. These rules
// hold for any label-set size, including 0 and 1.
func Classification(cm ConfusionMatrix) ClassificationMetrics {
	m := ClassificationMetrics{
		PerClass:        make(map[string]ClassMetrics, len(cm.Labels)),
		ConfusionMatrix: cm,
	}

	diagonal := 0
	for i, label := range cm.Labels {
		tp := cm.Matrix[i][i]
		diagonal += tp

		fp, fn := 0, 0
		for r := range cm.Labels {
			if r != i {
				fp += cm.Matrix[r][i]
				fn += cm.Matrix[i][r]
			}
		}

		precision := ratio(float64(tp), float64(tp+fp))
		recall := ratio(float64(tp), float64(tp+fn))

		m.PerClass[label] = ClassMetrics{
			Precision: precision,
			Recall:    recall,
			F1:        ratio(2*precision*recall, precision+recall),
			Support:   cm.Support(i),
		}
	}

	m.Accuracy = ratio(float64(diagonal), float64(cm.Total))

	totalSupport := 0
	for i := range cm.Labels {
		totalSupport += cm.Support(i)
	}

	for _, label := range cm.Labels {
		c := m.PerClass[label]
		m.MacroAvg.Precision += c.Precision
		m.MacroAvg.Recall += c.Recall
		m.MacroAvg.F1 += c.F1
		m.WeightedAvg.Precision += c.Precision * float64(c.Support)
		m.WeightedAvg.Recall += c.Recall * float64(c.Support)
		m.WeightedAvg.F1 += c.F1 * float64(c.Support)
	}
	if n := len(cm.Labels); n > 0 {
		m.MacroAvg.Precision /= float64(n)
		m.MacroAvg.Recall /= float64(n)
		m.MacroAvg.F1 /= float64(n)
	}
	if totalSupport > 0 {
		m.WeightedAvg.Precision /= float64(totalSupport)
		m.WeightedAvg.Recall /= float64(totalSupport)
		m.WeightedAvg.F1 /= float64(totalSupport)
	}
	m.MacroAvg.Support = totalSupport
	m.WeightedAvg.Support = totalSupport

	return m
}

// ClassificationFor is shorthand for building the confusion matrix from raw
// value sequences and deriving metrics from it.
func ClassificationFor(actual, expected []any) ClassificationMetrics {
	return Classification(BuildConfusionMatrix(actual, expected))
}

// ratio returns num/den, defined as 0 when the denominator is 0.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
