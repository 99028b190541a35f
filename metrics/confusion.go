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

import "sort"

// ConfusionMatrix is a label × label count grid of how often each
// ground-truth label was predicted as each label.
//
// Invariants: the sum of all cells equals Total, and the sum of row i equals
// the support of Labels[i].
type ConfusionMatrix struct {
	// Labels are the distinct observed labels, lexicographically sorted.
	// The same indices apply to both matrix dimensions.
	Labels []string `json:"labels"`

	// Matrix[expected][actual] counts pairs whose ground truth was
	// Labels[expected] and whose prediction was Labels[actual].
	Matrix [][]int `json:"matrix"`

	// Total is the number of pairs counted, after dropping pairs with a
	// missing side.
	Total int `json:"total"`
}

// BuildConfusionMatrix builds a confusion matrix from two parallel raw-value
// sequences. Pairs where either side is missing are dropped. Remaining
// values are canonicalized to label strings via [Value.Label]. Empty input
// yields an empty matrix with no labels and Total 0.
func BuildConfusionMatrix(actual, expected []any) ConfusionMatrix {
	n := len(actual)
	if len(expected) < n {
		n = len(expected)
	}

	type pair struct{ actual, expected string }
	pairs := make([]pair, 0, n)
	seen := map[string]bool{}

	for i := 0; i < n; i++ {
		av := ValueOf(actual[i])
		ev := ValueOf(expected[i])
		if av.IsMissing() || ev.IsMissing() {
			continue
		}
		p := pair{actual: av.Label(), expected: ev.Label()}
		pairs = append(pairs, p)
		seen[p.actual] = true
		seen[p.expected] = true
	}

	if len(pairs) == 0 {
		return ConfusionMatrix{Labels: []string{}, Matrix: [][]int{}}
	}

	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	index := make(map[string]int, len(labels))
	for i, label := range labels {
		index[label] = i
	}

	matrix := make([][]int, len(labels))
	for i := range matrix {
		matrix[i] = make([]int, len(labels))
	}
	for _, p := range pairs {
		matrix[index[p.expected]][index[p.actual]]++
	}

	return ConfusionMatrix{Labels: labels, Matrix: matrix, Total: len(pairs)}
}

// Support returns the number of ground-truth instances of the label at row i.
func (cm ConfusionMatrix) Support(i int) int {
	sum := 0
	for _, c := range cm.Matrix[i] {
		sum += c
	}
	return sum
}

// Index returns the position of the label, or -1 when unobserved.
func (cm ConfusionMatrix) Index(label string) int {
	for i, l := range cm.Labels {
		if l == label {
			return i
		}
	}
	return -1
}
