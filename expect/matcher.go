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
)

// Matcher binds one computed metric scalar, ready for a threshold
// comparison. A matcher whose metric could not be computed carries the error
// instead; its comparators record a failed assertion and keep the chain
// alive.
type Matcher struct {
	sel   *Selector
	typ   string
	label string
	class string
	value float64
	err   error
}

func (s *Selector) matcher(typ, class string, value float64) *Matcher {
	return &Matcher{sel: s, typ: typ, label: typ, class: class, value: value}
}

func (s *Selector) failed(typ, class string, err error) *Matcher {
	return &Matcher{sel: s, typ: typ, label: typ, class: class, err: err}
}

// Value returns the computed metric, or the computation error, without
// recording anything.
func (m *Matcher) Value() (float64, error) {
	return m.value, m.err
}

// ToBeAtLeast asserts metric >= threshold.
func (m *Matcher) ToBeAtLeast(threshold float64) *Selector {
	return m.compare(threshold, "at least", m.value >= threshold)
}

// ToBeAbove asserts metric > threshold.
func (m *Matcher) ToBeAbove(threshold float64) *Selector {
	return m.compare(threshold, "above", m.value > threshold)
}

// ToBeAtMost asserts metric <= threshold.
func (m *Matcher) ToBeAtMost(threshold float64) *Selector {
	return m.compare(threshold, "at most", m.value <= threshold)
}

// ToBeBelow asserts metric < threshold.
func (m *Matcher) ToBeBelow(threshold float64) *Selector {
	return m.compare(threshold, "below", m.value < threshold)
}

// compare records exactly one assertion outcome and returns the originating
// selector so further accessors can chain.
func (m *Matcher) compare(threshold float64, phrase string, passed bool) *Selector {
	if m.err != nil {
		m.sel.eval.fail(m.err)
		m.sel.eval.record(modeleval.AssertionResult{
			Type:    m.typ,
			Passed:  false,
			Message: m.err.Error(),
			Field:   m.sel.field,
			Class:   m.class,
		})
		return m.sel
	}

	name := m.label
	if m.class != "" {
		name = fmt.Sprintf("%s of class %q", m.label, m.class)
	}

	value, want := m.value, threshold
	m.sel.eval.record(modeleval.AssertionResult{
		Type:   m.typ,
		Passed: passed,
		Message: fmt.Sprintf("expected %s of field %q (%.4f) to be %s %.4f",
			name, m.sel.field, value, phrase, threshold),
		Expected: &want,
		Actual:   &value,
		Field:    m.sel.field,
		Class:    m.class,
	})
	return m.sel
}
