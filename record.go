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

package modeleval

// Record is one prediction or ground-truth row: arbitrary fields keyed by
// name, one of which carries the record identifier.
type Record map[string]any

// AlignedRecord pairs one prediction with its ground-truth counterpart.
// Actual holds the prediction fields, Expected the ground-truth fields.
// Either map may omit fields; an absent field reads as nil. An AlignedRecord
// is created once per evaluation call and never mutated afterwards.
type AlignedRecord struct {
	ID       string         `json:"id"`
	Actual   map[string]any `json:"actual"`
	Expected map[string]any `json:"expected"`
}

// ActualValue returns the prediction-side value of the named field, or nil
// when the field is absent.
func (r AlignedRecord) ActualValue(field string) any {
	return r.Actual[field]
}

// ExpectedValue returns the ground-truth-side value of the named field, or
// nil when the field is absent.
func (r AlignedRecord) ExpectedValue(field string) any {
	return r.Expected[field]
}
