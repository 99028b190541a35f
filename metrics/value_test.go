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
	"encoding/json"
	"testing"
)

func TestValueOf(t *testing.T) {
	tests := []struct {
		name      string
		in        any
		wantKind  Kind
		wantLabel string
	}{
		{name: "nil is missing", in: nil, wantKind: KindMissing, wantLabel: ""},
		{name: "bool true", in: true, wantKind: KindBoolean, wantLabel: "true"},
		{name: "bool false", in: false, wantKind: KindBoolean, wantLabel: "false"},
		{name: "string", in: "positive", wantKind: KindString, wantLabel: "positive"},
		{name: "float", in: 0.5, wantKind: KindNumber, wantLabel: "0.5"},
		{name: "whole float has no decimal point", in: 1.0, wantKind: KindNumber, wantLabel: "1"},
		{name: "int", in: 7, wantKind: KindNumber, wantLabel: "7"},
		{name: "json number", in: json.Number("2.5"), wantKind: KindNumber, wantLabel: "2.5"},
		{name: "other types stringify", in: []int{1}, wantKind: KindString, wantLabel: "[1]"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := ValueOf(tc.in)
			if v.Kind() != tc.wantKind {
				t.Errorf("Kind() = %v, want %v", v.Kind(), tc.wantKind)
			}
			if got := v.Label(); got != tc.wantLabel {
				t.Errorf("Label() = %q, want %q", got, tc.wantLabel)
			}
		})
	}
}

func TestValueFloat(t *testing.T) {
	if f, ok := ValueOf(3).Float(); !ok || f != 3 {
		t.Errorf("Float() = %v, %v; want 3, true", f, ok)
	}
	if _, ok := ValueOf("3").Float(); ok {
		t.Error("Float() on a string reported ok")
	}
	if _, ok := ValueOf(nil).Float(); ok {
		t.Error("Float() on missing reported ok")
	}
}
