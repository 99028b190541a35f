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
	"fmt"
	"strconv"
)

// Kind discriminates the variants of a [Value].
type Kind int

const (
	KindMissing Kind = iota
	KindNumber
	KindBoolean
	KindString
)

// Value is the tagged variant used to canonicalize raw record values.
// It replaces scattered type switches with one conversion point for label
// identity and numeric extraction.
type Value struct {
	kind Kind
	num  float64
	b    bool
	s    string
}

// ValueOf canonicalizes an arbitrary record value. nil maps to Missing, all
// numeric Go types (including json.Number) to Number, bool to Boolean, and
// string to String. Anything else is stringified with default formatting and
// treated as String, so pre-labeled values pass through unchanged.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return Value{kind: KindMissing}
	case bool:
		return Value{kind: KindBoolean, b: x}
	case string:
		return Value{kind: KindString, s: x}
	case float64:
		return Value{kind: KindNumber, num: x}
	case float32:
		return Value{kind: KindNumber, num: float64(x)}
	case int:
		return Value{kind: KindNumber, num: float64(x)}
	case int8:
		return Value{kind: KindNumber, num: float64(x)}
	case int16:
		return Value{kind: KindNumber, num: float64(x)}
	case int32:
		return Value{kind: KindNumber, num: float64(x)}
	case int64:
		return Value{kind: KindNumber, num: float64(x)}
	case uint:
		return Value{kind: KindNumber, num: float64(x)}
	case uint8:
		return Value{kind: KindNumber, num: float64(x)}
	case uint16:
		return Value{kind: KindNumber, num: float64(x)}
	case uint32:
		return Value{kind: KindNumber, num: float64(x)}
	case uint64:
		return Value{kind: KindNumber, num: float64(x)}
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return Value{kind: KindNumber, num: f}
		}
		return Value{kind: KindString, s: x.String()}
	default:
		return Value{kind: KindString, s: fmt.Sprintf("%v", v)}
	}
}

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether the value is absent (nil in the source record).
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Float returns the numeric value and true when the value is a Number.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Bool returns the boolean value and true when the value is a Boolean.
func (v Value) Bool() (bool, bool) {
	if v.kind != KindBoolean {
		return false, false
	}
	return v.b, true
}

// Label returns the canonical string identity of the value: "true"/"false"
// for booleans, shortest round-trip formatting for numbers, and the string
// itself otherwise. Label on a Missing value returns the empty string;
// callers drop missing values before labeling.
func (v Value) Label() string {
	switch v.kind {
	case KindBoolean:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindString:
		return v.s
	default:
		return ""
	}
}
