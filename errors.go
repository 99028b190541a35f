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

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates the requested resource was not found.
	ErrNotFound = errors.New("modeleval: not found")

	// ErrAlreadyExists indicates the resource already exists.
	ErrAlreadyExists = errors.New("modeleval: already exists")

	// ErrInvalidInput indicates invalid input parameters.
	ErrInvalidInput = errors.New("modeleval: invalid input")
)

// AlignmentError reports predictions whose identifiers have no ground-truth
// counterpart during strict alignment. It names every missing identifier so a
// single run surfaces the full extent of the mismatch.
type AlignmentError struct {
	MissingIDs []string
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("alignment: no ground truth found for %d prediction(s): %s",
		len(e.MissingIDs), strings.Join(e.MissingIDs, ", "))
}

// ValidationError reports a metric request that cannot be satisfied by the
// data present on a field, such as a classification metric with no ground
// truth anywhere, or a percentage metric over zero numeric values. It carries
// the original and usable value counts to diagnose without re-running.
type ValidationError struct {
	Field  string
	Metric string
	Reason string
	Total  int
	Usable int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %q: cannot compute %s: %s (%d of %d values usable)",
		e.Field, e.Metric, e.Reason, e.Usable, e.Total)
}

// UnknownClassError reports a per-class metric request for a class absent
// from the observed label set.
type UnknownClassError struct {
	Field     string
	Class     string
	Available []string
}

func (e *UnknownClassError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("field %q: class %q not found: no classes observed", e.Field, e.Class)
	}
	return fmt.Sprintf("field %q: class %q not found, available classes: %s",
		e.Field, e.Class, strings.Join(e.Available, ", "))
}
