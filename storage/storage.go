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

// Package storage persists evaluation run results.
//
// Three backends are provided: an in-memory store for tests and ephemeral
// runs, a JSON-file directory store, and a SQLite store. All of them share
// the same semantics: run IDs are unique, Save rejects duplicates, and
// lookups of unknown IDs return [modeleval.ErrNotFound].
package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/modeleval"
)

// Storage persists run results keyed by run ID.
type Storage interface {
	// Save stores the result. It fails with [modeleval.ErrAlreadyExists]
	// when a result with the same run ID is already stored, and with
	// [modeleval.ErrInvalidInput] when the run ID is empty.
	Save(ctx context.Context, result *modeleval.RunResult) error

	// Get returns the result with the given run ID, or
	// [modeleval.ErrNotFound].
	Get(ctx context.Context, runID string) (*modeleval.RunResult, error)

	// List returns all stored results, newest first.
	List(ctx context.Context) ([]*modeleval.RunResult, error)

	// Delete removes the result with the given run ID, or returns
	// [modeleval.ErrNotFound] when no such result is stored.
	Delete(ctx context.Context, runID string) error
}

// cloneRun deep-copies a run result so callers can never mutate stored
// state through a returned pointer.
func cloneRun(r *modeleval.RunResult) (*modeleval.RunResult, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("clone run result: %w", err)
	}
	var out modeleval.RunResult
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("clone run result: %w", err)
	}
	return &out, nil
}

func validateRun(r *modeleval.RunResult) error {
	if r == nil || r.RunID == "" {
		return fmt.Errorf("%w: run result must carry a run ID", modeleval.ErrInvalidInput)
	}
	return nil
}
