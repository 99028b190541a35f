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

package runner

import (
	"context"
	"errors"
	"math"
	"testing"

	"google.golang.org/modeleval"
	"google.golang.org/modeleval/expect"
	"google.golang.org/modeleval/storage"
)

func alignedRecords() []modeleval.AlignedRecord {
	labels := [][2]string{
		{"pos", "pos"},
		{"neg", "neg"},
		{"pos", "neg"},
		{"pos", "pos"},
	}
	records := make([]modeleval.AlignedRecord, len(labels))
	for i, l := range labels {
		records[i] = modeleval.AlignedRecord{
			ID:       string(rune('1' + i)),
			Actual:   map[string]any{"label": l[0]},
			Expected: map[string]any{"label": l[1]},
		}
	}
	return records
}

func TestRunPassAndFail(t *testing.T) {
	store := storage.NewMemory()
	r := New(alignedRecords(), Config{Storage: store})

	suite := Suite{
		Name: "release",
		Tests: []Test{
			{
				Name: "loose gate",
				Fn: func(ctx context.Context, ev *expect.Eval) error {
					ev.Field("label").Accuracy().ToBeAtLeast(0.5)
					return nil
				},
			},
			{
				Name: "tight gate",
				Fn: func(ctx context.Context, ev *expect.Eval) error {
					ev.Field("label").Accuracy().ToBeAtLeast(0.99)
					return nil
				},
			},
		},
	}

	result, err := r.Run(context.Background(), suite)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if result.RunID == "" {
		t.Error("RunID is empty")
	}
	if result.Status != modeleval.StatusFailed {
		t.Errorf("Status = %v, want FAILED", result.Status)
	}
	if result.Tests[0].Status != modeleval.StatusPassed {
		t.Errorf("loose gate status = %v, want PASSED", result.Tests[0].Status)
	}
	if result.Tests[1].Status != modeleval.StatusFailed {
		t.Errorf("tight gate status = %v, want FAILED", result.Tests[1].Status)
	}
	if want := 0.5; math.Abs(result.OverallScore-want) > 1e-9 {
		t.Errorf("OverallScore = %v, want %v", result.OverallScore, want)
	}

	persisted, err := store.Get(context.Background(), result.RunID)
	if err != nil {
		t.Fatalf("run was not persisted: %v", err)
	}
	if len(persisted.Tests) != 2 {
		t.Errorf("persisted %d tests, want 2", len(persisted.Tests))
	}
}

func TestRunErroredTest(t *testing.T) {
	r := New(alignedRecords(), Config{})

	suite := Suite{
		Name: "release",
		Tests: []Test{{
			Name: "broken",
			Fn: func(ctx context.Context, ev *expect.Eval) error {
				return errors.New("dataset exploded")
			},
		}},
	}

	result, err := r.Run(context.Background(), suite)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if result.Status != modeleval.StatusError {
		t.Errorf("Status = %v, want ERROR", result.Status)
	}
	if result.Tests[0].ErrorMessage != "dataset exploded" {
		t.Errorf("ErrorMessage = %q", result.Tests[0].ErrorMessage)
	}
}

func TestRunContextCarriesRecorder(t *testing.T) {
	r := New(alignedRecords(), Config{})

	// A helper that only receives the context can still record into the
	// test's bracket.
	helper := func(ctx context.Context, records []modeleval.AlignedRecord) {
		ev := expect.New(records, expect.WithContext(ctx))
		ev.Field("label").Accuracy().ToBeAtLeast(0.5)
	}

	suite := Suite{
		Name: "release",
		Tests: []Test{{
			Name: "delegated",
			Fn: func(ctx context.Context, ev *expect.Eval) error {
				helper(ctx, alignedRecords())
				return nil
			},
		}},
	}

	result, err := r.Run(context.Background(), suite)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(result.Tests[0].Assertions) != 1 {
		t.Fatalf("recorded %d assertions via context, want 1", len(result.Tests[0].Assertions))
	}
}

func TestRunParallelIsolation(t *testing.T) {
	r := New(alignedRecords(), Config{Parallelism: 4})

	var tests []Test
	for range 8 {
		tests = append(tests, Test{
			Name: "isolated",
			Fn: func(ctx context.Context, ev *expect.Eval) error {
				ev.Field("label").Accuracy().ToBeAtLeast(0.1)
				return nil
			},
		})
	}

	result, err := r.Run(context.Background(), Suite{Name: "parallel", Tests: tests})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	for i, tr := range result.Tests {
		if len(tr.Assertions) != 1 {
			t.Errorf("test %d recorded %d assertions, want exactly its own 1", i, len(tr.Assertions))
		}
		if tr.Status != modeleval.StatusPassed {
			t.Errorf("test %d status = %v, want PASSED", i, tr.Status)
		}
	}
}

func TestRunEmptySuite(t *testing.T) {
	r := New(alignedRecords(), Config{})

	result, err := r.Run(context.Background(), Suite{Name: "empty"})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if result.Status != modeleval.StatusPassed {
		t.Errorf("Status = %v, want PASSED", result.Status)
	}
	if result.OverallScore != 1.0 {
		t.Errorf("OverallScore = %v, want 1.0", result.OverallScore)
	}
}
