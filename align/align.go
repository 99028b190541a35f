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

// Package align pairs prediction records with ground-truth records by
// identifier, producing the aligned set every metric computation consumes.
package align

import (
	"fmt"

	"google.golang.org/modeleval"
	"google.golang.org/modeleval/metrics"
)

// DefaultIDField is the identifier field tried first on every record;
// FallbackIDField is tried when it is absent.
const (
	DefaultIDField  = "id"
	FallbackIDField = "_id"
)

type config struct {
	predictionIDField  string
	groundTruthIDField string
	strict             bool
}

// Option configures alignment.
type Option func(*config)

// WithPredictionIDField sets the identifier field read from prediction
// records instead of the "id"/"_id" defaults.
func WithPredictionIDField(field string) Option {
	return func(cfg *config) { cfg.predictionIDField = field }
}

// WithGroundTruthIDField sets the identifier field read from ground-truth
// records instead of the "id"/"_id" defaults.
func WithGroundTruthIDField(field string) Option {
	return func(cfg *config) { cfg.groundTruthIDField = field }
}

// WithIDField sets the identifier field for both sides at once. It is kept
// for callers that key predictions and ground truth identically; the
// per-side options take precedence when combined.
func WithIDField(field string) Option {
	return func(cfg *config) {
		if cfg.predictionIDField == "" {
			cfg.predictionIDField = field
		}
		if cfg.groundTruthIDField == "" {
			cfg.groundTruthIDField = field
		}
	}
}

// WithStrict controls handling of predictions without a ground-truth match.
// Lenient mode (the default) keeps such predictions with an empty Expected
// map. Strict mode excludes them and, after processing all predictions,
// fails with one error naming every missing identifier.
func WithStrict(strict bool) Option {
	return func(cfg *config) { cfg.strict = strict }
}

// Align pairs each prediction with the ground-truth record carrying the same
// identifier. Duplicate identifiers on the ground-truth side resolve to the
// last occurrence. Output preserves prediction order. A record with an empty
// or missing identifier is fatal in both modes.
func Align(predictions, groundTruth []modeleval.Record, opts ...Option) ([]modeleval.AlignedRecord, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	truthByID := make(map[string]modeleval.Record, len(groundTruth))
	for i, record := range groundTruth {
		id, err := recordID(record, cfg.groundTruthIDField)
		if err != nil {
			return nil, fmt.Errorf("ground-truth record %d: %w", i, err)
		}
		truthByID[id] = record
	}

	aligned := make([]modeleval.AlignedRecord, 0, len(predictions))
	var missing []string
	for i, record := range predictions {
		id, err := recordID(record, cfg.predictionIDField)
		if err != nil {
			return nil, fmt.Errorf("prediction record %d: %w", i, err)
		}

		truth, found := truthByID[id]
		if !found {
			if cfg.strict {
				missing = append(missing, id)
				continue
			}
			truth = modeleval.Record{}
		}

		aligned = append(aligned, modeleval.AlignedRecord{
			ID:       id,
			Actual:   record,
			Expected: truth,
		})
	}

	if len(missing) > 0 {
		return nil, &modeleval.AlignmentError{MissingIDs: missing}
	}

	return aligned, nil
}

// recordID extracts the canonical identifier from a record. When an explicit
// field is configured only that field is consulted; otherwise the default
// field is tried with the legacy fallback. Numeric identifiers canonicalize
// through the same label conversion as metric values.
func recordID(record modeleval.Record, field string) (string, error) {
	fields := []string{DefaultIDField, FallbackIDField}
	if field != "" {
		fields = []string{field}
	}

	for _, f := range fields {
		v := metrics.ValueOf(record[f])
		if v.IsMissing() {
			continue
		}
		if id := v.Label(); id != "" {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: empty or missing identifier field %q",
		modeleval.ErrInvalidInput, fields[0])
}
