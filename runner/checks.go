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
	"fmt"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"google.golang.org/modeleval"
	"google.golang.org/modeleval/expect"
)

// ChecksConfig is the declarative form of a suite: one check per assertion,
// loaded from YAML.
type ChecksConfig struct {
	Suite  string        `mapstructure:"suite"`
	Checks []CheckConfig `mapstructure:"checks"`
}

// CheckConfig declares a single assertion or display operation.
//
//	- name: accuracy gate          # optional, derived when absent
//	  field: label
//	  metric: accuracy             # accuracy | precision | recall | f1 |
//	                               # mae | mse | rmse | r2 | ece | mce |
//	                               # brier | percent_below_or_equal |
//	                               # percent_above
//	  op: at_least                 # at_least | above | at_most | below
//	  value: 0.8
//	  class: pos                   # optional, per-class precision/recall/f1
//	  binarize: 0.5                # optional, classification metrics only
//	  bins: 10                     # optional, ece/mce
//	  at: 0.5                      # cut point for percent_* metrics
//	- field: label
//	  show_confusion_matrix: true
type CheckConfig struct {
	Name     string   `mapstructure:"name"`
	Field    string   `mapstructure:"field"`
	Metric   string   `mapstructure:"metric"`
	Op       string   `mapstructure:"op"`
	Value    float64  `mapstructure:"value"`
	Class    string   `mapstructure:"class"`
	Bins     int      `mapstructure:"bins"`
	At       float64  `mapstructure:"at"`
	Binarize *float64 `mapstructure:"binarize"`

	ShowConfusionMatrix bool `mapstructure:"show_confusion_matrix"`
}

// ParseChecks decodes a YAML checks document.
func ParseChecks(data []byte) (*ChecksConfig, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse checks: %w", err)
	}

	var cfg ChecksConfig
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode checks: %w", err)
	}
	return &cfg, nil
}

// FromChecks builds a runnable suite from a declarative config. Unknown
// metric or operator names fail here, before anything runs.
func FromChecks(cfg *ChecksConfig) (Suite, error) {
	suite := Suite{Name: cfg.Suite}
	for i, check := range cfg.Checks {
		test, err := buildTest(check)
		if err != nil {
			return Suite{}, fmt.Errorf("check %d: %w", i, err)
		}
		suite.Tests = append(suite.Tests, test)
	}
	return suite, nil
}

func buildTest(check CheckConfig) (Test, error) {
	if check.Field == "" {
		return Test{}, fmt.Errorf("%w: check is missing a field", modeleval.ErrInvalidInput)
	}

	if check.ShowConfusionMatrix {
		name := check.Name
		if name == "" {
			name = fmt.Sprintf("%s confusion matrix", check.Field)
		}
		return Test{
			Name: name,
			Fn: func(ctx context.Context, ev *expect.Eval) error {
				selector(ev, check).ShowConfusionMatrix()
				return ev.Err()
			},
		}, nil
	}

	if err := validateCheck(check); err != nil {
		return Test{}, err
	}

	name := check.Name
	if name == "" {
		name = fmt.Sprintf("%s %s %s %v", check.Field, check.Metric, check.Op, check.Value)
	}
	return Test{
		Name: name,
		Fn: func(ctx context.Context, ev *expect.Eval) error {
			assert(accessor(selector(ev, check), check), check)
			return nil
		},
	}, nil
}

func validateCheck(check CheckConfig) error {
	switch check.Metric {
	case "accuracy", "precision", "recall", "f1",
		"mae", "mse", "rmse", "r2",
		"ece", "mce", "brier",
		"percent_below_or_equal", "percent_above":
	default:
		return fmt.Errorf("%w: unknown metric %q", modeleval.ErrInvalidInput, check.Metric)
	}
	switch check.Op {
	case "at_least", "above", "at_most", "below":
	default:
		return fmt.Errorf("%w: unknown operator %q", modeleval.ErrInvalidInput, check.Op)
	}
	return nil
}

func selector(ev *expect.Eval, check CheckConfig) *expect.Selector {
	s := ev.Field(check.Field)
	if check.Binarize != nil {
		s = s.Binarize(*check.Binarize)
	}
	return s
}

func accessor(s *expect.Selector, check CheckConfig) *expect.Matcher {
	class := []string{}
	if check.Class != "" {
		class = append(class, check.Class)
	}
	switch check.Metric {
	case "accuracy":
		return s.Accuracy()
	case "precision":
		return s.Precision(class...)
	case "recall":
		return s.Recall(class...)
	case "f1":
		return s.F1(class...)
	case "mae":
		return s.MAE()
	case "mse":
		return s.MSE()
	case "rmse":
		return s.RMSE()
	case "r2":
		return s.R2()
	case "ece":
		return s.ECE(check.Bins)
	case "mce":
		return s.MCE(check.Bins)
	case "brier":
		return s.Brier()
	case "percent_below_or_equal":
		return s.PercentBelowOrEqual(check.At)
	case "percent_above":
		return s.PercentAbove(check.At)
	}
	// validateCheck rejected everything else already.
	panic(fmt.Sprintf("unreachable metric %q", check.Metric))
}

func assert(m *expect.Matcher, check CheckConfig) {
	switch check.Op {
	case "at_least":
		m.ToBeAtLeast(check.Value)
	case "above":
		m.ToBeAbove(check.Value)
	case "at_most":
		m.ToBeAtMost(check.Value)
	case "below":
		m.ToBeBelow(check.Value)
	}
}
