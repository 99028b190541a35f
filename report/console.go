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

// Package report renders evaluation run results for humans and machines.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"google.golang.org/modeleval"
	"google.golang.org/modeleval/metrics"
)

// Console renders a run result as human-readable text: per-test assertion
// lines, confusion-matrix and per-class tables for recorded field metrics,
// and a summary.
type Console struct {
	w io.Writer
}

// NewConsole creates a console reporter writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Render writes the full report.
func (c *Console) Render(result *modeleval.RunResult) error {
	fmt.Fprintf(c.w, "suite %q  run %s  %s  score %.2f\n\n",
		result.Suite, result.RunID, result.Status, result.OverallScore)

	for _, test := range result.Tests {
		mark := "PASS"
		switch test.Status {
		case modeleval.StatusFailed:
			mark = "FAIL"
		case modeleval.StatusError:
			mark = "ERROR"
		}
		fmt.Fprintf(c.w, "%s  %s\n", mark, test.Name)
		if test.ErrorMessage != "" {
			fmt.Fprintf(c.w, "      %s\n", test.ErrorMessage)
		}
		for _, a := range test.Assertions {
			if a.Passed {
				continue
			}
			fmt.Fprintf(c.w, "      FAILED %s\n", a.Message)
		}
		for _, fm := range test.FieldMetrics {
			if err := c.renderFieldMetrics(fm); err != nil {
				return err
			}
		}
	}

	total, passed := result.AssertionCounts()
	fmt.Fprintf(c.w, "\n%d/%d assertions passed\n", passed, total)
	return nil
}

func (c *Console) renderFieldMetrics(fm modeleval.FieldMetricResult) error {
	title := fmt.Sprintf("field %q", fm.Field)
	if fm.Binarized && fm.BinarizeThreshold != nil {
		title = fmt.Sprintf("field %q (binarized at %v)", fm.Field, *fm.BinarizeThreshold)
	}
	fmt.Fprintf(c.w, "\n      %s, accuracy %.4f\n\n", title, fm.Metrics.Accuracy)

	if err := c.renderConfusionMatrix(fm.Metrics.ConfusionMatrix); err != nil {
		return err
	}
	return c.renderPerClass(fm.Metrics)
}

// renderConfusionMatrix prints rows as expected labels and columns as
// predicted labels.
func (c *Console) renderConfusionMatrix(cm metrics.ConfusionMatrix) error {
	headers := append([]string{"expected \\ actual"}, cm.Labels...)
	table := newTable(c.w, headers)
	for i, label := range cm.Labels {
		row := make([]string, 0, len(cm.Labels)+1)
		row = append(row, label)
		for j := range cm.Labels {
			row = append(row, strconv.Itoa(cm.Matrix[i][j]))
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func (c *Console) renderPerClass(m metrics.ClassificationMetrics) error {
	fmt.Fprintln(c.w)
	table := newTable(c.w, []string{"class", "precision", "recall", "f1", "support"})
	for _, label := range m.ConfusionMatrix.Labels {
		cls := m.PerClass[label]
		if err := table.Append([]string{
			label,
			fmt.Sprintf("%.4f", cls.Precision),
			fmt.Sprintf("%.4f", cls.Recall),
			fmt.Sprintf("%.4f", cls.F1),
			strconv.Itoa(cls.Support),
		}); err != nil {
			return err
		}
	}
	if err := table.Append([]string{
		"macro avg",
		fmt.Sprintf("%.4f", m.MacroAvg.Precision),
		fmt.Sprintf("%.4f", m.MacroAvg.Recall),
		fmt.Sprintf("%.4f", m.MacroAvg.F1),
		strconv.Itoa(m.MacroAvg.Support),
	}); err != nil {
		return err
	}
	if err := table.Append([]string{
		"weighted avg",
		fmt.Sprintf("%.4f", m.WeightedAvg.Precision),
		fmt.Sprintf("%.4f", m.WeightedAvg.Recall),
		fmt.Sprintf("%.4f", m.WeightedAvg.F1),
		strconv.Itoa(m.WeightedAvg.Support),
	}); err != nil {
		return err
	}
	return table.Render()
}

// newTable creates a table writer with the formatting shared by all report
// tables.
func newTable(w io.Writer, headers []string) *tablewriter.Table {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		MaxWidth: 100,
		Behavior: tw.Behavior{TrimSpace: tw.Off},
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{
				Left:   tw.On,
				Top:    tw.Off,
				Right:  tw.On,
				Bottom: tw.Off,
			},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}
