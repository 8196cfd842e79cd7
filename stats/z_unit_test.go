// Copyright 2025 Zintix Labs
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

package stats_test

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/zintix-labs/measurelab/setting"
	"github.com/zintix-labs/measurelab/stats"
)

// buildTabReport constructs a TabReport from uniform-grid weights where
// every point is inside the support.
func buildTabReport(step float64, weights []float64) *stats.TabReport {
	xs := make([]float64, len(weights))
	minW := math.Inf(1)
	maxW := math.Inf(-1)
	var sum, sq float64
	zero := 0
	for i, w := range weights {
		xs[i] = float64(i) * step
		sum += w
		sq += w * w
		if w < minW {
			minW = w
		}
		if w > maxW {
			maxW = w
		}
		if w == 0 {
			zero++
		}
	}

	report := &stats.TabReport{
		Summary: &stats.SummaryReport{
			MeasureName:  "TestMeasure",
			MeasureId:    setting.MID(0),
			Kind:         "unit_lebesgue",
			DomainKind:   "float64",
			CodomainKind: "float64",
			Support:      "[0, 1]",
			Normalized:   true,
			GridStep:     step,
			Points:       len(weights),
			InSupport:    len(weights),
			ZeroWeight:   zero,
			MinWeight:    minW,
			MaxWeight:    maxW,
			SumWeight:    sum,
			SqSumWeight:  sq,
		},
		Values: &stats.ValueReport{Xs: xs, Weights: weights},
	}
	report.Done()
	return report
}

func TestTabReportCoreMetrics(t *testing.T) {
	rep := buildTabReport(0.25, []float64{1, 1, 1, 1, 1})

	if got := rep.Cover(); got != 1.0 {
		t.Fatalf("Cover got %.12f want 1", got)
	}
	if got := rep.Mean(); math.Abs(got-1.0) > 1e-12 {
		t.Fatalf("Mean got %.12f want 1", got)
	}
	if got := rep.Std(); got != 0 {
		t.Fatalf("Std got %.12f want 0", got)
	}
	// 5 points of weight 1 at step 0.25 => Riemann mass 1.25
	if got := rep.RiemannMass(); math.Abs(got-1.25) > 1e-12 {
		t.Fatalf("Mass got %.12f want 1.25", got)
	}

	rep.Done() // idempotent
	if rep.Summary.Mass != rep.RiemannMass() {
		t.Fatalf("Mass changed after second Done")
	}
}

func TestTabReportStd(t *testing.T) {
	rep := buildTabReport(0.5, []float64{1, 3})

	// sample variance of {1,3} is 2
	wantStd := math.Sqrt(2)
	if got := rep.Std(); math.Abs(got-wantStd) > 1e-12 {
		t.Fatalf("Std got %.12f want %.12f", got, wantStd)
	}
}

func TestTabReportEmptyAndUnknownStep(t *testing.T) {
	rep := &stats.TabReport{
		Summary: &stats.SummaryReport{
			MeasureName: "Empty",
			Kind:        "hermite",
		},
		Values: &stats.ValueReport{},
	}
	rep.Done()

	if rep.Cover() != 0 || rep.Mean() != 0 || rep.Std() != 0 {
		t.Fatalf("empty report metrics must be zero")
	}
	if rep.RiemannMass() != 0 {
		t.Fatalf("unknown grid step must yield zero mass")
	}
}

func TestTabReportRenders(t *testing.T) {
	rep := buildTabReport(0.5, []float64{0, 2, 0})

	var jb bytes.Buffer
	if err := rep.WriteWith(&jb, &stats.JsonTabReportRender{}); err != nil {
		t.Fatalf("json render err: %v", err)
	}
	var decoded stats.TabReport
	if err := json.Unmarshal(jb.Bytes(), &decoded); err != nil {
		t.Fatalf("json decode err: %v", err)
	}
	if decoded.Summary.ZeroWeight != 2 {
		t.Fatalf("ZeroWeight got %d want 2", decoded.Summary.ZeroWeight)
	}

	var yb bytes.Buffer
	if err := rep.WriteWith(&yb, &stats.YAMLTabReportRender{}); err != nil {
		t.Fatalf("yaml render err: %v", err)
	}
	// 一維陣列必須輸出成 flow style
	if !strings.Contains(yb.String(), "[0, 2, 0]") {
		t.Fatalf("yaml render missing flow-style weights:\n%s", yb.String())
	}
}

func TestTabReportDiscreteView(t *testing.T) {
	report := buildTabReport(0.5, []float64{0.25, 0.25, 0.5})
	report.Done()

	md, err := report.Discrete()
	if err != nil {
		t.Fatal(err)
	}
	if md.Len() != 3 {
		t.Fatalf("unexpected discrete length: %d", md.Len())
	}
	if got := md.UnsafeWeightAt(2); got != 0.5 {
		t.Fatalf("unexpected weight at 2: %v", got)
	}
	if !md.IsNormalized() {
		t.Fatal("expected normalized weight sequence")
	}

	report.Values = nil
	if _, err := report.Discrete(); err == nil {
		t.Fatal("expected error without per-point values")
	}
}
