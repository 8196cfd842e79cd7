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

package measurelab_test

import (
	"context"
	"math"
	"testing"
	"testing/fstest"

	"github.com/zintix-labs/measurelab"
	"github.com/zintix-labs/measurelab/dto"
	"github.com/zintix-labs/measurelab/sdk/measure"
)

func testConfigFS() fstest.MapFS {
	return fstest.MapFS{
		"jacobi11.yaml": &fstest.MapFile{Data: []byte(`
measure_name: jacobi11
measure_id: 1
kind_key: jacobi
params:
  alpha: 1.0
  beta: 1.0
`)},
		"hermite.yaml": &fstest.MapFile{Data: []byte(`
measure_name: hermite
measure_id: 2
kind_key: hermite
`)},
		"coins.yaml": &fstest.MapFile{Data: []byte(`
measure_name: coins
measure_id: 3
kind_key: discrete
points: [1, 2, 3]
weights: [0.2, 0.3, 0.5]
`)},
	}
}

func newTestLab(t *testing.T) *measurelab.Measurelab {
	t.Helper()
	lab, err := measurelab.NewAuto(measurelab.Configs(testConfigFS()))
	if err != nil {
		t.Fatalf("new lab err: %v", err)
	}
	return lab
}

func TestNewAutoAndSummary(t *testing.T) {
	lab := newTestLab(t)

	ids := lab.IDs()
	if len(ids) != 3 {
		t.Fatalf("ids got %v want 3 entries", ids)
	}
	sum, err := lab.Summary()
	if err != nil {
		t.Fatalf("summary err: %v", err)
	}
	if len(sum) != 3 {
		t.Fatalf("summary got %d entries", len(sum))
	}
	for _, s := range sum {
		if s.Precision != "float64" {
			t.Fatalf("default precision got %q", s.Precision)
		}
	}
}

func TestNewMeasureAndWeight(t *testing.T) {
	lab := newTestLab(t)

	m, err := lab.NewMeasure(1)
	if err != nil {
		t.Fatalf("new measure err: %v", err)
	}
	mc, ok := m.(measure.Continuous)
	if !ok {
		t.Fatalf("jacobi must be continuous")
	}
	// (1+x)^1 * (1-x)^1 at x=0 is 1
	w, err := measure.Weight(mc, 0.0)
	if err != nil {
		t.Fatalf("weight err: %v", err)
	}
	if math.Abs(w-1) > 1e-12 {
		t.Fatalf("jacobi weight got %.12f want 1", w)
	}

	if _, err := lab.NewMeasure(404); err == nil {
		t.Fatalf("unknown mid must fail")
	}
}

func TestTabulatorGrid(t *testing.T) {
	lab := newTestLab(t)

	tab, err := lab.NewTabulator(2) // hermite
	if err != nil {
		t.Fatalf("new tabulator err: %v", err)
	}
	rep, _, err := tab.Tab(-2, 2, 101, false)
	if err != nil {
		t.Fatalf("tab err: %v", err)
	}
	if rep.Summary.Points != 101 || rep.Summary.InSupport != 101 {
		t.Fatalf("counts got %d/%d", rep.Summary.Points, rep.Summary.InSupport)
	}
	if rep.Summary.MaxWeight != 1 { // e^0
		t.Fatalf("max weight got %.12f want 1", rep.Summary.MaxWeight)
	}
	// Riemann mass should approximate sqrt(pi) on a wide enough grid
	if math.Abs(rep.Summary.Mass-math.Sqrt(math.Pi)) > 0.05 {
		t.Fatalf("mass got %.4f want ~%.4f", rep.Summary.Mass, math.Sqrt(math.Pi))
	}
}

func TestTabulatorMPMatchesSingle(t *testing.T) {
	lab := newTestLab(t)

	tab, err := lab.NewTabulator(1)
	if err != nil {
		t.Fatalf("new tabulator err: %v", err)
	}
	single, _, err := tab.Tab(-1.5, 1.5, 64, false)
	if err != nil {
		t.Fatalf("tab err: %v", err)
	}
	multi, _, err := tab.TabMP(-1.5, 1.5, 64, 4, false)
	if err != nil {
		t.Fatalf("tabmp err: %v", err)
	}

	if single.Summary.Points != multi.Summary.Points {
		t.Fatalf("points differ: %d vs %d", single.Summary.Points, multi.Summary.Points)
	}
	if single.Summary.InSupport != multi.Summary.InSupport {
		t.Fatalf("in-support differ: %d vs %d", single.Summary.InSupport, multi.Summary.InSupport)
	}
	if math.Abs(single.Summary.SumWeight-multi.Summary.SumWeight) > 1e-9 {
		t.Fatalf("sums differ: %.12f vs %.12f", single.Summary.SumWeight, multi.Summary.SumWeight)
	}
	for i := range single.Values.Xs {
		if single.Values.Xs[i] != multi.Values.Xs[i] {
			t.Fatalf("grid order differs at %d", i)
		}
		if single.Values.Weights[i] != multi.Values.Weights[i] {
			t.Fatalf("weights differ at %d", i)
		}
	}
}

func TestTabulatorDiscretePoints(t *testing.T) {
	lab := newTestLab(t)

	tab, err := lab.NewTabulator(3)
	if err != nil {
		t.Fatalf("new tabulator err: %v", err)
	}
	rep, _, err := tab.Tab(0, 0, 1, false)
	if err != nil {
		t.Fatalf("tab err: %v", err)
	}
	if rep.Summary.Points != 3 || rep.Summary.InSupport != 3 {
		t.Fatalf("discrete counts got %d/%d", rep.Summary.Points, rep.Summary.InSupport)
	}
	if math.Abs(rep.Summary.SumWeight-1) > 1e-12 {
		t.Fatalf("weights must sum to 1, got %.12f", rep.Summary.SumWeight)
	}
}

func TestEvalRuntime(t *testing.T) {
	lab := newTestLab(t)

	rt, err := lab.BuildRuntime(4)
	if err != nil {
		t.Fatalf("build runtime err: %v", err)
	}
	defer rt.Close()

	ctx := context.Background()

	res, err := rt.Weight(ctx, &dto.WeightRequest{MeasureId: 1, X: 0.5, HasX: true})
	if err != nil {
		t.Fatalf("weight err: %v", err)
	}
	want := (1 + 0.5) * (1 - 0.5)
	if math.Abs(res.Weight-want) > 1e-12 {
		t.Fatalf("weight got %.12f want %.12f", res.Weight, want)
	}
	if !res.InSupport {
		t.Fatalf("x=0.5 must be inside jacobi support")
	}

	// 支撐外 gate 到 0
	out, err := rt.Weight(ctx, &dto.WeightRequest{MeasureId: 1, X: 2, HasX: true})
	if err != nil {
		t.Fatalf("weight err: %v", err)
	}
	if out.Weight != 0 || out.InSupport {
		t.Fatalf("x=2 must gate to zero outside support, got %+v", out)
	}

	at, err := rt.WeightAt(ctx, &dto.WeightAtRequest{MeasureId: 3, Index: 2})
	if err != nil {
		t.Fatalf("weightat err: %v", err)
	}
	if at.Weight != 0.5 || at.Point != 3 {
		t.Fatalf("weightat got %+v", at)
	}
	if _, err := rt.WeightAt(ctx, &dto.WeightAtRequest{MeasureId: 3, Index: 7}); err == nil {
		t.Fatalf("out of bounds index must fail")
	}
	// 離散 measure 沒有連續權重函數
	if _, err := rt.Weight(ctx, &dto.WeightRequest{MeasureId: 3, X: 1, HasX: true}); err == nil {
		t.Fatalf("weight on discrete must fail")
	}

	rep, err := rt.Tab(ctx, &dto.TabRequest{MeasureId: 1, Lo: -1, Hi: 1, N: 11, Workers: 2})
	if err != nil {
		t.Fatalf("tab err: %v", err)
	}
	if rep.Summary.Points != 11 {
		t.Fatalf("tab points got %d", rep.Summary.Points)
	}
	if rep.Values != nil {
		t.Fatalf("values must be stripped unless with_values")
	}

	infos := rt.Measures()
	if len(infos) != 3 {
		t.Fatalf("measures got %d", len(infos))
	}

	rt.Close()
	if _, err := rt.Weight(ctx, &dto.WeightRequest{MeasureId: 1}); err == nil {
		t.Fatalf("closed runtime must refuse")
	}
	if !rt.Closed() {
		t.Fatalf("runtime must report closed")
	}
}
