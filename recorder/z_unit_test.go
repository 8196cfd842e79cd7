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

package recorder_test

import (
	"math"
	"testing"

	"github.com/zintix-labs/measurelab/recorder"
	"github.com/zintix-labs/measurelab/setting"
)

func TestNewTabRecorderValid(t *testing.T) {
	if _, err := recorder.NewTabRecorder("", 1, "hermite", 0.1, 8); err == nil {
		t.Fatalf("empty name must fail")
	}
	if _, err := recorder.NewTabRecorder("h", 1, "", 0.1, 8); err == nil {
		t.Fatalf("empty kind must fail")
	}
	if _, err := recorder.NewTabRecorder("h", 1, "hermite", -0.1, 8); err == nil {
		t.Fatalf("negative step must fail")
	}
	if _, err := recorder.NewTabRecorder("h", 1, "hermite", 0.1, -1); err != nil {
		t.Fatalf("negative cap hint is clamped, got err: %v", err)
	}
}

func TestTabRecorderRecordAndDone(t *testing.T) {
	r, err := recorder.NewTabRecorder("jacobi11", setting.MID(7), "jacobi", 0.5, 4)
	if err != nil {
		t.Fatalf("new recorder err: %v", err)
	}
	r.Support = "[-1, 1]"

	r.Record(-1.5, 0, false)
	r.Record(-0.5, 0.5625, true)
	r.Record(0.5, 0.5625, true)
	r.Record(1.5, 0, false)

	rep := r.Done()
	if rep.Summary.Points != 4 || rep.Summary.InSupport != 2 {
		t.Fatalf("counts got %d/%d want 4/2", rep.Summary.Points, rep.Summary.InSupport)
	}
	if rep.Summary.ZeroWeight != 2 {
		t.Fatalf("ZeroWeight got %d want 2", rep.Summary.ZeroWeight)
	}
	if math.Abs(rep.Summary.SumWeight-1.125) > 1e-12 {
		t.Fatalf("SumWeight got %.12f want 1.125", rep.Summary.SumWeight)
	}
	if rep.Summary.CoverRate != 0.5 {
		t.Fatalf("CoverRate got %.2f want 0.5", rep.Summary.CoverRate)
	}
	if len(rep.Values.Xs) != 4 || rep.Values.Xs[0] != -1.5 {
		t.Fatalf("value order not preserved: %v", rep.Values.Xs)
	}
}

func TestMergeTabRecorder(t *testing.T) {
	mk := func() *recorder.TabRecorder {
		r, err := recorder.NewTabRecorder("unit", 1, "unit_lebesgue", 0.25, 2)
		if err != nil {
			t.Fatalf("new recorder err: %v", err)
		}
		return r
	}
	a := mk()
	a.Record(0.0, 1, true)
	a.Record(0.25, 1, true)
	b := mk()
	b.Record(0.5, 1, true)
	b.Record(0.75, 1, true)

	m, err := recorder.MergeTabRecorder([]*recorder.TabRecorder{a, b})
	if err != nil {
		t.Fatalf("merge err: %v", err)
	}
	if m.Basic.Points != 4 || m.Basic.SumWeight != 4 {
		t.Fatalf("merge totals got %d/%.1f", m.Basic.Points, m.Basic.SumWeight)
	}
	want := []float64{0.0, 0.25, 0.5, 0.75}
	for i, x := range m.Values.Xs {
		if x != want[i] {
			t.Fatalf("merged grid order broken: %v", m.Values.Xs)
		}
	}

	c := mk()
	c.Kind = "legendre"
	if _, err := recorder.MergeTabRecorder([]*recorder.TabRecorder{a, c}); err == nil {
		t.Fatalf("different kind must fail merge")
	}
}
