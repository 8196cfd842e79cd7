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

package numeric_test

import (
	"errors"
	"math"
	"testing"

	"github.com/zintix-labs/measurelab/sdk/numeric"
)

func TestPromoteScalarTower(t *testing.T) {
	cases := []struct {
		a, b, want numeric.Kind
	}{
		{numeric.Int, numeric.Int, numeric.Int},
		{numeric.Int, numeric.Float32, numeric.Float32},
		{numeric.Int, numeric.Float64, numeric.Float64},
		{numeric.Float32, numeric.Float64, numeric.Float64},
		{numeric.Float64, numeric.Float32, numeric.Float64},
		{numeric.Float64, numeric.Float64, numeric.Float64},
		{numeric.Vec32, numeric.Vec64, numeric.Vec64},
		{numeric.Vec64, numeric.Vec32, numeric.Vec64},
		{numeric.Vec32, numeric.Vec32, numeric.Vec32},
	}
	for _, c := range cases {
		got, err := numeric.Promote(c.a, c.b)
		if err != nil {
			t.Fatalf("promote(%s,%s) unexpected error: %v", c.a, c.b, err)
		}
		if got != c.want {
			t.Fatalf("promote(%s,%s) got %s want %s", c.a, c.b, got, c.want)
		}
	}
}

func TestPromoteNoCommonKind(t *testing.T) {
	if _, err := numeric.Promote(numeric.Float64, numeric.Vec64); !errors.Is(err, numeric.ErrNoCommonKind) {
		t.Fatalf("scalar vs vector should fail with ErrNoCommonKind, got %v", err)
	}
	if _, err := numeric.Promote(numeric.Invalid, numeric.Float64); !errors.Is(err, numeric.ErrNoCommonKind) {
		t.Fatalf("invalid kind should fail with ErrNoCommonKind, got %v", err)
	}
}

func TestPrecision(t *testing.T) {
	cases := map[numeric.Kind]numeric.Kind{
		numeric.Int:     numeric.Float64,
		numeric.Float32: numeric.Float32,
		numeric.Float64: numeric.Float64,
		numeric.Vec32:   numeric.Float32,
		numeric.Vec64:   numeric.Float64,
	}
	for k, want := range cases {
		if got := numeric.Precision(k); got != want {
			t.Fatalf("precision(%s) got %s want %s", k, got, want)
		}
	}
}

func TestValueOfAndConvert(t *testing.T) {
	v, err := numeric.ValueOf(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind() != numeric.Int || v.Float() != 3 {
		t.Fatalf("unexpected value: %v", v)
	}

	up, err := v.Convert(numeric.Float64)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if up.Kind() != numeric.Float64 || up.Float() != 3 {
		t.Fatalf("unexpected converted value: %v", up)
	}

	// 同 kind 轉換必須是 no-op
	same, err := up.Convert(numeric.Float64)
	if err != nil || !same.Equal(up) {
		t.Fatalf("same-kind convert should be a no-op: %v %v", same, err)
	}

	// 往下轉換（有損）必須失敗
	if _, err := up.Convert(numeric.Float32); err == nil {
		t.Fatalf("lossy convert should fail")
	}
}

func TestValueOfVector(t *testing.T) {
	src := []float32{1, 2, 3}
	v, err := numeric.ValueOf(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind() != numeric.Vec32 || v.Dim() != 3 {
		t.Fatalf("unexpected value: %v", v)
	}
	up, err := v.Convert(numeric.Vec64)
	if err != nil || up.Kind() != numeric.Vec64 {
		t.Fatalf("vec32 -> vec64 should succeed: %v %v", up, err)
	}
	if got := up.Floats(); got[0] != 1 || got[2] != 3 {
		t.Fatalf("unexpected vector content: %v", got)
	}
}

func TestValueOfRejectsUnknownType(t *testing.T) {
	if _, err := numeric.ValueOf("not a number"); !errors.Is(err, numeric.ErrBadArgument) {
		t.Fatalf("expected ErrBadArgument, got %v", err)
	}
}

func TestRoundWeight(t *testing.T) {
	x := 0.1
	got := numeric.RoundWeight(x, numeric.Float32)
	if got != float64(float32(x)) {
		t.Fatalf("float32 rounding got %v", got)
	}
	if numeric.RoundWeight(x, numeric.Float64) != x {
		t.Fatalf("float64 rounding must be identity")
	}
	if !math.IsInf(numeric.RoundWeight(math.Inf(1), numeric.Float32), 1) {
		t.Fatalf("Inf must pass through rounding")
	}
}
