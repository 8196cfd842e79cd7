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

package measure_test

import (
	"errors"
	"math"
	"testing"

	"github.com/zintix-labs/measurelab/sdk/domain"
	"github.com/zintix-labs/measurelab/sdk/measure"
	"github.com/zintix-labs/measurelab/sdk/numeric"
	"gonum.org/v1/gonum/stat/distuv"
)

func mustWeight(t *testing.T, m measure.Continuous, x any) float64 {
	t.Helper()
	w, err := measure.Weight(m, x)
	if err != nil {
		t.Fatalf("weight(%v): unexpected error: %v", x, err)
	}
	return w
}

func TestUnitLebesgue(t *testing.T) {
	m := measure.NewUnitLebesgue()
	if got := mustWeight(t, m, 0.5); got != 1.0 {
		t.Fatalf("weight(0.5) got %v want 1", got)
	}
	if got := mustWeight(t, m, 1.5); got != 0.0 {
		t.Fatalf("weight(1.5) got %v want 0 (outside support)", got)
	}
	if !m.IsNormalized() {
		t.Fatalf("unit lebesgue must be normalized")
	}
}

func TestJacobiWeight(t *testing.T) {
	m := measure.NewJacobi(1.0, 2.0)
	if got := mustWeight(t, m, 0.0); got != 1.0 {
		t.Fatalf("jacobi weight(0) got %v want 1", got)
	}
	if got := mustWeight(t, m, 2.0); got != 0.0 {
		t.Fatalf("jacobi weight(2) got %v want 0 (outside [-1,1])", got)
	}
	// (1+0.5)^1 * (1-0.5)^2
	want := 1.5 * 0.25
	if got := mustWeight(t, m, 0.5); math.Abs(got-want) > 1e-15 {
		t.Fatalf("jacobi weight(0.5) got %v want %v", got, want)
	}
}

func TestLaguerre(t *testing.T) {
	if !measure.NewLaguerre(0.0).IsNormalized() {
		t.Fatalf("laguerre alpha=0 must be normalized")
	}
	m := measure.NewLaguerre(1.0)
	if m.IsNormalized() {
		t.Fatalf("laguerre alpha=1 must not be normalized")
	}
	if got := mustWeight(t, m, 1.0); math.Abs(got-math.Exp(-1)) > 1e-15 {
		t.Fatalf("laguerre weight(1) got %v want exp(-1)", got)
	}
	if got := mustWeight(t, m, -0.5); got != 0 {
		t.Fatalf("laguerre weight(-0.5) got %v want 0", got)
	}
}

func TestHermite(t *testing.T) {
	m := measure.NewHermite()
	if got := mustWeight(t, m, 2.0); math.Abs(got-math.Exp(-4)) > 1e-18 {
		t.Fatalf("hermite weight(2) got %v want exp(-4)", got)
	}
	// 全空間支撐域：任何純量都走公式
	if got := mustWeight(t, m, -1e3); got != math.Exp(-1e6) {
		t.Fatalf("hermite weight(-1000) got %v", got)
	}
}

func TestDirac(t *testing.T) {
	m := measure.NewDirac(3.0)
	if got := mustWeight(t, m, 3.0); !math.IsInf(got, 1) {
		t.Fatalf("dirac weight at support point got %v want +Inf", got)
	}
	if got := mustWeight(t, m, 3.0000001); got != 0 {
		t.Fatalf("dirac weight off support got %v want 0", got)
	}
	if !m.IsNormalized() {
		t.Fatalf("dirac must be normalized")
	}
}

func TestGaussianScalarMatchesNormalPdf(t *testing.T) {
	m := measure.NewGaussian()
	if !m.IsNormalized() {
		t.Fatalf("gaussian must be normalized")
	}
	// (2π)^(-1/2)·exp(-x²) == Normal(0, 1/√2).Prob(x)/√2
	n := distuv.Normal{Mu: 0, Sigma: 1 / math.Sqrt2}
	for _, x := range []float64{-2, -0.3, 0, 0.7, 1.9} {
		want := n.Prob(x) / math.Sqrt2
		if got := mustWeight(t, m, x); math.Abs(got-want) > 1e-12 {
			t.Fatalf("gaussian weight(%v) got %v want %v", x, got, want)
		}
	}
}

func TestGaussianVector(t *testing.T) {
	m, err := measure.NewGaussianWithKind(numeric.Vec64, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	x := []float64{0.5, -0.5}
	want := math.Pow(2*math.Pi, -1) * math.Exp(-0.5)
	if got := mustWeight(t, m, x); math.Abs(got-want) > 1e-15 {
		t.Fatalf("gaussian weight(%v) got %v want %v", x, got, want)
	}
	// 維度不符 → 支撐域外 → 0
	if got := mustWeight(t, m, []float64{1, 2, 3}); got != 0 {
		t.Fatalf("wrong-dim vector got %v want 0", got)
	}
}

func TestGateEqualsUnsafeInsideSupport(t *testing.T) {
	ms := []measure.Continuous{
		measure.NewJacobi(0.5, 0.5),
		measure.NewLaguerre(2),
		measure.NewHermite(),
		measure.NewUnitLebesgue(),
	}
	pts := []float64{0.25, 0.5, 0.75}
	for _, m := range ms {
		for _, x := range pts {
			v := numeric.Scalar(numeric.Float64, x)
			if !m.Support().Contains(v) {
				continue
			}
			raw, err := m.UnsafeWeight(v)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := mustWeight(t, m, x); got != raw {
				t.Fatalf("gate result %v != unsafe result %v", got, raw)
			}
		}
	}
}

func TestPromotionPath(t *testing.T) {
	// float32 measure 於 float64 點評估：promotion 後行為與 float64 measure 一致
	m32, err := measure.NewJacobiWithKind(1, 2, numeric.Float32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := mustWeight(t, m32, 0.5)
	want := mustWeight(t, measure.NewJacobi(1, 2), 0.5)
	if got != want {
		t.Fatalf("promoted evaluation got %v want %v", got, want)
	}

	// int 引數升到 float64
	if got := mustWeight(t, measure.NewJacobi(1, 2), 0); got != 1 {
		t.Fatalf("int argument got %v want 1", got)
	}

	// 純量 measure 對向量引數：無共同上型別
	if _, err := measure.Weight(measure.NewJacobi(1, 2), []float64{0}); !errors.Is(err, numeric.ErrNoCommonKind) {
		t.Fatalf("scalar measure with vector argument should fail, got %v", err)
	}
}

func TestPromotionIdempotence(t *testing.T) {
	m := measure.NewHermite()
	x := 0.3
	direct := mustWeight(t, m, x)

	// 顯式 no-op promotion 後結果一致
	sm, err := m.Similar(numeric.Float64)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	again := mustWeight(t, sm.(measure.Continuous), x)
	if direct != again {
		t.Fatalf("idempotent promotion changed result: %v != %v", direct, again)
	}
}

func TestFloat32CodomainRounding(t *testing.T) {
	m32, err := measure.NewHermiteWithKind(numeric.Float32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := mustWeight(t, m32, float32(0.3))
	if got != float64(float32(got)) {
		t.Fatalf("float32 codomain weight %v is not float32-representable", got)
	}
	if m32.CodomainKind() != numeric.Float32 {
		t.Fatalf("codomain kind got %s", m32.CodomainKind())
	}
}

func TestBaseHasNoWeightFormula(t *testing.T) {
	type abstractOnly struct {
		measure.Base
	}
	m := abstractOnly{measure.Base{Kind: numeric.Float64}}
	if _, err := m.UnsafeWeight(numeric.Scalar(numeric.Float64, 0)); !errors.Is(err, measure.ErrNoWeightFormula) {
		t.Fatalf("expected ErrNoWeightFormula, got %v", err)
	}
	if m.Support().String() != "full_space" {
		t.Fatalf("default support must be full space")
	}
	if m.IsNormalized() {
		t.Fatalf("default must not be normalized")
	}
}

func TestLebesgueForFactory(t *testing.T) {
	cases := []struct {
		d    domain.Domain
		want string
	}{
		{domain.UnitInterval{}, "measure.UnitLebesgue"},
		{domain.ChebyshevInterval{}, "measure.Legendre"},
		{domain.FullSpace{}, "measure.Lebesgue"},
		{domain.Interval{Lo: 2, Hi: 5}, "measure.DomainLebesgue"},
		{domain.HalfLine{}, "measure.DomainLebesgue"},
	}
	for _, c := range cases {
		m := measure.LebesgueFor(c.d)
		switch c.want {
		case "measure.UnitLebesgue":
			if _, ok := m.(measure.UnitLebesgue); !ok {
				t.Fatalf("%s: got %T", c.d, m)
			}
		case "measure.Legendre":
			if _, ok := m.(measure.Legendre); !ok {
				t.Fatalf("%s: got %T", c.d, m)
			}
		case "measure.Lebesgue":
			if _, ok := m.(measure.Lebesgue); !ok {
				t.Fatalf("%s: got %T", c.d, m)
			}
		case "measure.DomainLebesgue":
			if _, ok := m.(measure.DomainLebesgue); !ok {
				t.Fatalf("%s: got %T", c.d, m)
			}
		}
		// 家族權重恆為 1（在支撐域內）
		if w, err := m.UnsafeWeight(numeric.Scalar(numeric.Float64, 0.5)); err != nil || w != 1 {
			t.Fatalf("%s: unsafe weight got %v %v", c.d, w, err)
		}
	}
	// 工廠對 caller-supplied domain 保留原 domain
	dl := measure.LebesgueFor(domain.Interval{Lo: 2, Hi: 5})
	if got := mustWeight(t, dl, 3.0); got != 1 {
		t.Fatalf("domain lebesgue inside got %v", got)
	}
	if got := mustWeight(t, dl, 9.0); got != 0 {
		t.Fatalf("domain lebesgue outside got %v", got)
	}
}

func TestWeightFunc(t *testing.T) {
	fn := measure.WeightFunc(measure.NewUnitLebesgue())
	if w, err := fn(0.5); err != nil || w != 1 {
		t.Fatalf("weight func got %v %v", w, err)
	}
	if w, err := fn(1.5); err != nil || w != 0 {
		t.Fatalf("weight func outside got %v %v", w, err)
	}
}

// ============================================================
// ** 離散協定 **
// ============================================================

func TestGenericDiscreteWeight(t *testing.T) {
	m, err := measure.NewDiscreteFromFloats([]float64{0, 1, 2}, []float64{0.2, 0.3, 0.5}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.IsNormalized() {
		t.Fatalf("weights summing to 1 must report normalized")
	}
	if m.Len() != 3 || len(m.Points()) != len(m.Weights()) {
		t.Fatalf("points/weights length mismatch")
	}
	if w, err := measure.WeightAt(m, 1); err != nil || w != 0.3 {
		t.Fatalf("weightat(1) got %v %v", w, err)
	}
	if _, err := measure.WeightAt(m, 3); !errors.Is(err, measure.ErrOutOfBounds) {
		t.Fatalf("weightat(3) expected ErrOutOfBounds, got %v", err)
	}
	if _, err := measure.WeightAt(m, -1); !errors.Is(err, measure.ErrOutOfBounds) {
		t.Fatalf("weightat(-1) expected ErrOutOfBounds, got %v", err)
	}
	if !measure.IsDiscrete(m) || measure.IsContinuous(m) {
		t.Fatalf("discrete predicates wrong")
	}

	// WeightAt 與 Weights()[i] 一致
	ws := m.Weights()
	for i := range ws {
		w, err := measure.WeightAt(m, i)
		if err != nil || w != ws[i] {
			t.Fatalf("weightat(%d) got %v %v want %v", i, w, err, ws[i])
		}
	}
}

func TestDiscreteConstructionContract(t *testing.T) {
	if _, err := measure.NewDiscreteFromFloats([]float64{0, 1}, []float64{0.5}, nil); err == nil {
		t.Fatalf("length mismatch must fail")
	}
	if _, err := measure.NewDiscreteFromFloats(nil, nil, nil); err == nil {
		t.Fatalf("empty sequences must fail")
	}
	mixed := []numeric.Value{
		numeric.Scalar(numeric.Float64, 0),
		numeric.Scalar(numeric.Float32, 1),
	}
	if _, err := measure.NewGenericDiscreteWeight(mixed, []float64{1, 2}, nil); err == nil {
		t.Fatalf("mixed point kinds must fail")
	}
}

func TestDiscreteEquality(t *testing.T) {
	a, _ := measure.NewDiscreteFromFloats([]float64{0, 1}, []float64{0.5, 0.5}, nil)
	b, _ := measure.NewDiscreteFromFloats([]float64{0, 1}, []float64{0.5, 0.5}, nil)
	c, _ := measure.NewDiscreteFromFloats([]float64{0, 1}, []float64{0.5000001, 0.4999999}, nil)

	if !measure.Equal(a, a) {
		t.Fatalf("equality must be reflexive")
	}
	if !measure.Equal(a, b) || !measure.Equal(b, a) {
		t.Fatalf("equality must be symmetric for identical sequences")
	}
	if measure.Equal(a, c) {
		t.Fatalf("perturbed weight must break exact equality")
	}
	if !measure.ApproxEqual(a, c, 1e-5) {
		t.Fatalf("perturbed weight within tolerance must stay approx equal")
	}
	if measure.ApproxEqual(a, c, 1e-9) {
		t.Fatalf("tolerance below perturbation must break approx equality")
	}
}

func TestDiscreteSimilar(t *testing.T) {
	ps := []numeric.Value{
		numeric.Scalar(numeric.Float32, 0),
		numeric.Scalar(numeric.Float32, 1),
	}
	m, err := measure.NewGenericDiscreteWeight(ps, []float64{0.4, 0.6}, domain.UnitInterval{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sm, err := m.Similar(numeric.Float64)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d, ok := sm.(measure.Discrete)
	if !ok {
		t.Fatalf("similar lost discrete capability: %T", sm)
	}
	if d.DomainKind() != numeric.Float64 || d.CodomainKind() != numeric.Float64 {
		t.Fatalf("similar kinds wrong: %s/%s", d.DomainKind(), d.CodomainKind())
	}
	if d.Len() != 2 || d.Points()[1].Float() != 1 {
		t.Fatalf("similar content wrong")
	}
	// 原實例不受影響（不可變值物件）
	if m.DomainKind() != numeric.Float32 {
		t.Fatalf("similar mutated the receiver")
	}
}

func TestDiscreteSupportMayExceedHull(t *testing.T) {
	m, err := measure.NewDiscreteFromFloats([]float64{0.2, 0.4}, []float64{0.5, 0.5}, domain.UnitInterval{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Support().String() != "unit_interval" {
		t.Fatalf("declared support lost: %s", m.Support())
	}
}
