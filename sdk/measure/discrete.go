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

package measure

import (
	"fmt"

	"github.com/zintix-labs/measurelab/errs"
	"github.com/zintix-labs/measurelab/sdk/domain"
	"github.com/zintix-labs/measurelab/sdk/numeric"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// ErrOutOfBounds : 離散索引超出 [0, Len) 範圍。
var ErrOutOfBounds = errs.NewWarn("weight index out of range")

// WeightAt 是離散 measure 的安全讀取入口。
//
// 與連續 gate 相同的兩層結構：先做一次通用的邊界檢查，通過後分派到變體的
// UnsafeWeightAt（不再重複檢查）。特化的離散變體可以在 UnsafeWeightAt 即時
// 計算權重而不必真的存一張表，仍共用同一個檢查入口。
func WeightAt(m Discrete, i int) (float64, error) {
	if i < 0 || i >= m.Len() {
		return 0, errs.Wrap(ErrOutOfBounds, fmt.Sprintf("index %d not in [0,%d)", i, m.Len()))
	}
	return numeric.RoundWeight(m.UnsafeWeightAt(i), m.CodomainKind()), nil
}

// Equal 回報兩個離散 measure 是否完全相等：
// 長度相同、點序列逐一相等（含 kind）、權重序列逐一相等，依序列順序配對。
func Equal(a, b Discrete) bool {
	if a.Len() != b.Len() {
		return false
	}
	ap, bp := a.Points(), b.Points()
	for i := range ap {
		if !ap[i].Equal(bp[i]) {
			return false
		}
	}
	aw, bw := a.Weights(), b.Weights()
	for i := range aw {
		if aw[i] != bw[i] {
			return false
		}
	}
	return true
}

// ApproxEqual 與 Equal 採同一種配對規則，但以容差做數值比較。
// tol <= 0 時採用 DefaultTol。
func ApproxEqual(a, b Discrete, tol float64) bool {
	if tol <= 0 {
		tol = DefaultTol
	}
	if a.Len() != b.Len() {
		return false
	}
	ap, bp := a.Points(), b.Points()
	for i := range ap {
		if !approxValue(ap[i], bp[i], tol) {
			return false
		}
	}
	aw, bw := a.Weights(), b.Weights()
	for i := range aw {
		if !scalar.EqualWithinAbsOrRel(aw[i], bw[i], tol, tol) {
			return false
		}
	}
	return true
}

func approxValue(a, b numeric.Value, tol float64) bool {
	if a.IsVec() != b.IsVec() {
		return false
	}
	if a.IsVec() {
		av, bv := a.Floats(), b.Floats()
		if len(av) != len(bv) {
			return false
		}
		return floats.EqualApprox(av, bv, tol)
	}
	return scalar.EqualWithinAbsOrRel(a.Float(), b.Float(), tol, tol)
}

// ============================================================
// ** GenericDiscreteWeight **
// ============================================================

// GenericDiscreteWeight 是通用的離散 measure：
// 明確的點序列、平行的權重序列（等長、同序）、以及一個支撐域
// （允許比點集的凸包更寬）。三者都在建構時給定、複製、之後不可變。
type GenericDiscreteWeight struct {
	kind    numeric.Kind
	points  []numeric.Value
	weights []float64
	support domain.Domain
}

// NewGenericDiscreteWeight 建構離散 measure。
//
// 合約：
//   - len(points) == len(weights)，且至少一筆。
//   - 所有點的 kind 必須一致（該 kind 即 measure 的 domain kind）。
//   - sup 為 nil 時預設全空間。
//
// 輸入切片會被複製，measure 實例獨佔持有自己的資料。
func NewGenericDiscreteWeight(points []numeric.Value, weights []float64, sup domain.Domain) (GenericDiscreteWeight, error) {
	if len(points) != len(weights) {
		return GenericDiscreteWeight{}, errs.Warnf("discrete: %d points but %d weights", len(points), len(weights))
	}
	if len(points) == 0 {
		return GenericDiscreteWeight{}, errs.NewWarn("discrete: empty point sequence")
	}
	kind := points[0].Kind()
	if !kind.Valid() {
		return GenericDiscreteWeight{}, errs.NewWarn("discrete: invalid point kind")
	}
	for i, p := range points {
		if p.Kind() != kind {
			return GenericDiscreteWeight{}, errs.Warnf("discrete: point %d kind %s != %s", i, p.Kind(), kind)
		}
	}
	if sup == nil {
		sup = domain.FullSpace{}
	}
	ps := make([]numeric.Value, len(points))
	copy(ps, points)
	ws := make([]float64, len(weights))
	copy(ws, weights)
	return GenericDiscreteWeight{kind: kind, points: ps, weights: ws, support: sup}, nil
}

// NewDiscreteFromFloats 是 Float64 點集的便捷建構子。
func NewDiscreteFromFloats(points, weights []float64, sup domain.Domain) (GenericDiscreteWeight, error) {
	ps := make([]numeric.Value, len(points))
	for i, x := range points {
		ps[i] = numeric.Scalar(numeric.Float64, x)
	}
	return NewGenericDiscreteWeight(ps, weights, sup)
}

func (m GenericDiscreteWeight) DomainKind() numeric.Kind   { return m.kind }
func (m GenericDiscreteWeight) CodomainKind() numeric.Kind { return numeric.Precision(m.kind) }
func (m GenericDiscreteWeight) Support() domain.Domain     { return m.support }
func (m GenericDiscreteWeight) Len() int                   { return len(m.points) }

// IsNormalized 回報權重總和是否在容差內等於 1（數值判定，非精確比較）。
func (m GenericDiscreteWeight) IsNormalized() bool {
	return scalar.EqualWithinAbsOrRel(floats.Sum(m.weights), 1, DefaultTol, DefaultTol)
}

// Points 回傳點序列的副本（保持實例獨佔持有）。
func (m GenericDiscreteWeight) Points() []numeric.Value {
	return append([]numeric.Value(nil), m.points...)
}

// Weights 回傳權重序列的副本。
func (m GenericDiscreteWeight) Weights() []float64 {
	return append([]float64(nil), m.weights...)
}

func (m GenericDiscreteWeight) UnsafeWeightAt(i int) float64 { return m.weights[i] }

// Similar 以新 kind 重建：逐點轉換（只允許無損方向），權重不變。
func (m GenericDiscreteWeight) Similar(k numeric.Kind) (Measure, error) {
	if k == m.kind {
		return m, nil
	}
	ps := make([]numeric.Value, len(m.points))
	for i, p := range m.points {
		cp, err := p.Convert(k)
		if err != nil {
			return nil, err
		}
		ps[i] = cp
	}
	out := m
	out.kind = k
	out.points = ps
	out.weights = m.Weights()
	return out, nil
}
