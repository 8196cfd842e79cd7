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
	"math"

	"github.com/zintix-labs/measurelab/sdk/domain"
	"github.com/zintix-labs/measurelab/sdk/numeric"
)

// 古典正交多項式的權重函數。公式本身都是一行；所有安全性由 gate 保證。

// Jacobi : [-1,1] 上的 (1+x)^α (1-x)^β 權重。
type Jacobi struct {
	Base
	Alpha float64
	Beta  float64
}

// NewJacobi 建構 Jacobi 權重。α、β 在建構時即統一為 float64（塔頂精度）。
func NewJacobi(alpha, beta float64) Jacobi {
	return Jacobi{Base: Base{Kind: numeric.Float64}, Alpha: alpha, Beta: beta}
}

func NewJacobiWithKind(alpha, beta float64, k numeric.Kind) (Jacobi, error) {
	if err := requireScalarKind(k, "jacobi"); err != nil {
		return Jacobi{}, err
	}
	m := NewJacobi(alpha, beta)
	m.Kind = k
	return m, nil
}

func (m Jacobi) Support() domain.Domain { return domain.ChebyshevInterval{} }

func (m Jacobi) UnsafeWeight(p numeric.Value) (float64, error) {
	x := p.Float()
	return math.Pow(1+x, m.Alpha) * math.Pow(1-x, m.Beta), nil
}

func (m Jacobi) Similar(k numeric.Kind) (Measure, error) {
	return NewJacobiWithKind(m.Alpha, m.Beta, k)
}

// Laguerre : [0,∞) 上的 exp(-x)·x^α 權重；α=0 時總權重恰為 1。
type Laguerre struct {
	Base
	Alpha float64
}

func NewLaguerre(alpha float64) Laguerre {
	return Laguerre{Base: Base{Kind: numeric.Float64}, Alpha: alpha}
}

func NewLaguerreWithKind(alpha float64, k numeric.Kind) (Laguerre, error) {
	if err := requireScalarKind(k, "laguerre"); err != nil {
		return Laguerre{}, err
	}
	m := NewLaguerre(alpha)
	m.Kind = k
	return m, nil
}

func (m Laguerre) Support() domain.Domain { return domain.HalfLine{} }
func (m Laguerre) IsNormalized() bool     { return m.Alpha == 0 }

func (m Laguerre) UnsafeWeight(p numeric.Value) (float64, error) {
	x := p.Float()
	return math.Exp(-x) * math.Pow(x, m.Alpha), nil
}

func (m Laguerre) Similar(k numeric.Kind) (Measure, error) {
	return NewLaguerreWithKind(m.Alpha, k)
}

// Hermite : 全空間上的 exp(-x²) 權重。
type Hermite struct {
	Base
}

func NewHermite() Hermite { return Hermite{Base{Kind: numeric.Float64}} }

func NewHermiteWithKind(k numeric.Kind) (Hermite, error) {
	if err := requireScalarKind(k, "hermite"); err != nil {
		return Hermite{}, err
	}
	return Hermite{Base{Kind: k}}, nil
}

func (m Hermite) UnsafeWeight(p numeric.Value) (float64, error) {
	x := p.Float()
	return math.Exp(-x * x), nil
}

func (m Hermite) Similar(k numeric.Kind) (Measure, error) {
	return NewHermiteWithKind(k)
}
