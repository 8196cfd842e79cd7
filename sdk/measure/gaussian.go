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

	"github.com/zintix-labs/measurelab/errs"
	"github.com/zintix-labs/measurelab/sdk/domain"
	"github.com/zintix-labs/measurelab/sdk/numeric"
	"gonum.org/v1/gonum/floats"
)

// Gaussian : 全空間上的 (2π)^(-d/2)·exp(-‖x‖²) 權重，d 為向量維度。
//
// Dim > 0 時是固定維度的 measure：維度不符的向量視為支撐域外（gate 回 0），
// 公式本身不必防衛。Dim == 0 表示任意維度，d 取實際輸入的維度。
type Gaussian struct {
	Base
	Dim int
}

func NewGaussian() Gaussian { return Gaussian{Base: Base{Kind: numeric.Float64}} }

func NewGaussianWithKind(k numeric.Kind, dim int) (Gaussian, error) {
	if err := requireValidKind(k, "gaussian"); err != nil {
		return Gaussian{}, err
	}
	if dim < 0 {
		dim = 0
	}
	if !k.IsVec() && dim > 1 {
		return Gaussian{}, errs.Warnf("gaussian: scalar kind with dim %d", dim)
	}
	return Gaussian{Base: Base{Kind: k}, Dim: dim}, nil
}

func (m Gaussian) IsNormalized() bool { return true }

func (m Gaussian) Support() domain.Domain {
	if m.Dim > 0 {
		return dimSpace{dim: m.Dim}
	}
	return domain.FullSpace{}
}

func (m Gaussian) UnsafeWeight(p numeric.Value) (float64, error) {
	if p.IsVec() {
		x := p.Floats()
		d := float64(len(x))
		return math.Pow(2*math.Pi, -d/2) * math.Exp(-floats.Dot(x, x)), nil
	}
	x := p.Float()
	return math.Exp(-x*x) / math.Sqrt(2*math.Pi), nil
}

func (m Gaussian) Similar(k numeric.Kind) (Measure, error) {
	return NewGaussianWithKind(k, m.Dim)
}

// dimSpace 是固定維度的全空間：成員資格只看維度。
type dimSpace struct {
	dim int
}

func (d dimSpace) Contains(p numeric.Value) bool { return p.Dim() == d.dim }
func (d dimSpace) String() string                { return "full_space_fixed_dim" }
