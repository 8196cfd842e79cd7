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
)

// Dirac : 單點 measure，支撐域為 {At}，總權重為 1。
//
// 在支撐點上的「密度」回傳 +Inf：這是文件化的 sentinel 值（Dirac 本質上是
// 分布而非函數），不參與 codomain 的一般算術；其他任何點都被 gate 擋下回傳 0，
// 公式本身永遠不會在支撐點以外被呼叫。
type Dirac struct {
	Base
	At numeric.Value
}

func NewDirac(at float64) Dirac {
	return Dirac{
		Base: Base{Kind: numeric.Float64},
		At:   numeric.Scalar(numeric.Float64, at),
	}
}

// NewDiracAt 以任意 kind 的點建構 Dirac measure。
func NewDiracAt(at numeric.Value) (Dirac, error) {
	if !at.Kind().Valid() {
		return Dirac{}, errs.NewWarn("dirac: invalid point kind")
	}
	return Dirac{Base: Base{Kind: at.Kind()}, At: at}, nil
}

func (m Dirac) Support() domain.Domain { return domain.Point{At: m.At} }
func (m Dirac) IsNormalized() bool     { return true }

func (m Dirac) UnsafeWeight(numeric.Value) (float64, error) {
	return math.Inf(1), nil
}

func (m Dirac) Similar(k numeric.Kind) (Measure, error) {
	at, err := m.At.Convert(k)
	if err != nil {
		return nil, err
	}
	return NewDiracAt(at)
}
