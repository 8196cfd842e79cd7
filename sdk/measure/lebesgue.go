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
	"github.com/zintix-labs/measurelab/sdk/domain"
	"github.com/zintix-labs/measurelab/sdk/numeric"
)

// Lebesgue 家族：權重恆為 1，只差在支撐域。

// Lebesgue : 全空間上的 Lebesgue measure。
type Lebesgue struct {
	Base
}

func NewLebesgue() Lebesgue { return Lebesgue{Base{Kind: numeric.Float64}} }

func NewLebesgueWithKind(k numeric.Kind) (Lebesgue, error) {
	if err := requireValidKind(k, "lebesgue"); err != nil {
		return Lebesgue{}, err
	}
	return Lebesgue{Base{Kind: k}}, nil
}

func (m Lebesgue) UnsafeWeight(numeric.Value) (float64, error) { return 1, nil }

func (m Lebesgue) Similar(k numeric.Kind) (Measure, error) {
	return NewLebesgueWithKind(k)
}

// UnitLebesgue : [0,1] 上的 Lebesgue measure，總權重為 1。
type UnitLebesgue struct {
	Base
}

func NewUnitLebesgue() UnitLebesgue { return UnitLebesgue{Base{Kind: numeric.Float64}} }

func NewUnitLebesgueWithKind(k numeric.Kind) (UnitLebesgue, error) {
	if err := requireValidKind(k, "unit_lebesgue"); err != nil {
		return UnitLebesgue{}, err
	}
	return UnitLebesgue{Base{Kind: k}}, nil
}

func (m UnitLebesgue) Support() domain.Domain { return domain.UnitInterval{} }
func (m UnitLebesgue) IsNormalized() bool     { return true }

func (m UnitLebesgue) UnsafeWeight(numeric.Value) (float64, error) { return 1, nil }

func (m UnitLebesgue) Similar(k numeric.Kind) (Measure, error) {
	return NewUnitLebesgueWithKind(k)
}

// DomainLebesgue : caller-supplied domain 上的 Lebesgue measure。
type DomainLebesgue struct {
	Base
	dom domain.Domain
}

func NewDomainLebesgue(d domain.Domain) DomainLebesgue {
	if d == nil {
		d = domain.FullSpace{}
	}
	return DomainLebesgue{Base: Base{Kind: numeric.Float64}, dom: d}
}

func NewDomainLebesgueWithKind(d domain.Domain, k numeric.Kind) (DomainLebesgue, error) {
	if err := requireValidKind(k, "domain_lebesgue"); err != nil {
		return DomainLebesgue{}, err
	}
	m := NewDomainLebesgue(d)
	m.Kind = k
	return m, nil
}

func (m DomainLebesgue) Support() domain.Domain { return m.dom }

func (m DomainLebesgue) UnsafeWeight(numeric.Value) (float64, error) { return 1, nil }

func (m DomainLebesgue) Similar(k numeric.Kind) (Measure, error) {
	return NewDomainLebesgueWithKind(m.dom, k)
}

// Legendre : [-1,1] 上的 Lebesgue measure（Legendre 多項式的權重）。
type Legendre struct {
	Base
}

func NewLegendre() Legendre { return Legendre{Base{Kind: numeric.Float64}} }

func NewLegendreWithKind(k numeric.Kind) (Legendre, error) {
	if err := requireScalarKind(k, "legendre"); err != nil {
		return Legendre{}, err
	}
	return Legendre{Base{Kind: k}}, nil
}

func (m Legendre) Support() domain.Domain { return domain.ChebyshevInterval{} }

func (m Legendre) UnsafeWeight(numeric.Value) (float64, error) { return 1, nil }

func (m Legendre) Similar(k numeric.Kind) (Measure, error) {
	return NewLegendreWithKind(k)
}

// LebesgueFor 依 domain 物件的實際形狀選出正確的 Lebesgue 家族變體。
//
// 封閉且總射的對應：單位區間 → UnitLebesgue；[-1,1] → Legendre；
// 全空間 → Lebesgue；其餘任何形狀一律落到 DomainLebesgue，永不失敗。
func LebesgueFor(d domain.Domain) Continuous {
	if d == nil {
		return NewLebesgue()
	}
	switch d.(type) {
	case domain.UnitInterval:
		return NewUnitLebesgue()
	case domain.ChebyshevInterval:
		return NewLegendre()
	case domain.FullSpace:
		return NewLebesgue()
	default:
		return NewDomainLebesgue(d)
	}
}
