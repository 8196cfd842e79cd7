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

// Package measure 實作 measure 的分派與安全協定（dispatch & safety protocol）。
//
// 一個 measure 由 domain kind（接受什麼點）、codomain kind（回傳什麼精度的權重，
// 恆為 domain kind 的 Precision）、支撐域（support）與一條 unsafe 權重公式組成。
// 所有外部評估都必須走本包的兩個 gate：
//
//   - 連續：Weight() 先做 kind promotion 直到型別完全一致，再做支撐域成員檢查，
//     成員才呼叫 UnsafeWeight；非成員回傳 codomain 的加法單位元（0），不是錯誤。
//   - 離散：WeightAt() 先做邊界檢查，通過才走 UnsafeWeightAt 的無檢查讀取。
//
// 因此 leaf 公式永遠不需要自我防衛：它收到的點保證型別一致且在支撐域內。
//
// 所有 measure 實例都是不可變的值物件；改變 kind 一律透過 Similar 重建新實例。
// 整包無共享可變狀態，任何操作都可安全併發呼叫。
package measure

import (
	"github.com/zintix-labs/measurelab/errs"
	"github.com/zintix-labs/measurelab/sdk/domain"
	"github.com/zintix-labs/measurelab/sdk/numeric"
)

// DefaultTol 是近似比較與 normalization 檢查的預設容差。
const DefaultTol = 1e-8

// Measure 是所有 measure 變體共享的能力集合。
type Measure interface {
	// DomainKind 回傳此 measure 接受的點的 kind。
	DomainKind() numeric.Kind
	// CodomainKind 回傳權重值的純量精度，恆等於 numeric.Precision(DomainKind())。
	CodomainKind() numeric.Kind
	// Support 回傳支撐域；沒有覆寫的變體預設為全空間。
	Support() domain.Domain
	// IsNormalized 回報總權重是否為 1（靜態事實，不做計算；離散變體例外，見各實作）。
	IsNormalized() bool
	// Similar 以新的 domain kind 重建等價變體（純函數，不改變 receiver）。
	Similar(k numeric.Kind) (Measure, error)
}

// Continuous 是可在任意點評估的 measure。
type Continuous interface {
	Measure
	// UnsafeWeight 是原始權重公式。
	// 只能在 gate 確認 kind 一致且點在支撐域內之後呼叫。
	UnsafeWeight(p numeric.Value) (float64, error)
}

// Discrete 是以有限 (point, weight) 序列定義的 measure。
type Discrete interface {
	Measure
	Len() int
	Points() []numeric.Value
	Weights() []float64
	// UnsafeWeightAt 是無邊界檢查的索引讀取，只能在 WeightAt 通過檢查後呼叫。
	UnsafeWeightAt(i int) float64
}

// ErrNoWeightFormula : 變體沒有提供 UnsafeWeight（例如只作為抽象基底）。
var ErrNoWeightFormula = errs.NewFatal("measure variant has no weight formula")

// Base 是變體的預設能力（可嵌入）。
//
// 未覆寫的變體得到：全空間支撐域、非 normalized、呼叫即錯的權重公式。
// Base 刻意不提供 Similar：每個變體必須自己定義重建方式。
type Base struct {
	Kind numeric.Kind
}

func (b Base) DomainKind() numeric.Kind   { return b.Kind }
func (b Base) CodomainKind() numeric.Kind { return numeric.Precision(b.Kind) }
func (b Base) Support() domain.Domain     { return domain.FullSpace{} }
func (b Base) IsNormalized() bool         { return false }

func (b Base) UnsafeWeight(numeric.Value) (float64, error) {
	return 0, ErrNoWeightFormula
}

// IsContinuous 回報 m 是否具備連續評估能力。
func IsContinuous(m Measure) bool {
	_, ok := m.(Continuous)
	return ok
}

// IsDiscrete 回報 m 是否為離散 measure。
func IsDiscrete(m Measure) bool {
	_, ok := m.(Discrete)
	return ok
}

// 建構子共用的 kind 檢查

func requireValidKind(k numeric.Kind, variant string) error {
	if !k.Valid() {
		return errs.Warnf("%s: invalid domain kind", variant)
	}
	return nil
}

func requireScalarKind(k numeric.Kind, variant string) error {
	if err := requireValidKind(k, variant); err != nil {
		return err
	}
	if k.IsVec() {
		return errs.Warnf("%s: vector domain kind not supported", variant)
	}
	return nil
}
