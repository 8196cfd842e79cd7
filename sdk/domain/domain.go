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

// Package domain 提供 measure 的支撐域（support domain）幾何物件。
//
// 對 measure 套件而言 Domain 是不透明的：gate 只會問「這個點是不是成員」。
// 具名形狀（FullSpace / UnitInterval / ChebyshevInterval / HalfLine / Point）
// 另外供 Lebesgue 家族工廠做型別分派。
package domain

import "github.com/zintix-labs/measurelab/sdk/numeric"

// Domain 回答成員關係。實作必須是無狀態的值物件，可安全併發使用。
type Domain interface {
	Contains(p numeric.Value) bool
	String() string
}

// 純量區間對向量點的語意：逐元素皆為成員才算成員。
// 這讓同一個區間物件可同時服務純量與向量 domain kind。
func scalarIn(p numeric.Value, lo, hi float64) bool {
	if p.IsVec() {
		for _, e := range p.Floats() {
			if e < lo || e > hi {
				return false
			}
		}
		return true
	}
	x := p.Float()
	return x >= lo && x <= hi
}

// FullSpace : 整個空間，任何點（任何維度）都是成員。
type FullSpace struct{}

func (FullSpace) Contains(numeric.Value) bool { return true }
func (FullSpace) String() string              { return "full_space" }

// UnitInterval : 閉區間 [0,1]。
type UnitInterval struct{}

func (UnitInterval) Contains(p numeric.Value) bool { return scalarIn(p, 0, 1) }
func (UnitInterval) String() string                { return "unit_interval" }

// ChebyshevInterval : 閉區間 [-1,1]，正交多項式的標準域。
type ChebyshevInterval struct{}

func (ChebyshevInterval) Contains(p numeric.Value) bool { return scalarIn(p, -1, 1) }
func (ChebyshevInterval) String() string                { return "chebyshev_interval" }

// HalfLine : 半直線 [0,∞)。
type HalfLine struct{}

func (HalfLine) Contains(p numeric.Value) bool {
	if p.IsVec() {
		for _, e := range p.Floats() {
			if e < 0 {
				return false
			}
		}
		return true
	}
	return p.Float() >= 0
}
func (HalfLine) String() string { return "half_line" }

// Interval : 一般閉區間 [Lo,Hi]，供 caller-supplied domain 使用。
type Interval struct {
	Lo float64
	Hi float64
}

func (d Interval) Contains(p numeric.Value) bool { return scalarIn(p, d.Lo, d.Hi) }
func (d Interval) String() string                { return "interval" }

// Point : 單點集 {At}，Dirac measure 的支撐域。
type Point struct {
	At numeric.Value
}

// Contains 要求 kind 與數值完全相等。
// kind 不同的點會先被 gate 的 promotion 階段統一，這裡不做任何寬容比較。
func (d Point) Contains(p numeric.Value) bool { return d.At.Equal(p) }
func (d Point) String() string                { return "point" }
