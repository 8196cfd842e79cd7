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

// Package numeric 提供 measurelab 的數值型別塔（kind tower）。
//
// 核心合約只有三個，全部都是顯式、可測試的純函數：
//  1. Promote：兩個 kind 的共同上型別（common supertype）。
//  2. Precision：任一 kind 底層的純量浮點精度（codomain kind）。
//  3. Convert（見 value.go）：只允許「往上」的無損轉換。
//
// 不依賴 Go 的隱式轉換規則；任何跨精度行為都必須經過這裡。
package numeric

import "github.com/zintix-labs/measurelab/errs"

// Kind 是宣告用的數值型別標籤。
type Kind uint8

const (
	Invalid Kind = iota
	Int          // Go int / int32 / int64
	Float32
	Float64
	Vec32 // []float32
	Vec64 // []float64
)

var kindName = map[Kind]string{
	Invalid: "invalid",
	Int:     "int",
	Float32: "float32",
	Float64: "float64",
	Vec32:   "vec32",
	Vec64:   "vec64",
}

func (k Kind) String() string {
	if s, ok := kindName[k]; ok {
		return s
	}
	return "invalid"
}

// KindByName 由設定檔字串解析 Kind（"float64"、"vec32"...），找不到回傳 Invalid。
func KindByName(name string) Kind {
	for k, s := range kindName {
		if s == name && k != Invalid {
			return k
		}
	}
	return Invalid
}

// IsVec 回報 k 是否為向量 kind。
func (k Kind) IsVec() bool { return k == Vec32 || k == Vec64 }

// Valid 回報 k 是否為本包定義的合法 kind。
func (k Kind) Valid() bool { return k >= Int && k <= Vec64 }

// ErrNoCommonKind : 兩個 kind 沒有共同上型別（例如純量對向量）。
var ErrNoCommonKind = errs.NewWarn("no common numeric kind")

// 純量塔的序：Int < Float32 < Float64。
// Int→Float32 與多數數值塔一致（整數優先讓位給浮點精度）。
var scalarRank = map[Kind]int{Int: 1, Float32: 2, Float64: 3}

// Promote 回傳 a 與 b 的共同上型別。
//
// 規則：
//   - 相同 kind → 自身（no-op，對應 promotion idempotence）。
//   - 純量彼此 → 塔上較高者（Int < Float32 < Float64）。
//   - 向量彼此 → 元素 kind 逐一提升（Vec32 < Vec64）。
//   - 純量對向量、或任一方 Invalid → ErrNoCommonKind。
//
// Promote 是全函數：任何輸入都有定義好的結果或錯誤，不會 panic。
func Promote(a, b Kind) (Kind, error) {
	if !a.Valid() || !b.Valid() {
		return Invalid, errs.Wrap(ErrNoCommonKind, "promote: invalid kind")
	}
	if a == b {
		return a, nil
	}
	if a.IsVec() != b.IsVec() {
		return Invalid, errs.Wrap(ErrNoCommonKind, "promote: scalar vs vector")
	}
	if a.IsVec() {
		// 向量：元素型別逐一提升
		if a == Vec64 || b == Vec64 {
			return Vec64, nil
		}
		return Vec32, nil
	}
	if scalarRank[a] > scalarRank[b] {
		return a, nil
	}
	return b, nil
}

// Precision 回傳 k 底層的純量浮點精度，即 measure 的 codomain kind。
//
// Int 沒有自己的浮點精度，取塔頂 Float64。
func Precision(k Kind) Kind {
	switch k {
	case Int, Float64, Vec64:
		return Float64
	case Float32, Vec32:
		return Float32
	default:
		return Invalid
	}
}

// Elem 回傳向量 kind 的元素 kind；純量 kind 直接回傳自身。
func Elem(k Kind) Kind {
	switch k {
	case Vec32:
		return Float32
	case Vec64:
		return Float64
	default:
		return k
	}
}

// RoundWeight 把權重值壓回 codomain 精度。
//
// Float32 codomain 的值需經過 float32 往返，保證「回傳值可被 codomain 精確表示」
// 這個不變量可被外部觀測。±Inf 與 NaN 原樣通過。
func RoundWeight(w float64, codomain Kind) float64 {
	if codomain == Float32 {
		return float64(float32(w))
	}
	return w
}
