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

package numeric

import (
	"fmt"

	"github.com/zintix-labs/measurelab/errs"
)

// Value 是評估路徑上的標準點載體（canonical point carrier）。
//
// 內部一律以 float64 儲存：
//   - 純量 kind（Int/Float32/Float64）存在 s。
//   - 向量 kind（Vec32/Vec64）存在 v（Value 獨佔持有，建構時複製）。
//
// Int 值在 |x| <= 2^53 範圍內保證精確；Float32 來源的值本身即可被 float64
// 精確表示。kind 標籤保留宣告型別，讓 Promote/Convert 維持顯式。
type Value struct {
	kind Kind
	s    float64
	v    []float64
}

// ErrBadArgument : 無法辨識為本包支援的數值型別。
var ErrBadArgument = errs.NewWarn("argument is not a supported numeric type")

// ValueOf 將 Go 數值轉成 Value。
//
// 支援：int / int32 / int64 / float32 / float64 / []float32 / []float64，
// 以及 Value 本身（原樣通過）。其餘型別回傳 ErrBadArgument。
func ValueOf(x any) (Value, error) {
	switch t := x.(type) {
	case Value:
		return t, nil
	case int:
		return Value{kind: Int, s: float64(t)}, nil
	case int32:
		return Value{kind: Int, s: float64(t)}, nil
	case int64:
		return Value{kind: Int, s: float64(t)}, nil
	case float32:
		return Value{kind: Float32, s: float64(t)}, nil
	case float64:
		return Value{kind: Float64, s: t}, nil
	case []float32:
		v := make([]float64, len(t))
		for i, e := range t {
			v[i] = float64(e)
		}
		return Value{kind: Vec32, v: v}, nil
	case []float64:
		v := make([]float64, len(t))
		copy(v, t)
		return Value{kind: Vec64, v: v}, nil
	default:
		return Value{}, errs.Wrap(ErrBadArgument, fmt.Sprintf("valueof: %T", x))
	}
}

// Scalar 以指定 kind 直接建構純量 Value（供建構子/測試使用）。
func Scalar(kind Kind, x float64) Value {
	if kind.IsVec() || !kind.Valid() {
		return Value{}
	}
	return Value{kind: kind, s: x}
}

// Vector 以指定 kind 建構向量 Value；輸入切片會被複製。
func Vector(kind Kind, x []float64) Value {
	if !kind.IsVec() {
		return Value{}
	}
	v := make([]float64, len(x))
	copy(v, x)
	return Value{kind: kind, v: v}
}

func (a Value) Kind() Kind  { return a.kind }
func (a Value) IsVec() bool { return a.kind.IsVec() }

// Dim 回傳向量維度；純量視為 1。
func (a Value) Dim() int {
	if a.IsVec() {
		return len(a.v)
	}
	return 1
}

// Float 回傳純量值；對向量 Value 呼叫回傳 0（呼叫端應先檢查 IsVec）。
func (a Value) Float() float64 {
	if a.IsVec() {
		return 0
	}
	return a.s
}

// Floats 回傳向量內容的唯讀視角。
//
// 回傳的切片不可修改；需要可寫副本請自行 copy。純量 Value 回傳 nil。
func (a Value) Floats() []float64 {
	return a.v
}

// Convert 將 Value 轉到 kind k。
//
// 只允許「往上」：Promote(a.Kind, k) 必須等於 k，否則視為有損轉換並回傳錯誤。
// 同 kind 轉換為 no-op（不配置、不複製）。
func (a Value) Convert(k Kind) (Value, error) {
	if a.kind == k {
		return a, nil
	}
	common, err := Promote(a.kind, k)
	if err != nil {
		return Value{}, err
	}
	if common != k {
		return Value{}, errs.Warnf("convert: %s -> %s is lossy", a.kind, k)
	}
	// 內部表示已是 float64，往上轉換只需改標籤。
	out := a
	out.kind = k
	return out, nil
}

// Equal 回報兩個 Value 的 kind 與內容是否完全相等。
func (a Value) Equal(b Value) bool {
	if a.kind != b.kind {
		return false
	}
	if a.IsVec() {
		if len(a.v) != len(b.v) {
			return false
		}
		for i := range a.v {
			if a.v[i] != b.v[i] {
				return false
			}
		}
		return true
	}
	return a.s == b.s
}

func (a Value) String() string {
	if a.IsVec() {
		return fmt.Sprintf("%s%v", a.kind, a.v)
	}
	return fmt.Sprintf("%s(%v)", a.kind, a.s)
}
