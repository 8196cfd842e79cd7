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
	"github.com/zintix-labs/measurelab/errs"
	"github.com/zintix-labs/measurelab/sdk/numeric"
)

// Weight 是連續 measure 的安全評估入口（gate）。
//
// 兩階段：
//  1. promote-until-matched：點的 kind 與 measure 的 domain kind 不同時，
//     先求共同上型別，measure 走 Similar 重建、點走 Convert 轉換。
//     兩者一致後才進入下一步，保證 UnsafeWeight 永遠收到型別一致的點。
//  2. support gate：點在支撐域外回傳 codomain 的 0（這是定義好的行為，不是錯誤）；
//     在支撐域內才呼叫變體的 UnsafeWeight，並壓回 codomain 精度。
//
// x 可以是 Go 數值（int / float32 / float64 / []float32 / []float64）或
// numeric.Value。kind 已一致時不做任何轉換（promotion idempotence）。
func Weight(m Continuous, x any) (float64, error) {
	v, err := numeric.ValueOf(x)
	if err != nil {
		return 0, err
	}
	return weightValue(m, v)
}

func weightValue(m Continuous, v numeric.Value) (float64, error) {
	if v.Kind() != m.DomainKind() {
		common, err := numeric.Promote(v.Kind(), m.DomainKind())
		if err != nil {
			return 0, err
		}
		sm, err := m.Similar(common)
		if err != nil {
			return 0, err
		}
		cm, ok := sm.(Continuous)
		if !ok {
			// Similar 的合約是「同變體、新 kind」，能力集合不應縮水
			return 0, errs.NewFatal("similar measure lost continuous capability")
		}
		cv, err := v.Convert(common)
		if err != nil {
			return 0, err
		}
		m, v = cm, cv
	}

	if !m.Support().Contains(v) {
		return 0, nil
	}

	w, err := m.UnsafeWeight(v)
	if err != nil {
		return 0, err
	}
	return numeric.RoundWeight(w, m.CodomainKind()), nil
}

// WeightFunc 把 Weight 包成 point -> weight 的閉包，方便交給只要函數的呼叫端。
func WeightFunc(m Continuous) func(x any) (float64, error) {
	return func(x any) (float64, error) {
		return Weight(m, x)
	}
}
