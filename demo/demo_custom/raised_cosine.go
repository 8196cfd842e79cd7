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

// Package demo_custom 示範如何以 RegisterBuilder 擴充自訂的 measure 變體。
// 匯入本套件（空白匯入即可）後，設定檔就能以 kind_key: raised_cosine 建構它。
package demo_custom

import (
	"log"
	"math"

	"github.com/zintix-labs/measurelab/errs"
	"github.com/zintix-labs/measurelab/sdk/domain"
	"github.com/zintix-labs/measurelab/sdk/measure"
	"github.com/zintix-labs/measurelab/sdk/numeric"
	"github.com/zintix-labs/measurelab/setting"
)

// KindRaisedCosine 是本套件註冊的自訂 kind。
const KindRaisedCosine setting.KindKey = "raised_cosine"

// ============================================================
// ** 註冊 **
// ============================================================

func init() {
	if err := setting.RegisterBuilder(KindRaisedCosine, buildRaisedCosine); err != nil {
		log.Fatalf("%s register failed: %v", KindRaisedCosine, err)
	}
}

func buildRaisedCosine(ms *setting.MeasureSetting) (measure.Measure, error) {
	k, err := ms.PrecisionKind()
	if err != nil {
		return nil, err
	}
	return NewRaisedCosineWithKind(k)
}

// ============================================================
// ** 變體本體 **
// ============================================================

// RaisedCosine : [-1,1] 上的 (1+cos(πx))/2 權重，端點為 0，總權重為 1。
type RaisedCosine struct {
	measure.Base
}

func NewRaisedCosine() RaisedCosine {
	return RaisedCosine{Base: measure.Base{Kind: numeric.Float64}}
}

func NewRaisedCosineWithKind(k numeric.Kind) (RaisedCosine, error) {
	if k.IsVec() || !k.Valid() {
		return RaisedCosine{}, errs.Warnf("raised_cosine needs a scalar kind, got %s", k)
	}
	m := NewRaisedCosine()
	m.Kind = k
	return m, nil
}

func (m RaisedCosine) Support() domain.Domain { return domain.ChebyshevInterval{} }

func (m RaisedCosine) IsNormalized() bool { return true }

func (m RaisedCosine) UnsafeWeight(p numeric.Value) (float64, error) {
	return (1 + math.Cos(math.Pi*p.Float())) / 2, nil
}

func (m RaisedCosine) Similar(k numeric.Kind) (measure.Measure, error) {
	return NewRaisedCosineWithKind(k)
}
