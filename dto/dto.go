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

package dto

import (
	"math"

	"github.com/zintix-labs/measurelab/errs"
	"github.com/zintix-labs/measurelab/sdk/measure"
	"github.com/zintix-labs/measurelab/sdk/numeric"
	"github.com/zintix-labs/measurelab/setting"
)

// WeightResult 為對外輸出的權重求值結果。
//
// Weight 永遠是有限浮點數；Dirac 在其支撐點上的權重是 +Inf，
// 但 JSON 無法表示 Inf，所以改以 inf 旗標 + weight=0 輸出。
//
// x / xs 擇一：scalar 求值點走 x，vector 求值點走 xs。
type WeightResult struct {
	MeasureName string      `json:"measure"`
	MeasureID   setting.MID `json:"mid"`
	DomainKind  string      `json:"domain_kind"` // 求值後實際使用的定義域數值型別
	X           float64     `json:"x"`
	Xs          []float64   `json:"xs,omitempty"`
	Weight      float64     `json:"weight"`
	IsInf       bool        `json:"inf,omitempty"`
	InSupport   bool        `json:"in_support"`
	Normalized  bool        `json:"normalized"`
}

func NewWeightResultDTO(name string, id setting.MID, m measure.Continuous, v numeric.Value, w float64) WeightResult {
	dto := WeightResult{
		MeasureName: name,
		MeasureID:   id,
		DomainKind:  m.DomainKind().String(),
		Weight:      w,
		InSupport:   m.Support().Contains(v),
		Normalized:  m.IsNormalized(),
	}
	if v.IsVec() {
		dto.Xs = v.Floats()
	} else {
		dto.X = v.Float()
	}
	if math.IsInf(w, 1) {
		dto.Weight = 0
		dto.IsInf = true
	}
	return dto
}

// WeightAtResult 為對外輸出的離散權重查詢結果。
type WeightAtResult struct {
	MeasureName string      `json:"measure"`
	MeasureID   setting.MID `json:"mid"`
	Index       int         `json:"i"` // 0-based
	Len         int         `json:"len"`
	Point       float64     `json:"point"`
	Weight      float64     `json:"weight"`
	Normalized  bool        `json:"normalized"`
}

func NewWeightAtResultDTO(name string, id setting.MID, m measure.Discrete, i int, w float64) (WeightAtResult, error) {
	pts := m.Points()
	if i < 0 || i >= len(pts) {
		return WeightAtResult{}, errs.NewWarn("index out of range for dto")
	}
	dto := WeightAtResult{
		MeasureName: name,
		MeasureID:   id,
		Index:       i,
		Len:         m.Len(),
		Point:       pts[i].Float(),
		Weight:      w,
		Normalized:  m.IsNormalized(),
	}
	return dto, nil
}

// MeasureInfo 為對外輸出的單一測度摘要。
type MeasureInfo struct {
	MeasureName string      `json:"measure"`
	MeasureID   setting.MID `json:"mid"`
	Kind        string      `json:"kind"`
	Precision   string      `json:"precision"`
}
