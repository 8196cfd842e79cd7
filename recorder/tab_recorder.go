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

package recorder

import (
	"fmt"
	"math"

	"github.com/zintix-labs/measurelab/errs"
	"github.com/zintix-labs/measurelab/setting"
	"github.com/zintix-labs/measurelab/stats"
)

// TabRecorder 測度列表紀錄員
//
// TabRecorder 負責紀錄逐格點的權重求值結果，並透過Done輸出統計報表
type TabRecorder struct {
	MeasureName  string
	MeasureId    setting.MID
	Kind         string
	DomainKind   string
	CodomainKind string
	Support      string
	Normalized   bool
	GridStep     float64
	Basic        *BasicRecord
	Values       *ValueRecord
}

// BasicRecord 基本累積資料紀錄
type BasicRecord struct {
	Points      int
	InSupport   int
	ZeroWeight  int
	SumWeight   float64
	SqSumWeight float64 // 平方和
	MinWeight   float64
	MaxWeight   float64
}

// ValueRecord 逐點收集
//
// 紀錄時只append，格點順序即求值順序
type ValueRecord struct {
	Xs      []float64
	Weights []float64
}

func NewTabRecorder(name string, id setting.MID, kind string, step float64, capHint int) (*TabRecorder, error) {
	s := new(TabRecorder)

	if name == "" {
		return s, errs.NewFatal("measure name must not be empty")
	}

	if kind == "" {
		return s, errs.NewFatal(fmt.Sprintf("measure kind err for %s", name))
	}

	if step < 0 {
		return s, errs.NewFatal(fmt.Sprintf("grid step must not be negative, got: %g", step))
	}

	if capHint < 0 {
		capHint = 0
	}
	// 通過valid
	s.MeasureName = name
	s.MeasureId = id
	s.Kind = kind
	s.GridStep = step
	s.Basic = newBasicRecord()
	s.Values = &ValueRecord{
		Xs:      make([]float64, 0, capHint),
		Weights: make([]float64, 0, capHint),
	}

	return s, nil
}

// MergeTabRecorder 依切片順序合併多個紀錄員
//
// 各worker負責連續的格點區段，依序合併即可保持整體格點順序
func MergeTabRecorder(r []*TabRecorder) (*TabRecorder, error) {
	r0 := r[0]
	total := 0
	for _, v := range r {
		total += v.Basic.Points
	}
	s, err := NewTabRecorder(r0.MeasureName, r0.MeasureId, r0.Kind, r0.GridStep, total)
	if err != nil {
		return s, err
	}
	s.DomainKind = r0.DomainKind
	s.CodomainKind = r0.CodomainKind
	s.Support = r0.Support
	s.Normalized = r0.Normalized
	for _, v := range r {
		if v.MeasureName != r0.MeasureName {
			return s, errs.NewFatal("merge tab record err : different measure name")
		}
		if v.MeasureId != r0.MeasureId {
			return s, errs.NewFatal("merge tab record err : different measure id")
		}
		if v.Kind != r0.Kind {
			return s, errs.NewFatal("merge tab record err : different kind")
		}
		if v.GridStep != r0.GridStep {
			return s, errs.NewFatal("merge tab record err : different grid step")
		}
		s.Basic.Points += v.Basic.Points
		s.Basic.InSupport += v.Basic.InSupport
		s.Basic.ZeroWeight += v.Basic.ZeroWeight
		s.Basic.SumWeight += v.Basic.SumWeight
		s.Basic.SqSumWeight += v.Basic.SqSumWeight
		if v.Basic.MinWeight < s.Basic.MinWeight {
			s.Basic.MinWeight = v.Basic.MinWeight
		}
		if v.Basic.MaxWeight > s.Basic.MaxWeight {
			s.Basic.MaxWeight = v.Basic.MaxWeight
		}

		// 整合Values
		s.Values.Xs = append(s.Values.Xs, v.Values.Xs...)
		s.Values.Weights = append(s.Values.Weights, v.Values.Weights...)
	}
	return s, nil
}

// Record 以單一格點的求值結果更新累積統計
//
// in 表示該點是否落於支撐內。權重為0無法區分「支撐外」與
// 「支撐內但權重公式為0」，所以由呼叫端判斷後帶入
func (s *TabRecorder) Record(x float64, w float64, in bool) {
	s.Basic.Points++
	if in {
		s.Basic.InSupport++
		s.Basic.SumWeight += w
		s.Basic.SqSumWeight += w * w
	}
	if w == 0 {
		s.Basic.ZeroWeight++
	}
	if w < s.Basic.MinWeight {
		s.Basic.MinWeight = w
	}
	if w > s.Basic.MaxWeight {
		s.Basic.MaxWeight = w
	}

	s.Values.Xs = append(s.Values.Xs, x)
	s.Values.Weights = append(s.Values.Weights, w)
}

func (s *TabRecorder) Done() *stats.TabReport {
	minW := s.Basic.MinWeight
	maxW := s.Basic.MaxWeight
	if s.Basic.Points == 0 {
		minW = 0
		maxW = 0
	}

	report := &stats.TabReport{
		Summary: &stats.SummaryReport{
			MeasureName:  s.MeasureName,
			MeasureId:    s.MeasureId,
			Kind:         s.Kind,
			DomainKind:   s.DomainKind,
			CodomainKind: s.CodomainKind,
			Support:      s.Support,
			Normalized:   s.Normalized,
			GridStep:     s.GridStep,
			Points:       s.Basic.Points,
			InSupport:    s.Basic.InSupport,
			ZeroWeight:   s.Basic.ZeroWeight,
			MinWeight:    minW,
			MaxWeight:    maxW,
			SumWeight:    s.Basic.SumWeight,
			SqSumWeight:  s.Basic.SqSumWeight,
		},
		Values: &stats.ValueReport{
			Xs:      s.Values.Xs,
			Weights: s.Values.Weights,
		},
	}

	report.Done()
	return report
}

func newBasicRecord() *BasicRecord {
	b := new(BasicRecord)
	b.MinWeight = math.Inf(1)
	b.MaxWeight = math.Inf(-1)
	return b
}
