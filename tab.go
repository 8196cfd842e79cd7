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

package measurelab

import (
	"io"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/measurelab/errs"
	"github.com/zintix-labs/measurelab/recorder"
	"github.com/zintix-labs/measurelab/sdk/measure"
	"github.com/zintix-labs/measurelab/sdk/numeric"
	"github.com/zintix-labs/measurelab/setting"
	"github.com/zintix-labs/measurelab/stats"
	"gonum.org/v1/gonum/floats"
)

const capPrepare int = 16

// Tabulator 用於對 measure 作大量格點求值，可平行分段紀錄統計。
type Tabulator struct {
	MeasureName string                  // 測度名稱
	MeasureId   setting.MID             // 測度編號
	ms          *setting.MeasureSetting // 方便重用建立 recorder
	m           measure.Measure         // 已建好的 measure（immutable，可併發求值）
	rBuf        []*recorder.TabRecorder // 併發紀錄員
}

func newTabulator(ms *setting.MeasureSetting) (*Tabulator, error) {
	m, err := setting.Build(ms)
	if err != nil {
		return nil, err
	}
	s := &Tabulator{
		MeasureName: ms.MeasureName,
		MeasureId:   ms.MeasureID,
		ms:          ms,
		m:           m,
		rBuf:        make([]*recorder.TabRecorder, 0, capPrepare),
	}
	return s, nil
}

// Tab 單線列表器：對 [lo, hi] 均勻 n 點逐點求權重並回傳統計結果與用時。
//
// 離散 measure 不走格點：改列舉其支撐點（見 TabPoints）。
func (s *Tabulator) Tab(lo, hi float64, n int, showpb bool) (*stats.TabReport, time.Duration, error) {
	defer s.reset()
	if md, ok := s.m.(measure.Discrete); ok {
		return s.tabPoints(md, showpb)
	}
	mc, ok := s.m.(measure.Continuous)
	if !ok {
		return nil, 0, errs.NewWarn("measure has no continuous weight function")
	}
	if n < 1 {
		return nil, 0, errs.NewWarn("n must > 0")
	}
	if lo > hi {
		return nil, 0, errs.NewWarn("lo must <= hi")
	}

	xs, step := Linspace(lo, hi, n)
	r, err := s.newRecorder(step, n)
	if err != nil {
		return nil, 0, err
	}

	bar := pb.StartNew(n)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	for _, x := range xs {
		w, werr := measure.Weight(mc, x)
		if werr != nil {
			bar.Finish()
			return nil, 0, werr
		}
		r.Record(x, w, mc.Support().Contains(numeric.Scalar(numeric.Float64, x)))
		bar.Increment()
	}
	used := time.Since(bar.StartTime())
	bar.Finish()
	result := r.Done()

	return result, used, nil
}

// TabMP 平行列表器：n 個格點切成 mp 段連續區間，各 worker 求值自己的區段，
// 依 worker 順序合併統計結果後回傳，保持整體格點順序。
func (s *Tabulator) TabMP(lo, hi float64, n, mp int, showpb bool) (*stats.TabReport, time.Duration, error) {
	defer s.reset()
	if mp <= 0 {
		return nil, 0, errs.NewWarn("workers must > 0")
	}
	if md, ok := s.m.(measure.Discrete); ok {
		return s.tabPoints(md, showpb)
	}
	mc, ok := s.m.(measure.Continuous)
	if !ok {
		return nil, 0, errs.NewWarn("measure has no continuous weight function")
	}
	if n < 1 {
		return nil, 0, errs.NewWarn("n must > 0")
	}
	if lo > hi {
		return nil, 0, errs.NewWarn("lo must <= hi")
	}
	if mp > n {
		mp = n
	}

	xs, step := Linspace(lo, hi, n)
	for len(s.rBuf) < mp {
		r, err := s.newRecorder(step, n/mp+1)
		if err != nil {
			return nil, 0, err
		}
		s.rBuf = append(s.rBuf, r)
	}

	wg := new(sync.WaitGroup)
	wg.Add(mp)
	bar := pb.StartNew(n)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	errBuf := make([]error, mp)
	for i := 0; i < mp; i++ {
		go func(i int) {
			defer wg.Done()
			st := s.rBuf[i]
			// 連續區段切分：worker i 處理 [i*n/mp, (i+1)*n/mp)
			beg := i * n / mp
			end := (i + 1) * n / mp
			for _, x := range xs[beg:end] {
				w, werr := measure.Weight(mc, x)
				if werr != nil {
					errBuf[i] = werr
					return
				}
				st.Record(x, w, mc.Support().Contains(numeric.Scalar(numeric.Float64, x)))
				bar.Increment()
			}
		}(i)
	}
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()

	for _, werr := range errBuf {
		if werr != nil {
			return nil, 0, werr
		}
	}

	st, err := recorder.MergeTabRecorder(s.rBuf)
	if err != nil {
		return nil, 0, err
	}
	result := st.Done()

	return result, used, nil
}

// tabPoints 列舉離散 measure 的全部支撐點與權重。
func (s *Tabulator) tabPoints(md measure.Discrete, showpb bool) (*stats.TabReport, time.Duration, error) {
	n := md.Len()
	r, err := s.newRecorder(0, n)
	if err != nil {
		return nil, 0, err
	}

	pts := md.Points()
	bar := pb.StartNew(n)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	for i := 0; i < n; i++ {
		w, werr := measure.WeightAt(md, i)
		if werr != nil {
			bar.Finish()
			return nil, 0, werr
		}
		// 離散點必屬支撐
		r.Record(pts[i].Float(), w, true)
		bar.Increment()
	}
	used := time.Since(bar.StartTime())
	bar.Finish()
	result := r.Done()

	return result, used, nil
}

func (s *Tabulator) newRecorder(step float64, capHint int) (*recorder.TabRecorder, error) {
	r, err := recorder.NewTabRecorder(s.MeasureName, s.MeasureId, string(s.ms.KindKey), step, capHint)
	if err != nil {
		return nil, err
	}
	r.DomainKind = s.m.DomainKind().String()
	r.CodomainKind = s.m.CodomainKind().String()
	r.Support = s.m.Support().String()
	r.Normalized = s.m.IsNormalized()
	return r, nil
}

func (s *Tabulator) reset() {
	s.rBuf = s.rBuf[:0]
}

// Linspace 回傳 [lo, hi] 的 n 個均勻格點與格距。
//
// n == 1 時回傳 lo 單點、格距 0。
func Linspace(lo, hi float64, n int) ([]float64, float64) {
	if n < 1 {
		return nil, 0
	}
	if n == 1 {
		return []float64{lo}, 0
	}
	xs := make([]float64, n)
	floats.Span(xs, lo, hi)
	step := (hi - lo) / float64(n-1)
	return xs, step
}
