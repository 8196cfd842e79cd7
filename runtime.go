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
	"context"
	"sync"
	"sync/atomic"

	"github.com/zintix-labs/measurelab/catalog"
	"github.com/zintix-labs/measurelab/dto"
	"github.com/zintix-labs/measurelab/errs"
	"github.com/zintix-labs/measurelab/sdk/measure"
	"github.com/zintix-labs/measurelab/setting"
	"github.com/zintix-labs/measurelab/stats"
)

// EvalRuntime 是對外服務用的求值入口。
//
// measure 是 immutable value，可被多個 goroutines 併發求值，
// 所以 runtime 在 build 階段把所有 measure 一次建好後只讀使用，不需要池化。
type EvalRuntime struct {
	// build-time 來源（只讀引用）
	lab *Measurelab // 方便取 catalog 與共用一些 helper

	// data-plane：每個 measure 一個建好的實例
	measures map[setting.MID]measure.Measure
	ids      []setting.MID // 固定順序，用於觀測/列舉（來自 cat.IDs()）

	// lifecycle
	done      chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
	reason    atomic.Value // string

	// runtime 行為設定（一期先簡單，之後可擴展）
	tabWorkers int // Tab 任務允許的最大併發 worker 數
}

func (rt *EvalRuntime) Weight(ctx context.Context, req *dto.WeightRequest) (dto.WeightResult, error) {
	if err := rt.gate(ctx); err != nil {
		return dto.WeightResult{}, err
	}

	m, ent, err := rt.resolve(req.MeasureId, req.MeasureName)
	if err != nil {
		return dto.WeightResult{}, err
	}
	mc, ok := m.(measure.Continuous)
	if !ok {
		return dto.WeightResult{}, errs.NewWarn("measure has no continuous weight function")
	}

	v, err := req.Point()
	if err != nil {
		return dto.WeightResult{}, err
	}
	w, err := measure.Weight(mc, v)
	if err != nil {
		return dto.WeightResult{}, err
	}
	return dto.NewWeightResultDTO(ent.Name, ent.MID, mc, v, w), nil
}

func (rt *EvalRuntime) WeightAt(ctx context.Context, req *dto.WeightAtRequest) (dto.WeightAtResult, error) {
	if err := rt.gate(ctx); err != nil {
		return dto.WeightAtResult{}, err
	}

	m, ent, err := rt.resolve(req.MeasureId, req.MeasureName)
	if err != nil {
		return dto.WeightAtResult{}, err
	}
	md, ok := m.(measure.Discrete)
	if !ok {
		return dto.WeightAtResult{}, errs.NewWarn("measure has no discrete weight collection")
	}

	w, err := measure.WeightAt(md, req.Index)
	if err != nil {
		return dto.WeightAtResult{}, err
	}
	return dto.NewWeightAtResultDTO(ent.Name, ent.MID, md, req.Index, w)
}

// Tab 對 [lo, hi] 均勻格點逐點求權重並回傳統計報表（含完整逐點結果）。
//
// workers 會被 clamp 在 runtime 的 tabWorkers 上限內。
func (rt *EvalRuntime) Tab(ctx context.Context, req *dto.TabRequest) (*stats.TabReport, error) {
	if err := rt.gate(ctx); err != nil {
		return nil, err
	}
	if err := req.Valid(); err != nil {
		return nil, err
	}

	_, ent, err := rt.resolve(req.MeasureId, req.MeasureName)
	if err != nil {
		return nil, err
	}
	tab, err := rt.lab.NewTabulator(ent.MID)
	if err != nil {
		return nil, err
	}

	workers := min(max(req.Workers, 1), rt.tabWorkers)
	var report *stats.TabReport
	if workers > 1 {
		report, _, err = tab.TabMP(req.Lo, req.Hi, req.N, workers, false)
	} else {
		report, _, err = tab.Tab(req.Lo, req.Hi, req.N, false)
	}
	if err != nil {
		return nil, err
	}
	if !req.WithValues {
		report.Values = nil
	}
	return report, nil
}

func (rt *EvalRuntime) Measures() []dto.MeasureInfo {
	sum, err := rt.lab.Summary()
	if err != nil {
		return nil
	}
	infos := make([]dto.MeasureInfo, 0, len(sum))
	for _, s := range sum {
		infos = append(infos, dto.MeasureInfo{
			MeasureName: s.Name,
			MeasureID:   s.MID,
			Kind:        string(s.Kind),
			Precision:   s.Precision,
		})
	}
	return infos
}

func (rt *EvalRuntime) TabWorkers() int { return rt.tabWorkers }

func (rt *EvalRuntime) Lab() *Measurelab { return rt.lab }

// Close transitions the runtime into a closed state. It is safe to call multiple times.
func (rt *EvalRuntime) Close() {
	rt.closeWithReason("closed")
}

// closeWithReason closes the runtime and records the reason (written once).
func (rt *EvalRuntime) closeWithReason(reason string) {
	rt.closeOnce.Do(func() {
		if reason == "" {
			reason = "closed"
		}
		rt.reason.Store(reason)
		rt.closed.Store(true)
		close(rt.done)
	})
}

// Closed reports whether the runtime has been closed.
func (rt *EvalRuntime) Closed() bool {
	return rt.closed.Load()
}

func (rt *EvalRuntime) ClosedReason() string {
	if v := rt.reason.Load(); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func (rt *EvalRuntime) gate(ctx context.Context) error {
	select {
	case <-ctx.Done():
		// 如果通知取消
		return errs.NewWarn("eval canceled/timeout: " + ctx.Err().Error())
	case <-rt.done:
		// done is the source of truth; keep a fast boolean for cheap reads/telemetry.
		rt.closed.Store(true)
		return errs.NewFatal("eval runtime closed: " + rt.ClosedReason())
	default:
	}
	return nil
}

// resolve 以 mid 優先、name 次之找出 measure 與其目錄資訊。
func (rt *EvalRuntime) resolve(id setting.MID, name string) (measure.Measure, catalog.Entry, error) {
	if m, ok := rt.measures[id]; ok {
		if ent, ok := rt.lab.EntryById(id); ok {
			return m, ent, nil
		}
	}
	if name != "" {
		if ent, ok := rt.lab.EntryByName(name); ok {
			if m, ok := rt.measures[ent.MID]; ok {
				return m, ent, nil
			}
		}
	}
	return nil, catalog.Entry{}, errs.NewWarn("measure id not found")
}
