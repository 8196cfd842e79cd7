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

package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/zintix-labs/measurelab"
	"github.com/zintix-labs/measurelab/dto"
	"github.com/zintix-labs/measurelab/errs"
	"github.com/zintix-labs/measurelab/server/httperr"
	"github.com/zintix-labs/measurelab/server/svrcfg"
)

// 單點求值的逾時上限 避免長期卡住 handler
const evalTimeout = 5 * time.Second

// EvalHandler 持有常駐的 EvalRuntime 服務單點求值與列表查詢
type EvalHandler struct {
	rt *measurelab.EvalRuntime
}

func NewEvalHandler(sCfg *svrcfg.SvrCfg) (*EvalHandler, error) {
	if sCfg == nil || sCfg.Measurelab == nil {
		return nil, errs.NewFatal("measurelab is required")
	}
	rt, err := sCfg.Measurelab.BuildRuntime(sCfg.TabWorkers)
	if err != nil {
		return nil, err
	}
	return &EvalHandler{rt: rt}, nil
}

// Weight 回傳連續測度在指定點的權重
func (eh *EvalHandler) Weight(w http.ResponseWriter, r *http.Request) {
	req, err := dto.DecodeWeightRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), evalTimeout)
	defer cancel()

	result, err := eh.rt.Weight(ctx, req)
	if err != nil {
		// 這裡的錯誤來自 runtime 尊重錯誤分級
		httperr.Errs(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// WeightAt 回傳離散測度在指定索引的支撐點與權重
func (eh *EvalHandler) WeightAt(w http.ResponseWriter, r *http.Request) {
	req, err := dto.DecodeWeightAtRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), evalTimeout)
	defer cancel()

	result, err := eh.rt.WeightAt(ctx, req)
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// Measures 條列已註冊的測度摘要
func (eh *EvalHandler) Measures(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(eh.rt.Measures())
}

// Tab 以常駐 runtime 執行網格列表 回傳統計報告
func (eh *EvalHandler) Tab(w http.ResponseWriter, r *http.Request) {
	req, err := dto.DecodeTabRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	start := time.Now()
	report, err := eh.rt.Tab(r.Context(), req)
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	writeTabResponse(w, report, time.Since(start).Milliseconds())
}
