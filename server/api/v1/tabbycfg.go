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
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/zintix-labs/measurelab"
	"github.com/zintix-labs/measurelab/errs"
	"github.com/zintix-labs/measurelab/server/httperr"
	"github.com/zintix-labs/measurelab/stats"
)

// 列表網格點數上限 防止一次請求吃光伺服器
const maxTabPoints = 10_000_000

// TabHandler 接受臨時設定檔 不經過目錄註冊直接列表
type TabHandler struct {
	Measurelab *measurelab.Measurelab
}

func NewTabHandler(lab *measurelab.Measurelab) (*TabHandler, error) {
	if lab == nil {
		return nil, errs.NewFatal("measurelab is required")
	}
	return &TabHandler{Measurelab: lab}, nil
}

// TabByJson 傳入 JSON 測度設定與網格範圍 回傳統計報告
func (th *TabHandler) TabByJson(w http.ResponseWriter, r *http.Request) {
	type TabRequestByJson struct {
		Lo         float64         `json:"lo"`
		Hi         float64         `json:"hi"`
		N          int             `json:"n"`
		Workers    int             `json:"workers,omitempty"`
		WithValues bool            `json:"with_values,omitempty"`
		Cfg        json.RawMessage `json:"cfg"`
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// 1. decode request
	req := new(TabRequestByJson)
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20) // 5MB
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		httperr.Errs(w, errs.Wrap(err, "json decode failed"))
		return
	}

	// 2. vaild grid
	if err := vaildTabGrid(req.Lo, req.Hi, req.N); err != nil {
		httperr.Errs(w, err)
		return
	}

	// 3. NewTabulator
	tab, err := th.Measurelab.NewTabulatorByJSON(req.Cfg)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	report, used, err := runTab(tab, req.Lo, req.Hi, req.N, req.Workers)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	if !req.WithValues {
		report.Values = nil
	}

	// 4. 回傳 Json
	writeTabResponse(w, report, used.Milliseconds())
}

// TabByYaml 傳入 YAML 測度設定 其餘同 TabByJson 以 query 指定網格
func (th *TabHandler) TabByYaml(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	lo, hi, n, workers, err := parseTabQuery(q.Get("lo"), q.Get("hi"), q.Get("n"), q.Get("workers"))
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	if err := vaildTabGrid(lo, hi, n); err != nil {
		httperr.Errs(w, err)
		return
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 5<<20))
	if err != nil {
		httperr.Errs(w, errs.Wrap(err, "read body failed"))
		return
	}

	tab, err := th.Measurelab.NewTabulatorByYAML(raw)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	report, used, err := runTab(tab, lo, hi, n, workers)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	if q.Get("with_values") != "true" {
		report.Values = nil
	}

	writeTabResponse(w, report, used.Milliseconds())
}

func vaildTabGrid(lo, hi float64, n int) error {
	if n < 1 {
		return errs.NewWarn("n must be at least 1")
	}
	if n > maxTabPoints {
		return errs.NewWarn("n is over the limit")
	}
	if lo > hi {
		return errs.NewWarn("lo must not exceed hi")
	}
	return nil
}

func runTab(tab *measurelab.Tabulator, lo, hi float64, n, workers int) (*stats.TabReport, time.Duration, error) {
	if workers > 1 {
		return tab.TabMP(lo, hi, n, workers, false)
	}
	return tab.Tab(lo, hi, n, false)
}

func parseTabQuery(loStr, hiStr, nStr, workersStr string) (lo, hi float64, n, workers int, err error) {
	if lo, err = strconv.ParseFloat(loStr, 64); err != nil {
		return 0, 0, 0, 0, errs.NewWarn("lo must be a number")
	}
	if hi, err = strconv.ParseFloat(hiStr, 64); err != nil {
		return 0, 0, 0, 0, errs.NewWarn("hi must be a number")
	}
	if n, err = strconv.Atoi(nStr); err != nil {
		return 0, 0, 0, 0, errs.NewWarn("n must be an integer")
	}
	if workersStr != "" {
		if workers, err = strconv.Atoi(workersStr); err != nil {
			return 0, 0, 0, 0, errs.NewWarn("workers must be an integer")
		}
	}
	return lo, hi, n, workers, nil
}

func writeTabResponse(w http.ResponseWriter, report *stats.TabReport, usedMs int64) {
	resp := struct {
		Stats    *stats.TabReport `json:"stats"`
		UsedTime int64            `json:"used_ms"`
	}{
		Stats:    report,
		UsedTime: usedMs,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
