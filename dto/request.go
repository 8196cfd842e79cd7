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
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/zintix-labs/measurelab/errs"
	"github.com/zintix-labs/measurelab/sdk/numeric"
	"github.com/zintix-labs/measurelab/setting"
)

// 防止 body 過大（預設 1MiB）
const maxBody = 1 << 20

type WeightRequest struct {
	MeasureName string      `json:"measure"` // 測度名稱（與 mid 擇一）
	MeasureId   setting.MID `json:"mid"`
	X           float64     `json:"x"`
	Xs          []float64   `json:"xs,omitempty"`
	// Contract（強硬約束，避免 x=0 的雙重語意）：
	//   - 若 xs 非空，視為 vector 求值點；此時 x 必須省略，否則視為 request 格式錯誤。
	//   - 若 xs 省略，視為 scalar 求值點；x 若省略則視為 0。
	HasX bool `json:"has_x,omitempty"`
}

// DecodeWeightRequest 會把 HTTP 請求解碼成 WeightRequest。
//
// 支援：
//   - GET：從 query string 讀取參數（measure/mid/x/xs）。
//     xs 以逗號分隔，例如 xs=0.1,0.2,0.3。
//   - POST：從 JSON body 反序列化。
//
// 注意：
//   - 這裡只負責「解碼（decode）」與基本型別轉換，不做任何測度合法性校驗；
//     合法性（例如該 MID 是否存在、該點是否在支撐內）應由上層（Runtime）決定。
//   - 為避免過大 body 影響服務，POST 會對 body 做大小限制（預設 1MiB）。
//   - POST 會開啟 DisallowUnknownFields()，對未知欄位採用嚴格拒絕，以避免靜默丟資料。
func DecodeWeightRequest(r *http.Request) (*WeightRequest, error) {
	if r == nil {
		return nil, errs.NewWarn("nil request")
	}

	req := new(WeightRequest)

	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		req.MeasureName = q.Get("measure")

		if s := q.Get("mid"); s != "" {
			u, err := strconv.ParseUint(s, 10, 0)
			if err != nil {
				return nil, errs.NewWarn(fmt.Sprintf("invalid mid: %v", err))
			}
			req.MeasureId = setting.MID(u)
		}

		if s := q.Get("x"); s != "" {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, errs.NewWarn(fmt.Sprintf("invalid x: %v", err))
			}
			req.X = v
			req.HasX = true
		}

		if s := q.Get("xs"); s != "" {
			xs, err := parseFloatList(s)
			if err != nil {
				return nil, errs.NewWarn(fmt.Sprintf("invalid xs: %v", err))
			}
			req.Xs = xs
		}

		return req, nil

	case http.MethodPost:
		body := io.LimitReader(r.Body, maxBody)
		dec := json.NewDecoder(body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(req); err != nil {
			return nil, fmt.Errorf("invalid json: %w", err)
		}
		return req, nil

	default:
		return nil, fmt.Errorf("method not allowed")
	}
}

// Point 依 contract 把 request 的求值點轉成 numeric.Value。
func (wr *WeightRequest) Point() (numeric.Value, error) {
	if len(wr.Xs) > 0 {
		if wr.HasX {
			return numeric.Value{}, errs.NewWarn("x and xs are mutually exclusive")
		}
		return numeric.Vector(numeric.Vec64, wr.Xs), nil
	}
	return numeric.Scalar(numeric.Float64, wr.X), nil
}

type WeightAtRequest struct {
	MeasureName string      `json:"measure"`
	MeasureId   setting.MID `json:"mid"`
	Index       int         `json:"i"` // 0-based
}

// DecodeWeightAtRequest 會把 HTTP 請求解碼成 WeightAtRequest。
//
// 支援：
//   - GET：從 query string 讀取參數（measure/mid/i）。
//   - POST：從 JSON body 反序列化。
func DecodeWeightAtRequest(r *http.Request) (*WeightAtRequest, error) {
	if r == nil {
		return nil, errs.NewWarn("nil request")
	}

	req := new(WeightAtRequest)

	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		req.MeasureName = q.Get("measure")

		if s := q.Get("mid"); s != "" {
			u, err := strconv.ParseUint(s, 10, 0)
			if err != nil {
				return nil, errs.NewWarn(fmt.Sprintf("invalid mid: %v", err))
			}
			req.MeasureId = setting.MID(u)
		}

		if s := q.Get("i"); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil {
				return nil, errs.NewWarn(fmt.Sprintf("invalid i: %v", err))
			}
			req.Index = v
		}

		return req, nil

	case http.MethodPost:
		body := io.LimitReader(r.Body, maxBody)
		dec := json.NewDecoder(body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(req); err != nil {
			return nil, fmt.Errorf("invalid json: %w", err)
		}
		return req, nil

	default:
		return nil, fmt.Errorf("method not allowed")
	}
}

// TabRequest 描述一次格點列表任務：在 [lo, hi] 均勻取 n 點逐點求權重。
type TabRequest struct {
	MeasureName string      `json:"measure"`
	MeasureId   setting.MID `json:"mid"`
	Lo          float64     `json:"lo"`
	Hi          float64     `json:"hi"`
	N           int         `json:"n"`
	Workers     int         `json:"workers,omitempty"` // 0 = 單線
	WithValues  bool        `json:"with_values,omitempty"`
}

// DecodeTabRequest 會把 HTTP 請求解碼成 TabRequest。
//
// 支援：
//   - GET：從 query string 讀取參數（measure/mid/lo/hi/n/workers/with_values）。
//   - POST：從 JSON body 反序列化。
func DecodeTabRequest(r *http.Request) (*TabRequest, error) {
	if r == nil {
		return nil, errs.NewWarn("nil request")
	}

	req := new(TabRequest)

	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		req.MeasureName = q.Get("measure")

		if s := q.Get("mid"); s != "" {
			u, err := strconv.ParseUint(s, 10, 0)
			if err != nil {
				return nil, errs.NewWarn(fmt.Sprintf("invalid mid: %v", err))
			}
			req.MeasureId = setting.MID(u)
		}

		if s := q.Get("lo"); s != "" {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, errs.NewWarn(fmt.Sprintf("invalid lo: %v", err))
			}
			req.Lo = v
		}

		if s := q.Get("hi"); s != "" {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, errs.NewWarn(fmt.Sprintf("invalid hi: %v", err))
			}
			req.Hi = v
		}

		if s := q.Get("n"); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil {
				return nil, errs.NewWarn(fmt.Sprintf("invalid n: %v", err))
			}
			req.N = v
		}

		if s := q.Get("workers"); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil {
				return nil, errs.NewWarn(fmt.Sprintf("invalid workers: %v", err))
			}
			req.Workers = v
		}

		if s := q.Get("with_values"); s != "" {
			v, err := strconv.ParseBool(s)
			if err != nil {
				return nil, errs.NewWarn("invalid with_values value " + err.Error())
			}
			req.WithValues = v
		}

		return req, nil

	case http.MethodPost:
		body := io.LimitReader(r.Body, maxBody)
		dec := json.NewDecoder(body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(req); err != nil {
			return nil, fmt.Errorf("invalid json: %w", err)
		}
		return req, nil

	default:
		return nil, fmt.Errorf("method not allowed")
	}
}

// Valid 做基本的格點合約檢查（lo <= hi、n > 0）。
func (tr *TabRequest) Valid() error {
	if tr.N < 1 {
		return errs.NewWarn("n must > 0")
	}
	if tr.Lo > tr.Hi {
		return errs.NewWarn("lo must <= hi")
	}
	if tr.Workers < 0 {
		return errs.NewWarn("workers must >= 0")
	}
	return nil
}

func parseFloatList(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty list")
	}
	return out, nil
}
