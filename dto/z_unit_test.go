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

package dto_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zintix-labs/measurelab/dto"
	"github.com/zintix-labs/measurelab/sdk/measure"
)

func TestDecodeWeightRequestGet(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/weight?measure=jacobi11&mid=3&x=0.5", nil)
	req, err := dto.DecodeWeightRequest(r)
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if req.MeasureName != "jacobi11" || req.MeasureId != 3 || req.X != 0.5 || !req.HasX {
		t.Fatalf("decoded fields wrong: %+v", req)
	}
	v, err := req.Point()
	if err != nil {
		t.Fatalf("point err: %v", err)
	}
	if v.IsVec() || v.Float() != 0.5 {
		t.Fatalf("point wrong: %v", v)
	}
}

func TestDecodeWeightRequestVector(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/weight?mid=5&xs=0.1,0.2,0.3", nil)
	req, err := dto.DecodeWeightRequest(r)
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	v, err := req.Point()
	if err != nil {
		t.Fatalf("point err: %v", err)
	}
	if !v.IsVec() || v.Dim() != 3 {
		t.Fatalf("vector point wrong: %v", v)
	}

	// x 與 xs 互斥
	r2 := httptest.NewRequest("GET", "/v1/weight?mid=5&x=1&xs=0.1,0.2", nil)
	req2, err := dto.DecodeWeightRequest(r2)
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if _, err := req2.Point(); err == nil {
		t.Fatalf("x and xs together must fail")
	}
}

func TestDecodeWeightRequestPost(t *testing.T) {
	body := `{"measure":"hermite","mid":2,"x":1.5,"has_x":true}`
	r := httptest.NewRequest("POST", "/v1/weight", strings.NewReader(body))
	req, err := dto.DecodeWeightRequest(r)
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if req.MeasureName != "hermite" || req.X != 1.5 {
		t.Fatalf("decoded fields wrong: %+v", req)
	}

	// 未知欄位採嚴格拒絕
	bad := `{"mid":2,"bogus":1}`
	rb := httptest.NewRequest("POST", "/v1/weight", strings.NewReader(bad))
	if _, err := dto.DecodeWeightRequest(rb); err == nil {
		t.Fatalf("unknown field must fail")
	}
}

func TestDecodeWeightAtRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/weightat?mid=9&i=2", nil)
	req, err := dto.DecodeWeightAtRequest(r)
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if req.MeasureId != 9 || req.Index != 2 {
		t.Fatalf("decoded fields wrong: %+v", req)
	}

	rb := httptest.NewRequest("GET", "/v1/weightat?i=abc", nil)
	if _, err := dto.DecodeWeightAtRequest(rb); err == nil {
		t.Fatalf("bad index must fail")
	}
}

func TestDecodeTabRequestAndValid(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/tab?mid=1&lo=-1&hi=1&n=101&workers=4&with_values=true", nil)
	req, err := dto.DecodeTabRequest(r)
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if req.Lo != -1 || req.Hi != 1 || req.N != 101 || req.Workers != 4 || !req.WithValues {
		t.Fatalf("decoded fields wrong: %+v", req)
	}
	if err := req.Valid(); err != nil {
		t.Fatalf("valid err: %v", err)
	}

	bad := &dto.TabRequest{Lo: 1, Hi: -1, N: 10}
	if err := bad.Valid(); err == nil {
		t.Fatalf("lo > hi must fail")
	}
	bad2 := &dto.TabRequest{Lo: 0, Hi: 1, N: 0}
	if err := bad2.Valid(); err == nil {
		t.Fatalf("n < 1 must fail")
	}
}

func TestNewWeightAtResultDTO(t *testing.T) {
	m, err := measure.NewDiscreteFromFloats([]float64{1, 2, 3}, []float64{0.2, 0.3, 0.5}, nil)
	if err != nil {
		t.Fatalf("discrete err: %v", err)
	}
	res, err := dto.NewWeightAtResultDTO("coins", 9, m, 1, 0.3)
	if err != nil {
		t.Fatalf("dto err: %v", err)
	}
	if res.Point != 2 || res.Weight != 0.3 || res.Len != 3 {
		t.Fatalf("dto fields wrong: %+v", res)
	}
	if _, err := dto.NewWeightAtResultDTO("coins", 9, m, 5, 0); err == nil {
		t.Fatalf("out of range dto must fail")
	}
}
