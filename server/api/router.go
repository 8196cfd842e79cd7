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

package api

import (
	"log/slog"
	"net/http"

	v1 "github.com/zintix-labs/measurelab/server/api/v1"
	"github.com/zintix-labs/measurelab/server/netsvr"
	"github.com/zintix-labs/measurelab/server/netsvr/middleware"
	"github.com/zintix-labs/measurelab/server/svrcfg"
)

// RegisterRoutes 註冊
func RegisterRoutes(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) error {
	registerMiddleware(svr, sCfg.Log) // 1. 註冊 middleware
	registerIndex(svr)                // 2. 註冊主頁
	return registerV1API(svr, sCfg)   // 3. 註冊 v1 api
}

// 註冊 middleware
func registerMiddleware(svr netsvr.NetSvr, log *slog.Logger) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(log))
	svr.Use(middleware.Recover)
	svr.Use(middleware.Compression)
}

// 註冊主頁
func registerIndex(svr netsvr.NetSvr) {
	svr.Get("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("measurelab api\n\n" +
			"GET  /v1/measures\n" +
			"GET  /v1/weight?measure=<name>&x=<x>\n" +
			"GET  /v1/weightat?measure=<name>&i=<i>\n" +
			"GET  /v1/tab?measure=<name>&lo=<lo>&hi=<hi>&n=<n>\n" +
			"POST /v1/tabbyjson\n" +
			"POST /v1/tabbyyaml?lo=<lo>&hi=<hi>&n=<n>\n"))
	})
}

// 註冊 v1 api
func registerV1API(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) error {
	eh, err := v1.NewEvalHandler(sCfg)
	if err != nil {
		return err
	}
	th, err := v1.NewTabHandler(sCfg.Measurelab)
	if err != nil {
		return err
	}
	svr.Group("/v1", func(vOne netsvr.NetRouter) {
		vOne.Get("/measures", eh.Measures)
		vOne.Get("/weight", eh.Weight)
		vOne.Post("/weight", eh.Weight)
		vOne.Get("/weightat", eh.WeightAt)
		vOne.Post("/weightat", eh.WeightAt)
		vOne.Get("/tab", eh.Tab)
		vOne.Post("/tab", eh.Tab)
		vOne.Post("/tabbyjson", th.TabByJson)
		vOne.Post("/tabbyyaml", th.TabByYaml)
	})
	return nil
}
