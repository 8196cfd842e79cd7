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

package main

import (
	"flag"
	"fmt"

	"github.com/zintix-labs/measurelab"
	"github.com/zintix-labs/measurelab/demo/demo_configs"
	_ "github.com/zintix-labs/measurelab/demo/demo_custom" // 註冊 raised_cosine kind
	"github.com/zintix-labs/measurelab/server"
	"github.com/zintix-labs/measurelab/server/logger"
	"github.com/zintix-labs/measurelab/server/svrcfg"
)

// This command is intentionally a "lab server" entrypoint for the measurelab repo.
// It serves the demo catalog by default.
// For production deployments, use a separate scaffold project and run ModeProd.
func main() {
	cfg, err := loadConfigFromFlags()
	if err != nil {
		fmt.Println(err)
		return
	}
	server.Run(cfg)
}

type config struct {
	LogMode    string
	TabWorkers int
}

func loadConfigFromFlags() (*svrcfg.SvrCfg, error) {
	cfg := new(config)
	flag.StringVar(&cfg.LogMode, "log-mode", "ModeDev", "log mode: ModeDev|ModeProd|ModeSilence")
	flag.IntVar(&cfg.TabWorkers, "worker", 4, "max tabulation workers per request")

	flag.Parse()

	log, _ := logger.NewAsync(4096, cfg.norm())

	lab, err := measurelab.NewAuto(measurelab.Configs(demo_configs.FS))
	if err != nil {
		return nil, err
	}
	sCfg := &svrcfg.SvrCfg{
		Log:        log,
		TabWorkers: cfg.TabWorkers,
		Measurelab: lab,
	}
	return sCfg, nil
}

func (cfg *config) norm() logger.LogMode {
	switch cfg.LogMode {
	case "ModeDev":
		return logger.ModeDev
	case "ModeProd":
		return logger.ModeProd
	case "ModeSilence":
		return logger.ModeSilence
	default:
		return logger.ModeDev
	}
}
