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

// Package measurelab 提供 Measurelab 引擎的「組裝入口（assembler）」與「運行入口（runtime entry）」。
//
// 你可以把 Measurelab 視為一個「可被後端/列表器使用的 runtime」，它負責把下列兩個必需的地基組裝在一起，並提供建立 measure 的入口：
//  1. Catalog：測度目錄（Single Source of Truth / SSOT），定義有哪些 measure、各自對應的設定檔名稱（ConfigName）。
//  2. Builder registry：建構註冊表，提供「如何依據設定（KindKey）建出 measure」的 builders（見 setting 套件）。
//
// 設計重點：
//   - Measurelab 本身不綁定任何「檔案路徑」概念：設定檔來源一律以 fs.FS 的形式注入。
//   - Measurelab 會持有一份 Catalog（你要載入哪一批 measure/設定檔）。
//   - measure 是對外提供權重求值的最小單位；使用者主要操作的是 sdk 內的型別與資料結構。
//
// 典型使用情境：
//   - 後端服務（HTTP）：由 Measurelab 建立 measure，對外提供權重求值。
//   - 列表器（tab）：由 Measurelab 建立 Tabulator，對格點大量求值並產生報表。
//
// 注意：此套引擎以「權重函數與離散權重集」為中心（evaluate -> weight），不做積分或抽樣。
package measurelab

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/zintix-labs/measurelab/catalog"
	"github.com/zintix-labs/measurelab/errs"
	"github.com/zintix-labs/measurelab/sdk/measure"
	"github.com/zintix-labs/measurelab/setting"
)

// Configs 用來把一或多個設定檔來源（fs.FS）打包成 New() 需要的參數。
//
// 為什麼是 fs.FS：
//   - 你可以用 go:embed 把 configs 直接編進 binary（部署最穩定，不依賴工作目錄）。
//   - 也可以用 os.DirFS 在本機開發時讀取目錄。
//   - 甚至可以用自製的 MultiFS 來合併多個來源。
//
// Measurelab 不解析「路徑」：它只依賴 fs.FS + ConfigName（檔名）來取得設定內容。
func Configs(cfgs ...fs.FS) []fs.FS {
	return cfgs
}

// Measurelab 是「組裝器（assembler）」與「運行入口（runtime entry）」：
//
// 它把兩個必需的地基組合起來：
//  1. Catalog：測度目錄（SSOT），定義有哪些 measure、各自對應的設定檔名稱。
//  2. Builder registry：依據設定檔的 KindKey 建出 measure 變體（setting.Build）。
//
// 使用流程通常分成兩階段：
//   - 註冊/組裝階段（registration/build）：建立 catalog、掃描設定檔、檢查重複與缺漏。
//   - 執行階段（runtime）：依據 measure ID 建出 measure，並對其求權重。
//
// 重要設計原則：
//   - Catalog 的 ID 唯一性只保證在「同一個 Measurelab instance」內（不同 Measurelab 之間不做全域保證）。
//   - 你要載入哪一批 measure、哪一套設定檔，必須由 New() 的參數明確決定。
//   - runtime 一旦開始（例如已 BuildRuntime 並對外服務），不建議再變更 Catalog（避免非預期行為）。
//
// 實務例子（概念示意，細節依你的實作為準）:
//
//	// 1) 準備 configs（通常是 go:embed 或 DirFS）
//	// 2) 組裝 Measurelab，取得可建立 measure 的入口
//	//	lab, _ := measurelab.NewAuto(measurelab.Configs(cfgFS))
//	//	m, _ := lab.NewMeasure(1001)
//	//	// measure.Weight(m, x) -> 取得權重（通常再轉成 DTO 回傳）
type Measurelab struct {
	cat *catalog.Catalog
	sum []catalog.Summary
}

// New 建立一個 Measurelab instance。
//
// 這是「組裝階段（registration/build）」的入口：
//   - 會建立 Catalog（通常同時做檔名存在性/重複性檢查，避免 runtime 才爆）。
//   - builders 來自 setting 套件的註冊表；自訂變體請在 init 階段以 setting.RegisterBuilder 註冊。
//
// 參數要求（是合約的一部分）：
//   - cfgs 至少一個：沒有設定檔來源，Catalog 無法解析 MeasureSetting。
func New(cfgs []fs.FS) (*Measurelab, error) {
	if len(cfgs) == 0 {
		return nil, errs.NewFatal("configs required")
	}
	cata, err := catalog.New(cfgs...)
	if err != nil {
		return nil, err
	}
	lab := &Measurelab{
		cat: cata,
	}
	return lab, nil
}

// NewAuto 建立一個直接進入執行階段的 Measurelab instance。
func NewAuto(cfgs []fs.FS) (*Measurelab, error) {
	lab, err := New(cfgs)
	if err != nil {
		return nil, err
	}
	if err := lab.RegisterAll(); err != nil {
		return nil, err
	}
	lab.Freeze()
	return lab, nil
}

func (p *Measurelab) Register(ents ...catalog.Entry) error {
	return p.cat.Register(ents...)
}

// RegisterAll
//
// 會掃描 catalog 持有的設定檔來源（fs.FS），把所有可辨識的設定檔（.yaml/.yml/.json）嘗試解析成
// *setting.MeasureSetting，並用設定檔內宣告的 MeasureID/MeasureName 產生對應的 catalog.Entry 來批次註冊。
//
// 行為特性（重要）：
//  1. Fail-fast：任何一個檔案讀取/解析/基本檢查失敗，都會立刻回傳 error（不會忽略、也不會繼續掃完）。
//  2. 原子性：只有當「全部檔案」都成功解析並通過基本檢查時，才會呼叫 Register(...) 一次性寫入。
//     因此不會出現只註冊了一半、導致 catalog 處於半完成狀態的情況。
//  3. 穩定性：會依檔名排序後再處理，確保行為 determinism（方便重現與除錯）。
//
// 注意：
//   - RegisterAll 只負責「把設定檔宣告的 measure 資訊放進 Catalog」。
//
// measure 變體（Builder）是否支援該 KindKey，屬於後續建 measure 時的責任，
// 但為了 fail-fast，未註冊的 KindKey 在這裡就會被擋下。
func (p *Measurelab) RegisterAll() error {
	cfgs := p.cat.Cfg()
	sources := cfgs.Sources()
	if len(sources) == 0 {
		return errs.NewFatal("configs required")
	}

	entries := make([]catalog.Entry, 0, 64)
	seenID := map[setting.MID]string{}
	seenName := map[string]string{}

	for _, src := range sources {
		walkErr := fs.WalkDir(src, ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path == "." {
					return nil
				}
				return errs.NewFatal(fmt.Sprintf("configs must be flat (no subdir): %q", path))
			}

			base := filepath.Base(path)
			if strings.Contains(path, "/") && path != base {
				return errs.NewFatal(fmt.Sprintf("configs must be flat (nested path): %q", path))
			}
			if strings.HasPrefix(base, ".") {
				return nil
			}

			ext := strings.ToLower(filepath.Ext(base))
			if ext != ".yaml" && ext != ".yml" && ext != ".json" {
				return nil
			}

			raw, rerr := fs.ReadFile(src, path)
			if rerr != nil {
				return errs.NewFatal(fmt.Sprintf("read config failed: %s", base))
			}

			var (
				ms   *setting.MeasureSetting
				merr error
			)
			switch ext {
			case ".yaml", ".yml":
				ms, merr = setting.GetMeasureSettingByYAML(raw)
			case ".json":
				ms, merr = setting.GetMeasureSettingByJSON(raw)
			default:
				return errs.NewFatal(fmt.Sprintf("unsupported config format: %q", base))
			}
			if merr != nil {
				return errs.NewFatal(fmt.Sprintf("parse measuresetting failed: %s", base))
			}

			name := strings.TrimSpace(ms.MeasureName)
			if name == "" {
				return errs.NewFatal(fmt.Sprintf("measure name required: %s", base))
			}

			id := ms.MeasureID
			if prev, ok := seenID[id]; ok {
				return errs.NewFatal(fmt.Sprintf("duplicate measure id: %d (config=%s and %s)", id, prev, base))
			}
			if _, ok := p.cat.GetByID(id); ok {
				return errs.NewFatal(fmt.Sprintf("measure id already registered: %d (config=%s)", id, base))
			}
			seenID[id] = base

			nameKey := strings.ToLower(name)
			if prev, ok := seenName[nameKey]; ok {
				return errs.NewFatal(fmt.Sprintf("duplicate measure name: %s (config=%s and %s)", nameKey, prev, base))
			}
			if _, ok := p.cat.GetByName(name); ok {
				return errs.NewFatal(fmt.Sprintf("measure name already registered: %s (config=%s)", name, base))
			}
			seenName[nameKey] = base

			if ms.KindKey == "" {
				return errs.NewFatal(fmt.Sprintf("kind key required: %s", base))
			}
			if !setting.IsKindRegistered(ms.KindKey) {
				return errs.NewFatal(fmt.Sprintf("kind not registered: kind_key=%s (config=%s)", ms.KindKey, base))
			}

			entries = append(entries, catalog.Entry{
				MID:        id,
				Name:       name,
				ConfigName: base,
			})
			return nil
		})
		if walkErr != nil {
			return walkErr
		}
	}

	if len(entries) == 0 {
		return errs.NewFatal("no config files found to register")
	}

	return p.cat.Register(entries...)
}

func (p *Measurelab) Freeze() {
	p.cat.Freeze()
}

func (p *Measurelab) EntryById(id setting.MID) (catalog.Entry, bool) {
	return p.cat.GetByID(id)
}

func (p *Measurelab) EntryByName(name string) (catalog.Entry, bool) {
	return p.cat.GetByName(name)
}

func (p *Measurelab) IDs() []setting.MID {
	return p.cat.IDs()
}

func (p *Measurelab) All() []catalog.Entry {
	return p.cat.All()
}

func (p *Measurelab) Summary() ([]catalog.Summary, error) {
	if !p.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	if p.sum != nil {
		return p.sum, nil
	}
	ids := p.cat.IDs()
	cs := make([]catalog.Summary, 0, len(ids))
	for _, id := range ids {
		ms, err := p.cat.MeasureSettingById(id)
		if err != nil {
			return nil, errs.NewFatal("parse measure setting failed")
		}
		precision := ms.Precision
		if precision == "" {
			precision = "float64"
		}
		s := catalog.Summary{
			MID:       id,
			Name:      ms.MeasureName,
			Kind:      ms.KindKey,
			Precision: precision,
		}
		cs = append(cs, s)
	}
	p.sum = cs
	return p.sum, nil
}

// NewMeasure 依據 Catalog 內的 measure ID 建立一個 measure。
//
// 行為：
//  1. 由 Catalog 取得對應的 MeasureSetting（通常來自 fs.FS 內的 YAML/JSON）。
//  2. 透過 builder registry 依據 MeasureSetting 內的 KindKey 建出可求值的 measure。
//
// 回傳的 measure 是 immutable value：同一個 measure 可被多個 goroutines 併發求值。
func (p *Measurelab) NewMeasure(id setting.MID) (measure.Measure, error) {
	if !p.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	ms, err := p.cat.MeasureSettingById(id)
	if err != nil {
		return nil, err
	}
	return setting.Build(ms)
}

func (p *Measurelab) NewMeasureByName(name string) (measure.Measure, error) {
	if !p.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	ms, err := p.cat.MeasureSettingByName(name)
	if err != nil {
		return nil, err
	}
	return setting.Build(ms)
}

// NewMeasureByJSON 以呼叫端提供的設定檔內容建 measure（設定必須對應 catalog 內已註冊的 measure）。
//
// 使用情境：
//   - 調參分析：以同一個 measure 的變形設定（例如改 alpha/beta）直接求值，不落地設定檔。
func (p *Measurelab) NewMeasureByJSON(raw []byte) (measure.Measure, *setting.MeasureSetting, error) {
	if !p.cat.IsFrozen() {
		return nil, nil, errs.NewFatal("catalog is not frozen yet")
	}
	cfg, err := setting.GetMeasureSettingByJSON(raw)
	if err != nil {
		return nil, nil, err
	}
	if err := p.validCfg(cfg); err != nil {
		return nil, nil, err
	}
	m, err := setting.Build(cfg)
	if err != nil {
		return nil, nil, err
	}
	return m, cfg, nil
}

func (p *Measurelab) NewMeasureByYAML(raw []byte) (measure.Measure, *setting.MeasureSetting, error) {
	if !p.cat.IsFrozen() {
		return nil, nil, errs.NewFatal("catalog is not frozen yet")
	}
	cfg, err := setting.GetMeasureSettingByYAML(raw)
	if err != nil {
		return nil, nil, err
	}
	if err := p.validCfg(cfg); err != nil {
		return nil, nil, err
	}
	m, err := setting.Build(cfg)
	if err != nil {
		return nil, nil, err
	}
	return m, cfg, nil
}

func (p *Measurelab) validCfg(cfg *setting.MeasureSetting) error {
	ent, ok := p.cat.GetByID(cfg.MeasureID)
	if !ok {
		return errs.NewWarn("mid not exist")
	}
	ent2, ok := p.cat.GetByName(cfg.MeasureName)
	if !ok {
		return errs.NewWarn("measure name not exist")
	}
	if ent.MID != ent2.MID {
		return errs.NewWarn("measure id is not matched measure name")
	}
	if !setting.IsKindRegistered(cfg.KindKey) {
		return errs.NewWarn("measure kind not exist")
	}
	return nil
}

func (p *Measurelab) NewTabulator(id setting.MID) (*Tabulator, error) {
	if !p.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	ms, err := p.cat.MeasureSettingById(id)
	if err != nil {
		return nil, err
	}
	return newTabulator(ms)
}

func (p *Measurelab) NewTabulatorByJSON(raw []byte) (*Tabulator, error) {
	if !p.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	cfg, err := setting.GetMeasureSettingByJSON(raw)
	if err != nil {
		return nil, err
	}
	if err := p.validCfg(cfg); err != nil {
		return nil, err
	}
	return newTabulator(cfg)
}

func (p *Measurelab) NewTabulatorByYAML(raw []byte) (*Tabulator, error) {
	if !p.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	cfg, err := setting.GetMeasureSettingByYAML(raw)
	if err != nil {
		return nil, err
	}
	if err := p.validCfg(cfg); err != nil {
		return nil, err
	}
	return newTabulator(cfg)
}

func (p *Measurelab) BuildRuntime(tabWorkers int) (*EvalRuntime, error) {
	// 1. 進入 runtime 前，catalog 必須 Freeze
	p.Freeze()

	ids := p.cat.IDs()
	if len(ids) == 0 {
		return nil, errs.NewFatal("no measures registered")
	}

	rt := &EvalRuntime{
		lab:        p,
		measures:   make(map[setting.MID]measure.Measure, len(ids)),
		ids:        ids,
		done:       make(chan struct{}),
		tabWorkers: max(1, tabWorkers),
	}
	rt.reason.Store("")

	// 2. 先全建好（fail-fast）
	for _, id := range ids {
		m, err := p.NewMeasure(id)
		if err != nil {
			return nil, err
		}
		rt.measures[id] = m
	}
	return rt, nil
}
