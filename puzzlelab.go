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

// Package puzzlelab 提供 puzzle 子系統的「組裝入口（assembler）」與「運行入口（runtime entry）」。
//
// Puzzlelab 把三個必需的地基組裝在一起，並提供開啟 puzzle 的入口：
//  1. Catalog：pack 目錄（Single Source of Truth），定義有哪些 pack、各自對應的設定檔名稱（ConfigName）。
//  2. Registry：puzzle kind 註冊表，提供「如何依據設定（kind）建出 puzzle 實例」的 builders。
//  3. PRNGFactory：亂數核心工廠，保證洗牌/散佈可重現（reproducible）。
//
// 設計重點：
//   - Puzzlelab 本身不綁定任何「檔案路徑」概念：設定檔來源一律以 fs.FS 的形式注入。
//   - host 能力（Localize、資源路徑解析、時鐘、旗標儲存）透過 Bind 注入；
//     未注入時全部退回無害的預設值。
//   - Runner 是對外開啟 puzzle 的最小單位；host 對 Stage 注入事件、
//     在 resolution callback 收結果。
//
// 典型使用情境：
//   - 後端服務（server/）：每個 session 一個 Stage + Runner。
//   - 模擬器（sim.go / cmd/run）：對整個 pack 做解題率 QA。
package puzzlelab

import (
	"crypto/rand"
	"fmt"
	"io/fs"
	"math"
	"math/big"
	"path/filepath"
	"strings"

	"github.com/zintix-labs/puzzlelab/catalog"
	"github.com/zintix-labs/puzzlelab/errs"
	"github.com/zintix-labs/puzzlelab/i18n"
	"github.com/zintix-labs/puzzlelab/sdk/core"
	"github.com/zintix-labs/puzzlelab/sdk/puzzle"
	"github.com/zintix-labs/puzzlelab/sdk/ui"
	"github.com/zintix-labs/puzzlelab/spec"
)

// Configs 把一或多個設定檔來源（fs.FS）打包成 New() 需要的參數。
// go:embed、os.DirFS、testing/fstest 皆可。
func Configs(cfgs ...fs.FS) []fs.FS {
	return cfgs
}

// Kinds 把一或多個 kind 註冊表打包成 New() 需要的參數。
// New() 會合併成單一 registry；重複 kind 直接視為錯誤。
func Kinds(regs ...*puzzle.Registry) []*puzzle.Registry {
	return regs
}

// Host 是外層環境注入的能力集合；零值可用。
type Host struct {
	// Localize 查翻譯表；nil 時一律採 fallback。
	Localize i18n.Localize

	// ResolveAsset 把設定檔內的資源路徑轉成可用 URL；nil 時原樣回傳。
	ResolveAsset func(path string) string

	// Clock 驅動延遲復原視窗；nil 時用牆鐘。測試注入 ManualClock。
	Clock ui.Clock

	// Flags 是持久化布林旗標（hostflags.Store 的讀寫子集）。
	Flags puzzle.FlagStore
}

// Summary 是單一 pack 的目錄摘要。
type Summary struct {
	PID     spec.PID
	Name    string
	Puzzles int
	Kinds   []spec.Kind
}

// Puzzlelab 是組裝器：持有 pack 目錄、kind 註冊表與 PRNG 工廠。
//
// 使用流程分成兩階段：
//   - 組裝階段：建立 catalog、合併 registries、檢查重複與缺漏。
//   - 執行階段：依 pack/ref 建 Runner 並掛上 Stage。
//
// runtime 一旦開始（已有 session 對外服務），不建議再變更 Catalog。
type Puzzlelab struct {
	cat  *catalog.Catalog
	reg  *puzzle.Registry
	prng core.PRNGFactory
	host Host
	sum  []Summary
}

// New 建立一個 Puzzlelab instance（組裝階段入口）。
//
// 參數要求（合約的一部分）：
//   - prng 不能為 nil：沒有 PRNG 工廠就無法保證洗牌可重現。
//   - cfgs 至少一個：沒有設定檔來源，Catalog 無法解析 PackSetting。
//   - kinds 至少一個：沒有 kind builders，解析出設定也建不出 puzzle。
func New(prng core.PRNGFactory, cfgs []fs.FS, kinds []*puzzle.Registry) (*Puzzlelab, error) {
	if prng == nil {
		return nil, errs.NewFatal("prng factory required")
	}
	if len(cfgs) == 0 {
		return nil, errs.NewFatal("configs required")
	}
	if len(kinds) == 0 {
		return nil, errs.NewFatal("kind registry required")
	}
	cata, err := catalog.New(cfgs...)
	if err != nil {
		return nil, err
	}
	reg, err := puzzle.MergeRegistry(kinds...)
	if err != nil {
		return nil, err
	}
	return &Puzzlelab{
		cat:  cata,
		reg:  reg,
		prng: prng,
	}, nil
}

// NewAuto 建立並直接進入執行階段：掃描所有設定檔、註冊、凍結。
func NewAuto(prng core.PRNGFactory, cfgs []fs.FS, kinds []*puzzle.Registry) (*Puzzlelab, error) {
	lab, err := New(prng, cfgs, kinds)
	if err != nil {
		return nil, err
	}
	if err := lab.RegisterAll(); err != nil {
		return nil, err
	}
	lab.Freeze()
	return lab, nil
}

// Bind 注入 host 能力；回傳自身方便鏈式呼叫。
func (p *Puzzlelab) Bind(h Host) *Puzzlelab {
	p.host = h
	return p
}

func (p *Puzzlelab) Register(ents ...catalog.Entry) error {
	return p.cat.Register(ents...)
}

// RegisterAll
//
// 掃描 catalog 持有的設定檔來源（fs.FS），把所有可辨識的設定檔
// （.yaml/.yml/.json）解析成 *spec.PackSetting，並用設定檔內宣告的
// pack_id/pack_name 產生 catalog.Entry 批次註冊。
//
// 行為特性：
//  1. Fail-fast：任何一個檔案讀取/解析/基本檢查失敗，立刻回傳 error。
//  2. 原子性：全部檔案都通過檢查才呼叫 Register(...) 一次性寫入，
//     不會出現只註冊了一半的 catalog。
//  3. 每個 puzzle（含 list 的 inline 子步驟）宣告的 kind 都必須已在
//     registry 註冊，缺邏輯在組裝階段就爆，不等到開題。
func (p *Puzzlelab) RegisterAll() error {
	sources := p.cat.Cfg().Sources()
	if len(sources) == 0 {
		return errs.NewFatal("configs required")
	}

	entries := make([]catalog.Entry, 0, 16)
	seenID := map[spec.PID]string{}
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
				pk   *spec.PackSetting
				perr error
			)
			switch ext {
			case ".yaml", ".yml":
				pk, perr = spec.GetPackSettingByYAML(raw)
			default:
				pk, perr = spec.GetPackSettingByJSON(raw)
			}
			if perr != nil {
				return errs.Wrap(perr, fmt.Sprintf("parse pack setting failed: %s", base))
			}

			name := strings.TrimSpace(pk.PackName)
			if name == "" {
				return errs.NewFatal(fmt.Sprintf("pack name required: %s", base))
			}

			if prev, ok := seenID[pk.PackID]; ok {
				return errs.NewFatal(fmt.Sprintf("duplicate pack id: %d (config=%s and %s)", pk.PackID, prev, base))
			}
			if _, ok := p.cat.GetByID(pk.PackID); ok {
				return errs.NewFatal(fmt.Sprintf("pack id already registered: %d (config=%s)", pk.PackID, base))
			}
			seenID[pk.PackID] = base

			nameKey := strings.ToLower(name)
			if prev, ok := seenName[nameKey]; ok {
				return errs.NewFatal(fmt.Sprintf("duplicate pack name: %s (config=%s and %s)", nameKey, prev, base))
			}
			if _, ok := p.cat.GetByName(name); ok {
				return errs.NewFatal(fmt.Sprintf("pack name already registered: %s (config=%s)", name, base))
			}
			seenName[nameKey] = base

			if err := p.validKinds(pk, base); err != nil {
				return err
			}

			entries = append(entries, catalog.Entry{
				PID:        pk.PackID,
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

// validKinds 確認 pack 裡宣告的每個 kind（含 list 的 inline 子步驟）都有 builder。
func (p *Puzzlelab) validKinds(pk *spec.PackSetting, base string) error {
	var walk func(cfg *spec.PuzzleSetting) error
	walk = func(cfg *spec.PuzzleSetting) error {
		if !p.reg.Has(cfg.Kind) {
			return errs.NewFatal(fmt.Sprintf("kind not registered: %s (puzzle=%s config=%s)", cfg.Kind, cfg.Id, base))
		}
		for i := range cfg.Steps {
			if cfg.Steps[i].Config != nil {
				if err := walk(cfg.Steps[i].Config); err != nil {
					return err
				}
			}
		}
		return nil
	}
	for i := range pk.Puzzles {
		if err := walk(&pk.Puzzles[i]); err != nil {
			return err
		}
	}
	return nil
}

func (p *Puzzlelab) Freeze() {
	p.cat.Freeze()
}

func (p *Puzzlelab) EntryById(id spec.PID) (catalog.Entry, bool) {
	return p.cat.GetByID(id)
}

func (p *Puzzlelab) EntryByName(name string) (catalog.Entry, bool) {
	return p.cat.GetByName(name)
}

func (p *Puzzlelab) IDs() []spec.PID {
	return p.cat.IDs()
}

func (p *Puzzlelab) All() []catalog.Entry {
	return p.cat.All()
}

// PackByName 解析並回傳整份 pack 設定。
func (p *Puzzlelab) PackByName(name string) (*spec.PackSetting, error) {
	return p.cat.PackSettingByName(name)
}

// PackById 解析並回傳整份 pack 設定。
func (p *Puzzlelab) PackById(id spec.PID) (*spec.PackSetting, error) {
	return p.cat.PackSettingById(id)
}

// Summary 回傳所有已註冊 pack 的摘要；首次呼叫後快取。
func (p *Puzzlelab) Summary() ([]Summary, error) {
	if !p.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	if p.sum != nil {
		return p.sum, nil
	}
	ids := p.cat.IDs()
	cs := make([]Summary, 0, len(ids))
	for _, id := range ids {
		pk, err := p.cat.PackSettingById(id)
		if err != nil {
			return nil, errs.Wrap(err, "parse pack setting failed")
		}
		s := Summary{
			PID:     id,
			Name:    pk.PackName,
			Puzzles: len(pk.Puzzles),
		}
		seen := map[spec.Kind]bool{}
		for i := range pk.Puzzles {
			k := pk.Puzzles[i].Kind
			if !seen[k] {
				seen[k] = true
				s.Kinds = append(s.Kinds, k)
			}
		}
		cs = append(cs, s)
	}
	p.sum = cs
	return p.sum, nil
}

// env 組出單一 puzzle 實例的執行環境。
// 每個實例拿自己的 Core（獨立亂數流），其餘能力共用 host 注入。
func (p *Puzzlelab) env(puzzles map[string]*spec.PuzzleSetting, seed int64) *puzzle.Env {
	e := &puzzle.Env{
		Localize:     puzzle.LocalizeFunc(localizeOf(p.host.Localize)),
		Text:         i18n.Resolver(p.host.Localize),
		ResolveAsset: p.host.ResolveAsset,
		Clock:        p.host.Clock,
		Core:         core.New(p.prng.New(seed)),
		Kinds:        p.reg,
		Puzzles:      puzzles,
		Flags:        p.host.Flags,
	}
	e.Normalize()
	return e
}

func localizeOf(loc i18n.Localize) i18n.Localize {
	if loc == nil {
		return i18n.Fallback
	}
	return loc
}

// newSeed 由 crypto/rand 產生非負 seed（執行期的預設種子來源）。
func newSeed() int64 {
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		// crypto/rand 失效屬於環境損壞，與 PRNG 合約無關
		panic(errs.Wrap(err, "crypto rand failed"))
	}
	return n.Int64()
}
