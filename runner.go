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

package puzzlelab

import (
	"github.com/zintix-labs/puzzlelab/errs"
	"github.com/zintix-labs/puzzlelab/sdk/puzzle"
	"github.com/zintix-labs/puzzlelab/sdk/ui"
	"github.com/zintix-labs/puzzlelab/spec"
)

// RunnerParams 描述一次「開題」：
//
//   - 題目來源：Ref（配合 Pack 由目錄解析）或 Config（inline 設定），
//     兩者擇一、不可同給。
//   - Pack 給定時，該 pack 的 puzzle 會成為 by-ref 子步驟的解析空間；
//     inline Config 也可以搭配 Pack 使用（list 步驟引用 pack 內的題目）。
//   - Options 是 caller 層的 instance options，優先序最低
//     （step > list > caller）。
//   - Seed 固定亂數流（0 表示由 crypto/rand 取）；同 seed 同版面。
type RunnerParams struct {
	Pack   string
	Ref    string
	Config *spec.PuzzleSetting

	Options   spec.Options
	Seed      int64
	OnResolve func(puzzle.Result)
}

// NewRunner 解析題目來源、建出 puzzle 實例並包進單發 Runner。
//
// 這是 host 開題的入口：回傳的 Runner 尚未掛載，
// caller 自行決定掛到哪個 Stage 的哪塊區域。
func (p *Puzzlelab) NewRunner(prm RunnerParams) (*puzzle.Runner, error) {
	if !p.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	cfg, puzzles, err := p.resolveParams(prm)
	if err != nil {
		return nil, err
	}

	seed := prm.Seed
	if seed == 0 {
		seed = newSeed()
	}
	env := p.env(puzzles, seed)

	inst, err := p.reg.Build(env, cfg, prm.Options)
	if err != nil {
		return nil, err
	}
	return puzzle.NewRunner(inst, prm.OnResolve), nil
}

// Open 是 NewRunner + MountInto 的便利包裝：掛滿整個舞台。
func (p *Puzzlelab) Open(stage *ui.Stage, prm RunnerParams) (*puzzle.Runner, error) {
	r, err := p.NewRunner(prm)
	if err != nil {
		return nil, err
	}
	if err := r.MountInto(stage, stage.Area()); err != nil {
		return nil, err
	}
	return r, nil
}

// resolveParams 把 RunnerParams 化約成（題目設定, by-ref 解析空間）。
func (p *Puzzlelab) resolveParams(prm RunnerParams) (*spec.PuzzleSetting, map[string]*spec.PuzzleSetting, error) {
	if (prm.Ref == "") == (prm.Config == nil) {
		return nil, nil, errs.NewFatal("exactly one of ref and config required")
	}

	var puzzles map[string]*spec.PuzzleSetting
	var pack *spec.PackSetting
	if prm.Pack != "" {
		pk, err := p.cat.PackSettingByName(prm.Pack)
		if err != nil {
			return nil, nil, err
		}
		pack = pk
		puzzles = pk.PuzzlesById()
	}

	if prm.Ref != "" {
		if pack == nil {
			return nil, nil, errs.NewFatal("ref requires a pack")
		}
		cfg, err := pack.PuzzleById(prm.Ref)
		if err != nil {
			return nil, nil, err
		}
		return cfg, puzzles, nil
	}

	// inline 設定由這裡負責初始化（解析自 catalog 的已在解碼時初始化）
	if err := prm.Config.Init(); err != nil {
		return nil, nil, errs.Wrap(err, "inline config initialized err")
	}
	return prm.Config, puzzles, nil
}
