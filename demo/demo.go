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

// Package demo 打包內建的示範 pack，給 cmd/、測試與初次接觸的人用。
package demo

import (
	"github.com/zintix-labs/puzzlelab"
	"github.com/zintix-labs/puzzlelab/catalog"
	"github.com/zintix-labs/puzzlelab/demo/demo_packs"
	"github.com/zintix-labs/puzzlelab/errs"
	"github.com/zintix-labs/puzzlelab/hostflags"
	"github.com/zintix-labs/puzzlelab/kinds"
	"github.com/zintix-labs/puzzlelab/sdk/core"
	"github.com/zintix-labs/puzzlelab/server/logger"
	"github.com/zintix-labs/puzzlelab/server/svrcfg"
)

func New() (*catalog.Catalog, error) {
	return catalog.New(demo_packs.FS)
}

// NewPuzzlelab 組裝一個載好示範 pack、註冊所有內建 kind 的 Puzzlelab。
func NewPuzzlelab() (*puzzlelab.Puzzlelab, error) {
	return puzzlelab.NewAuto(
		core.Default(),
		puzzlelab.Configs(demo_packs.FS),
		puzzlelab.Kinds(kinds.Kinds()),
	)
}

func NewServerConfig() (*svrcfg.SvrCfg, error) {
	lab, err := NewPuzzlelab()
	if err != nil {
		return nil, errs.NewFatal("new puzzlelab failed:" + err.Error())
	}
	// demo server 的旗標只活在行程內；要跨重啟請換 hostflags.OpenSQLite。
	lab.Bind(puzzlelab.Host{Flags: hostflags.NewMemStore()})
	scfg := &svrcfg.SvrCfg{
		Log:        logger.NewDefaultAsyncLogger(logger.ModeDev),
		SessionCap: 64,
		Puzzlelab:  lab,
	}
	return scfg, nil
}
