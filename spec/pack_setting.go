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

package spec

import (
	"github.com/zintix-labs/puzzlelab/errs"
)

// PackSetting 是一份 puzzle pack 的完整設定：
// 一組可被 by-ref 引用的 puzzle 宣告。
type PackSetting struct {
	PackName string          `yaml:"pack_name" json:"pack_name"`
	PackID   PID             `yaml:"pack_id"   json:"pack_id"`
	Puzzles  []PuzzleSetting `yaml:"puzzles"   json:"puzzles"`

	byId map[string]*PuzzleSetting
}

// init 初始化所有 puzzle 設定並建立 id 索引。
func (pk *PackSetting) init() error {
	if pk.PackName == "" {
		return errs.NewFatal("pack_name required")
	}
	if len(pk.Puzzles) == 0 {
		return errs.Fatalf("pack %s: no puzzles", pk.PackName)
	}

	pk.byId = make(map[string]*PuzzleSetting, len(pk.Puzzles))
	for i := range pk.Puzzles {
		ps := &pk.Puzzles[i]
		if err := ps.Init(); err != nil {
			return err
		}
		if _, ok := pk.byId[ps.Id]; ok {
			return errs.Fatalf("pack %s: duplicate puzzle id %q", pk.PackName, ps.Id)
		}
		pk.byId[ps.Id] = ps
	}

	// by-ref step 必須指向同一 pack 內的 puzzle
	for i := range pk.Puzzles {
		ps := &pk.Puzzles[i]
		if ps.Kind != KindList {
			continue
		}
		for j := range ps.Steps {
			st := &ps.Steps[j]
			if st.Ref == "" {
				continue
			}
			ref, ok := pk.byId[st.Ref]
			if !ok {
				return errs.Fatalf("pack %s: puzzle %s step #%d references unknown puzzle %q",
					pk.PackName, ps.Id, j, st.Ref)
			}
			if ref.Kind == KindList {
				return errs.Fatalf("pack %s: puzzle %s step #%d nests a list", pk.PackName, ps.Id, j)
			}
		}
	}
	return nil
}

// PuzzleById 以 id 取得 puzzle 設定；找不到回傳 Fatal。
func (pk *PackSetting) PuzzleById(id string) (*PuzzleSetting, error) {
	ps, ok := pk.byId[id]
	if !ok {
		return nil, errs.Fatalf("pack %s: puzzle %q is not exist", pk.PackName, id)
	}
	return ps, nil
}

// PuzzlesById 回傳 id→setting 的索引（唯讀共用）。
func (pk *PackSetting) PuzzlesById() map[string]*PuzzleSetting {
	return pk.byId
}
