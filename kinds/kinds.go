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

// Package kinds 實作所有內建 puzzle kind。
//
// 每個 kind 內嵌 puzzle.Base 取得面板/頁尾/token 工廠，
// 真相狀態（選取集合、配對 map、擺放 map）由 kind 自持，
// Node 樹只反映呈現。答錯永遠是 Result 資料，不是 error。
package kinds

import (
	"github.com/zintix-labs/puzzlelab/sdk/puzzle"
	"github.com/zintix-labs/puzzlelab/sdk/ui"
	"github.com/zintix-labs/puzzlelab/spec"
)

// verdict 將一次失敗的評估轉成結果：block-until-solved 時為 hold。
func verdict(blocking bool, reason string, detail any) puzzle.Result {
	if blocking {
		return puzzle.Hold()
	}
	return puzzle.Fail(reason, detail)
}

// layoutOf 回傳生效的版面設定（instance options 覆寫設定檔層）。
func layoutOf(cfg *spec.PuzzleSetting, opt spec.Options) *spec.LayoutSetting {
	if opt.Layout != nil {
		return opt.Layout
	}
	return cfg.Layout
}

// tokenRects 依版面設定計算 n 個元素的位置。
// Mode 為 manual 時使用 Positions 的絕對矩形，否則自動格線。
func tokenRects(area ui.Rect, lay *spec.LayoutSetting, ids []string, flow ui.Flow) []ui.Rect {
	if lay != nil && lay.Mode == "manual" {
		out := make([]ui.Rect, len(ids))
		for i, id := range ids {
			if rs, ok := lay.Positions[id]; ok {
				out[i] = rs.Rect()
			}
		}
		return out
	}

	cols, rows := 0, 0
	gap := 8.0
	if lay != nil {
		cols, rows = lay.Cols, lay.Rows
		if lay.Gap > 0 {
			gap = lay.Gap
		}
		if lay.Flow != "" {
			flow = ui.Flow(lay.Flow)
		}
	}
	if cols <= 0 || rows <= 0 {
		cols, rows = ui.AutoGrid(len(ids), flow)
	}
	cells := ui.GridCells(area, cols, rows, gap)
	if len(cells) > len(ids) {
		cells = cells[:len(ids)]
	}
	return cells
}

// tokenIds 回傳設定內 token id 的宣告順序。
func tokenIds(cfg *spec.PuzzleSetting) []string {
	ids := make([]string, 0, len(cfg.Tokens))
	for i := range cfg.Tokens {
		ids = append(ids, cfg.Tokens[i].Id)
	}
	return ids
}
