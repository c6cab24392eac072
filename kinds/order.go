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

package kinds

import (
	"time"

	"github.com/zintix-labs/puzzlelab/errs"
	"github.com/zintix-labs/puzzlelab/sdk/puzzle"
	"github.com/zintix-labs/puzzlelab/sdk/ui"
	"github.com/zintix-labs/puzzlelab/spec"
)

const orderMarkWindow = 600 * time.Millisecond

// orderKind 是排序謎題：上方是洗牌後的來源池，下方是排序列。
//
// 點擊切換歸屬：池→排序列（附加於尾端）、排序列→池
// （移除後其餘已排 token 的相對順序不變）。
// 評估為位置逐一相等，長度必須一致。
type orderKind struct {
	puzzle.Base

	pool     []string // 來源池內的 id（顯示順序）
	placed   []string // 排序列內的 id（使用者決定的順序）
	solution []string
	nodes    map[string]*ui.Node

	poolArea ui.Rect
	destArea ui.Rect
}

func newOrder(env *puzzle.Env, cfg *spec.PuzzleSetting, opt spec.Options) (puzzle.Puzzle, error) {
	if len(cfg.Tokens) == 0 {
		return nil, errs.Fatalf("puzzle %s: order requires tokens", cfg.Id)
	}

	// 缺省解為 token 宣告順序
	solution := cfg.SolutionIds
	if len(solution) == 0 {
		solution = tokenIds(cfg)
	}

	k := &orderKind{
		solution: solution,
		nodes:    map[string]*ui.Node{},
	}
	k.Init(env, cfg, opt)
	return k, nil
}

func (k *orderKind) Mount(stage *ui.Stage, area ui.Rect) error {
	body, err := k.MountPanel(stage, area, true)
	if err != nil {
		return err
	}

	k.poolArea = ui.R(body.X, body.Y, body.W, body.H*0.55)
	k.destArea = ui.R(body.X, body.Y+body.H*0.6, body.W, body.H*0.4)

	dest := ui.NewNode("ordered:"+k.Cfg.Id, "strip")
	dest.Rect = k.destArea
	k.Body.Append(dest)

	k.pool = tokenIds(k.Cfg)
	k.Env.Core.ShuffleStrings(k.pool)

	for _, id := range k.pool {
		t := k.Cfg.TokenById(id)
		n := k.CreateToken(t)
		tid := id
		n.OnClick = func() { k.toggle(tid) }
		k.Body.Append(n)
		k.nodes[id] = n
	}
	k.relayout()
	return nil
}

// toggle 在池與排序列間搬移 token，並重排版面。
func (k *orderKind) toggle(id string) {
	for i, pid := range k.placed {
		if pid == id {
			k.placed = append(k.placed[:i], k.placed[i+1:]...)
			k.pool = append(k.pool, id)
			k.nodes[id].ClearMarks()
			k.relayout()
			return
		}
	}
	for i, pid := range k.pool {
		if pid == id {
			k.pool = append(k.pool[:i], k.pool[i+1:]...)
			k.placed = append(k.placed, id)
			k.nodes[id].ClearMarks()
			k.relayout()
			return
		}
	}
}

func (k *orderKind) relayout() {
	rects := tokenRects(k.poolArea, layoutOf(k.Cfg, k.Opt), k.pool, ui.FlowRow)
	for i, id := range k.pool {
		k.nodes[id].Rect = rects[i]
	}
	if len(k.placed) > 0 {
		cells := ui.RowCells(k.destArea, len(k.placed), 6)
		for i, id := range k.placed {
			k.nodes[id].Rect = cells[i]
		}
	}
}

func (k *orderKind) OnOk() puzzle.Result {
	if len(k.placed) != len(k.solution) {
		if !k.Aggregate() {
			k.hintMissing()
		}
		k.scheduleMarkClear()
		return verdict(k.Blocking(), puzzle.ReasonIncomplete, nil)
	}

	ok := true
	for i, id := range k.placed {
		good := id == k.solution[i]
		if !good {
			ok = false
		}
		if !k.Aggregate() {
			n := k.nodes[id]
			n.ClearMarks()
			if good {
				n.Set(ui.FlagCorrect)
			} else {
				n.Set(ui.FlagWrong)
			}
		}
	}
	if ok {
		return puzzle.Pass(nil)
	}
	k.scheduleMarkClear()
	return verdict(k.Blocking(), puzzle.ReasonWrong, nil)
}

// hintMissing 在送出時提示「應排而未排」的 token。
func (k *orderKind) hintMissing() {
	placed := map[string]bool{}
	for _, id := range k.placed {
		placed[id] = true
	}
	for _, id := range k.solution {
		if !placed[id] {
			k.nodes[id].Set(ui.FlagHint)
		}
	}
}

func (k *orderKind) scheduleMarkClear() {
	if !k.Blocking() {
		return
	}
	k.Tasks.After(orderMarkWindow, func() {
		for _, n := range k.nodes {
			n.ClearMarks()
		}
	})
}
