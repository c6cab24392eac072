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
	"math"
	"time"

	"github.com/bep/debounce"

	"github.com/zintix-labs/puzzlelab/errs"
	"github.com/zintix-labs/puzzlelab/sdk/puzzle"
	"github.com/zintix-labs/puzzlelab/sdk/ui"
	"github.com/zintix-labs/puzzlelab/spec"
)

const (
	matchUnwindWindow = 800 * time.Millisecond
	connectorDebounce = 100 * time.Millisecond
	matchTokenW       = 120.0
	matchTokenH       = 44.0
)

// matchKind 是配對謎題，兩種互動模式：
//
//   - columns：token 依宣告的 side 分列左右、各自獨立洗牌。
//     點選配對：第一下標記 selected（尚未確認前不得帶顏色），
//     第二下點到對側即成對並取得顏色索引；點同側改為重新選取；
//     點已配對的 token 則拆掉該配對。
//   - dragdrop：token 以互不重疊的格點抖動位置散佈，自由拖曳；
//     放開時中心落在另一 token 的框內即成對。
//
// 真相是對稱的 pairs map；顏色索引永遠取「目前最小未用」（ColorAlloc）。
type matchKind struct {
	puzzle.Base

	mode     string
	pairs    map[string]string // 對稱：a→b 且 b→a
	want     map[string]string // 解，對稱展開
	colorIdx map[string]int
	colors   *ui.ColorAlloc
	selected string
	nodes    map[string]*ui.Node

	left, right []string
	connLayer   *ui.Node
	redrawing   bool
	unresize    func()
}

func newMatch(env *puzzle.Env, cfg *spec.PuzzleSetting, opt spec.Options) (puzzle.Puzzle, error) {
	if len(cfg.Tokens) == 0 || len(cfg.SolutionPairs) == 0 {
		return nil, errs.Fatalf("puzzle %s: match requires tokens and solution_pairs", cfg.Id)
	}

	want := map[string]string{}
	for _, p := range cfg.SolutionPairs {
		want[p[0]] = p[1]
		want[p[1]] = p[0]
	}

	mode := cfg.Mode
	if mode == "" {
		mode = spec.MatchModeColumns
	}

	k := &matchKind{
		mode:     mode,
		pairs:    map[string]string{},
		want:     want,
		colorIdx: map[string]int{},
		nodes:    map[string]*ui.Node{},
	}
	k.Init(env, cfg, opt)
	k.colors = ui.NewColorAlloc(env.Core)
	return k, nil
}

func (k *matchKind) Mount(stage *ui.Stage, area ui.Rect) error {
	body, err := k.MountPanel(stage, area, true)
	if err != nil {
		return err
	}

	if k.mode == spec.MatchModeDragDrop {
		k.mountScatter(body)
		return nil
	}
	k.mountColumns(stage, body)
	return nil
}

// ---------------------------------------------------------------------------
// columns 模式
// ---------------------------------------------------------------------------

func (k *matchKind) mountColumns(stage *ui.Stage, body ui.Rect) {
	for i := range k.Cfg.Tokens {
		t := &k.Cfg.Tokens[i]
		if t.Side == "right" {
			k.right = append(k.right, t.Id)
		} else {
			k.left = append(k.left, t.Id)
		}
	}
	// 兩側各自獨立洗牌
	k.Env.Core.ShuffleStrings(k.left)
	k.Env.Core.ShuffleStrings(k.right)

	k.connLayer = ui.NewNode("connectors:"+k.Cfg.Id, "connectors")
	k.Body.Append(k.connLayer)

	for _, id := range append(append([]string{}, k.left...), k.right...) {
		t := k.Cfg.TokenById(id)
		n := k.CreateToken(t)
		tid := id
		n.OnClick = func() { k.clickColumns(tid) }
		k.Body.Append(n)
		k.nodes[id] = n
	}
	k.layoutColumns(body)

	// resize 時 connector 必須重畫（不是只隱藏）；以 debounce 聚合，
	// 並以 redrawing 防重入。
	deb := debounce.New(connectorDebounce)
	k.unresize = stage.OnResize(func(area ui.Rect) {
		deb(func() { k.redrawColumns() })
	})
}

func (k *matchKind) layoutColumns(body ui.Rect) {
	gap := 10.0
	lcells := ui.ColCells(ui.R(body.X, body.Y, body.W*0.4, body.H), len(k.left), gap)
	rcells := ui.ColCells(ui.R(body.X+body.W*0.6, body.Y, body.W*0.4, body.H), len(k.right), gap)
	for i, id := range k.left {
		k.nodes[id].Rect = lcells[i]
	}
	for i, id := range k.right {
		k.nodes[id].Rect = rcells[i]
	}
	k.drawConnectors()
}

func (k *matchKind) redrawColumns() {
	if k.redrawing || k.Body == nil {
		return
	}
	k.redrawing = true
	defer func() { k.redrawing = false }()
	k.layoutColumns(k.Body.Rect)
}

// drawConnectors 依現存配對重建 connector 節點。
func (k *matchKind) drawConnectors() {
	if k.connLayer == nil {
		return
	}
	k.connLayer.RemoveAll()
	seen := map[string]bool{}
	for a, b := range k.pairs {
		if seen[a] || seen[b] {
			continue
		}
		seen[a], seen[b] = true, true
		ca := k.nodes[a].Rect.Center()
		cb := k.nodes[b].Rect.Center()
		conn := ui.NewNode("conn:"+a+":"+b, "connector")
		conn.Rect = ui.R(min(ca.X, cb.X), min(ca.Y, cb.Y), math.Abs(ca.X-cb.X), math.Abs(ca.Y-cb.Y))
		conn.Style.Color = k.colors.Color(k.colorIdx[a])
		k.connLayer.Append(conn)
	}
}

func (k *matchKind) clickColumns(id string) {
	if _, paired := k.pairs[id]; paired {
		k.unpair(id)
		k.clearSelected()
		k.drawConnectors()
		return
	}

	if k.selected == "" {
		k.setSelected(id)
		return
	}
	if k.selected == id {
		k.clearSelected()
		return
	}
	if k.sideOf(k.selected) == k.sideOf(id) {
		// 同側：重新選取而非配對
		k.clearSelected()
		k.setSelected(id)
		return
	}

	a := k.selected
	k.clearSelected()
	k.pair(a, id)
	k.drawConnectors()
}

func (k *matchKind) sideOf(id string) string {
	for _, l := range k.left {
		if l == id {
			return "left"
		}
	}
	return "right"
}

func (k *matchKind) setSelected(id string) {
	k.selected = id
	k.nodes[id].Set(ui.FlagSelected)
}

func (k *matchKind) clearSelected() {
	if k.selected != "" {
		k.nodes[k.selected].Unset(ui.FlagSelected)
		k.selected = ""
	}
}

// ---------------------------------------------------------------------------
// dragdrop 模式
// ---------------------------------------------------------------------------

func (k *matchKind) mountScatter(body ui.Rect) {
	ids := tokenIds(k.Cfg)
	rects := ui.Scatter(body, len(ids), matchTokenW, matchTokenH, k.Env.Core)

	for i, id := range ids {
		t := k.Cfg.TokenById(id)
		n := k.CreateToken(t)
		n.Rect = rects[i]
		tid := id
		node := n
		n.OnPointerDown = func(p ui.Point) {
			node.ClearMarks()
			// 抓取時提到最上層，重疊時後續手勢抓得到它
			k.Body.Append(node)
			d := ui.NewDrag(node, p)
			d.OnDrop = func(at ui.Point) { k.drop(tid) }
			if err := k.Stage.StartDrag(d); err != nil {
				_ = err // 前一手勢未收尾：忽略本次按下
			}
		}
		k.Body.Append(n)
		k.nodes[id] = n
	}
}

// drop 處理放開：先拆 dragged 的舊配對、再拆目標的舊配對、最後成對。
// 三個 token 靠近時的 tie-break 依賴這個順序（last drop wins）。
// 目標取「最上層」含中心點的 token（子節點序較晚者在上）。
func (k *matchKind) drop(id string) {
	center := k.nodes[id].Rect.Center()

	var target string
	for _, n := range k.Body.Children {
		if n.Class != "token" || n.Id == id {
			continue
		}
		if n.Rect.Contains(center) {
			target = n.Id
		}
	}

	k.unpair(id)
	if target == "" {
		return
	}
	k.unpair(target)
	k.pair(id, target)
}

// ---------------------------------------------------------------------------
// 配對簿記
// ---------------------------------------------------------------------------

func (k *matchKind) pair(a, b string) {
	idx := k.colors.Acquire()
	k.pairs[a], k.pairs[b] = b, a
	k.colorIdx[a], k.colorIdx[b] = idx, idx
	c := k.colors.Color(idx)
	k.nodes[a].Style.Color = c
	k.nodes[b].Style.Color = c
}

// unpair 拆掉 id 的配對並歸還顏色索引；未配對時為 no-op。
func (k *matchKind) unpair(id string) {
	other, ok := k.pairs[id]
	if !ok {
		return
	}
	k.colors.Release(k.colorIdx[id])
	delete(k.pairs, id)
	delete(k.pairs, other)
	delete(k.colorIdx, id)
	delete(k.colorIdx, other)
	k.nodes[id].Style.Color = ""
	k.nodes[other].Style.Color = ""
	k.nodes[id].ClearMarks()
	k.nodes[other].ClearMarks()
}

// ---------------------------------------------------------------------------
// 評估
// ---------------------------------------------------------------------------

func (k *matchKind) OnOk() puzzle.Result {
	wrong := []string{}
	missing := 0
	for id := range k.nodes {
		live := k.pairs[id]
		want := k.want[id]
		switch {
		case live == want:
			if !k.Aggregate() && want != "" {
				k.nodes[id].ClearMarks()
				k.nodes[id].Set(ui.FlagCorrect)
			}
		case live == "" && want != "":
			missing++
			if !k.Aggregate() {
				k.nodes[id].ClearMarks()
				k.nodes[id].Set(ui.FlagHint)
			}
		default:
			wrong = append(wrong, id)
			if !k.Aggregate() {
				k.nodes[id].ClearMarks()
				k.nodes[id].Set(ui.FlagWrong)
			}
		}
	}

	if len(wrong) == 0 && missing == 0 {
		return puzzle.Pass(nil)
	}

	// 先讓失敗回饋可見，之後才拆掉錯誤配對釋放顏色
	if k.Blocking() && k.Opt.Reset() && len(wrong) > 0 {
		bad := wrong
		k.Tasks.After(matchUnwindWindow, func() {
			for _, id := range bad {
				k.unpair(id)
			}
			if k.mode == spec.MatchModeColumns {
				k.drawConnectors()
			}
		})
	}

	reason := puzzle.ReasonWrong
	if len(wrong) == 0 {
		reason = puzzle.ReasonIncomplete
	}
	return verdict(k.Blocking(), reason, nil)
}

func (k *matchKind) Unmount() {
	if k.unresize != nil {
		k.unresize()
		k.unresize = nil
	}
	k.Base.Unmount()
}
