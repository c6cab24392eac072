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
	"github.com/zintix-labs/puzzlelab/errs"
	"github.com/zintix-labs/puzzlelab/sdk/puzzle"
	"github.com/zintix-labs/puzzlelab/sdk/ui"
	"github.com/zintix-labs/puzzlelab/spec"
)

const (
	groupTokenW = 96.0
	groupTokenH = 40.0
)

// groupKind 是分組謎題：token 起始時聚在板面中央，
// 拖進命名的分組區後取得歸屬；拖到空白處則清除歸屬並彈回原位。
//
// 真相是 assign（token→group）；放開瞬間以 token 中心落點判定分組。
type groupKind struct {
	puzzle.Base

	assign map[string]string
	home   map[string]ui.Rect
	bins   map[string]*ui.Node
	nodes  map[string]*ui.Node
	fill   map[string]int // 各分組內已放置數（決定格位）
}

func newGroup(env *puzzle.Env, cfg *spec.PuzzleSetting, opt spec.Options) (puzzle.Puzzle, error) {
	if len(cfg.Tokens) == 0 || len(cfg.Groups) == 0 {
		return nil, errs.Fatalf("puzzle %s: group requires tokens and groups", cfg.Id)
	}
	if len(cfg.SolutionGroups) == 0 {
		return nil, errs.Fatalf("puzzle %s: group requires solution_groups", cfg.Id)
	}

	k := &groupKind{
		assign: map[string]string{},
		home:   map[string]ui.Rect{},
		bins:   map[string]*ui.Node{},
		nodes:  map[string]*ui.Node{},
		fill:   map[string]int{},
	}
	k.Init(env, cfg, opt)
	return k, nil
}

func (k *groupKind) Mount(stage *ui.Stage, area ui.Rect) error {
	body, err := k.MountPanel(stage, area, true)
	if err != nil {
		return err
	}

	k.mountBins(body)
	k.mountTokens(body)
	return nil
}

// mountBins 佈署分組區：有手動矩形用手動，否則自動格線
// （cols×rows 取空格最少的組合）。
func (k *groupKind) mountBins(body ui.Rect) {
	binArea := ui.R(body.X, body.Y+body.H*0.45, body.W, body.H*0.55)

	manual := true
	for i := range k.Cfg.Groups {
		if k.Cfg.Groups[i].Rect == nil {
			manual = false
			break
		}
	}

	var cells []ui.Rect
	if !manual {
		flow := ui.FlowRow
		if lay := layoutOf(k.Cfg, k.Opt); lay != nil && lay.Flow != "" {
			flow = ui.Flow(lay.Flow)
		}
		cols, rows := ui.AutoGrid(len(k.Cfg.Groups), flow)
		cells = ui.GridCells(binArea, cols, rows, 10)
	}

	for i := range k.Cfg.Groups {
		g := &k.Cfg.Groups[i]
		n := ui.NewNode("group:"+g.Id, "group")
		if g.Label != "" {
			n.Label = k.Env.Text(g.Label)
		}
		if manual {
			n.Rect = g.Rect.Rect()
		} else {
			n.Rect = cells[i]
		}
		k.Body.Append(n)
		k.bins[g.Id] = n
	}
}

// mountTokens 把 token 聚在板面上半部中央。
func (k *groupKind) mountTokens(body ui.Rect) {
	ids := tokenIds(k.Cfg)
	k.Env.Core.ShuffleStrings(ids)

	cluster := ui.Rect{W: groupTokenW * float64(len(ids)), H: groupTokenH}.
		CenterAt(ui.Point{X: body.X + body.W/2, Y: body.Y + body.H*0.2})
	cells := ui.RowCells(cluster, len(ids), 4)

	for i, id := range ids {
		t := k.Cfg.TokenById(id)
		n := k.CreateToken(t)
		n.Rect = cells[i]
		k.home[id] = cells[i]

		tid := id
		node := n
		n.OnPointerDown = func(p ui.Point) {
			node.ClearMarks()
			d := ui.NewDrag(node, p)
			d.OnDrop = func(at ui.Point) { k.drop(tid) }
			if err := k.Stage.StartDrag(d); err != nil {
				_ = err
			}
		}
		k.Body.Append(n)
		k.nodes[id] = n
	}
}

// drop 以 token 中心落點決定歸屬；落在分組外則清除歸屬並彈回。
func (k *groupKind) drop(id string) {
	center := k.nodes[id].Rect.Center()

	var hit string
	for gid, bin := range k.bins {
		if bin.Rect.Contains(center) {
			hit = gid
		}
	}

	if prev, ok := k.assign[id]; ok {
		k.fill[prev]--
		delete(k.assign, id)
	}
	if hit == "" {
		k.nodes[id].Rect = k.home[id]
		return
	}
	k.assign[id] = hit
	k.nodes[id].Rect = k.slotIn(hit)
}

// slotIn 回傳分組區內下一個擺放格位。
func (k *groupKind) slotIn(gid string) ui.Rect {
	bin := k.bins[gid].Rect
	i := k.fill[gid]
	k.fill[gid]++
	perRow := int(bin.W / (groupTokenW + 4))
	if perRow < 1 {
		perRow = 1
	}
	col := i % perRow
	row := i / perRow
	return ui.R(
		bin.X+4+float64(col)*(groupTokenW+4),
		bin.Y+4+float64(row)*(groupTokenH+4),
		groupTokenW, groupTokenH,
	)
}

func (k *groupKind) OnOk() puzzle.Result {
	wrong := []string{}
	missing := 0
	for tok, wantG := range k.Cfg.SolutionGroups {
		got, placed := k.assign[tok]
		n := k.nodes[tok]
		switch {
		case placed && got == wantG:
			if !k.Aggregate() {
				n.ClearMarks()
				n.Set(ui.FlagCorrect)
			}
		case !placed:
			missing++
			if !k.Aggregate() {
				n.ClearMarks()
				n.Set(ui.FlagHint)
			}
		default:
			wrong = append(wrong, tok)
			if !k.Aggregate() {
				n.ClearMarks()
				n.Set(ui.FlagWrong)
			}
		}
	}

	if len(wrong) == 0 && missing == 0 {
		return puzzle.Pass(nil)
	}

	// block 之下錯放的 token 立即彈回原位並失去歸屬，
	// 使用者必須重新決定，而不是原地重送
	if k.Blocking() && k.Opt.Reset() {
		for _, tok := range wrong {
			k.fill[k.assign[tok]]--
			delete(k.assign, tok)
			k.nodes[tok].Rect = k.home[tok]
		}
	}

	reason := puzzle.ReasonWrong
	if len(wrong) == 0 {
		reason = puzzle.ReasonIncomplete
	}
	return verdict(k.Blocking(), reason, nil)
}
