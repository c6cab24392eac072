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
	"regexp"
	"time"

	"github.com/zintix-labs/puzzlelab/errs"
	"github.com/zintix-labs/puzzlelab/sdk/puzzle"
	"github.com/zintix-labs/puzzlelab/sdk/ui"
	"github.com/zintix-labs/puzzlelab/spec"
)

const (
	clozeReturnWindow = 800 * time.Millisecond
	gapW              = 90.0
	gapH              = 36.0
	clozeTokenW       = 84.0
	clozeTokenH       = 32.0
)

var clozeMarker = regexp.MustCompile(`\{(gap\w+)\}`)

// clozeKind 是填空謎題：模板文字中的 {gapN} 成為 drop target，
// token 從下方題庫區以 ghost clone 拖進空格。
//
// 結構不變量：一個 token 同一時間至多佔據一個空格。
// 放進已佔用的空格會把原佔用者逐回題庫；拖到空格外則返回題庫。
type clozeKind struct {
	puzzle.Base

	occupant map[string]string // gap → token
	inGap    map[string]string // token → gap
	gaps     map[string]*ui.Node
	tokens   map[string]*ui.Node
	bankHome map[string]ui.Rect
}

func newCloze(env *puzzle.Env, cfg *spec.PuzzleSetting, opt spec.Options) (puzzle.Puzzle, error) {
	if cfg.Template == "" || len(cfg.Tokens) == 0 {
		return nil, errs.Fatalf("puzzle %s: cloze requires template and tokens", cfg.Id)
	}
	if len(cfg.SolutionGaps) == 0 {
		return nil, errs.Fatalf("puzzle %s: cloze requires solution_gaps", cfg.Id)
	}

	k := &clozeKind{
		occupant: map[string]string{},
		inGap:    map[string]string{},
		gaps:     map[string]*ui.Node{},
		tokens:   map[string]*ui.Node{},
		bankHome: map[string]ui.Rect{},
	}
	k.Init(env, cfg, opt)
	return k, nil
}

func (k *clozeKind) Mount(stage *ui.Stage, area ui.Rect) error {
	body, err := k.MountPanel(stage, area, true)
	if err != nil {
		return err
	}

	textArea := ui.R(body.X, body.Y, body.W, body.H*0.55)
	bankArea := ui.R(body.X, body.Y+body.H*0.6, body.W, body.H*0.4)

	k.mountTemplate(textArea)
	k.mountBank(bankArea)
	return nil
}

// mountTemplate 把模板拆成文字段與空格，流式排進文字區（超寬換行）。
func (k *clozeKind) mountTemplate(area ui.Rect) {
	tpl := k.Env.Text(k.Cfg.Template)
	x, y := area.X, area.Y

	flush := func(w float64) {
		if x+w > area.X+area.W && x > area.X {
			x = area.X
			y += gapH + 8
		}
	}

	last := 0
	for _, m := range clozeMarker.FindAllStringSubmatchIndex(tpl, -1) {
		if lit := tpl[last:m[0]]; lit != "" {
			w := float64(len([]rune(lit))) * 8
			flush(w)
			seg := ui.NewNode("", "text")
			seg.Label = lit
			seg.Rect = ui.R(x, y, w, gapH)
			k.Body.Append(seg)
			x += w
		}

		name := tpl[m[2]:m[3]]
		flush(gapW)
		gap := ui.NewNode("gap:"+name, "gap")
		gap.Rect = ui.R(x, y, gapW, gapH)
		gname := name
		// 點擊已填的空格把佔用者送回題庫
		gap.OnClick = func() { k.vacate(gname) }
		k.Body.Append(gap)
		k.gaps[name] = gap
		x += gapW

		last = m[1]
	}
	if lit := tpl[last:]; lit != "" {
		w := float64(len([]rune(lit))) * 8
		flush(w)
		seg := ui.NewNode("", "text")
		seg.Label = lit
		seg.Rect = ui.R(x, y, w, gapH)
		k.Body.Append(seg)
	}
}

func (k *clozeKind) mountBank(area ui.Rect) {
	bank := ui.NewNode("bank:"+k.Cfg.Id, "bank")
	bank.Rect = area
	k.Body.Append(bank)

	ids := tokenIds(k.Cfg)
	k.Env.Core.ShuffleStrings(ids)
	rects := tokenRects(area, nil, ids, ui.FlowRow)

	for i, id := range ids {
		t := k.Cfg.TokenById(id)
		n := k.CreateToken(t)
		n.Rect = rects[i]
		k.bankHome[id] = rects[i]

		tid := id
		node := n
		n.OnPointerDown = func(p ui.Point) { k.startDrag(tid, node, p) }
		k.Body.Append(n)
		k.tokens[id] = n
	}
}

// startDrag 建立追蹤游標的 ghost clone；真 token 在放開時才移動。
func (k *clozeKind) startDrag(id string, n *ui.Node, p ui.Point) {
	ghost := ui.NewNode("ghost:"+id, "ghost")
	ghost.Label = n.Label
	ghost.Image = n.Image
	ghost.Rect = n.Rect
	k.Panel.Append(ghost)

	d := ui.NewDrag(ghost, p)
	d.OnDrop = func(at ui.Point) {
		k.Panel.Remove(ghost)
		k.drop(id, at)
	}
	if err := k.Stage.StartDrag(d); err != nil {
		k.Panel.Remove(ghost)
	}
}

// drop 依落點決定去向：空格內→放置（必要時先逐出原佔用者）、
// 空格外→返回題庫。
func (k *clozeKind) drop(id string, at ui.Point) {
	for name, gap := range k.gaps {
		if gap.Rect.Contains(at) {
			k.place(id, name)
			return
		}
	}
	k.toBank(id)
}

// place 滿足單一佔據不變量：token 先離開原空格，
// 目標空格的原佔用者被逐回題庫。
func (k *clozeKind) place(id, gap string) {
	if cur, ok := k.inGap[id]; ok {
		delete(k.occupant, cur)
		delete(k.inGap, id)
		k.gaps[cur].Value = ""
	}
	if prev, ok := k.occupant[gap]; ok {
		k.toBank(prev)
	}
	k.occupant[gap] = id
	k.inGap[id] = gap
	g := k.gaps[gap]
	g.Value = id
	g.ClearMarks()
	k.tokens[id].Rect = ui.Rect{W: clozeTokenW, H: clozeTokenH}.CenterAt(g.Rect.Center())
}

// vacate 清空指定空格（佔用者回題庫）。
func (k *clozeKind) vacate(gap string) {
	if id, ok := k.occupant[gap]; ok {
		k.toBank(id)
	}
}

func (k *clozeKind) toBank(id string) {
	if gap, ok := k.inGap[id]; ok {
		delete(k.occupant, gap)
		delete(k.inGap, id)
		k.gaps[gap].Value = ""
	}
	k.tokens[id].Rect = k.bankHome[id]
}

func (k *clozeKind) OnOk() puzzle.Result {
	wrongGaps := []string{}
	missing := 0
	for gap, wantTok := range k.Cfg.SolutionGaps {
		got, filled := k.occupant[gap]
		n := k.gaps[gap]
		switch {
		case filled && got == wantTok:
			if !k.Aggregate() {
				n.ClearMarks()
				n.Set(ui.FlagCorrect)
			}
		case !filled:
			// 未填的解空格讓整題失敗
			missing++
			if !k.Aggregate() {
				n.ClearMarks()
				n.Set(ui.FlagHint)
			}
		default:
			wrongGaps = append(wrongGaps, gap)
			if !k.Aggregate() {
				n.ClearMarks()
				n.Set(ui.FlagWrong)
			}
		}
	}

	if len(wrongGaps) == 0 && missing == 0 {
		return puzzle.Pass(nil)
	}

	if k.Blocking() && k.Opt.Reset() && len(wrongGaps) > 0 {
		bad := wrongGaps
		k.Tasks.After(clozeReturnWindow, func() {
			for _, gap := range bad {
				k.gaps[gap].ClearMarks()
				k.vacate(gap)
			}
		})
	}

	reason := puzzle.ReasonWrong
	if len(wrongGaps) == 0 {
		reason = puzzle.ReasonIncomplete
	}
	return verdict(k.Blocking(), reason, nil)
}
