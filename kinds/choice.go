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
	"strings"

	"github.com/zintix-labs/puzzlelab/errs"
	"github.com/zintix-labs/puzzlelab/sdk/puzzle"
	"github.com/zintix-labs/puzzlelab/sdk/ui"
	"github.com/zintix-labs/puzzlelab/spec"
)

// choiceKind 是逐列作答的謎題：每列一個標籤加一個控制項。
// 有 choices 且未明示 editable 時呈現下拉選單，否則自由輸入。
// 同一時間只允許一個下拉選單展開。
type choiceKind struct {
	puzzle.Base

	controls map[string]*ui.Node
	open     string // 展開中的下拉選單 token id
}

func newChoice(env *puzzle.Env, cfg *spec.PuzzleSetting, opt spec.Options) (puzzle.Puzzle, error) {
	if len(cfg.Tokens) == 0 {
		return nil, errs.Fatalf("puzzle %s: choice requires tokens", cfg.Id)
	}
	for i := range cfg.Tokens {
		t := &cfg.Tokens[i]
		if t.Solution == "" {
			if _, ok := cfg.SolutionValues[t.Id]; !ok {
				return nil, errs.Fatalf("puzzle %s: row %q has no expected value", cfg.Id, t.Id)
			}
		}
	}

	k := &choiceKind{controls: map[string]*ui.Node{}}
	k.Init(env, cfg, opt)
	return k, nil
}

func (k *choiceKind) Mount(stage *ui.Stage, area ui.Rect) error {
	body, err := k.MountPanel(stage, area, true)
	if err != nil {
		return err
	}

	// 點到面板空白處收合所有下拉選單
	k.Panel.OnClick = func() { k.closeAll() }

	rows := ui.ColCells(body, len(k.Cfg.Tokens), 6)
	for i := range k.Cfg.Tokens {
		t := &k.Cfg.Tokens[i]
		row := rows[i]

		label := ui.NewNode("", "label")
		label.Label = k.Env.Text(t.Label)
		label.Rect = ui.R(row.X, row.Y, row.W*0.4, row.H)
		k.Body.Append(label)

		ctrlRect := ui.R(row.X+row.W*0.45, row.Y, row.W*0.55, row.H)
		if len(t.Choices) > 0 && !t.Editable {
			k.mountSelect(t, ctrlRect)
		} else {
			k.mountInput(t, ctrlRect)
		}
	}
	return nil
}

func (k *choiceKind) mountSelect(t *spec.Token, r ui.Rect) {
	n := ui.NewNode("select:"+t.Id, "select")
	n.Rect = r
	for _, c := range t.Choices {
		n.Options = append(n.Options, c.Value)
	}
	tid := t.Id
	n.OnClick = func() { k.toggleOpen(tid) }
	k.Body.Append(n)
	k.controls[t.Id] = n

	for j, c := range t.Choices {
		opt := ui.NewNode("option:"+t.Id+":"+c.Value, "option")
		opt.Label = k.Env.Text(c.Label)
		opt.Value = c.Value
		opt.Rect = ui.R(r.X, r.Y+r.H+float64(j)*r.H, r.W, r.H)
		opt.Set(ui.FlagDisabled) // 收合時不可點
		val := c.Value
		opt.OnClick = func() {
			n.Value = val
			n.ClearMarks()
			k.closeAll()
		}
		n.Append(opt)
	}
}

func (k *choiceKind) mountInput(t *spec.Token, r ui.Rect) {
	n := ui.NewNode("input:"+t.Id, "input")
	n.Rect = r
	n.OnChange = func(string) { n.ClearMarks() }
	k.Body.Append(n)
	k.controls[t.Id] = n
}

// toggleOpen 展開指定下拉選單；展開一個會先收合其他所有。
func (k *choiceKind) toggleOpen(id string) {
	wasOpen := k.open == id
	k.closeAll()
	if wasOpen {
		return
	}
	k.open = id
	n := k.controls[id]
	n.Set(ui.FlagOpen)
	for _, opt := range n.Children {
		opt.Unset(ui.FlagDisabled)
	}
}

func (k *choiceKind) closeAll() {
	for _, n := range k.controls {
		if n.Has(ui.FlagOpen) {
			n.Unset(ui.FlagOpen)
			for _, opt := range n.Children {
				opt.Set(ui.FlagDisabled)
			}
		}
	}
	k.open = ""
}

func (k *choiceKind) OnOk() puzzle.Result {
	k.closeAll()

	wrong := 0
	missing := 0
	for i := range k.Cfg.Tokens {
		t := &k.Cfg.Tokens[i]
		want := t.Solution
		if want == "" {
			want = k.Cfg.SolutionValues[t.Id]
		}
		// 期望值先解析 localization 再比對
		want = strings.TrimSpace(k.Env.Text(want))
		got := strings.TrimSpace(k.controls[t.Id].Value)

		n := k.controls[t.Id]
		switch {
		case got == want:
			if !k.Aggregate() {
				n.ClearMarks()
				n.Set(ui.FlagCorrect)
			}
		case got == "":
			missing++
			if !k.Aggregate() {
				n.ClearMarks()
				n.Set(ui.FlagHint)
			}
		default:
			wrong++
			if !k.Aggregate() {
				n.ClearMarks()
				n.Set(ui.FlagWrong)
			}
		}
	}

	if wrong == 0 && missing == 0 {
		return puzzle.Pass(nil)
	}
	reason := puzzle.ReasonWrong
	if wrong == 0 {
		reason = puzzle.ReasonIncomplete
	}
	return verdict(k.Blocking(), reason, nil)
}
