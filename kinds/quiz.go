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

	"github.com/zyedidia/generic/mapset"

	"github.com/zintix-labs/puzzlelab/errs"
	"github.com/zintix-labs/puzzlelab/sdk/puzzle"
	"github.com/zintix-labs/puzzlelab/sdk/ui"
	"github.com/zintix-labs/puzzlelab/spec"
)

const quizResetWindow = 300 * time.Millisecond

// quizKind 是單選/多選謎題。
//
// 真相是 selected 集合；評估為 selected 與 solution 的嚴格集合相等
// （大小相同且完全包含）。
type quizKind struct {
	puzzle.Base

	selected mapset.Set[string]
	solution mapset.Set[string]
	nodes    map[string]*ui.Node
}

func newQuiz(env *puzzle.Env, cfg *spec.PuzzleSetting, opt spec.Options) (puzzle.Puzzle, error) {
	if len(cfg.Tokens) == 0 {
		return nil, errs.Fatalf("puzzle %s: quiz requires tokens", cfg.Id)
	}

	solution := mapset.New[string]()
	// 明示 id 清單優先於 token 的 correct 旗標
	if len(cfg.SolutionIds) > 0 {
		for _, id := range cfg.SolutionIds {
			solution.Put(id)
		}
	} else {
		for i := range cfg.Tokens {
			if cfg.Tokens[i].Correct {
				solution.Put(cfg.Tokens[i].Id)
			}
		}
	}
	if solution.Size() == 0 {
		return nil, errs.Fatalf("puzzle %s: quiz has no correct tokens", cfg.Id)
	}

	k := &quizKind{
		selected: mapset.New[string](),
		solution: solution,
		nodes:    map[string]*ui.Node{},
	}
	k.Init(env, cfg, opt)
	return k, nil
}

func (k *quizKind) Mount(stage *ui.Stage, area ui.Rect) error {
	body, err := k.MountPanel(stage, area, true)
	if err != nil {
		return err
	}

	ids := tokenIds(k.Cfg)
	k.Env.Core.ShuffleStrings(ids)
	rects := tokenRects(body, layoutOf(k.Cfg, k.Opt), ids, ui.FlowRow)

	for i, id := range ids {
		t := k.Cfg.TokenById(id)
		n := k.CreateToken(t)
		n.Rect = rects[i]
		tid := id
		n.OnClick = func() { k.toggle(tid) }
		k.Body.Append(n)
		k.nodes[id] = n
	}
	return nil
}

// toggle 切換選取；單選模式下先清掉既有選取。
func (k *quizKind) toggle(id string) {
	if k.selected.Has(id) {
		k.selected.Remove(id)
		k.nodes[id].Unset(ui.FlagSelected)
		return
	}
	if !k.Opt.Multi() {
		k.clearSelection()
	}
	k.selected.Put(id)
	k.nodes[id].Set(ui.FlagSelected)
}

func (k *quizKind) clearSelection() {
	k.selected.Each(func(id string) {
		k.nodes[id].Unset(ui.FlagSelected)
	})
	k.selected = mapset.New[string]()
}

func (k *quizKind) OnOk() puzzle.Result {
	ok := k.selected.Size() == k.solution.Size()
	if ok {
		k.solution.Each(func(id string) {
			if !k.selected.Has(id) {
				ok = false
			}
		})
	}

	if !k.Aggregate() {
		k.mark()
	}
	if ok {
		return puzzle.Pass(nil)
	}

	if k.Blocking() && k.Opt.Reset() {
		k.Tasks.After(quizResetWindow, func() {
			k.clearSelection()
			for _, n := range k.nodes {
				n.ClearMarks()
			}
		})
	}
	reason := puzzle.ReasonWrong
	if k.selected.Size() == 0 {
		reason = puzzle.ReasonIncomplete
	}
	return verdict(k.Blocking(), reason, nil)
}

// mark 逐元素標記：選對、選錯、應選未選（hint）。
func (k *quizKind) mark() {
	for id, n := range k.nodes {
		n.ClearMarks()
		inSol := k.solution.Has(id)
		inSel := k.selected.Has(id)
		switch {
		case inSel && inSol:
			n.Set(ui.FlagCorrect)
		case inSel && !inSol:
			n.Set(ui.FlagWrong)
		case !inSel && inSol:
			n.Set(ui.FlagHint)
		}
	}
}
