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
	"github.com/zintix-labs/puzzlelab/sdk/textnorm"
	"github.com/zintix-labs/puzzlelab/sdk/ui"
	"github.com/zintix-labs/puzzlelab/spec"
)

// 答錯後 invalid 旗標的自清視窗。
const (
	phraseInvalidWindow = 600 * time.Millisecond
	codeInvalidWindow   = 700 * time.Millisecond
)

// phraseKind 是單一文字輸入的謎題：phrase 與 code 共用實作，
// code 僅差在輸入以遮罩呈現、以及較長的 invalid 視窗。
//
// 比對基準：輸入與每個候選解都經過 textnorm.Normalize；
// 候選解先經 Env.Text 解析（解本身可能是 localized reference）。
type phraseKind struct {
	puzzle.Base

	input  *ui.Node
	window time.Duration
	masked bool
}

func newPhrase(env *puzzle.Env, cfg *spec.PuzzleSetting, opt spec.Options) (puzzle.Puzzle, error) {
	return newTextInput(env, cfg, opt, phraseInvalidWindow, false)
}

func newCode(env *puzzle.Env, cfg *spec.PuzzleSetting, opt spec.Options) (puzzle.Puzzle, error) {
	return newTextInput(env, cfg, opt, codeInvalidWindow, true)
}

func newTextInput(env *puzzle.Env, cfg *spec.PuzzleSetting, opt spec.Options, window time.Duration, masked bool) (puzzle.Puzzle, error) {
	if len(cfg.Solutions) == 0 {
		return nil, errs.Fatalf("puzzle %s: %s kind requires solutions", cfg.Id, cfg.Kind)
	}
	k := &phraseKind{window: window, masked: masked}
	k.Init(env, cfg, opt)
	return k, nil
}

func (k *phraseKind) Mount(stage *ui.Stage, area ui.Rect) error {
	body, err := k.MountPanel(stage, area, true)
	if err != nil {
		return err
	}

	input := ui.NewNode("input:"+k.Cfg.Id, "input")
	input.Rect = ui.R(body.X+20, body.Y+body.H/2-20, body.W-40, 40)
	if k.masked {
		input.Set(ui.FlagMasked)
	}
	// 重新輸入時撤掉殘留的評分旗標
	input.OnChange = func(string) { input.ClearMarks() }
	k.Body.Append(input)
	k.input = input
	return nil
}

func (k *phraseKind) OnOk() puzzle.Result {
	typed := textnorm.Normalize(k.input.Value)
	if typed == "" {
		k.flashInvalid(false)
		return verdict(k.Blocking(), puzzle.ReasonIncomplete, nil)
	}

	for _, sol := range k.Cfg.Solutions {
		// 每個候選解各自解析 localization 後再 normalize
		if typed == textnorm.Normalize(k.Env.Text(sol)) {
			k.input.Set(ui.FlagCorrect)
			return puzzle.Pass(nil)
		}
	}

	k.flashInvalid(k.Blocking() && k.Opt.Reset())
	return verdict(k.Blocking(), puzzle.ReasonWrong, nil)
}

// flashInvalid 點亮 invalid 旗標並排程自清；視窗長度與 blockUntilSolved 無關。
func (k *phraseKind) flashInvalid(clearValue bool) {
	k.input.Set(ui.FlagInvalid)
	k.Tasks.After(k.window, func() {
		k.input.Unset(ui.FlagInvalid)
		if clearValue {
			k.input.Value = ""
		}
	})
}
