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
	"fmt"

	"github.com/zintix-labs/puzzlelab/errs"
	"github.com/zintix-labs/puzzlelab/score"
	"github.com/zintix-labs/puzzlelab/sdk/puzzle"
	"github.com/zintix-labs/puzzlelab/sdk/ui"
	"github.com/zintix-labs/puzzlelab/spec"
)

// listKind 依序驅動一串步驟，同一時間只掛載一個子 puzzle。
//
// 步驟的生效 options 疊加順序：step > list 預設 > caller 預設
// （k.Opt 進來時已是 caller 疊 list 的結果）。
// 子步驟以 Nested Runner 掛載（不另行 Acquire 舞台）；
// 子結果逐筆記入 score.SequenceReport，整段結束後（可選）顯示總結畫面，
// 再送出終局結果：全對為成功，否則 reason="incomplete" 並附完整報告。
// 共用背景掛在 list 自己的面板上，跨步驟存續，整個 list 卸載時才拆。
type listKind struct {
	puzzle.Base

	steps  []spec.StepSetting
	idx    int
	child  *puzzle.Runner
	report *score.SequenceReport

	summaryShown bool
	final        puzzle.Result
}

func newList(env *puzzle.Env, cfg *spec.PuzzleSetting, opt spec.Options) (puzzle.Puzzle, error) {
	if len(cfg.Steps) == 0 {
		return nil, errs.Fatalf("puzzle %s: list requires steps", cfg.Id)
	}
	k := &listKind{
		steps:  cfg.Steps,
		report: score.NewSequenceReport(cfg.Id),
	}
	k.Init(env, cfg, opt)
	return k, nil
}

func (k *listKind) Mount(stage *ui.Stage, area ui.Rect) error {
	if _, err := k.MountPanel(stage, area, false); err != nil {
		return err
	}
	return k.mountStep(0)
}

// resolveStep 取出步驟的設定：by-ref 查 Env.Puzzles，inline 直接用。
func (k *listKind) resolveStep(i int) (*spec.PuzzleSetting, error) {
	st := &k.steps[i]
	if st.Ref != "" {
		cfg, ok := k.Env.Puzzles[st.Ref]
		if !ok {
			return nil, errs.Fatalf("puzzle %s: step #%d references unknown puzzle %q", k.Cfg.Id, i, st.Ref)
		}
		return cfg, nil
	}
	if st.Config == nil {
		return nil, errs.Fatalf("puzzle %s: step #%d has neither ref nor config", k.Cfg.Id, i)
	}
	return st.Config, nil
}

func (k *listKind) mountStep(i int) error {
	cfg, err := k.resolveStep(i)
	if err != nil {
		return err
	}
	eff := spec.MergeOptions(k.Opt, k.steps[i].Options)

	p, err := k.Env.Kinds.Build(k.Env, cfg, eff)
	if err != nil {
		return err
	}

	idx := i
	r := puzzle.NewRunner(p, func(res puzzle.Result) {
		k.onStepResolved(idx, cfg, eff, res)
	})
	r.Nested = true
	if err := r.MountInto(k.Stage, k.Body.Rect); err != nil {
		return err
	}
	k.child = r
	return nil
}

func (k *listKind) onStepResolved(i int, cfg *spec.PuzzleSetting, eff spec.Options, res puzzle.Result) {
	k.report.Record(score.StepResult{
		Id:     cfg.Id,
		Kind:   string(cfg.Kind),
		Ok:     res.Ok,
		Reason: res.Reason,
	})

	if res.Reason == puzzle.ReasonCancel {
		// 步驟被取消：整段流程終止
		k.teardownChild()
		k.finish()
		return
	}

	if !res.Ok && eff.Block() {
		// 失敗且步驟要求 block：不前進，重掛同一步驟
		k.teardownChild()
		if err := k.mountStep(i); err != nil {
			k.ResolveNow(puzzle.Fail(puzzle.ReasonIncomplete, err.Error()))
		}
		return
	}

	k.teardownChild()
	k.idx = i + 1
	if k.idx < len(k.steps) {
		if err := k.mountStep(k.idx); err != nil {
			k.ResolveNow(puzzle.Fail(puzzle.ReasonIncomplete, err.Error()))
		}
		return
	}
	k.finish()
}

func (k *listKind) teardownChild() {
	if k.child != nil {
		k.child.Unmount()
		k.child = nil
	}
}

// finish 彙整報告並（可選）顯示總結畫面。
// 略過總結畫面時報告仍照常計算、附在終局結果上。
func (k *listKind) finish() {
	k.report.Done()
	if k.report.AllPassed() {
		k.final = puzzle.Pass(k.report)
	} else {
		k.final = puzzle.Fail(puzzle.ReasonIncomplete, k.report)
	}

	if !k.Cfg.Summary.Visible() {
		k.ResolveNow(k.final)
		return
	}
	k.showSummary()
}

func (k *listKind) showSummary() {
	k.summaryShown = true
	k.Body.RemoveAll()
	body := k.Body.Rect

	title := ui.NewNode("summary-title", "title")
	title.Label = k.Env.Localize("SUMMARY", "Summary")
	if k.Cfg.Summary != nil && k.Cfg.Summary.Title != "" {
		title.Label = k.Env.Text(k.Cfg.Summary.Title)
	}
	title.Rect = ui.R(body.X, body.Y+20, body.W, 32)
	k.Body.Append(title)

	scoreN := ui.NewNode("summary-score", "score")
	scoreN.Label = fmt.Sprintf("%d / %d", k.report.Passed, k.report.Total)
	scoreN.Rect = ui.R(body.X, body.Y+64, body.W, 28)
	k.Body.Append(scoreN)

	if k.Cfg.Summary != nil && k.Cfg.Summary.Message != "" {
		msg := ui.NewNode("summary-message", "message")
		msg.Label = k.Env.Text(k.Cfg.Summary.Message)
		msg.Rect = ui.R(body.X, body.Y+100, body.W, 28)
		k.Body.Append(msg)
	}

	done := ui.NewNode("btn-done", "button")
	done.Label = k.Env.Localize("BTN_OK", "OK")
	done.Rect = ui.R(body.X+body.W/2-42, body.Y+body.H-56, 84, 36)
	done.OnClick = func() { k.ResolveNow(k.final) }
	k.Body.Append(done)
}

// OnOk 轉送給目前的子步驟；總結畫面顯示中則直接送出終局結果。
// list 自身的終局一律經由 ResolveNow 送出，對外永遠回 hold。
func (k *listKind) OnOk() puzzle.Result {
	if k.summaryShown {
		k.ResolveNow(k.final)
		return puzzle.Hold()
	}
	if k.child != nil {
		k.child.Submit()
	}
	return puzzle.Hold()
}

func (k *listKind) OnCancel() {
	k.teardownChild()
}

func (k *listKind) Unmount() {
	k.teardownChild()
	k.Base.Unmount()
}
