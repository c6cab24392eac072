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

package puzzlelab

import (
	"context"

	"github.com/zintix-labs/puzzlelab/errs"
	"github.com/zintix-labs/puzzlelab/score"
	"github.com/zintix-labs/puzzlelab/sdk/puzzle"
	"github.com/zintix-labs/puzzlelab/sdk/ui"
	"github.com/zintix-labs/puzzlelab/spec"
)

// SequenceParams 描述一段依序闖關的 puzzle 序列。
//
// Refs 逐一引用 Pack 內的題目；每一步也可以用 Steps 直接給
// inline 設定（兩者擇一）。Options 為 list 層選項，個別步驟
// 可在 StepSetting.Options 覆寫。
type SequenceParams struct {
	Pack  string
	Refs  []string
	Steps []spec.StepSetting

	// Summary 控制收尾的總結畫面。nil 時不顯示、最後一步結束立即送出
	// 終局結果：OpenSequence 的呼叫端阻塞在結果上，沒人能替它按
	// 總結畫面的按鈕。要畫面的 host 自己給 Summary 並轉送 btn-done。
	Summary *spec.SummarySetting

	Options spec.Options
	Seed    int64

	// OnMounted 在序列掛上舞台後呼叫一次；host 從這一刻開始轉送事件。
	OnMounted func(*ui.Stage)
}

// NewSequenceRunner 把序列包成一個 list puzzle 的 Runner（callback 形式）。
func (p *Puzzlelab) NewSequenceRunner(prm SequenceParams, onResolve func(puzzle.Result)) (*puzzle.Runner, error) {
	cfg, err := sequenceConfig(prm)
	if err != nil {
		return nil, err
	}
	return p.NewRunner(RunnerParams{
		Pack:      prm.Pack,
		Config:    cfg,
		Options:   prm.Options,
		Seed:      prm.Seed,
		OnResolve: onResolve,
	})
}

// OpenSequence 掛載序列並阻塞到終局，回傳「是否全數通過」與聚合報告。
//
// 事件由 host 的執行緒注入（與 Stage 的單執行緒合約一致）；
// 本呼叫只在 channel 上等結果。ctx 取消時直接返回，
// 舞台的收尾（Unmount/Release）仍由 host 負責。
func (p *Puzzlelab) OpenSequence(ctx context.Context, stage *ui.Stage, prm SequenceParams) (bool, *score.SequenceReport, error) {
	ch := make(chan puzzle.Result, 1)
	r, err := p.NewSequenceRunner(prm, func(res puzzle.Result) { ch <- res })
	if err != nil {
		return false, nil, err
	}
	if err := r.MountInto(stage, stage.Area()); err != nil {
		return false, nil, err
	}
	if prm.OnMounted != nil {
		prm.OnMounted(stage)
	}

	select {
	case res := <-ch:
		rep, _ := res.Detail.(*score.SequenceReport)
		return res.Ok, rep, nil
	case <-ctx.Done():
		return false, nil, errs.Wrap(ctx.Err(), "sequence aborted")
	}
}

// sequenceConfig 把 SequenceParams 展開成一份 list 設定。
func sequenceConfig(prm SequenceParams) (*spec.PuzzleSetting, error) {
	if (len(prm.Refs) == 0) == (len(prm.Steps) == 0) {
		return nil, errs.NewFatal("exactly one of refs and steps required")
	}
	steps := prm.Steps
	if len(steps) == 0 {
		steps = make([]spec.StepSetting, 0, len(prm.Refs))
		for _, ref := range prm.Refs {
			steps = append(steps, spec.StepSetting{Ref: ref})
		}
	}
	summary := prm.Summary
	if summary == nil {
		summary = &spec.SummarySetting{Show: spec.Bool(false)}
	}
	return &spec.PuzzleSetting{
		Id:      "sequence",
		Kind:    spec.KindList,
		Steps:   steps,
		Summary: summary,
	}, nil
}
