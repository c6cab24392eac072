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
	"testing"
	"time"

	"github.com/zintix-labs/puzzlelab/sdk/core"
	"github.com/zintix-labs/puzzlelab/sdk/puzzle"
	"github.com/zintix-labs/puzzlelab/sdk/ui"
	"github.com/zintix-labs/puzzlelab/spec"
)

func newTestEnv(mc *ui.ManualClock) *puzzle.Env {
	return &puzzle.Env{
		Clock: mc,
		Core:  core.NewWithSeed(7),
		Kinds: Kinds(),
	}
}

type harness struct {
	stage   *ui.Stage
	runner  *puzzle.Runner
	p       puzzle.Puzzle
	results []puzzle.Result
}

func mountKind(t *testing.T, env *puzzle.Env, cfg *spec.PuzzleSetting, opt spec.Options) *harness {
	t.Helper()
	if err := cfg.Init(); err != nil {
		t.Fatalf("config init: %v", err)
	}
	p, err := env.Kinds.Build(env, cfg, opt)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	h := &harness{p: p, stage: ui.NewStage(ui.R(0, 0, 800, 600))}
	h.runner = puzzle.NewRunner(p, func(res puzzle.Result) {
		h.results = append(h.results, res)
	})
	if err := h.runner.MountInto(h.stage, h.stage.Area()); err != nil {
		t.Fatalf("mount: %v", err)
	}
	return h
}

func (h *harness) submit(t *testing.T) {
	t.Helper()
	if !h.stage.Click("btn-ok") {
		t.Fatalf("btn-ok not clickable")
	}
}

// drag 模擬一次完整拖曳手勢：按在 from、移到 to、在 to 放開。
func (h *harness) drag(t *testing.T, from, to ui.Point) {
	t.Helper()
	if !h.stage.PointerDown(from) {
		t.Fatalf("nothing draggable at %+v", from)
	}
	h.stage.PointerMove(to)
	h.stage.PointerUp(to)
}

func blocking() spec.Options {
	return spec.Options{BlockUntilSolved: spec.Bool(true)}
}

// ---------------------------------------------------------------------------
// phrase / code
// ---------------------------------------------------------------------------

func TestPhraseNormalizedMatch(t *testing.T) {
	mc := ui.NewManualClock()
	cfg := &spec.PuzzleSetting{Id: "p1", Kind: spec.KindPhrase, Solution: "eureka"}
	h := mountKind(t, newTestEnv(mc), cfg, spec.Options{})

	h.stage.Input("input:p1", "ÉuréKa")
	h.submit(t)

	if len(h.results) != 1 || !h.results[0].Ok {
		t.Fatalf("unexpected results: %+v", h.results)
	}
}

func TestPhraseInvalidFlashSelfClears(t *testing.T) {
	mc := ui.NewManualClock()
	cfg := &spec.PuzzleSetting{Id: "p1", Kind: spec.KindPhrase, Solution: "eureka"}
	h := mountKind(t, newTestEnv(mc), cfg, blocking())

	h.stage.Input("input:p1", "nope")
	h.submit(t)

	input := h.stage.Find("input:p1")
	if !input.Has(ui.FlagInvalid) {
		t.Fatalf("expected invalid flag after wrong submit")
	}
	if len(h.results) != 0 {
		t.Fatalf("blocking fail must not resolve: %+v", h.results)
	}

	mc.Advance(600 * time.Millisecond)
	if input.Has(ui.FlagInvalid) {
		t.Fatalf("invalid flag should self-clear after 600ms")
	}
	if input.Value != "" {
		t.Fatalf("blocking reset should clear the typed value")
	}
}

func TestCodeMaskedAndMatch(t *testing.T) {
	mc := ui.NewManualClock()
	cfg := &spec.PuzzleSetting{Id: "c1", Kind: spec.KindCode, Solution: "4815"}
	h := mountKind(t, newTestEnv(mc), cfg, spec.Options{})

	input := h.stage.Find("input:c1")
	if !input.Has(ui.FlagMasked) {
		t.Fatalf("code input must present masked")
	}

	h.stage.Input("input:c1", "4815")
	h.submit(t)
	if len(h.results) != 1 || !h.results[0].Ok {
		t.Fatalf("unexpected results: %+v", h.results)
	}
}

func TestPhraseEmptySubmitIsIncomplete(t *testing.T) {
	mc := ui.NewManualClock()
	cfg := &spec.PuzzleSetting{Id: "p1", Kind: spec.KindPhrase, Solution: "eureka"}
	h := mountKind(t, newTestEnv(mc), cfg, spec.Options{})

	h.submit(t)
	if len(h.results) != 1 || h.results[0].Ok || h.results[0].Reason != puzzle.ReasonIncomplete {
		t.Fatalf("unexpected results: %+v", h.results)
	}
}

// ---------------------------------------------------------------------------
// quiz
// ---------------------------------------------------------------------------

func quizConfig() *spec.PuzzleSetting {
	return &spec.PuzzleSetting{
		Id:   "q1",
		Kind: spec.KindQuiz,
		Tokens: []spec.Token{
			{Id: "a", Label: "Apple", Correct: true},
			{Id: "b", Label: "Brick"},
			{Id: "c", Label: "Cloud", Correct: true},
		},
	}
}

func TestQuizSetEquality(t *testing.T) {
	mc := ui.NewManualClock()
	h := mountKind(t, newTestEnv(mc), quizConfig(), spec.Options{MultiSelect: spec.Bool(true)})

	h.stage.Click("a")
	h.stage.Click("c")
	h.submit(t)

	if len(h.results) != 1 || !h.results[0].Ok {
		t.Fatalf("unexpected results: %+v", h.results)
	}
}

func TestQuizSingleSelectClearsPrior(t *testing.T) {
	mc := ui.NewManualClock()
	h := mountKind(t, newTestEnv(mc), quizConfig(), spec.Options{})

	h.stage.Click("a")
	h.stage.Click("b")

	k := h.p.(*quizKind)
	if k.selected.Size() != 1 || !k.selected.Has("b") {
		t.Fatalf("single-select must clear prior selection")
	}
	if h.stage.Find("a").Has(ui.FlagSelected) {
		t.Fatalf("prior selection flag should be cleared")
	}
}

func TestQuizBlockingResetAfterWindow(t *testing.T) {
	mc := ui.NewManualClock()
	h := mountKind(t, newTestEnv(mc), quizConfig(), spec.Options{
		BlockUntilSolved: spec.Bool(true),
		MultiSelect:      spec.Bool(true),
	})

	h.stage.Click("b")
	h.submit(t)

	if len(h.results) != 0 {
		t.Fatalf("blocking fail must hold: %+v", h.results)
	}
	if !h.stage.Find("b").Has(ui.FlagWrong) {
		t.Fatalf("wrong selected token should be marked")
	}
	if !h.stage.Find("a").Has(ui.FlagHint) {
		t.Fatalf("correct unselected token should be hinted")
	}

	mc.Advance(300 * time.Millisecond)
	k := h.p.(*quizKind)
	if k.selected.Size() != 0 {
		t.Fatalf("selection should reset after 300ms")
	}
	if h.stage.Find("b").Has(ui.FlagWrong) {
		t.Fatalf("marks should clear after reset window")
	}
}

func TestQuizAggregateOnlySkipsMarks(t *testing.T) {
	mc := ui.NewManualClock()
	h := mountKind(t, newTestEnv(mc), quizConfig(), spec.Options{
		AggregateOnly: spec.Bool(true),
		MultiSelect:   spec.Bool(true),
	})

	h.stage.Click("b")
	h.submit(t)

	if h.stage.Find("b").Has(ui.FlagWrong) || h.stage.Find("a").Has(ui.FlagHint) {
		t.Fatalf("aggregate-only must suppress per-element marks")
	}
}

// ---------------------------------------------------------------------------
// order
// ---------------------------------------------------------------------------

func orderConfig() *spec.PuzzleSetting {
	return &spec.PuzzleSetting{
		Id:   "o1",
		Kind: spec.KindOrder,
		Tokens: []spec.Token{
			{Id: "na", Label: "Na"},
			{Id: "k", Label: "K"},
			{Id: "cl", Label: "Cl"},
		},
		SolutionIds: []string{"na", "cl", "k"},
	}
}

func TestOrderCorrectSequence(t *testing.T) {
	mc := ui.NewManualClock()
	h := mountKind(t, newTestEnv(mc), orderConfig(), spec.Options{})

	h.stage.Click("na")
	h.stage.Click("cl")
	h.stage.Click("k")
	h.submit(t)

	if len(h.results) != 1 || !h.results[0].Ok {
		t.Fatalf("unexpected results: %+v", h.results)
	}
}

func TestOrderWrongSequence(t *testing.T) {
	mc := ui.NewManualClock()
	h := mountKind(t, newTestEnv(mc), orderConfig(), spec.Options{})

	h.stage.Click("k")
	h.stage.Click("na")
	h.stage.Click("cl")
	h.submit(t)

	if len(h.results) != 1 || h.results[0].Ok || h.results[0].Reason != puzzle.ReasonWrong {
		t.Fatalf("unexpected results: %+v", h.results)
	}
}

func TestOrderToggleBackPreservesRest(t *testing.T) {
	mc := ui.NewManualClock()
	h := mountKind(t, newTestEnv(mc), orderConfig(), spec.Options{})

	h.stage.Click("na")
	h.stage.Click("k")
	h.stage.Click("cl")
	// 移除中段：其餘已排 token 的相對順序必須保留
	h.stage.Click("k")

	k := h.p.(*orderKind)
	if len(k.placed) != 2 || k.placed[0] != "na" || k.placed[1] != "cl" {
		t.Fatalf("unexpected placed order: %v", k.placed)
	}

	h.stage.Click("k")
	h.submit(t)
	if len(h.results) != 1 || !h.results[0].Ok {
		t.Fatalf("unexpected results: %+v", h.results)
	}
}

func TestOrderIncompleteBlockingHolds(t *testing.T) {
	mc := ui.NewManualClock()
	h := mountKind(t, newTestEnv(mc), orderConfig(), blocking())

	h.stage.Click("na")
	h.submit(t)

	if len(h.results) != 0 {
		t.Fatalf("blocking incomplete must hold: %+v", h.results)
	}
	if !h.stage.Find("cl").Has(ui.FlagHint) || !h.stage.Find("k").Has(ui.FlagHint) {
		t.Fatalf("unplaced required tokens should be hinted on submit")
	}
}

// ---------------------------------------------------------------------------
// choice
// ---------------------------------------------------------------------------

func choiceConfig() *spec.PuzzleSetting {
	return &spec.PuzzleSetting{
		Id:   "ch1",
		Kind: spec.KindChoice,
		Tokens: []spec.Token{
			{Id: "r1", Label: "Metal", Solution: "fe", Choices: []spec.ChoiceOption{
				{Value: "fe", Label: "Iron"},
				{Value: "au", Label: "Gold"},
			}},
			{Id: "r2", Label: "Gas", Solution: "o2", Choices: []spec.ChoiceOption{
				{Value: "o2", Label: "Oxygen"},
				{Value: "h2", Label: "Hydrogen"},
			}},
			{Id: "r3", Label: "Answer", Solution: "42", Editable: true},
		},
	}
}

func TestChoiceDropdownExclusivity(t *testing.T) {
	mc := ui.NewManualClock()
	h := mountKind(t, newTestEnv(mc), choiceConfig(), spec.Options{})

	h.stage.Click("select:r1")
	if !h.stage.Find("select:r1").Has(ui.FlagOpen) {
		t.Fatalf("dropdown r1 should open")
	}

	h.stage.Click("select:r2")
	if h.stage.Find("select:r1").Has(ui.FlagOpen) {
		t.Fatalf("opening r2 must close r1")
	}
	if !h.stage.Find("select:r2").Has(ui.FlagOpen) {
		t.Fatalf("dropdown r2 should open")
	}
}

func TestChoiceEvaluation(t *testing.T) {
	mc := ui.NewManualClock()
	h := mountKind(t, newTestEnv(mc), choiceConfig(), spec.Options{})

	h.stage.Click("select:r1")
	if !h.stage.Click("option:r1:fe") {
		t.Fatalf("open dropdown option should be clickable")
	}
	h.stage.Click("select:r2")
	h.stage.Click("option:r2:o2")
	h.stage.Input("input:r3", "42")
	h.submit(t)

	if len(h.results) != 1 || !h.results[0].Ok {
		t.Fatalf("unexpected results: %+v", h.results)
	}
}

func TestChoiceClosedOptionNotClickable(t *testing.T) {
	mc := ui.NewManualClock()
	h := mountKind(t, newTestEnv(mc), choiceConfig(), spec.Options{})

	if h.stage.Click("option:r1:fe") {
		t.Fatalf("option of a closed dropdown must not be clickable")
	}
}

// ---------------------------------------------------------------------------
// runner 單發保護
// ---------------------------------------------------------------------------

func TestRunnerSingleShotResolution(t *testing.T) {
	mc := ui.NewManualClock()
	cfg := &spec.PuzzleSetting{Id: "p1", Kind: spec.KindPhrase, Solution: "eureka"}
	h := mountKind(t, newTestEnv(mc), cfg, spec.Options{})

	h.stage.Input("input:p1", "eureka")
	h.submit(t)
	h.submit(t) // 終局後再提交：靜默丟棄

	if len(h.results) != 1 {
		t.Fatalf("resolution must be delivered exactly once: %+v", h.results)
	}
}

func TestRunnerCancelDeliversFailCancel(t *testing.T) {
	mc := ui.NewManualClock()
	cfg := &spec.PuzzleSetting{Id: "p1", Kind: spec.KindPhrase, Solution: "eureka"}
	h := mountKind(t, newTestEnv(mc), cfg, spec.Options{})

	if !h.stage.Click("btn-cancel") {
		t.Fatalf("btn-cancel not clickable")
	}
	if len(h.results) != 1 || h.results[0].Ok || h.results[0].Reason != puzzle.ReasonCancel {
		t.Fatalf("unexpected results: %+v", h.results)
	}

	// 取消後晚到的 timer / 提交不得再送出
	h.stage.Click("btn-ok")
	mc.Advance(time.Second)
	if len(h.results) != 1 {
		t.Fatalf("late resolution must be dropped: %+v", h.results)
	}
}

func TestUnmountCancelsPendingTimers(t *testing.T) {
	mc := ui.NewManualClock()
	cfg := &spec.PuzzleSetting{Id: "p1", Kind: spec.KindPhrase, Solution: "eureka"}
	h := mountKind(t, newTestEnv(mc), cfg, blocking())

	h.stage.Input("input:p1", "nope")
	h.submit(t)
	h.runner.Unmount()

	// 拆除後的 timer 必須是 no-op
	mc.Advance(time.Second)
	if h.stage.Find("panel:p1") != nil {
		t.Fatalf("panel should be removed on unmount")
	}
}
