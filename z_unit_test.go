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
	"reflect"
	"testing"
	"testing/fstest"

	"github.com/zintix-labs/puzzlelab/demo/demo_packs"
	"github.com/zintix-labs/puzzlelab/kinds"
	"github.com/zintix-labs/puzzlelab/sdk/core"
	"github.com/zintix-labs/puzzlelab/sdk/puzzle"
	"github.com/zintix-labs/puzzlelab/sdk/ui"
	"github.com/zintix-labs/puzzlelab/spec"
)

func newDemoLab(t *testing.T) *Puzzlelab {
	t.Helper()
	lab, err := NewAuto(
		core.Default(),
		Configs(demo_packs.FS),
		Kinds(kinds.Kinds()),
	)
	if err != nil {
		t.Fatalf("new auto: %v", err)
	}
	return lab
}

// ---------------------------------------------------------------------------
// 組裝階段
// ---------------------------------------------------------------------------

func TestNewRequiresCoreInputs(t *testing.T) {
	if _, err := New(nil, Configs(demo_packs.FS), Kinds(kinds.Kinds())); err == nil {
		t.Fatalf("nil prng factory should fail")
	}
	if _, err := New(core.Default(), nil, Kinds(kinds.Kinds())); err == nil {
		t.Fatalf("missing config FS should fail")
	}
	if _, err := New(core.Default(), Configs(demo_packs.FS), nil); err == nil {
		t.Fatalf("missing kind registries should fail")
	}
}

func TestNewAutoLoadsDemoPacks(t *testing.T) {
	lab := newDemoLab(t)

	if got := len(lab.IDs()); got != 2 {
		t.Fatalf("pack count = %d, want 2", got)
	}
	if _, ok := lab.EntryByName("study"); !ok {
		t.Fatalf("study pack not registered")
	}

	sum, err := lab.Summary()
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	byName := map[string]Summary{}
	for _, s := range sum {
		byName[s.Name] = s
	}
	if s := byName["study"]; s.Puzzles != 8 || len(s.Kinds) != 8 {
		t.Fatalf("study summary = %+v, want 8 puzzles over 8 kinds", s)
	}
	if s := byName["trial"]; s.Puzzles != 3 {
		t.Fatalf("trial summary = %+v, want 3 puzzles", s)
	}
}

func TestRegisterAllRejectsUnknownKind(t *testing.T) {
	cfg := fstest.MapFS{
		"lost.yaml": &fstest.MapFile{Data: []byte(
			"pack_name: lost\npack_id: 9\npuzzles:\n  - id: p1\n    kind: phrase\n    solution: x\n",
		)},
	}
	// 空 registry：所有 kind 都查無 builder。
	_, err := NewAuto(core.Default(), Configs(cfg), Kinds(puzzle.NewRegistry()))
	if err == nil {
		t.Fatalf("unregistered kind should fail registration")
	}
}

func TestRegisterAllRejectsDuplicatePackName(t *testing.T) {
	cfg := fstest.MapFS{
		"a.yaml": &fstest.MapFile{Data: []byte(
			"pack_name: twin\npack_id: 1\npuzzles:\n  - id: p1\n    kind: phrase\n    solution: x\n",
		)},
		"b.yaml": &fstest.MapFile{Data: []byte(
			"pack_name: twin\npack_id: 2\npuzzles:\n  - id: p1\n    kind: phrase\n    solution: x\n",
		)},
	}
	if _, err := NewAuto(core.Default(), Configs(cfg), Kinds(kinds.Kinds())); err == nil {
		t.Fatalf("duplicate pack name should fail registration")
	}
}

func TestRegisterAllRequiresConfigs(t *testing.T) {
	if _, err := NewAuto(core.Default(), Configs(fstest.MapFS{}), Kinds(kinds.Kinds())); err == nil {
		t.Fatalf("empty config FS should fail registration")
	}
}

// ---------------------------------------------------------------------------
// 單發 Runner
// ---------------------------------------------------------------------------

func TestNewRunnerSourceExclusive(t *testing.T) {
	lab := newDemoLab(t)

	inline := &spec.PuzzleSetting{Id: "x", Kind: spec.KindPhrase, Solution: "x"}
	if _, err := lab.NewRunner(RunnerParams{Pack: "study", Ref: "door_riddle", Config: inline}); err == nil {
		t.Fatalf("ref and config together should fail")
	}
	if _, err := lab.NewRunner(RunnerParams{Pack: "study"}); err == nil {
		t.Fatalf("neither ref nor config should fail")
	}
	if _, err := lab.NewRunner(RunnerParams{Ref: "door_riddle"}); err == nil {
		t.Fatalf("ref without pack should fail")
	}
}

func TestNewRunnerRequiresFrozenCatalog(t *testing.T) {
	lab, err := New(core.Default(), Configs(demo_packs.FS), Kinds(kinds.Kinds()))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := lab.NewRunner(RunnerParams{Pack: "study", Ref: "door_riddle"}); err == nil {
		t.Fatalf("runner before freeze should fail")
	}
	if _, err := lab.Summary(); err == nil {
		t.Fatalf("summary before freeze should fail")
	}
}

func TestOpenResolvesPhrase(t *testing.T) {
	lab := newDemoLab(t)
	stage := ui.NewStage(ui.R(0, 0, 800, 600))

	var results []puzzle.Result
	r, err := lab.Open(stage, RunnerParams{
		Pack: "study", Ref: "door_riddle", Seed: 7,
		OnResolve: func(res puzzle.Result) { results = append(results, res) },
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Unmount()

	if stage.Find("panel:door_riddle") == nil {
		t.Fatalf("panel not mounted")
	}
	// 正規化會吃掉大小寫與前後空白
	if !stage.Input("input:door_riddle", "  Mellon ") {
		t.Fatalf("input not found")
	}
	stage.Click("btn-ok")

	if len(results) != 1 || !results[0].Ok {
		t.Fatalf("results = %+v, want one pass", results)
	}
	if !r.Resolved() {
		t.Fatalf("runner should be resolved")
	}
}

func TestOpenDeliversTerminalFailOnce(t *testing.T) {
	lab := newDemoLab(t)
	stage := ui.NewStage(ui.R(0, 0, 800, 600))

	var results []puzzle.Result
	r, err := lab.Open(stage, RunnerParams{
		Pack: "study", Ref: "vault_code", Seed: 7,
		OnResolve: func(res puzzle.Result) { results = append(results, res) },
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Unmount()

	stage.Input("input:vault_code", "0000")
	stage.Click("btn-ok")
	stage.Click("btn-ok") // 終局後的點擊不得再送結果

	if len(results) != 1 {
		t.Fatalf("results = %d, want exactly 1", len(results))
	}
	if results[0].Ok || results[0].Reason != puzzle.ReasonWrong {
		t.Fatalf("result = %+v, want wrong-answer fail", results[0])
	}
}

// ---------------------------------------------------------------------------
// 序列
// ---------------------------------------------------------------------------

func TestOpenSequenceAllPassed(t *testing.T) {
	lab := newDemoLab(t)
	stage := ui.NewStage(ui.R(0, 0, 800, 600))

	ok, rep, err := lab.OpenSequence(context.Background(), stage, SequenceParams{
		Pack: "study",
		Refs: []string{"door_riddle", "vault_code"},
		Seed: 11,
		OnMounted: func(st *ui.Stage) {
			st.Input("input:door_riddle", "mellon")
			st.Click("btn-ok")
			st.Input("input:vault_code", "4815")
			st.Click("btn-ok")
		},
	})
	if err != nil {
		t.Fatalf("open sequence: %v", err)
	}
	if !ok {
		t.Fatalf("sequence should pass")
	}
	if rep == nil || rep.Total != 2 || !rep.AllPassed() {
		t.Fatalf("report = %+v, want 2/2 passed", rep)
	}
	if rep.Steps[0].Id != "door_riddle" || rep.Steps[1].Id != "vault_code" {
		t.Fatalf("step order = %+v", rep.Steps)
	}
}

// 阻塞式進入點的合約：沒給 Summary 就不掛總結畫面，
// 最後一步答完立即回傳，呼叫端不需要（也沒辦法）按 btn-done。
func TestOpenSequenceResolvesWithoutSummaryClick(t *testing.T) {
	lab := newDemoLab(t)
	stage := ui.NewStage(ui.R(0, 0, 800, 600))

	var sawDone bool
	ok, _, err := lab.OpenSequence(context.Background(), stage, SequenceParams{
		Pack: "study",
		Refs: []string{"vault_code"},
		Seed: 3,
		OnMounted: func(st *ui.Stage) {
			st.Input("input:vault_code", "4815")
			st.Click("btn-ok")
			sawDone = st.Find("btn-done") != nil
		},
	})
	if err != nil {
		t.Fatalf("open sequence: %v", err)
	}
	if !ok {
		t.Fatalf("sequence should pass")
	}
	if sawDone {
		t.Fatalf("summary screen should be skipped by default")
	}
}

// 給了 Summary 的序列照常顯示總結畫面，等 btn-done 才送終局結果。
func TestSequenceSummaryScreenWaitsForDone(t *testing.T) {
	lab := newDemoLab(t)
	stage := ui.NewStage(ui.R(0, 0, 800, 600))

	var results []puzzle.Result
	r, err := lab.NewSequenceRunner(SequenceParams{
		Pack:    "study",
		Refs:    []string{"door_riddle"},
		Summary: &spec.SummarySetting{Title: "Debrief"},
		Seed:    5,
	}, func(res puzzle.Result) { results = append(results, res) })
	if err != nil {
		t.Fatalf("new sequence runner: %v", err)
	}
	if err := r.MountInto(stage, stage.Area()); err != nil {
		t.Fatalf("mount: %v", err)
	}
	defer r.Unmount()

	stage.Input("input:door_riddle", "friend")
	stage.Click("btn-ok")

	if len(results) != 0 {
		t.Fatalf("result should wait for the summary screen, got %+v", results)
	}
	if stage.Find("btn-done") == nil {
		t.Fatalf("summary screen not mounted")
	}
	stage.Click("btn-done")

	if len(results) != 1 || !results[0].Ok {
		t.Fatalf("results = %+v, want one pass after done", results)
	}
}

func TestOpenSequenceRefsStepsExclusive(t *testing.T) {
	lab := newDemoLab(t)
	stage := ui.NewStage(ui.R(0, 0, 800, 600))

	_, _, err := lab.OpenSequence(context.Background(), stage, SequenceParams{Pack: "study"})
	if err == nil {
		t.Fatalf("neither refs nor steps should fail")
	}
}

func TestOpenSequenceAborted(t *testing.T) {
	lab := newDemoLab(t)
	stage := ui.NewStage(ui.R(0, 0, 800, 600))

	ctx, cancel := context.WithCancel(context.Background())
	ok, _, err := lab.OpenSequence(ctx, stage, SequenceParams{
		Pack:      "study",
		Refs:      []string{"door_riddle"},
		Seed:      11,
		OnMounted: func(*ui.Stage) { cancel() }, // 不解題，直接中止
	})
	if err == nil || ok {
		t.Fatalf("cancelled sequence should report abort, got ok=%v err=%v", ok, err)
	}
}

// ---------------------------------------------------------------------------
// 模擬器
// ---------------------------------------------------------------------------

func TestSimulatorDeterministic(t *testing.T) {
	lab := newDemoLab(t)

	run := func() []SimReport {
		s, err := lab.NewSimulatorWithSeed("study", 42)
		if err != nil {
			t.Fatalf("new simulator: %v", err)
		}
		reports, _, err := s.Run(30, 6, false)
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		return reports
	}

	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same seed should reproduce reports\n a=%+v\n b=%+v", a, b)
	}
	if len(a) != 8 {
		t.Fatalf("report count = %d, want one per puzzle", len(a))
	}
}

func TestSimulatorValidatesInput(t *testing.T) {
	lab := newDemoLab(t)
	if _, err := lab.NewSimulator("nope"); err == nil {
		t.Fatalf("unknown pack should fail")
	}
	s, err := lab.NewSimulator("trial")
	if err != nil {
		t.Fatalf("new simulator: %v", err)
	}
	if _, _, err := s.Run(0, 5, false); err == nil {
		t.Fatalf("zero plays should fail")
	}
	if _, _, err := s.Run(10, 0, false); err == nil {
		t.Fatalf("zero attempts should fail")
	}
}
