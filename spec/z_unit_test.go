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

package spec

import (
	"testing"

	"github.com/zintix-labs/puzzlelab/errs"
)

const packYAML = `
pack_name: demo
pack_id: 1
puzzles:
  - id: riddle
    kind: phrase
    prompt: "Speak, friend, and enter."
    solution: mellon
  - id: pick
    kind: quiz
    tokens:
      - { id: a, label: "Apple", correct: true }
      - { id: b, label: "Brick" }
    options:
      multi_select: false
  - id: story
    kind: list
    steps:
      - ref: riddle
      - ref: pick
        options:
          block_until_solved: true
`

func TestGetPackSettingByYAML(t *testing.T) {
	pk, err := GetPackSettingByYAML([]byte(packYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pk.PackName != "demo" || pk.PackID != 1 {
		t.Fatalf("unexpected pack: %+v", pk)
	}
	if len(pk.Puzzles) != 3 {
		t.Fatalf("unexpected puzzle count: %d", len(pk.Puzzles))
	}

	ps, err := pk.PuzzleById("riddle")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// solution 別名折疊進 solutions
	if ps.Solution != "" || len(ps.Solutions) != 1 || ps.Solutions[0] != "mellon" {
		t.Fatalf("unexpected solutions: %+v", ps)
	}

	if _, err := pk.PuzzleById("nope"); err == nil {
		t.Fatalf("expected error for unknown puzzle id")
	}
}

func TestGetPackSettingByJSON(t *testing.T) {
	data := []byte(`{
		"pack_name": "p",
		"pack_id": 2,
		"puzzles": [
			{"id": "c1", "kind": "code", "solutions": ["1234"]}
		]
	}`)
	pk, err := GetPackSettingByJSON(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pk.Puzzles[0].Kind != KindCode {
		t.Fatalf("unexpected kind: %v", pk.Puzzles[0].Kind)
	}
}

func TestDuplicateTokenIdIsFatal(t *testing.T) {
	ps := &PuzzleSetting{
		Id:   "q",
		Kind: KindQuiz,
		Tokens: []Token{
			{Id: "x", Correct: true},
			{Id: "x"},
		},
	}
	err := ps.Init()
	if err == nil {
		t.Fatalf("expected error for duplicate token id")
	}
	if !errs.IsFatal(err) {
		t.Fatalf("expected fatal error, got: %v", err)
	}
}

func TestStepRefXorConfig(t *testing.T) {
	ps := &PuzzleSetting{
		Id:    "l",
		Kind:  KindList,
		Steps: []StepSetting{{Ref: "a", Config: &PuzzleSetting{Id: "b", Kind: KindPhrase}}},
	}
	if err := ps.Init(); err == nil {
		t.Fatalf("expected error for step with both ref and config")
	}

	ps = &PuzzleSetting{Id: "l", Kind: KindList, Steps: []StepSetting{{}}}
	if err := ps.Init(); err == nil {
		t.Fatalf("expected error for empty step")
	}
}

func TestListRefMustExistInPack(t *testing.T) {
	data := []byte(`
pack_name: p
pack_id: 3
puzzles:
  - id: l
    kind: list
    steps:
      - ref: ghost
`)
	if _, err := GetPackSettingByYAML(data); err == nil {
		t.Fatalf("expected error for unknown step ref")
	}
}

func TestNestedListRejected(t *testing.T) {
	inner := &PuzzleSetting{Id: "inner", Kind: KindList, Steps: []StepSetting{{Ref: "x"}}}
	ps := &PuzzleSetting{Id: "outer", Kind: KindList, Steps: []StepSetting{{Config: inner}}}
	if err := ps.Init(); err == nil {
		t.Fatalf("expected error for nested list")
	}
}

func TestClozeGapValidation(t *testing.T) {
	ps := &PuzzleSetting{
		Id:       "z",
		Kind:     KindCloze,
		Template: "the {gap1} is {gap2}",
		Tokens:   []Token{{Id: "t1"}, {Id: "t2"}},
		SolutionGaps: map[string]string{
			"gap1": "t1",
			"gap3": "t2",
		},
	}
	if err := ps.Init(); err == nil {
		t.Fatalf("expected error for gap not in template")
	}

	ps.SolutionGaps = map[string]string{"gap1": "t1", "gap2": "t2"}
	if err := ps.Init(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gaps := ps.GapNames()
	if len(gaps) != 2 || gaps[0] != "gap1" || gaps[1] != "gap2" {
		t.Fatalf("unexpected gap names: %v", gaps)
	}
}

func TestMatchModeDefaultsToColumns(t *testing.T) {
	ps := &PuzzleSetting{
		Id:   "m",
		Kind: KindMatch,
		Tokens: []Token{
			{Id: "l1", Side: "left"},
			{Id: "r1", Side: "right"},
		},
		Pairs: [][2]string{{"l1", "r1"}},
	}
	if err := ps.Init(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ps.Mode != MatchModeColumns {
		t.Fatalf("unexpected mode: %q", ps.Mode)
	}
	// pairs 別名折疊
	if len(ps.Pairs) != 0 || len(ps.SolutionPairs) != 1 {
		t.Fatalf("pairs alias not folded: %+v", ps)
	}
}

func TestMatchPairUnknownToken(t *testing.T) {
	ps := &PuzzleSetting{
		Id:     "m",
		Kind:   KindMatch,
		Tokens: []Token{{Id: "l1"}},
		Pairs:  [][2]string{{"l1", "ghost"}},
	}
	if err := ps.Init(); err == nil {
		t.Fatalf("expected error for pair with unknown token")
	}
}

func TestGroupSolutionValidation(t *testing.T) {
	ps := &PuzzleSetting{
		Id:     "g",
		Kind:   KindGroup,
		Tokens: []Token{{Id: "t1"}},
		Groups: []GroupSetting{{Id: "g1"}},
		SolutionGroups: map[string]string{
			"t1": "nope",
		},
	}
	if err := ps.Init(); err == nil {
		t.Fatalf("expected error for unknown group in solution")
	}
}

func TestChoiceRowNeedsExpectedValue(t *testing.T) {
	ps := &PuzzleSetting{
		Id:     "c",
		Kind:   KindChoice,
		Tokens: []Token{{Id: "row1", Choices: []ChoiceOption{{Value: "a"}}}},
	}
	if err := ps.Init(); err == nil {
		t.Fatalf("expected error for row without expected value")
	}

	ps.Tokens[0].Solution = "a"
	if err := ps.Init(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMergeOptionsPrecedence(t *testing.T) {
	base := Options{BlockUntilSolved: Bool(true), MultiSelect: Bool(true)}
	over := Options{BlockUntilSolved: Bool(false)}
	out := MergeOptions(base, over)
	if out.Block() {
		t.Fatalf("over false should win")
	}
	if !out.Multi() {
		t.Fatalf("unset over field should inherit base")
	}
	// Reset 預設 true
	if !(Options{}).Reset() {
		t.Fatalf("reset should default true")
	}
}

func TestSummaryVisibleDefault(t *testing.T) {
	if !(&SummarySetting{}).Visible() {
		t.Fatalf("summary should default visible")
	}
	var nilSummary *SummarySetting
	if !nilSummary.Visible() {
		t.Fatalf("nil summary should be visible")
	}
	off := &SummarySetting{Show: Bool(false)}
	if off.Visible() {
		t.Fatalf("show=false should hide summary")
	}
}
