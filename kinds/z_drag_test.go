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

	"github.com/zintix-labs/puzzlelab/sdk/ui"
	"github.com/zintix-labs/puzzlelab/spec"
)

// ---------------------------------------------------------------------------
// group
// ---------------------------------------------------------------------------

func groupConfig() *spec.PuzzleSetting {
	return &spec.PuzzleSetting{
		Id:   "g1",
		Kind: spec.KindGroup,
		Tokens: []spec.Token{
			{Id: "x", Label: "X"},
			{Id: "y", Label: "Y"},
		},
		Groups: []spec.GroupSetting{
			{Id: "g1", Label: "Left"},
			{Id: "g2", Label: "Right"},
		},
		SolutionGroups: map[string]string{"x": "g1", "y": "g2"},
	}
}

func TestGroupAssignByDrop(t *testing.T) {
	mc := ui.NewManualClock()
	h := mountKind(t, newTestEnv(mc), groupConfig(), spec.Options{})
	k := h.p.(*groupKind)

	h.drag(t, k.nodes["x"].Rect.Center(), k.bins["g1"].Rect.Center())
	if k.assign["x"] != "g1" {
		t.Fatalf("unexpected assignment: %v", k.assign)
	}

	// 拖到空白處清除歸屬並彈回
	h.drag(t, k.nodes["x"].Rect.Center(), ui.Point{X: 15, Y: 80})
	if _, ok := k.assign["x"]; ok {
		t.Fatalf("drop outside bins should clear assignment: %v", k.assign)
	}
	if k.nodes["x"].Rect != k.home["x"] {
		t.Fatalf("token should snap back to its home position")
	}
}

func TestGroupEvaluateAndSnapBack(t *testing.T) {
	mc := ui.NewManualClock()
	h := mountKind(t, newTestEnv(mc), groupConfig(), blocking())
	k := h.p.(*groupKind)

	h.drag(t, k.nodes["x"].Rect.Center(), k.bins["g1"].Rect.Center())
	h.drag(t, k.nodes["y"].Rect.Center(), k.bins["g1"].Rect.Center()) // 錯組
	h.submit(t)

	if len(h.results) != 0 {
		t.Fatalf("blocking fail must hold: %+v", h.results)
	}
	// 錯放的 token 立即彈回並失去歸屬
	if _, ok := k.assign["y"]; ok {
		t.Fatalf("wrong token should lose its assignment: %v", k.assign)
	}
	if k.nodes["y"].Rect != k.home["y"] {
		t.Fatalf("wrong token should snap back home")
	}
	// 對的保留
	if k.assign["x"] != "g1" {
		t.Fatalf("correct token should keep its assignment: %v", k.assign)
	}

	h.drag(t, k.nodes["y"].Rect.Center(), k.bins["g2"].Rect.Center())
	h.submit(t)
	if len(h.results) != 1 || !h.results[0].Ok {
		t.Fatalf("unexpected results: %+v", h.results)
	}
}

func TestGroupManualRects(t *testing.T) {
	mc := ui.NewManualClock()
	cfg := groupConfig()
	cfg.Groups[0].Rect = &spec.RectSetting{X: 50, Y: 400, W: 200, H: 120}
	cfg.Groups[1].Rect = &spec.RectSetting{X: 400, Y: 400, W: 200, H: 120}
	h := mountKind(t, newTestEnv(mc), cfg, spec.Options{})
	k := h.p.(*groupKind)

	if k.bins["g1"].Rect != ui.R(50, 400, 200, 120) {
		t.Fatalf("manual rect not honored: %+v", k.bins["g1"].Rect)
	}
}

// ---------------------------------------------------------------------------
// cloze
// ---------------------------------------------------------------------------

func clozeConfig() *spec.PuzzleSetting {
	return &spec.PuzzleSetting{
		Id:       "z1",
		Kind:     spec.KindCloze,
		Template: "The {gap1} chases the {gap2}.",
		Tokens: []spec.Token{
			{Id: "cat", Label: "cat"},
			{Id: "mouse", Label: "mouse"},
		},
		SolutionGaps: map[string]string{"gap1": "cat", "gap2": "mouse"},
	}
}

func (h *harness) dragToGap(t *testing.T, k *clozeKind, token, gap string) {
	t.Helper()
	h.drag(t, k.tokens[token].Rect.Center(), k.gaps[gap].Rect.Center())
}

func TestClozeSingleOccupancy(t *testing.T) {
	mc := ui.NewManualClock()
	h := mountKind(t, newTestEnv(mc), clozeConfig(), spec.Options{})
	k := h.p.(*clozeKind)

	h.dragToGap(t, k, "cat", "gap1")
	if k.occupant["gap1"] != "cat" {
		t.Fatalf("unexpected occupancy: %v", k.occupant)
	}

	// 同一 token 改放 gap2：gap1 必須清空，不得同時佔兩格
	h.dragToGap(t, k, "cat", "gap2")
	if _, ok := k.occupant["gap1"]; ok {
		t.Fatalf("token must vacate its prior gap: %v", k.occupant)
	}
	if k.occupant["gap2"] != "cat" || k.inGap["cat"] != "gap2" {
		t.Fatalf("unexpected occupancy: %v", k.occupant)
	}
}

func TestClozeEvictionOnOccupiedDrop(t *testing.T) {
	mc := ui.NewManualClock()
	h := mountKind(t, newTestEnv(mc), clozeConfig(), spec.Options{})
	k := h.p.(*clozeKind)

	h.dragToGap(t, k, "cat", "gap2")
	h.dragToGap(t, k, "mouse", "gap2") // 逐出 cat 回題庫

	if k.occupant["gap2"] != "mouse" {
		t.Fatalf("unexpected occupancy: %v", k.occupant)
	}
	if _, ok := k.inGap["cat"]; ok {
		t.Fatalf("evicted token should return to the bank: %v", k.inGap)
	}
	if k.tokens["cat"].Rect != k.bankHome["cat"] {
		t.Fatalf("evicted token should sit at its bank slot")
	}
}

func TestClozeClickFilledGapReturnsToken(t *testing.T) {
	mc := ui.NewManualClock()
	h := mountKind(t, newTestEnv(mc), clozeConfig(), spec.Options{})
	k := h.p.(*clozeKind)

	h.dragToGap(t, k, "cat", "gap1")
	if !h.stage.Click("gap:gap1") {
		t.Fatalf("gap should be clickable")
	}
	if len(k.occupant) != 0 {
		t.Fatalf("clicking a filled gap should empty it: %v", k.occupant)
	}
}

func TestClozeDropOutsideReturnsToBank(t *testing.T) {
	mc := ui.NewManualClock()
	h := mountKind(t, newTestEnv(mc), clozeConfig(), spec.Options{})
	k := h.p.(*clozeKind)

	h.dragToGap(t, k, "cat", "gap1")
	h.drag(t, k.tokens["cat"].Rect.Center(), ui.Point{X: 790, Y: 10})
	if len(k.occupant) != 0 {
		t.Fatalf("drop outside gaps should return to bank: %v", k.occupant)
	}
	if k.tokens["cat"].Rect != k.bankHome["cat"] {
		t.Fatalf("token should sit back at its bank slot")
	}
}

func TestClozeEvaluateAndTimedReturn(t *testing.T) {
	mc := ui.NewManualClock()
	h := mountKind(t, newTestEnv(mc), clozeConfig(), blocking())
	k := h.p.(*clozeKind)

	// 放反
	h.dragToGap(t, k, "cat", "gap2")
	h.dragToGap(t, k, "mouse", "gap1")
	h.submit(t)

	if len(h.results) != 0 {
		t.Fatalf("blocking fail must hold: %+v", h.results)
	}
	if !k.gaps["gap1"].Has(ui.FlagWrong) || !k.gaps["gap2"].Has(ui.FlagWrong) {
		t.Fatalf("wrong gaps should be marked")
	}
	// 800ms 後錯誤擺放才送回題庫
	if len(k.occupant) != 2 {
		t.Fatalf("placements must survive until the return window")
	}
	mc.Advance(800 * time.Millisecond)
	if len(k.occupant) != 0 {
		t.Fatalf("wrong placements should return to bank after 800ms: %v", k.occupant)
	}

	h.dragToGap(t, k, "cat", "gap1")
	h.dragToGap(t, k, "mouse", "gap2")
	h.submit(t)
	if len(h.results) != 1 || !h.results[0].Ok {
		t.Fatalf("unexpected results: %+v", h.results)
	}
}

func TestClozeUnfilledSolutionGapFails(t *testing.T) {
	mc := ui.NewManualClock()
	h := mountKind(t, newTestEnv(mc), clozeConfig(), spec.Options{})
	k := h.p.(*clozeKind)

	h.dragToGap(t, k, "cat", "gap1")
	h.submit(t)

	if len(h.results) != 1 || h.results[0].Ok {
		t.Fatalf("unfilled solution gap must fail the puzzle: %+v", h.results)
	}
	if !k.gaps["gap2"].Has(ui.FlagHint) {
		t.Fatalf("unfilled gap should be hinted")
	}
}
