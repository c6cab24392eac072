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
	"fmt"
	"regexp"
	"strings"

	"github.com/zintix-labs/puzzlelab/errs"
)

// PuzzleSetting 是一個 puzzle 的宣告式設定（來自已解析的 JSON/YAML）。
// 在單一 puzzle 實例的生命週期內視為唯讀。
//
// kind 專屬欄位：
//   - phrase/code：Solution / Solutions
//   - quiz：SolutionIds（或 token 的 correct 旗標）
//   - order：SolutionIds（缺省時以 token 宣告順序為解）
//   - match：SolutionPairs（無序 pair 集）、Mode（columns/dragdrop）
//   - group：Groups + SolutionGroups（token→group）
//   - choice：SolutionValues（row→expected value，或 token.Solution）
//   - cloze：Template + SolutionGaps（gap→token）
//   - list：Steps + Summary
type PuzzleSetting struct {
	Id   string `yaml:"id"   json:"id"`
	Kind Kind   `yaml:"kind" json:"kind"`

	Title      string `yaml:"title,omitempty"      json:"title,omitempty"`
	Prompt     string `yaml:"prompt,omitempty"     json:"prompt,omitempty"`
	Background string `yaml:"background,omitempty" json:"background,omitempty"`

	Tokens []Token `yaml:"tokens,omitempty" json:"tokens,omitempty"`

	Solution  string   `yaml:"solution,omitempty"  json:"solution,omitempty"`
	Solutions []string `yaml:"solutions,omitempty" json:"solutions,omitempty"`

	SolutionIds []string `yaml:"solution_ids,omitempty" json:"solution_ids,omitempty"`

	// Pairs 是 SolutionPairs 的別名（init 時折疊）。
	Pairs         [][2]string `yaml:"pairs,omitempty"          json:"pairs,omitempty"`
	SolutionPairs [][2]string `yaml:"solution_pairs,omitempty" json:"solution_pairs,omitempty"`

	Groups         []GroupSetting    `yaml:"groups,omitempty"          json:"groups,omitempty"`
	SolutionGroups map[string]string `yaml:"solution_groups,omitempty" json:"solution_groups,omitempty"`

	SolutionValues map[string]string `yaml:"solution_values,omitempty" json:"solution_values,omitempty"`

	Template     string            `yaml:"template,omitempty"      json:"template,omitempty"`
	SolutionGaps map[string]string `yaml:"solution_gaps,omitempty" json:"solution_gaps,omitempty"`

	Mode string `yaml:"mode,omitempty" json:"mode,omitempty"`

	// Items 是 Steps 的別名（init 時折疊）。
	Items   []StepSetting   `yaml:"items,omitempty"   json:"items,omitempty"`
	Steps   []StepSetting   `yaml:"steps,omitempty"   json:"steps,omitempty"`
	Summary *SummarySetting `yaml:"summary,omitempty" json:"summary,omitempty"`

	Layout  *LayoutSetting  `yaml:"layout,omitempty"  json:"layout,omitempty"`
	Theme   *StyleSetting   `yaml:"theme,omitempty"   json:"theme,omitempty"`
	Buttons *ButtonsSetting `yaml:"buttons,omitempty" json:"buttons,omitempty"`

	// Options 是設定檔層的預設；caller 的 instance options 會覆寫它。
	Options Options `yaml:"options,omitempty" json:"options,omitempty"`
}

// StepSetting 是 list 的一個步驟：by-ref 或 inline 設定，擇一。
type StepSetting struct {
	Ref     string         `yaml:"ref,omitempty"     json:"ref,omitempty"`
	Config  *PuzzleSetting `yaml:"config,omitempty"  json:"config,omitempty"`
	Options Options        `yaml:"options,omitempty" json:"options,omitempty"`
}

// Init 正規化設定（折疊別名欄位）並執行 kind 專屬檢查。
// 設定錯誤一律 Fatal：在 puzzle 開啟當下立即浮現。
func (ps *PuzzleSetting) Init() error {
	ps.Id = strings.TrimSpace(ps.Id)
	if ps.Id == "" {
		return errs.NewFatal("puzzle id required")
	}
	if ps.Kind == "" {
		return errs.Fatalf("puzzle %s: kind required", ps.Id)
	}

	// 別名折疊
	if ps.Solution != "" {
		ps.Solutions = append(ps.Solutions, ps.Solution)
		ps.Solution = ""
	}
	if len(ps.Pairs) > 0 {
		ps.SolutionPairs = append(ps.SolutionPairs, ps.Pairs...)
		ps.Pairs = nil
	}
	if len(ps.Items) > 0 {
		ps.Steps = append(ps.Steps, ps.Items...)
		ps.Items = nil
	}

	if err := ps.validTokens(); err != nil {
		return err
	}
	return ps.valid()
}

// validTokens 檢查 token id 唯一性（所有 solution map 的基礎 invariant）。
func (ps *PuzzleSetting) validTokens() error {
	seen := map[string]struct{}{}
	for i := range ps.Tokens {
		t := &ps.Tokens[i]
		t.Id = strings.TrimSpace(t.Id)
		if t.Id == "" {
			return errs.Fatalf("puzzle %s: token #%d missing id", ps.Id, i)
		}
		if _, ok := seen[t.Id]; ok {
			return errs.Fatalf("puzzle %s: duplicate token id %q", ps.Id, t.Id)
		}
		seen[t.Id] = struct{}{}
	}
	return nil
}

var gapMarker = regexp.MustCompile(`\{(gap\w+)\}`)

// GapNames 回傳 template 內出現的 gap 名稱（依出現順序）。
func (ps *PuzzleSetting) GapNames() []string {
	ms := gapMarker.FindAllStringSubmatch(ps.Template, -1)
	names := make([]string, 0, len(ms))
	for _, m := range ms {
		names = append(names, m[1])
	}
	return names
}

// TokenById 尋找 token 宣告；找不到回傳 nil。
func (ps *PuzzleSetting) TokenById(id string) *Token {
	for i := range ps.Tokens {
		if ps.Tokens[i].Id == id {
			return &ps.Tokens[i]
		}
	}
	return nil
}

// valid 執行 kind 專屬的最基本檢查。
func (ps *PuzzleSetting) valid() error {
	switch ps.Kind {
	case KindPhrase, KindCode:
		if len(ps.Solutions) == 0 {
			return errs.Fatalf("puzzle %s: %s kind requires solutions", ps.Id, ps.Kind)
		}

	case KindQuiz:
		if len(ps.Tokens) == 0 {
			return errs.Fatalf("puzzle %s: quiz requires tokens", ps.Id)
		}
		if len(ps.SolutionIds) == 0 {
			any := false
			for _, t := range ps.Tokens {
				if t.Correct {
					any = true
					break
				}
			}
			if !any {
				return errs.Fatalf("puzzle %s: quiz requires solution_ids or correct tokens", ps.Id)
			}
		}

	case KindOrder:
		if len(ps.Tokens) == 0 {
			return errs.Fatalf("puzzle %s: order requires tokens", ps.Id)
		}
		for _, id := range ps.SolutionIds {
			if ps.TokenById(id) == nil {
				return errs.Fatalf("puzzle %s: solution id %q is not a token", ps.Id, id)
			}
		}

	case KindMatch:
		if len(ps.Tokens) == 0 {
			return errs.Fatalf("puzzle %s: match requires tokens", ps.Id)
		}
		if len(ps.SolutionPairs) == 0 {
			return errs.Fatalf("puzzle %s: match requires solution_pairs", ps.Id)
		}
		for _, p := range ps.SolutionPairs {
			if ps.TokenById(p[0]) == nil || ps.TokenById(p[1]) == nil {
				return errs.Fatalf("puzzle %s: pair %v references unknown token", ps.Id, p)
			}
		}
		if ps.Mode == "" {
			ps.Mode = MatchModeColumns
		}
		if ps.Mode != MatchModeColumns && ps.Mode != MatchModeDragDrop {
			return errs.Fatalf("puzzle %s: unknown match mode %q", ps.Id, ps.Mode)
		}

	case KindGroup:
		if len(ps.Tokens) == 0 || len(ps.Groups) == 0 {
			return errs.Fatalf("puzzle %s: group requires tokens and groups", ps.Id)
		}
		if len(ps.SolutionGroups) == 0 {
			return errs.Fatalf("puzzle %s: group requires solution_groups", ps.Id)
		}
		groupIds := map[string]struct{}{}
		for _, g := range ps.Groups {
			groupIds[g.Id] = struct{}{}
		}
		for tok, grp := range ps.SolutionGroups {
			if ps.TokenById(tok) == nil {
				return errs.Fatalf("puzzle %s: solution references unknown token %q", ps.Id, tok)
			}
			if _, ok := groupIds[grp]; !ok {
				return errs.Fatalf("puzzle %s: solution references unknown group %q", ps.Id, grp)
			}
		}

	case KindChoice:
		if len(ps.Tokens) == 0 {
			return errs.Fatalf("puzzle %s: choice requires tokens", ps.Id)
		}
		for _, t := range ps.Tokens {
			if t.Solution == "" {
				if _, ok := ps.SolutionValues[t.Id]; !ok {
					return errs.Fatalf("puzzle %s: row %q has no expected value", ps.Id, t.Id)
				}
			}
		}

	case KindCloze:
		if ps.Template == "" {
			return errs.Fatalf("puzzle %s: cloze requires template", ps.Id)
		}
		if len(ps.Tokens) == 0 || len(ps.SolutionGaps) == 0 {
			return errs.Fatalf("puzzle %s: cloze requires tokens and solution_gaps", ps.Id)
		}
		gaps := map[string]struct{}{}
		for _, g := range ps.GapNames() {
			gaps[g] = struct{}{}
		}
		if len(gaps) == 0 {
			return errs.Fatalf("puzzle %s: template has no {gapN} markers", ps.Id)
		}
		for gap, tok := range ps.SolutionGaps {
			if _, ok := gaps[gap]; !ok {
				return errs.Fatalf("puzzle %s: solution gap %q is not in template", ps.Id, gap)
			}
			if ps.TokenById(tok) == nil {
				return errs.Fatalf("puzzle %s: gap %q expects unknown token %q", ps.Id, gap, tok)
			}
		}

	case KindList:
		if len(ps.Steps) == 0 {
			return errs.Fatalf("puzzle %s: list requires steps", ps.Id)
		}
		for i := range ps.Steps {
			st := &ps.Steps[i]
			hasRef := st.Ref != ""
			hasCfg := st.Config != nil
			if hasRef == hasCfg {
				return errs.Fatalf("puzzle %s: step #%d needs exactly one of ref or config", ps.Id, i)
			}
			if hasCfg {
				if st.Config.Kind == KindList {
					return errs.Fatalf("puzzle %s: step #%d nests a list", ps.Id, i)
				}
				if err := st.Config.Init(); err != nil {
					return errs.Wrap(err, fmt.Sprintf("puzzle %s: step #%d", ps.Id, i))
				}
			}
		}

	default:
		return errs.Fatalf("puzzle %s: unknown kind %q", ps.Id, ps.Kind)
	}
	return nil
}
