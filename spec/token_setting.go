package spec

import (
	"github.com/zintix-labs/puzzlelab/sdk/ui"
)

// Token 是一個原子互動元素的宣告。
//
// Id 是所有 solution map 的穩定識別；同一 puzzle 內不得重複（invariant）。
// Token 每次掛載都重新建立，不跨 puzzle 實例重用。
type Token struct {
	Id    string `yaml:"id"              json:"id"`
	Label string `yaml:"label,omitempty" json:"label,omitempty"`
	Text  string `yaml:"text,omitempty"  json:"text,omitempty"`
	Image string `yaml:"image,omitempty" json:"image,omitempty"`

	// Side 僅 match/columns 使用：left 或 right。
	Side string `yaml:"side,omitempty" json:"side,omitempty"`

	// Correct 僅 quiz 使用：無明示 solution_ids 時的正解旗標。
	Correct bool `yaml:"correct,omitempty" json:"correct,omitempty"`

	// Choices / Editable / Solution 僅 choice 使用：
	// 有 Choices 且未明示 Editable 時呈現下拉選單，否則自由輸入。
	Choices  []ChoiceOption `yaml:"choices,omitempty"  json:"choices,omitempty"`
	Editable bool           `yaml:"editable,omitempty" json:"editable,omitempty"`
	Solution string         `yaml:"solution,omitempty" json:"solution,omitempty"`

	Style *StyleSetting `yaml:"style,omitempty" json:"style,omitempty"`
}

type ChoiceOption struct {
	Value string `yaml:"value"           json:"value"`
	Label string `yaml:"label,omitempty" json:"label,omitempty"`
}

// StyleSetting 是設定檔層的樣式宣告（theme 或 per-token override）。
type StyleSetting struct {
	Color      string `yaml:"color,omitempty"      json:"color,omitempty"`
	Background string `yaml:"background,omitempty" json:"background,omitempty"`
	Border     string `yaml:"border,omitempty"     json:"border,omitempty"`
	FontSize   int    `yaml:"font_size,omitempty"  json:"font_size,omitempty"`
}

// Style 轉為執行期樣式。
func (s *StyleSetting) Style() ui.Style {
	if s == nil {
		return ui.Style{}
	}
	return ui.Style{
		Color:      s.Color,
		Background: s.Background,
		Border:     s.Border,
		FontSize:   s.FontSize,
	}
}

// RectSetting 是手動版面的絕對矩形。
type RectSetting struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	W float64 `yaml:"w" json:"w"`
	H float64 `yaml:"h" json:"h"`
}

func (r *RectSetting) Rect() ui.Rect {
	if r == nil {
		return ui.Rect{}
	}
	return ui.R(r.X, r.Y, r.W, r.H)
}

// LayoutSetting 控制 token/group 的排版。
// Mode 為 "manual" 時使用 Positions 的絕對矩形，否則自動 flex/grid。
type LayoutSetting struct {
	Mode      string                 `yaml:"mode,omitempty"      json:"mode,omitempty"`
	Cols      int                    `yaml:"cols,omitempty"      json:"cols,omitempty"`
	Rows      int                    `yaml:"rows,omitempty"      json:"rows,omitempty"`
	Flow      string                 `yaml:"flow,omitempty"      json:"flow,omitempty"`
	Gap       float64                `yaml:"gap,omitempty"       json:"gap,omitempty"`
	Positions map[string]RectSetting `yaml:"positions,omitempty" json:"positions,omitempty"`
}

// GroupSetting 宣告 group kind 的一個分組區。
type GroupSetting struct {
	Id    string       `yaml:"id"              json:"id"`
	Label string       `yaml:"label,omitempty" json:"label,omitempty"`
	Rect  *RectSetting `yaml:"rect,omitempty"  json:"rect,omitempty"`
}

// ButtonsSetting 客製頁尾按鈕。
type ButtonsSetting struct {
	Ok         string `yaml:"ok,omitempty"          json:"ok,omitempty"`
	Cancel     string `yaml:"cancel,omitempty"      json:"cancel,omitempty"`
	HideCancel bool   `yaml:"hide_cancel,omitempty" json:"hide_cancel,omitempty"`
}

// SummarySetting 控制 list 結束時的總結畫面。
type SummarySetting struct {
	// Show 為 nil 時視為 true；false 時略過總結畫面直接送出終局結果。
	Show    *bool  `yaml:"show,omitempty"    json:"show,omitempty"`
	Title   string `yaml:"title,omitempty"   json:"title,omitempty"`
	Message string `yaml:"message,omitempty" json:"message,omitempty"`
}

func (s *SummarySetting) Visible() bool {
	return s == nil || s.Show == nil || *s.Show
}
