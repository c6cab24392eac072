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

// Package ui 是 puzzlelab 的 headless 場景層。
//
// 原系統把暫態狀態（選取、配對）存在 DOM 元素屬性上；這裡反過來：
// 真相（truth）只存在各 kind 的 id→placement map，Node 樹只是「目前該長什麼樣」
// 的呈現快照。host（瀏覽器、終端機、測試）讀取 Node 樹來渲染，
// 並以 Stage 的事件入口（Click / Input / PointerDown / PointerMove / PointerUp / Resize）
// 把使用者互動注入回來。
package ui

// Flag 是 Node 上的呈現旗標（bitmask）。
type Flag uint16

const (
	// FlagSelected 表示元素處於已選取狀態（尚未確認配對時不得帶顏色）。
	FlagSelected Flag = 1 << iota
	// FlagCorrect / FlagWrong 是評分回饋；紅/藍色域保留給它們。
	FlagCorrect
	FlagWrong
	// FlagInvalid 是文字謎題的暫態錯誤閃爍。
	FlagInvalid
	// FlagHint 標記「應選/應放而未動」的提示。
	FlagHint
	FlagDisabled
	// FlagMasked 表示輸入框以遮罩呈現（僅呈現層，值本身不加密）。
	FlagMasked
	// FlagOpen 表示下拉選單展開中。
	FlagOpen
)

// Style 是可合併的呈現樣式。零值欄位在 Merge 時視為「未指定」。
type Style struct {
	Color      string `json:"color,omitempty"`
	Background string `json:"background,omitempty"`
	Border     string `json:"border,omitempty"`
	FontSize   int    `json:"font_size,omitempty"`
}

// Merge 回傳 s 疊上 o 的結果；o 的非零欄位獲勝（per-token override 勝過 theme）。
func (s Style) Merge(o Style) Style {
	out := s
	if o.Color != "" {
		out.Color = o.Color
	}
	if o.Background != "" {
		out.Background = o.Background
	}
	if o.Border != "" {
		out.Border = o.Border
	}
	if o.FontSize != 0 {
		out.FontSize = o.FontSize
	}
	return out
}

// Node 是場景樹的一個元素。
//
// 事件 handler（OnClick 等）由擁有它的 puzzle kind 設定；
// host 永遠透過 Stage 的事件入口觸發，不直接呼叫 handler。
type Node struct {
	Id      string   `json:"id,omitempty"`
	Class   string   `json:"class"`
	Label   string   `json:"label,omitempty"`
	Image   string   `json:"image,omitempty"`
	Rect    Rect     `json:"rect"`
	Style   Style    `json:"style,omitzero"`
	Value   string   `json:"value,omitempty"`
	Options []string `json:"options,omitempty"`
	Flags   Flag     `json:"flags,omitempty"`

	Children []*Node `json:"children,omitempty"`

	OnClick       func()             `json:"-"`
	OnChange      func(value string) `json:"-"`
	OnPointerDown func(p Point)      `json:"-"`

	parent *Node
}

func NewNode(id, class string) *Node {
	return &Node{Id: id, Class: class}
}

func (n *Node) Set(f Flag)      { n.Flags |= f }
func (n *Node) Unset(f Flag)    { n.Flags &^= f }
func (n *Node) Has(f Flag) bool { return n.Flags&f != 0 }

// ClearMarks 清除評分相關旗標（correct/wrong/hint/invalid），不動 selection。
func (n *Node) ClearMarks() {
	n.Flags &^= FlagCorrect | FlagWrong | FlagHint | FlagInvalid
}

func (n *Node) Parent() *Node { return n.parent }

// Append 將 child 掛到 n 下（若 child 已有 parent 會先脫離）。
func (n *Node) Append(child *Node) *Node {
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.Children = append(n.Children, child)
	return child
}

// Remove 將 child 自 n 下移除；找不到時為 no-op。
func (n *Node) Remove(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// RemoveAll 清空所有子節點。
func (n *Node) RemoveAll() {
	for _, c := range n.Children {
		c.parent = nil
	}
	n.Children = nil
}

// Walk 以 DFS 走訪子樹（含 n 本身）；fn 回傳 false 時中止。
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Find 以 id 尋找子樹內的節點。
func (n *Node) Find(id string) *Node {
	var hit *Node
	n.Walk(func(c *Node) bool {
		if c.Id == id {
			hit = c
			return false
		}
		return true
	})
	return hit
}
