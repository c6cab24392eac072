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

package ui

import (
	"github.com/zintix-labs/puzzlelab/errs"
)

// Stage 是 host 與 puzzle 之間的唯一接點：
//   - puzzle 把節點樹掛在 Root() 下；
//   - host 透過 Click / Input / PointerDown / PointerMove / PointerUp / Resize 注入事件。
//
// 合約（非並行安全）：
//   - 與原系統相同，事件是單執行緒 callback 排程；host 必須自行序列化事件注入
//     （server 以 per-session mutex 實現）。
//   - Stage 同一時間只能被一個 puzzle 實例持有（Acquire/Release）；
//     前一個實例 Unmount 完成前不得掛載新的。
type Stage struct {
	root      *Node
	area      Rect
	drag      *DragSession
	resizeFns map[int]func(Rect)
	resizeSeq int
	owned     bool
}

func NewStage(area Rect) *Stage {
	return &Stage{
		root:      &Node{Id: "stage", Class: "stage", Rect: area},
		area:      area,
		resizeFns: map[int]func(Rect){},
	}
}

func (s *Stage) Root() *Node { return s.root }
func (s *Stage) Area() Rect  { return s.area }

// Acquire 取得舞台的獨占權；已被持有時回傳 Fatal。
func (s *Stage) Acquire() error {
	if s.owned {
		return errs.NewFatal("stage already owned by a mounted puzzle")
	}
	s.owned = true
	return nil
}

// Release 歸還舞台並清空節點樹與殘留的拖曳 session。冪等。
func (s *Stage) Release() {
	s.owned = false
	s.drag = nil
	s.root.RemoveAll()
}

// Find 以 id 尋找舞台上的節點。
func (s *Stage) Find(id string) *Node {
	return s.root.Find(id)
}

// NodeAt 回傳包含 p 的最上層節點（DFS 順序較晚者視為較上層）。
// class 非空時僅比對該 class。
func (s *Stage) NodeAt(p Point, class string) *Node {
	var hit *Node
	s.root.Walk(func(n *Node) bool {
		if n == s.root {
			return true
		}
		if class != "" && n.Class != class {
			return true
		}
		if n.Rect.Contains(p) {
			hit = n
		}
		return true
	})
	return hit
}

// Click 對指定節點注入一次點擊；節點不存在、停用或沒有 handler 時回傳 false。
func (s *Stage) Click(id string) bool {
	n := s.Find(id)
	if n == nil || n.Has(FlagDisabled) || n.OnClick == nil {
		return false
	}
	n.OnClick()
	return true
}

// Input 設定輸入節點的目前值並通知 OnChange。
func (s *Stage) Input(id, value string) bool {
	n := s.Find(id)
	if n == nil || n.Has(FlagDisabled) {
		return false
	}
	n.Value = value
	if n.OnChange != nil {
		n.OnChange(value)
	}
	return true
}

// PointerDown 把指標按下事件路由到最上層帶 OnPointerDown 的節點。
func (s *Stage) PointerDown(p Point) bool {
	var hit *Node
	s.root.Walk(func(n *Node) bool {
		if n.OnPointerDown != nil && !n.Has(FlagDisabled) && n.Rect.Contains(p) {
			hit = n
		}
		return true
	})
	if hit == nil {
		return false
	}
	hit.OnPointerDown(p)
	return true
}

// StartDrag 註冊拖曳 session；同一時間至多一個。
func (s *Stage) StartDrag(d *DragSession) error {
	if s.drag != nil {
		return errs.NewWarn("drag session already active")
	}
	s.drag = d
	return nil
}

// Dragging 回報是否有作用中的拖曳 session。
func (s *Stage) Dragging() bool { return s.drag != nil }

// PointerMove 驅動作用中的拖曳 session；沒有 session 時為 no-op。
func (s *Stage) PointerMove(p Point) {
	if s.drag == nil {
		return
	}
	s.drag.moveTo(p)
	if s.drag.OnMove != nil {
		s.drag.OnMove(p)
	}
}

// PointerUp 結束拖曳：先解除 session 註冊，再呼叫 OnDrop。
// 順序保證 OnDrop 內再啟動新手勢不會撞到殘留 session。
func (s *Stage) PointerUp(p Point) {
	if s.drag == nil {
		return
	}
	d := s.drag
	s.drag = nil
	if d.OnDrop != nil {
		d.OnDrop(p)
	}
}

// CancelDrag 無條件丟棄作用中的拖曳 session（不觸發 OnDrop）。
func (s *Stage) CancelDrag() { s.drag = nil }

// OnResize 註冊尺寸變更 hook，回傳解除註冊函式。
func (s *Stage) OnResize(fn func(Rect)) func() {
	s.resizeSeq++
	id := s.resizeSeq
	s.resizeFns[id] = fn
	return func() { delete(s.resizeFns, id) }
}

// Resize 更新舞台尺寸並通知所有 hook。
func (s *Stage) Resize(area Rect) {
	s.area = area
	s.root.Rect = area
	for _, fn := range s.resizeFns {
		fn(area)
	}
}
