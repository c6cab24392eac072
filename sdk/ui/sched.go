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
	"sort"
	"sync"
	"time"
)

// Task 是一個可取消的延遲工作。
type Task interface {
	// Stop 取消尚未觸發的工作；已觸發或已取消時為 no-op。
	Stop()
}

// Clock 抽象化時間來源。
//
// 生產環境使用 RealClock；測試使用 ManualClock，讓 600–800ms 的
// 「答錯延遲復原」視窗與 debounce 行為完全決定性。
type Clock interface {
	After(d time.Duration, fn func()) Task
}

// ---------------------------------------------------------------------------
// RealClock
// ---------------------------------------------------------------------------

type RealClock struct{}

type realTask struct{ t *time.Timer }

func (rt *realTask) Stop() { rt.t.Stop() }

func (RealClock) After(d time.Duration, fn func()) Task {
	return &realTask{t: time.AfterFunc(d, fn)}
}

// ---------------------------------------------------------------------------
// ManualClock
// ---------------------------------------------------------------------------

// ManualClock 是測試用時鐘：After 只排隊，Advance 依到期順序同步觸發。
type ManualClock struct {
	mu      sync.Mutex
	now     time.Duration
	pending []*manualTask
	seq     int
}

type manualTask struct {
	clock   *ManualClock
	due     time.Duration
	seq     int
	fn      func()
	stopped bool
}

func (mt *manualTask) Stop() {
	mt.clock.mu.Lock()
	defer mt.clock.mu.Unlock()
	mt.stopped = true
}

func NewManualClock() *ManualClock {
	return &ManualClock{}
}

func (mc *ManualClock) After(d time.Duration, fn func()) Task {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.seq++
	t := &manualTask{clock: mc, due: mc.now + d, seq: mc.seq, fn: fn}
	mc.pending = append(mc.pending, t)
	return t
}

// Advance 推進時間並同步觸發所有到期工作（依到期時間、再依排入順序）。
func (mc *ManualClock) Advance(d time.Duration) {
	mc.mu.Lock()
	mc.now += d
	due := make([]*manualTask, 0, len(mc.pending))
	rest := mc.pending[:0]
	for _, t := range mc.pending {
		if !t.stopped && t.due <= mc.now {
			due = append(due, t)
		} else if !t.stopped {
			rest = append(rest, t)
		}
	}
	mc.pending = rest
	sort.SliceStable(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].seq < due[j].seq
	})
	mc.mu.Unlock()

	// 觸發在鎖外，讓 fn 可以再排程
	for _, t := range due {
		t.fn()
	}
}

// Pending 回報尚未觸發的工作數（測試觀測用）。
func (mc *ManualClock) Pending() int {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	n := 0
	for _, t := range mc.pending {
		if !t.stopped {
			n++
		}
	}
	return n
}

// ---------------------------------------------------------------------------
// Tasks
// ---------------------------------------------------------------------------

// Tasks 是綁定單一 puzzle 實例生命週期的延遲工作群。
//
// 合約：
//   - 實例 Unmount 前必須 Close()；Close 後所有已排程工作成為 no-op，
//     晚到的 timer 不得再改動已拆除的場景。
//   - Close 冪等。
type Tasks struct {
	mu     sync.Mutex
	clock  Clock
	live   map[*groupTask]struct{}
	closed bool
}

type groupTask struct {
	inner Task
}

func NewTasks(c Clock) *Tasks {
	if c == nil {
		c = RealClock{}
	}
	return &Tasks{clock: c, live: map[*groupTask]struct{}{}}
}

// After 排程一個綁定生命週期的延遲工作。
func (g *Tasks) After(d time.Duration, fn func()) Task {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return noopTask{}
	}
	gt := &groupTask{}
	g.live[gt] = struct{}{}
	g.mu.Unlock()

	gt.inner = g.clock.After(d, func() {
		g.mu.Lock()
		if g.closed {
			g.mu.Unlock()
			return
		}
		delete(g.live, gt)
		g.mu.Unlock()
		fn()
	})
	return gt
}

func (gt *groupTask) Stop() {
	if gt.inner != nil {
		gt.inner.Stop()
	}
}

// Close 取消所有待觸發工作並拒絕後續排程。冪等。
func (g *Tasks) Close() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	pending := make([]*groupTask, 0, len(g.live))
	for gt := range g.live {
		pending = append(pending, gt)
	}
	g.live = map[*groupTask]struct{}{}
	g.mu.Unlock()

	for _, gt := range pending {
		gt.Stop()
	}
}

// Pending 回報尚未觸發的工作數。
func (g *Tasks) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.live)
}

type noopTask struct{}

func (noopTask) Stop() {}
