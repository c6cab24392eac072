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

package puzzle

import (
	"sync/atomic"

	"github.com/zintix-labs/puzzlelab/errs"
	"github.com/zintix-labs/puzzlelab/sdk/ui"
)

// Runner 包裹一個 puzzle 實例，負責：
//   - 掛載/卸載與舞台獨占權；
//   - 單發 resolution：終局結果一經送達，後續所有 resolution 嘗試
//     （包含使用者取消後才觸發的慢 timer）一律靜默丟棄。
//
// 單發保護就是本系統的取消/排序原語：沒有額外的
// timeout 合約，block-until-solved 的 puzzle 單純等待正確輸入或外部取消。
type Runner struct {
	p         Puzzle
	stage     *ui.Stage
	onResolve func(Result)

	// Nested 表示掛載到已被外層持有的舞台（list 的子步驟），
	// 此時不另行 Acquire/Release。
	Nested bool

	resolved atomic.Bool
	last     Result
	mounted  bool
}

// hooked 由 Base 實作；Runner 在掛載前注入 submit/cancel/resolve。
type hooked interface {
	SetHooks(submit, cancel func(), resolve func(Result))
}

func NewRunner(p Puzzle, onResolve func(Result)) *Runner {
	return &Runner{p: p, onResolve: onResolve}
}

// MountInto 掛載 puzzle 到舞台的指定區域。
// 前一個持有者尚未 Release 時回傳 Fatal（舞台獨占合約）。
func (r *Runner) MountInto(stage *ui.Stage, area ui.Rect) error {
	if r.mounted {
		return errs.NewFatal("runner already mounted")
	}
	if !r.Nested {
		if err := stage.Acquire(); err != nil {
			return err
		}
	}
	if h, ok := r.p.(hooked); ok {
		h.SetHooks(
			func() { r.Submit() },
			func() { r.Cancel() },
			func(res Result) { r.deliver(res) },
		)
	}
	if err := r.p.Mount(stage, area); err != nil {
		if !r.Nested {
			stage.Release()
		}
		return err
	}
	r.stage = stage
	r.mounted = true
	r.p.Render()
	return nil
}

// Submit 觸發一次評估。
//   - Hold：不送出 resolution，puzzle 留在場上。
//   - 終局：透過單發保護送達 onResolve。
//   - 已終局後的再次提交：靜默丟棄，回傳先前結果。
func (r *Runner) Submit() Result {
	if r.resolved.Load() {
		return r.last
	}
	res := r.p.OnOk()
	if res.Hold {
		return res
	}
	r.deliver(res)
	return res
}

// Cancel 通知 puzzle 並送出 reason="cancel" 的終局失敗。
func (r *Runner) Cancel() {
	r.p.OnCancel()
	r.deliver(Fail(ReasonCancel, nil))
}

// deliver 單發送出終局結果；第二次以後的嘗試直接丟棄。
func (r *Runner) deliver(res Result) {
	if !r.resolved.CompareAndSwap(false, true) {
		return
	}
	r.last = res
	if r.onResolve != nil {
		r.onResolve(res)
	}
}

// Resolved 回報是否已送出終局結果。
func (r *Runner) Resolved() bool { return r.resolved.Load() }

// Last 回傳已送達的終局結果。
func (r *Runner) Last() (Result, bool) {
	if !r.resolved.Load() {
		return Result{}, false
	}
	return r.last, true
}

// Unmount 卸載 puzzle 並歸還舞台。冪等。
func (r *Runner) Unmount() {
	if !r.mounted {
		return
	}
	r.mounted = false
	r.p.Unmount()
	if r.stage != nil && !r.Nested {
		r.stage.Release()
	}
	r.stage = nil
}
