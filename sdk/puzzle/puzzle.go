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

// Package puzzle 定義所有 puzzle kind 共同遵守的生命週期合約，
// 以及 kind 註冊表與單發 resolution 的 Runner。
//
// 生命週期：construct(builder) → Mount → Render → OnOk/OnCancel → Unmount。
// Mount 每實例至多一次；Unmount 冪等且會取消所有排程中的延遲工作。
package puzzle

import (
	"github.com/zintix-labs/puzzlelab/errs"
	"github.com/zintix-labs/puzzlelab/sdk/ui"
	"github.com/zintix-labs/puzzlelab/spec"
)

// Puzzle 是每個 kind 必須實作的合約。
type Puzzle interface {
	// Mount 建構 UI 到舞台上。每實例至多呼叫一次。
	Mount(stage *ui.Stage, area ui.Rect) error
	// Render 是掛載後的第二段設置（需要者覆寫；預設 no-op）。
	Render()
	// OnOk 觸發一次評估並回傳結果。
	OnOk() Result
	// OnCancel 在使用者取消時被通知（resolution 由 Runner 送出）。
	OnCancel()
	// Unmount 釋放所有節點與排程工作。冪等。
	Unmount()
}

// ============================================================
// ** Base：kind 的共用底座 **
// ============================================================

// Base 是各 kind 內嵌的共用底座：面板、頁尾按鈕、token 工廠、
// 生命週期工作群。真相狀態（placement map 等）由各 kind 自持。
type Base struct {
	Env   *Env
	Cfg   *spec.PuzzleSetting
	Opt   spec.Options
	Stage *ui.Stage
	Panel *ui.Node
	Body  *ui.Node
	Tasks *ui.Tasks

	mounted bool

	submit  func()
	cancel  func()
	resolve func(Result)
}

// Init 綁定環境與設定。builder 建構時呼叫。
func (b *Base) Init(env *Env, cfg *spec.PuzzleSetting, opt spec.Options) {
	env.Normalize()
	b.Env = env
	b.Cfg = cfg
	b.Opt = opt
}

// SetHooks 由 Runner 在掛載前注入：submit/cancel 接到頁尾按鈕，
// resolve 供 kind 自行送出終局結果（list 的 summary 流程）。
func (b *Base) SetHooks(submit, cancel func(), resolve func(Result)) {
	b.submit = submit
	b.cancel = cancel
	b.resolve = resolve
}

// ResolveNow 將終局結果交給 Runner（單發保護在 Runner 端）。
func (b *Base) ResolveNow(r Result) {
	if b.resolve != nil {
		b.resolve(r)
	}
}

// MountPanel 建立標準面板骨架：背景、標題、提示、內容區（Body）、頁尾按鈕。
// 回傳內容區的可用矩形。
func (b *Base) MountPanel(stage *ui.Stage, area ui.Rect, footer bool) (ui.Rect, error) {
	if b.mounted {
		return ui.Rect{}, errs.NewFatal("puzzle already mounted: " + b.Cfg.Id)
	}
	b.mounted = true
	b.Stage = stage
	b.Tasks = ui.NewTasks(b.Env.Clock)

	panel := ui.NewNode("panel:"+b.Cfg.Id, "panel")
	panel.Rect = area
	if b.Cfg.Theme != nil {
		panel.Style = b.Cfg.Theme.Style()
	}
	if b.Cfg.Background != "" {
		bg := ui.NewNode("", "background")
		bg.Image = b.Env.ResolveAsset(b.Cfg.Background)
		bg.Rect = area
		panel.Append(bg)
	}
	stage.Root().Append(panel)
	b.Panel = panel

	body := area.Inset(8)
	const titleH, footerH = 28, 44
	if b.Cfg.Title != "" {
		title := ui.NewNode("", "title")
		title.Label = b.Env.Text(b.Cfg.Title)
		title.Rect = ui.R(body.X, body.Y, body.W, titleH)
		panel.Append(title)
		body.Y += titleH
		body.H -= titleH
	}
	if b.Cfg.Prompt != "" {
		prompt := ui.NewNode("", "prompt")
		prompt.Label = b.Env.Text(b.Cfg.Prompt)
		prompt.Rect = ui.R(body.X, body.Y, body.W, titleH)
		panel.Append(prompt)
		body.Y += titleH
		body.H -= titleH
	}

	if footer {
		b.mountFooter(panel, ui.R(body.X, body.Y+body.H-footerH, body.W, footerH))
		body.H -= footerH
	}

	bodyNode := ui.NewNode("body:"+b.Cfg.Id, "body")
	bodyNode.Rect = body
	panel.Append(bodyNode)
	b.Body = bodyNode
	return body, nil
}

func (b *Base) mountFooter(panel *ui.Node, r ui.Rect) {
	btns := b.Cfg.Buttons
	okLabel := b.Env.Localize("BTN_OK", "OK")
	cancelLabel := b.Env.Localize("BTN_CANCEL", "Cancel")
	hideCancel := false
	if btns != nil {
		if btns.Ok != "" {
			okLabel = b.Env.Text(btns.Ok)
		}
		if btns.Cancel != "" {
			cancelLabel = b.Env.Text(btns.Cancel)
		}
		hideCancel = btns.HideCancel
	}

	ok := ui.NewNode("btn-ok", "button")
	ok.Label = okLabel
	ok.Rect = ui.R(r.X+r.W-90, r.Y+6, 84, r.H-12)
	ok.OnClick = func() {
		if b.submit != nil {
			b.submit()
		}
	}
	panel.Append(ok)

	if !hideCancel {
		cancelBtn := ui.NewNode("btn-cancel", "button")
		cancelBtn.Label = cancelLabel
		cancelBtn.Rect = ui.R(r.X+r.W-184, r.Y+6, 84, r.H-12)
		cancelBtn.OnClick = func() {
			if b.cancel != nil {
				b.cancel()
			}
		}
		panel.Append(cancelBtn)
	}
}

// CreateToken 依 Token 設定建立統一的互動元素；
// 樣式為 theme 疊上 per-token override（override 勝）。
func (b *Base) CreateToken(t *spec.Token) *ui.Node {
	n := ui.NewNode(t.Id, "token")
	switch {
	case t.Label != "":
		n.Label = b.Env.Text(t.Label)
	case t.Text != "":
		n.Label = b.Env.Text(t.Text)
	}
	if t.Image != "" {
		n.Image = b.Env.ResolveAsset(t.Image)
	}
	style := ui.Style{}
	if b.Cfg.Theme != nil {
		style = b.Cfg.Theme.Style()
	}
	if t.Style != nil {
		style = style.Merge(t.Style.Style())
	}
	n.Style = style
	return n
}

// Render 預設 no-op。
func (b *Base) Render() {}

// OnCancel 預設 no-op（resolution 由 Runner 負責）。
func (b *Base) OnCancel() {}

// Unmount 釋放面板與所有排程工作。冪等，且晚到的 timer 會因
// Tasks.Close 成為 no-op，不會碰到已拆除的節點。
func (b *Base) Unmount() {
	if b.Tasks != nil {
		b.Tasks.Close()
	}
	if b.Panel != nil && b.Stage != nil {
		b.Stage.CancelDrag()
		b.Stage.Root().Remove(b.Panel)
	}
	b.Panel = nil
	b.Body = nil
}

// Mounted 回報是否已掛載。
func (b *Base) Mounted() bool { return b.mounted }

// Blocking 回報 block-until-solved 是否生效。
func (b *Base) Blocking() bool { return b.Opt.Block() }

// Aggregate 回報是否抑制逐元素的對錯標記。
func (b *Base) Aggregate() bool { return b.Opt.Aggregate() }
