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
	"github.com/zintix-labs/puzzlelab/sdk/core"
	"github.com/zintix-labs/puzzlelab/sdk/ui"
	"github.com/zintix-labs/puzzlelab/spec"
)

// LocalizeFunc 是 i18n 協作者的最小介面：key + fallback → 顯示字串。
type LocalizeFunc func(key, fallback string) string

// TextFunc 解析任意字串欄位（literal / @key@fallback / {key} 編碼）。
// 編碼的解析是 i18n 層的責任；kind 只呼叫、從不自己拆解。
type TextFunc func(s string) string

// AssetFunc 將資源路徑轉成可用 URL；所有 image/background 進場前都會經過它。
type AssetFunc func(path string) string

// FlagStore 是 host adapter 唯一要求的持久化表面：布林旗標讀寫。
// 核心 kind 不直接使用；由外層 caller 透過 Env 取用。
type FlagStore interface {
	Get(name string) (bool, error)
	Set(name string, value bool) error
}

// Env 是 puzzle 實例的執行環境，由組裝端（Puzzlelab）注入。
//
// 核心對外的呼叫只有 Localize/Text/ResolveAsset 與 resolution callback；
// 沒有網路、檔案、或其他 I/O。
type Env struct {
	Localize     LocalizeFunc
	Text         TextFunc
	ResolveAsset AssetFunc

	// Clock 驅動延遲復原視窗與 debounce；測試注入 ManualClock。
	Clock ui.Clock

	// Core 是決定性亂數來源（洗牌、散佈、額外色相）。
	Core *core.Core

	// Kinds / Puzzles 供 list kind 解析子步驟（by-ref 或 inline）。
	Kinds   *Registry
	Puzzles map[string]*spec.PuzzleSetting

	// Flags 透傳給 host 層；核心不讀寫。
	Flags FlagStore
}

// Normalize 補齊零值欄位，讓 kind 端不需逐項判 nil。
func (e *Env) Normalize() {
	if e.Localize == nil {
		e.Localize = func(key, fallback string) string { return fallback }
	}
	if e.Text == nil {
		e.Text = func(s string) string { return s }
	}
	if e.ResolveAsset == nil {
		e.ResolveAsset = func(p string) string { return p }
	}
	if e.Clock == nil {
		e.Clock = ui.RealClock{}
	}
	if e.Core == nil {
		e.Core = core.New(core.NewPCG64())
	}
}
