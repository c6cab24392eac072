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
	"fmt"

	"github.com/zyedidia/generic/mapset"

	"github.com/zintix-labs/puzzlelab/sdk/core"
)

// pairPalette 是配對謎題的固定色盤。
// 紅色與藍色色域保留給 correct/wrong 回饋，不得出現在此。
var pairPalette = []string{
	"#2e8b57", // sea green
	"#9932cc", // dark orchid
	"#ff8c00", // dark orange
	"#008b8b", // dark cyan
	"#b8860b", // dark goldenrod
	"#c71585", // medium violet red
	"#556b2f", // dark olive green
	"#20b2aa", // light sea green
}

// ColorAlloc 管理配對顏色索引。
//
// 配對被拆掉後其索引必須可重用：Acquire 永遠回傳「目前最小的未用索引」，
// 而不是單調遞增的計數器。
// 超出固定色盤時以隨機色相擴充，色相避開紅/藍保留域。
type ColorAlloc struct {
	used  mapset.Set[int]
	extra []string
	core  *core.Core
}

func NewColorAlloc(c *core.Core) *ColorAlloc {
	return &ColorAlloc{
		used: mapset.New[int](),
		core: c,
	}
}

// Acquire 取得最小可用索引並標記為使用中。
func (a *ColorAlloc) Acquire() int {
	i := 0
	for a.used.Has(i) {
		i++
	}
	a.used.Put(i)
	for i >= len(pairPalette)+len(a.extra) {
		a.extra = append(a.extra, a.randomHue())
	}
	return i
}

// Release 歸還索引；未持有的索引為 no-op。
func (a *ColorAlloc) Release(i int) {
	a.used.Remove(i)
}

// Color 回傳索引對應的顏色。
func (a *ColorAlloc) Color(i int) string {
	if i < 0 {
		return ""
	}
	if i < len(pairPalette) {
		return pairPalette[i]
	}
	j := i - len(pairPalette)
	if j < len(a.extra) {
		return a.extra[j]
	}
	return ""
}

// InUse 回報使用中的索引數。
func (a *ColorAlloc) InUse() int {
	return a.used.Size()
}

// randomHue 產生一個避開紅 (±30°) 與藍 ([200°,260°)) 色域的色相。
func (a *ColorAlloc) randomHue() string {
	// 允許域：[30,200) ∪ [260,330)，共 240 度
	h := a.core.Float64() * 240
	if h < 170 {
		h += 30
	} else {
		h += 90
	}
	return hslToHex(h, 0.65, 0.50)
}

// hslToHex 將 HSL 轉為 #rrggbb。h 單位為度，s/l 為 [0,1]。
func hslToHex(h, s, l float64) string {
	c := (1 - abs(2*l-1)) * s
	hp := h / 60
	x := c * (1 - abs(mod2(hp)-1))
	var r, g, b float64
	switch {
	case hp < 1:
		r, g, b = c, x, 0
	case hp < 2:
		r, g, b = x, c, 0
	case hp < 3:
		r, g, b = 0, c, x
	case hp < 4:
		r, g, b = 0, x, c
	case hp < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	m := l - c/2
	return fmt.Sprintf("#%02x%02x%02x",
		int((r+m)*255+0.5), int((g+m)*255+0.5), int((b+m)*255+0.5))
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func mod2(f float64) float64 {
	for f >= 2 {
		f -= 2
	}
	return f
}
