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
	"math"

	"github.com/zintix-labs/puzzlelab/sdk/core"
)

// Flow 決定自動格線的長邊方向。
type Flow string

const (
	FlowRow Flow = "row"
	FlowCol Flow = "col"
)

// AutoGrid 為 n 個元素計算 cols×rows，目標是空格最少、形狀最接近方形。
// flow 決定偏好：FlowRow 時 cols >= rows，FlowCol 時 rows >= cols。
func AutoGrid(n int, flow Flow) (cols, rows int) {
	if n <= 0 {
		return 0, 0
	}
	best := -1
	for c := 1; c <= n; c++ {
		r := (n + c - 1) / c
		empty := c*r - n
		// 以空格數為主、長寬差為輔
		score := empty*100 + absInt(c-r)
		if best < 0 || score < best {
			best = score
			cols, rows = c, r
		}
	}
	if flow == FlowCol && cols > rows {
		cols, rows = rows, cols
	}
	if flow == FlowRow && rows > cols {
		cols, rows = rows, cols
	}
	return cols, rows
}

// GridCells 將 area 均分為 cols×rows 的格子（含間距 gap），row-major 排列。
func GridCells(area Rect, cols, rows int, gap float64) []Rect {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	cw := (area.W - gap*float64(cols+1)) / float64(cols)
	ch := (area.H - gap*float64(rows+1)) / float64(rows)
	cells := make([]Rect, 0, cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cells = append(cells, Rect{
				X: area.X + gap + float64(c)*(cw+gap),
				Y: area.Y + gap + float64(r)*(ch+gap),
				W: cw,
				H: ch,
			})
		}
	}
	return cells
}

// RowCells 將 area 切成 n 個等寬直欄（單列 flex）。
func RowCells(area Rect, n int, gap float64) []Rect {
	return GridCells(area, n, 1, gap)
}

// ColCells 將 area 切成 n 個等高橫列。
func ColCells(area Rect, n int, gap float64) []Rect {
	return GridCells(area, 1, n, gap)
}

// Scatter 為 n 個 w×h 的元素產生互不重疊的隨機位置（格點 + 抖動）。
//
// 做法：切出足以容納 n 個元素的格線，隨機挑 n 格，
// 再於每格內抖動；抖動幅度受限於格子與元素的尺寸差，
// 因此任兩元素不會重疊。
func Scatter(area Rect, n int, w, h float64, c *core.Core) []Rect {
	if n <= 0 {
		return nil
	}
	cols := int(math.Ceil(math.Sqrt(float64(n) * area.W / math.Max(area.H, 1))))
	if cols < 1 {
		cols = 1
	}
	rows := (n + cols - 1) / cols
	cells := GridCells(area, cols, rows, 0)

	order := make([]int, len(cells))
	for i := range order {
		order[i] = i
	}
	c.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	out := make([]Rect, 0, n)
	for i := 0; i < n; i++ {
		cell := cells[order[i]]
		jx := c.Jitter(math.Max((cell.W-w)/2, 0))
		jy := c.Jitter(math.Max((cell.H-h)/2, 0))
		ctr := cell.Center()
		out = append(out, Rect{W: w, H: h}.CenterAt(Point{X: ctr.X + jx, Y: ctr.Y + jy}))
	}
	return out
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
