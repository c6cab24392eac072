package ui

// Point 是舞台座標上的一個點。
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect 是舞台座標上的矩形（左上角 + 寬高）。
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

func R(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains 回報 p 是否落在矩形內（含左/上邊界，不含右/下邊界）。
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, W: r.W - 2*d, H: r.H - 2*d}
}

// MoveTo 回傳同尺寸、左上角移至 (x,y) 的矩形。
func (r Rect) MoveTo(x, y float64) Rect {
	return Rect{X: x, Y: y, W: r.W, H: r.H}
}

// CenterAt 回傳同尺寸、中心移至 p 的矩形。
func (r Rect) CenterAt(p Point) Rect {
	return Rect{X: p.X - r.W/2, Y: p.Y - r.H/2, W: r.W, H: r.H}
}
