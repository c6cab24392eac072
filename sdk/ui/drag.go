package ui

// DragSession 把一次拖曳手勢的「全域 listener」生命週期收斂成單一物件。
//
// 原系統在每次手勢開始時把 mousemove/mouseup listener 掛到 document 上，
// 結束時再拆掉；這裡由 Stage 持有至多一個作用中的 session，
// PointerUp（或 CancelDrag）時原子性地解除註冊，保證不會跨手勢洩漏。
type DragSession struct {
	// Node 是被拖曳的節點（cloze 的 ghost clone 也是一個 Node）。
	Node *Node
	// Grab 是抓取點相對節點左上角的偏移，讓節點不會跳到游標下。
	Grab Point
	// OnMove 在每次指標移動後呼叫（節點已先被移動）。
	OnMove func(p Point)
	// OnDrop 在指標放開時呼叫一次；session 已先解除註冊。
	OnDrop func(p Point)
}

// NewDrag 以抓取位置 p 建立 session，並記錄節點內偏移。
func NewDrag(n *Node, p Point) *DragSession {
	return &DragSession{
		Node: n,
		Grab: Point{X: p.X - n.Rect.X, Y: p.Y - n.Rect.Y},
	}
}

// moveTo 把節點移到追蹤位置。
func (d *DragSession) moveTo(p Point) {
	d.Node.Rect = d.Node.Rect.MoveTo(p.X-d.Grab.X, p.Y-d.Grab.Y)
}
