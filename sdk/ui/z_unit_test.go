package ui_test

import (
	"testing"
	"time"

	"github.com/zintix-labs/puzzlelab/sdk/core"
	"github.com/zintix-labs/puzzlelab/sdk/ui"
)

func TestColorAllocLowestFree(t *testing.T) {
	a := ui.NewColorAlloc(core.NewWithSeed(1))
	i0 := a.Acquire()
	i1 := a.Acquire()
	i2 := a.Acquire()
	if i0 != 0 || i1 != 1 || i2 != 2 {
		t.Fatalf("expected 0,1,2 got %d,%d,%d", i0, i1, i2)
	}
	a.Release(0)
	if got := a.Acquire(); got != 0 {
		t.Fatalf("expected reuse of index 0, got %d", got)
	}
	a.Release(1)
	a.Release(2)
	if got := a.Acquire(); got != 1 {
		t.Fatalf("expected lowest free 1, got %d", got)
	}
}

func TestColorAllocExtraHuesAvoidReserved(t *testing.T) {
	a := ui.NewColorAlloc(core.NewWithSeed(3))
	var last int
	for i := 0; i < 20; i++ {
		last = a.Acquire()
	}
	if c := a.Color(last); c == "" {
		t.Fatalf("expected generated color for index %d", last)
	}
}

func TestTasksCloseCancelsPending(t *testing.T) {
	clk := ui.NewManualClock()
	tasks := ui.NewTasks(clk)
	fired := false
	tasks.After(500*time.Millisecond, func() { fired = true })
	tasks.Close()
	clk.Advance(time.Second)
	if fired {
		t.Fatal("task fired after Close")
	}
	// Close 後排程必須是 no-op
	tasks.After(time.Millisecond, func() { fired = true })
	clk.Advance(time.Second)
	if fired {
		t.Fatal("task scheduled after Close fired")
	}
	tasks.Close() // 冪等
}

func TestManualClockOrder(t *testing.T) {
	clk := ui.NewManualClock()
	var order []int
	clk.After(300*time.Millisecond, func() { order = append(order, 3) })
	clk.After(100*time.Millisecond, func() { order = append(order, 1) })
	clk.After(200*time.Millisecond, func() { order = append(order, 2) })
	clk.Advance(time.Second)
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("fired out of order: %v", order)
	}
}

func TestStageClickAndInput(t *testing.T) {
	s := ui.NewStage(ui.R(0, 0, 800, 600))
	clicked := false
	btn := ui.NewNode("ok", "button")
	btn.OnClick = func() { clicked = true }
	s.Root().Append(btn)

	if !s.Click("ok") || !clicked {
		t.Fatal("click not delivered")
	}
	btn.Set(ui.FlagDisabled)
	clicked = false
	if s.Click("ok") || clicked {
		t.Fatal("disabled node must not receive clicks")
	}

	in := ui.NewNode("answer", "input")
	var got string
	in.OnChange = func(v string) { got = v }
	s.Root().Append(in)
	s.Input("answer", "eureka")
	if got != "eureka" || in.Value != "eureka" {
		t.Fatalf("input not delivered: %q / %q", got, in.Value)
	}
}

func TestStageDragLifecycle(t *testing.T) {
	s := ui.NewStage(ui.R(0, 0, 800, 600))
	tok := ui.NewNode("t1", "token")
	tok.Rect = ui.R(10, 10, 40, 20)
	s.Root().Append(tok)

	var dropped *ui.Point
	d := ui.NewDrag(tok, ui.Point{X: 15, Y: 15})
	d.OnDrop = func(p ui.Point) { dropped = &p }
	if err := s.StartDrag(d); err != nil {
		t.Fatal(err)
	}
	if err := s.StartDrag(ui.NewDrag(tok, ui.Point{})); err == nil {
		t.Fatal("second concurrent drag must be rejected")
	}
	s.PointerMove(ui.Point{X: 100, Y: 100})
	if tok.Rect.X != 95 || tok.Rect.Y != 95 {
		t.Fatalf("grab offset not honored: %+v", tok.Rect)
	}
	s.PointerUp(ui.Point{X: 100, Y: 100})
	if dropped == nil {
		t.Fatal("OnDrop not delivered")
	}
	if s.Dragging() {
		t.Fatal("drag session leaked past PointerUp")
	}
}

func TestStageExclusiveOwnership(t *testing.T) {
	s := ui.NewStage(ui.R(0, 0, 100, 100))
	if err := s.Acquire(); err != nil {
		t.Fatal(err)
	}
	if err := s.Acquire(); err == nil {
		t.Fatal("second Acquire must fail while owned")
	}
	s.Release()
	if err := s.Acquire(); err != nil {
		t.Fatal("Acquire after Release must succeed")
	}
}

func TestAutoGridMinimizesEmpty(t *testing.T) {
	cases := []struct {
		n          int
		cols, rows int
	}{
		{1, 1, 1},
		{4, 2, 2},
		{6, 3, 2},
		{5, 5, 1}, // 5 無法無空格地拆成近方形，最少空格優先
	}
	for _, c := range cases {
		cols, rows := ui.AutoGrid(c.n, ui.FlowRow)
		if cols*rows < c.n {
			t.Fatalf("n=%d: grid %dx%d too small", c.n, cols, rows)
		}
		if cols != c.cols || rows != c.rows {
			t.Errorf("n=%d: got %dx%d want %dx%d", c.n, cols, rows, c.cols, c.rows)
		}
	}
}

func TestScatterNoOverlap(t *testing.T) {
	c := core.NewWithSeed(11)
	rects := ui.Scatter(ui.R(0, 0, 600, 400), 8, 60, 30, c)
	if len(rects) != 8 {
		t.Fatalf("expected 8 rects, got %d", len(rects))
	}
	for i := range rects {
		for j := i + 1; j < len(rects); j++ {
			a, b := rects[i], rects[j]
			if a.X < b.X+b.W && b.X < a.X+a.W && a.Y < b.Y+b.H && b.Y < a.Y+a.H {
				t.Fatalf("rects %d and %d overlap: %+v %+v", i, j, a, b)
			}
		}
	}
}
