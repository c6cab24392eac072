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

package puzzlelab

import (
	"io"
	"math"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
	"gonum.org/v1/gonum/stat"

	"github.com/zintix-labs/puzzlelab/errs"
	"github.com/zintix-labs/puzzlelab/sdk/core"
	"github.com/zintix-labs/puzzlelab/sdk/puzzle"
	"github.com/zintix-labs/puzzlelab/sdk/ui"
	"github.com/zintix-labs/puzzlelab/spec"
)

const (
	simStageW = 800.0
	simStageH = 600.0
)

// SimReport 是單一題目的解題率統計。
//
// 每個 play 以 block-until-solved 掛載、由隨機 agent 重複作答到解開
// 或達到嘗試上限。SolveRate 是上限內解開的比例，CI95 是其 95% 信賴
// 區間半寬；MeanAttempts 只統計解開的 play。
type SimReport struct {
	Ref          string
	Kind         spec.Kind
	Plays        int
	Solved       int
	SolveRate    float64
	CI95         float64
	MeanAttempts float64
}

// Simulator 對一個 pack 做解題率 QA：隨機 agent 透過公開的 Stage
// 事件表面亂玩每一題，量化「亂猜多容易過」。
//
// 決定性：同一個 initSeed 之下，版面洗牌與 agent 的每一步都可重現。
type Simulator struct {
	PackName string
	PackId   spec.PID

	lab      *Puzzlelab
	pack     *spec.PackSetting
	initSeed int64
	seeds    *seedMaker
}

func (p *Puzzlelab) NewSimulator(pack string) (*Simulator, error) {
	return p.NewSimulatorWithSeed(pack, newSeed())
}

func (p *Puzzlelab) NewSimulatorWithSeed(pack string, seed int64) (*Simulator, error) {
	if !p.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	pk, err := p.cat.PackSettingByName(pack)
	if err != nil {
		return nil, err
	}
	return &Simulator{
		PackName: pk.PackName,
		PackId:   pk.PackID,
		lab:      p,
		pack:     pk,
		initSeed: seed,
		seeds:    newSeedMaker(seed),
	}, nil
}

// Run 對 pack 內每一題玩 plays 次，每次最多 maxAttempts 次作答。
func (s *Simulator) Run(plays, maxAttempts int, showpb bool) ([]SimReport, time.Duration, error) {
	if plays < 1 {
		return nil, 0, errs.NewWarn("plays must > 0")
	}
	if maxAttempts < 1 {
		return nil, 0, errs.NewWarn("max attempts must > 0")
	}

	bar := pb.StartNew(plays * len(s.pack.Puzzles))
	if !showpb {
		bar.SetWriter(io.Discard)
	}

	reports := make([]SimReport, 0, len(s.pack.Puzzles))
	for i := range s.pack.Puzzles {
		cfg := &s.pack.Puzzles[i]
		rep, err := s.simPuzzle(cfg, plays, maxAttempts, bar)
		if err != nil {
			return nil, 0, err
		}
		reports = append(reports, rep)
	}
	used := time.Since(bar.StartTime())
	bar.Finish()
	return reports, used, nil
}

func (s *Simulator) simPuzzle(cfg *spec.PuzzleSetting, plays, maxAttempts int, bar *pb.ProgressBar) (SimReport, error) {
	solves := make([]float64, plays)
	attemptsOfSolved := []float64{}

	for i := 0; i < plays; i++ {
		solved, attempts, err := s.playOnce(cfg, maxAttempts)
		if err != nil {
			return SimReport{}, err
		}
		if solved {
			solves[i] = 1
			attemptsOfSolved = append(attemptsOfSolved, float64(attempts))
		}
		bar.Increment()
	}

	rate := stat.Mean(solves, nil)
	sd := stat.StdDev(solves, nil)
	rep := SimReport{
		Ref:       cfg.Id,
		Kind:      cfg.Kind,
		Plays:     plays,
		Solved:    int(math.Round(rate * float64(plays))),
		SolveRate: rate,
		CI95:      1.96 * sd / math.Sqrt(float64(plays)),
	}
	if len(attemptsOfSolved) > 0 {
		rep.MeanAttempts = stat.Mean(attemptsOfSolved, nil)
	}
	return rep, nil
}

// playOnce 掛載一次題目並讓 agent 作答到解開或達到上限。
func (s *Simulator) playOnce(cfg *spec.PuzzleSetting, maxAttempts int) (bool, int, error) {
	mc := ui.NewManualClock()
	stage := ui.NewStage(ui.R(0, 0, simStageW, simStageH))

	env := s.lab.env(s.pack.PuzzlesById(), s.seeds.next())
	env.Clock = mc

	opt := spec.Options{BlockUntilSolved: spec.Bool(true)}
	inst, err := s.lab.reg.Build(env, cfg, opt)
	if err != nil {
		return false, 0, err
	}

	var final *puzzle.Result
	r := puzzle.NewRunner(inst, func(res puzzle.Result) { final = &res })
	if err := r.MountInto(stage, stage.Area()); err != nil {
		return false, 0, err
	}
	defer r.Unmount()

	ag := &agent{
		stage: stage,
		rng:   core.New(s.lab.prng.New(s.seeds.next())),
		pack:  s.pack,
	}

	attempts := 0
	for final == nil && attempts < maxAttempts {
		attempts++
		ag.act(cfg)
		stage.Click("btn-ok")
		if stage.Find("btn-done") != nil {
			stage.Click("btn-done")
		}
		// 讓失敗復原視窗（600–800ms）走完再進下一次嘗試
		mc.Advance(time.Second)
	}
	if final == nil {
		r.Cancel()
		return false, attempts, nil
	}
	return final.Ok, attempts, nil
}

// ============================================================
// ** 隨機 agent **
// ============================================================

// agent 只透過 Stage 的公開事件表面作答：Click / Input / 指標手勢。
// 它知道題目設定（跟真 host 一樣），但看不到 kind 的內部狀態。
type agent struct {
	stage *ui.Stage
	rng   *core.Core
	pack  *spec.PackSetting
}

func (a *agent) act(cfg *spec.PuzzleSetting) {
	switch cfg.Kind {
	case spec.KindPhrase, spec.KindCode:
		a.actText(cfg)
	case spec.KindQuiz:
		a.actQuiz(cfg)
	case spec.KindOrder:
		a.actOrder(cfg)
	case spec.KindMatch:
		a.actMatch(cfg)
	case spec.KindGroup:
		a.actGroup(cfg)
	case spec.KindChoice:
		a.actChoice(cfg)
	case spec.KindCloze:
		a.actCloze(cfg)
	case spec.KindList:
		a.actList(cfg)
	}
}

func (a *agent) actText(cfg *spec.PuzzleSetting) {
	candidates := append([]string{}, cfg.Solutions...)
	candidates = append(candidates, "", "xyzzy")
	a.stage.Input("input:"+cfg.Id, candidates[a.rng.Pick(len(candidates))])
}

func (a *agent) actQuiz(cfg *spec.PuzzleSetting) {
	for i := range cfg.Tokens {
		if a.rng.Float64() < 0.5 {
			a.stage.Click(cfg.Tokens[i].Id)
		}
	}
}

func (a *agent) actOrder(cfg *spec.PuzzleSetting) {
	perm := a.shuffledIds(cfg)
	for _, id := range perm {
		a.stage.Click(id)
	}
}

func (a *agent) actMatch(cfg *spec.PuzzleSetting) {
	if cfg.Mode == spec.MatchModeDragDrop {
		ids := a.shuffledIds(cfg)
		for i := 0; i+1 < len(ids); i += 2 {
			a.dragNodes(ids[i], ids[i+1])
		}
		return
	}
	var left, right []string
	for i := range cfg.Tokens {
		if cfg.Tokens[i].Side == "right" {
			right = append(right, cfg.Tokens[i].Id)
		} else {
			left = append(left, cfg.Tokens[i].Id)
		}
	}
	a.rng.ShuffleStrings(left)
	a.rng.ShuffleStrings(right)
	for i := 0; i < len(left) && i < len(right); i++ {
		a.stage.Click(left[i])
		a.stage.Click(right[i])
	}
}

func (a *agent) actGroup(cfg *spec.PuzzleSetting) {
	for i := range cfg.Tokens {
		g := cfg.Groups[a.rng.Pick(len(cfg.Groups))]
		a.dragNodes(cfg.Tokens[i].Id, "group:"+g.Id)
	}
}

func (a *agent) actChoice(cfg *spec.PuzzleSetting) {
	for i := range cfg.Tokens {
		t := &cfg.Tokens[i]
		if sel := a.stage.Find("select:" + t.Id); sel != nil {
			c := t.Choices[a.rng.Pick(len(t.Choices))]
			a.stage.Click("select:" + t.Id)
			a.stage.Click("option:" + t.Id + ":" + c.Value)
			continue
		}
		candidates := []string{t.Solution, ""}
		for _, v := range cfg.SolutionValues {
			candidates = append(candidates, v)
		}
		a.stage.Input("input:"+t.Id, candidates[a.rng.Pick(len(candidates))])
	}
}

func (a *agent) actCloze(cfg *spec.PuzzleSetting) {
	ids := a.shuffledIds(cfg)
	for i, gap := range cfg.GapNames() {
		if i >= len(ids) {
			break
		}
		a.dragNodes(ids[i], "gap:"+gap)
	}
}

// actList 只對目前掛載中的步驟作答；list 本身的送出由外層 btn-ok 驅動。
func (a *agent) actList(cfg *spec.PuzzleSetting) {
	for i := range cfg.Steps {
		step := &cfg.Steps[i]
		sc := step.Config
		if sc == nil && a.pack != nil {
			if ref, err := a.pack.PuzzleById(step.Ref); err == nil {
				sc = ref
			}
		}
		if sc == nil {
			continue
		}
		if a.stage.Find("panel:"+sc.Id) != nil {
			a.act(sc)
			return
		}
	}
}

func (a *agent) shuffledIds(cfg *spec.PuzzleSetting) []string {
	ids := make([]string, 0, len(cfg.Tokens))
	for i := range cfg.Tokens {
		ids = append(ids, cfg.Tokens[i].Id)
	}
	a.rng.ShuffleStrings(ids)
	return ids
}

// dragNodes 以指標手勢把 from 拖到 to 的中心；節點不存在時 no-op。
func (a *agent) dragNodes(from, to string) {
	fn := a.stage.Find(from)
	tn := a.stage.Find(to)
	if fn == nil || tn == nil {
		return
	}
	src := fn.Rect.Center()
	dst := tn.Rect.Center()
	if !a.stage.PointerDown(src) {
		return
	}
	a.stage.PointerMove(ui.Point{X: (src.X + dst.X) / 2, Y: (src.Y + dst.Y) / 2})
	a.stage.PointerUp(dst)
}

// ============================================================
// ** seed 派生 **
// ============================================================

const mask63 = uint64(1<<63) - 1

// seedMaker 從單一 initSeed 決定性地派生子 seed（每次掛載、每個 agent
// 一條獨立亂數流）。可能被多 goroutine 同時呼叫，state 推進必須原子。
type seedMaker struct {
	state atomic.Uint64 // always in [0, 2^63)
}

func newSeedMaker(seed int64) *seedMaker {
	s := &seedMaker{}
	s.state.Store(uint64(seed) & mask63)
	return s
}

// state 走全週期（不重複），再用可逆 mix63 打散。
func (s *seedMaker) next() int64 {
	for {
		old := s.state.Load()                                            // always masked
		next := (old*6364136223846793005 + 1442695040888963407) & mask63 // full-period LCG mod 2^63
		if s.state.CompareAndSwap(old, next) {
			return int64(mix63(next)) // 一定非負
		}
	}
}

// mix63：只用「可逆」的 bit 操作 + 乘奇數（mod 2^63）。
func mix63(x uint64) uint64 {
	x &= mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63 // 乘奇數 ⇒ mod 2^63 可逆
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return x & mask63
}
