package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"log"
	"math"
	"math/big"
	"time"

	"github.com/zintix-labs/puzzlelab"
	"github.com/zintix-labs/puzzlelab/demo"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var cfg *config = new(config)

type config struct {
	pack        string
	plays       int
	maxAttempts int
	seed        int64
	showpb      bool
	pprofmode   string
}

func bindVar() {
	// 綁定 Flag 到本地變數的指標 (&)
	flag.StringVar(&cfg.pack, "pack", "study", "target pack name")
	flag.IntVar(&cfg.plays, "plays", 10000, "plays per puzzle")
	flag.IntVar(&cfg.maxAttempts, "max", 10, "attempts per play before giving up")
	flag.Int64Var(&cfg.seed, "seed", -1, "int64 seed for random number generator")
	flag.BoolVar(&cfg.showpb, "pb", true, "show progress bar")
	flag.StringVar(&cfg.pprofmode, "p", "", "pprof: '', cpu, heap, allocs")

	flag.Parse()

	// given seed illeagel -> default seed
	if cfg.seed < 1 {
		seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
		if err != nil {
			log.Fatal(err)
		}
		cfg.seed = seed.Int64()
	}
}

// 這裡解析並執行模擬器
func executeSimulator() {
	cfg.valid() // 基本檢查

	lab, err := demo.NewPuzzlelab()
	if err != nil {
		log.Fatal(err)
	}
	s, err := lab.NewSimulatorWithSeed(cfg.pack, cfg.seed)
	if err != nil {
		log.Fatal(err)
	}
	// 至此確保可執行
	green := "\033[1;32m"
	reset := "\033[0m"
	p := message.NewPrinter(language.English)

	p.Printf("%s[PACK:%s] [PLAYS:%d] [MAX ATTEMPTS:%d] [SEED:%d]%s\n",
		green, s.PackName, cfg.plays, cfg.maxAttempts, cfg.seed, reset)
	reports, used, err := s.Run(cfg.plays, cfg.maxAttempts, cfg.showpb)
	if err != nil {
		log.Fatal(err)
	}
	stdOut(p, reports, used)
}

func stdOut(p *message.Printer, reports []puzzlelab.SimReport, used time.Duration) {
	p.Printf("%-16s %-8s %10s %10s %12s %10s %14s\n",
		"REF", "KIND", "PLAYS", "SOLVED", "SOLVE RATE", "CI95", "MEAN ATTEMPTS")
	for _, r := range reports {
		p.Printf("%-16s %-8s %10d %10d %11.2f%% %9.4f %14.2f\n",
			r.Ref, r.Kind, r.Plays, r.Solved, r.SolveRate*100, r.CI95, r.MeanAttempts)
	}
	fmt.Printf("used: %s\n", used.Round(time.Millisecond))
}

func (cfg *config) valid() {
	p := message.NewPrinter(language.English)

	if cfg.pack == "" {
		log.Fatal("value err : pack is required")
	}
	if cfg.plays < 1 {
		log.Fatal("value err : plays must > 0")
	}
	if cfg.maxAttempts < 1 {
		log.Fatal("value err : max attempts must > 0")
	}
	// 單局嘗試太多次沒意義，隨機代理十次內解不掉就當放棄
	if cfg.maxAttempts > 100 {
		p.Printf("too much attempts per play: %d resized to 100\n", cfg.maxAttempts)
		cfg.maxAttempts = 100
	}
}
