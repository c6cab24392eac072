package puzzle

import (
	"fmt"

	"github.com/zintix-labs/puzzlelab/errs"
	"github.com/zintix-labs/puzzlelab/spec"
)

// Builder 依設定建出一個 puzzle kind 實例。
// 設定錯誤（缺 tokens/solution 等）必須在這裡以 Fatal 立即失敗，
// 讓整合問題在 puzzle 開啟當下就浮現，而不是埋在之後的流程裡。
type Builder func(env *Env, cfg *spec.PuzzleSetting, opt spec.Options) (Puzzle, error)

// Registry 將 kind 名稱映射到 Builder；新 kind 註冊即可，
// Runner 不需要修改（tagged-union 式動態分派）。
type Registry struct {
	builders map[spec.Kind]Builder
}

func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[spec.Kind]Builder, 16),
	}
}

func (r *Registry) Register(kind spec.Kind, b Builder) error {
	if _, ok := r.builders[kind]; ok {
		return errs.NewFatal("duplicate puzzle kind builder: " + string(kind))
	}
	r.builders[kind] = b
	return nil
}

// Build 依 cfg.Kind 建構實例；kind 未註冊為 Fatal。
// 設定檔層的 Options 是底、呼叫端的 opt 疊在上面
//（優先序 step > list > caller > config）。
func (r *Registry) Build(env *Env, cfg *spec.PuzzleSetting, opt spec.Options) (Puzzle, error) {
	b, ok := r.builders[cfg.Kind]
	if !ok {
		return nil, errs.NewFatal(fmt.Sprintf("puzzle kind is not exist: %s", cfg.Kind))
	}
	return b(env, cfg, spec.MergeOptions(cfg.Options, opt))
}

func (r *Registry) Has(kind spec.Kind) bool {
	_, ok := r.builders[kind]
	return ok
}

// MergeRegistry 合併多個註冊表為新表。
//
// 函式值不可比較，重複 key 一律視為錯誤，
// 避免「後者蓋前者」的不確定行為。
func MergeRegistry(regs ...*Registry) (*Registry, error) {
	merged := NewRegistry()
	origin := make(map[spec.Kind]int, 16)

	for i, r := range regs {
		if r == nil {
			continue
		}
		for kind, b := range r.builders {
			if _, ok := merged.builders[kind]; ok {
				prev := origin[kind]
				return nil, errs.NewFatal(fmt.Sprintf("duplicate puzzle kind %s (registry #%d and #%d)", kind, prev, i))
			}
			merged.builders[kind] = b
			origin[kind] = i
		}
	}
	return merged, nil
}
