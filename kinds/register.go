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

package kinds

import (
	"github.com/zintix-labs/puzzlelab/sdk/puzzle"
	"github.com/zintix-labs/puzzlelab/spec"
)

// Kinds 回傳內建 kind 的註冊表。
// 新 kind 在這裡註冊即可，Runner 不需要修改。
func Kinds() *puzzle.Registry {
	r := puzzle.NewRegistry()
	mustRegister(r, spec.KindPhrase, newPhrase)
	mustRegister(r, spec.KindCode, newCode)
	mustRegister(r, spec.KindQuiz, newQuiz)
	mustRegister(r, spec.KindOrder, newOrder)
	mustRegister(r, spec.KindMatch, newMatch)
	mustRegister(r, spec.KindGroup, newGroup)
	mustRegister(r, spec.KindChoice, newChoice)
	mustRegister(r, spec.KindCloze, newCloze)
	mustRegister(r, spec.KindList, newList)
	return r
}

// mustRegister 只會在內建表自我重複時失敗，屬程式錯誤。
func mustRegister(r *puzzle.Registry, kind spec.Kind, b puzzle.Builder) {
	if err := r.Register(kind, b); err != nil {
		panic(err)
	}
}
