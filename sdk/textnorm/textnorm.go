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

// Package textnorm 提供 phrase/code 謎題比對用的文字正規化。
//
// Normalize 是唯一的相等性基礎：使用者輸入與每一個候選解答
// 都必須對稱地經過同一條管線後再比較。
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize 管線（順序固定）：
//  1. lowercase + trim
//  2. Unicode 正準分解（NFD）後移除 combining marks（去變音符號）
//  3. 內部空白收斂成單一空格
//  4. 移除 [a-z0-9 ] 以外的所有字元
//  5. 最後移除所有剩餘空白
//
// 管線保證冪等：Normalize(Normalize(s)) == Normalize(s)。
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	// NFD 分解 + 移除 Mn（combining diacritical marks）
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(t, s); err == nil {
		s = out
	}

	// 收斂內部空白
	s = strings.Join(strings.Fields(s), " ")

	// 僅保留 [a-z0-9 ]
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' ' {
			b.WriteRune(r)
		}
	}

	// 移除剩餘空白
	return strings.ReplaceAll(b.String(), " ", "")
}

// Equal 回報兩字串正規化後是否相等。
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
