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

// Package i18n 實作 Localize 協作者與字串欄位的編碼解析。
//
// 設定檔裡的任意文字欄位支援三種寫法：
//
//	"literal text"        原樣顯示
//	"@key@fallback text"  查 key，查無時用 fallback
//	"{key}"               查 key，查無時顯示 key 本身
//
// 編碼的拆解集中在這裡；puzzle kind 端只拿到解析完的字串。
package i18n

import (
	"strings"

	"github.com/leonelquinteros/gotext"
)

// Localize 是查表函式：key + fallback → 顯示字串。
type Localize func(key, fallback string) string

// Resolve 依編碼規則解析 s。loc 為 nil 時退回 fallback 行為。
func Resolve(s string, loc Localize) string {
	if loc == nil {
		loc = Fallback
	}
	if len(s) >= 2 && s[0] == '@' {
		rest := s[1:]
		if i := strings.IndexByte(rest, '@'); i > 0 {
			return loc(rest[:i], rest[i+1:])
		}
	}
	if len(s) > 2 && s[0] == '{' && s[len(s)-1] == '}' {
		key := s[1 : len(s)-1]
		return loc(key, key)
	}
	return s
}

// Resolver 把 loc 綁成單參數的解析函式（Env.Text 的形狀）。
func Resolver(loc Localize) func(string) string {
	return func(s string) string { return Resolve(s, loc) }
}

// Fallback 永遠回傳 fallback，是「沒有翻譯表」時的預設 Localize。
func Fallback(_, fallback string) string { return fallback }

// Static 以固定 map 建立 Localize，測試與小型 host 用。
func Static(m map[string]string) Localize {
	return func(key, fallback string) string {
		if v, ok := m[key]; ok {
			return v
		}
		return fallback
	}
}

// FromLocale 以 gotext 翻譯目錄建立 Localize。
// path 是 po/mo 目錄、lang 如 "zh_TW"、domain 是翻譯檔名。
// 查無翻譯時（gotext 回傳 key 本身）退回 fallback。
func FromLocale(path, lang, domain string) Localize {
	l := gotext.NewLocale(path, lang)
	l.AddDomain(domain)
	// key 是查表字串不是格式字串；gotext 在沒有變數時不做 printf 格式化，
	// 空的變數展開讓 vet 的 printf 檢查也這麼理解。
	var noArgs []interface{}
	return func(key, fallback string) string {
		if t := l.GetD(domain, key, noArgs...); t != key {
			return t
		}
		return fallback
	}
}
