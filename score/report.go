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

// Package score 彙整 list 流程的逐步結果成報告，並提供
// 終端機表格與 JSON/YAML 輸出。
package score

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var lang language.Tag = language.English

// StepResult 是一個步驟的最終結果。
// json 與 yaml 的欄位名一致，兩種 render 輸出同一套 key。
type StepResult struct {
	Id     string `json:"Id"              yaml:"Id"`
	Kind   string `json:"Kind"            yaml:"Kind"`
	Ok     bool   `json:"Ok"              yaml:"Ok"`
	Reason string `json:"Reason,omitempty" yaml:"Reason,omitempty"`
}

// SequenceReport 是整段 list 流程的彙整報告。
//
// 紀錄時只收集逐步結果；Done() 一次性整理計數與比率。
type SequenceReport struct {
	ListId string       `json:"ListId" yaml:"ListId"`
	Steps  []StepResult `json:"Steps"  yaml:"Steps"`

	Total     int     `json:"Total"     yaml:"Total"`
	Passed    int     `json:"Passed"    yaml:"Passed"`
	Failed    int     `json:"Failed"    yaml:"Failed"`
	Cancelled int     `json:"Cancelled" yaml:"Cancelled"`
	PassRate  float64 `json:"PassRate"  yaml:"PassRate"`

	isDone bool
}

func NewSequenceReport(listId string) *SequenceReport {
	return &SequenceReport{ListId: listId}
}

// Record 紀錄一個步驟的最終結果。
func (s *SequenceReport) Record(r StepResult) {
	s.Steps = append(s.Steps, r)
}

// Done 將累積的逐步結果轉換為最終計數並鎖定 isDone 標記。
func (s *SequenceReport) Done() {
	if s.isDone {
		return
	}
	s.Total = len(s.Steps)
	for _, st := range s.Steps {
		switch {
		case st.Ok:
			s.Passed++
		case st.Reason == "cancel":
			s.Cancelled++
		default:
			s.Failed++
		}
	}
	if s.Total > 0 {
		s.PassRate = float64(s.Passed) / float64(s.Total)
	}
	s.isDone = true
}

// AllPassed 回報是否所有步驟皆成功。
func (s *SequenceReport) AllPassed() bool {
	s.Done()
	return s.Total > 0 && s.Passed == s.Total
}

func (s *SequenceReport) WriteWith(w io.Writer, rep SequenceReportRender) error {
	s.Done()
	return rep.Write(w, s)
}

// StdOut 以表格輸出報告摘要。
func (s *SequenceReport) StdOut() {
	s.Done()
	sk, sm := s.fmtBasic()
	str := fmtTable(s.ListId, sk, sm)
	fmt.Println(str)
}

// ============================================================
// ** 內部方法 **
// ============================================================

func (s *SequenceReport) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	basic := map[string]string{
		"List ID":   s.ListId,
		"Steps":     p.Sprintf("%d", s.Total),
		"Passed":    p.Sprintf("%d", s.Passed),
		"Failed":    p.Sprintf("%d", s.Failed),
		"Cancelled": p.Sprintf("%d", s.Cancelled),
		"Pass Rate": p.Sprintf("%.2f %%", 100.0*s.PassRate),
	}
	keys := []string{"List ID", "Steps", "Passed", "Failed", "Cancelled", "Pass Rate"}
	return keys, basic
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	p := message.NewPrinter(lang)
	maxKeyLen := 0
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)

	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	fmtStr := top
	fmtStr += p.Sprintf("|%s%s%s|\n", blank(left), title, blank(right))
	fmtStr += divider
	for _, k := range keys {
		fmtStr += p.Sprintf("| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k])))
	}
	fmtStr += divider

	return fmtStr
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
