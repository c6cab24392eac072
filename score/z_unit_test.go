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

package score

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestSequenceReportDone(t *testing.T) {
	r := NewSequenceReport("story")
	r.Record(StepResult{Id: "a", Kind: "phrase", Ok: true})
	r.Record(StepResult{Id: "b", Kind: "quiz", Ok: false, Reason: "wrong"})
	r.Record(StepResult{Id: "c", Kind: "match", Ok: false, Reason: "cancel"})
	r.Done()

	if r.Total != 3 || r.Passed != 1 || r.Failed != 1 || r.Cancelled != 1 {
		t.Fatalf("unexpected counts: %+v", r)
	}
	if r.PassRate < 0.33 || r.PassRate > 0.34 {
		t.Fatalf("unexpected pass rate: %v", r.PassRate)
	}
	if r.AllPassed() {
		t.Fatalf("should not be all passed")
	}
}

func TestSequenceReportAllPassed(t *testing.T) {
	r := NewSequenceReport("s")
	r.Record(StepResult{Id: "a", Ok: true})
	r.Record(StepResult{Id: "b", Ok: true})
	if !r.AllPassed() {
		t.Fatalf("expected all passed")
	}

	empty := NewSequenceReport("e")
	if empty.AllPassed() {
		t.Fatalf("empty report should not count as passed")
	}
}

func TestSequenceReportJSONRender(t *testing.T) {
	r := NewSequenceReport("story")
	r.Record(StepResult{Id: "a", Kind: "phrase", Ok: true})

	var buf bytes.Buffer
	if err := r.WriteWith(&buf, &JsonSequenceReportRender{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got["ListId"] != "story" {
		t.Fatalf("unexpected report: %v", got)
	}
}

func TestSequenceReportYAMLRender(t *testing.T) {
	r := NewSequenceReport("story")
	r.Record(StepResult{Id: "a", Kind: "phrase", Ok: true})

	var buf bytes.Buffer
	if err := r.WriteWith(&buf, &YAMLSequenceReportRender{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "ListId: story") {
		t.Fatalf("unexpected yaml: %s", buf.String())
	}
}
