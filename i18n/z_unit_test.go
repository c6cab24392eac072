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

package i18n

import "testing"

func TestResolveEncodings(t *testing.T) {
	loc := Static(map[string]string{
		"door.riddle": "說「朋友」",
		"ok":          "確定",
	})

	cases := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"@door.riddle@Speak, friend", "說「朋友」"},
		{"@missing.key@Speak, friend", "Speak, friend"},
		{"{ok}", "確定"},
		{"{missing}", "missing"},
		{"@", "@"},            // 退化輸入原樣保留
		{"@@fallback", "@@fallback"},
		{"{}", "{}"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Resolve(c.in, loc); got != c.want {
			t.Fatalf("Resolve(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestResolveNilLocalizer(t *testing.T) {
	if got := Resolve("@key@fb", nil); got != "fb" {
		t.Fatalf("nil localizer should fall back: %q", got)
	}
	if got := Resolve("{key}", nil); got != "key" {
		t.Fatalf("nil localizer should echo the key: %q", got)
	}
}

func TestResolverShape(t *testing.T) {
	text := Resolver(Static(map[string]string{"k": "v"}))
	if text("{k}") != "v" || text("raw") != "raw" {
		t.Fatalf("resolver misbehaved")
	}
}
