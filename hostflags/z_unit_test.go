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

package hostflags

import (
	"path/filepath"
	"testing"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()

	// 未設定過的旗標讀到 false
	if v, err := s.Get("door_open"); err != nil || v {
		t.Fatalf("unset flag should read false: %v %v", v, err)
	}
	if err := s.Set("door_open", true); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, _ := s.Get("door_open"); !v {
		t.Fatalf("flag should read back true")
	}
	if err := s.Set("door_open", false); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if v, _ := s.Get("door_open"); v {
		t.Fatalf("flag should read back false after overwrite")
	}
}

func TestMemStore(t *testing.T) {
	s := NewMemStore()
	defer s.Close()
	exerciseStore(t, s)
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flags.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	exerciseStore(t, s)
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// 重開後仍可讀到已寫入的值
	s2, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	if err := s2.Set("lamp_lit", true); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, _ := s2.Get("lamp_lit"); !v {
		t.Fatalf("persisted flag should survive reopen")
	}
}
