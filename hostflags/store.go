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

// Package hostflags 是 host adapter 的持久化表面：具名布林旗標。
//
// puzzle 核心不讀寫旗標；外層 caller（開門、解鎖場景）在 resolution
// callback 裡寫入。未設定過的旗標一律讀到 false。
package hostflags

import "sync"

// Store 是旗標儲存的最小介面。
type Store interface {
	Get(name string) (bool, error)
	Set(name string, value bool) error
	Close() error
}

// MemStore 是行程內的旗標儲存，並行安全。
type MemStore struct {
	mu sync.RWMutex
	m  map[string]bool
}

func NewMemStore() *MemStore {
	return &MemStore{m: map[string]bool{}}
}

func (s *MemStore) Get(name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m[name], nil
}

func (s *MemStore) Set(name string, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[name] = value
	return nil
}

func (s *MemStore) Close() error { return nil }
