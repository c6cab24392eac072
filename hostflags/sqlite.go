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
	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/zintix-labs/puzzlelab/errs"
)

// SQLiteStore 把旗標存進單表 sqlite 檔案，跨行程存活。
// driver 是純 Go 的 modernc.org/sqlite，不需要 cgo。
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite 開啟（必要時建立）旗標資料庫。dsn 可以是檔案路徑
// 或 ":memory:"。
func OpenSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errs.Wrap(err, "open flag store")
	}
	// 單連線：sqlite 寫入互斥，連線池只會帶來 SQLITE_BUSY
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS flags (
		name  TEXT PRIMARY KEY,
		value INTEGER NOT NULL
	)`)
	if err != nil {
		_ = db.Close()
		return nil, errs.Wrap(err, "init flag store schema")
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(name string) (bool, error) {
	var v int
	err := s.db.QueryRow(`SELECT value FROM flags WHERE name = ?`, name).Scan(&v)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errs.Wrap(err, "read flag")
	}
	return v != 0, nil
}

func (s *SQLiteStore) Set(name string, value bool) error {
	v := 0
	if value {
		v = 1
	}
	_, err := s.db.Exec(
		`INSERT INTO flags(name, value) VALUES(?, ?)
		 ON CONFLICT(name) DO UPDATE SET value = excluded.value`, name, v)
	if err != nil {
		return errs.Wrap(err, "write flag")
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
