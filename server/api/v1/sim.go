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

package v1

import (
	"net/http"
	"time"

	"github.com/zintix-labs/puzzlelab"
	"github.com/zintix-labs/puzzlelab/server/httperr"
)

type simReq struct {
	Pack        string `json:"pack"`
	Plays       int    `json:"plays,omitempty"`
	MaxAttempts int    `json:"max_attempts,omitempty"`
	Seed        int64  `json:"seed,omitempty"`
}

type simResp struct {
	Pack    string                `json:"pack"`
	Seed    int64                 `json:"seed"`
	Used    time.Duration         `json:"used_ns"`
	Reports []puzzlelab.SimReport `json:"reports"`
}

// Sim 對指定 pack 跑一輪解題率模擬。
func (h *SessionHandler) Sim(w http.ResponseWriter, r *http.Request) {
	req := simReq{Plays: 100, MaxAttempts: 10}
	if err := decodeBody(r.Body, &req); err != nil {
		httperr.Errs(w, err)
		return
	}

	var (
		sim *puzzlelab.Simulator
		err error
	)
	if req.Seed != 0 {
		sim, err = h.lab.NewSimulatorWithSeed(req.Pack, req.Seed)
	} else {
		sim, err = h.lab.NewSimulator(req.Pack)
	}
	if err != nil {
		httperr.Log(h.log, "new simulator", err)
		httperr.Errs(w, err)
		return
	}

	reports, used, err := sim.Run(req.Plays, req.MaxAttempts, false)
	if err != nil {
		httperr.Log(h.log, "run simulator", err)
		httperr.Errs(w, err)
		return
	}
	writeJSON(w, http.StatusOK, simResp{
		Pack:    sim.PackName,
		Seed:    req.Seed,
		Used:    used,
		Reports: reports,
	})
}
