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

// Package v1 是 puzzle session 的 HTTP 邊界層。
//
// 一個 session 對應一個 Stage + 一個單發 Runner。Stage 的事件合約是
// 單執行緒：每個 session 以自己的 mutex 序列化事件注入，
// 不同 session 之間互不影響。
package v1

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/zintix-labs/puzzlelab"
	"github.com/zintix-labs/puzzlelab/errs"
	"github.com/zintix-labs/puzzlelab/sdk/puzzle"
	"github.com/zintix-labs/puzzlelab/sdk/ui"
	"github.com/zintix-labs/puzzlelab/server/httperr"
	"github.com/zintix-labs/puzzlelab/server/svrcfg"
	"github.com/zintix-labs/puzzlelab/spec"
)

const (
	defaultStageW = 800
	defaultStageH = 600
)

type session struct {
	mu     sync.Mutex
	stage  *ui.Stage
	runner *puzzle.Runner
	final  *puzzle.Result
}

// SessionHandler 持有全部進行中的 session。
type SessionHandler struct {
	lab *puzzlelab.Puzzlelab
	log *slog.Logger
	cap int

	mu       sync.Mutex
	sessions map[string]*session
}

func NewSessionHandler(sCfg *svrcfg.SvrCfg) (*SessionHandler, error) {
	if sCfg == nil || sCfg.Puzzlelab == nil {
		return nil, errs.NewFatal("puzzlelab is required")
	}
	return &SessionHandler{
		lab:      sCfg.Puzzlelab,
		log:      sCfg.Log,
		cap:      sCfg.SessionCap,
		sessions: map[string]*session{},
	}, nil
}

// ============================================================
// ** 請求/回應 DTO **
// ============================================================

type openReq struct {
	Pack    string              `json:"pack,omitempty"`
	Ref     string              `json:"ref,omitempty"`
	Config  *spec.PuzzleSetting `json:"config,omitempty"`
	Options spec.Options        `json:"options,omitempty"`
	Seed    int64               `json:"seed,omitempty"`
	W       float64             `json:"w,omitempty"`
	H       float64             `json:"h,omitempty"`
}

type openResp struct {
	SessionID string `json:"session_id"`
}

type stateResp struct {
	SessionID string          `json:"session_id"`
	Open      bool            `json:"open"`
	Result    *puzzle.Result  `json:"result,omitempty"`
	Tree      json.RawMessage `json:"tree"`
}

type eventReq struct {
	Type  string  `json:"type"` // click | input | down | move | up | resize
	Id    string  `json:"id,omitempty"`
	Value string  `json:"value,omitempty"`
	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y,omitempty"`
	W     float64 `json:"w,omitempty"`
	H     float64 `json:"h,omitempty"`
}

type eventResp struct {
	Handled bool           `json:"handled"`
	Open    bool           `json:"open"`
	Result  *puzzle.Result `json:"result,omitempty"`
}

// ============================================================
// ** handlers **
// ============================================================

// Open 建立 session：解析題目來源、掛上新舞台。
func (h *SessionHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req openReq
	if err := decodeBody(r.Body, &req); err != nil {
		httperr.Errs(w, err)
		return
	}

	h.mu.Lock()
	if len(h.sessions) >= h.cap {
		h.mu.Unlock()
		httperr.Errs(w, errs.NewWarn("session capacity reached"))
		return
	}
	h.mu.Unlock()

	sw, sh := req.W, req.H
	if sw <= 0 {
		sw = defaultStageW
	}
	if sh <= 0 {
		sh = defaultStageH
	}
	stage := ui.NewStage(ui.R(0, 0, sw, sh))

	s := &session{stage: stage}
	runner, err := h.lab.NewRunner(puzzlelab.RunnerParams{
		Pack:    req.Pack,
		Ref:     req.Ref,
		Config:  req.Config,
		Options: req.Options,
		Seed:    req.Seed,
		OnResolve: func(res puzzle.Result) {
			// 與事件注入同一臨界區內觸發；只記下終局結果
			s.final = &res
		},
	})
	if err != nil {
		httperr.Log(h.log, "open session", err)
		httperr.Errs(w, err)
		return
	}
	if err := runner.MountInto(stage, stage.Area()); err != nil {
		httperr.Errs(w, err)
		return
	}
	s.runner = runner

	id := uuid.NewString()
	h.mu.Lock()
	h.sessions[id] = s
	h.mu.Unlock()

	writeJSON(w, http.StatusCreated, openResp{SessionID: id})
}

// State 回傳 session 的節點樹快照與開啟/終局狀態。
func (h *SessionHandler) State(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tree, err := json.Marshal(s.stage.Root())
	if err != nil {
		httperr.Errs(w, errs.Wrap(err, "marshal stage tree"))
		return
	}
	writeJSON(w, http.StatusOK, stateResp{
		SessionID: id,
		Open:      s.final == nil,
		Result:    s.final,
		Tree:      tree,
	})
}

// Event 注入一個舞台事件。
func (h *SessionHandler) Event(w http.ResponseWriter, r *http.Request) {
	_, s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var ev eventReq
	if err := decodeBody(r.Body, &ev); err != nil {
		httperr.Errs(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	handled := true
	switch ev.Type {
	case "click":
		handled = s.stage.Click(ev.Id)
	case "input":
		handled = s.stage.Input(ev.Id, ev.Value)
	case "down":
		handled = s.stage.PointerDown(ui.Point{X: ev.X, Y: ev.Y})
	case "move":
		s.stage.PointerMove(ui.Point{X: ev.X, Y: ev.Y})
	case "up":
		s.stage.PointerUp(ui.Point{X: ev.X, Y: ev.Y})
	case "resize":
		s.stage.Resize(ui.R(0, 0, ev.W, ev.H))
	default:
		httperr.Errs(w, errs.NewWarn("unknown event type: "+ev.Type))
		return
	}
	writeJSON(w, http.StatusOK, eventResp{
		Handled: handled,
		Open:    s.final == nil,
		Result:  s.final,
	})
}

// Submit 觸發一次評估（OnOk）。
func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	_, s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.runner.Submit()
	writeJSON(w, http.StatusOK, eventResp{
		Handled: true,
		Open:    s.final == nil,
		Result:  &res,
	})
}

// Cancel 送出 reason="cancel" 的終局失敗；puzzle 留在場上直到 DELETE。
func (h *SessionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	_, s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runner.Cancel()
	writeJSON(w, http.StatusOK, eventResp{
		Handled: true,
		Open:    false,
		Result:  s.final,
	})
}

// Close 卸載並移除 session。冪等：不存在回 404。
func (h *SessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.mu.Lock()
	s, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.mu.Lock()
	s.runner.Unmount()
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

// ============================================================
// ** 小工具 **
// ============================================================

func (h *SessionHandler) lookup(w http.ResponseWriter, r *http.Request) (string, *session, bool) {
	id := chi.URLParam(r, "id")
	h.mu.Lock()
	s, ok := h.sessions[id]
	h.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return "", nil, false
	}
	return id, s, true
}

func decodeBody(body io.Reader, dst any) error {
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		return errs.NewWarn("can not decode request body: " + err.Error())
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
