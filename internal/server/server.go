package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/local/pagedeck/internal/assembly"
	"github.com/local/pagedeck/internal/config"
	"github.com/local/pagedeck/internal/export"
	"github.com/local/pagedeck/internal/filetype"
	"github.com/local/pagedeck/internal/insight"
	"github.com/local/pagedeck/internal/thumbs"
	"github.com/local/pagedeck/internal/workspace"
)

// Deps carries everything the HTTP surface needs. Exporter may be nil when
// S3 delivery is not configured.
type Deps struct {
	Workspace  *workspace.Workspace
	Engine     *assembly.Engine
	Detector   *filetype.Detector
	Renderer   *thumbs.Renderer
	ThumbCache thumbs.Cache
	Prefetch   *thumbs.Pool
	Analyzer   *insight.Analyzer
	Exporter   *export.S3Exporter
	Upload     config.UploadConfig
}

// Server exposes the page workspace over HTTP.
type Server struct {
	deps Deps
}

func New(deps Deps) *Server {
	return &Server{deps: deps}
}

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK); _, _ = w.Write([]byte("ok")) })
	mux.HandleFunc("/api/workspace", s.handleWorkspace)
	mux.HandleFunc("/api/sources", s.handleUpload)
	mux.HandleFunc("/api/pages/rotate", s.handleRotate)
	mux.HandleFunc("/api/pages/delete", s.handleDelete)
	mux.HandleFunc("/api/reorder", s.handleReorder)
	mux.HandleFunc("/api/clear", s.handleClear)
	mux.HandleFunc("/api/merge", s.handleMerge)
	mux.HandleFunc("/api/split", s.handleSplit)
	mux.HandleFunc("/api/thumbnail/", s.handleThumbnail)
	mux.HandleFunc("/api/insight", s.handleInsight)
}

type sourceInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	PageCount int    `json:"page_count"`
}

type stateResp struct {
	Pages   []workspace.PageReference `json:"pages"`
	Sources []sourceInfo              `json:"sources"`
	Busy    string                    `json:"busy,omitempty"`
	Insight string                    `json:"insight,omitempty"`
}

func (s *Server) handleWorkspace(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	snap := s.deps.Workspace.Snapshot()
	resp := stateResp{Pages: snap.Pages, Sources: make([]sourceInfo, 0, len(snap.Sources))}
	for _, d := range snap.Sources {
		resp.Sources = append(resp.Sources, sourceInfo{ID: d.ID, Name: d.Name, Size: d.Size, PageCount: d.PageCount})
	}
	if op, busy := s.deps.Workspace.Busy(); busy {
		resp.Busy = op
	}
	resp.Insight = s.deps.Workspace.Insight()
	writeJSON(w, http.StatusOK, resp)
}

type rotateReq struct {
	PageID string `json:"page_id"`
	Delta  int    `json:"delta"`
}

func (s *Server) handleRotate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req rotateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.PageID == "" {
		http.Error(w, "missing page_id", http.StatusBadRequest)
		return
	}
	if req.Delta == 0 {
		req.Delta = 90
	}
	if err := s.deps.Workspace.RotatePage(req.PageID, req.Delta); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type deleteReq struct {
	PageID string `json:"page_id"`
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req deleteReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.PageID == "" {
		http.Error(w, "missing page_id", http.StatusBadRequest)
		return
	}
	// Idempotent: deleting an unknown id is still 204.
	s.deps.Workspace.RemovePage(req.PageID)
	w.WriteHeader(http.StatusNoContent)
}

type reorderReq struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req reorderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := s.deps.Workspace.Reorder(req.From, req.To); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.deps.Workspace.Clear()
	if mc, ok := s.deps.ThumbCache.(*thumbs.MemoryCache); ok {
		mc.Purge()
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDomainError maps workspace error kinds onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	var busy *workspace.BusyError
	var rng *workspace.RangeError
	switch {
	case errors.As(err, &busy):
		http.Error(w, busy.Error(), http.StatusConflict)
	case errors.As(err, &rng):
		http.Error(w, rng.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
