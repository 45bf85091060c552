package server

import (
	"encoding/json"
	"net/http"
)

type insightReq struct {
	SourceID string `json:"source_id"`
}

type insightResp struct {
	SourceID string `json:"source_id"`
	Insight  string `json:"insight"`
}

// handleInsight produces an advisory summary for one source document. The
// analyzer swallows provider failures, so the only error paths here are an
// unknown source and a busy workspace.
func (s *Server) handleInsight(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req insightReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.SourceID == "" {
		http.Error(w, "missing source_id", http.StatusBadRequest)
		return
	}
	src, ok := s.deps.Workspace.Source(req.SourceID)
	if !ok {
		http.Error(w, "unknown source", http.StatusNotFound)
		return
	}
	if err := s.deps.Workspace.TryBegin("insight"); err != nil {
		writeDomainError(w, err)
		return
	}
	defer s.deps.Workspace.End()

	text := s.deps.Analyzer.Analyze(r.Context(), src.Name, src.Data)
	s.deps.Workspace.SetInsight(text)
	writeJSON(w, http.StatusOK, insightResp{SourceID: src.ID, Insight: text})
}
