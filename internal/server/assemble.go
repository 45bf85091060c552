package server

import (
	"archive/zip"
	"bytes"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/local/pagedeck/internal/metrics"
)

// handleMerge materializes the workspace into one PDF and serves it as a
// download. With ?s3=1 and a configured exporter the bytes are also
// delivered to S3; the export URL rides along in a response header.
func (s *Server) handleMerge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := s.deps.Workspace.TryBegin("merge"); err != nil {
		writeDomainError(w, err)
		return
	}
	defer s.deps.Workspace.End()

	snap := s.deps.Workspace.Snapshot()
	if len(snap.Pages) == 0 {
		http.Error(w, "workspace is empty", http.StatusBadRequest)
		return
	}

	out, err := s.deps.Engine.Merge(r.Context(), snap)
	if err != nil {
		metrics.IncAssemblyFailed("merge")
		log.Error().Err(err).Msg("merge failed")
		http.Error(w, "merge failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if r.URL.Query().Get("s3") == "1" && s.deps.Exporter != nil {
		if url, err := s.deps.Exporter.Upload(r.Context(), "merged.pdf", out, "application/pdf"); err != nil {
			log.Warn().Err(err).Msg("s3 export failed")
		} else {
			w.Header().Set("X-Export-S3-URL", url)
		}
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename=merged.pdf`)
	_, _ = w.Write(out)
}

// handleSplit materializes one single-page PDF per reference and serves
// them as a zip of page_1.pdf .. page_N.pdf (1-based).
func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := s.deps.Workspace.TryBegin("split"); err != nil {
		writeDomainError(w, err)
		return
	}
	defer s.deps.Workspace.End()

	snap := s.deps.Workspace.Snapshot()
	if len(snap.Pages) == 0 {
		http.Error(w, "workspace is empty", http.StatusBadRequest)
		return
	}

	pages, err := s.deps.Engine.SplitAll(r.Context(), snap)
	if err != nil {
		metrics.IncAssemblyFailed("split")
		log.Error().Err(err).Msg("split failed")
		http.Error(w, "split failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for i, page := range pages {
		f, err := zw.Create(fmt.Sprintf("page_%d.pdf", i+1))
		if err != nil {
			http.Error(w, "zip failed", http.StatusInternalServerError)
			return
		}
		if _, err := f.Write(page); err != nil {
			http.Error(w, "zip failed", http.StatusInternalServerError)
			return
		}
	}
	if err := zw.Close(); err != nil {
		http.Error(w, "zip failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename=pages.zip`)
	_, _ = w.Write(buf.Bytes())
}
