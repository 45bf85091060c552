package server

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/local/pagedeck/internal/metrics"
	"github.com/local/pagedeck/internal/thumbs"
)

// handleThumbnail serves the JPEG preview for one page reference,
// rendering on a cache miss. The cache key includes the current rotation,
// so a freshly rotated page renders anew instead of serving stale.
func (s *Server) handleThumbnail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/thumbnail/")
	if id == "" {
		http.Error(w, "missing page ref id", http.StatusBadRequest)
		return
	}

	ref, ok := s.deps.Workspace.Page(id)
	if !ok {
		http.Error(w, "unknown page ref", http.StatusNotFound)
		return
	}
	src, ok := s.deps.Workspace.Source(ref.SourceID)
	if !ok {
		http.Error(w, "source missing", http.StatusNotFound)
		return
	}

	key := thumbs.CacheKey(ref.ID, ref.Rotation)
	if data, hit, err := s.deps.ThumbCache.Get(r.Context(), key); err == nil && hit {
		metrics.IncRender("hit")
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(data)
		return
	}

	data, err := s.deps.Renderer.Render(src.Data, ref.PageIndex, ref.Rotation)
	if err != nil {
		metrics.IncRender("failed")
		log.Warn().Err(err).Str("page_ref", id).Msg("thumbnail render failed")
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	metrics.IncRender("rendered")
	if err := s.deps.ThumbCache.Set(r.Context(), key, data); err != nil {
		log.Warn().Err(err).Str("page_ref", id).Msg("thumbnail cache store failed")
	}

	w.Header().Set("Content-Type", "image/jpeg")
	_, _ = w.Write(data)
}
