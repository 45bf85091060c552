package server

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/local/pagedeck/internal/metrics"
	"github.com/local/pagedeck/internal/thumbs"
)

type uploadFileResult struct {
	Name     string `json:"name"`
	SourceID string `json:"source_id,omitempty"`
	Pages    int    `json:"pages,omitempty"`
	Error    string `json:"error,omitempty"`
}

type uploadResp struct {
	Files []uploadFileResult `json:"files"`
}

// handleUpload accepts a multipart batch of PDF files. One bad file is
// reported in its slot and skipped; the rest of the batch still loads.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := s.deps.Workspace.TryBegin("upload"); err != nil {
		writeDomainError(w, err)
		return
	}
	defer s.deps.Workspace.End()

	if err := r.ParseMultipartForm(s.deps.Upload.MaxBatchMem); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		headers = r.MultipartForm.File["file"]
	}
	if len(headers) == 0 {
		http.Error(w, "missing files", http.StatusBadRequest)
		return
	}

	resp := uploadResp{Files: make([]uploadFileResult, 0, len(headers))}
	for _, hdr := range headers {
		res := uploadFileResult{Name: hdr.Filename}
		data, err := s.readUploadFile(hdr)
		if err != nil {
			res.Error = err.Error()
			metrics.IncUpload("rejected")
			log.Warn().Err(err).Str("file", hdr.Filename).Msg("upload file rejected")
			resp.Files = append(resp.Files, res)
			continue
		}
		if !s.deps.Detector.IsPDF(data) {
			res.Error = "not a PDF file"
			metrics.IncUpload("rejected")
			log.Warn().Str("file", hdr.Filename).Msg("upload rejected: not a pdf")
			resp.Files = append(resp.Files, res)
			continue
		}
		doc, err := s.deps.Workspace.AddSource(data, hdr.Filename)
		if err != nil {
			res.Error = err.Error()
			metrics.IncUpload("rejected")
			resp.Files = append(resp.Files, res)
			continue
		}
		res.SourceID = doc.ID
		res.Pages = doc.PageCount
		metrics.IncUpload("loaded")
		metrics.AddPages(doc.PageCount)
		resp.Files = append(resp.Files, res)
		s.prefetchThumbnails(doc.ID)
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) readUploadFile(hdr *multipart.FileHeader) ([]byte, error) {
	if hdr.Size > s.deps.Upload.MaxFileBytes {
		return nil, errors.New("file too large")
	}
	f, err := hdr.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, s.deps.Upload.MaxFileBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > s.deps.Upload.MaxFileBytes {
		return nil, errors.New("file too large")
	}
	return data, nil
}

// prefetchThumbnails queues background renders for every page reference of
// a freshly added source.
func (s *Server) prefetchThumbnails(sourceID string) {
	if s.deps.Prefetch == nil {
		return
	}
	snap := s.deps.Workspace.Snapshot()
	src, ok := snap.Sources[sourceID]
	if !ok {
		return
	}
	for _, ref := range snap.Pages {
		if ref.SourceID != sourceID {
			continue
		}
		s.deps.Prefetch.Enqueue(thumbs.Request{
			PageRefID:  ref.ID,
			SourceData: src.Data,
			PageIndex:  ref.PageIndex,
			Rotation:   ref.Rotation,
		})
	}
}
