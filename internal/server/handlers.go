package server

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"go.uber.org/zap"

	"github.com/sheetsum/sheetsum/internal/digest"
	"github.com/sheetsum/sheetsum/internal/workbook"
)

//go:embed index.html
var indexHTML []byte

// uploadFieldName is the multipart field carrying workbook files. Parts with
// this name are processed in the order they appear in the request body, which
// fixes the file order in the digest.
const uploadFieldName = "files"

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(indexHTML)
}

// uploadResponse is the upload endpoint's body. Success reports whether the
// batch itself was processable; individual files carry their own error
// markers inside Files and the digest.
type uploadResponse struct {
	Success bool                      `json:"success"`
	Message string                    `json:"message"`
	Digest  string                    `json:"digest"`
	Files   []workbook.WorkbookResult `json:"files"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxBytes := int64(s.cfg.Server.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid upload: %v", err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File[uploadFieldName]
	if len(headers) == 0 {
		s.respondError(w, http.StatusBadRequest, "no files uploaded")
		return
	}

	files := make([]workbook.File, 0, len(headers))
	for _, fh := range headers {
		files = append(files, workbook.File{Name: fh.Filename, Content: readPart(fh, s.logger)})
	}

	results := workbook.ProcessBatch(files, s.cfg.WorkbookConfig())
	text := digest.Compose(results, s.cfg.ComposerConfig())

	s.logger.Info("upload processed",
		zap.Int("files", len(files)),
		zap.Int("digest_len", len(text)),
	)
	s.respondJSON(w, http.StatusOK, uploadResponse{
		Success: true,
		Message: fmt.Sprintf("Processed %d files", len(files)),
		Digest:  text,
		Files:   results,
	})
}

// readPart reads one multipart file fully into memory. A part that cannot be
// opened or read yields nil bytes, which the loader converts into that file's
// error record; the rest of the batch is unaffected.
func readPart(fh *multipart.FileHeader, logger *zap.Logger) []byte {
	f, err := fh.Open()
	if err != nil {
		logger.Warn("open upload part failed", zap.Error(err))
		return nil
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		logger.Warn("read upload part failed", zap.Error(err))
		return nil
	}
	return content
}

type analyzeRequest struct {
	Digest string `json:"digest"`
	Query  string `json:"query"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Digest == "" {
		s.respondError(w, http.StatusBadRequest, "digest is required")
		return
	}
	if s.analyzer == nil {
		s.respondError(w, http.StatusBadRequest, "analysis service not configured: set GEMINI_API_KEY")
		return
	}
	text, err := s.analyzer.Analyze(r.Context(), req.Digest, req.Query)
	if err != nil {
		// Collaborator failures surface as analysis text, not as a request
		// failure; extraction already succeeded.
		s.logger.Error("analysis failed", zap.Error(err))
		text = fmt.Sprintf("Error analyzing data: %v", err)
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"analysis": text})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
