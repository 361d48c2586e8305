package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/sheetsum/sheetsum/internal/analysis"
	"github.com/sheetsum/sheetsum/internal/config"
)

type stubAnalyzer struct {
	text string
	err  error
}

func (s stubAnalyzer) Analyze(ctx context.Context, digest, query string) (string, error) {
	return s.text, s.err
}

func newTestServer(analyzer analysis.Analyzer) *Server {
	return NewServer(config.Default(), analyzer, zap.NewNop())
}

func xlsxFixture(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for cell, v := range map[string]interface{}{"A1": "Name", "B1": "Score", "A2": "alice", "B2": 91} {
		if err := f.SetCellValue("Sheet1", cell, v); err != nil {
			t.Fatal(err)
		}
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func multipartUpload(t *testing.T, files map[string][]byte, order []string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, name := range order {
		fw, err := mw.CreateFormFile(uploadFieldName, name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(files[name]); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &body, mw.FormDataContentType()
}

func TestHandleUpload(t *testing.T) {
	srv := newTestServer(nil)
	body, contentType := multipartUpload(t, map[string][]byte{
		"good.xlsx": xlsxFixture(t),
		"bad.xlsx":  []byte("garbage"),
	}, []string{"good.xlsx", "bad.xlsx"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp uploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Error("batch success must be true even when one file fails")
	}
	if resp.Message != "Processed 2 files" {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if len(resp.Files) != 2 || resp.Files[0].FileName != "good.xlsx" || resp.Files[1].FileName != "bad.xlsx" {
		t.Fatalf("files must come back in upload order: %+v", resp.Files)
	}
	if resp.Files[0].Failed() {
		t.Errorf("good file failed: %s", resp.Files[0].Err)
	}
	if !resp.Files[1].Failed() {
		t.Error("corrupt file must carry an error")
	}
	if !strings.Contains(resp.Digest, "📁 FILE: good.xlsx") || !strings.Contains(resp.Digest, "❌ bad.xlsx") {
		t.Errorf("digest should render both units:\n%s", resp.Digest)
	}
}

func TestHandleUpload_noFiles(t *testing.T) {
	srv := newTestServer(nil)
	body, contentType := multipartUpload(t, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
}

func TestHandleAnalyze(t *testing.T) {
	srv := newTestServer(stubAnalyzer{text: "insightful analysis"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze",
		strings.NewReader(`{"digest": "some digest", "query": "what stands out?"}`))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	var resp map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["analysis"] != "insightful analysis" {
		t.Errorf("unexpected analysis %q", resp["analysis"])
	}
}

func TestHandleAnalyze_collaboratorFailure(t *testing.T) {
	srv := newTestServer(stubAnalyzer{err: errors.New("quota exceeded")})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze",
		strings.NewReader(`{"digest": "d"}`))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("collaborator failure must not fail the request, got %d", rec.Code)
	}
	var resp map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if !strings.Contains(resp["analysis"], "Error analyzing data") {
		t.Errorf("failure should surface as analysis text, got %q", resp["analysis"])
	}
}

func TestHandleAnalyze_unconfigured(t *testing.T) {
	srv := newTestServer(nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze",
		strings.NewReader(`{"digest": "d"}`))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400 when no analyzer is configured, got %d", rec.Code)
	}
}

func TestHandleAnalyze_missingDigest(t *testing.T) {
	srv := newTestServer(stubAnalyzer{text: "x"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
}

func TestHandleIndex(t *testing.T) {
	srv := newTestServer(nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<html") {
		t.Error("index should serve the embedded page")
	}
}
