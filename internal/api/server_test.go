package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/mdquery/internal/config"
	"github.com/dgallion1/mdquery/internal/pipeline"
	"github.com/dgallion1/mdquery/internal/store"
)

const testAPIKey = "test-key"

func testServer(t *testing.T) *Server {
	t.Helper()

	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	cfg := config.Config{
		APIKey:           testAPIKey,
		WorkerCount:      1,
		MaxQueueSize:     10,
		MaxUploadBytes:   1 << 20,
		MinLevel:         1,
		MaxLevel:         6,
		ContentMode:      "full",
		MaxContentLength: 2000,
		JobTTL:           time.Hour,
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	orch := pipeline.NewOrchestrator(cfg, st, log)

	ctx, cancel := context.WithCancel(context.Background())
	orch.Start(ctx)
	t.Cleanup(func() {
		cancel()
		orch.Stop()
	})

	return NewServer(orch, log, cfg)
}

func doRequest(t *testing.T, s *Server, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func uploadMarkdown(t *testing.T, s *Server, filename string, content []byte) (jobID, docID string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	fw.Write(content)
	mw.Close()

	rec := doRequest(t, s, http.MethodPost, "/api/ingest", &buf, mw.FormDataContentType())
	if rec.Code != http.StatusAccepted {
		t.Fatalf("ingest status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		JobID string `json:"job_id"`
		DocID string `json:"doc_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding ingest response: %v", err)
	}
	return resp.JobID, resp.DocID
}

func waitForJob(t *testing.T, s *Server, jobID string, want pipeline.JobStatus) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		rec := doRequest(t, s, http.MethodGet, "/api/ingest/"+jobID+"/status", nil, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status endpoint = %d", rec.Code)
		}
		var resp struct {
			Status pipeline.JobStatus `json:"status"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decoding status: %v", err)
		}
		switch resp.Status {
		case want:
			return
		case pipeline.StatusFailed:
			t.Fatalf("job failed: %s", rec.Body.String())
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s did not reach %s in time", jobID, want)
}

func TestHealthIsPublic(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("health = %d", rec.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated request = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong key = %d, want 401", rec.Code)
	}
}

func TestIngestRejectsUnsupportedExtension(t *testing.T) {
	s := testServer(t)
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "doc.pdf")
	fw.Write([]byte("%PDF"))
	mw.Close()

	rec := doRequest(t, s, http.MethodPost, "/api/ingest", &buf, mw.FormDataContentType())
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestIngestAndQuery(t *testing.T) {
	s := testServer(t)
	src := []byte("# Guide\n\nintro\n\n## Install\n\n- step one\n- step two\n")

	jobID, docID := uploadMarkdown(t, s, "guide.md", src)
	waitForJob(t, s, jobID, pipeline.StatusCompleted)

	rec := doRequest(t, s, http.MethodGet, "/api/documents/"+docID+"/elements", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("elements = %d", rec.Code)
	}
	var elResp struct {
		Elements []map[string]any `json:"elements"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &elResp); err != nil {
		t.Fatalf("decoding elements: %v", err)
	}
	if len(elResp.Elements) != 4 {
		t.Errorf("got %d elements, want 4", len(elResp.Elements))
	}

	rec = doRequest(t, s, http.MethodGet, "/api/documents/"+docID+"/sections/install", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("section = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"install"`) {
		t.Errorf("section body = %s", rec.Body.String())
	}

	rec = doRequest(t, s, http.MethodGet, "/api/documents/"+docID+"/toc", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("toc = %d", rec.Code)
	}
	var tocResp struct {
		TOC []map[string]any `json:"toc"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &tocResp); err != nil {
		t.Fatalf("decoding toc: %v", err)
	}
	if len(tocResp.TOC) != 2 {
		t.Errorf("toc entries = %d, want 2", len(tocResp.TOC))
	}

	rec = doRequest(t, s, http.MethodGet, "/api/documents/"+docID+"/stats", nil, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "word_count") {
		t.Errorf("stats = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, s, http.MethodGet, "/api/documents/"+docID+"/markdown", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("markdown = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "# Guide") || !strings.Contains(rec.Body.String(), "- step one") {
		t.Errorf("markdown body = %q", rec.Body.String())
	}
}

func TestDeleteDocument(t *testing.T) {
	s := testServer(t)
	jobID, docID := uploadMarkdown(t, s, "a.md", []byte("# A\n\ntext\n"))
	waitForJob(t, s, jobID, pipeline.StatusCompleted)

	rec := doRequest(t, s, http.MethodDelete, "/api/documents/"+docID, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete = %d", rec.Code)
	}
	rec = doRequest(t, s, http.MethodDelete, "/api/documents/"+docID, nil, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", rec.Code)
	}
}

func TestRenderEndpoint(t *testing.T) {
	s := testServer(t)
	body := `{"elements": [
		{"kind": "block", "element_type": "heading", "content": "Title", "level": 2, "encoding": "text", "element_order": 1},
		{"kind": "block", "element_type": "list", "content": "[\"a\", \"b\"]", "level": 1, "encoding": "json", "attributes": {"ordered": "false"}, "element_order": 2}
	]}`

	rec := doRequest(t, s, http.MethodPost, "/api/render", strings.NewReader(body), "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("render = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Markdown string `json:"markdown"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding render response: %v", err)
	}
	if resp.Markdown != "## Title\n\n- a\n- b\n\n" {
		t.Errorf("markdown = %q", resp.Markdown)
	}
}
