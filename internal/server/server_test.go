package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"legalflow/internal/blobstore"
	"legalflow/internal/llm"
	"legalflow/internal/workflow"
)

type stubProvider struct {
	label string
}

func (s *stubProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return &llm.CompletionResponse{Content: s.label}, nil
}

func (s *stubProvider) Name() string { return "stub" }

func newTestServer(t *testing.T, label string, h workflow.Handler) *Server {
	t.Helper()
	wf := workflow.New(workflow.NewClassifier(&stubProvider{label: label}))
	if h != nil {
		wf.Register(workflow.Label(label), h)
	}
	store, err := blobstore.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	return New(Config{Port: 0}, wf, store)
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t, "case_search", nil)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestInvokeDispatches(t *testing.T) {
	handler := workflow.HandlerFunc(func(ctx context.Context, req *workflow.Request) (any, error) {
		return map[string]string{"echo": req.UserInput}, nil
	})
	srv := newTestServer(t, "case_search", handler)

	body := strings.NewReader(`{"user_input": "find cases about breach of contract"}`)
	req := httptest.NewRequest("POST", "/invoke", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Classification string `json:"classification"`
		Result         struct {
			Echo string `json:"echo"`
		} `json:"result"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Classification != "case_search" {
		t.Errorf("expected classification case_search, got %q", resp.Classification)
	}
	if resp.Result.Echo != "find cases about breach of contract" {
		t.Errorf("unexpected result: %+v", resp.Result)
	}
}

func TestInvokeMissingUserInput(t *testing.T) {
	srv := newTestServer(t, "case_search", nil)

	req := httptest.NewRequest("POST", "/invoke", strings.NewReader(`{"user_input": "  "}`))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var body map[string]string
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["error"] == "" {
		t.Error("expected error message in body")
	}
}

func TestInvokeBadJSON(t *testing.T) {
	srv := newTestServer(t, "case_search", nil)

	req := httptest.NewRequest("POST", "/invoke", strings.NewReader("not json"))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestInvokeNoRoute(t *testing.T) {
	// Classifier resolves a valid label but no handler is registered for it.
	srv := newTestServer(t, "verdict_prediction", nil)

	req := httptest.NewRequest("POST", "/invoke", strings.NewReader(`{"user_input": "predict the verdict"}`))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUpload(t *testing.T) {
	srv := newTestServer(t, "case_search", nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "contract.pdf")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	io.WriteString(fw, "contract bytes")
	mw.Close()

	req := httptest.NewRequest("POST", "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["document"] != "contract.pdf" {
		t.Errorf("expected document name, got %q", body["document"])
	}

	rc, err := srv.documents.Download(context.Background(), "contract.pdf")
	if err != nil {
		t.Fatalf("stored document missing: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "contract bytes" {
		t.Errorf("stored content mismatch: %q", data)
	}
}

func TestUploadMissingFile(t *testing.T) {
	srv := newTestServer(t, "case_search", nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("name", "x")
	mw.Close()

	req := httptest.NewRequest("POST", "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
