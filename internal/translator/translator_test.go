package translator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func saveGlossary(t *testing.T, path string, g Glossary) {
	t.Helper()
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		t.Fatalf("marshal glossary: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write glossary: %v", err)
	}
}

func TestDetect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/detect" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Ocp-Apim-Subscription-Key") != "k" {
			t.Error("missing subscription key header")
		}
		var items []textItem
		if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if len(items) != 1 || items[0].Text != "bonjour le monde" {
			t.Errorf("unexpected body: %+v", items)
		}
		json.NewEncoder(w).Encode([]map[string]any{{"language": "fr", "score": 0.99}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", "westeurope")
	lang, err := c.Detect(context.Background(), "bonjour le monde")
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if lang != "fr" {
		t.Errorf("expected fr, got %q", lang)
	}
}

func TestTranslate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/translate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("to"); got != "hi" {
			t.Errorf("expected to=hi, got %q", got)
		}
		json.NewEncoder(w).Encode([]map[string]any{
			{"translations": []map[string]string{{"text": "अनुबंध", "to": "hi"}}},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", "")
	out, err := c.Translate(context.Background(), "contract", "hi")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if out != "अनुबंध" {
		t.Errorf("unexpected translation %q", out)
	}
}

func TestTranslateServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":401000,"message":"invalid key"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad", "")
	if _, err := c.Translate(context.Background(), "text", "fr"); err == nil {
		t.Error("expected error from 401 response")
	}
}

func TestGlossaryApply(t *testing.T) {
	g := Glossary{
		"indemnification": "क्षतिपूर्ति",
		"force majeure":   "अप्रत्याशित घटना",
	}

	in := "The indemnification clause survives force majeure events."
	out := g.Apply(in)

	want := "The क्षतिपूर्ति clause survives अप्रत्याशित घटना events."
	if out != want {
		t.Errorf("Apply() = %q, want %q", out, want)
	}
}

func TestGlossaryApplyEmpty(t *testing.T) {
	g := Glossary{}
	if out := g.Apply("unchanged text"); out != "unchanged text" {
		t.Errorf("empty glossary modified text: %q", out)
	}
}

func TestLoadGlossaryMissingFileDegrades(t *testing.T) {
	g := LoadGlossary(filepath.Join(t.TempDir(), "nope.json"))
	if len(g) != 0 {
		t.Errorf("expected empty glossary, got %d entries", len(g))
	}
	if out := g.Apply("text"); out != "text" {
		t.Errorf("expected passthrough, got %q", out)
	}
}

func TestLoadGlossaryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glossary.json")
	orig := Glossary{"plaintiff": "वादी"}

	saveGlossary(t, path, orig)

	loaded := LoadGlossary(path)
	if loaded["plaintiff"] != "वादी" {
		t.Errorf("round trip lost entry: %v", loaded)
	}
}
