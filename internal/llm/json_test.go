package llm

import "testing"

func TestExtractJSONPlain(t *testing.T) {
	var out map[string]string
	if err := ExtractJSON(`{"a": "b"}`, &out); err != nil {
		t.Fatalf("ExtractJSON: %v", err)
	}
	if out["a"] != "b" {
		t.Errorf("unexpected result: %v", out)
	}
}

func TestExtractJSONFenced(t *testing.T) {
	content := "```json\n{\"jurisdiction\": \"California\"}\n```"
	var out map[string]string
	if err := ExtractJSON(content, &out); err != nil {
		t.Fatalf("ExtractJSON: %v", err)
	}
	if out["jurisdiction"] != "California" {
		t.Errorf("unexpected result: %v", out)
	}
}

func TestExtractJSONBareFence(t *testing.T) {
	content := "```\n{\"k\": \"v\"}\n```"
	var out map[string]string
	if err := ExtractJSON(content, &out); err != nil {
		t.Fatalf("ExtractJSON: %v", err)
	}
	if out["k"] != "v" {
		t.Errorf("unexpected result: %v", out)
	}
}

func TestExtractJSONInvalid(t *testing.T) {
	var out map[string]string
	if err := ExtractJSON("I cannot produce JSON for that.", &out); err == nil {
		t.Error("expected error for non-JSON reply")
	}
}
