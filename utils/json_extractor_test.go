package utils

import (
	"errors"
	"testing"
)

func TestExtractJSONFromMarkdownFence(t *testing.T) {
	response := "```json\n{\"summary\": \"likely topics\", \"count\": 3}\n```"

	got, err := ExtractJSON(response)
	if err != nil {
		t.Fatalf("ExtractJSON returned error: %v", err)
	}
	if got != `{"summary": "likely topics", "count": 3}` {
		t.Errorf("got %q", got)
	}
}

func TestExtractJSONEmbeddedInProse(t *testing.T) {
	response := `Here is the prediction you asked for:

{"questions": [{"text": "Explain paging?", "probability": 0.8}]}

Let me know if you need anything else.`

	got, err := ExtractJSON(response)
	if err != nil {
		t.Fatalf("ExtractJSON returned error: %v", err)
	}
	if got != `{"questions": [{"text": "Explain paging?", "probability": 0.8}]}` {
		t.Errorf("got %q", got)
	}
}

func TestExtractJSONHandlesBracesInsideStrings(t *testing.T) {
	response := `{"text": "use {braces} and \"quotes\" freely", "ok": true} trailing garbage`

	got, err := ExtractJSON(response)
	if err != nil {
		t.Fatalf("ExtractJSON returned error: %v", err)
	}
	if got != `{"text": "use {braces} and \"quotes\" freely", "ok": true}` {
		t.Errorf("got %q", got)
	}
}

func TestExtractJSONArray(t *testing.T) {
	response := "The list: [1, 2, 3]"

	got, err := ExtractJSON(response)
	if err != nil {
		t.Fatalf("ExtractJSON returned error: %v", err)
	}
	if got != "[1, 2, 3]" {
		t.Errorf("got %q", got)
	}
}

func TestExtractJSONNoJSON(t *testing.T) {
	for _, response := range []string{"", "no json here at all", "{broken"} {
		if _, err := ExtractJSON(response); !errors.Is(err, ErrNoJSONFound) {
			t.Errorf("ExtractJSON(%q) error = %v, want ErrNoJSONFound", response, err)
		}
	}
}

func TestExtractJSONTo(t *testing.T) {
	var target struct {
		Summary string `json:"summary"`
		Count   int    `json:"count"`
	}

	err := ExtractJSONTo("```json\n{\"summary\": \"ok\", \"count\": 7}\n```", &target)
	if err != nil {
		t.Fatalf("ExtractJSONTo returned error: %v", err)
	}
	if target.Summary != "ok" || target.Count != 7 {
		t.Errorf("decoded %+v", target)
	}
}
