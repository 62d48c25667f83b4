package main

import (
	"strings"
	"testing"

	"github.com/kitbuilder587/isou-search-bot/internal/search"
)

func TestFormatResult(t *testing.T) {
	result := &search.SearchResult{
		Answer:  "The AQI in Delhi is 152.",
		Related: "What does AQI measure?",
		Images: []search.ImageResult{
			{
				ID:        "img-1",
				Name:      "AQI chart",
				Source:    "bing",
				URL:       "https://example.com/page",
				Img:       "https://example.com/chart.png",
				Thumbnail: "https://example.com/thumb.png",
				Snippet:   "Air quality chart",
				Engine:    "bing images",
			},
		},
	}

	got := formatResult(result, false)

	if !strings.Contains(got, "Answer: The AQI in Delhi is 152.") {
		t.Error("formatResult() should contain answer line")
	}
	if !strings.Contains(got, "Related: What does AQI measure?") {
		t.Error("formatResult() should contain related line")
	}
	if !strings.Contains(got, "ID:          img-1") {
		t.Error("formatResult() should contain image ID")
	}
	if !strings.Contains(got, "Image URL:   https://example.com/chart.png") {
		t.Error("formatResult() should contain direct image URL")
	}

	separator := strings.Repeat("=", 80)
	if strings.Count(got, separator) != 2 {
		t.Errorf("formatResult() separator count = %d, want 2", strings.Count(got, separator))
	}
}

func TestFormatResult_Streamed(t *testing.T) {
	result := &search.SearchResult{
		Answer:  "streamed already",
		Related: "related text",
	}

	got := formatResult(result, true)

	if strings.Contains(got, "Answer:") {
		t.Error("formatResult(streamed) should not repeat the answer")
	}
	if !strings.Contains(got, "Related: related text") {
		t.Error("formatResult(streamed) should contain related line")
	}
}

func TestFormatResult_NoImages(t *testing.T) {
	result := &search.SearchResult{Answer: "plain answer"}

	got := formatResult(result, false)

	if strings.Contains(got, "=") {
		t.Error("formatResult() should not print separators without images")
	}
	if !strings.Contains(got, "Answer: plain answer") {
		t.Error("formatResult() should contain answer line")
	}
}

func TestVersion(t *testing.T) {
	if version != "0.1.0" {
		t.Errorf("Expected version '0.1.0', got '%s'", version)
	}
}
