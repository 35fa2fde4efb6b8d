package view

import (
	"strings"
	"testing"
	"time"

	"readlist/internal/feedapi"
	tuitheme "readlist/internal/tui/theme"
)

func TestRenderArticleLine_Basics(t *testing.T) {
	th := tuitheme.Default()
	line, err := RenderArticleLine(ArticleLineParams{
		Article: feedapi.Article{
			Link:        "https://example.com/1",
			Title:       "Hello",
			Summary:     "<p>World</p>",
			PublishedAt: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		},
		Width: 60,
	}, th)
	if err != nil {
		t.Fatalf("RenderArticleLine returned error: %v", err)
	}

	plain := stripANSIText(line)
	if !strings.Contains(plain, "Hello · World") {
		t.Fatalf("line missing title/summary: %q", plain)
	}
	if !strings.Contains(plain, "[14/03/2026]") {
		t.Fatalf("line missing date column: %q", plain)
	}
	if !strings.Contains(plain, "•") {
		t.Fatalf("unread marker missing: %q", plain)
	}
}

func TestRenderArticleLine_ReadAndMissingDate(t *testing.T) {
	th := tuitheme.Default()
	line, err := RenderArticleLine(ArticleLineParams{
		Article: feedapi.Article{Link: "x", Title: "T"},
		Read:    true,
		Width:   60,
	}, th)
	if err != nil {
		t.Fatalf("RenderArticleLine returned error: %v", err)
	}
	plain := stripANSIText(line)
	if strings.Contains(plain, "•") {
		t.Fatalf("read article should not carry the unread marker: %q", plain)
	}
	if !strings.Contains(plain, "[Not available]") {
		t.Fatalf("missing date label absent: %q", plain)
	}
}

func TestRenderArticleLine_NoIdentifierFails(t *testing.T) {
	th := tuitheme.Default()
	if _, err := RenderArticleLine(ArticleLineParams{Article: feedapi.Article{Title: "T"}, Width: 60}, th); err == nil {
		t.Fatal("expected error for article without identifier")
	}
}

func TestRenderCategoryLine(t *testing.T) {
	th := tuitheme.Default()
	line := RenderCategoryLine("News", true, false, 7, 30, th)
	plain := stripANSIText(line)
	if !strings.Contains(plain, "★") || !strings.Contains(plain, "News") || !strings.Contains(plain, "7") {
		t.Fatalf("unexpected category line: %q", plain)
	}
}

func TestFooterAndMessage(t *testing.T) {
	th := tuitheme.Default()

	footer := stripANSIText(Footer("Tech", true, "newest", 12, 40, th))
	for _, want := range []string{"Tech", "unread", "newest", "12/40 shown"} {
		if !strings.Contains(footer, want) {
			t.Fatalf("footer missing %q: %q", want, footer)
		}
	}

	msg := stripANSIText(Message(false, "", nil, th))
	if !strings.Contains(msg, "idle") {
		t.Fatalf("idle message = %q", msg)
	}
	msg = stripANSIText(Message(true, "", nil, th))
	if !strings.Contains(msg, "loading") {
		t.Fatalf("loading message = %q", msg)
	}
}
