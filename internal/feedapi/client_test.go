package feedapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestListArticles_BareArray(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/feeds" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"link":"https://example.com/1","title":"First","category":"Tech","pub_date":"2026-02-01T00:00:00Z"}]`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, ts.Client())
	articles, err := c.ListArticles(context.Background())
	if err != nil {
		t.Fatalf("ListArticles returned error: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}
	if articles[0].Link != "https://example.com/1" {
		t.Fatalf("unexpected link: %s", articles[0].Link)
	}
	want := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	if !articles[0].PublishedAt.Equal(want) {
		t.Fatalf("unexpected date: %v", articles[0].PublishedAt)
	}
}

func TestListArticles_DataEnvelope(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"link":"a"},{"link":"b"}]}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, ts.Client())
	articles, err := c.ListArticles(context.Background())
	if err != nil {
		t.Fatalf("ListArticles returned error: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
}

func TestListArticles_MalformedShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"scalar body", `"nope"`},
		{"object without data", `{"items":[]}`},
		{"empty body", ``},
		{"broken json", `[{"link":`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			}))
			defer ts.Close()

			c := NewClient(ts.URL, ts.Client())
			_, err := c.ListArticles(context.Background())
			var malformed *MalformedResponseError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected MalformedResponseError, got %v", err)
			}
		})
	}
}

func TestListArticles_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, ts.Client())
	_, err := c.ListArticles(context.Background())
	if err == nil {
		t.Fatal("expected error on 500")
	}
	var malformed *MalformedResponseError
	if errors.As(err, &malformed) {
		t.Fatal("transport failure must not be reported as malformed payload")
	}
}

func TestListReadLinks(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/articles/read" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodGet {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		_, _ = w.Write([]byte(`{"read_articles":["a","b"]}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, ts.Client())
	links, err := c.ListReadLinks(context.Background())
	if err != nil {
		t.Fatalf("ListReadLinks returned error: %v", err)
	}
	if len(links) != 2 || links[0] != "a" {
		t.Fatalf("unexpected links: %v", links)
	}
}

func TestToggleRead_PostsLinkAndParsesResult(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		body, _ := io.ReadAll(r.Body)
		var req map[string]string
		if err := json.Unmarshal(body, &req); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		if req["link"] != "https://example.com/1" {
			t.Fatalf("unexpected link: %s", req["link"])
		}
		_, _ = w.Write([]byte(`{"is_read":true,"link":"https://example.com/1"}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, ts.Client())
	read, err := c.ToggleRead(context.Background(), "https://example.com/1")
	if err != nil {
		t.Fatalf("ToggleRead returned error: %v", err)
	}
	if !read {
		t.Fatal("expected is_read true")
	}
}

func TestToggleRead_MissingIsReadIsMalformed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"link":"x"}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, ts.Client())
	_, err := c.ToggleRead(context.Background(), "x")
	var malformed *MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedResponseError, got %v", err)
	}
}

func TestArticle_UnmarshalFallbacks(t *testing.T) {
	var a Article
	payload := `{"id":"ident-1","ai_title":"AI","title":"Plain","pub_date":"not a date"}`
	if err := json.Unmarshal([]byte(payload), &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if a.Link != "ident-1" {
		t.Fatalf("id fallback failed, link = %q", a.Link)
	}
	if !a.PublishedAt.IsZero() {
		t.Fatalf("unparseable date should be zero, got %v", a.PublishedAt)
	}
	if a.DisplayTitle() != "AI" {
		t.Fatalf("DisplayTitle = %q", a.DisplayTitle())
	}
}

func TestArticle_DisplayHelpers(t *testing.T) {
	a := Article{Title: "Plain", Description: "desc"}
	if a.DisplayTitle() != "Plain" {
		t.Fatalf("DisplayTitle = %q", a.DisplayTitle())
	}
	if a.DisplaySummary() != "desc" {
		t.Fatalf("DisplaySummary = %q", a.DisplaySummary())
	}
	empty := Article{}
	if empty.DisplayTitle() != "Not available" {
		t.Fatalf("empty DisplayTitle = %q", empty.DisplayTitle())
	}
}
