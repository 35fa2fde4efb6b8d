package feedapi

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Article is the subset of server fields required by the app. The link is
// the primary identifier; articles are immutable once loaded for a session.
type Article struct {
	Link        string
	Title       string
	AITitle     string
	Summary     string
	Description string
	Category    string
	PublishedAt time.Time
}

type articleJSON struct {
	Link        string `json:"link"`
	ID          string `json:"id"`
	Title       string `json:"title"`
	AITitle     string `json:"ai_title"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
	Category    string `json:"category"`
	PubDate     string `json:"pub_date"`
}

// UnmarshalJSON accepts either "link" or "id" as the identifier and parses
// pub_date leniently. A missing or unparseable date yields the zero time,
// which sorts as the oldest possible value.
func (a *Article) UnmarshalJSON(data []byte) error {
	var raw articleJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	link := strings.TrimSpace(raw.Link)
	if link == "" {
		link = strings.TrimSpace(raw.ID)
	}

	*a = Article{
		Link:        link,
		Title:       raw.Title,
		AITitle:     raw.AITitle,
		Summary:     raw.Summary,
		Description: raw.Description,
		Category:    strings.TrimSpace(raw.Category),
		PublishedAt: parsePubDate(raw.PubDate),
	}
	return nil
}

func parsePubDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	parsed, err := dateparse.ParseAny(raw)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

// DisplayTitle prefers the AI-generated title, falling back to the feed title.
func (a Article) DisplayTitle() string {
	if title := strings.TrimSpace(a.AITitle); title != "" {
		return title
	}
	if title := strings.TrimSpace(a.Title); title != "" {
		return title
	}
	return "Not available"
}

// DisplaySummary prefers the summary field over the raw description.
func (a Article) DisplaySummary() string {
	if summary := strings.TrimSpace(a.Summary); summary != "" {
		return summary
	}
	return strings.TrimSpace(a.Description)
}
