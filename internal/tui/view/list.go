package view

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"readlist/internal/feedapi"
	"readlist/internal/render/summary"
	tuitheme "readlist/internal/tui/theme"
)

var reANSICodes = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// ArticleLineParams describes one list row. Read styling and the date
// column follow the original web list; the summary is flattened to fill the
// remaining width.
type ArticleLineParams struct {
	Article feedapi.Article
	Read    bool
	Width   int
}

func RenderArticleLine(p ArticleLineParams, th tuitheme.Theme) (string, error) {
	if strings.TrimSpace(p.Article.Link) == "" {
		return "", fmt.Errorf("article has no identifier")
	}

	marker := "•"
	if p.Read {
		marker = " "
	}
	prefix := " " + marker + " "

	dateLabel := "[" + formatArticleDate(p.Article.PublishedAt) + "]"
	available := p.Width - visibleLen(prefix) - 1 - visibleLen(dateLabel)
	if available < 1 {
		available = 1
	}

	label := p.Article.DisplayTitle()
	if flat := summary.Flatten(p.Article.DisplaySummary()); flat != "" {
		label = label + " · " + flat
	}
	label = summary.Truncate(label, available)

	styled := th.StyleArticleTitle(p.Read, label)
	gap := p.Width - visibleLen(prefix) - visibleLen(label) - visibleLen(dateLabel)
	if gap < 1 {
		gap = 1
	}
	return prefix + styled + strings.Repeat(" ", gap) + dateLabel, nil
}

func formatArticleDate(t time.Time) string {
	if t.IsZero() {
		return "Not available"
	}
	return t.UTC().Format("02/01/2006")
}

// RenderCategoryLine renders one sidebar row: favorite star, name, unread
// count.
func RenderCategoryLine(name string, favorite, active bool, unread, width int, th tuitheme.Theme) string {
	star := "  "
	if favorite {
		star = th.Favorite.Render("★") + " "
	}
	left := " " + star + name
	right := th.UnreadCount.Render(fmt.Sprintf("%d", unread))

	available := width - visibleLen(right) - 1
	if available < 1 {
		available = 1
	}
	left = summary.Truncate(left, available)
	gap := width - visibleLen(left) - visibleLen(right)
	if gap < 1 {
		gap = 1
	}
	return th.RenderActiveLine(active, left+strings.Repeat(" ", gap)+right)
}

// Blankslate is the placeholder shown instead of the article list.
func Blankslate(title, body string, th tuitheme.Theme) string {
	return th.Section.Render(title) + "\n" + th.Blankslate.Render(body)
}

func Toolbar(searching bool) string {
	if searching {
		return "enter/esc: close search | typing filters by title"
	}
	return "tab: pane | n/k: next/prev article | enter/o: open | m: toggle read | A: mark all | u: unread only | s: sort | f: favorite | [ ]: reorder | /: search | r: refresh | q: quit"
}

func Footer(category string, unreadOnly bool, sortDir string, shown, total int, th tuitheme.Theme) string {
	if category == "" {
		category = "none"
	}
	filter := "all"
	if unreadOnly {
		filter = "unread"
	}
	parts := []string{
		th.MetaLabel.Render("category") + " " + th.MetaValue.Render(category),
		th.MetaLabel.Render("filter") + " " + th.MetaValue.Render(filter),
		th.MetaLabel.Render("sort") + " " + th.MetaValue.Render(sortDir),
		th.MetaValue.Render(fmt.Sprintf("%d/%d shown", shown, total)),
	}
	return strings.Join(parts, " • ")
}

func Message(loading bool, status string, err error, th tuitheme.Theme) string {
	stateLabel := th.StateIdle.Render("state")
	state := "idle"
	main := "Ready"
	switch {
	case err != nil:
		stateLabel = th.StateWarn.Render("state")
		state = "warning"
		main = err.Error()
	case loading:
		stateLabel = th.StateLoad.Render("state")
		state = "loading"
		main = "Working..."
	}
	if status != "" {
		main = status
	}
	return fmt.Sprintf("%s: %s | %s", stateLabel, state, th.MetaValue.Render(main))
}

func visibleLen(s string) int {
	return utf8.RuneCountInString(stripANSIText(s))
}

func stripANSIText(s string) string {
	return reANSICodes.ReplaceAllString(s, "")
}
