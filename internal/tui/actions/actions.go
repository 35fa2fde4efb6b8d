package actions

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"readlist/internal/feedapi"
	"readlist/internal/readstate"
)

type Service interface {
	Refresh(ctx context.Context) ([]feedapi.Article, error)
	ListCached(ctx context.Context, limit int) ([]feedapi.Article, error)
}

type ReadStore interface {
	Load(ctx context.Context) error
	MarkRead(ctx context.Context, link string) (readstate.Result, error)
	Toggle(ctx context.Context, link string) (readstate.Result, error)
	ToggleAll(ctx context.Context, links []string) readstate.BatchResult
}

type RefreshSuccessMsg struct {
	Articles []feedapi.Article
	Duration time.Duration
	Source   string
}

type RefreshErrorMsg struct {
	Err      error
	Duration time.Duration
	Source   string
}

type CacheLoadedMsg struct {
	Articles []feedapi.Article
	Err      error
}

type ReadSetLoadedMsg struct {
	Err error
}

type ToggleReadDoneMsg struct {
	Result readstate.Result
	Err    error
}

type MarkAllDoneMsg struct {
	Result readstate.BatchResult
}

type RenderStepMsg struct {
	Gen int
}

type ClearStatusMsg struct {
	ID int
}

type OpenURLSuccessMsg struct {
	Status string
	Link   string
	Opened bool
}

type OpenURLErrorMsg struct {
	Err error
}

func RefreshCmd(service Service, source string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		start := time.Now()

		articles, err := service.Refresh(ctx)
		if err != nil {
			return RefreshErrorMsg{Err: err, Duration: time.Since(start), Source: source}
		}
		return RefreshSuccessMsg{Articles: articles, Duration: time.Since(start), Source: source}
	}
}

func LoadCacheCmd(service Service, limit int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		articles, err := service.ListCached(ctx, limit)
		return CacheLoadedMsg{Articles: articles, Err: err}
	}
}

func LoadReadSetCmd(store ReadStore) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return ReadSetLoadedMsg{Err: store.Load(ctx)}
	}
}

// ToggleReadCmd flips the read status of one article.
func ToggleReadCmd(store ReadStore, link string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		result, err := store.Toggle(ctx, link)
		return ToggleReadDoneMsg{Result: result, Err: err}
	}
}

// MarkReadCmd marks one article read, used by the read-on-focus policy. The
// store skips it when already read or mid-toggle.
func MarkReadCmd(store ReadStore, link string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		result, err := store.MarkRead(ctx, link)
		return ToggleReadDoneMsg{Result: result, Err: err}
	}
}

func MarkAllCmd(store ReadStore, links []string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return MarkAllDoneMsg{Result: store.ToggleAll(ctx, links)}
	}
}

// RenderStepCmd yields to the event loop before the next batch is appended.
func RenderStepCmd(gen int) tea.Cmd {
	return func() tea.Msg {
		return RenderStepMsg{Gen: gen}
	}
}

func ClearStatusCmd(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return ClearStatusMsg{ID: id}
	})
}

func OpenURLCmd(link, url string, openFn, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if openFn != nil {
			if err := openFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Opened URL in browser", Link: link, Opened: true}
			}
		}
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Could not open browser, URL copied to clipboard", Link: link}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not open URL or copy to clipboard")}
	}
}
