package render

import (
	"fmt"
	"log/slog"

	"readlist/internal/feedapi"
)

// DefaultBatchSize is how many articles each render batch converts before
// yielding back to the event loop.
const DefaultBatchSize = 50

// ItemError reports a single article that failed to convert to a display
// row. The renderer skips the item and keeps going.
type ItemError struct {
	Link string
	Err  error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("render article %q: %v", e.Link, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }

// ItemFunc converts one article to a display line.
type ItemFunc func(article feedapi.Article) (string, error)

// Row is one rendered list line, keyed by the article it came from.
type Row struct {
	Link string
	Line string
}

// ListRenderer converts an ordered article sequence into rows in fixed-size
// batches. Each call site drives it through the event loop: Begin renders
// batch 0, then the caller schedules RenderBatch once per pending batch so
// the loop stays responsive. A generation token supersedes stale runs: rows
// from an outdated Begin are never appended.
type ListRenderer struct {
	batchSize int
	logger    *slog.Logger

	gen      int
	queue    []feedapi.Article
	itemFn   ItemFunc
	next     int
	rows     []Row
	visible  []string
	complete bool
}

func NewListRenderer(batchSize int, logger *slog.Logger) *ListRenderer {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ListRenderer{batchSize: batchSize, logger: logger}
}

// Begin starts a new render over the given articles, discarding any pending
// batches of the previous run, and renders batch 0. It returns the new
// generation token; the caller passes it to RenderBatch for the remaining
// batches.
func (r *ListRenderer) Begin(articles []feedapi.Article, itemFn ItemFunc) int {
	r.gen++
	r.queue = articles
	r.itemFn = itemFn
	r.next = 0
	r.rows = r.rows[:0]
	r.visible = nil
	r.complete = false

	r.appendBatch()
	return r.gen
}

// RenderBatch appends the next batch for the given generation and reports
// whether more batches remain. Calls carrying a stale generation are no-ops.
func (r *ListRenderer) RenderBatch(gen int) bool {
	if gen != r.gen || r.complete {
		return false
	}
	r.appendBatch()
	return !r.complete
}

func (r *ListRenderer) appendBatch() {
	end := r.next + r.batchSize
	if end > len(r.queue) {
		end = len(r.queue)
	}
	for _, article := range r.queue[r.next:end] {
		line, err := r.itemFn(article)
		if err != nil {
			itemErr := &ItemError{Link: article.Link, Err: err}
			r.logger.Warn("skipping unrenderable article", "link", article.Link, "err", itemErr.Err)
			continue
		}
		r.rows = append(r.rows, Row{Link: article.Link, Line: line})
	}
	r.next = end

	if r.next >= len(r.queue) {
		r.finalize()
	}
}

// finalize recomputes the visible article list exactly once per run, after
// the last batch, so navigation always sees a complete list.
func (r *ListRenderer) finalize() {
	visible := make([]string, len(r.rows))
	for i, row := range r.rows {
		visible[i] = row.Link
	}
	r.visible = visible
	r.complete = true
}

// Rows returns the rows appended so far.
func (r *ListRenderer) Rows() []Row { return r.rows }

// Visible returns the ordered identifiers of all rendered articles. It is
// nil until the run completes.
func (r *ListRenderer) Visible() []string { return r.visible }

// Complete reports whether the current run has appended all batches.
func (r *ListRenderer) Complete() bool { return r.complete }

// Generation returns the current run's token.
func (r *ListRenderer) Generation() int { return r.gen }
