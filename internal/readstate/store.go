package readstate

import (
	"context"
	"fmt"
	"sync"
)

// SyncError reports a failed exchange with the server. The store rolls the
// affected article back to its last confirmed state before returning it.
type SyncError struct {
	Op   string
	Link string
	Err  error
}

func (e *SyncError) Error() string {
	if e.Link == "" {
		return fmt.Sprintf("read state sync failed (%s): %v", e.Op, e.Err)
	}
	return fmt.Sprintf("read state sync failed (%s %s): %v", e.Op, e.Link, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

// Server is the subset of the API client the store depends on. The toggle
// call flips the server-side status and returns the new authoritative value.
type Server interface {
	ListReadLinks(ctx context.Context) ([]string, error)
	ToggleRead(ctx context.Context, link string) (bool, error)
}

// Result describes the outcome of a single mark/toggle call.
type Result struct {
	Link    string
	Read    bool
	Skipped bool
}

// BatchResult aggregates per-link outcomes of a batch toggle. Failures do
// not abort the batch.
type BatchResult struct {
	MarkedRead bool
	Applied    int
	Skipped    int
	Failed     []error
}

// Store holds the set of read article links. Confirmed state mirrors the
// server; an optimistic overlay covers links with a request in flight.
// Each link moves Idle -> Pending -> Idle; a toggle requested while the
// link is Pending is suppressed.
type Store struct {
	mu         sync.Mutex
	server     Server
	confirmed  map[string]struct{}
	optimistic map[string]bool
	pending    map[string]struct{}
}

func NewStore(server Server) *Store {
	return &Store{
		server:     server,
		confirmed:  make(map[string]struct{}),
		optimistic: make(map[string]bool),
		pending:    make(map[string]struct{}),
	}
}

// Load replaces the confirmed set with the server's. On failure any
// previously loaded state is left untouched.
func (s *Store) Load(ctx context.Context) error {
	links, err := s.server.ListReadLinks(ctx)
	if err != nil {
		return &SyncError{Op: "load", Err: err}
	}

	confirmed := make(map[string]struct{}, len(links))
	for _, link := range links {
		confirmed[link] = struct{}{}
	}

	s.mu.Lock()
	s.confirmed = confirmed
	s.mu.Unlock()
	return nil
}

// IsRead reports membership against the confirmed set with the optimistic
// overlay applied on top. A nil store reports nothing read, so callers that
// run without read-state tracking can still pass it around.
func (s *Store) IsRead(link string) bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isReadLocked(link)
}

func (s *Store) isReadLocked(link string) bool {
	if want, ok := s.optimistic[link]; ok {
		return want
	}
	_, ok := s.confirmed[link]
	return ok
}

// ReadCount returns how many of the given links are currently read.
func (s *Store) ReadCount(links []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, link := range links {
		if s.isReadLocked(link) {
			count++
		}
	}
	return count
}

// Toggle flips the read status of one article. If a request for the link is
// already in flight the call is a no-op.
func (s *Store) Toggle(ctx context.Context, link string) (Result, error) {
	s.mu.Lock()
	want := !s.isReadLocked(link)
	s.mu.Unlock()
	return s.apply(ctx, link, want)
}

// MarkRead marks one article read, skipping articles already read. The
// server call toggles, so skipping is what keeps the operation idempotent.
func (s *Store) MarkRead(ctx context.Context, link string) (Result, error) {
	if s.IsRead(link) {
		return Result{Link: link, Read: true, Skipped: true}, nil
	}
	return s.apply(ctx, link, true)
}

// MarkUnread marks one article unread, skipping articles already unread.
func (s *Store) MarkUnread(ctx context.Context, link string) (Result, error) {
	if !s.IsRead(link) {
		return Result{Link: link, Read: false, Skipped: true}, nil
	}
	return s.apply(ctx, link, false)
}

func (s *Store) apply(ctx context.Context, link string, want bool) (Result, error) {
	s.mu.Lock()
	if _, inFlight := s.pending[link]; inFlight {
		read := s.isReadLocked(link)
		s.mu.Unlock()
		return Result{Link: link, Read: read, Skipped: true}, nil
	}
	s.pending[link] = struct{}{}
	s.optimistic[link] = want
	s.mu.Unlock()

	serverRead, err := s.server.ToggleRead(ctx, link)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, link)
	delete(s.optimistic, link)

	if err != nil {
		// Rollback is implicit: the overlay entry is gone, the confirmed
		// set was never touched.
		return Result{Link: link, Read: s.isReadLocked(link)}, &SyncError{Op: "toggle", Link: link, Err: err}
	}

	// The server's returned value wins, even when it differs from the
	// optimistic guess.
	if serverRead {
		s.confirmed[link] = struct{}{}
	} else {
		delete(s.confirmed, link)
	}
	return Result{Link: link, Read: serverRead}, nil
}

// ToggleAll marks every given article read, unless all of them already are,
// in which case it marks them all unread. Links already in the target state
// are skipped; per-link failures are collected without aborting the batch.
func (s *Store) ToggleAll(ctx context.Context, links []string) BatchResult {
	markRead := !s.allRead(links)
	result := BatchResult{MarkedRead: markRead}

	for _, link := range links {
		var (
			res Result
			err error
		)
		if markRead {
			res, err = s.MarkRead(ctx, link)
		} else {
			res, err = s.MarkUnread(ctx, link)
		}
		switch {
		case err != nil:
			result.Failed = append(result.Failed, err)
		case res.Skipped:
			result.Skipped++
		default:
			result.Applied++
		}
	}
	return result
}

func (s *Store) allRead(links []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, link := range links {
		if !s.isReadLocked(link) {
			return false
		}
	}
	return true
}
