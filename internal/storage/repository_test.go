package storage

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"readlist/internal/feedapi"
)

func newRepo(t *testing.T) *Repository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "readlist.db")
	repo, err := NewRepository(dbPath)
	if err != nil {
		t.Fatalf("NewRepository returned error: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	if err := repo.Init(context.Background()); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	return repo
}

func TestRepository_SaveAndListArticles(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	articles := []feedapi.Article{
		{
			Link:        "https://example.com/old",
			Title:       "Older",
			Category:    "Tech",
			PublishedAt: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			Link:        "https://example.com/new",
			Title:       "Newer",
			Category:    "Tech",
			PublishedAt: time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC),
		},
	}

	if err := repo.SaveArticles(ctx, articles); err != nil {
		t.Fatalf("SaveArticles returned error: %v", err)
	}

	listed, err := repo.ListArticles(ctx, 10)
	if err != nil {
		t.Fatalf("ListArticles returned error: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(listed))
	}
	if listed[0].Link != "https://example.com/new" {
		t.Fatalf("expected newest first, got %s", listed[0].Link)
	}
}

func TestRepository_SaveArticles_Upserts(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	article := feedapi.Article{
		Link:        "https://example.com/a",
		Title:       "Original",
		PublishedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := repo.SaveArticles(ctx, []feedapi.Article{article}); err != nil {
		t.Fatalf("initial SaveArticles returned error: %v", err)
	}

	article.Title = "Updated"
	if err := repo.SaveArticles(ctx, []feedapi.Article{article}); err != nil {
		t.Fatalf("second SaveArticles returned error: %v", err)
	}

	listed, err := repo.ListArticles(ctx, 10)
	if err != nil {
		t.Fatalf("ListArticles returned error: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 article, got %d", len(listed))
	}
	if listed[0].Title != "Updated" {
		t.Fatalf("expected updated title, got %q", listed[0].Title)
	}
}

func TestRepository_MissingDateRoundTrips(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	if err := repo.SaveArticles(ctx, []feedapi.Article{{Link: "https://example.com/nodate"}}); err != nil {
		t.Fatalf("SaveArticles returned error: %v", err)
	}

	listed, err := repo.ListArticles(ctx, 10)
	if err != nil {
		t.Fatalf("ListArticles returned error: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 article, got %d", len(listed))
	}
	if !listed[0].PublishedAt.IsZero() {
		t.Fatalf("missing date should load as zero time, got %v", listed[0].PublishedAt)
	}
}

func TestRepository_SkipsArticlesWithoutLink(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	articles := []feedapi.Article{
		{Title: "No identifier"},
		{Link: "https://example.com/ok", Title: "OK"},
	}
	if err := repo.SaveArticles(ctx, articles); err != nil {
		t.Fatalf("SaveArticles returned error: %v", err)
	}

	listed, err := repo.ListArticles(ctx, 10)
	if err != nil {
		t.Fatalf("ListArticles returned error: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 article, got %d", len(listed))
	}
}

func TestRepository_PreferencesAbsentKeysAreEmpty(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	order, err := repo.CategoryOrder(ctx)
	if err != nil {
		t.Fatalf("CategoryOrder returned error: %v", err)
	}
	if len(order) != 0 {
		t.Fatalf("expected empty order, got %v", order)
	}

	favorites, err := repo.FavoriteCategories(ctx)
	if err != nil {
		t.Fatalf("FavoriteCategories returned error: %v", err)
	}
	if len(favorites) != 0 {
		t.Fatalf("expected empty favorites, got %v", favorites)
	}
}

func TestRepository_PreferencesRoundTrip(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	if err := repo.SaveCategoryOrder(ctx, []string{"News", "Tech"}); err != nil {
		t.Fatalf("SaveCategoryOrder returned error: %v", err)
	}
	if err := repo.SaveFavoriteCategories(ctx, []string{"News"}); err != nil {
		t.Fatalf("SaveFavoriteCategories returned error: %v", err)
	}

	order, err := repo.CategoryOrder(ctx)
	if err != nil {
		t.Fatalf("CategoryOrder returned error: %v", err)
	}
	if !reflect.DeepEqual(order, []string{"News", "Tech"}) {
		t.Fatalf("CategoryOrder = %v", order)
	}

	favorites, err := repo.FavoriteCategories(ctx)
	if err != nil {
		t.Fatalf("FavoriteCategories returned error: %v", err)
	}
	if !reflect.DeepEqual(favorites, []string{"News"}) {
		t.Fatalf("FavoriteCategories = %v", favorites)
	}

	// Overwrite persists the latest value, not an append.
	if err := repo.SaveCategoryOrder(ctx, []string{"Tech"}); err != nil {
		t.Fatalf("second SaveCategoryOrder returned error: %v", err)
	}
	order, err = repo.CategoryOrder(ctx)
	if err != nil {
		t.Fatalf("CategoryOrder returned error: %v", err)
	}
	if !reflect.DeepEqual(order, []string{"Tech"}) {
		t.Fatalf("CategoryOrder after overwrite = %v", order)
	}
}

func TestRepository_CheckWritable(t *testing.T) {
	repo := newRepo(t)
	if err := repo.CheckWritable(context.Background()); err != nil {
		t.Fatalf("CheckWritable returned error: %v", err)
	}
}

func TestRepository_PreferencesHonorContext(t *testing.T) {
	repo := newRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := repo.SaveCategoryOrder(ctx, []string{"Tech"}); err == nil {
		t.Fatal("expected canceled context to fail the save")
	}
	if _, err := repo.CategoryOrder(ctx); err == nil {
		t.Fatal("expected canceled context to fail the load")
	}
}
