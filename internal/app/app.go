package app

import (
	"context"
	"fmt"

	"readlist/internal/feedapi"
)

// DefaultCacheLimit bounds how many cached articles are loaded at startup.
const DefaultCacheLimit = 500

type FeedClient interface {
	ListArticles(ctx context.Context) ([]feedapi.Article, error)
}

type Repository interface {
	SaveArticles(ctx context.Context, articles []feedapi.Article) error
	ListArticles(ctx context.Context, limit int) ([]feedapi.Article, error)
}

// Service fetches the article collection and keeps the local cache current.
type Service struct {
	client FeedClient
	repo   Repository
}

func NewService(client FeedClient, repo Repository) *Service {
	return &Service{client: client, repo: repo}
}

// Refresh fetches the full collection from the server and persists it to
// the cache. The fetched collection is returned as-is; fetch errors keep
// their type so callers can distinguish malformed payloads from transport
// failures.
func (s *Service) Refresh(ctx context.Context) ([]feedapi.Article, error) {
	articles, err := s.client.ListArticles(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch articles: %w", err)
	}
	if err := s.repo.SaveArticles(ctx, articles); err != nil {
		return nil, fmt.Errorf("save articles to cache: %w", err)
	}
	return articles, nil
}

// ListCached returns the most recent cached articles.
func (s *Service) ListCached(ctx context.Context, limit int) ([]feedapi.Article, error) {
	articles, err := s.repo.ListArticles(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("load articles from cache: %w", err)
	}
	return articles, nil
}
