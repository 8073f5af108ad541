package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/contractchecked/contract-checked/internal/core/domain"
)

type BlogUseCase struct {
	posts      []domain.BlogPost
	categories []string
}

func NewBlogUseCase(posts []domain.BlogPost) *BlogUseCase {
	categories := make([]string, 0)
	seen := make(map[string]bool)
	for _, post := range posts {
		if post.Category == "" || seen[post.Category] {
			continue
		}
		seen[post.Category] = true
		categories = append(categories, post.Category)
	}

	sorted := make([]domain.BlogPost, len(posts))
	copy(sorted, posts)
	// publishedAt is an ISO date, so lexical order is chronological.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PublishedAt > sorted[j].PublishedAt
	})

	return &BlogUseCase{posts: sorted, categories: categories}
}

// List returns post summaries, newest first. A zero limit means all posts.
func (uc *BlogUseCase) List(_ context.Context, category string, limit int) []domain.BlogPost {
	category = strings.TrimSpace(category)
	out := make([]domain.BlogPost, 0, len(uc.posts))
	for _, post := range uc.posts {
		if category != "" && !strings.EqualFold(post.Category, category) {
			continue
		}
		out = append(out, post.Summary())
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func (uc *BlogUseCase) Categories(context.Context) []string {
	out := make([]string, len(uc.categories))
	copy(out, uc.categories)
	return out
}

func (uc *BlogUseCase) GetBySlug(_ context.Context, slug string) (*domain.BlogPost, error) {
	for _, post := range uc.posts {
		if post.Slug == slug {
			found := post
			return &found, nil
		}
	}
	return nil, domain.WrapError(domain.ErrNotFound, "get blog post", fmt.Errorf("slug=%q", slug))
}
