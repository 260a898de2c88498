package repository

import (
	"context"

	"github.com/daniel-odulate22/PulsePoint/internal/domain/entity"
)

// ArticleWithAuthor represents an article along with its author's display name.
type ArticleWithAuthor struct {
	Article    *entity.Article
	AuthorName string
}

// ArticleRepository persists articles and their comments.
// Lookups that find nothing return (nil, nil).
type ArticleRepository interface {
	// FindByTitle returns the article whose title equals title exactly
	// (case-sensitive). It is the only deduplication key used by ingestion.
	FindByTitle(ctx context.Context, title string) (*entity.Article, error)
	// Create inserts article and sets its ID. A title that already exists
	// yields an error wrapping entity.ErrDuplicate.
	Create(ctx context.Context, article *entity.Article) error
	Get(ctx context.Context, id int64) (*entity.Article, error)
	// ListPublished returns published articles, newest first.
	ListPublished(ctx context.Context, limit int) ([]ArticleWithAuthor, error)
	// ListTrending returns published articles ordered by views, highest first.
	ListTrending(ctx context.Context, limit int) ([]ArticleWithAuthor, error)
	ListByIDs(ctx context.Context, ids []int64) ([]*entity.Article, error)
	// IncrementViews adds one view. Returns entity.ErrNotFound for an unknown id.
	IncrementViews(ctx context.Context, id int64) error
	// AdjustLikes adds delta to the like count, never going below zero,
	// and returns the new count.
	AdjustLikes(ctx context.Context, id int64, delta int64) (int64, error)
	AddComment(ctx context.Context, articleID int64, comment entity.Comment) error
	// ListComments returns the comments of an article, newest first.
	ListComments(ctx context.Context, articleID int64) ([]entity.Comment, error)
}
