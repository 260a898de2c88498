// Package sqlite provides SQLite implementations of the repository interfaces.
// It backs local runs and the end-to-end ingestion tests.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/daniel-odulate22/PulsePoint/internal/domain/entity"
	"github.com/daniel-odulate22/PulsePoint/internal/infra/db"
	"github.com/daniel-odulate22/PulsePoint/internal/repository"
)

const articleColumns = `a.id, a.title, a.content, a.excerpt, a.category, a.author_id, a.status,
a.image_url, a.source_url, a.views, a.likes, a.created_at, a.updated_at`

// ArticleRepo implements the ArticleRepository interface using SQLite.
type ArticleRepo struct{ db db.DBTX }

// NewArticleRepo creates a new SQLite-backed article repository.
func NewArticleRepo(conn db.DBTX) repository.ArticleRepository {
	return &ArticleRepo{db: conn}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanArticle(row rowScanner, extra ...interface{}) (*entity.Article, error) {
	var a entity.Article
	dest := []interface{}{
		&a.ID, &a.Title, &a.Content, &a.Excerpt, &a.Category, &a.AuthorID, &a.Status,
		&a.ImageURL, &a.SourceURL, &a.Views, &a.Likes, &a.CreatedAt, &a.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &a, nil
}

// FindByTitle looks up an article by exact title.
func (repo *ArticleRepo) FindByTitle(ctx context.Context, title string) (*entity.Article, error) {
	const query = `
SELECT ` + articleColumns + `
FROM articles a
WHERE a.title = ?
LIMIT 1`
	a, err := scanArticle(repo.db.QueryRowContext(ctx, query, title))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindByTitle: %w", err)
	}
	return a, nil
}

// Create inserts a new article and sets its ID.
func (repo *ArticleRepo) Create(ctx context.Context, article *entity.Article) error {
	const query = `
INSERT INTO articles (title, content, excerpt, category, author_id, status,
                      image_url, source_url, views, likes, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if article.Status == "" {
		article.Status = entity.StatusDraft
	}
	if article.CreatedAt.IsZero() {
		article.CreatedAt = time.Now().UTC()
	}
	if article.UpdatedAt.IsZero() {
		article.UpdatedAt = article.CreatedAt
	}

	res, err := repo.db.ExecContext(ctx, query,
		article.Title, article.Content, article.Excerpt, article.Category, article.AuthorID,
		article.Status, article.ImageURL, article.SourceURL, article.Views, article.Likes,
		article.CreatedAt, article.UpdatedAt,
	)
	if err != nil {
		return translateError("Create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("Create: LastInsertId: %w", err)
	}
	article.ID = id
	return nil
}

// Get retrieves an article by ID.
func (repo *ArticleRepo) Get(ctx context.Context, id int64) (*entity.Article, error) {
	const query = `
SELECT ` + articleColumns + `
FROM articles a
WHERE a.id = ?
LIMIT 1`
	a, err := scanArticle(repo.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return a, nil
}

// ListPublished retrieves published articles with their author names (newest first).
func (repo *ArticleRepo) ListPublished(ctx context.Context, limit int) ([]repository.ArticleWithAuthor, error) {
	const query = `
SELECT ` + articleColumns + `, u.name
FROM articles a
INNER JOIN users u ON u.id = a.author_id
WHERE a.status = 'published'
ORDER BY a.created_at DESC, a.id DESC
LIMIT ?`
	return repo.listWithAuthor(ctx, "ListPublished", query, limit)
}

// ListTrending retrieves the most viewed published articles.
func (repo *ArticleRepo) ListTrending(ctx context.Context, limit int) ([]repository.ArticleWithAuthor, error) {
	const query = `
SELECT ` + articleColumns + `, u.name
FROM articles a
INNER JOIN users u ON u.id = a.author_id
WHERE a.status = 'published'
ORDER BY a.views DESC, a.id DESC
LIMIT ?`
	return repo.listWithAuthor(ctx, "ListTrending", query, limit)
}

func (repo *ArticleRepo) listWithAuthor(ctx context.Context, op, query string, limit int) ([]repository.ArticleWithAuthor, error) {
	rows, err := repo.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: QueryContext: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	result := make([]repository.ArticleWithAuthor, 0, limit)
	for rows.Next() {
		var authorName string
		a, err := scanArticle(rows, &authorName)
		if err != nil {
			return nil, fmt.Errorf("%s: Scan: %w", op, err)
		}
		result = append(result, repository.ArticleWithAuthor{Article: a, AuthorName: authorName})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows.Err: %w", op, err)
	}
	return result, nil
}

// ListByIDs returns the articles in the order of ids; unknown ids are skipped.
func (repo *ArticleRepo) ListByIDs(ctx context.Context, ids []int64) ([]*entity.Article, error) {
	if len(ids) == 0 {
		return []*entity.Article{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	query := `
SELECT ` + articleColumns + `
FROM articles a
WHERE a.id IN (` + strings.Join(placeholders, ", ") + `)`

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListByIDs: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	byID := make(map[int64]*entity.Article, len(ids))
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("ListByIDs: Scan: %w", err)
		}
		byID[a.ID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByIDs: rows.Err: %w", err)
	}

	result := make([]*entity.Article, 0, len(byID))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			result = append(result, a)
		}
	}
	return result, nil
}

// IncrementViews adds one to the view counter.
func (repo *ArticleRepo) IncrementViews(ctx context.Context, id int64) error {
	const query = `UPDATE articles SET views = views + 1 WHERE id = ?`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("IncrementViews: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("IncrementViews: RowsAffected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("IncrementViews: %w", entity.ErrNotFound)
	}
	return nil
}

// AdjustLikes applies delta to the like counter, floored at zero.
func (repo *ArticleRepo) AdjustLikes(ctx context.Context, id int64, delta int64) (int64, error) {
	const query = `
UPDATE articles
SET likes = MAX(likes + ?, 0), updated_at = ?
WHERE id = ?
RETURNING likes`
	var likes int64
	err := repo.db.QueryRowContext(ctx, query, delta, time.Now().UTC(), id).Scan(&likes)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("AdjustLikes: %w", entity.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("AdjustLikes: %w", err)
	}
	return likes, nil
}

// AddComment appends a comment to an article.
func (repo *ArticleRepo) AddComment(ctx context.Context, articleID int64, comment entity.Comment) error {
	const query = `
INSERT INTO article_comments (article_id, author, body, created_at)
VALUES (?, ?, ?, ?)`
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}
	if _, err := repo.db.ExecContext(ctx, query, articleID, comment.Author, comment.Text, comment.CreatedAt); err != nil {
		return translateError("AddComment", err)
	}
	return nil
}

// ListComments returns an article's comments, newest first.
func (repo *ArticleRepo) ListComments(ctx context.Context, articleID int64) ([]entity.Comment, error) {
	const query = `
SELECT author, body, created_at
FROM article_comments
WHERE article_id = ?
ORDER BY created_at DESC, id DESC`
	rows, err := repo.db.QueryContext(ctx, query, articleID)
	if err != nil {
		return nil, fmt.Errorf("ListComments: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	comments := make([]entity.Comment, 0, 8)
	for rows.Next() {
		var c entity.Comment
		if err := rows.Scan(&c.Author, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("ListComments: Scan: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListComments: rows.Err: %w", err)
	}
	return comments, nil
}
