package article

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/daniel-odulate22/PulsePoint/internal/domain/entity"
	"github.com/daniel-odulate22/PulsePoint/internal/repository"
)

// Feed sizes.
const (
	DefaultListLimit = 50
	MaxListLimit     = 100
	TrendingLimit    = 5
)

// Service provides article reading and interaction use cases.
// It handles business logic and delegates persistence to the repositories.
type Service struct {
	Articles repository.ArticleRepository
	Users    repository.UserRepository
	// Clock stamps comments. Nil means time.Now in UTC.
	Clock func() time.Time
}

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now().UTC()
}

// ListPublished returns published articles with author names, newest first.
// limit is clamped to [1, MaxListLimit]; zero or negative means DefaultListLimit.
func (s *Service) ListPublished(ctx context.Context, limit int) ([]repository.ArticleWithAuthor, error) {
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}
	articles, err := s.Articles.ListPublished(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list published articles: %w", err)
	}
	return articles, nil
}

// Trending returns the most viewed published articles.
func (s *Service) Trending(ctx context.Context) ([]repository.ArticleWithAuthor, error) {
	articles, err := s.Articles.ListTrending(ctx, TrendingLimit)
	if err != nil {
		return nil, fmt.Errorf("list trending articles: %w", err)
	}
	return articles, nil
}

// View records one view and returns the article with its comments, newest first.
func (s *Service) View(ctx context.Context, id int64) (*entity.Article, error) {
	if id <= 0 {
		return nil, ErrInvalidArticleID
	}
	if err := s.Articles.IncrementViews(ctx, id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("increment views: %w", err)
	}
	return s.withComments(ctx, id)
}

// AddComment prepends a comment and returns the updated article.
func (s *Service) AddComment(ctx context.Context, id int64, author, text string) (*entity.Article, error) {
	if id <= 0 {
		return nil, ErrInvalidArticleID
	}
	author, text = strings.TrimSpace(author), strings.TrimSpace(text)
	if author == "" || text == "" {
		return nil, ErrInvalidComment
	}

	comment := entity.Comment{Author: author, Text: text, CreatedAt: s.now()}
	if err := s.Articles.AddComment(ctx, id, comment); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("add comment: %w", err)
	}
	return s.withComments(ctx, id)
}

// ToggleLike likes or unlikes an article for a user. It returns whether the
// article is liked afterwards and the new like count, which never goes below zero.
func (s *Service) ToggleLike(ctx context.Context, userID, articleID int64) (bool, int64, error) {
	if err := s.checkPair(ctx, userID, articleID); err != nil {
		return false, 0, err
	}

	liked, err := s.Users.ToggleLiked(ctx, userID, articleID)
	if err != nil {
		return false, 0, fmt.Errorf("toggle liked: %w", err)
	}
	delta := int64(-1)
	if liked {
		delta = 1
	}
	likes, err := s.Articles.AdjustLikes(ctx, articleID, delta)
	if err != nil {
		return false, 0, fmt.Errorf("adjust likes: %w", err)
	}
	return liked, likes, nil
}

// ToggleSave adds or removes an article from a user's saved list and
// reports whether it is saved afterwards.
func (s *Service) ToggleSave(ctx context.Context, userID, articleID int64) (bool, error) {
	if err := s.checkPair(ctx, userID, articleID); err != nil {
		return false, err
	}
	saved, err := s.Users.ToggleSaved(ctx, userID, articleID)
	if err != nil {
		return false, fmt.Errorf("toggle saved: %w", err)
	}
	return saved, nil
}

// Saved returns the user's saved articles, most recently saved first.
func (s *Service) Saved(ctx context.Context, userID int64) ([]*entity.Article, error) {
	ids, err := s.Users.SavedArticleIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("saved article ids: %w", err)
	}
	articles, err := s.Articles.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list saved articles: %w", err)
	}
	return articles, nil
}

// RegisterAuthor creates a user that ingestion can attribute articles to.
// passwordHash is stored as given.
func (s *Service) RegisterAuthor(ctx context.Context, name, email, passwordHash string, role entity.Role) (*entity.User, error) {
	if role == "" {
		role = entity.RoleUser
	}
	user := &entity.User{
		Name:         strings.TrimSpace(name),
		Email:        strings.TrimSpace(email),
		PasswordHash: passwordHash,
		Role:         role,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.Users.Create(ctx, user); err != nil {
		if errors.Is(err, entity.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *Service) checkPair(ctx context.Context, userID, articleID int64) error {
	if articleID <= 0 {
		return ErrInvalidArticleID
	}
	user, err := s.Users.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}
	a, err := s.Articles.Get(ctx, articleID)
	if err != nil {
		return fmt.Errorf("get article: %w", err)
	}
	if a == nil {
		return ErrArticleNotFound
	}
	return nil
}

func (s *Service) withComments(ctx context.Context, id int64) (*entity.Article, error) {
	a, err := s.Articles.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if a == nil {
		return nil, ErrArticleNotFound
	}
	comments, err := s.Articles.ListComments(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	a.Comments = comments
	return a, nil
}
