package ingest

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/daniel-odulate22/PulsePoint/internal/catalog"
	"github.com/daniel-odulate22/PulsePoint/internal/domain/entity"
	"github.com/daniel-odulate22/PulsePoint/internal/repository"
)

/* ───────── user repository stub ───────── */

type stubUserRepo struct {
	users       []*entity.User
	err         error
	findByRole  int32
	findAnyCall int32
	// block, when non-nil, is waited on inside FindByRole
	block chan struct{}
}

func (s *stubUserRepo) FindByRole(ctx context.Context, role entity.Role) (*entity.User, error) {
	atomic.AddInt32(&s.findByRole, 1)
	if s.block != nil {
		<-s.block
	}
	if s.err != nil {
		return nil, s.err
	}
	for _, u := range s.users {
		if u.Role == role {
			return u, nil
		}
	}
	return nil, nil
}

func (s *stubUserRepo) FindAny(ctx context.Context) (*entity.User, error) {
	atomic.AddInt32(&s.findAnyCall, 1)
	if s.err != nil {
		return nil, s.err
	}
	if len(s.users) == 0 {
		return nil, nil
	}
	return s.users[0], nil
}

func (s *stubUserRepo) Get(ctx context.Context, id int64) (*entity.User, error) { return nil, nil }
func (s *stubUserRepo) Create(ctx context.Context, user *entity.User) error       { return nil }
func (s *stubUserRepo) ToggleLiked(ctx context.Context, userID, articleID int64) (bool, error) {
	return false, nil
}
func (s *stubUserRepo) ToggleSaved(ctx context.Context, userID, articleID int64) (bool, error) {
	return false, nil
}
func (s *stubUserRepo) SavedArticleIDs(ctx context.Context, userID int64) ([]int64, error) {
	return nil, nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

/* ───────── article repository stub ───────── */

// memArticleRepo stores articles by exact title, like the unique index does.
type memArticleRepo struct {
	mu       sync.Mutex
	byTitle  map[string]*entity.Article
	order    []*entity.Article
	nextID   int64
	findErr  error
	createFn func(a *entity.Article) error

	findCalls   int
	createCalls int
}

func newMemArticleRepo() *memArticleRepo {
	return &memArticleRepo{byTitle: map[string]*entity.Article{}}
}

func (m *memArticleRepo) FindByTitle(ctx context.Context, title string) (*entity.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findCalls++
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.byTitle[title], nil
}

func (m *memArticleRepo) Create(ctx context.Context, a *entity.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	if m.createFn != nil {
		if err := m.createFn(a); err != nil {
			return err
		}
	}
	if _, ok := m.byTitle[a.Title]; ok {
		return entity.ErrDuplicate
	}
	m.nextID++
	a.ID = m.nextID
	m.byTitle[a.Title] = a
	m.order = append(m.order, a)
	return nil
}

func (m *memArticleRepo) stored() []*entity.Article {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entity.Article, len(m.order))
	copy(out, m.order)
	return out
}

func (m *memArticleRepo) Get(ctx context.Context, id int64) (*entity.Article, error) { return nil, nil }
func (m *memArticleRepo) ListPublished(ctx context.Context, limit int) ([]repository.ArticleWithAuthor, error) {
	return nil, nil
}
func (m *memArticleRepo) ListTrending(ctx context.Context, limit int) ([]repository.ArticleWithAuthor, error) {
	return nil, nil
}
func (m *memArticleRepo) ListByIDs(ctx context.Context, ids []int64) ([]*entity.Article, error) {
	return nil, nil
}
func (m *memArticleRepo) IncrementViews(ctx context.Context, id int64) error { return nil }
func (m *memArticleRepo) AdjustLikes(ctx context.Context, id int64, delta int64) (int64, error) {
	return 0, nil
}
func (m *memArticleRepo) AddComment(ctx context.Context, articleID int64, c entity.Comment) error {
	return nil
}
func (m *memArticleRepo) ListComments(ctx context.Context, articleID int64) ([]entity.Comment, error) {
	return nil, nil
}

var _ repository.ArticleRepository = (*memArticleRepo)(nil)

/* ───────── fetcher stub ───────── */

type fetchResult struct {
	items []RawArticle
	err   error
}

type stubFetcher struct {
	mu      sync.Mutex
	results map[string]fetchResult
	calls   []string
	// onFetch runs before the result is returned
	onFetch func(entry catalog.Entry)
}

func (f *stubFetcher) Fetch(ctx context.Context, entry catalog.Entry) ([]RawArticle, error) {
	f.mu.Lock()
	f.calls = append(f.calls, entry.Name)
	hook := f.onFetch
	r := f.results[entry.Name]
	f.mu.Unlock()
	if hook != nil {
		hook(entry)
	}
	return r.items, r.err
}

func validItem(title string) RawArticle {
	return RawArticle{
		Title:       title,
		Description: "Summary of " + title,
		Content:     "Full text of " + title + " [+1200 chars]",
		ImageURL:    "https://cdn.example.com/" + title + ".jpg",
		URL:         "https://example.com/" + title,
		SourceName:  "Example Wire",
	}
}
