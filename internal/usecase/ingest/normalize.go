package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/daniel-odulate22/PulsePoint/internal/catalog"
	"github.com/daniel-odulate22/PulsePoint/internal/domain/entity"
	"github.com/daniel-odulate22/PulsePoint/internal/repository"
)

// removedPlaceholder is what NewsAPI puts in every field of a takedown.
const removedPlaceholder = "[Removed]"

// Decision is the outcome for one raw item.
type Decision struct {
	// Article is the stored article when Reason is Accepted.
	Article *entity.Article
	Reason  RejectReason
	// Err describes an invalid or storage-error rejection.
	Err error
}

// Normalizer turns provider items into stored articles, rejecting
// incomplete items and exact-title duplicates.
type Normalizer struct {
	articles repository.ArticleRepository
	clock    func() time.Time
}

// NewNormalizer creates a Normalizer. A nil clock means time.Now in UTC.
func NewNormalizer(articles repository.ArticleRepository, clock func() time.Time) *Normalizer {
	if clock == nil {
		clock = utcNow
	}
	return &Normalizer{articles: articles, clock: clock}
}

// Accept validates raw, checks it against stored titles and stores it under
// entry's category, attributed to authorID.
func (n *Normalizer) Accept(ctx context.Context, raw RawArticle, entry catalog.Entry, authorID int64) Decision {
	if err := checkComplete(raw); err != nil {
		return Decision{Reason: RejectInvalid, Err: err}
	}

	existing, err := n.articles.FindByTitle(ctx, raw.Title)
	if err != nil {
		return Decision{Reason: RejectStorage, Err: fmt.Errorf("find by title: %w", err)}
	}
	if existing != nil {
		return Decision{Reason: RejectDuplicate}
	}

	now := n.clock()
	article := &entity.Article{
		Title:     raw.Title,
		Content:   raw.Content,
		Excerpt:   raw.Description,
		Category:  entity.Category(entry.Name),
		AuthorID:  authorID,
		Status:    entity.StatusPublished,
		ImageURL:  raw.ImageURL,
		SourceURL: raw.URL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := n.articles.Create(ctx, article); err != nil {
		// an overlapping cycle stored the same title between lookup and insert
		if errors.Is(err, entity.ErrDuplicate) {
			return Decision{Reason: RejectDuplicate}
		}
		return Decision{Reason: RejectStorage, Err: fmt.Errorf("create article: %w", err)}
	}
	return Decision{Article: article, Reason: Accepted}
}

func checkComplete(raw RawArticle) error {
	switch {
	case absent(raw.Title):
		return &entity.ValidationError{Field: "title", Message: "title is missing"}
	case absent(raw.Content):
		return &entity.ValidationError{Field: "content", Message: "content is missing"}
	case absent(raw.Description):
		return &entity.ValidationError{Field: "excerpt", Message: "description is missing"}
	}
	return nil
}

func absent(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || s == removedPlaceholder
}

func utcNow() time.Time {
	return time.Now().UTC()
}
