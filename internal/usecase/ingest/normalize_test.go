package ingest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniel-odulate22/PulsePoint/internal/catalog"
	"github.com/daniel-odulate22/PulsePoint/internal/domain/entity"
)

var (
	fixedNow  = time.Date(2025, 7, 19, 9, 0, 0, 0, time.UTC)
	fixedTime = func() time.Time { return fixedNow }
	techEntry = catalog.Entry{Name: "Tech", Mode: catalog.ModeTopic, Value: "technology", Region: "us"}
)

func TestNormalizer_Accept_BuildsPublishedArticle(t *testing.T) {
	repo := newMemArticleRepo()
	n := NewNormalizer(repo, fixedTime)

	raw := validItem("Chip shortage eases")
	raw.ProviderCategory = "business"
	d := n.Accept(context.Background(), raw, techEntry, 11)

	require.Equal(t, Accepted, d.Reason)
	require.NoError(t, d.Err)
	want := &entity.Article{
		ID:        1,
		Title:     raw.Title,
		Content:   raw.Content,
		Excerpt:   raw.Description,
		Category:  entity.CategoryTech,
		AuthorID:  11,
		Status:    entity.StatusPublished,
		ImageURL:  raw.ImageURL,
		SourceURL: raw.URL,
		CreatedAt: fixedNow,
		UpdatedAt: fixedNow,
	}
	if diff := cmp.Diff(want, d.Article); diff != "" {
		t.Fatalf("article mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizer_Accept_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *RawArticle)
		field  string
	}{
		{"missing title", func(r *RawArticle) { r.Title = "" }, "title"},
		{"whitespace title", func(r *RawArticle) { r.Title = " \t\n" }, "title"},
		{"removed title", func(r *RawArticle) { r.Title = "[Removed]" }, "title"},
		{"missing content", func(r *RawArticle) { r.Content = "" }, "content"},
		{"removed content", func(r *RawArticle) { r.Content = " [Removed] " }, "content"},
		{"missing description", func(r *RawArticle) { r.Description = "" }, "excerpt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemArticleRepo()
			n := NewNormalizer(repo, fixedTime)
			raw := validItem("x")
			tt.mutate(&raw)

			d := n.Accept(context.Background(), raw, techEntry, 1)

			assert.Equal(t, RejectInvalid, d.Reason)
			assert.Nil(t, d.Article)
			var vErr *entity.ValidationError
			require.True(t, errors.As(d.Err, &vErr))
			assert.Equal(t, tt.field, vErr.Field)
			assert.Zero(t, repo.findCalls, "FindByTitle must not be called")
			assert.Zero(t, repo.createCalls, "Create must not be called")
		})
	}
}

func TestNormalizer_Accept_DuplicateTitle(t *testing.T) {
	repo := newMemArticleRepo()
	n := NewNormalizer(repo, fixedTime)
	ctx := context.Background()

	require.Equal(t, Accepted, n.Accept(ctx, validItem("Same"), techEntry, 1).Reason)
	d := n.Accept(ctx, validItem("Same"), techEntry, 1)

	assert.Equal(t, RejectDuplicate, d.Reason)
	assert.NoError(t, d.Err)
	assert.Equal(t, 1, repo.createCalls)
}

func TestNormalizer_Accept_TitleMatchIsCaseSensitive(t *testing.T) {
	repo := newMemArticleRepo()
	n := NewNormalizer(repo, fixedTime)
	ctx := context.Background()

	require.Equal(t, Accepted, n.Accept(ctx, validItem("Lagos floods"), techEntry, 1).Reason)
	assert.Equal(t, Accepted, n.Accept(ctx, validItem("lagos floods"), techEntry, 1).Reason)
	assert.Len(t, repo.stored(), 2)
}

func TestNormalizer_Accept_LookupError(t *testing.T) {
	repo := newMemArticleRepo()
	repo.findErr = errors.New("db down")

	d := NewNormalizer(repo, fixedTime).Accept(context.Background(), validItem("x"), techEntry, 1)

	assert.Equal(t, RejectStorage, d.Reason)
	assert.ErrorIs(t, d.Err, repo.findErr)
	assert.Zero(t, repo.createCalls)
}

func TestNormalizer_Accept_CreateErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want RejectReason
	}{
		{"unique violation from overlapping cycle", fmt.Errorf("Create: %w: articles_title_key", entity.ErrDuplicate), RejectDuplicate},
		{"write failure", errors.New("disk full"), RejectStorage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemArticleRepo()
			repo.createFn = func(*entity.Article) error { return tt.err }

			d := NewNormalizer(repo, fixedTime).Accept(context.Background(), validItem("x"), techEntry, 1)

			assert.Equal(t, tt.want, d.Reason)
			assert.Nil(t, d.Article)
		})
	}
}
