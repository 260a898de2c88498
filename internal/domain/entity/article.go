// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as Article, Comment and User, along with
// their validation rules and domain-specific errors.
package entity

import (
	"strings"
	"time"
)

// Status is the publication state of an article.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Valid reports whether s is a known publication status.
func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// Article represents a news article entity in the system.
// Articles created by the ingestion pipeline are always published and
// attributed to the resolved author of record.
type Article struct {
	ID        int64
	Title     string
	Content   string
	Excerpt   string
	Category  Category
	AuthorID  int64
	Status    Status
	ImageURL  string
	SourceURL string
	Views     int64
	Likes     int64
	// Comments are ordered newest first.
	Comments  []Comment
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the invariants every stored article must satisfy.
func (a *Article) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if strings.TrimSpace(a.Content) == "" {
		return &ValidationError{Field: "content", Message: "content is required"}
	}
	if strings.TrimSpace(a.Excerpt) == "" {
		return &ValidationError{Field: "excerpt", Message: "excerpt is required"}
	}
	if !a.Category.Valid() {
		return &ValidationError{Field: "category", Message: "unknown category " + string(a.Category)}
	}
	if a.Status != "" && !a.Status.Valid() {
		return &ValidationError{Field: "status", Message: "status must be draft or published"}
	}
	if a.Likes < 0 {
		return &ValidationError{Field: "likes", Message: "likes must not be negative"}
	}
	if a.ImageURL != "" {
		if err := ValidateURL(a.ImageURL); err != nil {
			return err
		}
	}
	return nil
}

// Comment is a reader comment. It belongs to exactly one article and has
// no identity outside it.
type Comment struct {
	Author    string
	Text      string
	CreatedAt time.Time
}
