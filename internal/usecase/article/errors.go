// Package article provides the reader-side use cases over stored articles:
// the feed, trending list, views, comments, likes and saves. It also
// registers the users that ingestion attributes articles to.
package article

import "errors"

// Sentinel errors for article use case operations.
var (
	// ErrArticleNotFound indicates that the requested article was not found.
	ErrArticleNotFound = errors.New("article not found")

	// ErrInvalidArticleID indicates that the provided article ID is invalid.
	// Article IDs must be positive integers.
	ErrInvalidArticleID = errors.New("invalid article ID")

	// ErrUserNotFound indicates that the acting user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidComment indicates a comment without an author or text.
	ErrInvalidComment = errors.New("comment author and text are required")

	// ErrEmailTaken indicates that a user with the same email already exists.
	ErrEmailTaken = errors.New("a user with this email already exists")
)
