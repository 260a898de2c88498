package repository

import (
	"context"

	"github.com/daniel-odulate22/PulsePoint/internal/domain/entity"
)

// UserRepository persists users and their liked/saved article sets.
// Lookups that find nothing return (nil, nil).
type UserRepository interface {
	// FindByRole returns the earliest registered user with the given role.
	FindByRole(ctx context.Context, role entity.Role) (*entity.User, error)
	// FindAny returns the earliest registered user of any role.
	FindAny(ctx context.Context) (*entity.User, error)
	Get(ctx context.Context, id int64) (*entity.User, error)
	// Create inserts user and sets its ID. An email that already exists
	// yields an error wrapping entity.ErrDuplicate.
	Create(ctx context.Context, user *entity.User) error
	// ToggleLiked flips membership of articleID in the user's liked set and
	// reports whether the article is liked afterwards.
	ToggleLiked(ctx context.Context, userID, articleID int64) (bool, error)
	// ToggleSaved flips membership of articleID in the user's saved set and
	// reports whether the article is saved afterwards.
	ToggleSaved(ctx context.Context, userID, articleID int64) (bool, error)
	// SavedArticleIDs returns the saved set, most recently saved first.
	SavedArticleIDs(ctx context.Context, userID int64) ([]int64, error)
}
