package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/daniel-odulate22/PulsePoint/internal/domain/entity"
	"github.com/daniel-odulate22/PulsePoint/internal/infra/db"
	"github.com/daniel-odulate22/PulsePoint/internal/repository"
)

const userColumns = `id, name, email, password_hash, role, created_at, updated_at`

// UserRepo implements the UserRepository interface using SQLite.
type UserRepo struct{ db db.DBTX }

// NewUserRepo creates a new SQLite-backed user repository.
func NewUserRepo(conn db.DBTX) repository.UserRepository {
	return &UserRepo{db: conn}
}

func (repo *UserRepo) scanOne(ctx context.Context, op, query string, args ...interface{}) (*entity.User, error) {
	var u entity.User
	err := repo.db.QueryRowContext(ctx, query, args...).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &u, nil
}

func (repo *UserRepo) FindByRole(ctx context.Context, role entity.Role) (*entity.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE role = ? ORDER BY id LIMIT 1`
	return repo.scanOne(ctx, "FindByRole", query, role)
}

func (repo *UserRepo) FindAny(ctx context.Context) (*entity.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY id LIMIT 1`
	return repo.scanOne(ctx, "FindAny", query)
}

func (repo *UserRepo) Get(ctx context.Context, id int64) (*entity.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = ? LIMIT 1`
	return repo.scanOne(ctx, "Get", query, id)
}

func (repo *UserRepo) Create(ctx context.Context, user *entity.User) error {
	const query = `
INSERT INTO users (name, email, password_hash, role, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`
	if user.Role == "" {
		user.Role = entity.RoleUser
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = user.CreatedAt
	}

	res, err := repo.db.ExecContext(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.Role, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return translateError("Create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("Create: LastInsertId: %w", err)
	}
	user.ID = id
	return nil
}

func (repo *UserRepo) ToggleLiked(ctx context.Context, userID, articleID int64) (bool, error) {
	return repo.toggle(ctx, "ToggleLiked", "user_liked_articles", userID, articleID)
}

func (repo *UserRepo) ToggleSaved(ctx context.Context, userID, articleID int64) (bool, error) {
	return repo.toggle(ctx, "ToggleSaved", "user_saved_articles", userID, articleID)
}

// toggle removes the pair if present, otherwise inserts it.
// table is one of the two fixed membership tables, never user input.
func (repo *UserRepo) toggle(ctx context.Context, op, table string, userID, articleID int64) (bool, error) {
	res, err := repo.db.ExecContext(ctx,
		`DELETE FROM `+table+` WHERE user_id = ? AND article_id = ?`, userID, articleID)
	if err != nil {
		return false, fmt.Errorf("%s: delete: %w", op, err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: RowsAffected: %w", op, err)
	}
	if removed > 0 {
		return false, nil
	}

	_, err = repo.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO `+table+` (user_id, article_id, created_at) VALUES (?, ?, ?)`,
		userID, articleID, time.Now().UTC())
	if err != nil {
		return false, translateError(op, err)
	}
	return true, nil
}

func (repo *UserRepo) SavedArticleIDs(ctx context.Context, userID int64) ([]int64, error) {
	const query = `
SELECT article_id
FROM user_saved_articles
WHERE user_id = ?
ORDER BY created_at DESC, rowid DESC`
	rows, err := repo.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("SavedArticleIDs: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	ids := make([]int64, 0, 16)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("SavedArticleIDs: Scan: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("SavedArticleIDs: rows.Err: %w", err)
	}
	return ids, nil
}
