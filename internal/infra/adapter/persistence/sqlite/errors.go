package sqlite

import (
	"errors"
	"fmt"

	sqlite3 "modernc.org/sqlite/lib"

	"github.com/daniel-odulate22/PulsePoint/internal/domain/entity"
)

// codedError is satisfied by *sqlite.Error from modernc.org/sqlite.
type codedError interface {
	error
	Code() int
}

// translateError maps constraint violations onto domain sentinels so callers
// never need to import the driver.
func translateError(op string, err error) error {
	var cerr codedError
	if errors.As(err, &cerr) {
		switch cerr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%s: %w: %s", op, entity.ErrDuplicate, cerr.Error())
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%s: %w: %s", op, entity.ErrNotFound, cerr.Error())
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
