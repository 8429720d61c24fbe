package question

import (
	"context"

	"github.com/pkg/errors"
)

// ConflictChecker guards the one-question-per-date rule before a create or update.
// It is advisory: two admins checking at the same time can both pass.
type ConflictChecker struct {
	store AdminStore
}

func NewConflictChecker(store AdminStore) *ConflictChecker {
	return &ConflictChecker{store: store}
}

// Check reports whether scheduling a question on date would collide with another question.
// original is the question being edited, nil when creating.
// When the store cannot be queried, Check reports a conflict along with ErrConflictCheckFailed.
func (c *ConflictChecker) Check(ctx context.Context, date string, original *Question) (bool, error) {
	key := NormalizeDate(date)
	if original != nil && key == original.DateKey() {
		return false, nil
	}

	questions, err := c.store.List(ctx)
	if err != nil {
		return true, errors.WithMessagef(ErrConflictCheckFailed, "listing questions (%v)", err)
	}
	for _, q := range questions {
		if original != nil && q.ID == original.ID {
			continue
		}
		if q.DateKey() == key {
			return true, nil
		}
	}
	return false, nil
}
