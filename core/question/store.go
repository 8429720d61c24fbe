package question

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// errors
	ErrNotFound            = errors.New("question not found")
	ErrDateTaken           = errors.New("a question is already scheduled for this date")
	ErrConflictCheckFailed = errors.New("could not verify that the date is free")
	ErrBusy                = errors.New("a submission is already in progress")
	ErrNoAnswer            = errors.New("no answer selected")
	ErrUnknownOption       = errors.New("answer is not one of the options")
	ErrAlreadyAnswered     = errors.New("question already answered")
	ErrQuizNotFound        = errors.New("quiz not found")
)

type (
	// AdminStore is the admin side of the question store.
	AdminStore interface {
		List(ctx context.Context) ([]Question, error)
		Create(ctx context.Context, q Question) (Question, error)
		// Update replaces the whole record with id.
		Update(ctx context.Context, id string, q Question) (Question, error)
		Delete(ctx context.Context, id string) error
	}

	// DailyStore is the public side of the question store. The store decides which day "today" is.
	DailyStore interface {
		Today(ctx context.Context) (Question, error)
		Submit(ctx context.Context, questionID, answer string) (Verdict, error)
	}

	// Notifier is told when the stored questions changed.
	Notifier interface {
		QuestionsChanged(ctx context.Context, id string)
	}
)

// StoreError is a non-2xx answer from the question store.
type StoreError struct {
	StatusCode int
	Message    string
}

func (err *StoreError) Error() string {
	if err.Message == "" {
		return fmt.Sprintf("question store: %s", http.StatusText(err.StatusCode))
	}
	return fmt.Sprintf("question store: %s", err.Message)
}

// Is lets errors.Is(err, ErrNotFound) match a 404 from the store.
func (err *StoreError) Is(target error) bool {
	return target == ErrNotFound && err.StatusCode == http.StatusNotFound
}
