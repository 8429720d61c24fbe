package question

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sajalaxena/edu-Darshi-sub000/core"
)

func newTestWorkflow(t *testing.T, store *fakeStore, opts ...Option) *Workflow {
	t.Helper()
	validate, translator := newValidator()
	w := NewWorkflow(store, validate, translator, opts...)
	require.NoError(t, w.Refresh(context.Background()))
	return w
}

func validForm(date string) Form {
	return NewForm("What is $2+2$?", []string{"3", "4", "5"}, "4", date)
}

func TestWorkflow_Submit_create(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	notifier := &fakeNotifier{}
	w := newTestWorkflow(t, store, WithNotifier(notifier))

	require.NoError(t, w.SetForm(validForm("2025-06-01")))
	saved, err := w.Submit(ctx)
	require.NoError(t, err)

	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, []string{"list", "list", "create", "list"}, store.Calls())
	assert.True(t, w.Form().IsEmpty(), "form not cleared")
	_, editing := w.Editing()
	assert.False(t, editing)
	assert.Equal(t, StateIdle, w.State())
	assert.Len(t, w.Questions(), 1)
	assert.Equal(t, []string{saved.ID}, notifier.ids)
}

func TestWorkflow_Submit_sameDateRejected(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	w := newTestWorkflow(t, store)

	require.NoError(t, w.SetForm(validForm("2025-06-01")))
	_, err := w.Submit(ctx)
	require.NoError(t, err)

	second := NewForm("Another one", []string{"a", "b"}, "a", "2025-06-01T00:00:00.000Z")
	require.NoError(t, w.SetForm(second))
	_, err = w.Submit(ctx)

	var vErr *core.ValidationError
	require.True(t, errors.As(err, &vErr), "got %v", err)
	assert.True(t, errors.Is(err, ErrDateTaken))
	assert.Equal(t, map[string]string{"scheduledDate": dateTakenText}, vErr.Map())
	assert.Equal(t, []string{"list", "list", "create", "list", "list"}, store.Calls(), "second create issued")
	assert.Equal(t, second, w.Form(), "form lost")
	assert.Equal(t, StateIdle, w.State())
}

func TestWorkflow_Submit_invalidMakesNoCall(t *testing.T) {
	store := newFakeStore()
	w := newTestWorkflow(t, store)

	form := NewForm("", []string{"Paris"}, "paris", "")
	require.NoError(t, w.SetForm(form))
	_, err := w.Submit(context.Background())

	var vErr *core.ValidationError
	require.True(t, errors.As(err, &vErr), "got %v", err)
	assert.Len(t, vErr.Map(), 4)
	assert.Equal(t, []string{"list"}, store.Calls())
	assert.Equal(t, form, w.Form())
}

func TestWorkflow_Submit_editKeepingDate(t *testing.T) {
	ctx := context.Background()
	existing := Question{
		ID:            "q1",
		Question:      "Old text",
		Options:       []string{"a", "b"},
		CorrectAnswer: "a",
		ScheduledDate: "2025-06-01T00:00:00.000Z",
	}
	store := newFakeStore(existing)
	w := newTestWorkflow(t, store)

	require.NoError(t, w.Edit(ctx, "q1"))
	form := w.Form()
	assert.Equal(t, "2025-06-01", form.ScheduledDate)
	form.Question = "New text"
	form.Options = [OptionSlots]string{"a", "b", "c"}
	require.NoError(t, w.SetForm(form))

	saved, err := w.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "q1", saved.ID)
	assert.Equal(t, "New text", saved.Question)
	// no conflict lookup between the edit and the update
	assert.Equal(t, []string{"list", "update", "list"}, store.Calls())
	_, editing := w.Editing()
	assert.False(t, editing, "still in edit mode")
}

func TestWorkflow_Submit_editMovingDate(t *testing.T) {
	ctx := context.Background()
	q1 := Question{ID: "q1", Question: "one", Options: []string{"a", "b"}, CorrectAnswer: "a", ScheduledDate: "2025-06-01"}
	q2 := Question{ID: "q2", Question: "two", Options: []string{"a", "b"}, CorrectAnswer: "b", ScheduledDate: "2025-06-02"}

	t.Run("to a taken date", func(t *testing.T) {
		store := newFakeStore(q1, q2)
		w := newTestWorkflow(t, store)
		require.NoError(t, w.Edit(ctx, "q1"))
		form := w.Form()
		form.ScheduledDate = "2025-06-02"
		require.NoError(t, w.SetForm(form))

		_, err := w.Submit(ctx)
		assert.True(t, errors.Is(err, ErrDateTaken), "got %v", err)
		assert.Equal(t, []string{"list", "list"}, store.Calls())
		_, editing := w.Editing()
		assert.True(t, editing, "edit mode lost")
	})

	t.Run("to a free date", func(t *testing.T) {
		store := newFakeStore(q1, q2)
		w := newTestWorkflow(t, store)
		require.NoError(t, w.Edit(ctx, "q1"))
		form := w.Form()
		form.ScheduledDate = "2025-06-03"
		require.NoError(t, w.SetForm(form))

		saved, err := w.Submit(ctx)
		require.NoError(t, err)
		assert.Equal(t, "2025-06-03", saved.ScheduledDate)
		assert.Equal(t, []string{"list", "list", "update", "list"}, store.Calls())
	})
}

func TestWorkflow_Submit_failsClosed(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	w := newTestWorkflow(t, store)

	store.listErr = errors.New("connection refused")
	require.NoError(t, w.SetForm(validForm("2025-06-01")))
	_, err := w.Submit(ctx)

	assert.True(t, errors.Is(err, ErrConflictCheckFailed), "got %v", err)
	assert.Equal(t, []string{"list", "list"}, store.Calls(), "create issued after failed check")
	assert.False(t, w.Form().IsEmpty())
	assert.Equal(t, StateIdle, w.State())
}

func TestWorkflow_Submit_storeFailureKeepsForm(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.createErr = &StoreError{StatusCode: 500, Message: "database unavailable"}
	w := newTestWorkflow(t, store)

	form := validForm("2025-06-01")
	require.NoError(t, w.SetForm(form))
	_, err := w.Submit(ctx)

	var sErr *StoreError
	require.True(t, errors.As(err, &sErr), "got %v", err)
	assert.Equal(t, "database unavailable", sErr.Message)
	assert.Equal(t, form, w.Form())
	assert.Equal(t, StateIdle, w.State())
}

func TestWorkflow_Submit_notReentrant(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.block = make(chan struct{})
	store.entered = make(chan struct{}, 1)
	w := newTestWorkflow(t, store)
	require.NoError(t, w.SetForm(validForm("2025-06-01")))

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = w.Submit(ctx)
	}()

	<-store.entered
	assert.Equal(t, StateSubmitting, w.State())

	for i := 0; i < 3; i++ {
		_, err := w.Submit(ctx)
		assert.True(t, errors.Is(err, ErrBusy), "got %v", err)
	}
	assert.True(t, errors.Is(w.Reset(), ErrBusy))
	assert.True(t, errors.Is(w.SetForm(Form{}), ErrBusy))
	assert.True(t, errors.Is(w.Delete(ctx, "q1"), ErrBusy))
	assert.True(t, errors.Is(w.Edit(ctx, "q1"), ErrBusy))

	close(store.block)
	wg.Wait()
	require.NoError(t, firstErr)

	var creates int
	for _, call := range store.Calls() {
		if call == "create" {
			creates++
		}
	}
	assert.Equal(t, 1, creates)
	assert.Equal(t, StateIdle, w.State())
}

func TestWorkflow_SubmitForm(t *testing.T) {
	ctx := context.Background()
	q1 := Question{ID: "q1", Question: "one", Options: []string{"a", "b"}, CorrectAnswer: "a", ScheduledDate: "2025-06-01"}

	t.Run("create", func(t *testing.T) {
		store := newFakeStore(q1)
		w := newTestWorkflow(t, store)
		require.NoError(t, w.Edit(ctx, "q1"))

		saved, err := w.SubmitForm(ctx, validForm("2025-06-02"), "")
		require.NoError(t, err)
		assert.Equal(t, "q2", saved.ID)
		assert.Equal(t, []string{"list", "list", "create", "list"}, store.Calls())
	})

	t.Run("update", func(t *testing.T) {
		store := newFakeStore(q1)
		w := newTestWorkflow(t, store)

		saved, err := w.SubmitForm(ctx, validForm("2025-06-01"), "q1")
		require.NoError(t, err)
		assert.Equal(t, "q1", saved.ID)
		assert.Equal(t, "What is $2+2$?", saved.Question)
		assert.Equal(t, []string{"list", "update", "list"}, store.Calls())
		_, editing := w.Editing()
		assert.False(t, editing)
	})

	t.Run("unknown id", func(t *testing.T) {
		store := newFakeStore(q1)
		w := newTestWorkflow(t, store)

		_, err := w.SubmitForm(ctx, validForm("2025-06-03"), "nope")
		assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
		assert.Equal(t, []string{"list", "list"}, store.Calls())
		assert.Equal(t, StateIdle, w.State())
	})

	t.Run("invalid keeps mode and form", func(t *testing.T) {
		store := newFakeStore(q1)
		w := newTestWorkflow(t, store)

		form := NewForm("", []string{"a", "b"}, "a", "2025-06-01")
		_, err := w.SubmitForm(ctx, form, "q1")
		var vErr *core.ValidationError
		require.True(t, errors.As(err, &vErr), "got %v", err)
		assert.Equal(t, form, w.Form())
		got, editing := w.Editing()
		assert.True(t, editing)
		assert.Equal(t, "q1", got.ID)
	})
}

func TestWorkflow_SubmitForm_concurrent(t *testing.T) {
	ctx := context.Background()
	q1 := Question{ID: "q1", Question: "one", Options: []string{"a", "b"}, CorrectAnswer: "a", ScheduledDate: "2025-06-01"}

	type result struct {
		saved Question
		err   error
	}

	t.Run("update is not turned into a create", func(t *testing.T) {
		store := newFakeStore(q1)
		store.block = make(chan struct{})
		store.entered = make(chan struct{}, 1)
		w := newTestWorkflow(t, store)

		done := make(chan result, 1)
		go func() {
			saved, err := w.SubmitForm(ctx, validForm("2025-06-01"), "q1")
			done <- result{saved, err}
		}()
		<-store.entered

		_, err := w.SubmitForm(ctx, validForm("2025-06-05"), "")
		assert.True(t, errors.Is(err, ErrBusy), "got %v", err)
		assert.True(t, errors.Is(w.Reset(), ErrBusy))

		close(store.block)
		res := <-done
		require.NoError(t, res.err)
		assert.Equal(t, "q1", res.saved.ID)
		assert.Equal(t, []string{"list", "update", "list"}, store.Calls())
	})

	t.Run("racing creates keep their own form", func(t *testing.T) {
		store := newFakeStore()
		store.block = make(chan struct{})
		store.entered = make(chan struct{}, 1)
		w := newTestWorkflow(t, store)

		forms := []Form{
			NewForm("first", []string{"a", "b"}, "a", "2025-06-01"),
			NewForm("second", []string{"c", "d"}, "d", "2025-06-02"),
		}
		results := make(chan result, len(forms))
		for _, form := range forms {
			go func(form Form) {
				saved, err := w.SubmitForm(ctx, form, "")
				results <- result{saved, err}
			}(form)
		}

		<-store.entered
		loser := <-results
		assert.True(t, errors.Is(loser.err, ErrBusy), "got %v", loser.err)
		close(store.block)
		winner := <-results
		require.NoError(t, winner.err)

		questions, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, questions, 1)
		assert.Equal(t, winner.saved, questions[0])
		assert.Contains(t, []string{"first", "second"}, questions[0].Question)
		if questions[0].Question == "first" {
			assert.Equal(t, []string{"a", "b"}, questions[0].Options)
		} else {
			assert.Equal(t, []string{"c", "d"}, questions[0].Options)
		}
	})
}

func TestWorkflow_Edit(t *testing.T) {
	ctx := context.Background()
	q1 := Question{ID: "q1", Question: "one", Options: []string{"a", "b"}, CorrectAnswer: "a", ScheduledDate: "2025-06-01"}
	store := newFakeStore(q1)
	w := newTestWorkflow(t, store)

	t.Run("unknown id", func(t *testing.T) {
		err := w.Edit(ctx, "nope")
		assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
	})

	t.Run("created elsewhere", func(t *testing.T) {
		q2, err := store.Create(ctx, Question{Question: "two", Options: []string{"x", "y"}, CorrectAnswer: "x", ScheduledDate: "2025-06-02"})
		require.NoError(t, err)
		require.NoError(t, w.Edit(ctx, q2.ID))
		got, ok := w.Editing()
		assert.True(t, ok)
		assert.Equal(t, q2.ID, got.ID)
	})

	t.Run("reset", func(t *testing.T) {
		require.NoError(t, w.Reset())
		_, ok := w.Editing()
		assert.False(t, ok)
		assert.True(t, w.Form().IsEmpty())
	})
}

func TestWorkflow_Delete(t *testing.T) {
	ctx := context.Background()
	q1 := Question{ID: "q1", Question: "one", Options: []string{"a", "b"}, CorrectAnswer: "a", ScheduledDate: "2025-06-01"}
	q2 := Question{ID: "q2", Question: "two", Options: []string{"a", "b"}, CorrectAnswer: "b", ScheduledDate: "2025-06-02"}
	store := newFakeStore(q1, q2)
	notifier := &fakeNotifier{}
	w := newTestWorkflow(t, store, WithNotifier(notifier))

	require.NoError(t, w.Edit(ctx, "q1"))
	require.NoError(t, w.Delete(ctx, "q1"))

	_, editing := w.Editing()
	assert.False(t, editing)
	assert.True(t, w.Form().IsEmpty())
	assert.Equal(t, []Question{q2}, w.Questions())
	assert.Equal(t, []string{"q1"}, notifier.ids)

	err := w.Delete(ctx, "q1")
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}
