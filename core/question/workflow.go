package question

import (
	"context"
	"sync"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/Sajalaxena/edu-Darshi-sub000/core"
)

// State is the step a Workflow submission is at.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateCheckingConflict
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateCheckingConflict:
		return "checking_conflict"
	case StateSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

type Option func(*Workflow)

func WithLogger(logger core.Logger) Option {
	return func(w *Workflow) { w.logger = logger }
}

func WithNotifier(notifier Notifier) Option {
	return func(w *Workflow) { w.notifier = notifier }
}

// Workflow is one admin's question form: at most one form in flight, bound either to a new
// question (create mode) or to one existing question (edit mode).
// Submit runs validate -> conflict check -> create/update strictly in order and rejects
// any submit, edit or delete while one is running.
type Workflow struct {
	store      AdminStore
	checker    *ConflictChecker
	validate   *validator.Validate
	translator ut.Translator
	logger     core.Logger
	notifier   Notifier

	mu        sync.Mutex
	state     State
	form      Form
	editing   *Question
	questions []Question
}

func NewWorkflow(store AdminStore, validate *validator.Validate, translator ut.Translator, opts ...Option) *Workflow {
	vala.BeginValidation().Validate(
		vala.IsNotNil(store, "store"),
		vala.IsNotNil(validate, "validate"),
		vala.IsNotNil(translator, "translator"),
	).CheckAndPanic()

	w := &Workflow{
		store:      store,
		checker:    NewConflictChecker(store),
		validate:   validate,
		translator: translator,
		logger:     core.NopLogger,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Workflow) Form() Form {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form
}

// Editing returns the question bound to the form in edit mode.
func (w *Workflow) Editing() (Question, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.editing == nil {
		return Question{}, false
	}
	return *w.editing, true
}

// Questions returns the question list as of the last refresh.
func (w *Workflow) Questions() []Question {
	w.mu.Lock()
	defer w.mu.Unlock()
	questions := make([]Question, len(w.questions))
	copy(questions, w.questions)
	return questions
}

// Refresh reloads the question list from the store.
func (w *Workflow) Refresh(ctx context.Context) error {
	questions, err := w.store.List(ctx)
	if err != nil {
		return errors.Wrap(err, "listing questions")
	}
	w.mu.Lock()
	w.questions = questions
	w.mu.Unlock()
	return nil
}

// Reset switches to create mode with an empty form.
func (w *Workflow) Reset() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateIdle {
		return ErrBusy
	}
	w.form = Form{}
	w.editing = nil
	return nil
}

func (w *Workflow) SetForm(form Form) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateIdle {
		return ErrBusy
	}
	w.form = form
	return nil
}

// Edit switches to edit mode for the question with id and fills the form from it.
func (w *Workflow) Edit(ctx context.Context, id string) error {
	if w.State() != StateIdle {
		return ErrBusy
	}
	q, err := w.lookup(ctx, id)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateIdle {
		return ErrBusy
	}
	w.editing = &q
	w.form = FormFromQuestion(q)
	return nil
}

// Submit validates the form, checks the date is free and creates or updates the question.
// On success the form is cleared back to create mode and the list is refreshed.
// On failure the form is left untouched.
func (w *Workflow) Submit(ctx context.Context) (Question, error) {
	w.mu.Lock()
	if w.state != StateIdle {
		w.mu.Unlock()
		return Question{}, ErrBusy
	}
	w.state = StateValidating
	form := w.form
	var original *Question
	if w.editing != nil {
		orig := *w.editing
		original = &orig
	}
	w.mu.Unlock()
	defer w.setState(StateIdle)

	return w.submit(ctx, form, original)
}

// SubmitForm replaces the form and submits it as one step. An empty editID creates a new
// question, otherwise the question with editID is updated. Nothing else can change the
// form or its mode between the two.
func (w *Workflow) SubmitForm(ctx context.Context, form Form, editID string) (Question, error) {
	if !w.begin(StateValidating) {
		return Question{}, ErrBusy
	}
	defer w.setState(StateIdle)

	var original *Question
	if editID != "" {
		q, err := w.lookup(ctx, editID)
		if err != nil {
			return Question{}, err
		}
		original = &q
	}

	w.mu.Lock()
	w.form = form
	w.editing = nil
	if original != nil {
		editing := *original
		w.editing = &editing
	}
	w.mu.Unlock()

	return w.submit(ctx, form, original)
}

// submit runs the submission of form once the workflow is claimed.
// original is the question being edited, nil in create mode.
func (w *Workflow) submit(ctx context.Context, form Form, original *Question) (Question, error) {
	if err := form.Validate(w.validate, w.translator); err != nil {
		return Question{}, err
	}

	w.setState(StateCheckingConflict)
	conflict, err := w.checker.Check(ctx, form.ScheduledDate, original)
	if err != nil {
		w.logger.Warn("question conflict check failed", err)
		return Question{}, err
	}
	if conflict {
		return Question{}, dateTakenError()
	}

	w.setState(StateSubmitting)
	var saved Question
	if original == nil {
		saved, err = w.store.Create(ctx, form.Payload())
		err = errors.Wrap(err, "creating question")
	} else {
		saved, err = w.store.Update(ctx, original.ID, form.Payload())
		err = errors.Wrap(err, "updating question")
	}
	if err != nil {
		w.logger.Error("question submission failed", err)
		return Question{}, err
	}

	w.mu.Lock()
	w.form = Form{}
	w.editing = nil
	w.mu.Unlock()

	w.changed(ctx, saved.ID)
	return saved, nil
}

// Delete removes the question with id. If it was being edited the form goes back to create mode.
func (w *Workflow) Delete(ctx context.Context, id string) error {
	if !w.begin(StateSubmitting) {
		return ErrBusy
	}
	defer w.setState(StateIdle)

	if err := w.store.Delete(ctx, id); err != nil {
		w.logger.Error("question deletion failed", err)
		return errors.Wrap(err, "deleting question")
	}

	w.mu.Lock()
	if w.editing != nil && w.editing.ID == id {
		w.editing = nil
		w.form = Form{}
	}
	w.mu.Unlock()

	w.changed(ctx, id)
	return nil
}

func (w *Workflow) changed(ctx context.Context, id string) {
	if err := w.Refresh(ctx); err != nil {
		w.logger.Warn("question list refresh failed", err)
	}
	if w.notifier != nil {
		w.notifier.QuestionsChanged(ctx, id)
	}
}

// begin moves an idle workflow to state. It reports false when a submission is running.
func (w *Workflow) begin(state State) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateIdle {
		return false
	}
	w.state = state
	return true
}

func (w *Workflow) setState(state State) {
	w.mu.Lock()
	w.state = state
	w.mu.Unlock()
}

// lookup finds the question with id in the local list, refreshing it once if it is not there.
func (w *Workflow) lookup(ctx context.Context, id string) (Question, error) {
	if q, ok := w.find(id); ok {
		return q, nil
	}
	if err := w.Refresh(ctx); err != nil {
		return Question{}, err
	}
	if q, ok := w.find(id); ok {
		return q, nil
	}
	return Question{}, ErrNotFound
}

func (w *Workflow) find(id string) (Question, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, q := range w.questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}
