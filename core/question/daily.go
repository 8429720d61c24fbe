package question

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// OptionState is how one option of a daily quiz should be shown.
type OptionState struct {
	Text    string `json:"text"`
	Chosen  bool   `json:"chosen"`
	Correct bool   `json:"correct"`
	Locked  bool   `json:"locked"`
}

// DailyQuiz is one loaded instance of today's question. It accepts a single answer:
// once a verdict is in, every further Select or Submit is refused.
type DailyQuiz struct {
	ID       string    `json:"instanceId"`
	Question Question  `json:"question"`
	Selected string    `json:"selected,omitempty"`
	Verdict  *Verdict  `json:"verdict,omitempty"`
	LoadedAt time.Time `json:"loadedAt"`

	mu         sync.Mutex
	submitting bool
}

// LoadDailyQuiz fetches today's question once and wraps it in a new quiz instance.
func LoadDailyQuiz(ctx context.Context, store DailyStore) (*DailyQuiz, error) {
	q, err := store.Today(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "fetching today's question")
	}
	return &DailyQuiz{
		ID:       uuid.NewString(),
		Question: q,
		LoadedAt: time.Now().UTC(),
	}, nil
}

// Select picks the answer to submit.
func (dq *DailyQuiz) Select(option string) error {
	dq.mu.Lock()
	defer dq.mu.Unlock()
	switch {
	case dq.Verdict != nil:
		return ErrAlreadyAnswered
	case dq.submitting:
		return ErrBusy
	case !dq.Question.HasOption(option):
		return ErrUnknownOption
	}
	dq.Selected = option
	return nil
}

// CanSubmit reports whether an answer is selected and no verdict has been received yet.
func (dq *DailyQuiz) CanSubmit() bool {
	dq.mu.Lock()
	defer dq.mu.Unlock()
	return dq.Selected != "" && dq.Verdict == nil && !dq.submitting
}

func (dq *DailyQuiz) Answered() bool {
	dq.mu.Lock()
	defer dq.mu.Unlock()
	return dq.Verdict != nil
}

// Submit sends the selected answer to the store. After a verdict is received it returns that
// verdict with ErrAlreadyAnswered and never calls the store again.
func (dq *DailyQuiz) Submit(ctx context.Context, store DailyStore) (Verdict, error) {
	dq.mu.Lock()
	switch {
	case dq.Verdict != nil:
		verdict := *dq.Verdict
		dq.mu.Unlock()
		return verdict, ErrAlreadyAnswered
	case dq.submitting:
		dq.mu.Unlock()
		return Verdict{}, ErrBusy
	case dq.Selected == "":
		dq.mu.Unlock()
		return Verdict{}, ErrNoAnswer
	}
	dq.submitting = true
	questionID, answer := dq.Question.ID, dq.Selected
	dq.mu.Unlock()

	verdict, err := store.Submit(ctx, questionID, answer)

	dq.mu.Lock()
	defer dq.mu.Unlock()
	dq.submitting = false
	if err != nil {
		return Verdict{}, errors.Wrap(err, "submitting answer")
	}
	dq.Verdict = &verdict
	return verdict, nil
}

// Options returns the display state of each option. Before the verdict nothing is marked
// correct and nothing is locked.
func (dq *DailyQuiz) Options() []OptionState {
	dq.mu.Lock()
	defer dq.mu.Unlock()

	var correct string
	if dq.Verdict != nil {
		switch {
		case dq.Verdict.CorrectAnswer != "":
			correct = dq.Verdict.CorrectAnswer
		case dq.Verdict.IsCorrect:
			correct = dq.Selected
		default:
			correct = dq.Question.CorrectAnswer
		}
	}

	states := make([]OptionState, 0, len(dq.Question.Options))
	for _, opt := range dq.Question.Options {
		states = append(states, OptionState{
			Text:    opt,
			Chosen:  opt == dq.Selected,
			Correct: dq.Verdict != nil && opt == correct,
			Locked:  dq.Verdict != nil,
		})
	}
	return states
}

// InstanceStore keeps daily quiz instances between requests.
type InstanceStore interface {
	SaveQuiz(ctx context.Context, quiz *DailyQuiz) error
	// GetQuiz returns ErrQuizNotFound for unknown or expired instances.
	GetQuiz(ctx context.Context, id string) (*DailyQuiz, error)
	// LockQuiz returns ErrBusy while another holder has the instance.
	LockQuiz(ctx context.Context, id string) (unlock func(), err error)
}

// DailyService serves daily quiz instances to many visitors.
type DailyService struct {
	store     DailyStore
	instances InstanceStore
}

func NewDailyService(store DailyStore, instances InstanceStore) *DailyService {
	return &DailyService{store: store, instances: instances}
}

// Load starts a new quiz instance for today's question.
func (svc *DailyService) Load(ctx context.Context) (*DailyQuiz, error) {
	quiz, err := LoadDailyQuiz(ctx, svc.store)
	if err != nil {
		return nil, err
	}
	if err := svc.instances.SaveQuiz(ctx, quiz); err != nil {
		return nil, errors.Wrap(err, "saving quiz instance")
	}
	return quiz, nil
}

func (svc *DailyService) Get(ctx context.Context, id string) (*DailyQuiz, error) {
	return svc.instances.GetQuiz(ctx, id)
}

// Submit answers the quiz instance with id. The instance is locked for the whole call,
// so concurrent submits for one instance never both reach the store.
func (svc *DailyService) Submit(ctx context.Context, id, answer string) (*DailyQuiz, error) {
	unlock, err := svc.instances.LockQuiz(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	quiz, err := svc.instances.GetQuiz(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := quiz.Select(answer); err != nil {
		return quiz, err
	}
	if _, err := quiz.Submit(ctx, svc.store); err != nil {
		return quiz, err
	}
	if err := svc.instances.SaveQuiz(ctx, quiz); err != nil {
		return quiz, errors.Wrap(err, "saving quiz instance")
	}
	return quiz, nil
}

// Result returns the selected answer and a copy of the verdict, nil until answered.
func (dq *DailyQuiz) Result() (string, *Verdict) {
	dq.mu.Lock()
	defer dq.mu.Unlock()
	if dq.Verdict == nil {
		return dq.Selected, nil
	}
	verdict := *dq.Verdict
	return dq.Selected, &verdict
}
