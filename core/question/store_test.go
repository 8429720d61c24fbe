package question

import (
	"context"
	"fmt"
	"sync"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/Sajalaxena/edu-Darshi-sub000/core"
)

func newValidator() (*validator.Validate, ut.Translator) {
	validate, translator := core.NewValidator()
	InitValidators(validate, translator)
	return validate, translator
}

// fakeStore is an in-memory AdminStore and DailyStore that records the calls it receives.
type fakeStore struct {
	mu        sync.Mutex
	questions []Question
	calls     []string
	nextID    int

	listErr   error
	createErr error
	updateErr error
	deleteErr error
	submitErr error

	// block, when set, is waited on at the start of Create, Update and Submit.
	block chan struct{}
	// entered receives a value when a blocked call starts.
	entered chan struct{}

	verdict Verdict
}

func newFakeStore(questions ...Question) *fakeStore {
	return &fakeStore{questions: questions, nextID: len(questions) + 1}
}

func (s *fakeStore) record(call string) {
	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.mu.Unlock()
}

func (s *fakeStore) wait() {
	if s.block == nil {
		return
	}
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	<-s.block
}

func (s *fakeStore) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *fakeStore) List(context.Context) ([]Question, error) {
	s.record("list")
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]Question(nil), s.questions...), nil
}

func (s *fakeStore) Create(_ context.Context, q Question) (Question, error) {
	s.record("create")
	s.wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return Question{}, s.createErr
	}
	q.ID = fmt.Sprintf("q%d", s.nextID)
	s.nextID++
	s.questions = append(s.questions, q)
	return q, nil
}

func (s *fakeStore) Update(_ context.Context, id string, q Question) (Question, error) {
	s.record("update")
	s.wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return Question{}, s.updateErr
	}
	for i := range s.questions {
		if s.questions[i].ID == id {
			q.ID = id
			s.questions[i] = q
			return q, nil
		}
	}
	return Question{}, &StoreError{StatusCode: 404}
}

func (s *fakeStore) Delete(_ context.Context, id string) error {
	s.record("delete")
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for i := range s.questions {
		if s.questions[i].ID == id {
			s.questions = append(s.questions[:i], s.questions[i+1:]...)
			return nil
		}
	}
	return &StoreError{StatusCode: 404}
}

func (s *fakeStore) Today(context.Context) (Question, error) {
	s.record("today")
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.questions) == 0 {
		return Question{}, &StoreError{StatusCode: 404, Message: "No question for today"}
	}
	return s.questions[0], nil
}

func (s *fakeStore) Submit(_ context.Context, questionID, answer string) (Verdict, error) {
	s.record("submit:" + questionID + ":" + answer)
	s.wait()
	if s.submitErr != nil {
		return Verdict{}, s.submitErr
	}
	return s.verdict, nil
}

type fakeNotifier struct {
	mu  sync.Mutex
	ids []string
}

func (n *fakeNotifier) QuestionsChanged(_ context.Context, id string) {
	n.mu.Lock()
	n.ids = append(n.ids, id)
	n.mu.Unlock()
}
