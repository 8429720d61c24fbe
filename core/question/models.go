package question

import (
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/Sajalaxena/edu-Darshi-sub000/core"
)

// OptionSlots is the number of option inputs the question form presents.
const OptionSlots = 4

// Question is a quiz question scheduled for exactly one calendar date.
// Question and Explanation may embed `$...$` / `$$...$$` math markup, which is carried as is.
type Question struct {
	ID               string   `json:"_id,omitempty"`
	Question         string   `json:"question"`
	Options          []string `json:"options"`
	CorrectAnswer    string   `json:"correctAnswer,omitempty"`
	Explanation      string   `json:"explanation,omitempty"`
	ScheduledDate    string   `json:"scheduledDate"`
	SolutionVideoURL string   `json:"solutionVideoUrl,omitempty"`
}

// DateKey returns the normalized calendar date the question is scheduled for.
func (q Question) DateKey() string {
	return NormalizeDate(q.ScheduledDate)
}

func (q Question) HasOption(option string) bool {
	for _, opt := range q.Options {
		if opt == option {
			return true
		}
	}
	return false
}

// Form is the admin question form as typed: four option slots, no ID.
type Form struct {
	Question         string              `json:"question" validate:"nonblank"`
	Options          [OptionSlots]string `json:"options" validate:"filledmin=2"`
	CorrectAnswer    string              `json:"correctAnswer"`
	Explanation      string              `json:"explanation"`
	ScheduledDate    string              `json:"scheduledDate" validate:"required"`
	SolutionVideoURL string              `json:"solutionVideoUrl"`
}

// NewForm builds a form from a list of options; options past OptionSlots are ignored.
func NewForm(text string, options []string, correctAnswer, scheduledDate string) Form {
	f := Form{
		Question:      text,
		CorrectAnswer: correctAnswer,
		ScheduledDate: scheduledDate,
	}
	copy(f.Options[:], options)
	return f
}

// FormFromQuestion fills a form from an existing question for editing.
func FormFromQuestion(q Question) Form {
	f := Form{
		Question:         q.Question,
		CorrectAnswer:    q.CorrectAnswer,
		Explanation:      q.Explanation,
		ScheduledDate:    NormalizeDate(q.ScheduledDate),
		SolutionVideoURL: q.SolutionVideoURL,
	}
	copy(f.Options[:], q.Options)
	return f
}

// FilledOptions returns the option slots that are not blank, as typed.
func (f Form) FilledOptions() []string {
	opts := make([]string, 0, OptionSlots)
	for _, opt := range f.Options {
		if strings.TrimSpace(opt) != "" {
			opts = append(opts, opt)
		}
	}
	return opts
}

// IsEmpty reports whether nothing has been typed in the form.
func (f Form) IsEmpty() bool {
	return f == Form{}
}

// Validate checks every form rule and reports all violations at once as a *core.ValidationError.
func (f Form) Validate(validate *validator.Validate, translator ut.Translator) error {
	return core.TranslateValidationErrors(validate.Struct(f), translator)
}

// Payload is the record sent to the question store: blank option slots are dropped.
func (f Form) Payload() Question {
	return Question{
		Question:         f.Question,
		Options:          f.FilledOptions(),
		CorrectAnswer:    f.CorrectAnswer,
		Explanation:      f.Explanation,
		ScheduledDate:    f.ScheduledDate,
		SolutionVideoURL: f.SolutionVideoURL,
	}
}

// Verdict is the store's answer to a daily question submission.
type Verdict struct {
	IsCorrect     bool   `json:"isCorrect"`
	Explanation   string `json:"explanation"`
	CorrectAnswer string `json:"correctAnswer,omitempty"`
}
