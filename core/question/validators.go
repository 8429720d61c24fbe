package question

import (
	"reflect"
	"strconv"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/Sajalaxena/edu-Darshi-sub000/core"
)

var (
	nonBlankTag  = "nonblank"
	nonBlankText = "this field cannot be blank"

	filledMinTag  = "filledmin"
	filledMinText = "at least {0} options must be filled in"

	correctOptionTag  = "correctoption"
	correctOptionText = "the correct answer must exactly match one of the options"

	dateTakenText = "a question is already scheduled for this date"

	tooManyOptionsText = "at most {0} options can be given"
)

// InitValidators registers the question form validators and their messages.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(nonBlankTag, nonBlankValidation)
	core.RegisterCustomTranslation(validate, translator, nonBlankTag, nonBlankText)

	_ = validate.RegisterValidation(filledMinTag, filledMinValidation)
	core.RegisterCustomTranslation(validate, translator, filledMinTag, filledMinText)

	validate.RegisterStructValidation(formStructValidation, Form{})
	core.RegisterCustomTranslation(validate, translator, correctOptionTag, correctOptionText)
}

// Custom Validators

// nonBlankValidation requires a string with something other than whitespace.
func nonBlankValidation(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// filledMinValidation requires at least `param` non-blank entries in a string array or slice.
func filledMinValidation(fl validator.FieldLevel) bool {
	min, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	field := fl.Field()
	switch field.Kind() {
	case reflect.Array, reflect.Slice:
	default:
		return false
	}
	var filled int
	for i := 0; i < field.Len(); i++ {
		if strings.TrimSpace(field.Index(i).String()) != "" {
			filled++
		}
	}
	return filled >= min
}

// formStructValidation checks that the correct answer is one of the filled options, byte for byte.
func formStructValidation(sl validator.StructLevel) {
	f, ok := sl.Current().Interface().(Form)
	if !ok {
		return
	}
	for _, opt := range f.FilledOptions() {
		if opt == f.CorrectAnswer {
			return
		}
	}
	sl.ReportError(f.CorrectAnswer, "correctAnswer", "CorrectAnswer", correctOptionTag, "")
}

// CheckOptionCount rejects an option list that does not fit in the form's OptionSlots.
func CheckOptionCount(options []string) error {
	if len(options) <= OptionSlots {
		return nil
	}
	msg := strings.Replace(tooManyOptionsText, "{0}", strconv.Itoa(OptionSlots), 1)
	return core.NewValidationError(nil, core.FieldError{Field: "options", Error: msg})
}

func dateTakenError() error {
	return core.NewValidationError(ErrDateTaken, core.FieldError{Field: "scheduledDate", Error: dateTakenText})
}
