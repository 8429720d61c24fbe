package echoapi

import (
	"net/http"
	"sync"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Sajalaxena/edu-Darshi-sub000/core"
	"github.com/Sajalaxena/edu-Darshi-sub000/core/question"
)

// FormResponse is the state of the calling admin's question form.
type FormResponse struct {
	Mode      string        `json:"mode"` // create | edit
	EditingID string        `json:"editingId,omitempty"`
	State     string        `json:"state"`
	Form      question.Form `json:"form"`
}

// QuestionRequest is the body of a question create or update.
type QuestionRequest struct {
	Question         string   `json:"question"`
	Options          []string `json:"options"`
	CorrectAnswer    string   `json:"correctAnswer"`
	Explanation      string   `json:"explanation"`
	ScheduledDate    string   `json:"scheduledDate"`
	SolutionVideoURL string   `json:"solutionVideoUrl"`
}

// Form fills a question form from the request. Options that do not fit in the form are rejected.
func (r QuestionRequest) Form() (question.Form, error) {
	if err := question.CheckOptionCount(r.Options); err != nil {
		return question.Form{}, err
	}
	form := question.NewForm(r.Question, r.Options, r.CorrectAnswer, r.ScheduledDate)
	form.Explanation = r.Explanation
	form.SolutionVideoURL = r.SolutionVideoURL
	return form, nil
}

type questionApi struct {
	store      question.AdminStore
	validate   *validator.Validate
	translator ut.Translator
	logger     core.Logger
	notifier   question.Notifier

	now       func() time.Time
	mu        sync.Mutex
	workflows map[string]sessionWorkflow // by session ID
}

type sessionWorkflow struct {
	*question.Workflow
	expiresAt time.Time
}

func registerQuestionAPI(g *echo.Group, authed echo.MiddlewareFunc, deps *Deps) *questionApi {
	api := &questionApi{
		store:      deps.Store,
		validate:   deps.Validate,
		translator: deps.Translator,
		logger:     deps.Logger,
		notifier:   deps.Hub,
		now:        time.Now,
		workflows:  make(map[string]sessionWorkflow),
	}

	qg := g.Group("/admin/questions", authed)
	qg.GET("", api.list)
	qg.POST("", api.create)
	qg.PUT("/:id", api.update)
	qg.DELETE("/:id", api.destroy)

	fg := g.Group("/admin/form", authed)
	fg.GET("", api.form)
	fg.POST("/edit/:id", api.edit)
	fg.DELETE("", api.resetForm)
	return api
}

// workflow returns the form workflow of the session making the request.
// Each admin session gets its own, so one admin's submission never blocks another's.
// Workflows of sessions that expired without a logout are dropped on the way.
func (api *questionApi) workflow(ctx echo.Context) (*question.Workflow, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return nil, err
	}
	api.mu.Lock()
	defer api.mu.Unlock()

	now := api.now()
	for id, entry := range api.workflows {
		if now.After(entry.expiresAt) {
			delete(api.workflows, id)
		}
	}

	entry, ok := api.workflows[claims.Id]
	if !ok {
		entry = sessionWorkflow{
			Workflow: question.NewWorkflow(api.store, api.validate, api.translator,
				question.WithLogger(api.logger),
				question.WithNotifier(api.notifier),
			),
			expiresAt: time.Unix(claims.ExpiresAt, 0),
		}
		api.workflows[claims.Id] = entry
	}
	return entry.Workflow, nil
}

func (api *questionApi) forget(sessionID string) {
	api.mu.Lock()
	delete(api.workflows, sessionID)
	api.mu.Unlock()
}

// Handlers

func (api *questionApi) list(ctx echo.Context) error {
	wf, err := api.workflow(ctx)
	if err != nil {
		return err
	}
	if err := wf.Refresh(ctx.Request().Context()); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, wf.Questions())
}

func (api *questionApi) create(ctx echo.Context) error {
	return api.submit(ctx, http.StatusCreated, "")
}

func (api *questionApi) update(ctx echo.Context) error {
	return api.submit(ctx, http.StatusOK, ctx.Param("id"))
}

// submit saves the request body as a new question, or over the question with editID.
func (api *questionApi) submit(ctx echo.Context, status int, editID string) error {
	var data QuestionRequest
	if err := ctx.Bind(&data); err != nil {
		return badRequest(err)
	}
	form, err := data.Form()
	if err != nil {
		return err
	}
	wf, err := api.workflow(ctx)
	if err != nil {
		return err
	}
	saved, err := wf.SubmitForm(ctx.Request().Context(), form, editID)
	if err != nil {
		return err
	}
	return ctx.JSON(status, saved)
}

func (api *questionApi) destroy(ctx echo.Context) error {
	wf, err := api.workflow(ctx)
	if err != nil {
		return err
	}
	if err := wf.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *questionApi) form(ctx echo.Context) error {
	wf, err := api.workflow(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, formResponse(wf))
}

// edit loads the question with id into the form.
func (api *questionApi) edit(ctx echo.Context) error {
	wf, err := api.workflow(ctx)
	if err != nil {
		return err
	}
	if err := wf.Edit(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, formResponse(wf))
}

// resetForm goes back to create mode with an empty form.
func (api *questionApi) resetForm(ctx echo.Context) error {
	wf, err := api.workflow(ctx)
	if err != nil {
		return err
	}
	if err := wf.Reset(); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, formResponse(wf))
}

func formResponse(wf *question.Workflow) FormResponse {
	res := FormResponse{Mode: "create", State: wf.State().String(), Form: wf.Form()}
	if q, ok := wf.Editing(); ok {
		res.Mode = "edit"
		res.EditingID = q.ID
	}
	return res
}
