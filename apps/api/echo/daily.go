package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Sajalaxena/edu-Darshi-sub000/core/question"
)

type (
	SubmitRequest struct {
		InstanceID string `json:"instanceId"`
		Answer     string `json:"answer"`
	}

	// QuizResponse is the public view of a daily quiz instance.
	// The correct answer and explanation are only sent once a verdict is in.
	QuizResponse struct {
		InstanceID       string                 `json:"instanceId"`
		QuestionID       string                 `json:"questionId"`
		Question         string                 `json:"question"`
		ScheduledDate    string                 `json:"scheduledDate"`
		Options          []question.OptionState `json:"options"`
		Selected         string                 `json:"selected,omitempty"`
		Answered         bool                   `json:"answered"`
		IsCorrect        *bool                  `json:"isCorrect,omitempty"`
		Explanation      string                 `json:"explanation,omitempty"`
		SolutionVideoURL string                 `json:"solutionVideoUrl,omitempty"`
	}
)

func newQuizResponse(quiz *question.DailyQuiz) QuizResponse {
	selected, verdict := quiz.Result()
	res := QuizResponse{
		InstanceID:    quiz.ID,
		QuestionID:    quiz.Question.ID,
		Question:      quiz.Question.Question,
		ScheduledDate: question.NormalizeDate(quiz.Question.ScheduledDate),
		Options:       quiz.Options(),
		Selected:      selected,
	}
	if verdict != nil {
		res.Answered = true
		res.IsCorrect = &verdict.IsCorrect
		res.Explanation = verdict.Explanation
		res.SolutionVideoURL = quiz.Question.SolutionVideoURL
	}
	return res
}

type dailyApi struct {
	svc *question.DailyService
}

func registerDailyAPI(g *echo.Group, svc *question.DailyService) {
	api := dailyApi{svc: svc}

	qg := g.Group("/question")
	qg.GET("/today", api.today)
	qg.GET("/today/:id", api.retrieve)
	qg.POST("/submit", api.submit)
}

// Handlers

// today starts a new quiz instance for the question of the day.
func (api dailyApi) today(ctx echo.Context) error {
	quiz, err := api.svc.Load(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, newQuizResponse(quiz))
}

func (api dailyApi) retrieve(ctx echo.Context) error {
	quiz, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newQuizResponse(quiz))
}

func (api dailyApi) submit(ctx echo.Context) error {
	var data SubmitRequest
	if err := ctx.Bind(&data); err != nil {
		return badRequest(err)
	}
	if data.Answer == "" {
		return question.ErrNoAnswer
	}
	quiz, err := api.svc.Submit(ctx.Request().Context(), data.InstanceID, data.Answer)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newQuizResponse(quiz))
}
