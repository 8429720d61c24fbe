package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Sajalaxena/edu-Darshi-sub000/core/question"
)

// StoreServer is an in-memory question store served over HTTP.
type StoreServer struct {
	*httptest.Server

	mu        sync.Mutex
	questions []question.Question
	nextID    int
	calls     []string
	failures  map[string]int
	todayID   string
	wrap      bool
}

// NewStoreServer starts a fake question store holding questions. It is closed with the test.
func NewStoreServer(t *testing.T, questions ...question.Question) *StoreServer {
	t.Helper()
	s := &StoreServer{
		questions: append([]question.Question(nil), questions...),
		nextID:    len(questions) + 1,
		failures:  make(map[string]int),
	}

	e := echo.New()
	e.HideBanner = true
	g := e.Group("/api", s.intercept)
	g.GET("/question/admin/all", s.list)
	g.POST("/question/admin", s.create)
	g.PUT("/question/admin/:id", s.update)
	g.DELETE("/question/admin/:id", s.delete)
	g.GET("/question/today", s.today)
	g.POST("/question/submit", s.submit)

	s.Server = httptest.NewServer(e)
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the value to configure as the store base URL.
func (s *StoreServer) BaseURL() string {
	return s.URL + "/api"
}

// Fail makes every request to route (e.g. "GET /question/admin/all") answer with status.
// A zero status clears the failure.
func (s *StoreServer) Fail(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failures, route)
		return
	}
	s.failures[route] = status
}

// Wrap makes responses use a {"data": ...} envelope.
func (s *StoreServer) Wrap(wrap bool) {
	s.mu.Lock()
	s.wrap = wrap
	s.mu.Unlock()
}

// SetToday picks the question served as today's. By default it is the one scheduled for the current UTC date.
func (s *StoreServer) SetToday(id string) {
	s.mu.Lock()
	s.todayID = id
	s.mu.Unlock()
}

// Calls returns the routes requested so far, e.g. "PUT /question/admin/:id".
func (s *StoreServer) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// Count returns how many times route was requested.
func (s *StoreServer) Count(route string) int {
	var n int
	for _, call := range s.Calls() {
		if call == route {
			n++
		}
	}
	return n
}

func (s *StoreServer) Questions() []question.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]question.Question(nil), s.questions...)
}

func (s *StoreServer) intercept(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		route := c.Request().Method + " " + c.Path()[len("/api"):]
		s.mu.Lock()
		s.calls = append(s.calls, route)
		status, fail := s.failures[route]
		s.mu.Unlock()
		if fail {
			return c.JSON(status, echo.Map{"message": fmt.Sprintf("%s failed", route)})
		}
		return next(c)
	}
}

func (s *StoreServer) reply(c echo.Context, code int, v interface{}) error {
	s.mu.Lock()
	wrap := s.wrap
	s.mu.Unlock()
	if wrap {
		return c.JSON(code, echo.Map{"data": v})
	}
	return c.JSON(code, v)
}

func (s *StoreServer) list(c echo.Context) error {
	return s.reply(c, http.StatusOK, s.Questions())
}

func (s *StoreServer) create(c echo.Context) error {
	var q question.Question
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	s.mu.Lock()
	q.ID = fmt.Sprintf("q%d", s.nextID)
	s.nextID++
	s.questions = append(s.questions, q)
	s.mu.Unlock()
	return s.reply(c, http.StatusCreated, q)
}

func (s *StoreServer) update(c echo.Context) error {
	var q question.Question
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	id := c.Param("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.questions {
		if s.questions[i].ID == id {
			q.ID = id
			s.questions[i] = q
			return c.JSON(http.StatusOK, q)
		}
	}
	return c.JSON(http.StatusNotFound, echo.Map{"message": "Question not found"})
}

func (s *StoreServer) delete(c echo.Context) error {
	id := c.Param("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.questions {
		if s.questions[i].ID == id {
			s.questions = append(s.questions[:i], s.questions[i+1:]...)
			return c.JSON(http.StatusOK, echo.Map{"message": "Question deleted"})
		}
	}
	return c.JSON(http.StatusNotFound, echo.Map{"message": "Question not found"})
}

func (s *StoreServer) find(id string) (question.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range s.questions {
		if q.ID == id {
			return q, true
		}
	}
	return question.Question{}, false
}

func (s *StoreServer) today(c echo.Context) error {
	s.mu.Lock()
	id := s.todayID
	if id == "" {
		key := question.DateKey(time.Now().UTC())
		for _, q := range s.questions {
			if q.DateKey() == key {
				id = q.ID
				break
			}
		}
	}
	s.mu.Unlock()

	q, ok := s.find(id)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "No question scheduled for today"})
	}
	// the answer is only revealed by submit
	q.CorrectAnswer = ""
	q.Explanation = ""
	return s.reply(c, http.StatusOK, q)
}

func (s *StoreServer) submit(c echo.Context) error {
	var req struct {
		QuestionID string `json:"questionId"`
		Answer     string `json:"answer"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	q, ok := s.find(req.QuestionID)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Question not found"})
	}
	return s.reply(c, http.StatusOK, question.Verdict{
		IsCorrect:     req.Answer == q.CorrectAnswer,
		Explanation:   q.Explanation,
		CorrectAnswer: q.CorrectAnswer,
	})
}
