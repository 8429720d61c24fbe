package storesvc

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sajalaxena/edu-Darshi-sub000/core"
	"github.com/Sajalaxena/edu-Darshi-sub000/core/question"
	"github.com/Sajalaxena/edu-Darshi-sub000/tests"
)

func newTestClient(baseURL string) *Client {
	return NewClient(core.StoreConfig{BaseURL: baseURL, Timeout: 5 * time.Second})
}

var seed = question.Question{
	ID:            "q1",
	Question:      "What is $\\sqrt{16}$?",
	Options:       []string{"2", "4", "8"},
	CorrectAnswer: "4",
	Explanation:   "$4^2 = 16$",
	ScheduledDate: "2025-06-01T00:00:00.000Z",
}

func TestClient_adminRoundTrip(t *testing.T) {
	for _, wrap := range []bool{false, true} {
		t.Run(map[bool]string{false: "bare", true: "enveloped"}[wrap], func(t *testing.T) {
			ctx := context.Background()
			srv := testutil.NewStoreServer(t, seed)
			srv.Wrap(wrap)
			client := newTestClient(srv.BaseURL())

			questions, err := client.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []question.Question{seed}, questions)

			created, err := client.Create(ctx, question.Question{
				Question:      "Capital of France?",
				Options:       []string{"Paris", "Rome"},
				CorrectAnswer: "Paris",
				ScheduledDate: "2025-06-02",
			})
			require.NoError(t, err)
			assert.Equal(t, "q2", created.ID)

			created.Question = "Capital of Italy?"
			created.CorrectAnswer = "Rome"
			updated, err := client.Update(ctx, created.ID, created)
			require.NoError(t, err)
			assert.Equal(t, "q2", updated.ID)
			assert.Equal(t, "Rome", updated.CorrectAnswer)

			require.NoError(t, client.Delete(ctx, "q1"))
			questions, err = client.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []question.Question{updated}, questions)

			assert.Equal(t, []string{
				"GET /question/admin/all",
				"POST /question/admin",
				"PUT /question/admin/:id",
				"DELETE /question/admin/:id",
				"GET /question/admin/all",
			}, srv.Calls())
		})
	}
}

func TestClient_daily(t *testing.T) {
	ctx := context.Background()
	srv := testutil.NewStoreServer(t, seed)
	srv.SetToday("q1")
	client := newTestClient(srv.BaseURL())

	q, err := client.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, "q1", q.ID)
	assert.Empty(t, q.CorrectAnswer)

	verdict, err := client.Submit(ctx, "q1", "8")
	require.NoError(t, err)
	assert.False(t, verdict.IsCorrect)
	assert.Equal(t, "$4^2 = 16$", verdict.Explanation)
	assert.Equal(t, "4", verdict.CorrectAnswer)

	srv.SetToday("nope")
	_, err = client.Today(ctx)
	var sErr *question.StoreError
	require.True(t, errors.As(err, &sErr), "got %v", err)
	assert.Equal(t, "No question scheduled for today", sErr.Message)
	assert.True(t, errors.Is(err, question.ErrNotFound))
}

func TestClient_errors(t *testing.T) {
	ctx := context.Background()
	srv := testutil.NewStoreServer(t)
	client := newTestClient(srv.BaseURL())

	srv.Fail("GET /question/admin/all", http.StatusInternalServerError)
	_, err := client.List(ctx)
	var sErr *question.StoreError
	require.True(t, errors.As(err, &sErr), "got %v", err)
	assert.Equal(t, http.StatusInternalServerError, sErr.StatusCode)
	assert.Equal(t, "GET /question/admin/all failed", sErr.Message)

	err = client.Delete(ctx, "missing")
	assert.True(t, errors.Is(err, question.ErrNotFound), "got %v", err)

	down := newTestClient("http://127.0.0.1:1")
	_, err = down.List(ctx)
	assert.Error(t, err)
	assert.False(t, errors.As(err, &sErr), "transport error reported as store error")
}

func TestClient_requestShape(t *testing.T) {
	var gotAuth, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		buf, _ := io.ReadAll(r.Body)
		gotBody = string(buf)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"result": {"isCorrect": true, "explanation": "ok"}}`))
	}))
	defer srv.Close()

	client := NewClient(core.StoreConfig{BaseURL: srv.URL + "/", APIKey: "k3y"})
	verdict, err := client.Submit(context.Background(), "q1", "Paris")
	require.NoError(t, err)
	assert.True(t, verdict.IsCorrect)
	assert.Equal(t, "Bearer k3y", gotAuth)
	assert.JSONEq(t, `{"questionId": "q1", "answer": "Paris"}`, gotBody)
}

func TestUnwrap(t *testing.T) {
	tests := []struct {
		name string
		body string
		keys []string
		want string
	}{
		{name: "bare array", body: ` [1,2] `, keys: []string{"data"}, want: `[1,2]`},
		{name: "data envelope", body: `{"data": [1]}`, keys: []string{"data", "questions"}, want: `[1]`},
		{name: "named envelope", body: `{"questions": [1]}`, keys: []string{"data", "questions"}, want: `[1]`},
		{name: "question text is not an envelope", body: `{"_id": "q1", "question": "Why?"}`, keys: []string{"data", "question"}, want: `{"_id": "q1", "question": "Why?"}`},
		{name: "question envelope", body: `{"question": {"_id": "q1"}}`, keys: []string{"data", "question"}, want: `{"_id": "q1"}`},
		{name: "empty", body: "", keys: []string{"data"}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(unwrap([]byte(tt.body), tt.keys...)))
		})
	}
}
