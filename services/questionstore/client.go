package storesvc

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sajalaxena/edu-Darshi-sub000/core"
	"github.com/Sajalaxena/edu-Darshi-sub000/core/question"
)

const (
	pathAdminAll = "/question/admin/all"
	pathAdmin    = "/question/admin"
	pathToday    = "/question/today"
	pathSubmit   = "/question/submit"
)

// Client talks to the question store REST API.
type Client struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	rest    *rest.Client
	tracer  trace.Tracer
}

var (
	_ question.AdminStore = (*Client)(nil)
	_ question.DailyStore = (*Client)(nil)
)

func NewClient(conf core.StoreConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(conf.BaseURL, "/"),
		apiKey:  conf.APIKey,
		timeout: conf.Timeout,
		rest:    &rest.Client{HTTPClient: &http.Client{}},
		tracer:  otel.Tracer("question-store"),
	}
}

type submitRequest struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
}

func (c *Client) List(ctx context.Context) ([]question.Question, error) {
	body, err := c.do(ctx, "List", rest.Get, pathAdminAll, nil)
	if err != nil {
		return nil, err
	}
	questions := make([]question.Question, 0)
	if err := decode(unwrap(body, "data", "questions"), &questions); err != nil {
		return nil, errors.Wrap(err, "decoding questions")
	}
	return questions, nil
}

func (c *Client) Create(ctx context.Context, q question.Question) (question.Question, error) {
	q.ID = ""
	body, err := c.do(ctx, "Create", rest.Post, pathAdmin, q)
	if err != nil {
		return question.Question{}, err
	}
	return decodeQuestion(body, q)
}

func (c *Client) Update(ctx context.Context, id string, q question.Question) (question.Question, error) {
	q.ID = ""
	body, err := c.do(ctx, "Update", rest.Put, pathAdmin+"/"+url.PathEscape(id), q)
	if err != nil {
		return question.Question{}, err
	}
	q.ID = id
	return decodeQuestion(body, q)
}

func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.do(ctx, "Delete", rest.Delete, pathAdmin+"/"+url.PathEscape(id), nil)
	return err
}

func (c *Client) Today(ctx context.Context) (question.Question, error) {
	body, err := c.do(ctx, "Today", rest.Get, pathToday, nil)
	if err != nil {
		return question.Question{}, err
	}
	var q question.Question
	if err := decode(unwrap(body, "data", "question"), &q); err != nil {
		return question.Question{}, errors.Wrap(err, "decoding question")
	}
	if q.ID == "" {
		return question.Question{}, &question.StoreError{StatusCode: http.StatusNotFound, Message: "no question scheduled for today"}
	}
	return q, nil
}

func (c *Client) Submit(ctx context.Context, questionID, answer string) (question.Verdict, error) {
	body, err := c.do(ctx, "Submit", rest.Post, pathSubmit, submitRequest{QuestionID: questionID, Answer: answer})
	if err != nil {
		return question.Verdict{}, err
	}
	var verdict question.Verdict
	if err := decode(unwrap(body, "data", "result"), &verdict); err != nil {
		return question.Verdict{}, errors.Wrap(err, "decoding verdict")
	}
	return verdict, nil
}

func (c *Client) do(ctx context.Context, op string, method rest.Method, path string, payload interface{}) (_ []byte, err error) {
	ctx, span := c.tracer.Start(ctx, op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", string(method)),
			attribute.String("http.path", path),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	req := rest.Request{
		Method:  method,
		BaseURL: c.baseURL + path,
		Headers: map[string]string{"Accept": "application/json"},
	}
	if c.apiKey != "" {
		req.Headers["Authorization"] = "Bearer " + c.apiKey
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.Wrap(err, "encoding request")
		}
		req.Body = data
		req.Headers["Content-Type"] = "application/json"
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	res, err := c.rest.SendWithContext(ctx, req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	span.SetAttributes(attribute.Int("http.status_code", res.StatusCode))
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, newStoreError(res)
	}
	return []byte(res.Body), nil
}

func newStoreError(res *rest.Response) *question.StoreError {
	sErr := &question.StoreError{StatusCode: res.StatusCode}
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal([]byte(res.Body), &body); err == nil {
		sErr.Message = body.Message
		if sErr.Message == "" {
			sErr.Message = body.Error
		}
	}
	return sErr
}

// decodeQuestion reads a saved question from body. An empty body means the store
// did not echo the record, so fallback is returned.
func decodeQuestion(body []byte, fallback question.Question) (question.Question, error) {
	inner := unwrap(body, "data", "question")
	if len(inner) == 0 {
		return fallback, nil
	}
	q := fallback
	if err := decode(inner, &q); err != nil {
		return question.Question{}, errors.Wrap(err, "decoding question")
	}
	return q, nil
}

// unwrap returns the value under the first of keys whose value is a JSON object or array.
// A body that is not such an envelope is returned as is.
func unwrap(body []byte, keys ...string) []byte {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed
	}
	var env map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return trimmed
	}
	for _, key := range keys {
		inner := bytes.TrimSpace(env[key])
		if len(inner) > 0 && (inner[0] == '{' || inner[0] == '[') {
			return inner
		}
	}
	return trimmed
}

func decode(data []byte, v interface{}) error {
	if len(data) == 0 {
		return errors.New("empty response")
	}
	return json.Unmarshal(data, v)
}
