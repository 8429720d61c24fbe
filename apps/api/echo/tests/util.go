package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/Sajalaxena/edu-Darshi-sub000/apps/api/echo"
	"github.com/Sajalaxena/edu-Darshi-sub000/core"
	"github.com/Sajalaxena/edu-Darshi-sub000/core/auth"
	"github.com/Sajalaxena/edu-Darshi-sub000/core/question"
	"github.com/Sajalaxena/edu-Darshi-sub000/services/events"
	"github.com/Sajalaxena/edu-Darshi-sub000/services/questionstore"
	"github.com/Sajalaxena/edu-Darshi-sub000/services/quiz"
	"github.com/Sajalaxena/edu-Darshi-sub000/services/session"
	"github.com/Sajalaxena/edu-Darshi-sub000/tests"
)

const adminPassword = "s3cret"

var (
	adminHash string

	errMissingSession = httpErr{Error: "missing or expired session"}
)

type testApp struct {
	app     Server
	store   *testutil.StoreServer
	authSvc *auth.Service
	hub     *eventsvc.Hub
}

type setupOpts struct {
	wrapStore func(question.AdminStore) question.AdminStore
}

func setup(t *testing.T, questions ...question.Question) *testApp {
	return setupWith(t, setupOpts{}, questions...)
}

func setupWith(t *testing.T, opts setupOpts, questions ...question.Question) *testApp {
	t.Helper()
	conf := &core.Config{
		AppName:   "EduDarshi",
		TestMode:  true,
		SecretKey: "secret",
		Auth: core.AuthConfig{
			Username:     "admin",
			PasswordHash: adminHash,
			TokenTTL:     time.Hour,
		},
	}

	// set up services
	srv := testutil.NewStoreServer(t, questions...)
	client := storesvc.NewClient(core.StoreConfig{BaseURL: srv.BaseURL(), Timeout: 5 * time.Second})
	var store question.AdminStore = client
	if opts.wrapStore != nil {
		store = opts.wrapStore(client)
	}
	validate, translator := core.NewValidator()
	question.InitValidators(validate, translator)
	authSvc := auth.NewService(conf, sessionsvc.NewMemorySession())
	hub := eventsvc.NewHub(core.NopLogger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	// set up server
	app := NewServer("", nil, &Deps{
		Conf:       conf,
		Logger:     core.NopLogger,
		Validate:   validate,
		Translator: translator,
		AuthSvc:    authSvc,
		Store:      store,
		DailySvc:   question.NewDailyService(client, quizsvc.NewMemoryStore(time.Hour)),
		Hub:        hub,
	})
	return &testApp{app: app, store: srv, authSvc: authSvc, hub: hub}
}

func (ta *testApp) serve(req *http.Request, rec *httptest.ResponseRecorder) {
	ta.app.ServeHTTP(rec, req)
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, ta *testApp) string {
	token, _, err := ta.authSvc.Login(context.Background(), "admin", adminPassword)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func unmarshal(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		assert.Empty(t, rec.Body.String())
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
