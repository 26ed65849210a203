package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptui/backend"
	"promptui/manager"
	"promptui/submitter"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestHandler(t *testing.T, status int, reply string) *PageHandler {
	t.Helper()
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(upstream.Close)

	m := manager.NewInFlightManager()
	t.Cleanup(m.Shutdown)
	s := submitter.NewPromptSubmitter(backend.NewBackendClient(upstream.URL, 0), m, false)
	return NewPageHandler(s, upstream.URL)
}

func postForm(router http.Handler, prompt string) *httptest.ResponseRecorder {
	form := url.Values{"prompt": {prompt}}
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIndexRendersElements(t *testing.T) {
	h := newTestHandler(t, http.StatusOK, `{"response":"world"}`)
	w := httptest.NewRecorder()
	h.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `id="prompt"`)
	assert.Contains(t, body, `id="response"`)
	assert.Contains(t, body, `id="error"`)
}

func TestSubmitFormWritesResponse(t *testing.T) {
	h := newTestHandler(t, http.StatusOK, `{"response":"world"}`)
	router := h.Router()

	w := postForm(router, "hello")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Equal(t, "hello", h.Document.Prompt.Value())
	assert.Equal(t, "world", h.Document.Response.Text())
	assert.Equal(t, "", h.Document.Error.Text())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, w.Body.String(), `<div id="response">world</div>`)
}

func TestSubmitFormFailureShowsError(t *testing.T) {
	h := newTestHandler(t, http.StatusInternalServerError, `boom`)
	h.Document.Response.SetText("previous")

	w := postForm(h.Router(), "hello")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "previous", h.Document.Response.Text())
	assert.Contains(t, h.Document.Error.Text(), "status")
}

func TestSubmitJSON(t *testing.T) {
	h := newTestHandler(t, http.StatusOK, `{"response":"world"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/submit", strings.NewReader(`{"prompt":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	h.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var out SubmitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "world", out.Response)
	assert.Equal(t, "", h.Document.Response.Text())
}

func TestSubmitJSONFailure(t *testing.T) {
	h := newTestHandler(t, http.StatusOK, `not json`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/submit", strings.NewReader(`{"prompt":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	h.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusBadGateway, w.Code)
	var out ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "parse", out.Kind)
}

func TestSubmitJSONBadPayload(t *testing.T) {
	h := newTestHandler(t, http.StatusOK, `{"response":"world"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/submit", strings.NewReader(`{`))
	req.Header.Set("Content-Type", "application/json")
	h.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPingAndMetrics(t *testing.T) {
	h := newTestHandler(t, http.StatusOK, `{"response":"world"}`)
	router := h.Router()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	postForm(router, "hello")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "promptui_submissions_total")
}

func postJSON(router http.Handler, prompt string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(SubmitPayload{Prompt: prompt})
	req := httptest.NewRequest(http.MethodPost, "/api/submit", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSubmitJSONSupersedeIsPerClient(t *testing.T) {
	arrived := make(chan struct{})
	release := make(chan struct{})
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req backend.QueryRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Prompt == "client-a" {
			close(arrived)
			select {
			case <-release:
			case <-r.Context().Done():
				return
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"response": req.Prompt})
	}))
	defer upstream.Close()

	m := manager.NewInFlightManager()
	defer m.Shutdown()
	s := submitter.NewPromptSubmitter(backend.NewBackendClient(upstream.URL, 0), m, true)
	router := NewPageHandler(s, upstream.URL).Router()

	aDone := make(chan *httptest.ResponseRecorder, 1)
	go func() { aDone <- postJSON(router, "client-a") }()
	<-arrived

	b := postJSON(router, "client-b")
	assert.Equal(t, http.StatusOK, b.Code)
	assert.JSONEq(t, `{"response":"client-b"}`, b.Body.String())

	close(release)
	a := <-aDone
	assert.Equal(t, http.StatusOK, a.Code)
	assert.JSONEq(t, `{"response":"client-a"}`, a.Body.String())
}

type stubSubmitter struct {
	submit func(ctx context.Context, in submitter.Input, out submitter.Output) submitter.Result
}

func (s stubSubmitter) Submit(ctx context.Context, in submitter.Input, out submitter.Output) submitter.Result {
	return s.submit(ctx, in, out)
}

func TestSubmitJSONSupersededIsConflict(t *testing.T) {
	s := stubSubmitter{submit: func(context.Context, submitter.Input, submitter.Output) submitter.Result {
		return submitter.Result{Kind: submitter.KindSuperseded, Err: submitter.ErrSuperseded}
	}}
	w := postJSON(NewPageHandler(s, "http://127.0.0.1:5000/query").Router(), "hello")

	require.Equal(t, http.StatusConflict, w.Code)
	var out ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "superseded", out.Kind)
}

func TestSubmitFormKeepsEachRequestsPrompt(t *testing.T) {
	aStarted := make(chan struct{})
	bStarted := make(chan struct{})
	var mu sync.Mutex
	sent := map[string]string{}

	s := stubSubmitter{submit: func(_ context.Context, in submitter.Input, out submitter.Output) submitter.Result {
		first := in.Value()
		if first == "a" {
			close(aStarted)
			<-bStarted
		} else {
			close(bStarted)
		}
		mu.Lock()
		sent[first] = in.Value()
		mu.Unlock()
		out.SetText(in.Value())
		return submitter.Result{Text: in.Value()}
	}}
	h := NewPageHandler(s, "http://127.0.0.1:5000/query")
	router := h.Router()

	aDone := make(chan struct{})
	go func() {
		postForm(router, "a")
		close(aDone)
	}()
	<-aStarted
	postForm(router, "b")
	<-aDone

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "a", sent["a"])
	assert.Equal(t, "b", sent["b"])
	assert.Equal(t, "b", h.Document.Prompt.Value())
}
