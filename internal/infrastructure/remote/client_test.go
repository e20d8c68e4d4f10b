package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rbadmin/internal/core/apperror"
	appctx "rbadmin/internal/core/context"
	"rbadmin/internal/core/id"
	"rbadmin/internal/core/record"
)

type captured struct {
	Method string
	Path   string
	Auth   string
	ReqID  string
	Body   map[string]any
}

// fakeAPI answers every request with status and body and remembers what it got.
type fakeAPI struct {
	mu     sync.Mutex
	status int
	body   string
	seen   []captured
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c := captured{Method: r.Method, Path: r.URL.EscapedPath(), Auth: r.Header.Get("Authorization"), ReqID: r.Header.Get(appctx.RequestIDHeader)}
	if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
		_ = json.Unmarshal(raw, &c.Body)
	}

	f.mu.Lock()
	f.seen = append(f.seen, c)
	status, body := f.status, f.body
	f.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func (f *fakeAPI) respond(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status, f.body = status, body
}

func (f *fakeAPI) last() captured {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen[len(f.seen)-1]
}

func newTestClient(t *testing.T, api *fakeAPI, reg prometheus.Registerer) *Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL + "/", HTTPClient: srv.Client(), Metrics: NewMetrics(reg)})
	require.NoError(t, err)
	return c
}

func authed() context.Context {
	return appctx.WithSession(context.Background(), &appctx.Session{Token: "tok-123"})
}

func TestList_Envelopes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []id.ID
	}{
		{name: "array", body: `[{"id":1},{"id":2}]`, want: []id.ID{"1", "2"}},
		{name: "items", body: `{"items":[{"id":3}],"total":1}`, want: []id.ID{"3"}},
		{name: "data", body: `{"data":[{"_id":"abc"}]}`, want: []id.ID{"abc"}},
		{name: "empty object", body: `{}`, want: []id.ID{}},
		{name: "empty body", body: ``, want: []id.ID{}},
		{name: "non objects skipped", body: `[1,"x",{"id":4}]`, want: []id.ID{"4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{body: tt.body}
			c := newTestClient(t, api, nil)

			items, err := c.List(authed(), "users")
			require.NoError(t, err)
			assert.Equal(t, tt.want, record.IDs(items))

			got := api.last()
			assert.Equal(t, http.MethodGet, got.Method)
			assert.Equal(t, "/api/v1/admin/users", got.Path)
			assert.Equal(t, "Bearer tok-123", got.Auth)
		})
	}
}

func TestNoTokenNoHeader(t *testing.T) {
	api := &fakeAPI{body: `[]`}
	c := newTestClient(t, api, nil)

	_, err := c.List(context.Background(), "payments")
	require.NoError(t, err)
	assert.Empty(t, api.last().Auth)
	assert.Empty(t, api.last().ReqID)
}

func TestForwardsRequestID(t *testing.T) {
	api := &fakeAPI{body: `[]`}
	c := newTestClient(t, api, nil)

	ctx := appctx.WithTrace(authed(), appctx.NewTrace("req-42", ""))
	_, err := c.List(ctx, "payments")
	require.NoError(t, err)
	assert.Equal(t, "req-42", api.last().ReqID)
}

func TestStatusErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode string
		wantMsg  string
	}{
		{name: "unauthorized", status: 401, body: `{"message":"token expired"}`, wantCode: apperror.CodeUnauthorized, wantMsg: "token expired"},
		{name: "unauthorized bare", status: 401, wantCode: apperror.CodeUnauthorized, wantMsg: "Not authenticated"},
		{name: "not found", status: 404, wantCode: apperror.CodeNotFound, wantMsg: "record not found"},
		{name: "server message", status: 422, body: `{"error":"email already registered"}`, wantCode: apperror.CodeUpstream, wantMsg: "email already registered"},
		{name: "nested message", status: 400, body: `{"error":{"message":"amount must be positive"}}`, wantCode: apperror.CodeUpstream, wantMsg: "amount must be positive"},
		{name: "html body", status: 500, body: `<h1>oops</h1>`, wantCode: apperror.CodeUpstream, wantMsg: "Request to the admin API failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, &fakeAPI{status: tt.status, body: tt.body}, nil)

			_, err := c.List(authed(), "users")
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, tt.wantCode, appErr.Code)
			assert.Equal(t, tt.wantMsg, appErr.Message)
		})
	}
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(Config{BaseURL: url})
	require.NoError(t, err)

	_, err = c.List(context.Background(), "users")
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUpstream, appErr.Code)
	assert.Error(t, appErr.Unwrap())
}

func TestMalformedJSON(t *testing.T) {
	c := newTestClient(t, &fakeAPI{body: `[{"id":`}, nil)

	_, err := c.List(authed(), "users")
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUpstream, appErr.Code)
}

func TestGet(t *testing.T) {
	api := &fakeAPI{body: `{"data":{"id":7,"email":"a@b.c"}}`}
	c := newTestClient(t, api, nil)

	rec, err := c.Get(authed(), "users", "7")
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", rec["email"])
	assert.Equal(t, "/api/v1/admin/resources/users/7", api.last().Path)

	api.respond(http.StatusNotFound, "")
	_, err = c.Get(authed(), "users", "8")
	assert.True(t, apperror.IsNotFound(err))

	api.respond(http.StatusOK, `null`)
	_, err = c.Get(authed(), "users", "9")
	assert.True(t, apperror.IsNotFound(err))
}

func TestPathEscaping(t *testing.T) {
	api := &fakeAPI{}
	c := newTestClient(t, api, nil)

	require.NoError(t, c.Delete(authed(), "users", "a/b c"))
	assert.Equal(t, "/api/v1/admin/users/a%2Fb%20c", api.last().Path)
}

func TestRepo_CRUD(t *testing.T) {
	ctx := authed()
	api := &fakeAPI{body: `{"id":41,"email":"new@x.io"}`, status: http.StatusCreated}
	repo := NewRepo(newTestClient(t, api, nil), "users", "")

	created, err := repo.Create(ctx, record.Record{"id": float64(0), "email": "new@x.io"})
	require.NoError(t, err)
	assert.Equal(t, id.ID("41"), created.ID())
	got := api.last()
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, map[string]any{"email": "new@x.io"}, got.Body)

	api.respond(http.StatusCreated, ``)
	created, err = repo.Create(ctx, record.Record{"email": "quiet@x.io"})
	require.NoError(t, err)
	assert.True(t, created.ID().IsZero())
	assert.Equal(t, "quiet@x.io", created["email"])

	api.respond(http.StatusOK, ``)
	require.NoError(t, repo.Update(ctx, record.Record{"id": float64(41), "email": "renamed@x.io"}))
	got = api.last()
	assert.Equal(t, http.MethodPut, got.Method)
	assert.Equal(t, "/api/v1/admin/users/41", got.Path)
	assert.Equal(t, "renamed@x.io", got.Body["email"])

	api.respond(http.StatusNotFound, ``)
	assert.NoError(t, repo.Delete(ctx, "41"), "already deleted upstream")
	assert.Equal(t, http.MethodDelete, api.last().Method)

	api.respond(http.StatusUnauthorized, ``)
	assert.True(t, apperror.IsUnauthorized(repo.Delete(ctx, "41")))
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	api := &fakeAPI{body: `[]`}
	c := newTestClient(t, api, reg)

	_, _ = c.List(authed(), "users")
	api.respond(http.StatusUnauthorized, ``)
	_, _ = c.List(authed(), "users")

	families, err := reg.Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, mf := range families {
		if mf.GetName() != "rbadmin_admin_api_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "status" {
					counts[l.GetValue()] += m.GetCounter().GetValue()
				}
			}
		}
	}
	assert.Equal(t, map[string]float64{"200": 1, "401": 1}, counts)
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "api.example.com"})
	assert.Error(t, err)
}
