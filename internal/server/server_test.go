package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/uuid"

	"github.com/fortressguard/fortress/client"
	"github.com/fortressguard/fortress/config"
	"github.com/fortressguard/fortress/console"
	"github.com/fortressguard/fortress/fortress"
	"github.com/fortressguard/fortress/fortresstest"
)

var routers = []string{"chi", "stdlib", "gin", "echo", "fiber"}

var testAssets = fstest.MapFS{
	"index.html":    {Data: []byte("<h1>FortressGuard</h1>")},
	"console.html":  {Data: []byte("<h1>Console</h1>")},
	"console.js":    {Data: []byte("console.log('ok')")},
	"api/notes.txt": {Data: []byte("not public")},
}

type testEnv struct {
	server *Server
	stub   *fortresstest.Server
	logs   *bytes.Buffer
}

func newTestEnv(t *testing.T, router string) *testEnv {
	t.Helper()

	stub := fortresstest.NewServer()
	t.Cleanup(stub.Close)

	project := config.DefaultProjectConfig()
	project.Router = router

	logs := &bytes.Buffer{}
	apiCfg := stub.APIConfig(2 * time.Second)
	srv, err := New(Options{
		Project: project,
		API:     fortress.NewService(client.New(apiCfg)),
		APIURL:  apiCfg.BuildAPIURL(""),
		Version: "test",
		Logger:  slog.New(slog.NewJSONHandler(logs, nil)),
		Assets:  testAssets,
	})
	if err != nil {
		t.Fatalf("Expected server for %s, got %v", router, err)
	}
	return &testEnv{server: srv, stub: stub, logs: logs}
}

func (e *testEnv) get(target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatalf("Expected %s cookie, got headers %v", SessionCookie, rec.Header())
	return nil
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("Expected JSON body, got %v (%s)", err, rec.Body.String())
	}
	return v
}

func TestUnsupportedRouter(t *testing.T) {
	project := config.DefaultProjectConfig()
	project.Router = "martini"

	_, err := New(Options{Project: project, API: fortress.NewService(client.New(config.DefaultAPIConfig()))})
	if err == nil || !strings.Contains(err.Error(), "unsupported router") {
		t.Errorf("Expected unsupported router error, got %v", err)
	}
}

func TestNewRequiresAPI(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Error("Expected error without an API")
	}
}

func TestHealth(t *testing.T) {
	for _, router := range routers {
		t.Run(router, func(t *testing.T) {
			env := newTestEnv(t, router)

			rec := env.get("/api/health")
			if rec.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d", rec.Code)
			}

			body := decode[struct {
				Status  string `json:"status"`
				Version string `json:"version"`
				API     string `json:"api"`
			}](t, rec)
			if body.Status != "ok" {
				t.Errorf("Expected status ok, got %q", body.Status)
			}
			if body.Version != "test" {
				t.Errorf("Expected version test, got %q", body.Version)
			}
			if body.API != env.stub.URL+"/api/v1" {
				t.Errorf("Expected api %s/api/v1, got %q", env.stub.URL, body.API)
			}
		})
	}
}

func TestGeneratePasswordKeepsSessionState(t *testing.T) {
	for _, router := range routers {
		t.Run(router, func(t *testing.T) {
			env := newTestEnv(t, router)

			rec := env.get("/api/console/generate-password?length=16&special=false")
			if rec.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			cookie := sessionCookie(t, rec)

			state := decode[console.RequestState[fortress.GeneratePasswordResponse]](t, rec)
			if state.Phase != console.PhaseSuccess || state.Data == nil {
				t.Fatalf("Expected success with data, got %+v", state)
			}
			if len(state.Data.Password) != 16 {
				t.Errorf("Expected 16 character password, got %q", state.Data.Password)
			}

			last, ok := env.stub.LastRequest()
			if !ok || last.RawQuery != "length=16&special=false" {
				t.Errorf("Expected forwarded query length=16&special=false, got %q", last.RawQuery)
			}

			rec = env.get("/api/console/state", cookie)
			snapshot := decode[console.Snapshot](t, rec)
			if snapshot.Password.Data == nil || snapshot.Password.Data.Password != state.Data.Password {
				t.Errorf("Expected session to keep the generated password, got %+v", snapshot.Password)
			}
			if snapshot.Validation.Phase != console.PhaseIdle {
				t.Errorf("Expected validation lane idle, got %s", snapshot.Validation.Phase)
			}
			if env.server.Sessions().Len() != 1 {
				t.Errorf("Expected 1 session, got %d", env.server.Sessions().Len())
			}
		})
	}
}

func TestGeneratePasswordWithoutOptions(t *testing.T) {
	env := newTestEnv(t, "chi")

	env.get("/api/console/generate-password")

	last, ok := env.stub.LastRequest()
	if !ok {
		t.Fatal("Expected a request to reach the API")
	}
	if last.RawQuery != "" {
		t.Errorf("Expected no query string, got %q", last.RawQuery)
	}
}

func TestRejectsInvalidGenerateInput(t *testing.T) {
	env := newTestEnv(t, "chi")

	for _, target := range []string{
		"/api/console/generate-password?length=500",
		"/api/console/generate-password?special=maybe",
	} {
		rec := env.get(target)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("Expected 422 for %s, got %d", target, rec.Code)
		}
	}
	if n := len(env.stub.Requests()); n != 0 {
		t.Errorf("Expected no API calls, got %d", n)
	}
}

func TestLaneOperations(t *testing.T) {
	env := newTestEnv(t, "echo")

	rec := env.get("/api/console/encrypt-text?text=hello")
	cookie := sessionCookie(t, rec)
	enc := decode[console.RequestState[fortress.EncryptResponse]](t, rec)
	if enc.Data == nil || enc.Data.EncryptedText == "" {
		t.Fatalf("Expected encrypted text, got %+v", enc)
	}

	rec = env.get("/api/console/decrypt-text?encryptedText="+url.QueryEscape(enc.Data.EncryptedText), cookie)
	dec := decode[console.RequestState[fortress.DecryptResponse]](t, rec)
	if dec.Data == nil || dec.Data.DecryptedText != "hello" {
		t.Errorf("Expected hello, got %+v", dec)
	}

	rec = env.get("/api/console/validate-password?password=", cookie)
	val := decode[console.RequestState[fortress.ValidatePasswordResponse]](t, rec)
	if val.Phase != console.PhaseSuccess || val.Data == nil || val.Data.Valid {
		t.Errorf("Expected empty password to be invalid, got %+v", val)
	}

	rec = env.get("/api/console/statistics", cookie)
	stats := decode[console.RequestState[fortress.StatisticsResponse]](t, rec)
	if stats.Data == nil || stats.Data.TextEncrypted != 1 {
		t.Errorf("Expected one encryption counted, got %+v", stats.Data)
	}
}

func TestFailureSettlesLane(t *testing.T) {
	env := newTestEnv(t, "gin")
	env.stub.Handle("/statistics", fortresstest.RespondJSON(http.StatusServiceUnavailable, map[string]string{"message": "maintenance"}))

	rec := env.get("/api/console/statistics")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 with failure state, got %d", rec.Code)
	}

	state := decode[console.RequestState[fortress.StatisticsResponse]](t, rec)
	if state.Phase != console.PhaseFailure {
		t.Errorf("Expected failure, got %s", state.Phase)
	}
	if state.Error != "maintenance" {
		t.Errorf("Expected error maintenance, got %q", state.Error)
	}
	if state.Data != nil {
		t.Errorf("Expected no data, got %+v", state.Data)
	}
}

func TestStrength(t *testing.T) {
	env := newTestEnv(t, "stdlib")

	rec := env.get("/api/console/strength?password=Abcdef1!xyzw")
	body := decode[struct {
		Level string `json:"level"`
		Score int    `json:"score"`
	}](t, rec)
	if body.Level != "very-strong" {
		t.Errorf("Expected very-strong, got %q (score %d)", body.Level, body.Score)
	}
	if n := len(env.stub.Requests()); n != 0 {
		t.Errorf("Expected strength to stay local, got %d API calls", n)
	}
}

func TestStaticFallback(t *testing.T) {
	for _, router := range routers {
		t.Run(router, func(t *testing.T) {
			env := newTestEnv(t, router)

			rec := env.get("/")
			if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "FortressGuard") {
				t.Errorf("Expected landing page, got %d %q", rec.Code, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
				t.Errorf("Expected text/html, got %q", ct)
			}

			rec = env.get("/console.js")
			if cc := rec.Header().Get("Cache-Control"); cc != "public, max-age=300" {
				t.Errorf("Expected short cache for unhashed scripts, got %q", cc)
			}

			if rec := env.get("/missing.png"); rec.Code != http.StatusNotFound {
				t.Errorf("Expected 404 for missing asset, got %d", rec.Code)
			}
			if rec := env.get("/api/unknown"); rec.Code != http.StatusNotFound {
				t.Errorf("Expected 404 for unknown API path, got %d", rec.Code)
			}
			if rec := env.get("/api/notes.txt"); rec.Code != http.StatusNotFound {
				t.Errorf("Expected assets under the API prefix to stay hidden, got %d", rec.Code)
			}
		})
	}
}

func TestOpenAPIIsServed(t *testing.T) {
	for _, router := range routers {
		t.Run(router, func(t *testing.T) {
			env := newTestEnv(t, router)

			rec := env.get(OpenAPIPath + ".json")
			if rec.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), "/api/console/generate-password") {
				t.Error("Expected OpenAPI document to list the console operations")
			}
		})
	}
}

func TestRequestIDAndLogging(t *testing.T) {
	env := newTestEnv(t, "chi")

	rec := env.get("/api/health")
	generated := rec.Header().Get(RequestIDHeader)
	if _, err := uuid.Parse(generated); err != nil {
		t.Errorf("Expected generated request id, got %q", generated)
	}

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(RequestIDHeader, incoming)
	rec = httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != incoming {
		t.Errorf("Expected request id %s to be kept, got %s", incoming, got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got == "not-a-uuid" {
		t.Error("Expected invalid request id to be replaced")
	}

	logs := env.logs.String()
	for _, want := range []string{`"msg":"Request completed"`, `"request_id":"` + incoming + `"`, `"path":"/api/health"`, `"status":200`} {
		if !strings.Contains(logs, want) {
			t.Errorf("Expected logs to contain %s, got:\n%s", want, logs)
		}
	}
}

func TestDocsCanBeDisabled(t *testing.T) {
	disabled := false
	project := config.DefaultProjectConfig()
	project.Console.Docs = &disabled

	srv, err := New(Options{Project: project, API: fortress.NewService(client.New(config.DefaultAPIConfig())), Assets: testAssets})
	if err != nil {
		t.Fatalf("Expected server, got %v", err)
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, DocsPath, nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected docs to be disabled, got %d", rec.Code)
	}
}
