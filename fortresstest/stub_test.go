package fortresstest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fortressguard/fortress/fortress"
	"github.com/fortressguard/fortress/strength"
)

type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data"`
	Message string `json:"message"`
}

func get[T any](t *testing.T, stub *Stub, target string) (int, envelope[T]) {
	t.Helper()
	rec := httptest.NewRecorder()
	stub.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var env envelope[T]
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("Failed to decode %s: %v (body %q)", target, err, rec.Body.String())
	}
	return rec.Code, env
}

func TestGeneratePasswordDefaults(t *testing.T) {
	stub := New()

	status, env := get[fortress.GeneratePasswordResponse](t, stub, "/api/v1/generate-password")
	if status != http.StatusOK || !env.Success || env.Data == nil {
		t.Fatalf("Expected success, got %d %+v", status, env)
	}
	if len(env.Data.Password) != DefaultLength {
		t.Errorf("Expected default length %d, got %d", DefaultLength, len(env.Data.Password))
	}
	if !env.Data.Params.IncludeSpecial || env.Data.Params.Length != DefaultLength {
		t.Errorf("Expected echoed defaults, got %+v", env.Data.Params)
	}
	if env.Data.Score != strength.Evaluate(env.Data.Password).Score {
		t.Errorf("Expected score to match local evaluation")
	}
	if _, err := time.Parse(TimestampLayout, env.Data.Timestamp); err != nil {
		t.Errorf("Expected ISO timestamp, got %q", env.Data.Timestamp)
	}
}

func TestGeneratePasswordParams(t *testing.T) {
	stub := New()

	_, env := get[fortress.GeneratePasswordResponse](t, stub, "/api/v1/generate-password?length=20&special=false")
	if env.Data == nil {
		t.Fatal("Expected data")
	}
	if len(env.Data.Password) != 20 {
		t.Errorf("Expected length 20, got %d", len(env.Data.Password))
	}
	if strings.ContainsAny(env.Data.Password, specialChars) {
		t.Errorf("Expected no special characters, got %q", env.Data.Password)
	}

	tests := []string{
		"/api/v1/generate-password?length=abc",
		"/api/v1/generate-password?length=4",
		"/api/v1/generate-password?length=500",
		"/api/v1/generate-password?special=maybe",
	}
	for _, target := range tests {
		status, env := get[fortress.GeneratePasswordResponse](t, stub, target)
		if status != http.StatusBadRequest || env.Success || env.Message == "" {
			t.Errorf("Expected 400 with message for %s, got %d %+v", target, status, env)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	stub := New()

	_, weak := get[fortress.ValidatePasswordResponse](t, stub, "/api/v1/validate-password?password=abc")
	if weak.Data == nil || weak.Data.Valid {
		t.Errorf("Expected short password to be invalid, got %+v", weak.Data)
	}
	if weak.Data != nil && weak.Data.Feedback != "Password is too short" {
		t.Errorf("Unexpected feedback %q", weak.Data.Feedback)
	}

	_, strong := get[fortress.ValidatePasswordResponse](t, stub, "/api/v1/validate-password?password=Abcdefghij1%21")
	if strong.Data == nil || !strong.Data.Valid || strong.Data.Strength != "very-strong" {
		t.Errorf("Expected very strong valid password, got %+v", strong.Data)
	}

	_, empty := get[fortress.ValidatePasswordResponse](t, stub, "/api/v1/validate-password")
	if empty.Data == nil || empty.Data.Valid {
		t.Errorf("Expected empty password to be invalid, got %+v", empty.Data)
	}
}

func TestEncryptDecrypt(t *testing.T) {
	stub := New()

	_, enc := get[fortress.EncryptResponse](t, stub, "/api/v1/encrypt-text?text=hello%20world")
	if enc.Data == nil {
		t.Fatal("Expected encrypt data")
	}
	if enc.Data.OriginalLength != 11 || enc.Data.EncryptedLength != len(enc.Data.EncryptedText) {
		t.Errorf("Unexpected lengths %+v", enc.Data)
	}

	text, ok := Decrypt(enc.Data.EncryptedText)
	if !ok || text != "hello world" {
		t.Errorf("Expected round trip, got %q %v", text, ok)
	}

	status, bad := get[fortress.DecryptResponse](t, stub, "/api/v1/decrypt-text?encryptedText=garbage")
	if status != http.StatusBadRequest || bad.Success {
		t.Errorf("Expected 400 for invalid ciphertext, got %d %+v", status, bad)
	}

	status, _ = get[fortress.EncryptResponse](t, stub, "/api/v1/encrypt-text")
	if status != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing text, got %d", status)
	}
}

func TestStatisticsCounters(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	now := start
	stub := New(WithClock(func() time.Time { return now }))

	get[fortress.GeneratePasswordResponse](t, stub, "/api/v1/generate-password")
	get[fortress.ValidatePasswordResponse](t, stub, "/api/v1/validate-password?password=x")
	get[fortress.EncryptResponse](t, stub, "/api/v1/encrypt-text?text=x")
	now = start.Add(90 * time.Second)

	_, env := get[fortress.StatisticsResponse](t, stub, "/api/v1/statistics")
	if env.Data == nil {
		t.Fatal("Expected statistics data")
	}
	if env.Data.PasswordsGenerated != 1 || env.Data.PasswordsValidated != 1 || env.Data.TextEncrypted != 1 {
		t.Errorf("Unexpected counters %+v", env.Data)
	}
	d := env.Data.StrengthDistribution
	if d.Weak+d.Medium+d.Strong+d.VeryStrong != 1 {
		t.Errorf("Expected one password in the distribution, got %+v", d)
	}
	if env.Data.ServerInfo.Uptime != 90 {
		t.Errorf("Expected uptime 90, got %v", env.Data.ServerInfo.Uptime)
	}
	if env.Data.Timestamp != "2026-01-02T03:05:35.000Z" {
		t.Errorf("Unexpected timestamp %q", env.Data.Timestamp)
	}
	if _, ok := env.Data.ServerInfo.MemoryUsage["heapUsed"]; !ok {
		t.Error("Expected heapUsed in memory usage")
	}
}

func TestStatisticsWireKey(t *testing.T) {
	stub := New()
	rec := httptest.NewRecorder()
	stub.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/statistics", nil))

	if !strings.Contains(rec.Body.String(), `"stregthDistribution"`) {
		t.Errorf("Expected stregthDistribution key, got %s", rec.Body.String())
	}
}

func TestOverridesAndRecording(t *testing.T) {
	stub := New()
	stub.Handle("/statistics", RespondJSON(http.StatusBadRequest, map[string]string{"message": "bad input"}))

	status, env := get[fortress.StatisticsResponse](t, stub, "/api/v2/statistics?x=1")
	if status != http.StatusBadRequest || env.Message != "bad input" {
		t.Errorf("Expected override response, got %d %+v", status, env)
	}

	req, ok := stub.LastRequest()
	if !ok {
		t.Fatal("Expected a recorded request")
	}
	if req.Endpoint != "/statistics" || req.Version != "v2" || req.RawQuery != "x=1" {
		t.Errorf("Unexpected recorded request %+v", req)
	}

	stub.Handle("/statistics", nil)
	status, _ = get[fortress.StatisticsResponse](t, stub, "/api/v1/statistics")
	if status != http.StatusOK {
		t.Errorf("Expected default handler after clearing override, got %d", status)
	}

	stub.Reset()
	if len(stub.Requests()) != 0 || stub.Stats().PasswordsGenerated != 0 {
		t.Error("Expected Reset to clear requests and counters")
	}
}

func TestUnknownEndpoint(t *testing.T) {
	stub := New()
	status, env := get[fortress.StatisticsResponse](t, stub, "/api/v1/reset")
	if status != http.StatusNotFound || env.Success {
		t.Errorf("Expected 404 envelope, got %d %+v", status, env)
	}
}

func TestServerAPIConfig(t *testing.T) {
	srv := NewServer()
	defer srv.Close()

	cfg := srv.APIConfig(time.Second)
	resp, err := http.Get(cfg.BuildAPIURL(cfg.Endpoints.Statistics))
	if err != nil {
		t.Fatalf("Expected stub to answer, got %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}
}
