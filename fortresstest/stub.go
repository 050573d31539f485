// Package fortresstest provides an in-memory FortressGuard API for tests and
// local development.
//
// The stub's "encryption" is a reversible encoding, not cryptography.
package fortresstest

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/fortressguard/fortress/fortress"
	"github.com/fortressguard/fortress/strength"
)

const (
	// TimestampLayout matches JavaScript's Date.toISOString.
	TimestampLayout = "2006-01-02T15:04:05.000Z"

	DefaultLength = 12
	MinLength     = 8
	MaxLength     = 128

	cipherPrefix = "fg1."
)

const (
	lowerChars   = "abcdefghijklmnopqrstuvwxyz"
	upperChars   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars   = "0123456789"
	specialChars = "!@#$%^&*()_+-=[]{}|;:,.<>?"
)

// Request is a request the stub received.
type Request struct {
	Method   string
	Path     string
	Endpoint string // path below /api/{version}, e.g. "/statistics"
	Version  string
	Query    url.Values
	RawQuery string
	Header   http.Header
}

// Stats are the stub's usage counters.
type Stats struct {
	PasswordsGenerated int
	PasswordsValidated int
	TextEncrypted      int
	Distribution       fortress.StrengthDistribution
}

// Stub serves the five FortressGuard endpoints under /api/{version}.
type Stub struct {
	router  chi.Router
	logger  *slog.Logger
	now     func() time.Time
	started time.Time

	mu        sync.Mutex
	requests  []Request
	overrides map[string]http.Handler
	stats     Stats
}

// Option customizes a Stub.
type Option func(*Stub)

// WithLogger logs every request the stub serves.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Stub) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock fixes the time source used for timestamps and uptime.
func WithClock(now func() time.Time) Option {
	return func(s *Stub) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Stub with the default endpoint behaviour.
func New(opts ...Option) *Stub {
	s := &Stub{
		logger:    slog.New(slog.DiscardHandler),
		now:       time.Now,
		overrides: map[string]http.Handler{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.started = s.now()

	r := chi.NewRouter()
	r.Use(s.record)
	r.Route("/api/{version}", func(r chi.Router) {
		r.Get("/generate-password", s.endpoint("/generate-password", s.generatePassword))
		r.Get("/validate-password", s.endpoint("/validate-password", s.validatePassword))
		r.Get("/encrypt-text", s.endpoint("/encrypt-text", s.encryptText))
		r.Get("/decrypt-text", s.endpoint("/decrypt-text", s.decryptText))
		r.Get("/statistics", s.endpoint("/statistics", s.statistics))
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "Endpoint not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"success": false, "message": "Method not allowed"})
	})
	s.router = r

	return s
}

func (s *Stub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handle replaces the handler for endpoint (e.g. "/statistics"). A nil
// handler restores the default.
func (s *Stub) Handle(endpoint string, h http.Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h == nil {
		delete(s.overrides, endpoint)
		return
	}
	s.overrides[endpoint] = h
}

// Requests returns a copy of every request received so far.
func (s *Stub) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request, if any.
func (s *Stub) LastRequest() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// Stats returns the current usage counters.
func (s *Stub) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Reset clears recorded requests, counters and overrides.
func (s *Stub) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
	s.overrides = map[string]http.Handler{}
	s.stats = Stats{}
}

func (s *Stub) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := Request{
			Method:   r.Method,
			Path:     r.URL.Path,
			Query:    r.URL.Query(),
			RawQuery: r.URL.RawQuery,
			Header:   r.Header.Clone(),
		}
		if rest, ok := strings.CutPrefix(r.URL.Path, "/api/"); ok {
			if version, endpoint, found := strings.Cut(rest, "/"); found {
				req.Version = version
				req.Endpoint = "/" + endpoint
			}
		}

		s.mu.Lock()
		s.requests = append(s.requests, req)
		s.mu.Unlock()

		s.logger.Debug("stub request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (s *Stub) endpoint(path string, fallback http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		h, ok := s.overrides[path]
		s.mu.Unlock()
		if ok {
			h.ServeHTTP(w, r)
			return
		}
		fallback(w, r)
	}
}

func (s *Stub) timestamp() string {
	return s.now().UTC().Format(TimestampLayout)
}

func (s *Stub) generatePassword(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	length := DefaultLength
	if raw := q.Get("length"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < MinLength || n > MaxLength {
			fail(w, http.StatusBadRequest, "length must be a number between "+strconv.Itoa(MinLength)+" and "+strconv.Itoa(MaxLength))
			return
		}
		length = n
	}

	special := true
	if raw := q.Get("special"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			fail(w, http.StatusBadRequest, "special must be true or false")
			return
		}
		special = b
	}

	password := generate(length, special)
	report := strength.Evaluate(password)

	s.mu.Lock()
	s.stats.PasswordsGenerated++
	switch report.Level {
	case strength.Weak:
		s.stats.Distribution.Weak++
	case strength.Medium:
		s.stats.Distribution.Medium++
	case strength.Strong:
		s.stats.Distribution.Strong++
	case strength.VeryStrong:
		s.stats.Distribution.VeryStrong++
	}
	s.mu.Unlock()

	succeed(w, fortress.GeneratePasswordResponse{
		Password:  password,
		Strength:  string(report.Level),
		Score:     report.Score,
		Timestamp: s.timestamp(),
		Params:    fortress.GenerateParams{Length: length, IncludeSpecial: special},
	})
}

func (s *Stub) validatePassword(w http.ResponseWriter, r *http.Request) {
	password := r.URL.Query().Get("password")
	report := strength.Evaluate(password)

	s.mu.Lock()
	s.stats.PasswordsValidated++
	s.mu.Unlock()

	succeed(w, fortress.ValidatePasswordResponse{
		Valid:     report.Criteria.MinLength && report.Score >= 4,
		Strength:  string(report.Level),
		Score:     report.Score,
		Feedback:  feedback(report),
		Timestamp: s.timestamp(),
	})
}

func (s *Stub) encryptText(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")
	if text == "" {
		fail(w, http.StatusBadRequest, "text is required")
		return
	}

	encrypted := Encrypt(text)

	s.mu.Lock()
	s.stats.TextEncrypted++
	s.mu.Unlock()

	succeed(w, fortress.EncryptResponse{
		EncryptedText:   encrypted,
		OriginalLength:  utf8.RuneCountInString(text),
		EncryptedLength: len(encrypted),
		Timestamp:       s.timestamp(),
	})
}

func (s *Stub) decryptText(w http.ResponseWriter, r *http.Request) {
	encrypted := r.URL.Query().Get("encryptedText")
	if encrypted == "" {
		fail(w, http.StatusBadRequest, "encryptedText is required")
		return
	}

	text, ok := Decrypt(encrypted)
	if !ok {
		fail(w, http.StatusBadRequest, "Invalid encrypted text")
		return
	}

	succeed(w, fortress.DecryptResponse{
		DecryptedText: text,
		Length:        utf8.RuneCountInString(text),
		Timestamp:     s.timestamp(),
	})
}

func (s *Stub) statistics(w http.ResponseWriter, r *http.Request) {
	stats := s.Stats()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	succeed(w, fortress.StatisticsResponse{
		PasswordsGenerated:   stats.PasswordsGenerated,
		PasswordsValidated:   stats.PasswordsValidated,
		TextEncrypted:        stats.TextEncrypted,
		StrengthDistribution: stats.Distribution,
		Timestamp:            s.timestamp(),
		ServerInfo: fortress.ServerInfo{
			Uptime: s.now().Sub(s.started).Seconds(),
			MemoryUsage: map[string]float64{
				"rss":       float64(mem.Sys),
				"heapTotal": float64(mem.HeapSys),
				"heapUsed":  float64(mem.HeapAlloc),
				"external":  float64(mem.StackSys),
			},
			NodeVersion: runtime.Version(),
		},
	})
}

// Encrypt encodes text the way the stub's encrypt-text endpoint does.
func Encrypt(text string) string {
	return cipherPrefix + base64.StdEncoding.EncodeToString([]byte(text))
}

// Decrypt reverses Encrypt.
func Decrypt(encrypted string) (string, bool) {
	payload, ok := strings.CutPrefix(encrypted, cipherPrefix)
	if !ok {
		return "", false
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || !utf8.Valid(raw) {
		return "", false
	}
	return string(raw), true
}

// generate returns a password with at least one character from each
// enabled class.
func generate(length int, special bool) string {
	classes := []string{lowerChars, upperChars, digitChars}
	if special {
		classes = append(classes, specialChars)
	}
	all := strings.Join(classes, "")

	out := make([]byte, 0, length)
	for _, class := range classes {
		out = append(out, class[rand.IntN(len(class))])
	}
	for len(out) < length {
		out = append(out, all[rand.IntN(len(all))])
	}
	rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return string(out)
}

func feedback(report strength.Report) string {
	if report.Level == strength.Empty {
		return "Password is empty"
	}
	if !report.Criteria.MinLength {
		return "Password is too short"
	}

	var missing []string
	if !report.Criteria.Uppercase {
		missing = append(missing, "uppercase letters")
	}
	if !report.Criteria.Lowercase {
		missing = append(missing, "lowercase letters")
	}
	if !report.Criteria.Numbers {
		missing = append(missing, "numbers")
	}
	if !report.Criteria.Special {
		missing = append(missing, "special characters")
	}
	if !report.Criteria.ExtendedLength {
		missing = append(missing, "at least 12 characters")
	}
	if len(missing) == 0 {
		return "Password meets all criteria"
	}
	return "Add " + strings.Join(missing, ", ")
}

func succeed(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": data})
}

func fail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "message": message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
